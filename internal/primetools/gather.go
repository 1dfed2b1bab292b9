package primetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/contextprime/contextprime/internal/gather"
	"github.com/contextprime/contextprime/internal/prime"
	"github.com/contextprime/contextprime/internal/source"
)

// previewBytes bounds the per-source content preview in the listing.
const previewBytes = 200

// GatherTool handles the gather_sources MCP tool.
type GatherTool struct {
	engine *prime.Engine
}

// NewGatherTool creates a GatherTool.
func NewGatherTool(engine *prime.Engine) *GatherTool {
	return &GatherTool{engine: engine}
}

// Definition returns the MCP tool definition for gather_sources.
func (t *GatherTool) Definition() mcp.Tool {
	return mcp.NewTool("gather_sources",
		mcp.WithDescription(
			"List the knowledge sources the priming pipeline would gather from a project: "+
				"memory files, directory structure, task-relevant code files, git history, "+
				"and priority notes. No model calls, no scoring. Use this to inspect what "+
				"material is available before priming.",
		),
		mcp.WithString("project",
			mcp.Description("Project directory to gather from (default: server working directory)"),
		),
		mcp.WithString("task",
			mcp.Description("Optional task text; its keywords decide which code files count as relevant"),
		),
	)
}

// Handle processes the gather_sources tool call.
func (t *GatherTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task := source.Task{
		Description: req.GetString("task", ""),
		ProjectRoot: projectArg(req),
	}

	sources, err := t.engine.Gather(ctx, task)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gathering failed: %v", err)), nil
	}
	if len(sources) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No sources gathered from %s.", task.ProjectRoot)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Gathered %d sources (~%d tokens) from %s:\n\n",
		len(sources), gather.TotalTokens(sources), task.ProjectRoot)
	for _, src := range sources {
		fmt.Fprintf(&b, "[%s] %s — %d tokens\n    %s\n\n",
			src.Category, src.Name, src.TokenEstimate, preview(src.Content))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// preview returns the first previewBytes of content on a single line.
func preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	if len(flat) > previewBytes {
		return flat[:previewBytes] + "..."
	}
	return flat
}
