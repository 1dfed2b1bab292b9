package primetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/contextprime/contextprime/internal/prime"
	"github.com/contextprime/contextprime/internal/source"
)

// PrimeTool handles the prime_context MCP tool.
type PrimeTool struct {
	engine *prime.Engine
}

// NewPrimeTool creates a PrimeTool.
func NewPrimeTool(engine *prime.Engine) *PrimeTool {
	return &PrimeTool{engine: engine}
}

// Definition returns the MCP tool definition for prime_context.
func (t *PrimeTool) Definition() mcp.Tool {
	return mcp.NewTool("prime_context",
		mcp.WithDescription(
			"Build a primed context briefing for a task: gather project sources "+
				"(memory, structure, code, history, priorities), score them for relevance, "+
				"infer the outcome hierarchy, and assemble a budget-fitted document. "+
				"Use the result as working context before starting the task.",
		),
		mcp.WithString("task",
			mcp.Required(),
			mcp.Description("The task to prime for, in plain language"),
		),
		mcp.WithString("project",
			mcp.Description("Project directory to gather from (default: server working directory)"),
		),
		mcp.WithString("platform",
			mcp.Description("Target platform deciding the context budget: claude_code, claude_api, opencode, gemini_cli, codex_cli (default: configured platform)"),
		),
		mcp.WithNumber("budget_fraction",
			mcp.Description("Fraction of the platform context window to spend on priming, 0.1-0.4 (default: configured fraction)"),
		),
	)
}

// Handle processes the prime_context tool call. The result text is the
// briefing document itself so the caller can inject it directly.
func (t *PrimeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskText := req.GetString("task", "")
	if taskText == "" {
		return mcp.NewToolResultError("'task' is required"), nil
	}

	task := source.Task{
		Description:    taskText,
		ProjectRoot:    projectArg(req),
		Platform:       req.GetString("platform", ""),
		BudgetFraction: floatArg(req, "budget_fraction", 0),
	}

	primed, err := t.engine.Prime(ctx, task)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("priming failed: %v", err)), nil
	}

	return mcp.NewToolResultText(primed.Document), nil
}
