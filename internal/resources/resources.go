// Package resources implements the MCP resource handlers: read-only
// views of the effective configuration and the platform budget table,
// addressed as contextprime:// URIs.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/contextprime/contextprime/internal/config"
)

// Handler serves the configuration resources. The config is resolved
// once at server start; a restart picks up file changes.
type Handler struct {
	cfg *config.Config
}

// NewHandler creates a resource Handler.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// ConfigResource returns the resource definition for the effective
// configuration.
func (h *Handler) ConfigResource() mcp.Resource {
	return mcp.NewResource(
		"contextprime://config",
		"Effective Configuration",
		mcp.WithResourceDescription("The merged priming configuration: model, budget, gather bounds, timeouts"),
		mcp.WithMIMEType("application/yaml"),
	)
}

// HandleConfig renders the effective configuration as YAML.
func (h *Handler) HandleConfig(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := h.cfg.RenderYAML()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/yaml",
			Text:     text,
		},
	}, nil
}

// PlatformsResource returns the resource definition for the platform
// budget table.
func (h *Handler) PlatformsResource() mcp.Resource {
	return mcp.NewResource(
		"contextprime://platforms",
		"Platform Budget Table",
		mcp.WithResourceDescription("Usable context tokens and tool inventory per target platform"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandlePlatforms returns the platform table as JSON, with the computed
// priming budget per platform alongside the raw context size.
func (h *Handler) HandlePlatforms(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type platformEntry struct {
		ContextTokens int      `json:"context_tokens"`
		PrimingBudget int      `json:"priming_budget"`
		Tools         []string `json:"tools,omitempty"`
	}

	table := make(map[string]platformEntry, len(h.cfg.Platforms))
	for name, p := range h.cfg.Platforms {
		budget, err := h.cfg.BudgetTokens(name, 0)
		if err != nil {
			return errorResource(req.Params.URI, err.Error()), nil
		}
		table[name] = platformEntry{
			ContextTokens: p.ContextTokens,
			PrimingBudget: budget,
			Tools:         p.Tools,
		}
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling platform table: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
