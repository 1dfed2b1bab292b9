// Package primetools provides the MCP tool handlers for the priming
// pipeline.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (prime.Engine, gather.Gatherer) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Pipeline failures are reported as tool errors, never as Go errors:
// the calling agent should see what went wrong and decide whether to
// retry or proceed unprimed.
package primetools

import (
	"os"

	"github.com/mark3labs/mcp-go/mcp"
)

// floatArg extracts a float argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func floatArg(req mcp.CallToolRequest, key string, defaultVal float64) float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return v
}

// projectArg resolves the project directory argument, falling back to
// the server's working directory when the caller omits it.
func projectArg(req mcp.CallToolRequest) string {
	if dir := req.GetString("project", ""); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
