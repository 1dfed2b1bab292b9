package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/contextprime/contextprime/internal/config"
)

func makeReadReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func textOf(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("contents length = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T, want TextResourceContents", contents[0])
	}
	return tc
}

func TestConfigResource_Definition(t *testing.T) {
	h := NewHandler(config.DefaultConfig())
	res := h.ConfigResource()

	if res.URI != "contextprime://config" {
		t.Errorf("URI = %q, want contextprime://config", res.URI)
	}
	if res.MIMEType != "application/yaml" {
		t.Errorf("MIME type = %q, want application/yaml", res.MIMEType)
	}
}

func TestHandleConfig_RendersEffectiveYAML(t *testing.T) {
	h := NewHandler(config.DefaultConfig())

	contents, err := h.HandleConfig(context.Background(), makeReadReq("contextprime://config"))
	if err != nil {
		t.Fatalf("HandleConfig: %v", err)
	}

	tc := textOf(t, contents)
	if tc.URI != "contextprime://config" {
		t.Errorf("URI = %q", tc.URI)
	}
	if !strings.Contains(tc.Text, "provider: anthropic") {
		t.Errorf("expected model provider in YAML, got:\n%s", tc.Text)
	}
	if !strings.Contains(tc.Text, "platform: claude_code") {
		t.Error("expected default platform in YAML")
	}
	if !strings.Contains(tc.Text, "threshold: 0.5") {
		t.Error("expected threshold in YAML")
	}
}

func TestPlatformsResource_Definition(t *testing.T) {
	h := NewHandler(config.DefaultConfig())
	res := h.PlatformsResource()

	if res.URI != "contextprime://platforms" {
		t.Errorf("URI = %q, want contextprime://platforms", res.URI)
	}
	if res.MIMEType != "application/json" {
		t.Errorf("MIME type = %q, want application/json", res.MIMEType)
	}
}

func TestHandlePlatforms_ComputesBudgets(t *testing.T) {
	h := NewHandler(config.DefaultConfig())

	contents, err := h.HandlePlatforms(context.Background(), makeReadReq("contextprime://platforms"))
	if err != nil {
		t.Fatalf("HandlePlatforms: %v", err)
	}

	tc := textOf(t, contents)
	var table map[string]struct {
		ContextTokens int      `json:"context_tokens"`
		PrimingBudget int      `json:"priming_budget"`
		Tools         []string `json:"tools"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &table); err != nil {
		t.Fatalf("platform table not valid JSON: %v", err)
	}

	cc, ok := table["claude_code"]
	if !ok {
		t.Fatal("missing claude_code entry")
	}
	if cc.ContextTokens != 120000 {
		t.Errorf("claude_code context = %d, want 120000", cc.ContextTokens)
	}
	// 120000 × default fraction 0.25
	if cc.PrimingBudget != 30000 {
		t.Errorf("claude_code priming budget = %d, want 30000", cc.PrimingBudget)
	}
	if len(cc.Tools) == 0 {
		t.Error("claude_code should list tools")
	}

	if _, ok := table["gemini_cli"]; !ok {
		t.Error("missing gemini_cli entry")
	}
}
