package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/contextprime/contextprime/internal/source"
)

func TestGatherView_ShapesSources(t *testing.T) {
	long := strings.Repeat("x", 500)
	sources := []source.Source{
		source.New(source.CategoryMemory, "MEMORY.md", "remember this"),
		source.New(source.CategoryCodeFile, "auth.go", long),
	}

	view := gatherView("/tmp/proj", sources)

	if view.ProjectDir != "/tmp/proj" {
		t.Errorf("project dir = %q", view.ProjectDir)
	}
	if view.TotalSources != 2 {
		t.Errorf("total sources = %d, want 2", view.TotalSources)
	}
	wantTokens := sources[0].TokenEstimate + sources[1].TokenEstimate
	if view.TotalTokens != wantTokens {
		t.Errorf("total tokens = %d, want %d", view.TotalTokens, wantTokens)
	}

	if view.Sources[0].Category != "memory" || view.Sources[0].Name != "MEMORY.md" {
		t.Errorf("first source = %+v", view.Sources[0])
	}
	if view.Sources[0].Preview != "remember this" {
		t.Errorf("short preview = %q, want full content", view.Sources[0].Preview)
	}
	if len(view.Sources[1].Preview) != gatherPreviewBytes {
		t.Errorf("long preview length = %d, want %d", len(view.Sources[1].Preview), gatherPreviewBytes)
	}
}

func TestGatherView_JSONFieldNames(t *testing.T) {
	view := gatherView("/tmp/proj", []source.Source{
		source.New(source.CategoryHistory, "git_history", "commits"),
	})

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"project_dir"`, `"total_sources"`, `"total_tokens"`, `"sources"`, `"category"`, `"tokens"`, `"preview"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("JSON missing field %s", field)
		}
	}
}
