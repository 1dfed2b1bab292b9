package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/contextprime/contextprime/internal/source"
)

func TestPrimeView_CarriesStructuredPieces(t *testing.T) {
	mid := "harden the request path"
	p := &source.PrimedContext{
		RequestID: "req-123",
		Hierarchy: source.OutcomeHierarchy{
			Immediate:  "fix the auth bug",
			MidTerm:    &mid,
			Confidence: source.ConfidenceMedium,
		},
		Document: "# Primed Context\n\nbody",
		Sources: []source.Source{
			source.New(source.CategoryMemory, "MEMORY.md", "lessons"),
			source.New(source.CategoryCodeFile, "auth.go", "package main"),
		},
		Stats: source.Stats{Gathered: 8, Kept: 2, Discarded: 6, Budget: 30000},
	}

	view := primeView(p)

	if view.RequestID != "req-123" {
		t.Errorf("request id = %q", view.RequestID)
	}
	if view.Document != p.Document {
		t.Errorf("document not carried through")
	}
	if view.Hierarchy.Immediate != "fix the auth bug" {
		t.Errorf("hierarchy immediate = %q", view.Hierarchy.Immediate)
	}
	if view.Stats.Kept != 2 || view.Stats.Discarded != 6 {
		t.Errorf("stats = %+v", view.Stats)
	}
	// Sources are reported by name, in embed order.
	if len(view.SourcesUsed) != 2 {
		t.Fatalf("sources used = %v", view.SourcesUsed)
	}
	if view.SourcesUsed[0] != "MEMORY.md" || view.SourcesUsed[1] != "auth.go" {
		t.Errorf("sources used order = %v", view.SourcesUsed)
	}
}

func TestPrimeView_JSONFieldNames(t *testing.T) {
	view := primeView(&source.PrimedContext{RequestID: "r"})

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"request_id"`, `"document"`, `"hierarchy"`, `"stats"`, `"sources_used"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("JSON missing field %s", field)
		}
	}
}
