// Package source defines the data model shared by every stage of the
// context priming pipeline: the task being primed for, the knowledge
// sources harvested from a project, scored selections under a token
// budget, the inferred outcome hierarchy, and the final primed context.
//
// The pipeline packages (gather, score, hierarchy, assemble, prime)
// communicate exclusively through these types. Sources are created by
// the gatherer, scored exactly once, consumed by the assembler, and
// discarded with the request.
package source

import "fmt"

// --- Category enum ---

// Category identifies the kind of knowledge a source carries. The
// category decides which budget pool a source draws from and how it is
// labeled in the assembled document.
type Category string

const (
	CategoryMemory    Category = "memory"             // accumulated lessons and project memory
	CategoryStructure Category = "codebase_structure" // directory layout and key manifests
	CategoryCodeFile  Category = "code_file"          // individual source files
	CategoryPriority  Category = "priority"           // TODO/ROADMAP-style priority notes
	CategoryHistory   Category = "history"            // commit log, branch state, recent diffs
	CategoryExternal  Category = "external"           // explicitly configured extra material
)

// validCategories is the set of recognized source categories.
var validCategories = map[Category]bool{
	CategoryMemory:    true,
	CategoryStructure: true,
	CategoryCodeFile:  true,
	CategoryPriority:  true,
	CategoryHistory:   true,
	CategoryExternal:  true,
}

// ValidateCategory returns an error if the category is not recognized.
func ValidateCategory(c Category) error {
	if !validCategories[c] {
		return fmt.Errorf("invalid source category %q: must be one of: memory, codebase_structure, code_file, priority, history, external", c)
	}
	return nil
}

// Reserved reports whether the category is funded from the reserved
// budget pool. Memory and priority sources are protected from being
// crowded out by bulkier code and history material.
func (c Category) Reserved() bool {
	return c == CategoryMemory || c == CategoryPriority
}

// --- Confidence enum ---

// Confidence grades how certain the hierarchy inference is about the
// mid-term and final outcomes it produced.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ParseConfidence normalizes a confidence string, defaulting to low for
// empty or unrecognized values. Low is the safe floor: it suppresses
// speculative outcomes rather than presenting them as established.
func ParseConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceMedium, ConfidenceHigh:
		return Confidence(s)
	default:
		return ConfidenceLow
	}
}

// --- Source ---

// Source is one unit of gathered knowledge: a memory file, a code file,
// a rendered directory tree, a git summary. Content is untrusted text;
// the assembler escapes it before embedding.
type Source struct {
	Category      Category `json:"category"`
	Name          string   `json:"name"`    // stable identifier, usually a relative path
	Content       string   `json:"content"` // raw text, possibly truncated by the gatherer
	TokenEstimate int      `json:"token_estimate"`
	Order         int      `json:"order"` // discovery position; ties between equal scores break on it
	Score         *float64 `json:"score,omitempty"`
}

// New builds a Source with its token estimate computed from content.
// The discovery order is assigned by the gatherer once all sub-gatherers
// have reported.
func New(category Category, name, content string) Source {
	return Source{
		Category:      category,
		Name:          name,
		Content:       content,
		TokenEstimate: EstimateTokens(content),
	}
}

// SetScore records the relevance score, clamped to [0, 1]. A source is
// scored at most once; later calls are ignored so a retry can never
// overwrite the value the selection was computed from.
func (s *Source) SetScore(v float64) {
	if s.Score != nil {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.Score = &v
}

// Scored reports whether a relevance score has been assigned.
func (s *Source) Scored() bool {
	return s.Score != nil
}

// ScoreValue returns the assigned score, or 0 when unscored.
func (s *Source) ScoreValue() float64 {
	if s.Score == nil {
		return 0
	}
	return *s.Score
}
