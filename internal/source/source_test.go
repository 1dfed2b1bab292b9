package source

import (
	"strings"
	"testing"
)

// --- ValidateCategory ---

func TestValidateCategory_AllKnownValid(t *testing.T) {
	for c := range validCategories {
		if err := ValidateCategory(c); err != nil {
			t.Errorf("ValidateCategory(%s) = %v, want nil", c, err)
		}
	}
}

func TestValidateCategory_Unknown(t *testing.T) {
	if err := ValidateCategory("folklore"); err == nil {
		t.Error("ValidateCategory(folklore) = nil, want error")
	}
}

func TestCategoryReserved(t *testing.T) {
	reserved := []Category{CategoryMemory, CategoryPriority}
	general := []Category{CategoryStructure, CategoryCodeFile, CategoryHistory, CategoryExternal}

	for _, c := range reserved {
		if !c.Reserved() {
			t.Errorf("%s.Reserved() = false, want true", c)
		}
	}
	for _, c := range general {
		if c.Reserved() {
			t.Errorf("%s.Reserved() = true, want false", c)
		}
	}
}

// --- ParseConfidence ---

func TestParseConfidence_KnownValues(t *testing.T) {
	if got := ParseConfidence("high"); got != ConfidenceHigh {
		t.Errorf("ParseConfidence(high) = %s, want high", got)
	}
	if got := ParseConfidence("medium"); got != ConfidenceMedium {
		t.Errorf("ParseConfidence(medium) = %s, want medium", got)
	}
	if got := ParseConfidence("low"); got != ConfidenceLow {
		t.Errorf("ParseConfidence(low) = %s, want low", got)
	}
}

func TestParseConfidence_UnknownDefaultsToLow(t *testing.T) {
	for _, s := range []string{"", "certain", "HIGH", "very high"} {
		if got := ParseConfidence(s); got != ConfidenceLow {
			t.Errorf("ParseConfidence(%q) = %s, want low", s, got)
		}
	}
}

// --- Source ---

func TestNew_ComputesTokenEstimate(t *testing.T) {
	src := New(CategoryCodeFile, "main.go", strings.Repeat("x", 400))
	if src.TokenEstimate != 100 {
		t.Errorf("TokenEstimate = %d, want 100", src.TokenEstimate)
	}
	if src.Scored() {
		t.Error("new source reports Scored() = true, want false")
	}
}

func TestSetScore_FirstWriteWins(t *testing.T) {
	src := New(CategoryMemory, "MEMORY.md", "lessons")
	src.SetScore(0.8)
	src.SetScore(0.1)
	if got := src.ScoreValue(); got != 0.8 {
		t.Errorf("ScoreValue after second SetScore = %v, want 0.8", got)
	}
}

func TestSetScore_ClampsToUnitInterval(t *testing.T) {
	low := New(CategoryMemory, "a", "x")
	low.SetScore(-3)
	if got := low.ScoreValue(); got != 0 {
		t.Errorf("ScoreValue(-3 clamped) = %v, want 0", got)
	}

	high := New(CategoryMemory, "b", "x")
	high.SetScore(17)
	if got := high.ScoreValue(); got != 1 {
		t.Errorf("ScoreValue(17 clamped) = %v, want 1", got)
	}
}

func TestScoreValue_UnscoredIsZero(t *testing.T) {
	src := New(CategoryHistory, "git log", "abc123 fix")
	if got := src.ScoreValue(); got != 0 {
		t.Errorf("ScoreValue unscored = %v, want 0", got)
	}
}

// --- Task ---

func TestTaskValidate_Valid(t *testing.T) {
	task := Task{Description: "add retry to uploader", ProjectRoot: "/tmp/proj", Platform: "claude_code"}
	if err := task.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestTaskValidate_EmptyDescription(t *testing.T) {
	task := Task{Description: "   ", ProjectRoot: "/tmp/proj"}
	if err := task.Validate(); err == nil {
		t.Error("Validate() with blank description = nil, want error")
	}
}

func TestTaskValidate_EmptyProjectRoot(t *testing.T) {
	task := Task{Description: "fix bug"}
	if err := task.Validate(); err == nil {
		t.Error("Validate() with empty project root = nil, want error")
	}
}

func TestTaskValidate_ZeroFractionMeansDefault(t *testing.T) {
	task := Task{Description: "fix bug", ProjectRoot: "/tmp/proj"}
	if err := task.Validate(); err != nil {
		t.Errorf("Validate() with zero fraction = %v, want nil", err)
	}
}

func TestValidateBudgetFraction_Bounds(t *testing.T) {
	for _, f := range []float64{0.1, 0.25, 0.4} {
		if err := ValidateBudgetFraction(f); err != nil {
			t.Errorf("ValidateBudgetFraction(%v) = %v, want nil", f, err)
		}
	}
	for _, f := range []float64{0.05, 0.41, 0.9, -0.2} {
		if err := ValidateBudgetFraction(f); err == nil {
			t.Errorf("ValidateBudgetFraction(%v) = nil, want error", f)
		}
	}
}

// --- SelectedSet ---

func TestSelectedSet_ByCategory(t *testing.T) {
	set := SelectedSet{
		Selected: []Source{
			{Category: CategoryMemory, Name: "MEMORY.md"},
			{Category: CategoryCodeFile, Name: "a.go"},
			{Category: CategoryCodeFile, Name: "b.go"},
		},
	}
	groups := set.ByCategory()
	if len(groups[CategoryMemory]) != 1 {
		t.Errorf("memory group = %d sources, want 1", len(groups[CategoryMemory]))
	}
	if len(groups[CategoryCodeFile]) != 2 {
		t.Errorf("code_file group = %d sources, want 2", len(groups[CategoryCodeFile]))
	}
	if groups[CategoryCodeFile][0].Name != "a.go" {
		t.Errorf("code_file group order: got %s first, want a.go", groups[CategoryCodeFile][0].Name)
	}
}

func TestSelectedSet_Excluded(t *testing.T) {
	set := SelectedSet{
		Scored: []Source{
			{Name: "a.go"}, {Name: "b.go"}, {Name: "c.go"},
		},
		Selected: []Source{{Name: "b.go"}},
	}
	excluded := set.Excluded()
	if len(excluded) != 2 {
		t.Fatalf("Excluded() = %d sources, want 2", len(excluded))
	}
	if excluded[0].Name != "a.go" || excluded[1].Name != "c.go" {
		t.Errorf("Excluded() order = %s, %s; want a.go, c.go", excluded[0].Name, excluded[1].Name)
	}
}

// --- FallbackHierarchy ---

func TestFallbackHierarchy_NoFabrication(t *testing.T) {
	h := FallbackHierarchy("migrate the cache to redis")
	if h.Immediate != "migrate the cache to redis" {
		t.Errorf("Immediate = %q, want the task description", h.Immediate)
	}
	if h.MidTerm != nil || h.Final != nil {
		t.Error("fallback hierarchy has non-nil mid-term or final outcome")
	}
	if h.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %s, want low", h.Confidence)
	}
}

// --- EstimateTokens ---

func TestEstimateTokens_Empty(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(\"\") = %d, want 0", got)
	}
}

func TestEstimateTokens_ShortNonEmptyIsAtLeastOne(t *testing.T) {
	if got := EstimateTokens("abc"); got != 1 {
		t.Errorf("EstimateTokens(abc) = %d, want 1", got)
	}
}

func TestEstimateTokens_CharsOverFour(t *testing.T) {
	if got := EstimateTokens(strings.Repeat("a", 4000)); got != 1000 {
		t.Errorf("EstimateTokens(4000 chars) = %d, want 1000", got)
	}
}

func TestEstimateTokens_Monotonic(t *testing.T) {
	prev := 0
	for _, n := range []int{1, 10, 100, 1000, 10000} {
		got := EstimateTokens(strings.Repeat("x", n))
		if got < prev {
			t.Errorf("EstimateTokens not monotonic: %d chars -> %d, previous %d", n, got, prev)
		}
		prev = got
	}
}
