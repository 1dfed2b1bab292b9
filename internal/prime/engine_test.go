package prime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/contextprime/contextprime/internal/config"
	"github.com/contextprime/contextprime/internal/llm"
	"github.com/contextprime/contextprime/internal/source"
)

// routingCaller answers each pipeline stage by prompt shape. Scoring
// and hierarchy run concurrently, so access is serialized.
type routingCaller struct {
	mu sync.Mutex

	scoreResp string
	scoreErr  error
	hierResp  string
	sumResp   string
	sumErr    error

	scorePrompt string
	hierPrompt  string
	sumPrompt   string
	calls       int
}

func (r *routingCaller) Complete(ctx context.Context, prompt string, history []llm.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	switch {
	case strings.HasPrefix(prompt, "Score the relevance"):
		r.scorePrompt = prompt
		return r.scoreResp, r.scoreErr
	case strings.HasPrefix(prompt, "Analyze this task"):
		r.hierPrompt = prompt
		return r.hierResp, nil
	case strings.HasPrefix(prompt, "Write a 3-5 sentence"):
		r.sumPrompt = prompt
		if r.sumErr != nil {
			return "", r.sumErr
		}
		return r.sumResp, nil
	}
	return "", fmt.Errorf("unrecognized prompt: %.40s", prompt)
}

// isolateHome keeps the default memory paths away from the developer's
// real home directory.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// seedProject lays out a fixture that gathers exactly twelve sources
// in a known discovery order: MEMORY.md, directory_structure,
// README.md, go.mod, then the keyword-matching code files ranked by
// hint (auth.go, middleware.go, routes.go, handlers.go, login.go,
// session.go), then TODO.md and ROADMAP.md. Only the .go files carry
// task keywords.
func seedProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "MEMORY.md", "Lessons: keep configuration in one place.")
	writeFile(t, root, "README.md", "Sample project.")
	writeFile(t, root, "go.mod", "module example.com/sample\n\ngo 1.24\n")
	writeFile(t, root, "auth.go", "package main // auth middleware\n")
	writeFile(t, root, "middleware.go", "package main // middleware chain\n")
	writeFile(t, root, "routes.go", "package main // auth route bug\n")
	writeFile(t, root, "handlers.go", "package main // bug tracker hooks\n")
	writeFile(t, root, "login.go", "package main // checks auth tokens\n")
	writeFile(t, root, "session.go", "package main // session store for auth\n")
	writeFile(t, root, "TODO.md", "- [ ] clean up logging\n")
	writeFile(t, root, "ROADMAP.md", "1. ship version two\n")
	return root
}

func testCaller() *routingCaller {
	return &routingCaller{
		scoreResp: `[
			{"index": 0, "score": 0.9},
			{"index": 1, "score": 0.6},
			{"index": 2, "score": 0.2},
			{"index": 3, "score": 0.2},
			{"index": 4, "score": 0.95},
			{"index": 5, "score": 0.8},
			{"index": 6, "score": 0.3},
			{"index": 7, "score": 0.2},
			{"index": 8, "score": 0.4},
			{"index": 9, "score": 0.3},
			{"index": 10, "score": 0.7},
			{"index": 11, "score": 0.45}
		]`,
		hierResp: `{"immediate": "fix auth bug", "midterm": "harden middleware layer", "final": "ship v2", "confidence": "high"}`,
		sumResp:  "Touch auth.go and middleware.go; the session store is a likely complication.",
	}
}

func testEngine(caller llm.Caller) *Engine {
	return New(config.DefaultConfig(), caller, nil)
}

func primeTask(root string) source.Task {
	return source.Task{Description: "fix the auth middleware bug", ProjectRoot: root}
}

func TestPrime_EndToEnd(t *testing.T) {
	isolateHome(t)
	root := seedProject(t)
	caller := testCaller()

	primed, err := testEngine(caller).Prime(context.Background(), primeTask(root))
	if err != nil {
		t.Fatalf("Prime: %v", err)
	}

	if primed.RequestID == "" {
		t.Error("RequestID is empty")
	}
	if primed.Stats.Gathered != 12 {
		t.Errorf("Stats.Gathered = %d, want 12", primed.Stats.Gathered)
	}
	if primed.Stats.Kept != 5 || primed.Stats.Discarded != 7 {
		t.Errorf("Stats kept/discarded = %d/%d, want 5/7", primed.Stats.Kept, primed.Stats.Discarded)
	}
	if primed.Stats.Budget != 30000 {
		t.Errorf("Stats.Budget = %d, want 30000 (25%% of claude_code)", primed.Stats.Budget)
	}
	if primed.TotalTokens > primed.Stats.Budget {
		t.Errorf("TotalTokens %d exceeds budget %d", primed.TotalTokens, primed.Stats.Budget)
	}

	// Embed order is score-descending with discovery order on ties.
	wantOrder := []string{"auth.go", "MEMORY.md", "middleware.go", "TODO.md", "directory_structure"}
	if len(primed.Sources) != len(wantOrder) {
		t.Fatalf("Sources = %d, want %d", len(primed.Sources), len(wantOrder))
	}
	for i, want := range wantOrder {
		if primed.Sources[i].Name != want {
			t.Errorf("Sources[%d] = %q, want %q", i, primed.Sources[i].Name, want)
		}
	}

	if got := strings.Count(primed.Document, "<source name="); got != 5 {
		t.Errorf("document has %d source boundaries, want 5", got)
	}
	if !strings.Contains(primed.Document, "- **Mid-term:** harden middleware layer") {
		t.Error("document missing inferred mid-term outcome")
	}
	if !strings.Contains(primed.Document, "Read, Write, Edit, Bash, Grep, Glob, WebFetch") {
		t.Error("document missing claude_code tool list")
	}

	// Hierarchy inference works from gathered memory/structure, not
	// from scoring output.
	if !strings.Contains(caller.hierPrompt, "Lessons: keep configuration in one place.") {
		t.Error("hierarchy prompt missing gathered memory content")
	}
	if caller.calls != 3 {
		t.Errorf("model called %d times, want 3 (score, hierarchy, summary)", caller.calls)
	}
}

func TestPrime_ScoringGarbageDegrades(t *testing.T) {
	isolateHome(t)
	root := seedProject(t)
	caller := testCaller()
	caller.scoreResp = "no scores from me"

	primed, err := testEngine(caller).Prime(context.Background(), primeTask(root))
	if err != nil {
		t.Fatalf("Prime: %v", err)
	}
	if primed.Stats.Kept != 0 {
		t.Errorf("Stats.Kept = %d, want 0 after fail-closed scoring", primed.Stats.Kept)
	}
	if strings.Count(primed.Document, "<source name=") != 0 {
		t.Error("fail-closed scoring still embedded sources")
	}
}

func TestPrime_ScoringCallErrorDegrades(t *testing.T) {
	isolateHome(t)
	root := seedProject(t)
	caller := testCaller()
	caller.scoreErr = errors.New("model unavailable")

	primed, err := testEngine(caller).Prime(context.Background(), primeTask(root))
	if err != nil {
		t.Fatalf("Prime: %v", err)
	}
	if primed.Stats.Kept != 0 {
		t.Errorf("Stats.Kept = %d, want 0", primed.Stats.Kept)
	}
}

func TestPrime_HierarchyGarbageDegrades(t *testing.T) {
	isolateHome(t)
	root := seedProject(t)
	caller := testCaller()
	caller.hierResp = "the hierarchy is ineffable"

	primed, err := testEngine(caller).Prime(context.Background(), primeTask(root))
	if err != nil {
		t.Fatalf("Prime: %v", err)
	}
	if primed.Hierarchy.Immediate != primeTask(root).Description {
		t.Errorf("Hierarchy.Immediate = %q, want the task description", primed.Hierarchy.Immediate)
	}
	if primed.Hierarchy.MidTerm != nil || primed.Hierarchy.Final != nil {
		t.Error("degraded hierarchy fabricated upper levels")
	}
}

func TestPrime_AssembleFailureIsFatal(t *testing.T) {
	isolateHome(t)
	root := seedProject(t)
	caller := testCaller()
	caller.sumErr = errors.New("model unavailable")

	_, err := testEngine(caller).Prime(context.Background(), primeTask(root))
	if err == nil {
		t.Fatal("assembly failure must fail the request")
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageAssemble {
		t.Errorf("error = %v, want StageError in %q", err, StageAssemble)
	}
}

func TestPrime_MissingProjectRootReportsGatherStage(t *testing.T) {
	isolateHome(t)

	_, err := testEngine(testCaller()).Prime(context.Background(), primeTask("/nonexistent/project"))
	if err == nil {
		t.Fatal("missing project root must fail")
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageGather {
		t.Errorf("error = %v, want StageError in %q", err, StageGather)
	}
}

func TestPrime_InvalidTaskRejected(t *testing.T) {
	_, err := testEngine(testCaller()).Prime(context.Background(), source.Task{ProjectRoot: "/tmp"})
	if err == nil {
		t.Fatal("empty description must fail")
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageTask {
		t.Errorf("error = %v, want StageError in %q", err, StageTask)
	}
}

func TestPrime_FractionOutOfRangeRejected(t *testing.T) {
	isolateHome(t)
	root := seedProject(t)
	task := primeTask(root)
	task.BudgetFraction = 0.9

	_, err := testEngine(testCaller()).Prime(context.Background(), task)
	if err == nil {
		t.Fatal("fraction 0.9 must be rejected, not clamped")
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageTask {
		t.Errorf("error = %v, want StageError in %q", err, StageTask)
	}
}

func TestPrime_CancelledContext(t *testing.T) {
	isolateHome(t)
	root := seedProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testEngine(testCaller()).Prime(ctx, primeTask(root)); err == nil {
		t.Fatal("cancelled context must abort the request")
	}
}

func TestPrime_DeterministicDocument(t *testing.T) {
	isolateHome(t)
	root := seedProject(t)

	first, err := testEngine(testCaller()).Prime(context.Background(), primeTask(root))
	if err != nil {
		t.Fatalf("first Prime: %v", err)
	}
	second, err := testEngine(testCaller()).Prime(context.Background(), primeTask(root))
	if err != nil {
		t.Fatalf("second Prime: %v", err)
	}
	if first.Document != second.Document {
		t.Error("identical fixture and responses produced different documents")
	}
	if first.RequestID == second.RequestID {
		t.Error("requests share a RequestID")
	}
}

func TestSessionBriefing(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	writeFile(t, root, "MEMORY.md", "Lessons: always run the linter.")
	writeFile(t, root, "README.md", strings.Repeat("r", 900))
	caller := testCaller()

	briefing, err := testEngine(caller).SessionBriefing(context.Background(), root)
	if err != nil {
		t.Fatalf("SessionBriefing: %v", err)
	}

	if !strings.Contains(briefing, "## Project Context (auto-primed at session start)") {
		t.Error("briefing missing header")
	}
	if !strings.Contains(briefing, "### Memory: MEMORY.md\nLessons: always run the linter.") {
		t.Error("briefing missing full memory content")
	}
	if strings.Contains(briefing, strings.Repeat("r", 501)) {
		t.Error("structure source not clipped to preview length")
	}
	if caller.calls != 0 {
		t.Errorf("session briefing made %d model calls, want 0", caller.calls)
	}
}

func TestProjectSummary_MemoryAndStructureOnly(t *testing.T) {
	sources := []source.Source{
		source.New(source.CategoryMemory, "MEMORY.md", "lesson one"),
		source.New(source.CategoryCodeFile, "a.go", "package a"),
		source.New(source.CategoryStructure, "directory_structure", strings.Repeat("d", 900)),
	}

	summary := projectSummary(sources)

	if !strings.Contains(summary, "lesson one") {
		t.Error("summary missing memory content")
	}
	if strings.Contains(summary, "package a") {
		t.Error("summary includes code file content")
	}
	if strings.Contains(summary, strings.Repeat("d", 501)) {
		t.Error("summary source not clipped to preview length")
	}
}

func TestProjectSummary_CapsSourceCount(t *testing.T) {
	var sources []source.Source
	for i := 0; i < 8; i++ {
		sources = append(sources, source.New(source.CategoryMemory, fmt.Sprintf("m%d.md", i), fmt.Sprintf("memo %d", i)))
	}

	summary := projectSummary(sources)

	if !strings.Contains(summary, "memo 4") {
		t.Error("summary missing fifth source")
	}
	if strings.Contains(summary, "memo 5") {
		t.Error("summary includes more than five sources")
	}
}

func TestStageError_Unwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := &StageError{Stage: StageGather, Err: sentinel}

	if !errors.Is(err, sentinel) {
		t.Error("StageError does not unwrap to its cause")
	}
	if got := err.Error(); !strings.Contains(got, "gather") || !strings.Contains(got, "boom") {
		t.Errorf("Error() = %q, want stage and cause", got)
	}
}
