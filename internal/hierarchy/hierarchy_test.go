package hierarchy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/contextprime/contextprime/internal/llm"
	"github.com/contextprime/contextprime/internal/source"
)

// stubCaller scripts one model response.
type stubCaller struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (s *stubCaller) Complete(ctx context.Context, prompt string, history []llm.Message) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testTask() source.Task {
	return source.Task{Description: "add retry backoff to the uploader", ProjectRoot: "/tmp/p"}
}

func infer(t *testing.T, caller *stubCaller) source.OutcomeHierarchy {
	t.Helper()
	h := NewInferrer(caller, 0, nil)
	hier, err := h.Infer(context.Background(), testTask(), "A file sync tool.")
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	return hier
}

func TestInfer_AppliesModelResponse(t *testing.T) {
	caller := &stubCaller{response: `{
		"immediate": "Add exponential backoff to upload retries",
		"midterm": "Make sync reliable on flaky networks",
		"final": "Users trust the tool with their data",
		"reasoning": "Retries serve reliability",
		"confidence": "high"
	}`}

	hier := infer(t, caller)

	if hier.Immediate != "Add exponential backoff to upload retries" {
		t.Errorf("Immediate = %q", hier.Immediate)
	}
	if hier.MidTerm == nil || *hier.MidTerm != "Make sync reliable on flaky networks" {
		t.Errorf("MidTerm = %v", hier.MidTerm)
	}
	if hier.Final == nil || *hier.Final != "Users trust the tool with their data" {
		t.Errorf("Final = %v", hier.Final)
	}
	if hier.Confidence != source.ConfidenceHigh {
		t.Errorf("Confidence = %s, want high", hier.Confidence)
	}
	if hier.Reasoning != "Retries serve reliability" {
		t.Errorf("Reasoning = %q", hier.Reasoning)
	}
}

func TestInfer_LowConfidenceStripsUpperLevels(t *testing.T) {
	caller := &stubCaller{response: `{
		"immediate": "Add backoff",
		"midterm": "Probably reliability work",
		"final": "Maybe a release",
		"confidence": "low"
	}`}

	hier := infer(t, caller)

	if hier.MidTerm != nil || hier.Final != nil {
		t.Errorf("low confidence kept upper levels: mid=%v final=%v", hier.MidTerm, hier.Final)
	}
	if hier.Immediate != "Add backoff" {
		t.Errorf("Immediate = %q, want the model's answer", hier.Immediate)
	}
}

func TestInfer_UnknownConfidenceNormalizesToLow(t *testing.T) {
	caller := &stubCaller{response: `{
		"immediate": "Add backoff",
		"midterm": "Reliability",
		"confidence": "very sure"
	}`}

	hier := infer(t, caller)

	if hier.Confidence != source.ConfidenceLow {
		t.Errorf("Confidence = %s, want low", hier.Confidence)
	}
	if hier.MidTerm != nil {
		t.Errorf("MidTerm = %v, want nil after normalizing to low", hier.MidTerm)
	}
}

func TestInfer_MediumConfidenceKeepsLevels(t *testing.T) {
	caller := &stubCaller{response: `{
		"immediate": "Add backoff",
		"midterm": "Reliability",
		"confidence": "medium"
	}`}

	hier := infer(t, caller)

	if hier.Confidence != source.ConfidenceMedium {
		t.Errorf("Confidence = %s, want medium", hier.Confidence)
	}
	if hier.MidTerm == nil {
		t.Error("MidTerm stripped at medium confidence")
	}
}

func TestInfer_FallbackOnUnparseableResponse(t *testing.T) {
	caller := &stubCaller{response: "I would rather describe the hierarchy in prose."}

	hier := infer(t, caller)

	if hier.Immediate != testTask().Description {
		t.Errorf("Immediate = %q, want the task description", hier.Immediate)
	}
	if hier.Confidence != source.ConfidenceLow {
		t.Errorf("Confidence = %s, want low", hier.Confidence)
	}
	if hier.MidTerm != nil || hier.Final != nil {
		t.Error("fallback hierarchy carries upper levels")
	}
}

func TestInfer_FallbackOnMalformedJSON(t *testing.T) {
	caller := &stubCaller{response: `{"immediate": }`}

	hier := infer(t, caller)

	if hier.Immediate != testTask().Description {
		t.Errorf("Immediate = %q, want the task description", hier.Immediate)
	}
}

func TestInfer_FallbackOnCallError(t *testing.T) {
	caller := &stubCaller{err: errors.New("connection refused")}

	h := NewInferrer(caller, 0, nil)
	hier, err := h.Infer(context.Background(), testTask(), "")
	if err != nil {
		t.Fatalf("call failure should degrade, not error, got: %v", err)
	}
	if hier.Immediate != testTask().Description || hier.Confidence != source.ConfidenceLow {
		t.Errorf("fallback = %+v", hier)
	}
}

func TestInfer_CancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	caller := &stubCaller{response: "{}"}
	h := NewInferrer(caller, 0, nil)
	_, err := h.Infer(ctx, testTask(), "")
	if err == nil {
		t.Fatal("cancelled context should abort inference")
	}
	if caller.calls != 0 {
		t.Errorf("model called %d times after cancellation, want 0", caller.calls)
	}
}

func TestInfer_NullAndLiteralNullLevelsAbsent(t *testing.T) {
	caller := &stubCaller{response: `{
		"immediate": "Add backoff",
		"midterm": null,
		"final": "null",
		"confidence": "high"
	}`}

	hier := infer(t, caller)

	if hier.MidTerm != nil {
		t.Errorf("MidTerm = %v, want nil for JSON null", hier.MidTerm)
	}
	if hier.Final != nil {
		t.Errorf("Final = %v, want nil for literal \"null\"", hier.Final)
	}
}

func TestInfer_EmptyImmediateFallsBackToTask(t *testing.T) {
	caller := &stubCaller{response: `{"immediate": "  ", "confidence": "high"}`}

	hier := infer(t, caller)

	if hier.Immediate != testTask().Description {
		t.Errorf("Immediate = %q, want the task description", hier.Immediate)
	}
}

func TestInfer_ParsesFencedResponse(t *testing.T) {
	caller := &stubCaller{response: "Here you go:\n```json\n{\"immediate\": \"Add backoff\", \"confidence\": \"high\"}\n```"}

	hier := infer(t, caller)

	if hier.Immediate != "Add backoff" {
		t.Errorf("Immediate = %q, want the fenced answer", hier.Immediate)
	}
}

func TestInfer_PromptCarriesTaskAndSummary(t *testing.T) {
	caller := &stubCaller{response: `{"immediate": "x", "confidence": "low"}`}

	h := NewInferrer(caller, 0, nil)
	if _, err := h.Infer(context.Background(), testTask(), "A CLI for syncing files."); err != nil {
		t.Fatalf("Infer: %v", err)
	}

	if !strings.Contains(caller.prompt, testTask().Description) {
		t.Error("prompt missing task description")
	}
	if !strings.Contains(caller.prompt, "A CLI for syncing files.") {
		t.Error("prompt missing project summary")
	}
}

func TestBuildHierarchyPrompt_TruncatesSummary(t *testing.T) {
	long := strings.Repeat("s", summaryByteCap+1000)

	prompt := buildHierarchyPrompt("task", long)

	if strings.Contains(prompt, long) {
		t.Error("prompt embeds untruncated summary")
	}
	if !strings.Contains(prompt, strings.Repeat("s", summaryByteCap)+"\n... [truncated]") {
		t.Error("prompt missing truncation marker")
	}
}
