// Package hierarchy infers the outcome chain behind a task: the
// immediate outcome the task delivers, the milestone it serves, and
// the larger goal the project is driving toward.
//
// Inference is one model call and the model grades its own confidence.
// That grade is passed through rather than re-derived, with one hard
// rule: a low-confidence answer keeps only the immediate level, so the
// briefing never presents a guessed purpose chain as fact. A failed or
// unparseable call degrades to the literal task description.
package hierarchy

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/contextprime/contextprime/internal/llm"
	"github.com/contextprime/contextprime/internal/source"
)

// defaultCallTimeout bounds the inference model call.
const defaultCallTimeout = 8 * time.Second

// Inferrer infers an outcome hierarchy with one model call.
type Inferrer struct {
	caller      llm.Caller
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewInferrer creates an Inferrer. Zero timeout falls back to the
// default; a nil logger falls back to slog.Default().
func NewInferrer(caller llm.Caller, callTimeout time.Duration, logger *slog.Logger) *Inferrer {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Inferrer{caller: caller, callTimeout: callTimeout, logger: logger}
}

// Infer returns the outcome hierarchy for the task. projectSummary is
// a condensed sketch of the project, not the full gathered set. A
// failed or unparseable call degrades to the fallback hierarchy rather
// than erroring; only request cancellation aborts.
func (h *Inferrer) Infer(ctx context.Context, task source.Task, projectSummary string) (source.OutcomeHierarchy, error) {
	if err := ctx.Err(); err != nil {
		return source.OutcomeHierarchy{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, h.callTimeout)
	response, err := h.caller.Complete(callCtx, buildHierarchyPrompt(task.Description, projectSummary), nil)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return source.OutcomeHierarchy{}, ctx.Err()
		}
		h.logger.Warn("hierarchy call failed, using fallback", "error", err)
		return source.FallbackHierarchy(task.Description), nil
	}

	hier := parseHierarchy(response, task.Description)
	h.logger.Debug("hierarchy inferred",
		"confidence", hier.Confidence,
		"has_midterm", hier.MidTerm != nil,
		"has_final", hier.Final != nil,
	)
	return hier, nil
}

// hierarchyPayload is the model's response shape. MidTerm and Final
// are pointers so a JSON null stays distinguishable from a value.
type hierarchyPayload struct {
	Immediate  string  `json:"immediate"`
	MidTerm    *string `json:"midterm"`
	Final      *string `json:"final"`
	Reasoning  string  `json:"reasoning"`
	Confidence string  `json:"confidence"`
}

// parseHierarchy turns the raw response into an OutcomeHierarchy,
// degrading to the fallback when no usable JSON object is found. Low
// confidence strips the upper levels regardless of what the model
// filled in.
func parseHierarchy(response, taskDescription string) source.OutcomeHierarchy {
	raw, ok := llm.ExtractJSONObject(response)
	if !ok {
		return source.FallbackHierarchy(taskDescription)
	}
	var payload hierarchyPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return source.FallbackHierarchy(taskDescription)
	}

	hier := source.OutcomeHierarchy{
		Immediate:  strings.TrimSpace(payload.Immediate),
		MidTerm:    cleanLevel(payload.MidTerm),
		Final:      cleanLevel(payload.Final),
		Confidence: source.ParseConfidence(payload.Confidence),
		Reasoning:  strings.TrimSpace(payload.Reasoning),
	}
	if hier.Immediate == "" {
		hier.Immediate = taskDescription
	}
	if hier.Confidence == source.ConfidenceLow {
		hier.MidTerm = nil
		hier.Final = nil
	}
	return hier
}

// cleanLevel normalizes a hierarchy level: blank or the literal string
// "null" (models emit it despite the JSON null in the prompt) count as
// absent.
func cleanLevel(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}
