// Package score ranks gathered sources against a task and selects the
// subset worth embedding under the token budget.
//
// Scoring is one model call for the whole batch. The model is treated
// as unreliable: an unusable response fails closed, assigning every
// source a score below the default threshold so that nothing gets
// embedded on the strength of a glitch. Selection itself is fully
// deterministic.
package score

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/contextprime/contextprime/internal/llm"
	"github.com/contextprime/contextprime/internal/source"
)

const (
	// DefaultThreshold is the minimum relevance score a source needs
	// to be considered for selection.
	DefaultThreshold = 0.5

	// failClosedScore is assigned to every source when the scoring
	// response cannot be parsed or the call fails. It sits below the
	// default threshold: an unusable scoring round embeds nothing.
	failClosedScore = 0.2

	// notScoredScore is assigned to sources the model skipped.
	notScoredScore = 0.3

	// missingScoreValue stands in when an item omits its score field.
	missingScoreValue = 0.5

	// defaultCallTimeout bounds the scoring model call.
	defaultCallTimeout = 8 * time.Second
)

// Scorer scores sources with one model call and selects within budget.
type Scorer struct {
	caller      llm.Caller
	threshold   float64
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewScorer creates a Scorer. Zero threshold and timeout fall back to
// the defaults; a nil logger falls back to slog.Default().
func NewScorer(caller llm.Caller, threshold float64, callTimeout time.Duration, logger *slog.Logger) *Scorer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{caller: caller, threshold: threshold, callTimeout: callTimeout, logger: logger}
}

// ScoreAndSelect scores every source against the task and returns the
// selection that fits the budget. A failed or unparseable scoring call
// degrades to fail-closed scores rather than erroring; only request
// cancellation aborts.
func (s *Scorer) ScoreAndSelect(ctx context.Context, task source.Task, sources []source.Source, budget int) (source.SelectedSet, error) {
	if err := ctx.Err(); err != nil {
		return source.SelectedSet{}, err
	}
	if len(sources) == 0 {
		return source.SelectedSet{Budget: budget, Threshold: s.threshold}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	response, err := s.caller.Complete(callCtx, buildScoringPrompt(task.Description, sources), nil)
	cancel()

	var scored []source.Source
	if err != nil {
		if ctx.Err() != nil {
			return source.SelectedSet{}, ctx.Err()
		}
		s.logger.Warn("scoring call failed, failing closed", "error", err)
		scored = failClosed(sources)
	} else {
		scored = applyScores(response, sources)
	}

	set := selectWithinBudget(scored, s.threshold, budget)
	s.logger.Debug("selection complete",
		"scored", len(set.Scored),
		"selected", len(set.Selected),
		"tokens", set.TotalTokens,
		"budget", set.Budget,
	)
	return set, nil
}

// scoreItem is one element of the model's scoring response. Index and
// Score are pointers so that absent fields are distinguishable: an
// item without an index is dropped, an item without a score gets the
// neutral default.
type scoreItem struct {
	Index *int     `json:"index"`
	Score *float64 `json:"score"`
}

// applyScores parses the scoring response and returns a copy of the
// sources with scores assigned, in discovery order. Unusable responses
// fail closed; sources the model skipped get notScoredScore; each
// source is scored at most once, so duplicate indices cannot overwrite.
func applyScores(response string, sources []source.Source) []source.Source {
	scored := make([]source.Source, len(sources))
	copy(scored, sources)

	raw, ok := llm.ExtractJSONArray(response)
	if !ok {
		return failClosed(sources)
	}
	var items []scoreItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return failClosed(sources)
	}

	for _, item := range items {
		if item.Index == nil || *item.Index < 0 || *item.Index >= len(scored) {
			continue
		}
		v := missingScoreValue
		if item.Score != nil {
			v = *item.Score
		}
		scored[*item.Index].SetScore(v)
	}
	for i := range scored {
		if !scored[i].Scored() {
			scored[i].SetScore(notScoredScore)
		}
	}
	return scored
}

// failClosed assigns every source the fail-closed score.
func failClosed(sources []source.Source) []source.Source {
	scored := make([]source.Source, len(sources))
	copy(scored, sources)
	for i := range scored {
		scored[i].SetScore(failClosedScore)
	}
	return scored
}
