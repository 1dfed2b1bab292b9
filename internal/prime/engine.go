// Package prime runs the context priming pipeline end to end: gather
// project sources, score them against the task while inferring the
// outcome hierarchy, then assemble the briefing document.
//
// Scoring and hierarchy inference run concurrently; both read only the
// gathered sources, and at most those two model calls are ever in
// flight for one request. Failures carry the stage they happened in,
// so callers can tell a project problem from a model problem.
package prime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contextprime/contextprime/internal/assemble"
	"github.com/contextprime/contextprime/internal/config"
	"github.com/contextprime/contextprime/internal/gather"
	"github.com/contextprime/contextprime/internal/hierarchy"
	"github.com/contextprime/contextprime/internal/llm"
	"github.com/contextprime/contextprime/internal/score"
	"github.com/contextprime/contextprime/internal/source"
)

// Pipeline stage names carried by StageError.
const (
	StageTask      = "task"
	StageGather    = "gather"
	StageScore     = "score"
	StageHierarchy = "hierarchy"
	StageAssemble  = "assemble"
)

// StageError reports which pipeline stage a request died in. Scoring
// and hierarchy inference degrade instead of failing, so their stage
// names only ever surface on cancellation.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("prime: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Project summary bounds for hierarchy inference: the first few
// memory/structure sources, each clipped to a preview.
const (
	summarySources      = 5
	summaryPreviewBytes = 500
)

// Engine wires the pipeline stages around one model caller.
type Engine struct {
	cfg       *config.Config
	gatherer  *gather.Gatherer
	scorer    *score.Scorer
	inferrer  *hierarchy.Inferrer
	assembler *assemble.Assembler
	logger    *slog.Logger
}

// GatherOptions maps configuration onto the gatherer's bounds.
func GatherOptions(cfg *config.Config) gather.Options {
	return gather.Options{
		MaxCodeFiles:   cfg.Gather.MaxCodeFiles,
		MaxDepth:       cfg.Gather.MaxDepth,
		CommitCount:    cfg.Gather.CommitCount,
		MemoryPaths:    cfg.Gather.MemoryPaths,
		ExternalPaths:  cfg.Gather.ExternalPaths,
		MemoryDB:       cfg.Gather.MemoryDB,
		CommandTimeout: time.Duration(cfg.Timeouts.GatherCommandSeconds) * time.Second,
	}
}

// New builds an Engine from configuration. All three model-calling
// stages share the caller and the configured per-call timeout.
func New(cfg *config.Config, caller llm.Caller, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	callTimeout := time.Duration(cfg.Timeouts.ModelCallSeconds) * time.Second
	return &Engine{
		cfg:       cfg,
		gatherer:  gather.New(GatherOptions(cfg), logger),
		scorer:    score.NewScorer(caller, cfg.Budget.Threshold, callTimeout, logger),
		inferrer:  hierarchy.NewInferrer(caller, callTimeout, logger),
		assembler: assemble.NewAssembler(caller, callTimeout, logger),
		logger:    logger,
	}
}

// Prime runs the full pipeline for one task. The returned context is
// complete or the error names the stage that failed; a partial
// briefing is never returned.
func (e *Engine) Prime(ctx context.Context, task source.Task) (*source.PrimedContext, error) {
	started := time.Now()
	requestID := uuid.NewString()
	logger := e.logger.With("request_id", requestID)

	if err := task.Validate(); err != nil {
		return nil, &StageError{Stage: StageTask, Err: err}
	}
	platform := task.Platform
	if platform == "" {
		platform = e.cfg.Platform
	}
	budget, err := e.cfg.BudgetTokens(platform, task.BudgetFraction)
	if err != nil {
		return nil, &StageError{Stage: StageTask, Err: err}
	}

	sources, err := e.gatherer.Gather(ctx, task)
	if err != nil {
		return nil, &StageError{Stage: StageGather, Err: err}
	}
	logger.Debug("gathered", "sources", len(sources), "tokens", gather.TotalTokens(sources))

	// Scoring and hierarchy inference both read only the gathered set,
	// so they run concurrently. Each writes its own result slot.
	var (
		wg       sync.WaitGroup
		set      source.SelectedSet
		hier     source.OutcomeHierarchy
		scoreErr error
		hierErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		set, scoreErr = e.scorer.ScoreAndSelect(ctx, task, sources, budget)
	}()
	go func() {
		defer wg.Done()
		hier, hierErr = e.inferrer.Infer(ctx, task, projectSummary(sources))
	}()
	wg.Wait()
	if scoreErr != nil {
		return nil, &StageError{Stage: StageScore, Err: scoreErr}
	}
	if hierErr != nil {
		return nil, &StageError{Stage: StageHierarchy, Err: hierErr}
	}

	primed, err := e.assembler.Assemble(ctx, task, hier, set, e.cfg.PlatformTools(platform))
	if err != nil {
		return nil, &StageError{Stage: StageAssemble, Err: err}
	}

	primed.RequestID = requestID
	primed.Stats = source.Stats{
		Gathered:  len(sources),
		Kept:      len(set.Selected),
		Discarded: len(sources) - len(set.Selected),
		Budget:    budget,
		ElapsedMS: time.Since(started).Milliseconds(),
	}
	logger.Info("context primed",
		"platform", platform,
		"gathered", primed.Stats.Gathered,
		"kept", primed.Stats.Kept,
		"budget", budget,
		"tokens", primed.TotalTokens,
		"confidence", hier.Confidence,
		"elapsed_ms", primed.Stats.ElapsedMS,
	)
	return primed, nil
}

// projectSummary condenses gathered material for hierarchy inference:
// the first memory and structure sources in discovery order, each
// clipped. Built from the gathered set rather than the scored one so
// inference never waits on scoring.
func projectSummary(sources []source.Source) string {
	var parts []string
	for _, src := range sources {
		if len(parts) == summarySources {
			break
		}
		if src.Category != source.CategoryMemory && src.Category != source.CategoryStructure {
			continue
		}
		content := src.Content
		if len(content) > summaryPreviewBytes {
			content = content[:summaryPreviewBytes]
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n")
}
