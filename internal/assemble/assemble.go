// Package assemble renders the selected sources into the final
// briefing document.
//
// Selection already decided what matters; assembly embeds it in full.
// One model call writes the executive summary and that call is the
// only fallible step: a failed or empty summary fails the whole
// request, because a briefing with a missing or partial summary is
// worse than an explicit error. Everything else, the section order,
// the capabilities reminder, the trust boundaries around untrusted
// file content, is deterministic.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contextprime/contextprime/internal/llm"
	"github.com/contextprime/contextprime/internal/source"
)

// defaultCallTimeout bounds the summary model call.
const defaultCallTimeout = 8 * time.Second

// Assembler renders primed contexts.
type Assembler struct {
	caller      llm.Caller
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewAssembler creates an Assembler. Zero timeout falls back to the
// default; a nil logger falls back to slog.Default().
func NewAssembler(caller llm.Caller, callTimeout time.Duration, logger *slog.Logger) *Assembler {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{caller: caller, callTimeout: callTimeout, logger: logger}
}

// Assemble builds the briefing from the selected sources. tools is the
// platform's tool inventory for the capabilities reminder. Unlike
// scoring and hierarchy inference, a failed summary call is fatal:
// no partial document is ever returned.
func (a *Assembler) Assemble(ctx context.Context, task source.Task, hier source.OutcomeHierarchy, set source.SelectedSet, tools []string) (*source.PrimedContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	response, err := a.caller.Complete(callCtx, buildSummaryPrompt(task.Description, hier, set.Selected), nil)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("assemble: executive summary: %w", err)
	}
	summary := strings.TrimSpace(response)
	if summary == "" {
		return nil, fmt.Errorf("assemble: executive summary: empty response")
	}

	capabilities := renderCapabilities(tools)
	document := renderDocument(hier, summary, capabilities, set.Selected)

	primed := &source.PrimedContext{
		Hierarchy:            hier,
		ExecutiveSummary:     summary,
		CapabilitiesReminder: capabilities,
		Sources:              set.Selected,
		Document:             document,
		TotalTokens:          source.EstimateTokens(document),
	}
	a.logger.Debug("context assembled",
		"sources", len(primed.Sources),
		"tokens", primed.TotalTokens,
	)
	return primed, nil
}
