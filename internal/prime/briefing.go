package prime

import (
	"context"
	"fmt"
	"strings"

	"github.com/contextprime/contextprime/internal/source"
)

// briefingPreviewBytes clips structure sources in the session
// briefing. Memory is never clipped: lessons lose their point when
// cut mid-sentence.
const briefingPreviewBytes = 500

// Gather runs the gathering stage alone, for inspection surfaces that
// want the raw source inventory without scoring or assembly.
func (e *Engine) Gather(ctx context.Context, task source.Task) ([]source.Source, error) {
	sources, err := e.gatherer.Gather(ctx, task)
	if err != nil {
		return nil, &StageError{Stage: StageGather, Err: err}
	}
	return sources, nil
}

// SessionBriefing renders project orientation for a session start:
// memory in full plus structure previews. No task, no scoring, no
// model calls, so it is cheap enough to run on every session.
func (e *Engine) SessionBriefing(ctx context.Context, projectRoot string) (string, error) {
	sources, err := e.gatherer.Briefing(ctx, projectRoot)
	if err != nil {
		return "", &StageError{Stage: StageGather, Err: err}
	}
	e.logger.Debug("session briefing", "sources", len(sources))
	return renderBriefing(sources), nil
}

func renderBriefing(sources []source.Source) string {
	var b strings.Builder
	b.WriteString("## Project Context (auto-primed at session start)\n\n")
	for _, src := range sources {
		if src.Category != source.CategoryStructure {
			continue
		}
		preview := src.Content
		if len(preview) > briefingPreviewBytes {
			preview = preview[:briefingPreviewBytes]
		}
		fmt.Fprintf(&b, "### %s\n%s\n\n", src.Name, preview)
	}
	for _, src := range sources {
		if src.Category != source.CategoryMemory {
			continue
		}
		fmt.Fprintf(&b, "### Memory: %s\n%s\n\n", src.Name, src.Content)
	}
	return b.String()
}
