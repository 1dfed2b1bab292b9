package assemble

import (
	"fmt"
	"strings"

	"github.com/contextprime/contextprime/internal/source"
)

const summaryPrompt = `Write a 3-5 sentence executive summary for a coding agent about to work on this task.

Task: %s

Outcome Hierarchy:
- Immediate: %s
- Mid-term: %s
- Final: %s

Selected sources:
%s

Write ONLY the summary paragraph. Be specific about what files to touch, what to watch out for, and what the real goal is. Name the likely complications instead of restating the task. No headers, no formatting, just the paragraph.`

// buildSummaryPrompt renders the executive-summary prompt. The call
// gets the full selected content: the summary has to notice real
// pitfalls, which previews would hide.
func buildSummaryPrompt(task string, hier source.OutcomeHierarchy, selected []source.Source) string {
	var b strings.Builder
	for _, src := range selected {
		fmt.Fprintf(&b, "\n### [%s] %s\n%s\n", src.Category, src.Name, src.Content)
	}
	return fmt.Sprintf(summaryPrompt,
		task,
		hier.Immediate,
		levelOrDefault(hier.MidTerm),
		levelOrDefault(hier.Final),
		b.String(),
	)
}

func levelOrDefault(level *string) string {
	if level == nil {
		return "Not inferred"
	}
	return *level
}
