package score

import (
	"fmt"
	"strings"

	"github.com/contextprime/contextprime/internal/source"
)

// previewBytes caps each source's content in the scoring prompt. The
// model only needs enough to judge relevance, not the whole file.
const previewBytes = 1000

const scoringPrompt = `Score the relevance of each source to the given task.

## Task
%s

## Sources
%s

## Instructions
For each source, return a JSON array of objects:
` + "```json" + `
[
  {"index": 0, "score": 0.85, "reasoning": "Directly relevant because..."},
  ...
]
` + "```" + `

Score meaning:
- 0.9-1.0: Directly addresses the task (must include)
- 0.7-0.9: Provides important context (should include)
- 0.4-0.7: Tangentially related (include if space permits)
- 0.0-0.4: Not relevant to this task (exclude)

Be aggressive with low scores. The goal is to surface only what matters
for THIS specific task, not everything that might be vaguely useful.

Return ONLY the JSON array, no other text.`

// buildScoringPrompt renders the batch scoring prompt. Sources are
// addressed by index; the response refers back to them the same way.
func buildScoringPrompt(task string, sources []source.Source) string {
	var b strings.Builder
	for i, src := range sources {
		preview := src.Content
		if len(preview) > previewBytes {
			preview = preview[:previewBytes] + "..."
		}
		fmt.Fprintf(&b, "\n### Source %d: [%s] %s\n%s\n", i, src.Category, src.Name, preview)
	}
	return fmt.Sprintf(scoringPrompt, task, b.String())
}
