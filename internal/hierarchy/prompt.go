package hierarchy

import "fmt"

// summaryByteCap bounds the project summary embedded in the prompt.
// The inference needs a sketch of the project, not its full context.
const summaryByteCap = 3000

const hierarchyPrompt = `Analyze this task and infer the outcome hierarchy.

## Task
%s

## Project Context
%s

## Instructions
Infer three levels of outcomes. The user stated the immediate task, but
there's usually a mid-term goal it serves and a final outcome beyond that.

If you can't confidently infer higher levels from the context, say so
honestly rather than fabricating goals.

Return as JSON:
` + "```json" + `
{
  "immediate": "The specific task to complete right now",
  "midterm": "The milestone or goal this task contributes to (or null if unclear)",
  "final": "The ultimate outcome this work serves (or null if unclear)",
  "reasoning": "Brief explanation of how you inferred the hierarchy",
  "confidence": "high|medium|low"
}
` + "```" + `

Return ONLY the JSON, no other text.`

// buildHierarchyPrompt renders the inference prompt with the project
// summary capped at summaryByteCap.
func buildHierarchyPrompt(task, projectSummary string) string {
	if len(projectSummary) > summaryByteCap {
		projectSummary = projectSummary[:summaryByteCap] + "\n... [truncated]"
	}
	return fmt.Sprintf(hierarchyPrompt, task, projectSummary)
}
