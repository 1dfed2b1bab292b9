package source

// --- Outcome hierarchy ---

// OutcomeHierarchy chains the task to its larger purpose: the immediate
// outcome the task delivers, the mid-term outcome it serves, and the
// final outcome the project is driving toward.
//
// Invariant: when Confidence is low, MidTerm and Final are nil. The
// inference never fabricates a purpose chain it is unsure about; absent
// levels are simply omitted from the briefing.
type OutcomeHierarchy struct {
	Immediate  string     `json:"immediate"`
	MidTerm    *string    `json:"mid_term,omitempty"`
	Final      *string    `json:"final,omitempty"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning,omitempty"`
}

// FallbackHierarchy returns the degraded hierarchy used when inference
// fails or times out: the task description itself as the immediate
// outcome, nothing speculative above it.
func FallbackHierarchy(taskDescription string) OutcomeHierarchy {
	return OutcomeHierarchy{
		Immediate:  taskDescription,
		Confidence: ConfidenceLow,
	}
}

// --- Primed context ---

// Stats summarizes what the pipeline did for one request.
type Stats struct {
	Gathered  int   `json:"gathered"`
	Kept      int   `json:"kept"`
	Discarded int   `json:"discarded"`
	Budget    int   `json:"budget"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

// PrimedContext is the pipeline's final product: the rendered briefing
// document plus the structured pieces it was rendered from. Immutable
// after assembly.
type PrimedContext struct {
	RequestID            string           `json:"request_id"`
	Hierarchy            OutcomeHierarchy `json:"hierarchy"`
	ExecutiveSummary     string           `json:"executive_summary"`
	CapabilitiesReminder string           `json:"capabilities_reminder"`
	// Sources are the included sources in embed order.
	Sources []Source `json:"sources"`
	// Document is the full rendered briefing.
	Document string `json:"document"`
	// TotalTokens estimates the document's size: embedded content plus
	// section scaffolding.
	TotalTokens int   `json:"total_tokens"`
	Stats       Stats `json:"stats"`
}
