package source

// SelectedSet is the scorer's output: every gathered source with its
// relevance score, plus the subset that passed the threshold and fit
// the token budget.
type SelectedSet struct {
	// Scored holds all sources in discovery order, each with a score.
	Scored []Source `json:"scored"`
	// Selected holds the budget-fitting subset in embed order:
	// score-descending, discovery order breaking ties. The reserved and
	// general pools decide only which sources fit, not their order.
	Selected []Source `json:"selected"`
	// Budget is the token ceiling the selection was computed against.
	Budget int `json:"budget"`
	// TotalTokens is the summed estimate of the selected sources.
	// Always <= Budget.
	TotalTokens int `json:"total_tokens"`
	// Threshold is the minimum score a source needed to be considered.
	Threshold float64 `json:"threshold"`
}

// ByCategory partitions the selected sources by category, preserving
// embed order within each group.
func (s SelectedSet) ByCategory() map[Category][]Source {
	groups := make(map[Category][]Source)
	for _, src := range s.Selected {
		groups[src.Category] = append(groups[src.Category], src)
	}
	return groups
}

// Excluded returns the scored sources that were not selected, in
// discovery order. Useful for reporting why the briefing is thin.
func (s SelectedSet) Excluded() []Source {
	kept := make(map[string]bool, len(s.Selected))
	for _, src := range s.Selected {
		kept[src.Name] = true
	}
	var out []Source
	for _, src := range s.Scored {
		if !kept[src.Name] {
			out = append(out, src)
		}
	}
	return out
}
