package score

import (
	"sort"

	"github.com/contextprime/contextprime/internal/source"
)

// ReservedFraction is the share of the budget set aside for memory and
// priority sources. Without it, bulky code files with marginally
// higher scores would crowd out the accumulated lessons that priming
// exists to surface.
const ReservedFraction = 0.15

// selectWithinBudget filters scored sources by threshold and fits them
// into two pools: the reserved pool funds memory and priority sources,
// the general pool funds everything else. Sources fit whole or not at
// all; one that does not fit is skipped and the scan continues, since
// a smaller source further down may still fit.
//
// The result is deterministic: rank is score descending with discovery
// order breaking ties, and the selection never exceeds the budget.
func selectWithinBudget(scored []source.Source, threshold float64, budget int) source.SelectedSet {
	reservedBudget := int(float64(budget) * ReservedFraction)
	generalBudget := budget - reservedBudget

	ranked := make([]source.Source, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ScoreValue() != ranked[j].ScoreValue() {
			return ranked[i].ScoreValue() > ranked[j].ScoreValue()
		}
		return ranked[i].Order < ranked[j].Order
	})

	var selected []source.Source
	reservedTokens, generalTokens := 0, 0
	for _, src := range ranked {
		if src.ScoreValue() < threshold {
			continue
		}
		if src.Category.Reserved() {
			if reservedTokens+src.TokenEstimate > reservedBudget {
				continue
			}
			reservedTokens += src.TokenEstimate
			selected = append(selected, src)
			continue
		}
		if generalTokens+src.TokenEstimate > generalBudget {
			continue
		}
		generalTokens += src.TokenEstimate
		selected = append(selected, src)
	}

	// selected is a subsequence of ranked, so it is already in embed
	// order: score descending, discovery order on ties.
	return source.SelectedSet{
		Scored:      scored,
		Selected:    selected,
		Budget:      budget,
		TotalTokens: reservedTokens + generalTokens,
		Threshold:   threshold,
	}
}
