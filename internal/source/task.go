package source

import (
	"fmt"
	"strings"
)

// Budget fraction bounds. The context budget is fraction × platform
// capacity; the bounds keep the primed context meaningful (at least 10%
// of the window) without starving the actual work (at most 40%).
const (
	MinBudgetFraction     = 0.1
	MaxBudgetFraction     = 0.4
	DefaultBudgetFraction = 0.25
)

// Task describes one priming request. It is immutable once built; the
// pipeline never mutates it.
type Task struct {
	Description string `json:"description"`
	ProjectRoot string `json:"project_root"`
	Platform    string `json:"platform"`
	// BudgetFraction overrides the configured fraction when non-zero.
	BudgetFraction float64 `json:"budget_fraction,omitempty"`
}

// Validate returns an error if the task cannot be primed for: an empty
// description, an empty project root, or a budget fraction outside the
// allowed range. A zero fraction means "use the configured default" and
// is valid.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("task description is empty")
	}
	if strings.TrimSpace(t.ProjectRoot) == "" {
		return fmt.Errorf("task project root is empty")
	}
	if t.BudgetFraction != 0 {
		if err := ValidateBudgetFraction(t.BudgetFraction); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBudgetFraction rejects fractions outside [0.1, 0.4]. Out of
// range values are an error rather than being clamped: a caller asking
// for 0.9 of the window should hear "no" instead of silently getting 0.4.
func ValidateBudgetFraction(f float64) error {
	if f < MinBudgetFraction || f > MaxBudgetFraction {
		return fmt.Errorf("budget fraction %.2f out of range [%.1f, %.1f]", f, MinBudgetFraction, MaxBudgetFraction)
	}
	return nil
}
