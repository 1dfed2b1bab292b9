package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"github.com/contextprime/contextprime/internal/source"
)

// Load merges configuration for a project: defaults, then the global
// file, then the project file, then environment overrides. A missing
// file at any layer is not an error. projectRoot may be empty, meaning
// the current directory.
func Load(projectRoot string) (*Config, error) {
	cfg := DefaultConfig()

	if projectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return cfg, nil
		}
		projectRoot = cwd
	}

	if global := GlobalConfigPath(); global != "" {
		if err := loadFile(global, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: load %s: %w", global, err)
		}
	}

	projectPath := ProjectConfigPath(projectRoot)
	if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load %s: %w", projectPath, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// applyEnv layers CONTEXTPRIME_* variables over file values. Only the
// knobs that make sense per-invocation are exposed this way.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CONTEXTPRIME_PLATFORM"); v != "" {
		cfg.Platform = v
	}
	if v := os.Getenv("CONTEXTPRIME_PROVIDER"); v != "" {
		cfg.Model.Provider = v
	}
	if v := os.Getenv("CONTEXTPRIME_MODEL"); v != "" {
		cfg.Model.Name = v
	}
	if v := os.Getenv("CONTEXTPRIME_BASE_URL"); v != "" {
		cfg.Model.BaseURL = v
	}
	if v := os.Getenv("CONTEXTPRIME_BUDGET_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Budget.Fraction = f
		}
	}
	if v := os.Getenv("CONTEXTPRIME_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Budget.Threshold = f
		}
	}
}

// Validate rejects configurations the pipeline cannot run under.
func (c *Config) Validate() error {
	if err := source.ValidateBudgetFraction(c.Budget.Fraction); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Budget.Threshold < 0 || c.Budget.Threshold > 1 {
		return fmt.Errorf("config: threshold %.2f out of range [0, 1]", c.Budget.Threshold)
	}
	if c.Timeouts.ModelCallSeconds <= 0 {
		return fmt.Errorf("config: model_call_seconds must be positive")
	}
	if c.Timeouts.GatherCommandSeconds <= 0 {
		return fmt.Errorf("config: gather_command_seconds must be positive")
	}
	if c.Gather.MaxCodeFiles < 0 {
		return fmt.Errorf("config: max_code_files must be non-negative")
	}
	for name, p := range c.Platforms {
		if p.ContextTokens <= 0 {
			return fmt.Errorf("config: platform %q has non-positive context_tokens", name)
		}
	}
	if _, ok := c.Platforms["default"]; !ok {
		return fmt.Errorf("config: platform table must define a %q entry", "default")
	}
	return nil
}

// PlatformBudget returns the usable context tokens for a platform,
// falling back to the default entry for unknown names.
func (c *Config) PlatformBudget(platform string) int {
	if p, ok := c.Platforms[platform]; ok {
		return p.ContextTokens
	}
	return c.Platforms["default"].ContextTokens
}

// PlatformTools returns the tool list for a platform, or nil when the
// platform (or default) declares none.
func (c *Config) PlatformTools(platform string) []string {
	if p, ok := c.Platforms[platform]; ok {
		return p.Tools
	}
	return c.Platforms["default"].Tools
}

// BudgetTokens computes the briefing budget B for a platform. A
// non-zero fractionOverride replaces the configured fraction and is
// validated against the allowed range rather than clamped.
func (c *Config) BudgetTokens(platform string, fractionOverride float64) (int, error) {
	fraction := c.Budget.Fraction
	if fractionOverride != 0 {
		fraction = fractionOverride
	}
	if err := source.ValidateBudgetFraction(fraction); err != nil {
		return 0, err
	}
	return int(float64(c.PlatformBudget(platform)) * fraction), nil
}

// GlobalConfigPath returns the path of the global config file, or ""
// when the home directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".contextprime", "config.yaml")
}

// ProjectConfigPath returns the path of a project's config file.
func ProjectConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".contextprime", "config.yaml")
}

// GlobalDir returns the global data directory (config, memory db).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".contextprime")
}
