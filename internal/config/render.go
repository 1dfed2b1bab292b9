package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RenderYAML serializes the effective configuration the same way the
// config files are written, so what `config show` prints can be pasted
// straight back into a config file.
func (c *Config) RenderYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("config: render: %w", err)
	}
	return string(data), nil
}
