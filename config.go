package arbor

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default stage dimensions used when a config leaves them unset.
const (
	DefaultStageWidth  = 640
	DefaultStageHeight = 480
)

// StageConfig configures a Stage. It is usually loaded from an arbor.yaml
// file next to the scene.
type StageConfig struct {
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	Title  string `yaml:"title,omitempty"`
	Debug  bool   `yaml:"debug,omitempty"`
}

// DefaultStageConfig returns the config used when no file is present.
func DefaultStageConfig() StageConfig {
	return StageConfig{Width: DefaultStageWidth, Height: DefaultStageHeight, Title: "arbor"}
}

// withDefaults fills zero or negative dimensions from DefaultStageConfig.
func (c StageConfig) withDefaults() StageConfig {
	d := DefaultStageConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	return c
}

// LoadStageConfig reads a YAML stage config from path if present. A missing
// file yields DefaultStageConfig.
func LoadStageConfig(path string) (StageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultStageConfig(), nil
		}
		return StageConfig{}, fmt.Errorf("read stage config: %w", err)
	}

	var cfg StageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return StageConfig{}, fmt.Errorf("parse stage config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}
