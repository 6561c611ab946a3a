package minify

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects which opt-in passes (spec.md §4.5) a Minify run
// applies. The two always-on passes — comment removal and default/
// whitespace normalization — are not configurable. Loaded from YAML via
// `whitvm minify --config passes.yaml`, in the style of the teacher's
// preference for declarative, file-driven setup over flag sprawl.
type Config struct {
	NameShrink          bool `yaml:"name_shrink"`
	ConstantFold        bool `yaml:"constant_fold"`
	StringPool          bool `yaml:"string_pool"`
	StringPoolThreshold int  `yaml:"string_pool_threshold"`
	DeadStore           bool `yaml:"dead_store"`
	UnreachableCode     bool `yaml:"unreachable_code"`
}

// DefaultConfig enables every pass with a threshold of 2 repeats for
// string pooling, the most aggressive rewrite the pipeline offers.
func DefaultConfig() *Config {
	return &Config{
		NameShrink:          true,
		ConstantFold:        true,
		StringPool:          true,
		StringPoolThreshold: 2,
		DeadStore:           true,
		UnreachableCode:     true,
	}
}

// LoadConfig reads a YAML pass configuration from path. Missing boolean
// fields default to false and a zero StringPoolThreshold is normalized
// to 2 (a threshold of 0 or 1 would pool every string, including
// singletons, which is rarely what a caller means to ask for).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.StringPoolThreshold <= 0 {
		cfg.StringPoolThreshold = 2
	}
	return cfg, nil
}
