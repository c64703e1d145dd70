package config

import (
	"bytes"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"bpcss/breakpoints"
)

type (
	// TransformConfig holds the transform defaults. Options declared inside
	// a stylesheet (breakpoints-device, breakpoints-use-only) override these
	// for that stylesheet.
	TransformConfig struct {
		UseOnlyScreen  bool `yaml:"use_only_screen"`
		DeviceWidth    bool `yaml:"device_width"`
		KeepEmptyRules bool `yaml:"keep_empty_rules"`
	}

	LoggerConfig struct {
		Level string `yaml:"level"`
	}

	LoggingConfig struct {
		Console LoggerConfig `yaml:"console"`
	}

	Config struct {
		Version   int             `yaml:"version"`
		Transform TransformConfig `yaml:"transform"`
		Logging   LoggingConfig   `yaml:"logging"`
	}
)

// Options converts the configuration into transform options.
func (conf *TransformConfig) Options() breakpoints.Options {
	return breakpoints.Options{
		OnlyScreen:     conf.UseOnlyScreen,
		DeviceWidth:    conf.DeviceWidth,
		KeepEmptyRules: conf.KeepEmptyRules,
	}
}

// Default returns the built-in configuration: "screen" media type prefix,
// width features, empty rules pruned, normal console logging.
func Default() *Config {
	return &Config{
		Version: 1,
		Logging: LoggingConfig{Console: LoggerConfig{Level: "normal"}},
	}
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the defaults and validates the result.
// An empty path returns the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration: %w", err)
	}
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported configuration version %d", cfg.Version)
	}
	switch cfg.Logging.Console.Level {
	case "none", "normal", "debug":
	default:
		return nil, fmt.Errorf("unknown console log level %q (want none, normal or debug)", cfg.Logging.Console.Level)
	}
	return cfg, nil
}

// Dump serializes the active configuration back to YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize configuration: %w", err)
	}
	return data, nil
}
