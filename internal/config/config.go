package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/ktscan/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Complexity holds branch complexity analysis configuration
	Complexity ComplexityConfig `json:"complexity" mapstructure:"complexity" yaml:"complexity"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds input file configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`
}

// ComplexityConfig holds configuration for branch complexity analysis
type ComplexityConfig struct {
	// LowThreshold is the upper bound of branch count for low risk (inclusive)
	LowThreshold int `json:"low_threshold" mapstructure:"low_threshold" yaml:"low_threshold"`

	// MediumThreshold is the upper bound of branch count for medium risk (inclusive)
	// Values above this are considered high risk
	MediumThreshold int `json:"medium_threshold" mapstructure:"medium_threshold" yaml:"medium_threshold"`

	// ResetDepthAtFunction restarts nesting depth at every function declaration
	// instead of inheriting the depth of an enclosing branch
	ResetDepthAtFunction bool `json:"reset_depth_at_function" mapstructure:"reset_depth_at_function" yaml:"reset_depth_at_function"`

	// MaxBranches is the branch count above which check fails (0 = no limit)
	MaxBranches int `json:"max_branches" mapstructure:"max_branches" yaml:"max_branches"`

	// MaxDepth is the nesting depth above which check fails (0 = no limit)
	MaxDepth int `json:"max_depth" mapstructure:"max_depth" yaml:"max_depth"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, table, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Metric selects the ranking metric: count or depth
	Metric string `json:"metric" mapstructure:"metric" yaml:"metric"`

	// Top is the number of functions listed (0 = all)
	Top int `json:"top" mapstructure:"top" yaml:"top"`

	// ShowDetails adds location columns to the table output
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// Color controls coloured output: auto, always, never
	Color string `json:"color" mapstructure:"color" yaml:"color"`
}

// AnalysisConfig holds configuration for the analyzed file
type AnalysisConfig struct {
	// ExcludePatterns are gitignore-style patterns of files that are refused
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Extensions are the accepted file extensions
	Extensions []string `json:"extensions" mapstructure:"extensions" yaml:"extensions"`
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// Without an explicit path the configuration file is discovered from the target upwards.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}

	return loadConfigFromFile(configPath)
}

// newViper creates a viper instance seeded with defaults and environment overrides.
// A new instance per load avoids races on the global one.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("complexity.low_threshold", defaults.Complexity.LowThreshold)
	v.SetDefault("complexity.medium_threshold", defaults.Complexity.MediumThreshold)
	v.SetDefault("complexity.reset_depth_at_function", defaults.Complexity.ResetDepthAtFunction)
	v.SetDefault("complexity.max_branches", defaults.Complexity.MaxBranches)
	v.SetDefault("complexity.max_depth", defaults.Complexity.MaxDepth)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.metric", defaults.Output.Metric)
	v.SetDefault("output.top", defaults.Output.Top)
	v.SetDefault("output.show_details", defaults.Output.ShowDetails)
	v.SetDefault("output.color", defaults.Output.Color)
	v.SetDefault("analysis.exclude_patterns", defaults.Analysis.ExcludePatterns)
	v.SetDefault("analysis.extensions", defaults.Analysis.Extensions)

	return v
}

// loadConfigFromFile reads and parses a configuration file; an empty path
// yields the defaults with environment overrides applied
func loadConfigFromFile(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return config, nil
}

// configCandidates lists the discovered file names in order of preference
var configCandidates = []string{
	"ktscan.yaml",
	"ktscan.yml",
	".ktscan.yaml",
	".ktscan.yml",
	".ktscan.toml",
	"ktscan.json",
	".ktscan.json",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for configuration files from the target upwards,
// then in the current directory, XDG and home directories, then KTSCAN_CONFIG
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, configCandidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", configCandidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), configCandidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, configCandidates); config != "" {
			return config
		}

		if config := searchConfigInDirectory(home, configCandidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Complexity.LowThreshold < 1 {
		return errors.Errorf("complexity.low_threshold must be >= 1, got %d", c.Complexity.LowThreshold)
	}

	if c.Complexity.MediumThreshold <= c.Complexity.LowThreshold {
		return errors.Errorf("complexity.medium_threshold (%d) must be > low_threshold (%d)",
			c.Complexity.MediumThreshold, c.Complexity.LowThreshold)
	}

	if c.Complexity.MaxBranches < 0 {
		return errors.Errorf("complexity.max_branches must be >= 0, got %d", c.Complexity.MaxBranches)
	}

	if c.Complexity.MaxDepth < 0 {
		return errors.Errorf("complexity.max_depth must be >= 0, got %d", c.Complexity.MaxDepth)
	}

	validFormats := map[string]bool{
		"text":  true,
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	if !validFormats[c.Output.Format] {
		return errors.Errorf("invalid output.format '%s', must be one of: text, table, json, yaml", c.Output.Format)
	}

	validMetrics := map[string]bool{
		"count": true,
		"depth": true,
		"1":     true,
		"2":     true,
	}
	if !validMetrics[c.Output.Metric] {
		return errors.Errorf("invalid output.metric '%s', must be one of: count, depth", c.Output.Metric)
	}

	if c.Output.Top < 0 {
		return errors.Errorf("output.top must be >= 0, got %d", c.Output.Top)
	}

	validColors := map[string]bool{
		"auto":   true,
		"always": true,
		"never":  true,
	}
	if !validColors[c.Output.Color] {
		return errors.Errorf("invalid output.color '%s', must be one of: auto, always, never", c.Output.Color)
	}

	if len(c.Analysis.Extensions) == 0 {
		return errors.New("analysis.extensions cannot be empty")
	}
	for _, ext := range c.Analysis.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Errorf("analysis.extensions entries must start with '.', got '%s'", ext)
		}
	}

	return nil
}

// AssessRiskLevel determines risk level based on branch count and thresholds
func (c *ComplexityConfig) AssessRiskLevel(branchCount int) string {
	if branchCount <= c.LowThreshold {
		return "low"
	} else if branchCount <= c.MediumThreshold {
		return "medium"
	}
	return "high"
}

// ExceedsMaxBranches checks if a branch count exceeds the configured limit
func (c *ComplexityConfig) ExceedsMaxBranches(branchCount int) bool {
	return c.MaxBranches > 0 && branchCount > c.MaxBranches
}

// ExceedsMaxDepth checks if a nesting depth exceeds the configured limit
func (c *ComplexityConfig) ExceedsMaxDepth(depth int) bool {
	return c.MaxDepth > 0 && depth > c.MaxDepth
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}
