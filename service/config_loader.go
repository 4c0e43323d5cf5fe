package service

import (
	"github.com/pkg/errors"

	"github.com/ludo-technologies/ktscan/domain"
	"github.com/ludo-technologies/ktscan/internal/config"
)

var _ domain.ConfigurationLoader = (*ConfigurationLoaderImpl)(nil)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from path, or discovers it from target when path is empty
func (c *ConfigurationLoaderImpl) LoadConfig(path string, target string) (*domain.ComplexityRequest, error) {
	cfg, err := config.LoadConfigWithTarget(path, target)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	req := c.convertToComplexityRequest(cfg)
	req.ConfigPath = path
	return req, nil
}

// LoadDefaultConfig loads the discovered configuration, falling back to built-in defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.ComplexityRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.convertToComplexityRequest(cfg)
	}

	return c.convertToComplexityRequest(config.DefaultConfig())
}

// MergeConfig merges CLI flags with configuration file.
// Zero values in override mean "not set on the command line".
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ComplexityRequest, override *domain.ComplexityRequest) *domain.ComplexityRequest {
	merged := *base

	// The file always comes from the command line
	if override.FilePath != "" {
		merged.FilePath = override.FilePath
	}

	// Output configuration
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.ShowDetails {
		merged.ShowDetails = true
	}
	if override.Color != "" {
		merged.Color = override.Color
	}

	// Ranking
	if override.Metric != "" {
		merged.Metric = override.Metric
	}
	if override.Top > 0 {
		merged.Top = override.Top
	}

	// Thresholds and limits
	if override.LowThreshold > 0 {
		merged.LowThreshold = override.LowThreshold
	}
	if override.MediumThreshold > 0 {
		merged.MediumThreshold = override.MediumThreshold
	}
	if override.MaxBranches > 0 {
		merged.MaxBranches = override.MaxBranches
	}
	if override.MaxDepth > 0 {
		merged.MaxDepth = override.MaxDepth
	}
	if override.ResetDepthAtFunction {
		merged.ResetDepthAtFunction = true
	}

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// convertToComplexityRequest converts a Config to ComplexityRequest
func (c *ConfigurationLoaderImpl) convertToComplexityRequest(cfg *config.Config) *domain.ComplexityRequest {
	return &domain.ComplexityRequest{
		// Output settings
		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
		Color:        cfg.Output.Color,

		// Ranking
		Metric: normalizeMetric(cfg.Output.Metric),
		Top:    cfg.Output.Top,

		// Complexity settings
		LowThreshold:         cfg.Complexity.LowThreshold,
		MediumThreshold:      cfg.Complexity.MediumThreshold,
		MaxBranches:          cfg.Complexity.MaxBranches,
		MaxDepth:             cfg.Complexity.MaxDepth,
		ResetDepthAtFunction: cfg.Complexity.ResetDepthAtFunction,

		// Input settings
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Extensions:      cfg.Analysis.Extensions,
	}
}

// ValidateConfig validates a merged request
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.ComplexityRequest) error {
	if req.LowThreshold <= 0 {
		return errors.Errorf("low_threshold must be greater than 0, got %d", req.LowThreshold)
	}

	if req.MediumThreshold <= req.LowThreshold {
		return errors.Errorf("medium_threshold (%d) must be greater than low_threshold (%d)",
			req.MediumThreshold, req.LowThreshold)
	}

	if req.Top < 0 {
		return errors.Errorf("top cannot be negative, got %d", req.Top)
	}

	if req.MaxBranches < 0 || req.MaxDepth < 0 {
		return errors.Errorf("limits cannot be negative (max_branches %d, max_depth %d)", req.MaxBranches, req.MaxDepth)
	}

	if _, err := domain.ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return err
	}

	return nil
}

// normalizeMetric maps the numeric metric choices to their names
func normalizeMetric(value string) domain.MetricType {
	switch value {
	case "1":
		return domain.MetricBranchCount
	case "2":
		return domain.MetricMaxDepth
	default:
		return domain.MetricType(value)
	}
}
