package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a format name
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch format := OutputFormat(value); format {
	case OutputFormatText, OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return format, nil
	}
	return "", NewInvalidInputError("unsupported output format: "+value+" (text, table, json, yaml)", nil)
}

// MetricType selects the value functions are ranked by
type MetricType string

const (
	// MetricBranchCount ranks by number of conditional statements
	MetricBranchCount MetricType = "count"
	// MetricMaxDepth ranks by maximum depth of conditional statements
	MetricMaxDepth MetricType = "depth"
)

// RiskLevel represents the complexity risk level
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// ComplexityRequest represents a request for branch complexity analysis of one file
type ComplexityRequest struct {
	// FilePath is the Kotlin source file to analyze
	FilePath string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool
	Color        string

	// Ranking
	Metric MetricType
	Top    int // 0 lists every function

	// Risk thresholds over branch count
	LowThreshold    int
	MediumThreshold int

	// Limits for check (0 means no limit)
	MaxBranches int
	MaxDepth    int

	// ResetDepthAtFunction restarts nesting at each function declaration
	ResetDepthAtFunction bool

	// Configuration
	ConfigPath      string
	ExcludePatterns []string
	Extensions      []string
}

// FunctionComplexity represents the metrics of one function identity
type FunctionComplexity struct {
	Rank     int    `json:"rank" yaml:"rank"`
	Name     string `json:"name" yaml:"name"`
	FilePath string `json:"file_path" yaml:"file_path"`

	// Value is the ranked metric
	Value int `json:"value" yaml:"value"`

	BranchCount  int `json:"branch_count" yaml:"branch_count"`
	MaxDepth     int `json:"max_depth" yaml:"max_depth"`
	StartLine    int `json:"start_line,omitempty" yaml:"start_line,omitempty"`
	EndLine      int `json:"end_line,omitempty" yaml:"end_line,omitempty"`
	DeepestLine  int `json:"deepest_line,omitempty" yaml:"deepest_line,omitempty"`
	Declarations int `json:"declarations" yaml:"declarations"`

	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`
}

// ComplexitySummary represents aggregate statistics of the file
type ComplexitySummary struct {
	TotalFunctions  int     `json:"total_functions" yaml:"total_functions"`
	TotalBranches   int     `json:"total_branches" yaml:"total_branches"`
	AverageBranches float64 `json:"average_branches" yaml:"average_branches"`
	MaxBranches     int     `json:"max_branches" yaml:"max_branches"`
	MaxDepth        int     `json:"max_depth" yaml:"max_depth"`

	// Branches found outside any function
	TopLevelBranches int `json:"top_level_branches" yaml:"top_level_branches"`

	// Risk distribution
	LowRiskFunctions    int `json:"low_risk_functions" yaml:"low_risk_functions"`
	MediumRiskFunctions int `json:"medium_risk_functions" yaml:"medium_risk_functions"`
	HighRiskFunctions   int `json:"high_risk_functions" yaml:"high_risk_functions"`

	FileSize   int64 `json:"file_size" yaml:"file_size"`
	DurationMs int64 `json:"duration_ms" yaml:"duration_ms"`
}

// ComplexityResponse represents the complete analysis result
type ComplexityResponse struct {
	FilePath string               `json:"file_path" yaml:"file_path"`
	Metric   MetricType           `json:"metric" yaml:"metric"`
	Top      int                  `json:"top" yaml:"top"`
	Ranked   []FunctionComplexity `json:"ranked" yaml:"ranked"`

	// Functions holds every function in first-seen order
	Functions []FunctionComplexity `json:"functions" yaml:"functions"`
	Summary   ComplexitySummary    `json:"summary" yaml:"summary"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata
	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Version     string      `json:"version" yaml:"version"`
	Config      interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// ComplexityService defines the core business logic for complexity analysis
type ComplexityService interface {
	// AnalyzeFile reads, parses and analyzes a single Kotlin file
	AnalyzeFile(ctx context.Context, req ComplexityRequest) (*ComplexityResponse, error)

	// AnalyzeSource analyzes in-memory source labelled with a file name
	AnalyzeSource(ctx context.Context, filename string, source []byte, req ComplexityRequest) (*ComplexityResponse, error)
}

// FileReader defines Kotlin-specific file operations
type FileReader interface {
	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidKotlinFile checks the extension and exclusion patterns
	IsValidKotlinFile(path string) bool

	// FileExists checks if a regular file exists
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting analysis results
type OutputFormatter interface {
	// Format formats the analysis response according to the specified format
	Format(response *ComplexityResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *ComplexityResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path, discovering it
	// from the target file when path is empty
	LoadConfig(path string, target string) (*ComplexityRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *ComplexityRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *ComplexityRequest, override *ComplexityRequest) *ComplexityRequest
}

// ProgressManager creates progress indicators for analysis stages
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks one task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
