package config

// Default branch complexity thresholds
const (
	// DefaultLowComplexityThreshold is the upper bound of branch count for low risk functions
	DefaultLowComplexityThreshold = 4

	// DefaultMediumComplexityThreshold is the upper bound of branch count for medium risk functions
	// Functions above it are high risk
	DefaultMediumComplexityThreshold = 9

	// DefaultMaxBranchesLimit disables the branch count limit
	DefaultMaxBranchesLimit = 0

	// DefaultMaxDepthLimit disables the nesting depth limit
	DefaultMaxDepthLimit = 0
)

// Default output settings
const (
	// DefaultOutputFormat reproduces the classic console report
	DefaultOutputFormat = "text"

	// DefaultMetric ranks functions by number of branches
	DefaultMetric = "count"

	// DefaultTop is how many functions the report lists
	DefaultTop = 3

	// DefaultColor lets the terminal decide
	DefaultColor = "auto"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Complexity: ComplexityConfig{
			LowThreshold:         DefaultLowComplexityThreshold,
			MediumThreshold:      DefaultMediumComplexityThreshold,
			ResetDepthAtFunction: false,
			MaxBranches:          DefaultMaxBranchesLimit,
			MaxDepth:             DefaultMaxDepthLimit,
		},
		Output: OutputConfig{
			Format:      DefaultOutputFormat,
			Metric:      DefaultMetric,
			Top:         DefaultTop,
			ShowDetails: false,
			Color:       DefaultColor,
		},
		Analysis: AnalysisConfig{
			ExcludePatterns: []string{
				"build/",
				"out/",
				".gradle/",
				".idea/",
				"*.generated.kt",
			},
			Extensions: []string{".kt", ".kts"},
		},
	}
}
