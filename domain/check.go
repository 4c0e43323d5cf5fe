package domain

// CheckResult represents the result of a threshold check
type CheckResult struct {
	Passed      bool             `json:"passed"`
	ExitCode    int              `json:"exit_code"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Rule      string `json:"rule"`               // max-branches, max-depth
	Severity  string `json:"severity"`           // error
	Function  string `json:"function"`           // Function identity
	Message   string `json:"message"`            // Human-readable description
	Location  string `json:"location,omitempty"` // File:line
	Actual    int    `json:"actual"`
	Threshold int    `json:"threshold"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilePath          string `json:"file_path"`
	FunctionsChecked  int    `json:"functions_checked"`
	TotalViolations   int    `json:"total_violations"`
	MaxBranches       int    `json:"max_branches"`
	MaxDepth          int    `json:"max_depth"`
	BranchLimit       int    `json:"branch_limit"`
	DepthLimit        int    `json:"depth_limit"`
	HighRiskFunctions int    `json:"high_risk_functions"`
}
