package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/ktscan/domain"
	"github.com/ludo-technologies/ktscan/internal/constants"
	"github.com/ludo-technologies/ktscan/internal/version"
)

// CheckUseCase evaluates a file against branch and depth limits
type CheckUseCase struct {
	complexity *ComplexityUseCase
}

// NewCheckUseCase creates a check use case on top of complexity analysis
func NewCheckUseCase(complexity *ComplexityUseCase) *CheckUseCase {
	return &CheckUseCase{complexity: complexity}
}

// Execute analyzes req.FilePath and reports every function above req.MaxBranches
// or req.MaxDepth. A limit of 0 disables that rule.
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.ComplexityRequest) (*domain.CheckResult, error) {
	start := time.Now()

	// Every function is checked, not just the top entries
	req.Top = 0
	response, err := uc.complexity.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &domain.CheckResult{
		Passed:     true,
		ExitCode:   constants.ExitCodeSuccess,
		Violations: []domain.CheckViolation{},
		Summary: domain.CheckSummary{
			FilePath:          response.FilePath,
			FunctionsChecked:  len(response.Functions),
			MaxBranches:       response.Summary.MaxBranches,
			MaxDepth:          response.Summary.MaxDepth,
			BranchLimit:       req.MaxBranches,
			DepthLimit:        req.MaxDepth,
			HighRiskFunctions: response.Summary.HighRiskFunctions,
		},
	}

	for _, fn := range response.Functions {
		location := fmt.Sprintf("%s:%d", fn.FilePath, fn.StartLine)

		if req.MaxBranches > 0 && fn.BranchCount > req.MaxBranches {
			result.Violations = append(result.Violations, domain.CheckViolation{
				Rule:      "max-branches",
				Severity:  "error",
				Function:  fn.Name,
				Message:   fmt.Sprintf("Function '%s' has %d conditional statements (max: %d)", fn.Name, fn.BranchCount, req.MaxBranches),
				Location:  location,
				Actual:    fn.BranchCount,
				Threshold: req.MaxBranches,
			})
		}

		if req.MaxDepth > 0 && fn.MaxDepth > req.MaxDepth {
			depthLocation := location
			if fn.DeepestLine > 0 {
				depthLocation = fmt.Sprintf("%s:%d", fn.FilePath, fn.DeepestLine)
			}
			result.Violations = append(result.Violations, domain.CheckViolation{
				Rule:      "max-depth",
				Severity:  "error",
				Function:  fn.Name,
				Message:   fmt.Sprintf("Function '%s' nests conditional statements %d deep (max: %d)", fn.Name, fn.MaxDepth, req.MaxDepth),
				Location:  depthLocation,
				Actual:    fn.MaxDepth,
				Threshold: req.MaxDepth,
			})
		}
	}

	result.Summary.TotalViolations = len(result.Violations)
	if len(result.Violations) > 0 {
		result.Passed = false
		result.ExitCode = constants.ExitCodeViolation
	}
	result.Duration = time.Since(start).Milliseconds()
	result.GeneratedAt = time.Now().Format(time.RFC3339)
	result.Version = version.GetVersion()

	return result, nil
}
