package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/ktscan/app"
	"github.com/ludo-technologies/ktscan/domain"
	"github.com/ludo-technologies/ktscan/internal/constants"
	"github.com/ludo-technologies/ktscan/service"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Fail when a function exceeds branch or depth limits",
		Long: `Check every function of a Kotlin file against branch count and nesting
depth limits for CI/CD integration.

Exit codes:
  0 - All functions within limits
  1 - At least one limit exceeded
  2 - Analysis error (file not found, parse error, etc.)

Examples:
  # Default limits (10 branches, depth 4)
  ktscan check Main.kt

  # Custom limits, 0 disables a rule
  ktscan check --max-branches 15 --max-depth 0 Main.kt

  # JSON output for machine parsing
  ktscan check --json Main.kt`,
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Int("max-branches", 10,
		"Maximum conditional statements per function (0 = no limit)")
	cmd.Flags().Int("max-depth", 4,
		"Maximum nesting depth of conditional statements (0 = no limit)")
	cmd.Flags().Bool("reset-depth", false,
		"Restart depth counting at each function declaration")
	cmd.Flags().Bool("json", false,
		"Output results as JSON")
	cmd.Flags().StringP("config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &ExitError{Code: constants.ExitCodeError, Message: "no file specified"}
	}

	configPath, _ := cmd.Flags().GetString("config")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	loader := service.NewConfigurationLoader()
	req, err := loader.LoadConfig(configPath, args[0])
	if err != nil {
		return &ExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}
	req.FilePath = args[0]

	// Configured limits apply unless the flag was given explicitly
	maxBranches, _ := cmd.Flags().GetInt("max-branches")
	if cmd.Flags().Changed("max-branches") || req.MaxBranches == 0 {
		req.MaxBranches = maxBranches
	}
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	if cmd.Flags().Changed("max-depth") || req.MaxDepth == 0 {
		req.MaxDepth = maxDepth
	}
	if resetDepth, _ := cmd.Flags().GetBool("reset-depth"); resetDepth {
		req.ResetDepthAtFunction = true
	}

	pm := service.NewProgressManager(!jsonOutput)
	defer pm.Close()

	files := app.NewFileHelperWithPatterns(req.Extensions, req.ExcludePatterns)
	complexity, err := app.NewComplexityUseCaseBuilder().
		WithService(service.NewComplexityServiceWithProgress(pm, newLogger(cmd)).WithFileReader(files)).
		WithFileHelper(files).
		Build()
	if err != nil {
		return &ExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}

	result, err := app.NewCheckUseCase(complexity).Execute(commandContext(cmd), *req)
	if err != nil {
		return &ExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := service.WriteJSON(out, result); err != nil {
			return &ExitError{Code: constants.ExitCodeError, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
		}
	} else {
		outputCheckText(out, result, verbose)
	}

	if !result.Passed {
		return &ExitError{Code: constants.ExitCodeViolation}
	}
	return nil
}

func outputCheckText(out io.Writer, result *domain.CheckResult, verbose bool) {
	summary := result.Summary

	if result.Passed {
		fmt.Fprintln(out, "PASS: All functions within limits")
		if verbose {
			fmt.Fprintf(out, "  Functions checked: %d\n", summary.FunctionsChecked)
			fmt.Fprintf(out, "  Branches: max %d (limit: %s)\n", summary.MaxBranches, limitLabel(summary.BranchLimit))
			fmt.Fprintf(out, "  Depth: max %d (limit: %s)\n", summary.MaxDepth, limitLabel(summary.DepthLimit))
			fmt.Fprintf(out, "  Duration: %dms\n", result.Duration)
		}
		return
	}

	fmt.Fprintln(out, "FAIL: Complexity check failed")
	fmt.Fprintf(out, "  Violations: %d\n", summary.TotalViolations)

	for _, v := range result.Violations {
		fmt.Fprintf(out, "  [ERROR] %s: %s\n", v.Rule, v.Message)
		if verbose && v.Location != "" {
			fmt.Fprintf(out, "         at %s\n", v.Location)
		}
	}

	if verbose {
		fmt.Fprintf(out, "\nSummary:\n")
		fmt.Fprintf(out, "  Functions checked: %d\n", summary.FunctionsChecked)
		fmt.Fprintf(out, "  High risk functions: %d\n", summary.HighRiskFunctions)
		fmt.Fprintf(out, "  Duration: %dms\n", result.Duration)
	}
}

func limitLabel(limit int) string {
	if limit <= 0 {
		return "none"
	}
	return fmt.Sprint(limit)
}
