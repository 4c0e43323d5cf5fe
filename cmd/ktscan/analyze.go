package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/ktscan/app"
	"github.com/ludo-technologies/ktscan/domain"
	"github.com/ludo-technologies/ktscan/internal/analyzer"
	"github.com/ludo-technologies/ktscan/internal/constants"
	"github.com/ludo-technologies/ktscan/service"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Rank the functions of a Kotlin file by branch complexity",
		Long: `Rank the functions of a Kotlin file by the number of conditional
statements (if, loops, when) or by their maximum nesting depth.

Examples:
  ktscan analyze Main.kt
  ktscan analyze --metric depth --top 5 Main.kt
  ktscan analyze --format table --details src/main/kotlin/App.kt
  ktscan analyze --json Main.kt
  ktscan analyze -i`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runAnalyze,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("metric", "m", "",
		"Ranking metric: count (1) or depth (2)")
	cmd.Flags().IntP("top", "t", 3,
		"Number of functions to list (0 = all)")
	cmd.Flags().StringP("format", "f", "",
		"Output format: text, table, json, yaml")
	cmd.Flags().Bool("json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().StringP("config", "c", "",
		"Path to config file")
	cmd.Flags().Bool("reset-depth", false,
		"Restart depth counting at each function declaration")
	cmd.Flags().Bool("details", false,
		"Show line information in table output")
	cmd.Flags().String("color", "",
		"Color mode for table output: auto, always, never")
	cmd.Flags().BoolP("interactive", "i", false,
		"Ask for the file and the metric")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if interactive {
		return runInteractive(commandContext(cmd), newLineReader(cmd), cmd.OutOrStdout(), newLogger(cmd), configPath)
	}
	if len(args) == 0 {
		return fmt.Errorf("no file specified")
	}

	req, err := buildAnalyzeRequest(cmd, args[0], configPath)
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()
	if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}
	req.OutputWriter = writer

	// Progress only decorates human-readable output on a terminal
	pm := service.NewProgressManager(isHumanFormat(req.OutputFormat))
	defer pm.Close()

	files := app.NewFileHelperWithPatterns(req.Extensions, req.ExcludePatterns)
	uc, err := app.NewComplexityUseCaseBuilder().
		WithService(service.NewComplexityServiceWithProgress(pm, newLogger(cmd)).WithFileReader(files)).
		WithFormatter(service.NewOutputFormatterWithOptions(req.Color, req.ShowDetails)).
		WithFileHelper(files).
		Build()
	if err != nil {
		return err
	}

	if _, err := uc.Execute(commandContext(cmd), *req); err != nil {
		return err
	}

	if writer != cmd.OutOrStdout() && isHumanFormat(req.OutputFormat) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", describeWriter(writer))
	}
	return nil
}

// buildAnalyzeRequest merges the discovered configuration with the command line flags
func buildAnalyzeRequest(cmd *cobra.Command, filePath, configPath string) (*domain.ComplexityRequest, error) {
	loader := service.NewConfigurationLoader()
	base, err := loader.LoadConfig(configPath, filePath)
	if err != nil {
		return nil, err
	}

	override := &domain.ComplexityRequest{FilePath: filePath, ConfigPath: configPath}

	if value, _ := cmd.Flags().GetString("metric"); value != "" {
		metric, err := analyzer.ParseMetric(value)
		if err != nil {
			return nil, &ExitError{Code: constants.ExitCodeError, Message: constants.MsgInvalidMetric}
		}
		override.Metric = domain.MetricType(metric)
	}

	if value, _ := cmd.Flags().GetString("format"); value != "" {
		format, err := domain.ParseOutputFormat(value)
		if err != nil {
			return nil, err
		}
		override.OutputFormat = format
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		override.OutputFormat = domain.OutputFormatJSON
	}

	override.ResetDepthAtFunction, _ = cmd.Flags().GetBool("reset-depth")
	override.ShowDetails, _ = cmd.Flags().GetBool("details")
	override.Color, _ = cmd.Flags().GetString("color")

	merged := loader.MergeConfig(base, override)

	// --top 0 lists every function, so an explicit flag always wins
	if cmd.Flags().Changed("top") {
		merged.Top, _ = cmd.Flags().GetInt("top")
	}
	if merged.OutputFormat == "" {
		merged.OutputFormat = domain.OutputFormatText
	}

	if err := loader.ValidateConfig(merged); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return merged, nil
}

func isHumanFormat(format domain.OutputFormat) bool {
	return format == domain.OutputFormatText || format == domain.OutputFormatTable
}

func describeWriter(w io.Writer) string {
	if file, ok := w.(*os.File); ok {
		return file.Name()
	}
	return "output"
}
