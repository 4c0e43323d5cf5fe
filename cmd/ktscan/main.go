package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/ktscan/internal/constants"
	"github.com/ludo-technologies/ktscan/internal/logging"
	"github.com/ludo-technologies/ktscan/internal/version"
	"github.com/ludo-technologies/ktscan/service"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

// ExitError carries a process exit code. An empty message means the output
// has already been printed.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(constants.ExitCodeError)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "ktscan - branch complexity ranking for Kotlin",
		Long: `ktscan ranks the functions of a Kotlin source file by the number of
conditional statements they contain or by how deeply those statements nest.

Run without arguments to be asked for the file and the metric.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return runInteractive(commandContext(cmd), newLineReader(cmd), cmd.OutOrStdout(), newLogger(cmd), configPath)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write log records as JSON")
	rootCmd.Flags().StringP("config", "c", "", "Path to config file")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.ToolName, version.GetVersion())
			}
		},
	}
}

// newLogger builds the logger selected by the persistent logging flags
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	return logging.New(logging.Options{
		Verbose: verbose,
		JSON:    jsonLogs,
		Writer:  cmd.ErrOrStderr(),
	})
}

// newLineReader prompts with promptui on a terminal and reads plain lines otherwise
func newLineReader(cmd *cobra.Command) lineReader {
	if cmd.InOrStdin() == os.Stdin && service.IsStdinInteractive() {
		return &promptReader{}
	}
	return newScannerReader(cmd.InOrStdin(), cmd.OutOrStdout())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
