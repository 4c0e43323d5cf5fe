package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ludo-technologies/ktscan/app"
	"github.com/ludo-technologies/ktscan/domain"
	"github.com/ludo-technologies/ktscan/internal/constants"
	"github.com/ludo-technologies/ktscan/service"
)

// lineReader asks for one answer per prompt. ok is false when input ends.
type lineReader interface {
	ReadLine(label string) (answer string, ok bool)
}

// scannerReader prints the prompt and reads the next input line
type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newScannerReader(in io.Reader, out io.Writer) *scannerReader {
	return &scannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *scannerReader) ReadLine(label string) (string, bool) {
	fmt.Fprintf(r.out, "%s:\n", label)
	if !r.scanner.Scan() {
		return "", false
	}
	return r.scanner.Text(), true
}

// promptReader asks on the terminal
type promptReader struct{}

func (r *promptReader) ReadLine(label string) (string, bool) {
	prompt := promptui.Prompt{Label: label}
	answer, err := prompt.Run()
	if err != nil {
		return "", false
	}
	return answer, true
}

// runInteractive asks for a file and a metric, then prints the top functions.
// Any file that exists is accepted; one that does not parse is reported as such.
func runInteractive(ctx context.Context, reader lineReader, out io.Writer, logger *slog.Logger, configPath string) error {
	fileName, ok := reader.ReadLine(constants.PromptFileName)
	fileName = strings.TrimSpace(fileName)
	if !ok || fileName == "" {
		return interactiveFailure(out, constants.MsgInvalidFileName)
	}

	files := app.NewFileHelper()
	exists, err := files.FileExists(fileName)
	if err != nil || !exists {
		return interactiveFailure(out, constants.MsgFileNotFound)
	}

	answer, ok := reader.ReadLine(constants.PromptMetric)
	var metric domain.MetricType
	switch strings.TrimSpace(answer) {
	case "1":
		metric = domain.MetricBranchCount
	case "2":
		metric = domain.MetricMaxDepth
	}
	if !ok || metric == "" {
		return interactiveFailure(out, constants.MsgInvalidMetric)
	}

	loader := service.NewConfigurationLoader()
	req, err := loader.LoadConfig(configPath, fileName)
	if err != nil {
		return &ExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}
	req.FilePath = fileName
	req.Metric = metric
	req.OutputFormat = domain.OutputFormatText

	svc := service.NewComplexityServiceWithProgress(nil, logger).WithFileReader(files)
	response, err := svc.AnalyzeFile(ctx, *req)
	if err != nil {
		logger.Debug("interactive analysis failed", "file", fileName, "error", err)
		return interactiveFailure(out, constants.MsgCannotParse)
	}

	formatter := service.NewOutputFormatterWithOptions("never", false)
	if err := formatter.Write(response, domain.OutputFormatText, out); err != nil {
		return &ExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}
	return nil
}

func interactiveFailure(out io.Writer, message string) error {
	fmt.Fprintln(out, message)
	return &ExitError{Code: constants.ExitCodeError}
}
