package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/ktscan/domain"
)

var _ domain.OutputFormatter = (*OutputFormatterImpl)(nil)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	colorize    bool
	showDetails bool
}

// NewOutputFormatter creates an output formatter with terminal color detection
func NewOutputFormatter() *OutputFormatterImpl {
	return NewOutputFormatterWithOptions("auto", false)
}

// NewOutputFormatterWithOptions creates an output formatter.
// colorMode is one of auto, always, never.
func NewOutputFormatterWithOptions(colorMode string, showDetails bool) *OutputFormatterImpl {
	colorize := !color.NoColor
	switch colorMode {
	case "always":
		colorize = true
	case "never":
		colorize = false
	}
	return &OutputFormatterImpl{
		colorize:    colorize,
		showDetails: showDetails,
	}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Format renders the response to a string
func (f *OutputFormatterImpl) Format(response *domain.ComplexityResponse, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(response, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the complexity response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.ComplexityResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("nothing to write", nil)
	}

	var err error
	switch format {
	case domain.OutputFormatText, "":
		err = f.writeComplexityText(response, writer)
	case domain.OutputFormatTable:
		err = f.writeComplexityTable(response, writer)
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, response)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}

	if err != nil {
		return domain.NewOutputError("failed to write "+string(format)+" output", err)
	}
	return nil
}

// writeComplexityText writes the classic console ranking
func (f *OutputFormatterImpl) writeComplexityText(response *domain.ComplexityResponse, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Top %d methods/functions with the highest complexity scores:\n", headerCount(response)); err != nil {
		return err
	}
	for _, fn := range response.Ranked {
		if _, err := fmt.Fprintf(writer, "%s: %d\n", fn.Name, fn.Value); err != nil {
			return err
		}
	}
	return nil
}

// writeComplexityTable writes the ranking as a table with a summary footer
func (f *OutputFormatterImpl) writeComplexityTable(response *domain.ComplexityResponse, writer io.Writer) error {
	heading := color.New(color.Bold, color.FgCyan)
	f.applyColor(heading)
	fmt.Fprintf(writer, "%s\n", heading.Sprintf("Branch complexity of %s (by %s)", response.FilePath, metricLabel(response.Metric)))

	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)

	header := table.Row{"#", "Function", "Branches", "Max depth"}
	if f.showDetails {
		header = append(header, "Lines", "Deepest")
	}
	header = append(header, "Risk")
	tbl.AppendHeader(header)

	for _, fn := range response.Ranked {
		row := table.Row{fn.Rank, fn.Name, fn.BranchCount, fn.MaxDepth}
		if f.showDetails {
			row = append(row, lineRange(fn), lineOrDash(fn.DeepestLine))
		}
		row = append(row, f.riskLabel(fn.RiskLevel))
		tbl.AppendRow(row)
	}

	summary := response.Summary
	footer := table.Row{"", fmt.Sprintf("%d functions", summary.TotalFunctions), summary.TotalBranches, summary.MaxDepth}
	if f.showDetails {
		footer = append(footer, "", "")
	}
	footer = append(footer, humanize.Bytes(uint64(summary.FileSize)))
	tbl.AppendFooter(footer)

	tbl.Render()

	fmt.Fprintf(writer, "Average branches: %.2f | High risk: %d | Medium risk: %d | Low risk: %d | Took %s\n",
		summary.AverageBranches,
		summary.HighRiskFunctions,
		summary.MediumRiskFunctions,
		summary.LowRiskFunctions,
		(time.Duration(summary.DurationMs) * time.Millisecond).String(),
	)

	if len(response.Warnings) > 0 {
		warn := color.New(color.FgYellow)
		f.applyColor(warn)
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "%s\n", warn.Sprintf("warning: %s", w))
		}
	}
	return nil
}

func (f *OutputFormatterImpl) riskLabel(level domain.RiskLevel) string {
	var c *color.Color
	switch level {
	case domain.RiskLevelHigh:
		c = color.New(color.FgRed, color.Bold)
	case domain.RiskLevelMedium:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgGreen)
	}
	f.applyColor(c)
	return c.Sprint(string(level))
}

func (f *OutputFormatterImpl) applyColor(c *color.Color) {
	if f.colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// headerCount is the N of the "Top N" header: the requested count, or every listed function
func headerCount(response *domain.ComplexityResponse) int {
	if response.Top > 0 {
		return response.Top
	}
	return len(response.Ranked)
}

func metricLabel(metric domain.MetricType) string {
	if metric == domain.MetricMaxDepth {
		return "maximum depth of conditional statements"
	}
	return "number of conditional statements"
}

func lineRange(fn domain.FunctionComplexity) string {
	if fn.StartLine == 0 {
		return "-"
	}
	if fn.EndLine == fn.StartLine {
		return strconv.Itoa(fn.StartLine)
	}
	return fmt.Sprintf("%d-%d", fn.StartLine, fn.EndLine)
}

func lineOrDash(line int) string {
	if line == 0 {
		return "-"
	}
	return strconv.Itoa(line)
}
