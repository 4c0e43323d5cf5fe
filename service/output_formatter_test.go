package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/ktscan/domain"
)

func sampleResponse() *domain.ComplexityResponse {
	functions := []domain.FunctionComplexity{
		{Rank: 1, Name: "branchy", FilePath: "Sample.kt", Value: 5, BranchCount: 5, MaxDepth: 3, StartLine: 7, EndLine: 20, DeepestLine: 10, Declarations: 1, RiskLevel: domain.RiskLevelMedium},
		{Rank: 2, Name: "find", FilePath: "Sample.kt", Value: 1, BranchCount: 1, MaxDepth: 1, StartLine: 23, EndLine: 26, DeepestLine: 24, Declarations: 1, RiskLevel: domain.RiskLevelLow},
		{Rank: 3, Name: "simple", FilePath: "Sample.kt", Value: 0, StartLine: 3, EndLine: 5, Declarations: 1, RiskLevel: domain.RiskLevelLow},
	}
	return &domain.ComplexityResponse{
		FilePath:  "Sample.kt",
		Metric:    domain.MetricBranchCount,
		Top:       3,
		Ranked:    functions,
		Functions: functions,
		Summary: domain.ComplexitySummary{
			TotalFunctions:      3,
			TotalBranches:       6,
			AverageBranches:     2,
			MaxBranches:         5,
			MaxDepth:            3,
			LowRiskFunctions:    2,
			MediumRiskFunctions: 1,
			FileSize:            2048,
			DurationMs:          12,
		},
		GeneratedAt: "2026-01-01T00:00:00Z",
		Version:     "dev",
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]interface{}{"name": "test", "value": 42}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if result["name"] != "test" {
		t.Errorf("Expected name to be 'test', got %v", result["name"])
	}
}

func TestOutputFormatter_Text(t *testing.T) {
	formatter := NewOutputFormatterWithOptions("never", false)

	out, err := formatter.Format(sampleResponse(), domain.OutputFormatText)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	expected := "Top 3 methods/functions with the highest complexity scores:\n" +
		"branchy: 5\n" +
		"find: 1\n" +
		"simple: 0\n"
	if out != expected {
		t.Errorf("Unexpected text output:\n%s", out)
	}
}

func TestOutputFormatter_TextHeaderKeepsRequestedCount(t *testing.T) {
	response := sampleResponse()
	response.Ranked = response.Ranked[:1]

	out, err := NewOutputFormatter().Format(response, domain.OutputFormatText)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.HasPrefix(out, "Top 3 methods/functions") {
		t.Errorf("Header should use the requested count: %s", out)
	}

	response.Top = 0
	out, _ = NewOutputFormatter().Format(response, domain.OutputFormatText)
	if !strings.HasPrefix(out, "Top 1 methods/functions") {
		t.Errorf("Header should count listed functions when listing all: %s", out)
	}
}

func TestOutputFormatter_Table(t *testing.T) {
	formatter := NewOutputFormatterWithOptions("never", true)

	out, err := formatter.Format(sampleResponse(), domain.OutputFormatTable)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"Branch complexity of Sample.kt (by number of conditional statements)",
		"FUNCTION", "BRANCHES", "MAX DEPTH", "LINES", "RISK",
		"branchy", "7-20", "medium",
		"2.0 kB",
		"Average branches: 2.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in table output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Color codes should be disabled")
	}
}

func TestOutputFormatter_TableColor(t *testing.T) {
	formatter := NewOutputFormatterWithOptions("always", false)

	out, err := formatter.Format(sampleResponse(), domain.OutputFormatTable)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("Color codes should be enabled")
	}
	if strings.Contains(out, "LINES") {
		t.Error("Line columns are only shown with details")
	}
}

func TestOutputFormatter_JSON(t *testing.T) {
	out, err := NewOutputFormatter().Format(sampleResponse(), domain.OutputFormatJSON)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded domain.ComplexityResponse
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(decoded.Ranked) != 3 || decoded.Ranked[0].Name != "branchy" {
		t.Errorf("Unexpected ranked functions: %+v", decoded.Ranked)
	}
	if decoded.Summary.TotalBranches != 6 {
		t.Errorf("Expected 6 total branches, got %d", decoded.Summary.TotalBranches)
	}
}

func TestOutputFormatter_YAML(t *testing.T) {
	out, err := NewOutputFormatter().Format(sampleResponse(), domain.OutputFormatYAML)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if decoded["file_path"] != "Sample.kt" {
		t.Errorf("Expected file_path Sample.kt, got %v", decoded["file_path"])
	}
	if !strings.Contains(out, "branch_count: 5") {
		t.Errorf("Expected snake_case keys in YAML output:\n%s", out)
	}
}

func TestOutputFormatter_Errors(t *testing.T) {
	formatter := NewOutputFormatter()

	if _, err := formatter.Format(sampleResponse(), domain.OutputFormat("html")); !domain.IsCode(err, domain.ErrCodeOutputError) {
		t.Errorf("Expected OUTPUT_ERROR for unsupported format, got %v", err)
	}
	if _, err := formatter.Format(nil, domain.OutputFormatText); !domain.IsCode(err, domain.ErrCodeOutputError) {
		t.Errorf("Expected OUTPUT_ERROR for nil response, got %v", err)
	}
}
