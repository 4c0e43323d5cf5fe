package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/ktscan/domain"
)

func TestNewConfigurationLoader(t *testing.T) {
	if NewConfigurationLoader() == nil {
		t.Fatal("NewConfigurationLoader should not return nil")
	}
}

func TestConfigurationLoader_LoadConfig_NonExistent(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig("/nonexistent/ktscan.yaml", "")
	if !domain.IsCode(err, domain.ErrCodeConfigError) {
		t.Errorf("Expected CONFIG_ERROR, got %v", err)
	}
}

func TestConfigurationLoader_LoadConfig_InvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "ktscan.yaml")
	if err := os.WriteFile(configFile, []byte("complexity: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := NewConfigurationLoader().LoadConfig(configFile, "")
	if err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestConfigurationLoader_LoadConfig_Valid(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "ktscan.yaml")
	content := `complexity:
  low_threshold: 5
  medium_threshold: 10
  max_depth: 4
output:
  format: json
  metric: "2"
  top: 5
  show_details: true
`
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	req, err := NewConfigurationLoader().LoadConfig(configFile, "")
	if err != nil {
		t.Fatalf("LoadConfig should not return error: %v", err)
	}

	if req.LowThreshold != 5 || req.MediumThreshold != 10 {
		t.Errorf("Unexpected thresholds: %d/%d", req.LowThreshold, req.MediumThreshold)
	}
	if req.MaxDepth != 4 {
		t.Errorf("MaxDepth should be 4, got %d", req.MaxDepth)
	}
	if req.OutputFormat != domain.OutputFormatJSON {
		t.Errorf("OutputFormat should be json, got %s", req.OutputFormat)
	}
	if req.Metric != domain.MetricMaxDepth {
		t.Errorf("Metric \"2\" should normalize to depth, got %s", req.Metric)
	}
	if req.Top != 5 || !req.ShowDetails {
		t.Errorf("Unexpected output settings: top=%d details=%v", req.Top, req.ShowDetails)
	}
	if req.ConfigPath != configFile {
		t.Errorf("ConfigPath should be recorded, got %s", req.ConfigPath)
	}
}

func TestConfigurationLoader_LoadConfig_DiscoveredFromTarget(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ktscan.yml"), []byte("output:\n  format: yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "Main.kt")
	if err := os.WriteFile(target, []byte("fun main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	req, err := NewConfigurationLoader().LoadConfig("", target)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if req.OutputFormat != domain.OutputFormatYAML {
		t.Errorf("Expected discovered yaml format, got %s", req.OutputFormat)
	}
}

func TestConfigurationLoader_LoadDefaultConfig(t *testing.T) {
	req := NewConfigurationLoader().LoadDefaultConfig()
	if req == nil {
		t.Fatal("LoadDefaultConfig should not return nil")
	}
	if req.LowThreshold <= 0 || len(req.Extensions) == 0 {
		t.Errorf("Defaults not populated: %+v", req)
	}
}

func TestConfigurationLoader_MergeConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.ComplexityRequest{
		OutputFormat:    domain.OutputFormatText,
		Metric:          domain.MetricBranchCount,
		Top:             3,
		LowThreshold:    4,
		MediumThreshold: 9,
		MaxDepth:        5,
		Extensions:      []string{".kt"},
	}

	merged := loader.MergeConfig(base, &domain.ComplexityRequest{
		FilePath:             "Main.kt",
		OutputFormat:         domain.OutputFormatTable,
		Metric:               domain.MetricMaxDepth,
		ResetDepthAtFunction: true,
	})

	if merged.FilePath != "Main.kt" {
		t.Errorf("FilePath should come from override, got %s", merged.FilePath)
	}
	if merged.OutputFormat != domain.OutputFormatTable || merged.Metric != domain.MetricMaxDepth {
		t.Errorf("Overrides not applied: %+v", merged)
	}
	if merged.Top != 3 || merged.MaxDepth != 5 || merged.LowThreshold != 4 {
		t.Errorf("Unset overrides should keep base values: %+v", merged)
	}
	if !merged.ResetDepthAtFunction {
		t.Error("ResetDepthAtFunction should be enabled by override")
	}
	if len(merged.Extensions) != 1 {
		t.Errorf("Extensions should come from base, got %v", merged.Extensions)
	}

	// Base is not mutated
	if base.OutputFormat != domain.OutputFormatText {
		t.Error("MergeConfig must not mutate base")
	}
}

func TestConfigurationLoader_ValidateConfig(t *testing.T) {
	loader := NewConfigurationLoader()
	valid := loader.LoadDefaultConfig()

	if err := loader.ValidateConfig(valid); err != nil {
		t.Errorf("Default request should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *domain.ComplexityRequest)
	}{
		{"low threshold", func(r *domain.ComplexityRequest) { r.LowThreshold = 0 }},
		{"medium threshold", func(r *domain.ComplexityRequest) { r.MediumThreshold = r.LowThreshold }},
		{"negative top", func(r *domain.ComplexityRequest) { r.Top = -1 }},
		{"negative limit", func(r *domain.ComplexityRequest) { r.MaxDepth = -1 }},
		{"format", func(r *domain.ComplexityRequest) { r.OutputFormat = "csv" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := *valid
			tt.mutate(&req)
			if err := loader.ValidateConfig(&req); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
