package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/ktscan/internal/config"
)

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ktscan.yaml")

	if _, err := runRoot(t, "", "init", "--config", configPath); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	for _, section := range []string{"complexity", "output", "analysis", "low_threshold", "medium_threshold", "reset_depth_at_function"} {
		if !strings.Contains(string(content), section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Generated config is invalid: %v", err)
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ktscan.yaml")
	if err := os.WriteFile(configPath, []byte("existing: true\n"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	if _, err := runRoot(t, "", "init", "--config", configPath); err == nil {
		t.Fatal("Expected error when file exists without --force")
	}

	if _, err := runRoot(t, "", "init", "--config", configPath, "--force"); err != nil {
		t.Fatalf("init with --force failed: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if strings.Contains(string(content), "existing") {
		t.Error("Config file was not overwritten")
	}
}

func TestInitCommand_Minimal(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ktscan.yaml")

	if _, err := runRoot(t, "", "init", "--config", configPath, "--minimal"); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if !strings.Contains(string(content), "minimal") {
		t.Errorf("Expected minimal template, got:\n%s", content)
	}
}

func TestInitCommand_StrictPreset(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ktscan.yaml")

	if _, err := runRoot(t, "", "init", "--config", configPath, "--strictness", "strict", "--project", "android"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}

	preset := config.GetStrictnessPresets()[config.StrictnessStrict]
	if cfg.Complexity.LowThreshold != preset.LowThreshold || cfg.Complexity.MaxDepth != preset.MaxDepth {
		t.Errorf("Strict preset not applied: %+v", cfg.Complexity)
	}
}

func TestInitCommand_UnknownPreset(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ktscan.yaml")

	if _, err := runRoot(t, "", "init", "--config", configPath, "--strictness", "extreme"); err == nil {
		t.Error("Expected error for unknown strictness")
	}
	if _, err := runRoot(t, "", "init", "--config", configPath, "--project", "ios"); err == nil {
		t.Error("Expected error for unknown project type")
	}
}

func TestInitCommand_MissingDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing", "ktscan.yaml")

	if _, err := runRoot(t, "", "init", "--config", configPath); err == nil {
		t.Error("Expected error when parent directory does not exist")
	}
}
