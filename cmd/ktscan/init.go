package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/ktscan/internal/config"
	"github.com/ludo-technologies/ktscan/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a ktscan configuration file",
		Long: `Write a commented ktscan.yaml holding thresholds, check limits, output
defaults and exclusion patterns. Presets pick the exclusions for the project
type and the thresholds for the strictness level.

Examples:
  ktscan init
  ktscan init --project android --strictness strict
  ktscan init --config config/ktscan.yaml --force
  ktscan init --minimal
  ktscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")
	cmd.Flags().String("project", string(config.ProjectTypeGeneric),
		"Project type: generic, android, multiplatform")
	cmd.Flags().String("strictness", string(config.StrictnessStandard),
		"Strictness: relaxed, standard, strict")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	project, _ := cmd.Flags().GetString("project")
	level, _ := cmd.Flags().GetString("strictness")

	out := cmd.OutOrStdout()
	projectType := config.ProjectType(project)
	strictness := config.Strictness(level)

	if _, ok := config.GetProjectPresets()[projectType]; !ok {
		return fmt.Errorf("unknown project type: %s", project)
	}
	if _, ok := config.GetStrictnessPresets()[strictness]; !ok {
		return fmt.Errorf("unknown strictness: %s", level)
	}

	if interactive {
		var err error
		projectType, strictness, configPath, err = runInteractiveSetup(out, configPath)
		if err != nil {
			return err
		}
	}

	content := config.GetFullConfigTemplate(projectType, strictness)
	if minimal {
		content = config.GetMinimalConfigTemplate()
	}
	if err := writeConfigFile(configPath, content, force); err != nil {
		return err
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintf(out, "\nRun '%s analyze <file.kt>' to rank its functions.\n", constants.ToolName)

	return nil
}

// writeConfigFile refuses to replace an existing file unless force is set
func writeConfigFile(path, content string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// choice is one entry of a setup menu
type choice[T any] struct {
	Label       string
	Description string
	Value       T
}

var projectChoices = []choice[config.ProjectType]{
	{"Generic Kotlin/JVM", "Gradle or Maven build output excluded", config.ProjectTypeGeneric},
	{"Android", "Also skips generated R and BuildConfig sources", config.ProjectTypeAndroid},
	{"Kotlin Multiplatform", "Also skips .kotlin/ and generated source sets", config.ProjectTypeMultiplatform},
}

var strictnessChoices = []choice[config.Strictness]{
	{"Standard (recommended)", "Risk levels at 4 and 9 branches", config.StrictnessStandard},
	{"Relaxed", "Higher thresholds, fewer high-risk functions", config.StrictnessRelaxed},
	{"Strict", "Lower thresholds with branch and depth limits for CI", config.StrictnessStrict},
}

// selectChoice shows a promptui menu and returns the picked value
func selectChoice[T any](label string, choices []choice[T]) (T, error) {
	menu := promptui.Select{
		Label: label,
		Items: choices,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "  {{ .Label }} - {{ .Description | faint }}",
			Selected: "{{ .Label | green }}",
		},
	}

	idx, _, err := menu.Run()
	if err != nil {
		var zero T
		return zero, err
	}
	return choices[idx].Value, nil
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) (config.ProjectType, config.Strictness, string, error) {
	fmt.Fprintf(out, "\n%s setup\n\n", constants.ToolName)

	projectType, err := selectChoice("Project type", projectChoices)
	if err != nil {
		return "", "", "", fmt.Errorf("project selection cancelled: %w", err)
	}

	strictness, err := selectChoice("Strictness", strictnessChoices)
	if err != nil {
		return "", "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}

	pathPrompt := promptui.Prompt{
		Label:   "Config file",
		Default: defaultConfigPath,
	}
	configPath, err := pathPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("config path input cancelled: %w", err)
	}
	if configPath == "" {
		configPath = defaultConfigPath
	}

	fmt.Fprintln(out)
	return projectType, strictness, configPath, nil
}
