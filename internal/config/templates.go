package config

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the kind of Kotlin project being configured
type ProjectType string

const (
	ProjectTypeGeneric       ProjectType = "generic"
	ProjectTypeAndroid       ProjectType = "android"
	ProjectTypeMultiplatform ProjectType = "multiplatform"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds exclusion presets for different project types
type ProjectPreset struct {
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	LowThreshold    int
	MediumThreshold int
	MaxBranches     int
	MaxDepth        int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			ExcludePatterns: []string{
				"build/",
				"out/",
				".gradle/",
				".idea/",
				"*.generated.kt",
			},
		},
		ProjectTypeAndroid: {
			ExcludePatterns: []string{
				"build/",
				".gradle/",
				".idea/",
				"**/generated/**",
				"R.kt",
				"BuildConfig.kt",
			},
		},
		ProjectTypeMultiplatform: {
			ExcludePatterns: []string{
				"build/",
				".gradle/",
				".idea/",
				".kotlin/",
				"**/generated/**",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			LowThreshold:    8,
			MediumThreshold: 15,
			MaxBranches:     0, // No limit
			MaxDepth:        0,
		},
		StrictnessStandard: {
			LowThreshold:    DefaultLowComplexityThreshold,
			MediumThreshold: DefaultMediumComplexityThreshold,
			MaxBranches:     0,
			MaxDepth:        0,
		},
		StrictnessStrict: {
			LowThreshold:    3,
			MediumThreshold: 6,
			MaxBranches:     10,
			MaxDepth:        4,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeGeneric]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# ktscan configuration
# Documentation: https://github.com/ludo-technologies/ktscan

# ============================================================================
# BRANCH COMPLEXITY
# ============================================================================
# Counts if, loop and when constructs per function and tracks how deeply
# they nest
complexity:
  # Functions with at most this many branches are LOW risk
  low_threshold: ` + strconv.Itoa(strict.LowThreshold) + `

  # Functions above low_threshold and at most this value are MEDIUM risk
  # Functions above this are HIGH risk
  medium_threshold: ` + strconv.Itoa(strict.MediumThreshold) + `

  # Limits enforced by 'ktscan check' (0 = no limit)
  max_branches: ` + strconv.Itoa(strict.MaxBranches) + `
  max_depth: ` + strconv.Itoa(strict.MaxDepth) + `

  # Restart nesting depth at each function declaration. When false a
  # function declared inside a branch inherits the enclosing depth.
  reset_depth_at_function: false

# ============================================================================
# OUTPUT SETTINGS
# ============================================================================
output:
  # Output format: text, table, json, yaml
  format: text

  # Ranking metric: count (number of branches) or depth (maximum nesting)
  metric: count

  # Number of functions listed (0 = all)
  top: 3

  # Show line ranges in table output
  show_details: false

  # Colored output: auto, always, never
  color: auto

# ============================================================================
# ANALYSIS SCOPE
# ============================================================================
analysis:
  # Accepted file extensions
  extensions:
` + formatYAMLList([]string{".kt", ".kts"}, 4) + `

  # Files matching these gitignore-style patterns are refused
  exclude_patterns:
` + formatYAMLList(preset.ExcludePatterns, 4)
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# ktscan configuration (minimal)
# See full options: https://github.com/ludo-technologies/ktscan

complexity:
  low_threshold: ` + strconv.Itoa(DefaultLowComplexityThreshold) + `
  medium_threshold: ` + strconv.Itoa(DefaultMediumComplexityThreshold) + `

output:
  format: text
  metric: count
  top: 3
`
}

// formatYAMLList renders a string slice as an indented YAML sequence
func formatYAMLList(items []string, indent int) string {
	if len(items) == 0 {
		return strings.Repeat(" ", indent) + "[]\n"
	}

	out, err := yaml.Marshal(items)
	if err != nil {
		return strings.Repeat(" ", indent) + "[]\n"
	}

	pad := strings.Repeat(" ", indent)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(pad)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
