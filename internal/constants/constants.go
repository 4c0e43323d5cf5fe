package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "ktscan"

	// ConfigFileName is the default config file name
	ConfigFileName = "ktscan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "KTSCAN"
)

// Output format constants
const (
	OutputFormatText  = "text"
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

// Exit codes of the check command
const (
	ExitCodeSuccess   = 0
	ExitCodeViolation = 1
	ExitCodeError     = 2
)

// Messages of the interactive mode
const (
	PromptFileName     = "Enter the name of the file"
	PromptMetric       = "Enter the type of metric (1 for number of conditional statements, 2 for maximum depth of conditional statements)"
	MsgInvalidFileName = "Invalid file name."
	MsgFileNotFound    = "File not found."
	MsgInvalidMetric   = "Invalid metric type."
	MsgCannotParse     = "This file can't be parsed."
)
