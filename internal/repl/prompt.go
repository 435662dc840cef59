package repl

import (
	"os"

	"github.com/fatih/color"
)

// WorkingDirectoryProvider resolves the directory shown in the prompt.
type WorkingDirectoryProvider func() (string, error)

// PromptBuilder renders the <cwd>$ prompt.
type PromptBuilder struct {
	workingDirectoryProvider WorkingDirectoryProvider
	suffix                   string
	directoryColor           *color.Color
}

// NewPromptBuilder constructs a PromptBuilder. A nil provider uses os.Getwd.
// When colorize is set the directory is printed in bold blue.
func NewPromptBuilder(workingDirectoryProvider WorkingDirectoryProvider, suffix string, colorize bool) PromptBuilder {
	if workingDirectoryProvider == nil {
		workingDirectoryProvider = os.Getwd
	}
	builder := PromptBuilder{workingDirectoryProvider: workingDirectoryProvider, suffix: suffix}
	if colorize {
		builder.directoryColor = color.New(color.FgBlue, color.Bold)
		builder.directoryColor.EnableColor()
	}
	return builder
}

// Build returns the prompt for the current working directory. The directory is
// omitted when it cannot be resolved.
func (builder PromptBuilder) Build() string {
	workingDirectory, workingDirectoryError := builder.workingDirectoryProvider()
	if workingDirectoryError != nil {
		return builder.suffix
	}
	if builder.directoryColor != nil {
		workingDirectory = builder.directoryColor.Sprint(workingDirectory)
	}
	return workingDirectory + builder.suffix
}
