package execshell

import (
	"io"
	"strings"
)

const (
	commandArgumentsJoinSeparatorConstant = " "
)

// CommandName identifies the executable that a ShellCommand runs.
type CommandName string

// CommandDetails describes the arguments and stream overrides of a command.
type CommandDetails struct {
	Arguments []string
	// StandardOutput replaces the runner's default standard output when set.
	StandardOutput io.Writer
}

// ShellCommand is one argument vector ready for process creation.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	ProcessIdentifier int
	ExitCode          int
}

// NewShellCommand builds a ShellCommand from an argument vector whose first
// element names the executable.
func NewShellCommand(argumentVector []string) (ShellCommand, error) {
	if len(argumentVector) == 0 || len(strings.TrimSpace(argumentVector[0])) == 0 {
		return ShellCommand{}, ErrEmptyArgumentVector
	}

	return ShellCommand{
		Name: CommandName(argumentVector[0]),
		Details: CommandDetails{
			Arguments: append([]string{}, argumentVector[1:]...),
		},
	}, nil
}

// ArgumentVector returns the full vector, executable name first.
func (command ShellCommand) ArgumentVector() []string {
	return append([]string{string(command.Name)}, command.Details.Arguments...)
}

// CommandLine joins the argument vector with single spaces.
func (command ShellCommand) CommandLine() string {
	return strings.Join(command.ArgumentVector(), commandArgumentsJoinSeparatorConstant)
}
