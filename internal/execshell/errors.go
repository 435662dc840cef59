package execshell

import (
	"errors"
	"fmt"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	emptyArgumentVectorMessageConstant        = "argument vector is empty"
	commandFailedErrorTemplateConstant        = "%s exited with code %d"
	commandExecutionErrorTemplateConstant     = "%s could not be %s: %v"
	executionPhaseLookupDescriptionConstant   = "run"
	executionPhaseStartDescriptionConstant    = "started"
	executionPhaseWaitDescriptionConstant     = "awaited"
	executionPhaseUnknownDescriptionConstant  = "executed"
	commandExecutionErrorUnknownCauseConstant = "unknown error"
)

var (
	// ErrLoggerNotConfigured indicates that NewShellExecutor received a nil logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates that NewShellExecutor received a nil runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	// ErrEmptyArgumentVector indicates an attempt to run a command without an executable name.
	ErrEmptyArgumentVector = errors.New(emptyArgumentVectorMessageConstant)
)

// ExecutionPhase identifies where a command execution failed.
type ExecutionPhase int

// Execution phases reported by CommandExecutionError.
const (
	// ExecutionPhaseLookup covers executables that cannot be located or invoked.
	ExecutionPhaseLookup ExecutionPhase = iota
	// ExecutionPhaseStart covers process creation failures at the operating system level.
	ExecutionPhaseStart
	// ExecutionPhaseWait covers failures while collecting a started process.
	ExecutionPhaseWait
)

// CommandFailedError reports a process that exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command and its exit code.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.CommandLine(), failure.Result.ExitCode)
}

// CommandExecutionError reports a command that never produced an exit status.
type CommandExecutionError struct {
	Command ShellCommand
	Phase   ExecutionPhase
	Cause   error
}

// Error describes the command, the failing phase, and the cause.
func (failure CommandExecutionError) Error() string {
	var cause any = commandExecutionErrorUnknownCauseConstant
	if failure.Cause != nil {
		cause = failure.Cause
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.CommandLine(), failure.Phase.describe(), cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// NotRunnable reports whether the executable could not be located or invoked.
func (failure CommandExecutionError) NotRunnable() bool {
	return failure.Phase == ExecutionPhaseLookup
}

func (phase ExecutionPhase) describe() string {
	switch phase {
	case ExecutionPhaseLookup:
		return executionPhaseLookupDescriptionConstant
	case ExecutionPhaseStart:
		return executionPhaseStartDescriptionConstant
	case ExecutionPhaseWait:
		return executionPhaseWaitDescriptionConstant
	default:
		return executionPhaseUnknownDescriptionConstant
	}
}
