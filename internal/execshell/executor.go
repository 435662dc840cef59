package execshell

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

const (
	logFieldCommandConstant           = "command"
	logFieldArgumentsConstant         = "arguments"
	logFieldProcessIdentifierConstant = "process_id"
	logFieldExitCodeConstant          = "exit_code"
)

// ShellExecutor starts commands through a CommandRunner while logging and
// reporting their lifecycle.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// RunningCommand is a started command owned by the strategy that started it.
type RunningCommand struct {
	command   ShellCommand
	handle    ProcessHandle
	executor  *ShellExecutor
	waitOnce  sync.Once
	result    ExecutionResult
	waitError error
}

// NewShellExecutor constructs a ShellExecutor. Nil observers are ignored.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:    logger,
		runner:    runner,
		observer:  newCommandEventObserver(observers),
		formatter: CommandMessageFormatter{},
	}, nil
}

// Start creates the process for command and returns without waiting for it.
// A returned CommandExecutionError means no process is left to wait on.
func (executor *ShellExecutor) Start(executionContext context.Context, command ShellCommand) (*RunningCommand, error) {
	if len(command.Name) == 0 {
		return nil, ErrEmptyArgumentVector
	}
	if executionContext == nil {
		executionContext = context.Background()
	}

	executor.observer.CommandStarted(command)
	executor.logger.Debug(
		executor.formatter.BuildStartedMessage(command),
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
	)

	handle, startError := executor.runner.Start(executionContext, command)
	if startError != nil {
		executionError := CommandExecutionError{
			Command: command,
			Phase:   classifyStartFailure(startError),
			Cause:   startError,
		}
		executor.reportExecutionFailure(command, executionError)
		return nil, executionError
	}

	return &RunningCommand{command: command, handle: handle, executor: executor}, nil
}

// Execute starts command and waits for it to exit.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	runningCommand, startError := executor.Start(executionContext, command)
	if startError != nil {
		return ExecutionResult{}, startError
	}
	return runningCommand.Wait()
}

// ProcessIdentifier returns the operating system identifier of the process.
func (runningCommand *RunningCommand) ProcessIdentifier() int {
	return runningCommand.handle.ProcessIdentifier()
}

// Wait blocks until the process exits. The underlying process is collected once;
// later calls return the recorded outcome.
func (runningCommand *RunningCommand) Wait() (ExecutionResult, error) {
	runningCommand.waitOnce.Do(runningCommand.collect)
	return runningCommand.result, runningCommand.waitError
}

func (runningCommand *RunningCommand) collect() {
	executor := runningCommand.executor
	command := runningCommand.command

	result, waitError := runningCommand.handle.Wait()
	runningCommand.result = result
	if waitError != nil {
		executionError := CommandExecutionError{Command: command, Phase: ExecutionPhaseWait, Cause: waitError}
		executor.reportExecutionFailure(command, executionError)
		runningCommand.waitError = executionError
		return
	}

	executor.observer.CommandCompleted(command, result)
	if result.ExitCode != 0 {
		executor.logger.Debug(
			executor.formatter.BuildFailureMessage(command, result),
			zap.Int(logFieldProcessIdentifierConstant, result.ProcessIdentifier),
			zap.Int(logFieldExitCodeConstant, result.ExitCode),
		)
		runningCommand.waitError = CommandFailedError{Command: command, Result: result}
		return
	}

	executor.logger.Debug(
		executor.formatter.BuildSuccessMessage(command),
		zap.Int(logFieldProcessIdentifierConstant, result.ProcessIdentifier),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
	)
}

func (executor *ShellExecutor) reportExecutionFailure(command ShellCommand, failure error) {
	executor.observer.CommandExecutionFailed(command, failure)
	executor.logger.Debug(
		executor.formatter.BuildExecutionFailureMessage(command, failure),
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Error(failure),
	)
}

// classifyStartFailure separates executables that cannot be located or invoked
// from process creation failures.
func classifyStartFailure(startError error) ExecutionPhase {
	switch {
	case errors.Is(startError, exec.ErrNotFound),
		errors.Is(startError, exec.ErrDot),
		errors.Is(startError, fs.ErrNotExist),
		errors.Is(startError, fs.ErrPermission),
		errors.Is(startError, syscall.ENOEXEC),
		errors.Is(startError, syscall.ENOTDIR):
		return ExecutionPhaseLookup
	default:
		return ExecutionPhaseStart
	}
}
