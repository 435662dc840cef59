package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/batchsh/internal/execshell"
	"github.com/temirov/batchsh/internal/tokenizer"
)

const (
	notRunnableDiagnosticTemplateConstant   = "Shell: Incorrect command: %v\n"
	startFailureDiagnosticTemplateConstant  = "Shell: Failed to start %s: %v\n"
	waitFailureDiagnosticTemplateConstant   = "Shell: Failed to wait for %s: %v\n"
	argumentLimitDiagnosticTemplateConstant = "Shell: Too many arguments: %d exceeds the limit of %d\n"
	startFailureLogMessageConstant          = "command could not be started"
	waitFailureLogMessageConstant           = "command exit status unavailable"
	logFieldCommandUnitConstant             = "command_unit"
)

// executeSingle runs a line holding no mode delimiter as one command unit.
func (dispatcher *Dispatcher) executeSingle(executionContext context.Context, rawInput string) DispatchSummary {
	summary := DispatchSummary{Mode: ExecutionModeSingle}
	if outcome, handled := dispatcher.runCommandUnit(executionContext, rawInput, nil); handled {
		summary.Units = append(summary.Units, outcome)
	}
	return summary
}

// runCommandUnit starts one command unit and waits for it. handled is false
// for units without any argument, which are ignored silently.
func (dispatcher *Dispatcher) runCommandUnit(executionContext context.Context, commandUnit string, standardOutput io.Writer) (UnitOutcome, bool) {
	command, outcome, prepareError := dispatcher.prepareCommandUnit(commandUnit, standardOutput)
	if errors.Is(prepareError, execshell.ErrEmptyArgumentVector) {
		return outcome, false
	}
	if prepareError != nil {
		return outcome, true
	}

	runningCommand, outcome := dispatcher.startCommandUnit(executionContext, command, outcome)
	if runningCommand == nil {
		return outcome, true
	}
	return dispatcher.awaitCommandUnit(runningCommand, outcome), true
}

// prepareCommandUnit splits a command unit into its argument vector. It
// returns execshell.ErrEmptyArgumentVector for blank units and
// ErrArgumentLimitExceeded, with a rejected outcome, for oversized ones.
func (dispatcher *Dispatcher) prepareCommandUnit(commandUnit string, standardOutput io.Writer) (execshell.ShellCommand, UnitOutcome, error) {
	argumentVector := tokenizer.SplitArguments(commandUnit)
	outcome := UnitOutcome{
		CommandUnit: strings.TrimSpace(commandUnit),
		Arguments:   argumentVector,
	}

	command, commandError := execshell.NewShellCommand(argumentVector)
	if commandError != nil {
		return execshell.ShellCommand{}, outcome, commandError
	}

	if len(argumentVector) > dispatcher.configuration.MaxArguments {
		limitError := fmt.Errorf(argumentLimitExceededErrorTemplateConstant, ErrArgumentLimitExceeded, len(argumentVector), dispatcher.configuration.MaxArguments)
		outcome.Status = UnitStatusRejected
		outcome.Failure = limitError
		dispatcher.writeDiagnostic(argumentLimitDiagnosticTemplateConstant, len(argumentVector), dispatcher.configuration.MaxArguments)
		return execshell.ShellCommand{}, outcome, limitError
	}

	command.Details.StandardOutput = standardOutput
	return command, outcome, nil
}

// startCommandUnit creates the process for command. A nil RunningCommand means
// the returned outcome is final and nothing is left to wait on.
func (dispatcher *Dispatcher) startCommandUnit(executionContext context.Context, command execshell.ShellCommand, outcome UnitOutcome) (*execshell.RunningCommand, UnitOutcome) {
	runningCommand, startError := dispatcher.executor.Start(executionContext, command)
	if startError != nil {
		return nil, dispatcher.recordStartFailure(command, outcome, startError)
	}
	outcome.ProcessIdentifier = runningCommand.ProcessIdentifier()
	return runningCommand, outcome
}

// awaitCommandUnit waits for a started command and records its exit status.
func (dispatcher *Dispatcher) awaitCommandUnit(runningCommand *execshell.RunningCommand, outcome UnitOutcome) UnitOutcome {
	result, waitError := runningCommand.Wait()
	if result.ProcessIdentifier != 0 {
		outcome.ProcessIdentifier = result.ProcessIdentifier
	}

	var commandFailure execshell.CommandFailedError
	switch {
	case waitError == nil:
		outcome.Status = UnitStatusCompleted
		outcome.ExitCode = result.ExitCode
	case errors.As(waitError, &commandFailure):
		outcome.Status = UnitStatusCompleted
		outcome.ExitCode = commandFailure.Result.ExitCode
		outcome.Failure = waitError
	default:
		outcome.Status = UnitStatusWaitFailed
		outcome.Failure = waitError
		dispatcher.writeDiagnostic(waitFailureDiagnosticTemplateConstant, outcome.CommandUnit, waitError)
		dispatcher.logger.Error(waitFailureLogMessageConstant, zap.String(logFieldCommandUnitConstant, outcome.CommandUnit), zap.Error(waitError))
	}
	return outcome
}

func (dispatcher *Dispatcher) recordStartFailure(command execshell.ShellCommand, outcome UnitOutcome, startError error) UnitOutcome {
	outcome.Failure = startError

	var executionFailure execshell.CommandExecutionError
	if errors.As(startError, &executionFailure) && executionFailure.NotRunnable() {
		outcome.Status = UnitStatusNotRunnable
		outcome.ExitCode = notRunnableExitCodeConstant
		dispatcher.writeDiagnostic(notRunnableDiagnosticTemplateConstant, executionFailure.Cause)
		return outcome
	}

	outcome.Status = UnitStatusStartFailed
	dispatcher.writeDiagnostic(startFailureDiagnosticTemplateConstant, command.Name, unwrapExecutionCause(startError))
	dispatcher.logger.Error(startFailureLogMessageConstant, zap.String(logFieldCommandUnitConstant, outcome.CommandUnit), zap.Error(startError))
	return outcome
}

func unwrapExecutionCause(failure error) error {
	var executionFailure execshell.CommandExecutionError
	if errors.As(failure, &executionFailure) && executionFailure.Cause != nil {
		return executionFailure.Cause
	}
	return failure
}
