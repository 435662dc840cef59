package ui_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/batchsh/internal/execshell"
	"github.com/temirov/batchsh/internal/ui"
)

const (
	testCommandArgumentConstant             = "-la"
	testCommandNameFieldExpectationConstant = "ls -la"
	testExecutionFailureReasonConstant      = "execution failed"
	testStartMessageExpectationConstant     = "Running " + testCommandNameFieldExpectationConstant
	testSuccessMessageExpectationConstant   = "Completed " + testCommandNameFieldExpectationConstant
	testFailureMessageExpectationConstant   = testCommandNameFieldExpectationConstant + " failed with exit code 2"
	testExecutionFailureMessageExpectation  = testCommandNameFieldExpectationConstant + " failed: " + testExecutionFailureReasonConstant
	testNotRunnableMessageExpectation       = testCommandNameFieldExpectationConstant + " could not be run: " + testExecutionFailureReasonConstant
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandName("ls"),
		Details: execshell.CommandDetails{
			Arguments: []string{testCommandArgumentConstant},
		},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandStarted(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testStartMessageExpectationConstant,
		},
		{
			name: "command_completed_success",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testSuccessMessageExpectationConstant,
		},
		{
			name: "command_completed_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 2})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testFailureMessageExpectationConstant,
		},
		{
			name: "command_execution_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(command, execshell.CommandExecutionError{
					Command: command,
					Phase:   execshell.ExecutionPhaseStart,
					Cause:   errors.New(testExecutionFailureReasonConstant),
				})
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testExecutionFailureMessageExpectation,
		},
		{
			name: "command_not_runnable",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(command, execshell.CommandExecutionError{
					Command: command,
					Phase:   execshell.ExecutionPhaseLookup,
					Cause:   errors.New(testExecutionFailureReasonConstant),
				})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testNotRunnableMessageExpectation,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			consoleLogger := zap.New(observerCore)
			eventLogger := ui.NewConsoleCommandEventLogger(consoleLogger)

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerObservesExecutor(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.InfoLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), failingCommandRunner{}, eventLogger)
	require.NoError(testInstance, executorError)

	command, commandError := execshell.NewShellCommand([]string{"missing-tool", "--flag"})
	require.NoError(testInstance, commandError)

	_, executionError := executor.Execute(context.Background(), command)
	require.Error(testInstance, executionError)

	entries := observedLogs.All()
	require.Len(testInstance, entries, 2)
	require.Equal(testInstance, "Running missing-tool --flag", entries[0].Message)
	require.Equal(testInstance, zapcore.WarnLevel, entries[1].Level)
}

func TestConsoleCommandEventLoggerToleratesNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleCommandEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{})
		eventLogger.CommandCompleted(execshell.ShellCommand{}, execshell.ExecutionResult{})
		eventLogger.CommandExecutionFailed(execshell.ShellCommand{}, nil)
	})
}

type failingCommandRunner struct{}

func (failingCommandRunner) Start(_ context.Context, command execshell.ShellCommand) (execshell.ProcessHandle, error) {
	return nil, &exec.Error{Name: string(command.Name), Err: exec.ErrNotFound}
}
