package execshell_test

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/batchsh/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionNotRunnableCaseNameConstant     = "not_runnable"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testExecutionWaitErrorCaseNameConstant       = "wait_error"
	testCommandNameConstant                      = "echo"
	testCommandArgumentConstant                  = "hello"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testProcessIdentifierConstant                = 4242
)

type recordingProcessHandle struct {
	mutex           sync.Mutex
	executionResult execshell.ExecutionResult
	waitError       error
	waitInvocations int
}

func (handle *recordingProcessHandle) ProcessIdentifier() int {
	return testProcessIdentifierConstant
}

func (handle *recordingProcessHandle) Wait() (execshell.ExecutionResult, error) {
	handle.mutex.Lock()
	defer handle.mutex.Unlock()
	handle.waitInvocations++
	return handle.executionResult, handle.waitError
}

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	startError       error
	waitError        error
	recordedCommands []execshell.ShellCommand
	startedHandles   []*recordingProcessHandle
}

func (runner *recordingCommandRunner) Start(executionContext context.Context, command execshell.ShellCommand) (execshell.ProcessHandle, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	if runner.startError != nil {
		return nil, runner.startError
	}
	handle := &recordingProcessHandle{executionResult: runner.executionResult, waitError: runner.waitError}
	runner.startedHandles = append(runner.startedHandles, handle)
	return handle, nil
}

type recordingEventObserver struct {
	events []string
}

func (eventObserver *recordingEventObserver) CommandStarted(execshell.ShellCommand) {
	eventObserver.events = append(eventObserver.events, "started")
}

func (eventObserver *recordingEventObserver) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
	eventObserver.events = append(eventObserver.events, "completed")
}

func (eventObserver *recordingEventObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	eventObserver.events = append(eventObserver.events, "failed")
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name              string
		runnerResult      execshell.ExecutionResult
		startError        error
		waitError         error
		expectErrorType   any
		expectNotRunnable bool
		expectedEvents    []string
		expectedLogCount  int
	}{
		{
			name:             testExecutionSuccessCaseNameConstant,
			runnerResult:     execshell.ExecutionResult{ProcessIdentifier: testProcessIdentifierConstant, ExitCode: 0},
			expectedEvents:   []string{"started", "completed"},
			expectedLogCount: 2,
		},
		{
			name:             testExecutionFailureCaseNameConstant,
			runnerResult:     execshell.ExecutionResult{ProcessIdentifier: testProcessIdentifierConstant, ExitCode: 1},
			expectErrorType:  execshell.CommandFailedError{},
			expectedEvents:   []string{"started", "completed"},
			expectedLogCount: 2,
		},
		{
			name:              testExecutionNotRunnableCaseNameConstant,
			startError:        &exec.Error{Name: "missing-tool", Err: exec.ErrNotFound},
			expectErrorType:   execshell.CommandExecutionError{},
			expectNotRunnable: true,
			expectedEvents:    []string{"started", "failed"},
			expectedLogCount:  2,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			startError:       errors.New("resource temporarily unavailable"),
			expectErrorType:  execshell.CommandExecutionError{},
			expectedEvents:   []string{"started", "failed"},
			expectedLogCount: 2,
		},
		{
			name:             testExecutionWaitErrorCaseNameConstant,
			waitError:        errors.New("wait failure"),
			expectErrorType:  execshell.CommandExecutionError{},
			expectedEvents:   []string{"started", "failed"},
			expectedLogCount: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				startError:      testCase.startError,
				waitError:       testCase.waitError,
			}
			eventObserver := &recordingEventObserver{}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner, eventObserver)
			require.NoError(testInstance, creationError)

			command, commandError := execshell.NewShellCommand([]string{testCommandNameConstant, testCommandArgumentConstant})
			require.NoError(testInstance, commandError)

			executionResult, executionError := shellExecutor.Execute(context.Background(), command)

			if testCase.expectErrorType != nil {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, testCase.expectErrorType, executionError)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult, executionResult)
			}

			var executionFailure execshell.CommandExecutionError
			if errors.As(executionError, &executionFailure) {
				require.Equal(testInstance, testCase.expectNotRunnable, executionFailure.NotRunnable())
			}

			require.Equal(testInstance, testCase.expectedEvents, eventObserver.events)
			require.Len(testInstance, observerLogs.All(), testCase.expectedLogCount)
			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			require.Equal(testInstance, execshell.CommandName(testCommandNameConstant), recordingRunner.recordedCommands[0].Name)
			require.Equal(testInstance, []string{testCommandArgumentConstant}, recordingRunner.recordedCommands[0].Details.Arguments)
		})
	}
}

func TestRunningCommandWaitCollectsOnce(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{executionResult: execshell.ExecutionResult{ExitCode: 3}}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner)
	require.NoError(testInstance, creationError)

	command, commandError := execshell.NewShellCommand([]string{testCommandNameConstant})
	require.NoError(testInstance, commandError)

	runningCommand, startError := shellExecutor.Start(context.Background(), command)
	require.NoError(testInstance, startError)
	require.Equal(testInstance, testProcessIdentifierConstant, runningCommand.ProcessIdentifier())

	firstResult, firstError := runningCommand.Wait()
	secondResult, secondError := runningCommand.Wait()

	require.Equal(testInstance, firstResult, secondResult)
	require.Equal(testInstance, firstError, secondError)
	require.IsType(testInstance, execshell.CommandFailedError{}, firstError)
	require.Len(testInstance, recordingRunner.startedHandles, 1)
	require.Equal(testInstance, 1, recordingRunner.startedHandles[0].waitInvocations)
}

func TestShellExecutorRejectsEmptyCommand(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner)
	require.NoError(testInstance, creationError)

	_, startError := shellExecutor.Start(context.Background(), execshell.ShellCommand{})
	require.ErrorIs(testInstance, startError, execshell.ErrEmptyArgumentVector)
	require.Empty(testInstance, recordingRunner.recordedCommands)

	_, commandError := execshell.NewShellCommand([]string{})
	require.ErrorIs(testInstance, commandError, execshell.ErrEmptyArgumentVector)
}
