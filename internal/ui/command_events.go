package ui

import (
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/batchsh/internal/execshell"
)

const (
	logFieldProcessIdentifierConstant = "process_id"
	logFieldExitCodeConstant          = "exit_code"
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver. Non-zero exit
// codes are reported at warn level and never escalated further.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(
			eventLogger.formatter.BuildSuccessMessage(command),
			zap.Int(logFieldProcessIdentifierConstant, result.ProcessIdentifier),
		)
		return
	}
	eventLogger.logger.Warn(
		eventLogger.formatter.BuildFailureMessage(command, result),
		zap.Int(logFieldProcessIdentifierConstant, result.ProcessIdentifier),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
	)
}

// CommandExecutionFailed implements execshell.CommandEventObserver. Missing
// executables already produce a console diagnostic, so they log at warn level.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	message := eventLogger.formatter.BuildExecutionFailureMessage(command, failure)

	var executionError execshell.CommandExecutionError
	if errors.As(failure, &executionError) && executionError.NotRunnable() {
		eventLogger.logger.Warn(message)
		return
	}
	eventLogger.logger.Error(message)
}
