package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/batchsh/internal/dispatch"
)

const (
	exitCommandConstant                = "exit"
	exitMessageConstant                = "Exiting shell..."
	lineTruncatedMessageConstant       = "input line truncated"
	lineAcceptedMessageConstant        = "input line accepted"
	sessionEndedMessageConstant        = "session ended"
	logFieldReceivedLengthConstant     = "received_length"
	logFieldMaximumLengthConstant      = "max_length"
	logFieldLineConstant               = "line"
	logFieldReasonConstant             = "reason"
	sessionEndReasonExitConstant       = "exit"
	sessionEndReasonEndOfInputConstant = "end_of_input"
	sessionEndReasonCancelledConstant  = "cancelled"
)

// Dispatcher runs one accepted input line to completion.
type Dispatcher interface {
	Dispatch(executionContext context.Context, rawInput string) dispatch.DispatchSummary
}

// SessionDependencies configures the collaborators used by Session.
type SessionDependencies struct {
	Logger        *zap.Logger
	Reader        LineReader
	Dispatcher    Dispatcher
	PromptBuilder PromptBuilder
	Output        io.Writer
}

// Session is one interactive shell loop.
type Session struct {
	logger        *zap.Logger
	reader        LineReader
	dispatcher    Dispatcher
	promptBuilder PromptBuilder
	output        io.Writer
	configuration Configuration
}

// NewSession constructs a Session. A zero PromptBuilder is replaced by one
// derived from configuration.
func NewSession(dependencies SessionDependencies, configuration Configuration) (*Session, error) {
	if dependencies.Reader == nil {
		return nil, ErrLineReaderNotConfigured
	}
	if dependencies.Dispatcher == nil {
		return nil, ErrDispatcherNotConfigured
	}

	sanitizedConfiguration := configuration.sanitize()
	session := &Session{
		logger:        dependencies.Logger,
		reader:        dependencies.Reader,
		dispatcher:    dependencies.Dispatcher,
		promptBuilder: dependencies.PromptBuilder,
		output:        dependencies.Output,
		configuration: sanitizedConfiguration,
	}
	if session.logger == nil {
		session.logger = zap.NewNop()
	}
	if session.output == nil {
		session.output = io.Discard
	}
	if session.promptBuilder.workingDirectoryProvider == nil {
		session.promptBuilder = NewPromptBuilder(nil, sanitizedConfiguration.PromptSuffix, false)
	}
	return session, nil
}

// Run reads and dispatches lines until exit is entered, input ends, or
// executionContext is cancelled. Entering exit and reaching the end of input
// both print the exit message. Each line is dispatched to completion before
// the next prompt is shown.
func (session *Session) Run(executionContext context.Context) error {
	if executionContext == nil {
		executionContext = context.Background()
	}

	for {
		if executionContext.Err() != nil {
			session.logger.Debug(sessionEndedMessageConstant, zap.String(logFieldReasonConstant, sessionEndReasonCancelledConstant))
			return nil
		}

		line, readError := session.reader.ReadLine(session.promptBuilder.Build())
		switch {
		case errors.Is(readError, io.EOF):
			fmt.Fprintln(session.output, exitMessageConstant)
			session.logger.Debug(sessionEndedMessageConstant, zap.String(logFieldReasonConstant, sessionEndReasonEndOfInputConstant))
			return nil
		case errors.Is(readError, ErrLineInterrupted):
			continue
		case readError != nil:
			return fmt.Errorf(readLineErrorTemplateConstant, readError)
		}

		if line == exitCommandConstant {
			fmt.Fprintln(session.output, exitMessageConstant)
			session.logger.Debug(sessionEndedMessageConstant, zap.String(logFieldReasonConstant, sessionEndReasonExitConstant))
			return nil
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		acceptedLine := session.limitLineLength(line)
		session.logger.Debug(lineAcceptedMessageConstant, zap.String(logFieldLineConstant, acceptedLine))
		session.dispatcher.Dispatch(executionContext, acceptedLine)
	}
}

// limitLineLength truncates line to the configured byte length without splitting a UTF-8 sequence.
func (session *Session) limitLineLength(line string) string {
	maximumLength := session.configuration.MaxLineLength
	if len(line) <= maximumLength {
		return line
	}

	truncationIndex := maximumLength
	for truncationIndex > 0 && !utf8.RuneStart(line[truncationIndex]) {
		truncationIndex--
	}

	session.logger.Warn(
		lineTruncatedMessageConstant,
		zap.Int(logFieldReceivedLengthConstant, len(line)),
		zap.Int(logFieldMaximumLengthConstant, maximumLength),
	)
	return line[:truncationIndex]
}
