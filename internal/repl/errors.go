package repl

import "errors"

const (
	dispatcherNotConfiguredMessageConstant  = "session dispatcher not configured"
	lineReaderNotConfiguredMessageConstant  = "session line reader not configured"
	lineInterruptedMessageConstant          = "line interrupted"
	lineReaderCreationErrorTemplateConstant = "create line editor: %w"
	readLineErrorTemplateConstant           = "read input line: %w"
)

var (
	// ErrDispatcherNotConfigured indicates that NewSession received no dispatcher.
	ErrDispatcherNotConfigured = errors.New(dispatcherNotConfiguredMessageConstant)
	// ErrLineReaderNotConfigured indicates that NewSession received no line reader.
	ErrLineReaderNotConfigured = errors.New(lineReaderNotConfiguredMessageConstant)
	// ErrLineInterrupted reports that the user abandoned the current line with Ctrl-C.
	ErrLineInterrupted = errors.New(lineInterruptedMessageConstant)
)
