package dispatch

import "errors"

const (
	executorNotConfiguredMessageConstant       = "dispatcher shell executor not configured"
	argumentLimitExceededMessageConstant       = "argument limit exceeded"
	argumentLimitExceededErrorTemplateConstant = "%w: %d arguments, limit %d"
)

var (
	// ErrExecutorNotConfigured indicates that NewDispatcher received no shell executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrArgumentLimitExceeded indicates a command unit with more arguments than configured.
	ErrArgumentLimitExceeded = errors.New(argumentLimitExceededMessageConstant)
)
