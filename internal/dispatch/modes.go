package dispatch

import "strings"

// Mode delimiters recognized on a raw input line.
const (
	ParallelDelimiter    = "&&"
	SequentialDelimiter  = "##"
	RedirectionDelimiter = ">"
)

const (
	executionModeSingleNameConstant     = "single"
	executionModeParallelNameConstant   = "parallel"
	executionModeSequentialNameConstant = "sequential"
	executionModeRedirectedNameConstant = "redirected"
)

// ExecutionMode names the strategy chosen for an input line.
type ExecutionMode string

// Supported execution modes.
const (
	ExecutionModeSingle     ExecutionMode = ExecutionMode(executionModeSingleNameConstant)
	ExecutionModeParallel   ExecutionMode = ExecutionMode(executionModeParallelNameConstant)
	ExecutionModeSequential ExecutionMode = ExecutionMode(executionModeSequentialNameConstant)
	ExecutionModeRedirected ExecutionMode = ExecutionMode(executionModeRedirectedNameConstant)
)

// SelectExecutionMode tests the raw line for delimiter substrings in priority
// order. A line holding both && and > is parallel; the > stays a literal argument.
func SelectExecutionMode(rawInput string) ExecutionMode {
	switch {
	case strings.Contains(rawInput, ParallelDelimiter):
		return ExecutionModeParallel
	case strings.Contains(rawInput, SequentialDelimiter):
		return ExecutionModeSequential
	case strings.Contains(rawInput, RedirectionDelimiter):
		return ExecutionModeRedirected
	default:
		return ExecutionModeSingle
	}
}
