package tokenizer

import "strings"

const (
	// ArgumentDelimiter separates the arguments of one command unit.
	ArgumentDelimiter = " "
)

// Split consumes input up to each occurrence of delimiter and returns the
// extracted pieces in order. Pieces are trimmed of surrounding whitespace and
// empty pieces are discarded, so consecutive, leading, or trailing delimiters
// never yield zero-length tokens. The returned slice is never nil.
func Split(input string, delimiter string) []string {
	tokens := []string{}
	if len(delimiter) == 0 {
		return appendToken(tokens, input)
	}

	remainingInput := input
	for {
		delimiterIndex := strings.Index(remainingInput, delimiter)
		if delimiterIndex < 0 {
			return appendToken(tokens, remainingInput)
		}
		tokens = appendToken(tokens, remainingInput[:delimiterIndex])
		remainingInput = remainingInput[delimiterIndex+len(delimiter):]
	}
}

// SplitArguments splits a command unit into its argument vector.
func SplitArguments(commandUnit string) []string {
	return Split(commandUnit, ArgumentDelimiter)
}

func appendToken(tokens []string, candidate string) []string {
	trimmedCandidate := strings.TrimSpace(candidate)
	if len(trimmedCandidate) == 0 {
		return tokens
	}
	return append(tokens, trimmedCandidate)
}
