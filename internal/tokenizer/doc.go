// Package tokenizer splits shell input on a delimiter.
//
// The same Split primitive serves both granularities used by the shell: a raw
// line is split into command units on a mode delimiter (&&, ##, >) and each
// command unit is split into its argument vector on a single space.
package tokenizer
