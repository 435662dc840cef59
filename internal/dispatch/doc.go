// Package dispatch selects and runs the execution strategy for one input line.
//
// Dispatcher inspects the raw line for mode delimiters in fixed priority order
// (&& parallel, ## sequential, > redirection, otherwise a single command) and
// drives process creation and waiting through execshell.ShellExecutor. Every
// process started for a line is waited on before Dispatch returns, and no
// failure escapes Dispatch: bad input ends as a diagnostic on the error writer
// and an entry in the returned DispatchSummary.
package dispatch
