// Package repl implements the interactive read-dispatch loop of the shell.
//
// A Session prints the working directory prompt, reads one line at a time
// through a LineReader, and hands every accepted line to a Dispatcher. Line
// editing and history come from readline when standard input is a terminal;
// otherwise lines are scanned from the input stream as they arrive.
package repl
