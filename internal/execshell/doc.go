// Package execshell starts and waits for the child processes run by the shell.
//
// ShellExecutor validates argument vectors, reports lifecycle events to a
// CommandEventObserver, and classifies failures into CommandExecutionError and
// CommandFailedError values. OSCommandRunner is the os/exec backed
// CommandRunner used in production; tests substitute recording runners.
package execshell
