package execshell

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/temirov/batchsh/internal/utils"
)

// CommandRunner creates processes for ShellCommand values.
type CommandRunner interface {
	Start(executionContext context.Context, command ShellCommand) (ProcessHandle, error)
}

// ProcessHandle is a started process. The caller that started it must wait on it exactly once.
type ProcessHandle interface {
	ProcessIdentifier() int
	Wait() (ExecutionResult, error)
}

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct {
	standardInput  io.Reader
	standardOutput io.Writer
	standardError  io.Writer
}

// NewOSCommandRunner constructs a runner backed by os/exec. Children inherit the
// supplied streams unless a command overrides its standard output. Streams that
// are not operating system files are guarded so a parallel wave can share them.
func NewOSCommandRunner(standardInput io.Reader, standardOutput io.Writer, standardError io.Writer) *OSCommandRunner {
	runner := &OSCommandRunner{standardInput: utils.NewSharedStreamReader(standardInput)}
	if standardOutput != nil {
		runner.standardOutput = utils.NewSharedStreamWriter(standardOutput)
	}
	if standardError != nil {
		runner.standardError = utils.NewSharedStreamWriter(standardError)
	}
	return runner
}

// Start creates the process described by command without waiting for it.
func (runner *OSCommandRunner) Start(executionContext context.Context, command ShellCommand) (ProcessHandle, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	executable.Stdin = runner.standardInput
	executable.Stdout = runner.standardOutput
	if command.Details.StandardOutput != nil {
		executable.Stdout = command.Details.StandardOutput
	}
	executable.Stderr = runner.standardError

	if startError := executable.Start(); startError != nil {
		return nil, startError
	}

	return &osProcessHandle{executable: executable}, nil
}

type osProcessHandle struct {
	executable *exec.Cmd
}

func (handle *osProcessHandle) ProcessIdentifier() int {
	if handle.executable.Process == nil {
		return 0
	}
	return handle.executable.Process.Pid
}

func (handle *osProcessHandle) Wait() (ExecutionResult, error) {
	processIdentifier := handle.ProcessIdentifier()
	waitError := handle.executable.Wait()
	if waitError != nil {
		exitError := &exec.ExitError{}
		if errors.As(waitError, &exitError) {
			return ExecutionResult{
				ProcessIdentifier: processIdentifier,
				ExitCode:          exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{ProcessIdentifier: processIdentifier}, waitError
	}

	return ExecutionResult{
		ProcessIdentifier: processIdentifier,
		ExitCode:          0,
	}, nil
}
