package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that a process is about to be created.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that the process exited and supplies its result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented an exit status from being collected.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver discards all command events.
type noopCommandEventObserver struct{}

// CommandStarted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

// CommandCompleted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

// CommandExecutionFailed implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// compositeCommandEventObserver fans events out to several observers in order.
type compositeCommandEventObserver []CommandEventObserver

func (observers compositeCommandEventObserver) CommandStarted(command ShellCommand) {
	for _, observer := range observers {
		observer.CommandStarted(command)
	}
}

func (observers compositeCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range observers {
		observer.CommandCompleted(command, result)
	}
}

func (observers compositeCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range observers {
		observer.CommandExecutionFailed(command, failure)
	}
}

func newCommandEventObserver(observers []CommandEventObserver) CommandEventObserver {
	configuredObservers := make(compositeCommandEventObserver, 0, len(observers))
	for _, observer := range observers {
		if observer == nil {
			continue
		}
		configuredObservers = append(configuredObservers, observer)
	}
	switch len(configuredObservers) {
	case 0:
		return noopCommandEventObserver{}
	case 1:
		return configuredObservers[0]
	default:
		return configuredObservers
	}
}
