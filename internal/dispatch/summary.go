package dispatch

// UnitStatus describes what happened to one command unit.
type UnitStatus string

// Command unit outcomes.
const (
	// UnitStatusCompleted means a process ran and exited; ExitCode holds its status.
	UnitStatusCompleted UnitStatus = "completed"
	// UnitStatusNotRunnable means the executable could not be located or invoked.
	UnitStatusNotRunnable UnitStatus = "not_runnable"
	// UnitStatusStartFailed means process creation failed at the operating system level.
	UnitStatusStartFailed UnitStatus = "start_failed"
	// UnitStatusWaitFailed means the process started but its exit status was lost.
	UnitStatusWaitFailed UnitStatus = "wait_failed"
	// UnitStatusRejected means the unit was refused before any process was created.
	UnitStatusRejected UnitStatus = "rejected"
	// UnitStatusSkipped means a fail-fast sequential batch stopped before the unit.
	UnitStatusSkipped UnitStatus = "skipped"
)

const (
	notRunnableExitCodeConstant = 1
)

// UnitOutcome records the handling of one command unit.
type UnitOutcome struct {
	CommandUnit       string
	Arguments         []string
	Status            UnitStatus
	ProcessIdentifier int
	ExitCode          int
	Failure           error
}

// Spawned reports whether a process was created for the unit.
func (outcome UnitOutcome) Spawned() bool {
	return outcome.Status == UnitStatusCompleted || outcome.Status == UnitStatusWaitFailed
}

// Succeeded reports whether the unit ran and exited with status zero.
func (outcome UnitOutcome) Succeeded() bool {
	return outcome.Status == UnitStatusCompleted && outcome.ExitCode == 0
}

// DispatchSummary describes how one input line was handled.
type DispatchSummary struct {
	Mode              ExecutionMode
	WaveIdentifier    string
	RedirectionTarget string
	Units             []UnitOutcome
}

// SpawnedCount returns the number of processes created for the line.
func (summary DispatchSummary) SpawnedCount() int {
	spawnedCount := 0
	for _, outcome := range summary.Units {
		if outcome.Spawned() {
			spawnedCount++
		}
	}
	return spawnedCount
}

// ExitCodes returns the exit codes of the units that produced one, in unit order.
func (summary DispatchSummary) ExitCodes() []int {
	exitCodes := []int{}
	for _, outcome := range summary.Units {
		if outcome.Status == UnitStatusCompleted || outcome.Status == UnitStatusNotRunnable {
			exitCodes = append(exitCodes, outcome.ExitCode)
		}
	}
	return exitCodes
}
