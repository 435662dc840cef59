package dispatch

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/batchsh/internal/execshell"
	"github.com/temirov/batchsh/internal/utils"
)

const (
	dispatchCompletedMessageConstant = "dispatch completed"
	logFieldModeConstant             = "mode"
	logFieldWaveIdentifierConstant   = "wave_id"
	logFieldUnitCountConstant        = "unit_count"
	logFieldSpawnedCountConstant     = "spawned"
	logFieldExitCodesConstant        = "exit_codes"
	logFieldInputOriginConstant      = "origin"
)

// Dependencies configures the collaborators used by Dispatcher.
type Dependencies struct {
	Logger   *zap.Logger
	Executor *execshell.ShellExecutor
	// FileSystem hosts redirection targets. Defaults to the operating system filesystem.
	FileSystem afero.Fs
	// Errors receives user-facing diagnostics. Pass the writer given to the
	// command runner as standard error, already wrapped with
	// utils.NewSharedStreamWriter, so both share one lock.
	Errors io.Writer
	// WaveIdentifierProvider labels parallel waves. Defaults to random UUIDs.
	WaveIdentifierProvider func() string
}

// Dispatcher runs one input line using the strategy its delimiters select.
type Dispatcher struct {
	logger                 *zap.Logger
	executor               *execshell.ShellExecutor
	fileSystem             afero.Fs
	errors                 io.Writer
	waveIdentifierProvider func() string
	contextAccessor        utils.CommandContextAccessor
	configuration          Configuration
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(dependencies Dependencies, configuration Configuration) (*Dispatcher, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	dispatcher := &Dispatcher{
		logger:                 dependencies.Logger,
		executor:               dependencies.Executor,
		fileSystem:             dependencies.FileSystem,
		errors:                 utils.NewSharedStreamWriter(dependencies.Errors),
		waveIdentifierProvider: dependencies.WaveIdentifierProvider,
		contextAccessor:        utils.NewCommandContextAccessor(),
		configuration:          configuration.sanitize(),
	}
	if dispatcher.logger == nil {
		dispatcher.logger = zap.NewNop()
	}
	if dispatcher.fileSystem == nil {
		dispatcher.fileSystem = afero.NewOsFs()
	}
	if dependencies.Errors == nil {
		dispatcher.errors = io.Discard
	}
	if dispatcher.waveIdentifierProvider == nil {
		dispatcher.waveIdentifierProvider = uuid.NewString
	}

	return dispatcher, nil
}

// Dispatch runs rawInput and returns once every process started for it has exited.
func (dispatcher *Dispatcher) Dispatch(executionContext context.Context, rawInput string) DispatchSummary {
	if executionContext == nil {
		executionContext = context.Background()
	}

	var summary DispatchSummary
	switch SelectExecutionMode(rawInput) {
	case ExecutionModeParallel:
		summary = dispatcher.executeParallel(executionContext, rawInput)
	case ExecutionModeSequential:
		summary = dispatcher.executeSequential(executionContext, rawInput)
	case ExecutionModeRedirected:
		summary = dispatcher.executeRedirected(executionContext, rawInput)
	default:
		summary = dispatcher.executeSingle(executionContext, rawInput)
	}

	inputOrigin, _ := dispatcher.contextAccessor.InputOrigin(executionContext)
	dispatcher.logger.Debug(
		dispatchCompletedMessageConstant,
		zap.String(logFieldInputOriginConstant, string(inputOrigin)),
		zap.String(logFieldModeConstant, string(summary.Mode)),
		zap.String(logFieldWaveIdentifierConstant, summary.WaveIdentifier),
		zap.Int(logFieldUnitCountConstant, len(summary.Units)),
		zap.Int(logFieldSpawnedCountConstant, summary.SpawnedCount()),
		zap.Ints(logFieldExitCodesConstant, summary.ExitCodes()),
	)

	return summary
}

func (dispatcher *Dispatcher) writeDiagnostic(format string, arguments ...any) {
	fmt.Fprintf(dispatcher.errors, format, arguments...)
}
