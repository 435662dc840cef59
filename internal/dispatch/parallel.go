package dispatch

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/batchsh/internal/execshell"
	"github.com/temirov/batchsh/internal/tokenizer"
)

const (
	waveLaunchedMessageConstant = "parallel wave launched"
	logFieldLaunchedConstant    = "launched"
)

type waveMember struct {
	unitIndex      int
	runningCommand *execshell.RunningCommand
}

// executeParallel starts every && separated unit before waiting on any of them,
// then joins the whole wave.
func (dispatcher *Dispatcher) executeParallel(executionContext context.Context, rawInput string) DispatchSummary {
	summary := DispatchSummary{
		Mode:           ExecutionModeParallel,
		WaveIdentifier: dispatcher.waveIdentifierProvider(),
	}

	waveMembers := []waveMember{}
	for _, commandUnit := range tokenizer.Split(rawInput, ParallelDelimiter) {
		command, outcome, prepareError := dispatcher.prepareCommandUnit(commandUnit, nil)
		if errors.Is(prepareError, execshell.ErrEmptyArgumentVector) {
			continue
		}
		if prepareError != nil {
			summary.Units = append(summary.Units, outcome)
			continue
		}

		runningCommand, startedOutcome := dispatcher.startCommandUnit(executionContext, command, outcome)
		summary.Units = append(summary.Units, startedOutcome)
		if runningCommand != nil {
			waveMembers = append(waveMembers, waveMember{unitIndex: len(summary.Units) - 1, runningCommand: runningCommand})
		}
	}

	dispatcher.logger.Debug(
		waveLaunchedMessageConstant,
		zap.String(logFieldWaveIdentifierConstant, summary.WaveIdentifier),
		zap.Int(logFieldLaunchedConstant, len(waveMembers)),
	)

	// Each member writes only its own element of summary.Units.
	var waveGroup errgroup.Group
	for _, member := range waveMembers {
		waveGroup.Go(func() error {
			summary.Units[member.unitIndex] = dispatcher.awaitCommandUnit(member.runningCommand, summary.Units[member.unitIndex])
			return nil
		})
	}
	_ = waveGroup.Wait()

	return summary
}
