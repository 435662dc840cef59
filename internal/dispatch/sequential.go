package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/batchsh/internal/tokenizer"
)

const (
	failFastStopMessageConstant = "sequential batch stopped after failure"
	logFieldSkippedConstant     = "skipped"
)

// executeSequential runs ## separated units in order, each to completion before
// the next starts. Failures do not stop the batch unless fail-fast is enabled.
func (dispatcher *Dispatcher) executeSequential(executionContext context.Context, rawInput string) DispatchSummary {
	summary := DispatchSummary{Mode: ExecutionModeSequential}

	commandUnits := tokenizer.Split(rawInput, SequentialDelimiter)
	for unitIndex, commandUnit := range commandUnits {
		outcome, handled := dispatcher.runCommandUnit(executionContext, commandUnit, nil)
		if !handled {
			continue
		}
		summary.Units = append(summary.Units, outcome)

		if dispatcher.configuration.FailFast && !outcome.Succeeded() {
			skippedOutcomes := skipCommandUnits(commandUnits[unitIndex+1:])
			summary.Units = append(summary.Units, skippedOutcomes...)
			dispatcher.logger.Info(
				failFastStopMessageConstant,
				zap.String(logFieldCommandUnitConstant, outcome.CommandUnit),
				zap.Int(logFieldSkippedConstant, len(skippedOutcomes)),
			)
			break
		}
	}

	return summary
}

func skipCommandUnits(commandUnits []string) []UnitOutcome {
	skippedOutcomes := []UnitOutcome{}
	for _, commandUnit := range commandUnits {
		argumentVector := tokenizer.SplitArguments(commandUnit)
		if len(argumentVector) == 0 {
			continue
		}
		skippedOutcomes = append(skippedOutcomes, UnitOutcome{
			CommandUnit: commandUnit,
			Arguments:   argumentVector,
			Status:      UnitStatusSkipped,
		})
	}
	return skippedOutcomes
}
