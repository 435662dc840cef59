package repl

import (
	"os"
	"os/signal"

	"go.uber.org/zap"
)

const (
	interruptReceivedMessageConstant = "interrupt received by shell"
)

// ShieldInterrupts keeps SIGINT from terminating the shell while foreground
// children, which share its process group, still receive it. The returned
// function restores default handling.
func ShieldInterrupts(logger *zap.Logger) func() {
	if logger == nil {
		logger = zap.NewNop()
	}
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	go func() {
		for range signals {
			logger.Debug(interruptReceivedMessageConstant)
		}
	}()
	return func() {
		signal.Stop(signals)
		close(signals)
	}
}
