// Package cli constructs the batchsh command-line interface, wiring the Cobra
// command hierarchy, configuration loader, and structured logging primitives
// around the interactive shell. It exposes helpers to build reusable
// application instances and to execute the default command set.
package cli
