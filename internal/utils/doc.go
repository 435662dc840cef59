// Package utils exposes reusable helpers consumed by the shell and its commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging for the CLI, along
// with small I/O and path helpers shared by the interactive loop.
package utils
