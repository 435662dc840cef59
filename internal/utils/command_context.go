package utils

import "context"

// InputOrigin names where a dispatched command line came from.
type InputOrigin string

// Known input origins.
const (
	InputOriginInteractive InputOrigin = "interactive"
	InputOriginCommandFlag InputOrigin = "command_flag"
)

type shellContextKey int

const (
	configurationFilePathContextKey shellContextKey = iota
	inputOriginContextKey
)

// CommandContextAccessor stores shell run metadata on contexts: the
// configuration file that was loaded and the origin of the lines being
// dispatched.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath records the configuration file used for this run.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return context.WithValue(accessor.ensureContext(parentContext), configurationFilePathContextKey, configurationFilePath)
}

// ConfigurationFilePath returns the recorded configuration file. The second
// result is false when none was recorded or the path is empty.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, recorded := executionContext.Value(configurationFilePathContextKey).(string)
	return configurationFilePath, recorded && len(configurationFilePath) > 0
}

// WithInputOrigin records where the lines dispatched under the returned context come from.
func (accessor CommandContextAccessor) WithInputOrigin(parentContext context.Context, origin InputOrigin) context.Context {
	return context.WithValue(accessor.ensureContext(parentContext), inputOriginContextKey, origin)
}

// InputOrigin returns the recorded input origin.
func (accessor CommandContextAccessor) InputOrigin(executionContext context.Context) (InputOrigin, bool) {
	if executionContext == nil {
		return "", false
	}
	origin, recorded := executionContext.Value(inputOriginContextKey).(InputOrigin)
	return origin, recorded
}

func (accessor CommandContextAccessor) ensureContext(parentContext context.Context) context.Context {
	if parentContext == nil {
		return context.Background()
	}
	return parentContext
}
