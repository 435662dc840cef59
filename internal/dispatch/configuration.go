package dispatch

const (
	maxArgumentsOptionKeyConstant = "max_arguments"
	failFastOptionKeyConstant     = "fail_fast"
	defaultMaxArgumentsConstant   = 100
	configurationKeyJoinConstant  = "."
)

// Configuration controls argument limits and sequential batch behavior.
type Configuration struct {
	MaxArguments int  `mapstructure:"max_arguments" yaml:"max_arguments" validate:"gt=0"`
	FailFast     bool `mapstructure:"fail_fast" yaml:"fail_fast"`
}

// DefaultConfiguration returns the configuration used when nothing overrides it.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxArguments: defaultMaxArgumentsConstant,
		FailFast:     false,
	}
}

// DefaultConfigurationValues returns viper defaults rooted at configurationPrefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaultConfiguration := DefaultConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeyJoinConstant + maxArgumentsOptionKeyConstant: defaultConfiguration.MaxArguments,
		configurationPrefix + configurationKeyJoinConstant + failFastOptionKeyConstant:     defaultConfiguration.FailFast,
	}
}

func (configuration Configuration) sanitize() Configuration {
	sanitizedConfiguration := configuration
	if sanitizedConfiguration.MaxArguments <= 0 {
		sanitizedConfiguration.MaxArguments = defaultMaxArgumentsConstant
	}
	return sanitizedConfiguration
}
