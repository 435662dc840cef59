package repl

const (
	promptSuffixOptionKeyConstant  = "prompt_suffix"
	historyFileOptionKeyConstant   = "history_file"
	colorOptionKeyConstant         = "color"
	maxLineLengthOptionKeyConstant = "max_line_length"
	configurationKeyJoinConstant   = "."
	defaultPromptSuffixConstant    = "$ "
	defaultMaxLineLengthConstant   = 1024
)

// Configuration controls prompt rendering and input handling.
type Configuration struct {
	PromptSuffix  string `mapstructure:"prompt_suffix" yaml:"prompt_suffix"`
	HistoryFile   string `mapstructure:"history_file" yaml:"history_file"`
	Color         bool   `mapstructure:"color" yaml:"color"`
	MaxLineLength int    `mapstructure:"max_line_length" yaml:"max_line_length" validate:"gt=0"`
}

// DefaultConfiguration returns the configuration used when nothing overrides it.
func DefaultConfiguration() Configuration {
	return Configuration{
		PromptSuffix:  defaultPromptSuffixConstant,
		HistoryFile:   "",
		Color:         true,
		MaxLineLength: defaultMaxLineLengthConstant,
	}
}

// DefaultConfigurationValues returns viper defaults rooted at configurationPrefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaultConfiguration := DefaultConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeyJoinConstant + promptSuffixOptionKeyConstant:  defaultConfiguration.PromptSuffix,
		configurationPrefix + configurationKeyJoinConstant + historyFileOptionKeyConstant:   defaultConfiguration.HistoryFile,
		configurationPrefix + configurationKeyJoinConstant + colorOptionKeyConstant:         defaultConfiguration.Color,
		configurationPrefix + configurationKeyJoinConstant + maxLineLengthOptionKeyConstant: defaultConfiguration.MaxLineLength,
	}
}

func (configuration Configuration) sanitize() Configuration {
	sanitizedConfiguration := configuration
	if sanitizedConfiguration.MaxLineLength <= 0 {
		sanitizedConfiguration.MaxLineLength = defaultMaxLineLengthConstant
	}
	return sanitizedConfiguration
}
