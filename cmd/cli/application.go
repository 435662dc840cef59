package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/batchsh/internal/dispatch"
	"github.com/temirov/batchsh/internal/execshell"
	"github.com/temirov/batchsh/internal/repl"
	"github.com/temirov/batchsh/internal/ui"
	"github.com/temirov/batchsh/internal/utils"
)

const (
	applicationNameConstant                   = "batchsh"
	applicationShortDescriptionConstant       = "Interactive shell with parallel, sequential, and redirected batches"
	applicationLongDescriptionConstant        = "batchsh reads command lines and runs them as one command, a parallel wave separated by &&, a sequential batch separated by ##, or a single command redirected with >."
	configFileFlagNameConstant                = "config"
	configFileFlagUsageConstant               = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                  = "log-level"
	logLevelFlagUsageConstant                 = "Override the configured log level."
	logFormatFlagNameConstant                 = "log-format"
	logFormatFlagUsageConstant                = "Override the configured log format (structured or console)."
	commandFlagNameConstant                   = "command"
	commandFlagShorthandConstant              = "c"
	commandFlagUsageConstant                  = "Dispatch a single command line and exit."
	failFastFlagNameConstant                  = "fail-fast"
	failFastFlagUsageConstant                 = "Stop a ## batch at the first command that does not succeed."
	commonConfigurationKeyConstant            = "common"
	commonLogLevelConfigKeyConstant           = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant          = commonConfigurationKeyConstant + ".log_format"
	shellConfigurationKeyConstant             = "shell"
	executionConfigurationKeyConstant         = "execution"
	environmentPrefixConstant                 = "BATCHSH"
	configurationNameConstant                 = "config"
	configurationTypeConstant                 = "yaml"
	configurationInitializedMessageConstant   = "configuration initialized"
	configurationLogLevelFieldConstant        = "log_level"
	configurationLogFormatFieldConstant       = "log_format"
	configurationFileFieldConstant            = "config_file"
	configurationLoadErrorTemplateConstant    = "unable to load configuration: %w"
	configurationInvalidErrorTemplateConstant = "invalid configuration: %w"
	loggerCreationErrorTemplateConstant       = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant           = "unable to flush logger: %w"
	shellConstructionErrorTemplateConstant    = "unable to construct shell: %w"
	lineReaderCloseFailedMessageConstant      = "line editor close failed"
	loggerNotInitializedMessageConstant       = "logger not initialized"
	defaultConfigurationSearchPathConstant    = "."
	tagNameSeparatorConstant                  = ","
	mapstructureTagNameConstant               = "mapstructure"
)

// ErrLoggerNotInitialized indicates that a command ran before configuration initialization.
var ErrLoggerNotInitialized = errors.New(loggerNotInitializedMessageConstant)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common" yaml:"common"`
	Shell     repl.Configuration             `mapstructure:"shell" yaml:"shell"`
	Execution dispatch.Configuration         `mapstructure:"execution" yaml:"execution"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=structured console"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandLineFlagValue   string
	failFastFlagValue      bool
	commandContextAccessor utils.CommandContextAccessor
	configurationValidator *validator.Validate
	homeExpander           *utils.HomeExpander
	fileSystem             afero.Fs
	versionResolver        func(context.Context) string
	shippedDefaults        shippedDefaults
	showDefaultsFlagValue  bool
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	defaults := newShippedDefaults()
	configurationLoader.SetEmbeddedConfiguration(defaults.Document())

	application := &Application{
		shippedDefaults:        defaults,
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		configurationValidator: newConfigurationValidator(),
		homeExpander:           utils.NewHomeExpander(nil),
		fileSystem:             afero.NewOsFs(),
		versionResolver:        resolveApplicationVersion,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.Flags().StringVarP(&application.commandLineFlagValue, commandFlagNameConstant, commandFlagShorthandConstant, "", commandFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.failFastFlagValue, failFastFlagNameConstant, false, failFastFlagUsageConstant)

	cobraCommand.AddCommand(application.newConfigurationCommand())
	cobraCommand.AddCommand(application.newVersionCommand())

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := utils.SyncLogger(application.logger); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range repl.DefaultConfigurationValues(shellConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range dispatch.DefaultConfigurationValues(executionConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if command != nil && command.Flags().Changed(failFastFlagNameConstant) {
		application.configuration.Execution.FailFast = application.failFastFlagValue
	}

	if validationError := application.configurationValidator.Struct(application.configuration); validationError != nil {
		return fmt.Errorf(configurationInvalidErrorTemplateConstant, validationError)
	}

	var loggerDestination io.Writer
	if command != nil {
		loggerDestination = command.ErrOrStderr()
	}
	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		loggerDestination,
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command) error {
	if application.logger == nil {
		return ErrLoggerNotInitialized
	}

	dispatcher, dispatcherError := application.buildDispatcher(command)
	if dispatcherError != nil {
		return fmt.Errorf(shellConstructionErrorTemplateConstant, dispatcherError)
	}

	if command.Flags().Changed(commandFlagNameConstant) {
		commandFlagContext := application.commandContextAccessor.WithInputOrigin(command.Context(), utils.InputOriginCommandFlag)
		dispatcher.Dispatch(commandFlagContext, application.commandLineFlagValue)
		return nil
	}

	return application.runInteractiveSession(command, dispatcher)
}

func (application *Application) buildDispatcher(command *cobra.Command) (*dispatch.Dispatcher, error) {
	sharedErrors := utils.NewSharedStreamWriter(command.ErrOrStderr())
	commandRunner := execshell.NewOSCommandRunner(
		command.InOrStdin(),
		utils.NewSharedStreamWriter(command.OutOrStdout()),
		sharedErrors,
	)
	shellExecutor, executorError := execshell.NewShellExecutor(
		application.logger,
		commandRunner,
		ui.NewConsoleCommandEventLogger(application.logger),
	)
	if executorError != nil {
		return nil, executorError
	}

	return dispatch.NewDispatcher(dispatch.Dependencies{
		Logger:     application.logger,
		Executor:   shellExecutor,
		FileSystem: application.fileSystem,
		Errors:     sharedErrors,
	}, application.configuration.Execution)
}

func (application *Application) runInteractiveSession(command *cobra.Command, dispatcher *dispatch.Dispatcher) error {
	shellConfiguration := application.configuration.Shell

	lineReader, lineReaderError := repl.NewLineReader(repl.LineReaderOptions{
		Input:         command.InOrStdin(),
		Output:        command.OutOrStdout(),
		Errors:        command.ErrOrStderr(),
		HistoryFile:   application.homeExpander.Expand(shellConfiguration.HistoryFile),
		MaxLineLength: shellConfiguration.MaxLineLength,
	})
	if lineReaderError != nil {
		return fmt.Errorf(shellConstructionErrorTemplateConstant, lineReaderError)
	}
	defer func() {
		if closeError := lineReader.Close(); closeError != nil {
			application.logger.Warn(lineReaderCloseFailedMessageConstant, zap.Error(closeError))
		}
	}()

	colorizePrompt := shellConfiguration.Color && repl.IsTerminal(command.OutOrStdout())
	session, sessionError := repl.NewSession(repl.SessionDependencies{
		Logger:        application.logger,
		Reader:        lineReader,
		Dispatcher:    dispatcher,
		PromptBuilder: repl.NewPromptBuilder(os.Getwd, shellConfiguration.PromptSuffix, colorizePrompt),
		Output:        command.OutOrStdout(),
	}, shellConfiguration)
	if sessionError != nil {
		return fmt.Errorf(shellConstructionErrorTemplateConstant, sessionError)
	}

	restoreInterrupts := repl.ShieldInterrupts(application.logger)
	defer restoreInterrupts()

	return session.Run(application.commandContextAccessor.WithInputOrigin(command.Context(), utils.InputOriginInteractive))
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, userConfigurationDirectoryError := os.UserConfigDir(); userConfigurationDirectoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, applicationNameConstant))
	}
	return searchPaths
}

func newConfigurationValidator() *validator.Validate {
	configurationValidator := validator.New()
	configurationValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get(mapstructureTagNameConstant), tagNameSeparatorConstant, 2)[0]
	})
	return configurationValidator
}
