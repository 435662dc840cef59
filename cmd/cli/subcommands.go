package cli

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	configurationCommandUseConstant          = "config"
	configurationCommandShortConstant        = "Print the effective configuration as YAML"
	configurationFileCommentTemplateConstant = "# loaded from %s\n"
	configurationRenderErrorTemplateConstant = "unable to render configuration: %w"
	defaultsFlagNameConstant                 = "defaults"
	defaultsFlagUsageConstant                = "Print the defaults compiled into the binary instead of the effective configuration."
	versionCommandUseConstant                = "version"
	versionCommandShortConstant              = "Print the batchsh version"
	versionOutputTemplateConstant            = "%s version: %s\n"
	develVersionConstant                     = "(devel)"
	unknownVersionConstant                   = "dev"
)

// applicationVersion is set at build time with -ldflags "-X github.com/temirov/batchsh/cmd/cli.applicationVersion=...".
var applicationVersion string

func (application *Application) newConfigurationCommand() *cobra.Command {
	configurationCommand := &cobra.Command{
		Use:   configurationCommandUseConstant,
		Short: configurationCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			outputWriter := command.OutOrStdout()
			printedConfiguration := application.configuration
			if application.showDefaultsFlagValue {
				shippedConfiguration, decodeError := application.shippedDefaults.Decode()
				if decodeError != nil {
					return fmt.Errorf(configurationRenderErrorTemplateConstant, decodeError)
				}
				printedConfiguration = shippedConfiguration
			} else if configurationFilePath, available := application.commandContextAccessor.ConfigurationFilePath(command.Context()); available {
				fmt.Fprintf(outputWriter, configurationFileCommentTemplateConstant, configurationFilePath)
			}

			renderedConfiguration, renderError := yaml.Marshal(printedConfiguration)
			if renderError != nil {
				return fmt.Errorf(configurationRenderErrorTemplateConstant, renderError)
			}
			_, writeError := outputWriter.Write(renderedConfiguration)
			return writeError
		},
	}
	configurationCommand.Flags().BoolVar(&application.showDefaultsFlagValue, defaultsFlagNameConstant, false, defaultsFlagUsageConstant)
	return configurationCommand
}

func (application *Application) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_, writeError := fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, application.versionResolver(command.Context()))
			return writeError
		},
	}
}

func resolveApplicationVersion(context.Context) string {
	if trimmedVersion := strings.TrimSpace(applicationVersion); len(trimmedVersion) > 0 {
		return trimmedVersion
	}
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 || buildInformation.Main.Version == develVersionConstant {
		return unknownVersionConstant
	}
	return buildInformation.Main.Version
}
