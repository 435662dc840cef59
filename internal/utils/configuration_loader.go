package utils

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configurationKeySeparatorConstant               = "."
	environmentKeySeparatorConstant                 = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
)

// ConfigurationLoader layers the shell's configuration sources with Viper:
// the document compiled into the binary, code defaults, a config.yaml from
// the search paths or an explicit file, and prefixed environment variables.
type ConfigurationLoader struct {
	configurationName      string
	configurationType      string
	environmentPrefix      string
	searchPaths            []string
	embeddedDocument       []byte
	embeddedDocumentType   string
	environmentKeyReplacer *strings.Replacer
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader for configurationName files of
// configurationType found in searchPaths, overridden by environmentPrefix
// variables such as BATCHSH_EXECUTION_FAIL_FAST.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      configurationType,
		environmentPrefix:      environmentPrefix,
		searchPaths:            slices.Clone(searchPaths),
		environmentKeyReplacer: strings.NewReplacer(configurationKeySeparatorConstant, environmentKeySeparatorConstant),
	}
}

// SetEmbeddedConfiguration stores the document merged beneath every other source.
// An empty document clears it; an empty type falls back to the loader's type.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(document []byte, documentType string) {
	if loader == nil {
		return
	}
	loader.embeddedDocumentType = strings.TrimSpace(documentType)
	loader.embeddedDocument = nil
	if len(document) > 0 {
		loader.embeddedDocument = bytes.Clone(document)
	}
}

// LoadConfiguration populates targetConfiguration using, in increasing priority,
// embedded data, defaults, configuration files, and environment variables.
// Environment values arrive as strings and are decoded into the target's field
// types. Keys that match no field of targetConfiguration are rejected.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)

	if mergeError := loader.mergeEmbeddedDocument(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}
	loader.bindEnvironment(viperInstance)
	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}
	if readError := loader.mergeConfigurationFile(viperInstance, configurationFilePath); readError != nil {
		return LoadedConfiguration{}, readError
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration, rejectUnknownKeys); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}
	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedDocument(viperInstance *viper.Viper) error {
	if len(loader.embeddedDocument) == 0 {
		viperInstance.SetConfigType(loader.configurationType)
		return nil
	}

	documentType := loader.configurationType
	if len(loader.embeddedDocumentType) > 0 {
		documentType = loader.embeddedDocumentType
	}
	viperInstance.SetConfigType(documentType)
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedDocument)); mergeError != nil {
		return fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
	}
	viperInstance.SetConfigType(loader.configurationType)
	return nil
}

func (loader *ConfigurationLoader) bindEnvironment(viperInstance *viper.Viper) {
	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	viperInstance.AutomaticEnv()
}

// mergeConfigurationFile merges the explicit file when one is given and
// otherwise the first match in the search paths. A missing searched file is
// not an error.
func (loader *ConfigurationLoader) mergeConfigurationFile(viperInstance *viper.Viper, configurationFilePath string) error {
	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}
	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	readError := viperInstance.MergeInConfig()
	var notFoundError viper.ConfigFileNotFoundError
	if readError == nil || errors.As(readError, &notFoundError) {
		return nil
	}
	return fmt.Errorf(configurationReadErrorTemplateConstant, readError)
}

// rejectUnknownKeys makes a misspelled key in a configuration file an error
// instead of a silently ignored setting.
func rejectUnknownKeys(decoderConfiguration *mapstructure.DecoderConfig) {
	decoderConfiguration.ErrorUnused = true
}
