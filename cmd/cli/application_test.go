package cli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testExitMessageConstant           = "Exiting shell...\n"
)

type applicationRun struct {
	application    *Application
	standardOutput *bytes.Buffer
	standardError  *bytes.Buffer
	executionError error
}

func runApplication(t *testing.T, input string, arguments ...string) applicationRun {
	t.Helper()

	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectory, ".config"))

	application := NewApplication()
	standardOutput := &bytes.Buffer{}
	standardError := &bytes.Buffer{}
	application.rootCommand.SetIn(strings.NewReader(input))
	application.rootCommand.SetOut(standardOutput)
	application.rootCommand.SetErr(standardError)
	application.rootCommand.SetArgs(arguments)

	executionError := application.Execute()
	return applicationRun{
		application:    application,
		standardOutput: standardOutput,
		standardError:  standardError,
		executionError: executionError,
	}
}

func requireExecutables(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, lookupError := exec.LookPath(name); lookupError != nil {
			t.Skipf("%s not available: %v", name, lookupError)
		}
	}
}

func TestConfigurationCommandPrintsDefaults(t *testing.T) {
	run := runApplication(t, "", configurationCommandUseConstant)
	require.NoError(t, run.executionError)

	printedConfiguration := ApplicationConfiguration{}
	require.NoError(t, yaml.Unmarshal(run.standardOutput.Bytes(), &printedConfiguration))
	require.Equal(t, "error", printedConfiguration.Common.LogLevel)
	require.Equal(t, "console", printedConfiguration.Common.LogFormat)
	require.Equal(t, "$ ", printedConfiguration.Shell.PromptSuffix)
	require.True(t, printedConfiguration.Shell.Color)
	require.Equal(t, 1024, printedConfiguration.Shell.MaxLineLength)
	require.Equal(t, 100, printedConfiguration.Execution.MaxArguments)
	require.False(t, printedConfiguration.Execution.FailFast)
}

func TestConfigurationSources(t *testing.T) {
	testCases := []struct {
		name                 string
		environment          map[string]string
		fileContent          string
		expectedMaxArguments int
		expectedFailFast     bool
		expectedPromptSuffix string
	}{
		{
			name:                 "environment_overrides_defaults",
			environment:          map[string]string{"BATCHSH_EXECUTION_MAX_ARGUMENTS": "7", "BATCHSH_EXECUTION_FAIL_FAST": "true"},
			expectedMaxArguments: 7,
			expectedFailFast:     true,
			expectedPromptSuffix: "$ ",
		},
		{
			name:                 "file_overrides_defaults",
			fileContent:          "shell:\n  prompt_suffix: \"> \"\nexecution:\n  max_arguments: 12\n",
			expectedMaxArguments: 12,
			expectedPromptSuffix: "> ",
		},
		{
			name:                 "environment_overrides_file",
			environment:          map[string]string{"BATCHSH_EXECUTION_MAX_ARGUMENTS": "3"},
			fileContent:          "execution:\n  max_arguments: 12\n",
			expectedMaxArguments: 3,
			expectedPromptSuffix: "$ ",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				t.Setenv(environmentName, environmentValue)
			}

			arguments := []string{configurationCommandUseConstant}
			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				configurationFilePath = filepath.Join(t.TempDir(), testConfigurationFileNameConstant)
				require.NoError(t, os.WriteFile(configurationFilePath, []byte(testCase.fileContent), 0o600))
				arguments = append(arguments, "--"+configFileFlagNameConstant, configurationFilePath)
			}

			run := runApplication(t, "", arguments...)
			require.NoError(t, run.executionError)

			if len(configurationFilePath) > 0 {
				require.True(t, strings.HasPrefix(run.standardOutput.String(), "# loaded from "+configurationFilePath+"\n"))
			}

			printedConfiguration := ApplicationConfiguration{}
			require.NoError(t, yaml.Unmarshal(run.standardOutput.Bytes(), &printedConfiguration))
			require.Equal(t, testCase.expectedMaxArguments, printedConfiguration.Execution.MaxArguments)
			require.Equal(t, testCase.expectedFailFast, printedConfiguration.Execution.FailFast)
			require.Equal(t, testCase.expectedPromptSuffix, printedConfiguration.Shell.PromptSuffix)
		})
	}
}

func TestInvalidConfigurationIsRejected(t *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		arguments     []string
		expectedError string
	}{
		{
			name:          "unsupported_log_level_flag",
			arguments:     []string{configurationCommandUseConstant, "--" + logLevelFlagNameConstant, "verbose"},
			expectedError: "log_level",
		},
		{
			name:          "non_positive_argument_limit",
			environment:   map[string]string{"BATCHSH_EXECUTION_MAX_ARGUMENTS": "0"},
			arguments:     []string{configurationCommandUseConstant},
			expectedError: "max_arguments",
		},
		{
			name:          "unsupported_log_format",
			environment:   map[string]string{"BATCHSH_COMMON_LOG_FORMAT": "xml"},
			arguments:     []string{configurationCommandUseConstant},
			expectedError: "log_format",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				t.Setenv(environmentName, environmentValue)
			}

			run := runApplication(t, "", testCase.arguments...)
			require.Error(t, run.executionError)
			require.Contains(t, run.executionError.Error(), "invalid configuration")
			require.Contains(t, run.executionError.Error(), testCase.expectedError)
		})
	}
}

func TestConfigurationFileWithUnknownKeyIsRejected(t *testing.T) {
	configurationFilePath := filepath.Join(t.TempDir(), testConfigurationFileNameConstant)
	require.NoError(t, os.WriteFile(configurationFilePath, []byte("execution:\n  failfast: true\n"), 0o600))

	run := runApplication(t, "", configurationCommandUseConstant, "--"+configFileFlagNameConstant, configurationFilePath)
	require.Error(t, run.executionError)
	require.Contains(t, run.executionError.Error(), "unable to load configuration")
	require.Contains(t, run.executionError.Error(), "failfast")
}

func TestVersionCommand(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("XDG_CONFIG_HOME", homeDirectory)

	application := NewApplication()
	application.versionResolver = func(context.Context) string {
		return "v1.2.3"
	}
	standardOutput := &bytes.Buffer{}
	application.rootCommand.SetOut(standardOutput)
	application.rootCommand.SetArgs([]string{versionCommandUseConstant})

	require.NoError(t, application.Execute())
	require.Equal(t, "batchsh version: v1.2.3\n", standardOutput.String())
}

func TestResolveApplicationVersionPrefersBuildFlag(t *testing.T) {
	originalVersion := applicationVersion
	t.Cleanup(func() {
		applicationVersion = originalVersion
	})

	applicationVersion = " v9.9.9 "
	require.Equal(t, "v9.9.9", resolveApplicationVersion(context.Background()))

	applicationVersion = ""
	require.NotEmpty(t, resolveApplicationVersion(context.Background()))
}

func TestRootCommandRejectsPositionalArguments(t *testing.T) {
	run := runApplication(t, "", "ls")
	require.Error(t, run.executionError)
}

func TestCommandFlagDispatchesOneLine(t *testing.T) {
	requireExecutables(t, "echo")

	testCases := []struct {
		name           string
		arguments      []string
		expectedOutput string
	}{
		{
			name:           "single",
			arguments:      []string{"-c", "echo hello"},
			expectedOutput: "hello\n",
		},
		{
			name:           "sequential",
			arguments:      []string{"--command", "echo a ## echo b ## echo c"},
			expectedOutput: "a\nb\nc\n",
		},
		{
			name:           "blank_line",
			arguments:      []string{"-c", "   "},
			expectedOutput: "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			run := runApplication(t, "", testCase.arguments...)
			require.NoError(t, run.executionError)
			require.Equal(t, testCase.expectedOutput, run.standardOutput.String())
		})
	}
}

func TestCommandFlagRedirectsToFile(t *testing.T) {
	requireExecutables(t, "echo")

	targetPath := filepath.Join(t.TempDir(), "out.txt")
	run := runApplication(t, "", "-c", "echo hi > "+targetPath)
	require.NoError(t, run.executionError)
	require.Empty(t, run.standardOutput.String())

	contents, readError := os.ReadFile(targetPath)
	require.NoError(t, readError)
	require.Equal(t, "hi\n", string(contents))
}

func TestCommandFlagReportsIncorrectCommands(t *testing.T) {
	run := runApplication(t, "", "-c", "definitely-not-a-command-batchsh")
	require.NoError(t, run.executionError)
	require.Contains(t, run.standardError.String(), "Shell: Incorrect command: ")
}

func TestFailFastFlagStopsSequentialBatch(t *testing.T) {
	requireExecutables(t, "echo", "false")

	withoutFailFast := runApplication(t, "", "-c", "false ## echo after")
	require.NoError(t, withoutFailFast.executionError)
	require.Equal(t, "after\n", withoutFailFast.standardOutput.String())

	withFailFast := runApplication(t, "", "--fail-fast", "-c", "false ## echo after")
	require.NoError(t, withFailFast.executionError)
	require.Empty(t, withFailFast.standardOutput.String())
}

func TestInteractiveSessionFromPipedInput(t *testing.T) {
	requireExecutables(t, "echo")

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(t, workingDirectoryError)

	run := runApplication(t, "echo hi\n\nexit\necho never\n")
	require.NoError(t, run.executionError)

	prompt := workingDirectory + "$ "
	require.Equal(t, prompt+"hi\n"+prompt+prompt+testExitMessageConstant, run.standardOutput.String())
}

func TestInteractiveSessionEndsAtEndOfInput(t *testing.T) {
	run := runApplication(t, "")
	require.NoError(t, run.executionError)
	require.True(t, strings.HasSuffix(run.standardOutput.String(), "$ "+testExitMessageConstant))
}

func TestInteractiveSessionRunsParallelWaveIntoSharedOutput(t *testing.T) {
	requireExecutables(t, "echo")

	run := runApplication(t, "echo a && echo b && echo c && echo d\nexit\n")
	require.NoError(t, run.executionError)
	for _, word := range []string{"a\n", "b\n", "c\n", "d\n"} {
		require.Contains(t, run.standardOutput.String(), word)
	}
}
