package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/batchsh/internal/tokenizer"
)

const redirectionFileModeConstant os.FileMode = 0o644

const (
	redirectionFileFlagsConstant           = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	incorrectRedirectionDiagnosticConstant = "Shell: Incorrect command\n"
	openFailureDiagnosticTemplateConstant  = "Failed to open file: %v\n"
	openRedirectionErrorTemplateConstant   = "open redirection target %s: %w"
	extraRedirectionWarningMessageConstant = "extra redirection segments ignored"
	redirectionCloseFailureMessageConstant = "redirection target close failed"
	logFieldRedirectionTargetConstant      = "target"
	logFieldIgnoredSegmentsConstant        = "ignored_segments"
	minimumRedirectionPartsConstant        = 2
)

// RedirectScope owns an open redirection target for the lifetime of one command.
type RedirectScope struct {
	targetPath string
	file       afero.File
	closeOnce  sync.Once
	closeError error
}

// OpenRedirectScope creates or truncates targetPath for writing.
func OpenRedirectScope(fileSystem afero.Fs, targetPath string) (*RedirectScope, error) {
	file, openError := fileSystem.OpenFile(targetPath, redirectionFileFlagsConstant, redirectionFileModeConstant)
	if openError != nil {
		return nil, fmt.Errorf(openRedirectionErrorTemplateConstant, targetPath, openError)
	}
	return &RedirectScope{targetPath: targetPath, file: file}, nil
}

// Writer returns the destination for the command's standard output.
func (scope *RedirectScope) Writer() io.Writer {
	return scope.file
}

// TargetPath returns the path the scope was opened with.
func (scope *RedirectScope) TargetPath() string {
	return scope.targetPath
}

// Close releases the target. Repeated calls return the first result.
func (scope *RedirectScope) Close() error {
	scope.closeOnce.Do(func() {
		scope.closeError = scope.file.Close()
	})
	return scope.closeError
}

// executeRedirected runs the command left of > with its standard output sent
// to the file named on the right.
func (dispatcher *Dispatcher) executeRedirected(executionContext context.Context, rawInput string) DispatchSummary {
	summary := DispatchSummary{Mode: ExecutionModeRedirected}

	redirectionParts := tokenizer.Split(rawInput, RedirectionDelimiter)
	if len(redirectionParts) < minimumRedirectionPartsConstant {
		dispatcher.writeDiagnostic(incorrectRedirectionDiagnosticConstant)
		return summary
	}
	if len(redirectionParts) > minimumRedirectionPartsConstant {
		dispatcher.logger.Warn(
			extraRedirectionWarningMessageConstant,
			zap.Strings(logFieldIgnoredSegmentsConstant, redirectionParts[minimumRedirectionPartsConstant:]),
		)
	}

	commandUnit := redirectionParts[0]
	summary.RedirectionTarget = redirectionParts[1]

	scope, openError := OpenRedirectScope(dispatcher.fileSystem, summary.RedirectionTarget)
	if openError != nil {
		dispatcher.writeDiagnostic(openFailureDiagnosticTemplateConstant, openError)
		return summary
	}
	defer func() {
		if closeError := scope.Close(); closeError != nil {
			dispatcher.logger.Warn(
				redirectionCloseFailureMessageConstant,
				zap.String(logFieldRedirectionTargetConstant, scope.TargetPath()),
				zap.Error(closeError),
			)
		}
	}()

	if outcome, handled := dispatcher.runCommandUnit(executionContext, commandUnit, scope.Writer()); handled {
		summary.Units = append(summary.Units, outcome)
	}
	return summary
}
