package utils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts a leading ~ in user supplied paths, such as the
// history file location, to the home directory.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewHomeExpander constructs a HomeExpander. A nil provider uses os.UserHomeDir.
func NewHomeExpander(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves ~ and ~/ prefixes. Other paths, including ~user forms, are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil || len(expander.homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return expander.homeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(expander.homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeSymbolConstant+string(os.PathSeparator)):
		return filepath.Join(expander.homeDirectory, strings.TrimPrefix(candidatePath, tildeSymbolConstant+string(os.PathSeparator)))
	default:
		return candidatePath
	}
}
