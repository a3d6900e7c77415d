// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/options"
	"github.com/jeranaias/mention-tui/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitDataError indicates an unreadable options file or document
	ExitDataError = 4
	// ExitNotFoundError indicates a file was not found
	ExitNotFoundError = 7
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "config", "extract")
	Action  string // Action being performed (e.g., "set", "decode")
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError reports a malformed command line.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

func commandErr(command, action string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Action: action, Err: err}
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var verrs config.ValidateErrors
	var verr config.ValidationError
	var derrs document.ValidationErrors
	switch {
	case errors.As(err, &usage):
		return ExitUsageError
	case errors.Is(err, os.ErrNotExist), errors.Is(err, storage.ErrTranscriptNotFound):
		return ExitNotFoundError
	case errors.As(err, &verrs), errors.As(err, &verr):
		return ExitConfigError
	case errors.As(err, &derrs), errors.Is(err, options.ErrUnknownFormat):
		return ExitDataError
	}
	return ExitGeneralError
}
