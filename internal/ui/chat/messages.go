// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/mention-tui/internal/editor"
	"github.com/jeranaias/mention-tui/internal/model"
)

// =============================================================================
// OPTIONS MESSAGES
// =============================================================================

// OptionsReloadedMsg delivers a reloaded option universe. Err is set when
// the file could not be loaded; the current universe is kept then.
type OptionsReloadedMsg struct {
	Universe *model.Universe
	Err      error
}

// =============================================================================
// HISTORY
// =============================================================================

// Submission is one sent message.
type Submission struct {
	editor.Message
	At time.Time
}

// SubmittedMsg is returned as a command result after every send, so a parent
// model can forward the message.
type SubmittedMsg struct {
	Submission Submission
}
