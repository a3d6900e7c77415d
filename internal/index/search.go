// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/mention-tui/internal/util"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// OptionCount is one row of the most-mentioned list. Name is the most recent
// name the option was mentioned under.
type OptionCount struct {
	OptionID    string `json:"option_id"`
	Name        string `json:"name"`
	Mentions    int    `json:"mentions"`
	Transcripts int    `json:"transcripts"`
}

// Reference is one mention of an option.
type Reference struct {
	TranscriptID string    `json:"transcript_id"`
	Summary      string    `json:"summary"`
	MessageID    string    `json:"message_id"`
	Text         string    `json:"text"`
	OptionID     string    `json:"option_id"`
	Name         string    `json:"name"`
	SentAt       time.Time `json:"sent_at"`
}

// =============================================================================
// QUERIES
// =============================================================================

// Top returns the most mentioned options, most first. A limit of zero or less
// returns all of them.
func (idx *MentionIndex) Top(ctx context.Context, limit int) ([]OptionCount, error) {
	if limit <= 0 {
		limit = -1
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.db == nil {
		return nil, ErrClosed
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT
			m.option_id,
			(SELECT l.name FROM mentions l WHERE l.option_id = m.option_id
			 ORDER BY l.sent_at DESC, l.id DESC LIMIT 1),
			COUNT(*),
			COUNT(DISTINCT m.transcript_id)
		FROM mentions m
		GROUP BY m.option_id
		ORDER BY COUNT(*) DESC, m.option_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	out := []OptionCount{}
	for rows.Next() {
		var c OptionCount
		if err := rows.Scan(&c.OptionID, &c.Name, &c.Mentions, &c.Transcripts); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// References returns every mention of the option whose ID equals ref or
// whose name equals ref ignoring case, newest first.
func (idx *MentionIndex) References(ctx context.Context, ref string) ([]Reference, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.db == nil {
		return nil, ErrClosed
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT m.transcript_id, t.summary, m.message_id, m.message_text, m.option_id, m.name, m.sent_at
		FROM mentions m
		JOIN transcripts t ON t.id = m.transcript_id
		WHERE m.option_id = ? OR m.name = ? COLLATE NOCASE
		ORDER BY m.sent_at DESC, m.id DESC`, ref, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	out := []Reference{}
	for rows.Next() {
		var r Reference
		var sent int64
		if err := rows.Scan(&r.TranscriptID, &r.Summary, &r.MessageID, &r.Text, &r.OptionID, &r.Name, &sent); err != nil {
			return nil, err
		}
		r.SentAt = time.Unix(sent, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatTop renders counts as a table.
func FormatTop(counts []OptionCount) string {
	if len(counts) == 0 {
		return "No mentions indexed."
	}

	var sb strings.Builder
	sb.WriteString(util.PadRight("ID", 10) + util.PadRight("Name", 24) + util.PadRight("Refs", 6) + "Transcripts\n")
	for _, c := range counts {
		sb.WriteString(util.PadRight(util.TruncateWidth(c.OptionID, 9), 10) +
			util.PadRight(util.TruncateWidth(c.Name, 23), 24) +
			util.PadRight(strconv.Itoa(c.Mentions), 6) +
			strconv.Itoa(c.Transcripts) + "\n")
	}
	return sb.String()
}

// FormatReferences renders references one per line.
func FormatReferences(refs []Reference) string {
	if len(refs) == 0 {
		return "No references found."
	}

	var sb strings.Builder
	for _, r := range refs {
		sb.WriteString(util.PadRight(util.SafeSubstring(r.TranscriptID, 0, 8), 10) +
			util.PadRight(r.SentAt.Format("2006-01-02 15:04"), 18) +
			util.TruncateWidth(r.Text, 50) + "\n")
	}
	return sb.String()
}
