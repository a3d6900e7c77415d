// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/mention-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("database error")
	ErrClosed        = errors.New("index closed")
)

// =============================================================================
// MENTION INDEX
// =============================================================================

// MentionIndex indexes mentions across saved transcripts.
type MentionIndex struct {
	db  *sql.DB
	log *slog.Logger
	mu  sync.RWMutex
}

// SyncStats reports what a Sync changed.
type SyncStats struct {
	Indexed   int `json:"indexed"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Open opens or creates the index database at path.
func Open(path string, logger *slog.Logger) (*MentionIndex, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	idx := &MentionIndex{
		db:  db,
		log: logger.With("component", "mention-index"),
	}
	if err := idx.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return idx, nil
}

func (idx *MentionIndex) initSchema() error {
	if _, err := idx.db.Exec(Schema); err != nil {
		return err
	}
	_, err := idx.db.Exec(InitMetadata)
	return err
}

// Close releases the database.
func (idx *MentionIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.db == nil {
		return nil
	}
	err := idx.db.Close()
	idx.db = nil
	return err
}

// =============================================================================
// INDEXING
// =============================================================================

// Add indexes a transcript, replacing any earlier rows for it.
func (idx *MentionIndex) Add(ctx context.Context, t *storage.StoredTranscript) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return ErrClosed
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := indexTranscript(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

func indexTranscript(ctx context.Context, tx *sql.Tx, t *storage.StoredTranscript) error {
	if err := removeTranscript(ctx, tx, t.ID); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO transcripts (id, summary, updated_at, message_count) VALUES (?, ?, ?, ?)",
		t.ID, t.Summary, t.UpdatedAt.UnixNano(), len(t.Messages))
	if err != nil {
		return fmt.Errorf("failed to insert transcript: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mentions (transcript_id, message_id, message_text, option_id, name, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range t.Messages {
		for _, e := range m.Entities {
			if _, err := stmt.ExecContext(ctx, t.ID, m.ID, m.Text, e.ID, e.Name, m.SentAt.Unix()); err != nil {
				return fmt.Errorf("failed to insert mention: %w", err)
			}
		}
	}
	return nil
}

// Remove drops a transcript and its mentions.
func (idx *MentionIndex) Remove(ctx context.Context, id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return ErrClosed
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := removeTranscript(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// removeTranscript deletes a transcript and its mentions.
func removeTranscript(ctx context.Context, tx *sql.Tx, id string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM mentions WHERE transcript_id = ?", id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM transcripts WHERE id = ?", id)
	return err
}

// Sync brings the index in line with store. Transcripts that fail to load
// are logged and skipped.
func (idx *MentionIndex) Sync(ctx context.Context, store *storage.TranscriptStore) (SyncStats, error) {
	var stats SyncStats

	metas, err := store.List()
	if err != nil {
		return stats, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return stats, ErrClosed
	}

	known, err := idx.indexedVersions(ctx)
	if err != nil {
		return stats, err
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	for _, meta := range metas {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		version, ok := known[meta.ID]
		delete(known, meta.ID)
		if ok && version == meta.UpdatedAt.UnixNano() {
			stats.Unchanged++
			continue
		}

		t, err := store.Load(meta.ID)
		if err != nil {
			idx.log.Warn("skipping transcript", "id", meta.ID, "error", err)
			continue
		}
		if err := indexTranscript(ctx, tx, t); err != nil {
			return stats, err
		}
		stats.Indexed++
	}

	for id := range known {
		if err := removeTranscript(ctx, tx, id); err != nil {
			return stats, err
		}
		stats.Removed++
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)
	if _, err := tx.ExecContext(ctx, "UPDATE metadata SET value = ? WHERE key = 'last_sync'", now); err != nil {
		return stats, err
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	idx.log.Debug("index synced", "indexed", stats.Indexed, "removed", stats.Removed, "unchanged", stats.Unchanged)
	return stats, nil
}

// indexedVersions maps transcript IDs to their indexed update time.
func (idx *MentionIndex) indexedVersions(ctx context.Context) (map[string]int64, error) {
	rows, err := idx.db.QueryContext(ctx, "SELECT id, updated_at FROM transcripts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	known := make(map[string]int64)
	for rows.Next() {
		var id string
		var updated int64
		if err := rows.Scan(&id, &updated); err != nil {
			return nil, err
		}
		known[id] = updated
	}
	return known, rows.Err()
}
