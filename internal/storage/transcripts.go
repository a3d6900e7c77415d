// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/util"
)

// =============================================================================
// STORED TRANSCRIPT TYPE
// =============================================================================

// StoredTranscript is the persisted history of one editor run.
type StoredTranscript struct {
	// Identity
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages in send order
	Messages []StoredMessage `json:"messages"`

	// Mentions lists the distinct mentioned option names
	Mentions []string `json:"mentions,omitempty"`
}

// StoredMessage is one sent message.
type StoredMessage struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Entities []model.Option `json:"entities,omitempty"`
	Document *document.Node `json:"document,omitempty"`
	SentAt   time.Time      `json:"sent_at"`
}

// TranscriptMeta contains metadata for listing transcripts.
type TranscriptMeta struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	MentionCount int       `json:"mention_count"`
	Preview      string    `json:"preview"`
}

// Add appends a message and records its mentions.
func (t *StoredTranscript) Add(text string, entities []model.Option, root *document.Node, sentAt time.Time) {
	t.Messages = append(t.Messages, StoredMessage{
		ID:       uuid.NewString(),
		Text:     text,
		Entities: entities,
		Document: root,
		SentAt:   sentAt,
	})

	seen := make(map[string]bool, len(t.Mentions))
	for _, m := range t.Mentions {
		seen[m] = true
	}
	for _, e := range entities {
		if !seen[e.Name] {
			seen[e.Name] = true
			t.Mentions = append(t.Mentions, e.Name)
		}
	}
}

// MentionCount returns the number of mentions across all messages.
func (t *StoredTranscript) MentionCount() int {
	n := 0
	for _, m := range t.Messages {
		n += len(m.Entities)
	}
	return n
}

// Preview returns the first message text, truncated.
func (t *StoredTranscript) Preview() string {
	for _, m := range t.Messages {
		if m.Text != "" {
			return util.TruncateWidth(oneLine(m.Text), 80)
		}
	}
	return ""
}

// =============================================================================
// TRANSCRIPT STORE
// =============================================================================

// TranscriptStore keeps transcripts as JSON files in BaseDir.
type TranscriptStore struct {
	// BaseDir is the directory for storing transcripts
	BaseDir string

	// MaxTranscripts limits stored transcripts (0 = unlimited)
	MaxTranscripts int
}

// NewTranscriptStore creates a store in baseDir, creating the directory.
func NewTranscriptStore(baseDir string, maxTranscripts int) (*TranscriptStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &TranscriptStore{BaseDir: baseDir, MaxTranscripts: maxTranscripts}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a transcript and returns its ID.
func (s *TranscriptStore) Save(t *StoredTranscript) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Summary == "" {
		t.Summary = generateSummary(t)
	}

	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}
	if err := util.AtomicWriteFileWithDir(s.filePath(t.ID), data, 0600, 0700); err != nil {
		return "", err
	}

	if s.MaxTranscripts > 0 {
		s.enforceLimit()
	}
	return t.ID, nil
}

// generateSummary names a transcript after its first message.
func generateSummary(t *StoredTranscript) string {
	for _, m := range t.Messages {
		if m.Text != "" {
			return util.TruncateWidth(oneLine(m.Text), 50)
		}
	}
	return "Empty transcript"
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

// enforceLimit removes the oldest transcripts over the limit.
func (s *TranscriptStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxTranscripts {
		return
	}
	// List is newest first
	for _, m := range metas[s.MaxTranscripts:] {
		s.Delete(m.ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a transcript by ID.
func (s *TranscriptStore) Load(id string) (*StoredTranscript, error) {
	if !validID(id) {
		return nil, ErrTranscriptNotFound
	}

	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}

	var t StoredTranscript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", id, err)
	}
	return &t, nil
}

// LoadByIndex loads a transcript by its position in List (0 = most recent).
func (s *TranscriptStore) LoadByIndex(index int) (*StoredTranscript, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(metas) {
		return nil, ErrTranscriptNotFound
	}
	return s.Load(metas[index].ID)
}

// Resolve loads a transcript by list index, full ID or unique ID prefix.
func (s *TranscriptStore) Resolve(ref string) (*StoredTranscript, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		return s.LoadByIndex(n)
	}

	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	var found []string
	for _, m := range metas {
		if m.ID == ref {
			return s.Load(m.ID)
		}
		if strings.HasPrefix(m.ID, ref) {
			found = append(found, m.ID)
		}
	}
	switch len(found) {
	case 0:
		return nil, ErrTranscriptNotFound
	case 1:
		return s.Load(found[0])
	}
	return nil, fmt.Errorf("transcript prefix %q is ambiguous (%d matches)", ref, len(found))
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved transcripts, most recent first.
func (s *TranscriptStore) List() ([]TranscriptMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TranscriptMeta{}, nil
		}
		return nil, err
	}

	metas := []TranscriptMeta{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		t, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // Skip corrupted files
		}
		metas = append(metas, TranscriptMeta{
			ID:           t.ID,
			Summary:      t.Summary,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
			MessageCount: len(t.Messages),
			MentionCount: t.MentionCount(),
			Preview:      t.Preview(),
		})
	}

	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Search finds transcripts whose messages or mentioned names contain query,
// ignoring case. An empty query lists everything.
func (s *TranscriptStore) Search(query string) ([]TranscriptMeta, error) {
	all, err := s.List()
	if err != nil || query == "" {
		return all, err
	}

	query = strings.ToLower(query)
	results := []TranscriptMeta{}
	for _, meta := range all {
		t, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		if transcriptContains(t, query) {
			results = append(results, meta)
		}
	}
	return results, nil
}

func transcriptContains(t *StoredTranscript, query string) bool {
	for _, name := range t.Mentions {
		if strings.Contains(strings.ToLower(name), query) {
			return true
		}
	}
	for _, m := range t.Messages {
		if strings.Contains(strings.ToLower(m.Text), query) {
			return true
		}
	}
	return false
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a transcript by ID.
func (s *TranscriptStore) Delete(id string) error {
	if !validID(id) {
		return ErrTranscriptNotFound
	}
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrTranscriptNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved transcripts and returns how many were removed.
func (s *TranscriptStore) Clear() (int, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			if os.Remove(filepath.Join(s.BaseDir, entry.Name())) == nil {
				n++
			}
		}
	}
	return n, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// filePath returns the file path for a transcript ID.
func (s *TranscriptStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// validID rejects IDs that would escape BaseDir.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrTranscriptNotFound is returned when a transcript doesn't exist.
// Use errors.Is(err, ErrTranscriptNotFound) to check for this error.
var ErrTranscriptNotFound = &TranscriptError{Message: "transcript not found"}

// TranscriptError represents a transcript-related error.
type TranscriptError struct {
	Message string
}

// Error implements the error interface.
func (e *TranscriptError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing transcript errors.
func (e *TranscriptError) Is(target error) bool {
	t, ok := target.(*TranscriptError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// LIST FORMATTING
// =============================================================================

// FormatList formats transcripts as a table with index, ID, creation time,
// message and mention counts, and a preview.
func FormatList(metas []TranscriptMeta) string {
	if len(metas) == 0 {
		return "No transcripts found."
	}

	var sb strings.Builder
	sb.WriteString(util.PadRight("#", 4) + util.PadRight("ID", 10) + util.PadRight("Created", 18) +
		util.PadRight("Msgs", 6) + util.PadRight("Refs", 6) + "Preview\n")

	for i, m := range metas {
		sb.WriteString(util.PadRight(strconv.Itoa(i), 4) +
			util.PadRight(util.SafeSubstring(m.ID, 0, 8), 10) +
			util.PadRight(m.CreatedAt.Format("2006-01-02 15:04"), 18) +
			util.PadRight(strconv.Itoa(m.MessageCount), 6) +
			util.PadRight(strconv.Itoa(m.MentionCount), 6) +
			util.TruncateWidth(m.Preview, 40) + "\n")
	}
	return sb.String()
}
