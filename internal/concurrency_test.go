// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal contains race detection tests for the mention system.
//
// Run with: go test -race -v ./internal/...
//
// The options universe is shared between the file watcher and every editor
// session, so it is read from many goroutines at once.
package internal

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/editor"
	"github.com/jeranaias/mention-tui/internal/fuzzy"
	"github.com/jeranaias/mention-tui/internal/mention"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/picker"
)

// =============================================================================
// TEST CONFIGURATION
// =============================================================================

const (
	// Number of concurrent goroutines for race tests
	raceConcurrency = 50
	// Number of iterations per goroutine
	raceIterations = 20
	// Timeout for race tests
	raceTimeout = 30 * time.Second
)

func largeUniverse(t *testing.T, n int) *model.Universe {
	t.Helper()
	opts := make([]model.Option, n)
	for i := range opts {
		opts[i] = model.Option{ID: fmt.Sprintf("id-%d", i), Name: fmt.Sprintf("Person %d Jones", i)}
	}
	u, err := model.NewUniverse(opts)
	require.NoError(t, err)
	return u
}

// =============================================================================
// UNIVERSE CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_SharedUniverseMatching matches against one universe from
// many goroutines, each with its own controller.
func TestConcurrency_SharedUniverseMatching(t *testing.T) {
	u := largeUniverse(t, 200)

	baseline, err := picker.New(fuzzy.Default{}).GetMatchedOptions("p1j", u.Options())
	require.NoError(t, err)
	require.NotEmpty(t, baseline)

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup
	errChan := make(chan error, raceConcurrency)

	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctrl := picker.New(fuzzy.Default{})
			for j := 0; j < raceIterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := ctrl.Search("p1j", u.Options()); err != nil {
					errChan <- err
					return
				}
				if ctrl.Len() != len(baseline) {
					errChan <- fmt.Errorf("got %d candidates, want %d", ctrl.Len(), len(baseline))
					return
				}
				if _, ok := u.Lookup("id-7"); !ok {
					errChan <- fmt.Errorf("lookup failed")
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Errorf("Unexpected error during concurrent matching: %v", err)
	}
}

// =============================================================================
// SESSION CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_IndependentSessions runs one editor session per goroutine
// over a shared option list.
func TestConcurrency_IndependentSessions(t *testing.T) {
	u := largeUniverse(t, 50)
	var committed int64

	var wg sync.WaitGroup
	errChan := make(chan error, raceConcurrency)

	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			s, err := editor.NewSession(config.Default().ToMentionConfig(quietLogger()), nil, nil)
			if err != nil {
				errChan <- err
				return
			}
			s.SetOptions(u.Options())

			for j := 0; j < raceIterations; j++ {
				target := fmt.Sprintf("Person %d Jones", (idx+j)%50)
				if err := s.Type("hi $" + target); err != nil {
					errChan <- err
					return
				}
				if !s.Key(mention.KeyEnter) {
					errChan <- fmt.Errorf("no candidate for %q", target)
					return
				}
				text, entities := s.Submit()
				if text != "hi "+target || len(entities) != 1 {
					errChan <- fmt.Errorf("got %q with %d entities", text, len(entities))
					return
				}
				atomic.AddInt64(&committed, 1)
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Errorf("Unexpected error during concurrent sessions: %v", err)
	}
	assert.Equal(t, int64(raceConcurrency*raceIterations), atomic.LoadInt64(&committed))
}

// =============================================================================
// CONFIG CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_ConfigClones edits clones of a shared config concurrently.
func TestConcurrency_ConfigClones(t *testing.T) {
	shared := config.Default()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				c := shared.Clone()
				if err := c.Set("ui.max_visible", fmt.Sprint(1+(idx+j)%20)); err != nil {
					t.Errorf("set: %v", err)
					return
				}
				if err := c.Validate(); err != nil {
					t.Errorf("validate: %v", err)
					return
				}
				_ = c.ToMentionConfig(quietLogger())
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, shared.UI.MaxVisible)
}
