// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUniverse(t *testing.T) {
	u, err := NewUniverse([]Option{
		{ID: "1", Name: "John"},
		{ID: "2", Name: "Joseph"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, u.Len())

	john, ok := u.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "John", john.Name)

	_, ok = u.Lookup("3")
	assert.False(t, ok)

	names := []string{}
	for _, o := range u.Options() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"John", "Joseph"}, names)
}

func TestNewUniverse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
		want    error
	}{
		{"empty id", []Option{{ID: " ", Name: "x"}}, ErrEmptyID},
		{"duplicate id", []Option{{ID: "1", Name: "a"}, {ID: "1", Name: "b"}}, ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUniverse(tt.options)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestOptionClone(t *testing.T) {
	o := Option{ID: "1", Name: "John", Extra: map[string]any{"team": "red"}}
	c := o.Clone()
	c.Extra["team"] = "blue"

	assert.Equal(t, "red", o.Extra["team"])
	assert.True(t, o.Equal(c))
}

func TestNilUniverse(t *testing.T) {
	var u *Universe
	assert.Equal(t, 0, u.Len())
	assert.Nil(t, u.Options())
	_, ok := u.Lookup("1")
	assert.False(t, ok)
}
