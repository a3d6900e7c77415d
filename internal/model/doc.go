// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain value types shared by the mention core.
//
// # Key Types
//
//   - Option: A known entity that can be mentioned (id, display name, extras)
//   - Universe: An ordered option set with id lookup
//
// # Usage
//
//	u, err := model.NewUniverse([]model.Option{
//	    {ID: "1", Name: "John"},
//	    {ID: "2", Name: "Joseph"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	john, ok := u.Lookup("1")
package model
