// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// writeJSON writes v as indented JSON. Output to a color terminal is
// syntax highlighted; anything else gets plain JSON.
func writeJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}

	if w == io.Writer(os.Stdout) && ColorsEnabled() {
		if colored, ok := highlightJSON(buf.String()); ok {
			_, err := io.WriteString(w, colored)
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// highlightJSON colors JSON for a 256 color terminal.
func highlightJSON(src string) (string, bool) {
	lexer := lexers.Get("json")
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return "", false
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", false
	}
	return buf.String(), true
}
