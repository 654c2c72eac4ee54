// Package format renders command results as json, edn or plain text.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Texter is implemented by results that have a human-readable rendering.
type Texter interface {
	Text() string
}

// Formats lists the supported --format values.
var Formats = []string{"json", "edn", "text"}

// Write writes v in the requested format. An empty format means json.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s (expected %s)", format, strings.Join(Formats, "|"))
	}
}

// WriteJSON writes one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText writes v.Text() when v is a Texter, strings verbatim, and falls
// back to indented JSON for anything else.
func WriteText(w io.Writer, v any) error {
	var s string
	switch t := v.(type) {
	case Texter:
		s = t.Text()
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		return WriteJSON(w, v, true)
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}
