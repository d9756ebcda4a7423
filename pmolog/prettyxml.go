// Package pmolog holds small logging helpers shared across the module.
package pmolog

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// PrettyPrintXML re-indents an XML fragment for debug logs. Input that does
// not tokenize as XML is returned unchanged, so the helper is safe to call
// on arbitrary response bodies.
func PrettyPrintXML(raw string) string {
	var out bytes.Buffer
	dec := xml.NewDecoder(strings.NewReader(raw))
	enc := xml.NewEncoder(&out)
	enc.Indent("", "  ")
	for {
		t, err := dec.Token()
		if err != nil {
			break
		}
		if err := enc.EncodeToken(t); err != nil {
			break
		}
	}
	enc.Flush()
	if out.Len() == 0 {
		return raw
	}
	return out.String()
}

// Snippet truncates a string for log lines, marking the cut.
func Snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
