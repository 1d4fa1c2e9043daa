package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
)

// Fingerprint returns a short deterministic label for any JSON-serializable
// value. It is a 32-bit rolling checksum, not a cryptographic hash: distinct
// values may collide, identical values never differ.
func Fingerprint(v any) string {
	s, err := compactJSON(v)
	if err != nil {
		LogDebug("Fingerprint falling back to fmt for %T: %v", v, err)
		s = fmt.Sprintf("%v", v)
	}
	return FingerprintString(s)
}

// FingerprintString applies h = h*31 + c over the UTF-16 code units of s with
// signed 32-bit wraparound and renders |h| as 8 lowercase hex digits.
func FingerprintString(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	folded := int64(h)
	if folded < 0 {
		folded = -folded
	}
	return fmt.Sprintf("%08x", folded)
}

// Fingerprint labels the record. Decoded records hash their original bytes so
// key order follows the source document.
func (m *Message) Fingerprint() string {
	if m != nil && len(m.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, m.Raw); err == nil {
			return FingerprintString(buf.String())
		}
	}
	return Fingerprint(m)
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
