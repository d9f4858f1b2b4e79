// Package encode serializes compacted text into an output artifact and
// writes it beside the source document.
package encode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the artifact representation.
type Mode string

const (
	// JSON wraps the text in {"output": ...} with 2-space indentation.
	JSON Mode = "json"
	// Base64 writes the standard, padded Base64 encoding of the UTF-8 text.
	Base64 Mode = "base64"
)

// ParseMode accepts "json", "base64" or "b64", in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "base64", "b64":
		return Base64, nil
	}
	return "", fmt.Errorf("unknown output mode %q (want json or base64)", s)
}

// Extension returns the artifact file extension including the dot.
func (m Mode) Extension() string {
	if m == Base64 {
		return ".b64"
	}
	return ".json"
}

func (m Mode) String() string { return string(m) }

// Artifact is the JSON document written in JSON mode.
type Artifact struct {
	Output string `json:"output"`
}

// OutputPath derives the artifact path: same directory and base name as src,
// with the extension replaced.
func OutputPath(src string, m Mode) string {
	dir := filepath.Dir(src)
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+m.Extension())
}

// Encode renders text in the representation chosen by m.
func Encode(text string, m Mode) ([]byte, error) {
	switch m {
	case JSON:
		return encodeJSON(text)
	case Base64:
		out := make([]byte, base64.StdEncoding.EncodedLen(len(text)))
		base64.StdEncoding.Encode(out, []byte(text))
		return out, nil
	}
	return nil, fmt.Errorf("unknown output mode %q", string(m))
}

// encodeJSON leaves <, > and & unescaped so markup stays readable in the
// artifact.
func encodeJSON(text string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Artifact{Output: text}); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode reverses Encode, returning the compacted text held by an artifact.
func Decode(data []byte, m Mode) (string, error) {
	switch m {
	case JSON:
		var a Artifact
		if err := json.Unmarshal(data, &a); err != nil {
			return "", fmt.Errorf("decode json: %w", err)
		}
		return a.Output, nil
	case Base64:
		b, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			return "", fmt.Errorf("decode base64: %w", err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("unknown output mode %q", string(m))
}
