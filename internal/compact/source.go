package compact

import (
	"bytes"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// prescanLimit bounds how far into the document a charset declaration is
// searched for, as browsers do.
const prescanLimit = 1024

// SourceDocument is one HTML file read from disk and decoded to UTF-8.
type SourceDocument struct {
	Path    string
	Ext     string
	Charset string
	Text    string
}

// ReadError reports that the source document could not be read or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// ReadSource reads the whole file at path and decodes it to UTF-8.
func ReadSource(path string) (SourceDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SourceDocument{}, &ReadError{Path: path, Err: err}
	}
	text, name, err := decodeUTF8(raw)
	if err != nil {
		return SourceDocument{}, &ReadError{Path: path, Err: err}
	}
	return SourceDocument{
		Path:    path,
		Ext:     filepath.Ext(path),
		Charset: name,
		Text:    text,
	}, nil
}

// decodeUTF8 converts raw document bytes to UTF-8. A byte-order mark wins.
// Bytes that are already valid UTF-8 are read as UTF-8 whatever <meta>
// declares; otherwise a <meta> charset declaration is honored. Remaining
// invalid sequences become U+FFFD.
func decodeUTF8(raw []byte) (string, string, error) {
	var fallback encoding.Encoding = unicode.UTF8
	name := "utf-8"
	if label := declaredCharset(raw); label != "" && !utf8.Valid(raw) {
		// A document without a BOM cannot really be UTF-16; treat it as UTF-8.
		if e, canonical := charset.Lookup(label); e != nil && !strings.HasPrefix(canonical, "utf-16") {
			fallback, name = e, canonical
		}
	}
	if bom := bomCharset(raw); bom != "" {
		name = bom
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback.NewDecoder()), raw)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), name, nil
}

func bomCharset(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8"
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return "utf-16be"
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return "utf-16le"
	}
	return ""
}

// declaredCharset returns the charset label of the first <meta charset> or
// <meta http-equiv="Content-Type"> within the prescan window.
func declaredCharset(raw []byte) string {
	if len(raw) > prescanLimit {
		raw = raw[:prescanLimit]
	}
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}
			var content string
			httpEquiv := false
			for more := true; more; {
				var key, val []byte
				key, val, more = z.TagAttr()
				switch string(key) {
				case "charset":
					return strings.TrimSpace(string(val))
				case "http-equiv":
					httpEquiv = strings.EqualFold(strings.TrimSpace(string(val)), "content-type")
				case "content":
					content = string(val)
				}
			}
			if httpEquiv && content != "" {
				if _, params, err := mime.ParseMediaType(content); err == nil {
					if cs := strings.TrimSpace(params["charset"]); cs != "" {
						return cs
					}
				}
			}
		}
	}
}
