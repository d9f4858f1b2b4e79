// Package compact turns an HTML document into its compacted text form.
//
// The rules are fixed: whitespace between tags is collapsed, embedded CSS
// and JavaScript are minified, and comments, document tags, end tags and
// attribute quotes are kept. The same input always yields the same output.
package compact

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
)

const htmlMediaType = "text/html"

var (
	jsMediaTypes   = regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$")
	jsonMediaTypes = regexp.MustCompile("[/+]json$")
)

// CompactionError reports that the engine gave up on a document.
type CompactionError struct {
	Path string
	Err  error
}

func (e *CompactionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("compact: %v", e.Err)
	}
	return fmt.Sprintf("compact %s: %v", e.Path, e.Err)
}

func (e *CompactionError) Unwrap() error { return e.Err }

// Compactor minifies HTML documents. The zero value is not usable; call New.
// A Compactor is safe for concurrent use.
type Compactor struct {
	m *minify.M
}

// New returns a Compactor with the fixed rule set.
func New() *Compactor {
	// No SVG or MathML minifier is registered: inline <svg> and <math> pass
	// through unchanged, so their comments and <metadata> survive.
	m := minify.New()
	m.Add(htmlMediaType, &html.Minifier{
		KeepComments:        true,
		KeepDefaultAttrVals: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})
	m.AddFunc("text/css", tolerant("css", css.Minify))
	m.AddFuncRegexp(jsMediaTypes, tolerant("js", js.Minify))
	m.AddFunc("module", tolerant("js", js.Minify))
	m.AddFuncRegexp(jsonMediaTypes, tolerant("json", json.Minify))
	m.AddFunc("importmap", tolerant("json", json.Minify))
	return &Compactor{m: m}
}

// Compact returns the compacted form of an HTML document.
func (c *Compactor) Compact(text string) (string, error) {
	out, err := c.m.String(htmlMediaType, text)
	if err != nil {
		return "", &CompactionError{Err: err}
	}
	return out, nil
}

// CompactFile reads the document at path and compacts it.
func (c *Compactor) CompactFile(path string) (string, error) {
	doc, err := ReadSource(path)
	if err != nil {
		return "", err
	}
	log.Debug().Str("path", path).Str("charset", doc.Charset).Int("bytes", len(doc.Text)).Msg("read source")
	out, err := c.Compact(doc.Text)
	if err != nil {
		if ce, ok := err.(*CompactionError); ok {
			ce.Path = path
		}
		return "", err
	}
	log.Debug().Str("path", path).Int("before", len(doc.Text)).Int("after", len(out)).Msg("compacted")
	return out, nil
}

// tolerant wraps an embedded-content minifier so that a style or script
// block it cannot parse is emitted unchanged instead of failing the page.
func tolerant(kind string, fn minify.MinifierFunc) minify.MinifierFunc {
	return func(m *minify.M, w io.Writer, r io.Reader, params map[string]string) error {
		src, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := fn(m, &buf, bytes.NewReader(src), params); err != nil {
			log.Debug().Err(err).Str("kind", kind).Msg("embedded content left as is")
			_, err = w.Write(src)
			return err
		}
		_, err = w.Write(buf.Bytes())
		return err
	}
}
