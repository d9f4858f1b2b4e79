// Package convert runs the HTML-to-string pipeline: classify the source,
// compact it, encode the result and write the artifact beside the source.
package convert

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/htmlstring/internal/classify"
	"github.com/hyperifyio/htmlstring/internal/compact"
	"github.com/hyperifyio/htmlstring/internal/encode"
)

// ErrNotHTML is returned by Run and Watch when the path is not an .html or
// .htm file. No artifact is written in that case.
var ErrNotHTML = errors.New("not an HTML file (.html or .htm)")

// Result describes a written artifact.
type Result struct {
	SourcePath string
	OutputPath string
	Mode       encode.Mode
	Bytes      int
}

// Converter holds the shared, read-only pieces of the pipeline. Independent
// conversions may run concurrently on one Converter.
type Converter struct {
	compactor *compact.Compactor
	write     encode.WriteOptions
}

// Option configures a Converter.
type Option func(*Converter)

// WithStrictPerms makes artifacts readable by the owner only.
func WithStrictPerms(strict bool) Option {
	return func(c *Converter) { c.write.StrictPerms = strict }
}

// New returns a Converter with the fixed compaction rules.
func New(opts ...Option) *Converter {
	c := &Converter{compactor: compact.New()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Convert reads path, compacts it and writes the artifact for mode. The
// caller is expected to have checked classify.IsHTMLFile. Errors are
// *compact.ReadError, *compact.CompactionError or *encode.WriteError.
func (c *Converter) Convert(path string, mode encode.Mode) (Result, error) {
	text, err := c.compactor.CompactFile(path)
	if err != nil {
		return Result{}, err
	}
	data, err := encode.Encode(text, mode)
	if err != nil {
		return Result{}, err
	}
	out := encode.OutputPath(path, mode)
	if err := encode.WriteArtifact(out, data, c.write); err != nil {
		return Result{}, err
	}
	log.Debug().Str("path", path).Str("mode", mode.String()).Str("out", out).Int("bytes", len(data)).Msg("wrote artifact")
	return Result{SourcePath: path, OutputPath: out, Mode: mode, Bytes: len(data)}, nil
}

// ToJSON converts path into <base>.json.
func (c *Converter) ToJSON(path string) (Result, error) {
	return c.Convert(path, encode.JSON)
}

// ToBase64 converts path into <base>.b64.
func (c *Converter) ToBase64(path string) (Result, error) {
	return c.Convert(path, encode.Base64)
}

// Run is the caller-facing operation. It checks the classifier, converts,
// and reports the outcome to r. The returned error mirrors what was reported.
func (c *Converter) Run(path string, mode encode.Mode, r Reporter) error {
	if !classify.IsHTMLFile(path) {
		r.OnWarning(fmt.Sprintf("%s is not an HTML file (.html or .htm).", path))
		return fmt.Errorf("%s: %w", path, ErrNotHTML)
	}
	res, err := c.Convert(path, mode)
	if err != nil {
		r.OnError(ErrorMessage(err))
		return err
	}
	r.OnSuccess(res.OutputPath)
	return nil
}
