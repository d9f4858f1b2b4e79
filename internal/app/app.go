// Package app wires configuration, logging and the conversion pipeline for
// the command line entry point.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/htmlstring/internal/convert"
	"github.com/hyperifyio/htmlstring/internal/encode"
)

// ErrConversionFailed is returned by Run when at least one input could not be
// converted. Individual failures have already been reported.
var ErrConversionFailed = errors.New("conversion failed")

type App struct {
	cfg      Config
	mode     encode.Mode
	conv     *convert.Converter
	reporter convert.Reporter
}

// New validates cfg and builds the pipeline. A nil reporter logs through the
// global zerolog logger.
func New(cfg Config, reporter convert.Reporter) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	mode, err := cfg.OutputMode()
	if err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = convert.LogReporter{Logger: log.Logger}
	}
	return &App{
		cfg:      cfg,
		mode:     mode,
		conv:     convert.New(convert.WithStrictPerms(cfg.StrictPerms)),
		reporter: reporter,
	}, nil
}

// Run converts every input once, or keeps converting on change in watch
// mode until ctx is cancelled. Inputs that are not HTML files yield
// convert.ErrNotHTML; other failures yield ErrConversionFailed.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Watch {
		return a.watch(ctx)
	}
	var rejected, failed int
	for _, in := range a.cfg.Inputs {
		err := a.conv.Run(in, a.mode, a.reporter)
		switch {
		case err == nil:
		case errors.Is(err, convert.ErrNotHTML):
			rejected++
		default:
			failed++
		}
	}
	log.Debug().Int("inputs", len(a.cfg.Inputs)).Int("rejected", rejected).Int("failed", failed).Msg("done")
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs: %w", failed, len(a.cfg.Inputs), ErrConversionFailed)
	}
	if rejected > 0 {
		return convert.ErrNotHTML
	}
	return nil
}

func (a *App) watch(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, len(a.cfg.Inputs))
	for i, in := range a.cfg.Inputs {
		wg.Add(1)
		go func(i int, in string) {
			defer wg.Done()
			errs[i] = a.conv.Watch(ctx, in, a.mode, a.reporter)
		}(i, in)
	}
	wg.Wait()
	return errors.Join(errs...)
}
