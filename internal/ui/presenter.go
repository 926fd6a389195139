package ui

import (
	"io"
	"time"

	"github.com/bamsammich/cachefinder/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer     io.Writer
	ErrWriter  io.Writer
	Stats      stats.ReadTicker
	Interval   time.Duration
	Quiet      bool
	Verbose    bool
	NoProgress bool
}

const defaultInterval = 5 * time.Second

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{stats: cfg.Stats}
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &plainPresenter{
		w:        cfg.Writer,
		errW:     cfg.ErrWriter,
		stats:    cfg.Stats,
		verbose:  cfg.Verbose,
		progress: !cfg.NoProgress,
		interval: interval,
	}
}
