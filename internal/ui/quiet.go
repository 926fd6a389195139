package ui

import "github.com/bamsammich/cachefinder/internal/stats"

// quietPresenter consumes events but produces no output. Failures still
// reach the log through the event logger.
type quietPresenter struct {
	stats stats.Reader
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events { //nolint:revive // empty-block: drain until closed
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
