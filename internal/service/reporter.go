// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
)

// Report is one failure handed to the reporting sink. FormOpen tells the
// shell whether an authentication form was open when it was raised, so it
// can show the error inline instead of as an alert.
type Report struct {
	Err      *app.Error
	FormOpen bool
}

// Reporter is the single sink every component hands its failures to.
type Reporter struct {
	logger *logger.Logger

	formOpen atomic.Bool
	last     *utils.Observable[*Report]

	mu      sync.Mutex
	onStale func()
}

// NewReporter returns a sink with the authentication form closed.
func NewReporter(log *logger.Logger) *Reporter {
	return &Reporter{
		logger: log.Component("reporter"),
		last:   utils.NewObservable[*Report](nil, nil),
	}
}

// Report classifies err, logs it and passes it to the subscribers. It
// returns the classified error, or nil for a nil err. A stale session
// closes the authentication form and triggers the session-stale hook.
func (r *Reporter) Report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	classified := app.Classify(err)

	r.logger.Error().Err(classified.Err).
		Str("kind", classified.Kind.String()).
		Str("domain", classified.Domain).
		Int("code", classified.Code).
		Msg(classified.Message())

	if classified.Kind == app.KindSessionStale {
		r.formOpen.Store(false)
		r.mu.Lock()
		hook := r.onStale
		r.mu.Unlock()
		if hook != nil {
			hook()
		}
	}

	r.last.Set(&Report{Err: classified, FormOpen: r.formOpen.Load()})
	return classified
}

// Subscribe registers fn for every future report.
func (r *Reporter) Subscribe(fn func(Report)) (cancel func()) {
	return r.last.Subscribe(func(rep *Report) {
		if rep != nil {
			fn(*rep)
		}
	})
}

// Last returns the most recent report, if any.
func (r *Reporter) Last() (Report, bool) {
	rep := r.last.Get()
	if rep == nil {
		return Report{}, false
	}
	return *rep, true
}

// SetFormOpen records whether an authentication form is on screen.
func (r *Reporter) SetFormOpen(open bool) {
	r.formOpen.Store(open)
}

// FormOpen reports whether an authentication form is on screen.
func (r *Reporter) FormOpen() bool {
	return r.formOpen.Load()
}

// OnSessionStale sets the hook run when a session-stale error is reported.
func (r *Reporter) OnSessionStale(fn func()) {
	r.mu.Lock()
	r.onStale = fn
	r.mu.Unlock()
}
