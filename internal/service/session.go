// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/TechWithTyler/randofacto/internal/adapter"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
	"github.com/TechWithTyler/randofacto/models"
)

// DisplayedFact is the fact on screen. While Generating is set the text is
// a leftover and is not considered meaningful.
type DisplayedFact struct {
	Text       string
	Generating bool
}

// State is the combined snapshot the shell renders.
type State struct {
	Fact           DisplayedFact
	IsFavorite     bool
	Online         bool
	Auth           models.AuthState
	DeletionStage  models.AccountDeletionStage
	FavoritesCount int
}

// Session chooses which fact to show and exposes the combined state of
// the client.
type Session struct {
	facts        adapter.FactProvider
	favorites    *Favorites
	identity     *Identity
	connectivity ConnectivityState
	settings     adapter.SettingsStore
	reporter     *Reporter
	settleDelay  time.Duration
	logger       *logger.Logger

	displayed *utils.Observable[DisplayedFact]
}

// NewSession returns an orchestrator with nothing displayed. It registers
// itself as the display state of favorites.
func NewSession(
	facts adapter.FactProvider,
	favorites *Favorites,
	identity *Identity,
	connectivity ConnectivityState,
	settings adapter.SettingsStore,
	reporter *Reporter,
	settleDelay time.Duration,
	log *logger.Logger,
) *Session {
	s := &Session{
		facts:        facts,
		favorites:    favorites,
		identity:     identity,
		connectivity: connectivity,
		settings:     settings,
		reporter:     reporter,
		settleDelay:  settleDelay,
		logger:       log.Component("session"),
		displayed:    utils.NewObservable(DisplayedFact{}, func(a, b DisplayedFact) bool { return a == b }),
	}
	favorites.SetDisplay(s)
	return s
}

// Start waits for connectivity and the first favorites snapshot to settle,
// then resolves the initial fact.
func (s *Session) Start(ctx context.Context) error {
	if s.settleDelay > 0 {
		t := time.NewTimer(s.settleDelay)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return s.ResolveInitialFact(ctx)
}

// ResolveInitialFact shows a random favorite when the favorites-on-launch
// setting is on, there are favorites and an account is signed in, and
// generates a new fact otherwise. The choice is made afresh on every call.
func (s *Session) ResolveInitialFact(ctx context.Context) error {
	onLaunch, err := s.settings.Bool(ctx, models.SettingFavoritesOnLaunch)
	if err != nil {
		s.logger.Warn().Err(err).Msg("error reading favorites-on-launch setting")
		onLaunch = false
	}

	if onLaunch && s.favorites.Count() > 0 && s.identity.AuthState() == models.AuthAuthenticated {
		if s.DisplayRandomFavorite() {
			return nil
		}
	}
	return s.GenerateFact(ctx)
}

// GenerateFact fetches a new fact and displays it. On failure the previous
// text stays on screen and the error is reported.
func (s *Session) GenerateFact(ctx context.Context) error {
	s.displayed.Update(func(d DisplayedFact) DisplayedFact {
		d.Generating = true
		return d
	})

	text, err := s.facts.GenerateFact(ctx)
	if err != nil {
		s.displayed.Update(func(d DisplayedFact) DisplayedFact {
			d.Generating = false
			return d
		})
		return s.reporter.Report(ctx, err)
	}

	s.displayed.Set(DisplayedFact{Text: text})
	return nil
}

// DisplayRandomFavorite shows a random favorite. It reports false when
// there are no favorites.
func (s *Session) DisplayRandomFavorite() bool {
	fav, ok := s.favorites.Random()
	if !ok {
		return false
	}
	s.displayed.Set(DisplayedFact{Text: fav.Text})
	return true
}

// DisplayedFact returns the fact on screen.
func (s *Session) DisplayedFact() DisplayedFact {
	return s.displayed.Get()
}

// HasMeaningfulFact implements [DisplayState].
func (s *Session) HasMeaningfulFact() bool {
	d := s.displayed.Get()
	return d.Text != "" && !d.Generating
}

// State returns the combined snapshot.
func (s *Session) State() State {
	fact := s.displayed.Get()
	return State{
		Fact:           fact,
		IsFavorite:     fact.Text != "" && s.favorites.Contains(fact.Text),
		Online:         s.connectivity.Online(),
		Auth:           s.identity.AuthState(),
		DeletionStage:  s.identity.DeletionStage(),
		FavoritesCount: s.favorites.Count(),
	}
}

// Subscribe calls fn with the combined state whenever one of its parts
// changes.
func (s *Session) Subscribe(fn func(State)) (cancel func()) {
	notify := func() { fn(s.State()) }

	cancels := []func(){
		s.displayed.Subscribe(func(DisplayedFact) { notify() }),
		s.favorites.Subscribe(func([]models.FavoriteFact) { notify() }),
		s.identity.SubscribeAuth(func(models.AuthState) { notify() }),
		s.identity.SubscribeDeletionStage(func(models.AccountDeletionStage) { notify() }),
		s.connectivity.Subscribe(func(bool) { notify() }),
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// FavoriteDisplayed saves the fact on screen as a favorite.
func (s *Session) FavoriteDisplayed(ctx context.Context) error {
	fact := s.displayed.Get()
	if fact.Text == "" || fact.Generating {
		return nil
	}
	return s.favorites.Save(ctx, fact.Text)
}

// SetFavoritesOnLaunch stores the favorites-on-launch setting.
func (s *Session) SetFavoritesOnLaunch(ctx context.Context, enabled bool) error {
	return s.settings.SetBool(ctx, models.SettingFavoritesOnLaunch, enabled)
}

// FavoritesOnLaunch reads the favorites-on-launch setting.
func (s *Session) FavoritesOnLaunch(ctx context.Context) (bool, error) {
	return s.settings.Bool(ctx, models.SettingFavoritesOnLaunch)
}
