// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/TechWithTyler/randofacto/internal/adapter"
	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
	"github.com/TechWithTyler/randofacto/internal/workers"
	"github.com/TechWithTyler/randofacto/models"
)

// ConnectivityState reports whether the device is online and notifies
// subscribers when that changes.
type ConnectivityState interface {
	Online() bool
	Subscribe(fn func(online bool)) (cancel func())
}

// DisplayState reports whether a meaningful fact is on screen.
type DisplayState interface {
	HasMeaningfulFact() bool
}

// Favorites owns the in-memory favorites collection of the current account
// and keeps it in line with the remote favorites collection.
//
// Operations run on the caller's goroutine. Snapshot callbacks are
// dispatched onto the main queue; a callback belonging to a released or
// replaced subscription is dropped.
type Favorites struct {
	store        adapter.RemoteStore
	identity     adapter.IdentityProvider
	reporter     *Reporter
	queue        *workers.MainQueue
	connectivity ConnectivityState
	concurrency  int
	logger       *logger.Logger

	items *utils.Observable[[]models.FavoriteFact]

	mu           sync.Mutex
	display      DisplayState
	registration adapter.ListenerRegistration
	generation   uint64
	saving       map[string]struct{}
	malformed    map[string]struct{}
}

// NewFavorites returns an empty synchronizer. concurrency bounds the
// deletions in flight during bulk deletes; values below 1 mean 1.
func NewFavorites(
	store adapter.RemoteStore,
	identity adapter.IdentityProvider,
	reporter *Reporter,
	queue *workers.MainQueue,
	connectivity ConnectivityState,
	concurrency int,
	log *logger.Logger,
) *Favorites {
	return &Favorites{
		store:        store,
		identity:     identity,
		reporter:     reporter,
		queue:        queue,
		connectivity: connectivity,
		concurrency:  max(concurrency, 1),
		logger:       log.Component("favorites"),
		items:        utils.NewObservable[[]models.FavoriteFact](nil, slices.Equal[[]models.FavoriteFact]),
		saving:       make(map[string]struct{}),
		malformed:    make(map[string]struct{}),
	}
}

// SetDisplay wires the component that knows what is on screen.
func (f *Favorites) SetDisplay(display DisplayState) {
	f.mu.Lock()
	f.display = display
	f.mu.Unlock()
}

// LoadForCurrentUser subscribes to the favorites of the signed-in account,
// replacing any previous subscription. Without an account the collection
// is emptied and nil is returned.
func (f *Favorites) LoadForCurrentUser(ctx context.Context) error {
	account, ok := f.identity.CurrentAccount()
	if !ok {
		f.Release()
		f.Clear()
		return nil
	}

	gen := f.replace(nil)

	filter := models.Where(models.FieldOwner, account.Email)
	reg, err := f.store.Subscribe(ctx, models.FavoritesCollection, filter, func(snapshot models.Snapshot, err error) {
		f.queue.Dispatch(func() {
			f.onSnapshot(gen, snapshot, err)
		})
	})
	if err != nil {
		return f.reporter.Report(ctx, err)
	}

	f.mu.Lock()
	if f.generation != gen {
		// replaced or released while subscribing
		f.mu.Unlock()
		reg.Remove()
		return nil
	}
	f.registration = reg
	f.mu.Unlock()

	f.logger.Debug().Str("owner", account.Email).Msg("favorites subscription started")
	return nil
}

// Release removes the favorites subscription. Notifications still in
// flight are ignored.
func (f *Favorites) Release() {
	f.replace(nil)
}

// replace bumps the generation, swaps in reg and removes the previous
// registration.
func (f *Favorites) replace(reg adapter.ListenerRegistration) uint64 {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	old := f.registration
	f.registration = reg
	f.malformed = make(map[string]struct{})
	f.mu.Unlock()

	if old != nil {
		old.Remove()
	}
	return gen
}

func (f *Favorites) onSnapshot(gen uint64, snapshot models.Snapshot, err error) {
	f.mu.Lock()
	current := f.generation == gen
	display := f.display
	f.mu.Unlock()

	if !current {
		return
	}

	if err != nil {
		_ = f.reporter.Report(context.Background(), err)
		return
	}

	if snapshot.FromCache && f.connectivity.Online() && display != nil && display.HasMeaningfulFact() {
		f.logger.Debug().Int("documents", len(snapshot.Documents)).Msg("discarding cache snapshot")
		return
	}

	favorites := make([]models.FavoriteFact, 0, len(snapshot.Documents))
	for _, doc := range snapshot.Documents {
		fav, err := models.FavoriteFromDocument(doc)
		if err != nil {
			f.reportMalformed(doc, err)
			continue
		}
		favorites = append(favorites, fav)
	}

	f.items.Set(favorites)
}

// reportMalformed reports an undecodable document the first time it is seen.
func (f *Favorites) reportMalformed(doc models.Document, err error) {
	f.mu.Lock()
	_, seen := f.malformed[doc.ID]
	f.malformed[doc.ID] = struct{}{}
	f.mu.Unlock()

	if seen {
		return
	}
	_ = f.reporter.Report(context.Background(),
		app.NewCodedError(app.DomainApp, app.CodeFactDataMalformed, fmt.Sprintf("favorite %s: %v", doc.ID, err), err))
}

// Save stores text as a favorite of the signed-in account. It does nothing
// without an account or when text is already a favorite or being saved.
// Blank text is reported as a missing fact text.
func (f *Favorites) Save(ctx context.Context, text string) error {
	account, ok := f.identity.CurrentAccount()
	if !ok {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return f.reporter.Report(ctx, app.NewCodedError(app.DomainApp, app.CodeFactTextMissing, "", nil))
	}

	f.mu.Lock()
	if _, inFlight := f.saving[text]; inFlight || f.Contains(text) {
		f.mu.Unlock()
		return nil
	}
	f.saving[text] = struct{}{}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.saving, text)
		f.mu.Unlock()
	}()

	fav := models.FavoriteFact{Text: text, Owner: account.Email}
	doc, err := f.store.CreateDocument(ctx, models.FavoritesCollection, fav.Fields())
	if err != nil {
		return f.reporter.Report(ctx, err)
	}
	fav.ID = doc.ID

	f.items.Update(func(current []models.FavoriteFact) []models.FavoriteFact {
		if containsText(current, text) {
			return current
		}
		return append(slices.Clone(current), fav)
	})

	f.logger.Debug().Str("id", fav.ID).Msg("favorite saved")
	return nil
}

// Unfavorite deletes the favorite with text. The cache is searched first,
// then the server when the cache has no match and the device is online.
// Every match is deleted; no match reports a missing favorite reference.
func (f *Favorites) Unfavorite(ctx context.Context, text string) error {
	account, ok := f.identity.CurrentAccount()
	if !ok {
		return nil
	}

	filter := models.Where(models.FieldOwner, account.Email).And(models.FieldText, text)
	snapshot, err := f.store.Query(ctx, models.FavoritesCollection, filter, models.SourceCache)
	if err != nil {
		return f.reporter.Report(ctx, err)
	}

	if len(snapshot.Documents) == 0 && f.connectivity.Online() {
		snapshot, err = f.store.Query(ctx, models.FavoritesCollection, filter, models.SourceServer)
		if err != nil {
			return f.reporter.Report(ctx, err)
		}
	}

	switch len(snapshot.Documents) {
	case 0:
		return f.reporter.Report(ctx, app.NewCodedError(app.DomainApp, app.CodeFavoriteReferenceMissing,
			"no favorite document with this text", nil))
	case 1:
	default:
		f.logger.Warn().Int("documents", len(snapshot.Documents)).Msg("several documents for one favorite, deleting all")
	}

	if err := f.deleteDocuments(ctx, snapshot.Documents); err != nil {
		return f.reporter.Report(ctx, err)
	}

	f.items.Update(func(current []models.FavoriteFact) []models.FavoriteFact {
		return slices.DeleteFunc(slices.Clone(current), func(fav models.FavoriteFact) bool {
			return fav.Text == text
		})
	})
	return nil
}

// DeleteAllForCurrentUser deletes every favorite of the signed-in account.
// The documents are listed from the server when forAccountDeletion is set
// and from the cache otherwise. See deleteDocuments for the failure rule.
func (f *Favorites) DeleteAllForCurrentUser(ctx context.Context, forAccountDeletion bool) error {
	account, ok := f.identity.CurrentAccount()
	if !ok {
		return nil
	}

	source := models.SourceCache
	if forAccountDeletion {
		source = models.SourceServer
	}

	if err := f.deleteOwned(ctx, account, source); err != nil {
		return f.reporter.Report(ctx, err)
	}
	return nil
}

// deleteOwned is DeleteAllForCurrentUser without reporting.
func (f *Favorites) deleteOwned(ctx context.Context, account models.Account, source models.Source) error {
	snapshot, err := f.store.Query(ctx, models.FavoritesCollection, models.Where(models.FieldOwner, account.Email), source)
	if err != nil {
		return err
	}

	if err := f.deleteDocuments(ctx, snapshot.Documents); err != nil {
		return err
	}

	f.logger.Info().Int("documents", len(snapshot.Documents)).Str("source", source.String()).Msg("favorites deleted")
	f.Clear()
	return nil
}

// deleteDocuments deletes docs with bounded concurrency. After the first
// failure no new deletion is issued; it returns once every issued deletion
// has resolved, with that first failure.
func (f *Favorites) deleteDocuments(ctx context.Context, docs []models.Document) error {
	var (
		g      errgroup.Group
		failed atomic.Bool
	)
	g.SetLimit(f.concurrency)

	for _, doc := range docs {
		if failed.Load() {
			break
		}
		g.Go(func() error {
			if failed.Load() {
				return nil
			}
			if err := f.store.DeleteDocument(ctx, models.FavoritesCollection, doc.ID); err != nil {
				failed.Store(true)
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// Favorites returns a copy of the collection.
func (f *Favorites) Favorites() []models.FavoriteFact {
	return slices.Clone(f.items.Get())
}

// Count returns the number of favorites.
func (f *Favorites) Count() int {
	return len(f.items.Get())
}

// Contains reports whether text is a favorite.
func (f *Favorites) Contains(text string) bool {
	return containsText(f.items.Get(), text)
}

// Random returns a random favorite, or false when there is none.
func (f *Favorites) Random() (models.FavoriteFact, bool) {
	items := f.items.Get()
	if len(items) == 0 {
		return models.FavoriteFact{}, false
	}
	return items[rand.IntN(len(items))], true
}

// Subscribe registers fn for collection changes.
func (f *Favorites) Subscribe(fn func([]models.FavoriteFact)) (cancel func()) {
	return f.items.Subscribe(fn)
}

// Clear empties the local collection. The remote collection is untouched.
func (f *Favorites) Clear() {
	f.items.Set(nil)
}

func containsText(favorites []models.FavoriteFact, text string) bool {
	return slices.ContainsFunc(favorites, func(fav models.FavoriteFact) bool {
		return fav.Equal(models.FavoriteFact{Text: text})
	})
}
