// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/TechWithTyler/randofacto/internal/adapter"
	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
	"github.com/TechWithTyler/randofacto/internal/workers"
	"github.com/TechWithTyler/randofacto/models"
)

// DocumentStore implements [adapter.RemoteStore] on top of a server-tier
// [DocumentRepository] and an in-memory cache tier.
//
// While the network is disabled reads are served from the cache and writes
// are applied to the cache and queued. EnableNetwork pushes the queue in
// order. Every listener owns a serial delivery queue, so its handler is
// never called concurrently.
type DocumentStore struct {
	repo   DocumentRepository
	ids    utils.IDGenerator
	logger *logger.Logger

	mu        sync.Mutex
	online    bool
	cache     *documentCache
	pending   []pendingWrite
	listeners map[int]*documentListener
	nextID    int
}

// NewDocumentStore returns a store with the network enabled and an empty cache.
func NewDocumentStore(repo DocumentRepository, ids utils.IDGenerator, log *logger.Logger) *DocumentStore {
	return &DocumentStore{
		repo:      repo,
		ids:       ids,
		logger:    log.Component("document_store"),
		online:    true,
		cache:     newDocumentCache(),
		listeners: make(map[int]*documentListener),
	}
}

// Subscribe implements [adapter.RemoteStore].
func (s *DocumentStore) Subscribe(ctx context.Context, collection string, filter models.Filter, handler adapter.SnapshotHandler) (adapter.ListenerRegistration, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l := &documentListener{
		store:      s,
		collection: collection,
		filter:     filter,
		handler:    handler,
		queue:      workers.NewMainQueue(s.logger),
		ctx:        listenCtx,
		cancel:     cancel,
	}

	s.mu.Lock()
	l.id = s.nextID
	s.nextID++
	s.listeners[l.id] = l
	online := s.online
	s.mu.Unlock()

	go func() {
		_ = l.queue.Run(listenCtx)
	}()

	l.queue.Dispatch(func() {
		l.deliver(s.cacheSnapshot(collection, filter), nil)
	})
	if online {
		l.queue.Dispatch(l.refresh)
	}

	s.logger.Debug().Str("collection", collection).Int("listener", l.id).Msg("listener added")
	return l, nil
}

// CreateDocument implements [adapter.RemoteStore].
func (s *DocumentStore) CreateDocument(ctx context.Context, collection string, fields map[string]any) (models.Document, error) {
	doc := models.Document{ID: s.ids.Generate(), Fields: fields}
	if err := s.write(ctx, pendingWrite{op: opCreate, collection: collection, doc: doc}); err != nil {
		return models.Document{}, err
	}
	return cloneDocument(doc), nil
}

// SetDocument implements [adapter.RemoteStore].
func (s *DocumentStore) SetDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.write(ctx, pendingWrite{op: opSet, collection: collection, doc: models.Document{ID: id, Fields: fields}})
}

// DeleteDocument implements [adapter.RemoteStore].
func (s *DocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	return s.write(ctx, pendingWrite{op: opDelete, collection: collection, doc: models.Document{ID: id}})
}

// Query implements [adapter.RemoteStore]. SourceDefault falls back to the
// cache when the server tier is unavailable.
func (s *DocumentStore) Query(ctx context.Context, collection string, filter models.Filter, source models.Source) (models.Snapshot, error) {
	if err := validateFilter(filter); err != nil {
		return models.Snapshot{}, err
	}

	switch source {
	case models.SourceCache:
		return s.cacheSnapshot(collection, filter), nil
	case models.SourceServer:
		return s.serverSnapshot(ctx, collection, filter)
	}

	if !s.Online() {
		return s.cacheSnapshot(collection, filter), nil
	}

	snapshot, err := s.serverSnapshot(ctx, collection, filter)
	if err != nil && app.KindOf(err) == app.KindStoreUnavailable {
		s.logger.Warn().Err(err).Str("collection", collection).Msg("server unavailable, reading from cache")
		return s.cacheSnapshot(collection, filter), nil
	}
	return snapshot, err
}

// EnableNetwork implements [adapter.RemoteStore]. Pending writes are pushed
// in order; on the first failure the rest stay queued and the error is
// returned.
func (s *DocumentStore) EnableNetwork(ctx context.Context) error {
	s.mu.Lock()
	s.online = true
	pending := append([]pendingWrite(nil), s.pending...)
	s.mu.Unlock()

	flushed := 0
	var flushErr error
	for _, w := range pending {
		// creates are replayed as keyed writes so a retried flush is idempotent
		if w.op == opCreate {
			w.op = opSet
		}
		if err := s.push(ctx, w); err != nil {
			flushErr = err
			break
		}
		flushed++
	}

	s.mu.Lock()
	s.pending = s.pending[flushed:]
	s.mu.Unlock()

	if flushed > 0 {
		s.logger.Info().Int("writes", flushed).Msg("pending writes pushed")
	}

	s.notifyAll()

	if flushErr != nil {
		return fmt.Errorf("error pushing pending writes: %w", flushErr)
	}
	return nil
}

// DisableNetwork implements [adapter.RemoteStore].
func (s *DocumentStore) DisableNetwork(ctx context.Context) error {
	s.mu.Lock()
	s.online = false
	s.mu.Unlock()
	return nil
}

// ClearCache implements [adapter.RemoteStore].
func (s *DocumentStore) ClearCache(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) > 0 {
		s.logger.Warn().Int("writes", len(s.pending)).Msg("dropping pending writes")
	}
	s.cache.clear()
	s.pending = nil
	return nil
}

// Online reports whether the network is enabled.
func (s *DocumentStore) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// PendingWrites returns the number of queued writes.
func (s *DocumentStore) PendingWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Refresh schedules a server refresh of every listener. Listeners only get
// a snapshot when the result changed. It is a no-op while offline.
func (s *DocumentStore) Refresh() {
	if !s.Online() {
		return
	}
	s.notifyAll()
}

// Close removes every listener.
func (s *DocumentStore) Close() {
	for _, l := range s.activeListeners("") {
		l.Remove()
	}
}

func (s *DocumentStore) write(ctx context.Context, w pendingWrite) error {
	s.mu.Lock()
	if !s.online {
		s.cache.apply(w)
		s.pending = append(s.pending, w)
		s.mu.Unlock()
		s.notify(w.collection)
		return nil
	}
	s.mu.Unlock()

	if err := s.push(ctx, w); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache.apply(w)
	s.mu.Unlock()
	s.notify(w.collection)
	return nil
}

func (s *DocumentStore) push(ctx context.Context, w pendingWrite) error {
	switch w.op {
	case opCreate:
		return s.repo.Insert(ctx, w.collection, w.doc)
	case opSet:
		return s.repo.Upsert(ctx, w.collection, w.doc)
	default:
		return s.repo.Delete(ctx, w.collection, w.doc.ID)
	}
}

func (s *DocumentStore) cacheSnapshot(collection string, filter models.Filter) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Snapshot{Documents: s.cache.query(collection, filter), FromCache: true}
}

func (s *DocumentStore) serverSnapshot(ctx context.Context, collection string, filter models.Filter) (models.Snapshot, error) {
	if !s.Online() {
		return models.Snapshot{}, unavailable("query documents", ErrNetworkDisabled)
	}

	docs, err := s.repo.Find(ctx, collection, filter)
	if err != nil {
		return models.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.sync(collection, filter, docs, s.pendingIDs(collection))
	return models.Snapshot{Documents: s.cache.query(collection, filter), FromCache: false}, nil
}

func (s *DocumentStore) pendingIDs(collection string) map[string]writeOp {
	out := make(map[string]writeOp)
	for _, w := range s.pending {
		if w.collection == collection {
			out[w.doc.ID] = w.op
		}
	}
	return out
}

func (s *DocumentStore) notify(collection string) {
	for _, l := range s.activeListeners(collection) {
		l.queue.Dispatch(l.refresh)
	}
}

func (s *DocumentStore) notifyAll() {
	s.notify("")
}

// activeListeners returns the listeners of collection, or all of them for "".
func (s *DocumentStore) activeListeners(collection string) []*documentListener {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*documentListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		if collection == "" || l.collection == collection {
			out = append(out, l)
		}
	}
	return out
}

func (s *DocumentStore) removeListener(id int) {
	s.mu.Lock()
	delete(s.listeners, id)
	s.mu.Unlock()
}

func validateFilter(filter models.Filter) error {
	for _, cond := range filter {
		if !fieldNamePattern.MatchString(cond.Field) {
			return fmt.Errorf("%w: invalid field name %q", ErrBuildingSQLQuery, cond.Field)
		}
	}
	return nil
}

// documentListener is one live query. Everything but Remove runs on its
// delivery queue.
type documentListener struct {
	store      *DocumentStore
	id         int
	collection string
	filter     models.Filter
	handler    adapter.SnapshotHandler

	queue  *workers.MainQueue
	ctx    context.Context
	cancel context.CancelFunc

	removed atomic.Bool
	last    *models.Snapshot
	lastErr string
}

// Remove implements [adapter.ListenerRegistration].
func (l *documentListener) Remove() {
	if l.removed.Swap(true) {
		return
	}
	l.cancel()
	l.store.removeListener(l.id)
	l.store.logger.Debug().Str("collection", l.collection).Int("listener", l.id).Msg("listener removed")
}

// refresh reads the server tier when online and the cache otherwise. An
// unavailable server degrades to a cache snapshot.
func (l *documentListener) refresh() {
	if !l.store.Online() {
		l.deliver(l.store.cacheSnapshot(l.collection, l.filter), nil)
		return
	}

	snapshot, err := l.store.serverSnapshot(l.ctx, l.collection, l.filter)
	if err != nil && app.KindOf(err) == app.KindStoreUnavailable {
		l.store.logger.Warn().Err(err).Str("collection", l.collection).Msg("listener falling back to cache")
		snapshot, err = l.store.cacheSnapshot(l.collection, l.filter), nil
	}
	l.deliver(snapshot, err)
}

// deliver calls the handler unless the listener was removed or nothing
// changed since the previous delivery.
func (l *documentListener) deliver(snapshot models.Snapshot, err error) {
	if l.removed.Load() || l.ctx.Err() != nil {
		return
	}

	if err != nil {
		if err.Error() == l.lastErr {
			return
		}
		l.lastErr = err.Error()
		l.handler(models.Snapshot{}, err)
		return
	}

	if l.last != nil && l.lastErr == "" && reflect.DeepEqual(*l.last, snapshot) {
		return
	}
	l.last = &snapshot
	l.lastErr = ""
	l.handler(snapshot, nil)
}
