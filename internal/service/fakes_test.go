// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TechWithTyler/randofacto/internal/adapter"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/mock"
	"github.com/TechWithTyler/randofacto/internal/workers"
	"github.com/TechWithTyler/randofacto/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeRemoteStore keeps a cache tier and a server tier in memory. Snapshots
// are only delivered when a test emits them.
type fakeRemoteStore struct {
	mu     sync.Mutex
	cache  map[string]map[string]models.Document
	server map[string]map[string]models.Document
	subs   []*fakeSubscription
	nextID int
	online bool
	calls  *callLog

	queryErr    error
	setErr      error
	subscribeEr error
	deleteHook  func(collection, id string) error
	queries     []models.Source
	cleared     int
}

type fakeSubscription struct {
	collection string
	filter     models.Filter
	handler    adapter.SnapshotHandler
	removed    atomic.Bool
}

func (s *fakeSubscription) Remove() {
	s.removed.Store(true)
}

// callLog records the order of calls across fakes and mocks.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.calls)
}

func newFakeRemoteStore(calls *callLog) *fakeRemoteStore {
	return &fakeRemoteStore{
		cache:  make(map[string]map[string]models.Document),
		server: make(map[string]map[string]models.Document),
		online: true,
		calls:  calls,
	}
}

func putDoc(tier map[string]map[string]models.Document, collection string, doc models.Document) {
	if tier[collection] == nil {
		tier[collection] = make(map[string]models.Document)
	}
	tier[collection][doc.ID] = models.Document{ID: doc.ID, Fields: maps.Clone(doc.Fields)}
}

// seedServer adds doc to the server tier only.
func (s *fakeRemoteStore) seedServer(collection string, doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	putDoc(s.server, collection, doc)
}

// seed adds doc to both tiers.
func (s *fakeRemoteStore) seed(collection string, doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	putDoc(s.server, collection, doc)
	putDoc(s.cache, collection, doc)
}

func (s *fakeRemoteStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.server[collection])
}

func (s *fakeRemoteStore) Subscribe(ctx context.Context, collection string, filter models.Filter, handler adapter.SnapshotHandler) (adapter.ListenerRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribeEr != nil {
		return nil, s.subscribeEr
	}
	sub := &fakeSubscription{collection: collection, filter: filter, handler: handler}
	s.subs = append(s.subs, sub)
	return sub, nil
}

// lastSubscription returns the newest subscription on collection.
func (s *fakeRemoteStore) lastSubscription(t *testing.T, collection string) *fakeSubscription {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.subs) - 1; i >= 0; i-- {
		if s.subs[i].collection == collection {
			return s.subs[i]
		}
	}
	t.Fatalf("no subscription on %s", collection)
	return nil
}

func (s *fakeRemoteStore) subscriptions(collection string) []*fakeSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeSubscription
	for _, sub := range s.subs {
		if sub.collection == collection {
			out = append(out, sub)
		}
	}
	return out
}

func (s *fakeRemoteStore) CreateDocument(ctx context.Context, collection string, fields map[string]any) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return models.Document{}, s.setErr
	}
	s.nextID++
	doc := models.Document{ID: fmt.Sprintf("%s-%d", collection, s.nextID), Fields: fields}
	putDoc(s.server, collection, doc)
	putDoc(s.cache, collection, doc)
	s.calls.add("create %s", collection)
	return doc, nil
}

func (s *fakeRemoteStore) SetDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	doc := models.Document{ID: id, Fields: fields}
	putDoc(s.server, collection, doc)
	putDoc(s.cache, collection, doc)
	s.calls.add("set %s/%s", collection, id)
	return nil
}

func (s *fakeRemoteStore) DeleteDocument(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	hook := s.deleteHook
	s.mu.Unlock()

	if hook != nil {
		if err := hook(collection, id); err != nil {
			s.calls.add("delete %s/%s failed", collection, id)
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.server[collection], id)
	delete(s.cache[collection], id)
	s.calls.add("delete %s/%s", collection, id)
	return nil
}

func (s *fakeRemoteStore) Query(ctx context.Context, collection string, filter models.Filter, source models.Source) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, source)
	if s.queryErr != nil {
		return models.Snapshot{}, s.queryErr
	}

	tier, fromCache := s.server, false
	if source == models.SourceCache || (source == models.SourceDefault && !s.online) {
		tier, fromCache = s.cache, true
	}

	docs := make([]models.Document, 0)
	for _, id := range slices.Sorted(maps.Keys(tier[collection])) {
		if doc := tier[collection][id]; filter.Matches(doc) {
			docs = append(docs, doc)
		}
	}
	return models.Snapshot{Documents: docs, FromCache: fromCache}, nil
}

func (s *fakeRemoteStore) EnableNetwork(ctx context.Context) error {
	s.mu.Lock()
	s.online = true
	s.mu.Unlock()
	return nil
}

func (s *fakeRemoteStore) DisableNetwork(ctx context.Context) error {
	s.mu.Lock()
	s.online = false
	s.mu.Unlock()
	return nil
}

func (s *fakeRemoteStore) ClearCache(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]map[string]models.Document)
	s.cleared++
	return nil
}

type fakeConnectivity struct {
	online atomic.Bool

	mu   sync.Mutex
	subs map[int]func(bool)
	next int
}

func (c *fakeConnectivity) Online() bool {
	return c.online.Load()
}

func (c *fakeConnectivity) Subscribe(fn func(online bool)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = make(map[int]func(bool))
	}
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// set stores online and notifies subscribers when it changed.
func (c *fakeConnectivity) set(online bool) {
	if c.online.Swap(online) == online {
		return
	}
	c.mu.Lock()
	subs := slices.Collect(maps.Values(c.subs))
	c.mu.Unlock()
	for _, fn := range subs {
		fn(online)
	}
}

// testEnv wires the services to fakes and mocks.
type testEnv struct {
	store     *fakeRemoteStore
	provider  *mock.MockIdentityProvider
	settings  *mock.MockSettingsStore
	facts     *mock.MockFactProvider
	conn      *fakeConnectivity
	calls     *callLog
	queue     *workers.MainQueue
	reporter  *Reporter
	favorites *Favorites
	identity  *Identity
	session   *Session

	account atomic.Pointer[models.Account]

	mu      sync.Mutex
	reports []Report
}

var testAccount = models.Account{ID: "acc-1", Email: "a@example.com"}

func newTestEnv(t *testing.T, ctrl *gomock.Controller) *testEnv {
	t.Helper()

	calls := &callLog{}
	env := &testEnv{
		store:    newFakeRemoteStore(calls),
		provider: mock.NewMockIdentityProvider(ctrl),
		settings: mock.NewMockSettingsStore(ctrl),
		facts:    mock.NewMockFactProvider(ctrl),
		conn:     &fakeConnectivity{},
		calls:    calls,
	}
	env.conn.online.Store(true)

	env.provider.EXPECT().CurrentAccount().DoAndReturn(func() (models.Account, bool) {
		if a := env.account.Load(); a != nil {
			return *a, true
		}
		return models.Account{}, false
	}).AnyTimes()

	log := logger.Nop()
	env.queue = workers.NewMainQueue(log)
	env.reporter = NewReporter(log)
	env.favorites = NewFavorites(env.store, env.provider, env.reporter, env.queue, env.conn, 4, log)
	env.identity = NewIdentity(env.provider, env.store, env.favorites, env.settings, env.reporter, env.queue, log)
	env.session = NewSession(env.facts, env.favorites, env.identity, env.conn, env.settings, env.reporter, 0, log)

	env.reporter.Subscribe(func(r Report) {
		env.mu.Lock()
		env.reports = append(env.reports, r)
		env.mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = env.queue.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return env
}

func (e *testEnv) signIn(account models.Account) {
	e.account.Store(&account)
}

func (e *testEnv) signOut() {
	e.account.Store(nil)
}

// flush waits until every callback dispatched so far has run.
func (e *testEnv) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.queue.Flush(ctx))
}

func (e *testEnv) reported() []Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.reports)
}

// emit delivers a snapshot through sub and waits for it to be applied.
func (e *testEnv) emit(t *testing.T, sub *fakeSubscription, snapshot models.Snapshot, err error) {
	t.Helper()
	sub.handler(snapshot, err)
	e.flush(t)
}

func favoriteDoc(id, text, owner string) models.Document {
	return models.Document{ID: id, Fields: models.FavoriteFact{Text: text, Owner: owner}.Fields()}
}

func registrationDoc(account models.Account) models.Document {
	ref := models.UserRegistrationReference{ID: account.ID, Email: account.Email}
	return models.Document{ID: ref.ID, Fields: ref.Fields()}
}

func serverSnapshot(docs ...models.Document) models.Snapshot {
	return models.Snapshot{Documents: docs}
}

func cacheSnapshot(docs ...models.Document) models.Snapshot {
	return models.Snapshot{Documents: docs, FromCache: true}
}
