// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"

	"github.com/TechWithTyler/randofacto/internal/adapter"
	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
	"github.com/TechWithTyler/randofacto/internal/workers"
	"github.com/TechWithTyler/randofacto/models"
)

// Identity runs the authentication requests of the client and keeps the
// registration reference of the signed-in account.
//
// Every active account owns a users/<accountID> document. A server snapshot
// that lacks it means the account was deleted on another device, and the
// session is ended here. The check is suspended while an authentication
// request or an account deletion is in flight, since the reference is then
// legitimately missing for a moment.
type Identity struct {
	provider  adapter.IdentityProvider
	store     adapter.RemoteStore
	favorites *Favorites
	settings  adapter.SettingsStore
	reporter  *Reporter
	queue     *workers.MainQueue
	logger    *logger.Logger

	auth          *utils.Observable[models.AuthState]
	stage         *utils.Observable[models.AccountDeletionStage]
	forcedLogouts *utils.Observable[int]

	mu           sync.Mutex
	registration adapter.ListenerRegistration
	generation   uint64
}

// NewIdentity returns a manager in the anonymous state. It installs itself
// as the session-stale hook of reporter.
func NewIdentity(
	provider adapter.IdentityProvider,
	store adapter.RemoteStore,
	favorites *Favorites,
	settings adapter.SettingsStore,
	reporter *Reporter,
	queue *workers.MainQueue,
	log *logger.Logger,
) *Identity {
	i := &Identity{
		provider:      provider,
		store:         store,
		favorites:     favorites,
		settings:      settings,
		reporter:      reporter,
		queue:         queue,
		logger:        log.Component("identity"),
		auth:          utils.NewObservable(models.AuthAnonymous, func(a, b models.AuthState) bool { return a == b }),
		stage:         utils.NewObservable(models.DeletionNone, func(a, b models.AccountDeletionStage) bool { return a == b }),
		forcedLogouts: utils.NewObservable(0, nil),
	}

	reporter.OnSessionStale(func() {
		queue.Dispatch(func() {
			i.forceLogout(context.Background(), "session is stale")
		})
	})

	return i
}

// Signup creates an account, writes its registration reference and signs it in.
func (i *Identity) Signup(ctx context.Context, email, password string) (models.Account, error) {
	prior := i.auth.Get()
	i.auth.Set(models.AuthAuthenticating)

	account, err := i.provider.SignUp(ctx, email, password)
	if err != nil {
		i.auth.Set(prior)
		return models.Account{}, i.reporter.Report(ctx, err)
	}

	ref := models.UserRegistrationReference{ID: account.ID, Email: account.Email}
	if err := i.store.SetDocument(ctx, models.RegistrationsCollection, ref.ID, ref.Fields()); err != nil {
		return models.Account{}, i.abortAuthentication(ctx, err)
	}

	return account, i.completeAuthentication(ctx, account)
}

// Login signs in and recreates the registration reference when it is missing.
func (i *Identity) Login(ctx context.Context, email, password string) (models.Account, error) {
	prior := i.auth.Get()
	i.auth.Set(models.AuthAuthenticating)

	account, err := i.provider.SignIn(ctx, email, password)
	if err != nil {
		i.auth.Set(prior)
		return models.Account{}, i.reporter.Report(ctx, err)
	}

	snapshot, err := i.store.Query(ctx, models.RegistrationsCollection, registrationFilter(account), models.SourceDefault)
	if err != nil {
		return models.Account{}, i.abortAuthentication(ctx, err)
	}

	if !models.ContainsRegistration(snapshot, account.ID) {
		i.logger.Info().Str("account", account.ID).Msg("registration reference missing, recreating it")
		ref := models.UserRegistrationReference{ID: account.ID, Email: account.Email}
		if err := i.store.SetDocument(ctx, models.RegistrationsCollection, ref.ID, ref.Fields()); err != nil {
			return models.Account{}, i.abortAuthentication(ctx, err)
		}
	}

	return account, i.completeAuthentication(ctx, account)
}

// Restore resumes a session the provider kept from a previous run.
func (i *Identity) Restore(ctx context.Context) (models.Account, bool, error) {
	account, ok := i.provider.CurrentAccount()
	if !ok {
		return models.Account{}, false, nil
	}

	i.auth.Set(models.AuthAuthenticating)
	if err := i.completeAuthentication(ctx, account); err != nil {
		return models.Account{}, false, err
	}
	return account, true, nil
}

// abortAuthentication signs the half-authenticated account out again.
func (i *Identity) abortAuthentication(ctx context.Context, cause error) error {
	if err := i.provider.SignOut(ctx); err != nil {
		i.logger.Err(err).Msg("sign-out after failed reconciliation")
	}
	i.auth.Set(models.AuthAnonymous)
	return i.reporter.Report(ctx, cause)
}

func (i *Identity) completeAuthentication(ctx context.Context, account models.Account) error {
	if err := i.startRegistrationListener(ctx, account); err != nil {
		return i.abortAuthentication(ctx, err)
	}

	// a failed favorites subscription is reported by Favorites and does not
	// undo the sign-in
	_ = i.favorites.LoadForCurrentUser(ctx)

	i.auth.Set(models.AuthAuthenticated)
	i.logger.Info().Str("account", account.ID).Msg("authenticated")
	return nil
}

func registrationFilter(account models.Account) models.Filter {
	return models.Where(models.FieldEmail, account.Email)
}

func (i *Identity) startRegistrationListener(ctx context.Context, account models.Account) error {
	gen := i.replaceRegistration()

	reg, err := i.store.Subscribe(ctx, models.RegistrationsCollection, registrationFilter(account), func(snapshot models.Snapshot, err error) {
		i.queue.Dispatch(func() {
			i.onRegistrationSnapshot(gen, account, snapshot, err)
		})
	})
	if err != nil {
		return err
	}

	i.mu.Lock()
	if i.generation != gen {
		i.mu.Unlock()
		reg.Remove()
		return nil
	}
	i.registration = reg
	i.mu.Unlock()
	return nil
}

// replaceRegistration invalidates the current registration listener and
// returns the generation of the next one.
func (i *Identity) replaceRegistration() uint64 {
	i.mu.Lock()
	i.generation++
	gen := i.generation
	old := i.registration
	i.registration = nil
	i.mu.Unlock()

	if old != nil {
		old.Remove()
	}
	return gen
}

func (i *Identity) onRegistrationSnapshot(gen uint64, account models.Account, snapshot models.Snapshot, err error) {
	i.mu.Lock()
	current := i.generation == gen
	i.mu.Unlock()
	if !current {
		return
	}

	if err != nil {
		_ = i.reporter.Report(context.Background(), err)
		return
	}

	if snapshot.FromCache || models.ContainsRegistration(snapshot, account.ID) {
		return
	}

	if stage := i.stage.Get(); stage != models.DeletionNone || i.auth.Get() == models.AuthAuthenticating {
		i.logger.Debug().Str("stage", stage.String()).Msg("registration reference missing during an operation, ignored")
		return
	}

	i.forceLogout(context.Background(), "registration reference missing")
}

// forceLogout ends the session without a user request. It runs on the main
// queue and does nothing when no session is active.
func (i *Identity) forceLogout(ctx context.Context, reason string) {
	if i.auth.Get() == models.AuthAnonymous {
		if _, ok := i.provider.CurrentAccount(); !ok {
			return
		}
	}

	i.logger.Warn().Str("reason", reason).Msg("forced logout")
	_ = i.Logout(ctx)
	i.forcedLogouts.Update(func(n int) int { return n + 1 })
}

// Logout signs out and resets every piece of local state tied to the
// account. The local reset happens even when sign-out fails; the failure is
// still reported.
func (i *Identity) Logout(ctx context.Context) error {
	signOutErr := i.provider.SignOut(ctx)
	i.resetLocal(ctx)

	if signOutErr != nil {
		return i.reporter.Report(ctx, signOutErr)
	}
	return nil
}

func (i *Identity) resetLocal(ctx context.Context) {
	i.replaceRegistration()
	i.favorites.Release()
	i.favorites.Clear()

	if err := i.settings.Delete(ctx, models.SettingFavoritesOnLaunch); err != nil {
		i.logger.Err(err).Msg("error resetting favorites-on-launch setting")
	}
	if err := i.store.ClearCache(ctx); err != nil {
		i.logger.Err(err).Msg("error clearing document cache")
	}

	i.auth.Set(models.AuthAnonymous)
}

// DeleteCurrentUser deletes the favorites, then the registration reference,
// then the account. A failure stops the pipeline at that step and is
// reported. Once the account is gone the local state is reset.
func (i *Identity) DeleteCurrentUser(ctx context.Context) error {
	account, ok := i.provider.CurrentAccount()
	if !ok {
		return i.reporter.Report(ctx, app.NewCodedError(app.DomainIdentity, app.CodeUserNotFound, "no signed-in account", nil))
	}

	i.stage.Set(models.DeletionDeletingData)

	if err := i.favorites.deleteOwned(ctx, account, models.SourceServer); err != nil {
		i.stage.Set(models.DeletionNone)
		return i.reporter.Report(ctx, err)
	}

	if err := i.store.DeleteDocument(ctx, models.RegistrationsCollection, account.ID); err != nil {
		i.stage.Set(models.DeletionNone)
		return i.reporter.Report(ctx, err)
	}

	i.stage.Set(models.DeletionDeletingAccount)
	err := i.provider.DeleteAccount(ctx)
	if err == nil {
		// the reference is gone for good; stop watching before the stage clears
		i.replaceRegistration()
	}
	i.stage.Set(models.DeletionNone)

	if err != nil {
		return i.reporter.Report(ctx, err)
	}

	i.logger.Info().Str("account", account.ID).Msg("account deleted")
	_ = i.Logout(ctx)
	return nil
}

// SendPasswordReset asks the provider to mail a password reset link.
func (i *Identity) SendPasswordReset(ctx context.Context, email string) error {
	if err := i.provider.SendPasswordReset(ctx, email); err != nil {
		return i.reporter.Report(ctx, err)
	}
	return nil
}

// UpdatePassword changes the password of the signed-in account.
func (i *Identity) UpdatePassword(ctx context.Context, newPassword string) error {
	if err := i.provider.UpdatePassword(ctx, newPassword); err != nil {
		return i.reporter.Report(ctx, err)
	}
	return nil
}

// CurrentAccount reports the signed-in account.
func (i *Identity) CurrentAccount() (models.Account, bool) {
	return i.provider.CurrentAccount()
}

// AuthState returns the authentication state.
func (i *Identity) AuthState() models.AuthState {
	return i.auth.Get()
}

// DeletionStage returns the account deletion stage.
func (i *Identity) DeletionStage() models.AccountDeletionStage {
	return i.stage.Get()
}

// ForcedLogouts returns how many times the session was ended without a
// user request.
func (i *Identity) ForcedLogouts() int {
	return i.forcedLogouts.Get()
}

// SubscribeAuth registers fn for authentication state changes.
func (i *Identity) SubscribeAuth(fn func(models.AuthState)) (cancel func()) {
	return i.auth.Subscribe(fn)
}

// SubscribeDeletionStage registers fn for deletion stage changes.
func (i *Identity) SubscribeDeletionStage(fn func(models.AccountDeletionStage)) (cancel func()) {
	return i.stage.Subscribe(fn)
}

// OnForcedLogout registers fn to run after each forced logout.
func (i *Identity) OnForcedLogout(fn func()) (cancel func()) {
	return i.forcedLogouts.Subscribe(func(int) { fn() })
}
