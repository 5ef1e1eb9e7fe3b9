// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
	"github.com/TechWithTyler/randofacto/models"
)

// MinPasswordLength is the shortest password accepted for new credentials.
const MinPasswordLength = 6

// SessionStore keeps the signed session token between runs.
type SessionStore interface {
	String(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// IdentityProvider implements adapter.IdentityProvider on the accounts
// table. Passwords are stored as bcrypt hashes; a successful sign-in issues
// a signed session token that is persisted locally and restored by Restore.
type IdentityProvider struct {
	accounts AccountRepository
	sessions SessionStore
	ids      utils.IDGenerator
	cfg      config.Auth
	now      func() time.Time
	logger   *logger.Logger

	mu      sync.RWMutex
	session *models.SessionToken
}

// NewIdentityProvider returns a provider with no signed-in session.
// Call Restore to load a persisted one.
func NewIdentityProvider(accounts AccountRepository, sessions SessionStore, ids utils.IDGenerator, cfg config.Auth, log *logger.Logger) *IdentityProvider {
	return &IdentityProvider{
		accounts: accounts,
		sessions: sessions,
		ids:      ids,
		cfg:      cfg,
		now:      time.Now,
		logger:   log.Component("identity_provider"),
	}
}

// SignUp creates an account and signs it in.
func (p *IdentityProvider) SignUp(ctx context.Context, email, password string) (models.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return models.Account{}, err
	}
	if err := checkPassword(password); err != nil {
		return models.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("error hashing password: %w", err)
	}

	stored := models.StoredAccount{
		Account:      models.Account{ID: p.ids.Generate(), Email: email},
		PasswordHash: string(hash),
		CreatedAt:    p.now(),
	}
	if err := p.accounts.Create(ctx, stored); err != nil {
		return models.Account{}, identityError(err)
	}

	if err := p.startSession(ctx, stored.Account); err != nil {
		return models.Account{}, err
	}

	p.logger.Info().Str("account", stored.ID).Msg("account created")
	return stored.Account, nil
}

// SignIn checks the credentials and starts a session.
func (p *IdentityProvider) SignIn(ctx context.Context, email, password string) (models.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return models.Account{}, err
	}

	stored, err := p.accounts.FindByEmail(ctx, email)
	if err != nil {
		return models.Account{}, identityError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, app.NewCodedError(app.DomainIdentity, app.CodeWrongPassword, "wrong password", err)
	}

	if err := p.startSession(ctx, stored.Account); err != nil {
		return models.Account{}, err
	}

	p.logger.Info().Str("account", stored.ID).Msg("signed in")
	return stored.Account, nil
}

// SignOut ends the current session. The in-memory session is dropped even
// when the persisted token cannot be removed.
func (p *IdentityProvider) SignOut(ctx context.Context) error {
	p.setSession(nil)

	if err := p.sessions.Delete(ctx, models.SettingSessionToken); err != nil {
		return fmt.Errorf("error removing persisted session: %w", err)
	}
	return nil
}

// SendPasswordReset records a reset request for the account of email.
func (p *IdentityProvider) SendPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	if _, err := p.accounts.FindByEmail(ctx, email); err != nil {
		return identityError(err)
	}

	if err := p.accounts.RecordPasswordReset(ctx, p.ids.Generate(), email, p.now()); err != nil {
		return identityError(err)
	}
	return nil
}

// UpdatePassword replaces the password of the current account.
func (p *IdentityProvider) UpdatePassword(ctx context.Context, newPassword string) error {
	account, err := p.recentAccount()
	if err != nil {
		return err
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := p.accounts.UpdatePasswordHash(ctx, account.ID, string(hash)); err != nil {
		return identityError(err)
	}
	return nil
}

// DeleteAccount removes the current account and ends its session.
func (p *IdentityProvider) DeleteAccount(ctx context.Context) error {
	account, err := p.recentAccount()
	if err != nil {
		return err
	}

	if err := p.accounts.Delete(ctx, account.ID); err != nil {
		return identityError(err)
	}

	p.logger.Info().Str("account", account.ID).Msg("account deleted")
	return p.SignOut(ctx)
}

// CurrentAccount reports the signed-in account, if any.
func (p *IdentityProvider) CurrentAccount() (models.Account, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.session == nil {
		return models.Account{}, false
	}
	account, err := p.session.Account()
	if err != nil {
		return models.Account{}, false
	}
	return account, true
}

// Restore loads the persisted session. An invalid or expired token, or one
// whose account no longer exists, is discarded. When the accounts table
// cannot be reached the token is trusted.
func (p *IdentityProvider) Restore(ctx context.Context) (models.Account, bool) {
	raw, ok, err := p.sessions.String(ctx, models.SettingSessionToken)
	if err != nil {
		p.logger.Err(err).Msg("error reading persisted session")
		return models.Account{}, false
	}
	if !ok {
		return models.Account{}, false
	}

	token, err := utils.ValidateAndParseSessionToken(raw, p.cfg.TokenSignKey, p.cfg.TokenIssuer)
	if err != nil {
		p.logger.Warn().Err(err).Msg("discarding persisted session")
		_ = p.sessions.Delete(ctx, models.SettingSessionToken)
		return models.Account{}, false
	}

	account, err := token.Account()
	if err != nil {
		_ = p.sessions.Delete(ctx, models.SettingSessionToken)
		return models.Account{}, false
	}

	if _, err := p.accounts.FindByID(ctx, account.ID); errors.Is(err, ErrNoAccountWasFound) {
		p.logger.Warn().Str("account", account.ID).Msg("persisted session belongs to a deleted account")
		_ = p.sessions.Delete(ctx, models.SettingSessionToken)
		return models.Account{}, false
	} else if err != nil {
		p.logger.Warn().Err(err).Msg("could not verify persisted session, keeping it")
	}

	p.setSession(&token)
	return account, true
}

func (p *IdentityProvider) startSession(ctx context.Context, account models.Account) error {
	token, err := utils.GenerateSessionToken(p.cfg.TokenIssuer, account, p.cfg.SessionDuration, p.cfg.TokenSignKey, p.now())
	if err != nil {
		return err
	}

	if err := p.sessions.SetString(ctx, models.SettingSessionToken, token.SignedString); err != nil {
		return fmt.Errorf("error persisting session: %w", err)
	}

	p.setSession(&token)
	return nil
}

func (p *IdentityProvider) setSession(token *models.SessionToken) {
	p.mu.Lock()
	p.session = token
	p.mu.Unlock()
}

// recentAccount returns the current account if its sign-in is within the
// recent-login window.
func (p *IdentityProvider) recentAccount() (models.Account, error) {
	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()

	if session == nil {
		return models.Account{}, app.NewCodedError(app.DomainIdentity, app.CodeUserNotFound, "no signed-in account", ErrNoSession)
	}

	if p.now().Sub(session.IssuedAt()) > p.cfg.RecentLoginWindow {
		return models.Account{}, app.NewCodedError(app.DomainIdentity, app.CodeRequiresRecentLogin, "requires recent login", nil)
	}

	return session.Account()
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", app.NewCodedError(app.DomainIdentity, app.CodeInvalidEmail, "invalid email", err)
	}
	return email, nil
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLength {
		return app.NewCodedError(app.DomainIdentity, app.CodeWeakPassword,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength), nil)
	}
	return nil
}

// identityError maps repository failures to identity-domain codes.
func identityError(err error) error {
	switch {
	case errors.Is(err, ErrNoAccountWasFound):
		return app.NewCodedError(app.DomainIdentity, app.CodeUserNotFound, "no account with this email", err)
	case errors.Is(err, ErrEmailAlreadyExists):
		return app.NewCodedError(app.DomainIdentity, app.CodeEmailAlreadyInUse, "email already in use", err)
	case app.KindOf(err) == app.KindStoreUnavailable:
		return app.NewCodedError(app.DomainIdentity, app.CodeIdentityNetwork, "identity backend unreachable", err)
	}
	return err
}
