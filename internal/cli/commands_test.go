// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"strings"
	"testing"

	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/client"
	"github.com/TechWithTyler/randofacto/internal/service"
	"github.com/TechWithTyler/randofacto/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFact(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().GenerateFact(gomock.Any()).Return(service.DisplayedFact{Text: "Bees dance."}, nil)
		c.EXPECT().State().Return(service.State{})
	})
	tr := newTestRoot(t, c)

	require.NoError(t, tr.run(t, "", "fact"))
	assert.Equal(t, "Bees dance.\n", tr.out.String())
}

func TestFact_SaveAsFavorite(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		gomock.InOrder(
			c.EXPECT().GenerateFact(gomock.Any()).Return(service.DisplayedFact{Text: "Bees dance."}, nil),
			c.EXPECT().AddFavorite(gomock.Any(), "Bees dance.").Return(nil),
		)
	})
	tr := newTestRoot(t, c)

	require.NoError(t, tr.run(t, "", "fact", "--favorite"))
	assert.Equal(t, "Bees dance. ★\n", tr.out.String())
}

func TestFact_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().GenerateFact(gomock.Any()).Return(service.DisplayedFact{}, app.ErrTimedOut)
	})
	tr := newTestRoot(t, c)

	err := tr.run(t, "", "fact")

	assert.ErrorIs(t, err, app.ErrTimedOut)
	assert.Empty(t, tr.out.String())
}

func TestSignup(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().Signup(gomock.Any(), testAccount.Email, "secret1").Return(testAccount, nil)
	})
	tr := newTestRoot(t, c)

	require.NoError(t, tr.run(t, "secret1\nsecret1\n", "signup", testAccount.Email))
	assert.Equal(t, "Signed up as a@example.com\n", tr.out.String())
}

func TestSignup_PasswordMismatch(t *testing.T) {
	tr := newTestRoot(t, nil)

	err := tr.run(t, "secret1\nsecret2\n", "signup", testAccount.Email)

	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Zero(t, tr.opened)
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().Login(gomock.Any(), testAccount.Email, "secret1").Return(testAccount, nil)
	})
	tr := newTestRoot(t, c)

	require.NoError(t, tr.run(t, "secret1\n", "login", testAccount.Email))
	assert.Equal(t, "Logged in as a@example.com\n", tr.out.String())
}

func TestLogin_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().Login(gomock.Any(), testAccount.Email, "nope").Return(models.Account{}, app.ErrWrongPassword)
	})
	tr := newTestRoot(t, c)

	err := tr.run(t, "nope", "login", testAccount.Email)

	assert.Equal(t, app.MsgWrongPassword, ErrorText(err))
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn bool
		want     string
	}{
		{"logged in", true, "Logged out\n"},
		{"not logged in", false, "Not logged in\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := NewMockClient(ctrl)
			lifecycle(c, func() {
				c.EXPECT().CurrentAccount().Return(testAccount, tt.loggedIn)
				if tt.loggedIn {
					c.EXPECT().Logout(gomock.Any()).Return(nil)
				}
			})
			tr := newTestRoot(t, c)

			require.NoError(t, tr.run(t, "", "logout"))
			assert.Equal(t, tt.want, tr.out.String())
		})
	}
}

func TestStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().Settle(gomock.Any()).Return(nil)
		c.EXPECT().State().Return(service.State{Online: true, Auth: models.AuthAuthenticated, FavoritesCount: 3})
		c.EXPECT().CurrentAccount().Return(testAccount, true)
	})
	tr := newTestRoot(t, c)

	require.NoError(t, tr.run(t, "", "status"))

	out := tr.out.String()
	assert.Contains(t, out, "a@example.com")
	assert.Contains(t, out, "online")
	assert.Contains(t, out, "Favorites:    3")
}

func TestFavoritesList(t *testing.T) {
	tests := []struct {
		name      string
		favorites []models.FavoriteFact
		want      string
	}{
		{"empty", nil, "No favorites\n"},
		{"two", []models.FavoriteFact{{Text: "one"}, {Text: "two"}}, "1. one\n2. two\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := NewMockClient(ctrl)
			lifecycle(c, func() {
				c.EXPECT().Favorites(gomock.Any()).Return(tt.favorites, nil)
			})
			tr := newTestRoot(t, c)

			require.NoError(t, tr.run(t, "", "favorites", "list"))
			assert.Equal(t, tt.want, tr.out.String())
		})
	}
}

func TestFavoritesList_NotSignedIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().Favorites(gomock.Any()).Return(nil, client.ErrNotSignedIn)
	})
	tr := newTestRoot(t, c)

	assert.ErrorIs(t, tr.run(t, "", "fav", "list"), client.ErrNotSignedIn)
}

func TestFavoritesAddRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().AddFavorite(gomock.Any(), "Cats sleep a lot.").Return(nil)
	})
	tr := newTestRoot(t, c)
	require.NoError(t, tr.run(t, "", "favorites", "add", "Cats", "sleep", "a", "lot."))
	assert.Equal(t, "Saved\n", tr.out.String())

	c2 := NewMockClient(ctrl)
	lifecycle(c2, func() {
		c2.EXPECT().RemoveFavorite(gomock.Any(), "Cats sleep a lot.").Return(app.ErrFavoriteReferenceMissing)
	})
	tr2 := newTestRoot(t, c2)
	err := tr2.run(t, "", "favorites", "rm", "Cats sleep a lot.")
	assert.Equal(t, app.MsgFavoriteReferenceMissing, ErrorText(err))
}

func TestFavoritesClear(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		tr := newTestRoot(t, nil)
		require.NoError(t, tr.run(t, "n\n", "favorites", "clear"))
		assert.Zero(t, tr.opened)
	})

	t.Run("confirmed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c := NewMockClient(ctrl)
		lifecycle(c, func() {
			c.EXPECT().ClearFavorites(gomock.Any()).Return(nil)
		})
		tr := newTestRoot(t, c)

		require.NoError(t, tr.run(t, "y\n", "favorites", "clear"))
		assert.Equal(t, "All favorites deleted\n", tr.out.String())
	})
}

func TestFavoritesRandom(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().Favorites(gomock.Any()).Return([]models.FavoriteFact{{Text: "only"}}, nil)
	})
	tr := newTestRoot(t, c)

	require.NoError(t, tr.run(t, "", "favorites", "random"))
	assert.Equal(t, "only ★\n", tr.out.String())
}

func TestAccountDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().DeleteAccount(gomock.Any()).Return(nil)
	})
	tr := newTestRoot(t, c)

	require.NoError(t, tr.run(t, "", "account", "delete", "--yes"))
	assert.Equal(t, "Account deleted\n", tr.out.String())
}

func TestAccountDelete_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().DeleteAccount(gomock.Any()).Return(app.ErrStoreUnavailable)
	})
	tr := newTestRoot(t, c)

	err := tr.run(t, "yes\n", "account", "delete")

	assert.ErrorIs(t, err, app.ErrStoreUnavailable)
}

func TestPasswordReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().SendPasswordReset(gomock.Any(), testAccount.Email).Return(nil)
	})
	tr := newTestRoot(t, c)

	require.NoError(t, tr.run(t, "", "account", "password-reset", testAccount.Email))
	assert.Equal(t, "Password reset sent to a@example.com\n", tr.out.String())
}

func TestPasswordChange_StaleSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := NewMockClient(ctrl)
	lifecycle(c, func() {
		c.EXPECT().ChangePassword(gomock.Any(), "newsecret").Return(app.ErrSessionStale)
	})
	tr := newTestRoot(t, c)

	err := tr.run(t, "newsecret\nnewsecret\n", "account", "password-change")

	assert.Equal(t, app.MsgSessionStale, ErrorText(err))
}

func TestFavoritesOnLaunch(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c := NewMockClient(ctrl)
		lifecycle(c, func() {
			c.EXPECT().SetFavoritesOnLaunch(gomock.Any(), true).Return(nil)
		})
		tr := newTestRoot(t, c)

		require.NoError(t, tr.run(t, "", "settings", "favorites-on-launch", "on"))
		assert.Equal(t, "favorites-on-launch: on\n", tr.out.String())
	})

	t.Run("show", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c := NewMockClient(ctrl)
		lifecycle(c, func() {
			c.EXPECT().FavoritesOnLaunch(gomock.Any()).Return(false, nil)
		})
		tr := newTestRoot(t, c)

		require.NoError(t, tr.run(t, "", "settings", "favorites-on-launch"))
		assert.Equal(t, "favorites-on-launch: off\n", tr.out.String())
	})

	t.Run("invalid", func(t *testing.T) {
		tr := newTestRoot(t, nil)
		assert.Error(t, tr.run(t, "", "settings", "favorites-on-launch", "maybe"))
		assert.Zero(t, tr.opened)
	})
}

func TestParseSwitch(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "off": false, "true": true, "0": false} {
		got, err := parseSwitch(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestReadLine(t *testing.T) {
	r := strings.NewReader("first\r\nsecond")
	first, err := readLine(r)
	require.NoError(t, err)
	second, err := readLine(r)
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)
}
