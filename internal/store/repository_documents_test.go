// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, dialect string) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var classifier ErrorClassificator = NewSQLiteErrorClassifier()
	if dialect == config.DialectPostgres {
		classifier = NewPostgresErrorClassifier()
	}

	return &DB{DB: conn, dialect: dialect, errorClassificator: classifier, logger: logger.Nop()}, mock
}

func newTestDocumentRepo(t *testing.T, dialect string) (*documentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t, dialect)
	return NewDocumentRepository(db, logger.Nop()).(*documentRepository), mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

// ── Insert / Upsert ─────────────────────────────────────────────────────────

func TestDocumentRepository_Insert(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectSQLite)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents (collection,id,fields,updated_at) VALUES (?,?,?,?)")).
		WithArgs("favoriteFacts", "doc-1", `{"text":"fact","user":"a@b.c"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Insert(context.Background(), "favoriteFacts", models.Document{
		ID:     "doc-1",
		Fields: map[string]any{"text": "fact", "user": "a@b.c"},
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_Insert_Postgres(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectPostgres)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents (collection,id,fields,updated_at) VALUES ($1,$2,$3,$4)")).
		WithArgs("users", "acc-1", `{"email":"a@b.c"}`, sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	err := repo.Insert(context.Background(), "users", models.Document{ID: "acc-1", Fields: map[string]any{"email": "a@b.c"}})

	require.Error(t, err)
	classified := app.Classify(err)
	assert.Equal(t, app.DomainStore, classified.Domain)
	assert.Equal(t, app.CodeStoreAlreadyExists, classified.Code)
}

func TestDocumentRepository_Upsert(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectSQLite)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (collection, id) DO UPDATE SET fields = excluded.fields")).
		WithArgs("users", "acc-1", `{"email":"a@b.c"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), "users", models.Document{ID: "acc-1", Fields: map[string]any{"email": "a@b.c"}})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_Upsert_Unavailable(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectPostgres)

	mock.ExpectExec("INSERT INTO documents").
		WillReturnError(pgError(pgerrcode.CannotConnectNow))

	err := repo.Upsert(context.Background(), "users", models.Document{ID: "acc-1", Fields: map[string]any{}})

	assert.ErrorIs(t, app.Classify(err), app.ErrStoreUnavailable)
}

// ── Delete ──────────────────────────────────────────────────────────────────

func TestDocumentRepository_Delete(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectPostgres)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM documents WHERE collection = $1 AND id = $2")).
		WithArgs("favoriteFacts", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "favoriteFacts", "doc-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_Delete_ResourceExhausted(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectPostgres)

	mock.ExpectExec("DELETE FROM documents").
		WillReturnError(pgError(pgerrcode.DiskFull))

	err := repo.Delete(context.Background(), "favoriteFacts", "doc-1")

	assert.ErrorIs(t, app.Classify(err), app.ErrQuotaExceeded)
}

// ── Find ────────────────────────────────────────────────────────────────────

func TestDocumentRepository_Find_SQLite(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectSQLite)

	rows := sqlmock.NewRows([]string{"id", "fields"}).
		AddRow("doc-1", `{"text":"one","user":"a@b.c"}`).
		AddRow("doc-2", `not json`)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, fields FROM documents WHERE collection = ? AND json_extract(fields, '$.user') = ? AND json_extract(fields, '$.text') = ? ORDER BY id")).
		WithArgs("favoriteFacts", "a@b.c", "one").
		WillReturnRows(rows)

	docs, err := repo.Find(context.Background(), "favoriteFacts", models.Where("user", "a@b.c").And("text", "one"))

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "one", docs[0].Fields["text"])
	assert.Empty(t, docs[1].Fields)
}

func TestDocumentRepository_Find_Postgres(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectPostgres)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, fields FROM documents WHERE collection = $1 AND (fields::jsonb ->> 'email') = $2 ORDER BY id")).
		WithArgs("users", "a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"id", "fields"}))

	docs, err := repo.Find(context.Background(), "users", models.Where("email", "a@b.c"))

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NotNil(t, docs)
}

func TestDocumentRepository_Find_RejectsFieldName(t *testing.T) {
	repo, _ := newTestDocumentRepo(t, config.DialectSQLite)

	_, err := repo.Find(context.Background(), "users", models.Where("email') OR 1=1 --", "x"))

	assert.ErrorIs(t, err, ErrBuildingSQLQuery)
}

func TestDocumentRepository_Find_ConnectionLost(t *testing.T) {
	repo, mock := newTestDocumentRepo(t, config.DialectSQLite)

	mock.ExpectQuery("SELECT id, fields FROM documents").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})

	_, err := repo.Find(context.Background(), "users", nil)

	assert.ErrorIs(t, app.Classify(err), app.ErrStoreUnavailable)
}
