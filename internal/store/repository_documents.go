// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/models"
)

const documentsTable = "documents"

// DocumentRepository is the server tier of the document store.
type DocumentRepository interface {
	Insert(ctx context.Context, collection string, doc models.Document) error
	Upsert(ctx context.Context, collection string, doc models.Document) error
	Delete(ctx context.Context, collection, id string) error
	Find(ctx context.Context, collection string, filter models.Filter) ([]models.Document, error)
}

// documentRepository stores documents in the "documents" table with their
// fields as a JSON object. It runs on SQLite and PostgreSQL.
type documentRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewDocumentRepository constructs a [DocumentRepository] backed by db.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Insert adds doc to collection. An existing ID yields an already-exists
// store error.
func (r *documentRepository) Insert(ctx context.Context, collection string, doc models.Document) error {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := r.db.builder().
		Insert(documentsTable).
		Columns("collection", "id", "fields", "updated_at").
		Values(collection, doc.ID, string(fields), r.now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "*documentRepository.Insert").Str("collection", collection).Msg("error inserting document")
		return r.db.classify("insert document", err)
	}

	return nil
}

// Upsert writes doc, replacing the fields of an existing document.
func (r *documentRepository) Upsert(ctx context.Context, collection string, doc models.Document) error {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := r.db.builder().
		Insert(documentsTable).
		Columns("collection", "id", "fields", "updated_at").
		Values(collection, doc.ID, string(fields), r.now().UTC()).
		Suffix("ON CONFLICT (collection, id) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "*documentRepository.Upsert").Str("collection", collection).Msg("error upserting document")
		return r.db.classify("set document", err)
	}

	return nil
}

// Delete removes one document. A missing document is not an error.
func (r *documentRepository) Delete(ctx context.Context, collection, id string) error {
	query, args, err := r.db.builder().
		Delete(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "*documentRepository.Delete").Str("collection", collection).Msg("error deleting document")
		return r.db.classify("delete document", err)
	}

	return nil
}

// Find returns the documents of collection matching filter, ordered by ID.
func (r *documentRepository) Find(ctx context.Context, collection string, filter models.Filter) ([]models.Document, error) {
	query, args, err := r.buildFindQuery(collection, filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*documentRepository.Find").Str("collection", collection).Msg("error querying documents")
		return nil, r.db.classify("query documents", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var (
			id     string
			fields string
		)
		if err := rows.Scan(&id, &fields); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		doc := models.Document{ID: id}
		if err := json.Unmarshal([]byte(fields), &doc.Fields); err != nil {
			// an undecodable row is still a document; decoding is the reader's concern
			r.logger.Warn().Err(err).Str("id", id).Msg(ErrDecodingFields.Error())
			doc.Fields = map[string]any{}
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, r.db.classify("iterate documents", err)
	}

	return docs, nil
}

func (r *documentRepository) buildFindQuery(collection string, filter models.Filter) (string, []any, error) {
	builder := r.db.builder().
		Select("id", "fields").
		From(documentsTable).
		Where(sq.Eq{"collection": collection}).
		OrderBy("id")

	for _, cond := range filter {
		expr, err := r.db.fieldExpr(cond.Field)
		if err != nil {
			return "", nil, err
		}
		builder = builder.Where(sq.Expr(expr+" = ?", cond.Value))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
