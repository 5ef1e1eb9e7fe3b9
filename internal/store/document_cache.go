// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"maps"
	"slices"

	"github.com/TechWithTyler/randofacto/models"
)

type writeOp int

const (
	opCreate writeOp = iota
	opSet
	opDelete
)

// pendingWrite is a write accepted while the network was disabled.
type pendingWrite struct {
	op         writeOp
	collection string
	doc        models.Document
}

// documentCache is the local tier of the document store. It is not safe
// for concurrent use; DocumentStore guards it.
type documentCache struct {
	collections map[string]map[string]models.Document
}

func newDocumentCache() *documentCache {
	return &documentCache{collections: make(map[string]map[string]models.Document)}
}

func (c *documentCache) put(collection string, doc models.Document) {
	docs, ok := c.collections[collection]
	if !ok {
		docs = make(map[string]models.Document)
		c.collections[collection] = docs
	}
	docs[doc.ID] = cloneDocument(doc)
}

func (c *documentCache) remove(collection, id string) {
	delete(c.collections[collection], id)
}

func (c *documentCache) apply(w pendingWrite) {
	if w.op == opDelete {
		c.remove(w.collection, w.doc.ID)
		return
	}
	c.put(w.collection, w.doc)
}

// query returns copies of the matching documents ordered by ID.
func (c *documentCache) query(collection string, filter models.Filter) []models.Document {
	docs := c.collections[collection]
	ids := slices.Sorted(maps.Keys(docs))

	out := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		if filter.Matches(docs[id]) {
			out = append(out, cloneDocument(docs[id]))
		}
	}
	return out
}

// sync makes the cached result of (collection, filter) equal to the server
// result, except for documents with pending local writes.
func (c *documentCache) sync(collection string, filter models.Filter, server []models.Document, pending map[string]writeOp) {
	onServer := make(map[string]struct{}, len(server))
	for _, doc := range server {
		onServer[doc.ID] = struct{}{}
	}

	for id, doc := range c.collections[collection] {
		if _, ok := onServer[id]; ok || !filter.Matches(doc) {
			continue
		}
		if _, ok := pending[id]; ok {
			continue
		}
		c.remove(collection, id)
	}

	for _, doc := range server {
		if _, ok := pending[doc.ID]; ok {
			continue
		}
		c.put(collection, doc)
	}
}

func (c *documentCache) clear() {
	c.collections = make(map[string]map[string]models.Document)
}

func cloneDocument(doc models.Document) models.Document {
	return models.Document{ID: doc.ID, Fields: maps.Clone(doc.Fields)}
}
