// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Document is a single record of a remote collection.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Snapshot is one notification of a live query. FromCache is true when the
// documents come from the local cache and were not confirmed by the server.
type Snapshot struct {
	Documents []Document
	FromCache bool
}

// Condition is an equality predicate on a document field.
type Condition struct {
	Field string
	Value string
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Condition

// Where builds a single-condition filter.
func Where(field, value string) Filter {
	return Filter{{Field: field, Value: value}}
}

// And returns a copy of f extended by one more condition.
func (f Filter) And(field, value string) Filter {
	out := make(Filter, 0, len(f)+1)
	out = append(out, f...)
	return append(out, Condition{Field: field, Value: value})
}

// Matches reports whether doc satisfies every condition of f.
func (f Filter) Matches(doc Document) bool {
	for _, c := range f {
		v, ok := doc.Fields[c.Field].(string)
		if !ok || v != c.Value {
			return false
		}
	}
	return true
}

// Source selects where a one-shot query reads from.
type Source int

const (
	// SourceDefault reads from the server when the network is enabled and
	// falls back to the cache otherwise.
	SourceDefault Source = iota
	SourceCache
	SourceServer
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceServer:
		return "server"
	default:
		return "default"
	}
}
