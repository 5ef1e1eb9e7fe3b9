// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error kinds presented to the user.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetworkUnreachable
	KindSecureConnectionFailed
	KindConnectionLost
	KindTimedOut
	KindHostNotFound
	KindHTTPResponse
	KindFactDataMalformed
	KindFactTextMissing
	KindStoreUnavailable
	KindFavoriteReferenceMissing
	KindAccountNotFound
	KindWrongPassword
	KindWeakPassword
	KindInvalidEmail
	KindSessionStale
	KindQuotaExceeded
)

var kindNames = map[Kind]string{
	KindUnknown:                  "unknown",
	KindNetworkUnreachable:       "network-unreachable",
	KindSecureConnectionFailed:   "secure-connection-failed",
	KindConnectionLost:           "connection-lost",
	KindTimedOut:                 "timed-out",
	KindHostNotFound:             "host-not-found",
	KindHTTPResponse:             "http-response-error",
	KindFactDataMalformed:        "fact-data-malformed",
	KindFactTextMissing:          "fact-text-missing",
	KindStoreUnavailable:         "store-unavailable",
	KindFavoriteReferenceMissing: "favorite-reference-missing",
	KindAccountNotFound:          "account-not-found",
	KindWrongPassword:            "wrong-password",
	KindWeakPassword:             "weak-password",
	KindInvalidEmail:             "invalid-email-format",
	KindSessionStale:             "session-stale",
	KindQuotaExceeded:            "quota-exceeded",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Kinds returns every kind of the taxonomy in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindUnknown; k <= KindQuotaExceeded; k++ {
		out = append(out, k)
	}
	return out
}

// Error is a classified failure.
//
// Domain and Code record where the failure came from; Reason carries the
// native description for [KindUnknown] and the response domain for
// [KindHTTPResponse]. Err is the original error, if any.
type Error struct {
	Kind   Kind
	Domain string
	Code   int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the Err* sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Message returns the user-presentable text for the error.
func (e *Error) Message() string {
	return Message(e)
}

// New creates an *Error of the given kind wrapping err.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Sentinels for errors.Is matching.
var (
	ErrUnknown                  = &Error{Kind: KindUnknown}
	ErrNetworkUnreachable       = &Error{Kind: KindNetworkUnreachable}
	ErrSecureConnectionFailed   = &Error{Kind: KindSecureConnectionFailed}
	ErrConnectionLost           = &Error{Kind: KindConnectionLost}
	ErrTimedOut                 = &Error{Kind: KindTimedOut}
	ErrHostNotFound             = &Error{Kind: KindHostNotFound}
	ErrHTTPResponse             = &Error{Kind: KindHTTPResponse}
	ErrFactDataMalformed        = &Error{Kind: KindFactDataMalformed}
	ErrFactTextMissing          = &Error{Kind: KindFactTextMissing}
	ErrStoreUnavailable         = &Error{Kind: KindStoreUnavailable}
	ErrFavoriteReferenceMissing = &Error{Kind: KindFavoriteReferenceMissing}
	ErrAccountNotFound          = &Error{Kind: KindAccountNotFound}
	ErrWrongPassword            = &Error{Kind: KindWrongPassword}
	ErrWeakPassword             = &Error{Kind: KindWeakPassword}
	ErrInvalidEmail             = &Error{Kind: KindInvalidEmail}
	ErrSessionStale             = &Error{Kind: KindSessionStale}
	ErrQuotaExceeded            = &Error{Kind: KindQuotaExceeded}
)

// KindOf returns the kind of err after classification. nil yields KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	return Classify(err).Kind
}
