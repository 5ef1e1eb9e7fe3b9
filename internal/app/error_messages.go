// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

const (
	// MsgNetworkUnreachable is shown when the device has no route to the internet.
	MsgNetworkUnreachable = "no internet connection"

	// MsgSecureConnectionFailed is shown when a TLS handshake or certificate
	// check fails.
	MsgSecureConnectionFailed = "secure connection failed"

	// MsgConnectionLost is shown when an established connection drops mid-request.
	MsgConnectionLost = "network connection lost"

	// MsgTimedOut is shown when a request does not complete in time.
	MsgTimedOut = "request timed out"

	// MsgHostNotFound is shown when the server name cannot be resolved.
	MsgHostNotFound = "server not found"

	// MsgHTTPResponse is shown when a fact or screening server answers with an
	// error status.
	MsgHTTPResponse = "bad response from server"

	// MsgFactDataMalformed is shown when a fact payload cannot be decoded.
	MsgFactDataMalformed = "fact data is malformed"

	// MsgFactTextMissing is shown when a decoded fact carries no text.
	MsgFactTextMissing = "fact text is missing"

	// MsgStoreUnavailable is shown when the favorites store cannot be reached.
	MsgStoreUnavailable = "favorites database is unavailable"

	// MsgFavoriteReferenceMissing is shown when a favorite being removed has no
	// matching document.
	MsgFavoriteReferenceMissing = "favorite not found in database"

	// MsgAccountNotFound is shown when no account matches the given email.
	MsgAccountNotFound = "account not found"

	// MsgWrongPassword is shown when the password does not match the account.
	MsgWrongPassword = "incorrect password"

	// MsgWeakPassword is shown when a new password is too short.
	MsgWeakPassword = "password is too weak"

	// MsgInvalidEmail is shown when an email address is malformed.
	MsgInvalidEmail = "invalid email address"

	// MsgSessionStale is shown when a sensitive operation needs a fresh login.
	MsgSessionStale = "please log in again to continue"

	// MsgQuotaExceeded is shown when the backend rejects requests for quota reasons.
	MsgQuotaExceeded = "too many requests, try again later"

	// MsgUnknown prefixes the native description of unmapped failures.
	MsgUnknown = "unknown error"
)

var messages = map[Kind]string{
	KindNetworkUnreachable:       MsgNetworkUnreachable,
	KindSecureConnectionFailed:   MsgSecureConnectionFailed,
	KindConnectionLost:           MsgConnectionLost,
	KindTimedOut:                 MsgTimedOut,
	KindHostNotFound:             MsgHostNotFound,
	KindHTTPResponse:             MsgHTTPResponse,
	KindFactDataMalformed:        MsgFactDataMalformed,
	KindFactTextMissing:          MsgFactTextMissing,
	KindStoreUnavailable:         MsgStoreUnavailable,
	KindFavoriteReferenceMissing: MsgFavoriteReferenceMissing,
	KindAccountNotFound:          MsgAccountNotFound,
	KindWrongPassword:            MsgWrongPassword,
	KindWeakPassword:             MsgWeakPassword,
	KindInvalidEmail:             MsgInvalidEmail,
	KindSessionStale:             MsgSessionStale,
	KindQuotaExceeded:            MsgQuotaExceeded,
}

// Message returns the user-presentable text for a classified error.
// Unknown errors carry their native reason; HTTP errors append the response domain.
func Message(e *Error) string {
	if e == nil {
		return ""
	}

	switch e.Kind {
	case KindUnknown:
		if e.Reason == "" {
			return MsgUnknown
		}
		return MsgUnknown + ": " + e.Reason
	case KindHTTPResponse:
		if e.Reason != "" {
			return MsgHTTPResponse + " (" + e.Reason + ")"
		}
	}

	return messages[e.Kind]
}
