// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"syscall"
)

type codeKey struct {
	domain string
	code   int
}

var codeTable = map[codeKey]Kind{
	{DomainNetwork, CodeNotConnectedToInternet}:  KindNetworkUnreachable,
	{DomainNetwork, CodeCannotConnectToHost}:     KindNetworkUnreachable,
	{DomainNetwork, CodeSecureConnectionFailed}:  KindSecureConnectionFailed,
	{DomainNetwork, CodeServerCertificateFailed}: KindSecureConnectionFailed,
	{DomainNetwork, CodeNetworkConnectionLost}:   KindConnectionLost,
	{DomainNetwork, CodeTimedOut}:                KindTimedOut,
	{DomainNetwork, CodeCannotFindHost}:          KindHostNotFound,

	{DomainApp, CodeFactDataMalformed}:        KindFactDataMalformed,
	{DomainApp, CodeFactTextMissing}:          KindFactTextMissing,
	{DomainApp, CodeFavoriteReferenceMissing}: KindFavoriteReferenceMissing,

	{DomainStore, CodeStoreUnavailable}:       KindStoreUnavailable,
	{DomainStore, CodeStoreResourceExhausted}: KindQuotaExceeded,

	{DomainIdentity, CodeUserNotFound}:        KindAccountNotFound,
	{DomainIdentity, CodeWrongPassword}:       KindWrongPassword,
	{DomainIdentity, CodeWeakPassword}:        KindWeakPassword,
	{DomainIdentity, CodeInvalidEmail}:        KindInvalidEmail,
	{DomainIdentity, CodeRequiresRecentLogin}: KindSessionStale,
	{DomainIdentity, CodeIdentityNetwork}:     KindNetworkUnreachable,
	{DomainIdentity, CodeTooManyRequests}:     KindQuotaExceeded,
}

// ClassifyCode maps a raw code of a domain to a classified error. It is total:
// codes outside the table yield KindUnknown carrying description.
func ClassifyCode(code int, domain string, description string) *Error {
	if domain == DomainHTTP && code >= 400 && code <= 599 {
		return &Error{Kind: KindHTTPResponse, Domain: domain, Code: code, Reason: description}
	}

	if kind, ok := codeTable[codeKey{domain: domain, code: code}]; ok {
		return &Error{Kind: kind, Domain: domain, Code: code}
	}

	if description == "" {
		description = (&CodedError{domain: domain, code: code}).Error()
	}
	return &Error{Kind: KindUnknown, Domain: domain, Code: code, Reason: description}
}

type codedError interface {
	error
	Code() int
	Domain() string
	Description() string
}

// Classify maps any error to a classified *Error. Errors that are already
// classified are returned unchanged. A nil error yields nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var coded codedError
	if errors.As(err, &coded) {
		out := ClassifyCode(coded.Code(), coded.Domain(), coded.Description())
		out.Err = err
		return out
	}

	if kind, ok := classifyTransport(err); ok {
		return &Error{Kind: kind, Domain: DomainNetwork, Err: err}
	}

	return &Error{Kind: KindUnknown, Reason: err.Error(), Err: err}
}

func classifyTransport(err error) (Kind, bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimedOut, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimedOut, true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindHostNotFound, true
	}

	var (
		certErr      *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	if errors.As(err, &certErr) || errors.As(err, &recordErr) || errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) || errors.As(err, &invalidErr) {
		return KindSecureConnectionFailed, true
	}

	switch {
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ECONNREFUSED):
		return KindNetworkUnreachable, true
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNABORTED), errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return KindConnectionLost, true
	}

	return KindUnknown, false
}
