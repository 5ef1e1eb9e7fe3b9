// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import "fmt"

// Code domains understood by ClassifyCode.
const (
	DomainNetwork  = "NSURLErrorDomain"
	DomainHTTP     = "HTTPResponse"
	DomainApp      = "RandoFacto"
	DomainStore    = "FIRFirestoreErrorDomain"
	DomainIdentity = "FIRAuthErrorDomain"
)

// Network codes.
const (
	CodeNotConnectedToInternet  = -1009
	CodeSecureConnectionFailed  = -1200
	CodeNetworkConnectionLost   = -1005
	CodeTimedOut                = -1001
	CodeCannotFindHost          = -1003
	CodeCannotConnectToHost     = -1004
	CodeServerCertificateFailed = -1202
)

// Application codes.
const (
	CodeFactDataMalformed        = 33000
	CodeFactTextMissing          = 33001
	CodeFavoriteReferenceMissing = 33002
)

// Document store codes.
const (
	CodeStoreCancelled         = 1
	CodeStoreNotFound          = 5
	CodeStoreAlreadyExists     = 6
	CodeStoreResourceExhausted = 8
	CodeStoreAborted           = 10
	CodeStoreInternal          = 13
	CodeStoreUnavailable       = 14
)

// Identity codes.
const (
	CodeEmailAlreadyInUse   = 17007
	CodeInvalidEmail        = 17008
	CodeWrongPassword       = 17009
	CodeTooManyRequests     = 17010
	CodeUserNotFound        = 17011
	CodeRequiresRecentLogin = 17014
	CodeIdentityNetwork     = 17020
	CodeWeakPassword        = 17026
)

// CodedError is a raw error carrying a numeric code within a domain.
// Adapters return it so that classification stays in this package.
type CodedError struct {
	domain      string
	code        int
	description string
	err         error
}

// NewCodedError returns a raw coded error. description is the native text
// kept as the reason when the code is not mapped.
func NewCodedError(domain string, code int, description string, err error) *CodedError {
	return &CodedError{domain: domain, code: code, description: description, err: err}
}

func (e *CodedError) Error() string {
	if e.description != "" {
		return fmt.Sprintf("%s(%d): %s", e.domain, e.code, e.description)
	}
	return fmt.Sprintf("%s(%d)", e.domain, e.code)
}

func (e *CodedError) Unwrap() error { return e.err }

// Code returns the numeric code.
func (e *CodedError) Code() int { return e.code }

// Domain returns the code domain.
func (e *CodedError) Domain() string { return e.domain }

// Description returns the native description.
func (e *CodedError) Description() string { return e.description }
