// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// UserRegistrationReference is the side-channel document proving that an
// account exists. Its ID is the identity provider's account ID.
type UserRegistrationReference struct {
	ID    string `json:"-"`
	Email string `json:"email"`
}

// Fields returns the remote document representation of r.
func (r UserRegistrationReference) Fields() map[string]any {
	return map[string]any{FieldEmail: r.Email}
}

// ContainsRegistration reports whether snapshot holds the reference of accountID.
func ContainsRegistration(snapshot Snapshot, accountID string) bool {
	for _, doc := range snapshot.Documents {
		if doc.ID == accountID {
			return true
		}
	}
	return false
}
