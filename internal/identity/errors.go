// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package identity

import (
	"net/http"

	"github.com/sewcraft/api/internal/platform/apperr"
)

// # Error Taxonomy
//
// Every failure that leaves this package carries one of these stable codes.
// Callers (the session store, the back-office, HTTP clients) branch on the
// code, never on message text or transport errors.

const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailUnconfirmed   = "EMAIL_UNCONFIRMED"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeAccountBlocked     = "ACCOUNT_BLOCKED"
)

// ErrInvalidCredentials rejects a sign-in with an unknown email or wrong
// password. The message is deliberately generic to prevent enumeration.
func ErrInvalidCredentials() *apperr.AppError {
	return apperr.New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
}

// ErrEmailUnconfirmed rejects a sign-in for an account that has not yet
// confirmed its email address.
func ErrEmailUnconfirmed() *apperr.AppError {
	return apperr.New(CodeEmailUnconfirmed, "Email address has not been confirmed", http.StatusForbidden)
}

// ErrEmailTaken rejects a registration or email change colliding with an
// existing identity.
func ErrEmailTaken() *apperr.AppError {
	return apperr.New(CodeEmailTaken, "Email is already registered", http.StatusConflict)
}

// ErrWeakPassword rejects a password failing the minimum policy.
func ErrWeakPassword() *apperr.AppError {
	return apperr.New(CodeWeakPassword,
		"Password must be at least 8 characters with at least one letter and one digit",
		http.StatusBadRequest)
}

// ErrAccountBlocked refuses authentication for a blocked identity, even with
// valid credentials.
func ErrAccountBlocked() *apperr.AppError {
	return apperr.New(CodeAccountBlocked, "This account has been blocked", http.StatusForbidden)
}
