// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package middleware

import (
	"net/http"
	"strings"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/ctxutil"
	"github.com/sewcraft/api/internal/platform/guard"
	"github.com/sewcraft/api/internal/platform/respond"
	"github.com/sewcraft/api/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// Anonymous access proceeds; protected routes reject later.
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if decision := guard.Authorize(principalFrom(request)); decision != guard.Allow {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose principal does not hold the exact role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies
// [RequireAuth], so mounting both is unnecessary.
//
// # Semantics
//
// Delegates to [guard.Authorize]: role comparison is strict equality. A route
// mounted with RequireRole(sec.RoleUser) rejects admins with 403 — customer
// and back-office surfaces are disjoint.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch guard.Authorize(principalFrom(request), role) {
			case guard.Allow:
				next.ServeHTTP(writer, request)
			case guard.DenyUnauthenticated:
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			default:
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
			}
		})
	}
}

// principalFrom maps the request's verified claims into a [guard.Principal].
func principalFrom(request *http.Request) *guard.Principal {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil
	}
	return &guard.Principal{ID: claims.UserID, Role: sec.NormalizeRole(claims.Role)}
}
