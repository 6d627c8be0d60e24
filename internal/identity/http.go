// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
HTTP delivery layer for the identity system.

It implements the gateway for the account lifecycle — from registration and
sign-in to profile maintenance and password recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/
package identity

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/constants"
	"github.com/sewcraft/api/internal/platform/middleware"
	requestutil "github.com/sewcraft/api/internal/platform/request"
	"github.com/sewcraft/api/internal/platform/respond"
	"github.com/sewcraft/api/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements identity-related HTTP endpoints.
//
// # Scope
//
// This handler manages the account lifecycle entry points (registration,
// sign-in, recovery) plus the authenticated profile surface under /me.
type Handler struct {
	identityService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{identityService: service}
}

// Routes returns a [chi.Router] configured with account lifecycle routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/confirm-email", handler.confirmEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// MeRoutes returns a [chi.Router] for the authenticated profile surface.
// The caller mounts it behind [middleware.RequireAuth].
//
// # Endpoints
//   - GET /    : Current profile.
//   - PATCH /  : Partial profile update.
func (handler *Handler) MeRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Get("/", handler.me)
	router.Patch("/", handler.updateMe)
	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type confirmEmailRequest struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// updateProfileRequest carries pointer fields so an omitted key and an
// explicit empty string are distinguishable after decoding.
type updateProfileRequest struct {
	Email   *string `json:"email"`
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Avatar  *string `json:"avatar"`
}

/*
Register handles the creation of a new customer account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new customer profile to the database. The account starts unconfirmed.

Request:
  - Body: registerRequest (Email, Name, Password)

Response:
  - 201: Identity: Created profile (pending confirmation)
  - 400: WEAK_PASSWORD or validation failure
  - 409: EMAIL_TAKEN: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 120).
		Required(FieldPassword, input.Password).
		Password(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ident, err := handler.identityService.SignUp(request.Context(), SignUpInput{
		Email:    input.Email,
		Name:     input.Name,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, ident)
}

/*
Login authenticates a customer and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, generates JWT access tokens, and injects
a secure refresh token cookie into the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Access token and profile
  - 401: INVALID_CREDENTIALS
  - 403: ACCOUNT_BLOCKED or EMAIL_UNCONFIRMED
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.identityService.SignIn(request.Context(), SignInInput{
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: getClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		"user":           session.Identity,
	})
}

/*
Logout terminates the current customer session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present) and clears the
security cookies from the client. Always succeeds from the client's view.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.identityService.SignOut(request.Context(), cookie.Value)
	}

	clearRefreshCookie(writer)

	respond.NoContent(writer)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Rotates the session by validating the refresh token cookie
and issuing a fresh access token and an updated refresh token.

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: UNAUTHORIZED: Missing or invalid refresh token
  - 403: ACCOUNT_BLOCKED: Block applied since sign-in
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.identityService.Refresh(
		request.Context(),
		cookie.Value,
		request.UserAgent(),
		getClientIP(request),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

/*
ConfirmEmail activates an account using its confirmation token.

POST /api/v1/auth/confirm-email

Request:
  - Body: confirmEmailRequest (Token)

Response:
  - 200: Success: Email confirmed
  - 404: NOT_FOUND: Token invalid or expired
*/
func (handler *Handler) confirmEmail(writer http.ResponseWriter, request *http.Request) {
	var input confirmEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.identityService.ConfirmEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Email confirmed successfully",
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Issues a reset token if the account exists. The response is
identical either way to prevent enumeration.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic acknowledgment
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err := handler.identityService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Request:
  - Body: resetPasswordRequest (Token, Password)

Response:
  - 200: Success: Password updated
  - 400: WEAK_PASSWORD or validation failure
  - 404: NOT_FOUND: Token invalid or expired
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		Password(FieldPassword, input.Password)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

/*
ChangePassword updates the authenticated customer's password.

POST /api/v1/auth/change-password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: INVALID_CREDENTIALS: Current password rejected
  - 400: WEAK_PASSWORD or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		Password(FieldNewPassword, input.NewPassword)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.identityService.ChangePassword(
		request.Context(),
		claims.UserID,
		input.CurrentPassword,
		input.NewPassword,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Every session was revoked, so the cookie is now dead weight.
	clearRefreshCookie(writer)

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

// # Profile Surface

/*
Me returns the authenticated customer's profile.

GET /api/v1/me

Response:
  - 200: Identity: Current profile
  - 401: UNAUTHORIZED
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ident, err := handler.identityService.Fetch(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ident)
}

/*
UpdateMe applies a partial update to the authenticated customer's profile.

PATCH /api/v1/me

Description: Only the fields present in the JSON body are written. A key set
to an empty string clears that field; an absent key leaves it untouched.

Request:
  - Body: updateProfileRequest (Email?, Name?, Phone?, Address?, Avatar?)

Response:
  - 200: Identity: Updated profile
  - 409: EMAIL_TAKEN: New email collides with another account
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Email != nil {
		v.Required(FieldEmail, *input.Email).Email(FieldEmail, *input.Email)
	}
	if input.Name != nil {
		v.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 120)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ident, err := handler.identityService.Update(request.Context(), claims.UserID, Patch{
		Email:   input.Email,
		Name:    input.Name,
		Phone:   input.Phone,
		Address: input.Address,
		Avatar:  input.Avatar,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ident)
}

// # Cookie Helpers

// setRefreshCookie injects the refresh token as a secure, HTTP-only cookie.
func setRefreshCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie expires the refresh token cookie on the client.
func clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// getClientIP tries to extract the real IP address of a customer over proxy environments.
func getClientIP(request *http.Request) string {

	ip := request.Header.Get("X-Real-IP")
	if ip == "" {
		ip = request.Header.Get("X-Forwarded-For")
	}

	if ip == "" {
		ip = request.RemoteAddr
	}
	return ip
}
