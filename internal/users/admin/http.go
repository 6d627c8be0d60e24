// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/sewcraft/api/internal/platform/request"
	"github.com/sewcraft/api/internal/platform/respond"
	"github.com/sewcraft/api/internal/platform/validate"
	"github.com/sewcraft/api/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the user-management HTTP surface.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the edit endpoints. They sit behind authentication
// only; the service enforces the admin-or-self rule per request, so a
// customer can still edit their own record through the same path.
//
// # Endpoints
//   - PATCH /{id} : Partial edit.
//   - PUT   /{id} : Full replacement.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Patch("/{id}", handler.patch)
	router.Put("/{id}", handler.replace)
}

// RegisterAdminRoutes mounts the back-office listing.
//
// # Endpoints
//   - GET / : Paginated account list.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/", handler.list)
}

// # Request Payloads

type patchRequest struct {
	Email     *string `json:"email"`
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Avatar    *string `json:"avatar"`
	Role      *string `json:"role"`
	IsBlocked *bool   `json:"is_blocked"`
}

type replaceRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
	IsBlocked bool   `json:"is_blocked"`
}

/*
Patch applies a partial edit to the target account.

PATCH /api/v1/users/{id}

Request:
  - Body: patchRequest — absent fields stay untouched.

Response:
  - 200: identity.Identity: Updated account
  - 207: PARTIAL_SUCCESS: Row committed, credential sync failed
  - 403: FORBIDDEN: Caller rule violation
  - 409: EMAIL_TAKEN
*/
func (handler *Handler) patch(writer http.ResponseWriter, request *http.Request) {
	var input patchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.Apply(
		request.Context(),
		requestutil.Principal(request),
		requestutil.Param(request, "id"),
		Patch{
			Email:     input.Email,
			Name:      input.Name,
			Phone:     input.Phone,
			Address:   input.Address,
			Avatar:    input.Avatar,
			Role:      input.Role,
			IsBlocked: input.IsBlocked,
		},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Replace writes every field of the target account as given.

PUT /api/v1/users/{id}

Request:
  - Body: replaceRequest — all fields written, none preserved.

Response:
  - 200: identity.Identity: Updated account
  - 207: PARTIAL_SUCCESS: Row committed, credential sync failed
  - 403: FORBIDDEN: Caller rule violation
  - 409: EMAIL_TAKEN
*/
func (handler *Handler) replace(writer http.ResponseWriter, request *http.Request) {
	var input replaceRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.Replace(
		request.Context(),
		requestutil.Principal(request),
		requestutil.Param(request, "id"),
		Replacement{
			Email:     input.Email,
			Name:      input.Name,
			Phone:     input.Phone,
			Address:   input.Address,
			Avatar:    input.Avatar,
			Role:      input.Role,
			IsBlocked: input.IsBlocked,
		},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
List returns a page of all accounts.

GET /api/v1/admin/users

Response:
  - 200: Paginated list of accounts
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	accounts, total, err := handler.service.List(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, pagination.NewMeta(params.Page, params.Limit, total))
}
