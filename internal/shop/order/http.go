// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/sewcraft/api/internal/platform/request"
	"github.com/sewcraft/api/internal/platform/respond"
	"github.com/sewcraft/api/internal/platform/sec"
	"github.com/sewcraft/api/internal/platform/validate"
	"github.com/sewcraft/api/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the HTTP surface for orders.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the customer order endpoints. The caller wraps
// them in the customer authentication requirement.
//
// # Endpoints
//   - POST /      : Submit the cart as an order.
//   - GET  /      : List own orders.
//   - GET  /{id}  : Fetch one own order.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.submit)
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
}

// RegisterAdminRoutes mounts the back-office order endpoints.
//
// # Endpoints
//   - GET   /                            : List all orders.
//   - GET   /{id}                        : Fetch any order.
//   - PATCH /{id}/status                 : Advance fulfilment status.
//   - POST  /{id}/installments/{sequence}/settle : Mark an installment paid.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/", handler.adminList)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}/status", handler.changeStatus)
	router.Post("/{id}/installments/{sequence}/settle", handler.settleInstallment)
}

// # Request Payloads

type submitRequest struct {
	ShippingAddress  string `json:"shipping_address"`
	InstallmentCount int    `json:"installment_count"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

/*
Submit places the customer's cart as an order.

POST /api/v1/orders

Request:
  - Body: submitRequest (ShippingAddress, InstallmentCount)

Response:
  - 201: Order: The placed order with its installment plan
  - 422: UNPROCESSABLE: Empty cart or installment count out of range
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	placed, err := handler.service.Submit(request.Context(), userID, input.ShippingAddress, input.InstallmentCount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, placed)
}

/*
List returns a page of the customer's own orders, newest first.

GET /api/v1/orders

Response:
  - 200: Paginated list of order headers
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	orders, total, err := handler.service.ListOrders(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get fetches one order with items and installments.

GET /api/v1/orders/{id}

Description: Customers can only read their own orders; someone else's
order reads as 404.

Response:
  - 200: Order
  - 404: NOT_FOUND
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	isAdmin := sec.NormalizeRole(claims.Role) == sec.RoleAdmin
	found, err := handler.service.GetOrder(request.Context(), requestutil.Param(request, "id"), claims.UserID, isAdmin)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
AdminList returns a page across every customer.

GET /api/v1/admin/orders

Response:
  - 200: Paginated list of order headers
*/
func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	orders, total, err := handler.service.ListAllOrders(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
ChangeStatus advances an order through the fulfilment machine.

PATCH /api/v1/admin/orders/{id}/status

Request:
  - Body: changeStatusRequest (Status)

Response:
  - 200: Order: Updated order
  - 404: NOT_FOUND
  - 422: UNPROCESSABLE: Illegal transition
*/
func (handler *Handler) changeStatus(writer http.ResponseWriter, request *http.Request) {
	var input changeStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.ChangeStatus(request.Context(), requestutil.Param(request, "id"), Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
SettleInstallment marks one installment of an order as paid.

POST /api/v1/admin/orders/{id}/installments/{sequence}/settle

Response:
  - 200: Order: Updated order
  - 404: NOT_FOUND: Unknown order or sequence
  - 422: UNPROCESSABLE: Already settled
*/
func (handler *Handler) settleInstallment(writer http.ResponseWriter, request *http.Request) {
	sequence, err := requestutil.ParamInt(request, "sequence")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.SettleInstallment(request.Context(), requestutil.Param(request, "id"), sequence)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
