// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sewcraft/api/pkg/pagination"

	requestutil "github.com/sewcraft/api/internal/platform/request"
	"github.com/sewcraft/api/internal/platform/respond"
	"github.com/sewcraft/api/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the catalogue HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public storefront endpoints.
//
// # Endpoints
//   - GET /             : Filtered, paginated product listing.
//   - GET /{identifier} : Product by UUID or slug.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{identifier}", handler.get)
}

// RegisterAdminRoutes mounts the back-office endpoints. The caller wraps
// them in the admin role requirement.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Patch("/{id}/visibility", handler.setVisibility)
}

// # Request Payloads

type productRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       string   `json:"price"`
	CategoryID  string   `json:"category_id"`
	Image       *string  `json:"image"`
	Sizes       []string `json:"sizes"`
}

type visibilityRequest struct {
	Active bool `json:"active"`
}

/*
List returns the storefront product listing.

GET /api/v1/products?q=&category_id=&sort=&page=&limit=

Description: Only active products are visible here; archived entries are
reachable through the back-office listing.

Response:
  - 200: Paginated list of products
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Query:      request.URL.Query().Get("q"),
		CategoryID: request.URL.Query().Get("category_id"),
		Sort:       request.URL.Query().Get("sort"),
		ActiveOnly: true,
	}

	products, total, err := handler.service.ListProducts(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns one product by UUID or slug.

GET /api/v1/products/{identifier}

Response:
  - 200: Product
  - 404: NOT_FOUND
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identifier := chi.URLParam(request, "identifier")

	product, err := handler.service.GetProduct(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Create adds a new catalogue entry.

POST /api/v1/admin/products

Request:
  - Body: productRequest

Response:
  - 201: Product: Created entry
  - 400: Validation failure (bad price, missing sizes)
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeProduct(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateProduct(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
Update replaces an existing catalogue entry's mutable fields.

PUT /api/v1/admin/products/{id}

Request:
  - Body: productRequest

Response:
  - 200: Product: Updated entry
  - 404: NOT_FOUND
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeProduct(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.ID = chi.URLParam(request, "id")

	// Preserve immutable state from the stored row.
	existing, err := handler.service.GetProduct(request.Context(), input.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.IsActive = existing.IsActive
	input.CreatedAt = existing.CreatedAt

	if err := handler.service.UpdateProduct(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, input)
}

/*
SetVisibility archives or restores a product.

PATCH /api/v1/admin/products/{id}/visibility

Request:
  - Body: visibilityRequest (Active)

Response:
  - 200: Success
*/
func (handler *Handler) setVisibility(writer http.ResponseWriter, request *http.Request) {
	var input visibilityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	id := chi.URLParam(request, "id")
	if err := handler.service.SetProductActive(request.Context(), id, input.Active); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldMessage: "Product visibility updated"})
}

// decodeProduct parses and converts the shared create/update payload. The
// price travels as a JSON string and converts to decimal here, never via
// float64.
func decodeProduct(request *http.Request) (*Product, error) {
	var input productRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, validate.ErrInvalidJSON
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		v := &validate.Validator{}
		v.Custom(FieldPrice, true, "must be a decimal string")
		return nil, v.Err()
	}

	return &Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		CategoryID:  input.CategoryID,
		ImageURL:    input.Image,
		Sizes:       input.Sizes,
	}, nil
}
