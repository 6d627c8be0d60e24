// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sewcraft/api/internal/platform/apperr"
	requestutil "github.com/sewcraft/api/internal/platform/request"
	"github.com/sewcraft/api/internal/platform/respond"
	"github.com/sewcraft/api/internal/platform/validate"
	"github.com/sewcraft/api/internal/shop/catalog"
)

// # Definitions & Constructors

// Handler implements the authenticated /cart HTTP surface.
//
// # Pricing
//
// Lines are priced here, at add time, by resolving the product through the
// catalogue. The captured unit price then lives in the cart line; later
// catalogue changes never touch it.
type Handler struct {
	manager *Manager
	catalog *catalog.Service
}

// NewHandler constructs a new [Handler].
func NewHandler(manager *Manager, catalogService *catalog.Service) *Handler {
	return &Handler{
		manager: manager,
		catalog: catalogService,
	}
}

// RegisterRoutes mounts the cart endpoints. The caller wraps them in the
// customer authentication requirement.
//
// # Endpoints
//   - GET    /                          : Cart snapshot with totals.
//   - POST   /items                     : Add a line (or increment).
//   - PATCH  /items                     : Set a line's quantity.
//   - DELETE /items/{productID}/{size}  : Remove a line.
//   - DELETE /                          : Clear the cart.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.view)
	router.Post("/items", handler.addItem)
	router.Patch("/items", handler.updateQuantity)
	router.Delete("/items/{productID}/{size}", handler.removeItem)
	router.Delete("/", handler.clear)
}

// # Request Payloads

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// cartResponse is the canonical cart snapshot shape.
type cartResponse struct {
	Items       []LineItem `json:"items"`
	TotalItems  int        `json:"total_items"`
	TotalAmount string     `json:"total_amount"`
}

func snapshot(store *Store) cartResponse {
	return cartResponse{
		Items:       store.Items(),
		TotalItems:  store.TotalItems(),
		TotalAmount: store.TotalAmount().StringFixed(2),
	}
}

/*
View returns the customer's cart with both totals.

GET /api/v1/cart

Response:
  - 200: cartResponse
*/
func (handler *Handler) view(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot(handler.manager.Cart(userID)))
}

/*
AddItem adds a product line to the cart, pricing it from the catalogue.

POST /api/v1/cart/items

Description: The product must be active and offered in the requested size.
Adding the same (product, size) again increments the existing line and keeps
its originally captured price.

Request:
  - Body: addItemRequest (ProductID, Size, Quantity)

Response:
  - 200: cartResponse: Updated snapshot
  - 404: NOT_FOUND: Unknown product
  - 422: UNPROCESSABLE: Inactive product, unknown size, bad quantity
*/
func (handler *Handler) addItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addItemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("product_id", input.ProductID).
		UUID("product_id", input.ProductID).
		Required(catalog.FieldSize, input.Size).
		Positive(catalog.FieldQuantity, input.Quantity)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.catalog.GetProduct(request.Context(), input.ProductID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !product.IsActive {
		respond.Error(writer, request, apperr.Unprocessable("Product is no longer available"))
		return
	}
	if !product.HasSize(input.Size) {
		respond.Error(writer, request, apperr.Unprocessable("Product is not offered in this size"))
		return
	}

	store := handler.manager.Cart(userID)
	err = store.AddItem(LineItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Size:        input.Size,
		UnitPrice:   product.Price,
		Quantity:    input.Quantity,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot(store))
}

/*
UpdateQuantity sets a line's quantity outright; zero or negative removes it.

PATCH /api/v1/cart/items

Request:
  - Body: updateQuantityRequest (ProductID, Size, Quantity)

Response:
  - 200: cartResponse: Updated snapshot
  - 422: UNPROCESSABLE: Quantity past the per-line limit
*/
func (handler *Handler) updateQuantity(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateQuantityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	store := handler.manager.Cart(userID)
	key := LineKey{ProductID: input.ProductID, Size: input.Size}
	if err := store.UpdateQuantity(key, input.Quantity); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot(store))
}

/*
RemoveItem deletes one line. Removing an absent line still succeeds.

DELETE /api/v1/cart/items/{productID}/{size}

Response:
  - 200: cartResponse: Updated snapshot
*/
func (handler *Handler) removeItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	store := handler.manager.Cart(userID)
	store.RemoveItem(LineKey{
		ProductID: chi.URLParam(request, "productID"),
		Size:      chi.URLParam(request, "size"),
	})

	respond.OK(writer, snapshot(store))
}

/*
Clear empties the cart.

DELETE /api/v1/cart

Response:
  - 204: No Content
*/
func (handler *Handler) clear(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.manager.Cart(userID).Clear()
	respond.NoContent(writer)
}
