package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/sewcraft/api/internal/platform/request"
	"github.com/sewcraft/api/internal/platform/respond"
	"github.com/sewcraft/api/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public category endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{identifier}", handler.get)
}

// RegisterAdminRoutes mounts the back-office category endpoints. The caller
// wraps them in the admin role requirement.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identifier := chi.URLParam(request, "identifier")

	found, err := handler.service.Get(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input categoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created := &Category{Name: input.Name}
	if err := handler.service.Create(request.Context(), created); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input categoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated := &Category{ID: chi.URLParam(request, "id"), Name: input.Name}
	if err := handler.service.Update(request.Context(), updated); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), chi.URLParam(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
