package closedday

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/squadboard/squadboard/internal/shared"
)

// Handler wires closed-day endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers closed-day routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/closed-days", h.list)
	r.Post("/closed-days", h.create)
	r.Delete("/closed-days/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	days, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list closed days", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, days)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, shared.ErrorBody{Error: "malformed request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		shared.WriteValidationErrors(w, fields)
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
