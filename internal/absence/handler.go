package absence

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/squadboard/squadboard/internal/shared"
)

// Handler wires absence endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers absence routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/absences", h.list)
	r.Post("/absences", h.create)
	r.Put("/absences/{id}", h.update)
	r.Delete("/absences/{id}", h.remove)
	r.Get("/absence-users", h.users)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	absences, err := h.service.ListBetween(r.Context(), from, to)
	if err != nil {
		h.logger.Warn("list absences", slog.String("from", from), slog.String("to", to), slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, absences)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, shared.ErrorBody{Error: "malformed request body"})
		return
	}
	req.normalize()
	if fields := h.validate(req); fields != nil {
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

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, shared.ErrorBody{Error: "malformed request body"})
		return
	}
	req.normalize()
	if fields := h.validate(req); fields != nil {
		shared.WriteValidationErrors(w, fields)
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Users(r.Context())
	if err != nil {
		h.logger.Error("list absence users", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) validate(req CreateRequest) map[string]string {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		fields[fieldErr.Field()] = fieldErr.Tag()
	}
	return fields
}
