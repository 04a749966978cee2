package release

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/squadboard/squadboard/internal/shared"
)

// Handler wires release and microservice endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers release routes on the provided router. The
// {key} parameter accepts a release id or slug interchangeably.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/releases", func(r chi.Router) {
		r.Get("/", h.listReleases)
		r.Post("/", h.createRelease)
		r.Get("/{key}", h.getRelease)
		r.Put("/{key}", h.updateRelease)
		r.Delete("/{key}", h.deleteRelease)
		r.Get("/{key}/note", h.note)
		r.Get("/{key}/history", h.history)
		r.Get("/{key}/entries", h.listEntries)
		r.Post("/{key}/entries", h.createEntry)
		r.Put("/{key}/entries/{entryID}", h.updateEntry)
		r.Delete("/{key}/entries/{entryID}", h.deleteEntry)
		r.Put("/{key}/tontons", h.setTonton)
	})
	r.Route("/microservices", func(r chi.Router) {
		r.Get("/", h.listMicroservices)
		r.Post("/", h.createMicroservice)
		r.Put("/{id}", h.updateMicroservice)
	})
}

func (h *Handler) listReleases(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	releases, err := h.service.ListReleases(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list releases", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, releases)
}

func (h *Handler) getRelease(w http.ResponseWriter, r *http.Request) {
	rel, err := h.service.GetRelease(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rel)
}

func (h *Handler) createRelease(w http.ResponseWriter, r *http.Request) {
	var req SaveReleaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	created, err := h.service.CreateRelease(r.Context(), req, h.actor(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateRelease(w http.ResponseWriter, r *http.Request) {
	var req SaveReleaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	updated, err := h.service.UpdateRelease(r.Context(), chi.URLParam(r, "key"), req, h.actor(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteRelease(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRelease(r.Context(), chi.URLParam(r, "key"), h.actor(r)); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) actor(r *http.Request) string {
	return shared.SessionFromContext(r.Context()).User()
}

func (h *Handler) note(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.BuildNoteFor(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if err != shared.ErrNotFound {
			h.logger.Error("build release note", slog.Any("error", err))
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, note)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	var req SaveEntryRequest
	if !h.decode(w, r, &req) {
		return
	}
	created, err := h.service.CreateEntry(r.Context(), chi.URLParam(r, "key"), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req SaveEntryRequest
	if !h.decode(w, r, &req) {
		return
	}
	updated, err := h.service.UpdateEntry(r.Context(), chi.URLParam(r, "key"), chi.URLParam(r, "entryID"), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEntry(r.Context(), chi.URLParam(r, "key"), chi.URLParam(r, "entryID")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setTonton(w http.ResponseWriter, r *http.Request) {
	var t Tonton
	if err := shared.DecodeJSON(r, &t); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, shared.ErrorBody{Error: "malformed request body"})
		return
	}
	if err := h.service.SetTonton(r.Context(), chi.URLParam(r, "key"), t); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMicroservices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListMicroservices(r.Context())
	if err != nil {
		h.logger.Error("list microservices", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, services)
}

func (h *Handler) createMicroservice(w http.ResponseWriter, r *http.Request) {
	var req SaveMicroserviceRequest
	if !h.decode(w, r, &req) {
		return
	}
	created, err := h.service.CreateMicroservice(r.Context(), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateMicroservice(w http.ResponseWriter, r *http.Request) {
	var req SaveMicroserviceRequest
	if !h.decode(w, r, &req) {
		return
	}
	updated, err := h.service.UpdateMicroservice(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, shared.ErrorBody{Error: "malformed request body"})
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		shared.WriteValidationErrors(w, fields)
		return false
	}
	return true
}
