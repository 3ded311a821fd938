package paramshandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nomina/internal/domain/params"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
)

type Handler struct {
	Store params.StoreAPI
}

func NewHandler(store params.StoreAPI) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/parameters", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Put("/{key}", h.handleUpsert)
	})
}

type parameterPayload struct {
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	table, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "parameters_list_failed", "failed to list parameters", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, table, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	key := chi.URLParam(r, "key")
	if key == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "key is required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload parameterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	err := h.Store.Upsert(r.Context(), params.Parameter{
		Key:         key,
		Value:       payload.Value,
		Description: payload.Description,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "parameter_upsert_failed", "failed to save parameter", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"key": key}, middleware.GetRequestID(r.Context()))
}
