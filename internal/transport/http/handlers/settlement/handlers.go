package settlementhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nomina/internal/domain/settlement"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
	"nomina/internal/transport/http/shared"
)

// ServiceAPI is the settlement orchestration the handlers call; tests swap
// in fakes.
type ServiceAPI interface {
	Preview(ctx context.Context, req settlement.RunRequest) (settlement.Result, error)
	Commit(ctx context.Context, req settlement.RunRequest) (settlement.Entry, error)
	ReadReceipt(ctx context.Context, entryID string) ([]byte, error)
}

type Handler struct {
	Service ServiceAPI
	Store   settlement.StoreAPI
}

func NewHandler(service ServiceAPI, store settlement.StoreAPI) *Handler {
	return &Handler{Service: service, Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settlements", func(r chi.Router) {
		r.Post("/preview", h.handlePreview)
		r.Post("/commit", h.handleCommit)
		r.Get("/history", h.handleHistory)
		r.Get("/receipts/{entryID}", h.handleDownloadReceipt)
	})
}

type runPayload struct {
	EmployeeID        string                `json:"employeeId"`
	TerminationDate   string                `json:"terminationDate"`
	Adjustment        settlement.Adjustment `json:"adjustment"`
	OffsetMidYearPaid bool                  `json:"offsetMidYearPaid"`
	Notes             string                `json:"notes"`
}

func (p runPayload) toRequest() (settlement.RunRequest, string) {
	if p.EmployeeID == "" {
		return settlement.RunRequest{}, "employeeId is required"
	}
	if p.TerminationDate == "" {
		return settlement.RunRequest{}, "terminationDate is required"
	}
	terminationDate, err := shared.ParseDate(p.TerminationDate)
	if err != nil {
		return settlement.RunRequest{}, "terminationDate must be a valid date"
	}
	return settlement.RunRequest{
		EmployeeID:        p.EmployeeID,
		TerminationDate:   terminationDate,
		Adjustment:        p.Adjustment,
		OffsetMidYearPaid: p.OffsetMidYearPaid,
		Notes:             p.Notes,
	}, ""
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload runPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	req, problem := payload.toRequest()
	if problem != "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", problem, middleware.GetRequestID(r.Context()))
		return
	}
	result, err := h.Service.Preview(r.Context(), req)
	if errors.Is(err, settlement.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_preview_failed", "failed to calculate settlement", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCommit(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload runPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	req, problem := payload.toRequest()
	if problem != "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", problem, middleware.GetRequestID(r.Context()))
		return
	}
	entry, err := h.Service.Commit(r.Context(), req)
	if errors.Is(err, settlement.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_commit_failed", "failed to commit settlement", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	total, err := h.Store.CountEntries(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_history_failed", "failed to load history", middleware.GetRequestID(r.Context()))
		return
	}
	entries, err := h.Store.ListEntries(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_history_failed", "failed to load history", middleware.GetRequestID(r.Context()))
		return
	}
	api.SuccessPage(w, entries, api.Meta{Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadReceipt(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	entryID := chi.URLParam(r, "entryID")
	data, err := h.Service.ReadReceipt(r.Context(), entryID)
	if errors.Is(err, settlement.ErrEntryNotFound) {
		api.Fail(w, http.StatusNotFound, "receipt_not_found", "receipt not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "receipt_failed", "failed to load receipt", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="liquidacion_%s.pdf"`, entryID))
	_, _ = w.Write(data)
}
