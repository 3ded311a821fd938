package payrollhandler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nomina/internal/domain/payroll"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
	"nomina/internal/transport/http/shared"
)

// ServiceAPI is the payroll orchestration the handlers call; tests swap in
// fakes.
type ServiceAPI interface {
	Preview(ctx context.Context, req payroll.RunRequest) ([]payroll.Outcome, error)
	Commit(ctx context.Context, req payroll.RunRequest) ([]payroll.Entry, error)
	ReadReceipt(ctx context.Context, entryID string) ([]byte, error)
}

type Handler struct {
	Service ServiceAPI
	Store   payroll.StoreAPI
}

func NewHandler(service ServiceAPI, store payroll.StoreAPI) *Handler {
	return &Handler{Service: service, Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/preview", h.handlePreview)
		r.Post("/commit", h.handleCommit)
		r.Get("/history", h.handleHistory)
		r.Get("/export/register", h.handleExportRegister)
		r.Get("/receipts/{entryID}", h.handleDownloadReceipt)
	})
}

type runPayload struct {
	PeriodFrom  string                        `json:"periodFrom"`
	PeriodTo    string                        `json:"periodTo"`
	EmployeeIDs []string                      `json:"employeeIds"`
	Adjustments map[string]payroll.Adjustment `json:"adjustments"`
	Notes       string                        `json:"notes"`
}

func (p runPayload) toRequest() (payroll.RunRequest, string) {
	if p.PeriodFrom == "" || p.PeriodTo == "" {
		return payroll.RunRequest{}, "periodFrom and periodTo are required"
	}
	from, err := shared.ParseDate(p.PeriodFrom)
	if err != nil {
		return payroll.RunRequest{}, "periodFrom must be a valid date"
	}
	to, err := shared.ParseDate(p.PeriodTo)
	if err != nil {
		return payroll.RunRequest{}, "periodTo must be a valid date"
	}
	if len(p.EmployeeIDs) == 0 {
		return payroll.RunRequest{}, "employeeIds must not be empty"
	}
	return payroll.RunRequest{
		PeriodFrom:  from,
		PeriodTo:    to,
		EmployeeIDs: p.EmployeeIDs,
		Adjustments: p.Adjustments,
		Notes:       p.Notes,
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
	outcomes, err := h.Service.Preview(r.Context(), req)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_preview_failed", "failed to calculate payroll", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, outcomes, middleware.GetRequestID(r.Context()))
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
	entries, err := h.Service.Commit(r.Context(), req)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_commit_failed", "failed to commit payroll", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	total, err := h.Store.CountEntries(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_history_failed", "failed to load history", middleware.GetRequestID(r.Context()))
		return
	}
	entries, err := h.Store.ListEntries(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_history_failed", "failed to load history", middleware.GetRequestID(r.Context()))
		return
	}
	api.SuccessPage(w, entries, api.Meta{Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil || from.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "from must be a valid date", middleware.GetRequestID(r.Context()))
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil || to.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "to must be a valid date", middleware.GetRequestID(r.Context()))
		return
	}

	entries, err := h.Store.ListEntriesForPeriod(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export register", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="nomina_%s_%s.csv"`, shared.FormatDate(from), shared.FormatDate(to)))
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"employee_id", "employee_name", "period_from", "period_to", "days_worked",
		"earned_salary", "earned_allowance", "earned_other", "contribution_base",
		"health_deduction", "pension_deduction", "solidarity_deduction", "other_deduction",
		"net_pay",
	})
	for _, e := range entries {
		_ = writer.Write([]string{
			e.EmployeeID, e.EmployeeName,
			shared.FormatDate(e.PeriodFrom), shared.FormatDate(e.PeriodTo),
			fmt.Sprintf("%d", e.DaysWorked),
			formatAmount(e.EarnedSalary), formatAmount(e.EarnedAllowance),
			formatAmount(e.EarnedOther), formatAmount(e.ContributionBase),
			formatAmount(e.HealthDeduction), formatAmount(e.PensionDeduction),
			formatAmount(e.SolidarityDeduction), formatAmount(e.OtherDeduction),
			formatAmount(e.NetPay),
		})
	}
	writer.Flush()
}

func (h *Handler) handleDownloadReceipt(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	entryID := chi.URLParam(r, "entryID")
	data, err := h.Service.ReadReceipt(r.Context(), entryID)
	if errors.Is(err, payroll.ErrEntryNotFound) {
		api.Fail(w, http.StatusNotFound, "receipt_not_found", "receipt not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "receipt_failed", "failed to load receipt", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="recibo_%s.pdf"`, entryID))
	_, _ = w.Write(data)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
