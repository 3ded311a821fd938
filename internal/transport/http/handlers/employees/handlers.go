package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nomina/internal/domain/employee"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
	"nomina/internal/transport/http/shared"
)

type Handler struct {
	Store employee.StoreAPI
}

func NewHandler(store employee.StoreAPI) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleGet)
		r.Put("/{employeeID}", h.handleUpdate)
		r.Post("/{employeeID}/deactivate", h.handleDeactivate)
	})
}

type employeePayload struct {
	DocumentID         string  `json:"documentId"`
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName"`
	Position           string  `json:"position"`
	Email              string  `json:"email"`
	HireDate           string  `json:"hireDate"`
	ContractType       string  `json:"contractType"`
	SalaryType         string  `json:"salaryType"`
	BaseSalary         float64 `json:"baseSalary"`
	TransportAllowance float64 `json:"transportAllowance"`
}

func (p employeePayload) toEmployee() (employee.Employee, string) {
	if p.DocumentID == "" || p.FirstName == "" || p.LastName == "" {
		return employee.Employee{}, "documentId, firstName and lastName are required"
	}
	if p.BaseSalary < 0 || p.TransportAllowance < 0 {
		return employee.Employee{}, "salary amounts cannot be negative"
	}
	hireDate, err := shared.ParseDate(p.HireDate)
	if err != nil || p.HireDate == "" {
		return employee.Employee{}, "hireDate must be a valid date"
	}
	contractType := p.ContractType
	if contractType == "" {
		contractType = employee.ContractIndefinite
	}
	salaryType := p.SalaryType
	if salaryType == "" {
		salaryType = employee.SalaryBasic
	}
	return employee.Employee{
		DocumentID:         p.DocumentID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Position:           p.Position,
		Email:              p.Email,
		HireDate:           hireDate,
		ContractType:       contractType,
		SalaryType:         salaryType,
		BaseSalary:         p.BaseSalary,
		TransportAllowance: p.TransportAllowance,
	}, ""
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employees, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	emp, err := h.Store.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	emp, problem := payload.toEmployee()
	if problem != "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", problem, middleware.GetRequestID(r.Context()))
		return
	}
	id, err := h.Store.Create(r.Context(), emp)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	emp, problem := payload.toEmployee()
	if problem != "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", problem, middleware.GetRequestID(r.Context()))
		return
	}
	emp.ID = chi.URLParam(r, "employeeID")
	err := h.Store.Update(r.Context(), emp)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": emp.ID}, middleware.GetRequestID(r.Context()))
}

type deactivatePayload struct {
	TerminationDate string `json:"terminationDate"`
}

// handleDeactivate is the manual path for ending a contract without a
// settlement; a committed settlement deactivates on its own.
func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload deactivatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	terminationDate, err := shared.ParseDate(payload.TerminationDate)
	if err != nil || payload.TerminationDate == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "terminationDate must be a valid date", middleware.GetRequestID(r.Context()))
		return
	}
	id := chi.URLParam(r, "employeeID")
	err = h.Store.MarkInactive(r.Context(), id, terminationDate)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_deactivate_failed", "failed to deactivate employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": id, "status": employee.StatusInactive}, middleware.GetRequestID(r.Context()))
}
