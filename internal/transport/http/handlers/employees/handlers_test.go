package employeehandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomina/internal/domain/employee"
	"nomina/internal/transport/http/middleware"
)

type fakeStore struct {
	employees   map[string]employee.Employee
	created     []employee.Employee
	deactivated map[string]time.Time
}

func (f *fakeStore) List(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (employee.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (f *fakeStore) Create(ctx context.Context, e employee.Employee) (string, error) {
	f.created = append(f.created, e)
	return "new-id", nil
}

func (f *fakeStore) Update(ctx context.Context, e employee.Employee) error {
	if _, ok := f.employees[e.ID]; !ok {
		return employee.ErrNotFound
	}
	f.employees[e.ID] = e
	return nil
}

func (f *fakeStore) MarkInactive(ctx context.Context, id string, terminationDate time.Time) error {
	if _, ok := f.employees[id]; !ok {
		return employee.ErrNotFound
	}
	if f.deactivated == nil {
		f.deactivated = map[string]time.Time{}
	}
	f.deactivated[id] = terminationDate
	return nil
}

func newRouter(store *fakeStore) chi.Router {
	r := chi.NewRouter()
	NewHandler(store).RegisterRoutes(r)
	return r
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), middleware.UserContext{UserID: "u1", Email: "admin@example.com"}))
}

func TestListRequiresAuth(t *testing.T) {
	router := newRouter(&fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/employees/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUnknownEmployeeIs404(t *testing.T) {
	router := newRouter(&fakeStore{employees: map[string]employee.Employee{}})

	req := authed(httptest.NewRequest(http.MethodGet, "/employees/ghost", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateValidatesPayload(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store)

	cases := []struct {
		name string
		body string
	}{
		{"missing names", `{"documentId":"123","hireDate":"2024-01-15"}`},
		{"missing hire date", `{"documentId":"123","firstName":"Ana","lastName":"Gómez"}`},
		{"negative salary", `{"documentId":"123","firstName":"Ana","lastName":"Gómez","hireDate":"2024-01-15","baseSalary":-1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := authed(httptest.NewRequest(http.MethodPost, "/employees/", strings.NewReader(tc.body)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, store.created)
}

func TestCreateDefaultsContractAndSalaryType(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store)

	body := `{"documentId":"123","firstName":"Ana","lastName":"Gómez","hireDate":"2024-01-15","baseSalary":2500000,"transportAllowance":162000}`
	req := authed(httptest.NewRequest(http.MethodPost, "/employees/", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, employee.ContractIndefinite, store.created[0].ContractType)
	assert.Equal(t, employee.SalaryBasic, store.created[0].SalaryType)
	assert.Contains(t, rec.Body.String(), "new-id")
}

func TestUpdateUnknownEmployeeIs404(t *testing.T) {
	router := newRouter(&fakeStore{employees: map[string]employee.Employee{}})

	body := `{"documentId":"123","firstName":"Ana","lastName":"Gómez","hireDate":"2024-01-15"}`
	req := authed(httptest.NewRequest(http.MethodPut, "/employees/ghost", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeactivateMarksInactive(t *testing.T) {
	store := &fakeStore{employees: map[string]employee.Employee{
		"e1": {ID: "e1", FirstName: "Ana", LastName: "Gómez", Status: employee.StatusActive},
	}}
	router := newRouter(store)

	body := `{"terminationDate":"2025-08-31"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/employees/e1/deactivate", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), store.deactivated["e1"])
}

func TestDeactivateRequiresTerminationDate(t *testing.T) {
	store := &fakeStore{employees: map[string]employee.Employee{"e1": {ID: "e1"}}}
	router := newRouter(store)

	req := authed(httptest.NewRequest(http.MethodPost, "/employees/e1/deactivate", strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.deactivated)
}

func TestGetReturnsEmployee(t *testing.T) {
	store := &fakeStore{employees: map[string]employee.Employee{
		"e1": {ID: "e1", FirstName: "Ana", LastName: "Gómez", BaseSalary: 2500000},
	}}
	router := newRouter(store)

	req := authed(httptest.NewRequest(http.MethodGet, "/employees/e1", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data employee.Employee `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Equal(t, "Ana", env.Data.FirstName)
}
