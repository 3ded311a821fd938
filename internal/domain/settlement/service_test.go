package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomina/internal/domain/employee"
	"nomina/internal/domain/params"
	cryptoutil "nomina/internal/platform/crypto"
	"nomina/internal/platform/sheets"
)

type fakeEntryStore struct {
	inserted     []Entry
	receiptPaths map[string]string
}

func (f *fakeEntryStore) InsertEntry(ctx context.Context, e Entry) (string, error) {
	f.inserted = append(f.inserted, e)
	return "liq-1", nil
}

func (f *fakeEntryStore) SetReceiptPath(ctx context.Context, id, path string) error {
	if f.receiptPaths == nil {
		f.receiptPaths = map[string]string{}
	}
	f.receiptPaths[id] = path
	return nil
}

func (f *fakeEntryStore) GetEntry(ctx context.Context, id string) (Entry, error) {
	for _, e := range f.inserted {
		if path, ok := f.receiptPaths[id]; ok {
			e.ReceiptPath = path
		}
		e.ID = id
		return e, nil
	}
	return Entry{}, ErrEntryNotFound
}

func (f *fakeEntryStore) CountEntries(ctx context.Context) (int, error) {
	return len(f.inserted), nil
}

func (f *fakeEntryStore) ListEntries(ctx context.Context, limit, offset int) ([]Entry, error) {
	return f.inserted, nil
}

type fakeEmployeeStore struct {
	roster      []employee.Employee
	deactivated map[string]time.Time
}

func (f *fakeEmployeeStore) List(ctx context.Context) ([]employee.Employee, error) {
	return f.roster, nil
}

func (f *fakeEmployeeStore) Get(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.roster {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (f *fakeEmployeeStore) Create(ctx context.Context, e employee.Employee) (string, error) {
	return "", nil
}

func (f *fakeEmployeeStore) Update(ctx context.Context, e employee.Employee) error { return nil }

func (f *fakeEmployeeStore) MarkInactive(ctx context.Context, id string, terminationDate time.Time) error {
	if f.deactivated == nil {
		f.deactivated = map[string]time.Time{}
	}
	f.deactivated[id] = terminationDate
	return nil
}

type fakeParamStore struct {
	table []params.Parameter
}

func (f *fakeParamStore) List(ctx context.Context) ([]params.Parameter, error) {
	return f.table, nil
}

func (f *fakeParamStore) Upsert(ctx context.Context, p params.Parameter) error { return nil }

func testParams() []params.Parameter {
	return []params.Parameter{
		{Key: params.KeyMinimumWage, Value: 1300000},
		{Key: params.KeyBaseMonthDays, Value: 30},
		{Key: params.KeyAllowanceCapWages, Value: 2},
		{Key: params.KeyCesantiasInterestRate, Value: 0.12},
	}
}

func newTestService(t *testing.T, employees *fakeEmployeeStore, entries *fakeEntryStore) *Service {
	t.Helper()
	crypto, err := cryptoutil.New("")
	require.NoError(t, err)
	return NewService(
		entries, employees, &fakeParamStore{table: testParams()},
		crypto, sheets.New(""), nil, nil, nil,
		t.TempDir(), "no-reply@example.com")
}

func TestServicePreviewDoesNotPersist(t *testing.T) {
	entries := &fakeEntryStore{}
	employees := &fakeEmployeeStore{roster: []employee.Employee{{
		ID:         "e1",
		FirstName:  "Ana",
		LastName:   "Gómez",
		HireDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary: 2500000,
		Status:     employee.StatusActive,
	}}}
	svc := newTestService(t, employees, entries)

	res, err := svc.Preview(context.Background(), RunRequest{
		EmployeeID:      "e1",
		TerminationDate: time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 360, res.TenureDays)
	assert.Empty(t, entries.inserted)
	assert.Empty(t, employees.deactivated)
}

func TestServiceCommitPersistsAndDeactivates(t *testing.T) {
	entries := &fakeEntryStore{}
	termination := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	employees := &fakeEmployeeStore{roster: []employee.Employee{{
		ID:         "e1",
		FirstName:  "Ana",
		LastName:   "Gómez",
		HireDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary: 2500000,
		Status:     employee.StatusActive,
	}}}
	svc := newTestService(t, employees, entries)

	entry, err := svc.Commit(context.Background(), RunRequest{
		EmployeeID:      "e1",
		TerminationDate: termination,
		Notes:           "fin de contrato",
	})
	require.NoError(t, err)
	assert.Equal(t, "liq-1", entry.ID)
	assert.Equal(t, "fin de contrato", entry.Notes)

	require.Len(t, entries.inserted, 1)
	assert.Equal(t, "Ana Gómez", entries.inserted[0].EmployeeName)
	assert.Equal(t, termination, employees.deactivated["e1"])
	assert.NotEmpty(t, entry.ReceiptPath)
	assert.Equal(t, entry.ReceiptPath, entries.receiptPaths["liq-1"])
}

func TestServiceCommitAppliesOffsetFlag(t *testing.T) {
	employees := &fakeEmployeeStore{roster: []employee.Employee{{
		ID:         "e1",
		FirstName:  "Ana",
		LastName:   "Gómez",
		HireDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary: 2500000,
		Status:     employee.StatusActive,
	}}}
	termination := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	without, err := newTestService(t, employees, &fakeEntryStore{}).Commit(context.Background(), RunRequest{
		EmployeeID:      "e1",
		TerminationDate: termination,
	})
	require.NoError(t, err)
	with, err := newTestService(t, employees, &fakeEntryStore{}).Commit(context.Background(), RunRequest{
		EmployeeID:        "e1",
		TerminationDate:   termination,
		OffsetMidYearPaid: true,
	})
	require.NoError(t, err)

	// Jan 1 through Jun 30 is 181 paid days off the prima and the total.
	paidValue := 2500000.0 * 181 / 360
	assert.InDelta(t, without.Prima-paidValue, with.Prima, 0.0001)
	assert.InDelta(t, without.TotalPayable-paidValue, with.TotalPayable, 0.0001)
}

func TestServicePreviewUnknownEmployee(t *testing.T) {
	svc := newTestService(t, &fakeEmployeeStore{}, &fakeEntryStore{})

	_, err := svc.Preview(context.Background(), RunRequest{
		EmployeeID:      "ghost",
		TerminationDate: time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
