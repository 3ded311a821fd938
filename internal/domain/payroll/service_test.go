package payroll

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
	return "entry-1", nil
}

func (f *fakeEntryStore) SetReceiptPath(ctx context.Context, id, path string) error {
	if f.receiptPaths == nil {
		f.receiptPaths = map[string]string{}
	}
	f.receiptPaths[id] = path
	return nil
}

func (f *fakeEntryStore) GetEntry(ctx context.Context, id string) (Entry, error) {
	return Entry{}, ErrEntryNotFound
}

func (f *fakeEntryStore) CountEntries(ctx context.Context) (int, error) {
	return len(f.inserted), nil
}

func (f *fakeEntryStore) ListEntries(ctx context.Context, limit, offset int) ([]Entry, error) {
	return f.inserted, nil
}

func (f *fakeEntryStore) ListEntriesForPeriod(ctx context.Context, from, to time.Time) ([]Entry, error) {
	return f.inserted, nil
}

type fakeEmployeeStore struct {
	roster []employee.Employee
}

func (f *fakeEmployeeStore) List(ctx context.Context) ([]employee.Employee, error) {
	return f.roster, nil
}

func (f *fakeEmployeeStore) Get(ctx context.Context, id string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrNotFound
}

func (f *fakeEmployeeStore) Create(ctx context.Context, e employee.Employee) (string, error) {
	return "", nil
}

func (f *fakeEmployeeStore) Update(ctx context.Context, e employee.Employee) error { return nil }

func (f *fakeEmployeeStore) MarkInactive(ctx context.Context, id string, terminationDate time.Time) error {
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
		{Key: params.KeyHealthRate, Value: 0.04},
		{Key: params.KeyPensionRate, Value: 0.04},
		{Key: params.KeySolidarityRate, Value: 0.01},
		{Key: params.KeySolidarityCapWages, Value: 4},
		{Key: params.KeyAllowanceCapWages, Value: 2},
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

func activeAna() employee.Employee {
	return employee.Employee{
		ID:                 "e1",
		FirstName:          "Ana",
		LastName:           "Gómez",
		Email:              "ana@example.com",
		HireDate:           time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		BaseSalary:         2500000,
		TransportAllowance: 162000,
		Status:             employee.StatusActive,
	}
}

func TestServicePreviewDoesNotPersist(t *testing.T) {
	entries := &fakeEntryStore{}
	svc := newTestService(t, &fakeEmployeeStore{roster: []employee.Employee{activeAna()}}, entries)

	outcomes, err := svc.Preview(context.Background(), RunRequest{
		PeriodFrom:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		EmployeeIDs: []string{"e1", "ghost"},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.NotNil(t, outcomes[0].Result)
	assert.Equal(t, SkipUnknown, outcomes[1].Skipped)
	assert.Empty(t, entries.inserted)
}

func TestServiceCommitPersistsIncludedResults(t *testing.T) {
	entries := &fakeEntryStore{}
	svc := newTestService(t, &fakeEmployeeStore{roster: []employee.Employee{activeAna()}}, entries)

	committed, err := svc.Commit(context.Background(), RunRequest{
		PeriodFrom:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		EmployeeIDs: []string{"e1", "ghost"},
		Notes:       "quincena 1",
	})
	require.NoError(t, err)

	// The unknown id is skipped, not persisted.
	require.Len(t, committed, 1)
	require.Len(t, entries.inserted, 1)
	assert.Equal(t, "entry-1", committed[0].ID)
	assert.Equal(t, "Ana Gómez", entries.inserted[0].EmployeeName)
	assert.Equal(t, 15, entries.inserted[0].DaysWorked)
	assert.Equal(t, "quincena 1", entries.inserted[0].Notes)
	assert.NotEmpty(t, committed[0].ReceiptPath)
	assert.Equal(t, committed[0].ReceiptPath, entries.receiptPaths["entry-1"])
}

func TestServiceCommitAppliesAdjustments(t *testing.T) {
	entries := &fakeEntryStore{}
	svc := newTestService(t, &fakeEmployeeStore{roster: []employee.Employee{activeAna()}}, entries)

	committed, err := svc.Commit(context.Background(), RunRequest{
		PeriodFrom:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		EmployeeIDs: []string{"e1"},
		Adjustments: map[string]Adjustment{"e1": {ExtraEarned: 100000, ExtraDeducted: 20000}},
	})
	require.NoError(t, err)
	require.Len(t, committed, 1)
	assert.Equal(t, 100000.0, committed[0].EarnedOther)
	assert.Equal(t, 20000.0, committed[0].OtherDeduction)
}
