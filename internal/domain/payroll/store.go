package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEntryNotFound = errors.New("payroll entry not found")

// StoreAPI is the history-ledger access the service and handlers depend on.
type StoreAPI interface {
	InsertEntry(ctx context.Context, e Entry) (string, error)
	SetReceiptPath(ctx context.Context, id, path string) error
	GetEntry(ctx context.Context, id string) (Entry, error)
	CountEntries(ctx context.Context) (int, error)
	ListEntries(ctx context.Context, limit, offset int) ([]Entry, error)
	ListEntriesForPeriod(ctx context.Context, from, to time.Time) ([]Entry, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const entryColumns = `
  p.id, p.created_at, p.period_from, p.period_to, p.employee_id,
  e.first_name || ' ' || e.last_name,
  p.days_worked, p.earned_salary, p.earned_allowance, p.earned_other,
  p.contribution_base, p.health_deduction, p.pension_deduction,
  p.solidarity_deduction, p.other_deduction, p.net_pay, p.receipt_path, p.notes
`

func (s *Store) InsertEntry(ctx context.Context, e Entry) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_entries (
      period_from, period_to, employee_id, days_worked,
      earned_salary, earned_allowance, earned_other, contribution_base,
      health_deduction, pension_deduction, solidarity_deduction, other_deduction,
      net_pay, notes
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    RETURNING id
  `, e.PeriodFrom, e.PeriodTo, e.EmployeeID, e.DaysWorked,
		e.EarnedSalary, e.EarnedAllowance, e.EarnedOther, e.ContributionBase,
		e.HealthDeduction, e.PensionDeduction, e.SolidarityDeduction, e.OtherDeduction,
		e.NetPay, e.Notes).Scan(&id)
	return id, err
}

func (s *Store) SetReceiptPath(ctx context.Context, id, path string) error {
	_, err := s.DB.Exec(ctx,
		"UPDATE payroll_entries SET receipt_path = $2 WHERE id = $1", id, path)
	return err
}

func (s *Store) GetEntry(ctx context.Context, id string) (Entry, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM payroll_entries p
    JOIN employees e ON e.id = p.employee_id
    WHERE p.id = $1
  `, id)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	}
	return e, err
}

func (s *Store) CountEntries(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT count(*) FROM payroll_entries").Scan(&count)
	return count, err
}

func (s *Store) ListEntries(ctx context.Context, limit, offset int) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM payroll_entries p
    JOIN employees e ON e.id = p.employee_id
    ORDER BY p.created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *Store) ListEntriesForPeriod(ctx context.Context, from, to time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM payroll_entries p
    JOIN employees e ON e.id = p.employee_id
    WHERE p.period_from >= $1 AND p.period_to <= $2
    ORDER BY e.last_name, e.first_name
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID, &e.CreatedAt, &e.PeriodFrom, &e.PeriodTo, &e.EmployeeID,
		&e.EmployeeName,
		&e.DaysWorked, &e.EarnedSalary, &e.EarnedAllowance, &e.EarnedOther,
		&e.ContributionBase, &e.HealthDeduction, &e.PensionDeduction,
		&e.SolidarityDeduction, &e.OtherDeduction, &e.NetPay, &e.ReceiptPath, &e.Notes,
	)
	return e, err
}

func collectEntries(rows pgx.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
