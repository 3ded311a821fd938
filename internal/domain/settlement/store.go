package settlement

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEntryNotFound = errors.New("settlement entry not found")

// StoreAPI is the settlement-ledger access the service and handlers use.
type StoreAPI interface {
	InsertEntry(ctx context.Context, e Entry) (string, error)
	SetReceiptPath(ctx context.Context, id, path string) error
	GetEntry(ctx context.Context, id string) (Entry, error)
	CountEntries(ctx context.Context) (int, error)
	ListEntries(ctx context.Context, limit, offset int) ([]Entry, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const entryColumns = `
  s.id, s.created_at, s.employee_id,
  e.first_name || ' ' || e.last_name,
  s.hire_date, s.termination_date, s.tenure_days,
  s.cesantias, s.cesantias_interest, s.prima, s.vacaciones,
  s.other_concepts, s.deductions, s.total_payable, s.receipt_path, s.notes
`

func (s *Store) InsertEntry(ctx context.Context, e Entry) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO settlement_entries (
      employee_id, hire_date, termination_date, tenure_days,
      cesantias, cesantias_interest, prima, vacaciones,
      other_concepts, deductions, total_payable, notes
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, e.EmployeeID, e.HireDate, e.TerminationDate, e.TenureDays,
		e.Cesantias, e.CesantiasInterest, e.Prima, e.Vacaciones,
		e.OtherConcepts, e.Deductions, e.TotalPayable, e.Notes).Scan(&id)
	return id, err
}

func (s *Store) SetReceiptPath(ctx context.Context, id, path string) error {
	_, err := s.DB.Exec(ctx,
		"UPDATE settlement_entries SET receipt_path = $2 WHERE id = $1", id, path)
	return err
}

func (s *Store) GetEntry(ctx context.Context, id string) (Entry, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM settlement_entries s
    JOIN employees e ON e.id = s.employee_id
    WHERE s.id = $1
  `, id)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	}
	return e, err
}

func (s *Store) CountEntries(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT count(*) FROM settlement_entries").Scan(&count)
	return count, err
}

func (s *Store) ListEntries(ctx context.Context, limit, offset int) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM settlement_entries s
    JOIN employees e ON e.id = s.employee_id
    ORDER BY s.created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID, &e.CreatedAt, &e.EmployeeID,
		&e.EmployeeName,
		&e.HireDate, &e.TerminationDate, &e.TenureDays,
		&e.Cesantias, &e.CesantiasInterest, &e.Prima, &e.Vacaciones,
		&e.OtherConcepts, &e.Deductions, &e.TotalPayable, &e.ReceiptPath, &e.Notes,
	)
	return e, err
}
