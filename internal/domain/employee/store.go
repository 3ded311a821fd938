package employee

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("employee not found")

// StoreAPI is the roster access the services depend on; tests swap in fakes.
type StoreAPI interface {
	List(ctx context.Context) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, e Employee) (string, error)
	Update(ctx context.Context, e Employee) error
	MarkInactive(ctx context.Context, id string, terminationDate time.Time) error
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
  id, document_id, first_name, last_name, position, email,
  hire_date, contract_type, salary_type, base_salary, transport_allowance,
  status, termination_date, created_at
`

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY last_name, first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id)
	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (s *Store) Create(ctx context.Context, e Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      document_id, first_name, last_name, position, email,
      hire_date, contract_type, salary_type, base_salary, transport_allowance, status
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, e.DocumentID, e.FirstName, e.LastName, e.Position, e.Email,
		e.HireDate, e.ContractType, e.SalaryType, e.BaseSalary, e.TransportAllowance,
		StatusActive).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET document_id = $2, first_name = $3, last_name = $4, position = $5,
        email = $6, hire_date = $7, contract_type = $8, salary_type = $9,
        base_salary = $10, transport_allowance = $11
    WHERE id = $1
  `, e.ID, e.DocumentID, e.FirstName, e.LastName, e.Position, e.Email,
		e.HireDate, e.ContractType, e.SalaryType, e.BaseSalary, e.TransportAllowance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkInactive records the termination after a committed settlement. The
// status transition lives here, not in the calculators.
func (s *Store) MarkInactive(ctx context.Context, id string, terminationDate time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET status = $2, termination_date = $3
    WHERE id = $1
  `, id, StatusInactive, terminationDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.DocumentID, &e.FirstName, &e.LastName, &e.Position, &e.Email,
		&e.HireDate, &e.ContractType, &e.SalaryType, &e.BaseSalary, &e.TransportAllowance,
		&e.Status, &e.TerminationDate, &e.CreatedAt,
	)
	return e, err
}
