package params

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StoreAPI is the parameter-table access the services depend on.
type StoreAPI interface {
	List(ctx context.Context) ([]Parameter, error)
	Upsert(ctx context.Context, p Parameter) error
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context) ([]Parameter, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT key, value, description, updated_at
    FROM parameters
    ORDER BY key
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Parameter
	for rows.Next() {
		var p Parameter
		if err := rows.Scan(&p.Key, &p.Value, &p.Description, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, p Parameter) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO parameters (key, value, description)
    VALUES ($1, $2, $3)
    ON CONFLICT (key) DO UPDATE
    SET value = EXCLUDED.value,
        description = CASE WHEN EXCLUDED.description = '' THEN parameters.description ELSE EXCLUDED.description END,
        updated_at = now()
  `, p.Key, p.Value, p.Description)
	return err
}
