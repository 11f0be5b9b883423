package employees

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, first_name, last_name, email, department_id, job_title
    FROM employees
    ORDER BY last_name, first_name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.FirstName, &e.LastName, &e.Email, &e.DepartmentID, &e.JobTitle); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, first_name, last_name, email, department_id, job_title
    FROM employees
    WHERE id = $1
  `, id).Scan(&e.ID, &e.UserID, &e.FirstName, &e.LastName, &e.Email, &e.DepartmentID, &e.JobTitle)
	return e, err
}

func (s *Store) Update(ctx context.Context, id string, firstName, lastName, jobTitle string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, job_title = $3, updated_at = now()
    WHERE id = $4
  `, firstName, lastName, jobTitle, id)
	return err
}
