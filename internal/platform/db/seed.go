package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/authz"
	"hrportal/internal/identity"
	"hrportal/internal/platform/config"
)

// Seed provisions the development fixtures: two departments, one user
// per role, department assignments for the scoped manager, and a handful
// of employee records. Everything is idempotent; reruns are no-ops.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	deptEng, err := ensureDepartment(ctx, pool, "Engineering")
	if err != nil {
		return err
	}
	deptOps, err := ensureDepartment(ctx, pool, "Operations")
	if err != nil {
		return err
	}

	adminEmail := cfg.SeedAdminEmail
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	adminPassword := cfg.SeedAdminPassword
	if adminPassword == "" {
		adminPassword = "admin-changeme"
	}

	adminID, err := ensureUser(ctx, pool, adminEmail, authz.RoleSuperAdmin, adminPassword)
	if err != nil {
		return err
	}
	hrAdminID, err := ensureUser(ctx, pool, "hradmin@example.com", authz.RoleHRAdministrator, "hradmin-changeme")
	if err != nil {
		return err
	}
	managerID, err := ensureUser(ctx, pool, "manager@example.com", authz.RoleHRManager, "manager-changeme")
	if err != nil {
		return err
	}
	employeeID, err := ensureUser(ctx, pool, "employee@example.com", authz.RoleEmployee, "employee-changeme")
	if err != nil {
		return err
	}

	if err := ensureAssignment(ctx, pool, managerID, deptEng); err != nil {
		return err
	}

	if err := ensureEmployee(ctx, pool, adminID, "Ada", "Admin", adminEmail, deptOps, "Head of People Systems"); err != nil {
		return err
	}
	if err := ensureEmployee(ctx, pool, hrAdminID, "Harriet", "Rowe", "hradmin@example.com", deptOps, "HR Administrator"); err != nil {
		return err
	}
	if err := ensureEmployee(ctx, pool, managerID, "Miles", "Grant", "manager@example.com", deptEng, "Engineering HR Manager"); err != nil {
		return err
	}
	if err := ensureEmployee(ctx, pool, employeeID, "Evan", "Field", "employee@example.com", deptEng, "Software Engineer"); err != nil {
		return err
	}

	return nil
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	id = uuid.NewString()
	if _, err := pool.Exec(ctx, "INSERT INTO departments (id, name) VALUES ($1, $2)", id, name); err != nil {
		return "", err
	}
	return id, nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email string, role authz.Role, password string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return id, nil
	}
	hash, err := identity.HashPassword(password)
	if err != nil {
		return "", err
	}
	id = uuid.NewString()
	if _, err := pool.Exec(ctx, `
    INSERT INTO users (id, email, role, password_hash, status)
    VALUES ($1, $2, $3, $4, 'active')
  `, id, email, string(role), hash); err != nil {
		return "", err
	}
	return id, nil
}

func ensureAssignment(ctx context.Context, pool *pgxpool.Pool, userID, departmentID string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO department_assignments (user_id, department_id)
    VALUES ($1, $2)
    ON CONFLICT DO NOTHING
  `, userID, departmentID)
	return err
}

func ensureEmployee(ctx context.Context, pool *pgxpool.Pool, userID, firstName, lastName, email, departmentID, jobTitle string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO employees (id, user_id, first_name, last_name, email, department_id, job_title)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
  `, uuid.NewString(), userID, firstName, lastName, email, departmentID, jobTitle)
	return err
}
