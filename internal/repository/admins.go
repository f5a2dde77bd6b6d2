// Package repository provides lib/pq persistence for the hospital directory:
// administrators, doctors, and patients.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medicnotes/medicnotes/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// PostgresAdminRepository implements administrator persistence on Postgres.
type PostgresAdminRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAdminRepository creates a repository over the given connection.
func NewPostgresAdminRepository(db *sql.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{DB: db}
}

const adminColumns = `id, COALESCE(login_id, ''), name, email, phone, status, admin_type, COALESCE(image, '')`

func scanAdmin(row *sql.Row) (models.Admin, string, error) {
	var a models.Admin
	var hash string
	err := row.Scan(&a.ID, &a.LoginID, &a.Name, &a.Email, &a.Phone, &a.Status, &a.AdminType, &a.Image, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, "", ErrNotFound
	}
	if err != nil {
		return models.Admin{}, "", fmt.Errorf("scan admin: %w", err)
	}
	return a, hash, nil
}

// FindByEmail returns the admin with the given email and its password hash.
func (r *PostgresAdminRepository) FindByEmail(ctx context.Context, email string) (models.Admin, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+adminColumns+`, password_hash FROM admins WHERE email = $1`, email)
	return scanAdmin(row)
}

// FindByPhone returns the admin with the given phone number and its hash.
func (r *PostgresAdminRepository) FindByPhone(ctx context.Context, phone string) (models.Admin, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+adminColumns+`, password_hash FROM admins WHERE phone = $1`, phone)
	return scanAdmin(row)
}

// FindByLoginID returns the admin with the given adminId and its hash.
func (r *PostgresAdminRepository) FindByLoginID(ctx context.Context, loginID string) (models.Admin, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+adminColumns+`, password_hash FROM admins WHERE login_id = $1`, loginID)
	return scanAdmin(row)
}

// GetByID returns one admin by primary key.
func (r *PostgresAdminRepository) GetByID(ctx context.Context, id int64) (models.Admin, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+adminColumns+`, password_hash FROM admins WHERE id = $1`, id)
	a, _, err := scanAdmin(row)
	return a, err
}

// Create inserts a new admin and returns its generated id.
func (r *PostgresAdminRepository) Create(ctx context.Context, a models.Admin, passwordHash string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO admins (login_id, name, email, phone, password_hash, status, admin_type, image)
		 VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		 RETURNING id`,
		a.LoginID, a.Name, a.Email, a.Phone, passwordHash, a.Status, a.AdminType, a.Image,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert admin: %w", err)
	}
	return id, nil
}

// List returns every admin, newest first.
func (r *PostgresAdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+adminColumns+` FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.LoginID, &a.Name, &a.Email, &a.Phone, &a.Status, &a.AdminType, &a.Image); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// Count returns the number of admins.
func (r *PostgresAdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

// Delete removes an admin. ErrNotFound when the id does not exist.
func (r *PostgresAdminRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
