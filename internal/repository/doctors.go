package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medicnotes/medicnotes/internal/models"
)

// PostgresDoctorRepository implements doctor persistence on Postgres.
type PostgresDoctorRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresDoctorRepository creates a repository over the given connection.
func NewPostgresDoctorRepository(db *sql.DB) *PostgresDoctorRepository {
	return &PostgresDoctorRepository{DB: db}
}

const doctorColumns = `id, COALESCE(login_id, ''), name, email, phone, specialization, status,
	COALESCE(gender, ''), COALESCE(dob, ''), COALESCE(address, ''), COALESCE(image, '')`

func scanDoctor(row *sql.Row) (models.Doctor, string, error) {
	var d models.Doctor
	var hash string
	err := row.Scan(&d.ID, &d.LoginID, &d.Name, &d.Email, &d.Phone, &d.Specialization,
		&d.Status, &d.Gender, &d.DOB, &d.Address, &d.Image, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Doctor{}, "", ErrNotFound
	}
	if err != nil {
		return models.Doctor{}, "", fmt.Errorf("scan doctor: %w", err)
	}
	return d, hash, nil
}

// FindByEmail returns the doctor with the given email and its password hash.
func (r *PostgresDoctorRepository) FindByEmail(ctx context.Context, email string) (models.Doctor, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+doctorColumns+`, password_hash FROM doctors WHERE email = $1`, email)
	return scanDoctor(row)
}

// FindByPhone returns the doctor with the given phone number and its hash.
func (r *PostgresDoctorRepository) FindByPhone(ctx context.Context, phone string) (models.Doctor, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+doctorColumns+`, password_hash FROM doctors WHERE phone = $1`, phone)
	return scanDoctor(row)
}

// FindByLoginID returns the doctor with the given doctorId and its hash.
func (r *PostgresDoctorRepository) FindByLoginID(ctx context.Context, loginID string) (models.Doctor, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+doctorColumns+`, password_hash FROM doctors WHERE login_id = $1`, loginID)
	return scanDoctor(row)
}

// Create inserts a new doctor and returns its generated id.
func (r *PostgresDoctorRepository) Create(ctx context.Context, d models.Doctor, passwordHash string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO doctors (login_id, name, email, phone, password_hash, specialization, status, gender, dob, address, image)
		 VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''))
		 RETURNING id`,
		d.LoginID, d.Name, d.Email, d.Phone, passwordHash, d.Specialization, d.Status,
		d.Gender, d.DOB, d.Address, d.Image,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert doctor: %w", err)
	}
	return id, nil
}

// ListPaged returns one page of doctors, newest first.
func (r *PostgresDoctorRepository) ListPaged(ctx context.Context, offset, limit int) ([]models.Doctor, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+doctorColumns+` FROM doctors ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []models.Doctor
	for rows.Next() {
		var d models.Doctor
		if err := rows.Scan(&d.ID, &d.LoginID, &d.Name, &d.Email, &d.Phone, &d.Specialization,
			&d.Status, &d.Gender, &d.DOB, &d.Address, &d.Image); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

// Count returns the number of doctors.
func (r *PostgresDoctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&count)
	return count, err
}

// Specializations returns the distinct specializations in the directory.
func (r *PostgresDoctorRepository) Specializations(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT specialization FROM doctors ORDER BY specialization`)
	if err != nil {
		return nil, fmt.Errorf("list specializations: %w", err)
	}
	defer rows.Close()

	var specs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan specialization: %w", err)
		}
		specs = append(specs, s)
	}
	return specs, rows.Err()
}

// UpdateStatus sets a doctor's status. ErrNotFound when the id does not
// exist.
func (r *PostgresDoctorRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE doctors SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update doctor status: %w", err)
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

// Delete removes a doctor. ErrNotFound when the id does not exist.
func (r *PostgresDoctorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
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
