package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medicnotes/medicnotes/internal/models"
)

// PostgresPatientRepository implements patient persistence on Postgres.
type PostgresPatientRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresPatientRepository creates a repository over the given connection.
func NewPostgresPatientRepository(db *sql.DB) *PostgresPatientRepository {
	return &PostgresPatientRepository{DB: db}
}

const patientColumns = `id, COALESCE(login_id, ''), name, email, phone, status,
	COALESCE(gender, ''), COALESCE(dob, ''), COALESCE(address, '')`

func scanPatient(row *sql.Row) (models.Patient, string, error) {
	var p models.Patient
	var hash string
	err := row.Scan(&p.ID, &p.LoginID, &p.Name, &p.Email, &p.Phone, &p.Status,
		&p.Gender, &p.DOB, &p.Address, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Patient{}, "", ErrNotFound
	}
	if err != nil {
		return models.Patient{}, "", fmt.Errorf("scan patient: %w", err)
	}
	return p, hash, nil
}

// FindByEmail returns the patient with the given email and its password hash.
func (r *PostgresPatientRepository) FindByEmail(ctx context.Context, email string) (models.Patient, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+patientColumns+`, password_hash FROM patients WHERE email = $1`, email)
	return scanPatient(row)
}

// FindByPhone returns the patient with the given phone number and its hash.
func (r *PostgresPatientRepository) FindByPhone(ctx context.Context, phone string) (models.Patient, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+patientColumns+`, password_hash FROM patients WHERE phone = $1`, phone)
	return scanPatient(row)
}

// FindByLoginID returns the patient with the given patientId and its hash.
func (r *PostgresPatientRepository) FindByLoginID(ctx context.Context, loginID string) (models.Patient, string, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+patientColumns+`, password_hash FROM patients WHERE login_id = $1`, loginID)
	return scanPatient(row)
}

// Create inserts a new patient and returns its generated id.
func (r *PostgresPatientRepository) Create(ctx context.Context, p models.Patient, passwordHash string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO patients (login_id, name, email, phone, password_hash, status, gender, dob, address)
		 VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
		 RETURNING id`,
		p.LoginID, p.Name, p.Email, p.Phone, passwordHash, p.Status, p.Gender, p.DOB, p.Address,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert patient: %w", err)
	}
	return id, nil
}

// List returns every patient, newest first.
func (r *PostgresPatientRepository) List(ctx context.Context) ([]models.Patient, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var patients []models.Patient
	for rows.Next() {
		var p models.Patient
		if err := rows.Scan(&p.ID, &p.LoginID, &p.Name, &p.Email, &p.Phone, &p.Status,
			&p.Gender, &p.DOB, &p.Address); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

// Count returns the number of patients.
func (r *PostgresPatientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&count)
	return count, err
}

// Delete removes a patient. ErrNotFound when the id does not exist.
func (r *PostgresPatientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
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
