package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ClinicRepository interface {
	Create(ctx context.Context, clinic *models.Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error)
	Update(ctx context.Context, clinic *models.Clinic) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Find(ctx context.Context, filter *models.ClinicFilter) ([]*models.Clinic, error)
	ListExpired(ctx context.Context, asOf time.Time) ([]*models.Clinic, error)
	ActivateSubscriptionTx(ctx context.Context, tx pgx.Tx, clinicID uuid.UUID, tier string, promoted bool, priority int, start, end time.Time) error
	Downgrade(ctx context.Context, id uuid.UUID) error
}

type clinicRepo struct {
	db Database
}

func NewClinicRepository(db Database) ClinicRepository {
	return &clinicRepo{db: db}
}

const clinicColumns = `id, owner_user_id, name, governorate, city, address, latitude, longitude, specialties, rating, subscription_tier, is_promoted, priority_level, is_active, is_verified, subscription_start, subscription_end, created_at, updated_at`

func scanClinic(row pgx.Row) (*models.Clinic, error) {
	clinic := &models.Clinic{}
	err := row.Scan(&clinic.ID, &clinic.OwnerUserID, &clinic.Name, &clinic.Governorate, &clinic.City, &clinic.Address, &clinic.Latitude, &clinic.Longitude, &clinic.Specialties, &clinic.Rating, &clinic.SubscriptionTier, &clinic.IsPromoted, &clinic.PriorityLevel, &clinic.IsActive, &clinic.IsVerified, &clinic.SubscriptionStart, &clinic.SubscriptionEnd, &clinic.CreatedAt, &clinic.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return clinic, nil
}

func (r *clinicRepo) Create(ctx context.Context, clinic *models.Clinic) error {
	query := `
		INSERT INTO clinics (id, owner_user_id, name, governorate, city, address, latitude, longitude, specialties, rating, subscription_tier, is_promoted, priority_level, is_active, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, clinic.ID, clinic.OwnerUserID, clinic.Name, clinic.Governorate, clinic.City, clinic.Address, clinic.Latitude, clinic.Longitude, clinic.Specialties, clinic.Rating, clinic.SubscriptionTier, clinic.IsPromoted, clinic.PriorityLevel, clinic.IsActive, clinic.IsVerified)
	return err
}

func (r *clinicRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE id = $1`
	clinic, err := scanClinic(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return clinic, err
}

func (r *clinicRepo) Update(ctx context.Context, clinic *models.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, governorate = $2, city = $3, address = $4, latitude = $5, longitude = $6, specialties = $7, rating = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query, clinic.Name, clinic.Governorate, clinic.City, clinic.Address, clinic.Latitude, clinic.Longitude, clinic.Specialties, clinic.Rating, clinic.ID)
	return err
}

func (r *clinicRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE clinics SET is_active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, active, id)
	return err
}

// Find loads directory candidates. Geo filtering and ordering happen in the
// ranking engine; the query only narrows by facets the database can index.
func (r *clinicRepo) Find(ctx context.Context, filter *models.ClinicFilter) ([]*models.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE 1=1`
	args := []any{}
	argPos := 1

	if !filter.IncludeInactive {
		query += ` AND is_active = TRUE`
	}
	if filter.Governorate != "" {
		query += ` AND governorate = $` + strconv.Itoa(argPos)
		args = append(args, filter.Governorate)
		argPos++
	}
	if filter.City != "" {
		query += ` AND city = $` + strconv.Itoa(argPos)
		args = append(args, filter.City)
		argPos++
	}
	if filter.Specialty != "" {
		query += ` AND $` + strconv.Itoa(argPos) + ` = ANY(specialties)`
		args = append(args, filter.Specialty)
		argPos++
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clinics []*models.Clinic
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		clinics = append(clinics, clinic)
	}
	return clinics, rows.Err()
}

func (r *clinicRepo) ListExpired(ctx context.Context, asOf time.Time) ([]*models.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE subscription_end IS NOT NULL AND subscription_end < $1 AND subscription_tier <> 'free'`
	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clinics []*models.Clinic
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		clinics = append(clinics, clinic)
	}
	return clinics, rows.Err()
}

// ActivateSubscriptionTx applies a verified subscription to the clinic row.
// It runs inside the caller's transaction so the payment update and clinic
// update commit or roll back together.
func (r *clinicRepo) ActivateSubscriptionTx(ctx context.Context, tx pgx.Tx, clinicID uuid.UUID, tier string, promoted bool, priority int, start, end time.Time) error {
	query := `
		UPDATE clinics
		SET subscription_tier = $1, is_promoted = $2, priority_level = $3, subscription_start = $4, subscription_end = $5, is_active = TRUE, is_verified = TRUE, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := tx.Exec(ctx, query, tier, promoted, priority, start, end, clinicID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Downgrade resets an expired clinic to the free tier without deactivating it.
func (r *clinicRepo) Downgrade(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE clinics
		SET subscription_tier = 'free', is_promoted = FALSE, priority_level = 0, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

