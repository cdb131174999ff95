package repositories

import (
	"context"
	"errors"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CommissionSettingRepository interface {
	GetBySupplier(ctx context.Context, supplierID uuid.UUID) (*models.CommissionSetting, error)
	Upsert(ctx context.Context, setting *models.CommissionSetting) error
	Delete(ctx context.Context, supplierID uuid.UUID) error
}

type commissionSettingRepo struct {
	db Database
}

func NewCommissionSettingRepository(db Database) CommissionSettingRepository {
	return &commissionSettingRepo{db: db}
}

func (r *commissionSettingRepo) GetBySupplier(ctx context.Context, supplierID uuid.UUID) (*models.CommissionSetting, error) {
	setting := &models.CommissionSetting{}
	query := `
		SELECT id, supplier_id, commission_rate, min_commission, is_active, notes, created_at, updated_at
		FROM commission_settings
		WHERE supplier_id = $1
	`
	err := r.db.QueryRow(ctx, query, supplierID).Scan(&setting.ID, &setting.SupplierID, &setting.CommissionRate, &setting.MinCommission, &setting.IsActive, &setting.Notes, &setting.CreatedAt, &setting.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (r *commissionSettingRepo) Upsert(ctx context.Context, setting *models.CommissionSetting) error {
	query := `
		INSERT INTO commission_settings (id, supplier_id, commission_rate, min_commission, is_active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (supplier_id)
		DO UPDATE SET
			commission_rate = EXCLUDED.commission_rate,
			min_commission = EXCLUDED.min_commission,
			is_active = EXCLUDED.is_active,
			notes = EXCLUDED.notes,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, setting.ID, setting.SupplierID, setting.CommissionRate, setting.MinCommission, setting.IsActive, setting.Notes)
	return err
}

func (r *commissionSettingRepo) Delete(ctx context.Context, supplierID uuid.UUID) error {
	query := `DELETE FROM commission_settings WHERE supplier_id = $1`
	_, err := r.db.Exec(ctx, query, supplierID)
	return err
}
