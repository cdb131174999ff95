package repositories

import (
	"context"
	"errors"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	GetByName(ctx context.Context, name string) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	List(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
	SetUnionEndorsement(ctx context.Context, id uuid.UUID, endorsed bool, certificateNumber *string) error
}

type supplierRepo struct {
	db Database
}

func NewSupplierRepository(db Database) SupplierRepository {
	return &supplierRepo{db: db}
}

const supplierColumns = `id, name, contact_email, contact_phone, address, governorate, union_endorsed, union_certificate_number, is_active, created_at, updated_at`

func scanSupplier(row pgx.Row) (*models.Supplier, error) {
	s := &models.Supplier{}
	err := row.Scan(&s.ID, &s.Name, &s.ContactEmail, &s.ContactPhone, &s.Address, &s.Governorate, &s.UnionEndorsed, &s.UnionCertificateNumber, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *supplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, contact_email, contact_phone, address, governorate, union_endorsed, union_certificate_number, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, supplier.ID, supplier.Name, supplier.ContactEmail, supplier.ContactPhone, supplier.Address, supplier.Governorate, supplier.UnionEndorsed, supplier.UnionCertificateNumber, supplier.IsActive)
	return err
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	supplier, err := scanSupplier(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return supplier, err
}

func (r *supplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE name = $1`
	supplier, err := scanSupplier(r.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return supplier, err
}

func (r *supplierRepo) Update(ctx context.Context, supplier *models.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, contact_email = $2, contact_phone = $3, address = $4, governorate = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, supplier.Name, supplier.ContactEmail, supplier.ContactPhone, supplier.Address, supplier.Governorate, supplier.IsActive, supplier.ID)
	return err
}

func (r *supplierRepo) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}

func (r *supplierRepo) SetUnionEndorsement(ctx context.Context, id uuid.UUID, endorsed bool, certificateNumber *string) error {
	query := `
		UPDATE suppliers
		SET union_endorsed = $1, union_certificate_number = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, endorsed, certificateNumber, id)
	return err
}
