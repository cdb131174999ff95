package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CommissionInvoiceRepository interface {
	Create(ctx context.Context, invoice *models.CommissionInvoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CommissionInvoice, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.CommissionInvoice, error)
	CountOverlapping(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (int, error)
	// NextInvoiceNumber allocates the next number in the per-year sequence,
	// formatted INV-<year>-<3-digit sequence>.
	NextInvoiceNumber(ctx context.Context, year int) (string, error)
	// MarkPaid transitions pending -> paid. Returns false when the invoice
	// was not pending.
	MarkPaid(ctx context.Context, id uuid.UUID, paidAmount float64, method, reference string, paidAt time.Time) (bool, error)
	// Cancel transitions pending -> cancelled. Returns false when the
	// invoice was not pending.
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.CommissionInvoice, error)
}

type commissionInvoiceRepo struct {
	db Database
}

func NewCommissionInvoiceRepository(db Database) CommissionInvoiceRepository {
	return &commissionInvoiceRepo{db: db}
}

const invoiceColumns = `id, invoice_number, supplier_id, period_start, period_end, total_commission, order_count, status, due_date, paid_amount, payment_method, payment_reference, paid_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.CommissionInvoice, error) {
	inv := &models.CommissionInvoice{}
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.SupplierID, &inv.PeriodStart, &inv.PeriodEnd, &inv.TotalCommission, &inv.OrderCount, &inv.Status, &inv.DueDate, &inv.PaidAmount, &inv.PaymentMethod, &inv.PaymentReference, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *commissionInvoiceRepo) Create(ctx context.Context, invoice *models.CommissionInvoice) error {
	query := `
		INSERT INTO commission_invoices (id, invoice_number, supplier_id, period_start, period_end, total_commission, order_count, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.InvoiceNumber, invoice.SupplierID, invoice.PeriodStart, invoice.PeriodEnd, invoice.TotalCommission, invoice.OrderCount, invoice.Status, invoice.DueDate)
	return err
}

func (r *commissionInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CommissionInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM commission_invoices WHERE id = $1`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return invoice, err
}

func (r *commissionInvoiceRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.CommissionInvoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM commission_invoices
		WHERE supplier_id = $1
		ORDER BY period_start DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, supplierID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.CommissionInvoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// CountOverlapping counts non-cancelled invoices for the supplier whose
// period intersects the given range.
func (r *commissionInvoiceRepo) CountOverlapping(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM commission_invoices
		WHERE supplier_id = $1 AND status <> 'cancelled' AND period_start <= $3 AND period_end >= $2
	`
	err := r.db.QueryRow(ctx, query, supplierID, periodStart, periodEnd).Scan(&count)
	return count, err
}

func (r *commissionInvoiceRepo) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	var seq int
	query := `
		WITH upsert AS (
			INSERT INTO invoice_sequences (year, last_number)
			VALUES ($1, 1)
			ON CONFLICT (year)
			DO UPDATE SET
				last_number = invoice_sequences.last_number + 1,
				updated_at = NOW()
			RETURNING last_number
		)
		SELECT last_number FROM upsert
	`
	if err := r.db.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%03d", year, seq), nil
}

func (r *commissionInvoiceRepo) MarkPaid(ctx context.Context, id uuid.UUID, paidAmount float64, method, reference string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE commission_invoices
		SET status = 'paid', paid_amount = $1, payment_method = $2, payment_reference = $3, paid_at = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, paidAmount, method, reference, paidAt, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *commissionInvoiceRepo) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE commission_invoices
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *commissionInvoiceRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.CommissionInvoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM commission_invoices
		WHERE status = 'pending' AND due_date < $1
		ORDER BY due_date ASC
	`
	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.CommissionInvoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}
