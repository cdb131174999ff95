package repositories

import (
	"context"
	"errors"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	// CreateWithItems inserts the order and all its lines in one
	// transaction; commission snapshots on the lines are final.
	CreateWithItems(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderRepo struct {
	db Database
}

func NewOrderRepository(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, order_number, clinic_id, supplier_id, status, total_amount, total_commission, notes, order_date, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(&o.ID, &o.OrderNumber, &o.ClinicID, &o.SupplierID, &o.Status, &o.TotalAmount, &o.TotalCommission, &o.Notes, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) CreateWithItems(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, order_number, clinic_id, supplier_id, status, total_amount, total_commission, notes, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, orderQuery, order.ID, order.OrderNumber, order.ClinicID, order.SupplierID, order.Status, order.TotalAmount, order.TotalCommission, order.Notes, order.OrderDate); err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal, commission_rate, commission_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal, item.CommissionRate, item.CommissionAmount); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	itemQuery := `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal, commission_rate, commission_amount, created_at, updated_at
		FROM order_items
		WHERE order_id = $1
	`
	rows, err := r.db.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal, &item.CommissionRate, &item.CommissionAmount, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *orderRepo) listBy(ctx context.Context, column string, id uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ` + column + ` = $1
		ORDER BY order_date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, id, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return r.listBy(ctx, "clinic_id", clinicID, limit, offset)
}

func (r *orderRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return r.listBy(ctx, "supplier_id", supplierID, limit, offset)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}
