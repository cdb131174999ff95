package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CommissionAggregate summarizes delivered-order commission for a supplier
// over a period.
type CommissionAggregate struct {
	TotalCommission float64
	OrderCount      int
}

type OrderItemRepository interface {
	// AggregateCommission sums the commission snapshots on order lines of
	// delivered orders for the supplier in [periodStart, periodEnd].
	AggregateCommission(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (*CommissionAggregate, error)
}

type orderItemRepo struct {
	db Database
}

func NewOrderItemRepository(db Database) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) AggregateCommission(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (*CommissionAggregate, error) {
	agg := &CommissionAggregate{}
	query := `
		SELECT COALESCE(SUM(oi.commission_amount), 0), COUNT(DISTINCT o.id)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.supplier_id = $1
		  AND o.status = 'delivered'
		  AND o.order_date >= $2
		  AND o.order_date <= $3
	`
	err := r.db.QueryRow(ctx, query, supplierID, periodStart, periodEnd).Scan(&agg.TotalCommission, &agg.OrderCount)
	if err != nil {
		return nil, err
	}
	return agg, nil
}
