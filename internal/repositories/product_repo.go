package repositories

import (
	"context"
	"errors"
	"strconv"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	// DecrementStock reserves stock for an order line. Returns false when
	// there is not enough stock.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

type productRepo struct {
	db Database
}

func NewProductRepository(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, supplier_id, name, description, category, price, stock, image_path, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.SupplierID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.ImagePath, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, supplier_id, name, description, category, price, stock, image_path, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.SupplierID, product.Name, product.Description, product.Category, product.Price, product.Stock, product.ImagePath, product.IsActive)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return product, err
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, stock = $5, image_path = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Category, product.Price, product.Stock, product.ImagePath, product.IsActive, product.ID)
	return err
}

func (r *productRepo) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE`
	args := []any{}
	argPos := 1

	if filter.Query != "" {
		query += ` AND name ILIKE $` + strconv.Itoa(argPos)
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}
	if filter.SupplierID != nil {
		query += ` AND supplier_id = $` + strconv.Itoa(argPos)
		args = append(args, *filter.SupplierID)
		argPos++
	}
	if filter.Category != nil {
		query += ` AND category = $` + strconv.Itoa(argPos)
		args = append(args, *filter.Category)
		argPos++
	}
	if filter.MinPrice != nil {
		query += ` AND price >= $` + strconv.Itoa(argPos)
		args = append(args, *filter.MinPrice)
		argPos++
	}
	if filter.MaxPrice != nil {
		query += ` AND price <= $` + strconv.Itoa(argPos)
		args = append(args, *filter.MaxPrice)
		argPos++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(argPos) + ` OFFSET $` + strconv.Itoa(argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`
	tag, err := r.db.Exec(ctx, query, qty, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
