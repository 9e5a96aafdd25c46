package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"picklist/internal/common"
	"picklist/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	// List returns products whose name or description contains search
	// (case-insensitive; empty search matches everything), ordered by
	// sortBy/sortOrder. Unrecognized sort parameters fall back to the
	// default ordering (name ascending). Ties break by id ascending so
	// the ordering is reproducible across calls.
	List(ctx context.Context, search, sortBy, sortOrder string) ([]model.Product, error)
}

// sortColumns whitelists ORDER BY targets; query parameters are never
// interpolated into SQL directly.
var sortColumns = map[string]string{
	model.SortByName:        "name",
	model.SortByDescription: "description",
	model.SortByPrice:       "price",
	model.SortByStock:       "stock",
}

type pgProductRepository struct {
	db *sql.DB
}

func NewPgProductRepository(db *sql.DB) ProductRepository {
	return &pgProductRepository{db: db}
}

func (r *pgProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products (name, slug, description, price, stock)
	          VALUES ($1, $2, $3, $4::numeric, $5)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.Stock).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("product with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProductRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT id, name, slug, description, price::text, stock, created_at
	          FROM products WHERE id = $1`
	product := &model.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Slug, &product.Description, &product.Price, &product.Stock, &product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProductRepository.FindByID: %w", err)
	}
	return product, nil
}

func (r *pgProductRepository) List(ctx context.Context, search, sortBy, sortOrder string) ([]model.Product, error) {
	var query strings.Builder
	query.WriteString(`SELECT id, name, slug, description, price::text, stock, created_at FROM products`)

	var args []interface{}
	if search != "" {
		query.WriteString(` WHERE name ILIKE $1 OR description ILIKE $1`)
		args = append(args, "%"+search+"%")
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if strings.EqualFold(sortOrder, model.SortOrderDesc) {
		direction = "DESC"
	}
	query.WriteString(fmt.Sprintf(` ORDER BY %s %s, id ASC`, column, direction))

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgProductRepository.List: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgProductRepository.List scan: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProductRepository.List rows.Err: %w", err)
	}
	return products, nil
}
