package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
)

// likeEscaper makes user search text match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern wraps s for a case-insensitive substring match.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

const productColumns = `id, name, description, price, category, image_url, stock, is_active, created_at, updated_at`

type productRepository struct {
	db querier
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()
	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	const query = `INSERT INTO products (name, description, price, category, image_url, stock, is_active)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Category, product.ImageURL, product.Stock, product.IsActive,
	).Scan(&product.ID, &product.CreatedAt)
	return mapError(err)
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
}

func (r *productRepository) List(ctx context.Context, filter model.ProductFilter, page model.Page) ([]model.Product, int, error) {
	var b filterBuilder
	if !filter.IncludeInactive {
		b.addRaw("is_active")
	}
	if filter.Search != "" {
		b.add(`(name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`, containsPattern(filter.Search))
	}
	if filter.Category != "" {
		b.add("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		b.add("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		b.add("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			b.addRaw("stock > 0")
		} else {
			b.addRaw("stock = 0")
		}
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+b.where(), b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	limit, args := b.paginate(page.Size, page.Offset())
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products`+b.where()+` ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	const query = `UPDATE products SET
                       name = COALESCE($2, name),
                       description = COALESCE($3, description),
                       price = COALESCE($4, price),
                       category = COALESCE($5, category),
                       image_url = COALESCE($6, image_url),
                       stock = COALESCE($7, stock),
                       is_active = COALESCE($8, is_active),
                       updated_at = NOW()
                   WHERE id=$1
                   RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query, id,
		patch.Name, patch.Description, patch.Price, patch.Category, patch.ImageURL, patch.Stock, patch.IsActive,
	))
}

func (r *productRepository) LockForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	const update = `UPDATE products SET stock = stock + $2, updated_at = NOW()
                    WHERE id=$1 AND stock + $2 >= 0 RETURNING stock`
	var stock int
	err := r.db.QueryRow(ctx, update, id, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var current int
	if err := r.db.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1`, id).Scan(&current); err != nil {
		return 0, mapError(err)
	}
	return current, fmt.Errorf("%w: product %d has %d units, adjustment %d", domainErrors.ErrInsufficientStock, id, current, delta)
}
