package repository

import (
	"context"
	"errors"
	"fmt"

	"mistrytech/catalog-service/internal/app/catalog/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type variantRepository struct {
	db *pgxpool.Pool
}

// NewVariantRepository создает новый репозиторий вариантов товара
func NewVariantRepository(db *pgxpool.Pool) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) Create(ctx context.Context, variant *entity.Variant) error {
	query := `
		INSERT INTO variants (product_id, size, color, price, quantity, discount_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		variant.ProductID, variant.Size, variant.Color, variant.Price,
		variant.Quantity, variant.DiscountID,
	).Scan(
		&variant.ID,
		&variant.IsActive,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			if pgErr.ConstraintName == "variants_discount_id_fkey" {
				return ErrDiscountNotFound
			}
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to create variant: %w", err)
	}

	return nil
}

func (r *variantRepository) GetByID(ctx context.Context, id int64) (*entity.Variant, error) {
	query := `
		SELECT id, product_id, size, color, price, quantity, discount_id, is_active, created_at, updated_at
		FROM variants WHERE id = $1
	`

	var variant entity.Variant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&variant.ID,
		&variant.ProductID,
		&variant.Size,
		&variant.Color,
		&variant.Price,
		&variant.Quantity,
		&variant.DiscountID,
		&variant.IsActive,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to get variant by id: %w", err)
	}

	return &variant, nil
}

func (r *variantRepository) GetByProduct(ctx context.Context, productID int64) ([]entity.Variant, error) {
	query := `
		SELECT id, product_id, size, color, price, quantity, discount_id, is_active, created_at, updated_at
		FROM variants WHERE product_id = $1
		ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants by product: %w", err)
	}
	defer rows.Close()

	return scanVariants(rows)
}

// GetByProducts выбирает варианты сразу для набора товаров,
// чтобы проекция списка не делала запрос на каждый товар
func (r *variantRepository) GetByProducts(ctx context.Context, productIDs []int64) (map[int64][]entity.Variant, error) {
	if len(productIDs) == 0 {
		return map[int64][]entity.Variant{}, nil
	}

	query := `
		SELECT id, product_id, size, color, price, quantity, discount_id, is_active, created_at, updated_at
		FROM variants WHERE product_id = ANY($1)
		ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants by products: %w", err)
	}
	defer rows.Close()

	variants, err := scanVariants(rows)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[int64][]entity.Variant, len(productIDs))
	for _, variant := range variants {
		byProduct[variant.ProductID] = append(byProduct[variant.ProductID], variant)
	}

	return byProduct, nil
}

func (r *variantRepository) Update(ctx context.Context, variant *entity.Variant) error {
	query := `
		UPDATE variants
		SET size = $1, color = $2, price = $3, quantity = $4, discount_id = $5, updated_at = now()
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query,
		variant.Size, variant.Color, variant.Price, variant.Quantity, variant.DiscountID, variant.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrDiscountNotFound
		}
		return fmt.Errorf("failed to update variant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrVariantNotFound
	}

	return nil
}

func (r *variantRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM variants WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrVariantNotFound
	}

	return nil
}

func scanVariants(rows pgx.Rows) ([]entity.Variant, error) {
	var variants []entity.Variant
	for rows.Next() {
		var variant entity.Variant
		if err := rows.Scan(
			&variant.ID,
			&variant.ProductID,
			&variant.Size,
			&variant.Quantity,
			&variant.DiscountID,
			&variant.IsActive,
			&variant.CreatedAt,
			&variant.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, variant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}

	return variants, nil
}
