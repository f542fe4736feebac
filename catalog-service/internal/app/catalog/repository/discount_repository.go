package repository

import (
	"context"
	"errors"
	"fmt"

	"mistrytech/catalog-service/internal/app/catalog/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type discountRepository struct {
	db *pgxpool.Pool
}

// NewDiscountRepository создает новый репозиторий скидок
func NewDiscountRepository(db *pgxpool.Pool) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(ctx context.Context, discount *entity.Discount) error {
	query := `
		INSERT INTO discounts (discount_value, description, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		discount.DiscountValue, discount.Description, discount.StartDate, discount.EndDate,
	).Scan(
		&discount.ID,
		&discount.IsActive,
		&discount.CreatedAt,
		&discount.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create discount: %w", err)
	}

	return nil
}

func (r *discountRepository) GetByID(ctx context.Context, id int64) (*entity.Discount, error) {
	query := `
		SELECT id, discount_value, description, start_date, end_date, is_active, created_at, updated_at
		FROM discounts WHERE id = $1
	`

	var discount entity.Discount
	err := r.db.QueryRow(ctx, query, id).Scan(
		&discount.ID,
		&discount.DiscountValue,
		&discount.Description,
		&discount.StartDate,
		&discount.EndDate,
		&discount.IsActive,
		&discount.CreatedAt,
		&discount.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount by id: %w", err)
	}

	return &discount, nil
}

// GetByIDs выбирает скидки пачкой для расчета цен по списку товаров.
// Отсутствующие id просто не попадают в результат
func (r *discountRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Discount, error) {
	if len(ids) == 0 {
		return map[int64]*entity.Discount{}, nil
	}

	query := `
		SELECT id, discount_value, description, start_date, end_date, is_active, created_at, updated_at
		FROM discounts WHERE id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get discounts by ids: %w", err)
	}
	defer rows.Close()

	discounts := make(map[int64]*entity.Discount, len(ids))
	for rows.Next() {
		var discount entity.Discount
		if err := rows.Scan(
			&discount.ID,
			&discount.DiscountValue,
			&discount.Description,
			&discount.StartDate,
			&discount.EndDate,
			&discount.IsActive,
			&discount.CreatedAt,
			&discount.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		discounts[discount.ID] = &discount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discounts: %w", err)
	}

	return discounts, nil
}

func (r *discountRepository) GetAll(ctx context.Context) ([]entity.Discount, error) {
	query := `
		SELECT id, discount_value, description, start_date, end_date, is_active, created_at, updated_at
		FROM discounts ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get discounts: %w", err)
	}
	defer rows.Close()

	var discounts []entity.Discount
	for rows.Next() {
		var discount entity.Discount
		if err := rows.Scan(
			&discount.ID,
			&discount.DiscountValue,
			&discount.Description,
			&discount.StartDate,
			&discount.EndDate,
			&discount.IsActive,
			&discount.CreatedAt,
			&discount.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		discounts = append(discounts, discount)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discounts: %w", err)
	}

	return discounts, nil
}

func (r *discountRepository) Update(ctx context.Context, discount *entity.Discount) error {
	query := `
		UPDATE discounts
		SET discount_value = $1, description = $2, start_date = $3, end_date = $4, updated_at = now()
		WHERE id = $5
	`

	result, err := r.db.Exec(ctx, query,
		discount.DiscountValue, discount.Description, discount.StartDate, discount.EndDate, discount.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update discount: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDiscountNotFound
	}

	return nil
}

// Delete удаляет скидку. У товаров и вариантов, ссылавшихся на нее,
// discount_id обнуляется (ON DELETE SET NULL) - цена возвращается к базовой
func (r *discountRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM discounts WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDiscountNotFound
	}

	return nil
}
