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

type subCategoryRepository struct {
	db *pgxpool.Pool
}

// NewSubCategoryRepository создает новый репозиторий подкатегорий
func NewSubCategoryRepository(db *pgxpool.Pool) SubCategoryRepository {
	return &subCategoryRepository{db: db}
}

// Create сохраняет новую подкатегорию. Ссылка на категорию обязательна
func (r *subCategoryRepository) Create(ctx context.Context, subcategory *entity.SubCategory) error {
	query := `
		INSERT INTO subcategories (name, description, slug, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		subcategory.Name, subcategory.Description, subcategory.Slug, subcategory.CategoryID,
	).Scan(
		&subcategory.ID,
		&subcategory.IsActive,
		&subcategory.CreatedAt,
		&subcategory.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation
				return ErrSlugTaken
			case "23503": // foreign_key_violation - категория не существует
				return ErrCategoryNotFound
			}
		}
		return fmt.Errorf("failed to create subcategory: %w", err)
	}

	return nil
}

func (r *subCategoryRepository) GetByID(ctx context.Context, id int64) (*entity.SubCategory, error) {
	query := `
		SELECT id, name, description, slug, category_id, is_active, created_at, updated_at
		FROM subcategories WHERE id = $1
	`

	var subcategory entity.SubCategory
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subcategory.ID,
		&subcategory.Name,
		&subcategory.Description,
		&subcategory.Slug,
		&subcategory.CategoryID,
		&subcategory.IsActive,
		&subcategory.CreatedAt,
		&subcategory.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory by id: %w", err)
	}

	return &subcategory, nil
}

// GetBySlug - фильтр: пустой результат не ошибка
func (r *subCategoryRepository) GetBySlug(ctx context.Context, slug string) ([]entity.SubCategory, error) {
	query := `
		SELECT id, name, description, slug, category_id, is_active, created_at, updated_at
		FROM subcategories WHERE slug = $1 ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories by slug: %w", err)
	}
	defer rows.Close()

	return scanSubCategories(rows)
}

func (r *subCategoryRepository) GetAll(ctx context.Context) ([]entity.SubCategory, error) {
	query := `
		SELECT id, name, description, slug, category_id, is_active, created_at, updated_at
		FROM subcategories ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories: %w", err)
	}
	defer rows.Close()

	return scanSubCategories(rows)
}

// GetByCategory получает подкатегории одной категории, новые первыми
func (r *subCategoryRepository) GetByCategory(ctx context.Context, categoryID int64) ([]entity.SubCategory, error) {
	query := `
		SELECT id, name, description, slug, category_id, is_active, created_at, updated_at
		FROM subcategories WHERE category_id = $1 ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories by category: %w", err)
	}
	defer rows.Close()

	return scanSubCategories(rows)
}

// Update: slug неизменяем и в UPDATE не входит
func (r *subCategoryRepository) Update(ctx context.Context, subcategory *entity.SubCategory) error {
	query := `
		UPDATE subcategories
		SET name = $1, description = $2, category_id = $3, updated_at = now()
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query,
		subcategory.Name, subcategory.Description, subcategory.CategoryID, subcategory.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update subcategory: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubCategoryNotFound
	}

	return nil
}

func (r *subCategoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM subcategories WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubCategoryNotFound
	}

	return nil
}

func scanSubCategories(rows pgx.Rows) ([]entity.SubCategory, error) {
	var subcategories []entity.SubCategory
	for rows.Next() {
		var subcategory entity.SubCategory
		if err := rows.Scan(
			&subcategory.ID,
			&subcategory.Name,
			&subcategory.Description,
			&subcategory.Slug,
			&subcategory.CategoryID,
			&subcategory.IsActive,
			&subcategory.CreatedAt,
			&subcategory.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subcategories = append(subcategories, subcategory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return subcategories, nil
}
