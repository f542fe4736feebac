package repository

import (
	"context"
	"errors"
	"fmt"

	"mistrytech/catalog-service/internal/app/catalog/entity"
	"mistrytech/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "catalog-service"

type categoryRepository struct {
	db *pgxpool.Pool // Пул соединений с PostgreSQL
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create сохраняет новую категорию. Slug к этому моменту уже присвоен
// service layer; уникальность обеспечивает UNIQUE constraint
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (name, description, slug)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, updated_at
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "categories")
	defer timer.ObserveDuration()

	err := r.db.QueryRow(ctx, query, category.Name, category.Description, category.Slug).Scan(
		&category.ID,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrSlugTaken
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID получает категорию по ID: ровно одна строка или ErrCategoryNotFound
func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	query := `
		SELECT id, name, description, slug, is_active, created_at, updated_at
		FROM categories WHERE id = $1
	`

	var category entity.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.Slug,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return &category, nil
}

// GetBySlug выбирает категории по slug. Это фильтр: отсутствие совпадений
// дает пустой срез, а не ошибку - в отличие от GetByID
func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) ([]entity.Category, error) {
	query := `
		SELECT id, name, description, slug, is_active, created_at, updated_at
		FROM categories WHERE slug = $1 ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories by slug: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// GetAll получает все категории, новые первыми (id DESC) -
// наблюдаемый контракт всех списочных выборок каталога
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	query := `
		SELECT id, name, description, slug, is_active, created_at, updated_at
		FROM categories ORDER BY id DESC
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "categories")
	defer timer.ObserveDuration()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// Update обновляет имя и описание. Slug намеренно не входит в UPDATE:
// после первого присвоения он неизменяем
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, category.Name, category.Description, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete удаляет категорию. Подкатегории и связи с товарами
// удаляются каскадно на уровне схемы
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return ErrForeignKey
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func scanCategories(rows pgx.Rows) ([]entity.Category, error) {
	var categories []entity.Category
	for rows.Next() {
		var category entity.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.Slug,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
