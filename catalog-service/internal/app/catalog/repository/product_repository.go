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

type productRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepository{db: db}
}

// Create сохраняет товар и его связи many-to-many с категориями и
// подкатегориями в одной транзакции
func (r *productRepository) Create(ctx context.Context, product *entity.Product, categoryIDs, subcategoryIDs []int64) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "products")
	defer timer.ObserveDuration()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO products (name, description, slug, price, quantity, discount_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		product.Name, product.Description, product.Slug,
		product.Price, product.Quantity, product.DiscountID,
	).Scan(
		&product.ID,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if mapped := mapProductWriteError(err); mapped != nil {
			return mapped
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := insertProductLinks(ctx, tx, product.ID, categoryIDs, subcategoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `
		SELECT id, name, description, slug, price, quantity, discount_id, is_active, created_at, updated_at
		FROM products WHERE id = $1
	`

	var product entity.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Slug,
		&product.Price,
		&product.Quantity,
		&product.DiscountID,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by id: %w", err)
	}

	return &product, nil
}

// GetBySlug - фильтр по slug, пустой срез при отсутствии совпадений
func (r *productRepository) GetBySlug(ctx context.Context, slug string) ([]entity.Product, error) {
	query := productSelect + ` WHERE slug = $1 ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by slug: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	query := productSelect + ` ORDER BY id DESC`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetBySubCategory - товары, напрямую привязанные к подкатегории
func (r *productRepository) GetBySubCategory(ctx context.Context, subcategoryID int64) ([]entity.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.slug, p.price, p.quantity, p.discount_id,
		       p.is_active, p.created_at, p.updated_at
		FROM products p
		JOIN product_subcategories ps ON ps.product_id = p.id
		WHERE ps.subcategory_id = $1
		ORDER BY p.id DESC
	`

	rows, err := r.db.Query(ctx, query, subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by subcategory: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByCategoryViaSubCategories - товары, чья подкатегория принадлежит
// данной категории. Обход идет через цепочку подкатегорий: товары,
// привязанные к категории напрямую, но не через ее подкатегории,
// сюда не попадают
func (r *productRepository) GetByCategoryViaSubCategories(ctx context.Context, categoryID int64) ([]entity.Product, error) {
	query := `
		SELECT DISTINCT p.id, p.name, p.description, p.slug, p.price, p.quantity, p.discount_id,
		       p.is_active, p.created_at, p.updated_at
		FROM products p
		JOIN product_subcategories ps ON ps.product_id = p.id
		JOIN subcategories s ON s.id = ps.subcategory_id
		WHERE s.category_id = $1
		ORDER BY p.id DESC
	`

	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Update сохраняет изменяемые поля товара. Slug не обновляется
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, quantity = $4, discount_id = $5, updated_at = now()
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query,
		product.Name, product.Description, product.Price,
		product.Quantity, product.DiscountID, product.ID,
	)
	if err != nil {
		if mapped := mapProductWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// ReplaceCategories заменяет набор категорий товара
func (r *productRepository) ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to clear product categories: %w", err)
	}

	for _, categoryID := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`,
			productID, categoryID,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to link product to category: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ReplaceSubCategories заменяет набор подкатегорий товара
func (r *productRepository) ReplaceSubCategories(ctx context.Context, productID int64, subcategoryIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM product_subcategories WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to clear product subcategories: %w", err)
	}

	for _, subcategoryID := range subcategoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_subcategories (product_id, subcategory_id) VALUES ($1, $2)`,
			productID, subcategoryID,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrSubCategoryNotFound
			}
			return fmt.Errorf("failed to link product to subcategory: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Delete удаляет товар. Связи, варианты и изображения удаляются каскадно.
// Снимки цен в позициях заказов НЕ затрагиваются - история заказов
// переживает удаление товара (Orders Service отвязывает ссылку по событию)
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

const productSelect = `
	SELECT id, name, description, slug, price, quantity, discount_id, is_active, created_at, updated_at
	FROM products`

func insertProductLinks(ctx context.Context, tx pgx.Tx, productID int64, categoryIDs, subcategoryIDs []int64) error {
	for _, categoryID := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`,
			productID, categoryID,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to link product to category: %w", err)
		}
	}

	for _, subcategoryID := range subcategoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_subcategories (product_id, subcategory_id) VALUES ($1, $2)`,
			productID, subcategoryID,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrSubCategoryNotFound
			}
			return fmt.Errorf("failed to link product to subcategory: %w", err)
		}
	}

	return nil
}

// mapProductWriteError переводит коды ошибок PostgreSQL в ошибки репозитория
func mapProductWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case "23505": // unique_violation на slug
		return ErrSlugTaken
	case "23503": // foreign_key_violation на discount_id
		return ErrDiscountNotFound
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]entity.Product, error) {
	var products []entity.Product
	for rows.Next() {
		var product entity.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Slug,
			&product.Price,
			&product.Quantity,
			&product.DiscountID,
			&product.IsActive,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
