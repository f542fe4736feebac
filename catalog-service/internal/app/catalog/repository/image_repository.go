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

type imageRepository struct {
	db *pgxpool.Pool
}

// NewImageRepository создает новый репозиторий изображений
func NewImageRepository(db *pgxpool.Pool) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *entity.Image) error {
	query := `
		INSERT INTO images (image, product_id, category_id, subcategory_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		image.Image, image.ProductID, image.CategoryID, image.SubCategoryID,
	).Scan(
		&image.ID,
		&image.CreatedAt,
		&image.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			switch pgErr.ConstraintName {
			case "images_category_id_fkey":
				return ErrCategoryNotFound
			case "images_subcategory_id_fkey":
				return ErrSubCategoryNotFound
			default:
				return ErrProductNotFound
			}
		}
		return fmt.Errorf("failed to create image: %w", err)
	}

	return nil
}

func (r *imageRepository) GetByID(ctx context.Context, id int64) (*entity.Image, error) {
	query := `
		SELECT id, image, product_id, category_id, subcategory_id, created_at, updated_at
		FROM images WHERE id = $1
	`

	var image entity.Image
	err := r.db.QueryRow(ctx, query, id).Scan(
		&image.ID,
		&image.Image,
		&image.ProductID,
		&image.CategoryID,
		&image.SubCategoryID,
		&image.CreatedAt,
		&image.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image by id: %w", err)
	}

	return &image, nil
}

func (r *imageRepository) GetByProduct(ctx context.Context, productID int64) ([]entity.Image, error) {
	query := imageSelect + ` WHERE product_id = $1 ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get images by product: %w", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

// GetByProducts выбирает изображения пачкой для проекции списка товаров
func (r *imageRepository) GetByProducts(ctx context.Context, productIDs []int64) (map[int64][]entity.Image, error) {
	if len(productIDs) == 0 {
		return map[int64][]entity.Image{}, nil
	}

	query := imageSelect + ` WHERE product_id = ANY($1) ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get images by products: %w", err)
	}
	defer rows.Close()

	images, err := scanImages(rows)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[int64][]entity.Image, len(productIDs))
	for _, image := range images {
		if image.ProductID == nil {
			continue
		}
		byProduct[*image.ProductID] = append(byProduct[*image.ProductID], image)
	}

	return byProduct, nil
}

func (r *imageRepository) GetByCategory(ctx context.Context, categoryID int64) ([]entity.Image, error) {
	query := imageSelect + ` WHERE category_id = $1 ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get images by category: %w", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

func (r *imageRepository) GetBySubCategory(ctx context.Context, subcategoryID int64) ([]entity.Image, error) {
	query := imageSelect + ` WHERE subcategory_id = $1 ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get images by subcategory: %w", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

func (r *imageRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM images WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrImageNotFound
	}

	return nil
}

const imageSelect = `
	SELECT id, image, product_id, category_id, subcategory_id, created_at, updated_at
	FROM images`

func scanImages(rows pgx.Rows) ([]entity.Image, error) {
	var images []entity.Image
	for rows.Next() {
		var image entity.Image
		if err := rows.Scan(
			&image.ID,
			&image.Image,
			&image.ProductID,
			&image.CategoryID,
			&image.SubCategoryID,
			&image.CreatedAt,
			&image.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}
