package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LuigyJJ/invfarm2/domain"

	"gorm.io/gorm"
)

// CategoryRepository persists categories through gorm. Despite the package
// name it works with any gorm dialect; the sqlite driver backs dev and tests.
type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{
		DB: db,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// the store owns id assignment
	category.CategoriaID = 0

	if err := r.DB.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w: %w", domain.ErrStore, err)
	}

	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint64) (domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("context error: %w", err)
	}

	var category domain.Category

	err := r.DB.WithContext(ctx).Where("categoria_id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("failed to find category: %w: %w", domain.ErrStore, err)
	}

	return category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories := []domain.Category{}
	err := r.DB.WithContext(ctx).Order("categoria_id ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w: %w", domain.ErrStore, err)
	}

	return categories, nil
}

// Update replaces every mutable column of the row identified by
// category.CategoriaID.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"categoria_nombre": category.CategoriaNombre,
		"descripcion":      category.Descripcion,
		"imagen":           category.Imagen,
		"updated_at":       time.Now(),
	}

	result := r.DB.WithContext(ctx).Model(&domain.Category{}).Where("categoria_id = ?", category.CategoriaID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w: %w", domain.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("categoria_id = ?", id).Delete(&domain.Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w: %w", domain.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}
