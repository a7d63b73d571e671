package category

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/LuigyJJ/invfarm2/domain"
	"github.com/LuigyJJ/invfarm2/pkg/logger"
	"github.com/LuigyJJ/invfarm2/pkg/metrics"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	DefaultMaxImageBytes = 5 << 20
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp"}

// CategoryRepository contract interface
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint64) error
}

// ImageStorage contract interface
type ImageStorage interface {
	UploadImage(ctx context.Context, r io.Reader, fileName, contentType string) (string, error)
	DeleteImage(ctx context.Context, ref string) error
}

type categoryService struct {
	categoryRepo  CategoryRepository
	images        ImageStorage
	maxImageBytes int64
}

func NewCategoryService(categoryRepo CategoryRepository, images ImageStorage, maxImageBytes int64) *categoryService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}

	return &categoryService{
		categoryRepo:  categoryRepo,
		images:        images,
		maxImageBytes: maxImageBytes,
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context) (categories []domain.Category, err error) {
	defer func() { metrics.Observe(metrics.CategoryOperations, "list", err) }()

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories", "error", err)
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories, err = s.categoryRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all categories", "error", err)
		return nil, err
	}

	return categories, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uint64) (category domain.Category, err error) {
	defer func() { metrics.Observe(metrics.CategoryOperations, "get", err) }()

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get category by id", "error", err)
		return domain.Category{}, fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		return domain.Category{}, domain.ErrInvalidID
	}

	category, err = s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			logger.Error("Failed to find category", "id", id, "error", err)
		}
		return domain.Category{}, err
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input domain.CategoryInput) (created *domain.Category, err error) {
	defer func() { metrics.Observe(metrics.CategoryOperations, "create", err) }()

	if err := ctx.Err(); err != nil {
		logger.Error("context error when create category", "error", err)
		return nil, fmt.Errorf("context error: %w", err)
	}

	input, contentType, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{
		CategoriaNombre: input.CategoriaNombre,
		Descripcion:     input.Descripcion,
	}

	if input.Image != nil {
		ref, err := s.upload(ctx, input.Image, contentType)
		if err != nil {
			return nil, err
		}
		category.Imagen = ref
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		logger.Error("failed to create new category", "error", err)
		s.discard(category.Imagen)
		return nil, err
	}

	logger.Info("category created successfully", "id", category.CategoriaID)

	return category, nil
}

// UpdateCategory replaces name and description. The image changes only when
// input carries a new one; the previous file is removed after the write.
func (s *categoryService) UpdateCategory(ctx context.Context, id uint64, input domain.CategoryInput) (updated *domain.Category, err error) {
	defer func() { metrics.Observe(metrics.CategoryOperations, "update", err) }()

	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating category", "error", err)
		return nil, fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		return nil, domain.ErrInvalidID
	}

	input, contentType, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			logger.Error("failed to load category for update", "id", id, "error", err)
		}
		return nil, err
	}

	category := existing
	category.CategoriaNombre = input.CategoriaNombre
	category.Descripcion = input.Descripcion

	if input.Image != nil {
		ref, err := s.upload(ctx, input.Image, contentType)
		if err != nil {
			return nil, err
		}
		category.Imagen = ref
	}

	if err := s.categoryRepo.Update(ctx, &category); err != nil {
		logger.Error("failed to update category", "id", id, "error", err)
		if category.Imagen != existing.Imagen {
			s.discard(category.Imagen)
		}
		return nil, err
	}

	if existing.Imagen != "" && category.Imagen != existing.Imagen {
		s.discard(existing.Imagen)
	}

	fresh, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to fetch updated category", "id", id, "error", err)
		return nil, fmt.Errorf("failed to fetch updated category: %w", err)
	}

	logger.Info("category updated successfully", "id", id)

	return &fresh, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint64) (err error) {
	defer func() { metrics.Observe(metrics.CategoryOperations, "delete", err) }()

	if id == 0 {
		return domain.ErrInvalidID
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting category", "error", err)
		return fmt.Errorf("context error: %w", err)
	}

	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			logger.Error("failed to load category for delete", "id", id, "error", err)
		}
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			logger.Error("failed to delete category", "id", id, "error", err)
		}
		return err
	}

	if existing.Imagen != "" {
		s.discard(existing.Imagen)
	}

	logger.Info("category deleted successfully", "id", id)

	return nil
}

// validate normalises input and checks every field, collecting all failures
// into one ValidationError. It returns the sniffed image content type.
func (s *categoryService) validate(input domain.CategoryInput) (domain.CategoryInput, string, error) {
	fields := map[string]string{}

	input.CategoriaNombre = strings.TrimSpace(input.CategoriaNombre)
	input.Descripcion = strings.TrimSpace(input.Descripcion)

	switch n := utf8.RuneCountInString(input.CategoriaNombre); {
	case n == 0:
		fields["CategoriaNombre"] = "is required"
	case n > MaxNameLength:
		fields["CategoriaNombre"] = fmt.Sprintf("must be at most %d characters", MaxNameLength)
	}

	if utf8.RuneCountInString(input.Descripcion) > MaxDescriptionLength {
		fields["Descripcion"] = fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)
	}

	var contentType string
	if img := input.Image; img != nil {
		switch {
		case len(img.Content) == 0:
			fields["Imagen"] = "is empty"
		case int64(len(img.Content)) > s.maxImageBytes:
			fields["Imagen"] = fmt.Sprintf("must be at most %d bytes", s.maxImageBytes)
		default:
			mt := mimetype.Detect(img.Content)
			if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
				fields["Imagen"] = fmt.Sprintf("unsupported image type %s", mt.String())
			}
			contentType = mt.String()
		}
	}

	if len(fields) > 0 {
		return input, "", &domain.ValidationError{Fields: fields}
	}

	return input, contentType, nil
}

func (s *categoryService) upload(ctx context.Context, img *domain.ImageUpload, contentType string) (ref string, err error) {
	defer func() { metrics.Observe(metrics.CategoryImages, "upload", err) }()

	if s.images == nil {
		return "", errors.New("image storage is not configured")
	}

	ref, err = s.images.UploadImage(ctx, bytes.NewReader(img.Content), img.FileName, contentType)
	if err != nil {
		logger.Error("failed to store category image", "file", img.FileName, "error", err)
		return "", fmt.Errorf("failed to store image: %w: %w", domain.ErrStore, err)
	}

	return ref, nil
}

// discard removes an image that is no longer referenced. Failures are only
// logged; the category write already happened or already failed.
func (s *categoryService) discard(ref string) {
	if ref == "" || s.images == nil {
		return
	}

	err := s.images.DeleteImage(context.Background(), ref)
	metrics.Observe(metrics.CategoryImages, "delete", err)
	if err != nil {
		logger.Warn("failed to delete category image", "ref", ref, "error", err)
	}
}
