package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LuigyJJ/invfarm2/domain"
	"github.com/LuigyJJ/invfarm2/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	imageField     = "Imagen"
	defaultTimeout = 10 * time.Second
)

type CategoryService interface {
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id uint64) (domain.Category, error)
	CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uint64, input domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint64) error
}

type CategoryHandler struct {
	categoryService CategoryService
	validator       *validator.Validate
	timeout         time.Duration
	maxImageBytes   int64
}

func NewCategoryHandler(categoryService CategoryService, timeout time.Duration, maxImageBytes int64) *CategoryHandler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
		timeout:         timeout,
		maxImageBytes:   maxImageBytes,
	}
}

// CategoryRequest is the text part of a create/update body. It binds from
// multipart/form-data, urlencoded forms or JSON.
type CategoryRequest struct {
	CategoriaNombre string `json:"CategoriaNombre" form:"CategoriaNombre" validate:"required,max=100"`
	Descripcion     string `json:"Descripcion" form:"Descripcion" validate:"max=1000"`
}

func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories, err := h.categoryService.GetAllCategories(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategoryByID(c echo.Context) error {
	categoryID, err := parseID(c)
	if err != nil {
		return errorResponse(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category, err := h.categoryService.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		return errorResponse(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newCategory, err := h.categoryService.CreateCategory(ctx, input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, newCategory)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	categoryID, err := parseID(c)
	if err != nil {
		return errorResponse(c, err)
	}

	input, err := h.bindInput(c)
	if err != nil {
		return errorResponse(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updatedCategory, err := h.categoryService.UpdateCategory(ctx, categoryID, input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, updatedCategory)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	categoryID, err := parseID(c)
	if err != nil {
		return errorResponse(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.categoryService.DeleteCategory(ctx, categoryID); err != nil {
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) bindInput(c echo.Context) (domain.CategoryInput, error) {
	var req CategoryRequest

	if err := c.Bind(&req); err != nil {
		logger.Debug("Failed to bind category request", "error", err)
		return domain.CategoryInput{}, errBadBody
	}

	// Length limits apply to the trimmed value the service stores
	req.CategoriaNombre = strings.TrimSpace(req.CategoriaNombre)
	req.Descripcion = strings.TrimSpace(req.Descripcion)

	if err := h.validator.Struct(&req); err != nil {
		return domain.CategoryInput{}, toValidationError(err)
	}

	input := domain.CategoryInput{
		CategoriaNombre: req.CategoriaNombre,
		Descripcion:     req.Descripcion,
	}

	image, err := h.readImage(c)
	if err != nil {
		return domain.CategoryInput{}, err
	}
	input.Image = image

	return input, nil
}

// readImage returns the optional Imagen file. A missing file, or a request
// that is not multipart at all, yields nil.
func (h *CategoryHandler) readImage(c echo.Context) (*domain.ImageUpload, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		logger.Debug("Failed to read image part", "error", err)
		return nil, errBadBody
	}

	if h.maxImageBytes > 0 && fh.Size > h.maxImageBytes {
		return nil, domain.NewValidationError(imageField, fmt.Sprintf("must be at most %d bytes", h.maxImageBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxImageBytes > 0 {
		r = io.LimitReader(f, h.maxImageBytes+1)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}

	return &domain.ImageUpload{FileName: fh.Filename, Content: content}, nil
}

func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}

	return id, nil
}
