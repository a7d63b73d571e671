package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/LuigyJJ/invfarm2/domain"
	"github.com/LuigyJJ/invfarm2/pkg/logger"
	jsonres "github.com/LuigyJJ/invfarm2/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var errBadBody = errors.New("invalid request body")

// errorResponse maps service errors onto status codes and the shared error
// body. Store failures never leak driver messages to the client.
func errorResponse(c echo.Context, err error) error {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, jsonres.Error(jsonres.KindValidation, ve.Error(), ve.Fields))
	case errors.Is(err, domain.ErrInvalidID):
		return c.JSON(http.StatusBadRequest, jsonres.Error(jsonres.KindBadRequest, err.Error(), nil))
	case errors.Is(err, errBadBody):
		return c.JSON(http.StatusBadRequest, jsonres.Error(jsonres.KindBadRequest, err.Error(), nil))
	case errors.Is(err, domain.ErrCategoryNotFound):
		return c.JSON(http.StatusNotFound, jsonres.Error(jsonres.KindNotFound, err.Error(), nil))
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("Category request timed out", "path", c.Path(), "error", err)
		return c.JSON(http.StatusGatewayTimeout, jsonres.Error(jsonres.KindStore, "request timed out", nil))
	default:
		logger.Error("Category request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, jsonres.Error(jsonres.KindStore, "store failure", nil))
	}
}

// toValidationError converts validator failures into per-field messages
// keyed by the request field name.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &domain.ValidationError{Fields: map[string]string{"_": err.Error()}}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}

	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
