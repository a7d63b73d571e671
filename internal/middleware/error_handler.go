package middleware

import (
	"errors"
	"net/http"

	"github.com/LuigyJJ/invfarm2/pkg/logger"
	jsonres "github.com/LuigyJJ/invfarm2/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors returned from handlers and echo itself in the
// same body shape the category handlers use.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	body := jsonres.Error(jsonres.KindForStatus(status), message, nil)

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}
