package router

import (
	"net/http"

	"github.com/LuigyJJ/invfarm2/app/echo-server/metrics"
	"github.com/LuigyJJ/invfarm2/internal/middleware"
	"github.com/LuigyJJ/invfarm2/internal/repository/storage"
	"github.com/LuigyJJ/invfarm2/internal/rest"
	"github.com/LuigyJJ/invfarm2/web"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	AllowedOrigins []string
	// BodyLimit as accepted by echo's BodyLimit middleware, e.g. "6M".
	BodyLimit string
	// UploadsDir is served under /uploads when images are stored locally.
	UploadsDir string
}

// New builds the echo instance with global middleware and every route.
func New(opts Options, categoryHandler *rest.CategoryHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	api := e.Group("/api")
	if opts.BodyLimit != "" {
		api.Use(echomiddleware.BodyLimit(opts.BodyLimit))
	}
	SetupCategoryRoutes(api, categoryHandler)

	SetupWebRoutes(e, opts.UploadsDir)
	SetupOpsRoutes(e)

	return e
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler) {
	categories := api.Group("/categorias")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory)
	categories.PUT("/:id", handler.UpdateCategory)
	categories.DELETE("/:id", handler.DeleteCategory)
}

func SetupWebRoutes(e *echo.Echo, uploadsDir string) {
	assets := web.Assets()

	e.FileFS("/", "index.html", assets)
	e.StaticFS("/js", echo.MustSubFS(assets, "js"))
	e.StaticFS("/css", echo.MustSubFS(assets, "css"))

	if uploadsDir != "" {
		e.Static(storage.URLPrefix, uploadsDir)
	}
}

func SetupOpsRoutes(e *echo.Echo) {
	e.GET("/health", rest.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
