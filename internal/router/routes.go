package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/1-to-100/baseplate-v3-sub003/internal/auth"
	"github.com/1-to-100/baseplate-v3-sub003/internal/config"
	"github.com/1-to-100/baseplate-v3-sub003/internal/handler"
	middlewarepkg "github.com/1-to-100/baseplate-v3-sub003/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserAdminHandler
	Companies   *handler.CompaniesHandler
	Lists       *handler.ListsHandler
	AdminUpload *handler.AdminUploadHandler
	Generation  *handler.GenerationHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/companies/search", handlers.Companies.Search)
	secured.GET("/companies/:id", handlers.Companies.Get)
	secured.PATCH("/companies/:id", handlers.Companies.Update)

	secured.GET("/lists", handlers.Lists.List)
	secured.POST("/lists", handlers.Lists.Create)
	secured.PATCH("/lists/:id", handlers.Lists.Update)
	secured.DELETE("/lists/:id", handlers.Lists.Delete)
	secured.POST("/lists/:id/members", handlers.Lists.AddMembers)
	secured.DELETE("/lists/:id/members", handlers.Lists.RemoveMembers)

	if handlers.Generation != nil {
		secured.POST("/generate", handlers.Generation.Enqueue, middlewarepkg.GenerateRateLimiter(cfg.RateLimitGenerate))
	}

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.POST("/upload-csv", handlers.AdminUpload.UploadCSV)
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
