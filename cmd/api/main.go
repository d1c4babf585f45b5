package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/1-to-100/baseplate-v3-sub003/internal/auth"
	"github.com/1-to-100/baseplate-v3-sub003/internal/config"
	"github.com/1-to-100/baseplate-v3-sub003/internal/database"
	"github.com/1-to-100/baseplate-v3-sub003/internal/handler"
	middlewarepkg "github.com/1-to-100/baseplate-v3-sub003/internal/middleware"
	"github.com/1-to-100/baseplate-v3-sub003/internal/repository"
	"github.com/1-to-100/baseplate-v3-sub003/internal/router"
	"github.com/1-to-100/baseplate-v3-sub003/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	companiesRepo := repository.NewPGXCompaniesRepository(pool)
	listsRepo := repository.NewPGXListsRepository(pool)

	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo)
	companiesService := service.NewCompaniesService(companiesRepo, listsRepo, usersRepo, cfg.ScopePageSize)
	listsService := service.NewListsService(listsRepo, usersRepo)

	httpClient := &http.Client{Timeout: 15 * time.Second}

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Users:       handler.NewUserAdminHandler(userService),
		Companies:   handler.NewCompaniesHandler(companiesService),
		Lists:       handler.NewListsHandler(listsService),
		AdminUpload: handler.NewAdminUploadHandler(companiesService),
		Generation:  handler.NewGenerationHandler(httpClient, cfg.GenerationBaseURL),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
