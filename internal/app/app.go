package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nischalsh/todo-service/internal/config"
	"github.com/nischalsh/todo-service/internal/handler"
	"github.com/nischalsh/todo-service/internal/oauth"
	"github.com/nischalsh/todo-service/internal/repository"
	"github.com/nischalsh/todo-service/internal/scheduler"
	"github.com/nischalsh/todo-service/internal/service"
	"github.com/nischalsh/todo-service/internal/utils"
	"github.com/nischalsh/todo-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
	reaper *scheduler.Reaper
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)
	googleClient := oauth.NewGoogleClient(cfg.Google)

	authService := service.NewAuthService(
		repos.User,
		jwtManager,
		infra.Avatars(),
		googleClient,
		infra.Logger(),
		cfg.Security.BCryptCost,
	)

	todoService := service.NewTodoService(repos.Todo)

	var reaper *scheduler.Reaper
	if cfg.Reaper.Enabled {
		reaper = scheduler.NewReaper(
			repos.Todo,
			scheduler.NewRedisTickLock(infra.Redis()),
			scheduler.SystemClock(),
			infra.Logger(),
			cfg.Reaper.StaleAge.Duration,
			cfg.Reaper.LockTTL.Duration,
		)
	}

	authHandler := handler.NewAuthHandler(
		authService,
		jwtManager.GetRefreshTokenExpiry(),
		cfg.Env == "production",
	)
	todoHandler := handler.NewTodoHandler(todoService)

	router := gin.Default()
	router.Use(otelgin.Middleware("todo-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, todoHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
		reaper: reaper,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	todoHandler *handler.TodoHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				authHandler.Register,
			)
			auth.POST("/login",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				authHandler.Login,
			)
			auth.POST("/google", authHandler.GoogleLogin)
			auth.POST("/refreshToken", authHandler.Refresh)
			auth.POST("/logout", handler.AuthMiddleware(authService), authHandler.Logout)
			auth.GET("/profile", handler.AuthMiddleware(authService), authHandler.Profile)

			user := auth.Group("/user", handler.AuthMiddleware(authService))
			{
				user.PATCH("/change-password", authHandler.ChangePassword)
				user.PATCH("/update-account", authHandler.UpdateAccount)
				user.PATCH("/update-avatar", authHandler.UpdateAvatar)
				user.DELETE("/delete-account", authHandler.DeleteAccount)
			}
		}

		todo := api.Group("/todo", handler.AuthMiddleware(authService))
		{
			todo.POST("/create", todoHandler.Create)
			todo.GET("/todolist", todoHandler.List)
			todo.GET("/filter/criteria", todoHandler.Filter)
			todo.GET("/single/:id", todoHandler.GetOne)
			todo.PATCH("/edit/:id", todoHandler.Update)
			todo.DELETE("/delete/:id", todoHandler.Delete)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	if a.reaper != nil {
		a.reaper.Start(ctx)
	}

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	if a.reaper != nil {
		a.reaper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
