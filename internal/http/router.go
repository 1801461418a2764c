package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gfranca/userhub/internal/auth"
	"github.com/gfranca/userhub/internal/cache"
	"github.com/gfranca/userhub/internal/config"
	"github.com/gfranca/userhub/internal/domain/user"
	"github.com/gfranca/userhub/internal/http/handlers"
	"github.com/gfranca/userhub/internal/http/middlewares"
	"github.com/gfranca/userhub/internal/loginlimit"
	"github.com/gfranca/userhub/internal/observability"
	"github.com/gfranca/userhub/internal/repo/postgres"
	"github.com/gfranca/userhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(otelgin.Middleware("userhub"))
	r.Use(prom.GinHandleMiddleware())

	// The limiter keys on the authenticated user where possible, so it runs
	// per route: public routes by IP, protected routes after RequireAuth.
	limiter := middlewares.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limitByIP := limiter.RateLimiterMiddleware(middlewares.KeyByIP)
	limitByUser := limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP)

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up the stack
	usersRepo := postgres.NewUsersRepo(pool, prom)
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())
	userSvc := service.NewUserService(usersRepo, jwtManager)

	loginGuard := loginlimit.New(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow())
	readCache := cache.New(5 * time.Second)

	usersHandler := handlers.NewUsersHandler(userSvc, readCache)
	authHandler := handlers.NewAuthHandler(userSvc, loginGuard, prom)

	authmw := middlewares.NewAuthMiddleware(jwtManager)

	// public routes
	r.POST("/user", limitByIP, usersHandler.Create)
	r.POST("/login", limitByIP, authHandler.Login)

	// authenticated routes
	r.GET("/user/profile", authmw.RequireAuth(), limitByUser, usersHandler.Profile)
	r.GET("/user", authmw.RequireAuth(), limitByUser, usersHandler.GetByID)
	r.PUT("/user", authmw.RequireAuth(), limitByUser, usersHandler.Update)

	// admin-only routes
	r.GET("/users", authmw.RequireAuth(), authmw.RequireRoles(user.RoleAdmin), limitByUser, usersHandler.List)
	r.DELETE("/user", authmw.RequireAuth(), authmw.RequireRoles(user.RoleAdmin), limitByUser, usersHandler.Delete)

	return r
}
