package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kantor-pay/kantor_pay/internal/auth"
	"github.com/kantor-pay/kantor_pay/internal/balance"
	"github.com/kantor-pay/kantor_pay/internal/config"
	"github.com/kantor-pay/kantor_pay/internal/identity"
	"github.com/kantor-pay/kantor_pay/internal/middleware"
	"github.com/kantor-pay/kantor_pay/internal/notification"
	"github.com/kantor-pay/kantor_pay/internal/rates"
	"github.com/kantor-pay/kantor_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var balances balance.Store
	if d.DB != nil {
		balances = balance.NewPostgresStore(d.DB)
	} else {
		balances = balance.NewMemoryStore()
	}

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg)
	authHandler := auth.NewHandler(identitySvc, authSvc)

	nbp := rates.NewNBPClient(d.Cfg.NBPBaseURL, d.Cfg.RatesFetchTimeout)
	var cacheOpts []rates.CacheOption
	if d.Cfg.RatesServeStale {
		cacheOpts = append(cacheOpts, rates.WithServeStale())
	}
	rateCache := rates.NewCache(nbp, d.Cfg.RatesTTL, d.Logger, cacheOpts...)

	var snapshots *wallet.SnapshotCache
	if d.Cache != nil {
		snapshots = wallet.NewSnapshotCache(d.Cache, d.Cfg.SnapshotCacheTTL, d.Logger)
	}
	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(balances, rateCache, snapshots, notifier, d.Cfg.ReferenceCurrency)
	walletHandler := wallet.NewHandler(walletSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(d.Cfg))
	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		user, err := identityRepo.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"user_id":    user.ID,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		})
	})
	RegisterWalletRoutes(protected, walletHandler)

	return nil
}
