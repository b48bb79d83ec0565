package router

import (
	"context"
	"net/http"
	"time"

	"aquafund-backend/internal/application/backend"
	"aquafund-backend/internal/application/chain"
	"aquafund-backend/internal/application/donations"
	healthsvc "aquafund-backend/internal/application/health"
	"aquafund-backend/internal/application/projects"
	uploadsvc "aquafund-backend/internal/application/uploads"
	"aquafund-backend/internal/config"
	"aquafund-backend/internal/domain"
	"aquafund-backend/internal/infrastructure/cache"
	"aquafund-backend/internal/infrastructure/database"
	accounthandler "aquafund-backend/internal/interfaces/handlers/accounts"
	chainhandler "aquafund-backend/internal/interfaces/handlers/chain"
	healthhandler "aquafund-backend/internal/interfaces/handlers/health"
	ngohandler "aquafund-backend/internal/interfaces/handlers/ngos"
	projecthandler "aquafund-backend/internal/interfaces/handlers/projects"
	"aquafund-backend/internal/interfaces/handlers/proxy"
	uploadhandler "aquafund-backend/internal/interfaces/handlers/uploads"
	userhandler "aquafund-backend/internal/interfaces/handlers/users"
	"aquafund-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// bodyLimit leaves room for a 5 MiB image plus multipart framing.
const bodyLimit = 6 << 20

const cachePrefix = "aquafund:cache:"

// CreateApp wires every route. Redis, the database, the RPC endpoint and upload storage are
// all optional; routes that need a missing one answer with a configuration error.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               bodyLimit,
	})

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		if db, err = database.Open(cfg.DatabaseURL); err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	addrs := chain.Addresses{Registry: cfg.RegistryAddress, Factory: cfg.FactoryAddress, Badge: cfg.BadgeAddress}
	var gw *chain.Gateway
	if cfg.RPCURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		g, err := chain.Dial(ctx, cfg.RPCURL, addrs)
		cancel()
		if err != nil {
			log.Warn().Err(err).Int64("chain_id", cfg.ChainID).Msg("chain: gateway unavailable, on-chain routes will answer 500")
		} else {
			gw = g
		}
	}

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	backendClient := &backend.Client{BaseURL: cfg.BackendAPIURL}
	px := &proxy.Proxy{Backend: backendClient}

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		Deps:           healthDeps(cfg, db, gw),
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	donationSvc := &donations.Service{
		Chain:    gw,
		Store:    donationStore(rdb, db),
		Currency: cfg.NativeSymbol,
	}
	ph := &projecthandler.Handlers{
		Proxy:      px,
		Aggregator: projects.NewAggregator(backendClient, gw),
		Donations:  donationSvc,
	}
	ch := &chainhandler.Handlers{Chain: gw}
	nh := &ngohandler.Handlers{Proxy: px}
	uh := &userhandler.Handlers{Proxy: px}
	ah := &accounthandler.Handlers{Proxy: px}

	uph := &uploadhandler.Handlers{}
	if cfg.Storage.Enabled() {
		svc, err := uploadsvc.NewR2(context.Background(), cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("uploads: storage unavailable")
		} else {
			uph.Uploader = svc
		}
	}

	requireAuth := middleware.RequireAuthorization()

	api := app.Group("/api")
	api.Get("/projects", ph.List)
	api.Post("/projects/cache/clear", requireAuth, ph.ClearCache)
	api.Get("/projects/:id/donations", ph.ListDonations)
	api.Get("/projects/:id/address", ch.ProjectAddress)
	api.Get("/projects/:id", ph.Get)
	api.Get("/stats", ch.Stats)
	api.Get("/chain/projects", ch.Projects)
	api.Get("/badges/:address", ch.Badges)
	api.Post("/upload", requireAuth, uph.Upload)

	api.Get("/ngos", nh.List)
	api.Post("/ngos", nh.Create)
	api.Get("/ngos/:id", nh.Get)
	api.Post("/ngos/:id/approve", requireAuth, nh.Approve)
	api.Post("/ngos/:id/reject", requireAuth, nh.Reject)

	api.Post("/accounts/create", ah.Create)
	api.Post("/accounts/login", ah.Login)

	v1 := api.Group("/v1")
	v1.Post("/projects", requireAuth, ph.Create)
	v1.Post("/users", uh.Create)
	v1.Get("/users/:id", uh.Get)
	v1.Put("/users/:id", requireAuth, uh.Update)

	return app, db, rdb, nil
}

// donationStore prefers Redis, then the database, then process memory.
func donationStore(rdb *redis.Client, db *gorm.DB) cache.Store[[]domain.DonationRecord] {
	switch {
	case rdb != nil:
		return &cache.Redis[[]domain.DonationRecord]{Rdb: rdb, Prefix: cachePrefix, Retention: donations.Retention}
	case db != nil:
		return &cache.Gorm[[]domain.DonationRecord]{DB: db, Prefix: cachePrefix}
	default:
		return cache.NewMemory[[]domain.DonationRecord]()
	}
}

// healthDeps lists probes for /health/json; nil entries show as not_configured.
func healthDeps(cfg *config.Config, db *gorm.DB, gw *chain.Gateway) map[string]healthsvc.Pinger {
	deps := map[string]healthsvc.Pinger{"database": nil, "backend": nil, "rpc": nil}
	if db != nil {
		deps["database"] = &healthsvc.GormPinger{DB: db}
	}
	if cfg.BackendAPIURL != "" {
		deps["backend"] = &healthsvc.HTTPPinger{URL: cfg.BackendAPIURL}
	}
	if gw != nil {
		deps["rpc"] = healthsvc.PingFunc(func(ctx context.Context) error {
			_, err := gw.BlockNumber(ctx)
			return err
		})
	}
	return deps
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
