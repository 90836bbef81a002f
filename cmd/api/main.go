package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/quanmat/fasalmitra-backend/api/routes"
	"github.com/quanmat/fasalmitra-backend/internal/auth"
	"github.com/quanmat/fasalmitra-backend/internal/catalog"
	"github.com/quanmat/fasalmitra-backend/internal/contracts"
	"github.com/quanmat/fasalmitra-backend/internal/disputes"
	"github.com/quanmat/fasalmitra-backend/internal/notifications"
	"github.com/quanmat/fasalmitra-backend/internal/notify"
	"github.com/quanmat/fasalmitra-backend/internal/payments"
	"github.com/quanmat/fasalmitra-backend/internal/profiles"
	"github.com/quanmat/fasalmitra-backend/internal/tenders"
	"github.com/quanmat/fasalmitra-backend/internal/users"
	"github.com/quanmat/fasalmitra-backend/internal/verification"
	"github.com/quanmat/fasalmitra-backend/pkg/auth/session"
	"github.com/quanmat/fasalmitra-backend/pkg/cashfree"
	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/db"
	"github.com/quanmat/fasalmitra-backend/pkg/logger"
	"github.com/quanmat/fasalmitra-backend/pkg/mailer"
	"github.com/quanmat/fasalmitra-backend/pkg/metrics"
	"github.com/quanmat/fasalmitra-backend/pkg/migrate"
	"github.com/quanmat/fasalmitra-backend/pkg/razorpay"
	"github.com/quanmat/fasalmitra-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	mailSender, err := mailer.NewSMTPSender(cfg.SMTP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail sender", err)
		os.Exit(1)
	}

	cashfreeClient, err := cashfree.NewClient(cfg.Cashfree, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cashfree client", err)
		os.Exit(1)
	}

	razorpayClient, err := razorpay.NewClient(cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay client", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	verificationRepo := verification.NewRepository(gormDB)
	profilesRepo := profiles.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	contractsRepo := contracts.NewRepository(gormDB)
	paymentsRepo := payments.NewRepository(gormDB)
	disputesRepo := disputes.NewRepository(gormDB)
	tendersRepo := tenders.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)

	notifier, err := notify.New(notificationsRepo, mailSender, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		UserRepo:         usersRepo,
		VerificationRepo: verificationRepo,
		ProfileRepo:      profilesRepo,
		Notifier:         notifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userRepoFactory, tokenRepoFactory := auth.GormRegisterFactories()
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:         dbClient,
		UserRepoFactory:  userRepoFactory,
		TokenRepoFactory: tokenRepoFactory,
		PasswordConfig:   cfg.Password,
		AppConfig:        cfg.App,
		Notifier:         notifier,
		UsersService:     usersService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	adminRegisterService, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin register service", err)
		os.Exit(1)
	}

	profilesService, err := profiles.NewService(profiles.ServiceParams{
		UserRepo:    usersRepo,
		ProfileRepo: profilesRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	verificationService, err := verification.NewService(verification.ServiceParams{
		Repo:         verificationRepo,
		UserRepo:     usersRepo,
		UsersService: usersService,
		Notifier:     notifier,
		Aadhaar:      cashfreeClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create verification service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:     catalogRepo,
		UserRepo: usersRepo,
		Notifier: notifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	contractsService, err := contracts.NewService(contracts.ServiceParams{
		Repo:         contractsRepo,
		TemplateRepo: catalogRepo,
		UserRepo:     usersRepo,
		OrderRepo:    paymentsRepo,
		Esign:        cashfreeClient,
		Estimator:    contracts.NewHeuristicEstimator(),
		Notifier:     notifier,
		AppConfig:    cfg.App,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create contracts service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Repo:      paymentsRepo,
		Contracts: contractsRepo,
		Gateway:   razorpayClient,
		TxRunner:  dbClient,
		Notifier:  notifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	disputesService, err := disputes.NewService(disputes.ServiceParams{
		Repo:      disputesRepo,
		Contracts: contractsRepo,
		Users:     usersRepo,
		Notifier:  notifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create disputes service", err)
		os.Exit(1)
	}

	tendersService, err := tenders.NewService(tenders.ServiceParams{
		Repo:     tendersRepo,
		Notifier: notifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tenders service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, sessionManager, routes.Services{
			Auth:          authService,
			Register:      registerService,
			AdminRegister: adminRegisterService,
			Users:         usersService,
			Profiles:      profilesService,
			Verification:  verificationService,
			Catalog:       catalogService,
			Contracts:     contractsService,
			Payments:      paymentsService,
			Disputes:      disputesService,
			Tenders:       tendersService,
			Notifications: notificationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
