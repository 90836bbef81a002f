package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quanmat/fasalmitra-backend/api/controllers"
	"github.com/quanmat/fasalmitra-backend/api/middleware"
	"github.com/quanmat/fasalmitra-backend/internal/auth"
	"github.com/quanmat/fasalmitra-backend/internal/catalog"
	"github.com/quanmat/fasalmitra-backend/internal/contracts"
	"github.com/quanmat/fasalmitra-backend/internal/disputes"
	"github.com/quanmat/fasalmitra-backend/internal/notifications"
	"github.com/quanmat/fasalmitra-backend/internal/payments"
	"github.com/quanmat/fasalmitra-backend/internal/profiles"
	"github.com/quanmat/fasalmitra-backend/internal/tenders"
	"github.com/quanmat/fasalmitra-backend/internal/users"
	"github.com/quanmat/fasalmitra-backend/internal/verification"
	"github.com/quanmat/fasalmitra-backend/pkg/auth/session"
	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/db"
	"github.com/quanmat/fasalmitra-backend/pkg/logger"
	"github.com/quanmat/fasalmitra-backend/pkg/metrics"
	"github.com/quanmat/fasalmitra-backend/pkg/redis"
)

// Services bundles everything the router hands to controllers.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	AdminRegister auth.AdminRegisterService
	Users         users.Service
	Profiles      profiles.Service
	Verification  verification.Service
	Catalog       catalog.Service
	Contracts     contracts.Service
	Payments      payments.Service
	Disputes      disputes.Service
	Tenders       tenders.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	sessionChecker session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})
	if httpMetrics != nil {
		r.Handle("/metrics", httpMetrics.Handler())
	}

	// Provider callback, authenticated by verification id rather than a session.
	r.Post("/esign-webhook", controllers.EsignWebhook(svcs.Contracts, logg))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/verify-email", controllers.AuthVerifyEmail(svcs.Register, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(svcs.AdminRegister, svcs.Auth, cfg, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(svcs.Auth, logg))
	})

	// Tenders are open to unauthenticated transporters.
	r.Route("/api/v1/tenders", func(r chi.Router) {
		r.Get("/", controllers.ListActiveTenders(svcs.Tenders, logg))
		r.With(middleware.Idempotency(redisClient, logg)).Post("/applications", controllers.ApplyToTender(svcs.Tenders, logg))
	})

	r.Get("/api/v1/profiles/{userId}", controllers.ProfilePublic(svcs.Profiles, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/users/me", controllers.Me(svcs.Users, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svcs.Profiles, logg))
			r.Put("/", controllers.ProfileUpdate(svcs.Profiles, logg))
		})

		r.Route("/verification", func(r chi.Router) {
			r.Get("/status", controllers.VerificationStatus(svcs.Verification, logg))
			r.Post("/government-id", controllers.SubmitGovernmentID(svcs.Verification, logg))
			r.Post("/land", controllers.SubmitLandInformation(svcs.Verification, logg))
			r.Post("/gst", controllers.SubmitGSTInfo(svcs.Verification, logg))
			r.Post("/address", controllers.SubmitAddress(svcs.Verification, logg))
			r.Post("/aadhaar/request-otp", controllers.RequestAadhaarOTP(svcs.Verification, logg))
			r.Post("/aadhaar/verify-otp", controllers.VerifyAadhaarOTP(svcs.Verification, logg))
		})

		r.Get("/crops", controllers.ListCrops(svcs.Catalog, logg))

		r.Route("/business/contract-templates", func(r chi.Router) {
			r.Post("/", controllers.CreateContractTemplate(svcs.Catalog, logg))
			r.Get("/", controllers.ListContractTemplates(svcs.Catalog, logg))
			r.Get("/{templateId}", controllers.GetContractTemplate(svcs.Catalog, logg))
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Post("/", controllers.AcceptContractTemplate(svcs.Contracts, logg))
			r.Get("/", controllers.ListContracts(svcs.Contracts, logg))
			r.Get("/{contractId}", controllers.GetContract(svcs.Contracts, logg))
			r.Post("/{contractId}/esign", controllers.InitiateEsign(svcs.Contracts, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/orders", controllers.ListOrders(svcs.Payments, logg))
			r.Get("/contract/{contractId}", controllers.GetContractOrder(svcs.Payments, logg))
			r.Get("/create/{contractId}/{stage}", controllers.CreateStagePayment(svcs.Payments, logg))
			r.Get("/status/{paymentId}", controllers.PaymentStatus(svcs.Payments, logg))
		})

		r.Route("/disputes", func(r chi.Router) {
			r.Post("/", controllers.CreateDispute(svcs.Disputes, logg))
			r.Get("/", controllers.ListOwnDisputes(svcs.Disputes, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/verification/{userId}", func(r chi.Router) {
			r.Post("/government-id", controllers.AdminVerifyGovernmentID(svcs.Verification, logg))
			r.Post("/land", controllers.AdminVerifyLandInformation(svcs.Verification, logg))
			r.Post("/gst", controllers.AdminVerifyGSTInfo(svcs.Verification, logg))
		})

		r.Post("/crops", controllers.AdminCreateCrop(svcs.Catalog, logg))
		r.Post("/contract-templates/{templateId}/approve", controllers.AdminApproveTemplate(svcs.Catalog, logg))

		r.Route("/disputes", func(r chi.Router) {
			r.Get("/", controllers.AdminListDisputes(svcs.Disputes, logg))
			r.Post("/{disputeId}/resolve", controllers.AdminResolveDispute(svcs.Disputes, logg))
		})

		r.Route("/tenders", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateTender(svcs.Tenders, logg))
			r.Get("/{tenderId}/applications", controllers.AdminListTenderApplications(svcs.Tenders, logg))
			r.Post("/applications/{applicationId}/status", controllers.AdminUpdateTenderApplication(svcs.Tenders, logg))
		})
	})

	return r
}
