package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/service"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/health"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/middleware"
)

// RouterConfig carries the pieces the router wires together.
type RouterConfig struct {
	Products      *service.ProductService
	Reviews       *service.ReviewService
	Users         *service.UserService
	Payments      *service.PaymentService
	TokenValidate middleware.TokenValidator
	Health        *health.Handler
	Logger        *slog.Logger
	CORS          middleware.CORSConfig
	CookieExpiry  time.Duration
	SecureCookies bool
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("shop-backend"))

	// Operational endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	productHandler := NewProductHandler(cfg.Products, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.Reviews, cfg.Logger)
	userHandler := NewUserHandler(cfg.Users, cfg.Logger, cfg.CookieExpiry, cfg.SecureCookies)
	paymentHandler := NewPaymentHandler(cfg.Payments, cfg.Logger)

	authed := middleware.Auth(cfg.TokenValidate)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog
		r.Get("/products", productHandler.ListProducts)
		r.Get("/product/{id}", productHandler.GetProduct)
		r.Get("/reviews", reviewHandler.ListReviews)

		// Accounts
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Get("/logout", userHandler.Logout)
		r.Post("/password/forgot", userHandler.ForgotPassword)
		r.Put("/password/reset/{token}", userHandler.ResetPassword)

		// Authenticated. RequestLogger runs again after Auth so the
		// request-scoped logger picks up user_id.
		r.Group(func(r chi.Router) {
			r.Use(authed, middleware.RequestLogger(cfg.Logger))

			r.Get("/me", userHandler.GetProfile)
			r.Put("/me/update", userHandler.UpdateProfile)
			r.Put("/password/update", userHandler.UpdatePassword)

			r.Put("/review", reviewHandler.UpsertReview)
			r.Delete("/reviews", reviewHandler.DeleteReview)

			r.Post("/payment/process", paymentHandler.ProcessPayment)
		})

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(authed, adminOnly, middleware.RequestLogger(cfg.Logger))

			r.Get("/admin/products", productHandler.ListAllProducts)
			r.Post("/admin/product/new", productHandler.CreateProduct)
			r.Put("/admin/product/{id}", productHandler.UpdateProduct)
			r.Delete("/admin/product/{id}", productHandler.DeleteProduct)

			r.Get("/admin/users", userHandler.ListUsers)
			r.Get("/admin/user/{id}", userHandler.GetUser)
			r.Put("/admin/user/{id}", userHandler.UpdateUser)
			r.Delete("/admin/user/{id}", userHandler.DeleteUser)
		})
	})

	return r
}
