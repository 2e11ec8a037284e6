package routes

import (
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/domain/auth"
	"github.com/autornexus/platform/internal/app/domain/bookings"
	"github.com/autornexus/platform/internal/app/domain/dashcache"
	"github.com/autornexus/platform/internal/app/domain/drivers"
	"github.com/autornexus/platform/internal/app/domain/navstate"
	"github.com/autornexus/platform/internal/app/domain/payments"
	"github.com/autornexus/platform/internal/app/domain/session"
	"github.com/autornexus/platform/internal/app/domain/shell"
	"github.com/autornexus/platform/internal/app/domain/stats"
	"github.com/autornexus/platform/internal/app/domain/users"
	"github.com/autornexus/platform/internal/app/domain/vehicles"
	"github.com/autornexus/platform/internal/app/middleware"
	"github.com/autornexus/platform/internal/app/models"
	"github.com/autornexus/platform/internal/pkg/config"
)

type AppHandlers struct {
	Auth     *auth.Handlers
	Shell    *shell.Handlers
	Vehicles *vehicles.Handlers
	Drivers  *drivers.Handlers
	Bookings *bookings.Handlers
	Payments *payments.Handlers
	Stats    *stats.Handlers
	Users    *users.Handlers

	Sessions session.Store
}

// Setup wires repositories, services and handlers and registers every route.
func Setup(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, log *zap.Logger) {
	handlers := setupDependencies(cfg, dbPool, redisClient, log)
	setupRouter(r, cfg, handlers)
}

func setupDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, log *zap.Logger) *AppHandlers {
	// Shell state stores
	sessionStore := session.NewRedisStore(redisClient, log, cfg.Session.ExpiryWindow)
	navStore := navstate.NewRedisStore(redisClient, log)
	dashStore := dashcache.NewRedisStore(redisClient, log)
	dispatcher := shell.NewDispatcher(sessionStore, navStore, dashStore, log)

	// Repositories
	authRepo := auth.NewPostgresRepo(dbPool, log)
	vehiclesRepo := vehicles.NewPostgresRepo(dbPool, log)
	driversRepo := drivers.NewPostgresRepo(dbPool, log)
	bookingsRepo := bookings.NewPostgresRepo(dbPool, log)
	paymentsRepo := payments.NewPostgresRepo(dbPool, log)
	statsRepo := stats.NewPostgresRepo(dbPool, log)
	usersRepo := users.NewPostgresRepo(dbPool, log)

	// Services
	authService := auth.NewService(authRepo, dispatcher, cfg, log)
	vehiclesService := vehicles.NewService(vehiclesRepo, log)
	driversService := drivers.NewService(driversRepo, log)
	bookingsService := bookings.NewService(bookingsRepo, driversService, log)
	paymentsProvider := payments.NewStripeProvider(cfg.Stripe.APIKey)
	paymentsService := payments.NewService(paymentsRepo, bookingsRepo, paymentsProvider, log)
	statsService := stats.NewService(statsRepo, log)
	usersService := users.NewService(usersRepo, log)

	return &AppHandlers{
		Auth:     auth.NewHandlers(authService, log),
		Shell:    shell.NewHandlers(dispatcher, log),
		Vehicles: vehicles.NewHandlers(vehiclesService, log),
		Drivers:  drivers.NewHandlers(driversService, log),
		Bookings: bookings.NewHandlers(bookingsService, log),
		Payments: payments.NewHandlers(paymentsService, log),
		Stats:    stats.NewHandlers(statsService, log),
		Users:    users.NewHandlers(usersService, log),
		Sessions: sessionStore,
	}
}

func setupRouter(r *gin.Engine, cfg *config.Config, h *AppHandlers) {
	// Pprof debugging routes
	debugGroup := r.Group("/debug/pprof")
	{
		debugGroup.GET("/", gin.WrapH(http.HandlerFunc(pprof.Index)))
		debugGroup.GET("/cmdline", gin.WrapH(http.HandlerFunc(pprof.Cmdline)))
		debugGroup.GET("/profile", gin.WrapH(http.HandlerFunc(pprof.Profile)))
		debugGroup.GET("/trace", gin.WrapH(http.HandlerFunc(pprof.Trace)))
		debugGroup.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		debugGroup.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		debugGroup.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public surface. The shell endpoint reads the Authorization header
	// itself so anonymous visitors still get a usable shell.
	api.POST("/users/signup", h.Auth.Signup)
	api.POST("/users/login", h.Auth.Login)
	api.GET("/vehicles", h.Vehicles.List)
	api.GET("/vehicles/:id", h.Vehicles.Get)
	api.GET("/app/shell", h.Shell.GetShell)

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(cfg.JWT.SecretKey, h.Sessions))
	{
		authed.POST("/users/logout", h.Auth.Logout)
		authed.GET("/users/me", h.Auth.Me)
		authed.PUT("/users/me", h.Users.UpdateProfile)

		authed.POST("/app/navigate", h.Shell.Navigate)
		authed.POST("/app/dashboard/:scope", h.Shell.SaveDashboard)
		authed.GET("/app/dashboard/:scope", h.Shell.GetDashboard)

		authed.POST("/bookings", h.Bookings.Create)
		authed.GET("/bookings/my", h.Bookings.MyBookings)
		authed.GET("/bookings/:id", h.Bookings.Get)

		authed.POST("/payments/create-order", h.Payments.CreateOrder)
		authed.POST("/payments/verify", h.Payments.Verify)
	}

	staff := api.Group("/")
	staff.Use(middleware.AuthMiddleware(cfg.JWT.SecretKey, h.Sessions))
	staff.Use(middleware.RequireRole(models.RoleManager, models.RoleAdmin))
	{
		staff.GET("/bookings", h.Bookings.All)
		staff.PATCH("/bookings/:id/status", h.Bookings.UpdateStatus)
		staff.POST("/bookings/:id/assign-driver", h.Bookings.AssignDriver)
		staff.GET("/bookings/available-drivers", h.Bookings.AvailableDrivers)

		staff.POST("/vehicles", h.Vehicles.Create)
		staff.PUT("/vehicles/:id", h.Vehicles.Update)
		staff.DELETE("/vehicles/:id", h.Vehicles.Delete)

		staff.POST("/drivers", h.Drivers.Register)
		staff.GET("/drivers", h.Drivers.List)
		staff.GET("/drivers/:id", h.Drivers.Get)
		staff.PATCH("/drivers/:id/status", h.Drivers.UpdateStatus)

		staff.GET("/stats/overview", h.Stats.Overview)
	}

	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.SecretKey, h.Sessions))
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", h.Users.List)
		admin.GET("/users/:id", h.Users.Get)
		admin.PATCH("/users/:id/role", h.Users.UpdateRole)
		admin.PATCH("/users/:id/active", h.Users.SetActive)
		admin.DELETE("/users/:id", h.Users.Delete)

		admin.POST("/drivers/:id/verify", h.Drivers.Verify)
		admin.DELETE("/drivers/:id", h.Drivers.Delete)
	}
}
