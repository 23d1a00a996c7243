package server

import (
	"context"
	"net/http"

	"gymcontrol/internal/access"
	"gymcontrol/internal/auth"
	"gymcontrol/internal/config"
	"gymcontrol/internal/gym"
	"gymcontrol/internal/membership"
	"gymcontrol/internal/notify"
	"gymcontrol/internal/payment"
	"gymcontrol/internal/snapshot"
	"gymcontrol/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	notify *notify.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifyService *notify.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	clientRepo := membership.NewRepository(db)
	membershipService := membership.NewService(clientRepo)
	membershipHandler := membership.NewHandler(membershipService)

	accessRepo := access.NewRepository(db)
	accessService := access.NewService(clientRepo, membershipService, accessRepo)
	accessHandler := access.NewHandler(accessService, accessRepo)

	paymentRepo := payment.NewRepository(db)
	paymentHandler := payment.NewHandler(paymentRepo)

	gymRepo := gym.NewRepository(db)
	gymService := gym.NewService(gymRepo)
	gymHandler := gym.NewHandler(gymService)

	snapshotRepo := snapshot.NewRepository(db)
	snapshotService := snapshot.NewService(snapshotRepo, clientRepo, paymentRepo, accessRepo)
	snapshotDriver := snapshot.NewDriver(gymRepo, paymentRepo, snapshotService)
	snapshotHandler := snapshot.NewHandler(snapshotService, snapshotDriver)

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, cfg.JWTSecret)
	userHandler := user.NewHandler(userService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.POST("/clients", membershipHandler.CreateClient)
		protected.GET("/clients/:clientID", membershipHandler.GetClient)
		protected.POST("/clients/:clientID/renew", membershipHandler.RenewClient)

		protected.POST("/access/validate", accessHandler.Validate)
		protected.POST("/access/register", accessHandler.Register)
		protected.GET("/access/logs", accessHandler.ListLogs)

		protected.POST("/payments", paymentHandler.Record)
		protected.GET("/payments", paymentHandler.List)

		protected.GET("/gyms", gymHandler.ListGyms)
		protected.GET("/gyms/:gymID", gymHandler.GetGym)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/gyms", gymHandler.CreateGym)
		admin.GET("/gyms", gymHandler.ListGyms)
		admin.PATCH("/gyms/:gymID/active", gymHandler.SetActive)
		admin.POST("/gyms/:gymID/expire-sweep", membershipHandler.ExpireSweep)

		admin.POST("/snapshots/generate", snapshotHandler.Generate)
		admin.POST("/snapshots/run-monthly", snapshotHandler.RunMonthly)
		admin.POST("/snapshots/backfill", snapshotHandler.Backfill)
		admin.GET("/gyms/:gymID/snapshots", snapshotHandler.ListByGym)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		notify: notifyService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

// Shutdown stops accepting new connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
