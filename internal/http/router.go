// Package http wires the Gin engine: middleware chain, metrics endpoint
// and the versionless /api route groups.
package http

import (
	"net/http"
	"time"

	intconfig "tsharaki/internal/config"
	"tsharaki/internal/http/handlers"
	"tsharaki/internal/http/middleware"
	"tsharaki/internal/metrics"
	"tsharaki/internal/repositories"
	"tsharaki/internal/services"
	"tsharaki/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func NewRouter(env intconfig.Env, sessions *session.Manager) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     env.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Metrics(collector))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "route not found",
			"code":       "not_found",
			"request_id": middleware.GetRequestID(c),
		})
	})

	// Repositories read the shared pool unless a test injects its own DB.
	userRepo := repositories.UserRepository{}
	tripRepo := repositories.TripRepository{}
	bookingRepo := repositories.BookingRepository{}
	callRepo := repositories.CallRepository{}
	activityRepo := repositories.ActivityRepository{}

	activitySvc := services.ActivityService{ActivityRepo: activityRepo}
	authSvc := services.AuthService{
		UserRepo: userRepo,
		Sessions: sessions,
		Secret:   []byte(env.JWTSecret),
		TokenTTL: env.TokenTTL,
	}
	tripSvc := services.TripService{TripRepo: tripRepo, Activity: activitySvc}
	bookingSvc := services.BookingService{BookingRepo: bookingRepo, TripRepo: tripRepo, Activity: activitySvc}
	profileSvc := services.ProfileService{UserRepo: userRepo, TripRepo: tripRepo, BookingRepo: bookingRepo}
	callSvc := services.CallService{CallRepo: callRepo, Activity: activitySvc}
	docsSvc := services.DocsService{BookingRepo: bookingRepo, TripRepo: tripRepo, UserRepo: userRepo}

	authHandler := handlers.AuthHandler{Auth: authSvc}
	tripHandler := handlers.TripHandler{Trips: tripSvc, Bookings: bookingSvc, Metrics: collector}
	bookingHandler := handlers.BookingHandler{Bookings: bookingSvc, Docs: docsSvc}
	userHandler := handlers.UserHandler{Profiles: profileSvc, Sessions: sessions}
	callHandler := handlers.CallHandler{Calls: callSvc}

	authRequired := middleware.Auth(authSvc.VerifyToken, sessions)
	loginLimiter := middleware.NewLoginLimiter(env.LoginRatePerMinute)

	r.GET("/metrics", gin.WrapH(metrics.Handler(reg)))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/db-check", handlers.DBCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", loginLimiter.Middleware(), authHandler.Register)
			auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/session", authRequired, authHandler.Session)
		}

		trips := api.Group("/trips")
		{
			trips.GET("", tripHandler.List)
			trips.GET("/:id", tripHandler.Get)
			trips.POST("", authRequired, tripHandler.Create)
			trips.POST("/:id/bookings", authRequired, tripHandler.Book)
		}

		bookings := api.Group("/bookings", authRequired)
		{
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PUT("/:id/confirm", bookingHandler.Confirm)
			bookings.PUT("/:id/cancel", bookingHandler.Cancel)
			bookings.GET("/:id/receipt", bookingHandler.Receipt)
		}

		users := api.Group("/users")
		{
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", authRequired, userHandler.Update)
			users.GET("/:id/trips", userHandler.Trips)
			users.GET("/:id/bookings", authRequired, userHandler.Bookings)
		}

		calls := api.Group("/calls", authRequired)
		{
			calls.POST("/requests", callHandler.Request)
			calls.PUT("/requests/:id/connect", callHandler.Connect)
			calls.PUT("/:id/end", callHandler.End)
			calls.POST("/:id/feedback", callHandler.Feedback)
		}
	}

	return r
}
