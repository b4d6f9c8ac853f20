package routes

import (
	"net/http"

	"github.com/M7HZ/bright-clinic/cache"
	"github.com/M7HZ/bright-clinic/config"
	"github.com/M7HZ/bright-clinic/controllers"
	"github.com/M7HZ/bright-clinic/handlers"
	"github.com/M7HZ/bright-clinic/middlewares"
	"github.com/M7HZ/bright-clinic/repositories"
	"github.com/M7HZ/bright-clinic/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server.
// broker may be nil when AMQP is not configured; booking then skips
// event publishing.
func SetupRoutes(cache *cache.Cache, cfg *config.AppConfig, db *gorm.DB, broker services.BookedPublisher) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(cfg.GetBearerToken()))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://portal.brightclinic.example"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	router.Use(middlewares.LoggingMiddleware())
	router.Use(middlewares.MetricsMiddleware())

	// Repositories
	userRepo := repositories.NewUserRepository(db, cache)
	doctorRepo := repositories.NewDoctorRepository(db, cache)
	appointmentRepo := repositories.NewAppointmentRepository(db, cache)
	recordRepo := repositories.NewRecordRepository(db, cache)

	// Services, with a breaker per postgres dependency
	authService := services.NewAuthService(userRepo, config.NewCircuitBreaker("PostgreSQL-Roles"))
	appointmentService := services.NewAppointmentService(
		appointmentRepo, doctorRepo, userRepo,
		config.NewCircuitBreaker("PostgreSQL-Lookups"),
	)
	bookingService := services.NewBookingService(appointmentRepo, doctorRepo, broker)
	recordService := services.NewRecordService(recordRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, bookingService)
	recordHandler := handlers.NewRecordHandler(recordService)

	// Register routes
	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupDashboardRoutes(router, appointmentHandler, recordHandler)

	controllers.SetupRootRoute(router)

	return router
}
