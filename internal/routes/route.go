package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nestbay/api/internal/container"
	"github.com/nestbay/api/internal/handlers"
	"github.com/nestbay/api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "nestbay-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.CreateUser(container.UserService))
		v1.POST("/login", handlers.AuthenticateUser(container.UserService))
		v1.POST("/logout", handlers.Logout())

		// browsing and availability need no identity
		v1.GET("/houses", handlers.ListHouses(container.HouseService))
		v1.GET("/houses/:id", handlers.GetHouse(container.HouseService))
		v1.POST("/houses/check", handlers.CheckDates(container.BookingService))
		v1.POST("/houses/booked", handlers.BookedDates(container.BookingService))

		// unpaid-booking sweep; same grace-period semantics as the background
		// sweeper
		v1.POST("/bookings/clean", handlers.CleanBookings(container.BookingService))

		// signature-verified by the handler itself
		v1.POST("/stripe/webhook", handlers.StripeWebhook(container.PaymentService, container.BookingService, container.Logger))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.UserService, container.Logger))

	{
		protected.POST("/houses/reserve", handlers.ReserveHouse(container.BookingService))
		protected.GET("/bookings", handlers.ListBookings(container.BookingService))
		protected.POST("/stripe/session", handlers.CreateCheckoutSession(container.PaymentService))
		protected.POST("/houses/:id/reviews", handlers.CreateReview(container.ReviewService))
	}

	hostRoutes := protected.Group("/host")
	{
		hostRoutes.GET("/dashboard", handlers.HostDashboard(container.BookingService))
		hostRoutes.POST("/houses", handlers.CreateHouse(container.HouseService))
		hostRoutes.PATCH("/houses/:id", handlers.UpdateHouse(container.HouseService))
		hostRoutes.POST("/image", handlers.UploadHouseImage())
	}

	return r
}
