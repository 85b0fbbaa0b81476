package handlers

import (
	"github.com/carwash/carwash-backend/internal/middleware"
	"github.com/carwash/carwash-backend/internal/services"
	"github.com/carwash/carwash-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers groups the route handlers
type Handlers struct {
	Health      *HealthHandler
	User        *UserHandler
	Service     *ServiceHandler
	Booking     *BookingHandler
	Vehicle     *VehicleHandler
	Transaction *TransactionHandler
	Review      *ReviewHandler
	Admin       *AdminHandler
}

// Limiters holds one limiter per route class. A nil limiter disables limiting for that class.
type Limiters struct {
	General *services.RateLimitService
	Auth    *services.RateLimitService
	Booking *services.RateLimitService
	Admin   *services.RateLimitService
}

// SetupRoutes mounts every endpoint on router
func SetupRoutes(router *gin.Engine, h Handlers, limiters Limiters, jwtService *jwt.Service, logger *logrus.Logger) {
	limit := func(l *services.RateLimitService) gin.HandlerFunc {
		if l == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(l, logger)
	}
	auth := middleware.AuthMiddleware(jwtService, logger)
	admin := middleware.RequireAdmin()

	router.GET("/health", h.Health.Health)

	api := router.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", limit(limiters.Auth), h.User.Register)
		users.POST("/login", limit(limiters.Auth), h.User.Login)

		protected := users.Group("", auth, limit(limiters.General))
		protected.GET("/profile", h.User.GetProfile)
		protected.PUT("/profile", h.User.UpdateProfile)
		protected.PATCH("/change-password", h.User.ChangePassword)
	}

	catalog := api.Group("/services")
	{
		catalog.GET("", h.Service.ListServices)
		catalog.GET("/:id", h.Service.GetService)

		manage := catalog.Group("", auth, admin, limit(limiters.Admin))
		manage.POST("", h.Service.CreateService)
		manage.PUT("/:id", h.Service.UpdateService)
		manage.DELETE("/:id", h.Service.DeleteService)
		manage.PATCH("/:id/activate", h.Service.ActivateService)
	}

	bookings := api.Group("/bookings")
	{
		bookings.GET("/available-slots", h.Booking.GetAvailableSlots)

		protected := bookings.Group("", auth, limit(limiters.General))
		protected.POST("", limit(limiters.Booking), h.Booking.CreateBooking)
		protected.GET("", h.Booking.ListBookings)
		protected.GET("/:id", h.Booking.GetBooking)
		protected.PATCH("/:id/cancel", h.Booking.CancelBooking)
	}

	vehicles := api.Group("/vehicles", auth, limit(limiters.General))
	{
		vehicles.GET("", h.Vehicle.ListVehicles)
		vehicles.POST("", h.Vehicle.CreateVehicle)
		vehicles.GET("/:id", h.Vehicle.GetVehicle)
		vehicles.PUT("/:id", h.Vehicle.UpdateVehicle)
		vehicles.DELETE("/:id", h.Vehicle.DeleteVehicle)
		vehicles.PATCH("/:id/activate", h.Vehicle.ActivateVehicle)
		vehicles.GET("/:id/stats", h.Vehicle.GetVehicleStats)
	}

	transactions := api.Group("/transactions", auth, limit(limiters.General))
	{
		transactions.POST("", h.Transaction.CreateTransaction)
		transactions.GET("", h.Transaction.ListTransactions)
		transactions.GET("/:id", h.Transaction.GetTransaction)
		transactions.PATCH("/:id/confirm", h.Transaction.ConfirmPayment)
		transactions.PATCH("/:id/status", admin, h.Transaction.UpdateStatus)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("/all", h.Review.ListAllReviews)
		reviews.GET("/stats", h.Review.GetStats)

		protected := reviews.Group("", auth, limit(limiters.General))
		protected.POST("", h.Review.CreateReview)
		protected.GET("", h.Review.ListMyReviews)
		protected.GET("/booking/:bookingId", h.Review.GetByBooking)
		protected.PUT("/:id", h.Review.UpdateReview)
		protected.DELETE("/:id", h.Review.DeleteReview)
	}

	adminGroup := api.Group("/admin", auth, admin, limit(limiters.Admin))
	{
		adminGroup.GET("/dashboard", h.Admin.GetDashboard)
		adminGroup.GET("/bookings", h.Admin.ListBookings)
		adminGroup.PATCH("/bookings/:id/status", h.Admin.UpdateBookingStatus)
		adminGroup.GET("/financial-report", h.Admin.GetFinancialReport)
		adminGroup.GET("/users", h.Admin.ListUsers)
		adminGroup.GET("/transactions", h.Admin.ListTransactions)
	}

	router.NoRoute(NotFound)
}
