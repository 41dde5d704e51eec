package routes

import (
	"net/http"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/config"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/handlers"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/middleware"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HandlerDependencies holds everything the router wires together
type HandlerDependencies struct {
	AuthHandler  *handlers.AuthHandler
	UserHandler  *handlers.UserHandler
	SpinHandler  *handlers.SpinHandler
	EventHandler *handlers.EventHandler
	Tokens       *jwt.TokenService
	SpinLimiter  *middleware.RateLimiter
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg))

	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		public.GET("/metrics", gin.WrapH(promhttp.Handler()))

		public.POST("/auth/login", deps.AuthHandler.Login)
		public.GET("/wheel/prizes", deps.SpinHandler.GetPrizes)
		public.GET("/events", deps.EventHandler.ListEvents)
		public.GET("/events/:id", deps.EventHandler.GetEvent)
	}

	attendee := router.Group("/api/v1")
	attendee.Use(middleware.Authenticate(deps.Tokens), middleware.RequireRole(models.RoleAttendee))
	{
		attendee.POST("/accounts/me", deps.UserHandler.EnsureMe)
		attendee.GET("/accounts/me", deps.UserHandler.GetMe)
		attendee.GET("/accounts/me/spins", deps.UserHandler.GetMySpins)

		spin := []gin.HandlerFunc{deps.SpinHandler.Spin}
		if deps.SpinLimiter != nil {
			spin = append([]gin.HandlerFunc{middleware.RateLimit(deps.SpinLimiter, middleware.AccountKey)}, spin...)
		}
		attendee.POST("/wheel/spin", spin...)

		attendee.POST("/events/:id/votes", deps.EventHandler.CastVote)
	}

	staff := router.Group("/api/v1")
	staff.Use(middleware.Authenticate(deps.Tokens), middleware.RequireRole(models.RoleStaff))
	{
		staff.POST("/events", deps.EventHandler.CreateEvent)
		staff.POST("/events/:id/close", deps.EventHandler.CloseEvent)
		staff.POST("/claims/:ticketId", deps.SpinHandler.Claim)
		staff.POST("/admin/accounts/:id/points", deps.UserHandler.GrantPoints)
	}

	return router
}
