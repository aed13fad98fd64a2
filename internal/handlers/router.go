package handlers

import (
	"net/http"
	"time"

	"github.com/22mk294/Tempo-Home/internal/auth"
	"github.com/22mk294/Tempo-Home/internal/config"
	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/metrics"
	"github.com/22mk294/Tempo-Home/internal/middleware"
	"github.com/22mk294/Tempo-Home/internal/models"
	"github.com/22mk294/Tempo-Home/internal/ratelimit"
	"github.com/22mk294/Tempo-Home/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter assembles the full API surface. The search client may be nil
// when Meilisearch is not configured; search routes then answer 503.
func SetupRouter(store database.Store, tokens *auth.TokenManager, sc *search.SearchClient, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authHandler := NewAuthHandler(store, tokens)
	maisonHandler := NewMaisonHandler(store, sc)
	messageHandler := NewMessageHandler(store)
	adminHandler := NewAdminHandler(store, sc)
	uploadHandler := NewUploadHandler(cfg.Upload.Dir, cfg.Upload.MaxSizeMB, cfg.Upload.MaxFiles)

	authenticated := middleware.Authenticate(tokens, store)
	ownerOnly := middleware.RequireRole(models.UserTypeOwner)

	limiter := ratelimit.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.RequestsPerHour, cfg.RateLimit.Enabled)
	throttled := rateLimitMiddleware(limiter)

	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", throttled, authHandler.Register)
			authRoutes.POST("/login", throttled, authHandler.Login)
			authRoutes.GET("/profile", authenticated, authHandler.Profile)
			authRoutes.PUT("/profile", authenticated, authHandler.UpdateProfile)
		}

		maisons := api.Group("/maisons")
		{
			maisons.GET("", maisonHandler.List)
			maisons.GET("/search", maisonHandler.Search)
			maisons.GET("/my-properties", authenticated, ownerOnly, maisonHandler.MyProperties)
			maisons.GET("/stats", authenticated, ownerOnly, maisonHandler.Stats)
			maisons.GET("/:id", maisonHandler.Get)
			maisons.POST("", authenticated, ownerOnly, maisonHandler.Create)
			maisons.PUT("/:id", authenticated, maisonHandler.Update)
			maisons.DELETE("/:id", authenticated, maisonHandler.Delete)
		}

		messages := api.Group("/messages")
		{
			messages.POST("", messageHandler.Send)
			messages.GET("/received", authenticated, ownerOnly, messageHandler.Received)
			messages.GET("/sent", authenticated, messageHandler.Sent)
		}

		admin := api.Group("/admin", authenticated, middleware.RequireRole(models.UserTypeAdmin))
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.Users)
			admin.GET("/properties", adminHandler.Properties)
			admin.GET("/messages", adminHandler.Messages)
			admin.DELETE("/properties/:id", adminHandler.DeleteProperty)
			admin.PATCH("/users/:id/moderate", adminHandler.ModerateUser)
			admin.POST("/cleanup/run", adminHandler.RunCleanup)
			admin.POST("/search/reindex", adminHandler.Reindex)
			admin.GET("/rate-limit", rateLimitStats(limiter))
		}

		api.POST("/upload/images", authenticated, uploadHandler.Images)
	}

	r.Static("/uploads", cfg.Upload.Dir)

	return r
}

// rateLimitMiddleware rejects requests over the per-IP budget with 429.
func rateLimitMiddleware(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.AllowRequest(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many attempts, please try again later",
			})
			return
		}
		c.Next()
	}
}

// rateLimitStats reports the throttle window for one client IP, the
// caller's own by default.
func rateLimitStats(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.DefaultQuery("ip", c.ClientIP())
		c.JSON(http.StatusOK, limiter.GetStats(ip))
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}
