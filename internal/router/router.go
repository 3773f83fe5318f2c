package router

import (
	"time"

	"github.com/dropdeck-dev/dropdeck/internal/handlers"
	"github.com/dropdeck-dev/dropdeck/internal/middleware"
	"github.com/dropdeck-dev/dropdeck/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(staticDir string) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Admin-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
		}

		airdrops := api.Group("/airdrops", middleware.AuthMiddleware())
		{
			airdrops.GET("", handlers.ListAirdrops)
			airdrops.POST("", handlers.CreateAirdrop)
			airdrops.PATCH("/:id", handlers.UpdateAirdrop)
			airdrops.PATCH("/:id/status", handlers.ToggleAirdropStatus)
			airdrops.DELETE("/:id", handlers.DeleteAirdrop)
		}

		api.GET("/settings", middleware.AuthMiddleware(), handlers.GetSettings)
		api.PUT("/settings", middleware.AuthMiddleware(), handlers.SaveSettings)

		// Public listings
		api.GET("/profiles", handlers.ListProfiles)
		api.GET("/profiles/:username", handlers.GetProfile)
		api.GET("/pool", handlers.ListPool)
		api.POST("/pool/:id/copy", middleware.AuthMiddleware(), handlers.CopyFromPool)

		admin := api.Group("/admin", middleware.AdminMiddleware())
		{
			admin.GET("/stats", handlers.AdminStats)
			admin.GET("/airdrops", handlers.AdminListAirdrops)
		}
	}

	if staticDir != "" {
		r.Use(staticCacheHeaders())
		r.Static("/assets", staticDir)
	}

	return r
}

// staticCacheHeaders gives the bundled assets a day-long browser cache.
func staticCacheHeaders() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if len(ctx.Request.URL.Path) >= 8 && ctx.Request.URL.Path[:8] == "/assets/" {
			ctx.Header("Cache-Control", "public, max-age=86400")
		}
		ctx.Next()
	}
}
