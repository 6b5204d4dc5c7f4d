package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stayloop/rewards/config"
	"github.com/stayloop/rewards/controllers"
	"github.com/stayloop/rewards/middleware"
	"github.com/stayloop/rewards/points"
	"github.com/stayloop/rewards/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, engine *points.Engine, rules *points.GormRuleStore) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Access log goes to its own rolling file; recovery logs to the app logger.
	if accessLogger, err := utils.NewRollingFileLogger(
		cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress,
	); err == nil {
		r.Use(middleware.RequestID())
		r.Use(utils.GinLogger(accessLogger))
		r.Use(utils.GinRecovery(utils.Logger))
	} else {
		r.Use(middleware.RequestID())
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		sqlDB, err := config.DB().DB()
		if err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
			utils.Error(ctx, http.StatusServiceUnavailable, 50300, "database unavailable")
			return
		}
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, engine)
	pointsController := controllers.NewPointsController(db, engine)
	socialController := controllers.NewSocialController(db, engine)
	adminController := controllers.NewAdminController(db, rules, engine)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public leaderboard
	api.GET("/points/leaderboard", pointsController.GetLeaderboard)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware(), middleware.ActivityRecorder())
	protected.POST("/points/check-in", pointsController.DailyCheckIn)
	protected.GET("/points/balance", pointsController.GetBalance)
	protected.GET("/points/history", pointsController.GetHistory)
	protected.GET("/points/streak", pointsController.GetStreakInfo)
	protected.POST("/social/follow/:id", socialController.FollowUser)
	protected.DELETE("/social/follow/:id", socialController.UnfollowUser)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/rules", adminController.ListRules)
	admin.PUT("/rules/:action", adminController.UpdateRule)
	admin.POST("/adjust", adminController.AdjustPoints)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
