package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/minisocial/config"
	"github.com/cppla/minisocial/controllers"
	"github.com/cppla/minisocial/middleware"
	"github.com/cppla/minisocial/utils"
	"github.com/cppla/minisocial/views"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, sessions *utils.SessionManager) (*gin.Engine, error) {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file when GinPath is set, else to the app logger
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
		if err != nil {
			utils.Sugar.Warnw("access log file unavailable, using app logger", "path", cfg.GinPath, "err", err)
		} else {
			accessLog = gl
		}
	}
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, true, controllers.InternalError))

	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(middleware.LoadSession(sessions))

	feedController := controllers.NewFeedController(db)
	authController := controllers.NewAuthController(db, sessions)
	postController := controllers.NewPostController(db)
	authLimit := middleware.RateLimit(cfg.RateLimitPerMinute)

	r.GET("/", feedController.Home)

	r.GET("/register", authController.RegisterForm)
	r.POST("/register", authLimit, authController.Register)
	r.GET("/login", authController.LoginForm)
	r.POST("/login", authLimit, authController.Login)
	r.GET("/logout", authController.Logout)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired())
	protected.GET("/post", postController.NewPostForm)
	protected.POST("/post", postController.CreatePost)

	// a non-numeric id is a 404 even for anonymous clients
	byID := r.Group("", controllers.RequireNumericID, middleware.AuthRequired())
	byID.GET("/like/:id", postController.Like)
	byID.GET("/comment/:id", postController.CommentForm)
	byID.POST("/comment/:id", postController.CreateComment)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	api := r.Group("/api/v1")
	api.Use(cors.New(corsCfg))
	api.GET("/feed", feedController.APIFeed)

	r.NoRoute(controllers.NotFound)

	return r, nil
}
