package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dinerozz/focus-tracker-backend/config"
	"github.com/dinerozz/focus-tracker-backend/docs"
	analyticsHandler "github.com/dinerozz/focus-tracker-backend/internal/handler/analytics"
	categoryHandler "github.com/dinerozz/focus-tracker-backend/internal/handler/category"
	extensionUserHandler "github.com/dinerozz/focus-tracker-backend/internal/handler/extension_user"
	focusHandler "github.com/dinerozz/focus-tracker-backend/internal/handler/focus"
	timeEntryHandler "github.com/dinerozz/focus-tracker-backend/internal/handler/time_entry"
	userHandler "github.com/dinerozz/focus-tracker-backend/internal/handler/user"
	"github.com/dinerozz/focus-tracker-backend/internal/repository"
	analyticsService "github.com/dinerozz/focus-tracker-backend/internal/service/analytics"
	"github.com/dinerozz/focus-tracker-backend/internal/service/category"
	extensionUserService "github.com/dinerozz/focus-tracker-backend/internal/service/extension_user"
	focusService "github.com/dinerozz/focus-tracker-backend/internal/service/focus"
	redisService "github.com/dinerozz/focus-tracker-backend/internal/service/redis"
	timeEntryService "github.com/dinerozz/focus-tracker-backend/internal/service/time_entry"
	"github.com/dinerozz/focus-tracker-backend/internal/service/user"
	"github.com/dinerozz/focus-tracker-backend/internal/tracker"
	"github.com/dinerozz/focus-tracker-backend/middleware"
	"github.com/dinerozz/focus-tracker-backend/pkg/utils"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterHandler struct {
	userHandler          *userHandler.UserHandler
	timeEntryHandler     *timeEntryHandler.TimeEntryHandler
	analyticsHandler     *analyticsHandler.AnalyticsHandler
	categoryHandler      *categoryHandler.CategoryHandler
	focusHandler         *focusHandler.FocusHandler
	extensionUserHandler *extensionUserHandler.ExtensionUserHandler
	extensionUserService extensionUserService.ExtensionUserService
}

func RunServer(config *config.Config) {
	env := config.Env
	switch env {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
		log.Println("🚀 Starting server in PRODUCTION mode")
	case "dev", "development":
		gin.SetMode(gin.DebugMode)
		log.Println("🔧 Starting server in DEVELOPMENT mode")
	default:
		gin.SetMode(gin.DebugMode)
		log.Println("🔧 Starting server in DEVELOPMENT mode (default)")
	}

	fmt.Println("ENVs: ", config.DB.Host, config.DB.DBName, config.DB.User, config.Env)

	db, err := repository.NewRepository(config.DB)
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}
	defer db.Close()

	var cache redisService.ServiceInterface
	if config.Redis.Enabled {
		if svc := redisService.NewRedisService(redisService.RedisConfig{
			Host:     config.Redis.Host,
			Port:     config.Redis.Port,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		}); svc != nil {
			cache = svc
			defer svc.Close()
		}
	}

	userRepo := repository.NewUserRepository(db)
	timeEntryRepo := repository.NewTimeEntryRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	extensionUserRepo := repository.NewExtensionUserRepository(db)

	userSrv := user.NewUserService(userRepo)
	categorySrv := category.NewCategoryService(categoryRepo)
	timeEntrySrv := timeEntryService.NewTimeEntryService(timeEntryRepo, categorySrv)
	analyticsSrv := analyticsService.NewAnalyticsService(timeEntryRepo, categorySrv, cache)
	extensionUserSrv := extensionUserService.NewExtensionUserService(extensionUserRepo)
	focusSrv := focusService.NewFocusService(timeEntrySrv, categorySrv, tracker.Config{
		DwellThreshold: time.Duration(config.Tracker.DwellThresholdMs) * time.Millisecond,
		Location:       utils.TrackerLocation,
	})

	routerHandler := &RouterHandler{
		userHandler:          userHandler.NewUserHandler(userSrv),
		timeEntryHandler:     timeEntryHandler.NewTimeEntryHandler(timeEntrySrv),
		analyticsHandler:     analyticsHandler.NewAnalyticsHandler(analyticsSrv),
		categoryHandler:      categoryHandler.NewCategoryHandler(categorySrv),
		focusHandler:         focusHandler.NewFocusHandler(focusSrv),
		extensionUserHandler: extensionUserHandler.NewExtensionUserHandler(extensionUserSrv),
		extensionUserService: extensionUserSrv,
	}

	r := setupRouter(routerHandler, cache)

	srv := &http.Server{
		Addr:    ":" + config.Server.Port,
		Handler: r,
	}

	stopMaintenance := startMaintenance(config, timeEntrySrv, focusSrv)

	go func() {
		log.Printf("✅ Server starting on port %s", config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	gracefulShutdown(srv, func() {
		stopMaintenance()
		focusSrv.FlushPending()
		focusSrv.Shutdown()
	})
}

// startMaintenance runs the periodic retention prune and retry-queue flush,
// the server-side counterpart of the extension's cleanup alarm.
func startMaintenance(config *config.Config, entries timeEntryService.TimeEntryService, focus focusService.FocusService) func() {
	interval := time.Duration(config.Tracker.PruneIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if flushed := focus.FlushPending(); flushed > 0 {
					log.Printf("🔄 Отправлено %d отложенных записей", flushed)
				}

				focus.PruneLive(config.Tracker.RetentionDays)

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if _, err := entries.Prune(ctx, config.Tracker.RetentionDays); err != nil {
					log.Printf("❌ Ошибка очистки устаревших записей: %v", err)
				}
				cancel()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

func gracefulShutdown(srv *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("🔄 Shutting down server...")

	cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	select {
	case <-ctx.Done():
		log.Println("⚠️ Server shutdown timeout exceeded")
	default:
		log.Println("✅ Server gracefully stopped")
	}
}

func setupRouter(routerHandler *RouterHandler, cache redisService.ServiceInterface) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:") ||
			strings.HasPrefix(origin, "chrome-extension://")) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-API-Key")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"service":   "focus-tracker-app",
		})
	})

	docs.SwaggerInfo.Host = "127.0.0.1:8080"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}
	docs.SwaggerInfo.Title = "Focus tracker API"
	docs.SwaggerInfo.Description = "Browser usage tracking API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/api/v1"

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	extensionRoutes := r.Group("/api/v1/extension")
	extensionRoutes.Use(middleware.APIKeyMiddleware(routerHandler.extensionUserService))
	extensionRoutes.Use(middleware.RateLimitMiddleware(cache, 120, time.Minute))
	{
		extensionRoutes.POST("/track", routerHandler.timeEntryHandler.Track)
		extensionRoutes.POST("/sync", routerHandler.timeEntryHandler.Sync)
		extensionRoutes.POST("/events", routerHandler.focusHandler.IngestEvents)
		extensionRoutes.GET("/live", routerHandler.focusHandler.Live)
		extensionRoutes.GET("/users/auth", routerHandler.extensionUserHandler.ValidateAPIKey)
	}

	publicAdminRoutes := r.Group("/api/v1/admin")
	{
		publicAdminRoutes.POST("/users/auth", routerHandler.userHandler.CreateOrAuthUserWithPassword)
	}

	privateRoutes := r.Group("/api/v1/admin")
	privateRoutes.Use(middleware.AuthenticationMiddleware())
	{
		privateRoutes.GET("/users/profile", routerHandler.userHandler.GetUserById)
		privateRoutes.POST("/users/logout", routerHandler.userHandler.Logout)

		privateRoutes.GET("/analytics", routerHandler.analyticsHandler.GetAnalytics)
		privateRoutes.GET("/dashboard", routerHandler.analyticsHandler.GetDashboard)

		privateRoutes.GET("/entries", routerHandler.timeEntryHandler.GetEntries)
		privateRoutes.GET("/entries/rollups", routerHandler.timeEntryHandler.GetRollups)

		privateRoutes.GET("/categories", routerHandler.categoryHandler.GetCategories)
		privateRoutes.PUT("/categories", routerHandler.categoryHandler.UpdateCategories)
		privateRoutes.POST("/categories/domains", routerHandler.categoryHandler.AddDomain)
		privateRoutes.DELETE("/categories/domains", routerHandler.categoryHandler.RemoveDomain)

		extensionAdmin := privateRoutes.Group("/extension")
		{
			extensionAdmin.POST("/users/generate", routerHandler.extensionUserHandler.CreateExtensionUser)
			extensionAdmin.GET("/users", routerHandler.extensionUserHandler.GetExtensionUsers)
			extensionAdmin.GET("/users/stats", routerHandler.extensionUserHandler.GetExtensionUserStats)
			extensionAdmin.GET("/users/:id", routerHandler.extensionUserHandler.GetExtensionUserByID)
			extensionAdmin.PATCH("/users/:id", routerHandler.extensionUserHandler.UpdateExtensionUser)
			extensionAdmin.POST("/users/:id/regenerate", routerHandler.extensionUserHandler.RegenerateAPIKey)
			extensionAdmin.DELETE("/users/:id", routerHandler.extensionUserHandler.DeleteExtensionUser)
		}
	}

	return r
}
