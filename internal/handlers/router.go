package handlers

import (
	"context"
	"net/http"

	"task-tracker/internal/cache"
	"task-tracker/internal/middleware"
	"task-tracker/internal/monitoring"
	"task-tracker/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouterConfig carries every collaborator a route needs. Handlers stay free
// of globals; the authenticated worker is the only per-request value and is
// threaded through the context by the login gate.
type RouterConfig struct {
	DB    *gorm.DB
	Cache *cache.RedisCache

	Auth      services.AuthService
	Tasks     services.TaskService
	Workers   services.WorkerService
	Positions services.PositionService
	TaskTypes services.TaskTypeService
	Tags      services.TagService

	SessionMaxAge  int
	SecureCookies  bool
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitoring.MetricsMiddleware())

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
		router.Use(cors.New(corsConfig))
	}

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Middleware())
	}

	// Wrong-verb requests on registered paths (e.g. GET on toggle-assign)
	// answer 405 with a plain-text explanation instead of 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed: %s %s", c.Request.Method, c.Request.URL.Path)
	})

	authHandler := NewAuthHandler(cfg.DB, cfg.Auth, cfg.Workers, cfg.SessionMaxAge, cfg.SecureCookies)
	homeHandler := NewHomeHandler(cfg.DB, cfg.Cache)
	taskHandler := NewTaskHandler(cfg.DB, cfg.Tasks)
	workerHandler := NewWorkerHandler(cfg.DB, cfg.Workers)
	positionHandler := NewPositionHandler(cfg.DB, cfg.Positions)
	taskTypeHandler := NewTaskTypeHandler(cfg.DB, cfg.TaskTypes)
	tagHandler := NewTagHandler(cfg.DB, cfg.Tags)

	router.GET("/healthz", monitoring.HealthHandler())
	router.GET("/metrics", monitoring.MetricsHandler())

	router.GET("/login/", authHandler.LoginPrompt)
	router.POST("/login/", authHandler.Login)
	router.POST("/logout/", authHandler.Logout)
	router.POST("/register/", authHandler.Register)

	// Reference-data writes change names embedded in cached task details,
	// so a successful one flushes the task cache namespace.
	flushTaskCache := func(c *gin.Context) {
		c.Next()
		if cfg.Cache != nil && c.Writer.Status() == http.StatusSeeOther {
			services.InvalidateTaskCache(cfg.Cache)
		}
	}

	gated := router.Group("/", middleware.RequireLogin(cfg.DB, cfg.Auth))

	gated.GET("/", homeHandler.Dashboard)

	gated.GET("/tasks/", taskHandler.List)
	gated.POST("/tasks/create/", taskHandler.Create)
	gated.GET("/tasks/:slug/", taskHandler.Detail)
	gated.POST("/tasks/:slug/update/", taskHandler.Update)
	gated.POST("/tasks/:slug/delete/", taskHandler.Delete)
	gated.POST("/tasks/:slug/toggle-assign/", taskHandler.ToggleAssign)
	gated.POST("/tasks/:slug/change-status/", taskHandler.ChangeStatus)

	gated.GET("/workers/", workerHandler.List)
	gated.POST("/workers/create/", flushTaskCache, workerHandler.Create)
	gated.GET("/workers/:slug/", workerHandler.Detail)
	gated.POST("/workers/:slug/update/", flushTaskCache, workerHandler.Update)
	gated.POST("/workers/:slug/delete/", flushTaskCache, workerHandler.Delete)

	gated.GET("/positions/", positionHandler.List)
	gated.POST("/positions/create/", flushTaskCache, positionHandler.Create)
	gated.POST("/positions/:id/update/", flushTaskCache, positionHandler.Update)
	gated.POST("/positions/:id/delete/", flushTaskCache, positionHandler.Delete)

	gated.GET("/task_types/", taskTypeHandler.List)
	gated.POST("/task_types/create/", flushTaskCache, taskTypeHandler.Create)
	gated.POST("/task_types/:id/update/", flushTaskCache, taskTypeHandler.Update)
	gated.POST("/task_types/:id/delete/", flushTaskCache, taskTypeHandler.Delete)

	gated.GET("/tags/", tagHandler.List)
	gated.POST("/tags/create/", flushTaskCache, tagHandler.Create)
	gated.POST("/tags/:id/update/", flushTaskCache, tagHandler.Update)
	gated.POST("/tags/:id/delete/", flushTaskCache, tagHandler.Delete)

	return router
}

// RegisterHealthChecks wires the shared resources into /healthz.
func RegisterHealthChecks(db *gorm.DB, cacheInstance *cache.RedisCache) {
	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	if cacheInstance != nil {
		monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
			return cacheInstance.Health()
		})
	}
}
