package handlers

import (
	"net/http"

	"task-tracker/internal/cache"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HomeHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

func NewHomeHandler(db *gorm.DB, cacheInstance *cache.RedisCache) *HomeHandler {
	return &HomeHandler{db: db, cache: cacheInstance}
}

// Dashboard handles GET /: entity counts for the home page.
func (h *HomeHandler) Dashboard(c *gin.Context) {
	var (
		stats services.Stats
		err   error
	)
	if h.cache != nil {
		stats, err = services.CachedStats(h.db, h.cache)
	} else {
		stats, err = services.CollectStats(h.db)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
