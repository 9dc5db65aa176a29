package handlers

import (
	"net/http"

	"task-tracker/internal/models"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type WorkerHandler struct {
	db      *gorm.DB
	workers services.WorkerService
}

func NewWorkerHandler(db *gorm.DB, workers services.WorkerService) *WorkerHandler {
	return &WorkerHandler{db: db, workers: workers}
}

// List handles GET /workers/?search_query=<q>&page=<n>.
func (h *WorkerHandler) List(c *gin.Context) {
	searchQuery := c.Query("search_query")
	page := pageParam(c)

	workers, total, err := h.workers.List(h.db, searchQuery, page)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"workers":      workers,
		"total":        total,
		"page":         page,
		"page_size":    services.PageSize,
		"search_query": searchQuery,
	}
	if total == 0 {
		response["message"] = "There are no workers in the tracker."
	}
	c.JSON(http.StatusOK, response)
}

// Detail handles GET /workers/<slug>/, splitting the worker's tasks into
// in-work and completed sets for the profile page.
func (h *WorkerHandler) Detail(c *gin.Context) {
	worker, err := h.workers.GetBySlug(h.db, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	tasksInWork := make([]models.Task, 0, len(worker.Tasks))
	completedTasks := make([]models.Task, 0, len(worker.Tasks))
	for _, task := range worker.Tasks {
		if task.IsCompleted {
			completedTasks = append(completedTasks, task)
		} else {
			tasksInWork = append(tasksInWork, task)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"worker":          worker,
		"tasks_in_work":   tasksInWork,
		"completed_tasks": completedTasks,
	})
}

// Create handles POST /workers/create/.
func (h *WorkerHandler) Create(c *gin.Context) {
	var input services.WorkerInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	worker, err := h.workers.Create(h.db, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/workers/"+worker.Slug+"/")
}

// Update handles POST /workers/<slug>/update/.
func (h *WorkerHandler) Update(c *gin.Context) {
	var input services.WorkerInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	worker, err := h.workers.Update(h.db, c.Param("slug"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/workers/"+worker.Slug+"/")
}

// Delete handles POST /workers/<slug>/delete/.
func (h *WorkerHandler) Delete(c *gin.Context) {
	if err := h.workers.Delete(h.db, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/workers/")
}
