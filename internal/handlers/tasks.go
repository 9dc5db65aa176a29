package handlers

import (
	"net/http"
	"strconv"

	"task-tracker/internal/middleware"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db    *gorm.DB
	tasks services.TaskService
}

func NewTaskHandler(db *gorm.DB, tasks services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, tasks: tasks}
}

// List handles GET /tasks/?search_query=<q>&page=<n>.
func (h *TaskHandler) List(c *gin.Context) {
	searchQuery := c.Query("search_query")
	page := pageParam(c)

	tasks, total, err := h.tasks.List(h.db, searchQuery, page)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"tasks":        tasks,
		"total":        total,
		"page":         page,
		"page_size":    services.PageSize,
		"search_query": searchQuery,
	}
	if total == 0 {
		response["message"] = "There are no tasks in the tracker."
	}
	c.JSON(http.StatusOK, response)
}

// Detail handles GET /tasks/<slug>/.
func (h *TaskHandler) Detail(c *gin.Context) {
	task, err := h.tasks.GetBySlug(h.db, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create handles POST /tasks/create/ and redirects to the new task's detail
// page.
func (h *TaskHandler) Create(c *gin.Context) {
	var input services.TaskInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Create(h.db, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks/"+task.Slug+"/")
}

// Update handles POST /tasks/<slug>/update/. The slug is recomputed from the
// submitted name, so the redirect target may differ from the request path.
func (h *TaskHandler) Update(c *gin.Context) {
	var input services.TaskInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Update(h.db, c.Param("slug"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks/"+task.Slug+"/")
}

// Delete handles POST /tasks/<slug>/delete/.
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(h.db, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks/")
}

// ToggleAssign handles POST /tasks/<slug>/toggle-assign/ for the
// authenticated worker.
func (h *TaskHandler) ToggleAssign(c *gin.Context) {
	worker, ok := middleware.CurrentWorker(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	task, err := h.tasks.ToggleAssign(h.db, c.Param("slug"), worker.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks/"+task.Slug+"/")
}

// ChangeStatus handles POST /tasks/<slug>/change-status/. The flip is
// unconditional; the deadline rule only applies to the form paths.
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	task, err := h.tasks.ChangeStatus(h.db, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks/"+task.Slug+"/")
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
