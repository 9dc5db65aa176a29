package handlers

import (
	"net/http"
	"strconv"

	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Reference handlers cover positions, task types and tags: name-filtered
// lists and numeric-key CRUD, redirecting back to the list on writes.

type PositionHandler struct {
	db        *gorm.DB
	positions services.PositionService
}

func NewPositionHandler(db *gorm.DB, positions services.PositionService) *PositionHandler {
	return &PositionHandler{db: db, positions: positions}
}

func (h *PositionHandler) List(c *gin.Context) {
	name := c.Query("name")
	page := pageParam(c)

	positions, total, err := h.positions.List(h.db, name, page)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"positions": positions,
		"total":     total,
		"page":      page,
		"page_size": services.PageSize,
		"name":      name,
	}
	if total == 0 {
		response["message"] = "There are no positions in the tracker."
	}
	c.JSON(http.StatusOK, response)
}

func (h *PositionHandler) Create(c *gin.Context) {
	input, ok := bindReferenceInput(c)
	if !ok {
		return
	}
	if _, err := h.positions.Create(h.db, input); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/positions/")
}

func (h *PositionHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	input, ok := bindReferenceInput(c)
	if !ok {
		return
	}
	if _, err := h.positions.Update(h.db, id, input); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/positions/")
}

func (h *PositionHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.positions.Delete(h.db, id); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/positions/")
}

type TaskTypeHandler struct {
	db        *gorm.DB
	taskTypes services.TaskTypeService
}

func NewTaskTypeHandler(db *gorm.DB, taskTypes services.TaskTypeService) *TaskTypeHandler {
	return &TaskTypeHandler{db: db, taskTypes: taskTypes}
}

func (h *TaskTypeHandler) List(c *gin.Context) {
	name := c.Query("name")
	page := pageParam(c)

	taskTypes, total, err := h.taskTypes.List(h.db, name, page)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"task_types": taskTypes,
		"total":      total,
		"page":       page,
		"page_size":  services.PageSize,
		"name":       name,
	}
	if total == 0 {
		response["message"] = "There are no task types in the tracker."
	}
	c.JSON(http.StatusOK, response)
}

func (h *TaskTypeHandler) Create(c *gin.Context) {
	input, ok := bindReferenceInput(c)
	if !ok {
		return
	}
	if _, err := h.taskTypes.Create(h.db, input); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/task_types/")
}

func (h *TaskTypeHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	input, ok := bindReferenceInput(c)
	if !ok {
		return
	}
	if _, err := h.taskTypes.Update(h.db, id, input); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/task_types/")
}

func (h *TaskTypeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.taskTypes.Delete(h.db, id); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/task_types/")
}

type TagHandler struct {
	db   *gorm.DB
	tags services.TagService
}

func NewTagHandler(db *gorm.DB, tags services.TagService) *TagHandler {
	return &TagHandler{db: db, tags: tags}
}

func (h *TagHandler) List(c *gin.Context) {
	name := c.Query("name")
	page := pageParam(c)

	tags, total, err := h.tags.List(h.db, name, page)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"tags":      tags,
		"total":     total,
		"page":      page,
		"page_size": services.PageSize,
		"name":      name,
	}
	if total == 0 {
		response["message"] = "There are no tags in the tracker."
	}
	c.JSON(http.StatusOK, response)
}

func (h *TagHandler) Create(c *gin.Context) {
	input, ok := bindReferenceInput(c)
	if !ok {
		return
	}
	if _, err := h.tags.Create(h.db, input); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tags/")
}

func (h *TagHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	input, ok := bindReferenceInput(c)
	if !ok {
		return
	}
	if _, err := h.tags.Update(h.db, id, input); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tags/")
}

func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.tags.Delete(h.db, id); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tags/")
}

func bindReferenceInput(c *gin.Context) (services.ReferenceInput, bool) {
	var input services.ReferenceInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return services.ReferenceInput{}, false
	}
	return input, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}
