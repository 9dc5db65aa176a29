package services

import (
	"errors"
	"strings"
	"time"

	"task-tracker/internal/models"
	"task-tracker/internal/slug"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// PageSize is the fixed page size of every list view.
const PageSize = 5

// TaskInput carries the fields of the task form. Assignees and tags replace
// the task's current sets wholesale, mirroring the checkbox widgets.
type TaskInput struct {
	Name        string          `json:"name" form:"name" binding:"required,max=255"`
	Description string          `json:"description" form:"description"`
	Deadline    time.Time       `json:"deadline" form:"deadline" time_format:"2006-01-02" binding:"required"`
	IsCompleted bool            `json:"is_completed" form:"is_completed"`
	Priority    models.Priority `json:"priority" form:"priority" binding:"required"`
	TaskTypeID  uint            `json:"task_type_id" form:"task_type_id" binding:"required"`
	AssigneeIDs []uuid.UUID     `json:"assignee_ids" form:"assignee_ids"`
	TagIDs      []uint          `json:"tag_ids" form:"tag_ids"`
}

type TaskService interface {
	List(db *gorm.DB, searchQuery string, page int) ([]models.Task, int64, error)
	GetBySlug(db *gorm.DB, taskSlug string) (models.Task, error)
	Create(db *gorm.DB, input TaskInput) (models.Task, error)
	Update(db *gorm.DB, taskSlug string, input TaskInput) (models.Task, error)
	Delete(db *gorm.DB, taskSlug string) error
	ToggleAssign(db *gorm.DB, taskSlug string, workerID uuid.UUID) (models.Task, error)
	ChangeStatus(db *gorm.DB, taskSlug string) (models.Task, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// ValidateDeadline rejects a deadline whose date is strictly before today
// unless the task is already completed. The rule runs only on the form
// paths; change-status deliberately skips it.
func ValidateDeadline(deadline time.Time, isCompleted bool) error {
	y, m, d := deadline.Date()
	deadlineDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	y, m, d = time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if deadlineDate.Before(today) && !isCompleted {
		return ErrDeadlineInPast
	}
	return nil
}

// List returns one page of tasks ordered by name. A non-empty search query
// narrows the set to tasks whose name or any tag name contains the query,
// case-insensitively. Whitespace-only queries apply no filter.
func (s *TaskServiceImpl) List(db *gorm.DB, searchQuery string, page int) ([]models.Task, int64, error) {
	if page < 1 {
		page = 1
	}

	base := db.Model(&models.Task{})
	if q := normalizeQuery(searchQuery); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		base = base.
			Joins("LEFT JOIN task_tags ON task_tags.task_id = tasks.id").
			Joins("LEFT JOIN tags ON tags.id = task_tags.tag_id").
			Where("LOWER(tasks.name) LIKE ? OR LOWER(tags.name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("tasks.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := base.Session(&gorm.Session{}).
		Distinct("tasks.*").
		Order("tasks.name").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Preload("TaskType").
		Preload("Assignees").
		Preload("Tags").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (s *TaskServiceImpl) GetBySlug(db *gorm.DB, taskSlug string) (models.Task, error) {
	var task models.Task
	err := db.Where("slug = ?", taskSlug).
		Preload("TaskType").
		Preload("Assignees").
		Preload("Tags").
		First(&task).Error
	return task, err
}

func (s *TaskServiceImpl) Create(db *gorm.DB, input TaskInput) (models.Task, error) {
	if err := ValidateDeadline(input.Deadline, input.IsCompleted); err != nil {
		return models.Task{}, err
	}
	if !input.Priority.Valid() {
		return models.Task{}, ErrInvalidPriority
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Deadline:    input.Deadline,
		IsCompleted: input.IsCompleted,
		Priority:    input.Priority,
		TaskTypeID:  input.TaskTypeID,
		Slug:        slug.Make(input.Name),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var taskType models.TaskType
		if err := tx.First(&taskType, input.TaskTypeID).Error; err != nil {
			return err
		}

		assignees, tags, err := loadTaskRelations(tx, input)
		if err != nil {
			return err
		}
		task.Assignees = assignees
		task.Tags = tags

		if err := tx.Create(&task).Error; err != nil {
			return translateTaskWriteError(err)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) Update(db *gorm.DB, taskSlug string, input TaskInput) (models.Task, error) {
	if err := ValidateDeadline(input.Deadline, input.IsCompleted); err != nil {
		return models.Task{}, err
	}
	if !input.Priority.Valid() {
		return models.Task{}, ErrInvalidPriority
	}

	var task models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", taskSlug).First(&task).Error; err != nil {
			return err
		}

		var taskType models.TaskType
		if err := tx.First(&taskType, input.TaskTypeID).Error; err != nil {
			return err
		}

		task.Name = input.Name
		task.Description = input.Description
		task.Deadline = input.Deadline
		task.IsCompleted = input.IsCompleted
		task.Priority = input.Priority
		task.TaskTypeID = input.TaskTypeID
		task.Slug = slug.Make(input.Name)

		err := tx.Model(&task).
			Select("name", "description", "deadline", "is_completed", "priority", "task_type_id", "slug").
			Updates(&task).Error
		if err != nil {
			return translateTaskWriteError(err)
		}

		assignees, tags, err := loadTaskRelations(tx, input)
		if err != nil {
			return err
		}
		if err := tx.Model(&task).Association("Assignees").Replace(assignees); err != nil {
			return err
		}
		return tx.Model(&task).Association("Tags").Replace(tags)
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) Delete(db *gorm.DB, taskSlug string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("slug = ?", taskSlug).First(&task).Error; err != nil {
			return err
		}
		if err := tx.Model(&task).Association("Assignees").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&task).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

// ToggleAssign flips the worker's membership in the task's assignee set.
// The read and the write run in one transaction so concurrent toggles by the
// same worker cannot both observe the same membership state.
func (s *TaskServiceImpl) ToggleAssign(db *gorm.DB, taskSlug string, workerID uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", taskSlug).First(&task).Error; err != nil {
			return err
		}

		var assigned int64
		err := tx.Table("task_assignees").
			Where("task_id = ? AND worker_id = ?", task.ID, workerID).
			Count(&assigned).Error
		if err != nil {
			return err
		}

		if assigned > 0 {
			return tx.Exec(
				"DELETE FROM task_assignees WHERE task_id = ? AND worker_id = ?",
				task.ID, workerID,
			).Error
		}
		return tx.Exec(
			"INSERT INTO task_assignees (task_id, worker_id) VALUES (?, ?)",
			task.ID, workerID,
		).Error
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ChangeStatus flips is_completed unconditionally. The deadline rule is not
// re-checked here: reopening a task whose deadline has since passed is
// allowed.
func (s *TaskServiceImpl) ChangeStatus(db *gorm.DB, taskSlug string) (models.Task, error) {
	var task models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", taskSlug).First(&task).Error; err != nil {
			return err
		}
		task.IsCompleted = !task.IsCompleted
		return tx.Model(&task).UpdateColumn("is_completed", task.IsCompleted).Error
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// normalizeQuery makes search always-succeeding: whitespace-only or
// overlong input behaves like no filter instead of erroring.
func normalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if len(q) > 255 {
		return ""
	}
	return q
}

func loadTaskRelations(tx *gorm.DB, input TaskInput) ([]models.Worker, []models.Tag, error) {
	var assignees []models.Worker
	if len(input.AssigneeIDs) > 0 {
		if err := tx.Where("id IN ?", input.AssigneeIDs).Find(&assignees).Error; err != nil {
			return nil, nil, err
		}
		if len(assignees) != len(input.AssigneeIDs) {
			return nil, nil, gorm.ErrRecordNotFound
		}
	}

	var tags []models.Tag
	if len(input.TagIDs) > 0 {
		if err := tx.Where("id IN ?", input.TagIDs).Find(&tags).Error; err != nil {
			return nil, nil, err
		}
		if len(tags) != len(input.TagIDs) {
			return nil, nil, gorm.ErrRecordNotFound
		}
	}

	return assignees, tags, nil
}

func translateTaskWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugConflict
	}
	return err
}
