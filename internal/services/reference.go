package services

import (
	"errors"
	"strings"

	"task-tracker/internal/models"

	"gorm.io/gorm"
)

// Reference data (positions, task types, tags) shares one CRUD shape: a
// single name field, numeric addressing, name-contains search ordered by
// name.

type ReferenceInput struct {
	Name string `json:"name" form:"name" binding:"required,max=255"`
}

type PositionService interface {
	List(db *gorm.DB, name string, page int) ([]models.Position, int64, error)
	Create(db *gorm.DB, input ReferenceInput) (models.Position, error)
	Update(db *gorm.DB, id uint, input ReferenceInput) (models.Position, error)
	Delete(db *gorm.DB, id uint) error
}

type TaskTypeService interface {
	List(db *gorm.DB, name string, page int) ([]models.TaskType, int64, error)
	Create(db *gorm.DB, input ReferenceInput) (models.TaskType, error)
	Update(db *gorm.DB, id uint, input ReferenceInput) (models.TaskType, error)
	Delete(db *gorm.DB, id uint) error
}

type TagService interface {
	List(db *gorm.DB, name string, page int) ([]models.Tag, int64, error)
	Create(db *gorm.DB, input ReferenceInput) (models.Tag, error)
	Update(db *gorm.DB, id uint, input ReferenceInput) (models.Tag, error)
	Delete(db *gorm.DB, id uint) error
}

type PositionServiceImpl struct{}

func NewPositionService() *PositionServiceImpl { return &PositionServiceImpl{} }

func (s *PositionServiceImpl) List(db *gorm.DB, name string, page int) ([]models.Position, int64, error) {
	var positions []models.Position
	total, err := listByName(db, &positions, name, page)
	return positions, total, err
}

func (s *PositionServiceImpl) Create(db *gorm.DB, input ReferenceInput) (models.Position, error) {
	position := models.Position{Name: strings.TrimSpace(input.Name)}
	if position.Name == "" {
		return models.Position{}, ErrNameRequired
	}
	if err := db.Create(&position).Error; err != nil {
		return models.Position{}, translateNameConflict(err)
	}
	return position, nil
}

func (s *PositionServiceImpl) Update(db *gorm.DB, id uint, input ReferenceInput) (models.Position, error) {
	var position models.Position
	if err := db.First(&position, id).Error; err != nil {
		return models.Position{}, err
	}
	position.Name = strings.TrimSpace(input.Name)
	if position.Name == "" {
		return models.Position{}, ErrNameRequired
	}
	if err := db.Model(&position).Update("name", position.Name).Error; err != nil {
		return models.Position{}, translateNameConflict(err)
	}
	return position, nil
}

// Delete detaches any workers holding the position before removing it; the
// worker's position reference is nullable.
func (s *PositionServiceImpl) Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var position models.Position
		if err := tx.First(&position, id).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Worker{}).
			Where("position_id = ?", id).
			Update("position_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&position).Error
	})
}

type TaskTypeServiceImpl struct{}

func NewTaskTypeService() *TaskTypeServiceImpl { return &TaskTypeServiceImpl{} }

func (s *TaskTypeServiceImpl) List(db *gorm.DB, name string, page int) ([]models.TaskType, int64, error) {
	var taskTypes []models.TaskType
	total, err := listByName(db, &taskTypes, name, page)
	return taskTypes, total, err
}

func (s *TaskTypeServiceImpl) Create(db *gorm.DB, input ReferenceInput) (models.TaskType, error) {
	taskType := models.TaskType{Name: strings.TrimSpace(input.Name)}
	if taskType.Name == "" {
		return models.TaskType{}, ErrNameRequired
	}
	if err := db.Create(&taskType).Error; err != nil {
		return models.TaskType{}, translateNameConflict(err)
	}
	return taskType, nil
}

func (s *TaskTypeServiceImpl) Update(db *gorm.DB, id uint, input ReferenceInput) (models.TaskType, error) {
	var taskType models.TaskType
	if err := db.First(&taskType, id).Error; err != nil {
		return models.TaskType{}, err
	}
	taskType.Name = strings.TrimSpace(input.Name)
	if taskType.Name == "" {
		return models.TaskType{}, ErrNameRequired
	}
	if err := db.Model(&taskType).Update("name", taskType.Name).Error; err != nil {
		return models.TaskType{}, translateNameConflict(err)
	}
	return taskType, nil
}

// Delete removes the task type and, per the declared deletion policy, every
// task referencing it.
func (s *TaskTypeServiceImpl) Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var taskType models.TaskType
		if err := tx.First(&taskType, id).Error; err != nil {
			return err
		}

		var tasks []models.Task
		if err := tx.Where("task_type_id = ?", id).Find(&tasks).Error; err != nil {
			return err
		}
		for i := range tasks {
			if err := tx.Model(&tasks[i]).Association("Assignees").Clear(); err != nil {
				return err
			}
			if err := tx.Model(&tasks[i]).Association("Tags").Clear(); err != nil {
				return err
			}
		}
		if len(tasks) > 0 {
			if err := tx.Where("task_type_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&taskType).Error
	})
}

type TagServiceImpl struct{}

func NewTagService() *TagServiceImpl { return &TagServiceImpl{} }

func (s *TagServiceImpl) List(db *gorm.DB, name string, page int) ([]models.Tag, int64, error) {
	var tags []models.Tag
	total, err := listByName(db, &tags, name, page)
	return tags, total, err
}

func (s *TagServiceImpl) Create(db *gorm.DB, input ReferenceInput) (models.Tag, error) {
	tag := models.Tag{Name: strings.TrimSpace(input.Name)}
	if tag.Name == "" {
		return models.Tag{}, ErrNameRequired
	}
	if err := db.Create(&tag).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (s *TagServiceImpl) Update(db *gorm.DB, id uint, input ReferenceInput) (models.Tag, error) {
	var tag models.Tag
	if err := db.First(&tag, id).Error; err != nil {
		return models.Tag{}, err
	}
	tag.Name = strings.TrimSpace(input.Name)
	if tag.Name == "" {
		return models.Tag{}, ErrNameRequired
	}
	if err := db.Model(&tag).Update("name", tag.Name).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (s *TagServiceImpl) Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&tag).Association("Tasks").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// listByName pages dest filtered by a case-insensitive name-contains match,
// ordered by name. An empty filter returns the full ordered set.
func listByName(db *gorm.DB, dest interface{}, name string, page int) (int64, error) {
	if page < 1 {
		page = 1
	}

	base := db.Model(dest)
	if q := normalizeQuery(name); q != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}

	err := base.Session(&gorm.Session{}).
		Order("name").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(dest).Error
	return total, err
}

func translateNameConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrNameConflict
	}
	return err
}
