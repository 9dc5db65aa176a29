package services

import (
	"errors"
	"strings"

	"task-tracker/internal/models"
	"task-tracker/internal/slug"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type WorkerInput struct {
	Username   string `json:"username" form:"username" binding:"required,min=3,max=150"`
	Password   string `json:"password" form:"password"`
	FirstName  string `json:"first_name" form:"first_name"`
	LastName   string `json:"last_name" form:"last_name"`
	PositionID *uint  `json:"position_id" form:"position_id"`
}

type WorkerService interface {
	List(db *gorm.DB, searchQuery string, page int) ([]models.Worker, int64, error)
	GetBySlug(db *gorm.DB, workerSlug string) (models.Worker, error)
	Create(db *gorm.DB, input WorkerInput) (models.Worker, error)
	Update(db *gorm.DB, workerSlug string, input WorkerInput) (models.Worker, error)
	Delete(db *gorm.DB, workerSlug string) error
}

type WorkerServiceImpl struct {
	bcryptCost int
}

func NewWorkerService(bcryptCost int) *WorkerServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &WorkerServiceImpl{bcryptCost: bcryptCost}
}

// List returns one page of workers ordered by last name. A non-empty search
// query matches username, first name or last name, case-insensitively (OR
// across all three).
func (s *WorkerServiceImpl) List(db *gorm.DB, searchQuery string, page int) ([]models.Worker, int64, error) {
	if page < 1 {
		page = 1
	}

	base := db.Model(&models.Worker{})
	if q := normalizeQuery(searchQuery); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		base = base.Where(
			"LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workers []models.Worker
	err := base.Session(&gorm.Session{}).
		Order("last_name").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Preload("Position").
		Find(&workers).Error
	if err != nil {
		return nil, 0, err
	}

	return workers, total, nil
}

func (s *WorkerServiceImpl) GetBySlug(db *gorm.DB, workerSlug string) (models.Worker, error) {
	var worker models.Worker
	err := db.Where("slug = ?", workerSlug).
		Preload("Position").
		Preload("Tasks").
		Preload("Tasks.TaskType").
		First(&worker).Error
	return worker, err
}

func (s *WorkerServiceImpl) Create(db *gorm.DB, input WorkerInput) (models.Worker, error) {
	if input.Password == "" {
		return models.Worker{}, errors.New("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return models.Worker{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.Worker{}, err
	}

	worker := models.Worker{
		ID:           id,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		PositionID:   input.PositionID,
		Slug:         slug.Make(input.Username),
	}

	if err := db.Create(&worker).Error; err != nil {
		return models.Worker{}, translateWorkerWriteError(err)
	}
	return worker, nil
}

func (s *WorkerServiceImpl) Update(db *gorm.DB, workerSlug string, input WorkerInput) (models.Worker, error) {
	var worker models.Worker
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", workerSlug).First(&worker).Error; err != nil {
			return err
		}

		worker.Username = input.Username
		worker.FirstName = input.FirstName
		worker.LastName = input.LastName
		worker.PositionID = input.PositionID
		worker.Slug = slug.Make(input.Username)

		fields := []string{"username", "first_name", "last_name", "position_id", "slug"}
		if input.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
			if err != nil {
				return err
			}
			worker.PasswordHash = string(hash)
			fields = append(fields, "password_hash")
		}

		err := tx.Model(&worker).Select(fields).Updates(&worker).Error
		if err != nil {
			return translateWorkerWriteError(err)
		}
		return nil
	})
	if err != nil {
		return models.Worker{}, err
	}
	return worker, nil
}

func (s *WorkerServiceImpl) Delete(db *gorm.DB, workerSlug string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var worker models.Worker
		if err := tx.Where("slug = ?", workerSlug).First(&worker).Error; err != nil {
			return err
		}
		if err := tx.Model(&worker).Association("Tasks").Clear(); err != nil {
			return err
		}
		return tx.Delete(&worker).Error
	})
}

func translateWorkerWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Username and slug share one uniqueness story: the slug is derived
		// from the username, so either index may fire first.
		return ErrUsernameTaken
	}
	return err
}
