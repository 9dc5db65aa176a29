package services

import (
	"time"

	"task-tracker/internal/cache"
	"task-tracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	taskDetailTTL = 10 * time.Minute
	statsTTL      = time.Minute

	statsKey = "dashboard:stats"
)

// CachedTaskService decorates a TaskService with a redis read-through for
// the task detail page and the dashboard counters. Any cache error falls
// back to the database; writes invalidate the affected keys.
type CachedTaskService struct {
	tasks TaskService
	cache *cache.RedisCache
}

func NewCachedTaskService(tasks TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{tasks: tasks, cache: cacheInstance}
}

func (s *CachedTaskService) List(db *gorm.DB, searchQuery string, page int) ([]models.Task, int64, error) {
	return s.tasks.List(db, searchQuery, page)
}

func (s *CachedTaskService) GetBySlug(db *gorm.DB, taskSlug string) (models.Task, error) {
	key := taskKey(taskSlug)

	var cached models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	task, err := s.tasks.GetBySlug(db, taskSlug)
	if err != nil {
		return models.Task{}, err
	}

	s.cache.Set(key, task, taskDetailTTL)
	return task, nil
}

func (s *CachedTaskService) Create(db *gorm.DB, input TaskInput) (models.Task, error) {
	task, err := s.tasks.Create(db, input)
	if err != nil {
		return models.Task{}, err
	}
	s.cache.Delete(statsKey)
	return task, nil
}

func (s *CachedTaskService) Update(db *gorm.DB, taskSlug string, input TaskInput) (models.Task, error) {
	task, err := s.tasks.Update(db, taskSlug, input)
	if err != nil {
		return models.Task{}, err
	}
	// The slug may have changed with the name; drop both entries.
	s.cache.Delete(taskKey(taskSlug), taskKey(task.Slug), statsKey)
	return task, nil
}

func (s *CachedTaskService) Delete(db *gorm.DB, taskSlug string) error {
	if err := s.tasks.Delete(db, taskSlug); err != nil {
		return err
	}
	s.cache.Delete(taskKey(taskSlug), statsKey)
	return nil
}

func (s *CachedTaskService) ToggleAssign(db *gorm.DB, taskSlug string, workerID uuid.UUID) (models.Task, error) {
	task, err := s.tasks.ToggleAssign(db, taskSlug, workerID)
	if err != nil {
		return models.Task{}, err
	}
	s.cache.Delete(taskKey(taskSlug))
	return task, nil
}

func (s *CachedTaskService) ChangeStatus(db *gorm.DB, taskSlug string) (models.Task, error) {
	task, err := s.tasks.ChangeStatus(db, taskSlug)
	if err != nil {
		return models.Task{}, err
	}
	s.cache.Delete(taskKey(taskSlug), statsKey)
	return task, nil
}

// InvalidateTaskCache drops every cached task detail plus the dashboard
// counters. Writes to reference data (tags, task types, positions, workers)
// change content embedded in cached task entries without touching the tasks
// themselves, so the whole namespace goes.
func InvalidateTaskCache(cacheInstance *cache.RedisCache) error {
	if err := cacheInstance.DeletePattern(taskKey("*")); err != nil {
		return err
	}
	return cacheInstance.Delete(statsKey)
}

// CachedStats serves the dashboard counters with a short-lived cache entry.
func CachedStats(db *gorm.DB, cacheInstance *cache.RedisCache) (Stats, error) {
	var cached Stats
	if err := cacheInstance.Get(statsKey, &cached); err == nil {
		return cached, nil
	}

	stats, err := CollectStats(db)
	if err != nil {
		return Stats{}, err
	}
	cacheInstance.Set(statsKey, stats, statsTTL)
	return stats, nil
}

func taskKey(taskSlug string) string {
	return "task:" + taskSlug
}
