package services_test

import (
	"testing"
	"time"

	"task-tracker/internal/cache"
	"task-tracker/internal/models"
	"task-tracker/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CachedTaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	mr      *miniredis.Miniredis
	cache   *cache.RedisCache
	service *services.CachedTaskService

	taskType models.TaskType
}

func (suite *CachedTaskServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(models.All()...))

	suite.mr = miniredis.RunT(suite.T())
	config := cache.DefaultCacheConfig()
	config.Addr = suite.mr.Addr()

	suite.db = db
	suite.cache = cache.NewRedisCache(config)
	suite.service = services.NewCachedTaskService(services.NewTaskService(), suite.cache)

	suite.taskType = models.TaskType{Name: "Design"}
	suite.Require().NoError(db.Create(&suite.taskType).Error)
}

func (suite *CachedTaskServiceTestSuite) TearDownTest() {
	suite.cache.Close()
}

func (suite *CachedTaskServiceTestSuite) createTask(name string) models.Task {
	task, err := suite.service.Create(suite.db, services.TaskInput{
		Name:       name,
		Deadline:   time.Now().Add(48 * time.Hour),
		Priority:   models.PriorityMedium,
		TaskTypeID: suite.taskType.ID,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *CachedTaskServiceTestSuite) TestDetailIsServedFromCache() {
	suite.createTask("Write Docs")

	first, err := suite.service.GetBySlug(suite.db, "write-docs")
	suite.NoError(err)
	suite.Equal("Write Docs", first.Name)

	// A direct database change is invisible until the entry expires or a
	// write invalidates it.
	suite.Require().NoError(
		suite.db.Model(&models.Task{}).Where("slug = ?", "write-docs").
			UpdateColumn("name", "Renamed Behind The Cache").Error,
	)

	second, err := suite.service.GetBySlug(suite.db, "write-docs")
	suite.NoError(err)
	suite.Equal("Write Docs", second.Name)
}

func (suite *CachedTaskServiceTestSuite) TestChangeStatusInvalidatesDetail() {
	suite.createTask("Write Docs")

	_, err := suite.service.GetBySlug(suite.db, "write-docs")
	suite.NoError(err)

	_, err = suite.service.ChangeStatus(suite.db, "write-docs")
	suite.NoError(err)

	task, err := suite.service.GetBySlug(suite.db, "write-docs")
	suite.NoError(err)
	suite.True(task.IsCompleted)
}

func (suite *CachedTaskServiceTestSuite) TestUpdateInvalidatesOldAndNewSlug() {
	suite.createTask("Write Docs")

	_, err := suite.service.GetBySlug(suite.db, "write-docs")
	suite.NoError(err)

	updated, err := suite.service.Update(suite.db, "write-docs", services.TaskInput{
		Name:       "Publish Docs",
		Deadline:   time.Now().Add(48 * time.Hour),
		Priority:   models.PriorityHigh,
		TaskTypeID: suite.taskType.ID,
	})
	suite.NoError(err)
	suite.Equal("publish-docs", updated.Slug)

	suite.False(suite.mr.Exists("task:write-docs"))

	_, err = suite.service.GetBySlug(suite.db, "write-docs")
	suite.Error(err)

	task, err := suite.service.GetBySlug(suite.db, "publish-docs")
	suite.NoError(err)
	suite.Equal("Publish Docs", task.Name)
}

func (suite *CachedTaskServiceTestSuite) TestDeleteInvalidatesDetail() {
	suite.createTask("Write Docs")

	_, err := suite.service.GetBySlug(suite.db, "write-docs")
	suite.NoError(err)

	suite.NoError(suite.service.Delete(suite.db, "write-docs"))

	_, err = suite.service.GetBySlug(suite.db, "write-docs")
	suite.Error(err)
	suite.True(services.IsNotFound(err))
}

func (suite *CachedTaskServiceTestSuite) TestStatsAreCachedAndInvalidatedByWrites() {
	suite.createTask("Write Docs")

	stats, err := services.CachedStats(suite.db, suite.cache)
	suite.NoError(err)
	suite.Equal(int64(1), stats.Tasks)
	suite.True(suite.mr.Exists("dashboard:stats"))

	suite.createTask("Review Docs")
	suite.False(suite.mr.Exists("dashboard:stats"))

	stats, err = services.CachedStats(suite.db, suite.cache)
	suite.NoError(err)
	suite.Equal(int64(2), stats.Tasks)
}

func (suite *CachedTaskServiceTestSuite) TestInvalidateTaskCacheFlushesNamespace() {
	suite.createTask("Write Docs")
	suite.createTask("Publish Docs")

	_, err := suite.service.GetBySlug(suite.db, "write-docs")
	suite.NoError(err)
	_, err = suite.service.GetBySlug(suite.db, "publish-docs")
	suite.NoError(err)
	_, err = services.CachedStats(suite.db, suite.cache)
	suite.NoError(err)

	suite.True(suite.mr.Exists("task:write-docs"))
	suite.True(suite.mr.Exists("task:publish-docs"))
	suite.True(suite.mr.Exists("dashboard:stats"))

	suite.NoError(services.InvalidateTaskCache(suite.cache))

	suite.False(suite.mr.Exists("task:write-docs"))
	suite.False(suite.mr.Exists("task:publish-docs"))
	suite.False(suite.mr.Exists("dashboard:stats"))
}

func (suite *CachedTaskServiceTestSuite) TestFallsBackWhenCacheIsDown() {
	suite.createTask("Write Docs")
	suite.mr.Close()

	task, err := suite.service.GetBySlug(suite.db, "write-docs")
	suite.NoError(err)
	suite.Equal("Write Docs", task.Name)
}

func TestCachedTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CachedTaskServiceTestSuite))
}
