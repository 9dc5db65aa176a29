package services

import (
	"task-tracker/internal/models"

	"gorm.io/gorm"
)

// Stats backs the dashboard page.
type Stats struct {
	Workers        int64 `json:"num_workers"`
	Positions      int64 `json:"num_positions"`
	Tasks          int64 `json:"num_tasks"`
	TasksInWork    int64 `json:"tasks_in_work"`
	CompletedTasks int64 `json:"completed_tasks"`
}

func CollectStats(db *gorm.DB) (Stats, error) {
	var stats Stats

	if err := db.Model(&models.Worker{}).Count(&stats.Workers).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Position{}).Count(&stats.Positions).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Task{}).Count(&stats.Tasks).Error; err != nil {
		return Stats{}, err
	}
	err := db.Model(&models.Task{}).
		Where("is_completed = ?", false).
		Count(&stats.TasksInWork).Error
	if err != nil {
		return Stats{}, err
	}
	stats.CompletedTasks = stats.Tasks - stats.TasksInWork

	return stats, nil
}
