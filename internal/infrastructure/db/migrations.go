package db

import (
	"github.com/taskera/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(database *gorm.DB) error {
	err := database.AutoMigrate(
		&domain.User{},
		&domain.Task{},
		&domain.Session{},
	)
	if err != nil {
		return err
	}

	return createCustomIndexes(database)
}

func createCustomIndexes(database *gorm.DB) error {
	// Listing is always keyed by assignee and ordered by schedule.
	if err := database.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_assignee_schedule
		ON tasks (assigned_to, scheduled_at)
	`).Error; err != nil {
		return err
	}

	// Expired-session sweeps scan by expiry alone.
	if err := database.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sessions_expires_at
		ON sessions (expires_at)
	`).Error; err != nil {
		return err
	}

	return nil
}
