package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/domain"
	"github.com/taskera/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type taskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{db: db, log: log}
}

func (r *taskRepository) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	if err := r.db.WithContext(ctx).Create(tasks).Error; err != nil {
		r.log.Errorw("task_repo_create_batch_failed", "count", len(tasks), "error", err)
		return err
	}
	r.log.Infow("task_repo_create_batch_ok", "count", len(tasks))
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		r.log.Errorw("task_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetAll(ctx context.Context, order ports.SortOrder) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).Order(orderClause(order)).Find(&tasks).Error; err != nil {
		r.log.Errorw("task_repo_list_failed", "error", err)
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) GetByAssignee(ctx context.Context, assigneeID uuid.UUID, order ports.SortOrder) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("assigned_to = ?", assigneeID).
		Order(orderClause(order)).
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_by_assignee_failed", "assignee", assigneeID, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		r.log.Errorw("task_repo_update_failed", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.log.Warnw("task_repo_update_no_rows", "id", id)
		return gorm.ErrRecordNotFound
	}
	r.log.Infow("task_repo_update_ok", "id", id)
	return nil
}

func orderClause(order ports.SortOrder) string {
	if order == ports.SortDescending {
		return "scheduled_at DESC"
	}
	return "scheduled_at ASC"
}
