package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/domain"
	"github.com/taskera/backend/internal/infrastructure/logger"
)

type TaskServiceConfig struct {
	TaskRepo  ports.TaskRepository
	UserRepo  ports.UserRepository
	Uploader  ports.MediaUploader
	Publisher ports.ChangePublisher
	Logger    *logger.Logger
}

type taskService struct {
	repo      ports.TaskRepository
	userRepo  ports.UserRepository
	uploader  ports.MediaUploader
	publisher ports.ChangePublisher
	logger    *logger.Logger
}

func NewTaskService(cfg TaskServiceConfig) ports.TaskService {
	return &taskService{
		repo:      cfg.TaskRepo,
		userRepo:  cfg.UserRepo,
		uploader:  cfg.Uploader,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}
}

// ListTasks fetches the scoped task set, resolves assignee display names and
// applies the client-side filters. Member scope comes back soonest first,
// the admin all-scope newest first.
func (s *taskService) ListTasks(ctx context.Context, query ports.ListTasksQuery) ([]domain.Task, error) {
	order := ports.SortAscending
	if query.AllScope() {
		order = ports.SortDescending
	}

	var (
		tasks []domain.Task
		err   error
	)
	if query.AllScope() {
		tasks, err = s.repo.GetAll(ctx, order)
	} else {
		tasks, err = s.repo.GetByAssignee(ctx, query.Assignee, order)
	}
	if err != nil {
		s.logger.Errorw("task_list_fetch_failed", "error", err)
		return nil, err
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		s.logger.Errorw("task_list_user_lookup_failed", "error", err)
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	filtered := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		t.Status = t.Status.Normalize()
		if query.StatusFilter != nil && t.Status != *query.StatusFilter {
			continue
		}
		if query.AllScope() && query.AssigneeFilter != nil && t.AssignedTo != *query.AssigneeFilter {
			continue
		}
		if name, ok := names[t.AssignedTo]; ok {
			t.AssigneeName = name
		} else {
			t.AssigneeName = t.AssignedTo.String()
		}
		filtered = append(filtered, t)
	}

	return filtered, nil
}

func (s *taskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	task.Status = task.Status.Normalize()
	return task, nil
}

// CreateTask fans one request out into one pending row per assignee, all
// sharing title, description, schedule and creator, written as a single
// batch. Validation failures return before anything is written.
func (s *taskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) ([]domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}
	if input.ScheduledAt.IsZero() {
		return nil, ErrTaskDateRequired
	}
	if len(input.AssigneeIDs) == 0 {
		return nil, ErrTaskNoAssignees
	}

	seen := make(map[uuid.UUID]bool, len(input.AssigneeIDs))
	rows := make([]*domain.Task, 0, len(input.AssigneeIDs))
	for _, assignee := range input.AssigneeIDs {
		if assignee == uuid.Nil || seen[assignee] {
			continue
		}
		seen[assignee] = true
		rows = append(rows, &domain.Task{
			ID:          uuid.New(),
			Title:       input.Title,
			Description: input.Description,
			ScheduledAt: input.ScheduledAt,
			CreatedBy:   input.CreatedBy,
			AssignedTo:  assignee,
			Status:      domain.TaskStatusPending,
		})
	}
	if len(rows) == 0 {
		return nil, ErrTaskNoAssignees
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		s.logger.Errorw("task_create_batch_failed", "count", len(rows), "error", err)
		return nil, err
	}

	created := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		created = append(created, *row)
		s.publish(domain.TaskChange{Type: domain.ChangeInsert, Task: *row})
	}
	s.logger.Infow("task_create_ok", "count", len(created), "title", input.Title)
	return created, nil
}

// UpdateTask is the admin edit path for title, description, schedule and
// assignee. Status never changes here; that is Transition's job.
func (s *taskService) UpdateTask(ctx context.Context, id uuid.UUID, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	fields := make(map[string]interface{})
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTaskTitleRequired
		}
		fields["title"] = *input.Title
		task.Title = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
		task.Description = *input.Description
	}
	if input.ScheduledAt != nil {
		if input.ScheduledAt.IsZero() {
			return nil, ErrTaskDateRequired
		}
		fields["scheduled_at"] = *input.ScheduledAt
		task.ScheduledAt = *input.ScheduledAt
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == uuid.Nil {
			return nil, ErrTaskInvalidInput
		}
		if _, err := s.userRepo.GetByID(ctx, *input.AssignedTo); err != nil {
			return nil, ErrUserNotFound
		}
		fields["assigned_to"] = *input.AssignedTo
		task.AssignedTo = *input.AssignedTo
	}
	if len(fields) == 0 {
		return task, nil
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		s.logger.Errorw("task_update_failed", "id", id, "error", err)
		return nil, err
	}

	s.publish(domain.TaskChange{Type: domain.ChangeUpdate, Task: *task})
	s.logger.Infow("task_update_ok", "id", id)
	return task, nil
}

// Transition applies one validated status change as exactly one update.
// Any status may move to any other; the variants only constrain the side
// payload, not the transition graph.
func (s *taskService) Transition(ctx context.Context, id uuid.UUID, t domain.Transition) (*domain.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warnw("task_transition_not_found", "id", id)
		return nil, ErrTaskNotFound
	}

	fields := map[string]interface{}{"status": t.TargetStatus()}

	switch tr := t.(type) {
	case domain.ToPending:
		if task.Status.Normalize() == domain.TaskStatusPending {
			return task, nil
		}
	case domain.ToDone:
		if tr.Evidence != nil {
			url, err := s.uploader.Upload(ctx, tr.Evidence.Name, tr.Evidence.Data)
			if err != nil {
				s.logger.Errorw("task_transition_upload_failed", "id", id, "error", err)
				return nil, fmt.Errorf("%w: %v", ErrEvidenceUploadFail, err)
			}
			fields["evidence_url"] = url
			task.EvidenceURL = url
		}
	case domain.ToPostponed:
		fields["reason"] = tr.Reason
		task.Reason = tr.Reason
		if tr.RescheduledFor != nil {
			fields["rescheduled_for"] = *tr.RescheduledFor
			task.RescheduledFor = tr.RescheduledFor
		}
	case domain.ToCancelled:
		fields["reason"] = tr.Reason
		task.Reason = tr.Reason
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		s.logger.Errorw("task_transition_update_failed", "id", id, "status", t.TargetStatus(), "error", err)
		return nil, err
	}

	task.Status = t.TargetStatus()
	task.UpdatedAt = time.Now()

	s.publish(domain.TaskChange{Type: domain.ChangeUpdate, Task: *task})
	s.logger.Infow("task_transition_ok", "id", id, "status", task.Status)
	return task, nil
}

func (s *taskService) publish(change domain.TaskChange) {
	if s.publisher != nil {
		s.publisher.Publish(change)
	}
}
