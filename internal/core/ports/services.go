package ports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/taskera/backend/internal/domain"
)

type TaskService interface {
	ListTasks(ctx context.Context, query ListTasksQuery) ([]domain.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	CreateTask(ctx context.Context, input CreateTaskInput) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*domain.Task, error)
	Transition(ctx context.Context, id uuid.UUID, t domain.Transition) (*domain.Task, error)
}

// ListTasksQuery scopes and filters a listing. A zero Assignee means the
// admin "all tasks" scope; admin listings come back newest first, member
// listings soonest first.
type ListTasksQuery struct {
	Assignee       uuid.UUID
	StatusFilter   *domain.TaskStatus
	AssigneeFilter *uuid.UUID
}

func (q ListTasksQuery) AllScope() bool {
	return q.Assignee == uuid.Nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	ScheduledAt time.Time
	CreatedBy   uuid.UUID
	AssigneeIDs []uuid.UUID
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	ScheduledAt *time.Time
	AssignedTo  *uuid.UUID
}

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, *domain.Session, error)
	SignOut(ctx context.Context, token uuid.UUID) error
	CurrentUser(ctx context.Context, token uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	Bootstrapped(ctx context.Context) (bool, error)
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// MediaUploader pushes a file to the media host and returns its public URL.
type MediaUploader interface {
	Upload(ctx context.Context, filename string, data io.Reader) (string, error)
}

// ChangePublisher fans a task change out to feed subscribers.
type ChangePublisher interface {
	Publish(change domain.TaskChange)
}
