package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskera/backend/internal/domain"
)

// SortOrder selects the scheduled_at ordering applied at the query layer.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

type TaskRepository interface {
	// CreateBatch inserts all rows in one statement; either every row lands
	// or none does.
	CreateBatch(ctx context.Context, tasks []*domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetAll(ctx context.Context, order SortOrder) ([]domain.Task, error)
	GetByAssignee(ctx context.Context, assigneeID uuid.UUID, order SortOrder) ([]domain.Task, error)
	// UpdateFields applies a single update keyed by id, touching only the
	// given columns.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token uuid.UUID) (*domain.Session, error)
	Delete(ctx context.Context, token uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) error
}
