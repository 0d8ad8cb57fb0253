package domain

import (
	"time"

	"github.com/google/uuid"
)

// ==================== ENUMS ====================

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusDone      TaskStatus = "done"
	TaskStatusPostponed TaskStatus = "postponed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusDone, TaskStatusPostponed, TaskStatusCancelled:
		return true
	}
	return false
}

// Normalize maps an absent or unknown status to pending, matching how the
// rest of the system reads task rows.
func (s TaskStatus) Normalize() TaskStatus {
	if s.IsValid() {
		return s
	}
	return TaskStatusPending
}

// ==================== ENTITIES ====================

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string   `gorm:"size:255;not null" json:"name"`
	Email        string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"type:text;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null;default:'member'" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Task is one unit of assigned work. A creation request naming several
// assignees fans out into one row per assignee; a row never has more than
// one assignee and is never deleted.
type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ScheduledAt time.Time  `gorm:"not null;index" json:"scheduled_at"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	AssignedTo  uuid.UUID  `gorm:"type:uuid;not null;index" json:"assigned_to"`
	Status      TaskStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// Transition side payloads. Reason accompanies postponed/cancelled,
	// RescheduledFor only postponed, EvidenceURL only done.
	Reason         string     `gorm:"type:text" json:"reason,omitempty"`
	RescheduledFor *time.Time `json:"rescheduled_for,omitempty"`
	EvidenceURL    string     `gorm:"type:text" json:"evidence_url,omitempty"`

	// Resolved from the users table when listing; not stored.
	AssigneeName string `gorm:"-" json:"assignee_name,omitempty"`
}

type Session struct {
	Token     uuid.UUID `gorm:"type:uuid;primaryKey" json:"token"`
	CreatedAt time.Time `json:"created_at"`

	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
