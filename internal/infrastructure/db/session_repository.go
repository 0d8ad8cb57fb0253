package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/domain"
	"github.com/taskera/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepository(db *gorm.DB, log *logger.Logger) ports.SessionRepository {
	return &sessionRepository{db: db, log: log}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		r.log.Errorw("session_repo_create_failed", "user_id", session.UserID, "error", err)
		return err
	}
	return nil
}

func (r *sessionRepository) GetByToken(ctx context.Context, token uuid.UUID) (*domain.Session, error) {
	var session domain.Session
	if err := r.db.WithContext(ctx).First(&session, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Session{}, "token = ?", token).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	result := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&domain.Session{})
	if result.Error != nil {
		r.log.Errorw("session_repo_sweep_failed", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected > 0 {
		r.log.Infow("session_repo_sweep_ok", "count", result.RowsAffected)
	}
	return nil
}
