package services

import (
	"context"
	"log/slog"

	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/repositories"
)

// AuditLogger appends an entry for every administrative action. Writing is
// best-effort: a failed append must never abort or roll back the action it
// describes, so Log returns nothing and failures are only logged.
type AuditLogger interface {
	Log(ctx context.Context, adminEmail string, action models.AuditAction, details string)
	List(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}

type auditLogger struct {
	auditRepo repositories.AuditRepository
	logger    *slog.Logger
}

func NewAuditLogger(auditRepo repositories.AuditRepository, logger *slog.Logger) AuditLogger {
	return &auditLogger{auditRepo: auditRepo, logger: logger}
}

func (s *auditLogger) Log(ctx context.Context, adminEmail string, action models.AuditAction, details string) {
	entry := &models.AuditLogEntry{
		AdminEmail: adminEmail,
		ActionType: action,
		Details:    details,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log entry",
			slog.String("admin", adminEmail),
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
	}
}

func (s *auditLogger) List(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.auditRepo.List(ctx, limit)
}
