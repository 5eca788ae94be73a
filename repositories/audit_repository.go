package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chessclub/arena/models"
)

type AuditRepository interface {
	// Create appends an entry. The table is append-only: there is no update
	// or delete path by design.
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	List(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}

type postgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) AuditRepository {
	return &postgresAuditRepository{db: db}
}

func (r *postgresAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (admin_email, action_type, details)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.AdminEmail,
		entry.ActionType,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert audit log entry: %w", err)
	}
	return nil
}

func (r *postgresAuditRepository) List(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	query := `
		SELECT id, admin_email, action_type, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.AuditLogEntry, 0)
	for rows.Next() {
		var entry models.AuditLogEntry
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.AdminEmail,
			&entry.ActionType,
			&entry.Details,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", scanErr)
		}
		entries = append(entries, &entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during audit log rows iteration: %w", err)
	}
	return entries, nil
}
