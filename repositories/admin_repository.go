package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// AdminRepository checks the admins allow-list table. Authentication itself
// happens at an external identity provider; only the email claim is checked
// here.
type AdminRepository interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) IsAllowed(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM admins WHERE lower(email) = $1)`

	var allowed bool
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("failed to check admin allow-list for %q: %w", email, err)
	}
	return allowed, nil
}
