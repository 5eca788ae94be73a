package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chessclub/arena/models"
)

var ErrMatchNotFound = errors.New("match not found")

const matchColumns = `id, white_id, black_id, white_name, black_name, game_url,
       start_time, is_active, result, category, managed_by, created_at, updated_at`

type MatchRepository interface {
	Create(ctx context.Context, match *models.MatchRecord) error
	GetByID(ctx context.Context, id int) (*models.MatchRecord, error)
	Update(ctx context.Context, id int, update models.MatchUpdate) error
	Delete(ctx context.Context, id int) error
	ListActive(ctx context.Context) ([]*models.MatchRecord, error)
	ListArchived(ctx context.Context) ([]*models.MatchRecord, error)
	ListAll(ctx context.Context) ([]*models.MatchRecord, error)
	// FindByURLFragment returns the first record other than excludeID whose
	// game_url contains the fragment, or ErrMatchNotFound. Used for
	// duplicate-game detection; pass excludeID 0 to match any record.
	FindByURLFragment(ctx context.Context, fragment string, excludeID int) (*models.MatchRecord, error)
	// ArchiveAllActive flips every active record to archived and returns the
	// number of records affected.
	ArchiveAllActive(ctx context.Context) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.MatchRecord) error {
	query := `
		INSERT INTO live_matches
			(white_id, black_id, white_name, black_name, game_url, start_time,
			 is_active, result, category, managed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		match.WhiteID,
		match.BlackID,
		match.WhiteName,
		match.BlackName,
		match.GameURL,
		match.StartTime,
		match.IsActive,
		match.Result,
		match.Category,
		match.ManagedBy,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.MatchRecord, error) {
	query := `SELECT ` + matchColumns + ` FROM live_matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, id int, update models.MatchUpdate) error {
	var setClauses []string
	var args []interface{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.WhiteID != nil {
		addSet("white_id", *update.WhiteID)
	}
	if update.BlackID != nil {
		addSet("black_id", *update.BlackID)
	}
	if update.WhiteName != nil {
		addSet("white_name", *update.WhiteName)
	}
	if update.BlackName != nil {
		addSet("black_name", *update.BlackName)
	}
	if update.GameURL != nil {
		addSet("game_url", *update.GameURL)
	}
	if update.StartTime != nil {
		addSet("start_time", *update.StartTime)
	}
	if update.IsActive != nil {
		addSet("is_active", *update.IsActive)
	}
	if update.Result != nil {
		addSet("result", *update.Result)
	}
	if update.Category != nil {
		addSet("category", *update.Category)
	}
	if update.ManagedBy != nil {
		addSet("managed_by", *update.ManagedBy)
	}

	if len(setClauses) == 0 {
		return nil
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	args = append(args, id)
	query := "UPDATE live_matches SET " + strings.Join(setClauses, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM live_matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListActive(ctx context.Context) ([]*models.MatchRecord, error) {
	query := `SELECT ` + matchColumns + `
		FROM live_matches
		WHERE is_active = TRUE
		ORDER BY start_time ASC NULLS LAST, created_at ASC`
	return r.list(ctx, query)
}

func (r *postgresMatchRepository) ListArchived(ctx context.Context) ([]*models.MatchRecord, error) {
	query := `SELECT ` + matchColumns + `
		FROM live_matches
		WHERE is_active = FALSE
		ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *postgresMatchRepository) ListAll(ctx context.Context) ([]*models.MatchRecord, error) {
	query := `SELECT ` + matchColumns + ` FROM live_matches ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *postgresMatchRepository) FindByURLFragment(ctx context.Context, fragment string, excludeID int) (*models.MatchRecord, error) {
	query := `SELECT ` + matchColumns + `
		FROM live_matches
		WHERE game_url LIKE '%' || $1 || '%' AND id <> $2
		ORDER BY created_at ASC
		LIMIT 1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, fragment, excludeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match by url fragment %q: %w", fragment, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ArchiveAllActive(ctx context.Context) (int, error) {
	query := `UPDATE live_matches SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to archive active matches: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(affected), nil
}

func (r *postgresMatchRepository) list(ctx context.Context, query string) ([]*models.MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.MatchRecord, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.MatchRecord, error) {
	match := &models.MatchRecord{}
	err := row.Scan(
		&match.ID,
		&match.WhiteID,
		&match.BlackID,
		&match.WhiteName,
		&match.BlackName,
		&match.GameURL,
		&match.StartTime,
		&match.IsActive,
		&match.Result,
		&match.Category,
		&match.ManagedBy,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}
