package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/chessclub/arena/board"
	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/repositories"
	"github.com/go-playground/validator/v10"
)

// gameURLPattern recognizes a game link and captures its id fragment. The
// first eight characters of the capture identify the game; longer captures
// carry a color suffix from per-player links.
var gameURLPattern = regexp.MustCompile(`lichess\.org/([A-Za-z0-9]{8,12})`)

const gameFragmentLen = 8

// ExtractGameFragment pulls the short game-id fragment out of a game URL.
// The second return is false when no fragment is recognizable.
func ExtractGameFragment(url string) (string, bool) {
	m := gameURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1][:gameFragmentLen], true
}

type CreateLiveInput struct {
	WhiteID   string          `json:"white_id" validate:"required"`
	BlackID   string          `json:"black_id" validate:"required"`
	WhiteName string          `json:"white_name"`
	BlackName string          `json:"black_name"`
	GameURL   string          `json:"game_url" validate:"required,url"`
	Category  models.Category `json:"category" validate:"required"`
}

type CreateScheduledInput struct {
	WhiteID   string          `json:"white_id"`
	BlackID   string          `json:"black_id"`
	WhiteName string          `json:"white_name" validate:"required"`
	BlackName string          `json:"black_name" validate:"required"`
	StartTime *time.Time      `json:"start_time"`
	Category  models.Category `json:"category" validate:"required"`
}

type MatchService interface {
	CreateLive(ctx context.Context, adminEmail string, input CreateLiveInput) (*models.MatchRecord, error)
	CreateScheduled(ctx context.Context, adminEmail string, input CreateScheduledInput) (*models.MatchRecord, error)
	PromoteToLive(ctx context.Context, adminEmail string, id int, gameURL string) (*models.MatchRecord, error)
	RecordResult(ctx context.Context, adminEmail string, id int, result string, confirmed bool) error
	ToggleStatus(ctx context.Context, adminEmail string, id int, currentActive bool) error
	UpdateFields(ctx context.Context, adminEmail string, id int, fields models.MatchUpdate) error
	Delete(ctx context.Context, adminEmail string, id int, confirmed bool) error
	StopAll(ctx context.Context, adminEmail string) (int, error)

	ListActive(ctx context.Context) ([]*models.MatchRecord, error)
	ListArchived(ctx context.Context) ([]*models.MatchRecord, error)
	ListAll(ctx context.Context) ([]*models.MatchRecord, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	audit     AuditLogger
	hub       *board.Hub
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	audit AuditLogger,
	hub *board.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		audit:     audit,
		hub:       hub,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (s *matchService) CreateLive(ctx context.Context, adminEmail string, input CreateLiveInput) (*models.MatchRecord, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	if err := s.checkDuplicate(ctx, input.GameURL, 0); err != nil {
		return nil, err
	}

	match := &models.MatchRecord{
		WhiteID:   input.WhiteID,
		BlackID:   input.BlackID,
		WhiteName: defaultName(input.WhiteName, input.WhiteID),
		BlackName: defaultName(input.BlackName, input.BlackID),
		GameURL:   &input.GameURL,
		IsActive:  true,
		Category:  input.Category,
		ManagedBy: adminEmail,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionCreateLive,
		fmt.Sprintf("published live match %d: %s vs %s (%s)", match.ID, match.WhiteName, match.BlackName, input.GameURL))
	s.broadcastBoard(ctx)
	return match, nil
}

func (s *matchService) CreateScheduled(ctx context.Context, adminEmail string, input CreateScheduledInput) (*models.MatchRecord, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if input.StartTime == nil {
		return nil, ErrStartTimeRequired
	}

	match := &models.MatchRecord{
		WhiteID:   defaultName(input.WhiteID, input.WhiteName),
		BlackID:   defaultName(input.BlackID, input.BlackName),
		WhiteName: input.WhiteName,
		BlackName: input.BlackName,
		StartTime: input.StartTime,
		IsActive:  true,
		Category:  input.Category,
		ManagedBy: adminEmail,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionSchedule,
		fmt.Sprintf("scheduled match %d: %s vs %s at %s", match.ID, match.WhiteName, match.BlackName, input.StartTime.Format(time.RFC3339)))
	s.broadcastBoard(ctx)
	return match, nil
}

func (s *matchService) PromoteToLive(ctx context.Context, adminEmail string, id int, gameURL string) (*models.MatchRecord, error) {
	if gameURL == "" {
		return nil, ErrGameURLRequired
	}
	if _, err := s.getMatch(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, gameURL, id); err != nil {
		return nil, err
	}

	active := true
	update := models.MatchUpdate{
		GameURL:   &gameURL,
		IsActive:  &active,
		ManagedBy: &adminEmail,
	}
	if err := s.update(ctx, id, update); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionPromote,
		fmt.Sprintf("promoted match %d to live: %s", id, gameURL))
	s.broadcastBoard(ctx)
	return s.getMatch(ctx, id)
}

func (s *matchService) RecordResult(ctx context.Context, adminEmail string, id int, result string, confirmed bool) error {
	if result == "" {
		return ErrResultRequired
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	if _, err := s.getMatch(ctx, id); err != nil {
		return err
	}

	inactive := false
	update := models.MatchUpdate{
		Result:    &result,
		IsActive:  &inactive,
		ManagedBy: &adminEmail,
	}
	if err := s.update(ctx, id, update); err != nil {
		return err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionResult,
		fmt.Sprintf("recorded result %q for match %d", result, id))
	s.broadcastBoard(ctx)
	return nil
}

func (s *matchService) ToggleStatus(ctx context.Context, adminEmail string, id int, currentActive bool) error {
	flipped := !currentActive
	update := models.MatchUpdate{
		IsActive:  &flipped,
		ManagedBy: &adminEmail,
	}
	if err := s.update(ctx, id, update); err != nil {
		return err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionStatusChange,
		fmt.Sprintf("set match %d active=%t", id, flipped))
	s.broadcastBoard(ctx)
	return nil
}

func (s *matchService) UpdateFields(ctx context.Context, adminEmail string, id int, fields models.MatchUpdate) error {
	// Field edits never change the lifecycle state; status transitions go
	// through their dedicated operations.
	fields.IsActive = nil
	fields.Result = nil
	fields.ManagedBy = &adminEmail

	if fields.Category != nil && !fields.Category.Valid() {
		return ErrInvalidCategory
	}
	if fields.GameURL != nil {
		if err := s.checkDuplicate(ctx, *fields.GameURL, id); err != nil {
			return err
		}
	}
	if err := s.update(ctx, id, fields); err != nil {
		return err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionUpdate,
		fmt.Sprintf("edited match %d", id))
	s.broadcastBoard(ctx)
	return nil
}

func (s *matchService) Delete(ctx context.Context, adminEmail string, id int, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionDelete,
		fmt.Sprintf("deleted match %d", id))
	s.broadcastBoard(ctx)
	return nil
}

func (s *matchService) StopAll(ctx context.Context, adminEmail string) (int, error) {
	archived, err := s.matchRepo.ArchiveAllActive(ctx)
	if err != nil {
		return 0, err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionStatusChange,
		fmt.Sprintf("archived all active matches (%d affected)", archived))
	s.broadcastBoard(ctx)
	return archived, nil
}

func (s *matchService) ListActive(ctx context.Context) ([]*models.MatchRecord, error) {
	return s.matchRepo.ListActive(ctx)
}

func (s *matchService) ListArchived(ctx context.Context) ([]*models.MatchRecord, error) {
	return s.matchRepo.ListArchived(ctx)
}

func (s *matchService) ListAll(ctx context.Context) ([]*models.MatchRecord, error) {
	return s.matchRepo.ListAll(ctx)
}

// checkDuplicate aborts publishing when the URL's game fragment is already
// present in the store. excludeID keeps an edit from colliding with the
// record being edited; pass 0 when creating. A URL without a recognizable
// fragment cannot be verified and is let through with a warning.
func (s *matchService) checkDuplicate(ctx context.Context, gameURL string, excludeID int) error {
	fragment, ok := ExtractGameFragment(gameURL)
	if !ok {
		s.logger.Warn("game url has no recognizable id fragment, skipping duplicate check",
			slog.String("url", gameURL))
		return nil
	}

	existing, err := s.matchRepo.FindByURLFragment(ctx, fragment, excludeID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil
		}
		return err
	}
	return &DuplicateMatchError{Existing: existing}
}

func (s *matchService) getMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) update(ctx context.Context, id int, update models.MatchUpdate) error {
	if err := s.matchRepo.Update(ctx, id, update); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

func (s *matchService) broadcastBoard(ctx context.Context) {
	if s.hub == nil {
		return
	}
	active, err := s.matchRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to load active matches for board broadcast", slog.Any("error", err))
		return
	}
	s.hub.BroadcastEvent(board.EventBoardUpdated, active)
}

func defaultName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
