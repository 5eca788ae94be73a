package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chessclub/arena/config"
	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/repositories"
	"github.com/chessclub/arena/sheets"
	"github.com/chessclub/arena/standings"
	"golang.org/x/sync/errgroup"
)

// Column candidates for the rounds sheets, resolved with the same tolerance
// as the standings sheets.
var (
	whiteNameCandidates   = []string{"White", "White Name"}
	blackNameCandidates   = []string{"Black", "Black Name"}
	whitePointsCandidates = []string{"White Points", "White Pts"}
	blackPointsCandidates = []string{"Black Points", "Black Pts"}
)

type SourceReport struct {
	Category models.Category `json:"category"`
	Inserted int             `json:"inserted"`
	Skipped  int             `json:"skipped"`
	Error    string          `json:"error,omitempty"`
}

type SyncReport struct {
	Sources  []SourceReport `json:"sources"`
	Inserted int            `json:"inserted"`
	Skipped  int            `json:"skipped"`
}

// SyncService imports concluded games from the published rounds sheets into
// the match store. The import is one-directional and idempotent: rows whose
// game fragment is already present are skipped.
type SyncService interface {
	SyncAll(ctx context.Context, adminEmail string) (*SyncReport, error)
}

type syncService struct {
	sources   []config.SheetSource
	fetcher   sheets.Fetcher
	matchRepo repositories.MatchRepository
	audit     AuditLogger
	logger    *slog.Logger
}

func NewSyncService(
	sources []config.SheetSource,
	fetcher sheets.Fetcher,
	matchRepo repositories.MatchRepository,
	audit AuditLogger,
	logger *slog.Logger,
) SyncService {
	return &syncService{
		sources:   sources,
		fetcher:   fetcher,
		matchRepo: matchRepo,
		audit:     audit,
		logger:    logger,
	}
}

func (s *syncService) SyncAll(ctx context.Context, adminEmail string) (*SyncReport, error) {
	report := &SyncReport{Sources: []SourceReport{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, source := range s.sources {
		if source.RoundsURL == "" {
			continue
		}
		source := source
		g.Go(func() error {
			sourceReport := s.syncSource(gctx, source)

			mu.Lock()
			report.Sources = append(report.Sources, sourceReport)
			report.Inserted += sourceReport.Inserted
			report.Skipped += sourceReport.Skipped
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, adminEmail, models.AuditActionSync,
		fmt.Sprintf("synced round sheets: %d inserted, %d skipped", report.Inserted, report.Skipped))
	return report, nil
}

// syncSource imports one category's rounds sheet. Fetch failures are
// reported per source, never propagated: a broken sheet must not block the
// other categories.
func (s *syncService) syncSource(ctx context.Context, source config.SheetSource) SourceReport {
	report := SourceReport{Category: source.Category}

	table, err := s.fetcher.Fetch(ctx, source.RoundsURL)
	if err != nil {
		s.logger.Error("failed to fetch rounds sheet",
			slog.String("category", string(source.Category)),
			slog.Any("error", err),
		)
		report.Error = err.Error()
		return report
	}

	whiteCol, _ := standings.ResolveColumn(table.Headers, whiteNameCandidates, nil)
	blackCol, _ := standings.ResolveColumn(table.Headers, blackNameCandidates, nil)
	whitePtsCol, _ := standings.ResolveColumn(table.Headers, whitePointsCandidates, nil)
	blackPtsCol, _ := standings.ResolveColumn(table.Headers, blackPointsCandidates, nil)

	for _, row := range table.Rows {
		gameURL, fragment, ok := findGameLink(row)
		if !ok {
			continue
		}

		_, err := s.matchRepo.FindByURLFragment(ctx, fragment, 0)
		if err == nil {
			report.Skipped++
			continue
		}
		if !errors.Is(err, repositories.ErrMatchNotFound) {
			s.logger.Error("duplicate lookup failed during sync",
				slog.String("fragment", fragment),
				slog.Any("error", err),
			)
			report.Error = err.Error()
			continue
		}

		white := defaultName(row[whiteCol], "Unknown")
		black := defaultName(row[blackCol], "Unknown")
		match := &models.MatchRecord{
			WhiteID:   white,
			BlackID:   black,
			WhiteName: white,
			BlackName: black,
			GameURL:   &gameURL,
			IsActive:  false,
			Result:    deriveResult(row[whitePtsCol], row[blackPtsCol]),
			Category:  source.Category,
			ManagedBy: "sheet-sync",
		}
		if err := s.matchRepo.Create(ctx, match); err != nil {
			s.logger.Error("failed to insert synced match",
				slog.String("fragment", fragment),
				slog.Any("error", err),
			)
			report.Error = err.Error()
			continue
		}
		report.Inserted++
	}

	return report
}

// findGameLink scans the row's cells for a recognizable game URL. Cell
// order does not matter: a rounds row carries at most one link.
func findGameLink(row sheets.Row) (url, fragment string, ok bool) {
	for _, value := range row {
		if frag, found := ExtractGameFragment(value); found {
			return value, frag, true
		}
	}
	return "", "", false
}

// deriveResult maps the point columns of a rounds row onto a result token:
// white 1 is a white win, black 1 a black win, a half point either side a
// draw; anything else with both cells present becomes a literal score.
func deriveResult(whiteRaw, blackRaw string) *string {
	white := standings.ParsePoints(whiteRaw)
	black := standings.ParsePoints(blackRaw)

	// Win checks come first so a malformed row like ½/1 still resolves to
	// the full point.
	var result string
	switch {
	case white == 1:
		result = models.ResultWhiteWins
	case black == 1:
		result = models.ResultBlackWins
	case white == 0.5 || black == 0.5:
		result = models.ResultDraw
	case whiteRaw != "" && blackRaw != "":
		result = whiteRaw + " - " + blackRaw
	default:
		return nil
	}
	return &result
}
