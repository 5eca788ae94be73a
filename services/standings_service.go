package services

import (
	"context"
	"log/slog"

	"github.com/chessclub/arena/cache"
	"github.com/chessclub/arena/config"
	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/sheets"
	"github.com/chessclub/arena/standings"
)

// StandingsService derives the group tables for a category from its
// published standings sheet. Results are cached for a bounded duration to
// avoid hammering the sheet host; a fetch failure yields empty standings and
// a logged error, never a crash.
type StandingsService interface {
	GetStandings(ctx context.Context, category models.Category) (*models.CategoryStandings, error)
}

type standingsService struct {
	cfg     *config.Config
	fetcher sheets.Fetcher
	cache   cache.Cache
	logger  *slog.Logger
}

func NewStandingsService(cfg *config.Config, fetcher sheets.Fetcher, c cache.Cache, logger *slog.Logger) StandingsService {
	return &standingsService{cfg: cfg, fetcher: fetcher, cache: c, logger: logger}
}

func (s *standingsService) GetStandings(ctx context.Context, category models.Category) (*models.CategoryStandings, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	empty := &models.CategoryStandings{
		Category:   category,
		Groups:     []models.StandingsGroup{},
		RawHeaders: []string{},
		RawRows:    []map[string]string{},
	}

	source, ok := s.cfg.Source(category)
	if !ok {
		s.logger.Warn("no standings sheet configured", slog.String("category", string(category)))
		return empty, nil
	}

	key := "standings:" + string(category)
	result, err := cache.GetOrFetch(ctx, s.cache, key, s.cfg.SheetCacheTTL,
		func(ctx context.Context) (*models.CategoryStandings, error) {
			table, err := s.fetcher.Fetch(ctx, source.StandingsURL)
			if err != nil {
				return nil, err
			}
			return buildStandings(category, table), nil
		})
	if err != nil {
		s.logger.Error("failed to fetch standings sheet",
			slog.String("category", string(category)),
			slog.Any("error", err),
		)
		return empty, nil
	}
	return result, nil
}

func buildStandings(category models.Category, table *sheets.Table) *models.CategoryStandings {
	rawRows := make([]map[string]string, len(table.Rows))
	for i, row := range table.Rows {
		rawRows[i] = row
	}
	return &models.CategoryStandings{
		Category:   category,
		Groups:     standings.Classify(category, table),
		RawHeaders: table.Headers,
		RawRows:    rawRows,
	}
}
