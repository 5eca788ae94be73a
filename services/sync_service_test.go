package services

import (
	"context"
	"errors"
	"testing"

	"github.com/chessclub/arena/config"
	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundsURL = "https://sheets.example.org/adults-rounds.csv"

func adultsSource() config.SheetSource {
	return config.SheetSource{
		Category:     models.CategoryAdults,
		StandingsURL: "https://sheets.example.org/adults-standings.csv",
		RoundsURL:    roundsURL,
	}
}

func newTestSyncService(repo *fakeMatchRepo, fetcher *fakeFetcher, audit *fakeAuditLogger, sources ...config.SheetSource) SyncService {
	return NewSyncService(sources, fetcher, repo, audit, testLogger())
}

func roundsTable(rows ...sheets.Row) *sheets.Table {
	return &sheets.Table{
		Headers: []string{"White", "Black", "White Points", "Black Points", "Lichess Match URL"},
		Rows:    rows,
	}
}

func TestSyncAll_ImportsArchivedRecordWithResult(t *testing.T) {
	repo := newFakeMatchRepo()
	audit := &fakeAuditLogger{}
	fetcher := &fakeFetcher{tables: map[string]*sheets.Table{
		roundsURL: roundsTable(sheets.Row{
			"White": "A", "Black": "B",
			"White Points": "1", "Black Points": "0",
			"Lichess Match URL": "https://lichess.org/abc12345",
		}),
	}}
	svc := newTestSyncService(repo, fetcher, audit, adultsSource())

	report, err := svc.SyncAll(context.Background(), "admin@club.org")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 0, report.Skipped)

	all, _ := repo.ListAll(context.Background())
	require.Len(t, all, 1)
	match := all[0]
	assert.False(t, match.IsActive, "synced games arrive archived")
	assert.Equal(t, "A", match.WhiteName)
	assert.Equal(t, "B", match.BlackName)
	require.NotNil(t, match.Result)
	assert.Equal(t, models.ResultWhiteWins, *match.Result)
	assert.Equal(t, models.CategoryAdults, match.Category)

	assert.Equal(t, []models.AuditAction{models.AuditActionSync}, audit.actions())
}

func TestSyncAll_SecondRunInsertsNothing(t *testing.T) {
	repo := newFakeMatchRepo()
	fetcher := &fakeFetcher{tables: map[string]*sheets.Table{
		roundsURL: roundsTable(
			sheets.Row{"White": "A", "Black": "B", "White Points": "1", "Black Points": "0", "Lichess Match URL": "https://lichess.org/abc12345"},
			sheets.Row{"White": "C", "Black": "D", "White Points": "0", "Black Points": "1", "Lichess Match URL": "https://lichess.org/def67890"},
		),
	}}
	svc := newTestSyncService(repo, fetcher, &fakeAuditLogger{}, adultsSource())
	ctx := context.Background()

	first, err := svc.SyncAll(ctx, "admin@club.org")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := svc.SyncAll(ctx, "admin@club.org")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 2, second.Skipped)

	all, _ := repo.ListAll(ctx)
	assert.Len(t, all, 2)
}

func TestSyncAll_ResultDerivation(t *testing.T) {
	repo := newFakeMatchRepo()
	fetcher := &fakeFetcher{tables: map[string]*sheets.Table{
		roundsURL: roundsTable(
			sheets.Row{"White": "A", "Black": "B", "White Points": "0", "Black Points": "1", "Lichess Match URL": "https://lichess.org/aaaa1111"},
			sheets.Row{"White": "C", "Black": "D", "White Points": "½", "Black Points": "½", "Lichess Match URL": "https://lichess.org/bbbb2222"},
			sheets.Row{"White": "E", "Black": "F", "White Points": "2", "Black Points": "3", "Lichess Match URL": "https://lichess.org/cccc3333"},
			sheets.Row{"White": "G", "Black": "H", "Lichess Match URL": "https://lichess.org/dddd4444"},
			sheets.Row{"White": "I", "Black": "J", "White Points": "½", "Black Points": "1", "Lichess Match URL": "https://lichess.org/eeee5555"},
		),
	}}
	svc := newTestSyncService(repo, fetcher, &fakeAuditLogger{}, adultsSource())

	_, err := svc.SyncAll(context.Background(), "admin@club.org")
	require.NoError(t, err)

	byWhite := map[string]*models.MatchRecord{}
	all, _ := repo.ListAll(context.Background())
	for _, m := range all {
		byWhite[m.WhiteName] = m
	}
	require.Len(t, byWhite, 5)

	require.NotNil(t, byWhite["A"].Result)
	assert.Equal(t, models.ResultBlackWins, *byWhite["A"].Result)
	require.NotNil(t, byWhite["C"].Result)
	assert.Equal(t, models.ResultDraw, *byWhite["C"].Result)
	require.NotNil(t, byWhite["E"].Result)
	assert.Equal(t, "2 - 3", *byWhite["E"].Result)
	assert.Nil(t, byWhite["G"].Result, "no points, no result")
	require.NotNil(t, byWhite["I"].Result)
	assert.Equal(t, models.ResultBlackWins, *byWhite["I"].Result, "a full point outranks a stray half point")
}

func TestSyncAll_RowsWithoutGameLinkAreIgnored(t *testing.T) {
	repo := newFakeMatchRepo()
	fetcher := &fakeFetcher{tables: map[string]*sheets.Table{
		roundsURL: roundsTable(
			sheets.Row{"White": "A", "Black": "B", "White Points": "1", "Black Points": "0"},
			sheets.Row{"White": "C", "Black": "D", "White Points": "1", "Black Points": "0", "Lichess Match URL": "pending"},
		),
	}}
	svc := newTestSyncService(repo, fetcher, &fakeAuditLogger{}, adultsSource())

	report, err := svc.SyncAll(context.Background(), "admin@club.org")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)

	all, _ := repo.ListAll(context.Background())
	assert.Empty(t, all)
}

func TestSyncAll_BrokenSourceDoesNotBlockOthers(t *testing.T) {
	juniorsURL := "https://sheets.example.org/juniors-rounds.csv"
	repo := newFakeMatchRepo()
	fetcher := &fakeFetcher{
		tables: map[string]*sheets.Table{
			juniorsURL: {
				Headers: []string{"White", "Black", "White Points", "Black Points", "Link"},
				Rows: []sheets.Row{
					{"White": "J1", "Black": "J2", "White Points": "1", "Black Points": "0", "Link": "https://lichess.org/eeee5555"},
				},
			},
		},
		errs: map[string]error{roundsURL: errors.New("sheet host down")},
	}
	svc := newTestSyncService(repo, fetcher, &fakeAuditLogger{},
		adultsSource(),
		config.SheetSource{Category: models.CategoryJuniors, StandingsURL: "x", RoundsURL: juniorsURL},
	)

	report, err := svc.SyncAll(context.Background(), "admin@club.org")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)

	var adultsReport, juniorsReport *SourceReport
	for i := range report.Sources {
		switch report.Sources[i].Category {
		case models.CategoryAdults:
			adultsReport = &report.Sources[i]
		case models.CategoryJuniors:
			juniorsReport = &report.Sources[i]
		}
	}
	require.NotNil(t, adultsReport)
	require.NotNil(t, juniorsReport)
	assert.Contains(t, adultsReport.Error, "sheet host down")
	assert.Empty(t, juniorsReport.Error)
	assert.Equal(t, 1, juniorsReport.Inserted)
}

func TestSyncAll_SourcesWithoutRoundsURLAreSkipped(t *testing.T) {
	repo := newFakeMatchRepo()
	fetcher := &fakeFetcher{}
	svc := newTestSyncService(repo, fetcher, &fakeAuditLogger{},
		config.SheetSource{Category: models.CategoryKids, StandingsURL: "x"},
	)

	report, err := svc.SyncAll(context.Background(), "admin@club.org")
	require.NoError(t, err)
	assert.Empty(t, report.Sources)
}
