package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/repositories"
	"github.com/chessclub/arena/sheets"
)

// fakeMatchRepo is an in-memory MatchRepository for service tests.
type fakeMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]*models.MatchRecord
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.MatchRecord)}
}

func (r *fakeMatchRepo) Create(_ context.Context, match *models.MatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	match.ID = r.nextID
	match.CreatedAt = time.Now()
	match.UpdatedAt = match.CreatedAt
	clone := *match
	r.matches[match.ID] = &clone
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *match
	return &clone, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, id int, update models.MatchUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if update.WhiteID != nil {
		match.WhiteID = *update.WhiteID
	}
	if update.BlackID != nil {
		match.BlackID = *update.BlackID
	}
	if update.WhiteName != nil {
		match.WhiteName = *update.WhiteName
	}
	if update.BlackName != nil {
		match.BlackName = *update.BlackName
	}
	if update.GameURL != nil {
		match.GameURL = update.GameURL
	}
	if update.StartTime != nil {
		match.StartTime = update.StartTime
	}
	if update.IsActive != nil {
		match.IsActive = *update.IsActive
	}
	if update.Result != nil {
		match.Result = update.Result
	}
	if update.Category != nil {
		match.Category = *update.Category
	}
	if update.ManagedBy != nil {
		match.ManagedBy = *update.ManagedBy
	}
	match.UpdatedAt = time.Now()
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) ListActive(_ context.Context) ([]*models.MatchRecord, error) {
	return r.list(func(m *models.MatchRecord) bool { return m.IsActive }), nil
}

func (r *fakeMatchRepo) ListArchived(_ context.Context) ([]*models.MatchRecord, error) {
	return r.list(func(m *models.MatchRecord) bool { return !m.IsActive }), nil
}

func (r *fakeMatchRepo) ListAll(_ context.Context) ([]*models.MatchRecord, error) {
	return r.list(func(*models.MatchRecord) bool { return true }), nil
}

func (r *fakeMatchRepo) FindByURLFragment(_ context.Context, fragment string, excludeID int) (*models.MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, match := range r.sorted() {
		if match.ID == excludeID {
			continue
		}
		if match.GameURL != nil && strings.Contains(*match.GameURL, fragment) {
			clone := *match
			return &clone, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ArchiveAllActive(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	archived := 0
	for _, match := range r.matches {
		if match.IsActive {
			match.IsActive = false
			archived++
		}
	}
	return archived, nil
}

func (r *fakeMatchRepo) list(keep func(*models.MatchRecord) bool) []*models.MatchRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.MatchRecord, 0)
	for _, match := range r.sorted() {
		if keep(match) {
			clone := *match
			out = append(out, &clone)
		}
	}
	return out
}

func (r *fakeMatchRepo) sorted() []*models.MatchRecord {
	ids := make([]int, 0, len(r.matches))
	for id := range r.matches {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*models.MatchRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.matches[id])
	}
	return out
}

// fakeAuditLogger records entries instead of writing to the store.
type fakeAuditLogger struct {
	mu      sync.Mutex
	entries []models.AuditLogEntry
}

func (l *fakeAuditLogger) Log(_ context.Context, adminEmail string, action models.AuditAction, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, models.AuditLogEntry{
		AdminEmail: adminEmail,
		ActionType: action,
		Details:    details,
	})
}

func (l *fakeAuditLogger) List(context.Context, int) ([]*models.AuditLogEntry, error) {
	return nil, nil
}

func (l *fakeAuditLogger) actions() []models.AuditAction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.AuditAction, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.ActionType
	}
	return out
}

// fakeFetcher serves canned tables per URL.
type fakeFetcher struct {
	tables map[string]*sheets.Table
	errs   map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*sheets.Table, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if table, ok := f.tables[url]; ok {
		return table, nil
	}
	return &sheets.Table{Headers: []string{}, Rows: []sheets.Row{}}, nil
}
