package models

import "time"

type Category string

const (
	CategoryAdults  Category = "Adults"
	CategoryJuniors Category = "Juniors"
	CategoryKids    Category = "Kids"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAdults, CategoryJuniors, CategoryKids:
		return true
	}
	return false
}

// Closed set of finalized outcomes. A free-form "<white> - <black>" score
// string is also accepted for matches imported from the round sheets.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "draw"
)

// MatchRecord is a row of the live_matches table.
//
// A record with a non-nil GameURL and IsActive=true is in progress; a record
// with a nil GameURL, IsActive=true and a future StartTime is scheduled; a
// record with IsActive=false is concluded or manually archived.
type MatchRecord struct {
	ID        int        `json:"id"`
	WhiteID   string     `json:"white_id"`
	BlackID   string     `json:"black_id"`
	WhiteName string     `json:"white_name"`
	BlackName string     `json:"black_name"`
	GameURL   *string    `json:"game_url,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	IsActive  bool       `json:"is_active"`
	Result    *string    `json:"result,omitempty"`
	Category  Category   `json:"category"`
	ManagedBy string     `json:"managed_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Live reports whether the record represents an in-progress match.
func (m *MatchRecord) Live() bool {
	return m.IsActive && m.GameURL != nil
}

// Scheduled reports whether the record is on the board without a game yet.
func (m *MatchRecord) Scheduled() bool {
	return m.IsActive && m.GameURL == nil
}

// MatchUpdate is a partial update of a MatchRecord. Nil fields are left
// untouched by the repository.
type MatchUpdate struct {
	WhiteID   *string
	BlackID   *string
	WhiteName *string
	BlackName *string
	GameURL   *string
	StartTime *time.Time
	IsActive  *bool
	Result    *string
	Category  *Category
	ManagedBy *string
}
