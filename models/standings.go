package models

// StandingRow is derived from a standings sheet on every fetch; it is never
// persisted. Qualifies is a pure function of sorted position within a group.
type StandingRow struct {
	Name      string  `json:"name"`
	ID        string  `json:"id"`
	Points    float64 `json:"points"`
	Qualifies bool    `json:"qualifies"`
}

type StandingsGroup struct {
	Name    string        `json:"name"`
	Players []StandingRow `json:"players"`
}

// CategoryStandings is what the standings endpoint returns: processed groups
// plus the raw table for the full-standings view.
type CategoryStandings struct {
	Category   Category            `json:"category"`
	Groups     []StandingsGroup    `json:"groups"`
	RawHeaders []string            `json:"raw_headers"`
	RawRows    []map[string]string `json:"raw_rows"`
}
