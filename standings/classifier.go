package standings

import (
	"sort"
	"strings"

	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/sheets"
)

// Qualifying thresholds per category: a pure function of sorted position,
// never stored.
const (
	groupQualifiers  = 2 // Adults and Juniors: top 2 per group advance
	leagueQualifiers = 4 // Kids: top 4 of the league table reach the semis
)

// Classify builds the named groups for one category from a fetched standings
// table. Rows without an identifier are excluded from grouping in the
// group-based categories.
func Classify(category models.Category, table *sheets.Table) []models.StandingsGroup {
	if table == nil {
		return []models.StandingsGroup{}
	}

	pointsCol, _ := ResolveColumn(table.Headers, pointsCandidates, PointsHeuristic)
	idCol, _ := ResolveColumn(table.Headers, idCandidates, IdentifierHeuristic)
	nameCol, _ := ResolveColumn(table.Headers, nameCandidates, nil)

	read := func(row sheets.Row) models.StandingRow {
		name := row[nameCol]
		if name == "" {
			name = "Unknown"
		}
		return models.StandingRow{
			Name:   name,
			ID:     strings.ToUpper(strings.TrimSpace(row[idCol])),
			Points: Points(row, pointsCol),
		}
	}

	switch category {
	case models.CategoryAdults:
		// Two fixed groups keyed by the GAP/GBP identifier prefixes.
		var groupA, groupB []models.StandingRow
		for _, row := range table.Rows {
			player := read(row)
			switch {
			case strings.Contains(player.ID, "GAP"):
				groupA = append(groupA, player)
			case strings.Contains(player.ID, "GBP"):
				groupB = append(groupB, player)
			}
		}
		return []models.StandingsGroup{
			{Name: "Group A", Players: rank(groupA, groupQualifiers)},
			{Name: "Group B", Players: rank(groupB, groupQualifiers)},
		}

	case models.CategoryJuniors:
		// Variable number of groups discovered from identifier prefixes,
		// emitted in the order the sheet first mentions them.
		grouped := make(map[string][]models.StandingRow)
		var order []string
		for _, row := range table.Rows {
			player := read(row)
			key := GroupKey(player.ID)
			if key == "" {
				continue
			}
			if _, seen := grouped[key]; !seen {
				order = append(order, key)
			}
			grouped[key] = append(grouped[key], player)
		}

		groups := make([]models.StandingsGroup, 0, len(order))
		for _, key := range order {
			groups = append(groups, models.StandingsGroup{
				Name:    "Group " + key,
				Players: rank(grouped[key], groupQualifiers),
			})
		}
		return groups

	case models.CategoryKids:
		// Single league table over every row.
		players := make([]models.StandingRow, 0, len(table.Rows))
		for _, row := range table.Rows {
			players = append(players, read(row))
		}
		return []models.StandingsGroup{
			{Name: "League Table", Players: rank(players, leagueQualifiers)},
		}
	}

	return []models.StandingsGroup{}
}

// rank sorts by descending points and marks the qualifying positions. The
// sort is stable: equal scores keep their sheet order, because no tie-break
// rule is defined upstream.
func rank(players []models.StandingRow, qualifiers int) []models.StandingRow {
	if players == nil {
		return []models.StandingRow{}
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Points > players[j].Points
	})
	for i := range players {
		players[i].Qualifies = i < qualifiers
	}
	return players
}
