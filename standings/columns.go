// Package standings classifies players from loosely-structured standings
// sheets into groups and ranks them by score.
package standings

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/chessclub/arena/sheets"
)

// Upstream sheet headers are not guaranteed to be consistent, so columns are
// resolved from an ordered candidate list first and a substring heuristic
// second. The fuzziness is a deliberate tolerance, not a bug.

var (
	pointsCandidates = []string{"Points", "Pts", "Total", "Score"}
	idCandidates     = []string{"Tournament ID", "ID", "Code"}
	nameCandidates   = []string{"Nickname", "Player Name", "Name"}
)

// Heuristic reports whether a header looks like the wanted column.
type Heuristic func(header string) bool

func PointsHeuristic(header string) bool {
	h := strings.ToLower(header)
	return strings.Contains(h, "point") || strings.Contains(h, "pts") || strings.Contains(h, "score")
}

func IdentifierHeuristic(header string) bool {
	h := strings.ToLower(header)
	return strings.Contains(h, "tournament") || strings.Contains(h, "id")
}

// ResolveColumn picks the header to read: exact candidate matches first,
// then case-normalized matches, then the heuristic over all headers.
func ResolveColumn(headers []string, candidates []string, fallback Heuristic) (string, bool) {
	for _, candidate := range candidates {
		for _, header := range headers {
			if header == candidate {
				return header, true
			}
		}
	}
	for _, candidate := range candidates {
		for _, header := range headers {
			if strings.EqualFold(header, candidate) {
				return header, true
			}
		}
	}
	if fallback != nil {
		for _, header := range headers {
			if fallback(header) {
				return header, true
			}
		}
	}
	return "", false
}

// Points reads the score cell of a row. The half-point glyph is treated as
// 0.5 before parsing; an unparsable cell counts as zero.
func Points(row sheets.Row, column string) float64 {
	return ParsePoints(row[column])
}

func ParsePoints(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if raw == "½" {
		return 0.5
	}
	raw = strings.ReplaceAll(raw, "½", ".5")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

// GroupKey derives the group from an identifier by stripping trailing
// digits, e.g. "GAP3" groups under "GAP". Empty when the identifier carries
// no letter prefix.
func GroupKey(id string) string {
	return strings.TrimRightFunc(strings.TrimSpace(id), unicode.IsDigit)
}
