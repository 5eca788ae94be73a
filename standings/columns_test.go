package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumn(t *testing.T) {
	t.Run("exact candidate wins", func(t *testing.T) {
		col, ok := ResolveColumn([]string{"Name", "Points"}, pointsCandidates, PointsHeuristic)
		assert.True(t, ok)
		assert.Equal(t, "Points", col)
	})

	t.Run("candidate order beats header order", func(t *testing.T) {
		col, ok := ResolveColumn([]string{"Score", "Points"}, pointsCandidates, PointsHeuristic)
		assert.True(t, ok)
		assert.Equal(t, "Points", col)
	})

	t.Run("case-normalized match", func(t *testing.T) {
		col, ok := ResolveColumn([]string{"points"}, pointsCandidates, PointsHeuristic)
		assert.True(t, ok)
		assert.Equal(t, "points", col)
	})

	t.Run("heuristic fallback", func(t *testing.T) {
		col, ok := ResolveColumn([]string{"Name", "Total Pts"}, pointsCandidates, PointsHeuristic)
		assert.True(t, ok)
		assert.Equal(t, "Total Pts", col)

		col, ok = ResolveColumn([]string{"Name", "Tournament Code"}, idCandidates, IdentifierHeuristic)
		assert.True(t, ok)
		assert.Equal(t, "Tournament Code", col)
	})

	t.Run("nothing matches", func(t *testing.T) {
		_, ok := ResolveColumn([]string{"Name", "Club"}, pointsCandidates, PointsHeuristic)
		assert.False(t, ok)
	})
}

func TestParsePoints(t *testing.T) {
	assert.Equal(t, 3.0, ParsePoints("3"))
	assert.Equal(t, 2.5, ParsePoints("2.5"))
	assert.Equal(t, 0.5, ParsePoints("½"))
	assert.Equal(t, 1.5, ParsePoints("1½"))
	assert.Equal(t, 0.0, ParsePoints(""))
	assert.Equal(t, 0.0, ParsePoints("n/a"))
	assert.Equal(t, 4.0, ParsePoints(" 4 "))
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "GAP", GroupKey("GAP1"))
	assert.Equal(t, "GCP", GroupKey("GCP12"))
	assert.Equal(t, "P", GroupKey("P7"))
	assert.Equal(t, "", GroupKey("123"))
	assert.Equal(t, "", GroupKey(""))
}
