// internal/scoring/reputation/reputation_test.go
package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankScore(t *testing.T) {
	tests := []struct {
		name string
		rank *int
		max  int
		want float64
	}{
		{"absent", nil, MaxNIRFRank, 0},
		{"zero rank", rank(0), MaxNIRFRank, 0},
		{"negative rank", rank(-3), MaxNIRFRank, 0},
		{"top of list", rank(1), MaxNIRFRank, 99},
		{"mid list", rank(50), MaxNIRFRank, 50},
		{"beyond ceiling clips", rank(2000), MaxQSRank, 0},
		{"qs 150", rank(150), MaxQSRank, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RankScore(tt.rank, tt.max), 1e-9)
		})
	}
}

func TestFind_MatchesAliasBySubstring(t *testing.T) {
	l := Default()

	e, ok := l.Find("indian institute of technology bombay, mumbai")
	require.True(t, ok)
	assert.Equal(t, "iit bombay", e.Key)

	nirf10, qs10 := l.NormalizedRanks10("indian institute of technology bombay, mumbai")
	require.NotNil(t, nirf10)
	require.NotNil(t, qs10)
	assert.InDelta(t, 9.7, *nirf10, 1e-9)
	assert.InDelta(t, 9.2133, *qs10, 1e-3)
}

func TestFind_IsCaseInsensitive(t *testing.T) {
	e, ok := Default().Find("  IIT Delhi ")
	require.True(t, ok)
	assert.Equal(t, "iit delhi", e.Key)
}

func TestFind_FirstMatchWins(t *testing.T) {
	e, ok := Default().Find("indian institute of science education and research pune")
	require.True(t, ok)
	assert.Equal(t, "iiser pune", e.Key)

	e, ok = Default().Find("indian institute of science, bangalore")
	require.True(t, ok)
	assert.Equal(t, "iisc", e.Key)
}

func TestUnknownInstitution(t *testing.T) {
	l := Default()

	_, ok := l.Find("university of nowhere")
	assert.False(t, ok)
	assert.Zero(t, l.Boost("university of nowhere"))

	nirf10, qs10 := l.NormalizedRanks10("university of nowhere")
	assert.Nil(t, nirf10)
	assert.Nil(t, qs10)

	assert.Zero(t, l.Boost(""))
}

func TestBoost(t *testing.T) {
	l := Default()

	// nirf 2 -> 98, qs 150 -> 90; (0.6*98 + 0.4*90) * 0.2
	assert.InDelta(t, 18.96, l.Boost("IIT Delhi"), 1e-9)

	// qs only: 0.4 * (1500-3)/1500*100 * 0.2
	assert.InDelta(t, 7.984, l.Boost("University of Oxford"), 1e-9)

	for _, e := range l.Entries() {
		b := l.Boost(e.Key)
		assert.GreaterOrEqual(t, b, 0.0, e.Key)
		assert.LessOrEqual(t, b, 20.0, e.Key)
	}
}

func TestNormalizedRanks10_PartialEntry(t *testing.T) {
	nirf10, qs10 := Default().NormalizedRanks10("nit trichy")
	require.NotNil(t, nirf10)
	assert.InDelta(t, 9.1, *nirf10, 1e-9)
	assert.Nil(t, qs10)
}

func TestNew_CopiesAndNormalizes(t *testing.T) {
	r := 5
	entries := []Entry{{Key: " Example Institute ", Aliases: []string{"EXI", ""}, NIRF: &r}, {Key: "  "}}
	l := New(entries)
	r = 90

	require.Equal(t, 1, l.Len())
	e, ok := l.Find("the exi campus")
	require.True(t, ok)
	assert.Equal(t, "example institute", e.Key)
	assert.Equal(t, 5, *e.NIRF)
}
