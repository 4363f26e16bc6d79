package scrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/ceres/internal/store"
)

func TestApplyMatchStat(t *testing.T) {
	t.Parallel()

	t.Run("penalty goals keep only the attempt count", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		require.True(t, applyMatchStat("Penalty goals", "3 from 5", &out))
		require.True(t, out.PensAttempt.Valid)
		assert.Equal(t, int32(5), out.PensAttempt.Int32)
		assert.False(t, out.PensConceded.Valid)
	})

	t.Run("dropped goals sum scored and missed", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		require.True(t, applyMatchStat("Dropped goals", "2 (1 missed)", &out))
		assert.Equal(t, int32(3), out.DropsAttempt.Int32)
	})

	t.Run("dropped goals without missed suffix", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		require.True(t, applyMatchStat("Dropped goals", "2", &out))
		assert.Equal(t, int32(2), out.DropsAttempt.Int32)
	})

	t.Run("rucks split into won and initiated", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		require.True(t, applyMatchStat("Rucks won", "97 from 102", &out))
		assert.Equal(t, int32(97), out.RucksWon.Int32)
		assert.Equal(t, int32(102), out.RucksInit.Int32)
	})

	t.Run("mauls split into won and initiated", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		require.True(t, applyMatchStat("Mauls won", "4 from 6", &out))
		assert.Equal(t, int32(4), out.MallWon.Int32)
		assert.Equal(t, int32(6), out.MallInit.Int32)
	})

	t.Run("tackles split on the slash", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		require.True(t, applyMatchStat("Tackles made/missed", "95/10", &out))
		assert.Equal(t, int32(95), out.TacklesMade.Int32)
		assert.Equal(t, int32(10), out.TacklesMissed.Int32)
	})

	t.Run("scrums and lineouts use won-lost phrasing", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		require.True(t, applyMatchStat("Scrums on own feed", "7 won, 1 lost", &out))
		assert.Equal(t, int32(7), out.ScrumsWonOnFeed.Int32)
		assert.Equal(t, int32(1), out.ScrumsLostOnFeed.Int32)
		require.True(t, applyMatchStat("Lineouts on own throw", "11 won, 3 lost", &out))
		assert.Equal(t, int32(11), out.LineoutsWonOnThrow.Int32)
		assert.Equal(t, int32(3), out.LineoutsLostOnThrow.Int32)
	})

	t.Run("simple integer metrics", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		require.True(t, applyMatchStat("Passes", "120", &out))
		require.True(t, applyMatchStat("Metres run with ball", " 412 ", &out))
		assert.Equal(t, int32(120), out.Passes.Int32)
		assert.Equal(t, int32(412), out.Meters.Int32)
	})

	t.Run("malformed values set nothing", func(t *testing.T) {
		t.Parallel()
		var out store.MatchExtraStats
		assert.False(t, applyMatchStat("Penalty goals", "-", &out))
		assert.False(t, applyMatchStat("Passes", "n/a", &out))
		assert.False(t, applyMatchStat("Tackles made/missed", "95/10 (90%)", &out))
		assert.False(t, applyMatchStat("Unknown metric", "5", &out))
		assert.Equal(t, store.MatchExtraStats{}, out)
	})
}

func TestCellParsers(t *testing.T) {
	t.Parallel()

	if _, ok := parseIntCell("x"); ok {
		t.Fatal("parseIntCell accepted a non-number")
	}
	n, ok := parseIntCell(" 42 ")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	a, b, ok := parsePairExact("1/0")
	require.True(t, ok)
	assert.Equal(t, 1, a)
	assert.Equal(t, 0, b)
	if _, _, ok := parsePairExact("10/15 (40%)"); ok {
		t.Fatal("parsePairExact accepted a trailing suffix")
	}

	a, b, ok = parsePairPrefix("10/15 (40%)")
	require.True(t, ok)
	assert.Equal(t, 10, a)
	assert.Equal(t, 15, b)

	x, y, z, ok := parseTriple("2/10/8")
	require.True(t, ok)
	assert.Equal(t, 2, x)
	assert.Equal(t, 10, y)
	assert.Equal(t, 8, z)
	if _, _, _, ok := parseTriple("2/10"); ok {
		t.Fatal("parseTriple accepted a pair")
	}
}
