package stats

import (
	"testing"
	"time"

	"github.com/japaniel/wordbook/pkg/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day string, hour int) time.Time {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func fixture() []trie.Entry {
	return []trie.Entry{
		{Word: "alpha", InsertedAt: at("2025-03-01", 9)},
		{Word: "beta", InsertedAt: at("2025-03-01", 23)},
		{Word: "gamma", InsertedAt: at("2025-03-03", 12)},
		{Word: "delta", InsertedAt: at("2025-03-02", 1)},
		{Word: "undated"},
		{Word: "eps", InsertedAt: at("2025-03-03", 8)},
		{Word: "zeta", InsertedAt: at("2025-03-03", 20)},
	}
}

func words(entries []trie.Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Word)
	}
	return out
}

func TestDaily(t *testing.T) {
	days := Daily(fixture(), time.UTC)
	assert.Equal(t, []DayCount{
		{Day: "2025-03-01", Count: 2},
		{Day: "2025-03-02", Count: 1},
		{Day: "2025-03-03", Count: 3},
	}, days)

	// Shifting the zone moves beta (23:00 UTC) onto the next day.
	shifted := Daily(fixture(), time.FixedZone("UTC+2", 2*3600))
	assert.Equal(t, DayCount{Day: "2025-03-01", Count: 1}, shifted[0])
}

func TestSummarize(t *testing.T) {
	s := Summarize(Daily(fixture(), time.UTC))
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 3, s.Days)
	assert.InDelta(t, 2.0, s.PerDay, 1e-9)
	assert.Equal(t, "2025-03-03", s.BusiestDay.Day)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestHeatLevel(t *testing.T) {
	assert.Equal(t, 0, HeatLevel(0, 10))
	assert.Equal(t, 0, HeatLevel(5, 0))
	assert.Equal(t, 1, HeatLevel(3, 10))
	assert.Equal(t, 2, HeatLevel(5, 10))
	assert.Equal(t, 4, HeatLevel(10, 10))
	assert.Equal(t, 4, HeatLevel(12, 10))
}

func TestRecent(t *testing.T) {
	assert.Equal(t, []string{"zeta", "gamma", "eps"}, words(Recent(fixture(), 3)))
	assert.Len(t, Recent(fixture(), 0), 6)
}

func TestInRange(t *testing.T) {
	start, err := ParseDate("2025-03-01", time.UTC)
	require.NoError(t, err)
	end, err := ParseDate("2025-03-02", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta", "delta"}, words(InRange(fixture(), start, end)))
	assert.Equal(t, []string{"gamma", "delta", "eps", "zeta"}, words(InRange(fixture(), end, time.Time{})))

	_, err = ParseDate("03/01/2025", time.UTC)
	assert.Error(t, err)
}

func TestTrending(t *testing.T) {
	now := at("2025-03-04", 0)
	assert.Equal(t, []string{"zeta", "gamma", "eps", "delta"}, words(Trending(fixture(), now, 2)))
	assert.Empty(t, Trending(fixture(), at("2026-01-01", 0), 7))
}
