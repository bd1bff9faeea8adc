// Package stats computes date-bucketed statistics over vocabulary snapshots.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/japaniel/wordbook/pkg/trie"
)

// DateLayout is the day format used for buckets and date arguments.
const DateLayout = "2006-01-02"

// DayCount is the number of words inserted on one calendar day.
type DayCount struct {
	Day   string
	Count int
}

// Summary describes a set of daily counts.
type Summary struct {
	Total      int
	Days       int
	PerDay     float64
	BusiestDay DayCount
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be formatted YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// Daily buckets entries by the calendar day of their insertion time in
// loc, oldest day first. Entries without a timestamp are skipped.
func Daily(entries []trie.Entry, loc *time.Location) []DayCount {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.InsertedAt.IsZero() {
			continue
		}
		counts[e.InsertedAt.In(loc).Format(DateLayout)]++
	}
	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Summarize totals daily counts.
func Summarize(days []DayCount) Summary {
	var s Summary
	for _, d := range days {
		s.Total += d.Count
		if d.Count > s.BusiestDay.Count {
			s.BusiestDay = d
		}
	}
	s.Days = len(days)
	if s.Days > 0 {
		s.PerDay = float64(s.Total) / float64(s.Days)
	}
	return s
}

// HeatLevel maps count onto 0..4 relative to max.
func HeatLevel(count, max int) int {
	if max <= 0 || count <= 0 {
		return 0
	}
	level := count * 4 / max
	if level > 4 {
		level = 4
	}
	return level
}

// Recent returns entries newest first, at most limit of them (0 means all).
func Recent(entries []trie.Entry, limit int) []trie.Entry {
	out := make([]trie.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.InsertedAt.IsZero() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].InsertedAt.After(out[j].InsertedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// InRange returns the entries inserted between the start of day start and
// the end of day end, inclusive, keeping input order. A zero bound is open.
func InRange(entries []trie.Entry, start, end time.Time) []trie.Entry {
	var out []trie.Entry
	for _, e := range entries {
		ts := e.InsertedAt
		if ts.IsZero() {
			continue
		}
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && !ts.Before(end.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Trending returns the entries inserted within the last days days before
// now, newest first.
func Trending(entries []trie.Entry, now time.Time, days int) []trie.Entry {
	cutoff := now.AddDate(0, 0, -days)
	var recent []trie.Entry
	for _, e := range entries {
		if !e.InsertedAt.IsZero() && !e.InsertedAt.Before(cutoff) {
			recent = append(recent, e)
		}
	}
	return Recent(recent, 0)
}
