package affix

import (
	"sort"
	"strings"
)

// DefaultMinRoot is the shortest residual root a candidate split may leave.
const DefaultMinRoot = 2

// Bounds limits the lengths, in runes, of candidate affixes.
// MinLen below 1 means 1, MaxLen of 0 means no upper limit, and MinRoot
// below 1 means DefaultMinRoot.
type Bounds struct {
	MinLen  int
	MaxLen  int
	MinRoot int
}

// DefaultBounds allows candidates from one rune up to len(word)-2.
var DefaultBounds = Bounds{MinLen: 1, MaxLen: 0, MinRoot: DefaultMinRoot}

// span returns the inclusive range of candidate lengths for a word of n runes.
// lo > hi means there are none.
func (b Bounds) span(n int) (lo, hi int) {
	lo = b.MinLen
	if lo < 1 {
		lo = 1
	}
	root := b.MinRoot
	if root < 1 {
		root = DefaultMinRoot
	}
	hi = n - root
	if b.MaxLen > 0 && b.MaxLen < hi {
		hi = b.MaxLen
	}
	return lo, hi
}

// Part is one piece of decomposition advice for a word.
type Part struct {
	// Affix is the catalogue key for a matched affix, or the hyphen
	// notation of an untested candidate.
	Affix     string
	Side      Category
	Matched   bool
	Remainder string
}

// Candidate is a recurring substring proposed as a new affix.
type Candidate struct {
	Text      string
	Side      Category
	Frequency int
}

// Label renders the candidate in hyphen notation.
func (c Candidate) Label() string {
	return Notate(c.Text, c.Side)
}

// Engine derives affix structure from words. It holds no state besides its
// bounds and may be copied freely.
type Engine struct {
	Bounds Bounds
}

// NewEngine returns an Engine using b.
func NewEngine(b Bounds) Engine {
	return Engine{Bounds: b}
}

// SuggestDecomposition explains an unknown word: first the catalogued
// prefixes and suffixes it carries, then shortest-first prefix and suffix
// candidates not yet catalogued. The catalogue is not modified.
func (e Engine) SuggestDecomposition(word string, c *Catalogue) []Part {
	if word == "" {
		return nil
	}
	var parts []Part
	for _, key := range c.keys() {
		r := c.records[key]
		bare := r.Bare()
		switch r.Category {
		case Prefix:
			if strings.HasPrefix(word, bare) {
				parts = append(parts, Part{Affix: r.Text, Side: Prefix, Matched: true, Remainder: word[len(bare):]})
			}
		case Suffix:
			if strings.HasSuffix(word, bare) {
				parts = append(parts, Part{Affix: r.Text, Side: Suffix, Matched: true, Remainder: word[:len(word)-len(bare)]})
			}
		}
	}

	runes := []rune(word)
	n := len(runes)
	lo, hi := e.Bounds.span(n)
	for k := lo; k <= hi; k++ {
		head, rest := string(runes[:k]), string(runes[k:])
		if !catalogued(c, head, Prefix) {
			parts = append(parts, Part{Affix: Notate(head, Prefix), Side: Prefix, Remainder: rest})
		}
		tail, rest := string(runes[n-k:]), string(runes[:n-k])
		if !catalogued(c, tail, Suffix) {
			parts = append(parts, Part{Affix: Notate(tail, Suffix), Side: Suffix, Remainder: rest})
		}
	}
	return parts
}

func catalogued(c *Catalogue, bare string, side Category) bool {
	return c.Has(Notate(bare, side)) || c.Has(bare) || c.contains(bare, side)
}

type sided struct {
	text string
	side Category
}

// MineCandidates counts every bounded prefix and suffix across words and
// returns the uncatalogued ones seen at least minFrequency times, most
// frequent first, ties by text and then prefix before suffix.
// A minFrequency of 1 or less keeps every candidate.
func (e Engine) MineCandidates(words []string, c *Catalogue, minFrequency int) []Candidate {
	counts := make(map[sided]int)
	for _, w := range words {
		runes := []rune(w)
		n := len(runes)
		lo, hi := e.Bounds.span(n)
		for k := lo; k <= hi; k++ {
			counts[sided{string(runes[:k]), Prefix}]++
			counts[sided{string(runes[n-k:]), Suffix}]++
		}
	}

	out := make([]Candidate, 0, len(counts))
	for s, f := range counts {
		if f < minFrequency || c.contains(s.text, s.side) {
			continue
		}
		out = append(out, Candidate{Text: s.text, Side: s.side, Frequency: f})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		if a.Text != b.Text {
			return a.Text < b.Text
		}
		return a.Side.rank() < b.Side.rank()
	})
	return out
}

// Categorize groups words under every catalogued affix they contain and
// replaces each record's related words with its group. Prefixes match at
// the start, suffixes at the end, infixes and others anywhere. Every
// affix gets a key; groups are sorted and free of duplicates.
func (e Engine) Categorize(words []string, c *Catalogue) map[string][]string {
	groups := make(map[string][]string, c.Len())
	for _, key := range c.keys() {
		r := c.records[key]
		bare := r.Bare()
		var match func(string) bool
		switch r.Category {
		case Prefix:
			match = func(w string) bool { return strings.HasPrefix(w, bare) }
		case Suffix:
			match = func(w string) bool { return strings.HasSuffix(w, bare) }
		default:
			match = func(w string) bool { return strings.Contains(w, bare) }
		}
		var hits []string
		for _, w := range words {
			if match(w) {
				hits = append(hits, w)
			}
		}
		hits = sortedUnique(hits)
		c.setRelated(key, hits)
		groups[key] = hits
	}
	return groups
}

// Unaffixed returns the words that appear in none of the groups, sorted.
func Unaffixed(words []string, groups map[string][]string) []string {
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, w := range g {
			seen[w] = true
		}
	}
	var out []string
	for _, w := range words {
		if !seen[w] {
			out = append(out, w)
			seen[w] = true
		}
	}
	sort.Strings(out)
	return out
}
