// Package affix holds the affix catalogue and the engine that derives
// affix structure from a vocabulary.
//
// Affix texts are written with a hyphen marker on the open side ("un-",
// "-tion", "-o-"). The marker is notation only: matching uses the bare
// text with leading and trailing hyphens stripped.
package affix

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Category says where in a word an affix sits.
type Category string

const (
	Prefix Category = "prefix"
	Suffix Category = "suffix"
	Infix  Category = "infix"
	Other  Category = "other"
)

var (
	ErrEmptyAffix      = errors.New("affix text must be non-empty")
	ErrInvalidCategory = errors.New("invalid affix category")
)

// ParseCategory converts s into a Category, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the four recognized categories.
func (c Category) Valid() bool {
	switch c {
	case Prefix, Suffix, Infix, Other:
		return true
	}
	return false
}

func (c Category) rank() int {
	switch c {
	case Prefix:
		return 0
	case Suffix:
		return 1
	case Infix:
		return 2
	}
	return 3
}

// Record is a catalogued affix.
type Record struct {
	Text         string
	Definition   string
	Category     Category
	RelatedWords []string
}

// Bare returns the affix text without its hyphen markers.
func (r Record) Bare() string {
	return Bare(r.Text)
}

// Bare strips leading and trailing hyphens and surrounding space from text.
func Bare(text string) string {
	return strings.Trim(strings.TrimSpace(text), "-")
}

// Notate writes bare text in hyphen notation for the given side.
func Notate(bare string, c Category) string {
	switch c {
	case Prefix:
		return bare + "-"
	case Suffix:
		return "-" + bare
	case Infix:
		return "-" + bare + "-"
	}
	return bare
}

// Catalogue maps affix text to its record. It is not safe for concurrent use.
type Catalogue struct {
	records map[string]*Record
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{records: make(map[string]*Record)}
}

// Add inserts or updates an affix. Updating keeps the related words
// gathered by earlier categorization.
func (c *Catalogue) Add(text, definition string, category Category) error {
	text = strings.TrimSpace(text)
	if Bare(text) == "" {
		return ErrEmptyAffix
	}
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if r, ok := c.records[text]; ok {
		r.Definition = definition
		r.Category = category
		return nil
	}
	c.records[text] = &Record{Text: text, Definition: definition, Category: category}
	return nil
}

// Restore puts a persisted record back, related words included.
func (c *Catalogue) Restore(r Record) error {
	if err := c.Add(r.Text, r.Definition, r.Category); err != nil {
		return err
	}
	c.setRelated(strings.TrimSpace(r.Text), r.RelatedWords)
	return nil
}

// Get returns a copy of the record stored under text.
func (c *Catalogue) Get(text string) (Record, bool) {
	r, ok := c.records[strings.TrimSpace(text)]
	if !ok {
		return Record{}, false
	}
	return r.clone(), true
}

// Has reports whether text is catalogued.
func (c *Catalogue) Has(text string) bool {
	_, ok := c.records[strings.TrimSpace(text)]
	return ok
}

// Remove deletes the affix stored under text.
func (c *Catalogue) Remove(text string) bool {
	text = strings.TrimSpace(text)
	if _, ok := c.records[text]; !ok {
		return false
	}
	delete(c.records, text)
	return true
}

// Len returns the number of catalogued affixes.
func (c *Catalogue) Len() int {
	return len(c.records)
}

// Records returns copies of all records ordered by category, then text.
func (c *Catalogue) Records() []Record {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if ri, rj := out[i].Category.rank(), out[j].Category.rank(); ri != rj {
			return ri < rj
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// contains reports whether bare is catalogued under category c, either by
// its notated key or by any record with the same bare text.
func (c *Catalogue) contains(bare string, cat Category) bool {
	if r, ok := c.records[Notate(bare, cat)]; ok && r.Category == cat {
		return true
	}
	for _, r := range c.records {
		if r.Category == cat && r.Bare() == bare {
			return true
		}
	}
	return false
}

func (c *Catalogue) keys() []string {
	keys := make([]string, 0, len(c.records))
	for k := range c.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Catalogue) setRelated(text string, words []string) {
	r, ok := c.records[text]
	if !ok {
		return
	}
	r.RelatedWords = sortedUnique(words)
}

func (r *Record) clone() Record {
	out := *r
	if r.RelatedWords != nil {
		out.RelatedWords = append([]string(nil), r.RelatedWords...)
	}
	return out
}

func sortedUnique(words []string) []string {
	if len(words) == 0 {
		return []string{}
	}
	out := append([]string(nil), words...)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
