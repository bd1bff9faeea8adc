package db

import "time"

// Word is a stored vocabulary entry.
type Word struct {
	ID         int64
	Word       string
	Definition string
	InsertedAt time.Time
}

// Affix is a stored affix record together with the words it was last
// categorized against.
type Affix struct {
	ID           int64
	Text         string
	Definition   string
	Category     string
	RelatedWords []string
}
