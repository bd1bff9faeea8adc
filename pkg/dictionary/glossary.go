package dictionary

import (
	"sort"
	"strings"
)

// Glossary answers definition lookups from an in-memory dictionary index.
// It is read-only after construction and safe for concurrent use.
type Glossary struct {
	// Key: kanji or kana text, value: entries carrying it.
	index map[string][]JMdictEntry
}

// NewGlossary builds the lookup index for entries.
func NewGlossary(entries []JMdictEntry) *Glossary {
	idx := make(map[string][]JMdictEntry)
	for _, e := range entries {
		for _, k := range e.Kanji {
			idx[k.Text] = append(idx[k.Text], e)
		}
		for _, k := range e.Kana {
			if hira := ToHiragana(k.Text); hira != k.Text {
				idx[hira] = append(idx[hira], e)
			}
			idx[k.Text] = append(idx[k.Text], e)
		}
	}
	return &Glossary{index: idx}
}

// Len returns the number of indexed spellings.
func (g *Glossary) Len() int {
	return len(g.index)
}

// Entries returns the entries matching word, ordered by entry id.
func (g *Glossary) Entries(word string) []JMdictEntry {
	seen := make(map[string]bool)
	var out []JMdictEntry
	for _, term := range []string{word, ToHiragana(word)} {
		for _, e := range g.index[term] {
			if !seen[e.Id] {
				seen[e.Id] = true
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// Lookup returns the glosses of every entry matching word joined into one
// comma-separated definition.
func (g *Glossary) Lookup(word string) (string, bool) {
	matches := g.Entries(word)
	if len(matches) == 0 {
		return "", false
	}
	def := FormatDefinition(matches)
	return def, def != ""
}

// FormatDefinition flattens the glosses of entries into "gloss, gloss, ...",
// dropping repeats.
func FormatDefinition(entries []JMdictEntry) string {
	seen := make(map[string]bool)
	var senses []string
	for _, e := range entries {
		for _, s := range e.Sense {
			for _, g := range s.Gloss {
				text := strings.TrimSpace(g.Text)
				if text == "" || seen[text] {
					continue
				}
				if g.Lang != "" && g.Lang != "eng" {
					continue
				}
				seen[text] = true
				senses = append(senses, text)
			}
		}
	}
	return strings.Join(senses, ", ")
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
