// Package wordbook ties the in-memory word index and affix catalogue to
// their SQLite store. A Book is the unit a CLI session works with: every
// mutation is written to the database and then applied in memory.
package wordbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/japaniel/wordbook/pkg/affix"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/ingest"
	"github.com/japaniel/wordbook/pkg/trie"
	"github.com/japaniel/wordbook/pkg/vocab"
)

var (
	ErrEmptyWord       = errors.New("word must not be empty")
	ErrEmptyDefinition = errors.New("definition must not be empty")
)

// Options configures a Book.
type Options struct {
	Bounds affix.Bounds
	// KeepCase disables lowercasing of words and affixes.
	KeepCase bool
	// BatchSize is the import transaction size. <= 0 uses the ingester default.
	BatchSize int
	Logger    *slog.Logger
	// Now stamps new words. nil means time.Now.
	Now func() time.Time
}

// Book is a vocabulary with its affix catalogue. It is not safe for
// concurrent use.
type Book struct {
	conn      *sql.DB
	index     *trie.Index
	catalogue *affix.Catalogue
	engine    affix.Engine
	opts      Options
	log       *slog.Logger
}

// Open loads the words and affixes stored in conn. The schema must already
// be applied (see db.Open).
func Open(ctx context.Context, conn *sql.DB, opts Options) (*Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	b := &Book{
		conn:      conn,
		index:     trie.New(),
		catalogue: affix.NewCatalogue(),
		engine:    affix.NewEngine(opts.Bounds),
		opts:      opts,
		log:       log,
	}
	if err := b.loadWords(); err != nil {
		return nil, err
	}
	if err := b.loadAffixes(); err != nil {
		return nil, err
	}

	log.Debug("wordbook opened", slog.Int("words", b.index.Len()), slog.Int("affixes", b.catalogue.Len()))
	return b, nil
}

func (b *Book) loadWords() error {
	words, err := db.ListWords(b.conn)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	b.index = trie.New()
	for _, w := range words {
		b.index.Insert(w.Word, w.Definition, w.InsertedAt)
	}
	return nil
}

func (b *Book) loadAffixes() error {
	affixes, err := db.ListAffixes(b.conn)
	if err != nil {
		return fmt.Errorf("load affixes: %w", err)
	}
	c := affix.NewCatalogue()
	for _, a := range affixes {
		err := c.Restore(affix.Record{
			Text:         a.Text,
			Definition:   a.Definition,
			Category:     affix.Category(a.Category),
			RelatedWords: a.RelatedWords,
		})
		if err != nil {
			return fmt.Errorf("restore affix %q: %w", a.Text, err)
		}
	}
	b.catalogue = c
	return nil
}

// normalize trims s and lowercases it unless KeepCase is set.
func (b *Book) normalize(s string) string {
	s = strings.TrimSpace(s)
	if !b.opts.KeepCase {
		s = strings.ToLower(s)
	}
	return s
}

// Len returns the number of words.
func (b *Book) Len() int {
	return b.index.Len()
}

// Add stores word, replacing the definition and timestamp of an existing
// entry.
func (b *Book) Add(word, definition string) (trie.Entry, error) {
	word = b.normalize(word)
	definition = strings.TrimSpace(definition)
	if word == "" {
		return trie.Entry{}, ErrEmptyWord
	}
	if definition == "" {
		return trie.Entry{}, ErrEmptyDefinition
	}
	now := b.opts.Now()
	if err := db.UpsertWord(b.conn, word, definition, now); err != nil {
		return trie.Entry{}, err
	}
	b.index.Insert(word, definition, now)
	return trie.Entry{Word: word, Definition: definition, InsertedAt: now}, nil
}

// LookupResult is the outcome of Lookup. Suggestions are filled only when
// the word is not found.
type LookupResult struct {
	Entry       trie.Entry
	Found       bool
	Suggestions []affix.Part
}

// Lookup finds word. On a miss it explains the word through its affixes
// instead.
func (b *Book) Lookup(word string) LookupResult {
	word = b.normalize(word)
	if word == "" {
		return LookupResult{}
	}
	if e, ok := b.index.Search(word); ok {
		return LookupResult{Entry: e, Found: true}
	}
	return LookupResult{Suggestions: b.engine.SuggestDecomposition(word, b.catalogue)}
}

// Has reports whether word is stored.
func (b *Book) Has(word string) bool {
	_, ok := b.index.Search(b.normalize(word))
	return ok
}

// Suggest decomposes word against the catalogue whether or not it is stored.
func (b *Book) Suggest(word string) []affix.Part {
	return b.engine.SuggestDecomposition(b.normalize(word), b.catalogue)
}

// Prefix returns the words starting with prefix, sorted.
func (b *Book) Prefix(prefix string) []trie.Entry {
	return b.index.PrefixSearch(b.normalize(prefix))
}

// Words returns every word, sorted.
func (b *Book) Words() []trie.Entry {
	return b.index.All()
}

func (b *Book) wordList() []string {
	entries := b.index.All()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}

// Delete removes word. It reports whether the word existed.
func (b *Book) Delete(word string) (bool, error) {
	word = b.normalize(word)
	if word == "" {
		return false, nil
	}
	if _, err := db.DeleteWord(b.conn, word); err != nil {
		return false, err
	}
	return b.index.Delete(word), nil
}

// ImportResult summarises an Import.
type ImportResult struct {
	Added   int
	Skipped []string
}

// Import stores records in batched transactions. Records without a word or
// a definition are skipped; within one import the last record for a word
// wins. Records without a timestamp are stamped with the current time.
func (b *Book) Import(ctx context.Context, records []vocab.Record) (ImportResult, error) {
	var res ImportResult
	now := b.opts.Now()
	pos := make(map[string]int)
	var entries []trie.Entry
	for _, r := range records {
		word, def := b.normalize(r.Word), strings.TrimSpace(r.Definition)
		if word == "" || def == "" {
			res.Skipped = append(res.Skipped, r.Word)
			continue
		}
		ts := r.InsertedAt
		if ts.IsZero() {
			ts = now
		}
		e := trie.Entry{Word: word, Definition: def, InsertedAt: ts}
		if i, ok := pos[word]; ok {
			entries[i] = e
			continue
		}
		pos[word] = len(entries)
		entries = append(entries, e)
	}

	ig := ingest.NewIngester(b.conn)
	ig.Logger = b.log
	if b.opts.BatchSize > 0 {
		ig.BatchSize = b.opts.BatchSize
	}
	n, err := ig.Ingest(ctx, entries)
	if err != nil {
		// Some batches may have committed; the store is the truth.
		if lerr := b.loadWords(); lerr != nil {
			return res, errors.Join(err, lerr)
		}
		return res, fmt.Errorf("import: %w", err)
	}
	for _, e := range entries {
		b.index.Insert(e.Word, e.Definition, e.InsertedAt)
	}
	res.Added = n
	b.log.Info("import complete", slog.Int("added", n), slog.Int("skipped", len(res.Skipped)))
	return res, nil
}

// AddAffix catalogues an affix. category is parsed case-insensitively.
func (b *Book) AddAffix(text, definition, category string) (affix.Record, error) {
	cat, err := affix.ParseCategory(category)
	if err != nil {
		return affix.Record{}, err
	}
	definition = strings.TrimSpace(definition)
	if definition == "" {
		return affix.Record{}, ErrEmptyDefinition
	}
	text = b.normalize(text)
	prev, existed := b.catalogue.Get(text)
	if err := b.catalogue.Add(text, definition, cat); err != nil {
		return affix.Record{}, err
	}
	if _, err := db.UpsertAffix(b.conn, text, definition, string(cat)); err != nil {
		if existed {
			_ = b.catalogue.Restore(prev)
		} else {
			b.catalogue.Remove(text)
		}
		return affix.Record{}, err
	}
	r, _ := b.catalogue.Get(text)
	return r, nil
}

// Affix returns the catalogued affix stored under text.
func (b *Book) Affix(text string) (affix.Record, bool) {
	return b.catalogue.Get(b.normalize(text))
}

// Affixes returns every affix grouped by category.
func (b *Book) Affixes() []affix.Record {
	return b.catalogue.Records()
}

// RemoveAffix drops an affix. It reports whether the affix existed.
func (b *Book) RemoveAffix(text string) (bool, error) {
	text = b.normalize(text)
	if _, err := db.DeleteAffix(b.conn, text); err != nil {
		return false, err
	}
	return b.catalogue.Remove(text), nil
}

// Categorization is the outcome of Categorize.
type Categorization struct {
	Groups    map[string][]string
	Unaffixed []string
}

// Categorize groups every word under the affixes it carries and stores the
// groups as each affix's related words.
func (b *Book) Categorize(ctx context.Context) (Categorization, error) {
	words := b.wordList()
	groups := b.engine.Categorize(words, b.catalogue)

	if err := b.storeGroups(ctx, groups); err != nil {
		// Categorize already rewrote related words in memory.
		if lerr := b.loadAffixes(); lerr != nil {
			return Categorization{}, errors.Join(err, lerr)
		}
		return Categorization{}, err
	}
	return Categorization{Groups: groups, Unaffixed: affix.Unaffixed(words, groups)}, nil
}

func (b *Book) storeGroups(ctx context.Context, groups map[string][]string) error {
	tx, err := b.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin categorize: %w", err)
	}
	for text, related := range groups {
		if err := db.ReplaceAffixWords(tx, text, related); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit categorize: %w", err)
	}
	return nil
}

// Mine proposes new affixes seen at least minFrequency times in the
// vocabulary.
func (b *Book) Mine(minFrequency int) []affix.Candidate {
	return b.engine.MineCandidates(b.wordList(), b.catalogue, minFrequency)
}

// Reset deletes every word. Affixes stay catalogued but lose their
// related words.
func (b *Book) Reset(ctx context.Context) error {
	tx, err := b.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	if err := db.DeleteAllWords(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	b.index = trie.New()
	for _, r := range b.catalogue.Records() {
		r.RelatedWords = nil
		_ = b.catalogue.Restore(r)
	}
	b.log.Info("wordbook reset")
	return nil
}
