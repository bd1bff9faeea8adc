package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// UpsertWord inserts the word or replaces its definition and timestamp.
func UpsertWord(db DBExecutor, word, definition string, insertedAt time.Time) error {
	if strings.TrimSpace(word) == "" {
		return fmt.Errorf("word must be non-empty")
	}
	_, err := db.Exec(`INSERT INTO words (word, definition, inserted_at)
		VALUES (?, ?, ?)
		ON CONFLICT(word) DO UPDATE SET
		  definition = excluded.definition,
		  inserted_at = excluded.inserted_at`,
		word, definition, formatTime(insertedAt))
	if err != nil {
		return fmt.Errorf("upsert word %q: %w", word, err)
	}
	return nil
}

// DeleteWord removes a word. It reports whether a row was deleted.
func DeleteWord(db DBExecutor, word string) (bool, error) {
	res, err := db.Exec(`DELETE FROM words WHERE word = ?`, word)
	if err != nil {
		return false, fmt.Errorf("delete word %q: %w", word, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAllWords empties the vocabulary and the related-word cache.
func DeleteAllWords(db DBExecutor) error {
	if _, err := db.Exec(`DELETE FROM affix_words`); err != nil {
		return fmt.Errorf("clear affix words: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM words`); err != nil {
		return fmt.Errorf("clear words: %w", err)
	}
	return nil
}

// ListWords returns every stored word ordered by word.
func ListWords(db DBExecutor) ([]Word, error) {
	rows, err := db.Query(`SELECT id, word, definition, inserted_at FROM words ORDER BY word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Word
	for rows.Next() {
		var w Word
		var ts string
		if err := rows.Scan(&w.ID, &w.Word, &w.Definition, &ts); err != nil {
			return nil, err
		}
		if w.InsertedAt, err = parseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountWords returns the number of stored words.
func CountWords(db DBExecutor) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UpsertAffix inserts or updates an affix and returns its id. Related
// words are left untouched; see ReplaceAffixWords.
func UpsertAffix(db DBExecutor, text, definition, category string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("affix must be non-empty")
	}
	var id int64
	err := db.QueryRow(`INSERT INTO affixes (affix, definition, category)
		VALUES (?, ?, ?)
		ON CONFLICT(affix) DO UPDATE SET
		  definition = excluded.definition,
		  category = excluded.category
		RETURNING id`, trimmed, definition, category).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert affix %q: %w", trimmed, err)
	}
	return id, nil
}

// DeleteAffix removes an affix and, through the cascade, its related words.
func DeleteAffix(db DBExecutor, text string) (bool, error) {
	id, err := affixID(db, text)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := db.Exec(`DELETE FROM affix_words WHERE affix_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete related words of %q: %w", text, err)
	}
	if _, err := db.Exec(`DELETE FROM affixes WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("delete affix %q: %w", text, err)
	}
	return true, nil
}

// ReplaceAffixWords sets the related words of an affix, dropping the old set.
func ReplaceAffixWords(db DBExecutor, text string, words []string) error {
	id, err := affixID(db, text)
	if err != nil {
		return fmt.Errorf("find affix %q: %w", text, err)
	}
	if _, err := db.Exec(`DELETE FROM affix_words WHERE affix_id = ?`, id); err != nil {
		return fmt.Errorf("clear related words of %q: %w", text, err)
	}
	for _, w := range words {
		if _, err := db.Exec(`INSERT OR IGNORE INTO affix_words (affix_id, word) VALUES (?, ?)`, id, w); err != nil {
			return fmt.Errorf("link %q to %q: %w", w, text, err)
		}
	}
	return nil
}

// ListAffixes returns every affix ordered by text, related words sorted.
func ListAffixes(db DBExecutor) ([]Affix, error) {
	rows, err := db.Query(`SELECT id, affix, definition, category FROM affixes ORDER BY affix`)
	if err != nil {
		return nil, err
	}
	var out []Affix
	byID := make(map[int64]int)
	for rows.Next() {
		var a Affix
		if err := rows.Scan(&a.ID, &a.Text, &a.Definition, &a.Category); err != nil {
			rows.Close()
			return nil, err
		}
		byID[a.ID] = len(out)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Second pass so a single-connection pool is never asked for two cursors.
	linked, err := db.Query(`SELECT affix_id, word FROM affix_words ORDER BY affix_id, word`)
	if err != nil {
		return nil, err
	}
	defer linked.Close()
	for linked.Next() {
		var id int64
		var w string
		if err := linked.Scan(&id, &w); err != nil {
			return nil, err
		}
		if i, ok := byID[id]; ok {
			out[i].RelatedWords = append(out[i].RelatedWords, w)
		}
	}
	return out, linked.Err()
}

func affixID(db DBExecutor, text string) (int64, error) {
	var id int64
	err := db.QueryRow(`SELECT id FROM affixes WHERE affix = ?`, strings.TrimSpace(text)).Scan(&id)
	return id, err
}
