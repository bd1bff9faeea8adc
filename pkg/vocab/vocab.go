// Package vocab reads and writes vocabulary files in plain text, JSON and
// CSV form.
//
// Text files hold one entry per line: the word, whitespace, then the
// definition. Blank lines and lines starting with '#' are skipped.
package vocab

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/japaniel/wordbook/pkg/trie"
)

// Format names a file format.
type Format string

const (
	Text Format = "txt"
	JSON Format = "json"
	CSV  Format = "csv"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat accepts a format name or a file extension such as ".csv".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case Text, JSON, CSV:
		return f, nil
	case "text":
		return Text, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Record is one imported word. A zero InsertedAt means "now".
type Record struct {
	Word       string
	Definition string
	InsertedAt time.Time
}

// LineError describes an input line that could not be imported.
type LineError struct {
	Line   int
	Text   string
	Reason string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

type jsonFile struct {
	Words []jsonWord `json:"words"`
}

type jsonWord struct {
	Word       string     `json:"word"`
	Definition string     `json:"definition"`
	InsertedAt *time.Time `json:"inserted_at,omitempty"`
}

var csvHeader = []string{"word", "definition", "inserted_at"}

// Import reads records in the given format. Malformed entries are
// returned as LineErrors alongside the records that did parse; the error
// result is reserved for I/O and syntax failures.
func Import(r io.Reader, f Format) ([]Record, []LineError, error) {
	switch f {
	case Text:
		return importText(r)
	case JSON:
		return importJSON(r)
	case CSV:
		return importCSV(r)
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

func importText(r io.Reader) ([]Record, []LineError, error) {
	var recs []Record
	var bad []LineError
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, def := text, ""
		if i := strings.IndexAny(text, " \t"); i >= 0 {
			word, def = text[:i], text[i+1:]
		}
		def = strings.TrimSpace(def)
		if def == "" {
			bad = append(bad, LineError{Line: line, Text: text, Reason: fmt.Sprintf("no definition for %q", word)})
			continue
		}
		recs = append(recs, Record{Word: word, Definition: def})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read text: %w", err)
	}
	return recs, bad, nil
}

func importJSON(r io.Reader) ([]Record, []LineError, error) {
	var file jsonFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, nil, fmt.Errorf("decode json: %w", err)
	}
	var recs []Record
	var bad []LineError
	for i, w := range file.Words {
		word, def := strings.TrimSpace(w.Word), strings.TrimSpace(w.Definition)
		if word == "" || def == "" {
			bad = append(bad, LineError{Line: i + 1, Text: w.Word, Reason: "word and definition are required"})
			continue
		}
		rec := Record{Word: word, Definition: def}
		if w.InsertedAt != nil {
			rec.InsertedAt = *w.InsertedAt
		}
		recs = append(recs, rec)
	}
	return recs, bad, nil
}

func importCSV(r io.Reader) ([]Record, []LineError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	var recs []Record
	var bad []LineError
	for i, row := range rows {
		line := i + 1
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "word") {
			continue
		}
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[1]) == "" {
			bad = append(bad, LineError{Line: line, Text: strings.Join(row, ","), Reason: "word and definition are required"})
			continue
		}
		rec := Record{Word: strings.TrimSpace(row[0]), Definition: strings.TrimSpace(row[1])}
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[2]))
			if err != nil {
				bad = append(bad, LineError{Line: line, Text: row[2], Reason: "bad timestamp"})
				continue
			}
			rec.InsertedAt = ts
		}
		recs = append(recs, rec)
	}
	return recs, bad, nil
}

// Export writes entries in the given format.
func Export(w io.Writer, f Format, entries []trie.Entry) error {
	switch f {
	case Text:
		bw := bufio.NewWriter(w)
		for _, e := range entries {
			if _, err := fmt.Fprintf(bw, "%s %s\n", e.Word, e.Definition); err != nil {
				return err
			}
		}
		return bw.Flush()
	case JSON:
		file := jsonFile{Words: make([]jsonWord, 0, len(entries))}
		for _, e := range entries {
			ts := e.InsertedAt
			file.Words = append(file.Words, jsonWord{Word: e.Word, Definition: e.Definition, InsertedAt: &ts})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(file)
	case CSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, e := range entries {
			if err := cw.Write([]string{e.Word, e.Definition, e.InsertedAt.Format(time.RFC3339)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}
