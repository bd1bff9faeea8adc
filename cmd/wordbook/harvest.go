package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/japaniel/wordbook/pkg/dictionary"
	"github.com/japaniel/wordbook/pkg/harvest"
	"github.com/japaniel/wordbook/pkg/vocab"
)

var errHarvestAdd = errors.New("harvest -add is disabled: set harvest.allow_add to mix Japanese words into the wordbook")

// loadGlossary returns the configured dictionary, downloading it first when
// auto_download is on. A missing dictionary is not an error: harvested
// words then come without definitions.
func loadGlossary(ctx context.Context, e *env) *dictionary.Glossary {
	path := e.cfg.Harvest.DictionaryPath
	if path == "" {
		return nil
	}
	if e.cfg.Harvest.AutoDownload {
		d := dictionary.NewDownloader()
		d.Logger = slog.Default()
		if err := d.Ensure(ctx, path); err != nil {
			slog.Warn("failed to ensure dictionary, continuing without definitions",
				slog.String("path", path), slog.Any("error", err))
			return nil
		}
	}
	if _, err := os.Stat(path); err != nil {
		slog.Info("dictionary not found, definitions will be empty", slog.String("path", path))
		return nil
	}

	start := time.Now()
	entries, err := dictionary.LoadJMdictSimplified(path)
	if err != nil {
		slog.Warn("failed to load dictionary", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	g := dictionary.NewGlossary(entries)
	slog.Debug("dictionary loaded", slog.Int("entries", len(entries)), slog.Duration("took", time.Since(start)))
	return g
}

func cmdHarvest(e *env, args []string) error {
	fs := newFlags("harvest")
	add := fs.Bool("add", false, "add harvested words that have a dictionary definition")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErr("harvest needs one url")
	}
	pageURL := fs.Arg(0)

	cfg := e.cfg.Harvest
	if *add && !cfg.AllowAdd {
		return errHarvestAdd
	}
	client := &http.Client{Timeout: cfg.Timeout}

	body, err := harvest.Fetch(e.ctx, client, pageURL, cfg.MaxBodyBytes)
	if err != nil {
		return err
	}
	article, err := harvest.Extract(body, pageURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Title: %s\n", article.Title)

	analyzer, err := harvest.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	h := &harvest.Harvester{
		Analyzer: analyzer,
		Workers:  cfg.Workers,
		Glossary: loadGlossary(e.ctx, e),
	}
	found, err := h.Harvest(e.ctx, article.Text, e.book.Has)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "%d new words\n", len(found))
	lines := make([]string, len(found))
	for i, f := range found {
		lines[i] = fmt.Sprintf("%4d %s [%s] %s", f.Count, f.Word, f.Reading, f.Definition)
	}
	printLimited(e.out, lines, e.cfg.Display.MaxResults)

	if !*add {
		return nil
	}
	var records []vocab.Record
	for _, f := range found {
		if f.Definition != "" {
			records = append(records, vocab.Record{Word: f.Word, Definition: f.Definition})
		}
	}
	res, err := e.book.Import(e.ctx, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "added %d words\n", res.Added)
	return nil
}
