// Package ingest moves vocabulary into the database in batches and provides
// the worker pool used for concurrent text analysis.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/trie"
)

// Ingester persists vocabulary entries through a BatchWriter.
type Ingester struct {
	DB            *sql.DB
	BatchSize     int
	FlushInterval time.Duration
	// Logger is used for informational messages. nil means slog.Default().
	Logger *slog.Logger
	// OnProgress is called after every BatchSize submissions and once at the end.
	OnProgress func(current, total int)
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB) *Ingester {
	return &Ingester{
		DB:            conn,
		BatchSize:     50,
		FlushInterval: 100 * time.Millisecond,
	}
}

func (ig *Ingester) logger() *slog.Logger {
	if ig.Logger != nil {
		return ig.Logger
	}
	return slog.Default()
}

// Ingest upserts entries and returns how many were written. It stops
// submitting when ctx is canceled; batches already submitted still commit.
// On error the count also covers writes rolled back with a failed batch.
func (ig *Ingester) Ingest(ctx context.Context, entries []trie.Entry) (int, error) {
	total := len(entries)
	if total == 0 {
		return 0, nil
	}

	bw := NewBatchWriter(ig.DB, ig.BatchSize, ig.FlushInterval)
	var written int64

	var submitErr error
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			submitErr = err
			break
		}
		entry := e
		err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
			if err := db.UpsertWord(tx, entry.Word, entry.Definition, entry.InsertedAt); err != nil {
				return fmt.Errorf("failed to persist word %s: %w", entry.Word, err)
			}
			atomic.AddInt64(&written, 1)
			return nil
		})
		if err != nil {
			submitErr = err
			break
		}
		if ig.OnProgress != nil && ig.BatchSize > 0 && (i+1)%ig.BatchSize == 0 {
			ig.OnProgress(i+1, total)
		}
	}

	closeErr := bw.Close()
	n := int(atomic.LoadInt64(&written))
	if ig.OnProgress != nil {
		ig.OnProgress(n, total)
	}

	if submitErr == nil {
		submitErr = closeErr
	}
	if submitErr != nil {
		ig.logger().Warn("ingest stopped early",
			slog.Int("committed", n),
			slog.Int("total", total),
			slog.Any("error", submitErr),
		)
		return n, submitErr
	}
	ig.logger().Debug("ingest complete", slog.Int("committed", n))
	return n, nil
}
