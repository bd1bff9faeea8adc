package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// WriteFunc is a callback that performs database writes inside a transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// BatchWriter buffers write callbacks and commits them together, one
// transaction per batch, from a single committer goroutine.
type BatchWriter struct {
	db      *sql.DB
	size    int
	OnError func(error)

	mu     sync.Mutex
	buf    []WriteFunc
	closed bool

	commitCh chan []WriteFunc
	ticker   *time.Ticker
	stop     chan struct{}
	wg       sync.WaitGroup

	errMu   sync.Mutex
	lastErr error
}

// NewBatchWriter creates a BatchWriter that flushes every bufferSize
// submissions and, when flushInterval is positive, on that interval.
func NewBatchWriter(db *sql.DB, bufferSize int, flushInterval time.Duration) *BatchWriter {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	bw := &BatchWriter{
		db:       db,
		size:     bufferSize,
		buf:      make([]WriteFunc, 0, bufferSize),
		commitCh: make(chan []WriteFunc, 2),
		stop:     make(chan struct{}),
	}
	bw.wg.Add(1)
	go bw.committer()
	if flushInterval > 0 {
		bw.ticker = time.NewTicker(flushInterval)
		bw.wg.Add(1)
		go bw.loop()
	}
	return bw
}

// Submit enqueues a write function. A full buffer is handed to the
// committer; Submit blocks while the committer is behind.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.size {
		bw.flushLocked()
	}
	return nil
}

// Err returns the first error seen by the committer so far.
func (bw *BatchWriter) Err() error {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.lastErr
}

// flushLocked assumes bw.mu is held.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.size)
	bw.commitCh <- batch
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		if err := bw.executeBatch(batch); err != nil {
			bw.errMu.Lock()
			if bw.lastErr == nil {
				bw.lastErr = err
			}
			bw.errMu.Unlock()
			if bw.OnError != nil {
				bw.OnError(err)
			}
		}
	}
}

func (bw *BatchWriter) executeBatch(batch []WriteFunc) error {
	// Background context: a batch already handed over is always finished.
	ctx := context.Background()

	// Without a DB the callbacks run with a nil tx (tests).
	if bw.db == nil {
		for _, w := range batch {
			if err := w(ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

func (bw *BatchWriter) loop() {
	defer bw.wg.Done()
	for {
		select {
		case <-bw.stop:
			return
		case <-bw.ticker.C:
			bw.mu.Lock()
			if !bw.closed {
				bw.flushLocked()
			}
			bw.mu.Unlock()
		}
	}
}

// Close flushes what is buffered, waits for every batch to commit and
// returns the first error seen.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	if bw.ticker != nil {
		bw.ticker.Stop()
	}
	bw.flushLocked()
	bw.mu.Unlock()

	close(bw.stop)
	close(bw.commitCh)
	bw.wg.Wait()
	return bw.Err()
}

// ErrBatchWriterClosed is returned by Submit and Close after Close.
var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

// BatchWriterError is the typed error for BatchWriter operations.
type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }
