// Package harvest turns Japanese web articles into vocabulary candidates:
// fetch, extract the readable text, tokenize it and count the words the
// book does not know yet.
package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/japaniel/wordbook/pkg/dictionary"
	"github.com/japaniel/wordbook/pkg/ingest"
)

// Finding is one harvested word.
type Finding struct {
	Word       string
	Reading    string
	Count      int
	Definition string
}

// Harvester tokenizes text concurrently and aggregates word counts.
type Harvester struct {
	Analyzer *Analyzer
	// Workers is the tokenization concurrency. <= 0 means GOMAXPROCS.
	Workers int
	// Glossary supplies definitions. May be nil.
	Glossary *dictionary.Glossary
	Logger   *slog.Logger
}

func (h *Harvester) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Harvest returns the words of text that known does not report, most
// frequent first, ties broken by word. A nil known keeps everything.
func (h *Harvester) Harvest(ctx context.Context, text string, known func(string) bool) ([]Finding, error) {
	if h.Analyzer == nil {
		return nil, fmt.Errorf("harvester has no analyzer")
	}
	workers := h.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sentences := splitSentences(text)
	var (
		mu     sync.Mutex
		counts = make(map[string]*Finding)
	)

	pool := ingest.NewWorkerPool(workers, 0)
	pool.Start(ctx)
	for _, s := range sentences {
		sentence := s
		err := pool.SubmitCtx(ctx, func(ctx context.Context) error {
			words := Words(h.Analyzer.Analyze(sentence))
			mu.Lock()
			defer mu.Unlock()
			for _, tok := range words {
				f, ok := counts[tok.BaseForm]
				if !ok {
					f = &Finding{Word: tok.BaseForm}
					counts[tok.BaseForm] = f
				}
				f.Count++
				// Sentences finish in any order; keep the reading choice stable.
				if tok.Reading != "" && (f.Reading == "" || tok.Reading < f.Reading) {
					f.Reading = tok.Reading
				}
			}
			return nil
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("harvest: %w", err)
		}
	}
	pool.Close()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("harvest: %w", err)
	}

	out := make([]Finding, 0, len(counts))
	for word, f := range counts {
		if known != nil && known(word) {
			continue
		}
		if h.Glossary != nil {
			f.Definition, _ = h.Glossary.Lookup(word)
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})

	h.logger().Debug("harvest complete",
		slog.Int("sentences", len(sentences)),
		slog.Int("distinct", len(counts)),
		slog.Int("new", len(out)),
	)
	return out, nil
}
