package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/japaniel/wordbook/pkg/affix"
	"github.com/japaniel/wordbook/pkg/app"
	"github.com/japaniel/wordbook/pkg/config"
	"github.com/japaniel/wordbook/pkg/stats"
	"github.com/japaniel/wordbook/pkg/trie"
	"github.com/japaniel/wordbook/pkg/vocab"
)

func boundsFrom(c config.AffixConfig) affix.Bounds {
	return affix.Bounds{MinLen: c.MinLength, MaxLen: c.MaxLength, MinRoot: c.MinRoot}
}

// printLimited writes lines, cutting the output after limit lines (0 means
// no limit).
func printLimited(w io.Writer, lines []string, limit int) {
	for i, l := range lines {
		if limit > 0 && i == limit {
			fmt.Fprintf(w, "... and %d more\n", len(lines)-limit)
			return
		}
		fmt.Fprintln(w, l)
	}
}

func entryLines(entries []trie.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s: %s", e.Word, e.Definition)
	}
	return out
}

func partLines(parts []affix.Part) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		mark := "candidate"
		if p.Matched {
			mark = "known"
		}
		out[i] = fmt.Sprintf("%-9s %-8s %-12s remainder %s", mark, p.Side, p.Affix, p.Remainder)
	}
	return out
}

func cmdAdd(e *env, args []string) error {
	if len(args) < 2 {
		return usageErr("add needs a word and a definition")
	}
	entry, err := e.book.Add(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "added %s\n", entry.Word)
	return nil
}

func cmdSearch(e *env, args []string) error {
	if len(args) != 1 {
		return usageErr("search needs exactly one word")
	}
	res := e.book.Lookup(args[0])
	if res.Found {
		fmt.Fprintf(e.out, "%s: %s\n", res.Entry.Word, res.Entry.Definition)
		return nil
	}
	fmt.Fprintf(e.out, "%q not found\n", strings.TrimSpace(args[0]))
	if len(res.Suggestions) > 0 {
		fmt.Fprintln(e.out, "possible structure:")
		printLimited(e.out, partLines(res.Suggestions), e.cfg.Display.MaxResults)
	}
	return nil
}

func cmdPrefix(e *env, args []string) error {
	if len(args) != 1 {
		return usageErr("prefix needs exactly one prefix")
	}
	entries := e.book.Prefix(args[0])
	if len(entries) == 0 {
		fmt.Fprintln(e.out, "no matches")
		return nil
	}
	printLimited(e.out, entryLines(entries), e.cfg.Display.MaxResults)
	return nil
}

func cmdList(e *env, args []string) error {
	fs := newFlags("list")
	recent := fs.Int("recent", 0, "show the n most recently added words")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	entries := e.book.Words()
	if *recent > 0 {
		entries = stats.Recent(entries, *recent)
	}
	fmt.Fprintf(e.out, "%d words\n", e.book.Len())
	printLimited(e.out, entryLines(entries), e.cfg.Display.MaxList)
	return nil
}

func cmdDelete(e *env, args []string) error {
	if len(args) != 1 {
		return usageErr("delete needs exactly one word")
	}
	ok, err := e.book.Delete(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%q not found", args[0])
	}
	fmt.Fprintf(e.out, "deleted %s\n", strings.TrimSpace(args[0]))
	return nil
}

// formatFor picks the explicit format, else the file extension.
func formatFor(explicit, path string) (vocab.Format, error) {
	if explicit != "" {
		return vocab.ParseFormat(explicit)
	}
	if ext := filepath.Ext(path); ext != "" {
		return vocab.ParseFormat(ext)
	}
	return vocab.Text, nil
}

func cmdImport(e *env, args []string) error {
	fs := newFlags("import")
	format := fs.String("format", "", "file format (default from extension)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErr("import needs one file")
	}
	path := fs.Arg(0)
	f, err := formatFor(*format, path)
	if err != nil {
		return usageErr("%v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	records, bad, err := vocab.Import(file, f)
	if err != nil {
		return err
	}
	for _, le := range bad {
		fmt.Fprintf(e.out, "skipped %v\n", le)
	}
	res, err := e.book.Import(e.ctx, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "imported %d words (%d skipped)\n", res.Added, len(bad)+len(res.Skipped))
	return nil
}

func cmdExport(e *env, args []string) error {
	fs := newFlags("export")
	format := fs.String("format", "", "file format (default from extension)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErr("export needs one file, or - for stdout")
	}
	path := fs.Arg(0)
	f, err := formatFor(*format, path)
	if err != nil {
		return usageErr("%v", err)
	}
	if path == "-" {
		return vocab.Export(e.out, f, e.book.Words())
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := vocab.Export(file, f, e.book.Words()); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "exported %d words to %s\n", e.book.Len(), path)
	return nil
}

func cmdAffixAdd(e *env, args []string) error {
	if len(args) < 3 {
		return usageErr("affix-add needs an affix, a category and a definition")
	}
	r, err := e.book.AddAffix(args[0], strings.Join(args[2:], " "), args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "added %s %s\n", r.Category, r.Text)
	return nil
}

func cmdAffix(e *env, args []string) error {
	fs := newFlags("affix")
	remove := fs.Bool("remove", false, "remove the affix")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErr("affix needs exactly one affix")
	}
	text := fs.Arg(0)
	if *remove {
		ok, err := e.book.RemoveAffix(text)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("affix %q not found", text)
		}
		fmt.Fprintf(e.out, "removed %s\n", strings.TrimSpace(text))
		return nil
	}
	r, ok := e.book.Affix(text)
	if !ok {
		return fmt.Errorf("affix %q not found", text)
	}
	fmt.Fprintf(e.out, "%s (%s): %s\n", r.Text, r.Category, r.Definition)
	if len(r.RelatedWords) > 0 {
		fmt.Fprintln(e.out, "related words:")
		printLimited(e.out, r.RelatedWords, e.cfg.Display.MaxResults)
	}
	return nil
}

func cmdAffixes(e *env, args []string) error {
	records := e.book.Affixes()
	if len(records) == 0 {
		fmt.Fprintln(e.out, "no affixes")
		return nil
	}
	var current affix.Category
	for _, r := range records {
		if r.Category != current {
			current = r.Category
			fmt.Fprintf(e.out, "[%s]\n", current)
		}
		fmt.Fprintf(e.out, "  %s: %s (%d words)\n", r.Text, r.Definition, len(r.RelatedWords))
	}
	return nil
}

func cmdCategorize(e *env, args []string) error {
	res, err := e.book.Categorize(e.ctx)
	if err != nil {
		return err
	}
	for _, r := range e.book.Affixes() {
		words := res.Groups[r.Text]
		fmt.Fprintf(e.out, "%s (%d)\n", r.Text, len(words))
		printLimited(e.out, indent(words), e.cfg.Display.MaxResults)
	}
	fmt.Fprintf(e.out, "[no matching affix] (%d)\n", len(res.Unaffixed))
	printLimited(e.out, indent(res.Unaffixed), e.cfg.Display.MaxResults)
	return nil
}

func indent(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = "  " + w
	}
	return out
}

func cmdMine(e *env, args []string) error {
	fs := newFlags("mine")
	minFreq := fs.Int("min", e.cfg.Affix.MinFrequency, "minimum frequency")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	candidates := e.book.Mine(*minFreq)
	if len(candidates) == 0 {
		fmt.Fprintln(e.out, "no candidates")
		return nil
	}
	lines := make([]string, len(candidates))
	for i, c := range candidates {
		lines[i] = fmt.Sprintf("%-12s %-7s %d", c.Label(), c.Side, c.Frequency)
	}
	printLimited(e.out, lines, e.cfg.Display.MaxResults)
	return nil
}

func cmdSuggest(e *env, args []string) error {
	if len(args) != 1 {
		return usageErr("suggest needs exactly one word")
	}
	parts := e.book.Suggest(args[0])
	if len(parts) == 0 {
		fmt.Fprintln(e.out, "no suggestions")
		return nil
	}
	printLimited(e.out, partLines(parts), e.cfg.Display.MaxResults)
	return nil
}

func cmdStats(e *env, args []string) error {
	fs := newFlags("stats")
	from := fs.String("from", "", "first day, YYYY-MM-DD")
	to := fs.String("to", "", "last day, YYYY-MM-DD")
	trend := fs.Int("trend", 0, "list words added in the last n days")
	utc := fs.Bool("utc", false, "use UTC days instead of local time")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	loc := time.Local
	if *utc {
		loc = time.UTC
	}

	entries := e.book.Words()
	if *from != "" || *to != "" {
		var start, end time.Time
		var err error
		if *from != "" {
			if start, err = stats.ParseDate(*from, loc); err != nil {
				return usageErr("%v", err)
			}
		}
		if *to != "" {
			if end, err = stats.ParseDate(*to, loc); err != nil {
				return usageErr("%v", err)
			}
		}
		entries = stats.InRange(entries, start, end)
	}

	days := stats.Daily(entries, loc)
	sum := stats.Summarize(days)
	fmt.Fprintf(e.out, "total %d words over %d days (%.1f per day)\n", sum.Total, sum.Days, sum.PerDay)
	if sum.Days > 0 {
		fmt.Fprintf(e.out, "busiest day %s with %d words\n", sum.BusiestDay.Day, sum.BusiestDay.Count)
	}
	lines := make([]string, len(days))
	for i, d := range days {
		lines[i] = fmt.Sprintf("%s %4d %s", d.Day, d.Count, strings.Repeat("#", stats.HeatLevel(d.Count, sum.BusiestDay.Count)))
	}
	printLimited(e.out, lines, e.cfg.Display.MaxList)

	if *trend > 0 {
		recent := stats.Trending(entries, time.Now(), *trend)
		fmt.Fprintf(e.out, "added in the last %d days: %d\n", *trend, len(recent))
		printLimited(e.out, entryLines(recent), e.cfg.Display.MaxResults)
	}
	return nil
}

func cmdReset(e *env, args []string) error {
	fs := newFlags("reset")
	yes := fs.Bool("yes", false, "confirm deleting every word")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if !*yes {
		return usageErr("reset deletes every word; pass -yes to confirm")
	}
	n := e.book.Len()
	if err := e.book.Reset(e.ctx); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "deleted %d words\n", n)
	return nil
}

func cmdVersion(e *env, args []string) error {
	fmt.Fprintf(e.out, "wordbook %s\n", app.BuildVersion())
	return nil
}
