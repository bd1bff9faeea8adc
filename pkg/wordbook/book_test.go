package wordbook

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/japaniel/wordbook/pkg/affix"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/trie"
	"github.com/japaniel/wordbook/pkg/vocab"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.InitDB(conn))
	t.Cleanup(func() { conn.Close() })
	return conn
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func openBook(t *testing.T, conn *sql.DB) (*Book, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}
	b, err := Open(context.Background(), conn, Options{Bounds: affix.DefaultBounds, Now: c.now})
	require.NoError(t, err)
	return b, c
}

func words(entries []trie.Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Word)
	}
	return out
}

func TestAddAndLookup(t *testing.T) {
	b, _ := openBook(t, setupDB(t))

	e, err := b.Add("  Apple ", " a fruit ")
	require.NoError(t, err)
	assert.Equal(t, "apple", e.Word)
	assert.Equal(t, "a fruit", e.Definition)

	res := b.Lookup("APPLE")
	require.True(t, res.Found)
	assert.Equal(t, "a fruit", res.Entry.Definition)
	assert.Nil(t, res.Suggestions)

	_, err = b.Add("  ", "x")
	assert.ErrorIs(t, err, ErrEmptyWord)
	_, err = b.Add("pear", "   ")
	assert.ErrorIs(t, err, ErrEmptyDefinition)

	assert.Equal(t, LookupResult{}, b.Lookup(" "))
	assert.True(t, b.Has("apple"))
	assert.False(t, b.Has("pear"))
	assert.Equal(t, 1, b.Len())
}

func TestAddOverwritesDefinitionAndTimestamp(t *testing.T) {
	conn := setupDB(t)
	b, _ := openBook(t, conn)

	first, err := b.Add("run", "to move fast")
	require.NoError(t, err)
	second, err := b.Add("run", "to operate")
	require.NoError(t, err)
	assert.True(t, second.InsertedAt.After(first.InsertedAt))

	res := b.Lookup("run")
	assert.Equal(t, "to operate", res.Entry.Definition)
	assert.True(t, second.InsertedAt.Equal(res.Entry.InsertedAt))
	assert.Equal(t, 1, b.Len())

	stored, err := db.ListWords(conn)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "to operate", stored[0].Definition)
}

func TestKeepCase(t *testing.T) {
	b, err := Open(context.Background(), setupDB(t), Options{KeepCase: true})
	require.NoError(t, err)
	_, err = b.Add("Berlin", "a city")
	require.NoError(t, err)
	assert.True(t, b.Lookup("Berlin").Found)
	assert.False(t, b.Lookup("berlin").Found)
}

func TestLookupMissSuggests(t *testing.T) {
	b, _ := openBook(t, setupDB(t))
	_, err := b.AddAffix("re-", "again", "prefix")
	require.NoError(t, err)

	res := b.Lookup("rework")
	assert.False(t, res.Found)
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, affix.Part{Affix: "re-", Side: affix.Prefix, Matched: true, Remainder: "work"}, res.Suggestions[0])
	assert.Equal(t, res.Suggestions, b.Suggest("REWORK"))
}

func TestPrefixAndDelete(t *testing.T) {
	b, _ := openBook(t, setupDB(t))
	for _, w := range []string{"cart", "car", "care", "dog"} {
		_, err := b.Add(w, "def of "+w)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"car", "care", "cart"}, words(b.Prefix("Car")))
	assert.Equal(t, []string{"car", "care", "cart", "dog"}, words(b.Words()))
	assert.Empty(t, b.Prefix("x"))

	ok, err := b.Delete("car")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = b.Delete("car")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"care", "cart"}, words(b.Prefix("car")))
}

func TestReopenRestoresState(t *testing.T) {
	conn := setupDB(t)
	b, _ := openBook(t, conn)
	_, err := b.Add("undo", "reverse")
	require.NoError(t, err)
	_, err = b.Add("redo", "do again")
	require.NoError(t, err)
	_, err = b.AddAffix("-do", "doing", "suffix")
	require.NoError(t, err)
	_, err = b.Categorize(context.Background())
	require.NoError(t, err)

	again, _ := openBook(t, conn)
	assert.Equal(t, 2, again.Len())
	r, ok := again.Affix("-do")
	require.True(t, ok)
	assert.Equal(t, affix.Suffix, r.Category)
	assert.Equal(t, []string{"redo", "undo"}, r.RelatedWords)
	assert.Equal(t, b.Lookup("undo").Entry.InsertedAt.UTC(), again.Lookup("undo").Entry.InsertedAt.UTC())
}

func TestAffixLifecycle(t *testing.T) {
	conn := setupDB(t)
	b, _ := openBook(t, conn)

	_, err := b.AddAffix("-", "nothing", "suffix")
	assert.ErrorIs(t, err, affix.ErrEmptyAffix)
	_, err = b.AddAffix("un-", "not", "circumfix")
	assert.ErrorIs(t, err, affix.ErrInvalidCategory)
	_, err = b.AddAffix("un-", "", "prefix")
	assert.ErrorIs(t, err, ErrEmptyDefinition)
	assert.Empty(t, b.Affixes())

	r, err := b.AddAffix("UN-", "not", "Prefix")
	require.NoError(t, err)
	assert.Equal(t, "un-", r.Text)
	_, err = b.AddAffix("-ness", "state", "suffix")
	require.NoError(t, err)
	_, err = b.AddAffix("-o-", "link", "infix")
	require.NoError(t, err)

	var texts []string
	for _, a := range b.Affixes() {
		texts = append(texts, a.Text)
	}
	assert.Equal(t, []string{"un-", "-ness", "-o-"}, texts)

	ok, err := b.RemoveAffix("-ness")
	require.NoError(t, err)
	assert.True(t, ok)
	stored, err := db.ListAffixes(conn)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	ok, err = b.RemoveAffix("-ness")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategorize(t *testing.T) {
	b, _ := openBook(t, setupDB(t))
	for _, w := range []string{"unkind", "kindness", "unhappy", "speedometer", "table"} {
		_, err := b.Add(w, "x")
		require.NoError(t, err)
	}
	for _, a := range [][3]string{{"un-", "not", "prefix"}, {"-ness", "state", "suffix"}, {"-o-", "link", "infix"}, {"-ly", "manner", "suffix"}} {
		_, err := b.AddAffix(a[0], a[1], a[2])
		require.NoError(t, err)
	}

	res, err := b.Categorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"unhappy", "unkind"}, res.Groups["un-"])
	assert.Equal(t, []string{"kindness"}, res.Groups["-ness"])
	assert.Equal(t, []string{"speedometer"}, res.Groups["-o-"])
	assert.Equal(t, []string{}, res.Groups["-ly"])
	assert.Equal(t, []string{"table"}, res.Unaffixed)

	// Categorizing twice replaces rather than accumulates.
	_, err = b.Delete("unhappy")
	require.NoError(t, err)
	res, err = b.Categorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"unkind"}, res.Groups["un-"])
	r, _ := b.Affix("un-")
	assert.Equal(t, []string{"unkind"}, r.RelatedWords)
}

func TestCategorizeFailureKeepsStoredRelatedWords(t *testing.T) {
	conn := setupDB(t)
	b, _ := openBook(t, conn)
	for _, w := range []string{"unkind", "unhappy"} {
		_, err := b.Add(w, "x")
		require.NoError(t, err)
	}
	_, err := b.AddAffix("un-", "not", "prefix")
	require.NoError(t, err)
	_, err = b.Categorize(context.Background())
	require.NoError(t, err)
	before, _ := b.Affix("un-")

	_, err = b.Add("untrue", "false")
	require.NoError(t, err)
	_, err = conn.Exec(`CREATE TRIGGER refuse_links BEFORE INSERT ON affix_words
		BEGIN SELECT RAISE(ABORT, 'links refused'); END`)
	require.NoError(t, err)

	_, err = b.Categorize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "links refused")

	after, ok := b.Affix("un-")
	require.True(t, ok)
	assert.Equal(t, []string{"unhappy", "unkind"}, before.RelatedWords)
	assert.Equal(t, before.RelatedWords, after.RelatedWords)

	reopened, _ := openBook(t, conn)
	stored, _ := reopened.Affix("un-")
	assert.Equal(t, stored.RelatedWords, after.RelatedWords)
}

func TestMine(t *testing.T) {
	b, _ := openBook(t, setupDB(t))
	for _, w := range []string{"redo", "undo", "rerun"} {
		_, err := b.Add(w, "x")
		require.NoError(t, err)
	}
	got := b.Mine(2)
	require.NotEmpty(t, got)
	for _, c := range got {
		assert.GreaterOrEqual(t, c.Frequency, 2)
	}

	_, err := b.AddAffix("re-", "again", "prefix")
	require.NoError(t, err)
	for _, c := range b.Mine(2) {
		assert.False(t, c.Text == "re" && c.Side == affix.Prefix, "catalogued affix re- must not be mined")
	}
}

func TestImport(t *testing.T) {
	conn := setupDB(t)
	b, c := openBook(t, conn)
	b.opts.BatchSize = 2

	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := b.Import(context.Background(), []vocab.Record{
		{Word: "Alpha", Definition: "first", InsertedAt: stamp},
		{Word: "beta", Definition: "second"},
		{Word: " ", Definition: "orphan"},
		{Word: "gamma", Definition: ""},
		{Word: "alpha", Definition: "first again", InsertedAt: stamp},
		{Word: "delta", Definition: "fourth"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Added)
	assert.Equal(t, []string{" ", "gamma"}, res.Skipped)

	assert.Equal(t, []string{"alpha", "beta", "delta"}, words(b.Words()))
	assert.Equal(t, "first again", b.Lookup("alpha").Entry.Definition)
	assert.True(t, stamp.Equal(b.Lookup("alpha").Entry.InsertedAt))
	assert.False(t, b.Lookup("beta").Entry.InsertedAt.After(c.t))

	n, err := db.CountWords(conn)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestImportCanceled(t *testing.T) {
	conn := setupDB(t)
	b, _ := openBook(t, conn)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Import(ctx, []vocab.Record{{Word: "a", Definition: "b"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, b.Len())
}

func TestReset(t *testing.T) {
	conn := setupDB(t)
	b, _ := openBook(t, conn)
	_, err := b.Add("unkind", "x")
	require.NoError(t, err)
	_, err = b.AddAffix("un-", "not", "prefix")
	require.NoError(t, err)
	_, err = b.Categorize(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.Reset(context.Background()))
	assert.Equal(t, 0, b.Len())
	r, ok := b.Affix("un-")
	require.True(t, ok)
	assert.Empty(t, r.RelatedWords)

	again, _ := openBook(t, conn)
	assert.Equal(t, 0, again.Len())
	assert.Len(t, again.Affixes(), 1)
}

func TestOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, setupDB(t), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
