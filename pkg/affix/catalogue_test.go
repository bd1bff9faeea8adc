package affix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"prefix", Prefix, true},
		{" Suffix ", Suffix, true},
		{"INFIX", Infix, true},
		{"other", Other, true},
		{"circumfix", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidCategory, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestBareAndNotate(t *testing.T) {
	assert.Equal(t, "un", Bare("un-"))
	assert.Equal(t, "tion", Bare(" -tion "))
	assert.Equal(t, "o", Bare("-o-"))
	assert.Equal(t, "", Bare("--"))

	assert.Equal(t, "re-", Notate("re", Prefix))
	assert.Equal(t, "-ly", Notate("ly", Suffix))
	assert.Equal(t, "-o-", Notate("o", Infix))
	assert.Equal(t, "graph", Notate("graph", Other))
}

func TestCatalogueAddRejectsBadInput(t *testing.T) {
	c := NewCatalogue()
	assert.ErrorIs(t, c.Add("", "nothing", Prefix), ErrEmptyAffix)
	assert.ErrorIs(t, c.Add(" - ", "only a marker", Prefix), ErrEmptyAffix)
	assert.ErrorIs(t, c.Add("un-", "not", Category("circumfix")), ErrInvalidCategory)
	assert.Equal(t, 0, c.Len())
}

func TestCatalogueUpdateKeepsRelatedWords(t *testing.T) {
	c := NewCatalogue()
	require.NoError(t, c.Add("un-", "not", Prefix))
	NewEngine(DefaultBounds).Categorize([]string{"undo", "unfair", "redo"}, c)

	require.NoError(t, c.Add("un-", "reverse of", Prefix))
	r, ok := c.Get("un-")
	require.True(t, ok)
	assert.Equal(t, "reverse of", r.Definition)
	assert.Equal(t, []string{"undo", "unfair"}, r.RelatedWords)
	assert.Equal(t, 1, c.Len())
}

func TestCatalogueGetReturnsCopy(t *testing.T) {
	c := NewCatalogue()
	require.NoError(t, c.Restore(Record{Text: "-ly", Definition: "in the manner of", Category: Suffix, RelatedWords: []string{"quickly", "boldly"}}))

	r, ok := c.Get("-ly")
	require.True(t, ok)
	assert.Equal(t, []string{"boldly", "quickly"}, r.RelatedWords)
	r.RelatedWords[0] = "mutated"

	again, _ := c.Get("-ly")
	assert.Equal(t, "boldly", again.RelatedWords[0])
}

func TestCatalogueRecordsOrder(t *testing.T) {
	c := NewCatalogue()
	require.NoError(t, c.Add("graph", "writing", Other))
	require.NoError(t, c.Add("-tion", "act of", Suffix))
	require.NoError(t, c.Add("re-", "again", Prefix))
	require.NoError(t, c.Add("-ly", "manner", Suffix))
	require.NoError(t, c.Add("-o-", "link vowel", Infix))
	require.NoError(t, c.Add("anti-", "against", Prefix))

	var got []string
	for _, r := range c.Records() {
		got = append(got, r.Text)
	}
	assert.Equal(t, []string{"anti-", "re-", "-ly", "-tion", "-o-", "graph"}, got)
}

func TestCatalogueRemove(t *testing.T) {
	c := NewCatalogue()
	require.NoError(t, c.Add("re-", "again", Prefix))
	assert.True(t, c.Remove(" re- "))
	assert.False(t, c.Remove("re-"))
	_, ok := c.Get("re-")
	assert.False(t, ok)
}
