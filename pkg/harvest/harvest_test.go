package harvest

import (
	"context"
	"testing"

	"github.com/japaniel/wordbook/pkg/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarvester(t *testing.T) *Harvester {
	t.Helper()
	a, err := NewAnalyzer()
	require.NoError(t, err)
	g := dictionary.NewGlossary([]dictionary.JMdictEntry{{
		Id:    "1",
		Kanji: []dictionary.JMdictElement{{Text: "猫"}},
		Kana:  []dictionary.JMdictElement{{Text: "ねこ"}},
		Sense: []dictionary.JMdictSense{{Gloss: []dictionary.JMdictGloss{{Text: "cat"}}}},
	}})
	return &Harvester{Analyzer: a, Workers: 3, Glossary: g}
}

func TestHarvest(t *testing.T) {
	h := newHarvester(t)
	text := "猫が好きです。猫は本を読む。\n犬も本を読む！"

	found, err := h.Harvest(context.Background(), text, nil)
	require.NoError(t, err)
	require.NotEmpty(t, found)

	assert.Equal(t, "本", found[0].Word)
	assert.Equal(t, 2, found[0].Count)
	cat := findWord(found, "猫")
	require.NotNil(t, cat)
	assert.Equal(t, 2, cat.Count)
	assert.Equal(t, "cat", cat.Definition)
	assert.Equal(t, "ネコ", cat.Reading)

	for i := 1; i < len(found); i++ {
		prev, cur := found[i-1], found[i]
		assert.True(t, prev.Count > cur.Count || (prev.Count == cur.Count && prev.Word < cur.Word))
	}
}

func TestHarvestSkipsKnown(t *testing.T) {
	h := newHarvester(t)
	known := map[string]bool{"猫": true}
	found, err := h.Harvest(context.Background(), "猫が好きです。", func(w string) bool { return known[w] })
	require.NoError(t, err)
	assert.Nil(t, findWord(found, "猫"))
	assert.NotNil(t, findWord(found, "好き"))
}

func TestHarvestCanceled(t *testing.T) {
	h := newHarvester(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Harvest(ctx, "猫が好きです。", nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = (&Harvester{}).Harvest(context.Background(), "猫", nil)
	assert.Error(t, err)
}

func findWord(found []Finding, word string) *Finding {
	for i := range found {
		if found[i].Word == word {
			return &found[i]
		}
	}
	return nil
}
