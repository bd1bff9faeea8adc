package harvest

import (
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token represents a single analyzed unit of text.
type Token struct {
	Surface       string   // The text as it appears (e.g. "行っ")
	BaseForm      string   // The dictionary form (e.g. "行く")
	Reading       string   // The pronunciation (katakana, e.g. "イッ")
	PartsOfSpeech []string // e.g. ["動詞", "自立", "*", "*"] (Kagome POS labels)
	PrimaryPOS    string
}

// Analyzer handles text segmentation. The underlying tokenizer is safe for
// concurrent use, so one Analyzer can serve every harvest worker.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a new tokenizer instance backed by the IPA dictionary.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms.
func (a *Analyzer) Analyze(text string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 0-3 POS, 4-5 conjugation, 6 base form, 7 reading.
		features := token.Features()

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		primaryPOS := ""
		if len(features) > 0 {
			primaryPOS = features[0]
		}

		result = append(result, Token{
			Surface:       token.Surface,
			BaseForm:      base,
			Reading:       reading,
			PartsOfSpeech: features,
			PrimaryPOS:    primaryPOS,
		})
	}
	return result
}

// Primary parts of speech that never make a vocabulary entry.
var skipPOS = map[string]bool{
	"記号":  true, // symbol
	"助詞":  true, // particle
	"助動詞": true, // auxiliary verb
	"フィラー": true, // filler
}

// Words keeps the lexical tokens worth learning: no symbols, particles,
// auxiliaries or numerals, and at least one letter in the base form.
func Words(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		if skipPOS[tok.PrimaryPOS] {
			continue
		}
		if len(tok.PartsOfSpeech) > 1 && tok.PrimaryPOS == "名詞" && tok.PartsOfSpeech[1] == "数" {
			continue
		}
		if !hasLetter(tok.BaseForm) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// splitSentences splits on 。！？ and newlines, keeping the delimiter.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '。' || r == '！' || r == '？' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
