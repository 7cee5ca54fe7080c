package textops

import (
	"context"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/value"
)

// CleanText lowercases the text and drops every rune that is neither a word
// character (letter, digit, underscore) nor whitespace.
func CleanText(_ context.Context, in value.Value) (value.Value, error) {
	text, err := in.AsText()
	if err != nil {
		return value.Value{}, errors.Wrap(err, "clean_text")
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}

	return value.Text(sb.String()), nil
}

// ExtractKeywords returns the distinct whitespace separated tokens of the text,
// in order of first appearance.
func ExtractKeywords(_ context.Context, in value.Value) (value.Value, error) {
	text, err := in.AsText()
	if err != nil {
		return value.Value{}, errors.Wrap(err, "extract_keywords")
	}

	fields := strings.Fields(text)
	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		keywords = append(keywords, field)
	}

	return value.Tokens(keywords), nil
}

// SentimentAnalyzer scores text or tokens against a lexicon.
type SentimentAnalyzer struct {
	lexicon *Lexicon
}

// NewSentimentAnalyzer creates an analyzer. A nil lexicon selects the embedded one.
func NewSentimentAnalyzer(lexicon *Lexicon) *SentimentAnalyzer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}

	return &SentimentAnalyzer{lexicon: lexicon}
}

// Analyze accepts text or tokens and returns a sentiment score.
func (a *SentimentAnalyzer) Analyze(_ context.Context, in value.Value) (value.Value, error) {
	var tokens []string
	switch in.Kind() {
	case value.KindText:
		text, _ := in.AsText()
		tokens = tokenize(text)
	case value.KindTokens:
		raw, _ := in.AsTokens()
		for _, tok := range raw {
			tokens = append(tokens, tokenize(tok)...)
		}
	default:
		return value.Value{}, errors.Wrapf(value.ErrTypeMismatch, "sentiment_analysis: want text or tokens, got %s", in.Kind())
	}

	return value.Score(a.lexicon.Score(tokens)), nil
}

var apostrophes = strings.NewReplacer("'", "", "’", "")

func tokenize(text string) []string {
	text = apostrophes.Replace(strings.ToLower(text))

	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
