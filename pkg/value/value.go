// Package value defines the data passed between the operations of a text pipeline.
//
// A Value is a tagged union: exactly one of its variants is meaningful, as reported by Kind.
// Operations declare which kinds they accept and which kind they produce, so a chain of
// operations can be checked before it runs.
package value

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrTypeMismatch is returned when an operation receives a variant it cannot process.
var ErrTypeMismatch = errors.New("value type mismatch")

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindText
	KindTokens
	KindSentiment
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTokens:
		return "tokens"
	case KindSentiment:
		return "sentiment"
	default:
		return "invalid"
	}
}

// Sentiment is a polarity in [-1, 1] and a subjectivity in [0, 1].
type Sentiment struct {
	Polarity     float64
	Subjectivity float64
}

func (s Sentiment) String() string {
	return fmt.Sprintf("Sentiment(polarity=%.3f, subjectivity=%.3f)", s.Polarity, s.Subjectivity)
}

// Value is the unit of data threaded through a pipeline.
type Value struct {
	kind      Kind
	text      string
	tokens    []string
	sentiment Sentiment
}

// Text wraps a string.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Tokens wraps a list of tokens. The slice is copied.
func Tokens(tokens []string) Value {
	cp := make([]string, len(tokens))
	copy(cp, tokens)

	return Value{kind: KindTokens, tokens: cp}
}

// Score wraps a sentiment score.
func Score(s Sentiment) Value {
	return Value{kind: KindSentiment, sentiment: s}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// AsText returns the text variant.
func (v Value) AsText() (string, error) {
	if v.kind != KindText {
		return "", mismatch(KindText, v.kind)
	}

	return v.text, nil
}

// AsTokens returns a copy of the tokens variant.
func (v Value) AsTokens() ([]string, error) {
	if v.kind != KindTokens {
		return nil, mismatch(KindTokens, v.kind)
	}
	cp := make([]string, len(v.tokens))
	copy(cp, v.tokens)

	return cp, nil
}

// AsSentiment returns the sentiment variant.
func (v Value) AsSentiment() (Sentiment, error) {
	if v.kind != KindSentiment {
		return Sentiment{}, mismatch(KindSentiment, v.kind)
	}

	return v.sentiment, nil
}

// String renders v the way trace events display it.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindTokens:
		quoted := make([]string, len(v.tokens))
		for i, tok := range v.tokens {
			quoted[i] = fmt.Sprintf("%q", tok)
		}

		return "[" + strings.Join(quoted, ", ") + "]"
	case KindSentiment:
		return v.sentiment.String()
	default:
		return "<invalid>"
	}
}

// Accepts reports whether kind is one of accepted.
func Accepts(accepted []Kind, kind Kind) bool {
	for _, k := range accepted {
		if k == kind {
			return true
		}
	}

	return false
}

func mismatch(want, got Kind) error {
	return errors.Wrapf(ErrTypeMismatch, "want %s, got %s", want, got)
}
