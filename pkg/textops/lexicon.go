package textops

import (
	"bytes"
	_ "embed"
	"io"
	"math"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-planflow/pkg/value"
)

//go:embed lexicon.yaml
var embeddedLexicon []byte

// negationFactor flips and damps the polarity of the next scored word.
const negationFactor = -0.5

// Entry is the score of a single word.
type Entry struct {
	Polarity     float64 `yaml:"polarity"`
	Subjectivity float64 `yaml:"subjectivity"`
}

// Lexicon holds word scores and the modifiers applied to the next scored word.
// It may be built as a literal; the fields must not change once it has scored.
type Lexicon struct {
	Words        map[string]Entry   `yaml:"words"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`

	negationsOnce sync.Once
	negations     map[string]struct{}
}

// LoadLexicon decodes a YAML lexicon.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	lex := &Lexicon{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(lex)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode lexicon")
	}

	for word, entry := range lex.Words {
		if entry.Polarity < -1 || entry.Polarity > 1 || entry.Subjectivity < 0 || entry.Subjectivity > 1 {
			return nil, errors.Errorf("lexicon entry %q out of range", word)
		}
	}
	return lex, nil
}

// LoadLexiconFile decodes the YAML lexicon stored at path.
func LoadLexiconFile(path string) (*Lexicon, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open lexicon %s", path)
	}
	defer file.Close()

	return LoadLexicon(file)
}

var (
	defaultLexiconOnce sync.Once
	defaultLexicon     *Lexicon
)

// DefaultLexicon returns the lexicon embedded in the binary.
func DefaultLexicon() *Lexicon {
	defaultLexiconOnce.Do(func() {
		lex, err := LoadLexicon(bytes.NewReader(embeddedLexicon))
		if err != nil {
			panic(err)
		}
		defaultLexicon = lex
	})

	return defaultLexicon
}

// Score averages the scores of the lexicon words found in tokens. An
// intensifier multiplies the next scored word, a negation flips and damps its
// polarity. Tokens with no lexicon word score zero.
func (l *Lexicon) Score(tokens []string) value.Sentiment {
	var (
		polarity, subjectivity float64
		scored                 int
	)

	negations := l.negationSet()
	intensity, negated := 1.0, false
	for _, tok := range tokens {
		if _, ok := negations[tok]; ok {
			negated = true
			continue
		}
		if factor, ok := l.Intensifiers[tok]; ok {
			intensity *= factor
			continue
		}
		entry, ok := l.Words[tok]
		if !ok {
			continue
		}

		p := clamp(entry.Polarity*intensity, -1, 1)
		if negated {
			p *= negationFactor
		}
		polarity += p
		subjectivity += clamp(entry.Subjectivity*intensity, 0, 1)
		scored++

		intensity, negated = 1.0, false
	}

	if scored == 0 {
		return value.Sentiment{}
	}

	return value.Sentiment{
		Polarity:     round3(polarity / float64(scored)),
		Subjectivity: round3(subjectivity / float64(scored)),
	}
}

func (l *Lexicon) negationSet() map[string]struct{} {
	l.negationsOnce.Do(func() {
		l.negations = make(map[string]struct{}, len(l.Negations))
		for _, word := range l.Negations {
			l.negations[word] = struct{}{}
		}
	})

	return l.negations
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
