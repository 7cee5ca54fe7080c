package textops

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/catalog"
	"github.com/askiada/go-planflow/pkg/value"
)

const (
	CleanTextName         = "clean_text"
	ExtractKeywordsName   = "extract_keywords"
	SentimentAnalysisName = "sentiment_analysis"
)

// NewCatalog registers the text operations and their dependencies:
// sentiment_analysis needs extract_keywords, which needs clean_text.
// A nil lexicon selects the embedded one.
func NewCatalog(lexicon *Lexicon) (*catalog.Catalog, error) {
	analyzer := NewSentimentAnalyzer(lexicon)

	cat := catalog.New()
	ops := []catalog.Operation{
		{
			Name:        CleanTextName,
			Description: "lowercases and removes punctuation",
			Fn:          CleanText,
			Accepts:     []value.Kind{value.KindText},
			Produces:    value.KindText,
		},
		{
			Name:        ExtractKeywordsName,
			Description: "splits text into keywords to determine sentiment",
			Fn:          ExtractKeywords,
			Accepts:     []value.Kind{value.KindText},
			Produces:    value.KindTokens,
		},
		{
			Name:        SentimentAnalysisName,
			Description: "returns sentiment polarity/subjectivity",
			Fn:          analyzer.Analyze,
			Accepts:     []value.Kind{value.KindText, value.KindTokens},
			Produces:    value.KindSentiment,
		},
	}
	for _, op := range ops {
		err := cat.Register(op)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to register %s", op.Name)
		}
	}

	deps := [][2]string{
		{SentimentAnalysisName, ExtractKeywordsName},
		{ExtractKeywordsName, CleanTextName},
	}
	for _, dep := range deps {
		err := cat.DependsOn(dep[0], dep[1])
		if err != nil {
			return nil, err
		}
	}

	return cat, nil
}
