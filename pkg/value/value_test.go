package value_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-planflow/pkg/value"
)

func TestTextVariant(t *testing.T) {
	t.Parallel()

	v := value.Text("hello")
	assert.Equal(t, value.KindText, v.Kind())
	got, err := v.AsText()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = v.AsTokens()
	assert.True(t, errors.Is(err, value.ErrTypeMismatch))
	_, err = v.AsSentiment()
	assert.True(t, errors.Is(err, value.ErrTypeMismatch))
}

func TestTokensAreCopied(t *testing.T) {
	t.Parallel()

	in := []string{"a", "b"}
	v := value.Tokens(in)
	in[0] = "z"

	got, err := v.AsTokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got[1] = "y"
	again, err := v.AsTokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", value.Text("plain").String())
	assert.Equal(t, `["a", "b"]`, value.Tokens([]string{"a", "b"}).String())
	assert.Equal(t, "Sentiment(polarity=0.500, subjectivity=0.600)",
		value.Score(value.Sentiment{Polarity: 0.5, Subjectivity: 0.6}).String())
	assert.Equal(t, "<invalid>", value.Value{}.String())
}

func TestAccepts(t *testing.T) {
	t.Parallel()

	accepted := []value.Kind{value.KindText, value.KindTokens}
	assert.True(t, value.Accepts(accepted, value.KindTokens))
	assert.False(t, value.Accepts(accepted, value.KindSentiment))
	assert.False(t, value.Accepts(nil, value.KindText))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", value.KindText.String())
	assert.Equal(t, "tokens", value.KindTokens.String())
	assert.Equal(t, "sentiment", value.KindSentiment.String())
	assert.Equal(t, "invalid", value.KindInvalid.String())
}
