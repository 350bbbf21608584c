package align

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeReturnsGapDescription(t *testing.T) {
	provider := &stubProvider{responses: []string{
		`{"gap":"The deck never tests the regulation step."}`,
	}}
	g := NewGapAnalyzer(provider, nopLogger{})

	gap, err := g.Analyze(context.Background(), "glycolysis regulation", []string{"What is glycolysis?"})

	assert.NoError(t, err)
	assert.NotNil(t, gap)
	assert.Equal(t, "The deck never tests the regulation step.", *gap)
}

func TestAnalyzeNullGapMeansAdequateCoverage(t *testing.T) {
	provider := &stubProvider{responses: []string{`{"gap":null}`}}
	g := NewGapAnalyzer(provider, nopLogger{})

	gap, err := g.Analyze(context.Background(), "concept", []string{"card one", "card two"})

	assert.NoError(t, err)
	assert.Nil(t, gap)
}

func TestAnalyzeEmptyStringGapTreatedAsNoGap(t *testing.T) {
	provider := &stubProvider{responses: []string{`{"gap":"  "}`}}
	g := NewGapAnalyzer(provider, nopLogger{})

	gap, err := g.Analyze(context.Background(), "concept", []string{"card"})

	assert.NoError(t, err)
	assert.Nil(t, gap)
}

func TestAnalyzeMalformedResponseIsError(t *testing.T) {
	provider := &stubProvider{responses: []string{"the coverage looks thin"}}
	g := NewGapAnalyzer(provider, nopLogger{})

	_, err := g.Analyze(context.Background(), "concept", []string{"card"})

	assert.Error(t, err)
}
