package align

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRetrieveTruncatesLongConceptText(t *testing.T) {
	repo := &stubCardRepo{}
	r := NewRetriever(repo, nopLogger{})

	long := strings.Repeat("x", 5000)
	_, err := r.Retrieve(context.Background(), long, uuid.New(), false)

	assert.NoError(t, err)
	assert.Equal(t, DefaultMaxConceptChars, len(repo.lastSearch))
	assert.Equal(t, DefaultCandidateLimit, repo.lastLimit)
}

func TestRetrievePassesLexicalOnly(t *testing.T) {
	repo := &stubCardRepo{}
	r := NewRetriever(repo, nopLogger{})

	_, err := r.Retrieve(context.Background(), "cardiac cycle", uuid.New(), true)

	assert.NoError(t, err)
	assert.True(t, repo.lastLexical)
}

func TestRetrieveEmptyIsNotAnError(t *testing.T) {
	repo := &stubCardRepo{}
	r := NewRetriever(repo, nopLogger{})

	candidates, err := r.Retrieve(context.Background(), "anything", uuid.New(), false)

	assert.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestRetrievePropagatesSearchFailure(t *testing.T) {
	repo := &stubCardRepo{searchErr: errors.New("backend timeout")}
	r := NewRetriever(repo, nopLogger{})

	_, err := r.Retrieve(context.Background(), "anything", uuid.New(), false)

	assert.Error(t, err)
}
