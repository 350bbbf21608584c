package align

import (
	"context"
	"fmt"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/contract"
	"deck-align-be/pkg/llm"

	"github.com/google/uuid"
)

// nopLogger satisfies logger.ILogger for tests without touching disk.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(string) (*logger.LogEntry, error) { return nil, nil }

// stubProvider replays canned responses (or errors) in call order and records
// every prompt it receives.
type stubProvider struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", fmt.Errorf("stub provider: unexpected call %d", i)
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("stub provider: empty history")
	}
	return s.Generate(ctx, history[len(history)-1].Content, options...)
}

// stubCardRepo backs the retriever and resolver with in-memory cards.
type stubCardRepo struct {
	searchResults []*contract.ScoredRawCard
	searchErr     error
	lastSearch    string
	lastLexical   bool
	lastLimit     int

	cardsByExternalId map[string]*entity.RawCard
	findCalls         int
}

func (s *stubCardRepo) CreateBulk(ctx context.Context, cards []*entity.RawCard) error { return nil }

func (s *stubCardRepo) CountByDeckId(ctx context.Context, deckId uuid.UUID) (int64, error) {
	return int64(len(s.cardsByExternalId)), nil
}

func (s *stubCardRepo) FindAllByExternalIds(ctx context.Context, deckId uuid.UUID, externalIds []string) ([]*entity.RawCard, error) {
	s.findCalls++
	var out []*entity.RawCard
	for _, id := range externalIds {
		if card, ok := s.cardsByExternalId[id]; ok {
			out = append(out, card)
		}
	}
	return out, nil
}

func (s *stubCardRepo) SearchCandidates(ctx context.Context, searchText string, deckId uuid.UUID, limit int, lexicalOnly bool) ([]*contract.ScoredRawCard, error) {
	s.lastSearch = searchText
	s.lastLexical = lexicalOnly
	s.lastLimit = limit
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchResults, nil
}

// stubConceptRepo is an in-memory CardConceptRepository.
type stubConceptRepo struct {
	concepts    map[string]*entity.CardConcept // keyed by external id
	createCalls int
	findCalls   int
}

func newStubConceptRepo() *stubConceptRepo {
	return &stubConceptRepo{concepts: map[string]*entity.CardConcept{}}
}

func (s *stubConceptRepo) CreateBulk(ctx context.Context, concepts []*entity.CardConcept) error {
	s.createCalls++
	for _, c := range concepts {
		s.concepts[c.ExternalCardId] = c
	}
	return nil
}

func (s *stubConceptRepo) Update(ctx context.Context, concept *entity.CardConcept) error {
	s.concepts[concept.ExternalCardId] = concept
	return nil
}

func (s *stubConceptRepo) FindAllByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.CardConcept, error) {
	var out []*entity.CardConcept
	for _, c := range s.concepts {
		for _, id := range ids {
			if c.Id == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (s *stubConceptRepo) FindAllByExternalIds(ctx context.Context, deckId uuid.UUID, externalIds []string) ([]*entity.CardConcept, error) {
	s.findCalls++
	var out []*entity.CardConcept
	for _, id := range externalIds {
		if c, ok := s.concepts[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func scoredCard(externalId, front, back string, score float64) *contract.ScoredRawCard {
	return &contract.ScoredRawCard{
		Card: &entity.RawCard{
			Id:             uuid.New(),
			DeckId:         uuid.New(),
			ExternalCardId: externalId,
			FrontText:      front,
			BackText:       back,
		},
		Score: score,
	}
}
