package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/dto"
	"deck-align-be/internal/entity"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/contract"
	"deck-align-be/internal/repository/memory"
	"deck-align-be/internal/repository/specification"
	"deck-align-be/internal/repository/unitofwork"
	"deck-align-be/pkg/events"
	"deck-align-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ---- in-memory persistence fakes ----

type fakeStore struct {
	mu sync.Mutex

	lectures map[uuid.UUID]*entity.Lecture
	decks    map[uuid.UUID]*entity.Deck
	slides   []*entity.SlideConcept
	cards    []*entity.RawCard
	concepts []*entity.CardConcept

	alignments []*entity.CardAlignment
	gaps       []*entity.CoverageGap
	jobs       []*entity.ProcessingJob

	// searchResults maps a slide's summary text to the candidates the
	// retriever should find for it.
	searchResults map[string][]*contract.ScoredRawCard

	progressLog []int
	commits     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lectures:      map[uuid.UUID]*entity.Lecture{},
		decks:         map[uuid.UUID]*entity.Deck{},
		searchResults: map[string][]*contract.ScoredRawCard{},
	}
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.commits++
	return nil
}
func (u *fakeUow) Rollback() error { return nil }

func (u *fakeUow) LectureRepository() contract.LectureRepository { return &fakeLectureRepo{u.store} }
func (u *fakeUow) SlideConceptRepository() contract.SlideConceptRepository {
	return &fakeSlideRepo{u.store}
}
func (u *fakeUow) DeckRepository() contract.DeckRepository       { return &fakeDeckRepo{u.store} }
func (u *fakeUow) RawCardRepository() contract.RawCardRepository { return &fakeCardRepo{u.store} }
func (u *fakeUow) CardConceptRepository() contract.CardConceptRepository {
	return &fakeConceptRepo{u.store}
}
func (u *fakeUow) CardAlignmentRepository() contract.CardAlignmentRepository {
	return &fakeAlignmentRepo{u.store}
}
func (u *fakeUow) CoverageGapRepository() contract.CoverageGapRepository {
	return &fakeGapRepo{u.store}
}
func (u *fakeUow) ProcessingJobRepository() contract.ProcessingJobRepository {
	return &fakeJobRepo{u.store}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeLectureRepo struct{ store *fakeStore }

func (r *fakeLectureRepo) Create(ctx context.Context, lecture *entity.Lecture) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.lectures[lecture.Id] = lecture
	return nil
}
func (r *fakeLectureRepo) Update(ctx context.Context, lecture *entity.Lecture) error {
	return r.Create(ctx, lecture)
}
func (r *fakeLectureRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lecture, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.store.lectures[byId.ID], nil
		}
	}
	return nil, nil
}
func (r *fakeLectureRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lecture, error) {
	return nil, nil
}
func (r *fakeLectureRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.lectures)), nil
}

type fakeSlideRepo struct{ store *fakeStore }

func (r *fakeSlideRepo) CreateBulk(ctx context.Context, concepts []*entity.SlideConcept) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.slides = append(r.store.slides, concepts...)
	return nil
}
func (r *fakeSlideRepo) FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.SlideConcept, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.SlideConcept
	for _, s := range r.store.slides {
		if s.LectureId == lectureId {
			out = append(out, s)
		}
	}
	return out, nil
}
func (r *fakeSlideRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.slides)), nil
}

type fakeDeckRepo struct{ store *fakeStore }

func (r *fakeDeckRepo) Create(ctx context.Context, deck *entity.Deck) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.decks[deck.Id] = deck
	return nil
}
func (r *fakeDeckRepo) Update(ctx context.Context, deck *entity.Deck) error {
	return r.Create(ctx, deck)
}
func (r *fakeDeckRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Deck, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.store.decks[byId.ID], nil
		}
	}
	return nil, nil
}
func (r *fakeDeckRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Deck, error) {
	return nil, nil
}

type fakeCardRepo struct{ store *fakeStore }

func (r *fakeCardRepo) CreateBulk(ctx context.Context, cards []*entity.RawCard) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.cards = append(r.store.cards, cards...)
	return nil
}
func (r *fakeCardRepo) CountByDeckId(ctx context.Context, deckId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, c := range r.store.cards {
		if c.DeckId == deckId {
			n++
		}
	}
	return n, nil
}
func (r *fakeCardRepo) FindAllByExternalIds(ctx context.Context, deckId uuid.UUID, externalIds []string) ([]*entity.RawCard, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := map[string]bool{}
	for _, id := range externalIds {
		wanted[id] = true
	}
	var out []*entity.RawCard
	for _, c := range r.store.cards {
		if c.DeckId == deckId && wanted[c.ExternalCardId] {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *fakeCardRepo) SearchCandidates(ctx context.Context, searchText string, deckId uuid.UUID, limit int, lexicalOnly bool) ([]*contract.ScoredRawCard, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.searchResults[searchText], nil
}

type fakeConceptRepo struct{ store *fakeStore }

func (r *fakeConceptRepo) CreateBulk(ctx context.Context, concepts []*entity.CardConcept) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.concepts = append(r.store.concepts, concepts...)
	return nil
}
func (r *fakeConceptRepo) Update(ctx context.Context, concept *entity.CardConcept) error {
	return nil
}
func (r *fakeConceptRepo) FindAllByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.CardConcept, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var out []*entity.CardConcept
	for _, c := range r.store.concepts {
		if wanted[c.Id] {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *fakeConceptRepo) FindAllByExternalIds(ctx context.Context, deckId uuid.UUID, externalIds []string) ([]*entity.CardConcept, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := map[string]bool{}
	for _, id := range externalIds {
		wanted[id] = true
	}
	var out []*entity.CardConcept
	for _, c := range r.store.concepts {
		if c.DeckId == deckId && wanted[c.ExternalCardId] {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeAlignmentRepo struct{ store *fakeStore }

func (r *fakeAlignmentRepo) CreateBulk(ctx context.Context, alignments []*entity.CardAlignment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.alignments = append(r.store.alignments, alignments...)
	return nil
}
func (r *fakeAlignmentRepo) DeleteByLectureId(ctx context.Context, lectureId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slideIds := map[uuid.UUID]bool{}
	for _, s := range r.store.slides {
		if s.LectureId == lectureId {
			slideIds[s.Id] = true
		}
	}
	kept := r.store.alignments[:0]
	for _, a := range r.store.alignments {
		if !slideIds[a.SlideConceptId] {
			kept = append(kept, a)
		}
	}
	r.store.alignments = kept
	return nil
}
func (r *fakeAlignmentRepo) FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.CardAlignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slideIds := map[uuid.UUID]bool{}
	for _, s := range r.store.slides {
		if s.LectureId == lectureId {
			slideIds[s.Id] = true
		}
	}
	var out []*entity.CardAlignment
	for _, a := range r.store.alignments {
		if slideIds[a.SlideConceptId] {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeGapRepo struct{ store *fakeStore }

func (r *fakeGapRepo) CreateBulk(ctx context.Context, gaps []*entity.CoverageGap) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.gaps = append(r.store.gaps, gaps...)
	return nil
}
func (r *fakeGapRepo) DeleteByLectureId(ctx context.Context, lectureId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slideIds := map[uuid.UUID]bool{}
	for _, s := range r.store.slides {
		if s.LectureId == lectureId {
			slideIds[s.Id] = true
		}
	}
	kept := r.store.gaps[:0]
	for _, g := range r.store.gaps {
		if !slideIds[g.SlideConceptId] {
			kept = append(kept, g)
		}
	}
	r.store.gaps = kept
	return nil
}
func (r *fakeGapRepo) FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.CoverageGap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slideIds := map[uuid.UUID]bool{}
	for _, s := range r.store.slides {
		if s.LectureId == lectureId {
			slideIds[s.Id] = true
		}
	}
	var out []*entity.CoverageGap
	for _, g := range r.store.gaps {
		if slideIds[g.SlideConceptId] {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeJobRepo struct{ store *fakeStore }

func (r *fakeJobRepo) Create(ctx context.Context, job *entity.ProcessingJob) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	job.CreatedAt = time.Now()
	r.store.jobs = append(r.store.jobs, job)
	return nil
}
func (r *fakeJobRepo) Update(ctx context.Context, job *entity.ProcessingJob) error { return nil }
func (r *fakeJobRepo) FindCurrent(ctx context.Context, lectureId uuid.UUID, jobType string) (*entity.ProcessingJob, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := len(r.store.jobs) - 1; i >= 0; i-- {
		j := r.store.jobs[i]
		if j.LectureId == lectureId && j.JobType == jobType {
			return j, nil
		}
	}
	return nil, nil
}
func (r *fakeJobRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, j := range r.store.jobs {
		if j.Id == id {
			j.Progress = progress
			r.store.progressLog = append(r.store.progressLog, progress)
		}
	}
	return nil
}
func (r *fakeJobRepo) MarkStatus(ctx context.Context, id uuid.UUID, status string, progress int, errorMessage *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, j := range r.store.jobs {
		if j.Id == id {
			j.Status = status
			j.Progress = progress
			j.ErrorMessage = errorMessage
			r.store.progressLog = append(r.store.progressLog, progress)
		}
	}
	return nil
}

// ---- collaborator fakes ----

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	topic   string
	payload []byte
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{topic: topic, payload: payload})
	return nil
}

func (p *fakePublisher) byTopic(topic string) []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedMessage
	for _, m := range p.messages {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}

type fakeEventBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *fakeEventBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

// scriptedProvider answers prompts by substring rules. The first rule whose
// substrings all appear in the prompt wins.
type scriptedProvider struct {
	mu      sync.Mutex
	rules   []providerRule
	prompts []string
}

type providerRule struct {
	contains []string
	response string
	err      error
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	for _, rule := range p.rules {
		matched := true
		for _, sub := range rule.contains {
			if !strings.Contains(prompt, sub) {
				matched = false
				break
			}
		}
		if matched {
			return rule.response, rule.err
		}
	}
	return `{"matches":[]}`, nil
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.Generate(ctx, history[len(history)-1].Content, options...)
}

func (p *scriptedProvider) sawPrompt(substring string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, prompt := range p.prompts {
		if strings.Contains(prompt, substring) {
			return true
		}
	}
	return false
}

// ---- fixture ----

type alignmentFixture struct {
	store     *fakeStore
	provider  *scriptedProvider
	publisher *fakePublisher
	eventBus  *fakeEventBus
	service   IAlignmentService
	lectureId uuid.UUID
	deckId    uuid.UUID
}

type testLogger struct{}

func (testLogger) Debug(string, string, map[string]interface{}) {}
func (testLogger) Info(string, string, map[string]interface{})  {}
func (testLogger) Warn(string, string, map[string]interface{})  {}
func (testLogger) Error(string, string, map[string]interface{}) {}
func (testLogger) Sync() error                                  { return nil }
func (testLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (testLogger) GetLogById(string) (*logger.LogEntry, error) { return nil, nil }

func newAlignmentFixture(t *testing.T, batchSize int, slideSummaries []string) *alignmentFixture {
	t.Helper()
	store := newFakeStore()
	lectureId := uuid.New()
	deckId := uuid.New()

	store.lectures[lectureId] = &entity.Lecture{
		Id:               lectureId,
		Title:            "Cardiology 101",
		ProcessingStatus: constant.LectureStatusReady,
		SlideCount:       len(slideSummaries),
	}
	store.decks[deckId] = &entity.Deck{
		Id:               deckId,
		Name:             "Step 1 deck",
		ProcessingStatus: constant.DeckStatusReady,
	}
	for i, summary := range slideSummaries {
		store.slides = append(store.slides, &entity.SlideConcept{
			Id:          uuid.New(),
			LectureId:   lectureId,
			SlideNumber: i + 1,
			Summary:     summary,
		})
	}

	provider := &scriptedProvider{}
	publisher := &fakePublisher{}
	eventBus := &fakeEventBus{}

	svc := NewAlignmentService(
		&fakeFactory{store: store},
		provider,
		publisher,
		eventBus,
		memory.NewProgressCache(),
		nil,
		testLogger{},
		"RUN_ALIGNMENT",
		"ENRICH_CARD_CONCEPT",
		batchSize,
		0,
	)

	return &alignmentFixture{
		store:     store,
		provider:  provider,
		publisher: publisher,
		eventBus:  eventBus,
		service:   svc,
		lectureId: lectureId,
		deckId:    deckId,
	}
}

func (f *alignmentFixture) addCard(externalId, front, back string) {
	f.store.cards = append(f.store.cards, &entity.RawCard{
		Id:             uuid.New(),
		DeckId:         f.deckId,
		ExternalCardId: externalId,
		FrontText:      front,
		BackText:       back,
	})
}

func (f *alignmentFixture) addCandidates(slideSummary string, externalIds ...string) {
	var scored []*contract.ScoredRawCard
	for i, id := range externalIds {
		var card *entity.RawCard
		for _, c := range f.store.cards {
			if c.ExternalCardId == id {
				card = c
				break
			}
		}
		scored = append(scored, &contract.ScoredRawCard{Card: card, Score: 1.0 - float64(i)*0.1})
	}
	f.store.searchResults[slideSummary] = scored
}

func (f *alignmentFixture) run(t *testing.T) *dto.RunAlignmentMessage {
	t.Helper()
	resp, err := f.service.StartAlignment(context.Background(), &dto.RunAlignmentRequest{
		LectureId: f.lectureId,
		DeckId:    f.deckId,
	})
	assert.NoError(t, err)

	queued := f.publisher.byTopic("RUN_ALIGNMENT")
	assert.NotEmpty(t, queued)
	var msg dto.RunAlignmentMessage
	assert.NoError(t, json.Unmarshal(queued[len(queued)-1].payload, &msg))
	assert.Equal(t, resp.JobId, msg.JobId)

	assert.NoError(t, f.service.RunAlignment(context.Background(), &msg))
	return &msg
}

func (f *alignmentFixture) currentJob() *entity.ProcessingJob {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.jobs[len(f.store.jobs)-1]
}

// ---- tests ----

func TestEndToEndThreeSlideRun(t *testing.T) {
	f := newAlignmentFixture(t, 3, []string{
		"slide one concept",
		"slide two concept",
		"slide three concept",
	})
	f.addCard("c1", "What is systole?", "Contraction phase")
	f.addCard("c2", "Define preload", "End diastolic volume")
	f.addCandidates("slide one concept", "c1", "c2")
	f.addCandidates("slide three concept", "c2")
	// slide two has no candidates at all

	f.provider.rules = []providerRule{
		{
			contains: []string{"curriculum alignment grader", "slide one concept"},
			response: `{"matches":[
				{"card_id":"c1","alignment_type":"directly_aligned","relevance_score":90,"reasoning":"same"},
				{"card_id":"c2","alignment_type":"too_shallow","relevance_score":40,"reasoning":"shallow"}
			]}`,
		},
		{
			contains: []string{"curriculum coverage reviewer"},
			response: `{"gap":null}`,
		},
		{
			contains: []string{"curriculum alignment grader", "slide three concept"},
			response: `{"matches":[]}`,
		},
	}

	f.run(t)

	job := f.currentJob()
	assert.Equal(t, constant.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)

	assert.Len(t, f.store.alignments, 2)
	assert.Len(t, f.store.gaps, 2)

	gapTexts := map[string]bool{}
	for _, g := range f.store.gaps {
		gapTexts[g.Description] = true
	}
	assert.True(t, gapTexts[constant.GapNoCandidates])
	assert.True(t, gapTexts[constant.GapNoRelevantCards])

	// Scores persist normalized.
	scores := map[float64]bool{}
	for _, a := range f.store.alignments {
		scores[a.SimilarityScore] = true
	}
	assert.True(t, scores[0.9])
	assert.True(t, scores[0.4])

	// Completion event went out.
	assert.Len(t, f.eventBus.events, 1)
	assert.Equal(t, "ALIGNMENT_COMPLETED", f.eventBus.events[0].EventType())

	// Matched cards were queued for enrichment.
	assert.Len(t, f.publisher.byTopic("ENRICH_CARD_CONCEPT"), 2)
}

func TestProgressIsMonotonicAndEndsAtHundred(t *testing.T) {
	f := newAlignmentFixture(t, 2, []string{"s1", "s2", "s3", "s4", "s5"})
	// No candidates anywhere: every slide ends as a quick gap.

	f.run(t)

	log := f.store.progressLog
	assert.NotEmpty(t, log)
	for i := 1; i < len(log); i++ {
		assert.GreaterOrEqual(t, log[i], log[i-1])
	}
	assert.Equal(t, 100, log[len(log)-1])
	assert.Equal(t, constant.JobStatusCompleted, f.currentJob().Status)
}

func TestGapCompletenessEverySlideWithoutAlignmentsHasExactlyOneGap(t *testing.T) {
	f := newAlignmentFixture(t, 3, []string{"s1", "s2", "s3"})
	f.addCard("c1", "front", "back")
	f.addCandidates("s1", "c1")
	f.provider.rules = []providerRule{
		{
			contains: []string{"curriculum alignment grader", "s1"},
			response: `{"matches":[{"card_id":"c1","alignment_type":"deeper_than_lecture","relevance_score":75,"reasoning":"x"}]}`,
		},
	}

	f.run(t)

	aligned := map[uuid.UUID]bool{}
	for _, a := range f.store.alignments {
		aligned[a.SlideConceptId] = true
	}
	gapCount := map[uuid.UUID]int{}
	for _, g := range f.store.gaps {
		gapCount[g.SlideConceptId]++
	}
	for _, slide := range f.store.slides {
		if !aligned[slide.Id] {
			assert.Equal(t, 1, gapCount[slide.Id], "slide %d", slide.SlideNumber)
		}
	}
}

func TestIdempotentRegeneration(t *testing.T) {
	f := newAlignmentFixture(t, 3, []string{"s1", "s2"})
	f.addCard("c1", "front", "back")
	f.addCandidates("s1", "c1")
	f.provider.rules = []providerRule{
		{
			contains: []string{"curriculum alignment grader", "s1"},
			response: `{"matches":[{"card_id":"c1","alignment_type":"directly_aligned","relevance_score":88,"reasoning":"same"}]}`,
		},
		{
			contains: []string{"curriculum coverage reviewer"},
			response: `{"gap":null}`,
		},
	}

	first := f.run(t)
	firstAlignments := len(f.store.alignments)
	firstGaps := len(f.store.gaps)
	firstType := f.store.alignments[0].AlignmentType
	firstScore := f.store.alignments[0].SimilarityScore
	conceptCount := len(f.store.concepts)

	// Second run for the same pair.
	second := f.run(t)
	assert.NotEqual(t, first.JobId, second.JobId)

	assert.Len(t, f.store.alignments, firstAlignments)
	assert.Len(t, f.store.gaps, firstGaps)
	assert.Equal(t, firstType, f.store.alignments[0].AlignmentType)
	assert.Equal(t, firstScore, f.store.alignments[0].SimilarityScore)
	// Concepts are identity records and are reused, not duplicated.
	assert.Len(t, f.store.concepts, conceptCount)
}

func TestPairUniquenessAfterRun(t *testing.T) {
	f := newAlignmentFixture(t, 2, []string{"s1", "s2"})
	f.addCard("c1", "front", "back")
	f.addCandidates("s1", "c1")
	f.addCandidates("s2", "c1")
	f.provider.rules = []providerRule{
		{
			contains: []string{"curriculum alignment grader"},
			response: `{"matches":[
				{"card_id":"c1","alignment_type":"directly_aligned","relevance_score":80,"reasoning":"a"},
				{"card_id":"c1","alignment_type":"too_shallow","relevance_score":50,"reasoning":"dup"}
			]}`,
		},
		{
			contains: []string{"curriculum coverage reviewer"},
			response: `{"gap":null}`,
		},
	}

	f.run(t)

	seen := map[string]bool{}
	for _, a := range f.store.alignments {
		key := a.SlideConceptId.String() + "/" + a.CardConceptId.String()
		assert.False(t, seen[key], "duplicate pair %s", key)
		seen[key] = true
	}
	assert.Len(t, f.store.alignments, 2)
}

func TestConcurrentDedupSharedCardGetsOneConcept(t *testing.T) {
	f := newAlignmentFixture(t, 2, []string{"s1", "s2"})
	f.addCard("c1", "front", "back")
	f.addCandidates("s1", "c1")
	f.addCandidates("s2", "c1")
	f.provider.rules = []providerRule{
		{
			contains: []string{"curriculum alignment grader"},
			response: `{"matches":[{"card_id":"c1","alignment_type":"directly_aligned","relevance_score":90,"reasoning":"x"}]}`,
		},
		{
			contains: []string{"curriculum coverage reviewer"},
			response: `{"gap":null}`,
		},
	}

	f.run(t)

	assert.Len(t, f.store.concepts, 1)
	assert.Len(t, f.store.alignments, 2)
	conceptId := f.store.concepts[0].Id
	for _, a := range f.store.alignments {
		assert.Equal(t, conceptId, a.CardConceptId)
	}
}

func TestFatalQuotaShortCircuit(t *testing.T) {
	f := newAlignmentFixture(t, 1, []string{"slide alpha", "slide beta", "slide gamma", "slide delta"})
	f.addCard("c1", "front", "back")
	f.addCandidates("slide alpha", "c1")
	f.addCandidates("slide beta", "c1")
	f.addCandidates("slide gamma", "c1")
	f.addCandidates("slide delta", "c1")
	f.provider.rules = []providerRule{
		{
			contains: []string{"curriculum alignment grader", "slide alpha"},
			response: `{"matches":[{"card_id":"c1","alignment_type":"directly_aligned","relevance_score":95,"reasoning":"x"}]}`,
		},
		{
			contains: []string{"curriculum coverage reviewer"},
			response: `{"gap":null}`,
		},
		{
			contains: []string{"curriculum alignment grader", "slide beta"},
			err:      &llm.ProviderError{Kind: llm.ErrQuotaExhausted, Status: 429, Message: "quota exceeded"},
		},
	}

	f.run(t)

	job := f.currentJob()
	assert.Equal(t, constant.JobStatusFailed, job.Status)
	assert.NotNil(t, job.ErrorMessage)
	assert.Equal(t, constant.QuotaExhaustedMessage, *job.ErrorMessage)

	// Nothing is persisted, including slide alpha's legitimate match.
	assert.Empty(t, f.store.alignments)
	assert.Empty(t, f.store.gaps)

	// Later slides were never classified.
	assert.False(t, f.provider.sawPrompt("slide gamma"))
	assert.False(t, f.provider.sawPrompt("slide delta"))

	// Failure event went out.
	assert.Len(t, f.eventBus.events, 1)
	assert.Equal(t, "ALIGNMENT_FAILED", f.eventBus.events[0].EventType())
}

func TestCancelledBeforePickupDoesNothing(t *testing.T) {
	f := newAlignmentFixture(t, 3, []string{"s1"})
	f.addCard("c1", "front", "back")
	f.addCandidates("s1", "c1")

	resp, err := f.service.StartAlignment(context.Background(), &dto.RunAlignmentRequest{
		LectureId: f.lectureId,
		DeckId:    f.deckId,
	})
	assert.NoError(t, err)

	cancelResp, err := f.service.Cancel(context.Background(), f.lectureId)
	assert.NoError(t, err)
	assert.Equal(t, constant.JobStatusFailed, cancelResp.Status)

	queued := f.publisher.byTopic("RUN_ALIGNMENT")
	var msg dto.RunAlignmentMessage
	assert.NoError(t, json.Unmarshal(queued[0].payload, &msg))
	assert.NoError(t, f.service.RunAlignment(context.Background(), &msg))

	assert.Empty(t, f.store.alignments)
	assert.Empty(t, f.store.gaps)
	assert.Equal(t, 0, len(f.provider.prompts))
	assert.Equal(t, resp.JobId, f.currentJob().Id)
}

func TestStartAlignmentRejectsUnreadyLecture(t *testing.T) {
	f := newAlignmentFixture(t, 3, []string{"s1"})
	f.store.lectures[f.lectureId].ProcessingStatus = "processing"

	_, err := f.service.StartAlignment(context.Background(), &dto.RunAlignmentRequest{
		LectureId: f.lectureId,
		DeckId:    f.deckId,
	})

	assert.Error(t, err)
	assert.Empty(t, f.store.jobs)
}

func TestStartAlignmentRejectsActiveRun(t *testing.T) {
	f := newAlignmentFixture(t, 3, []string{"s1"})
	req := &dto.RunAlignmentRequest{LectureId: f.lectureId, DeckId: f.deckId}

	_, err := f.service.StartAlignment(context.Background(), req)
	assert.NoError(t, err)

	_, err = f.service.StartAlignment(context.Background(), req)
	assert.Error(t, err)
	assert.Len(t, f.store.jobs, 1)
}

func TestGetProgressFallsBackToDatabase(t *testing.T) {
	f := newAlignmentFixture(t, 3, []string{"s1"})
	f.run(t)

	progress, err := f.service.GetProgress(context.Background(), f.lectureId)

	assert.NoError(t, err)
	assert.Equal(t, constant.JobStatusCompleted, progress.Status)
	assert.Equal(t, 100, progress.Progress)
}

func TestGetReportGroupsBySlide(t *testing.T) {
	f := newAlignmentFixture(t, 3, []string{"s1", "s2"})
	f.addCard("c1", "front", "back")
	f.addCandidates("s1", "c1")
	f.provider.rules = []providerRule{
		{
			contains: []string{"curriculum alignment grader", "s1"},
			response: `{"matches":[{"card_id":"c1","alignment_type":"directly_aligned","relevance_score":85,"reasoning":"solid"}]}`,
		},
		{
			contains: []string{"curriculum coverage reviewer"},
			response: `{"gap":"The reverse direction is untested."}`,
		},
	}

	f.run(t)

	report, err := f.service.GetReport(context.Background(), f.lectureId)

	assert.NoError(t, err)
	assert.Equal(t, f.lectureId, report.LectureId)
	assert.Len(t, report.Slides, 2)

	slideOne := report.Slides[0]
	assert.Equal(t, 1, slideOne.SlideNumber)
	assert.Len(t, slideOne.Alignments, 1)
	assert.Equal(t, "c1", slideOne.Alignments[0].ExternalCardId)
	assert.Equal(t, 0.85, slideOne.Alignments[0].SimilarityScore)
	assert.Equal(t, []string{"The reverse direction is untested."}, slideOne.Gaps)

	slideTwo := report.Slides[1]
	assert.Empty(t, slideTwo.Alignments)
	assert.Equal(t, []string{constant.GapNoCandidates}, slideTwo.Gaps)
}
