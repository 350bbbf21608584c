package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/dto"
	"deck-align-be/internal/entity"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/memory"
	redisrepo "deck-align-be/internal/repository/redis"
	"deck-align-be/internal/repository/specification"
	"deck-align-be/internal/repository/unitofwork"
	"deck-align-be/pkg/align"
	"deck-align-be/pkg/events"
	"deck-align-be/pkg/llm"

	"github.com/google/uuid"
)

// EventPublisher is the outbound event bus surface. A nil publisher is valid,
// events are then skipped.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAlignmentService interface {
	// StartAlignment validates preconditions, creates the job row and hands
	// the run to the async worker. It returns immediately.
	StartAlignment(ctx context.Context, req *dto.RunAlignmentRequest) (*dto.RunAlignmentResponse, error)

	// RunAlignment executes one full alignment run. Invoked by the consumer,
	// not by request handlers.
	RunAlignment(ctx context.Context, msg *dto.RunAlignmentMessage) error

	GetProgress(ctx context.Context, lectureId uuid.UUID) (*dto.JobProgressResponse, error)
	Cancel(ctx context.Context, lectureId uuid.UUID) (*dto.CancelJobResponse, error)
	GetReport(ctx context.Context, lectureId uuid.UUID) (*dto.AlignmentReportResponse, error)
}

type alignmentService struct {
	uowFactory    unitofwork.RepositoryFactory
	llmProvider   llm.LLMProvider
	publisher     IPublisherService
	eventBus      EventPublisher
	progressCache *memory.ProgressCache
	progressStore *redisrepo.ProgressStore
	log           logger.ILogger

	runTopic    string
	enrichTopic string
	batchSize   int
	batchDelay  time.Duration
}

func NewAlignmentService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	publisher IPublisherService,
	eventBus EventPublisher,
	progressCache *memory.ProgressCache,
	progressStore *redisrepo.ProgressStore,
	log logger.ILogger,
	runTopic string,
	enrichTopic string,
	batchSize int,
	batchDelay time.Duration,
) IAlignmentService {
	if batchSize < 1 {
		batchSize = 1
	}
	return &alignmentService{
		uowFactory:    uowFactory,
		llmProvider:   llmProvider,
		publisher:     publisher,
		eventBus:      eventBus,
		progressCache: progressCache,
		progressStore: progressStore,
		log:           log,
		runTopic:      runTopic,
		enrichTopic:   enrichTopic,
		batchSize:     batchSize,
		batchDelay:    batchDelay,
	}
}

func (s *alignmentService) StartAlignment(ctx context.Context, req *dto.RunAlignmentRequest) (*dto.RunAlignmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	lecture, err := uow.LectureRepository().FindOne(ctx, specification.ByID{ID: req.LectureId})
	if err != nil {
		return nil, err
	}
	if lecture == nil {
		return nil, fmt.Errorf("lecture %s not found", req.LectureId)
	}
	if lecture.ProcessingStatus != constant.LectureStatusReady {
		return nil, fmt.Errorf("lecture %s is not ready (status %s)", req.LectureId, lecture.ProcessingStatus)
	}

	deck, err := uow.DeckRepository().FindOne(ctx, specification.ByID{ID: req.DeckId})
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, fmt.Errorf("deck %s not found", req.DeckId)
	}
	if deck.ProcessingStatus != constant.DeckStatusReady {
		return nil, fmt.Errorf("deck %s is not ready (status %s)", req.DeckId, deck.ProcessingStatus)
	}

	current, err := uow.ProcessingJobRepository().FindCurrent(ctx, req.LectureId, constant.JobTypeAlignment)
	if err != nil {
		return nil, err
	}
	if current != nil && !current.IsTerminal() {
		return nil, fmt.Errorf("an alignment run is already active for lecture %s", req.LectureId)
	}

	job := &entity.ProcessingJob{
		Id:        uuid.New(),
		LectureId: req.LectureId,
		JobType:   constant.JobTypeAlignment,
		Status:    constant.JobStatusPending,
		Progress:  0,
	}
	if err := uow.ProcessingJobRepository().Create(ctx, job); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.RunAlignmentMessage{
		JobId:     job.Id,
		LectureId: req.LectureId,
		DeckId:    req.DeckId,
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, s.runTopic, payload); err != nil {
		return nil, fmt.Errorf("failed to enqueue alignment run: %w", err)
	}

	s.log.Info("alignment", "alignment run queued", map[string]interface{}{
		"job_id":     job.Id.String(),
		"lecture_id": req.LectureId.String(),
		"deck_id":    req.DeckId.String(),
	})
	return &dto.RunAlignmentResponse{JobId: job.Id}, nil
}

func (s *alignmentService) RunAlignment(ctx context.Context, msg *dto.RunAlignmentMessage) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	jobs := uow.ProcessingJobRepository()

	job, err := jobs.FindCurrent(ctx, msg.LectureId, constant.JobTypeAlignment)
	if err != nil {
		return err
	}
	if job == nil || job.Id != msg.JobId {
		s.log.Warn("alignment", "stale run message ignored", map[string]interface{}{
			"job_id": msg.JobId.String(),
		})
		return nil
	}
	if job.IsTerminal() {
		// Cancelled before the worker picked it up.
		return nil
	}

	slides, err := uow.SlideConceptRepository().FindAllByLectureId(ctx, msg.LectureId)
	if err != nil {
		return s.failJob(ctx, uow, job, fmt.Sprintf("failed to load slide concepts: %v", err))
	}

	deckSize, err := uow.RawCardRepository().CountByDeckId(ctx, msg.DeckId)
	if err != nil {
		return s.failJob(ctx, uow, job, fmt.Sprintf("failed to inspect deck: %v", err))
	}

	// Regeneration is destructive-and-rebuild: clear prior output before any
	// new work so stale rows never coexist with fresh ones.
	if err := s.clearPriorResults(ctx, msg.LectureId); err != nil {
		return s.failJob(ctx, uow, job, fmt.Sprintf("failed to clear prior results: %v", err))
	}

	s.setProgress(ctx, uow, job, constant.JobStatusProcessing, 5)

	if len(slides) == 0 {
		s.setProgress(ctx, uow, job, constant.JobStatusCompleted, 100)
		return nil
	}

	results, fatalErr := s.processSlides(ctx, uow, job, slides, msg.DeckId, deckSize)
	if fatalErr != nil {
		message := fatalErr.Error()
		if llm.IsQuotaExhausted(fatalErr) {
			message = constant.QuotaExhaustedMessage
		}
		s.publishEvent(ctx, events.NewAlignmentFailed(msg.LectureId, job.Id, message))
		return s.failJob(ctx, uow, job, message)
	}
	if results == nil {
		// Cancelled at a batch boundary. The canceller already set the
		// terminal status; nothing collected is persisted.
		s.log.Info("alignment", "run cancelled, collected results discarded", map[string]interface{}{
			"job_id": job.Id.String(),
		})
		return nil
	}

	resolved, err := s.resolveConcepts(ctx, uow, msg.DeckId, results)
	if err != nil {
		return s.failJob(ctx, uow, job, fmt.Sprintf("failed to resolve card concepts: %v", err))
	}

	alignments, gaps := buildRunRows(results, resolved)

	if err := s.flushResults(ctx, alignments, gaps); err != nil {
		return s.failJob(ctx, uow, job, fmt.Sprintf("failed to persist alignment results: %v", err))
	}

	s.setProgress(ctx, uow, job, constant.JobStatusCompleted, 100)
	s.publishEvent(ctx, events.NewAlignmentCompleted(msg.LectureId, job.Id, len(alignments), len(gaps)))
	s.queueEnrichment(ctx, resolved)

	s.log.Info("alignment", "alignment run completed", map[string]interface{}{
		"job_id":     job.Id.String(),
		"lecture_id": msg.LectureId.String(),
		"slides":     len(slides),
		"alignments": len(alignments),
		"gaps":       len(gaps),
	})
	return nil
}

// processSlides fans the slide processor out in fixed-size batches. It
// returns (nil, nil) when the run was cancelled between batches and
// (nil, err) on a fatal classification error.
func (s *alignmentService) processSlides(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	job *entity.ProcessingJob,
	slides []*entity.SlideConcept,
	deckId uuid.UUID,
	deckSize int64,
) ([]*align.SlideResult, error) {
	processor := align.NewSlideProcessor(
		align.NewRetriever(uow.RawCardRepository(), s.log),
		align.NewClassifier(s.llmProvider, s.log),
		align.NewGapAnalyzer(s.llmProvider, s.log),
		s.log,
	)

	total := len(slides)
	completed := 0
	results := make([]*align.SlideResult, 0, total)
	var mu sync.Mutex
	var fatalErr error

	for start := 0; start < total; start += s.batchSize {
		if start > 0 {
			// Cancellation is cooperative and polled only here; in-flight
			// slides of the previous batch have already finished.
			current, err := uow.ProcessingJobRepository().FindCurrent(ctx, job.LectureId, constant.JobTypeAlignment)
			if err == nil && (current == nil || current.Id != job.Id || current.IsTerminal()) {
				return nil, nil
			}
			if err := sleepCtx(ctx, s.batchDelay); err != nil {
				return nil, nil
			}
		}

		end := min(start+s.batchSize, total)
		var wg sync.WaitGroup
		for _, slide := range slides[start:end] {
			wg.Add(1)
			go func(sl *entity.SlideConcept) {
				defer wg.Done()
				result, err := processor.Process(ctx, sl, deckId, deckSize)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if fatalErr == nil {
						fatalErr = err
					}
					return
				}
				results = append(results, result)
				completed++
				s.setProgress(ctx, uow, job, constant.JobStatusProcessing, 5+(90*completed)/total)
			}(slide)
		}
		wg.Wait()

		if fatalErr != nil {
			return nil, fatalErr
		}
	}

	return results, nil
}

func (s *alignmentService) clearPriorResults(ctx context.Context, lectureId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.CardAlignmentRepository().DeleteByLectureId(ctx, lectureId); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.CoverageGapRepository().DeleteByLectureId(ctx, lectureId); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (s *alignmentService) resolveConcepts(ctx context.Context, uow unitofwork.UnitOfWork, deckId uuid.UUID, results []*align.SlideResult) (map[string]uuid.UUID, error) {
	externalIds := make([]string, 0)
	for _, result := range results {
		for _, m := range result.Matches {
			externalIds = append(externalIds, m.ExternalCardId)
		}
	}
	resolver := align.NewResolver(uow.CardConceptRepository(), uow.RawCardRepository(), s.log)
	return resolver.Resolve(ctx, deckId, externalIds)
}

// flushResults is the single all-or-nothing write of a run's output. Nothing
// a crashed or failed run collected ever becomes visible.
func (s *alignmentService) flushResults(ctx context.Context, alignments []*entity.CardAlignment, gaps []*entity.CoverageGap) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if len(alignments) > 0 {
		if err := uow.CardAlignmentRepository().CreateBulk(ctx, alignments); err != nil {
			uow.Rollback()
			return err
		}
	}
	if len(gaps) > 0 {
		if err := uow.CoverageGapRepository().CreateBulk(ctx, gaps); err != nil {
			uow.Rollback()
			return err
		}
	}
	return uow.Commit()
}

// buildRunRows turns in-memory slide results into persistable rows. A slide
// whose matches were all dropped during resolution still ends the run with a
// gap so no slide finishes empty-handed and unexplained.
func buildRunRows(results []*align.SlideResult, resolved map[string]uuid.UUID) ([]*entity.CardAlignment, []*entity.CoverageGap) {
	alignments := make([]*entity.CardAlignment, 0)
	gaps := make([]*entity.CoverageGap, 0)

	for _, result := range results {
		built := 0
		for _, m := range result.Matches {
			conceptId, ok := resolved[m.ExternalCardId]
			if !ok {
				continue
			}
			alignments = append(alignments, &entity.CardAlignment{
				Id:              uuid.New(),
				SlideConceptId:  result.SlideConceptId,
				CardConceptId:   conceptId,
				AlignmentType:   m.AlignmentType,
				SimilarityScore: m.Score,
				Reasoning:       m.Reasoning,
			})
			built++
		}

		gapText := result.Gap
		if gapText == nil && len(result.Matches) > 0 && built == 0 {
			text := constant.GapNoRelevantCards
			gapText = &text
		}
		if gapText != nil {
			gaps = append(gaps, &entity.CoverageGap{
				Id:             uuid.New(),
				SlideConceptId: result.SlideConceptId,
				Description:    *gapText,
			})
		}
	}

	return alignments, gaps
}

func (s *alignmentService) GetProgress(ctx context.Context, lectureId uuid.UUID) (*dto.JobProgressResponse, error) {
	if snapshot, ok := s.progressCache.Get(lectureId, constant.JobTypeAlignment); ok {
		return snapshotToResponse(snapshot), nil
	}
	if snapshot, err := s.progressStore.Get(ctx, lectureId, constant.JobTypeAlignment); err == nil && snapshot != nil {
		s.progressCache.Save(constant.JobTypeAlignment, snapshot)
		return snapshotToResponse(snapshot), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	job, err := uow.ProcessingJobRepository().FindCurrent(ctx, lectureId, constant.JobTypeAlignment)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("no alignment job exists for lecture %s", lectureId)
	}

	snapshot := jobToSnapshot(job)
	s.progressCache.Save(constant.JobTypeAlignment, snapshot)
	return snapshotToResponse(snapshot), nil
}

func (s *alignmentService) Cancel(ctx context.Context, lectureId uuid.UUID) (*dto.CancelJobResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	job, err := uow.ProcessingJobRepository().FindCurrent(ctx, lectureId, constant.JobTypeAlignment)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("no alignment job exists for lecture %s", lectureId)
	}
	if job.IsTerminal() {
		return &dto.CancelJobResponse{JobId: job.Id, Status: job.Status}, nil
	}

	message := "cancelled by user"
	if err := uow.ProcessingJobRepository().MarkStatus(ctx, job.Id, constant.JobStatusFailed, job.Progress, &message); err != nil {
		return nil, err
	}
	s.progressCache.Delete(lectureId, constant.JobTypeAlignment)
	if err := s.progressStore.Delete(ctx, lectureId, constant.JobTypeAlignment); err != nil {
		s.log.Warn("alignment", "failed to drop progress snapshot", map[string]interface{}{"error": err.Error()})
	}

	s.log.Info("alignment", "alignment run cancelled", map[string]interface{}{
		"job_id":     job.Id.String(),
		"lecture_id": lectureId.String(),
	})
	return &dto.CancelJobResponse{JobId: job.Id, Status: constant.JobStatusFailed}, nil
}

func (s *alignmentService) GetReport(ctx context.Context, lectureId uuid.UUID) (*dto.AlignmentReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	slides, err := uow.SlideConceptRepository().FindAllByLectureId(ctx, lectureId)
	if err != nil {
		return nil, err
	}
	alignments, err := uow.CardAlignmentRepository().FindAllByLectureId(ctx, lectureId)
	if err != nil {
		return nil, err
	}
	gaps, err := uow.CoverageGapRepository().FindAllByLectureId(ctx, lectureId)
	if err != nil {
		return nil, err
	}

	conceptIds := make([]uuid.UUID, 0, len(alignments))
	seen := make(map[uuid.UUID]bool)
	for _, a := range alignments {
		if !seen[a.CardConceptId] {
			seen[a.CardConceptId] = true
			conceptIds = append(conceptIds, a.CardConceptId)
		}
	}
	externalIds := make(map[uuid.UUID]string, len(conceptIds))
	if len(conceptIds) > 0 {
		concepts, err := uow.CardConceptRepository().FindAllByIds(ctx, conceptIds)
		if err != nil {
			return nil, err
		}
		for _, c := range concepts {
			externalIds[c.Id] = c.ExternalCardId
		}
	}

	alignmentsBySlide := make(map[uuid.UUID][]dto.AlignmentItemResponse)
	for _, a := range alignments {
		alignmentsBySlide[a.SlideConceptId] = append(alignmentsBySlide[a.SlideConceptId], dto.AlignmentItemResponse{
			CardConceptId:   a.CardConceptId,
			ExternalCardId:  externalIds[a.CardConceptId],
			AlignmentType:   a.AlignmentType,
			SimilarityScore: a.SimilarityScore,
			Reasoning:       a.Reasoning,
		})
	}
	gapsBySlide := make(map[uuid.UUID][]string)
	for _, g := range gaps {
		gapsBySlide[g.SlideConceptId] = append(gapsBySlide[g.SlideConceptId], g.Description)
	}

	report := &dto.AlignmentReportResponse{
		LectureId:   lectureId,
		GeneratedAt: time.Now(),
		Slides:      make([]dto.SlideReportResponse, 0, len(slides)),
	}
	for _, slide := range slides {
		report.Slides = append(report.Slides, dto.SlideReportResponse{
			SlideConceptId: slide.Id,
			SlideNumber:    slide.SlideNumber,
			Summary:        slide.Summary,
			Alignments:     alignmentsBySlide[slide.Id],
			Gaps:           gapsBySlide[slide.Id],
		})
	}
	return report, nil
}

func (s *alignmentService) setProgress(ctx context.Context, uow unitofwork.UnitOfWork, job *entity.ProcessingJob, status string, progress int) {
	var err error
	if status == job.Status {
		err = uow.ProcessingJobRepository().UpdateProgress(ctx, job.Id, progress)
	} else {
		err = uow.ProcessingJobRepository().MarkStatus(ctx, job.Id, status, progress, nil)
		job.Status = status
	}
	if err != nil {
		s.log.Warn("alignment", "progress update failed", map[string]interface{}{
			"job_id": job.Id.String(),
			"error":  err.Error(),
		})
	}
	job.Progress = progress
	s.saveSnapshot(ctx, job, nil)
}

func (s *alignmentService) failJob(ctx context.Context, uow unitofwork.UnitOfWork, job *entity.ProcessingJob, message string) error {
	if err := uow.ProcessingJobRepository().MarkStatus(ctx, job.Id, constant.JobStatusFailed, job.Progress, &message); err != nil {
		s.log.Error("alignment", "failed to mark job as failed", map[string]interface{}{
			"job_id": job.Id.String(),
			"error":  err.Error(),
		})
	}
	job.Status = constant.JobStatusFailed
	s.saveSnapshot(ctx, job, &message)
	s.log.Error("alignment", "alignment run failed", map[string]interface{}{
		"job_id": job.Id.String(),
		"reason": message,
	})
	return nil
}

func (s *alignmentService) saveSnapshot(ctx context.Context, job *entity.ProcessingJob, errorMessage *string) {
	snapshot := &memory.ProgressSnapshot{
		JobId:        job.Id,
		LectureId:    job.LectureId,
		Status:       job.Status,
		Progress:     job.Progress,
		ErrorMessage: errorMessage,
		UpdatedAt:    time.Now(),
	}
	s.progressCache.Save(constant.JobTypeAlignment, snapshot)
	if err := s.progressStore.Save(ctx, constant.JobTypeAlignment, snapshot); err != nil {
		s.log.Warn("alignment", "failed to mirror progress snapshot", map[string]interface{}{"error": err.Error()})
	}
}

func (s *alignmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.log.Warn("alignment", "event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *alignmentService) queueEnrichment(ctx context.Context, resolved map[string]uuid.UUID) {
	for _, conceptId := range resolved {
		payload, err := json.Marshal(dto.EnrichCardConceptMessage{CardConceptId: conceptId})
		if err != nil {
			continue
		}
		if err := s.publisher.Publish(ctx, s.enrichTopic, payload); err != nil {
			s.log.Warn("alignment", "failed to queue concept enrichment", map[string]interface{}{
				"card_concept_id": conceptId.String(),
				"error":           err.Error(),
			})
		}
	}
}

func snapshotToResponse(snapshot *memory.ProgressSnapshot) *dto.JobProgressResponse {
	return &dto.JobProgressResponse{
		JobId:        snapshot.JobId,
		Status:       snapshot.Status,
		Progress:     snapshot.Progress,
		ErrorMessage: snapshot.ErrorMessage,
	}
}

func jobToSnapshot(job *entity.ProcessingJob) *memory.ProgressSnapshot {
	return &memory.ProgressSnapshot{
		JobId:        job.Id,
		LectureId:    job.LectureId,
		Status:       job.Status,
		Progress:     job.Progress,
		ErrorMessage: job.ErrorMessage,
		UpdatedAt:    time.Now(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
