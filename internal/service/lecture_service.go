package service

import (
	"context"
	"fmt"
	"sort"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/dto"
	"deck-align-be/internal/entity"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/specification"
	"deck-align-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ILectureService interface {
	// ImportLecture stores a lecture and its upstream-produced slide concepts.
	ImportLecture(ctx context.Context, req *dto.ImportLectureRequest) (*dto.ImportLectureResponse, error)
	GetLecture(ctx context.Context, id uuid.UUID) (*dto.ShowLectureResponse, error)
}

type lectureService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewLectureService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ILectureService {
	return &lectureService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func (s *lectureService) ImportLecture(ctx context.Context, req *dto.ImportLectureRequest) (*dto.ImportLectureResponse, error) {
	slides := make([]dto.SlideConceptInput, len(req.Slides))
	copy(slides, req.Slides)
	sort.Slice(slides, func(i, j int) bool { return slides[i].SlideNumber < slides[j].SlideNumber })

	for i := 1; i < len(slides); i++ {
		if slides[i].SlideNumber == slides[i-1].SlideNumber {
			return nil, fmt.Errorf("duplicate slide number %d", slides[i].SlideNumber)
		}
	}

	lecture := &entity.Lecture{
		Id:               uuid.New(),
		Title:            req.Title,
		ProcessingStatus: constant.LectureStatusReady,
		SlideCount:       len(slides),
	}

	concepts := make([]*entity.SlideConcept, 0, len(slides))
	for _, slide := range slides {
		concepts = append(concepts, &entity.SlideConcept{
			Id:          uuid.New(),
			LectureId:   lecture.Id,
			SlideNumber: slide.SlideNumber,
			Summary:     slide.Summary,
			Embedding:   slide.Embedding,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.LectureRepository().Create(ctx, lecture); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.SlideConceptRepository().CreateBulk(ctx, concepts); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("lecture", "lecture imported", map[string]interface{}{
		"lecture_id":  lecture.Id.String(),
		"slide_count": len(concepts),
	})
	return &dto.ImportLectureResponse{
		Id:         lecture.Id,
		SlideCount: len(concepts),
	}, nil
}

func (s *lectureService) GetLecture(ctx context.Context, id uuid.UUID) (*dto.ShowLectureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	lecture, err := uow.LectureRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if lecture == nil {
		return nil, fmt.Errorf("lecture %s not found", id)
	}
	return &dto.ShowLectureResponse{
		Id:               lecture.Id,
		Title:            lecture.Title,
		ProcessingStatus: lecture.ProcessingStatus,
		SlideCount:       lecture.SlideCount,
		CreatedAt:        lecture.CreatedAt,
		UpdatedAt:        lecture.UpdatedAt,
	}, nil
}
