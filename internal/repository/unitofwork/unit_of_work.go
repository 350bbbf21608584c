package unitofwork

import (
	"context"

	"deck-align-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	LectureRepository() contract.LectureRepository
	SlideConceptRepository() contract.SlideConceptRepository
	DeckRepository() contract.DeckRepository
	RawCardRepository() contract.RawCardRepository
	CardConceptRepository() contract.CardConceptRepository
	CardAlignmentRepository() contract.CardAlignmentRepository
	CoverageGapRepository() contract.CoverageGapRepository
	ProcessingJobRepository() contract.ProcessingJobRepository
}
