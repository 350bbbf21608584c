package unitofwork

import (
	"context"
	"fmt"

	"deck-align-be/internal/repository/contract"
	"deck-align-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) LectureRepository() contract.LectureRepository {
	return implementation.NewLectureRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SlideConceptRepository() contract.SlideConceptRepository {
	return implementation.NewSlideConceptRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DeckRepository() contract.DeckRepository {
	return implementation.NewDeckRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RawCardRepository() contract.RawCardRepository {
	return implementation.NewRawCardRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CardConceptRepository() contract.CardConceptRepository {
	return implementation.NewCardConceptRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CardAlignmentRepository() contract.CardAlignmentRepository {
	return implementation.NewCardAlignmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CoverageGapRepository() contract.CoverageGapRepository {
	return implementation.NewCoverageGapRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ProcessingJobRepository() contract.ProcessingJobRepository {
	return implementation.NewProcessingJobRepository(u.getDB())
}
