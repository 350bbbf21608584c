package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByLectureID filters rows owned by one lecture
type ByLectureID struct {
	LectureID uuid.UUID
}

func (s ByLectureID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lecture_id = ?", s.LectureID)
}

// ByDeckID filters rows owned by one deck
type ByDeckID struct {
	DeckID uuid.UUID
}

func (s ByDeckID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("deck_id = ?", s.DeckID)
}

// ByJobType filters processing jobs by their type
type ByJobType struct {
	JobType string
}

func (s ByJobType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("job_type = ?", s.JobType)
}

// ByStatus filters by a status column
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// BySlideConceptIDs filters alignment/gap rows by their slide concepts
type BySlideConceptIDs struct {
	SlideConceptIDs []uuid.UUID
}

func (s BySlideConceptIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slide_concept_id IN ?", s.SlideConceptIDs)
}
