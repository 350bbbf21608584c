package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the contract for everything published on the event bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "ALIGNMENT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewAlignmentCompleted is emitted when an alignment run for a lecture
// finishes with a terminal completed status.
func NewAlignmentCompleted(lectureId, jobId uuid.UUID, alignments, gaps int) Event {
	return BaseEvent{
		Type: "ALIGNMENT_COMPLETED",
		Data: map[string]interface{}{
			"lecture_id": lectureId.String(),
			"job_id":     jobId.String(),
			"alignments": alignments,
			"gaps":       gaps,
		},
		OccurredAt: time.Now(),
	}
}

// NewAlignmentFailed is emitted when an alignment run aborts fatally.
func NewAlignmentFailed(lectureId, jobId uuid.UUID, reason string) Event {
	return BaseEvent{
		Type: "ALIGNMENT_FAILED",
		Data: map[string]interface{}{
			"lecture_id": lectureId.String(),
			"job_id":     jobId.String(),
			"reason":     reason,
		},
		OccurredAt: time.Now(),
	}
}

// NewDeckIngested is emitted after a deck export finishes importing.
func NewDeckIngested(deckId uuid.UUID, cardCount int) Event {
	return BaseEvent{
		Type: "DECK_INGESTED",
		Data: map[string]interface{}{
			"deck_id":    deckId.String(),
			"card_count": cardCount,
		},
		OccurredAt: time.Now(),
	}
}
