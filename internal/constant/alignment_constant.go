package constant

const (
	// Alignment categories returned by the relevance classifier.
	AlignmentDirectlyAligned   = "directly_aligned"
	AlignmentDeeperThanLecture = "deeper_than_lecture"
	AlignmentTooShallow        = "too_shallow"
	AlignmentNotAligned        = "not_aligned"

	// Processing job lifecycle.
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"

	JobTypeAlignment = "alignment"

	// Deck ingestion lifecycle.
	DeckStatusProcessing = "processing"
	DeckStatusReady      = "ready"
	DeckStatusFailed     = "failed"

	LectureStatusReady = "ready"
)

// Coverage gap descriptions. Each recoverable slide failure is represented
// as one of these rather than as an error, so a bad slide never blocks the rest.
const (
	GapSearchFailed    = "Card search failed for this slide, the deck could not be queried."
	GapDeckEmpty       = "The selected deck contains no cards, so this slide has no coverage."
	GapNoCandidates    = "No cards in the deck resemble this slide's concept."
	GapRateLimited     = "Card matching was rate limited and did not complete for this slide."
	GapMatchingFailed  = "AI matching failed for this slide."
	GapNoRelevantCards = "AI found no relevant cards for this slide."
)

// User-facing message when the reasoning service reports quota exhaustion.
// This aborts the whole run, not just one slide.
const QuotaExhaustedMessage = "AI quota exhausted: the reasoning service rejected further calls. Check your plan and billing limits, then regenerate the alignment."
