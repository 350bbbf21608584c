package embedding

import "context"

// TaskType hints the backend how the vector will be used. Backends that do
// not distinguish task types ignore it.
type TaskType string

const (
	TaskTypeDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    TaskType = "RETRIEVAL_QUERY"
)

// Provider produces a dense vector for a piece of text.
type Provider interface {
	Generate(ctx context.Context, text string, taskType TaskType) ([]float32, error)
	Dimensions() int
}
