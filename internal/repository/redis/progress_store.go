package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deck-align-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const snapshotTTL = 30 * time.Second

// ProgressStore mirrors job progress snapshots into Redis so every replica
// can answer progress polls, not just the one running the job. A nil store is
// valid and does nothing, deployments without Redis fall back to the
// database.
type ProgressStore struct {
	client *redis.Client
}

func NewProgressStore(client *redis.Client) *ProgressStore {
	if client == nil {
		return nil
	}
	return &ProgressStore{client: client}
}

func key(lectureId uuid.UUID, jobType string) string {
	return fmt.Sprintf("job:progress:%s:%s", lectureId.String(), jobType)
}

func (s *ProgressStore) Save(ctx context.Context, jobType string, snapshot *memory.ProgressSnapshot) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(snapshot.LectureId, jobType), data, snapshotTTL).Err()
}

func (s *ProgressStore) Get(ctx context.Context, lectureId uuid.UUID, jobType string) (*memory.ProgressSnapshot, error) {
	if s == nil {
		return nil, nil
	}
	data, err := s.client.Get(ctx, key(lectureId, jobType)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot memory.ProgressSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *ProgressStore) Delete(ctx context.Context, lectureId uuid.UUID, jobType string) error {
	if s == nil {
		return nil
	}
	return s.client.Del(ctx, key(lectureId, jobType)).Err()
}
