package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ProgressSnapshot is the last known state of a processing job, kept in
// process memory so the polling endpoint does not hit the database on every
// tick. The database row stays authoritative.
type ProgressSnapshot struct {
	JobId        uuid.UUID
	LectureId    uuid.UUID
	Status       string
	Progress     int
	ErrorMessage *string
	UpdatedAt    time.Time
}

type ProgressCache struct {
	cache *cache.Cache
}

func NewProgressCache() *ProgressCache {
	// Snapshots go stale fast; a short TTL forces a DB read-through when the
	// run has stopped updating (crash, other replica).
	c := cache.New(10*time.Second, 1*time.Minute)
	return &ProgressCache{
		cache: c,
	}
}

func (r *ProgressCache) key(lectureId uuid.UUID, jobType string) string {
	return lectureId.String() + ":" + jobType
}

func (r *ProgressCache) Save(jobType string, snapshot *ProgressSnapshot) {
	r.cache.Set(r.key(snapshot.LectureId, jobType), snapshot, cache.DefaultExpiration)
}

func (r *ProgressCache) Get(lectureId uuid.UUID, jobType string) (*ProgressSnapshot, bool) {
	if x, found := r.cache.Get(r.key(lectureId, jobType)); found {
		return x.(*ProgressSnapshot), true
	}
	return nil, false
}

func (r *ProgressCache) Delete(lectureId uuid.UUID, jobType string) {
	r.cache.Delete(r.key(lectureId, jobType))
}
