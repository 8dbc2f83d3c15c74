// Package stub is a local stand-in for the remote document-generation
// service. It exposes the same four endpoints the client consumes and
// advances jobs deterministically so the CLI and tests can run end to end
// without the real backend.
package stub

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"docsmith/internal/domain"
)

// StoredJob is the stub's record of one submission.
type StoredJob struct {
	ID           string
	Status       domain.JobStatus
	Progress     int
	Step         domain.JobStep
	Error        string
	DocumentType domain.DocumentType
	Description  string
	Length       int
	UseWatermark bool
	Statistics   []domain.Statistic
	Design       domain.DesignSpec
	HasLogo      bool
	CreatedAt    time.Time
}

// JobStore persists stub jobs.
type JobStore interface {
	Create(ctx context.Context, job StoredJob) error
	Get(ctx context.Context, id string) (StoredJob, error)
	Update(ctx context.Context, job StoredJob) error
}

// MemoryStore keeps jobs in an expiring in-memory cache: finished jobs
// evaporate after an hour, so a long-lived stub does not accumulate state.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(time.Hour, 10*time.Minute)}
}

func (s *MemoryStore) Create(ctx context.Context, job StoredJob) error {
	s.cache.Set(job.ID, job, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (StoredJob, error) {
	if x, found := s.cache.Get(id); found {
		return x.(StoredJob), nil
	}
	return StoredJob{}, domain.ErrJobNotFound
}

// Update holds the store lock across the exists check and the write so two
// concurrent advances cannot interleave between them.
func (s *MemoryStore) Update(ctx context.Context, job StoredJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.cache.Get(job.ID); !found {
		return domain.ErrJobNotFound
	}
	s.cache.Set(job.ID, job, cache.DefaultExpiration)
	return nil
}
