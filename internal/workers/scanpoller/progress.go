package scanpoller

import (
	"sort"
	"sync"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

// Store is the in-memory ProgressSink the dashboard API reads. The poller's
// callbacks are the only writers; readers get copies.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]domain.ScanJob
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]domain.ScanJob)}
}

func (s *Store) Publish(job domain.ScanJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.jobs[job.SiteID]; ok {
		if job.StartedAt.IsZero() {
			job.StartedAt = cur.StartedAt
		}
		// Progress never moves backwards while a job is live.
		if job.Status.Active() && job.ProgressPercent < cur.ProgressPercent {
			job.ProgressPercent = cur.ProgressPercent
		}
	}
	s.jobs[job.SiteID] = job
}

func (s *Store) Remove(siteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, siteID)
}

func (s *Store) Get(siteID string) (domain.ScanJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[siteID]
	return job, ok
}

func (s *Store) Snapshot() []domain.ScanJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScanJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SiteID < out[j].SiteID })
	return out
}
