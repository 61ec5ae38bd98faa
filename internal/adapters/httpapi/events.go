package httpapi

import (
	"sync"
	"time"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/workers/scanpoller"
)

// completedKeep bounds the recent-completions ring handed to browsers.
const completedKeep = 8

// ResultReady tells the browser a scan finished and its results can open.
type ResultReady struct {
	SiteID     string    `json:"site_id"`
	JobID      string    `json:"job_id"`
	FinishedAt time.Time `json:"finished_at"`
}

// Events carries poller-driven notifications to the browser, which learns
// about them on its next progress poll. Browsers dedupe by job ID; the
// catalog generation counter tells them when to re-fetch the site list.
type Events struct {
	mu         sync.Mutex
	catalogGen int64
	completed  []ResultReady
}

func NewEvents() *Events { return &Events{} }

// ScanCompleted is wired as the poller's OnCompleted callback.
func (e *Events) ScanCompleted(site scanpoller.Site, jobID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completed = append(e.completed, ResultReady{SiteID: site.ID, JobID: jobID, FinishedAt: time.Now()})
	if len(e.completed) > completedKeep {
		e.completed = e.completed[len(e.completed)-completedKeep:]
	}
}

// CatalogChanged is wired as the poller's RefreshCatalog callback.
func (e *Events) CatalogChanged() {
	e.mu.Lock()
	e.catalogGen++
	e.mu.Unlock()
}

func (e *Events) snapshot() (int64, []ResultReady) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ResultReady, len(e.completed))
	copy(out, e.completed)
	return e.catalogGen, out
}
