package ports

import "github.com/SentryPrime1/sentryprime-dashboard/internal/domain"

// ProgressSink receives live scan-progress records. The poller is the only
// writer; the rendering layer reads snapshots.
type ProgressSink interface {
	Publish(job domain.ScanJob)
	Remove(siteID string)
	Get(siteID string) (domain.ScanJob, bool)
	Snapshot() []domain.ScanJob
}
