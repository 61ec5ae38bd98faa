package scanpoller

import (
	"testing"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

func TestStorePublishAndGet(t *testing.T) {
	s := NewStore()

	s.Publish(domain.ScanJob{SiteID: "a", JobID: "j1", Status: domain.JobStarting, ProgressPercent: 5})

	job, ok := s.Get("a")
	if !ok {
		t.Fatal("expected record for site a")
	}
	if job.JobID != "j1" || job.ProgressPercent != 5 {
		t.Fatalf("unexpected record: %+v", job)
	}

	s.Remove("a")
	if _, ok := s.Get("a"); ok {
		t.Fatal("record should be gone after Remove")
	}
}

func TestStoreProgressNeverDecreasesWhileActive(t *testing.T) {
	s := NewStore()

	s.Publish(domain.ScanJob{SiteID: "a", Status: domain.JobScanning, ProgressPercent: 40})
	s.Publish(domain.ScanJob{SiteID: "a", Status: domain.JobRetrying, ProgressPercent: 12})

	job, _ := s.Get("a")
	if job.ProgressPercent != 40 {
		t.Fatalf("active progress went backwards: %d", job.ProgressPercent)
	}
	if job.Status != domain.JobRetrying {
		t.Fatalf("status should still update: %s", job.Status)
	}

	// Terminal states may publish any percent.
	s.Publish(domain.ScanJob{SiteID: "a", Status: domain.JobCancelled, ProgressPercent: 0})
	job, _ = s.Get("a")
	if job.ProgressPercent != 0 {
		t.Fatalf("terminal publish should not be clamped: %d", job.ProgressPercent)
	}
}

func TestStoreSnapshotIsSortedCopy(t *testing.T) {
	s := NewStore()
	s.Publish(domain.ScanJob{SiteID: "b", Status: domain.JobScanning})
	s.Publish(domain.ScanJob{SiteID: "a", Status: domain.JobScanning})

	snap := s.Snapshot()
	if len(snap) != 2 || snap[0].SiteID != "a" || snap[1].SiteID != "b" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	snap[0].SiteID = "mutated"
	if job, _ := s.Get("a"); job.SiteID != "a" {
		t.Fatal("snapshot must be a copy")
	}
}
