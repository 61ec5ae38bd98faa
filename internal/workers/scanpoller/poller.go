package scanpoller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/ports"
)

// Lifecycle timing. Polling is fixed-interval, not adaptive; the attempt
// budget bounds wall-clock time, not error history.
const (
	DefaultPollEvery   = 2 * time.Second
	DefaultRetryAfter  = 3 * time.Second
	DefaultMaxScanTime = 10 * time.Minute

	defaultOpenDelay           = 2 * time.Second
	defaultCompleteRemoveAfter = 1500 * time.Millisecond
	defaultFailRemoveAfter     = 5 * time.Second

	startProgress   = 5
	progressCeiling = 95
)

var ErrClosed = errors.New("scanpoller: closed")

// Site identifies one monitored website.
type Site struct {
	ID  string
	URL string
}

type Config struct {
	Scans ports.ScanService
	Sink  ports.ProgressSink

	// OnCompleted fires once per completed scan, after the completion state
	// has been visible for OpenDelay. The dashboard uses it to open results.
	OnCompleted func(site Site, jobID string)
	// RefreshCatalog fires after a finished job's record is removed. It must
	// not touch other sites' progress records.
	RefreshCatalog func()

	// Zero values take the defaults above. Tests shrink these.
	PollEvery           time.Duration
	RetryAfter          time.Duration
	MaxScanTime         time.Duration
	OpenDelay           time.Duration
	CompleteRemoveAfter time.Duration
	FailRemoveAfter     time.Duration
}

// Poller drives remote scan jobs from submission to a terminal state. One
// uncoordinated poll loop runs per site; loop state is keyed by site ID so
// unrelated work never clears another site's record. Construct with New and
// tear down with Close.
type Poller struct {
	cfg         Config
	maxAttempts int

	mu     sync.Mutex
	jobs   map[string]context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

func New(cfg Config) *Poller {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = DefaultPollEvery
	}
	if cfg.RetryAfter <= 0 {
		cfg.RetryAfter = DefaultRetryAfter
	}
	if cfg.MaxScanTime <= 0 {
		cfg.MaxScanTime = DefaultMaxScanTime
	}
	if cfg.OpenDelay <= 0 {
		cfg.OpenDelay = defaultOpenDelay
	}
	if cfg.CompleteRemoveAfter <= 0 {
		cfg.CompleteRemoveAfter = defaultCompleteRemoveAfter
	}
	if cfg.FailRemoveAfter <= 0 {
		cfg.FailRemoveAfter = defaultFailRemoveAfter
	}
	if cfg.Sink == nil {
		cfg.Sink = NewStore()
	}
	return &Poller{
		cfg:         cfg,
		maxAttempts: int(math.Ceil(float64(cfg.MaxScanTime) / float64(cfg.PollEvery))),
		jobs:        make(map[string]context.CancelFunc),
	}
}

// MaxAttempts is the wall-clock attempt budget (300 at default intervals).
func (p *Poller) MaxAttempts() int { return p.maxAttempts }

// Active reports whether the site currently has a live, non-terminal job.
// Callers use this as the submission-boundary guard; the poller itself does
// not prevent overlapping starts for one site.
func (p *Poller) Active(siteID string) bool {
	job, ok := p.cfg.Sink.Get(siteID)
	return ok && job.Status.Active()
}

// Start submits a scan for the site and begins its poll loop. A submission
// failure publishes nothing and is returned to the caller; submission is
// never retried.
func (p *Poller) Start(ctx context.Context, token string, site Site) (string, error) {
	jobID, err := p.cfg.Scans.Submit(ctx, token, site.ID, site.URL)
	if err != nil {
		return "", fmt.Errorf("submit scan: %w", err)
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		cancel()
		return "", ErrClosed
	}
	p.jobs[site.ID] = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	p.cfg.Sink.Publish(domain.ScanJob{
		JobID:           jobID,
		SiteID:          site.ID,
		Status:          domain.JobStarting,
		ProgressPercent: startProgress,
		Message:         "Starting scan...",
		StartedAt:       time.Now(),
	})
	log.Info().Str("site_id", site.ID).Str("job_id", jobID).Msg("scan submitted")

	go p.run(jobCtx, token, site, jobID)
	return jobID, nil
}

// Cancel cooperatively stops the site's poll loop. Best-effort only: an
// in-flight status request cannot be aborted and no remote cancel is sent.
func (p *Poller) Cancel(siteID string) bool {
	p.mu.Lock()
	cancel, ok := p.jobs[siteID]
	p.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Close cancels every live job and waits for their loops to exit. No
// callback mutates the sink after Close returns.
func (p *Poller) Close() {
	p.mu.Lock()
	p.closed = true
	for _, cancel := range p.jobs {
		cancel()
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Poller) release(siteID string) {
	p.mu.Lock()
	delete(p.jobs, siteID)
	p.mu.Unlock()
}

// run is the per-job poll loop: starting -> scanning <-> retrying ->
// {completed, timeout, error, cancelled}.
func (p *Poller) run(ctx context.Context, token string, site Site, jobID string) {
	defer p.wg.Done()
	defer p.release(site.ID)

	attempts := 0
	delay := p.cfg.PollEvery
	for {
		select {
		case <-ctx.Done():
			p.cancelled(site, jobID, attempts)
			return
		case <-time.After(delay):
		}
		delay = p.cfg.PollEvery

		attempts++
		progress := progressAt(attempts, p.maxAttempts)
		elapsed := time.Duration(attempts) * p.cfg.PollEvery
		p.publish(site, jobID, domain.JobScanning, attempts, progress,
			fmt.Sprintf("Scanning... %s elapsed", formatElapsed(elapsed)))

		status, err := p.cfg.Scans.Status(ctx, token, jobID)
		if err != nil {
			if ctx.Err() != nil {
				p.cancelled(site, jobID, attempts)
				return
			}
			// Budget exhaustion takes precedence over retry classification.
			if attempts >= p.maxAttempts {
				p.fail(ctx, site, jobID, attempts, progress, domain.JobTimeout,
					"Scan timed out; it may still be running on the server")
				return
			}
			if Transient(err) {
				p.publish(site, jobID, domain.JobRetrying, attempts, progress,
					fmt.Sprintf("Temporary error, retrying... (%v)", err))
				delay = p.cfg.RetryAfter
				continue
			}
			p.fail(ctx, site, jobID, attempts, progress, domain.JobError, err.Error())
			return
		}

		switch status.State {
		case domain.ScanDone:
			p.complete(ctx, site, jobID, attempts)
			return
		case domain.ScanErrored:
			p.fail(ctx, site, jobID, attempts, progress, domain.JobError, "Scan failed on the server")
			return
		default:
			// still running
			if attempts >= p.maxAttempts {
				p.fail(ctx, site, jobID, attempts, progress, domain.JobTimeout,
					"Scan timed out; it may still be running on the server")
				return
			}
		}
	}
}

func (p *Poller) publish(site Site, jobID string, status domain.JobStatus, attempts, progress int, msg string) {
	p.cfg.Sink.Publish(domain.ScanJob{
		JobID:           jobID,
		SiteID:          site.ID,
		Status:          status,
		Attempts:        attempts,
		ProgressPercent: progress,
		Message:         msg,
	})
}

// complete publishes the terminal completed state at 100%, gives the user
// OpenDelay to perceive it before the results callback, then removes the
// record after a further grace period and asks for a catalog refresh.
func (p *Poller) complete(ctx context.Context, site Site, jobID string, attempts int) {
	p.publish(site, jobID, domain.JobCompleted, attempts, 100, "Scan complete")
	log.Info().Str("site_id", site.ID).Str("job_id", jobID).Int("attempts", attempts).Msg("scan completed")

	if !p.sleep(ctx, p.cfg.OpenDelay) {
		p.cfg.Sink.Remove(site.ID)
		return
	}
	if p.cfg.OnCompleted != nil {
		p.cfg.OnCompleted(site, jobID)
	}
	p.sleep(ctx, p.cfg.CompleteRemoveAfter)
	p.cfg.Sink.Remove(site.ID)
	if p.cfg.RefreshCatalog != nil {
		p.cfg.RefreshCatalog()
	}
}

// fail publishes a terminal failure (error or timeout) and removes the
// record after the failure grace period. No further polls are scheduled.
func (p *Poller) fail(ctx context.Context, site Site, jobID string, attempts, progress int, status domain.JobStatus, msg string) {
	p.publish(site, jobID, status, attempts, progress, msg)
	log.Warn().Str("site_id", site.ID).Str("job_id", jobID).
		Str("status", string(status)).Int("attempts", attempts).Msg(msg)

	p.sleep(ctx, p.cfg.FailRemoveAfter)
	p.cfg.Sink.Remove(site.ID)
}

func (p *Poller) cancelled(site Site, jobID string, attempts int) {
	p.publish(site, jobID, domain.JobCancelled, attempts, 0, "Scan cancelled")
	p.cfg.Sink.Remove(site.ID)
	log.Info().Str("site_id", site.ID).Str("job_id", jobID).Msg("scan cancelled")
}

// sleep waits for d or until the job is cancelled; it reports whether the
// full delay elapsed.
func (p *Poller) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// progressAt estimates completion from the elapsed/budget ratio, capped at
// 95 until the backend confirms completion.
func progressAt(attempts, maxAttempts int) int {
	p := int(float64(attempts) / float64(maxAttempts) * progressCeiling)
	if p > progressCeiling {
		p = progressCeiling
	}
	return p
}

func formatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
