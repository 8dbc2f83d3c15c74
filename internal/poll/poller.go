// Package poll drives periodic job-status queries until a terminal state.
package poll

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"docsmith/internal/domain"
)

// DefaultInterval is the pause between status queries.
const DefaultInterval = 3 * time.Second

// genericFailure is reported when the service marks a job failed without a
// message.
const genericFailure = "document generation failed"

// StatusFetcher is the narrow slice of the API client the poller needs.
type StatusFetcher interface {
	JobStatus(ctx context.Context, jobID string) (domain.Job, error)
}

// Hooks receive poll outcomes. Terminal hooks fire exactly once; after either
// of them no further queries are issued.
type Hooks struct {
	OnProgress  func(job domain.Job)
	OnCompleted func(jobID string)
	OnFailed    func(message string)
}

// Poller creates polling sessions over a status fetcher.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
	logger   zerolog.Logger
}

// New constructs a poller. A non-positive interval falls back to
// DefaultInterval.
func New(fetcher StatusFetcher, interval time.Duration, logger *zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Poller{fetcher: fetcher, interval: interval, logger: l}
}

// Session is one polling run owning its own cancellation. It must be stopped
// on teardown; stopping after a terminal state is a harmless no-op.
type Session struct {
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
}

// Stop cancels the session and waits for the loop to exit. Idempotent.
func (s *Session) Stop() {
	s.stop.Do(s.cancel)
	<-s.done
}

// Done is closed once the loop has exited, whether by terminal state or stop.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Start begins polling immediately and then at the configured interval.
func (p *Poller) Start(ctx context.Context, jobID string, hooks Hooks) *Session {
	ctx, cancel := context.WithCancel(ctx)
	session := &Session{cancel: cancel, done: make(chan struct{})}
	go p.run(ctx, jobID, hooks, session.done)
	return session
}

func (p *Poller) run(ctx context.Context, jobID string, hooks Hooks, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if p.query(ctx, jobID, hooks) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// query performs one status fetch and returns true when polling must stop.
// Transport failures only log: a flaky tick never aborts the job.
func (p *Poller) query(ctx context.Context, jobID string, hooks Hooks) bool {
	job, err := p.fetcher.JobStatus(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		p.logger.Warn().Err(err).Str("job_id", jobID).Msg("poll: status query failed, retrying")
		return false
	}

	if hooks.OnProgress != nil {
		hooks.OnProgress(job)
	}
	switch job.Status {
	case domain.JobStatusCompleted:
		if hooks.OnCompleted != nil {
			hooks.OnCompleted(jobID)
		}
		return true
	case domain.JobStatusFailed:
		message := job.ErrorMessage
		if message == "" {
			message = genericFailure
		}
		if hooks.OnFailed != nil {
			hooks.OnFailed(message)
		}
		return true
	default:
		return false
	}
}
