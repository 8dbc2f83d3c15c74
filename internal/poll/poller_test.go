package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"docsmith/internal/domain"
)

// scriptedFetcher replays a fixed sequence of responses; once exhausted it
// keeps returning the last one and counts every query.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []response
	queries   int
}

type response struct {
	job domain.Job
	err error
}

func (f *scriptedFetcher) JobStatus(ctx context.Context, jobID string) (domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.queries
	f.queries++
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	r := f.responses[idx]
	return r.job, r.err
}

func (f *scriptedFetcher) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func running(progress int) response {
	return response{job: domain.Job{ID: "j", Status: domain.JobStatusRunning, Progress: progress, CurrentStep: domain.StepComposing}}
}

func TestPollerCompletesAfterExactlyThreeQueries(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []response{
		running(10),
		running(55),
		{job: domain.Job{ID: "j", Status: domain.JobStatusCompleted, Progress: 100, CurrentStep: domain.StepDone}},
	}}

	var progress []int
	completions := 0
	session := New(fetcher, time.Millisecond, nil).Start(context.Background(), "j", Hooks{
		OnProgress:  func(job domain.Job) { progress = append(progress, job.Progress) },
		OnCompleted: func(jobID string) { completions++ },
		OnFailed:    func(string) { t.Errorf("unexpected failure callback") },
	})

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not reach terminal state")
	}

	if got := fetcher.queryCount(); got != 3 {
		t.Fatalf("expected exactly 3 queries, got %d", got)
	}
	if completions != 1 {
		t.Fatalf("completion callback fired %d times", completions)
	}
	if len(progress) != 3 || progress[0] != 10 || progress[1] != 55 || progress[2] != 100 {
		t.Fatalf("progress callbacks: %v", progress)
	}

	// No queries after the terminal tick.
	time.Sleep(20 * time.Millisecond)
	if got := fetcher.queryCount(); got != 3 {
		t.Fatalf("queries continued after completion: %d", got)
	}
}

func TestPollerSurvivesTransportErrors(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []response{
		{err: errors.New("connection reset")},
		running(40),
		{err: errors.New("timeout")},
		{job: domain.Job{ID: "j", Status: domain.JobStatusCompleted, Progress: 100}},
	}}

	completions := 0
	session := New(fetcher, time.Millisecond, nil).Start(context.Background(), "j", Hooks{
		OnCompleted: func(string) { completions++ },
		OnFailed:    func(msg string) { t.Errorf("transport errors must not fail the job: %s", msg) },
	})

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not recover from transport errors")
	}
	if completions != 1 {
		t.Fatalf("completion callback fired %d times", completions)
	}
	if got := fetcher.queryCount(); got != 4 {
		t.Fatalf("expected 4 queries, got %d", got)
	}
}

func TestPollerFailureMessage(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []response{
		{job: domain.Job{ID: "j", Status: domain.JobStatusFailed, ErrorMessage: "out of pixels"}},
	}}
	var failure string
	session := New(fetcher, time.Millisecond, nil).Start(context.Background(), "j", Hooks{
		OnFailed: func(msg string) { failure = msg },
	})
	<-session.Done()
	if failure != "out of pixels" {
		t.Fatalf("failure message: %q", failure)
	}
}

func TestPollerGenericFailureMessage(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []response{
		{job: domain.Job{ID: "j", Status: domain.JobStatusFailed}},
	}}
	var failure string
	session := New(fetcher, time.Millisecond, nil).Start(context.Background(), "j", Hooks{
		OnFailed: func(msg string) { failure = msg },
	})
	<-session.Done()
	if failure == "" {
		t.Fatalf("expected a generic failure message")
	}
}

func TestSessionStopIsIdempotent(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []response{running(5)}}
	session := New(fetcher, time.Millisecond, nil).Start(context.Background(), "j", Hooks{})

	time.Sleep(10 * time.Millisecond)
	session.Stop()
	session.Stop()

	stopped := fetcher.queryCount()
	time.Sleep(20 * time.Millisecond)
	if got := fetcher.queryCount(); got != stopped {
		t.Fatalf("queries continued after Stop: %d -> %d", stopped, got)
	}
}
