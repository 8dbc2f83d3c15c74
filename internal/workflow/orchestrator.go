// Package workflow owns the submission state machine: it pulls the draft from
// the input collectors, validates it, reserves credits, submits the job,
// drives polling and hands completed artifacts to the saver.
package workflow

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"docsmith/internal/api"
	"docsmith/internal/artifact"
	"docsmith/internal/domain"
	"docsmith/internal/form"
	"docsmith/internal/poll"
	"docsmith/internal/session"
	"docsmith/internal/validate"
)

// State names the orchestrator's position in the workflow.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateReservingCredits State = "reserving_credits"
	StateSubmitting       State = "submitting"
	StatePolling          State = "polling"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
)

// ErrValidationFailed is returned by Submit when the draft was rejected
// locally; the individual messages are surfaced through the OnErrors hook and
// the Errors accessor.
var ErrValidationFailed = errors.New("validation failed")

// Backend is the remote-service surface the orchestrator depends on.
// *api.Client satisfies it.
type Backend interface {
	ReserveCredits(ctx context.Context, docType domain.DocumentType) (api.Reservation, error)
	Submit(ctx context.Context, draft domain.GenerationRequest) (string, error)
	JobStatus(ctx context.Context, jobID string) (domain.Job, error)
	Download(ctx context.Context, jobID string) (api.Artifact, error)
}

// Hooks surface workflow events to the front end. All are optional.
type Hooks struct {
	OnErrors    func(messages []string)
	OnProgress  func(job domain.Job)
	OnCompleted func(jobID string)
	OnFailed    func(message string)
}

// Options wires an orchestrator together.
type Options struct {
	Backend      Backend
	Session      *session.Session
	Statistics   *form.StatisticList
	Theme        *form.ThemePicker
	Saver        *artifact.Saver
	Limits       validate.Limits
	PollInterval time.Duration
	Logger       *zerolog.Logger
	Hooks        Hooks
}

// FormInput carries the scalar fields the orchestrator does not pull from a
// dedicated collector.
type FormInput struct {
	Description  string
	Length       int
	DocumentType domain.DocumentType
	UseWatermark bool
	Logo         *domain.Attachment
}

// Orchestrator sequences one submission attempt at a time. It holds the only
// reference to the active job and the single polling session.
type Orchestrator struct {
	backend Backend
	session *session.Session
	stats   *form.StatisticList
	theme   *form.ThemePicker
	saver   *artifact.Saver
	limits  validate.Limits
	poller  *poll.Poller
	logger  zerolog.Logger
	hooks   Hooks

	mu           sync.Mutex
	state        State
	errs         []string
	activeJobID  string
	completedJob string
	pollSession  *poll.Session
}

// New constructs an orchestrator. Backend, Session, Statistics and Theme are
// required; zero Limits fall back to the defaults.
func New(opts Options) (*Orchestrator, error) {
	if opts.Backend == nil {
		return nil, errors.New("workflow: backend is required")
	}
	if opts.Session == nil {
		return nil, errors.New("workflow: session is required")
	}
	if opts.Statistics == nil || opts.Theme == nil {
		return nil, errors.New("workflow: input collectors are required")
	}
	limits := opts.Limits
	if limits.DescriptionMax == 0 {
		limits = validate.DefaultLimits()
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	o := &Orchestrator{
		backend: opts.Backend,
		session: opts.Session,
		stats:   opts.Statistics,
		theme:   opts.Theme,
		saver:   opts.Saver,
		limits:  limits,
		logger:  logger,
		hooks:   opts.Hooks,
		state:   StateIdle,
	}
	o.poller = poll.New(opts.Backend, opts.PollInterval, &logger)
	return o, nil
}

// Submit runs one attempt through the workflow. It returns
// domain.ErrSubmissionInFlight while a previous attempt has not reached a
// terminal state. A nil return means polling has started; the terminal
// outcome arrives through the hooks.
func (o *Orchestrator) Submit(ctx context.Context, input FormInput) error {
	o.mu.Lock()
	switch o.state {
	case StateIdle, StateCompleted, StateFailed:
	default:
		o.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	o.state = StateValidating
	o.errs = nil
	o.mu.Unlock()

	draft := domain.GenerationRequest{
		Description:  input.Description,
		Length:       input.Length,
		DocumentType: input.DocumentType,
		UseWatermark: input.UseWatermark,
		Statistics:   o.stats.Materialize(),
		Design:       o.theme.Materialize(),
		Logo:         input.Logo,
	}
	draft.Normalize()

	if errs := validate.Check(draft, o.limits); len(errs) > 0 {
		o.emitErrors(errs, StateIdle)
		return ErrValidationFailed
	}

	o.setState(StateReservingCredits)
	reservation, err := o.backend.ReserveCredits(ctx, draft.DocumentType)
	if err != nil {
		o.logger.Error().Err(err).Msg("workflow: credit reservation failed")
		o.emitErrors([]string{userMessage(err)}, StateIdle)
		return err
	}
	// Balance is refreshed before anything else runs; this ordering is what
	// keeps a job from ever existing without a charge behind it.
	o.session.SetBalance(reservation.NewBalance)

	o.setState(StateSubmitting)
	jobID, err := o.backend.Submit(ctx, draft)
	if err != nil {
		// Known asymmetry: the charge is not reversed here. See DESIGN.md.
		o.logger.Warn().
			Err(err).
			Int("credits_deducted", reservation.CreditsDeducted).
			Msg("workflow: submission failed after credits were deducted; charge not refunded")
		o.emitErrors([]string{userMessage(err)}, StateIdle)
		return err
	}

	o.startPolling(ctx, jobID)
	return nil
}

// startPolling replaces any previous session so at most one timer loop exists
// per orchestrator. The state must read polling before the first status query
// runs: the terminal callbacks take the same lock and a later state write
// would clobber theirs.
func (o *Orchestrator) startPolling(ctx context.Context, jobID string) {
	o.mu.Lock()
	previous := o.pollSession
	o.pollSession = nil
	o.state = StatePolling
	o.activeJobID = jobID
	o.mu.Unlock()
	if previous != nil {
		previous.Stop()
	}

	o.logger.Info().Str("job_id", jobID).Msg("workflow: polling started")
	sess := o.poller.Start(ctx, jobID, poll.Hooks{
		OnProgress:  o.onProgress,
		OnCompleted: o.onCompleted,
		OnFailed:    o.onFailed,
	})

	o.mu.Lock()
	o.pollSession = sess
	o.mu.Unlock()
}

func (o *Orchestrator) onProgress(job domain.Job) {
	if o.hooks.OnProgress != nil {
		o.hooks.OnProgress(job)
	}
}

func (o *Orchestrator) onCompleted(jobID string) {
	o.mu.Lock()
	o.state = StateCompleted
	o.completedJob = jobID
	o.activeJobID = ""
	o.mu.Unlock()
	o.logger.Info().Str("job_id", jobID).Msg("workflow: job completed")
	if o.hooks.OnCompleted != nil {
		o.hooks.OnCompleted(jobID)
	}
}

func (o *Orchestrator) onFailed(message string) {
	o.mu.Lock()
	o.state = StateFailed
	o.errs = append(o.errs, message)
	o.activeJobID = ""
	o.mu.Unlock()
	o.logger.Error().Str("reason", message).Msg("workflow: job failed")
	if o.hooks.OnFailed != nil {
		o.hooks.OnFailed(message)
	}
}

// Download fetches and saves the artifact of the last completed job. It is
// user-triggered and repeatable; each attempt is independent.
func (o *Orchestrator) Download(ctx context.Context) (string, error) {
	o.mu.Lock()
	jobID := o.completedJob
	o.mu.Unlock()
	if jobID == "" {
		return "", domain.ErrJobNotCompleted
	}
	return o.DownloadJob(ctx, jobID)
}

// DownloadJob fetches and saves the artifact for a specific completed job.
func (o *Orchestrator) DownloadJob(ctx context.Context, jobID string) (string, error) {
	art, err := o.backend.Download(ctx, jobID)
	if err != nil {
		o.logger.Error().Err(err).Str("job_id", jobID).Msg("workflow: artifact download failed")
		o.appendErrors(userMessage(err))
		return "", err
	}
	if o.saver == nil {
		return "", errors.New("workflow: no artifact saver configured")
	}
	path, err := o.saver.Save(ctx, jobID, art.Data, art.MIME)
	if err != nil {
		o.appendErrors(err.Error())
		return "", err
	}
	o.logger.Info().Str("job_id", jobID).Str("path", path).Msg("workflow: artifact saved")
	return path, nil
}

// Close stops the active polling session, if any. Safe to call on teardown
// regardless of state.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	sess := o.pollSession
	o.pollSession = nil
	o.mu.Unlock()
	if sess != nil {
		sess.Stop()
	}
}

// State returns the current workflow state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Errors returns the messages from the most recent failure, newest attempt
// only.
func (o *Orchestrator) Errors() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.errs))
	copy(out, o.errs)
	return out
}

// ActiveJob returns the in-flight job id, or empty when none is active.
func (o *Orchestrator) ActiveJob() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeJobID
}

// LastCompletedJob returns the most recently completed job id.
func (o *Orchestrator) LastCompletedJob() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completedJob
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) emitErrors(messages []string, next State) {
	o.mu.Lock()
	o.errs = append([]string(nil), messages...)
	o.state = next
	o.mu.Unlock()
	if o.hooks.OnErrors != nil {
		o.hooks.OnErrors(messages)
	}
}

func (o *Orchestrator) appendErrors(messages ...string) {
	o.mu.Lock()
	o.errs = append(o.errs, messages...)
	o.mu.Unlock()
	if o.hooks.OnErrors != nil {
		o.hooks.OnErrors(messages)
	}
}

// userMessage extracts the server-supplied message from the typed client
// errors so the UI shows what the service said, not the transport wrapping.
func userMessage(err error) string {
	var reservation *api.ReservationError
	if errors.As(err, &reservation) {
		return reservation.Message
	}
	var submission *api.SubmissionError
	if errors.As(err, &submission) {
		return submission.Message
	}
	var download *api.DownloadError
	if errors.As(err, &download) {
		return download.Message
	}
	return err.Error()
}
