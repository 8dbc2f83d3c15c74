package stub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docsmith/internal/domain"
)

const maxUploadBytes = 16 << 20

// Service implements the four endpoints the client consumes.
type Service struct {
	logger zerolog.Logger
	jobs   JobStore
	ledger *Ledger
	costs  map[domain.DocumentType]int
}

func NewService(logger zerolog.Logger, jobs JobStore, ledger *Ledger) *Service {
	return &Service{logger: logger, jobs: jobs, ledger: ledger, costs: DefaultCosts}
}

func (s *Service) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) error(w http.ResponseWriter, code int, detail string) {
	s.json(w, code, map[string]string{"detail": detail})
}

// DeductCredits handles POST /credits/deduct.
func (s *Service) DeductCredits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentType domain.DocumentType `json:"document_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	cost, ok := s.costs[req.DocumentType]
	if !ok {
		s.error(w, http.StatusBadRequest, "unsupported document type")
		return
	}
	balance, err := s.ledger.Deduct(cost)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			s.error(w, http.StatusPaymentRequired, "insufficient credits")
			return
		}
		s.error(w, http.StatusInternalServerError, "failed to deduct credits")
		return
	}
	s.logger.Info().
		Str("document_type", string(req.DocumentType)).
		Int("cost", cost).
		Int("new_balance", balance).
		Msg("stub: credits deducted")
	s.json(w, http.StatusOK, map[string]int{"credits_deducted": cost, "new_balance": balance})
}

// Generate handles POST /documents/generate.
func (s *Service) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.error(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	docType := domain.DocumentType(r.FormValue("document_type"))
	if _, ok := s.costs[docType]; !ok {
		s.error(w, http.StatusBadRequest, "unsupported document type")
		return
	}
	description := strings.TrimSpace(r.FormValue("description"))
	if description == "" {
		s.error(w, http.StatusBadRequest, "description is required")
		return
	}
	length, err := strconv.Atoi(r.FormValue("length"))
	if err != nil || length <= 0 {
		s.error(w, http.StatusBadRequest, "invalid length")
		return
	}
	useWatermark, _ := strconv.ParseBool(r.FormValue("use_watermark"))

	var stats []domain.Statistic
	if raw := r.FormValue("statistics"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &stats); err != nil {
			s.error(w, http.StatusBadRequest, "invalid statistics payload")
			return
		}
	}
	if len(stats) > domain.MaxStatistics {
		s.error(w, http.StatusBadRequest, "too many statistics")
		return
	}
	var design domain.DesignSpec
	if raw := r.FormValue("design_spec"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &design); err != nil {
			s.error(w, http.StatusBadRequest, "invalid design spec")
			return
		}
	}
	hasLogo := false
	if file, _, err := r.FormFile("logo"); err == nil {
		hasLogo = true
		_ = file.Close()
	}

	job := StoredJob{
		ID:           uuid.NewString(),
		Status:       domain.JobStatusPending,
		Progress:     0,
		Step:         domain.StepQueued,
		DocumentType: docType,
		Description:  description,
		Length:       length,
		UseWatermark: useWatermark,
		Statistics:   stats,
		Design:       design,
		HasLogo:      hasLogo,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.jobs.Create(r.Context(), job); err != nil {
		s.logger.Error().Err(err).Msg("stub: failed to store job")
		s.error(w, http.StatusInternalServerError, "failed to create job")
		return
	}
	s.logger.Info().Str("job_id", job.ID).Str("document_type", string(docType)).Msg("stub: job created")
	s.json(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

// JobStatus handles GET /jobs/{job_id}/status. Each query reports the current
// state and then advances non-terminal jobs one deterministic step, so a
// polling client sees pending(0) through completed(100) over six queries.
func (s *Service) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := s.jobs.Get(r.Context(), jobID)
	if err != nil {
		s.error(w, http.StatusNotFound, "job not found")
		return
	}

	s.json(w, http.StatusOK, domain.Job{
		ID:           job.ID,
		Status:       job.Status,
		Progress:     job.Progress,
		CurrentStep:  job.Step,
		ErrorMessage: job.Error,
	})

	if job.Status == domain.JobStatusCompleted || job.Status == domain.JobStatusFailed {
		return
	}
	next := advance(job)
	if err := s.jobs.Update(r.Context(), next); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("stub: failed to advance job")
	}
}

// Download handles GET /jobs/{job_id}/download.
func (s *Service) Download(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := s.jobs.Get(r.Context(), jobID)
	if err != nil {
		s.error(w, http.StatusNotFound, "job not found")
		return
	}
	if job.Status != domain.JobStatusCompleted {
		s.error(w, http.StatusConflict, "job not completed")
		return
	}
	data := renderDocument(job)
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=document-%s.html", job.ID))
	_, _ = w.Write(data)
}

// Health handles GET /healthz.
func (s *Service) Health(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func advance(job StoredJob) StoredJob {
	job.Progress += 20
	if job.Progress >= 100 {
		job.Progress = 100
		job.Status = domain.JobStatusCompleted
		job.Step = domain.StepDone
		return job
	}
	job.Status = domain.JobStatusRunning
	job.Step = stepFor(job.Progress)
	return job
}

func stepFor(progress int) domain.JobStep {
	switch {
	case progress <= 20:
		return domain.StepAnalyzing
	case progress <= 40:
		return domain.StepComposing
	case progress <= 60:
		return domain.StepRendering
	default:
		return domain.StepFinalizing
	}
}
