package stub

import (
	"context"
	"encoding/json"
	"fmt"

	"docsmith/internal/domain"
	"docsmith/internal/infra"
	"docsmith/internal/sqlinline"
)

// PGStore persists stub jobs in Postgres, for stub deployments that must
// survive restarts. Selected when DATABASE_URL is set.
type PGStore struct {
	runner infra.SQLExecutor
}

func NewPGStore(runner infra.SQLExecutor) *PGStore {
	return &PGStore{runner: runner}
}

// Ensure creates the backing table when missing.
func (s *PGStore) Ensure(ctx context.Context) error {
	if _, err := s.runner.Exec(ctx, sqlinline.QCreateJobsTable); err != nil {
		return fmt.Errorf("stub: ensure jobs table: %w", err)
	}
	return nil
}

func (s *PGStore) Create(ctx context.Context, job StoredJob) error {
	stats, err := json.Marshal(job.Statistics)
	if err != nil {
		return fmt.Errorf("stub: encode statistics: %w", err)
	}
	design, err := json.Marshal(job.Design)
	if err != nil {
		return fmt.Errorf("stub: encode design: %w", err)
	}
	_, err = s.runner.Exec(ctx, sqlinline.QInsertJob,
		job.ID, string(job.Status), job.Progress, string(job.Step), job.Error,
		string(job.DocumentType), job.Description, job.Length, job.UseWatermark,
		stats, design, job.HasLogo, job.CreatedAt)
	if err != nil {
		return fmt.Errorf("stub: insert job: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (StoredJob, error) {
	row := s.runner.QueryRow(ctx, sqlinline.QSelectJob, id)
	var (
		job     StoredJob
		status  string
		step    string
		docType string
		stats   []byte
		design  []byte
	)
	err := row.Scan(&job.ID, &status, &job.Progress, &step, &job.Error,
		&docType, &job.Description, &job.Length, &job.UseWatermark,
		&stats, &design, &job.HasLogo, &job.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return StoredJob{}, domain.ErrJobNotFound
		}
		return StoredJob{}, fmt.Errorf("stub: select job: %w", err)
	}
	job.Status = domain.JobStatus(status)
	job.Step = domain.JobStep(step)
	job.DocumentType = domain.DocumentType(docType)
	if err := json.Unmarshal(stats, &job.Statistics); err != nil {
		return StoredJob{}, fmt.Errorf("stub: decode statistics: %w", err)
	}
	if err := json.Unmarshal(design, &job.Design); err != nil {
		return StoredJob{}, fmt.Errorf("stub: decode design: %w", err)
	}
	return job, nil
}

func (s *PGStore) Update(ctx context.Context, job StoredJob) error {
	tag, err := s.runner.Exec(ctx, sqlinline.QUpdateJob,
		job.ID, string(job.Status), job.Progress, string(job.Step), job.Error)
	if err != nil {
		return fmt.Errorf("stub: update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

var _ JobStore = (*MemoryStore)(nil)
var _ JobStore = (*PGStore)(nil)
