package domain

// JobStatus enumerates job lifecycle states as reported by the service.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobStep names the generation phase the service is currently in.
type JobStep string

const (
	StepQueued     JobStep = "queued"
	StepAnalyzing  JobStep = "analyzing"
	StepComposing  JobStep = "composing"
	StepRendering  JobStep = "rendering"
	StepFinalizing JobStep = "finalizing"
	StepDone       JobStep = "done"
)

// Job is a server-tracked unit of asynchronous document generation.
type Job struct {
	ID           string    `json:"job_id"`
	Status       JobStatus `json:"status"`
	Progress     int       `json:"progress"`
	CurrentStep  JobStep   `json:"current_step"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Terminal reports whether polling for this job must stop.
func (j Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
