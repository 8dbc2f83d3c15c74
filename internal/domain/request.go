package domain

// DocumentType enumerates the supported output formats.
type DocumentType string

const (
	DocumentFormal      DocumentType = "formal"
	DocumentInfographic DocumentType = "infographic"
)

// VisualizationType enumerates chart styles for a statistic.
type VisualizationType string

const (
	VisualizationBar   VisualizationType = "bar"
	VisualizationLine  VisualizationType = "line"
	VisualizationPie   VisualizationType = "pie"
	VisualizationGauge VisualizationType = "gauge"
)

// MaxStatistics caps the number of entries a draft may carry. The cap is
// enforced structurally by the statistics collector, not re-checked during
// validation.
const MaxStatistics = 10

// Statistic is one user-entered data point. The ID is assigned when the entry
// is created and stays stable across edits within a session.
type Statistic struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Value         float64           `json:"value"`
	Unit          string            `json:"unit,omitempty"`
	Visualization VisualizationType `json:"visualization_type"`
}

// Attachment holds an optional uploaded file, kept fully in memory.
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

// GenerationRequest is the aggregated, not-yet-submitted draft.
type GenerationRequest struct {
	Description  string
	Length       int
	DocumentType DocumentType
	UseWatermark bool
	Statistics   []Statistic
	Design       DesignSpec
	Logo         *Attachment
}

// Normalize enforces the watermark precondition: the flag only survives when
// the document is formal and a logo is attached. Whatever the UI said, the
// submitted request must not carry a watermark otherwise.
func (r *GenerationRequest) Normalize() {
	if r.DocumentType != DocumentFormal || r.Logo == nil {
		r.UseWatermark = false
	}
}
