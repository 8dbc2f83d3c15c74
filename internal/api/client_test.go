package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"docsmith/internal/domain"
)

func TestReserveCredits(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/credits/deduct" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["document_type"] != "infographic" {
			t.Fatalf("document type mismatch: %s", payload["document_type"])
		}
		_ = json.NewEncoder(w).Encode(Reservation{CreditsDeducted: 8, NewBalance: 32})
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	res, err := client.ReserveCredits(context.Background(), domain.DocumentInfographic)
	if err != nil {
		t.Fatalf("ReserveCredits error: %v", err)
	}
	if res.CreditsDeducted != 8 || res.NewBalance != 32 {
		t.Fatalf("unexpected reservation: %+v", res)
	}
}

func TestReserveCreditsCarriesServerDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "insufficient credits"})
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	_, err := client.ReserveCredits(context.Background(), domain.DocumentFormal)
	var resErr *ReservationError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationError, got %v", err)
	}
	if resErr.Message != "insufficient credits" {
		t.Fatalf("server detail lost: %q", resErr.Message)
	}
}

func TestSubmitSendsMultipartDraft(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		if got := r.FormValue("document_type"); got != "formal" {
			t.Fatalf("document_type: %s", got)
		}
		if got := r.FormValue("length"); got != "800" {
			t.Fatalf("length: %s", got)
		}
		if got := r.FormValue("use_watermark"); got != "true" {
			t.Fatalf("use_watermark: %s", got)
		}
		var stats []domain.Statistic
		if err := json.Unmarshal([]byte(r.FormValue("statistics")), &stats); err != nil {
			t.Fatalf("decode statistics: %v", err)
		}
		if len(stats) != 2 || stats[0].Name != "Revenue" {
			t.Fatalf("statistics payload: %+v", stats)
		}
		var design domain.DesignSpec
		if err := json.Unmarshal([]byte(r.FormValue("design_spec")), &design); err != nil {
			t.Fatalf("decode design spec: %v", err)
		}
		if design.Name != domain.DefaultTheme().Name {
			t.Fatalf("design spec: %+v", design)
		}
		file, header, err := r.FormFile("logo")
		if err != nil {
			t.Fatalf("logo part missing: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "logo.png" || len(data) != 4 {
			t.Fatalf("logo part: %s %d bytes", header.Filename, len(data))
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "job-123"})
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	draft := domain.GenerationRequest{
		Description:  "quarterly report of sales figures",
		Length:       800,
		DocumentType: domain.DocumentFormal,
		UseWatermark: true,
		Design:       domain.DefaultTheme(),
		Statistics: []domain.Statistic{
			{ID: "s1", Name: "Revenue", Value: 10, Visualization: domain.VisualizationBar},
			{ID: "s2", Name: "Costs", Value: 4, Visualization: domain.VisualizationPie},
		},
		Logo: &domain.Attachment{Name: "logo.png", MIME: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
	}
	jobID, err := client.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if jobID != "job-123" {
		t.Fatalf("unexpected job id: %s", jobID)
	}
}

func TestSubmitFailureTyped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "generation backend offline"})
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	_, err := client.Submit(context.Background(), domain.GenerationRequest{DocumentType: domain.DocumentFormal})
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Message != "generation backend offline" {
		t.Fatalf("server detail lost: %q", subErr.Message)
	}
}

func TestJobStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/job-9/status" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(domain.Job{
			ID: "job-9", Status: domain.JobStatusRunning, Progress: 55, CurrentStep: domain.StepComposing,
		})
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	job, err := client.JobStatus(context.Background(), "job-9")
	if err != nil {
		t.Fatalf("JobStatus error: %v", err)
	}
	if job.Status != domain.JobStatusRunning || job.Progress != 55 || job.CurrentStep != domain.StepComposing {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestDownload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/job-9/download" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-fake"))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	artifact, err := client.Download(context.Background(), "job-9")
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}
	if string(artifact.Data) != "%PDF-fake" || artifact.MIME != "application/pdf" {
		t.Fatalf("unexpected artifact: %q %s", artifact.Data, artifact.MIME)
	}

	ts.Close()
	if _, err := client.Download(context.Background(), "job-9"); err == nil {
		t.Fatalf("expected DownloadError after server close")
	}
}
