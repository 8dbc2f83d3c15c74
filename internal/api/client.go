// Package api is the HTTP client for the document-generation service: credit
// reservation, job submission, status queries and artifact download.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docsmith/internal/domain"
)

// Options configures the client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the generation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Reservation is the billing endpoint's success payload.
type Reservation struct {
	CreditsDeducted int `json:"credits_deducted"`
	NewBalance      int `json:"new_balance"`
}

// Artifact is a downloaded document blob.
type Artifact struct {
	Data []byte
	MIME string
}

type errorDetail struct {
	Detail string `json:"detail"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

// ReserveCredits charges the balance for one document of the given type. On
// success the returned reservation carries the post-deduction balance.
func (c *Client) ReserveCredits(ctx context.Context, docType domain.DocumentType) (Reservation, error) {
	payload, err := json.Marshal(map[string]string{"document_type": string(docType)})
	if err != nil {
		return Reservation{}, fmt.Errorf("api: encode reservation: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/credits/deduct", bytes.NewReader(payload))
	if err != nil {
		return Reservation{}, fmt.Errorf("api: build reservation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Reservation{}, &ReservationError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reservation{}, &ReservationError{Message: "read response: " + err.Error()}
	}
	if resp.StatusCode >= 300 {
		return Reservation{}, &ReservationError{Message: detailMessage(raw, resp.StatusCode)}
	}
	var out Reservation
	if err := json.Unmarshal(raw, &out); err != nil {
		return Reservation{}, &ReservationError{Message: "decode response: " + err.Error()}
	}
	c.logger.Debug().
		Int("credits_deducted", out.CreditsDeducted).
		Int("new_balance", out.NewBalance).
		Msg("api: credits reserved")
	return out, nil
}

// Submit transmits the validated, already-charged draft as a single multipart
// request and returns the job id the service issued.
func (c *Client) Submit(ctx context.Context, draft domain.GenerationRequest) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writeDraft(writer, draft); err != nil {
		return "", fmt.Errorf("api: encode draft: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("api: finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/generate", &buf)
	if err != nil {
		return "", fmt.Errorf("api: build submit request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SubmissionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SubmissionError{Message: "read response: " + err.Error()}
	}
	if resp.StatusCode >= 300 {
		return "", &SubmissionError{Message: detailMessage(raw, resp.StatusCode)}
	}
	var out struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &SubmissionError{Message: "decode response: " + err.Error()}
	}
	if strings.TrimSpace(out.JobID) == "" {
		return "", &SubmissionError{Message: "empty job id"}
	}
	c.logger.Debug().Str("job_id", out.JobID).Msg("api: job submitted")
	return out.JobID, nil
}

// JobStatus fetches the current state of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (domain.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID+"/status", nil)
	if err != nil {
		return domain.Job{}, fmt.Errorf("api: build status request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Job{}, fmt.Errorf("api: status request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Job{}, fmt.Errorf("api: read status response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return domain.Job{}, fmt.Errorf("api: status: %s", detailMessage(raw, resp.StatusCode))
	}
	var job domain.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return domain.Job{}, fmt.Errorf("api: decode status response: %w", err)
	}
	return job, nil
}

// Download fetches the finished artifact for a completed job.
func (c *Client) Download(ctx context.Context, jobID string) (Artifact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID+"/download", nil)
	if err != nil {
		return Artifact{}, fmt.Errorf("api: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Artifact{}, &DownloadError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return Artifact{}, &DownloadError{Message: detailMessage(raw, resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Artifact{}, &DownloadError{Message: "read artifact: " + err.Error()}
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.logger.Debug().Str("job_id", jobID).Int("bytes", len(data)).Msg("api: artifact downloaded")
	return Artifact{Data: data, MIME: mimeType}, nil
}

func writeDraft(writer *multipart.Writer, draft domain.GenerationRequest) error {
	fields := map[string]string{
		"description":   draft.Description,
		"length":        strconv.Itoa(draft.Length),
		"document_type": string(draft.DocumentType),
		"use_watermark": strconv.FormatBool(draft.UseWatermark),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return err
		}
	}

	stats, err := json.Marshal(draft.Statistics)
	if err != nil {
		return err
	}
	if err := writer.WriteField("statistics", string(stats)); err != nil {
		return err
	}
	design, err := json.Marshal(draft.Design)
	if err != nil {
		return err
	}
	if err := writer.WriteField("design_spec", string(design)); err != nil {
		return err
	}

	if draft.Logo != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="logo"; filename=%q`, draft.Logo.Name))
		header.Set("Content-Type", draft.Logo.MIME)
		part, err := writer.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := part.Write(draft.Logo.Data); err != nil {
			return err
		}
	}
	return nil
}

func detailMessage(raw []byte, statusCode int) string {
	var detail errorDetail
	if err := json.Unmarshal(raw, &detail); err == nil && strings.TrimSpace(detail.Detail) != "" {
		return detail.Detail
	}
	return fmt.Sprintf("http %d", statusCode)
}
