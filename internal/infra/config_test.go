package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("POLL_INTERVAL_SECONDS", "")
	t.Setenv("STARTING_CREDITS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: %q", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Fatalf("APIBaseURL mismatch: %q", cfg.APIBaseURL)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval mismatch: %s", cfg.PollInterval)
	}
	if cfg.StartingCredits != 50 {
		t.Fatalf("StartingCredits mismatch: %d", cfg.StartingCredits)
	}
}

func TestLoadConfigHonorsOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://docs.example.com")
	t.Setenv("POLL_INTERVAL_SECONDS", "1")
	t.Setenv("STARTING_CREDITS", "120")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.APIBaseURL != "https://docs.example.com" {
		t.Fatalf("APIBaseURL mismatch: %q", cfg.APIBaseURL)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("PollInterval mismatch: %s", cfg.PollInterval)
	}
	if cfg.StartingCredits != 120 {
		t.Fatalf("StartingCredits mismatch: %d", cfg.StartingCredits)
	}
}

func TestLoadConfigIgnoresBadIntegers(t *testing.T) {
	t.Setenv("STARTING_CREDITS", "not-a-number")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StartingCredits != 50 {
		t.Fatalf("bad integer must fall back to default: %d", cfg.StartingCredits)
	}
}
