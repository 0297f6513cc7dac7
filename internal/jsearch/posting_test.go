package jsearch

import (
	"testing"
	"time"
)

func rawItem() map[string]any {
	return map[string]any{
		"job_id":              "abc-123",
		"job_title":           "Backend Engineer",
		"employer_name":       "Acme",
		"job_city":            "Berlin",
		"job_state":           "",
		"job_country":         "DE",
		"job_employment_type": "FULLTIME",
		"job_description":     "Build services.",
		"job_apply_link":      "https://example.com/apply",
		"job_min_salary":      float64(70000),
		"job_max_salary":      float64(90000),
		"job_salary_currency": "EUR",
		"job_salary_period":   "YEAR",
		// JSON numbers arrive as float64; the decoder has to cope.
		"job_posted_at_timestamp": float64(1700000000),
		"job_highlights": map[string]any{
			"Qualifications":   []any{"Python", "Docker"},
			"Responsibilities": []any{"Ship features"},
		},
		"job_required_experience": map[string]any{
			"required_experience_in_months": float64(36),
		},
	}
}

func TestParsePosting(t *testing.T) {
	posting, err := ParsePosting(rawItem())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if posting.ExternalID != "abc-123" {
		t.Fatalf("unexpected external id: %q", posting.ExternalID)
	}
	if posting.Title != "Backend Engineer" {
		t.Fatalf("unexpected title: %q", posting.Title)
	}
	if posting.Location != "Berlin, DE" {
		t.Fatalf("unexpected location: %q", posting.Location)
	}
	if posting.JobType != "full-time" {
		t.Fatalf("unexpected job type: %q", posting.JobType)
	}
	if posting.ExperienceLevel != "mid" {
		t.Fatalf("unexpected experience level: %q", posting.ExperienceLevel)
	}
	if posting.Requirements != "Python\nDocker\nShip features" {
		t.Fatalf("unexpected requirements: %q", posting.Requirements)
	}
	if posting.SalaryRange != "EUR 70000 - 90000 per year" {
		t.Fatalf("unexpected salary range: %q", posting.SalaryRange)
	}
	if posting.PostedAt != time.Unix(1700000000, 0).UTC() {
		t.Fatalf("unexpected posted at: %v", posting.PostedAt)
	}
}

func TestParsePostingDefaults(t *testing.T) {
	posting, err := ParsePosting(map[string]any{
		"job_id":          "no-frills",
		"job_title":       "Engineer",
		"job_google_link": "https://google.example/job",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if posting.Company != "Unknown Company" {
		t.Fatalf("expected company placeholder, got %q", posting.Company)
	}
	if posting.URL != "https://google.example/job" {
		t.Fatalf("expected google link fallback, got %q", posting.URL)
	}
	if posting.SalaryRange != "" {
		t.Fatalf("expected empty salary range, got %q", posting.SalaryRange)
	}
	if posting.ExperienceLevel != "" {
		t.Fatalf("expected empty experience level, got %q", posting.ExperienceLevel)
	}
	if !posting.PostedAt.IsZero() {
		t.Fatalf("expected zero posted at, got %v", posting.PostedAt)
	}
}

func TestPostingsFindByExternalID(t *testing.T) {
	postings := &Postings{Items: []*Posting{
		{ExternalID: "a", Title: "First"},
		{ExternalID: "b", Title: "Second"},
	}}

	if got := postings.FindByExternalID("b"); got == nil || got.Title != "Second" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got := postings.FindByExternalID("missing"); got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestPostingsReportByCompany(t *testing.T) {
	postings := &Postings{Items: []*Posting{
		{ExternalID: "a", Title: "First", Company: "Acme"},
		{ExternalID: "b", Title: "Second", Company: "Acme"},
		{ExternalID: "c", Title: "Third", Company: "Globex"},
	}}

	report := postings.ReportByCompany()

	if len(report["Acme"]) != 2 {
		t.Fatalf("expected 2 Acme postings, got %d", len(report["Acme"]))
	}
	if len(report["Globex"]) != 1 {
		t.Fatalf("expected 1 Globex posting, got %d", len(report["Globex"]))
	}
}
