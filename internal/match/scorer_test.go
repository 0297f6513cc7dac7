package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/resume"
)

type stubCompleter struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubCompleter) Model() string {
	return "stub-model"
}

func intPtr(v int) *int { return &v }

func testProfile() *resume.Profile {
	return &resume.Profile{
		Skills:          []string{"python", "docker", "kubernetes"},
		YearsExperience: intPtr(6),
		RecentRoles:     []string{"Senior Platform Infrastructure Engineer"},
	}
}

func testPosting() *jsearch.Posting {
	return &jsearch.Posting{
		ExternalID:   "job-1",
		Title:        "Backend Engineer",
		Company:      "Acme",
		Location:     "Remote",
		Description:  "We build data platforms.",
		Requirements: "Strong python and docker experience required, kubernetes a plus.",
	}
}

func TestScorerParsesResponse(t *testing.T) {
	stub := &stubCompleter{response: `{
		"score": "high",
		"compatibility_percentage": 85,
		"matching_skills": ["python", "docker"],
		"missing_requirements": ["terraform"],
		"needs_summary_change": true,
		"suggested_summary": "Experienced platform engineer.",
		"analysis_reasoning": "Strong overlap."
	}`}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	verdict := scorer.Score(context.Background(), testProfile(), "", testPosting())

	if verdict.Score != ScoreHigh {
		t.Fatalf("expected high score, got %s", verdict.Score)
	}
	if verdict.CompatibilityPercentage != 85 {
		t.Fatalf("expected 85%%, got %d", verdict.CompatibilityPercentage)
	}
	if !verdict.NeedsSummaryChange {
		t.Fatalf("expected needs_summary_change to be true")
	}
	if verdict.SuggestedSummary != "Experienced platform engineer." {
		t.Fatalf("unexpected suggested summary: %q", verdict.SuggestedSummary)
	}
	if verdict.Prefiltered {
		t.Fatalf("scorer verdicts must not be marked prefiltered")
	}
	if stub.lastPrompt == "" {
		t.Fatalf("expected a prompt to be sent")
	}
	if !strings.Contains(stub.lastPrompt, "Backend Engineer") {
		t.Fatalf("expected prompt to contain the job title")
	}
	if !strings.Contains(stub.lastPrompt, "python, docker, kubernetes") {
		t.Fatalf("expected prompt to list profile skills")
	}
}

func TestScorerStripsCodeFences(t *testing.T) {
	stub := &stubCompleter{response: "```json\n{\"score\": \"low\", \"compatibility_percentage\": 20}\n```"}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	verdict := scorer.Score(context.Background(), testProfile(), "", testPosting())

	if verdict.Score != ScoreLow {
		t.Fatalf("expected low score, got %s", verdict.Score)
	}
	if verdict.CompatibilityPercentage != 20 {
		t.Fatalf("expected 20%%, got %d", verdict.CompatibilityPercentage)
	}
}

func TestScorerNormalizesBadValues(t *testing.T) {
	stub := &stubCompleter{response: `{
		"score": "excellent",
		"compatibility_percentage": 250,
		"matching_skills": "not-a-list",
		"suggested_summary": "null"
	}`}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	verdict := scorer.Score(context.Background(), testProfile(), "", testPosting())

	if verdict.Score != ScoreMedium {
		t.Fatalf("unknown tier should default to medium, got %s", verdict.Score)
	}
	if verdict.CompatibilityPercentage != 100 {
		t.Fatalf("expected percentage clamped to 100, got %d", verdict.CompatibilityPercentage)
	}
	if len(verdict.MatchingSkills) != 0 {
		t.Fatalf("non-list matching_skills should become empty, got %v", verdict.MatchingSkills)
	}
	if verdict.SuggestedSummary != "" {
		t.Fatalf("literal null summary should become empty, got %q", verdict.SuggestedSummary)
	}
}

func TestScorerMissingPercentageDefaults(t *testing.T) {
	stub := &stubCompleter{response: `{"score": "medium"}`}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	verdict := scorer.Score(context.Background(), testProfile(), "", testPosting())

	if verdict.CompatibilityPercentage != 50 {
		t.Fatalf("expected default percentage 50, got %d", verdict.CompatibilityPercentage)
	}
}

func TestScorerFallsBackOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("quota exceeded")}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	verdict := scorer.Score(context.Background(), testProfile(), "", testPosting())

	if !strings.HasPrefix(verdict.AnalysisReasoning, "Keyword-based analysis") {
		t.Fatalf("expected keyword fallback, got reasoning: %q", verdict.AnalysisReasoning)
	}
	if verdict.Prefiltered {
		t.Fatalf("fallback verdicts must not be marked prefiltered")
	}
}

func TestScorerFallsBackOnGarbage(t *testing.T) {
	stub := &stubCompleter{response: "I cannot help with that."}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	verdict := scorer.Score(context.Background(), testProfile(), "", testPosting())

	if !strings.HasPrefix(verdict.AnalysisReasoning, "Keyword-based analysis") {
		t.Fatalf("expected keyword fallback, got reasoning: %q", verdict.AnalysisReasoning)
	}
}

func TestScorerUnconfiguredUsesFallback(t *testing.T) {
	scorer := NewScorer(nil, zap.NewNop(), 0)

	if scorer.IsConfigured() {
		t.Fatalf("scorer without completer must report unconfigured")
	}

	// The posting mentions backend, python, docker and kubernetes; the
	// profile covers all but backend, so 3 of 4 terms match.
	verdict := scorer.Score(context.Background(), testProfile(), "", testPosting())

	if verdict.Score != ScoreHigh {
		t.Fatalf("expected high fallback score, got %s", verdict.Score)
	}
	if verdict.CompatibilityPercentage != 75 {
		t.Fatalf("expected 75%% overlap, got %d", verdict.CompatibilityPercentage)
	}
	if len(verdict.MissingRequirements) != 1 || verdict.MissingRequirements[0] != "backend" {
		t.Fatalf("expected backend to be the only missing term, got %v", verdict.MissingRequirements)
	}
}

func TestFallbackMatchesWholeWordsOnly(t *testing.T) {
	scorer := NewScorer(nil, zap.NewNop(), 0)

	profile := &resume.Profile{Skills: []string{"python"}}

	// "rapidly" must not count as "api" and "interested" must not count as
	// "rest"; python is the only recognized term and it is covered.
	posting := &jsearch.Posting{
		Title:       "Python Developer",
		Description: "A rapidly growing company. Interested candidates welcome.",
	}

	verdict := scorer.Score(context.Background(), profile, "", posting)

	if verdict.CompatibilityPercentage != 100 {
		t.Fatalf("expected 100%% overlap, got %d", verdict.CompatibilityPercentage)
	}
	if verdict.Score != ScoreHigh {
		t.Fatalf("expected high fallback score, got %s", verdict.Score)
	}
	if len(verdict.MissingRequirements) != 0 {
		t.Fatalf("expected no missing terms, got %v", verdict.MissingRequirements)
	}
}

func TestFallbackNoTermsInJob(t *testing.T) {
	scorer := NewScorer(nil, zap.NewNop(), 0)

	posting := &jsearch.Posting{
		Title:        "Office Assistant",
		Description:  "General administrative duties.",
		Requirements: "Organized and punctual.",
	}
	verdict := scorer.Score(context.Background(), testProfile(), "", posting)

	if verdict.CompatibilityPercentage != 50 {
		t.Fatalf("no recognizable terms should yield the neutral 50%%, got %d", verdict.CompatibilityPercentage)
	}
	if verdict.Score != ScoreMedium {
		t.Fatalf("expected medium score at 50%%, got %s", verdict.Score)
	}
}
