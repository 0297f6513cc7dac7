package match

import (
	"testing"

	"go.uber.org/zap"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/resume"
)

const longRequirements = "Strong python and docker experience with kubernetes in production environments required."

func strongProfile() *resume.Profile {
	return &resume.Profile{
		Skills: []string{"python", "docker", "kubernetes"},
	}
}

func enabledConfig() *FilterConfig {
	return &FilterConfig{PrefilterEnabled: true}
}

func TestChainExcludeKeyword(t *testing.T) {
	cfg := enabledConfig()
	cfg.ExcludeKeywords = []string{"clearance"}

	posting := &jsearch.Posting{
		Title:        "Engineer with Security Clearance",
		Requirements: longRequirements,
	}

	verdict, _, _ := NewChain(nil, zap.NewNop()).Run(strongProfile(), posting, cfg)

	if verdict == nil {
		t.Fatalf("expected a terminating verdict")
	}
	if verdict.PrefilterReason != ReasonExcludedKeyword {
		t.Fatalf("expected excluded_keyword, got %s", verdict.PrefilterReason)
	}
	if verdict.MatchedKeyword != "clearance" {
		t.Fatalf("expected matched keyword to be recorded, got %q", verdict.MatchedKeyword)
	}
	if !verdict.Prefiltered || verdict.Score != ScoreLow {
		t.Fatalf("prefiltered verdicts must be low: %+v", verdict)
	}
}

func TestChainIncludeKeyword(t *testing.T) {
	cfg := enabledConfig()
	cfg.IncludeKeywords = []string{"engineer", "developer"}

	posting := &jsearch.Posting{
		Title:        "Senior Accountant",
		Requirements: longRequirements,
	}

	verdict, _, _ := NewChain(nil, zap.NewNop()).Run(strongProfile(), posting, cfg)

	if verdict == nil {
		t.Fatalf("expected a terminating verdict")
	}
	if verdict.PrefilterReason != ReasonMissingIncludeKeyword {
		t.Fatalf("expected missing_include_keyword, got %s", verdict.PrefilterReason)
	}
}

func TestChainPassesMatchingPosting(t *testing.T) {
	cfg := enabledConfig()
	cfg.IncludeKeywords = []string{"engineer"}

	posting := &jsearch.Posting{
		Title:        "Backend Engineer",
		Requirements: longRequirements,
	}

	verdict, mustNotify, _ := NewChain(nil, zap.NewNop()).Run(strongProfile(), posting, cfg)

	if verdict != nil {
		t.Fatalf("expected the posting to survive the chain, got %+v", verdict)
	}
	if mustNotify {
		t.Fatalf("must-notify should be false without configured keywords")
	}
}

func TestChainShortRequirementsAlwaysChecked(t *testing.T) {
	// The requirements check is not part of the optional pre-filtering; it
	// runs even when the rest of the chain is disabled.
	cfg := &FilterConfig{PrefilterEnabled: false}

	posting := &jsearch.Posting{
		Title:        "Backend Engineer",
		Requirements: "Too short",
	}

	verdict, _, _ := NewChain(nil, zap.NewNop()).Run(strongProfile(), posting, cfg)

	if verdict == nil {
		t.Fatalf("expected a terminating verdict")
	}
	if verdict.PrefilterReason != ReasonNoRequirements {
		t.Fatalf("expected no_requirements, got %s", verdict.PrefilterReason)
	}
}

func TestChainExperienceMismatch(t *testing.T) {
	years := 1
	profile := &resume.Profile{
		Skills:          []string{"python", "docker", "kubernetes"},
		YearsExperience: &years,
	}

	posting := &jsearch.Posting{
		Title:        "Senior Backend Engineer",
		Requirements: longRequirements,
	}

	verdict, _, _ := NewChain(nil, zap.NewNop()).Run(profile, posting, enabledConfig())

	if verdict == nil {
		t.Fatalf("expected a terminating verdict")
	}
	if verdict.PrefilterReason != ReasonExperienceMismatch {
		t.Fatalf("expected experience_mismatch, got %s", verdict.PrefilterReason)
	}
}

func TestChainExperienceYearsBeatMidWording(t *testing.T) {
	years := 1
	profile := &resume.Profile{
		Skills:          []string{"python", "docker", "kubernetes"},
		YearsExperience: &years,
	}

	// No explicit level keyword matches, so the 9+ years figure decides the
	// job level and a one-year candidate is too far below it.
	posting := &jsearch.Posting{
		Title:        "Software Engineer",
		Description:  "Mid-level ownership expected. Requires 9+ years of experience.",
		Requirements: longRequirements,
	}

	verdict, _, _ := NewChain(nil, zap.NewNop()).Run(profile, posting, enabledConfig())

	if verdict == nil {
		t.Fatalf("expected a terminating verdict")
	}
	if verdict.PrefilterReason != ReasonExperienceMismatch {
		t.Fatalf("expected experience_mismatch, got %s", verdict.PrefilterReason)
	}
}

func TestChainKeywordOverlap(t *testing.T) {
	profile := &resume.Profile{Skills: []string{"python"}}

	posting := &jsearch.Posting{
		Title:        "Backend Engineer",
		Requirements: "We need python, docker, kubernetes, terraform and aws experience in production systems.",
	}

	verdict, _, _ := NewChain(nil, zap.NewNop()).Run(profile, posting, enabledConfig())

	if verdict == nil {
		t.Fatalf("expected a terminating verdict")
	}
	if verdict.PrefilterReason != ReasonInsufficientSkills {
		t.Fatalf("expected insufficient_skills, got %s", verdict.PrefilterReason)
	}
	// 1 of 5 recognized terms, truncated toward zero.
	if verdict.CompatibilityPercentage != 20 {
		t.Fatalf("expected 20%%, got %d", verdict.CompatibilityPercentage)
	}
	if len(verdict.MatchingSkills) != 1 || verdict.MatchingSkills[0] != "python" {
		t.Fatalf("unexpected matching skills: %v", verdict.MatchingSkills)
	}
}

func TestChainKeywordOverlapWholeWords(t *testing.T) {
	profile := &resume.Profile{Skills: []string{"javascript"}}

	// "javascript" must not also count as "java", and "rapidly" must not
	// count as "api"; the only recognized term is covered, so the posting
	// passes through.
	posting := &jsearch.Posting{
		Title:        "Frontend Engineer",
		Requirements: "Deep javascript expertise building rapidly evolving interfaces for our customers.",
	}

	verdict, _, _ := NewChain(nil, zap.NewNop()).Run(profile, posting, enabledConfig())

	if verdict != nil {
		t.Fatalf("expected the posting to survive the chain, got %+v", verdict)
	}
}

func TestChainKeywordOverlapNilProfile(t *testing.T) {
	posting := &jsearch.Posting{
		Title:        "Backend Engineer",
		Requirements: longRequirements,
	}

	verdict, _, _ := NewChain(nil, zap.NewNop()).Run(nil, posting, enabledConfig())

	if verdict != nil {
		t.Fatalf("expected a nil profile to pass through, got %+v", verdict)
	}
}

func TestChainMustNotifyCarriedOnTermination(t *testing.T) {
	cfg := enabledConfig()
	cfg.ExcludeKeywords = []string{"engineer"}
	cfg.MustNotifyKeywords = []string{"dream corp"}

	posting := &jsearch.Posting{
		Title:        "Backend Engineer at Dream Corp",
		Requirements: longRequirements,
	}

	verdict, mustNotify, keyword := NewChain(nil, zap.NewNop()).Run(strongProfile(), posting, cfg)

	if verdict == nil {
		t.Fatalf("expected a terminating verdict")
	}
	if !mustNotify || keyword != "dream corp" {
		t.Fatalf("expected must-notify hit, got %v %q", mustNotify, keyword)
	}
	if !verdict.MustNotify || verdict.MustNotifyKeyword != "dream corp" {
		t.Fatalf("must-notify must be carried on the verdict: %+v", verdict)
	}
}

type recordingStage struct {
	name    string
	verdict *Verdict
	calls   *[]string
}

func (s *recordingStage) Name() string { return s.name }

func (s *recordingStage) Check(_ *resume.Profile, _ *jsearch.Posting, _ *FilterConfig) *Verdict {
	*s.calls = append(*s.calls, s.name)
	return s.verdict
}

func TestChainStopsAtFirstTermination(t *testing.T) {
	calls := make([]string, 0)
	stages := []Stage{
		&recordingStage{name: "first", calls: &calls},
		&recordingStage{name: "second", verdict: newPrefilterVerdict(ReasonExcludedKeyword, 0), calls: &calls},
		&recordingStage{name: "third", calls: &calls},
	}

	posting := &jsearch.Posting{Title: "Backend Engineer"}
	verdict, _, _ := NewChain(stages, zap.NewNop()).Run(strongProfile(), posting, enabledConfig())

	if verdict == nil {
		t.Fatalf("expected a terminating verdict")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("expected strictly ordered execution up to the termination, got %v", calls)
	}
}
