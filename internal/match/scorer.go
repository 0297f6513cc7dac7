package match

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/agamordechai/job-matcher/internal/ai"
	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/logger"
	"github.com/agamordechai/job-matcher/internal/resume"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	// Prompt size guards: the candidate context is a compressed profile,
	// never the full resume text.
	maxPromptSkills        = 30
	maxDescriptionInPrompt = 2000

	// Fallback tier thresholds, matching the scoring rubric in the prompt.
	fallbackHighThreshold   = 70
	fallbackMediumThreshold = 40

	// More than this many missing terms and the resume summary likely
	// needs rework for the posting.
	missingForSummaryChange = 3
)

// Scorer produces the final verdict for postings that survive the rule
// chain. With no completer configured it runs permanently in fallback mode.
type Scorer struct {
	completer ai.Completer
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(completer ai.Completer, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	if completer != nil {
		log = logger.WithCommonFields(log, "gemini", completer.Model())
	}

	return &Scorer{
		completer: completer,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// IsConfigured reports whether a reasoning service is available. False means
// every score comes from the deterministic keyword fallback.
func (s *Scorer) IsConfigured() bool {
	return s.completer != nil
}

// Score always returns a verdict with Prefiltered == false. Any failure of
// the reasoning service degrades to the keyword fallback; a single posting
// analysis never fails.
func (s *Scorer) Score(ctx context.Context, profile *resume.Profile, resumeSummary string, posting *jsearch.Posting) *Verdict {
	if !s.IsConfigured() {
		return s.fallback(profile, posting)
	}

	prompt := buildPrompt(profile, resumeSummary, posting)

	s.logger.Debug("scoring request",
		zap.String("job_title", posting.Title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("reasoning service failed, falling back to keyword analysis",
			zap.String("job_title", posting.Title),
			zap.Error(err),
		)
		return s.fallback(profile, posting)
	}

	s.logger.Debug("scoring response",
		zap.String("job_title", posting.Title),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	verdict, err := parseVerdict(raw)
	if err != nil {
		s.logger.Warn("unparseable reasoning response, falling back to keyword analysis",
			zap.String("job_title", posting.Title),
			zap.Error(err),
		)
		return s.fallback(profile, posting)
	}

	return verdict
}

func buildPrompt(profile *resume.Profile, resumeSummary string, posting *jsearch.Posting) string {
	location := posting.Location
	if location == "" {
		location = "Not specified"
	}

	var job strings.Builder
	fmt.Fprintf(&job, "Job Title: %s\n", posting.Title)
	fmt.Fprintf(&job, "Company: %s\n", posting.Company)
	fmt.Fprintf(&job, "Location: %s\n", location)

	// Requirements are the focused signal; only fall back to the (possibly
	// huge) description when they are absent.
	if strings.TrimSpace(posting.Requirements) != "" {
		fmt.Fprintf(&job, "\nRequirements:\n%s\n", posting.Requirements)
	} else {
		description := posting.Description
		if utf8.RuneCountInString(description) > maxDescriptionInPrompt {
			description = string([]rune(description)[:maxDescriptionInPrompt])
		}
		fmt.Fprintf(&job, "\nJob Description:\n%s\n", description)
	}

	skills := profile.Skills
	if len(skills) > maxPromptSkills {
		skills = skills[:maxPromptSkills]
	}

	years := "Not specified"
	if profile.YearsExperience != nil {
		years = strconv.Itoa(*profile.YearsExperience)
	}

	var cv strings.Builder
	cv.WriteString("Candidate Profile:\n")
	fmt.Fprintf(&cv, "- Technical Skills: %s\n", strings.Join(skills, ", "))
	fmt.Fprintf(&cv, "- Years of Experience: %s\n", years)
	cv.WriteString("- Recent Roles:\n")
	if len(profile.RecentRoles) == 0 {
		cv.WriteString("- See resume summary\n")
	} else {
		for _, role := range profile.RecentRoles {
			fmt.Fprintf(&cv, "- %s\n", role)
		}
	}
	if resumeSummary != "" {
		fmt.Fprintf(&cv, "- Professional Summary: %s\n", resumeSummary)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{JOB_CONTEXT}}", job.String())
	prompt = strings.ReplaceAll(prompt, "{{CV_CONTEXT}}", cv.String())
	return prompt
}

func parseVerdict(raw string) (*Verdict, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse scoring response: %w", err)
	}

	return normalizeVerdict(data), nil
}

// normalizeVerdict coerces whatever came back from the reasoning service
// into the closed verdict shape. Unrecognized tiers become medium, bad
// percentages become 50, non-list lists become empty.
func normalizeVerdict(data map[string]any) *Verdict {
	score := Score(strings.ToLower(coerceString(data["score"])))
	switch score {
	case ScoreHigh, ScoreMedium, ScoreLow:
	default:
		score = ScoreMedium
	}

	percentage := 50
	if f := coerceFloat(data["compatibility_percentage"]); !math.IsNaN(f) {
		percentage = clampPercentage(int(f))
	}

	suggested := coerceString(data["suggested_summary"])
	if strings.EqualFold(suggested, "null") {
		suggested = ""
	}

	return &Verdict{
		Score:                   score,
		CompatibilityPercentage: percentage,
		MatchingSkills:          truncateList(coerceStringList(data["matching_skills"])),
		MissingRequirements:     truncateList(coerceStringList(data["missing_requirements"])),
		NeedsSummaryChange:      coerceBool(data["needs_summary_change"]),
		SuggestedSummary:        suggested,
		AnalysisReasoning:       coerceString(data["analysis_reasoning"]),
		Prefiltered:             false,
	}
}

// fallback is the deterministic keyword analysis used when the reasoning
// service is not configured or misbehaves. Job terms are matched as whole
// words so unrelated text does not inflate the denominator.
func (s *Scorer) fallback(profile *resume.Profile, posting *jsearch.Posting) *Verdict {
	jobText := posting.Title + " " + posting.Description + " " + posting.Requirements
	jobTerms := resume.WordTermsIn(jobText)
	skills := profile.SkillSet()

	matching := make([]string, 0, len(jobTerms))
	missing := make([]string, 0, len(jobTerms))
	for _, term := range jobTerms {
		if _, ok := skills[term]; ok {
			matching = append(matching, term)
		} else {
			missing = append(missing, term)
		}
	}
	sort.Strings(matching)
	sort.Strings(missing)

	percentage := 50
	if len(jobTerms) > 0 {
		percentage = len(matching) * 100 / len(jobTerms)
	}

	score := ScoreLow
	switch {
	case percentage >= fallbackHighThreshold:
		score = ScoreHigh
	case percentage >= fallbackMediumThreshold:
		score = ScoreMedium
	}

	return &Verdict{
		Score:                   score,
		CompatibilityPercentage: percentage,
		MatchingSkills:          truncateList(matching),
		MissingRequirements:     truncateList(missing),
		NeedsSummaryChange:      len(missing) > missingForSummaryChange,
		AnalysisReasoning: fmt.Sprintf(
			"Keyword-based analysis: %d/%d key terms matched", len(matching), len(jobTerms)),
		Prefiltered: false,
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}

	result := make([]string, 0, len(list))
	for _, item := range list {
		if s := coerceString(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}
