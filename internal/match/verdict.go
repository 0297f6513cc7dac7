package match

// Score is the match tier assigned to a posting.
type Score string

const (
	ScoreHigh   Score = "high"
	ScoreMedium Score = "medium"
	ScoreLow    Score = "low"
)

// PrefilterReason explains why a posting never reached the scorer.
type PrefilterReason string

const (
	ReasonExcludedKeyword       PrefilterReason = "excluded_keyword"
	ReasonMissingIncludeKeyword PrefilterReason = "missing_include_keyword"
	ReasonNoRequirements        PrefilterReason = "no_requirements"
	ReasonExperienceMismatch    PrefilterReason = "experience_mismatch"
	ReasonInsufficientSkills    PrefilterReason = "insufficient_skills"
	ReasonEarlyStop             PrefilterReason = "early_stop"
)

// Verdicts never list more than this many skills either way.
const maxListedSkills = 10

// Verdict is the single output shape of the pipeline. Every producer (rule
// stages, scorer, fallback, batch early stop) fills the same closed struct.
//
// Invariant: Prefiltered implies Score == ScoreLow. MustNotify is orthogonal
// to everything else; a rule-excluded posting can still carry it.
type Verdict struct {
	Score                   Score           `json:"score"`
	CompatibilityPercentage int             `json:"compatibility_percentage"`
	MatchingSkills          []string        `json:"matching_skills"`
	MissingRequirements     []string        `json:"missing_requirements"`
	NeedsSummaryChange      bool            `json:"needs_summary_change"`
	SuggestedSummary        string          `json:"suggested_summary,omitempty"`
	AnalysisReasoning       string          `json:"analysis_reasoning"`
	Prefiltered             bool            `json:"prefiltered"`
	PrefilterReason         PrefilterReason `json:"prefilter_reason,omitempty"`
	MatchedKeyword          string          `json:"matched_keyword,omitempty"`
	MustNotify              bool            `json:"must_notify"`
	MustNotifyKeyword       string          `json:"must_notify_keyword,omitempty"`
}

func newPrefilterVerdict(reason PrefilterReason, percentage int) *Verdict {
	return &Verdict{
		Score:                   ScoreLow,
		CompatibilityPercentage: percentage,
		MatchingSkills:          []string{},
		MissingRequirements:     []string{},
		Prefiltered:             true,
		PrefilterReason:         reason,
	}
}

func truncateList(items []string) []string {
	if len(items) > maxListedSkills {
		return items[:maxListedSkills]
	}
	return items
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
