package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/resume"
)

type keywordOverlapStage struct{}

func (s *keywordOverlapStage) Name() string { return "keyword_overlap" }

func (s *keywordOverlapStage) Check(profile *resume.Profile, posting *jsearch.Posting, cfg *FilterConfig) *Verdict {
	if !cfg.PrefilterEnabled {
		return nil
	}

	if profile == nil {
		return nil
	}

	jobTerms := resume.WordTermsIn(posting.Requirements)
	if len(jobTerms) == 0 {
		// No clear tech requirements; let the scorer decide.
		return nil
	}

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

	overlap := float64(len(matching)) / float64(len(jobTerms)) * 100
	if overlap >= float64(cfg.minSkillOverlap()) {
		return nil
	}

	sort.Strings(matching)
	sort.Strings(missing)

	percentage := int(overlap)
	verdict := newPrefilterVerdict(ReasonInsufficientSkills, percentage)
	verdict.MatchingSkills = truncateList(matching)
	verdict.MissingRequirements = truncateList(missing)

	preview := missing
	if len(preview) > 3 {
		preview = preview[:3]
	}
	verdict.AnalysisReasoning = fmt.Sprintf(
		"Keyword pre-screening: only %d%% skill match. Missing critical skills: %s",
		percentage, strings.Join(preview, ", "))

	return verdict
}
