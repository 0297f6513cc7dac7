package match

import (
	"fmt"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/resume"
)

type experienceStage struct{}

func (s *experienceStage) Name() string { return "experience_level" }

func (s *experienceStage) Check(profile *resume.Profile, posting *jsearch.Posting, cfg *FilterConfig) *Verdict {
	if !cfg.PrefilterEnabled {
		return nil
	}

	jobLevel := ClassifyLevel(posting.Title, posting.Description)
	if LevelCompatible(profile, jobLevel) {
		return nil
	}

	years := "unknown"
	if profile != nil && profile.YearsExperience != nil {
		years = fmt.Sprintf("~%d", *profile.YearsExperience)
	}

	verdict := newPrefilterVerdict(ReasonExperienceMismatch, 0)
	verdict.MissingRequirements = []string{
		fmt.Sprintf("Experience level mismatch: job requires %s level", jobLevel),
	}
	verdict.AnalysisReasoning = fmt.Sprintf(
		"Experience level filtering: job requires %s, candidate has %s years", jobLevel, years)
	return verdict
}
