package match

import (
	"fmt"
	"strings"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/resume"
)

type titleExcludeStage struct{}

func (s *titleExcludeStage) Name() string { return "title_exclude" }

func (s *titleExcludeStage) Check(_ *resume.Profile, posting *jsearch.Posting, cfg *FilterConfig) *Verdict {
	if !cfg.PrefilterEnabled {
		return nil
	}

	title := strings.ToLower(posting.Title)
	for _, keyword := range cfg.ExcludeKeywords {
		if keyword == "" || !strings.Contains(title, strings.ToLower(keyword)) {
			continue
		}

		verdict := newPrefilterVerdict(ReasonExcludedKeyword, 0)
		verdict.MatchedKeyword = keyword
		verdict.MissingRequirements = []string{
			fmt.Sprintf("Job title contains excluded keyword: %q", keyword),
		}
		verdict.AnalysisReasoning = fmt.Sprintf(
			"Auto-filtered: job title %q contains excluded keyword %q", posting.Title, keyword)
		return verdict
	}

	return nil
}

type titleIncludeStage struct{}

func (s *titleIncludeStage) Name() string { return "title_include" }

func (s *titleIncludeStage) Check(_ *resume.Profile, posting *jsearch.Posting, cfg *FilterConfig) *Verdict {
	if !cfg.PrefilterEnabled || len(cfg.IncludeKeywords) == 0 {
		return nil
	}

	title := strings.ToLower(posting.Title)
	for _, keyword := range cfg.IncludeKeywords {
		if keyword != "" && strings.Contains(title, strings.ToLower(keyword)) {
			return nil
		}
	}

	verdict := newPrefilterVerdict(ReasonMissingIncludeKeyword, 0)
	verdict.MissingRequirements = []string{"Job title does not match required keywords"}
	verdict.AnalysisReasoning = fmt.Sprintf(
		"Auto-filtered: job title %q does not contain any required keywords", posting.Title)
	return verdict
}
