package match

import (
	"strings"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/resume"
)

// Postings whose requirements trim below this length cannot be matched
// meaningfully and are dropped regardless of the prefilter switch.
const minRequirementsLength = 50

type requirementsStage struct{}

func (s *requirementsStage) Name() string { return "requirements_presence" }

func (s *requirementsStage) Check(_ *resume.Profile, posting *jsearch.Posting, _ *FilterConfig) *Verdict {
	if len(strings.TrimSpace(posting.Requirements)) >= minRequirementsLength {
		return nil
	}

	verdict := newPrefilterVerdict(ReasonNoRequirements, 0)
	verdict.MissingRequirements = []string{"Job has no clear requirements specified"}
	verdict.AnalysisReasoning = "Skipped: job posting lacks detailed requirements for proper matching"
	return verdict
}
