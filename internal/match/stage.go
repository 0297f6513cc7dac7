package match

import (
	"go.uber.org/zap"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/logger"
	"github.com/agamordechai/job-matcher/internal/resume"
)

// Stage is a single cheap, deterministic rule in the pre-filter chain. A
// stage either passes the posting through (nil) or terminates the chain with
// a prefiltered verdict.
type Stage interface {
	Name() string
	Check(profile *resume.Profile, posting *jsearch.Posting, cfg *FilterConfig) *Verdict
}

// DefaultStages returns the rule stages in their fixed execution order.
// Order is a data structure here: tests can reorder or instrument it.
func DefaultStages() []Stage {
	return []Stage{
		&titleExcludeStage{},
		&titleIncludeStage{},
		&requirementsStage{},
		&experienceStage{},
		&keywordOverlapStage{},
	}
}

// Chain runs the ordered rule stages over one posting.
type Chain struct {
	stages []Stage
	logger *zap.Logger
}

func NewChain(stages []Stage, logger *zap.Logger) *Chain {
	if stages == nil {
		stages = DefaultStages()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{stages: stages, logger: logger}
}

// Run executes the stages strictly in order. The must-notify check happens
// before any stage and only sets a flag: it is carried on every terminating
// verdict no matter which stage produced it. A nil verdict means the posting
// survived the whole chain and should go to the scorer.
func (c *Chain) Run(profile *resume.Profile, posting *jsearch.Posting, cfg *FilterConfig) (*Verdict, bool, string) {
	mustNotify, notifyKeyword := CheckMustNotify(posting.Title, cfg.MustNotifyKeywords)

	for _, stage := range c.stages {
		verdict := stage.Check(profile, posting, cfg)
		if verdict == nil {
			continue
		}

		verdict.MustNotify = mustNotify
		if mustNotify {
			verdict.MustNotifyKeyword = notifyKeyword
		}

		c.logger.Debug("posting pre-filtered",
			append(logger.VerdictFields(string(verdict.Score), verdict.CompatibilityPercentage, true, string(verdict.PrefilterReason)),
				zap.String("stage", stage.Name()),
				zap.String("title", posting.Title),
			)...)

		return verdict, mustNotify, notifyKeyword
	}

	return nil, mustNotify, notifyKeyword
}
