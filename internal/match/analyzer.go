package match

import (
	"context"

	"go.uber.org/zap"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/logger"
	"github.com/agamordechai/job-matcher/internal/resume"
)

// Analyzer is the pipeline facade: rule chain first, scorer for survivors.
// It always yields a verdict; no posting analysis is fatal.
type Analyzer struct {
	chain  *Chain
	scorer *Scorer
	cfg    FilterConfig
	logger *zap.Logger
}

func NewAnalyzer(cfg FilterConfig, scorer *Scorer, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		chain:  NewChain(nil, logger),
		scorer: scorer,
		cfg:    cfg,
		logger: logger,
	}
}

// Config returns the filter configuration the analyzer runs with.
func (a *Analyzer) Config() FilterConfig {
	return a.cfg
}

// Analyze runs one posting through the full pipeline.
func (a *Analyzer) Analyze(ctx context.Context, profile *resume.Profile, resumeSummary string, posting *jsearch.Posting) *Verdict {
	return a.analyze(ctx, profile, resumeSummary, posting, a.cfg)
}

func (a *Analyzer) analyze(ctx context.Context, profile *resume.Profile, resumeSummary string, posting *jsearch.Posting, cfg FilterConfig) *Verdict {
	verdict, mustNotify, notifyKeyword := a.chain.Run(profile, posting, &cfg)
	if verdict != nil {
		return verdict
	}

	verdict = a.scorer.Score(ctx, profile, resumeSummary, posting)
	verdict.MustNotify = mustNotify
	if mustNotify {
		verdict.MustNotifyKeyword = notifyKeyword
	}

	a.logger.Debug("posting scored",
		append(logger.VerdictFields(string(verdict.Score), verdict.CompatibilityPercentage, false, ""),
			zap.String("title", posting.Title),
		)...)

	return verdict
}
