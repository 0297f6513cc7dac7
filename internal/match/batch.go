package match

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/resume"
)

// AnalyzeBatch analyzes the postings strictly in input order and returns one
// verdict per posting, index-aligned. Once MaxHighMatches high scores have
// accumulated, remaining postings are skipped with an early-stop verdict;
// must-notify postings are exempt from the skip and always fully analyzed.
// A budget of zero therefore skips every posting that is not must-notify.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, profile *resume.Profile, resumeSummary string, postings []*jsearch.Posting, skipPrefilter bool) []*Verdict {
	runID := uuid.NewString()

	cfg := a.cfg
	if skipPrefilter {
		cfg.PrefilterEnabled = false
	}

	log := a.logger.With(
		zap.String("batch_id", runID),
		zap.Int("postings", len(postings)),
		zap.Bool("prefilter", cfg.PrefilterEnabled),
	)
	log.Info("batch analysis started")

	mustNotify := make([]bool, len(postings))
	for i, posting := range postings {
		mustNotify[i], _ = CheckMustNotify(posting.Title, cfg.MustNotifyKeywords)
	}

	verdicts := make([]*Verdict, len(postings))
	highMatches := 0
	skipped := 0

	for i, posting := range postings {
		if highMatches >= cfg.MaxHighMatches && !mustNotify[i] {
			verdicts[i] = earlyStopVerdict()
			skipped++
			continue
		}

		verdict := a.analyze(ctx, profile, resumeSummary, posting, cfg)
		verdicts[i] = verdict

		if !verdict.Prefiltered && verdict.Score == ScoreHigh {
			highMatches++
			if highMatches == cfg.MaxHighMatches {
				log.Info("early stop threshold reached",
					zap.Int("high_matches", highMatches),
					zap.Int("analyzed", i+1),
				)
			}
		}
	}

	log.Info("batch analysis finished",
		zap.Int("high_matches", highMatches),
		zap.Int("skipped", skipped),
	)

	return verdicts
}

func earlyStopVerdict() *Verdict {
	verdict := newPrefilterVerdict(ReasonEarlyStop, 0)
	verdict.AnalysisReasoning = "Skipped: early termination after finding enough high matches"
	return verdict
}
