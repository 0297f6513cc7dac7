package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/agamordechai/job-matcher/internal/ai/gemini"
	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/logger"
	"github.com/agamordechai/job-matcher/internal/match"
	"github.com/agamordechai/job-matcher/internal/notify"
	"github.com/agamordechai/job-matcher/internal/resume"
	"github.com/agamordechai/job-matcher/internal/secrets"
	"github.com/agamordechai/job-matcher/internal/store"
	"github.com/agamordechai/job-matcher/internal/utils"

	"github.com/manifoldco/promptui"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExit            = "Exit"
	PromptHighMatches     = "Show high matches"
	PromptReportByCompany = "Report by company"
	PromptApplySummary    = "Apply a suggested resume summary"
	PromptMatchesToFile   = "Dump analyzed jobs to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptHighMatches, PromptReportByCompany, PromptApplySummary, PromptMatchesToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the job-matcher main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("once", "o", false, "run a single fetch and match cycle, then exit")
	runCmd.Flags().BoolP("skip-prefilter", "s", false, "send every posting to the scorer, bypassing the rule chain")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not open the interactive review menu after a cycle")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Database == nil {
		logger.Fatal("database configuration is required under the 'database' key")
	}

	st, err := store.Open(config.Database, logger)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer st.Close()

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading jsearch api key",
			zap.Error(err),
			zap.String("hint", "set RAPIDAPI_KEY_FILE environment variable or the 'api-key-file' key in the configuration file"),
		)
	}

	client := jsearch.New(ctx, logger, apiKey)

	resumeDoc, err := loadResume(ctx, st, config)
	if err != nil {
		logger.Fatal("loading the resume", zap.Error(err))
	}

	extractor := resume.NewExtractor(newProfileCache(config, logger), logger)
	profile := extractor.Profile(ctx, resumeDoc.Content)

	logger.Info("resume profile extracted",
		zap.Int("skills", len(profile.Skills)),
		zap.Strings("recent_roles", profile.RecentRoles),
	)

	scorer, err := newScorer(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the scorer", zap.Error(err))
	}

	if !scorer.IsConfigured() {
		logger.Warn("no reasoning service configured, every posting gets the keyword fallback analysis")
	}

	filterCfg := match.FilterConfig{PrefilterEnabled: true}
	if config.Filter != nil {
		filterCfg = *config.Filter
	}
	if filterCfg.MaxHighMatches == 0 {
		filterCfg.MaxHighMatches = match.DefaultMaxHighMatches
	}

	analyzer := match.NewAnalyzer(filterCfg, scorer, logger)

	var notifier *notify.Notifier
	if config.Email != nil {
		notifier = notify.New(*config.Email, st, logger)
	} else {
		notifier = notify.New(notify.Config{}, st, logger)
	}

	skipPrefilter := cmd.Flag("skip-prefilter").Value.String() == "true"
	once := cmd.Flag("once").Value.String() == "true"

	interval := schedulerInterval(config)

	for {
		if err := runCycle(ctx, client, st, analyzer, notifier, profile, resumeDoc, config, skipPrefilter, logger); err != nil {
			logger.Error("cycle failed", zap.Error(err))
		}

		if once || interval == 0 {
			break
		}

		logger.Info("cycle finished, sleeping", zap.Duration("interval", interval))
		if err := utils.WaitFor(ctx, interval); err != nil {
			logger.Info("exiting", zap.Error(err))
			return
		}
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, st, resumeDoc, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func runCycle(
	ctx context.Context,
	client *jsearch.Client,
	st *store.Store,
	analyzer *match.Analyzer,
	notifier *notify.Notifier,
	profile *resume.Profile,
	resumeDoc *store.Resume,
	config *Config,
	skipPrefilter bool,
	logger *zap.Logger,
) error {
	searches, err := collectSearches(ctx, st, config)
	if err != nil {
		return err
	}
	if len(searches) == 0 {
		return errors.New("no search configured: set the 'search' key or store an active search filter")
	}

	fresh := make([]*jsearch.Posting, 0)
	for _, params := range searches {
		logger.Info("starting the search", zap.String("query", params.Query()))

		results, err := client.Search(params)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		logger.Info("got postings", zap.Int("count", results.Len()))

		for _, posting := range results.Items {
			created, err := st.SaveJob(ctx, posting, &resumeDoc.ID)
			if err != nil {
				return err
			}
			if created {
				fresh = append(fresh, posting)
			}
		}
	}

	if len(fresh) == 0 {
		logger.Info("no new postings this cycle")
		return nil
	}

	logger.Info("analyzing new postings", zap.Int("count", len(fresh)))

	verdicts := analyzer.AnalyzeBatch(ctx, profile, resumeDoc.Summary, fresh, skipPrefilter)
	for i, posting := range fresh {
		if err := st.SaveAnalysis(ctx, posting.ExternalID, verdicts[i]); err != nil {
			return err
		}
	}

	jobs, err := st.NotifiableJobs(ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	if err := notifier.SendDigest(ctx, jobs); err != nil {
		return err
	}
	if !notifier.IsConfigured() {
		return nil
	}

	ids := make([]uint, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ID
	}
	return st.MarkNotified(ctx, ids)
}

func handleAction(ctx context.Context, action string, st *store.Store, resumeDoc *store.Resume, logger *zap.Logger) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptHighMatches:
		jobs, err := st.ListJobs(ctx, store.ListOptions{Score: "high"})
		if err != nil {
			return err
		}
		pretty, _ := json.MarshalIndent(jobSummaries(jobs), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", len(jobs)))
		return nil
	case PromptReportByCompany:
		jobs, err := st.ListJobs(ctx, store.ListOptions{})
		if err != nil {
			return err
		}
		report := make(map[string][]string)
		for _, job := range jobs {
			report[job.Company] = append(report[job.Company], job.Title)
		}
		pretty, _ := json.MarshalIndent(report, "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", len(jobs)))
		return nil
	case PromptApplySummary:
		return applySuggestedSummary(ctx, st, resumeDoc, logger)
	case PromptMatchesToFile:
		jobs, err := st.ListJobs(ctx, store.ListOptions{Status: store.JobStatusAnalyzed})
		if err != nil {
			return err
		}
		filename, err := dumpJobsToTmpFile(jobs)
		if err != nil {
			return fmt.Errorf("dump jobs to file: %w", err)
		}
		logger.Info("dumping analyzed jobs to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// applySuggestedSummary lets the user pick one of the scorer's tailored
// summaries and makes it the resume's current one.
func applySuggestedSummary(ctx context.Context, st *store.Store, resumeDoc *store.Resume, logger *zap.Logger) error {
	jobs, err := st.ListJobs(ctx, store.ListOptions{Status: store.JobStatusAnalyzed})
	if err != nil {
		return err
	}

	candidates := make([]store.Job, 0)
	items := make([]string, 0)
	for _, job := range jobs {
		if job.NeedsSummaryChange && job.SuggestedSummary != "" {
			candidates = append(candidates, job)
			items = append(items, fmt.Sprintf("%s / %s", job.Title, job.Company))
		}
	}

	if len(candidates) == 0 {
		logger.Info("no suggested summaries available")
		return nil
	}

	summaryPrompt := promptui.Select{
		Label: "Choose a job to tailor the summary for and press ENTER",
		Items: append(items, PromptExit),
	}

	idx, selected, err := summaryPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptExit {
		return nil
	}

	chosen := candidates[idx]
	if err := st.UpdateResumeSummary(ctx, resumeDoc.ID, chosen.SuggestedSummary); err != nil {
		return err
	}
	resumeDoc.Summary = chosen.SuggestedSummary

	logger.Info("resume summary updated",
		zap.String("job_title", chosen.Title),
		zap.String("company", chosen.Company),
	)
	return nil
}

func dumpJobsToTmpFile(jobs []store.Job) (string, error) {
	file, err := os.CreateTemp("", app+"-jobs-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return "", err
	}

	if _, err := file.Write(data); err != nil {
		return "", err
	}

	return file.Name(), nil
}

func jobSummaries(jobs []store.Job) []map[string]any {
	summaries := make([]map[string]any, len(jobs))
	for i, job := range jobs {
		summary := map[string]any{
			"title":   job.Title,
			"company": job.Company,
			"url":     job.URL,
			"score":   job.Score,
		}
		if job.CompatibilityPercentage != nil {
			summary["compatibility"] = *job.CompatibilityPercentage
		}
		summaries[i] = summary
	}
	return summaries
}

func resolveAPIKey(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	keyFile := strings.TrimSpace(config.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("api-key-file"))
	}

	if keyFile == "" {
		return "", errors.New("jsearch api key file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "jsearch api key",
		File: keyFile,
	})
}

// loadResume returns the active stored resume, seeding it from the configured
// file on first run.
func loadResume(ctx context.Context, st *store.Store, config *Config) (*store.Resume, error) {
	resumeDoc, err := st.ActiveResume(ctx)
	if err != nil {
		return nil, err
	}
	if resumeDoc != nil {
		return resumeDoc, nil
	}

	if config.ResumeFile == "" {
		return nil, errors.New("no resume stored and no 'resume-file' configured")
	}

	content, err := os.ReadFile(config.ResumeFile)
	if err != nil {
		return nil, fmt.Errorf("read resume file: %w", err)
	}

	resumeDoc = &store.Resume{
		Filename: config.ResumeFile,
		Content:  string(content),
	}
	if err := st.SaveResume(ctx, resumeDoc); err != nil {
		return nil, err
	}
	return resumeDoc, nil
}

func newProfileCache(config *Config, logger *zap.Logger) resume.ProfileCache {
	if config.Redis == nil || config.Redis.Addr == "" {
		return resume.NewMemoryCache(0)
	}

	var ttl time.Duration
	if config.Redis.TTL != "" {
		parsed, err := time.ParseDuration(config.Redis.TTL)
		if err != nil {
			logger.Warn("invalid redis ttl, using the default", zap.String("ttl", config.Redis.TTL))
		} else {
			ttl = parsed
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	return resume.NewRedisCache(client, ttl, logger)
}

func newScorer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*match.Scorer, error) {
	if cfg == nil || !cfg.Enabled {
		return match.NewScorer(nil, logger, 0), nil
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	keyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(os.Getenv("GEMINI_API_KEY_FILE"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	return match.NewScorer(generator, logger, cfg.Gemini.MaxLogLength), nil
}

// collectSearches merges the config search with the active stored filters.
func collectSearches(ctx context.Context, st *store.Store, config *Config) ([]*jsearch.SearchParams, error) {
	searches := make([]*jsearch.SearchParams, 0)
	if config.Search != nil {
		searches = append(searches, config.Search)
	}

	filters, err := st.ActiveSearchFilters(ctx)
	if err != nil {
		return nil, err
	}

	for i := range filters {
		keywords, err := filters[i].KeywordList()
		if err != nil {
			return nil, err
		}
		searches = append(searches, &jsearch.SearchParams{
			Keywords:        keywords,
			Location:        filters[i].Location,
			JobType:         filters[i].JobType,
			ExperienceLevel: filters[i].ExperienceLevel,
			Remote:          filters[i].Remote,
		})
	}

	return searches, nil
}

func schedulerInterval(config *Config) time.Duration {
	if config.Scheduler == nil || config.Scheduler.Interval == "" {
		return 0
	}

	interval, err := time.ParseDuration(config.Scheduler.Interval)
	if err != nil || interval < 0 {
		return 0
	}
	return interval
}
