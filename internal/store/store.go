package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/match"
)

// Config is the MySQL connection block of the app config.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

func (c *Config) dsn() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// Store wraps the relational database. All analysis state lives here; the
// pipeline itself stays stateless.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects, configures the pool and migrates the schema.
func Open(cfg *Config, log *zap.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("database config is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(mysql.Open(cfg.dsn()), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Resume{}, &SearchFilter{}, &Job{}, &NotificationLog{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	log.Info("database connected", zap.String("database", cfg.Database))
	return &Store{db: db, logger: log}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveJob inserts a fetched posting, skipping duplicates by external id.
// Returns true when the posting was new.
func (s *Store) SaveJob(ctx context.Context, posting *jsearch.Posting, resumeID *uint) (bool, error) {
	job := &Job{
		ResumeID:        resumeID,
		ExternalJobID:   posting.ExternalID,
		Title:           posting.Title,
		Company:         posting.Company,
		Location:        posting.Location,
		JobType:         posting.JobType,
		ExperienceLevel: posting.ExperienceLevel,
		Description:     posting.Description,
		Requirements:    posting.Requirements,
		URL:             posting.URL,
		SalaryRange:     posting.SalaryRange,
	}
	if !posting.PostedAt.IsZero() {
		postedAt := posting.PostedAt
		job.PostedAt = &postedAt
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_job_id"}},
		DoNothing: true,
	}).Create(job)
	if result.Error != nil {
		return false, fmt.Errorf("save job %q: %w", posting.ExternalID, result.Error)
	}

	return result.RowsAffected > 0, nil
}

// FindJobByExternalID returns nil without error when no row exists.
func (s *Store) FindJobByExternalID(ctx context.Context, externalID string) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).Where("external_job_id = ?", externalID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find job %q: %w", externalID, err)
	}
	return &job, nil
}

// SaveAnalysis records a verdict against the stored posting and moves it to
// the analyzed state.
func (s *Store) SaveAnalysis(ctx context.Context, externalID string, verdict *match.Verdict) error {
	matching, err := json.Marshal(verdict.MatchingSkills)
	if err != nil {
		return fmt.Errorf("encode matching skills: %w", err)
	}
	missing, err := json.Marshal(verdict.MissingRequirements)
	if err != nil {
		return fmt.Errorf("encode missing requirements: %w", err)
	}

	now := time.Now()
	percentage := verdict.CompatibilityPercentage
	updates := map[string]any{
		"score":                    string(verdict.Score),
		"compatibility_percentage": &percentage,
		"matching_skills":          datatypes.JSON(matching),
		"missing_requirements":     datatypes.JSON(missing),
		"suggested_summary":        verdict.SuggestedSummary,
		"needs_summary_change":     verdict.NeedsSummaryChange,
		"analysis_reasoning":       verdict.AnalysisReasoning,
		"prefiltered":              verdict.Prefiltered,
		"prefilter_reason":         string(verdict.PrefilterReason),
		"must_notify":              verdict.MustNotify,
		"status":                   JobStatusAnalyzed,
		"analyzed_at":              &now,
	}

	result := s.db.WithContext(ctx).Model(&Job{}).
		Where("external_job_id = ?", externalID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("save analysis for %q: %w", externalID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("save analysis for %q: job not found", externalID)
	}
	return nil
}

// ListOptions narrows ListJobs. Zero values mean no constraint.
type ListOptions struct {
	Status JobStatus
	Score  string
	Limit  int
}

func (s *Store) ListJobs(ctx context.Context, opts ListOptions) ([]Job, error) {
	query := s.db.WithContext(ctx).Model(&Job{}).Order("fetched_at DESC")
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Score != "" {
		query = query.Where("score = ?", opts.Score)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var jobs []Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// NotifiableJobs returns analyzed postings worth an email: high matches plus
// anything flagged must-notify, oldest first so digests read chronologically.
func (s *Store) NotifiableJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	err := s.db.WithContext(ctx).
		Where("status = ?", JobStatusAnalyzed).
		Where("score = ? OR must_notify = ?", "high", true).
		Order("analyzed_at ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("list notifiable jobs: %w", err)
	}
	return jobs, nil
}

// MarkNotified advances the jobs to the notified state.
func (s *Store) MarkNotified(ctx context.Context, jobIDs []uint) error {
	if len(jobIDs) == 0 {
		return nil
	}
	now := time.Now()
	err := s.db.WithContext(ctx).Model(&Job{}).
		Where("id IN ?", jobIDs).
		Updates(map[string]any{
			"status":      JobStatusNotified,
			"notified_at": &now,
		}).Error
	if err != nil {
		return fmt.Errorf("mark jobs notified: %w", err)
	}
	return nil
}

// ActiveResume returns nil without error when no resume is stored yet.
func (s *Store) ActiveResume(ctx context.Context) (*Resume, error) {
	var resume Resume
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("uploaded_at DESC").
		First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load active resume: %w", err)
	}
	return &resume, nil
}

// SaveResume stores a new resume and deactivates the previous one.
func (s *Store) SaveResume(ctx context.Context, resume *Resume) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Resume{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate resumes: %w", err)
		}
		resume.IsActive = true
		if err := tx.Create(resume).Error; err != nil {
			return fmt.Errorf("save resume: %w", err)
		}
		return nil
	})
}

func (s *Store) UpdateResumeSummary(ctx context.Context, resumeID uint, summary string) error {
	err := s.db.WithContext(ctx).Model(&Resume{}).
		Where("id = ?", resumeID).
		Update("summary", summary).Error
	if err != nil {
		return fmt.Errorf("update resume summary: %w", err)
	}
	return nil
}

func (s *Store) ActiveSearchFilters(ctx context.Context) ([]SearchFilter, error) {
	var filters []SearchFilter
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&filters).Error
	if err != nil {
		return nil, fmt.Errorf("load search filters: %w", err)
	}
	return filters, nil
}

func (s *Store) SaveSearchFilter(ctx context.Context, filter *SearchFilter) error {
	if err := s.db.WithContext(ctx).Save(filter).Error; err != nil {
		return fmt.Errorf("save search filter: %w", err)
	}
	return nil
}

// LogNotification records the attempt whether or not it succeeded.
func (s *Store) LogNotification(ctx context.Context, entry *NotificationLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("log notification: %w", err)
	}
	return nil
}

// KeywordList decodes the stored JSON keyword list of a search filter.
func (f *SearchFilter) KeywordList() ([]string, error) {
	var keywords []string
	if len(f.Keywords) == 0 {
		return keywords, nil
	}
	if err := json.Unmarshal(f.Keywords, &keywords); err != nil {
		return nil, fmt.Errorf("decode filter %q keywords: %w", f.Name, err)
	}
	return keywords, nil
}
