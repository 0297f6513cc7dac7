package store

import (
	"time"

	"gorm.io/datatypes"
)

// JobStatus tracks a stored posting through its lifecycle.
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusAnalyzed JobStatus = "analyzed"
	JobStatusNotified JobStatus = "notified"
	JobStatusArchived JobStatus = "archived"
)

// Job is a fetched posting plus its analysis result. ExternalJobID is the
// dedup key across repeated searches.
type Job struct {
	ID       uint  `gorm:"primaryKey;autoIncrement"`
	ResumeID *uint `gorm:"index:idx_jobs_resume_id"`

	ExternalJobID   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_jobs_external_job_id"`
	Title           string `gorm:"type:varchar(512);not null"`
	Company         string `gorm:"type:varchar(255);not null"`
	Location        string `gorm:"type:varchar(255)"`
	JobType         string `gorm:"type:varchar(100)"`
	ExperienceLevel string `gorm:"type:varchar(100)"`
	Description     string `gorm:"type:text;not null"`
	Requirements    string `gorm:"type:text"`
	URL             string `gorm:"type:varchar(1024)"`
	SalaryRange     string `gorm:"type:varchar(255)"`

	Score                   string         `gorm:"type:varchar(20);default:'pending'"`
	CompatibilityPercentage *int           `gorm:""`
	MatchingSkills          datatypes.JSON `gorm:"type:json"`
	MissingRequirements     datatypes.JSON `gorm:"type:json"`
	SuggestedSummary        string         `gorm:"type:text"`
	NeedsSummaryChange      bool           `gorm:"default:false"`
	AnalysisReasoning       string         `gorm:"type:text"`
	Prefiltered             bool           `gorm:"default:false"`
	PrefilterReason         string         `gorm:"type:varchar(50)"`
	MustNotify              bool           `gorm:"default:false"`

	Status     JobStatus  `gorm:"type:varchar(20);default:'pending';index:idx_jobs_status"`
	NotifiedAt *time.Time `gorm:"type:datetime(6)"`

	FetchedAt  time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	AnalyzedAt *time.Time `gorm:"type:datetime(6)"`
	PostedAt   *time.Time `gorm:"type:datetime(6)"`
}

func (Job) TableName() string {
	return "jobs"
}

// Resume is the stored candidate document. One resume is active at a time;
// Summary holds the current tailored professional summary.
type Resume struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	Filename   string     `gorm:"type:varchar(255);not null"`
	Content    string     `gorm:"type:text;not null"`
	Summary    string     `gorm:"type:text"`
	IsActive   bool       `gorm:"default:true;index:idx_resumes_is_active"`
	UploadedAt time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt  *time.Time `gorm:"type:datetime(6);autoUpdateTime"`
}

func (Resume) TableName() string {
	return "resumes"
}

// SearchFilter is a stored search to run on schedule.
type SearchFilter struct {
	ID              uint           `gorm:"primaryKey;autoIncrement"`
	Name            string         `gorm:"type:varchar(255);not null"`
	Keywords        datatypes.JSON `gorm:"type:json;not null"`
	Location        string         `gorm:"type:varchar(255)"`
	JobType         string         `gorm:"type:varchar(100)"`
	ExperienceLevel string         `gorm:"type:varchar(100)"`
	Remote          bool           `gorm:"default:false"`
	IsActive        bool           `gorm:"default:true;index:idx_search_filters_is_active"`
	CreatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt       *time.Time     `gorm:"type:datetime(6);autoUpdateTime"`
}

func (SearchFilter) TableName() string {
	return "search_filters"
}

// NotificationLog records every digest email attempt, failures included.
type NotificationLog struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	JobID          *uint     `gorm:"index:idx_notification_logs_job_id"`
	RecipientEmail string    `gorm:"type:varchar(255);not null"`
	Subject        string    `gorm:"type:varchar(512);not null"`
	Body           string    `gorm:"type:text;not null"`
	SentAt         time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	Success        bool      `gorm:"default:true"`
	ErrorMessage   string    `gorm:"type:text"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
