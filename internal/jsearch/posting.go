package jsearch

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

type Postings struct {
	Items []*Posting
}

// Posting is a single job posting in the internal format consumed by the
// matching pipeline and the store.
type Posting struct {
	ExternalID      string
	Title           string
	Company         string
	Location        string
	JobType         string
	ExperienceLevel string
	Description     string
	Requirements    string
	URL             string
	SalaryRange     string
	PostedAt        time.Time
}

// rawPosting mirrors the JSearch wire shape. Decoded from the raw item map
// with mapstructure instead of a second JSON round trip.
type rawPosting struct {
	JobID             string  `json:"job_id"`
	JobTitle          string  `json:"job_title"`
	EmployerName      string  `json:"employer_name"`
	JobCity           string  `json:"job_city"`
	JobState          string  `json:"job_state"`
	JobCountry        string  `json:"job_country"`
	JobEmploymentType string  `json:"job_employment_type"`
	JobDescription    string  `json:"job_description"`
	JobApplyLink      string  `json:"job_apply_link"`
	JobGoogleLink     string  `json:"job_google_link"`
	JobMinSalary      float64 `json:"job_min_salary"`
	JobMaxSalary      float64 `json:"job_max_salary"`
	JobSalaryCurrency string  `json:"job_salary_currency"`
	JobSalaryPeriod   string  `json:"job_salary_period"`
	JobPostedAt       int64   `json:"job_posted_at_timestamp"`
	JobHighlights     struct {
		Qualifications   []string `json:"Qualifications"`
		Responsibilities []string `json:"Responsibilities"`
	} `json:"job_highlights"`
	JobRequiredExperience struct {
		RequiredExperienceInMonths int `json:"required_experience_in_months"`
	} `json:"job_required_experience"`
}

// ParsePosting converts a raw JSearch item into the internal posting format.
func ParsePosting(raw map[string]any) (*Posting, error) {
	var item rawPosting

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &item,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	company := item.EmployerName
	if company == "" {
		company = "Unknown Company"
	}

	posting := &Posting{
		ExternalID:      item.JobID,
		Title:           item.JobTitle,
		Company:         company,
		Location:        joinLocation(item.JobCity, item.JobState, item.JobCountry),
		JobType:         employmentTypeName(item.JobEmploymentType),
		ExperienceLevel: experienceFromMonths(item.JobRequiredExperience.RequiredExperienceInMonths),
		Description:     item.JobDescription,
		Requirements:    joinHighlights(item.JobHighlights.Qualifications, item.JobHighlights.Responsibilities),
		URL:             item.JobApplyLink,
		SalaryRange:     salaryRange(item.JobMinSalary, item.JobMaxSalary, item.JobSalaryCurrency, item.JobSalaryPeriod),
	}

	if posting.URL == "" {
		posting.URL = item.JobGoogleLink
	}

	if item.JobPostedAt > 0 {
		posting.PostedAt = time.Unix(item.JobPostedAt, 0).UTC()
	}

	return posting, nil
}

func joinLocation(parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			present = append(present, part)
		}
	}
	return strings.Join(present, ", ")
}

// joinHighlights assembles the requirements text from JSearch highlights. The
// full description stays separate; highlights are the focused signal.
func joinHighlights(sections ...[]string) string {
	lines := make([]string, 0)
	for _, section := range sections {
		lines = append(lines, section...)
	}
	return strings.Join(lines, "\n")
}

func employmentTypeName(apiType string) string {
	names := map[string]string{
		"FULLTIME":   "full-time",
		"PARTTIME":   "part-time",
		"CONTRACTOR": "contract",
		"INTERN":     "internship",
	}
	if name, ok := names[apiType]; ok {
		return name
	}
	return strings.ToLower(apiType)
}

func experienceFromMonths(months int) string {
	switch {
	case months <= 0:
		return ""
	case months < 12:
		return "entry"
	case months < 60:
		return "mid"
	default:
		return "senior"
	}
}

func salaryRange(min, max float64, currency, period string) string {
	if min == 0 && max == 0 {
		return ""
	}

	if currency == "" {
		currency = "USD"
	}
	if period == "" {
		period = "YEAR"
	}
	period = strings.ToLower(period)

	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("%s %.0f - %.0f per %s", currency, min, max, period)
	case min > 0:
		return fmt.Sprintf("%s %.0f+ per %s", currency, min, period)
	default:
		return fmt.Sprintf("Up to %s %.0f per %s", currency, max, period)
	}
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByExternalID(id string) *Posting {
	for _, posting := range p.Items {
		if posting.ExternalID == id {
			return posting
		}
	}
	return nil
}

func (p *Postings) ExternalIDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, posting := range p.Items {
		ids = append(ids, posting.ExternalID)
	}
	return ids
}

// ReportByCompany groups postings for the interactive report.
func (p *Postings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range p.Items {
		report[posting.Company] = append(report[posting.Company], map[string]string{
			"title":    posting.Title,
			"url":      posting.URL,
			"location": posting.Location,
			"salary":   posting.SalaryRange,
		})
	}
	return report
}
