package jsearch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	SearchPath = "/search"
	// Max pages per request recommended by JSearch before rate limits bite.
	maxPages = 3
)

type SearchParams struct {
	Keywords        []string `yaml:"keywords"`
	Location        string   `yaml:"location"`
	Remote          bool     `yaml:"remote"`
	JobType         string   `yaml:"job_type" mapstructure:"job_type"`
	ExperienceLevel string   `yaml:"experience_level" mapstructure:"experience_level"`
	Pages           int      `yaml:"pages"`
	DatePosted      string   `yaml:"date_posted" mapstructure:"date_posted"`
}

var employmentTypes = map[string]string{
	"full-time":  "FULLTIME",
	"part-time":  "PARTTIME",
	"contract":   "CONTRACTOR",
	"internship": "INTERN",
}

var experienceRequirements = map[string]string{
	"entry":  "under_3_years_experience",
	"mid":    "more_than_3_years_experience",
	"senior": "more_than_3_years_experience",
}

// Query joins the configured keywords into a single search expression. Multiple
// keywords are OR-joined so that "Software Engineer" and "Data Analyst" are
// separate phrases instead of one long one.
func (p *SearchParams) Query() string {
	if len(p.Keywords) == 1 {
		return p.Keywords[0]
	}

	quoted := make([]string, 0, len(p.Keywords))
	for _, keyword := range p.Keywords {
		quoted = append(quoted, fmt.Sprintf("%q", keyword))
	}
	return strings.Join(quoted, " OR ")
}

func (c *Client) search(params *SearchParams) (*Postings, error) {
	if len(params.Keywords) == 0 {
		return &Postings{}, nil
	}

	q := buildParams(params)
	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	var response searchResponse
	if err := c.getJSON(apiURLSearch, q, &response); err != nil {
		return nil, err
	}

	postings := make([]*Posting, 0, len(response.Data))
	for _, raw := range response.Data {
		posting, err := ParsePosting(raw)
		if err != nil {
			return nil, fmt.Errorf("parse posting: %w", err)
		}
		postings = append(postings, posting)
	}

	return &Postings{Items: postings}, nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	q.Set("query", params.Query())
	q.Set("page", "1")

	pages := params.Pages
	if pages <= 0 || pages > maxPages {
		pages = maxPages
	}
	q.Set("num_pages", strconv.Itoa(pages))

	datePosted := params.DatePosted
	if datePosted == "" {
		datePosted = "week"
	}
	q.Set("date_posted", datePosted)

	if params.Location != "" {
		q.Set("location", params.Location)
	}

	if params.Remote {
		q.Set("remote_jobs_only", "true")
	}

	if t, ok := employmentTypes[strings.ToLower(params.JobType)]; ok {
		q.Set("employment_types", t)
	}

	if r, ok := experienceRequirements[strings.ToLower(params.ExperienceLevel)]; ok {
		q.Set("job_requirements", r)
	}

	return q
}
