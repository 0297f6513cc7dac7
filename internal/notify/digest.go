package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/agamordechai/job-matcher/internal/store"
)

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1>New Job Opportunities</h1>
  <p>Found {{len .Jobs}} new positions matching your profile ({{.Generated}})</p>
  <ul style="list-style: none; padding: 0;">
  {{- range .Jobs}}
    <li style="border-left: 4px solid #4CAF50; margin: 15px 0; padding: 10px;">
      <div><strong>{{.Index}}. {{.Title}}</strong>{{if .MustNotify}} &#9733;{{end}}</div>
      <div>{{.Company}} &mdash; {{.Location}}</div>
      <div>Match: {{.Score}}{{if .Percentage}} ({{.Percentage}}%){{end}}</div>
      {{- if .URL}}
      <div><a href="{{.URL}}">View Job Details</a></div>
      {{- end}}
    </li>
  {{- end}}
  </ul>
  <p style="font-size: 12px; color: #777;">Automated notification from job-matcher</p>
</body>
</html>
`))

type digestJob struct {
	Index      int
	Title      string
	Company    string
	Location   string
	URL        string
	Score      string
	Percentage int
	MustNotify bool
}

func renderDigest(jobs []store.Job, now time.Time) (string, error) {
	items := make([]digestJob, len(jobs))
	for i, job := range jobs {
		location := job.Location
		if location == "" {
			location = "Remote / Location not specified"
		}
		item := digestJob{
			Index:      i + 1,
			Title:      job.Title,
			Company:    job.Company,
			Location:   location,
			URL:        job.URL,
			Score:      job.Score,
			MustNotify: job.MustNotify,
		}
		if job.CompatibilityPercentage != nil {
			item.Percentage = *job.CompatibilityPercentage
		}
		items[i] = item
	}

	data := struct {
		Jobs      []digestJob
		Generated string
	}{
		Jobs:      items,
		Generated: now.Format("January 2, 2006 at 15:04"),
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute digest template: %w", err)
	}
	return buf.String(), nil
}
