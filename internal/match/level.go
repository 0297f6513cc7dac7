package match

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agamordechai/job-matcher/internal/resume"
)

// Level is an experience-level tag derived from posting text.
type Level string

const (
	LevelIntern    Level = "intern"
	LevelJunior    Level = "junior"
	LevelEntry     Level = "entry"
	LevelMid       Level = "mid"
	LevelSenior    Level = "senior"
	LevelLead      Level = "lead"
	LevelPrincipal Level = "principal"
	// LevelUnspecified means the posting gives no level signal.
	LevelUnspecified Level = ""
)

// Year buckets used both for postings and for deriving the candidate's own
// level. Candidates are never auto-promoted past lead on years alone.
const (
	entryMaxYears  = 2
	midMaxYears    = 5
	seniorMaxYears = 8
)

var levelRanks = map[Level]int{
	LevelIntern:    0,
	LevelJunior:    1,
	LevelEntry:     1,
	LevelMid:       2,
	LevelSenior:    3,
	LevelLead:      4,
	LevelPrincipal: 5,
}

var levelPatterns = []struct {
	pattern *regexp.Regexp
	level   Level
}{
	{regexp.MustCompile(`\b(intern|internship)\b`), LevelIntern},
	{regexp.MustCompile(`\b(junior|jr\.?)\b`), LevelJunior},
	{regexp.MustCompile(`\b(entry[\s-]?level|graduate|new grad)\b`), LevelEntry},
	{regexp.MustCompile(`\b(senior|sr\.?)\b`), LevelSenior},
	{regexp.MustCompile(`\b(lead|tech lead|team lead)\b`), LevelLead},
	{regexp.MustCompile(`\b(principal|staff|architect)\b`), LevelPrincipal},
}

var yearsRequired = regexp.MustCompile(`(\d+)\+?\s*years?\s+(?:of\s+)?experience`)

// ClassifyLevel derives the experience level of a posting from its title and
// description. Explicit keywords win over a years-of-experience figure.
func ClassifyLevel(title, description string) Level {
	combined := strings.ToLower(title + " " + description)

	for _, candidate := range levelPatterns {
		if candidate.pattern.MatchString(combined) {
			return candidate.level
		}
	}

	if m := yearsRequired.FindStringSubmatch(combined); m != nil {
		years, err := strconv.Atoi(m[1])
		if err == nil {
			return levelFromYears(years)
		}
	}

	return LevelUnspecified
}

func levelFromYears(years int) Level {
	switch {
	case years <= entryMaxYears:
		return LevelEntry
	case years <= midMaxYears:
		return LevelMid
	case years <= seniorMaxYears:
		return LevelSenior
	default:
		return LevelLead
	}
}

// LevelCompatible reports whether the candidate can reasonably apply to a
// posting of the given level: same level or one up, never two or more.
// Unknown on either side is permissive.
func LevelCompatible(profile *resume.Profile, jobLevel Level) bool {
	if jobLevel == LevelUnspecified {
		return true
	}

	if profile == nil || profile.YearsExperience == nil {
		return true
	}

	candidate := levelFromYears(*profile.YearsExperience)
	return levelRanks[candidate] >= levelRanks[jobLevel]-1
}
