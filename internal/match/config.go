package match

import "strings"

// Tuned heuristics carried over from production behavior. They read as
// knobs, not domain law, so they are defaults rather than hard-wired.
const (
	DefaultMinSkillOverlap = 30
	DefaultMaxHighMatches  = 5
)

// FilterConfig drives the rule chain and the batch budget. Owned and loaded
// by the caller's config layer.
type FilterConfig struct {
	PrefilterEnabled   bool     `mapstructure:"prefilter_enabled"`
	ExcludeKeywords    []string `mapstructure:"exclude_keywords"`
	IncludeKeywords    []string `mapstructure:"include_keywords"`
	MustNotifyKeywords []string `mapstructure:"must_notify_keywords"`
	MaxHighMatches     int      `mapstructure:"max_high_matches"`
	// MinSkillOverlap is the percentage of a posting's tech terms the
	// candidate must cover to survive the keyword pre-screen.
	MinSkillOverlap int `mapstructure:"min_skill_overlap"`
}

func (c *FilterConfig) minSkillOverlap() int {
	if c.MinSkillOverlap <= 0 {
		return DefaultMinSkillOverlap
	}
	return c.MinSkillOverlap
}

// CheckMustNotify reports whether the title contains one of the configured
// priority keywords, and which one matched first.
func CheckMustNotify(title string, keywords []string) (bool, string) {
	if len(keywords) == 0 {
		return false, ""
	}

	lower := strings.ToLower(title)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true, keyword
		}
	}
	return false, ""
}
