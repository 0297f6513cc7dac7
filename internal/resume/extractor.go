package resume

import (
	"context"
	"crypto/sha256"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// Only the head of the resume feeds the cache key. Two resumes sharing
	// the same first kilobyte are disambiguated by total length.
	cacheKeyPrefixLen = 1000
	maxRecentRoles    = 5
)

var (
	yearsPattern = regexp.MustCompile(`(\d+)\+?\s*years?\s+(?:of\s+)?experience`)
	rolePattern  = regexp.MustCompile(`(?m)^([A-Z][^\n]{20,80}?(?i:engineer|developer|analyst|architect|manager))`)
)

// Profile is the structured view of a resume the matching pipeline works
// with. It is immutable once extracted.
type Profile struct {
	Skills          []string `json:"skills"`
	YearsExperience *int     `json:"years_experience,omitempty"`
	RecentRoles     []string `json:"recent_roles,omitempty"`
}

// SkillSet returns the skills as a set for overlap computations.
func (p *Profile) SkillSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Skills))
	for _, skill := range p.Skills {
		set[skill] = struct{}{}
	}
	return set
}

// Extract derives a profile from raw resume text. Absent signals yield empty
// fields, never an error.
func Extract(text string) *Profile {
	profile := &Profile{
		Skills: TermsIn(text),
	}

	if m := yearsPattern.FindStringSubmatch(strings.ToLower(text)); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			profile.YearsExperience = &years
		}
	}

	roles := rolePattern.FindAllStringSubmatch(text, maxRecentRoles)
	for _, m := range roles {
		profile.RecentRoles = append(profile.RecentRoles, m[1])
	}

	return profile
}

// CacheKey derives the cache key for a resume text: a hash of the first
// 1000 characters plus the total length.
func CacheKey(text string) string {
	prefix := text
	if len(prefix) > cacheKeyPrefixLen {
		prefix = prefix[:cacheKeyPrefixLen]
	}

	sum := sha256.Sum256([]byte(prefix))
	return fmt.Sprintf("%x:%d", sum[:8], len(text))
}

// Extractor wraps Extract with a pluggable cache so repeated analysis of the
// same resume does not redo the regex work.
type Extractor struct {
	cache  ProfileCache
	logger *zap.Logger
}

func NewExtractor(cache ProfileCache, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cache: cache, logger: logger}
}

func (e *Extractor) Profile(ctx context.Context, text string) *Profile {
	key := CacheKey(text)

	if e.cache != nil {
		if profile, ok := e.cache.Get(ctx, key); ok {
			return profile
		}
	}

	profile := Extract(text)

	if e.cache != nil {
		e.cache.Set(ctx, key, profile)
		e.logger.Debug("cached resume profile",
			zap.String("key", key),
			zap.Int("skills", len(profile.Skills)),
		)
	}

	return profile
}
