package resume

import (
	"sort"
	"strings"
)

// Vocabulary is the closed set of technology terms the whole pipeline speaks.
// Profile extraction, the keyword pre-screen and the fallback scorer all
// match against this exact set; adding a term here changes all three.
var Vocabulary = []string{
	// Programming languages
	"python", "java", "javascript", "typescript", "golang", "rust", "scala",
	"ruby", "php", "swift", "kotlin", "csharp", "c#", "cpp", "c++",
	// Frontend
	"react", "angular", "vue", "nextjs", "svelte", "html", "css", "sass",
	// Backend
	"node", "nodejs", "django", "flask", "fastapi", "spring", "express", "rails",
	// Databases
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"dynamodb", "cassandra", "neo4j",
	// Cloud & DevOps
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins",
	"cicd", "ci/cd", "devops", "linux", "nginx", "ansible",
	// Data & ML
	"machine", "learning", "tensorflow", "pytorch", "pandas", "numpy",
	"spark", "kafka", "airflow", "databricks", "snowflake",
	// Concepts & process
	"microservices", "api", "rest", "graphql", "grpc", "websocket",
	"agile", "scrum", "testing", "security", "architecture",
	// Specializations
	"backend", "frontend", "fullstack", "sre",
}

// TermsIn returns the vocabulary terms present in the text as sorted slice.
// Matching is a case-insensitive substring check, no stemming.
func TermsIn(text string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0)
	for _, term := range Vocabulary {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	sort.Strings(found)
	return found
}

// TermSet is TermsIn as a set, for overlap computations.
func TermSet(text string) map[string]struct{} {
	terms := TermsIn(text)
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		set[term] = struct{}{}
	}
	return set
}

// WordTermsIn returns the vocabulary terms appearing in the text as whole
// words. Unlike TermsIn it never fires inside a longer word: "rapidly"
// contributes no "api" and "javascript" no "java". The pre-screen and the
// fallback scorer count job terms with this to keep the denominator honest.
func WordTermsIn(text string) []string {
	lower := strings.ToLower(text)

	tokens := make(map[string]struct{})
	for _, token := range strings.FieldsFunc(lower, isTermSeparator) {
		tokens[token] = struct{}{}
	}

	found := make([]string, 0)
	for _, term := range Vocabulary {
		// Slashed terms like ci/cd span tokens and keep the substring check.
		if strings.ContainsRune(term, '/') {
			if strings.Contains(lower, term) {
				found = append(found, term)
			}
			continue
		}
		if _, ok := tokens[term]; ok {
			found = append(found, term)
		}
	}
	sort.Strings(found)
	return found
}

// '#' and '+' stay inside tokens so c# and c++ survive tokenization.
func isTermSeparator(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
		return false
	}
	return r != '#' && r != '+'
}
