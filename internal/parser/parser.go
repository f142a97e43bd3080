// Package parser extracts structured candidate data from raw resume text
// using heuristic pattern rules. Extraction is deliberately approximate:
// absent fields come back empty, never as errors, and feed the anomaly
// checks downstream.
package parser

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// ErrEmptyText indicates there was no text to parse.
var ErrEmptyText = errors.New("resume text is empty")

// UnknownCandidate is the fallback name when no candidate line qualifies.
const UnknownCandidate = "Unknown Candidate"

const (
	maxSkills          = 50
	maxExperience      = 5
	maxNameLines       = 5
	maxNameWords       = 4
	maxSkillTokenWords = 4
)

// Education is a single education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
}

// Experience is a single work experience entry.
type Experience struct {
	Title    string `json:"title"`
	Company  string `json:"company,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// ParsedResume is an immutable snapshot of one candidate extracted from raw text.
// Skills, Education and Experience are never nil; Name/Email/Phone may be empty.
type ParsedResume struct {
	RawText    string       `json:"-"`
	Name       string       `json:"name"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Skills     []string     `json:"skills"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
}

// Extractor turns raw resume text into a ParsedResume. The rule-based
// implementation below is the default; callers can swap in a higher-precision
// one without touching downstream consumers.
type Extractor interface {
	Parse(rawText string) (ParsedResume, error)
}

// RuleBased is the heuristic regex extractor.
type RuleBased struct{}

// New returns the default rule-based extractor.
func New() *RuleBased {
	return &RuleBased{}
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Ordered: regional "+countrycode" forms before generic digit groupings.
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+92[-.\s]?\d{2,3}[-.\s]?\d{7,8}`),
		regexp.MustCompile(`03\d{9}`),
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	}

	yearRe     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	durationRe = regexp.MustCompile(`(?i)((?:19|20)\d{2})\s*[-–to]+\s*((?:19|20)\d{2}|present)`)

	skillsHeadingRe = regexp.MustCompile(`(?i)^(?:technical\s+)?skills?\s*:?\s*(.*)$`)
	skillSplitRe    = regexp.MustCompile(`[,|•·\n]`)
)

// skillVocabulary is scanned in order so extraction output is deterministic.
var skillVocabulary = []string{
	// Programming
	"python", "java", "javascript", "typescript", "c++", "c#", "php", "ruby",
	"go", "rust", "swift", "kotlin", "scala", "r", "matlab",
	// Web
	"html", "css", "react", "angular", "vue", "node.js", "express",
	"django", "flask", "spring", "asp.net", "laravel", "rest api",
	// Data science and ML
	"machine learning", "deep learning", "data science", "data analysis",
	"ai", "ml", "nlp", "computer vision", "tensorflow", "pytorch",
	"pandas", "numpy", "scikit-learn", "tableau", "power bi",
	// Databases
	"sql", "mysql", "postgresql", "mongodb", "redis", "oracle",
	// Cloud and DevOps
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git",
}

var educationKeywords = []string{
	"bachelor", "master", "phd", "diploma", "degree",
	"university", "college", "bs", "ms", "mba", "bcs",
}

var experienceKeywords = []string{
	"developer", "engineer", "manager", "analyst",
	"consultant", "intern", "trainee",
}

// Parse extracts all structured fields from raw resume text. The only hard
// failure is empty input; every field-level miss degrades to a zero value.
func (e *RuleBased) Parse(rawText string) (ParsedResume, error) {
	if strings.TrimSpace(rawText) == "" {
		return ParsedResume{}, ErrEmptyText
	}

	return ParsedResume{
		RawText:    rawText,
		Name:       extractName(rawText),
		Email:      extractEmail(rawText),
		Phone:      extractPhone(rawText),
		Skills:     extractSkills(rawText),
		Education:  extractEducation(rawText),
		Experience: extractExperience(rawText),
	}, nil
}

// extractName scans the first few non-empty lines for a short line of
// capitalized words.
func extractName(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > maxNameLines {
			break
		}
		words := strings.Fields(line)
		if len(words) == 0 || len(words) > maxNameWords {
			continue
		}
		allCapitalized := true
		for _, w := range words {
			r := []rune(w)[0]
			if !unicode.IsUpper(r) {
				allCapitalized = false
				break
			}
		}
		if allCapitalized {
			return line
		}
	}
	return UnknownCandidate
}

func extractEmail(text string) string {
	return emailRe.FindString(text)
}

// extractPhone returns the first match of the first pattern that matches
// anywhere in the text.
func extractPhone(text string) string {
	for _, re := range phoneRes {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// extractSkills unions direct vocabulary matches with tokens split out of a
// detected skills section. Order is insertion order; duplicates are removed
// case-insensitively and the result is truncated to maxSkills.
func extractSkills(text string) []string {
	lower := strings.ToLower(text)

	found := []string{}
	seen := map[string]struct{}{}
	add := func(skill string) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		found = append(found, titleCase(skill))
	}

	for _, skill := range skillVocabulary {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`)
		if re.MatchString(lower) {
			add(skill)
		}
	}

	if section := skillsSection(text); section != "" {
		for _, token := range skillSplitRe.Split(section, -1) {
			token = strings.TrimSpace(token)
			if token == "" || len(strings.Fields(token)) > maxSkillTokenWords {
				continue
			}
			add(token)
		}
	}

	if len(found) > maxSkills {
		found = found[:maxSkills]
	}
	return found
}

// skillsSection returns the text of a "Skills:" block: the heading's own
// remainder plus following lines until the first blank line.
func skillsSection(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := skillsHeadingRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		var b strings.Builder
		b.WriteString(m[1])
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				break
			}
			b.WriteString("\n")
			b.WriteString(lines[j])
		}
		return b.String()
	}
	return ""
}

// extractEducation turns any line containing an education keyword into one
// entry; the following line is assumed to name the institution.
func extractEducation(text string) []Education {
	entries := []Education{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !containsAnyWord(lower, educationKeywords) {
			continue
		}
		entry := Education{Degree: strings.TrimSpace(line)}
		if i+1 < len(lines) {
			entry.Institution = strings.TrimSpace(lines[i+1])
		}
		if year := yearRe.FindString(line); year != "" {
			entry.Year = year
		}
		entries = append(entries, entry)
	}
	return entries
}

// extractExperience turns any line containing a job-title keyword into one
// entry, scanning a window of surrounding lines for a duration.
func extractExperience(text string) []Experience {
	entries := []Experience{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if len(entries) >= maxExperience {
			break
		}
		lower := strings.ToLower(line)
		if !containsAnyWord(lower, experienceKeywords) {
			continue
		}
		entry := Experience{Title: strings.TrimSpace(line)}

		start := i - 2
		if start < 0 {
			start = 0
		}
		end := i + 3
		if end > len(lines) {
			end = len(lines)
		}
		window := strings.Join(lines[start:end], "\n")
		if m := durationRe.FindString(window); m != "" {
			entry.Duration = m
		}
		entries = append(entries, entry)
	}
	return entries
}

func containsAnyWord(haystack string, words []string) bool {
	for _, w := range words {
		idx := 0
		for {
			pos := strings.Index(haystack[idx:], w)
			if pos < 0 {
				break
			}
			abs := idx + pos
			if isWordBoundary(haystack, abs, len(w)) {
				return true
			}
			idx = abs + len(w)
		}
	}
	return false
}

// isWordBoundary reports whether haystack[pos:pos+n] is not embedded in a
// longer alphanumeric run, so "bs" does not match inside "jobs".
func isWordBoundary(haystack string, pos, n int) bool {
	if pos > 0 {
		prev := rune(haystack[pos-1])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			return false
		}
	}
	if pos+n < len(haystack) {
		next := rune(haystack[pos+n])
		if unicode.IsLetter(next) || unicode.IsDigit(next) {
			return false
		}
	}
	return true
}

// titleCase uppercases the first letter of each word, leaving the rest as-is.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var _ Extractor = (*RuleBased)(nil)
