// Package match scores a parsed resume against a job posting. The composite
// score blends skill overlap, free-text similarity, title affinity and
// years of experience.
package match

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"resume-screener/internal/parser"
)

// Component weights of the composite match score.
const (
	skillsWeight     = 0.40
	semanticWeight   = 0.30
	titleWeight      = 0.20
	experienceWeight = 0.10
)

// neutralScore stands in for a component that has nothing to measure.
const neutralScore = 50

// highValueBonus multiplies matches on highValueSkills in the skill score.
const highValueBonus = 1.5

// Result is the per-component breakdown of one resume/job comparison.
type Result struct {
	MatchScore      int      `json:"matchScore"`
	SkillScore      int      `json:"skillScore"`
	SemanticScore   int      `json:"semanticScore"`
	TitleScore      int      `json:"titleScore"`
	ExperienceScore int      `json:"experienceScore"`
	MatchedSkills   []string `json:"matchedSkills"`
	MissingSkills   []string `json:"missingSkills"`
}

// Scorer compares resumes to jobs. The Similarity oracle is injected so the
// semantic component can be swapped without touching the formulas.
type Scorer struct {
	sim Similarity
}

// NewScorer builds a scorer around the given similarity oracle. A nil oracle
// pins the semantic component to the neutral score.
func NewScorer(sim Similarity) *Scorer {
	return &Scorer{sim: sim}
}

// Score compares one parsed resume against a job posting. Identical inputs
// always produce identical results.
func (s *Scorer) Score(resume parser.ParsedResume, jobTitle, jobDescription string) Result {
	jobSkills := ExtractSkillsFromText(jobTitle, jobDescription)
	skillScore, matched, missing := s.skillScore(resume.Skills, jobSkills)
	semanticScore := s.semanticScore(resume.RawText, jobTitle+" "+jobDescription)
	titleScore := s.titleScore(resume.Experience, jobTitle)
	experienceScore := s.experienceScore(resume, jobDescription)

	composite := float64(skillScore)*skillsWeight +
		float64(semanticScore)*semanticWeight +
		float64(titleScore)*titleWeight +
		float64(experienceScore)*experienceWeight

	return Result{
		MatchScore:      clampScore(composite),
		SkillScore:      skillScore,
		SemanticScore:   semanticScore,
		TitleScore:      titleScore,
		ExperienceScore: experienceScore,
		MatchedSkills:   matched,
		MissingSkills:   missing,
	}
}

func (s *Scorer) skillScore(resumeSkills, jobSkills []string) (score int, matched, missing []string) {
	resumeSet := normalizeSet(resumeSkills)

	matched = []string{}
	missing = []string{}
	weighted := 0.0
	for _, jobSkill := range jobSkills {
		canonical := NormalizeSkill(jobSkill)
		if _, ok := resumeSet[canonical]; ok {
			matched = append(matched, canonical)
			if _, high := highValueSkills[canonical]; high {
				weighted += highValueBonus
			} else {
				weighted++
			}
		} else {
			missing = append(missing, canonical)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	denom := len(jobSkills)
	if denom < 1 {
		denom = 1
	}
	raw := weighted / float64(denom) * 100
	if raw > 100 {
		raw = 100
	}
	return int(math.Round(raw)), matched, missing
}

func (s *Scorer) semanticScore(resumeText, jobText string) int {
	if s.sim == nil || strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobText) == "" {
		return neutralScore
	}
	// Two short real-world documents rarely exceed 0.5 cosine similarity,
	// so the raw value is stretched before clamping.
	return clampScore(s.sim.Similarity(resumeText, jobText) * 200)
}

var titleStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "in": {}, "at": {}, "for": {},
}

func (s *Scorer) titleScore(experience []parser.Experience, jobTitle string) int {
	resumeTitle := ""
	if len(experience) > 0 {
		resumeTitle = experience[0].Title
	}
	if strings.TrimSpace(resumeTitle) == "" || strings.TrimSpace(jobTitle) == "" {
		return neutralScore
	}

	a := strings.ToLower(strings.TrimSpace(resumeTitle))
	b := strings.ToLower(strings.TrimSpace(jobTitle))
	if similarityRatio(a, b) > 0.8 {
		return 95
	}

	resumeWords := significantWords(a)
	jobWords := significantWords(b)
	if len(resumeWords) == 0 {
		return neutralScore
	}
	overlapCount := 0
	for word := range resumeWords {
		if _, ok := jobWords[word]; ok {
			overlapCount++
		}
	}
	overlap := float64(overlapCount) / float64(len(resumeWords))
	return int(math.Round(20 + overlap*75))
}

func significantWords(title string) map[string]struct{} {
	words := map[string]struct{}{}
	for _, word := range strings.Fields(title) {
		if _, stop := titleStopwords[word]; !stop {
			words[word] = struct{}{}
		}
	}
	return words
}

// similarityRatio is a character-bigram Dice coefficient, a cheap stand-in
// for a full edit-distance ratio on short titles.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	bigramsA := bigrams(a)
	bigramsB := bigrams(b)
	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0
	}
	common := 0
	for bg, countA := range bigramsA {
		if countB, ok := bigramsB[bg]; ok {
			common += minInt(countA, countB)
		}
	}
	totalA, totalB := 0, 0
	for _, c := range bigramsA {
		totalA += c
	}
	for _, c := range bigramsB {
		totalB += c
	}
	return 2 * float64(common) / float64(totalA+totalB)
}

func bigrams(s string) map[string]int {
	out := map[string]int{}
	runes := []rune(s)
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])]++
	}
	return out
}

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s*(?:of)?\s*(?:experience|exp)`),
	regexp.MustCompile(`(?i)(?:experience|exp)\D*?(\d+)\+?\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)(\d+)\s*-\s*\d+\s*(?:years?|yrs?)`),
}

// defaultCandidateYears stands in when tenure cannot be determined from the
// resume at all.
const defaultCandidateYears = 2

func (s *Scorer) experienceScore(resume parser.ParsedResume, jobDescription string) int {
	required := extractYears(jobDescription)
	if required == 0 {
		return 70
	}
	years := candidateYears(resume)
	switch {
	case years >= required:
		return 95
	case years >= required-1:
		return 75
	default:
		score := 70 * years / required
		if score < 20 {
			score = 20
		}
		return score
	}
}

// candidateYears sums the dated ranges of the parsed experience entries,
// falls back to explicit "N years" phrasing in the raw text, and finally to
// defaultCandidateYears so a tenure the extractor missed does not floor the
// component on its own.
func candidateYears(resume parser.ParsedResume) int {
	total := 0
	for _, exp := range resume.Experience {
		total += rangeYears(exp.Duration)
	}
	if total > 0 {
		return total
	}
	if years := extractYears(resume.RawText); years > 0 {
		return years
	}
	return defaultCandidateYears
}

var durationRangeRe = regexp.MustCompile(`(?i)((?:19|20)\d{2})\s*(?:-|–|to)\s*((?:19|20)\d{2}|present)`)

// rangeYears converts a "2019 - 2023" style duration into a year count.
// Open-ended ranges count up to the current year.
func rangeYears(duration string) int {
	m := durationRangeRe.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	end := time.Now().UTC().Year()
	if !strings.EqualFold(m[2], "present") {
		if end, err = strconv.Atoi(m[2]); err != nil {
			return 0
		}
	}
	if end < start {
		return 0
	}
	return end - start
}

func extractYears(text string) int {
	for _, re := range yearsPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			years, err := strconv.Atoi(m[1])
			if err == nil {
				return years
			}
		}
	}
	return 0
}

func clampScore(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return int(math.Round(v))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
