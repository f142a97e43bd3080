// Package anomaly inspects extracted resume fields for data-quality and
// fraud red flags and folds them into a weighted severity score.
package anomaly

import (
	"fmt"
	"strings"

	"resume-screener/internal/parser"
)

// Severity levels for individual issues and the overall report.
const (
	SeverityNone   = "none"
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Issue types.
const (
	TypeMissingName           = "missing_name"
	TypeMissingEmail          = "missing_email"
	TypeMissingPhone          = "missing_phone"
	TypeLanguageAsSkill       = "language_as_skill"
	TypeGenericSoftware       = "generic_software"
	TypeEducationInExperience = "education_in_experience"
	TypeExperienceInEducation = "experience_in_education"
	TypeDuplicateSkill        = "duplicate_skill"
	TypeDuplicateExperience   = "duplicate_experience"
)

// Severity point values. The weight is their order-independent sum, capped.
const (
	pointsHigh   = 15
	pointsMedium = 8
	pointsLow    = 3
	maxWeight    = 100
)

// Issue is one detected data-quality problem, always the same shape
// regardless of which check produced it.
type Issue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Message  string `json:"message"`
}

// Report aggregates all issues found in one resume.
type Report struct {
	Issues   []Issue `json:"issues"`
	Weight   int     `json:"weight"`
	Severity string  `json:"severity"`
	Count    int     `json:"count"`
}

// HasAnomalies reports whether any issue was detected.
func (r Report) HasAnomalies() bool {
	return len(r.Issues) > 0
}

// placeholderNames are heading-like strings the extractor sometimes mistakes
// for a candidate name.
var placeholderNames = map[string]struct{}{
	parser.UnknownCandidate: {},
	"EDUCATION":             {},
	"Contact":               {},
	"Phone":                 {},
	"SUMMARY":               {},
	"Profile":               {},
	"Resume":                {},
	"CERTIFICATIONS":        {},
	"Personal Information:": {},
	"EXPERIENCE":            {},
}

// spokenLanguages should live in a Languages section, not in technical skills.
var spokenLanguages = map[string]struct{}{
	"english": {}, "urdu": {}, "punjabi": {}, "sindhi": {}, "pashto": {},
	"hindi": {}, "arabic": {}, "french": {}, "spanish": {}, "german": {},
	"chinese": {},
}

// genericSoftware carries little signal for technical roles.
var genericSoftware = map[string]struct{}{
	"ms word": {}, "microsoft word": {}, "word": {},
	"ms excel": {}, "microsoft excel": {}, "excel": {},
	"ms powerpoint": {}, "powerpoint": {}, "ppt": {},
	"ms office": {}, "microsoft office": {},
	"windows": {}, "outlook": {}, "internet": {}, "email": {},
}

var degreeIndicators = []string{
	"bachelor", "master", "phd", "doctorate",
	"bs ", "ms ", "mba", "bba", "bcs", "mcs",
	"matriculation", "intermediate", "fsc", "ics",
}

var institutionIndicators = []string{"university", "college", "school", "institute"}

// businessSuffixes exclude companies like "X University Solutions" from the
// institution check.
var businessSuffixes = []string{"solutions", "systems", "technologies", "consulting", "software"}

var jobTitlePhrases = []string{
	"software engineer", "data analyst", "project manager", "team lead",
	"senior developer", "junior developer", "intern at", "trainee at",
	"consultant at", "analyst at", "engineer at", "manager at",
	"developer at", "designer at", "coordinator at", "specialist at",
	"associate at", "executive at", "director at", "ceo", "cto",
}

var workPhrases = []string{
	"employed at", "worked at", "working at", "hired by",
	"full-time position", "part-time position", "contract position",
	"remote position", "on-site position", "employment period",
	"job responsibilities", "reported to", "supervised team",
	"company:", "employer:", "organization:", "firm:",
}

// Detect runs all checks against the parsed resume. Checks are independent;
// none short-circuits another. The report weight is a deterministic function
// of the issues alone.
func Detect(resume parser.ParsedResume) Report {
	var issues []Issue

	issues = append(issues, checkMissingContact(resume)...)
	issues = append(issues, checkLanguagesInSkills(resume.Skills)...)
	issues = append(issues, checkGenericSoftware(resume.Skills)...)
	issues = append(issues, checkEducationInExperience(resume.Experience)...)
	issues = append(issues, checkExperienceInEducation(resume.Education)...)
	issues = append(issues, checkDuplicateSkills(resume.Skills)...)
	issues = append(issues, checkDuplicateExperiences(resume.Experience)...)

	if issues == nil {
		issues = []Issue{}
	}

	weight := 0
	for _, issue := range issues {
		weight += pointsOf(issue.Severity)
	}
	if weight > maxWeight {
		weight = maxWeight
	}

	return Report{
		Issues:   issues,
		Weight:   weight,
		Severity: bucketSeverity(weight),
		Count:    len(issues),
	}
}

func pointsOf(severity string) int {
	switch severity {
	case SeverityHigh:
		return pointsHigh
	case SeverityMedium:
		return pointsMedium
	case SeverityLow:
		return pointsLow
	default:
		return 0
	}
}

func bucketSeverity(weight int) string {
	switch {
	case weight == 0:
		return SeverityNone
	case weight <= 10:
		return SeverityLow
	case weight <= 30:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

func checkMissingContact(resume parser.ParsedResume) []Issue {
	var issues []Issue

	_, placeholder := placeholderNames[resume.Name]
	if resume.Name == "" || placeholder {
		value := resume.Name
		if value == "" {
			value = "Not provided"
		}
		issues = append(issues, Issue{
			Type:     TypeMissingName,
			Severity: SeverityHigh,
			Field:    "candidate_info",
			Value:    value,
			Message:  fmt.Sprintf("Missing/unclear candidate name: %q", resume.Name),
		})
	}
	if resume.Email == "" {
		issues = append(issues, Issue{
			Type:     TypeMissingEmail,
			Severity: SeverityHigh,
			Field:    "candidate_info",
			Value:    "Not provided",
			Message:  "Missing email address",
		})
	}
	if resume.Phone == "" {
		issues = append(issues, Issue{
			Type:     TypeMissingPhone,
			Severity: SeverityHigh,
			Field:    "candidate_info",
			Value:    "Not provided",
			Message:  "Missing phone number",
		})
	}
	return issues
}

func checkLanguagesInSkills(skills []string) []Issue {
	var issues []Issue
	for _, skill := range skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if _, ok := spokenLanguages[normalized]; ok {
			issues = append(issues, Issue{
				Type:     TypeLanguageAsSkill,
				Severity: SeverityMedium,
				Field:    "skills",
				Value:    skill,
				Message:  fmt.Sprintf("Language as skill: %s", skill),
			})
		}
	}
	return issues
}

func checkGenericSoftware(skills []string) []Issue {
	var issues []Issue
	for _, skill := range skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if _, ok := genericSoftware[normalized]; ok {
			issues = append(issues, Issue{
				Type:     TypeGenericSoftware,
				Severity: SeverityLow,
				Field:    "skills",
				Value:    skill,
				Message:  fmt.Sprintf("Generic software: %s", skill),
			})
		}
	}
	return issues
}

// checkEducationInExperience flags an entry only when both a degree token and
// an institution token are present, or the job title itself names a degree.
func checkEducationInExperience(experience []parser.Experience) []Issue {
	var issues []Issue
	for _, exp := range experience {
		title := strings.ToLower(exp.Title)
		company := strings.ToLower(exp.Company)
		combined := title + " " + company

		degreeFound := containsAny(combined, degreeIndicators)
		institutionFound := institutionInCompany(company)
		degreeInTitle := containsAny(title, degreeIndicators)

		if (degreeFound && institutionFound) || degreeInTitle {
			issues = append(issues, Issue{
				Type:     TypeEducationInExperience,
				Severity: SeverityHigh,
				Field:    "experience",
				Value:    fmt.Sprintf("%s at %s", exp.Title, exp.Company),
				Message:  fmt.Sprintf("Education in experience: %s", exp.Title),
			})
		}
	}
	return issues
}

func institutionInCompany(company string) bool {
	if !containsAny(company, institutionIndicators) {
		return false
	}
	return !containsAny(company, businessSuffixes)
}

func checkExperienceInEducation(education []parser.Education) []Issue {
	var issues []Issue
	for _, edu := range education {
		combined := strings.ToLower(edu.Degree) + " " + strings.ToLower(edu.Institution)
		if containsAny(combined, jobTitlePhrases) || containsAny(combined, workPhrases) {
			issues = append(issues, Issue{
				Type:     TypeExperienceInEducation,
				Severity: SeverityHigh,
				Field:    "education",
				Value:    fmt.Sprintf("%s at %s", edu.Degree, edu.Institution),
				Message:  fmt.Sprintf("Experience in education: %s", edu.Degree),
			})
		}
	}
	return issues
}

func checkDuplicateSkills(skills []string) []Issue {
	var issues []Issue
	seen := map[string]struct{}{}
	for _, skill := range skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if _, ok := seen[normalized]; ok {
			issues = append(issues, Issue{
				Type:     TypeDuplicateSkill,
				Severity: SeverityLow,
				Field:    "skills",
				Value:    skill,
				Message:  fmt.Sprintf("Duplicate: %s", skill),
			})
			continue
		}
		seen[normalized] = struct{}{}
	}
	return issues
}

func checkDuplicateExperiences(experience []parser.Experience) []Issue {
	var issues []Issue
	seen := map[string]struct{}{}
	for _, exp := range experience {
		key := strings.ToLower(exp.Title) + "_" + strings.ToLower(exp.Company)
		if key == "_" {
			continue
		}
		if _, ok := seen[key]; ok {
			issues = append(issues, Issue{
				Type:     TypeDuplicateExperience,
				Severity: SeverityMedium,
				Field:    "experience",
				Value:    fmt.Sprintf("%s at %s", exp.Title, exp.Company),
				Message:  fmt.Sprintf("Duplicate: %s", exp.Title),
			})
			continue
		}
		seen[key] = struct{}{}
	}
	return issues
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
