package match

import (
	"reflect"
	"strings"
	"testing"

	"resume-screener/internal/parser"
)

func TestNormalizeSkill(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"JS", "javascript"},
		{" React.js ", "react"},
		{"Node JS", "node"},
		{"C#", "csharp"},
		{"c++", "cpp"},
		{"Amazon Web Services", "aws"},
		{"Postgres", "postgresql"},
		{"CI/CD", "cicd"},
		{"Python", "python"},
		{"kubernetes", "kubernetes"},
	}
	for _, tc := range tests {
		if got := NormalizeSkill(tc.in); got != tc.want {
			t.Errorf("NormalizeSkill(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractSkillsFromText(t *testing.T) {
	skills := ExtractSkillsFromText(
		"Senior Backend Engineer",
		"We need Python, Docker and PostgreSQL. Experience with AWS is a plus.",
	)
	set := map[string]struct{}{}
	for _, s := range skills {
		set[s] = struct{}{}
	}
	for _, want := range []string{"python", "docker", "postgresql", "aws"} {
		if _, ok := set[want]; !ok {
			t.Errorf("expected %q in extracted skills %v", want, skills)
		}
	}
	if _, ok := set["r"]; ok {
		t.Error("single letters must not leak in as skills")
	}
}

func TestExtractSkillsFallbackToTitle(t *testing.T) {
	skills := ExtractSkillsFromText("Accounting Supervisor", "Manage the ledger team.")
	if len(skills) == 0 {
		t.Fatal("expected title-word fallback, got none")
	}
	set := map[string]struct{}{}
	for _, s := range skills {
		set[s] = struct{}{}
	}
	if _, ok := set["accounting"]; !ok {
		t.Errorf("expected title word fallback, got %v", skills)
	}
}

func TestSkillScoreAliasesAndBonus(t *testing.T) {
	s := NewScorer(nil)
	resume := parser.ParsedResume{Skills: []string{"JS", "React.js"}}
	// job skills resolve to javascript + react, both high-value
	res := s.Score(resume, "Frontend Developer", "Must know JavaScript and React.")
	if len(res.MatchedSkills) != 2 {
		t.Fatalf("matched = %v, want javascript and react", res.MatchedSkills)
	}
	if res.SkillScore != 100 {
		t.Errorf("skillScore = %d, want capped 100 (1.5 bonus per high-value match)", res.SkillScore)
	}
	if !reflect.DeepEqual(res.MatchedSkills, []string{"javascript", "react"}) {
		t.Errorf("matched skills not sorted: %v", res.MatchedSkills)
	}
}

func TestMissingSkillsSorted(t *testing.T) {
	s := NewScorer(nil)
	resume := parser.ParsedResume{Skills: []string{"python"}}
	res := s.Score(resume, "Engineer", "Needs python, rust and kotlin.")
	if !reflect.DeepEqual(res.MissingSkills, []string{"kotlin", "rust"}) {
		t.Errorf("missing = %v, want [kotlin rust]", res.MissingSkills)
	}
}

func TestSemanticScoreNeutralWithoutOracle(t *testing.T) {
	s := NewScorer(nil)
	res := s.Score(parser.ParsedResume{RawText: "anything"}, "Engineer", "Python job")
	if res.SemanticScore != neutralScore {
		t.Errorf("semanticScore = %d, want %d without an oracle", res.SemanticScore, neutralScore)
	}
}

type fixedSim struct{ v float64 }

func (f fixedSim) Similarity(a, b string) float64 { return f.v }

func TestSemanticScoreStretchAndClamp(t *testing.T) {
	tests := []struct {
		sim  float64
		want int
	}{
		{0, 0},
		{0.25, 50},
		{0.5, 100},
		{0.9, 100},
	}
	for _, tc := range tests {
		s := NewScorer(fixedSim{tc.sim})
		res := s.Score(parser.ParsedResume{RawText: "text"}, "Engineer", "desc")
		if res.SemanticScore != tc.want {
			t.Errorf("sim %.2f: semanticScore = %d, want %d", tc.sim, res.SemanticScore, tc.want)
		}
	}
}

func TestTitleScore(t *testing.T) {
	s := NewScorer(nil)
	tests := []struct {
		name        string
		resumeTitle string
		jobTitle    string
		want        int
	}{
		{"near identical", "Software Engineer", "Software Engineer", 95},
		{"no resume title", "", "Software Engineer", neutralScore},
		{"no overlap", "Graphic Designer", "Data Scientist", 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resume := parser.ParsedResume{}
			if tc.resumeTitle != "" {
				resume.Experience = []parser.Experience{{Title: tc.resumeTitle}}
			}
			res := s.Score(resume, tc.jobTitle, "")
			if res.TitleScore != tc.want {
				t.Errorf("titleScore = %d, want %d", res.TitleScore, tc.want)
			}
		})
	}
}

func TestTitleScorePartialOverlap(t *testing.T) {
	s := NewScorer(nil)
	resume := parser.ParsedResume{Experience: []parser.Experience{{Title: "Backend Engineer"}}}
	res := s.Score(resume, "Senior Frontend Engineer", "")
	// one of two resume words overlaps: 20 + 0.5*75 = 57.5 -> 58
	if res.TitleScore != 58 {
		t.Errorf("titleScore = %d, want 58", res.TitleScore)
	}
}

func TestExperienceScore(t *testing.T) {
	s := NewScorer(nil)
	tests := []struct {
		name       string
		resumeText string
		jobDesc    string
		want       int
	}{
		{"job states no requirement", "5 years of experience", "Great team.", 70},
		{"meets requirement", "5 years of experience", "Requires 3+ years experience", 95},
		{"one short", "2 years of experience", "Requires 3+ years experience", 75},
		{"well short", "1 year of experience", "Requires 6 years of experience", 20},
		// "5 years experience" wins over the range lower bound, so required is 5
		{"range form", "4 yrs experience", "3-5 years experience required", 75},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := s.Score(parser.ParsedResume{RawText: tc.resumeText}, "Engineer", tc.jobDesc)
			if res.ExperienceScore != tc.want {
				t.Errorf("experienceScore = %d, want %d", res.ExperienceScore, tc.want)
			}
		})
	}
}

func TestExperienceScoreFromDurations(t *testing.T) {
	s := NewScorer(nil)
	tests := []struct {
		name       string
		experience []parser.Experience
		jobDesc    string
		want       int
	}{
		{
			"single dated range",
			[]parser.Experience{{Title: "Backend Developer", Duration: "2019 - 2024"}},
			"Requires 2+ years experience",
			95,
		},
		{
			"ranges sum across entries",
			[]parser.Experience{
				{Title: "Junior Developer", Duration: "2018-2020"},
				{Title: "Developer", Duration: "2020-2023"},
			},
			"Requires 5 years of experience",
			95,
		},
		{
			"open-ended range",
			[]parser.Experience{{Title: "Engineer", Duration: "2020 to present"}},
			"Requires 3+ years experience",
			95,
		},
		{
			"range below requirement",
			[]parser.Experience{{Title: "Intern", Duration: "2022 - 2023"}},
			"Requires 6 years of experience",
			20,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resume := parser.ParsedResume{
				RawText:    "worked on backend services",
				Experience: tc.experience,
			}
			res := s.Score(resume, "Engineer", tc.jobDesc)
			if res.ExperienceScore != tc.want {
				t.Errorf("experienceScore = %d, want %d", res.ExperienceScore, tc.want)
			}
		})
	}
}

func TestExperienceScoreDefaultTenure(t *testing.T) {
	s := NewScorer(nil)
	// No dated ranges and no "N years" phrasing: tenure defaults to 2.
	resume := parser.ParsedResume{RawText: "built several backend services"}

	res := s.Score(resume, "Engineer", "Requires 3+ years experience")
	if res.ExperienceScore != 75 {
		t.Errorf("experienceScore = %d, want 75 (default tenure one short of 3)", res.ExperienceScore)
	}

	res = s.Score(resume, "Engineer", "Requires 2+ years experience")
	if res.ExperienceScore != 95 {
		t.Errorf("experienceScore = %d, want 95 (default tenure meets 2)", res.ExperienceScore)
	}
}

func TestScoreStrongCandidateEndToEnd(t *testing.T) {
	rawText := "Python, React, Node.js\n" +
		"Bachelor in CS from XYZ University (2020)\n" +
		"Software Engineer at ABC Corp (2021-2023)"
	resume, err := parser.New().Parse(rawText)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	s := NewScorer(NewTFIDF())
	res := s.Score(resume, "Software Engineer", "Looking for a Python/React developer with 2+ years experience")
	if res.ExperienceScore != 95 {
		t.Errorf("experienceScore = %d, want 95 from the 2021-2023 range", res.ExperienceScore)
	}
	if res.MatchScore < 60 {
		t.Errorf("matchScore = %d, want >= 60 for a strong candidate", res.MatchScore)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer(NewTFIDF())
	resume := parser.ParsedResume{
		RawText:    "Python developer with 4 years of experience in Django and PostgreSQL.",
		Skills:     []string{"Python", "Django", "PostgreSQL"},
		Experience: []parser.Experience{{Title: "Python Developer"}},
	}
	a := s.Score(resume, "Python Developer", "Looking for a Python developer, 3+ years experience, PostgreSQL.")
	b := s.Score(resume, "Python Developer", "Looking for a Python developer, 3+ years experience, PostgreSQL.")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
	if a.MatchScore < 0 || a.MatchScore > 100 {
		t.Errorf("matchScore out of range: %d", a.MatchScore)
	}
}

func TestTFIDFSimilarity(t *testing.T) {
	sim := NewTFIDF()
	if got := sim.Similarity("python backend service", "python backend service"); got < 0.99 {
		t.Errorf("identical docs: similarity = %f, want ~1", got)
	}
	if got := sim.Similarity("python backend", "watercolor painting"); got != 0 {
		t.Errorf("disjoint docs: similarity = %f, want 0", got)
	}
	if got := sim.Similarity("", "anything"); got != 0 {
		t.Errorf("empty doc: similarity = %f, want 0", got)
	}
	related := sim.Similarity(
		"experienced python developer building web services",
		"we need a python developer for web services",
	)
	unrelated := sim.Similarity(
		"experienced python developer building web services",
		"pastry chef with cake decorating skills",
	)
	if related <= unrelated {
		t.Errorf("related (%f) should beat unrelated (%f)", related, unrelated)
	}
}

func TestTokenizeDropsSingleChars(t *testing.T) {
	tokens := tokenize("a Go C developer, 2019!")
	joined := strings.Join(tokens, " ")
	if joined != "go developer 2019" {
		t.Errorf("tokens = %q, want %q", joined, "go developer 2019")
	}
}
