package anomaly

import (
	"testing"

	"resume-screener/internal/decision"
	"resume-screener/internal/parser"
)

func cleanResume() parser.ParsedResume {
	return parser.ParsedResume{
		Name:   "Ayesha Khan",
		Email:  "ayesha@example.com",
		Phone:  "+92 300 1234567",
		Skills: []string{"Python", "React"},
		Education: []parser.Education{
			{Degree: "BS Computer Science", Institution: "FAST University", Year: "2020"},
		},
		Experience: []parser.Experience{
			{Title: "Software Engineer", Company: "Systems Ltd", Duration: "2020 - 2023"},
		},
	}
}

func TestDetectCleanResume(t *testing.T) {
	report := Detect(cleanResume())
	if report.HasAnomalies() {
		t.Fatalf("unexpected issues: %+v", report.Issues)
	}
	if report.Weight != 0 {
		t.Errorf("weight = %d, want 0", report.Weight)
	}
	if report.Severity != SeverityNone {
		t.Errorf("severity = %q, want %q", report.Severity, SeverityNone)
	}
	if report.Issues == nil {
		t.Error("issues should be an empty slice, not nil")
	}
}

func TestDetectMissingAllContact(t *testing.T) {
	resume := cleanResume()
	resume.Name = parser.UnknownCandidate
	resume.Email = ""
	resume.Phone = ""

	report := Detect(resume)
	if report.Count != 3 {
		t.Fatalf("count = %d, want 3: %+v", report.Count, report.Issues)
	}
	if report.Weight != 45 {
		t.Errorf("weight = %d, want 45", report.Weight)
	}
	if report.Severity != SeverityHigh {
		t.Errorf("severity = %q, want %q", report.Severity, SeverityHigh)
	}
}

func TestDetectPlaceholderName(t *testing.T) {
	resume := cleanResume()
	resume.Name = "EDUCATION"

	report := Detect(resume)
	if len(report.Issues) != 1 || report.Issues[0].Type != TypeMissingName {
		t.Fatalf("issues = %+v, want one missing_name", report.Issues)
	}
	if report.Issues[0].Severity != SeverityHigh {
		t.Errorf("severity = %q, want high", report.Issues[0].Severity)
	}
}

func TestDetectDuplicateSkills(t *testing.T) {
	resume := cleanResume()
	resume.Skills = []string{"Python", "python ", "React"}

	report := Detect(resume)
	if len(report.Issues) != 1 {
		t.Fatalf("issues = %+v, want exactly one", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Type != TypeDuplicateSkill || issue.Severity != SeverityLow {
		t.Errorf("issue = %+v, want low duplicate_skill", issue)
	}
	if report.Weight != 3 {
		t.Errorf("weight = %d, want 3", report.Weight)
	}
	if report.Severity != SeverityLow {
		t.Errorf("severity = %q, want low", report.Severity)
	}
}

func TestDetectLanguageAndGenericSkills(t *testing.T) {
	resume := cleanResume()
	resume.Skills = []string{"Python", "English", "MS Word", "Urdu"}

	report := Detect(resume)
	types := map[string]int{}
	for _, issue := range report.Issues {
		types[issue.Type]++
	}
	if types[TypeLanguageAsSkill] != 2 {
		t.Errorf("language_as_skill count = %d, want 2", types[TypeLanguageAsSkill])
	}
	if types[TypeGenericSoftware] != 1 {
		t.Errorf("generic_software count = %d, want 1", types[TypeGenericSoftware])
	}
	// 8 + 8 + 3
	if report.Weight != 19 {
		t.Errorf("weight = %d, want 19", report.Weight)
	}
	if report.Severity != SeverityMedium {
		t.Errorf("severity = %q, want medium", report.Severity)
	}
}

func TestDetectEducationInExperience(t *testing.T) {
	tests := []struct {
		name string
		exp  parser.Experience
		want bool
	}{
		{
			name: "degree and institution",
			exp:  parser.Experience{Title: "Bachelor of Science", Company: "Punjab University"},
			want: true,
		},
		{
			name: "degree in title only",
			exp:  parser.Experience{Title: "MBA Candidate", Company: "Acme Corp"},
			want: true,
		},
		{
			name: "institution-like company name",
			exp:  parser.Experience{Title: "Bachelor Intern", Company: "University Solutions"},
			// "solutions" marks it a business, but the degree is still in the title
			want: true,
		},
		{
			name: "plain job",
			exp:  parser.Experience{Title: "Backend Developer", Company: "Systems Ltd"},
			want: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resume := cleanResume()
			resume.Experience = []parser.Experience{tc.exp}
			report := Detect(resume)
			found := false
			for _, issue := range report.Issues {
				if issue.Type == TypeEducationInExperience {
					found = true
				}
			}
			if found != tc.want {
				t.Errorf("flagged = %v, want %v (%+v)", found, tc.want, report.Issues)
			}
		})
	}
}

func TestDetectExperienceInEducation(t *testing.T) {
	resume := cleanResume()
	resume.Education = []parser.Education{
		{Degree: "Software Engineer", Institution: "Techlogix", Year: "2019"},
	}
	report := Detect(resume)
	found := false
	for _, issue := range report.Issues {
		if issue.Type == TypeExperienceInEducation && issue.Severity == SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Errorf("expected experience_in_education issue, got %+v", report.Issues)
	}
}

func TestDetectDuplicateExperience(t *testing.T) {
	resume := cleanResume()
	resume.Experience = []parser.Experience{
		{Title: "Software Engineer", Company: "Systems Ltd"},
		{Title: "software engineer", Company: "SYSTEMS LTD"},
		{Title: "", Company: ""},
		{Title: "", Company: ""},
	}
	report := Detect(resume)
	count := 0
	for _, issue := range report.Issues {
		if issue.Type == TypeDuplicateExperience {
			count++
		}
	}
	// empty title+company pairs never count as duplicates
	if count != 1 {
		t.Errorf("duplicate_experience count = %d, want 1: %+v", count, report.Issues)
	}
}

func TestWeightClampedAt100(t *testing.T) {
	resume := cleanResume()
	resume.Name = ""
	resume.Email = ""
	resume.Phone = ""
	resume.Education = nil
	var exps []parser.Experience
	for i := 0; i < 6; i++ {
		exps = append(exps, parser.Experience{Title: "BS Holder", Company: "Oxford University"})
	}
	resume.Experience = exps

	report := Detect(resume)
	if report.Weight != 100 {
		t.Errorf("weight = %d, want clamp at 100", report.Weight)
	}
	if report.Severity != SeverityHigh {
		t.Errorf("severity = %q, want high", report.Severity)
	}
}

func TestBucketSeverity(t *testing.T) {
	tests := []struct {
		weight int
		want   string
	}{
		{0, SeverityNone},
		{3, SeverityLow},
		{10, SeverityLow},
		{11, SeverityMedium},
		{30, SeverityMedium},
		{31, SeverityHigh},
		{100, SeverityHigh},
	}
	for _, tc := range tests {
		if got := bucketSeverity(tc.weight); got != tc.want {
			t.Errorf("bucketSeverity(%d) = %q, want %q", tc.weight, got, tc.want)
		}
	}
}

func TestShouldShortlist(t *testing.T) {
	clean := Detect(cleanResume())
	flagged := Report{Weight: 45, Severity: SeverityHigh, Count: 3}

	tests := []struct {
		name       string
		report     Report
		matchScore int
		wantTier   string
	}{
		{"strong match, clean report", clean, 70, decision.TierShortlisted},
		{"strong match, heavy report", flagged, 70, decision.TierShortlistedWithFlag},
		{"moderate match, heavy report", flagged, 50, decision.TierNeedsReview},
		{"weak match", clean, 30, decision.TierRejected},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ShouldShortlist(tc.report, tc.matchScore, 30)
			if got.Tier != tc.wantTier {
				t.Errorf("tier = %s, want %s", got.Tier, tc.wantTier)
			}
			want := decision.Decide(tc.matchScore, tc.report.Weight, 30)
			if got != want {
				t.Errorf("ShouldShortlist diverged from the tier table: %+v vs %+v", got, want)
			}
		})
	}
}
