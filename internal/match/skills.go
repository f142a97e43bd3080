package match

import "strings"

// skillAliases folds common spellings onto one canonical token before any
// comparison.
var skillAliases = map[string]string{
	"js":                    "javascript",
	"ts":                    "typescript",
	"py":                    "python",
	"react.js":              "react",
	"reactjs":               "react",
	"react js":              "react",
	"node.js":               "node",
	"nodejs":                "node",
	"node js":               "node",
	"vue.js":                "vue",
	"vuejs":                 "vue",
	"next.js":               "nextjs",
	"next js":               "nextjs",
	"c#":                    "csharp",
	"c sharp":               "csharp",
	"c++":                   "cpp",
	"cplusplus":             "cpp",
	".net":                  "dotnet",
	"dot net":               "dotnet",
	"mongo":                 "mongodb",
	"mongo db":              "mongodb",
	"postgres":              "postgresql",
	"pg":                    "postgresql",
	"ms sql":                "mssql",
	"sql server":            "mssql",
	"amazon web services":   "aws",
	"google cloud platform": "gcp",
	"google cloud":          "gcp",
	"ml":                    "machine learning",
	"dl":                    "deep learning",
	"ai":                    "artificial intelligence",
	"ci/cd":                 "cicd",
	"ci cd":                 "cicd",
	"dev ops":               "devops",
	"ui/ux":                 "uiux",
	"ui ux":                 "uiux",
	"power bi":              "powerbi",
	"ms office":             "microsoft office",
	"ms excel":              "excel",
}

// highValueSkills get extra weight in the skill score.
var highValueSkills = map[string]struct{}{
	"python": {}, "javascript": {}, "react": {}, "node": {}, "typescript": {},
	"java": {}, "csharp": {}, "aws": {}, "azure": {}, "gcp": {},
	"docker": {}, "kubernetes": {}, "sql": {}, "mongodb": {},
	"machine learning": {}, "deep learning": {}, "tensorflow": {}, "pytorch": {},
	"flutter": {}, "swift": {}, "kotlin": {}, "golang": {}, "rust": {},
	"graphql": {}, "rest api": {}, "microservices": {}, "cicd": {},
	"postgresql": {}, "redis": {}, "elasticsearch": {},
}

// NormalizeSkill lowercases, trims and resolves aliases.
func NormalizeSkill(skill string) string {
	normalized := strings.ToLower(strings.TrimSpace(skill))
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// normalizeSet folds a list of raw skills into a canonical set.
func normalizeSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		normalized := NormalizeSkill(skill)
		if normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

// knownSkills returns every canonical skill plus alias spelled form, used to
// mine skill mentions out of free job text.
func knownSkills() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for skill := range highValueSkills {
		add(skill)
	}
	for alias, canonical := range skillAliases {
		add(alias)
		add(canonical)
	}
	return out
}

// ExtractSkillsFromText finds known skill mentions in a job title and
// description. When nothing matches it falls back to the significant words
// of the title so the scorer always has something to compare against.
func ExtractSkillsFromText(title, description string) []string {
	text := strings.ToLower(title + " " + description)
	set := map[string]struct{}{}
	for _, skill := range knownSkills() {
		if containsWord(text, skill) {
			set[NormalizeSkill(skill)] = struct{}{}
		}
	}
	if len(set) == 0 {
		for _, word := range strings.Fields(strings.ToLower(title)) {
			word = strings.Trim(word, ".,;:()[]")
			if len(word) > 2 {
				set[word] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for skill := range set {
		out = append(out, skill)
	}
	return out
}

// containsWord reports whether needle appears in text at word boundaries.
// Needles may contain spaces or symbols, so this is a scan rather than a
// field split.
func containsWord(text, needle string) bool {
	for from := 0; ; {
		idx := strings.Index(text[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		if boundaryAt(text, start-1) && boundaryAt(text, end) {
			return true
		}
		from = start + 1
	}
}

func boundaryAt(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9')
}
