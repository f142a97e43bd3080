// Package jobsearch finds open jobs to match a resume against. Postings come
// from a remote board when one is configured and from a built-in sample set
// otherwise, so matching always has something to rank.
package jobsearch

import "context"

// Job is one open position returned by a source.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// Source lists open jobs for a query.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]Job, error)
}

// SampleSource serves a fixed set of postings; it backs development and the
// remote-source fallback.
type SampleSource struct{}

var sampleJobs = []Job{
	{
		Title:       "Software Engineer",
		Company:     "Systems Limited",
		Location:    "Lahore",
		Description: "Build backend services in Python and PostgreSQL. 2+ years experience required. Docker and AWS a plus.",
	},
	{
		Title:       "Frontend Developer",
		Company:     "Techlogix",
		Location:    "Karachi",
		Description: "React and TypeScript developer for customer dashboards. JavaScript, CSS, REST API experience.",
	},
	{
		Title:       "Data Analyst",
		Company:     "Afiniti",
		Location:    "Islamabad",
		Description: "SQL, Excel and Python for reporting pipelines. Power BI experience preferred.",
	},
	{
		Title:       "DevOps Engineer",
		Company:     "NetSol",
		Location:    "Lahore",
		Description: "Kubernetes, Docker, CI/CD pipelines and AWS infrastructure. 3+ years experience.",
	},
	{
		Title:       "Mobile Developer",
		Company:     "Arbisoft",
		Location:    "Lahore",
		Description: "Flutter or React Native apps. Kotlin and Swift backgrounds welcome.",
	},
}

// Search filters the sample set by a case-insensitive query over titles.
func (SampleSource) Search(ctx context.Context, query string, limit int) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := filterJobs(sampleJobs, query)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
