package screenings

import "github.com/gin-gonic/gin"

type createRequest struct {
	ResumeText     string `json:"resumeText"`
	DocumentID     string `json:"documentId"`
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription"`
}

type bulkResumeRequest struct {
	Label      string `json:"label"`
	ResumeText string `json:"resumeText"`
	DocumentID string `json:"documentId"`
}

type bulkRequest struct {
	JobTitle       string              `json:"jobTitle"`
	JobDescription string              `json:"jobDescription"`
	Resumes        []bulkResumeRequest `json:"resumes"`
}

func toScreeningResponse(s Screening) gin.H {
	resp := gin.H{
		"screeningId": s.ID,
		"status":      s.Status,
		"jobTitle":    s.JobTitle,
		"createdAt":   s.CreatedAt,
	}
	if s.BatchID != "" {
		resp["batchId"] = s.BatchID
	}
	if s.Status == StatusCompleted {
		resp["candidateName"] = s.CandidateName
		resp["matchScore"] = s.MatchScore
		resp["anomalyWeight"] = s.AnomalyWeight
		resp["atsScore"] = s.ATSScore
		resp["tier"] = s.Tier
		if s.Result != nil {
			resp["result"] = s.Result
		}
	}
	if s.Status == StatusFailed {
		resp["error"] = s.ErrorMessage
	}
	if s.CompletedAt != nil {
		resp["completedAt"] = s.CompletedAt
	}
	return resp
}

func toListItem(s Screening) gin.H {
	item := gin.H{
		"screeningId": s.ID,
		"status":      s.Status,
		"jobTitle":    s.JobTitle,
		"createdAt":   s.CreatedAt,
	}
	if s.Status == StatusCompleted {
		item["candidateName"] = s.CandidateName
		item["matchScore"] = s.MatchScore
		item["tier"] = s.Tier
	}
	return item
}

func toBatchResponse(batch Batch, ranked []RankedScreening, failed []Screening) gin.H {
	results := make([]gin.H, 0, len(ranked))
	for _, entry := range ranked {
		item := toScreeningResponse(entry.Screening)
		item["rank"] = entry.Rank
		results = append(results, item)
	}
	failures := make([]gin.H, 0, len(failed))
	for _, s := range failed {
		failures = append(failures, gin.H{
			"screeningId": s.ID,
			"label":       s.CandidateName,
			"error":       s.ErrorMessage,
		})
	}
	return gin.H{
		"batchId":   batch.ID,
		"status":    batch.Status,
		"jobTitle":  batch.JobTitle,
		"total":     batch.Total,
		"completed": batch.Completed,
		"failed":    batch.Failed,
		"createdAt": batch.CreatedAt,
		"results":   results,
		"failures":  failures,
	}
}
