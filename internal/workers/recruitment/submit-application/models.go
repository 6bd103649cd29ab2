// internal/workers/recruitment/submit-application/models.go
package submitapplication

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	Success          bool    `json:"success"`
	Score            float64 `json:"score"`
	RankingRefreshed bool    `json:"rankingRefreshed"`
	RunID            string  `json:"runId"`
}
