// internal/workers/recruitment/get-score-breakdown/models.go
package getscorebreakdown

import "faculty-ranking-workers/internal/models"

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID string                  `json:"applicationId"`
	Scores        []models.CriterionScore `json:"scores"`
	Cached        bool                    `json:"cached"`
}
