// internal/workers/recruitment/get-top-ranked-applications/models.go
package gettoprankedapplications

import "faculty-ranking-workers/internal/models"

type Input struct {
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	SortBy     string `json:"sortBy,omitempty"`
}

type Output struct {
	Applications []models.RankedApplication `json:"applications"`
	Count        int                        `json:"count"`
	SortBy       string                     `json:"sortBy"`
	Cached       bool                       `json:"cached"`
}
