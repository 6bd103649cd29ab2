// internal/models/score.go
package models

import "time"

// MaxCriterionScore is the ceiling of every criterion scorer.
const MaxCriterionScore = 100.0

// CriterionScore is one persisted row of a candidate's breakdown.
type CriterionScore struct {
	ApplicationID string    `json:"applicationId"`
	CriterionID   int       `json:"criterionId"`
	Criterion     string    `json:"criterion"`
	Score         float64   `json:"score"`
	MaxScore      float64   `json:"maxScore"`
	Weight        float64   `json:"weight"`
	WeightedScore float64   `json:"weightedScore"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// RankingEntry is one row of the derived global ranking.
type RankingEntry struct {
	ApplicationID string    `json:"applicationId"`
	Rank          int       `json:"rank"`
	Score         float64   `json:"score"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RankingPlan turns the scores read under the ranking lock, and the fingerprint stored with
// the current table, into the table to write. write=false keeps the current table.
type RankingPlan func(scored []RankingEntry, storedFingerprint string) (ranked []RankingEntry, fingerprint string, write bool)

// RankedApplication is the read model returned by the top-ranked query.
type RankedApplication struct {
	ID               string   `json:"id"`
	FullName         string   `json:"fullName"`
	Department       string   `json:"department"`
	Position         string   `json:"position"`
	University       string   `json:"university"`
	Score            *float64 `json:"score,omitempty"`
	Rank             *int     `json:"rank,omitempty"`
	Status           string   `json:"status"`
	ScopusPapers     int      `json:"scopusPapers"`
	ConferencePapers int      `json:"conferencePapers"`
	PaperCount       int      `json:"paperCount"`
	NIRF10           *float64 `json:"nirf10,omitempty"`
	QS10             *float64 `json:"qs10,omitempty"`
}

// ScoringRun is the audit record of one orchestrator run.
type ScoringRun struct {
	RunID            string        `json:"runId"`
	ApplicationID    string        `json:"applicationId"`
	State            string        `json:"state"`
	FailedState      string        `json:"failedState,omitempty"`
	Score            *float64      `json:"score,omitempty"`
	RankingRefreshed bool          `json:"rankingRefreshed"`
	Error            string        `json:"error,omitempty"`
	StartedAt        time.Time     `json:"startedAt"`
	Duration         time.Duration `json:"duration"`
}
