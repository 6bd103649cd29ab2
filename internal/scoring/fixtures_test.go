// internal/scoring/fixtures_test.go
package scoring

import (
	"time"

	"faculty-ranking-workers/internal/models"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC) }
}

func intPtr(v int) *int { return &v }

// strongCandidate is the PhD/IIT Delhi applicant used across scorer and orchestrator tests.
func strongCandidate() models.Candidate {
	app := models.Application{
		ID:                "app-101",
		FullName:          "Asha Rao",
		Email:             "asha.rao@example.org",
		Phone:             "+91-9800000000",
		Department:        "Computer Science",
		Position:          "Assistant Professor",
		HighestDegree:     "PhD",
		University:        "IIT Delhi",
		GraduationYear:    intPtr(2021),
		YearsOfExperience: "8 years 2 months",
		PreviousPositions: "Senior Research Engineer at Tata Consultancy Services; Best Paper Award 2019",
		Documents: models.Documents{
			CV:                true,
			CoverLetter:       true,
			ResearchStatement: true,
			DegreeCertificate: true,
		},
		Status: models.StatusInReview,
	}
	teaching := []models.Experience{{
		Institution: "NIT Warangal",
		Post:        "Assistant Professor",
		Description: "Taught undergraduate courses in algorithms and data structures",
	}}
	research := []models.Experience{{
		Institution: "IIT Delhi",
		Post:        "Research Scholar",
		Description: "Worked on graph neural networks for traffic forecasting",
	}}
	info := &models.ResearchInfo{
		ScopusGeneralPapers: 12,
		ConferencePapers:    4,
		EditedBooks:         0,
		ScopusID:            "57190000000",
	}
	return models.NewCandidate(app, teaching, research, info)
}

func newTestScorers() *Scorers {
	return NewScorers(nil, nil, fixedClock(2024))
}
