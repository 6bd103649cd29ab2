// internal/models/application.go
package models

import "time"

// Application statuses. Transitions are owned by the reviewer portal; the scoring engine
// only ever writes Score.
const (
	StatusInReview    = "in_review"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
)

// Application is one candidate submission as stored in the applications table.
type Application struct {
	ID                string    `json:"id"`
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Department        string    `json:"department"`
	Position          string    `json:"position"`
	HighestDegree     string    `json:"highestDegree"`
	University        string    `json:"university"`
	GraduationYear    *int      `json:"graduationYear,omitempty"`
	YearsOfExperience string    `json:"yearsOfExperience"`
	PreviousPositions string    `json:"previousPositions"`
	Publications      *int      `json:"publications,omitempty"`
	Documents         Documents `json:"documents"`
	Score             *float64  `json:"score,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Documents records which uploads are present. File storage itself is external.
type Documents struct {
	CV                bool `json:"cv"`
	CoverLetter       bool `json:"coverLetter"`
	ResearchStatement bool `json:"researchStatement"`
	TeachingStatement bool `json:"teachingStatement"`
	DegreeCertificate bool `json:"degreeCertificate"`
}

// Experience is a teaching or research position held by the candidate.
type Experience struct {
	Institution string `json:"institution"`
	Post        string `json:"post"`
	Description string `json:"description"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

type ResearchInfo struct {
	ScopusGeneralPapers int    `json:"scopusGeneralPapers"`
	ConferencePapers    int    `json:"conferencePapers"`
	EditedBooks         int    `json:"editedBooks"`
	ScopusID            string `json:"scopusId,omitempty"`
	GoogleScholarID     string `json:"googleScholarId,omitempty"`
	ORCID               string `json:"orcid,omitempty"`
}

// HasResearcherID reports whether any external researcher identifier is on file.
func (r ResearchInfo) HasResearcherID() bool {
	return r.ScopusID != "" || r.GoogleScholarID != "" || r.ORCID != ""
}

// TotalPublications is scopus + conference + edited books.
func (r ResearchInfo) TotalPublications() int {
	return r.ScopusGeneralPapers + r.ConferencePapers + r.EditedBooks
}

// Candidate is the snapshot every scorer reads. Collections are never nil and
// ResearchInfo is the zero value when the candidate has none on file.
type Candidate struct {
	Application         Application
	TeachingExperiences []Experience
	ResearchExperiences []Experience
	ResearchInfo        ResearchInfo
	HasResearchInfo     bool
}

// NewCandidate normalizes nil collections to empty ones.
func NewCandidate(app Application, teaching, research []Experience, info *ResearchInfo) Candidate {
	c := Candidate{
		Application:         app,
		TeachingExperiences: teaching,
		ResearchExperiences: research,
	}
	if c.TeachingExperiences == nil {
		c.TeachingExperiences = []Experience{}
	}
	if c.ResearchExperiences == nil {
		c.ResearchExperiences = []Experience{}
	}
	if info != nil {
		c.ResearchInfo = *info
		c.HasResearchInfo = true
	}
	return c
}
