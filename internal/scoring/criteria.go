// internal/scoring/criteria.go
package scoring

import (
	"strings"
	"time"
	"unicode/utf8"

	"faculty-ranking-workers/internal/models"
	"faculty-ranking-workers/internal/scoring/reputation"
)

const (
	Education     = "education"
	Research      = "research"
	Teaching      = "teaching"
	Industry      = "industry"
	Publications  = "publications"
	Awards        = "awards"
	Communication = "communication"
)

// CriterionNames lists the seven criteria in their canonical (criterion id) order.
var CriterionNames = []string{Education, Research, Teaching, Industry, Publications, Awards, Communication}

// ScoreFunc scores one criterion. It never fails: missing data contributes nothing.
type ScoreFunc func(models.Candidate) float64

// Scorers holds the collaborators shared by the seven criterion functions. It is
// read-only after construction and safe for concurrent use.
type Scorers struct {
	classifier *Classifier
	lookup     *reputation.Lookup
	now        func() time.Time
}

func NewScorers(classifier *Classifier, lookup *reputation.Lookup, now func() time.Time) *Scorers {
	if classifier == nil {
		classifier = MustDefaultClassifier()
	}
	if lookup == nil {
		lookup = reputation.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Scorers{classifier: classifier, lookup: lookup, now: now}
}

// Reputation is the university table the education scorer uses.
func (s *Scorers) Reputation() *reputation.Lookup {
	return s.lookup
}

// For returns the scorer registered under name, or nil.
func (s *Scorers) For(name string) ScoreFunc {
	switch name {
	case Education:
		return s.Education
	case Research:
		return s.Research
	case Teaching:
		return s.Teaching
	case Industry:
		return s.Industry
	case Publications:
		return s.Publications
	case Awards:
		return s.Awards
	case Communication:
		return s.Communication
	default:
		return nil
	}
}

func clip(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > models.MaxCriterionScore:
		return models.MaxCriterionScore
	default:
		return v
	}
}

func present(s string) bool { return strings.TrimSpace(s) != "" }

// band returns the points of the first threshold v reaches, or fallback.
func band(v int, thresholds []int, points []float64, fallback float64) float64 {
	for i, t := range thresholds {
		if v >= t {
			return points[i]
		}
	}
	return fallback
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func (s *Scorers) Education(c models.Candidate) float64 {
	app := c.Application
	score := 0.0

	switch s.classifier.ClassifyDegree(app.HighestDegree) {
	case DegreeDoctorate:
		score += 40
	case DegreeMaster:
		score += 25
	case DegreeBachelor:
		score += 15
	}

	switch s.classifier.ClassifyUniversity(app.University) {
	case UniversityTop:
		score += 30
	case UniversityGeneric:
		score += 20
	case UniversityOther:
		score += 10
	}
	score += s.lookup.Boost(app.University)

	if app.GraduationYear != nil {
		since := s.now().Year() - *app.GraduationYear
		switch {
		case since <= 5:
			score += 15
		case since <= 10:
			score += 10
		default:
			score += 5
		}
	}

	return clip(score)
}

func (s *Scorers) Research(c models.Candidate) float64 {
	score := 0.0

	if present(c.Application.YearsOfExperience) {
		years := ParseExperienceYears(c.Application.YearsOfExperience)
		score += band(years, []int{10, 5, 2}, []float64{25, 20, 15}, 5)
	}

	score += minFloat(float64(len(c.ResearchExperiences))*10, 30)

	for _, e := range c.ResearchExperiences {
		if s.classifier.IsPrestigiousInstitution(e.Institution) {
			score += 15
			break
		}
	}

	if total := c.ResearchInfo.TotalPublications(); total > 0 {
		score += band(total, []int{20, 10, 5}, []float64{20, 15, 10}, 5)
	}

	return clip(score)
}

func (s *Scorers) Teaching(c models.Candidate) float64 {
	score := 0.0

	if present(c.Application.YearsOfExperience) {
		years := ParseExperienceYears(c.Application.YearsOfExperience)
		score += band(years, []int{10, 5, 2}, []float64{30, 25, 20}, 10)
	}

	score += minFloat(float64(len(c.TeachingExperiences))*8, 25)

	for _, e := range c.TeachingExperiences {
		if s.classifier.IsTeachingTitle(e.Post) {
			score += 20
			break
		}
	}
	for _, e := range c.TeachingExperiences {
		if s.classifier.MentionsCoursework(e.Description) {
			score += 15
			break
		}
	}

	return clip(score)
}

func (s *Scorers) Industry(c models.Candidate) float64 {
	app := c.Application
	score := 0.0

	if present(app.YearsOfExperience) {
		years := ParseExperienceYears(app.YearsOfExperience)
		score += band(years, []int{10, 5, 2}, []float64{30, 25, 20}, 10)
	}

	if present(app.PreviousPositions) {
		score += s.classifier.ClassifySeniority(app.PreviousPositions)
		if s.classifier.MentionsIndustry(app.PreviousPositions) {
			score += 20
		}
	}

	return clip(score)
}

func (s *Scorers) Publications(c models.Candidate) float64 {
	info := c.ResearchInfo
	score := 0.0

	if info.ScopusGeneralPapers > 0 {
		score += band(info.ScopusGeneralPapers, []int{15, 10, 5}, []float64{40, 30, 20}, 10)
	}
	if info.ConferencePapers > 0 {
		score += band(info.ConferencePapers, []int{10, 5}, []float64{20, 15}, 10)
	}
	if info.EditedBooks > 0 {
		score += band(info.EditedBooks, []int{3}, []float64{15}, 10)
	}
	if info.HasResearcherID() {
		score += 15
	}
	if p := c.Application.Publications; p != nil && *p > 0 {
		score += band(*p, []int{20, 10, 5}, []float64{10, 7, 5}, 3)
	}

	return clip(score)
}

func (s *Scorers) Awards(c models.Candidate) float64 {
	app := c.Application
	score := 0.0

	if s.classifier.MentionsAward(app.PreviousPositions) {
		score += 50
	}
	score += band(c.ResearchInfo.ScopusGeneralPapers, []int{20, 10, 5}, []float64{30, 20, 10}, 0)
	if present(app.HighestDegree) && present(app.YearsOfExperience) {
		score += 20
	}

	return clip(score)
}

func requiredDocuments(d models.Documents) (have, total int) {
	for _, ok := range []bool{d.CV, d.CoverLetter, d.ResearchStatement, d.TeachingStatement, d.DegreeCertificate} {
		total++
		if ok {
			have++
		}
	}
	return have, total
}

func requiredFields(a models.Application) (have, total int) {
	fields := []bool{
		present(a.FullName),
		present(a.Email),
		present(a.Phone),
		present(a.Department),
		present(a.Position),
		present(a.HighestDegree),
		present(a.University),
		a.GraduationYear != nil,
		present(a.YearsOfExperience),
	}
	for _, ok := range fields {
		total++
		if ok {
			have++
		}
	}
	return have, total
}

func textLength(s string) int { return utf8.RuneCountInString(strings.TrimSpace(s)) }

func (s *Scorers) Communication(c models.Candidate) float64 {
	app := c.Application
	score := 0.0

	docs, docTotal := requiredDocuments(app.Documents)
	score += float64(docs) / float64(docTotal) * 40

	fields, fieldTotal := requiredFields(app)
	score += float64(fields) / float64(fieldTotal) * 30

	if n := textLength(app.PreviousPositions); n > 0 {
		switch {
		case n > 50:
			score += 15
		case n > 20:
			score += 10
		default:
			score += 5
		}
	}

	for _, e := range c.ResearchExperiences {
		if textLength(e.Description) > 30 {
			score += 15
			break
		}
	}

	return clip(score)
}
