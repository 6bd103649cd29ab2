// internal/scoring/classify.go
package scoring

import (
	"fmt"
	"regexp"
	"strings"
)

type DegreeTier int

const (
	DegreeNone DegreeTier = iota
	DegreeBachelor
	DegreeMaster
	DegreeDoctorate
)

func (d DegreeTier) String() string {
	switch d {
	case DegreeDoctorate:
		return "doctorate"
	case DegreeMaster:
		return "master"
	case DegreeBachelor:
		return "bachelor"
	default:
		return "none"
	}
}

type UniversityTier int

const (
	UniversityUnknown UniversityTier = iota
	UniversityOther
	UniversityGeneric
	UniversityTop
)

// SeniorityBand awards Points when previous-positions text mentions any keyword.
// Bands are checked in order.
type SeniorityBand struct {
	Keywords []string `json:"keywords"`
	Points   float64  `json:"points"`
}

// Rules are the keyword tables behind every free-text heuristic. Keywords match
// case-insensitively at the start of a word, so "nit" matches "NIT Trichy" and "NITK"
// but not "community".
type Rules struct {
	DoctorateKeywords       []string        `json:"doctorateKeywords"`
	MasterKeywords          []string        `json:"masterKeywords"`
	BachelorKeywords        []string        `json:"bachelorKeywords"`
	TopUniversities         []string        `json:"topUniversities"`
	GenericUniversity       []string        `json:"genericUniversity"`
	PrestigiousInstitutions []string        `json:"prestigiousInstitutions"`
	TeachingTitles          []string        `json:"teachingTitles"`
	CourseKeywords          []string        `json:"courseKeywords"`
	SeniorityBands          []SeniorityBand `json:"seniorityBands"`
	SeniorityDefault        float64         `json:"seniorityDefault"`
	IndustryKeywords        []string        `json:"industryKeywords"`
	AwardKeywords           []string        `json:"awardKeywords"`
}

func DefaultRules() Rules {
	return Rules{
		DoctorateKeywords: []string{"phd", "ph.d", "doctor", "d.phil", "dphil"},
		MasterKeywords:    []string{"master", "m.tech", "mtech", "m.e.", "m.sc", "msc", "mba", "mca", "m.phil", "mphil", "m.s."},
		BachelorKeywords:  []string{"bachelor", "b.tech", "btech", "b.e.", "b.sc", "bsc", "bca", "b.a.", "b.com"},
		TopUniversities: []string{
			"iit", "iisc", "nit", "bits", "iiser", "iiit", "tifr",
			"indian institute of technology", "indian institute of science",
			"national institute of technology", "birla institute of technology and science",
			"massachusetts institute of technology", "stanford", "oxford", "cambridge", "harvard",
		},
		GenericUniversity:       []string{"university", "institute"},
		PrestigiousInstitutions: []string{"iit", "iisc", "nit", "iiser", "tifr", "drdo", "isro", "csir", "barc"},
		TeachingTitles:          []string{"professor", "associate", "assistant", "lecturer"},
		CourseKeywords:          []string{"course", "subject", "curriculum", "syllabus", "teaching"},
		SeniorityBands: []SeniorityBand{
			{Keywords: []string{"senior", "lead", "head"}, Points: 25},
			{Keywords: []string{"manager", "director"}, Points: 20},
			{Keywords: []string{"engineer", "analyst"}, Points: 15},
		},
		SeniorityDefault: 10,
		IndustryKeywords: []string{
			"software", "engineer", "developer", "consult", "industry", "industrial",
			"manufactur", "r&d", "research and development", "technology", "pvt", "ltd", "corporation",
		},
		AwardKeywords: []string{"award", "recognition", "honor", "honour", "prize", "fellowship", "scholarship"},
	}
}

type matcher struct {
	re *regexp.Regexp
}

// newMatcher compiles keywords into one case-insensitive pattern. Every keyword must start
// a word; with wholeWord it must also end one, which keeps acronyms such as "nit" or "iit"
// from matching inside "Nitte" or "NIIT".
func newMatcher(keywords []string, wholeWord bool) (matcher, error) {
	parts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(strings.ToLower(k)); k != "" {
			parts = append(parts, regexp.QuoteMeta(k))
		}
	}
	if len(parts) == 0 {
		return matcher{}, nil
	}
	pattern := `(?i)\b(?:` + strings.Join(parts, "|") + `)`
	if wholeWord {
		pattern += `\b`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return matcher{}, err
	}
	return matcher{re: re}, nil
}

func (m matcher) match(text string) bool {
	return m.re != nil && text != "" && m.re.MatchString(text)
}

type seniorityMatcher struct {
	matcher
	points float64
}

// Classifier is the compiled, immutable form of Rules.
type Classifier struct {
	doctorate, master, bachelor matcher
	top, generic, prestige      matcher
	teachingTitle, course       matcher
	industry, award             matcher
	seniority                   []seniorityMatcher
	seniorityDefault            float64
}

func NewClassifier(r Rules) (*Classifier, error) {
	c := &Classifier{seniorityDefault: r.SeniorityDefault}

	lists := []struct {
		name      string
		dst       *matcher
		kws       []string
		wholeWord bool
	}{
		{"doctorateKeywords", &c.doctorate, r.DoctorateKeywords, false},
		{"masterKeywords", &c.master, r.MasterKeywords, false},
		{"bachelorKeywords", &c.bachelor, r.BachelorKeywords, false},
		{"topUniversities", &c.top, r.TopUniversities, true},
		{"genericUniversity", &c.generic, r.GenericUniversity, false},
		{"prestigiousInstitutions", &c.prestige, r.PrestigiousInstitutions, true},
		{"teachingTitles", &c.teachingTitle, r.TeachingTitles, false},
		{"courseKeywords", &c.course, r.CourseKeywords, false},
		{"industryKeywords", &c.industry, r.IndustryKeywords, false},
		{"awardKeywords", &c.award, r.AwardKeywords, false},
	}
	for _, l := range lists {
		m, err := newMatcher(l.kws, l.wholeWord)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", l.name, err)
		}
		*l.dst = m
	}

	for i, b := range r.SeniorityBands {
		m, err := newMatcher(b.Keywords, false)
		if err != nil {
			return nil, fmt.Errorf("compile seniorityBands[%d]: %w", i, err)
		}
		c.seniority = append(c.seniority, seniorityMatcher{matcher: m, points: b.Points})
	}
	return c, nil
}

// MustDefaultClassifier panics only if the built-in rules fail to compile.
func MustDefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// ClassifyDegree returns the highest matching tier; tiers are tested doctorate first.
func (c *Classifier) ClassifyDegree(text string) DegreeTier {
	switch {
	case c.doctorate.match(text):
		return DegreeDoctorate
	case c.master.match(text):
		return DegreeMaster
	case c.bachelor.match(text):
		return DegreeBachelor
	default:
		return DegreeNone
	}
}

func (c *Classifier) ClassifyUniversity(text string) UniversityTier {
	switch {
	case strings.TrimSpace(text) == "":
		return UniversityUnknown
	case c.top.match(text):
		return UniversityTop
	case c.generic.match(text):
		return UniversityGeneric
	default:
		return UniversityOther
	}
}

func (c *Classifier) IsPrestigiousInstitution(text string) bool { return c.prestige.match(text) }

func (c *Classifier) IsTeachingTitle(text string) bool { return c.teachingTitle.match(text) }

func (c *Classifier) MentionsCoursework(text string) bool { return c.course.match(text) }

func (c *Classifier) MentionsIndustry(text string) bool { return c.industry.match(text) }

func (c *Classifier) MentionsAward(text string) bool { return c.award.match(text) }

// ClassifySeniority returns the points of the first band matching text, or the default.
func (c *Classifier) ClassifySeniority(text string) float64 {
	for _, b := range c.seniority {
		if b.match(text) {
			return b.points
		}
	}
	return c.seniorityDefault
}
