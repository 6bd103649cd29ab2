// internal/scoring/classify_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDegree(t *testing.T) {
	c := MustDefaultClassifier()

	tests := map[string]DegreeTier{
		"PhD":                          DegreeDoctorate,
		"Ph.D. in Physics":             DegreeDoctorate,
		"Doctor of Philosophy":         DegreeDoctorate,
		"PhD (pursuing), M.Tech":       DegreeDoctorate,
		"M.Tech in CSE":                DegreeMaster,
		"Master of Science":            DegreeMaster,
		"MBA":                          DegreeMaster,
		"B.E. Mechanical":              DegreeBachelor,
		"Bachelor of Arts":             DegreeBachelor,
		"Diploma in Civil Engineering": DegreeNone,
		"":                             DegreeNone,
	}
	for in, want := range tests {
		assert.Equal(t, want, c.ClassifyDegree(in), "degree %q", in)
	}
}

func TestClassifyUniversity(t *testing.T) {
	c := MustDefaultClassifier()

	assert.Equal(t, UniversityTop, c.ClassifyUniversity("IIT Delhi"))
	assert.Equal(t, UniversityTop, c.ClassifyUniversity("NIT Trichy"))
	assert.Equal(t, UniversityTop, c.ClassifyUniversity("Indian Institute of Technology Bombay"))
	assert.Equal(t, UniversityGeneric, c.ClassifyUniversity("Anna University"))
	assert.Equal(t, UniversityGeneric, c.ClassifyUniversity("Vellore Institute of Management"))
	assert.Equal(t, UniversityOther, c.ClassifyUniversity("St. Xavier's College"))
	// "nit" must start a word.
	assert.Equal(t, UniversityOther, c.ClassifyUniversity("Community College of Denver"))
	assert.Equal(t, UniversityUnknown, c.ClassifyUniversity("   "))
}

func TestClassifier_InstitutionNamesMatchWholeWords(t *testing.T) {
	c := MustDefaultClassifier()

	tests := []struct {
		name     string
		top      UniversityTier
		prestige bool
	}{
		{"NIT Trichy", UniversityTop, true},
		{"IIT-Bombay", UniversityTop, true},
		{"Nitte University", UniversityGeneric, false},
		{"NIIT Limited", UniversityOther, false},
		{"Bitsoft Institute", UniversityGeneric, false},
		{"Iitala College", UniversityOther, false},
		{"CSIR-NCL Pune", UniversityOther, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.top, c.ClassifyUniversity(tt.name), "tier of %q", tt.name)
		assert.Equal(t, tt.prestige, c.IsPrestigiousInstitution(tt.name), "prestige of %q", tt.name)
	}

	// other keyword families still match as word prefixes
	assert.True(t, c.MentionsIndustry("Manufacturing plant supervisor"))
	assert.Equal(t, 25.0, c.ClassifySeniority("Leading the platform team"))
}

func TestClassifySeniority(t *testing.T) {
	c := MustDefaultClassifier()

	assert.Equal(t, 25.0, c.ClassifySeniority("Team Lead, Infosys"))
	assert.Equal(t, 25.0, c.ClassifySeniority("Senior Manager"))
	assert.Equal(t, 20.0, c.ClassifySeniority("Project Manager at L&T"))
	assert.Equal(t, 15.0, c.ClassifySeniority("Data Analyst"))
	assert.Equal(t, 10.0, c.ClassifySeniority("Intern"))
}

func TestClassifierKeywordLists(t *testing.T) {
	c := MustDefaultClassifier()

	assert.True(t, c.IsPrestigiousInstitution("ISRO Satellite Centre"))
	assert.True(t, c.IsPrestigiousInstitution("CSIR-NCL Pune"))
	assert.False(t, c.IsPrestigiousInstitution("Local Polytechnic"))

	assert.True(t, c.IsTeachingTitle("Associate Professor"))
	assert.True(t, c.IsTeachingTitle("Guest Lecturer"))
	assert.False(t, c.IsTeachingTitle("Lab Technician"))

	assert.True(t, c.MentionsCoursework("Designed the syllabus for compilers"))
	assert.False(t, c.MentionsCoursework("Supervised lab sessions"))

	assert.True(t, c.MentionsAward("Received the Young Scientist Award"))
	assert.True(t, c.MentionsAward("INSPIRE Fellowship holder"))
	assert.False(t, c.MentionsAward("Software developer"))
}

func TestNewClassifier_SwappableRules(t *testing.T) {
	rules := DefaultRules()
	rules.TopUniversities = []string{"example tech"}
	rules.SeniorityBands = nil
	rules.SeniorityDefault = 7

	c, err := NewClassifier(rules)
	require.NoError(t, err)

	assert.Equal(t, UniversityTop, c.ClassifyUniversity("Example Tech University"))
	assert.Equal(t, UniversityGeneric, c.ClassifyUniversity("IIT Delhi University"))
	assert.Equal(t, 7.0, c.ClassifySeniority("Senior Engineer"))
}

func TestNewClassifier_EmptyListsNeverMatch(t *testing.T) {
	c, err := NewClassifier(Rules{})
	require.NoError(t, err)

	assert.Equal(t, DegreeNone, c.ClassifyDegree("PhD"))
	assert.False(t, c.MentionsAward("award"))
	assert.Equal(t, 0.0, c.ClassifySeniority("Senior"))
}
