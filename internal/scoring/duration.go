// internal/scoring/duration.go
package scoring

import (
	"regexp"
	"strconv"
)

var (
	yearsPattern  = regexp.MustCompile(`(?i)(\d+)\s*years?`)
	monthsPattern = regexp.MustCompile(`(?i)(\d+)\s*months?`)
)

// ParseExperienceYears extracts whole years from free text such as "3 years 4 months".
// A years figure wins over months; months alone are floor-divided by 12. Anything
// unparseable is 0.
func ParseExperienceYears(text string) int {
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
		return 0
	}
	if m := monthsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n / 12
		}
	}
	return 0
}
