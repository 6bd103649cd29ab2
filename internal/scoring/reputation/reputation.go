// internal/scoring/reputation/reputation.go

// Package reputation maps free-text university names to NIRF and QS ranks and turns
// those ranks into the education reputation boost.
package reputation

import "strings"

const (
	MaxNIRFRank = 100
	MaxQSRank   = 1500

	nirfWeight = 0.6
	qsWeight   = 0.4
	boostScale = 0.2
)

// Entry is one institution. A nil rank means the institution is not ranked on that list.
type Entry struct {
	Key     string   `json:"key"`
	Aliases []string `json:"aliases,omitempty"`
	NIRF    *int     `json:"nirf,omitempty"`
	QS      *int     `json:"qs,omitempty"`
}

// Lookup is an immutable reputation table. Matching is by substring against the key or
// any alias, and the first entry in table order wins.
type Lookup struct {
	entries []Entry
}

func New(entries []Entry) *Lookup {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		if key == "" {
			continue
		}
		aliases := make([]string, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				aliases = append(aliases, a)
			}
		}
		out = append(out, Entry{Key: key, Aliases: aliases, NIRF: copyInt(e.NIRF), QS: copyInt(e.QS)})
	}
	return &Lookup{entries: out}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Len returns the number of entries in the table.
func (l *Lookup) Len() int { return len(l.entries) }

// Entries returns a copy of the table in match order.
func (l *Lookup) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Lookup) Find(name string) (Entry, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || l == nil {
		return Entry{}, false
	}
	for _, e := range l.entries {
		if strings.Contains(name, e.Key) {
			return e, true
		}
		for _, a := range e.Aliases {
			if strings.Contains(name, a) {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// RankScore converts a rank to 0..100, linear and clipped at maxRank. Absent or
// non-positive ranks score 0.
func RankScore(rank *int, maxRank int) float64 {
	if rank == nil || *rank <= 0 || maxRank <= 0 {
		return 0
	}
	r := *rank
	if r > maxRank {
		r = maxRank
	}
	s := float64(maxRank-r) / float64(maxRank) * 100
	if s < 0 {
		return 0
	}
	return s
}

// Boost returns the 0..20 education bonus for name; unknown institutions get 0.
func (l *Lookup) Boost(name string) float64 {
	e, ok := l.Find(name)
	if !ok {
		return 0
	}
	combined := nirfWeight*RankScore(e.NIRF, MaxNIRFRank) + qsWeight*RankScore(e.QS, MaxQSRank)
	return combined * boostScale
}

// NormalizedRanks10 returns the NIRF and QS rank scores on a 0..10 display scale. A rank
// the matched entry does not carry, or no match at all, yields nil.
func (l *Lookup) NormalizedRanks10(name string) (nirf10, qs10 *float64) {
	e, ok := l.Find(name)
	if !ok {
		return nil, nil
	}
	if e.NIRF != nil {
		v := RankScore(e.NIRF, MaxNIRFRank) / 10
		nirf10 = &v
	}
	if e.QS != nil {
		v := RankScore(e.QS, MaxQSRank) / 10
		qs10 = &v
	}
	return nirf10, qs10
}
