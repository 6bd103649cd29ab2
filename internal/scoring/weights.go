// internal/scoring/weights.go
package scoring

import "fmt"

// CriterionWeight is one row of the scoring_criteria table.
type CriterionWeight struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// WeightTable is immutable once built; Criteria hands out a copy.
type WeightTable struct {
	criteria []CriterionWeight
	byName   map[string]CriterionWeight
}

func DefaultWeights() []CriterionWeight {
	return []CriterionWeight{
		{ID: 1, Name: Education, Weight: 0.20},
		{ID: 2, Name: Research, Weight: 0.20},
		{ID: 3, Name: Teaching, Weight: 0.15},
		{ID: 4, Name: Industry, Weight: 0.10},
		{ID: 5, Name: Publications, Weight: 0.15},
		{ID: 6, Name: Awards, Weight: 0.10},
		{ID: 7, Name: Communication, Weight: 0.10},
	}
}

// NewWeightTable validates that every criterion appears exactly once with a weight in
// [0,1] and a unique id. Weights need not sum to 1.
func NewWeightTable(rows []CriterionWeight) (WeightTable, error) {
	known := make(map[string]bool, len(CriterionNames))
	for _, n := range CriterionNames {
		known[n] = true
	}

	t := WeightTable{byName: make(map[string]CriterionWeight, len(rows))}
	ids := make(map[int]bool, len(rows))
	for _, r := range rows {
		if !known[r.Name] {
			return WeightTable{}, fmt.Errorf("unknown criterion %q", r.Name)
		}
		if _, dup := t.byName[r.Name]; dup {
			return WeightTable{}, fmt.Errorf("criterion %q declared twice", r.Name)
		}
		if ids[r.ID] || r.ID <= 0 {
			return WeightTable{}, fmt.Errorf("criterion %q has invalid or duplicate id %d", r.Name, r.ID)
		}
		if r.Weight < 0 || r.Weight > 1 {
			return WeightTable{}, fmt.Errorf("criterion %q weight %v outside [0,1]", r.Name, r.Weight)
		}
		ids[r.ID] = true
		t.byName[r.Name] = r
		t.criteria = append(t.criteria, r)
	}
	for _, n := range CriterionNames {
		if _, ok := t.byName[n]; !ok {
			return WeightTable{}, fmt.Errorf("criterion %q missing from weight table", n)
		}
	}
	return t, nil
}

func MustDefaultWeightTable() WeightTable {
	t, err := NewWeightTable(DefaultWeights())
	if err != nil {
		panic(err)
	}
	return t
}

func (t WeightTable) Criteria() []CriterionWeight {
	out := make([]CriterionWeight, len(t.criteria))
	copy(out, t.criteria)
	return out
}

func (t WeightTable) Lookup(name string) (CriterionWeight, bool) {
	w, ok := t.byName[name]
	return w, ok
}
