// internal/scoring/setup.go
package scoring

import (
	"encoding/json"
	"fmt"
	"time"

	"faculty-ranking-workers/internal/scoring/reputation"
	"faculty-ranking-workers/pkg/registry"
)

// FromRegistry builds the scorers and weight table a registry describes. A nil registry or
// an empty section falls back to the built-in default for that section. Rules given in the
// registry replace the matching default keyword lists field by field.
func FromRegistry(reg *registry.ScoringRegistry, now func() time.Time) (*Scorers, WeightTable, error) {
	if reg == nil {
		reg = &registry.ScoringRegistry{}
	}

	weights := MustDefaultWeightTable()
	if len(reg.Criteria) > 0 {
		rows := make([]CriterionWeight, 0, len(reg.Criteria))
		for _, c := range reg.Criteria {
			rows = append(rows, CriterionWeight{ID: c.ID, Name: c.Name, Weight: c.Weight})
		}
		var err error
		if weights, err = NewWeightTable(rows); err != nil {
			return nil, WeightTable{}, fmt.Errorf("weight table: %w", err)
		}
	}

	lookup := reputation.Default()
	if len(reg.Universities) > 0 {
		entries := make([]reputation.Entry, 0, len(reg.Universities))
		for _, u := range reg.Universities {
			entries = append(entries, reputation.Entry{Key: u.Key, Aliases: u.Aliases, NIRF: u.NIRF, QS: u.QS})
		}
		lookup = reputation.New(entries)
	}

	rules := DefaultRules()
	if len(reg.Rules) > 0 {
		if err := json.Unmarshal(reg.Rules, &rules); err != nil {
			return nil, WeightTable{}, fmt.Errorf("classifier rules: %w", err)
		}
	}
	classifier, err := NewClassifier(rules)
	if err != nil {
		return nil, WeightTable{}, fmt.Errorf("classifier rules: %w", err)
	}

	return NewScorers(classifier, lookup, now), weights, nil
}
