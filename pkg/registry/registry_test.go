// pkg/registry/registry_test.go
package registry

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_ShippedFileIsValid(t *testing.T) {
	reg, err := LoadRegistry("scoring-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	assert.Len(t, reg.Criteria, 7)
	a, ok := reg.Activity("submit-application")
	require.True(t, ok)
	assert.Equal(t, "Score Application", a.DisplayName)

	schemas := reg.InputSchemas()
	assert.Contains(t, schemas, "get-score-breakdown")
	assert.NotContains(t, schemas, "refresh-ranking")
}

func TestSave_RoundTrip(t *testing.T) {
	nirf := 4
	reg := &ScoringRegistry{
		Version:      "1.1.0",
		Criteria:     []Criterion{{ID: 1, Name: "education", Weight: 0.3}},
		Universities: []University{{Key: "iit kharagpur", NIRF: &nirf}},
	}
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	require.NoError(t, Save(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Criteria, loaded.Criteria)
	require.Len(t, loaded.Universities, 1)
	assert.Equal(t, 4, *loaded.Universities[0].NIRF)
}

func TestValidate(t *testing.T) {
	zero := 0
	tests := []struct {
		name    string
		reg     ScoringRegistry
		wantErr string
	}{
		{
			name:    "duplicate criterion",
			reg:     ScoringRegistry{Criteria: []Criterion{{ID: 1, Name: "education"}, {ID: 1, Name: "research"}}},
			wantErr: "duplicate criterion",
		},
		{
			name:    "weight out of range",
			reg:     ScoringRegistry{Criteria: []Criterion{{ID: 1, Name: "education", Weight: 2}}},
			wantErr: "outside [0,1]",
		},
		{
			name:    "non-positive rank",
			reg:     ScoringRegistry{Universities: []University{{Key: "x", QS: &zero}}},
			wantErr: "non-positive rank",
		},
		{
			name:    "malformed rules",
			reg:     ScoringRegistry{Rules: json.RawMessage(`{"doctorateKeywords": [`)},
			wantErr: "rules is not valid JSON",
		},
		{
			name: "bad input schema",
			reg: ScoringRegistry{Activities: []Activity{{
				ID: "a", TaskType: "a", DisplayName: "A",
				InputSchema: map[string]interface{}{"type": "nonsense"},
			}}},
			wantErr: "invalid input schema",
		},
		{
			name:    "activity without task type",
			reg:     ScoringRegistry{Activities: []Activity{{ID: "a", DisplayName: "A"}}},
			wantErr: "TaskType",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
