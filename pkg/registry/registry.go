// pkg/registry/registry.go

// Package registry describes the scoring registry file: the criterion weight table, the
// university reputation table, optional classifier keyword overrides and the job workers
// with their input schemas.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

type ScoringRegistry struct {
	Version      string          `json:"version"`
	LastUpdated  string          `json:"lastUpdated"`
	Criteria     []Criterion     `json:"criteria"`
	Universities []University    `json:"universities,omitempty"`
	Rules        json.RawMessage `json:"rules,omitempty"`
	Activities   []Activity      `json:"activities"`
}

type Criterion struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type University struct {
	Key     string   `json:"key"`
	Aliases []string `json:"aliases,omitempty"`
	NIRF    *int     `json:"nirf,omitempty"`
	QS      *int     `json:"qs,omitempty"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Tags                 []string               `json:"tags"`
}

func LoadRegistry(path string) (*ScoringRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ScoringRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating the parent directory when needed.
func Save(reg *ScoringRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Activity returns the activity registered for taskType.
func (r *ScoringRegistry) Activity(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// InputSchemas maps task type to input schema for every activity that declares one.
func (r *ScoringRegistry) InputSchemas() map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(r.Activities))
	for _, a := range r.Activities {
		if len(a.InputSchema) > 0 {
			out[a.TaskType] = a.InputSchema
		}
	}
	return out
}

// Validate checks structural consistency. Criterion semantics (known names, complete
// table) are checked again when the scoring engine builds its weight table.
func (r *ScoringRegistry) Validate() error {
	ids := make(map[int]bool, len(r.Criteria))
	names := make(map[string]bool, len(r.Criteria))
	for _, c := range r.Criteria {
		if c.Name == "" {
			return fmt.Errorf("criterion %d missing name", c.ID)
		}
		if ids[c.ID] || names[c.Name] {
			return fmt.Errorf("duplicate criterion: %d/%s", c.ID, c.Name)
		}
		if c.Weight < 0 || c.Weight > 1 {
			return fmt.Errorf("criterion %s weight %v outside [0,1]", c.Name, c.Weight)
		}
		ids[c.ID], names[c.Name] = true, true
	}

	for i, u := range r.Universities {
		if u.Key == "" {
			return fmt.Errorf("university #%d missing key", i)
		}
		if (u.NIRF != nil && *u.NIRF <= 0) || (u.QS != nil && *u.QS <= 0) {
			return fmt.Errorf("university %s has a non-positive rank", u.Key)
		}
	}

	if len(r.Rules) > 0 && !json.Valid(r.Rules) {
		return fmt.Errorf("rules is not valid JSON")
	}

	activityIDs := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if activityIDs[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		activityIDs[a.ID] = true

		if a.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
		}
		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
		}
		if len(a.InputSchema) > 0 {
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema)); err != nil {
				return fmt.Errorf("activity %s has an invalid input schema: %w", a.ID, err)
			}
		}
	}
	return nil
}
