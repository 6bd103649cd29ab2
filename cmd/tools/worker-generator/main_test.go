// cmd/tools/worker-generator/main_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"

	"faculty-ranking-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notifyActivity = registry.Activity{
	ID:          "notify-reviewers",
	DisplayName: "Notify Reviewers",
	TaskType:    "notify-reviewers",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"applicationId", "score"},
		"properties": map[string]interface{}{
			"score":         map[string]interface{}{"type": "number"},
			"applicationId": map[string]interface{}{"type": "string"},
			"previousScore": map[string]interface{}{"type": []interface{}{"number", "null"}},
		},
	},
	OutputSchema: map[string]interface{}{
		"properties": map[string]interface{}{
			"emailSent": map[string]interface{}{"type": "boolean"},
		},
	},
}

func TestSchemaFields(t *testing.T) {
	fields := schemaFields(notifyActivity.InputSchema)

	assert.Equal(t, []Field{
		{Name: "ApplicationID", GoType: "string", JSONName: "applicationId", Required: true},
		{Name: "PreviousScore", GoType: "*float64", JSONName: "previousScore"},
		{Name: "Score", GoType: "float64", JSONName: "score", Required: true},
	}, fields)
	assert.Empty(t, schemaFields(map[string]interface{}{}))
}

func TestGoTypeFromJSONType(t *testing.T) {
	assert.Equal(t, "int", goTypeFromJSONType("integer"))
	assert.Equal(t, "[]interface{}", goTypeFromJSONType("array"))
	assert.Equal(t, "interface{}", goTypeFromJSONType(nil))
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "notify-reviewers")
	data := newWorkerData(&notifyActivity)
	assert.Equal(t, "notifyreviewers", data.PackageName)

	written, err := generate(data, dir)
	require.NoError(t, err)
	assert.Len(t, written, 4)

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "package notifyreviewers")
	assert.Contains(t, string(models), "ApplicationID string `json:\"applicationId\"`")
	assert.Contains(t, string(models), "PreviousScore *float64 `json:\"previousScore,omitempty\"`")

	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), `TaskType = "notify-reviewers"`)

	_, err = generate(data, dir)
	assert.Error(t, err)
}
