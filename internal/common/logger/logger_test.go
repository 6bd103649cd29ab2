// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"taskType": "submit-application"}).
		Info("scored", map[string]interface{}{"score": 81.5})
	log.WithError(errors.New("boom")).Error("failed", nil)
	log.Warn("ranking refresh failed", map[string]interface{}{"error": errors.New("lock timeout")})

	entries := logs.All()
	assert.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "submit-application", first["taskType"])
	assert.Equal(t, 81.5, first["score"])

	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "lock timeout", entries[2].ContextMap()["error"])
}

func TestNewStructured_FallsBackOnBadSink(t *testing.T) {
	log := NewStructured("info", "json", "/nonexistent-dir/never/there.log")
	assert.NotNil(t, log)
	log.Info("still usable", nil)
}
