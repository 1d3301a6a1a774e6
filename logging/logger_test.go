package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	l.Info("hello", "workflow_id", "wf-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "wf-1", entry["workflow_id"])
}

func TestWith_CarriesFieldsAcrossCalls(t *testing.T) {
	var buf bytes.Buffer
	base := newWithWriter(Config{Level: "debug", Format: "json"}, &buf)
	child := base.With("component", "decider")

	child.Warn("tick suspended")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "decider", entry["component"])
	assert.Equal(t, "warn", entry["level"])
}

func TestLevel_FiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Level: "warn", Format: "json"}, &buf)

	l.Info("should not appear")
	assert.Empty(t, buf.Bytes())

	l.Error("should appear")
	assert.NotEmpty(t, buf.Bytes())
}

func TestSetDefault_ReplacesPackageLevelLogger(t *testing.T) {
	var buf bytes.Buffer
	orig := Default()
	defer SetDefault(orig)

	SetDefault(newWithWriter(Config{Level: "debug", Format: "json"}, &buf))
	Info("via package helper")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "via package helper", entry["message"])
}
