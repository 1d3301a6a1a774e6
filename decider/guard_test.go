package decider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalWhen_EmptyConditionAlwaysSchedules(t *testing.T) {
	ok, err := evalWhen("", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalWhen_TrueAndFalseAgainstOutput(t *testing.T) {
	output := json.RawMessage(`{"ok":true,"count":3}`)

	ok, err := evalWhen(`output.ok == true`, output)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = evalWhen(`output.ok == false`, output)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = evalWhen(`output.count > 1`, output)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalWhen_NilOutputIsAccessible(t *testing.T) {
	ok, err := evalWhen(`output == nil`, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalWhen_NonBoolResultErrors(t *testing.T) {
	_, err := evalWhen(`1 + 1`, nil)
	assert.Error(t, err)
}

func TestEvalWhen_CompilesOnceAndReusesCache(t *testing.T) {
	const cond = `output.ok == true`
	_, err := evalWhen(cond, json.RawMessage(`{"ok":true}`))
	require.NoError(t, err)

	guards.mu.Lock()
	_, cached := guards.cache[cond]
	guards.mu.Unlock()
	assert.True(t, cached)
}
