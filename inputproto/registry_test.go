package inputproto_test

import (
	"testing"

	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/inputproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, protocol string) {
	t.Helper()
	reg := inputproto.NewRegistry()
	job := jobtree.Job("J", false, jobtree.Task("T", false, jobtree.Action("echo", false, map[string]any{"msg": "hi"})))

	body, err := reg.Save(protocol, job)
	require.NoError(t, err)

	got, err := reg.Load(protocol, body)
	require.NoError(t, err)
	assert.Equal(t, jobtree.KindJob, got.Kind)
	assert.Equal(t, "J", got.Title)
	require.Len(t, got.Children, 1)
	assert.Equal(t, "T", got.Children[0].Title)
}

func TestRegistry_InlineRoundTrip(t *testing.T) { roundTrip(t, "inline") }
func TestRegistry_Base64RoundTrip(t *testing.T) { roundTrip(t, "base64") }
func TestRegistry_JQRoundTrip(t *testing.T)     { roundTrip(t, "jq") }

func TestRegistry_UnknownProtocolErrors(t *testing.T) {
	reg := inputproto.NewRegistry()
	_, err := reg.Load("nonexistent", nil)
	assert.Error(t, err)
}

func TestRegistry_DuplicateRegisterErrors(t *testing.T) {
	reg := inputproto.NewRegistry()
	err := reg.Register(inputproto.InlineProtocol{})
	assert.Error(t, err)
}

func TestJQProtocol_SavedReferenceRoundTripsThroughLoad(t *testing.T) {
	p := inputproto.JQProtocol{}
	job := jobtree.Job("J", false, jobtree.Action("echo", false, nil))

	body, err := p.Save(job)
	require.NoError(t, err)

	got, err := p.Load(body)
	require.NoError(t, err)
	assert.Equal(t, jobtree.KindJob, got.Kind)
}
