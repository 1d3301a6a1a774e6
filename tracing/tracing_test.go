package tracing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smilemakc/jobtree/tracing"
)

func TestNewProvider_DisabledReturnsNil(t *testing.T) {
	p, err := tracing.NewProvider(context.Background(), tracing.Config{Enabled: false})
	require.NoError(t, err)
	require.Nil(t, p)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestStartSpan_WorksWithoutProvider(t *testing.T) {
	ctx, span := tracing.StartSpan(context.Background(), "test-span")
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	tracing.RecordError(span, errors.New("boom"))
	span.End()
}

func TestRecordError_NilErrorIsNoop(t *testing.T) {
	_, span := tracing.StartSpan(context.Background(), "test-span")
	defer span.End()
	tracing.RecordError(span, nil)
}
