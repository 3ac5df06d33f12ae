package telemetry

import (
	"context"
	"testing"

	"github.com/rwortham/instinct/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestTraceRunPlanReturnsInnerResult(t *testing.T) {
	tr := NewTracer("instinct-test")
	called := false

	result := tr.TraceRunPlan(context.Background(), domain.ElementID(5), func() domain.ReturnCode {
		called = true
		return domain.Success
	})

	require.True(t, called)
	require.Equal(t, domain.Success, result.Code())
}

func TestTraceProcessTimersRunsInner(t *testing.T) {
	tr := NewTracer("instinct-test")
	called := false

	tr.TraceProcessTimers(context.Background(), 3, func() { called = true })

	require.True(t, called)
}
