package monitor

import (
	"testing"

	"github.com/rwortham/instinct/internal/domain"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	executed, success, inProgress, fail, errorN int
	senses                                      int
}

func (r *recordingSink) OnExecuted(domain.Node)         { r.executed++ }
func (r *recordingSink) OnSuccess(domain.Node)          { r.success++ }
func (r *recordingSink) OnInProgress(domain.Node)       { r.inProgress++ }
func (r *recordingSink) OnFail(domain.Node)             { r.fail++ }
func (r *recordingSink) OnError(domain.Node)            { r.errorN++ }
func (r *recordingSink) OnSense(domain.Releaser, int32) { r.senses++ }

func TestCompositeFansOutToEverySink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	c := NewComposite(a, b)

	action := &domain.Action{Header: domain.Header{ElementID: 1}}
	c.OnExecuted(action)
	c.OnSuccess(action)
	c.OnSense(domain.Releaser{SenseID: 7}, 42)

	for _, sink := range []*recordingSink{a, b} {
		require.Equal(t, 1, sink.executed)
		require.Equal(t, 1, sink.success)
		require.Equal(t, 1, sink.senses)
	}
}

func TestCompositeAddAppendsLiveSink(t *testing.T) {
	a := &recordingSink{}
	c := NewComposite()
	c.Add(a)

	action := &domain.Action{Header: domain.Header{ElementID: 1}}
	c.OnFail(action)
	require.Equal(t, 1, a.fail)
}

func TestMetricsSinkAggregatesByKind(t *testing.T) {
	m := NewMetricsSink()
	action := &domain.Action{Header: domain.Header{ElementID: 1}}
	drive := &domain.Drive{Header: domain.Header{ElementID: 2}}

	m.OnExecuted(action)
	m.OnSuccess(action)
	m.OnExecuted(drive)
	m.OnFail(drive)

	snap := m.Snapshot()
	require.EqualValues(t, 1, snap[domain.KindAction].Executed)
	require.EqualValues(t, 1, snap[domain.KindAction].Success)
	require.EqualValues(t, 1, snap[domain.KindDrive].Executed)
	require.EqualValues(t, 1, snap[domain.KindDrive].Fail)
}
