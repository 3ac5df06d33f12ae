package command

import (
	"testing"

	"github.com/rwortham/instinct/internal/planstore"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T) (*Gateway, *planstore.Store) {
	t.Helper()
	store := planstore.New()
	require.NoError(t, store.Initialise([6]uint16{4, 4, 4, 4, 4, 4}))
	return NewGateway(store), store
}

func TestReinitialiseThenAddRoundTrips(t *testing.T) {
	gw, _ := newGateway(t)

	require.Equal(t, "OK", gw.Execute("R I 1 1 1 1 1 1"))
	require.Equal(t, "OK", gw.Execute("A A 1 100 7"))
	require.Equal(t, "A A 1 100 7", gw.Execute("D N 1"))
}

func TestAddDriveRecreateLineRoundTrips(t *testing.T) {
	gw, _ := newGateway(t)

	require.Equal(t, "OK", gw.Execute("A D 10 0 5 2 3 2 100 20 30 1 8 4"))
	require.Equal(t, "A D 10 0 5 2 3 2 100 20 30 1 8 4", gw.Execute("D N 10"))
}

func TestAddRejectsWrongArgumentCount(t *testing.T) {
	gw, _ := newGateway(t)
	require.Equal(t, "FAIL", gw.Execute("A D 1 2 3"))
}

func TestAddRejectsUnknownCommand(t *testing.T) {
	gw, _ := newGateway(t)
	require.Equal(t, "FAIL", gw.Execute("Z Z"))
}

func TestDisplayCountsMatchesFixedOrder(t *testing.T) {
	gw, _ := newGateway(t)
	require.Equal(t, "OK", gw.Execute("A P 1"))
	require.Equal(t, "OK", gw.Execute("A C 2 1"))
	require.Equal(t, "1 0 1 0 0 0", gw.Execute("S C"))
}

func TestPlanIDRoundTrips(t *testing.T) {
	gw, _ := newGateway(t)
	require.Equal(t, "OK", gw.Execute("I S 42"))
	require.Equal(t, "42", gw.Execute("I R"))
}

func TestDisplayHighestID(t *testing.T) {
	gw, _ := newGateway(t)
	require.Equal(t, "OK", gw.Execute("A A 1 1 1"))
	require.Equal(t, "OK", gw.Execute("A A 3 1 1"))
	require.Equal(t, "3", gw.Execute("D H"))
}

func TestSetGlobalMonitorMaskAcceptsSixBits(t *testing.T) {
	gw, store := newGateway(t)
	require.Equal(t, "OK", gw.Execute("M G 1 0 1 0 0 0"))
	require.EqualValues(t, 0x01|0x04, store.GlobalMonitorMask())
}

func TestResetPlanClearsNodesKeepingCapacity(t *testing.T) {
	gw, store := newGateway(t)
	require.Equal(t, "OK", gw.Execute("A A 1 1 1"))
	require.Equal(t, "OK", gw.Execute("R C"))
	require.EqualValues(t, 0, store.TotalCount())
	require.EqualValues(t, 4, store.Capacity(3))
}
