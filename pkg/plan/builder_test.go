package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/planstore"
)

func TestPlanBuilderAppliesExactCapacities(t *testing.T) {
	releaser := NewReleaserBuilder(domain.SenseID(1), domain.CompGT, 10).Hysteresis(2).Build()

	pb := NewPlanBuilder().
		AddAction(NewActionBuilder(1).ActionID(100).Value(7).Build()).
		AddActionPattern(NewActionPatternBuilder(2).Build()).
		AddActionPatternElement(NewActionPatternElementBuilder(3).Parent(2).Child(1).Order(1).Build()).
		AddDrive(NewDriveBuilder(4).Child(2).Priority(10).Releaser(releaser).Build())

	store := planstore.New()
	require.NoError(t, pb.Apply(store))

	assert.Equal(t, uint16(1), store.Count(domain.KindAction))
	assert.Equal(t, uint16(1), store.Count(domain.KindActionPattern))
	assert.Equal(t, uint16(1), store.Count(domain.KindActionPatternElement))
	assert.Equal(t, uint16(1), store.Count(domain.KindDrive))

	node, ok := store.Get(domain.ElementID(4))
	require.True(t, ok)
	drive, ok := node.(*domain.Drive)
	require.True(t, ok)
	assert.Equal(t, domain.CompGT, drive.Releaser.Comparator)
}

func TestPlanBuilderCapacitiesOverride(t *testing.T) {
	pb := NewPlanBuilder().
		AddAction(NewActionBuilder(1).ActionID(100).Value(0).Build()).
		Capacities([6]uint16{0, 0, 0, 0, 0, 4})

	store := planstore.New()
	require.NoError(t, pb.Apply(store))
	assert.Equal(t, uint16(4), store.Capacity(domain.KindAction))
	assert.Equal(t, uint16(1), store.Count(domain.KindAction))
}

func TestPlanBuilderStopsOnFirstFailure(t *testing.T) {
	pb := NewPlanBuilder().
		AddAction(NewActionBuilder(1).Build()).
		AddAction(NewActionBuilder(1).Build()). // duplicate id
		Capacities([6]uint16{0, 0, 0, 0, 0, 2})

	store := planstore.New()
	err := pb.Apply(store)
	assert.Error(t, err)
}
