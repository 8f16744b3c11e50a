package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/testutil"
)

func TestStats_NoUnitIsZero(t *testing.T) {
	net := newTestNetwork(t, WithCycleScaling(true), WithCapacityScaling(true))
	n := mustNode(t, net, scenarioRecipe(), WithCapacity(7))

	assert.Equal(t, Stats{}, n.Stats())
}

func TestStats_Scaling(t *testing.T) {
	cat := testutil.ScenarioCatalog()
	speed, err := cat.ModuleConfig([]string{"speed"})
	require.NoError(t, err)

	tests := []struct {
		name            string
		cycleScaling    bool
		capacityScaling bool
		want            Stats
	}{
		{"instantaneous", false, false, Stats{Speed: 0.9, Pollution: 3, Energy: 225}},
		{"per cycle", true, false, Stats{Speed: 0.9, Pollution: 180, Energy: 13500}},
		{"per capacity", false, true, Stats{Speed: 0.9, Pollution: 7.5, Energy: 562.5}},
		{"both", true, true, Stats{Speed: 0.9, Pollution: 450, Energy: 33750}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := newTestNetwork(t,
				WithCycleLength(60),
				WithCycleScaling(tt.cycleScaling),
				WithCapacityScaling(tt.capacityScaling))
			n := mustNode(t, net, cat.Recipes["gear"],
				WithUnit(cat.Units["assembler"]), WithModules(speed), WithCapacity(2.5))

			assert.Equal(t, tt.want, n.Stats())
		})
	}
}

func TestStats_RoundingIsExact(t *testing.T) {
	tests := []struct {
		name string
		unit *ir.UnitType
		mod  ir.Module
		want Stats
	}{
		{
			name: "thirds",
			unit: &ir.UnitType{Speed: 1, Pollution: 10, Energy: ir.Energy{Max: 100}},
			mod:  ir.Module{Speed: 0.333, Pollution: 0.3333, Energy: 0.3333},
			want: Stats{Speed: 1.33, Pollution: 13.33, Energy: 133.33},
		},
		{
			name: "productivity pollution",
			unit: &ir.UnitType{Speed: 1, Pollution: 3, Energy: ir.Energy{Max: 1}},
			mod:  ir.Module{Pollution: 0.05},
			want: Stats{Speed: 1, Pollution: 3.15, Energy: 1},
		},
		{
			name: "floored modifiers",
			unit: &ir.UnitType{Speed: 1, Pollution: 5, Energy: ir.Energy{Max: 50}},
			mod:  ir.Module{Speed: -2, Pollution: -2, Energy: -2},
			want: Stats{Speed: 0.2, Pollution: 1, Energy: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := newTestNetwork(t)
			n := mustNode(t, net, scenarioRecipe(),
				WithUnit(tt.unit), WithModules(ir.ModuleConfig{tt.mod}))

			assert.Equal(t, tt.want, n.Stats())
		})
	}
}

func TestStats_FollowToggles(t *testing.T) {
	cat := testutil.ScenarioCatalog()
	net := newTestNetwork(t, WithCycleLength(10))
	n := mustNode(t, net, cat.Recipes["plate"], WithUnit(cat.Units["furnace"]), WithCapacity(2))

	assert.Equal(t, 4.0, n.Stats().Pollution)

	net.SetCycleScaling(true)
	assert.Equal(t, 40.0, n.Stats().Pollution)

	net.SetCapacityScaling(true)
	assert.Equal(t, 80.0, n.Stats().Pollution)

	require.NoError(t, n.SetCapacity(3))
	assert.Equal(t, 120.0, n.Stats().Pollution)

	require.NoError(t, n.SetUnit(nil))
	assert.Equal(t, Stats{}, n.Stats())
}

func TestTotals(t *testing.T) {
	cat := testutil.ScenarioCatalog()
	net := newTestNetwork(t)
	gear := mustNode(t, net, cat.Recipes["gear"], WithUnit(cat.Units["assembler"]))
	plate := mustNode(t, net, cat.Recipes["plate"], WithUnit(cat.Units["furnace"]))
	ore := mustNode(t, net, cat.Recipes["ore"])
	require.NoError(t, net.SetRoot(gear))
	require.NoError(t, gear.RegisterChild(plate))
	require.NoError(t, plate.RegisterChild(ore))

	assert.Equal(t, 240.0, gear.TotalEnergy())
	assert.Equal(t, 7.0, gear.TotalPollution())
	assert.Equal(t, 90.0, plate.TotalEnergy())
}
