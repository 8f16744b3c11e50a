package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/testutil"
)

// chainRecipe produces one of id per craft from the given inputs.
func chainRecipe(id string, inputs ...string) *ir.Recipe {
	in := make(ir.Vector, len(inputs))
	for _, r := range inputs {
		in[ir.Resource(r)] = 1
	}
	return testutil.Recipe(id, in, ir.Vector{ir.Resource(id): 1})
}

func newTestNetwork(t *testing.T, opts ...NetworkOption) *Network {
	t.Helper()
	opts = append([]NetworkOption{WithIDGenerator(testutil.NewSequentialIDs(""))}, opts...)
	net, err := NewNetwork(opts...)
	require.NoError(t, err)
	return net
}

func mustNode(t *testing.T, net *Network, r *ir.Recipe, opts ...NodeOption) *Node {
	t.Helper()
	n, err := net.NewNode(r, opts...)
	require.NoError(t, err)
	return n
}

// scenarioRecipe consumes 2 R1 and produces 1 O1 per second.
func scenarioRecipe() *ir.Recipe {
	return testutil.Recipe("O1", ir.Vector{"R1": 2}, ir.Vector{"O1": 1})
}

func TestNewNetwork_Defaults(t *testing.T) {
	net := newTestNetwork(t)

	assert.Equal(t, DefaultCycleLength, net.CycleLength())
	assert.False(t, net.CycleScaling())
	assert.False(t, net.CapacityScaling())
	assert.Nil(t, net.Root())
	assert.Equal(t, 0, net.Len())
}

func TestNewNetwork_RejectsCycleLength(t *testing.T) {
	for _, c := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewNetwork(WithCycleLength(c))
		require.Error(t, err, "cycle length %v", c)
		assert.True(t, IsCapacityError(err))
	}
}

func TestNetwork_NewNodeAssignsIDs(t *testing.T) {
	net := newTestNetwork(t)

	a := mustNode(t, net, scenarioRecipe())
	b := mustNode(t, net, scenarioRecipe())

	assert.Equal(t, NodeID("node-1"), a.ID())
	assert.Equal(t, NodeID("node-2"), b.ID())
	assert.Equal(t, DefaultCapacity, a.Capacity())
	assert.Equal(t, 2, net.Len())

	got, ok := net.Node("node-2")
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestNetwork_NewNodeRejectsCapacity(t *testing.T) {
	net := newTestNetwork(t)

	_, err := net.NewNode(scenarioRecipe(), WithCapacity(-1))
	require.Error(t, err)

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidCapacity, re.Code)
	assert.Equal(t, "O1", re.Recipe)
	assert.Equal(t, 0, net.Len())

	_, err = net.NewNode(nil)
	assert.Error(t, err)
}

func TestScenarioA_ForwardRates(t *testing.T) {
	net := newTestNetwork(t, WithCycleLength(60))
	n := mustNode(t, net, scenarioRecipe(),
		WithUnit(testutil.Unit("u", 1)), WithCapacity(3))

	assert.Equal(t, ir.Vector{"R1": 360}, n.InputDemand())
	assert.Equal(t, ir.Vector{"O1": 180}, n.OutputSupply())
	assert.Equal(t, ir.Vector{"R1": 2}, n.InputRate())
	assert.Equal(t, ir.Vector{"O1": 1}, n.OutputRate())
}

func TestScenarioB_BackwardSolve(t *testing.T) {
	net := newTestNetwork(t, WithCycleLength(60))
	n := mustNode(t, net, scenarioRecipe(),
		WithUnit(testutil.Unit("u", 1)), WithCapacity(3))

	changed, err := n.SetDesiredOutput("O1", 300)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, 5.0, n.Capacity())
	assert.Equal(t, ir.Vector{"R1": 600}, n.InputDemand())
	assert.Equal(t, ir.Vector{"O1": 300}, n.OutputSupply())
}

func TestSetDesiredOutput_Idempotent(t *testing.T) {
	net := newTestNetwork(t, WithCycleLength(60))
	n := mustNode(t, net, scenarioRecipe(), WithUnit(testutil.Unit("u", 0.75)))

	_, err := n.SetDesiredOutput("O1", 250)
	require.NoError(t, err)
	firstCap := n.Capacity()
	firstOut := n.OutputSupply()

	changed, err := n.SetDesiredOutput("O1", 250)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, firstCap, n.Capacity())
	assert.Equal(t, firstOut, n.OutputSupply())
}

func TestSetDesiredOutput_RoundTrip(t *testing.T) {
	cat := testutil.ScenarioCatalog()
	speed, err := cat.ModuleConfig([]string{"speed", "prod"})
	require.NoError(t, err)

	for _, c := range []float64{0, 1, 3, 2.3456, 0.0001, 17.25, 1234.5678} {
		net := newTestNetwork(t, WithCycleLength(37))
		n := mustNode(t, net, scenarioRecipe(),
			WithUnit(cat.Units["assembler"]), WithModules(speed), WithCapacity(c))
		before := n.Capacity()

		q := n.OutputSupply()["O1"]
		changed, err := n.SetDesiredOutput("O1", q)
		require.NoError(t, err, "capacity %v", c)
		assert.False(t, changed, "capacity %v", c)
		assert.Equal(t, before, n.Capacity(), "capacity %v", c)
	}
}

func TestSetDesiredOutput_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		recipe *ir.Recipe
		res    ir.Resource
		q      float64
		code   RuntimeErrorCode
	}{
		{"negative", scenarioRecipe(), "O1", -5, ErrCodeUnsolvableOutput},
		{"nan", scenarioRecipe(), "O1", math.NaN(), ErrCodeUnsolvableOutput},
		{"inf", scenarioRecipe(), "O1", math.Inf(1), ErrCodeUnsolvableOutput},
		{"unknown resource", scenarioRecipe(), "R1", 10, ErrCodeUnknownResource},
		{"zero rate", &ir.Recipe{ID: "x", Output: ir.Vector{"x": 1}}, "x", 10, ErrCodeUnsolvableOutput},
		{"zero over zero", &ir.Recipe{ID: "x", Output: ir.Vector{"x": 1}}, "x", 0, ErrCodeUnsolvableOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := newTestNetwork(t, WithCycleLength(60))
			n := mustNode(t, net, tt.recipe, WithCapacity(3))

			changed, err := n.SetDesiredOutput(tt.res, tt.q)
			require.Error(t, err)
			assert.False(t, changed)
			assert.True(t, IsSolveError(err))

			var re *RuntimeError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.code, re.Code)
			assert.Equal(t, n.ID(), re.NodeID)
			assert.Equal(t, string(tt.res), re.Details["resource"])

			assert.Equal(t, 3.0, n.Capacity(), "capacity must be kept")
		})
	}
}

func TestSetCapacity_Rejections(t *testing.T) {
	net := newTestNetwork(t)
	n := mustNode(t, net, scenarioRecipe(), WithCapacity(2))

	for _, c := range []float64{-0.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := n.SetCapacity(c)
		require.Error(t, err)
		assert.True(t, IsCapacityError(err))
		assert.Equal(t, 2.0, n.Capacity())
	}

	require.NoError(t, n.SetCapacity(0))
	assert.Equal(t, 0.0, n.Capacity())
	assert.Equal(t, ir.Vector{"R1": 0}, n.InputDemand())
}

func TestSetCapacity_Rounds(t *testing.T) {
	net := newTestNetwork(t)
	n := mustNode(t, net, scenarioRecipe())

	require.NoError(t, n.SetCapacity(1.23456))
	assert.Equal(t, 1.2346, n.Capacity())
}

func TestSetCycleLength(t *testing.T) {
	net := newTestNetwork(t, WithCycleLength(60))
	n := mustNode(t, net, scenarioRecipe(), WithCapacity(3))

	require.NoError(t, net.SetCycleLength(1))
	assert.Equal(t, ir.Vector{"R1": 6}, n.InputDemand())

	err := net.SetCycleLength(0)
	require.Error(t, err)
	assert.Equal(t, 1.0, net.CycleLength())
}

func TestDerived_FollowModulesAndUnit(t *testing.T) {
	cat := testutil.ScenarioCatalog()
	net := newTestNetwork(t)
	n := mustNode(t, net, cat.Recipes["plate"], WithCapacity(1))

	// No unit crafts at speed 1.
	assert.Equal(t, ir.Vector{"plate": 1}, n.OutputSupply())

	require.NoError(t, n.SetUnit(cat.Units["furnace"]))
	assert.Equal(t, ir.Vector{"plate": 2}, n.OutputSupply())

	prod, err := cat.ModuleConfig([]string{"prod"})
	require.NoError(t, err)
	require.NoError(t, n.SetModules(prod))

	// 2 × (1 - 0.05) = 1.9 crafts, outputs × 1.1
	assert.InDelta(t, 1.9, n.InputDemand()["ore"], 1e-12)
	assert.InDelta(t, 2.09, n.OutputSupply()["plate"], 1e-12)
	assert.Equal(t, []string{"prod"}, n.Modules().IDs())
}

func TestZeroInputRecipe_AlwaysSufficient(t *testing.T) {
	cat := testutil.ScenarioCatalog()
	net := newTestNetwork(t, WithCycleLength(60))
	ore := mustNode(t, net, cat.Recipes["ore"])

	assert.Empty(t, ore.InputDemand())
	assert.True(t, ore.Sufficient())
	assert.Empty(t, ore.Unsupplied())

	other := mustNode(t, net, cat.Recipes["plate"])
	require.NoError(t, ore.RegisterChild(other))

	assert.True(t, ore.Sufficient())
	assert.Empty(t, ore.SupplyRatio())

	require.NoError(t, ore.SetCapacity(0))
	assert.True(t, ore.Sufficient())
}
