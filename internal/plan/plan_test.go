package plan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Gears(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", "testdata", "plans", "gears.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gears", p.Name)
	require.NotNil(t, p.CycleLength)
	assert.Equal(t, 60.0, *p.CycleLength)
	assert.Nil(t, p.CycleScaling)
	assert.Nil(t, p.CapacityScaling)

	require.NotNil(t, p.Root)
	assert.Equal(t, "iron-gear", p.Root.Recipe)
	assert.Equal(t, map[string]float64{"iron-gear": 120}, p.Root.Target)
	require.Len(t, p.Root.Children, 1)
	assert.Equal(t, "stone-furnace", p.Root.Children[0].Unit)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read plan")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "empty document",
			yaml: "",
			want: "empty document",
		},
		{
			name: "unknown field",
			yaml: "name: x\nroot:\n  recipe: a\n  speed: 3\n",
			want: "field speed not found",
		},
		{
			name: "missing name",
			yaml: "root:\n  recipe: a\n",
			want: "Plan.Name",
		},
		{
			name: "missing root",
			yaml: "name: x\n",
			want: "Plan.Root",
		},
		{
			name: "child without recipe",
			yaml: "name: x\nroot:\n  recipe: a\n  children:\n    - unit: u\n",
			want: "Recipe",
		},
		{
			name: "non-positive cycle length",
			yaml: "name: x\ncycle_length: 0\nroot:\n  recipe: a\n",
			want: "CycleLength",
		},
		{
			name: "negative capacity",
			yaml: "name: x\nroot:\n  recipe: a\n  capacity: -1\n",
			want: "Capacity",
		},
		{
			name: "negative target",
			yaml: "name: x\nroot:\n  recipe: a\n  target: { a: -5 }\n",
			want: "Target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPlanWalk(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", "testdata", "plans", "circuits.yaml"))
	require.NoError(t, err)

	var paths []string
	p.Walk(func(path string, _ *NodeSpec) {
		paths = append(paths, path)
	})
	assert.Equal(t, []string{
		"circuit",
		"circuit/iron-plate",
		"circuit/iron-plate/iron-ore",
		"circuit/copper-cable",
		"circuit/copper-cable/copper-plate",
		"circuit/copper-cable/copper-plate/copper-ore",
	}, paths)
}

func TestPlanHash(t *testing.T) {
	doc := "name: x\ncycle_length: 60\nroot:\n  recipe: a\n  target: { a: 2 }\n"
	a, err := Parse([]byte(doc))
	require.NoError(t, err)
	b, err := Parse([]byte(doc))
	require.NoError(t, err)

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)

	*b.CycleLength = 30
	hc, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}
