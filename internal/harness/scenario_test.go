package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioDir = filepath.Join("..", "..", "testdata", "scenarios")

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "catalog"), 0755))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario_ResolvesCatalog(t *testing.T) {
	s, err := LoadScenario(filepath.Join(scenarioDir, "forward_rates.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "forward_rates", s.Name)
	assert.Equal(t, filepath.Join(scenarioDir, "chain"), s.Catalog)
	require.NotNil(t, s.Plan)
	assert.Equal(t, "o1", s.Plan.Root.Recipe)
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: misspelled key
catalog: catalog
plan:
  name: p
  root: { recipe: o1 }
expects:
  - node: o1
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing name",
			body: "description: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nexpect: [{node: o1}]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			body: "name: n\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nexpect: [{node: o1}]\n",
			want: "description is required",
		},
		{
			name: "missing catalog dir",
			body: "name: n\ndescription: d\ncatalog: elsewhere\nplan: {name: p, root: {recipe: o1}}\nexpect: [{node: o1}]\n",
			want: "catalog directory not found",
		},
		{
			name: "missing plan",
			body: "name: n\ndescription: d\ncatalog: catalog\nexpect: [{node: o1}]\n",
			want: "plan is required",
		},
		{
			name: "invalid plan",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p}\nexpect: [{node: o1}]\n",
			want: "plan:",
		},
		{
			name: "no expectations",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\n",
			want: "expect list is required",
		},
		{
			name: "expectation without node",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nexpect: [{capacity: 1}]\n",
			want: "expect[0]: node is required",
		},
		{
			name: "unknown action",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nsteps: [{action: explode}]\nexpect: [{node: o1}]\n",
			want: `unknown action "explode"`,
		},
		{
			name: "set_capacity without value",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nsteps: [{action: set_capacity, node: o1}]\nexpect: [{node: o1}]\n",
			want: "value is required for set_capacity",
		},
		{
			name: "set_output without resource",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nsteps: [{action: set_output, node: o1, value: 1}]\nexpect: [{node: o1}]\n",
			want: "resource is required for set_output",
		},
		{
			name: "toggle without enabled",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nsteps: [{action: set_cycle_scaling}]\nexpect: [{node: o1}]\n",
			want: "enabled is required",
		},
		{
			name: "register without child",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nsteps: [{action: register, node: o1}]\nexpect: [{node: o1}]\n",
			want: "child with a recipe is required",
		},
		{
			name: "remove without recipe",
			body: "name: n\ndescription: d\ncatalog: catalog\nplan: {name: p, root: {recipe: o1}}\nsteps: [{action: remove}]\nexpect: [{node: o1}]\n",
			want: "recipe is required for remove",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
