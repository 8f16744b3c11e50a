package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_SetGate(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 1.0)

	runs := 0
	Subscribe(rt, func() { runs++ }, c)

	assert.False(t, c.Set(1.0), "equal write must not report a change")
	assert.Equal(t, 0, runs)

	assert.True(t, c.Set(2.0))
	assert.Equal(t, 2.0, c.Get())
	assert.Equal(t, 1, runs)

	assert.False(t, c.Set(2.0))
	assert.Equal(t, 1, runs, "second identical write must not propagate")
}

func TestCellFunc_CustomEquality(t *testing.T) {
	rt := NewRuntime()
	eq := func(a, b []int) bool { return len(a) == len(b) }
	c := NewCellFunc(rt, []int{1}, eq)

	assert.False(t, c.Set([]int{9}))
	assert.True(t, c.Set([]int{1, 2}))
}

func TestComputed_LazyAndMemoized(t *testing.T) {
	rt := NewRuntime()
	a := NewCell(rt, 2.0)
	b := NewCell(rt, 3.0)

	evals := 0
	product := NewComputed(func() float64 {
		evals++
		return a.Get() * b.Get()
	}, a, b)

	assert.Equal(t, 0, evals, "computed must not evaluate until read")
	assert.True(t, product.Dirty())

	assert.Equal(t, 6.0, product.Get())
	assert.Equal(t, 6.0, product.Get())
	assert.Equal(t, 1, evals)

	a.Set(4)
	assert.True(t, product.Dirty())
	assert.Equal(t, 12.0, product.Get())
	assert.Equal(t, 2, evals)
}

func TestComputed_Chain(t *testing.T) {
	rt := NewRuntime()
	base := NewCell(rt, 1.0)
	double := NewComputed(func() float64 { return base.Get() * 2 }, base)
	quad := NewComputed(func() float64 { return double.Get() * 2 }, double)

	assert.Equal(t, 4.0, quad.Get())
	base.Set(5)
	assert.Equal(t, 20.0, quad.Get())
}

func TestSubscribe_NoGlitch(t *testing.T) {
	// Diamond: the effect is attached to left before right is marked. With
	// two-phase propagation it still sees both sides updated.
	rt := NewRuntime()
	src := NewCell(rt, 1.0)
	left := NewComputed(func() float64 { return src.Get() + 1 }, src)
	right := NewComputed(func() float64 { return src.Get() * 10 }, src)
	left.Get()
	right.Get()

	var seen [][2]float64
	Subscribe(rt, func() {
		seen = append(seen, [2]float64{left.Get(), right.Get()})
	}, left, right)

	src.Set(2)

	require.Len(t, seen, 1, "effect must run once per propagation")
	assert.Equal(t, [2]float64{3, 20}, seen[0])
}

func TestSubscribe_StaleComputedStillNotifies(t *testing.T) {
	// The effect subscribes to a computed it never reads. Later changes must
	// keep reaching it even though the computed stays dirty.
	rt := NewRuntime()
	src := NewCell(rt, 1)
	unread := NewComputed(func() int { return src.Get() }, src)

	runs := 0
	Subscribe(rt, func() { runs++ }, unread)

	src.Set(2)
	src.Set(3)
	src.Set(4)
	assert.Equal(t, 3, runs)
}

func TestSubscribe_Order(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 0)

	var order []string
	Subscribe(rt, func() { order = append(order, "first") }, c)
	Subscribe(rt, func() { order = append(order, "second") }, c)

	c.Set(1)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 0)

	runs := 0
	sub := Subscribe(rt, func() { runs++ }, c)
	assert.True(t, sub.Active())
	assert.Equal(t, 1, c.Dependents())

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.False(t, sub.Active())
	assert.Equal(t, 0, c.Dependents())

	c.Set(1)
	assert.Equal(t, 0, runs)
}

func TestSubscribe_UnsubscribeWhileQueued(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 0)

	runs := 0
	var second *Subscription
	Subscribe(rt, func() { second.Unsubscribe() }, c)
	second = Subscribe(rt, func() { runs++ }, c)

	c.Set(1)
	assert.Equal(t, 0, runs, "queued run of a disposed effect must be dropped")
}

func TestSubscribe_NestedWriteFullyPropagates(t *testing.T) {
	rt := NewRuntime()
	capacity := NewCell(rt, 1.0)
	output := NewComputed(func() float64 { return capacity.Get() * 60 }, capacity)
	target := NewCell(rt, 60.0)

	// Backward solve: a target change writes capacity.
	Subscribe(rt, func() { capacity.Set(target.Get() / 60) }, target)

	var observed []float64
	Subscribe(rt, func() { observed = append(observed, output.Get()) }, output)

	target.Set(300)

	assert.Equal(t, 5.0, capacity.Get())
	assert.Equal(t, 300.0, output.Get())
	assert.Equal(t, []float64{300}, observed)
	assert.Equal(t, 0, rt.Depth())
	assert.Equal(t, 0, rt.Pending())
}

func TestComputed_Dispose(t *testing.T) {
	rt := NewRuntime()
	c := NewCell(rt, 1)
	derived := NewComputed(func() int { return c.Get() }, c)
	assert.Equal(t, 1, derived.Get())
	assert.Equal(t, 1, c.Dependents())

	derived.Dispose()
	derived.Dispose()
	assert.Equal(t, 0, c.Dependents())

	c.Set(2)
	assert.False(t, derived.Dirty(), "disposed computed no longer hears changes")
}

func TestRuntime_CascadeLimit(t *testing.T) {
	rt := NewRuntime(WithMaxCascade(10))
	c := NewCell(rt, 0)

	// Feedback loop: every run changes its own source.
	Subscribe(rt, func() { c.Set(c.Get() + 1) }, c)

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		c.Set(1)
	}()

	require.NotNil(t, recovered)
	err, ok := recovered.(*CascadeError)
	require.True(t, ok, "panic value must be *CascadeError, got %T", recovered)
	assert.Equal(t, 10, err.Limit)
	assert.True(t, IsCascadeError(err))
	assert.Contains(t, err.Error(), "exceeded limit")
	assert.Equal(t, 0, rt.Depth(), "depth must unwind after the panic")
	assert.Equal(t, 0, rt.Pending())
}

func TestWithMaxCascade_IgnoresNonPositive(t *testing.T) {
	rt := NewRuntime(WithMaxCascade(0))
	assert.Equal(t, DefaultMaxCascade, rt.maxCascade)
}
