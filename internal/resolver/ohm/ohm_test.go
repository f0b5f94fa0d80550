package ohm

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/kingrea/powercalc/internal/quantity"
)

func TestResolveVoltageAndCurrent(t *testing.T) {
	out := New().Resolve(quantity.Knowns{Voltage: 10, Current: 2})
	require.Equal(t, quantity.StatusResolved, out.Status)
	assert.Equal(t, 5.0, out.Values[Resistance])
	assert.Equal(t, 20.0, out.Values[Power])
	assert.ElementsMatch(t, []quantity.Name{Resistance, Power}, out.SolvedFor)
	assert.Equal(t, 10.0, out.Values[Voltage], "knowns are carried into the result")
}

func TestResolveTable(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name   string
		knowns quantity.Knowns
		want   quantity.Values
	}{
		{"V,R", quantity.Knowns{Voltage: 12, Resistance: 4}, quantity.Values{Current: 3, Power: 36}},
		{"V,P", quantity.Knowns{Voltage: 230, Power: 460}, quantity.Values{Current: 2, Resistance: 115}},
		{"I,R", quantity.Knowns{Current: 3, Resistance: 5}, quantity.Values{Voltage: 15, Power: 45}},
		{"I,P", quantity.Knowns{Current: 2, Power: 50}, quantity.Values{Voltage: 25, Resistance: 12.5}},
		{"R,P", quantity.Knowns{Resistance: 8, Power: 2}, quantity.Values{Voltage: 4, Current: 0.5}},
		{"V=0,I=0 gives infinite R", quantity.Knowns{Voltage: 0, Current: 0}, quantity.Values{Resistance: inf, Power: 0}},
		{"V=0,R=0 gives infinite I and P", quantity.Knowns{Voltage: 0, Resistance: 0}, quantity.Values{Current: inf, Power: inf}},
		{"V=0,P=0 gives zero I and R", quantity.Knowns{Voltage: 0, Power: 0}, quantity.Values{Current: 0, Resistance: 0}},
		{"P=0 at voltage is open circuit", quantity.Knowns{Voltage: 5, Power: 0}, quantity.Values{Current: 0, Resistance: inf}},
		{"I=0,P=0", quantity.Knowns{Current: 0, Power: 0}, quantity.Values{Voltage: 0, Resistance: inf}},
		{"R=0,P=0", quantity.Knowns{Resistance: 0, Power: 0}, quantity.Values{Voltage: 0, Current: inf}},
		{"R=0 with current", quantity.Knowns{Current: 4, Resistance: 0}, quantity.Values{Voltage: 0, Power: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := New().Resolve(tt.knowns)
			require.True(t, out.OK(), "reason: %s", out.Reason)
			for name, want := range tt.want {
				assert.Equal(t, want, out.Values[name], "variable %s", name)
				assert.True(t, out.Solved(name), "%s should be solved", name)
			}
			assert.Len(t, out.Values, 4)
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	tests := []struct {
		name   string
		knowns quantity.Knowns
		reason string
	}{
		{"one value", quantity.Knowns{Voltage: 10}, "need exactly two values"},
		{"three values", quantity.Knowns{Voltage: 10, Current: 1, Power: 10}, "need exactly two values"},
		{"nothing", quantity.Knowns{}, "need exactly two values"},
		{"NaN is absent", quantity.Knowns{Voltage: 10, Current: math.NaN()}, "need exactly two values"},
		{"infinity is absent", quantity.Knowns{Voltage: math.Inf(1), Current: 2}, "need exactly two values"},
		{"zero current", quantity.Knowns{Voltage: 10, Current: 0}, "Current cannot be 0 if Voltage is non-zero"},
		{"negative resistance with voltage", quantity.Knowns{Voltage: 10, Resistance: -1}, "Resistance cannot be negative"},
		{"zero resistance with voltage", quantity.Knowns{Voltage: 10, Resistance: 0}, "Resistance cannot be 0 if Voltage is non-zero"},
		{"negative power with voltage", quantity.Knowns{Voltage: 10, Power: -5}, "Power cannot be negative"},
		{"zero voltage with power", quantity.Knowns{Voltage: 0, Power: 5}, "Voltage cannot be 0 if Power is non-zero"},
		{"negative resistance with current", quantity.Knowns{Current: 1, Resistance: -2}, "Resistance cannot be negative"},
		{"negative power with current", quantity.Knowns{Current: 1, Power: -2}, "Power cannot be negative"},
		{"zero current with power", quantity.Knowns{Current: 0, Power: 2}, "Current cannot be 0 if Power is non-zero"},
		{"negative resistance with power", quantity.Knowns{Resistance: -1, Power: 2}, "Resistance cannot be negative"},
		{"negative power with resistance", quantity.Knowns{Resistance: 1, Power: -2}, "Power cannot be negative"},
		{"zero resistance with power", quantity.Knowns{Resistance: 0, Power: 2}, "Cannot have non-zero Power with zero Resistance"},
		{"current overflow", quantity.Knowns{Resistance: 1e-320, Power: 1}, "Result is out of range for these inputs"},
		{"resistance overflow", quantity.Knowns{Voltage: 1e300, Current: 1e-300}, "Result is out of range for these inputs"},
		{"power overflow", quantity.Knowns{Current: 1e200, Resistance: 1e200}, "Result is out of range for these inputs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := New().Resolve(tt.knowns)
			assert.Equal(t, quantity.StatusInvalid, out.Status)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Nil(t, out.Values, "failed outcomes carry no values")
			assert.ErrorIs(t, out.Err(), quantity.ErrInvalid)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	pairs := [][2]quantity.Name{
		{Voltage, Current}, {Voltage, Resistance}, {Voltage, Power},
		{Current, Resistance}, {Current, Power}, {Resistance, Power},
	}
	seeds := []quantity.Knowns{
		{Voltage: 10, Current: 2},
		{Voltage: 230, Current: 0.013},
		{Voltage: 0.5, Current: 40},
		{Current: 1e-3, Resistance: 4700},
		{Resistance: 0.25, Power: 1500},
	}
	for _, seed := range seeds {
		full := New().Resolve(seed)
		require.True(t, full.OK(), "seed %v: %s", seed, full.Reason)
		for _, pair := range pairs {
			knowns := quantity.Knowns{pair[0]: full.Values[pair[0]], pair[1]: full.Values[pair[1]]}
			again := New().Resolve(knowns)
			require.True(t, again.OK(), "pair %v: %s", pair, again.Reason)
			for _, v := range variables {
				want, got := full.Values[v.Name], again.Values[v.Name]
				assert.True(t, scalar.EqualWithinAbsOrRel(want, got, 1e-12, 1e-9),
					"seed %v pair %v: %s = %v, want %v", seed, pair, v.Name, got, want)
			}
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	knowns := quantity.Knowns{Resistance: 3.3, Power: 0.7}
	first := New().Resolve(knowns)
	second := New().Resolve(knowns)
	require.True(t, first.OK())
	for name, v := range first.Values {
		assert.Equal(t, math.Float64bits(v), math.Float64bits(second.Values[name]), "variable %s", name)
	}
}

func TestResolveDoesNotMutateKnowns(t *testing.T) {
	knowns := quantity.Knowns{Voltage: 9, Current: 3}
	New().Resolve(knowns)
	assert.Equal(t, quantity.Knowns{Voltage: 9, Current: 3}, knowns)
}

func TestResolveConcurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 1; i <= 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out := r.Resolve(quantity.Knowns{Current: float64(i), Resistance: 2})
			assert.Equal(t, float64(2*i), out.Values[Voltage])
		}(i)
	}
	wg.Wait()
}

func TestRulesCoverEveryPair(t *testing.T) {
	seen := map[quantity.Name]int{}
	for _, rule := range New().Rules() {
		require.Len(t, rule.Triggers, 2)
		require.Len(t, rule.Fills, 2)
		for _, n := range rule.Fills {
			seen[n]++
		}
	}
	for _, v := range variables {
		assert.Equal(t, 3, seen[v.Name], "%s should be derivable from the three pairs that exclude it", v.Name)
	}
}
