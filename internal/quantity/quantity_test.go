package quantity

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownsIgnoreNonFinite(t *testing.T) {
	k := Knowns{"a": 1, "b": math.NaN(), "c": math.Inf(1), "d": 0}
	vars := []Variable{{Name: "d"}, {Name: "c"}, {Name: "b"}, {Name: "a"}}
	assert.Equal(t, []Name{"d", "a"}, k.Present(vars))
	assert.Equal(t, Values{"a": 1, "d": 0}, k.Values())
	assert.False(t, k.Has("missing"))
}

func TestRuleApplyNeverOverwrites(t *testing.T) {
	calls := 0
	rule := Rule{
		ID:       "sum",
		Triggers: []Name{"a", "b"},
		Fills:    []Name{"c", "d"},
		Derive: func(v Values) (Values, error) {
			calls++
			return Values{"c": v["a"] + v["b"], "d": -1}, nil
		},
	}
	v := Values{"a": 1, "b": 2, "d": 7}
	require.True(t, rule.Matches(v))
	written, err := rule.Apply(v)
	require.NoError(t, err)
	assert.Equal(t, []Name{"c"}, written)
	assert.Equal(t, 3.0, v["c"])
	assert.Equal(t, 7.0, v["d"])

	written, err = rule.Apply(v)
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Equal(t, 1, calls, "a rule with nothing pending must not derive")
}

func TestRuleMatchesExactly(t *testing.T) {
	rule := Rule{Triggers: []Name{"x", "y"}}
	assert.True(t, rule.MatchesExactly([]Name{"y", "x"}))
	assert.False(t, rule.MatchesExactly([]Name{"x"}))
	assert.False(t, rule.MatchesExactly([]Name{"x", "z"}))
}

func TestOutcomeErrors(t *testing.T) {
	assert.NoError(t, Resolved(Values{}, nil).Err())
	assert.NotNil(t, Resolved(Values{}, nil).SolvedFor)

	err := Invalid("bad").Err()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.EqualError(t, err, "bad")
	assert.ErrorIs(t, Ambiguous("two").Err(), ErrAmbiguous)
}

func TestFromError(t *testing.T) {
	out := FromError(Invalidf("value %d", 3))
	assert.Equal(t, StatusInvalid, out.Status)
	assert.Equal(t, "value 3", out.Reason)

	out = FromError(Ambiguousf("many"))
	assert.Equal(t, StatusAmbiguous, out.Status)

	out = FromError(errors.New("plain"))
	assert.Equal(t, StatusInvalid, out.Status)
	assert.Equal(t, "plain", out.Reason)
}
