package exprcalc_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/exprcalc"
)

func TestGenerateDeterministic(t *testing.T) {
	a := exprcalc.Generator{Rand: rand.New(rand.NewSource(1))}
	b := exprcalc.Generator{Rand: rand.New(rand.NewSource(1))}
	assert.Equal(t, a.GenerateN(20), b.GenerateN(20))
}

func TestGenerateExclusions(t *testing.T) {
	g := exprcalc.Generator{
		Rand:         rand.New(rand.NewSource(2)),
		NoLogical:    true,
		NoRelational: true,
		NoDivision:   true,
	}
	for _, s := range g.GenerateN(200) {
		assert.NotContains(t, s, "/")
		assert.NotContains(t, s, "%")
		assert.NotContains(t, s, "<")
		assert.NotContains(t, s, "=")
		assert.NotContains(t, s, "or")
		assert.NotContains(t, s, "&")
	}
}

// TestGeneratedRoundTrip checks that well-formed generated expressions parse,
// and that their display forms parse to the same values.
func TestGeneratedRoundTrip(t *testing.T) {
	g := exprcalc.Generator{Rand: rand.New(rand.NewSource(3)), NoDivision: true}
	for _, src := range g.GenerateN(500) {
		a, err := exprcalc.ParseString(src)
		if err != nil {
			// Only long literals may fail.
			require.ErrorIs(t, err, exprcalc.ErrCalculation, "parsing %q", src)
			continue
		}
		b, err := exprcalc.ParseString(a.String())
		require.NoError(t, err, "reparsing %q from %q", a, src)
		assert.Equal(t, a.String(), b.String())
		u, uerr := a.Value()
		v, verr := b.Value()
		if uerr != nil {
			assert.ErrorIs(t, uerr, exprcalc.ErrCalculation, "evaluating %q", src)
			assert.Equal(t, uerr, verr, "evaluating %q and %q", src, a)
			continue
		}
		require.NoError(t, verr, "evaluating %q", a)
		assert.Equal(t, u, v, "values of %q and %q", src, a)
	}
}

// TestGeneratedJunk checks that arbitrary input gives errors which all carry
// their location.
func TestGeneratedJunk(t *testing.T) {
	g := exprcalc.Generator{Rand: rand.New(rand.NewSource(4)), FullyRandom: true, Spaces: true}
	for _, src := range g.GenerateN(500) {
		a, err := exprcalc.ParseString(src)
		if err == nil {
			_, err = a.Value()
			if err == nil {
				continue
			}
		}
		var e exprcalc.Error
		assert.True(t, errors.As(err, &e), "error %#v from %q is not an Error", err, src)
	}
}
