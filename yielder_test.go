package generator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/generator"
)

func TestYielder_GetYieldWithoutSend(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[int, bool]) bool {
		_, ok := y.GetYield()
		return ok
	})
	defer g.Close()

	v, ok := g.Resume()
	require.True(t, ok)
	assert.False(t, v, "a bare Resume stages no input, so GetYield must report false")
}

func TestYielder_GetYieldAfterSetPara(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[int, int]) int {
		v, ok := y.GetYield()
		if !ok {
			return -1
		}
		return v
	})
	defer g.Close()

	g.SetPara(9)
	v, ok := g.Resume()
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

// Yield primitives must refuse to operate from outside the generator whose
// body owns them — spec §4.G's "refuses otherwise with a diagnostic",
// specialized here to a Yielder escaping via a closure capture.
func TestYielder_EscapedYielderPanics(t *testing.T) {
	var escaped *generator.Yielder[struct{}, struct{}]

	g := generator.NewScoped(64, func(y *generator.Yielder[struct{}, struct{}]) struct{} {
		escaped = y
		return struct{}{}
	})
	defer g.Close()

	_, ok := g.Resume()
	require.True(t, ok)
	require.NotNil(t, escaped)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, generator.ErrNotInGenerator))
	}()
	escaped.YieldWith(struct{}{})
}

func TestYielder_CancelBeforeFirstYield(t *testing.T) {
	var reached bool
	g := generator.NewScoped(64, func(y *generator.Yielder[struct{}, struct{}]) struct{} {
		y.YieldWith(struct{}{})
		reached = true
		return struct{}{}
	})
	defer g.Close()

	g.Cancel()

	assert.True(t, g.IsDone())
	assert.False(t, reached, "a generator cancelled before its first resume must stop at its first yield point")
}
