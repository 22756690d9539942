package generator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/generator"
)

// Scenario 1: Fibonacci generator — successive resumes produce
// 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233 (the last being the terminal
// return), then none.
func TestGenerator_Fibonacci(t *testing.T) {
	g := generator.NewScoped(256, func(y *generator.Yielder[struct{}, int]) int {
		a, b := 0, 1
		for {
			next := a + b
			if next >= 200 {
				return next
			}
			y.YieldWith(next)
			a, b = b, next
		}
	})
	defer g.Close()

	var got []int
	for {
		v, ok := g.Resume()
		if !ok {
			break
		}
		got = append(got, v)
	}

	assert.Equal(t, []int{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233}, got)
	assert.True(t, g.IsDone())

	v, ok := g.Resume()
	assert.False(t, ok)
	assert.Zero(t, v)
}

// Scenario 2: echo-by-send — sum_so_far is yielded back after each input.
func TestGenerator_EchoBySend(t *testing.T) {
	g := generator.NewScoped(256, func(y *generator.Yielder[uint32, uint32]) uint32 {
		var sum uint32
		in, ok := y.GetYield()
		for ok {
			sum += in
			in, ok = y.Yield(sum)
		}
		return sum
	})
	defer g.Close()

	var got []uint32
	for _, in := range []uint32{10, 20, 30, 40} {
		out, err := g.Send(in)
		require.NoError(t, err)
		got = append(got, out)
	}

	assert.Equal(t, []uint32{10, 30, 60, 100}, got)
}

// Scenario 3: cancellation releases resources — a destructor runs exactly
// once, and is_done is true once cancel returns.
func TestGenerator_CancelReleasesResources(t *testing.T) {
	var destructorCalls int

	g := generator.NewScoped(256, func(y *generator.Yielder[struct{}, struct{}]) struct{} {
		defer func() {
			destructorCalls++
		}()
		for {
			y.YieldWith(struct{}{})
		}
	})
	defer g.Close()

	for i := 0; i < 5; i++ {
		_, ok := g.Resume()
		require.True(t, ok)
	}

	g.Cancel()

	assert.Equal(t, 1, destructorCalls)
	assert.True(t, g.IsDone())

	g.Cancel()
	assert.Equal(t, 1, destructorCalls, "cancel on an already-finished generator must be a no-op")
}

// Scenario 4: panic propagates — the first resume yields a value, the
// second raises a panic carrying the generator's payload in the caller.
func TestGenerator_PanicPropagates(t *testing.T) {
	g := generator.NewScoped(256, func(y *generator.Yielder[struct{}, int]) int {
		y.YieldWith(1)
		panic("boom")
	})
	defer g.Close()

	v, ok := g.Resume()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	var panicErr *generator.PanicError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok, "panic value must be an error")
			require.True(t, errors.As(err, &panicErr))
		}()
		g.Resume()
	}()

	assert.Equal(t, "boom", panicErr.Value)
	assert.True(t, g.IsDone())
	assert.Equal(t, "boom", g.PanicData())
}

// Scenario 5: yield_from composition — an inner generator's values and the
// outer generator's own yield are both seen by the outermost caller, in
// order, with a single terminal completion.
func TestGenerator_YieldFromComposition(t *testing.T) {
	inner := generator.NewScoped(256, func(y *generator.Yielder[int, int]) int {
		y.YieldWith(5)
		y.YieldWith(10)
		return 0
	})
	defer inner.Close()

	outer := generator.NewScoped(256, func(y *generator.Yielder[int, int]) int {
		y.YieldFrom(inner)
		y.YieldWith(99)
		return -1
	})
	defer outer.Close()

	var got []int
	for {
		v, ok := outer.Resume()
		if !ok {
			break
		}
		got = append(got, v)
	}

	assert.Equal(t, []int{5, 10, 99, -1}, got)
}

// Scenario 6: guard-page overflow — deep recursion on an undersized stack
// trips the guard page; the triggering resume reports a stack-overflow
// error and the generator is left finished.
func TestGenerator_GuardPageOverflow(t *testing.T) {
	var recurse func(int) int
	recurse = func(n int) int {
		var pad [256]byte
		pad[0] = byte(n)
		if n <= 0 {
			return int(pad[0])
		}
		return recurse(n-1) + int(pad[0])
	}

	g := generator.NewScoped(8, func(y *generator.Yielder[struct{}, int]) int {
		return recurse(1 << 20)
	})
	defer g.Close()

	var overflow *generator.StackOverflowError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			require.True(t, errors.As(err, &overflow))
		}()
		g.Resume()
	}()

	assert.True(t, g.IsDone())

	v, ok := g.Resume()
	assert.False(t, ok)
	assert.Zero(t, v)
}

// New wraps a closure-only generator that never suspends — it behaves
// exactly like an ordinary function called through Resume once.
func TestNew_NeverYields(t *testing.T) {
	g := generator.New(64, func() string {
		return "done"
	})
	defer g.Close()

	v, ok := g.Resume()
	require.True(t, ok)
	assert.Equal(t, "done", v)
	assert.True(t, g.IsDone())

	v, ok = g.Resume()
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestGenerator_DoneSkipsFinalValue(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[struct{}, int]) int {
		y.YieldWith(1)
		y.Done()
		panic("unreachable")
	})
	defer g.Close()

	v, ok := g.Resume()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = g.Resume()
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.True(t, g.IsDone())
}

func TestGenerator_SendFailsOnCompletingStep(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[int, int]) int {
		in, _ := y.Yield(1)
		return in * 2
	})
	defer g.Close()

	out, err := g.Send(10)
	require.NoError(t, err)
	assert.Equal(t, 1, out)

	out, err = g.Send(21)
	require.ErrorIs(t, err, generator.ErrFinished)
	assert.Zero(t, out)
	assert.True(t, g.IsDone())
}

func TestGenerator_SetParaThenBareResume(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[int, int]) int {
		in, ok := y.Yield(0)
		if !ok {
			return -1
		}
		return in
	})
	defer g.Close()

	_, ok := g.Resume()
	require.True(t, ok)

	g.SetPara(7)
	v, ok := g.Resume()
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestGenerator_StackUsage(t *testing.T) {
	g := generator.NewScoped(256, func(y *generator.Yielder[struct{}, struct{}]) struct{} {
		y.YieldWith(struct{}{})
		return struct{}{}
	})
	defer g.Close()

	total, used := g.StackUsage()
	assert.GreaterOrEqual(t, total, uintptr(256))
	assert.LessOrEqual(t, used, total)

	g.Resume()
	g.Resume()

	total2, used2 := g.StackUsage()
	assert.Equal(t, total, total2, "capacity never changes across resumes")
	assert.GreaterOrEqual(t, total2, used2)
}

func TestGenerator_LocalData(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[struct{}, string]) string {
		v := generator.GetLocalData()
		s, _ := v.(string)
		return s
	})
	defer g.Close()

	g.SetLocalData("payload")
	assert.Equal(t, "payload", g.LocalData())

	v, ok := g.Resume()
	require.True(t, ok)
	assert.Equal(t, "payload", v)
}

func TestGenerator_CloseBeforeStart(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[struct{}, struct{}]) struct{} {
		return struct{}{}
	})
	require.NoError(t, g.Close())
	assert.NoError(t, g.Close(), "Close must be idempotent")
}

func TestIsGenerator_OutsideGenerator(t *testing.T) {
	assert.False(t, generator.IsGenerator())
	assert.Nil(t, generator.GetLocalData())
}

func TestIsGenerator_InsideGenerator(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[struct{}, bool]) bool {
		return generator.IsGenerator()
	})
	defer g.Close()

	v, ok := g.Resume()
	require.True(t, ok)
	assert.True(t, v)
}

func TestTypeError_WrongYieldType(t *testing.T) {
	g := generator.NewScoped(64, func(y *generator.Yielder[string, int]) int {
		in, _ := y.Yield(1)
		return len(in)
	})
	defer g.Close()

	_, ok := g.Resume()
	require.True(t, ok)

	g.SetPara(42) // wrong type: generator declared In=string

	var typeErr *generator.TypeError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			require.True(t, errors.As(err, &typeErr))
		}()
		g.Resume()
	}()
	_ = fmt.Sprint(typeErr)
}
