package pool

import (
	"math/big"
	"testing"

	"github.com/ALTree/bigfloat"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/exactspin/wigxj/werr"
)

// Must stay the first test in the package: it exercises the not-initialized
// path, which only exists until some test calls Init.
func TestGetBeforeInit(t *testing.T) {
	var got werr.Code = -1
	werr.SetHandler(func(c werr.Code) { got = c })
	defer werr.SetHandler(nil)

	require.Nil(t, Get())
	require.Equal(t, werr.NotInitialized, got)
}

func TestPrimeTable(t *testing.T) {
	table := NewPrimeTable(30)
	require.Equal(t, []uint32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}, table.Primes)
	require.Equal(t, 10, table.NumPrimes())
	require.Equal(t, 30, table.MaxFactorial)
	require.Equal(t, (4+4*10+63)&^63, table.BlockBytes)

	require.Empty(t, cmp.Diff(table, NewPrimeTable(30)))
}

func TestNumberPool(t *testing.T) {
	g := newGlobalPool(40, 3) // factorials up to 61

	for n := 1; n <= g.Table.MaxFactorial; n++ {
		v := g.PrimeFactor(n)

		prod := uint64(1)
		for i, p := range g.Table.Primes {
			for e := int32(0); e < v.Data[i]; e++ {
				prod *= uint64(p)
			}
		}
		require.Equal(t, uint64(n), prod, "factorization of %d", n)

		// Exponents past the active length must be zero in pool records.
		for i := v.Used; i < g.Table.NumPrimes(); i++ {
			require.Zero(t, v.Data[i], "tail of %d", n)
		}
	}

	require.Zero(t, g.PrimeFactor(1).Used)
	require.Zero(t, g.PrimeFactor(0).Used)
}

// legendre is the exponent of p in n!.
func legendre(n int, p uint32) int32 {
	var e int32
	for q := int(p); q <= n; q *= int(p) {
		e += int32(n / q)
	}
	return e
}

func TestFactorialPool(t *testing.T) {
	g := newGlobalPool(40, 9) // factorials up to 101

	for n := 0; n <= g.Table.MaxFactorial; n++ {
		v := g.Factorial(n)

		for i, p := range g.Table.Primes {
			require.Equal(t, legendre(n, p), v.Data[i], "exponent of %d in %d!", p, n)
		}

		// The active length covers exactly the primes <= n.
		want := 0
		for _, p := range g.Table.Primes {
			if int(p) <= n {
				want++
			}
		}
		require.Equal(t, want, v.Used, "active length of %d!", n)
	}
}

func TestFactorialAgainstBigfloat(t *testing.T) {
	g := newGlobalPool(40, 9)

	const prec = 200
	for _, n := range []int{5, 30, 64, 101} {
		want := big.NewFloat(1).SetPrec(prec)
		for i := 2; i <= n; i++ {
			want.Mul(want, new(big.Float).SetPrec(prec).SetInt64(int64(i)))
		}

		got := big.NewFloat(1).SetPrec(prec)
		v := g.Factorial(n)
		for i := 0; i < v.Used; i++ {
			if v.Data[i] == 0 {
				continue
			}
			p := new(big.Float).SetPrec(prec).SetInt64(int64(g.Table.Primes[i]))
			e := new(big.Float).SetPrec(prec).SetInt64(int64(v.Data[i]))
			got.Mul(got, bigfloat.Pow(p, e))
		}

		ratio := new(big.Float).Quo(got, want)
		f, _ := ratio.Float64()
		require.InDelta(t, 1.0, f, 1e-12, "%d!", n)
	}
}

func TestChecksum(t *testing.T) {
	g1 := newGlobalPool(40, 3)
	g2 := newGlobalPool(40, 3)
	g3 := newGlobalPool(40, 6)

	require.Equal(t, g1.Checksum(), g2.Checksum())
	require.NotEqual(t, g1.Checksum(), g3.Checksum())
}

func TestMaxFactorialFor(t *testing.T) {
	require.Equal(t, 3*50+1, maxFactorialFor(100, 3))
	require.Equal(t, 4*50+1, maxFactorialFor(100, 6))
	require.Equal(t, 5*50+1, maxFactorialFor(100, 9))
	require.Equal(t, 2, maxFactorialFor(0, 3))
}

func TestInitFirstWriteWins(t *testing.T) {
	Init(40, 9)
	g := Get()
	require.NotNil(t, g)
	require.Equal(t, 40, g.MaxTwoJ)
	require.Equal(t, 9, g.SymbolKind)

	// Later calls with other parameters are no-ops.
	Init(2000, 3)
	require.Same(t, g, Get())
}
