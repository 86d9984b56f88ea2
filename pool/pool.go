// Package pool precomputes everything the symbol evaluator reads at run
// time: the primes up to the largest requested factorial, the prime
// factorization of every integer up to that bound (the number pool), and
// the factorization of every factorial (the factorial pool). The pool is
// built once per process and is immutable and lock-free afterwards.
package pool

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/zeebo/blake3"

	"github.com/exactspin/wigxj/werr"
)

// GlobalPool is the process-wide precomputation. All fields are read-only
// after construction.
type GlobalPool struct {
	Table      *PrimeTable
	MaxTwoJ    int
	SymbolKind int

	numPool       *Bank
	factorialPool *Bank
}

// Factorial returns the prime-exponent vector of n!.
func (g *GlobalPool) Factorial(n int) *Vec {
	return g.factorialPool.At(n)
}

// PrimeFactor returns the prime-exponent vector of the integer n.
func (g *GlobalPool) PrimeFactor(n int) *Vec {
	return g.numPool.At(n)
}

// Checksum fingerprints the factorial pool. Two pools built from the same
// parameters hash identically, and the hash of a live pool never changes.
func (g *GlobalPool) Checksum() [32]byte {
	h := blake3.New()
	var word [4]byte
	for n := 0; n <= g.Table.MaxFactorial; n++ {
		v := g.factorialPool.At(n)
		binary.LittleEndian.PutUint32(word[:], uint32(v.Used))
		h.Write(word[:])
		for _, e := range v.Data {
			binary.LittleEndian.PutUint32(word[:], uint32(e))
			h.Write(word[:])
		}
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// maxFactorialFor derives the largest factorial any evaluation of the given
// symbol kind can request: (kind/3 + 2) * (maxTwoJ/2) + 1, clamped to at
// least 2.
func maxFactorialFor(maxTwoJ, symbolKind int) int {
	maxFactorial := (symbolKind/3+2)*(maxTwoJ/2) + 1
	if maxFactorial < 2 {
		maxFactorial = 2
	}
	return maxFactorial
}

// fillNumPool enumerates every integer in [1, MaxFactorial] exactly once by
// running an odometer over the primes: multiply the current value by the
// smallest prime that keeps it within bounds, otherwise roll that prime's
// exponent back to zero and carry into the next prime. Record 0 serves as
// the staging vector and is zeroed afterwards.
func (g *GlobalPool) fillNumPool() {
	primes := g.Table.Primes
	maxFactorial := uint64(g.Table.MaxFactorial)

	staging := g.numPool.At(0)
	cur := uint64(1)
	maxP := 0

	for done := false; !done; {
		p := 0
		for {
			if cur*uint64(primes[p]) <= maxFactorial {
				staging.Data[p]++
				cur *= uint64(primes[p])
				break
			}

			for staging.Data[p] > 0 {
				cur /= uint64(primes[p])
				staging.Data[p]--
			}
			p++
			if p > maxP {
				maxP = p
			}
			if p >= len(primes) {
				done = true
				break
			}
		}

		dst := g.numPool.At(int(cur))
		copy(dst.Data, staging.Data)
		if cur == 1 {
			dst.Used = 0
		} else {
			dst.Used = maxP + 1
		}
	}

	for i := range staging.Data {
		staging.Data[i] = 0
	}
}

// fillFactorialPool builds n! = (n-1)! * n as a cumulative sum over the
// number pool. Record 0 stays the all-zero vector of 0!.
func (g *GlobalPool) fillFactorialPool() {
	numPrimes := g.Table.NumPrimes()
	for n := 1; n <= g.Table.MaxFactorial; n++ {
		src := g.factorialPool.At(n - 1)
		add := g.numPool.At(n)
		dst := g.factorialPool.At(n)
		for p := 0; p < numPrimes; p++ {
			dst.Data[p] = src.Data[p] + add.Data[p]
		}
		dst.Used = src.Used
		if add.Used > dst.Used {
			dst.Used = add.Used
		}
	}
}

func newGlobalPool(maxTwoJ, symbolKind int) *GlobalPool {
	table := NewPrimeTable(maxFactorialFor(maxTwoJ, symbolKind))
	g := &GlobalPool{
		Table:         table,
		MaxTwoJ:       maxTwoJ,
		SymbolKind:    symbolKind,
		numPool:       NewBank(table.MaxFactorial+1, table.NumPrimes()),
		factorialPool: NewBank(table.MaxFactorial+1, table.NumPrimes()),
	}
	g.fillNumPool()
	g.fillFactorialPool()
	return g
}

var (
	initOnce sync.Once
	global   atomic.Pointer[GlobalPool]
)

// Init builds the global pool for the given largest doubled momentum and
// symbol kind. The first call wins; later calls are no-ops. Init is fatal
// when the derived factorial bound could push a prime exponent outside the
// representable range.
func Init(maxTwoJ, symbolKind int) {
	initOnce.Do(func() {
		maxFactorial := maxFactorialFor(maxTwoJ, symbolKind)
		if int64(maxFactorial)*50 > int64(MaxExp) {
			werr.Fatal(werr.FactorialTooLarge, "factorial pool up to %d! cannot be represented", maxFactorial)
			return
		}
		global.Store(newGlobalPool(maxTwoJ, symbolKind))
	})
}

// Get returns the global pool. Calling Get before a successful Init is
// fatal; under a fatal handler that returns, Get returns nil.
func Get() *GlobalPool {
	g := global.Load()
	if g == nil {
		werr.Fatal(werr.NotInitialized, "symbol evaluation before GlobalInit")
	}
	return g
}
