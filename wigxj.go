/*
Package wigxj evaluates Wigner 3j, 6j and 9j symbols and Clebsch-Gordan
coefficients exactly, for angular momenta up to j of order 1000. The library
features:

  - Exact evaluation: every symbol is assembled from prime-exponent vectors of
    factorials and a signed multi-word integer sum, and rounded to float64 only
    in the very last step.
  - Integer-only inputs: all quantum numbers are passed doubled (2j, 2m), so
    half-integer momenta become odd integers.
  - A one-shot global precomputation sized by the largest momentum the caller
    will request, lock-free and read-only afterwards; evaluations draw their
    scratch space from a recycling pool and can run concurrently.

Call [GlobalInit] once before the first evaluation.
*/
package wigxj

import (
	"github.com/exactspin/wigxj/calc"
	"github.com/exactspin/wigxj/pool"
	"github.com/exactspin/wigxj/werr"
)

// GlobalInit builds the process-wide prime and factorial tables. maxTwoJ is
// the largest doubled momentum any later call may use, and symbolKind must be
// 3, 6 or 9, selecting how deep a factorial table the symbol kind needs.
// The first successful call wins; later calls are no-ops. A symbolKind
// outside {3, 6, 9}, or a table so large that factorial exponents could no
// longer be represented, is reported through the fatal error sink.
func GlobalInit(maxTwoJ, symbolKind int) {
	switch symbolKind {
	case 3, 6, 9:
		pool.Init(maxTwoJ, symbolKind)
	default:
		werr.Fatal(werr.BadSymbolKind, "symbol kind %d is not one of 3, 6, 9", symbolKind)
	}
}

// ResetTempStorage discards all recycled evaluation scratch. Outstanding
// evaluations are unaffected; subsequent ones allocate fresh scratch.
func ResetTempStorage() {
	calc.ResetTempStorage()
}

// ThreeJ returns the Wigner 3j symbol (j1 j2 j3; m1 m2 m3). All arguments
// are doubled quantum numbers. Tuples failing the selection rules yield 0.
func ThreeJ(twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3 int) float64 {
	return calc.ThreeJ(twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3)
}

// SixJ returns the Wigner 6j symbol {j1 j2 j3; j4 j5 j6}.
func SixJ(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6 int) float64 {
	return calc.SixJ(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6)
}

// NineJ returns the Wigner 9j symbol {j1 j2 j3; j4 j5 j6; j7 j8 j9}.
func NineJ(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6, twoJ7, twoJ8, twoJ9 int) float64 {
	return calc.NineJ(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6, twoJ7, twoJ8, twoJ9)
}

// CG returns the Clebsch-Gordan coefficient <j1 m1 j2 m2 | J M>.
func CG(twoJ1, twoJ2, twoM1, twoM2, twoJ, twoM int) float64 {
	return calc.CG(twoJ1, twoJ2, twoM1, twoM2, twoJ, twoM)
}
