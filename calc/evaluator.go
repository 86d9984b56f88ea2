package calc

import (
	"github.com/exactspin/wigxj/mwi"
	"github.com/exactspin/wigxj/pool"
)

var zeroWord uint64

// halfMask covers the upper half of a word and the bit just below it: the
// power loop switches to multi-word arithmetic as soon as a partial power
// reaches 2^(WordBits/2-1), before any square could leave the word.
var halfMask = ^zeroWord << (mwi.WordBits/2 - 1)

// evaluator assembles the integer a prime-exponent vector denotes. It keeps
// ping-pong accumulator pairs so that full multi-word products alternate
// between two reusable buffers, while single-word factors fold into the
// active buffer in place.
type evaluator struct {
	prodPos [2]mwi.Int
	prodNeg [2]mwi.Int
	factor  [2]mwi.Int
	bigUp   [2]mwi.Int
}

func (e *evaluator) reset() {
	for i := 0; i < 2; i++ {
		e.prodPos[i].SetWord(0)
		e.prodNeg[i].SetWord(0)
		e.factor[i].SetWord(0)
		e.bigUp[i].SetWord(0)
	}
}

// computePrimeFactor raises prime to the given positive exponent into
// e.factor and returns the index of the active factor buffer.
// Square-and-multiply runs on a plain word until the running square hits
// halfMask, then continues on multi-word buffers.
func (e *evaluator) computePrimeFactor(prime uint32, exp int32) int {
	fact := uint64(1)
	up := uint64(prime)
	for {
		if exp&1 != 0 {
			fact *= up
		}
		up *= up
		exp >>= 1

		if exp == 0 {
			e.factor[0].SetWord(fact)
			return 0
		}
		if up&halfMask != 0 {
			break
		}
	}

	upActive, factActive := 0, 0
	e.bigUp[upActive].SetWord(up)
	e.factor[factActive].SetWord(fact)

	for {
		if exp&1 != 0 {
			e.factor[factActive].Mul(&e.factor[factActive], &e.bigUp[upActive])
			e.factor[factActive], e.factor[1-factActive] = e.factor[1-factActive], e.factor[factActive]
			factActive = 1 - factActive
		}

		exp >>= 1
		if exp == 0 {
			break
		}

		e.bigUp[upActive].Mul(&e.bigUp[upActive], &e.bigUp[upActive])
		e.bigUp[upActive], e.bigUp[1-upActive] = e.bigUp[1-upActive], e.bigUp[upActive]
		upActive = 1 - upActive
	}
	return factActive
}

// mergeFactor multiplies the computed prime power into the accumulator
// pair, returning the new active index. Single-word factors multiply in
// place; anything larger flips the ping-pong.
func (e *evaluator) mergeFactor(factActive, active int, prod *[2]mwi.Int) int {
	f := &e.factor[factActive]
	if f.IsSingleWord() {
		prod[active].MulWord(f.Word(0))
		return active
	}

	newActive := 1 - active
	prod[active], prod[newActive] = prod[newActive], prod[active]
	prod[newActive].Mul(&prod[newActive], f)
	return newActive
}

// evaluate sets out to the product of primes raised to the exponents of in,
// which must all be non-negative.
func (e *evaluator) evaluate(t *pool.PrimeTable, out *mwi.Int, in *pool.Vec) {
	active := 0
	e.prodPos[active].SetWord(1)

	for i := 0; i < in.Used; i++ {
		exp := in.Data[i]
		if exp == 0 {
			continue
		}
		factActive := e.computePrimeFactor(t.Primes[i], exp)
		active = e.mergeFactor(factActive, active, &e.prodPos)
	}

	*out, e.prodPos[active] = e.prodPos[active], *out
}

// evaluate2 splits a signed exponent vector into two integers: outPos takes
// the primes with positive exponents, outNeg the primes with negative
// exponents after negation.
func (e *evaluator) evaluate2(t *pool.PrimeTable, outPos, outNeg *mwi.Int, in *pool.Vec) {
	activePos, activeNeg := 0, 0
	e.prodPos[activePos].SetWord(1)
	e.prodNeg[activeNeg].SetWord(1)

	for i := 0; i < in.Used; i++ {
		exp := in.Data[i]
		if exp == 0 {
			continue
		}
		if exp > 0 {
			factActive := e.computePrimeFactor(t.Primes[i], exp)
			activePos = e.mergeFactor(factActive, activePos, &e.prodPos)
		} else {
			factActive := e.computePrimeFactor(t.Primes[i], -exp)
			activeNeg = e.mergeFactor(factActive, activeNeg, &e.prodNeg)
		}
	}

	*outPos, e.prodPos[activePos] = e.prodPos[activePos], *outPos
	*outNeg, e.prodNeg[activeNeg] = e.prodNeg[activeNeg], *outNeg
}
