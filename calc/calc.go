// Package calc evaluates Wigner symbols from the precomputed factorial
// pool. Each symbol is a Racah sum: every summand is a signed product of
// factorials held as a prime-exponent vector, the summands are normalized
// to their position-wise minimum exponents so the sum runs over integers,
// and the final value is reconstructed in double precision from the exact
// numerator, denominator and pending square-root parts.
package calc

import (
	"fmt"
	"math"

	"github.com/exactspin/wigxj/mwi"
	"github.com/exactspin/wigxj/pool"
	"github.com/exactspin/wigxj/utils"
	"github.com/exactspin/wigxj/werr"
)

// deltaCoeff folds the squared triangle coefficient of (a, b, c) into
// prefact: the three numerator factorials (a+b-c)!, (a-b+c)!, (-a+b+c)!
// minus the denominator (a+b+c+1)!.
func deltaCoeff(g *pool.GlobalPool, twoA, twoB, twoC int, prefact *pool.Vec) {
	maxFactorial := (twoA+twoB+twoC)/2 + 1
	if maxFactorial > g.Table.MaxFactorial {
		werr.Fatal(werr.FactorialTooLarge, "triangle coefficient needs %d!, pool holds up to %d!", maxFactorial, g.Table.MaxFactorial)
		return
	}

	n1 := g.Factorial((twoA + twoB - twoC) / 2)
	n2 := g.Factorial((twoA - twoB + twoC) / 2)
	n3 := g.Factorial((-twoA + twoB + twoC) / 2)
	d1 := g.Factorial(maxFactorial)

	prefact.Expand(d1.Used)
	prefact.Add3Sub(n1, n2, n3, d1)
}

func (t *TempStorage) checkIter(kLim int) {
	if kLim+1 > t.maxIter {
		panic(fmt.Sprintf("calc: %d sum iterations exceed the %d scratch slots", kLim+1, t.maxIter))
	}
}

// calcsum3j assembles the 3j Racah sum: the scratch ends up holding the
// summed integer (sumProd), the common minimum exponents of the summands
// (minNume) and the squared prefactor exponents (prefact).
func calcsum3j(g *pool.GlobalPool, t *TempStorage, twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3 int) {
	kMin := utils.Max(utils.Max(twoJ1+twoM2-twoJ3, twoJ2-twoM1-twoJ3), 0) / 2
	kMax := utils.Min(utils.Min(twoJ2+twoM2, twoJ1-twoM1), twoJ1+twoJ2-twoJ3) / 2

	maxFactorial := (twoJ1+twoJ2+twoJ3)/2 + 1
	if maxFactorial > g.Table.MaxFactorial {
		werr.Fatal(werr.FactorialTooLarge, "3j needs %d!, pool holds up to %d!", maxFactorial, g.Table.MaxFactorial)
		return
	}
	maxUsed := g.Factorial(maxFactorial).Used

	t.vec(idxMinNume).SetMax(maxUsed)

	kLim := kMax - kMin
	t.checkIter(kLim)

	offset1 := kMin + (twoJ3-twoJ1-twoM2)/2
	offset2 := kMin + (twoJ3-twoJ2+twoM1)/2

	fixed1 := (twoJ2+twoM2)/2 - kMin
	fixed2 := (twoJ1-twoM1)/2 - kMin
	fixed3 := (twoJ1+twoJ2-twoJ3)/2 - kMin

	for k := 0; k <= kLim; k++ {
		nume := t.vec(idxIterStart + k)
		nume.Sum0Sub6(
			g.Factorial(kMin+k), g.Factorial(offset1+k), g.Factorial(offset2+k),
			g.Factorial(fixed1-k), g.Factorial(fixed2-k), g.Factorial(fixed3-k),
			maxUsed)
		t.vec(idxMinNume).KeepMin(nume)
	}

	t.sumProd.SetWord(0)

	sign := kMin ^ ((twoJ1 - twoJ2 - twoM3) / 2)

	for k := 0; k <= kLim; k++ {
		nume := t.vec(idxIterStart + k)
		nume.ExpandSub(t.vec(idxMinNume))
		t.eval.evaluate(g.Table, &t.bigProd, nume)

		if (k^sign)&1 != 0 {
			t.sumProd.Sub(&t.bigProd)
		} else {
			t.sumProd.Add(&t.bigProd)
		}
	}

	prefact := t.vec(idxPrefact)
	prefact.SetZero(0)
	deltaCoeff(g, twoJ1, twoJ2, twoJ3, prefact)
	prefact.Add6(
		g.Factorial((twoJ1-twoM1)/2), g.Factorial((twoJ1+twoM1)/2),
		g.Factorial((twoJ2-twoM2)/2), g.Factorial((twoJ2+twoM2)/2),
		g.Factorial((twoJ3-twoM3)/2), g.Factorial((twoJ3+twoM3)/2))
}

// factor6j runs the 6j Racah sum for one symbol, leaving the summed integer
// in sumProd and the summands' common minimum exponents in minNume. It is
// the shared core of the 6j evaluation and of each of the three factors of
// a 9j term.
func factor6j(g *pool.GlobalPool, t *TempStorage, twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6 int, minNume *pool.Vec, sumProd *mwi.Int) {
	twoA, twoB, twoC, twoD, twoE, twoF := twoJ1, twoJ2, twoJ5, twoJ4, twoJ3, twoJ6

	alpha1 := twoA + twoB + twoE
	alpha2 := twoC + twoD + twoE
	alpha3 := twoA + twoC + twoF
	alpha4 := twoB + twoD + twoF
	beta1 := twoA + twoB + twoC + twoD
	beta2 := twoA + twoD + twoE + twoF
	beta3 := twoB + twoC + twoE + twoF

	kMin := utils.Max(utils.Max(alpha1, alpha2), utils.Max(alpha3, alpha4)) / 2
	kMax := utils.Min(utils.Min(beta1, beta2), beta3) / 2

	maxFactorial := utils.Max(kMax+1, utils.Max(beta1/2, utils.Max(beta2/2, beta3/2)))
	if maxFactorial > g.Table.MaxFactorial {
		werr.Fatal(werr.FactorialTooLarge, "6j needs %d!, pool holds up to %d!", maxFactorial, g.Table.MaxFactorial)
		return
	}
	maxUsed := g.Factorial(maxFactorial).Used

	minNume.SetMax(maxUsed)

	kLim := kMax - kMin
	t.checkIter(kLim)

	d1 := kMin - alpha1/2
	d2 := kMin - alpha2/2
	d3 := kMin - alpha3/2
	d4 := kMin - alpha4/2

	d5 := beta1/2 - kMin
	d6 := beta2/2 - kMin
	d7 := beta3/2 - kMin

	for k := 0; k <= kLim; k++ {
		nume := t.vec(idxIterStart + k)
		nume.SumSub7(
			g.Factorial(kMin+1+k),
			g.Factorial(d1+k), g.Factorial(d2+k), g.Factorial(d3+k), g.Factorial(d4+k),
			g.Factorial(d5-k), g.Factorial(d6-k), g.Factorial(d7-k),
			maxUsed)
		minNume.KeepMin(nume)
	}

	sumProd.SetWord(0)

	for k := 0; k <= kLim; k++ {
		nume := t.vec(idxIterStart + k)
		nume.ExpandSub(minNume)
		t.eval.evaluate(g.Table, &t.bigProd, nume)

		if (k^kMin)&1 != 0 {
			sumProd.Sub(&t.bigProd)
		} else {
			sumProd.Add(&t.bigProd)
		}
	}
}

func calcsum6j(g *pool.GlobalPool, t *TempStorage, twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6 int) {
	twoA, twoB, twoC, twoD, twoE, twoF := twoJ1, twoJ2, twoJ5, twoJ4, twoJ3, twoJ6

	factor6j(g, t, twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6, t.vec(idxMinNume), &t.sumProd)

	prefact := t.vec(idxPrefact)
	prefact.SetZero(0)
	deltaCoeff(g, twoA, twoB, twoE, prefact)
	deltaCoeff(g, twoC, twoD, twoE, prefact)
	deltaCoeff(g, twoA, twoC, twoF, prefact)
	deltaCoeff(g, twoB, twoD, twoF, prefact)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// calcsum9j sums products of three 6j factors over the auxiliary coupling
// k. The partial sums of different k live on different exponent baselines,
// so each fold updates the running minimum and rescales: the negative part
// of the excess rescales the accumulated sum, the positive part rescales
// the incoming term. This keeps the accumulator exact without blowing it up
// to a naive common denominator.
func calcsum9j(g *pool.GlobalPool, t *TempStorage, twoA, twoB, twoC, twoD, twoE, twoF, twoG, twoH, twoI int) {
	twoKMin := utils.Max(utils.Max(abs(twoH-twoD), abs(twoB-twoF)), abs(twoA-twoI))
	twoKMax := utils.Min(utils.Min(twoH+twoD, twoB+twoF), twoA+twoI)

	minNume := t.vec(idxMinNume)
	minNume.SetZero(0)
	t.sumProd.SetWord(0)

	for twoK := twoKMin; twoK <= twoKMax; twoK += 2 {
		factor6j(g, t, twoA, twoB, twoC, twoF, twoI, twoK, t.vec(idxTriprodFx+0), &t.triprod)
		factor6j(g, t, twoF, twoD, twoE, twoH, twoB, twoK, t.vec(idxTriprodFx+1), &t.triprodFac)
		t.triprodTmp.Mul(&t.triprod, &t.triprodFac)
		factor6j(g, t, twoH, twoI, twoG, twoA, twoD, twoK, t.vec(idxTriprodFx+2), &t.triprodFac)
		t.triprod.Mul(&t.triprodTmp, &t.triprodFac)

		numeTriprod := t.vec(idxNumeTriprod)
		numeTriprod.ExpandSum3(t.vec(idxTriprodFx+0), t.vec(idxTriprodFx+1), t.vec(idxTriprodFx+2))

		deltaCoeff(g, twoA, twoI, twoK, numeTriprod)
		deltaCoeff(g, twoF, twoB, twoK, numeTriprod)
		deltaCoeff(g, twoH, twoD, twoK, numeTriprod)

		numeTriprod.ExpandAdd(g.PrimeFactor(twoK + 1))

		if twoK == twoKMin {
			minNume.Copy(numeTriprod)
			t.bigNume.SetWord(1)
			t.bigDiv.SetWord(1)
		} else {
			minNume.Expand(numeTriprod.Used)
			numeTriprod.Expand(minNume.Used)
			minNume.KeepMinInAsDiff(numeTriprod)
			t.eval.evaluate2(g.Table, &t.bigDiv, &t.bigNume, numeTriprod)
		}

		t.triprodTmp.Mul(&t.triprod, &t.bigDiv)
		t.sumProd.Mul(&t.sumProd, &t.bigNume)

		if twoK&1 != 0 {
			t.sumProd.Sub(&t.triprodTmp)
		} else {
			t.sumProd.Add(&t.triprodTmp)
		}
	}

	prefact := t.vec(idxPrefact)
	prefact.SetZero(0)
	deltaCoeff(g, twoA, twoB, twoC, prefact)
	deltaCoeff(g, twoD, twoE, twoF, prefact)
	deltaCoeff(g, twoG, twoH, twoI, prefact)
	deltaCoeff(g, twoA, twoD, twoG, prefact)
	deltaCoeff(g, twoB, twoE, twoH, prefact)
	deltaCoeff(g, twoC, twoF, twoI, prefact)
}

// splitSqrtAdd halves the prefactor exponents in place, diverting each odd
// remainder into bigSqrt as one factor of the pending square root, then
// merges the add vector (the summands' common minimum) into the halved
// exponents.
func splitSqrtAdd(t *pool.PrimeTable, srcDest *pool.Vec, bigSqrt *mwi.Int, add *pool.Vec) {
	bigSqrt.SetWord(1)

	n := utils.Max(srcDest.Used, add.Used)
	srcDest.Expand(n)
	add.Expand(n)

	for i := 0; i < srcDest.Used; i++ {
		odd := srcDest.Data[i] & 1
		srcDest.Data[i] = (srcDest.Data[i]+odd)/2 + add.Data[i]

		if odd == 0 {
			continue
		}
		bigSqrt.MulWord(uint64(t.Primes[i]))
	}
}

// evalCalcsumInfo turns the assembled scratch state into the final double:
// prefact splits into an integer part and a pending square root, the
// integer part scales the summed integer, and the three resulting
// multi-word values are combined through their (mantissa, exponent) pairs.
func evalCalcsumInfo(pt *pool.PrimeTable, t *TempStorage) float64 {
	splitSqrtAdd(pt, t.vec(idxPrefact), &t.bigSqrt, t.vec(idxMinNume))

	t.eval.evaluate2(pt, &t.bigNume, &t.bigDiv, t.vec(idxPrefact))
	t.bigNumeProd.Mul(&t.bigNume, &t.sumProd)

	dNumeProd, expNumeProd := t.bigNumeProd.Float()
	dDiv, expDiv := t.bigDiv.Float()
	dSqrt, expSqrt := t.bigSqrt.Float()

	r := (dNumeProd / dDiv) / math.Sqrt(dSqrt)
	return math.Ldexp(r, expNumeProd-expDiv-expSqrt/2)
}

// ThreeJ returns the Wigner 3j symbol of the doubled quantum numbers, or 0
// when the selection rules fail.
func ThreeJ(twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3 int) float64 {
	if isZero3j(twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3) {
		return 0
	}
	g := pool.Get()
	if g == nil {
		return 0
	}
	t := getTemp(g)
	defer putTemp(t)

	calcsum3j(g, t, twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3)
	return evalCalcsumInfo(g.Table, t)
}

// SixJ returns the Wigner 6j symbol of the doubled quantum numbers, or 0
// when the selection rules fail.
func SixJ(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6 int) float64 {
	if isZero6j(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6) {
		return 0
	}
	g := pool.Get()
	if g == nil {
		return 0
	}
	t := getTemp(g)
	defer putTemp(t)

	calcsum6j(g, t, twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6)
	return evalCalcsumInfo(g.Table, t)
}

// NineJ returns the Wigner 9j symbol of the doubled quantum numbers, or 0
// when the selection rules fail.
func NineJ(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6, twoJ7, twoJ8, twoJ9 int) float64 {
	if isZero9j(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6, twoJ7, twoJ8, twoJ9) {
		return 0
	}
	g := pool.Get()
	if g == nil {
		return 0
	}
	t := getTemp(g)
	defer putTemp(t)

	calcsum9j(g, t, twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6, twoJ7, twoJ8, twoJ9)
	return evalCalcsumInfo(g.Table, t)
}

// CG returns the Clebsch-Gordan coefficient <j1 m1 j2 m2 | J M> through its
// 3j reduction: the factorization of 2J+1 joins the squared prefactor, so
// the square-root split yields the sqrt(2J+1) factor, and the phase
// (-1)^(j1-j2+M) signs the result.
func CG(twoJ1, twoJ2, twoM1, twoM2, twoJ, twoM int) float64 {
	if isZero3j(twoJ1, twoJ2, twoJ, twoM1, twoM2, -twoM) {
		return 0
	}
	g := pool.Get()
	if g == nil {
		return 0
	}
	t := getTemp(g)
	defer putTemp(t)

	calcsum3j(g, t, twoJ1, twoJ2, twoJ, twoM1, twoM2, -twoM)
	t.vec(idxPrefact).ExpandAdd(g.PrimeFactor(twoJ + 1))

	r := evalCalcsumInfo(g.Table, t)
	if ((twoJ1-twoJ2+twoM)/2)&1 != 0 {
		r = -r
	}
	return r
}
