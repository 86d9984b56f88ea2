// Package mwi implements signed multi-word integers in two's complement
// form, tailored to the accumulation patterns of the symbol evaluator:
// in-place addition and subtraction, multiplication by a single word, and a
// full sign-extended schoolbook product that shrinks its result back to
// canonical form. Values leave the package through the (mantissa, exponent)
// pair of [Int.Float], the hex form of [Int.HexString], or word by word
// through [Int.Word].
package mwi

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// WordBits is the number of bits per word.
const WordBits = 64

const signBit = uint64(1) << (WordBits - 1)

// signWord returns the word x sign-extends to: all zeros or all ones.
func signWord(x uint64) uint64 {
	return uint64(int64(x) >> (WordBits - 1))
}

// Int is a signed integer stored as a little-endian word sequence
// interpreted in two's complement. The word sequence is never empty.
// Multiplication results are canonical: the top word is not a pure sign
// extension of the word below it.
type Int struct {
	w []uint64
}

// New returns a new Int of value 0.
func New() *Int {
	return &Int{w: make([]uint64, 1, 8)}
}

// NewFromWord returns a new Int holding the single word v. A word with the
// sign bit set is a negative value.
func NewFromWord(v uint64) *Int {
	z := New()
	z.w[0] = v
	return z
}

// SetWord resets z to the single word v and returns z.
func (z *Int) SetWord(v uint64) *Int {
	z.w = append(z.w[:0], v)
	return z
}

// Set copies x into z and returns z.
func (z *Int) Set(x *Int) *Int {
	z.w = append(z.w[:0], x.w...)
	return z
}

// Len returns the number of words of z.
func (z *Int) Len() int {
	return len(z.w)
}

// Word returns the i-th word of z.
func (z *Int) Word(i int) uint64 {
	return z.w[i]
}

// IsNeg reports whether z is negative, i.e. whether the sign bit of its top
// word is set.
func (z *Int) IsNeg() bool {
	return z.w[len(z.w)-1]&signBit != 0
}

// IsSingleWord reports whether z occupies a single word.
func (z *Int) IsSingleWord() bool {
	return len(z.w) == 1
}

// pushIfNeeded appends the hypothetical next-higher word iff dropping it
// would change the value: either next is not a pure sign extension, or the
// top word's sign bit flipped direction. This is the exact single-step rule
// that keeps the two's complement form canonical.
func (z *Int) pushIfNeeded(next uint64) {
	if next != signWord(next) || (next^z.w[len(z.w)-1])&signBit != 0 {
		z.w = append(z.w, next)
	}
}

// AddWord adds the single word v (sign-extended) to z in place.
func (z *Int) AddWord(v uint64) *Int {
	oldsz := len(z.w)
	thisSign := signWord(z.w[oldsz-1])
	vSign := signWord(v)

	var carry uint64
	z.w[0], carry = bits.Add64(z.w[0], v, 0)
	for i := 1; i < oldsz; i++ {
		z.w[i], carry = bits.Add64(z.w[i], vSign, carry)
	}

	z.pushIfNeeded(thisSign + vSign + carry)
	return z
}

// Add adds x to z in place. The length of z grows by at most one word past
// the longer operand.
func (z *Int) Add(x *Int) *Int {
	oldsz, xsz := len(z.w), len(x.w)
	thisSign := signWord(z.w[oldsz-1])
	xSign := signWord(x.w[xsz-1])

	var carry uint64
	if xsz <= oldsz {
		for i := 0; i < xsz; i++ {
			z.w[i], carry = bits.Add64(z.w[i], x.w[i], carry)
		}
		for i := xsz; i < oldsz; i++ {
			z.w[i], carry = bits.Add64(z.w[i], xSign, carry)
		}
	} else {
		z.w = append(z.w, make([]uint64, xsz-oldsz)...)
		for i := 0; i < oldsz; i++ {
			z.w[i], carry = bits.Add64(z.w[i], x.w[i], carry)
		}
		for i := oldsz; i < xsz; i++ {
			z.w[i], carry = bits.Add64(thisSign, x.w[i], carry)
		}
	}

	z.pushIfNeeded(thisSign + xSign + carry)
	return z
}

// SubWord subtracts the single word v (sign-extended) from z in place.
func (z *Int) SubWord(v uint64) *Int {
	oldsz := len(z.w)
	thisSign := signWord(z.w[oldsz-1])
	vSign := signWord(v)

	var borrow uint64
	z.w[0], borrow = bits.Sub64(z.w[0], v, 0)
	for i := 1; i < oldsz; i++ {
		z.w[i], borrow = bits.Sub64(z.w[i], vSign, borrow)
	}

	z.pushIfNeeded(thisSign - vSign - borrow)
	return z
}

// Sub subtracts x from z in place.
func (z *Int) Sub(x *Int) *Int {
	oldsz, xsz := len(z.w), len(x.w)
	thisSign := signWord(z.w[oldsz-1])
	xSign := signWord(x.w[xsz-1])

	var borrow uint64
	if xsz <= oldsz {
		for i := 0; i < xsz; i++ {
			z.w[i], borrow = bits.Sub64(z.w[i], x.w[i], borrow)
		}
		for i := xsz; i < oldsz; i++ {
			z.w[i], borrow = bits.Sub64(z.w[i], xSign, borrow)
		}
	} else {
		z.w = append(z.w, make([]uint64, xsz-oldsz)...)
		for i := 0; i < oldsz; i++ {
			z.w[i], borrow = bits.Sub64(z.w[i], x.w[i], borrow)
		}
		for i := oldsz; i < xsz; i++ {
			z.w[i], borrow = bits.Sub64(thisSign, x.w[i], borrow)
		}
	}

	z.pushIfNeeded(thisSign - xSign - borrow)
	return z
}

// mulKernel returns the low word of src*factor + fromLower + acc and the
// carry into the next position. The double-width sum cannot overflow.
func mulKernel(src, factor, fromLower, acc uint64) (lo, carry uint64) {
	hi, lo := bits.Mul64(src, factor)
	var c uint64
	lo, c = bits.Add64(lo, fromLower, 0)
	hi += c
	lo, c = bits.Add64(lo, acc, 0)
	hi += c
	return lo, hi
}

// MulWord multiplies z by the single unsigned word v in place. z is read as
// non-negative: a negative z is multiplied as the unsigned value of its
// words, so the result is not z*v.
func (z *Int) MulWord(v uint64) *Int {
	var fromLower uint64
	for i := range z.w {
		z.w[i], fromLower = mulKernel(z.w[i], v, fromLower, 0)
	}
	if fromLower != 0 || z.w[len(z.w)-1]&signBit != 0 {
		z.w = append(z.w, fromLower)
	}
	return z
}

// Mul sets z to x*y and returns z. z may alias x or y. The product is a
// sign-extended schoolbook multiplication of length len(x)+len(y), shrunk
// to canonical form afterwards.
func (z *Int) Mul(x, y *Int) *Int {
	xsz, ysz := len(x.w), len(y.w)
	rsz := xsz + ysz
	res := make([]uint64, rsz)

	xSign := signWord(x.w[xsz-1])
	ySign := signWord(y.w[ysz-1])

	for j := 0; j < ysz; j++ {
		limI := rsz - j
		limI2 := limI
		if xsz < limI2 {
			limI2 = xsz
		}
		factor := y.w[j]

		var fromLower uint64
		for i := 0; i < limI2; i++ {
			res[i+j], fromLower = mulKernel(x.w[i], factor, fromLower, res[i+j])
		}
		if xSign != 0 {
			for i := limI2; i < limI; i++ {
				res[i+j], fromLower = mulKernel(xSign, factor, fromLower, res[i+j])
			}
		} else {
			for i := limI2; fromLower != 0 && i < limI; i++ {
				res[i+j], fromLower = mulKernel(0, factor, fromLower, res[i+j])
			}
		}
	}

	if ySign != 0 {
		for j := ysz; j < rsz; j++ {
			limI := rsz - j
			limI2 := limI
			if xsz < limI2 {
				limI2 = xsz
			}

			var fromLower uint64
			for i := 0; i < limI2; i++ {
				res[i+j], fromLower = mulKernel(x.w[i], ySign, fromLower, res[i+j])
			}
			if xSign != 0 {
				for i := limI2; i < limI; i++ {
					res[i+j], fromLower = mulKernel(xSign, ySign, fromLower, res[i+j])
				}
			} else {
				for i := limI2; fromLower != 0 && i < limI; i++ {
					res[i+j], fromLower = mulKernel(0, ySign, fromLower, res[i+j])
				}
			}
		}
	}

	n := rsz
	for n > 1 && res[n-1] == signWord(res[n-2]) {
		n--
	}
	z.w = res[:n]
	return z
}

// Neg sets z to -x and returns z. z may alias x. The length grows by one
// word only for the most negative value of its length.
func (z *Int) Neg(x *Int) *Int {
	if z != x {
		z.w = append(z.w[:0], x.w...)
	}
	for i := range z.w {
		z.w[i] = ^z.w[i]
	}
	return z.AddWord(1)
}

// Float returns (mantissa, shift) such that ldexp(mantissa, shift) equals z
// to full float64 precision: the top non-redundant word taken as signed,
// plus the next two words as unsigned at descending word scales.
func (z *Int) Float() (float64, int) {
	high := len(z.w) - 1

	// Skip words that are pure sign extensions of the word below.
	for high > 0 && z.w[high] == signWord(z.w[high]) && (z.w[high]^z.w[high-1])&signBit == 0 {
		high--
	}

	var d float64
	for i := 2; i >= 1; i-- {
		var wi uint64
		if high >= i {
			wi = z.w[high-i]
		}
		d += math.Ldexp(float64(wi), -i*WordBits)
	}
	d += float64(int64(z.w[high]))

	return d, high * WordBits
}

// HexString returns the canonical lowercase hexadecimal representation of z:
// "0" for zero, a leading "-" and the absolute value for negatives, no
// leading zeros.
func (z *Int) HexString() string {
	t := z
	if z.IsNeg() {
		t = New().Neg(z)
	}

	var sb strings.Builder
	if z.IsNeg() {
		sb.WriteByte('-')
	}

	high := len(t.w) - 1
	for high > 0 && t.w[high] == 0 {
		high--
	}
	fmt.Fprintf(&sb, "%x", t.w[high])
	for i := high - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%016x", t.w[i])
	}
	return sb.String()
}

// NewFromHex parses a value produced by HexString.
func NewFromHex(s string) (*Int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty hex string")
	}
	neg := s[0] == '-'
	if neg {
		s = s[1:]
	}
	if s == "" {
		return nil, fmt.Errorf("missing hex digits")
	}

	z := New()
	for i := 0; i < len(s); i++ {
		var d uint64
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		default:
			return nil, fmt.Errorf("invalid hex digit %q", s[i])
		}
		z.MulWord(16)
		z.AddWord(d)
	}
	if neg {
		z.Neg(z)
	}
	return z, nil
}
