package calc

// The selection rules accumulate every negativity condition into the sign
// bits of one integer and every parity condition into the low bit of
// another, so that each check is a handful of adds and ors with a single
// test at the end.

func negative(twoJ1, twoJ2, twoJ3 int, sign *int) {
	*sign |= twoJ1 | twoJ2 | twoJ3
}

func triangle(twoJ1, twoJ2, twoJ3 int, sign, odd *int) {
	*odd |= twoJ1 + twoJ2 + twoJ3
	*sign |= twoJ2 + twoJ3 - twoJ1
	*sign |= twoJ3 + twoJ1 - twoJ2
	*sign |= twoJ1 + twoJ2 - twoJ3
}

func absMWithJ(twoM, twoJ int, sign, odd *int) {
	*odd |= twoM + twoJ
	*sign |= twoJ - twoM
	*sign |= twoJ + twoM
}

// isZero3j reports whether the 3j symbol is trivially zero: a negative or
// non-triangular momentum triple, |m| exceeding j, a j+m parity mismatch,
// or a non-vanishing m sum.
func isZero3j(twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3 int) bool {
	var sign, odd int

	negative(twoJ1, twoJ2, twoJ3, &sign)
	triangle(twoJ1, twoJ2, twoJ3, &sign, &odd)

	absMWithJ(twoM1, twoJ1, &sign, &odd)
	absMWithJ(twoM2, twoJ2, &sign, &odd)
	absMWithJ(twoM3, twoJ3, &sign, &odd)

	return twoM1+twoM2+twoM3 != 0 || sign < 0 || odd&1 != 0
}

// isZero6j reports whether the 6j symbol is trivially zero: any of its four
// coupled triads fails non-negativity, a triangle inequality, or integer
// sum.
func isZero6j(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6 int) bool {
	var sign, odd int

	negative(twoJ1, twoJ2, twoJ3, &sign)
	negative(twoJ4, twoJ5, twoJ6, &sign)

	triangle(twoJ1, twoJ2, twoJ3, &sign, &odd)
	triangle(twoJ1, twoJ5, twoJ6, &sign, &odd)
	triangle(twoJ4, twoJ2, twoJ6, &sign, &odd)
	triangle(twoJ4, twoJ5, twoJ3, &sign, &odd)

	return sign < 0 || odd&1 != 0
}

// isZero9j reports whether the 9j symbol is trivially zero: any row or
// column triple fails non-negativity, a triangle inequality, or integer
// sum.
func isZero9j(twoJ1, twoJ2, twoJ3, twoJ4, twoJ5, twoJ6, twoJ7, twoJ8, twoJ9 int) bool {
	var sign, odd int

	negative(twoJ1, twoJ2, twoJ3, &sign)
	negative(twoJ4, twoJ5, twoJ6, &sign)
	negative(twoJ7, twoJ8, twoJ9, &sign)

	triangle(twoJ1, twoJ2, twoJ3, &sign, &odd)
	triangle(twoJ4, twoJ5, twoJ6, &sign, &odd)
	triangle(twoJ7, twoJ8, twoJ9, &sign, &odd)
	triangle(twoJ1, twoJ4, twoJ7, &sign, &odd)
	triangle(twoJ2, twoJ5, twoJ8, &sign, &odd)
	triangle(twoJ3, twoJ6, twoJ9, &sign, &odd)

	return sign < 0 || odd&1 != 0
}
