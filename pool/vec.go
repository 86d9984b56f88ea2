package pool

// Vec is a view on one prime-exponent record: Used leading exponents are
// meaningful, every position at or past Used is an implicit zero whatever
// the record holds there. Operations that read past Used expand the vector
// first, zero-filling the gap.
//
// A Vec with all-nonnegative exponents denotes a positive integer, such as a
// number or factorial pool record; signed exponents represent a positive
// rational.
type Vec struct {
	Used int
	Data []int32
}

// SetZero sets the first n exponents to zero and the active length to n.
func (v *Vec) SetZero(n int) {
	v.Used = n
	for i := 0; i < n; i++ {
		v.Data[i] = 0
	}
}

// SetMax fills the first n exponents with the sentinel MaxExp, priming the
// vector for min-reduction.
func (v *Vec) SetMax(n int) {
	v.Used = n
	for i := 0; i < n; i++ {
		v.Data[i] = MaxExp
	}
}

// Expand zero-fills positions [Used, n) and raises Used to n. A no-op when
// the vector already covers n positions.
func (v *Vec) Expand(n int) {
	if v.Used >= n {
		return
	}
	for i := v.Used; i < n; i++ {
		v.Data[i] = 0
	}
	v.Used = n
}

// KeepMin reduces v position-wise to the minimum of v and o. Both vectors
// must have the same active length.
func (v *Vec) KeepMin(o *Vec) {
	for i := 0; i < v.Used; i++ {
		if o.Data[i] < v.Data[i] {
			v.Data[i] = o.Data[i]
		}
	}
}

// KeepMinInAsDiff reduces v to the position-wise minimum while rewriting o
// to o-v, the excess of the incoming term over the old running minimum.
// Both vectors must have the same active length.
func (v *Vec) KeepMinInAsDiff(o *Vec) {
	for i := 0; i < v.Used; i++ {
		tmp := o.Data[i] - v.Data[i]
		if o.Data[i] < v.Data[i] {
			v.Data[i] = o.Data[i]
		}
		o.Data[i] = tmp
	}
}

// Copy replaces v's active prefix with o's.
func (v *Vec) Copy(o *Vec) {
	v.Used = o.Used
	copy(v.Data[:v.Used], o.Data[:o.Used])
}

// ExpandAdd adds o into v, expanding v to cover o's active length.
func (v *Vec) ExpandAdd(o *Vec) {
	v.Expand(o.Used)
	for i := 0; i < o.Used; i++ {
		v.Data[i] += o.Data[i]
	}
}

// ExpandSub subtracts o from v, expanding v to cover o's active length.
func (v *Vec) ExpandSub(o *Vec) {
	v.Expand(o.Used)
	for i := 0; i < o.Used; i++ {
		v.Data[i] -= o.Data[i]
	}
}

// ExpandSum3 sets v to a+b+c over the union of their active lengths,
// expanding all three arguments to that length.
func (v *Vec) ExpandSum3(a, b, c *Vec) {
	n := a.Used
	if b.Used > n {
		n = b.Used
	}
	if c.Used > n {
		n = c.Used
	}
	v.Used = n
	a.Expand(n)
	b.Expand(n)
	c.Expand(n)
	for i := 0; i < n; i++ {
		v.Data[i] = a.Data[i] + b.Data[i] + c.Data[i]
	}
}

// Add3Sub accumulates a+b+c-d into v within v's active length. The
// arguments must be zero past their own active lengths, as pool records
// are.
func (v *Vec) Add3Sub(a, b, c, d *Vec) {
	for i := 0; i < v.Used; i++ {
		v.Data[i] += a.Data[i] + b.Data[i] + c.Data[i] - d.Data[i]
	}
}

// Add6 accumulates the sum of six vectors into v within v's active length.
func (v *Vec) Add6(a, b, c, d, e, f *Vec) {
	for i := 0; i < v.Used; i++ {
		v.Data[i] += a.Data[i] + b.Data[i] + c.Data[i] + d.Data[i] + e.Data[i] + f.Data[i]
	}
}

// Add7 accumulates the sum of seven vectors into v within v's active length.
func (v *Vec) Add7(a, b, c, d, e, f, g *Vec) {
	for i := 0; i < v.Used; i++ {
		v.Data[i] += a.Data[i] + b.Data[i] + c.Data[i] + d.Data[i] + e.Data[i] + f.Data[i] + g.Data[i]
	}
}

// SumSub7 sets v to a-b-c-d-e-f-g-h over the first n positions.
func (v *Vec) SumSub7(a, b, c, d, e, f, g, h *Vec, n int) {
	v.Used = n
	for i := 0; i < n; i++ {
		v.Data[i] = a.Data[i] - b.Data[i] - c.Data[i] - d.Data[i] - e.Data[i] - f.Data[i] - g.Data[i] - h.Data[i]
	}
}

// Sum0Sub6 sets v to -a-b-c-d-e-f over the first n positions.
func (v *Vec) Sum0Sub6(a, b, c, d, e, f *Vec, n int) {
	v.Used = n
	for i := 0; i < n; i++ {
		v.Data[i] = -a.Data[i] - b.Data[i] - c.Data[i] - d.Data[i] - e.Data[i] - f.Data[i]
	}
}

// Bank is a fixed-capacity arena of exponent-vector records over one shared
// backing array. Records are laid out at a fixed stride so that each starts
// on a 64-byte boundary.
type Bank struct {
	stride  int
	backing []int32
	vecs    []Vec
}

// NewBank returns a bank of n records of numPrimes exponents each, all
// zeroed with active length 0.
func NewBank(n, numPrimes int) *Bank {
	stride := (numPrimes + 15) &^ 15
	if stride == 0 {
		stride = 16
	}
	b := &Bank{
		stride:  stride,
		backing: make([]int32, n*stride),
		vecs:    make([]Vec, n),
	}
	for i := range b.vecs {
		b.vecs[i].Data = b.backing[i*stride : i*stride+numPrimes : i*stride+numPrimes]
	}
	return b
}

// At returns the i-th record.
func (b *Bank) At(i int) *Vec {
	return &b.vecs[i]
}

// Len returns the number of records.
func (b *Bank) Len() int {
	return len(b.vecs)
}

// Reset zeroes every record and its active length.
func (b *Bank) Reset() {
	for i := range b.backing {
		b.backing[i] = 0
	}
	for i := range b.vecs {
		b.vecs[i].Used = 0
	}
}
