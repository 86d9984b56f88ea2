package pool

// MaxExp is the largest positive prime exponent the pool will represent.
// Factorial tables whose entries could approach it are refused at Init.
const MaxExp = int32(^uint32(0) >> 2)

// PrimeTable holds the ascending list of primes up to the largest factorial
// the evaluator may request, together with the derived record geometry of
// the exponent-vector banks. It is fixed after construction.
type PrimeTable struct {
	// MaxFactorial is the largest n for which n! is tabulated.
	MaxFactorial int

	// Primes are all primes <= MaxFactorial, ascending.
	Primes []uint32

	// BlockBytes is the size of one exponent-vector record: a 4-byte
	// active-length counter plus one 4-byte exponent per prime, rounded up
	// so each record starts on a 64-byte boundary.
	BlockBytes int
}

// NewPrimeTable sieves the primes up to maxFactorial and derives the record
// geometry. maxFactorial must be at least 2.
func NewPrimeTable(maxFactorial int) *PrimeTable {
	composite := make([]bool, maxFactorial+1)
	for i := 2; i*i <= maxFactorial; i++ {
		if composite[i] {
			continue
		}
		for j := i * i; j <= maxFactorial; j += i {
			composite[j] = true
		}
	}

	t := &PrimeTable{MaxFactorial: maxFactorial}
	for i := 2; i <= maxFactorial; i++ {
		if !composite[i] {
			t.Primes = append(t.Primes, uint32(i))
		}
	}
	t.BlockBytes = (4 + 4*len(t.Primes) + 63) &^ 63

	return t
}

// NumPrimes returns the number of primes in the table.
func (t *PrimeTable) NumPrimes() int {
	return len(t.Primes)
}
