package wigxj_test

import (
	"math"
	"os"
	"sync"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/exactspin/wigxj"
	"github.com/exactspin/wigxj/utils/sampling"
	"github.com/exactspin/wigxj/werr"
)

func TestMain(m *testing.M) {
	wigxj.GlobalInit(2*1000, 9)
	os.Exit(m.Run())
}

// near checks a symbol value against its reference with an absolute
// tolerance scaled to the magnitude of the reference.
func near(t *testing.T, want, got float64) {
	t.Helper()
	tol := math.Abs(want) * 1e-12
	if tol < 1e-14 {
		tol = 1e-14
	}
	require.InDelta(t, want, got, tol)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestThreeJ(t *testing.T) {
	near(t, -0.29277002188456, wigxj.ThreeJ(2, 4, 6, 0, 0, 0))
	near(t, 0.1946247360403808, wigxj.ThreeJ(3, 7, 10, 1, -1, 0))
	near(t, 0.00840975504480555, wigxj.ThreeJ(800, 160, 960, 2, -2, 0))
	near(t, -0.000912343008839644, wigxj.ThreeJ(2000, 200, 1900, -200, 60, 140))
	near(t, 0.002950155302876276, wigxj.ThreeJ(1001, 100, 971, 101, 40, -141))
	near(t, -0.0006393041333744748, wigxj.ThreeJ(1007, 100, 971, -115, -40, 155))
	near(t, -0.00006075343272560838, wigxj.ThreeJ(600, 800, 1400, 100, -50, -50))
	near(t, 1.0, wigxj.ThreeJ(0, 0, 0, 0, 0, 0))

	t.Run("SelectionRuleZero", func(t *testing.T) {
		require.Zero(t, wigxj.ThreeJ(2, 3, 4, 0, 0, 0))
		require.Zero(t, wigxj.ThreeJ(2, 2, 4, 1, 1, 1))
		require.Zero(t, wigxj.ThreeJ(2, 4, 8, 0, 0, 0))
	})
}

func TestSixJ(t *testing.T) {
	near(t, -0.04285714285714286, wigxj.SixJ(4, 4, 4, 4, 4, 4))
	near(t, 0.00952380952380952, wigxj.SixJ(2, 4, 6, 2, 4, 6))
	near(t, -0.00502940645686796, wigxj.SixJ(40, 40, 40, 40, 40, 40))
	near(t, 0.0243902439024390, wigxj.SixJ(40, 40, 40, 40, 40, 0))
	require.InDelta(t, 1.0, wigxj.SixJ(0, 0, 0, 0, 0, 0), 1e-10)
}

func TestNineJ(t *testing.T) {
	near(t, 0.01673469387755102, wigxj.NineJ(4, 4, 4, 4, 4, 4, 4, 4, 4))
	near(t, 0.00342231860713379, wigxj.NineJ(8, 8, 8, 8, 8, 8, 8, 8, 8))
	near(t, -0.00287983621316955, wigxj.NineJ(8, 8, 8, 8, 8, 8, 8, 8, 0))
	near(t, 5.73250316674436e-05, wigxj.NineJ(40, 40, 40, 40, 40, 40, 40, 40, 40))
	near(t, 1.0, wigxj.NineJ(0, 0, 0, 0, 0, 0, 0, 0, 0))

	t.Run("SelectionRuleZero", func(t *testing.T) {
		require.Zero(t, wigxj.NineJ(4, 4, 4, 4, 4, 4, 4, 4, 3))
		require.Zero(t, wigxj.NineJ(4, 4, 8, 4, 4, 8, 8, 8, 18))
	})
}

func TestCG(t *testing.T) {
	near(t, 1.0, wigxj.CG(0, 0, 0, 0, 0, 0))
	near(t, 0.1090035277273105, wigxj.CG(35, 37, 3, 5, 66, 8))
	near(t, -0.04739207072483357, wigxj.CG(35, 100, 3, 16, 81, 19))
	near(t, 0.0935327256644809, wigxj.CG(400, 100, 100, 20, 450, 120))
	near(t, -0.05010110894312421, wigxj.CG(1000, 100, 100, 20, 950, 120))
	near(t, -0.0458031793519417, wigxj.CG(1001, 100, 101, 20, 951, 121))
	near(t, -0.03574682294936458, wigxj.CG(2000, 100, 100, 20, 1950, 120))
	near(t, -0.1132277034144596, wigxj.CG(8, 6, -2, -4, 10, -6))
	near(t, -0.07570018412475693, wigxj.CG(2000, 200, -200, 40, 1900, -160))

	t.Run("SelectionRuleZero", func(t *testing.T) {
		require.Zero(t, wigxj.CG(2, 2, 0, 0, 6, 0))
		require.Zero(t, wigxj.CG(4, 1, 2, 2, 5, 4))
	})

	t.Run("ExchangeAntisymmetry", func(t *testing.T) {
		near(t, -wigxj.CG(4, 2, 2, 2, 4, 4), wigxj.CG(2, 4, 2, 2, 4, 4))
	})
}

// randomTriple draws a coupled (j1, j2, j3, m1, m2, m3) tuple, with j3 in
// the triangle range and matching parity; the m values may still violate
// the m-rules, in which case both sides of an identity are zero.
func randomTriple(t *testing.T, prng *sampling.KeyedPRNG) (twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3 int) {
	var buf [5]byte
	_, err := prng.Read(buf[:])
	require.NoError(t, err)

	twoJ1 = int(buf[0]) % 41
	twoJ2 = int(buf[1]) % 41
	low := abs(twoJ1 - twoJ2)
	steps := (twoJ1 + twoJ2 - low) / 2
	twoJ3 = low + 2*(int(buf[2])%(steps+1))
	twoM1 = -twoJ1 + 2*(int(buf[3])%(twoJ1+1))
	twoM2 = -twoJ2 + 2*(int(buf[4])%(twoJ2+1))
	twoM3 = -(twoM1 + twoM2)
	return
}

func TestExchangeSymmetry(t *testing.T) {
	prng, err := sampling.NewKeyedPRNG([]byte("wigxj-symmetry"))
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3 := randomTriple(t, prng)

		phase := 1.0
		if ((twoJ1+twoJ2+twoJ3)/2)&1 != 0 {
			phase = -1.0
		}

		direct := wigxj.ThreeJ(twoJ1, twoJ2, twoJ3, twoM1, twoM2, twoM3)
		swapped := wigxj.ThreeJ(twoJ2, twoJ1, twoJ3, twoM2, twoM1, twoM3)
		require.InDelta(t, phase*swapped, direct, 1e-13)
	}
}

func TestCGThreeJIdentity(t *testing.T) {
	prng, err := sampling.NewKeyedPRNG([]byte("wigxj-cg-identity"))
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		twoJ1, twoJ2, twoJ, twoM1, twoM2, twoM3 := randomTriple(t, prng)
		twoM := -twoM3

		got := wigxj.CG(twoJ1, twoJ2, twoM1, twoM2, twoJ, twoM)

		want := math.Sqrt(float64(twoJ+1)) * wigxj.ThreeJ(twoJ1, twoJ2, twoJ, twoM1, twoM2, -twoM)
		if ((twoJ1-twoJ2+twoM)/2)&1 != 0 {
			want = -want
		}

		if want == 0 {
			require.Zero(t, got)
			continue
		}
		require.InEpsilon(t, want, got, 1e-13)
	}
}

func TestCGUnitarity(t *testing.T) {
	var devs []float64

	for twoJ1 := 0; twoJ1 <= 8; twoJ1++ {
		for twoJ2 := 0; twoJ2 <= 8; twoJ2++ {
			for twoJ := abs(twoJ1 - twoJ2); twoJ <= twoJ1+twoJ2; twoJ += 2 {
				for twoM := -twoJ; twoM <= twoJ; twoM += 2 {
					sum := 0.0
					for twoM1 := -twoJ1; twoM1 <= twoJ1; twoM1 += 2 {
						twoM2 := twoM - twoM1
						if abs(twoM2) > twoJ2 {
							continue
						}
						c := wigxj.CG(twoJ1, twoJ2, twoM1, twoM2, twoJ, twoM)
						sum += c * c
					}
					devs = append(devs, math.Abs(sum-1))
				}
			}
		}
	}

	max, err := stats.Max(devs)
	require.NoError(t, err)
	mean, err := stats.Mean(devs)
	require.NoError(t, err)

	require.Less(t, max, 1e-12)
	require.Less(t, mean, 1e-13)
}

func TestConcurrentEvaluation(t *testing.T) {
	const workers = 4

	want := wigxj.ThreeJ(800, 160, 960, 2, -2, 0)

	var wg sync.WaitGroup
	results := make([]float64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = wigxj.ThreeJ(800, 160, 960, 2, -2, 0)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.Equal(t, math.Float64bits(want), math.Float64bits(results[i]), "worker %d", i)
	}
}

func TestConcurrentMixedInputs(t *testing.T) {
	inputs := [][6]int{
		{800, 160, 960, 2, -2, 0},
		{3, 7, 10, 1, -1, 0},
		{2, 4, 6, 0, 0, 0},
		{600, 800, 1400, 100, -50, -50},
	}
	want := []float64{
		0.00840975504480555,
		0.1946247360403808,
		-0.29277002188456,
		-0.00006075343272560838,
	}

	var wg sync.WaitGroup
	got := make([]float64, len(inputs))
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in [6]int) {
			defer wg.Done()
			got[i] = wigxj.ThreeJ(in[0], in[1], in[2], in[3], in[4], in[5])
		}(i, in)
	}
	wg.Wait()

	for i := range inputs {
		near(t, want[i], got[i])
	}
}

func TestBadSymbolKind(t *testing.T) {
	var got werr.Code = -1
	werr.SetHandler(func(c werr.Code) { got = c })
	defer werr.SetHandler(nil)

	wigxj.GlobalInit(10, 4)
	require.Equal(t, werr.BadSymbolKind, got)
}

func Benchmark3J(b *testing.B) {
	for i := 0; i < b.N; i++ {
		wigxj.ThreeJ(2*50, 2*40, 2*30, 0, 0, 0)
	}
}

func Benchmark3JLarge(b *testing.B) {
	for i := 0; i < b.N; i++ {
		wigxj.ThreeJ(2000, 200, 1900, -200, 60, 140)
	}
}

func Benchmark9J(b *testing.B) {
	for i := 0; i < b.N; i++ {
		wigxj.NineJ(40, 40, 40, 40, 40, 40, 40, 40, 40)
	}
}
