package simd

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viterin/vek/vek32"
)

// withWideKernel forces the wide slot for the duration of a test.
func withWideKernel(t *testing.T, available bool) {
	t.Helper()
	bindWideKernel(available)
	t.Cleanup(func() { bindWideKernel(activeISA == AVX512) })
}

// dotTolerance bounds the reordering error of a float32 dot product.
func dotTolerance(a, b []float32, rel float64) float64 {
	var mag float64
	for i := range a {
		mag += math.Abs(float64(a[i]) * float64(b[i]))
	}
	return rel * math.Max(1, mag)
}

func naiveDot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{3}, []float32{4}, 12},
		{"Pair", []float32{1, 2}, []float32{3, 4}, 11},
		{"Positive values (size 3)", []float32{1, 2, 3}, []float32{4, 5, 6}, 32.0},
		{"Negative values (size 3)", []float32{-1, -2, -3}, []float32{-4, -5, -6}, 32.0},
		{"More than 4 (size 6)", []float32{1, 2, 3, 1, 2, 3}, []float32{4, 5, 6, 4, 5, 6}, 64.0},
		{"Mixed values (size 3)", []float32{1, -2, 3}, []float32{-4, 5, -6}, -32.0},
		{"Zero values (size 3)", []float32{0, 0, 0}, []float32{0, 0, 0}, 0.0},
		{"Positive values (size 9)", seq(9), seq(9), 285.0},
		{"Positive values (size 10)", seq(10), seq(10), 385.0},
		{"Positive values (size 15)", seq(15), seq(15), 1240.0},
		{"Positive values (size 16)", seq(16), seq(16), 1496.0},
		{"Positive values (size 20)", seq(20), seq(20), 2870.0},
		{"Positive values (size 33)", seq(33), seq(33), 12529.0},
	}

	for _, wide := range []bool{false, true} {
		withWideKernel(t, wide)
		for _, width := range []Width{Width128, Width256, Width512} {
			for _, tc := range tests {
				t.Run(tc.name+"/"+width.String(), func(t *testing.T) {
					result := Dot(width, tc.a, 0, tc.b, 0, len(tc.a))
					assert.Equal(t, tc.expected, result)
				})
			}
		}
	}
}

func TestDotLengthTwoIsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 1000 {
		a := []float32{rng.Float32()*200 - 100, rng.Float32()*200 - 100}
		b := []float32{rng.Float32()*200 - 100, rng.Float32()*200 - 100}
		expected := float32(a[0]*b[0]) + float32(a[1]*b[1])

		assert.Equal(t, expected, Dot(Width256, a, 0, b, 0, 2))
		assert.Equal(t, expected, Dot(Width512, a, 0, b, 0, 2))
		assert.Equal(t, expected, DotNarrow(a, 0, b, 0))
	}
}

func TestDotWidthsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	lengths := []int{0, 1, 3, 7, 8, 9, 15, 16, 17, 31, 32, 33, 100, 128, 257, 768, 1536}

	for _, wide := range []bool{false, true} {
		withWideKernel(t, wide)
		for _, n := range lengths {
			a := randFloats(rng, n)
			b := randFloats(rng, n)
			tol := dotTolerance(a, b, 1e-4)

			d256 := Dot(Width256, a, 0, b, 0, n)
			d512 := Dot(Width512, a, 0, b, 0, n)
			assert.InDelta(t, d256, d512, tol, "n=%d wide=%v", n, wide)
			if n > 0 {
				assert.InDelta(t, vek32.Dot(a, b), d512, tol, "n=%d wide=%v", n, wide)
			}
			assert.InDelta(t, naiveDot(a, b), float64(d256), tol, "n=%d", n)
		}
	}
}

func TestDotMediumRemainder(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	a := randFloats(rng, 20)
	b := randFloats(rng, 20)

	got := Dot(Width256, a, 0, b, 0, 20)
	assert.InDelta(t, naiveDot(a, b), float64(got), 1e-5)
	assert.Equal(t, DotMedium(a, 0, b, 0, 20), got)
}

func TestDotShorterThanLanes(t *testing.T) {
	a := []float32{0.5, -1.25, 2, 4, 0.125}
	b := []float32{2, 2, -0.5, 0.25, 8}

	// Exactly representable products, so the scalar path is exact.
	assert.Equal(t, float32(-0.5), DotMedium(a, 0, b, 0, 5))

	withWideKernel(t, true)
	assert.Equal(t, float32(-0.5), DotWide(a, 0, b, 0, 5))
}

func TestDotOffsetTranslation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, n := range []int{2, 5, 8, 20, 64, 100} {
		a := randFloats(rng, n)
		b := randFloats(rng, n)

		aShifted := make([]float32, n+11)
		bShifted := make([]float32, n+5)
		copy(aShifted[11:], a)
		copy(bShifted[5:], b)

		for _, width := range []Width{Width256, Width512} {
			want := Dot(width, a, 0, b, 0, n)
			got := Dot(width, aShifted, 11, bShifted, 5, n)
			assert.Equal(t, want, got, "n=%d width=%s", n, width)
		}
	}
}

func TestDotWideFallback(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := randFloats(rng, 100)
	b := randFloats(rng, 100)

	t.Run("unavailable delegates to medium", func(t *testing.T) {
		withWideKernel(t, false)
		require.False(t, WideAvailable())
		assert.Equal(t, DotMedium(a, 0, b, 0, 100), DotWide(a, 0, b, 0, 100))
		assert.Equal(t, DotMedium(a, 0, b, 0, 100), Dot(Width512, a, 0, b, 0, 100))
	})

	t.Run("available uses sixteen lanes", func(t *testing.T) {
		withWideKernel(t, true)
		require.True(t, WideAvailable())
		assert.Equal(t, dotWide(a, 0, b, 0, 100), Dot(Width512, a, 0, b, 0, 100))
		assert.InDelta(t, DotMedium(a, 0, b, 0, 100), DotWide(a, 0, b, 0, 100), dotTolerance(a, b, 1e-4))
	})

	t.Run("short vectors stay on medium", func(t *testing.T) {
		withWideKernel(t, true)
		assert.Equal(t, DotMedium(a, 0, b, 0, 15), Dot(Width512, a, 0, b, 0, 15))
	})
}

func TestDotConcurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := randFloats(rng, 1024)
	b := randFloats(rng, 1024)
	want := Dot(Width512, a, 0, b, 0, len(a))

	var wg sync.WaitGroup
	results := make([]float32, 16)
	for g := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				results[g] = Dot(Width512, a, 0, b, 0, len(a))
			}
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func seq(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i + 1)
	}
	return out
}
