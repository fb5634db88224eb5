package simd

// Lane counts of the three dot kernels.
const (
	narrowLanes = 2
	mediumLanes = 8
	wideLanes   = 16
)

// Kernel function pointers - set once at init, zero runtime overhead.
// The medium kernel is the default; initCapabilities rebinds the wide
// slot when the CPU exposes 512-bit registers.
var (
	kernelWide    = dotMedium
	wideAvailable bool
)

// bindWideKernel selects the implementation behind DotWide.
// Without 512-bit support the wide slot delegates to the medium kernel.
func bindWideKernel(available bool) {
	wideAvailable = available
	if available {
		kernelWide = dotWide
		return
	}
	kernelWide = dotMedium
}

// WideAvailable reports whether DotWide runs the 16-lane kernel.
func WideAvailable() bool {
	return wideAvailable
}

// ============================================================================
// Public API - Zero-overhead dispatch through function pointers
// ============================================================================

// Dot computes the dot product of a[aOff:aOff+n] and b[bOff:bOff+n].
//
// Kernel selection:
//   - n == 2: narrow kernel, regardless of width
//   - width == Width512 && n >= 16: wide kernel
//   - otherwise: medium kernel
//
// SAFETY: Assumes both views are in range. Caller MUST ensure this.
func Dot(width Width, a []float32, aOff int, b []float32, bOff int, n int) float32 {
	if n == narrowLanes {
		return dotNarrow(a, aOff, b, bOff)
	}
	if width == Width512 && n >= wideLanes {
		return kernelWide(a, aOff, b, bOff, n)
	}
	return dotMedium(a, aOff, b, bOff, n)
}

// DotNarrow computes the exact 2-term dot product a[aOff]*b[bOff] + a[aOff+1]*b[bOff+1].
func DotNarrow(a []float32, aOff int, b []float32, bOff int) float32 {
	return dotNarrow(a, aOff, b, bOff)
}

// DotMedium computes a dot product with 8 accumulator lanes.
func DotMedium(a []float32, aOff int, b []float32, bOff int, n int) float32 {
	return dotMedium(a, aOff, b, bOff, n)
}

// DotWide computes a dot product with 16 accumulator lanes, or with the
// medium kernel when 512-bit registers are unavailable.
func DotWide(a []float32, aOff int, b []float32, bOff int, n int) float32 {
	return kernelWide(a, aOff, b, bOff, n)
}
