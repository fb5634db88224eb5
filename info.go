package vecops

import (
	"runtime"

	"github.com/hupe1980/vecops/internal/simd"
)

// RuntimeInfo describes the kernels selected for this process.
type RuntimeInfo struct {
	GOARCH         string
	ISA            string
	Overridden     bool
	PreferredWidth int
	WideKernel     bool
	Features       []string
}

// Info reports the active ISA, the widest useful dot width and the CPU
// features the capability probe found.
func Info() RuntimeInfo {
	info := RuntimeInfo{
		GOARCH:         runtime.GOARCH,
		ISA:            simd.ActiveISA().String(),
		Overridden:     simd.IsOverridden(),
		PreferredWidth: int(simd.PreferredWidth()),
		WideKernel:     simd.WideAvailable(),
	}

	if simd.HasAVX2() {
		info.Features = append(info.Features, "avx2", "fma")
	}
	if simd.HasAVX512() {
		info.Features = append(info.Features, "avx512f", "avx512bw")
	}
	if simd.HasASIMD() {
		info.Features = append(info.Features, "asimd")
	}
	if simd.HasSVE2() {
		info.Features = append(info.Features, "sve2")
	}
	return info
}
