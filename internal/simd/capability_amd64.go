//go:build amd64 && !noasm

package simd

import "golang.org/x/sys/cpu"

func init() {
	x := cpu.X86
	features = cpuFeatures{
		avx2:   x.HasAVX && x.HasAVX2 && x.HasFMA,
		avx512: x.HasAVX512F && x.HasAVX512BW && x.HasAVX512VL,
	}
	initCapabilities()
}
