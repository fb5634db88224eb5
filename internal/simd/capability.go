package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA identifies the instruction set the dispatcher selected.
type ISA uint8

const (
	Generic ISA = iota
	NEON        // ARM64 ASIMD, 128-bit
	SVE2        // ARM64 scalable vectors
	AVX2        // x86-64 256-bit with FMA
	AVX512      // x86-64 512-bit (F, BW, VL)
)

var isaNames = [...]string{
	Generic: "generic",
	NEON:    "neon",
	SVE2:    "sve2",
	AVX2:    "avx2",
	AVX512:  "avx512",
}

func (i ISA) String() string {
	if int(i) < len(isaNames) {
		return isaNames[i]
	}
	return "unknown"
}

// ParseISA parses a name as returned by ISA.String, ignoring case and
// surrounding space.
func ParseISA(s string) (ISA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range isaNames {
		if name == s {
			return ISA(i), true
		}
	}
	return Generic, false
}

// OverrideEnv names the environment variable that pins the ISA at init.
const OverrideEnv = "VECOPS_SIMD"

// cpuFeatures is what the platform probe found. Only the fields of the
// running architecture are ever set.
type cpuFeatures struct {
	asimd  bool
	sve2   bool
	avx2   bool
	avx512 bool
}

func (f cpuFeatures) supports(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case NEON:
		return f.asimd
	case SVE2:
		return f.sve2
	case AVX2:
		return f.avx2
	case AVX512:
		return f.avx512
	}
	return false
}

// best picks the fastest supported ISA. SVE2 loses to NEON on darwin,
// where Apple cores report it but run NEON faster.
func (f cpuFeatures) best(goos string) ISA {
	switch {
	case f.avx512:
		return AVX512
	case f.avx2:
		return AVX2
	case f.sve2 && goos != "darwin":
		return SVE2
	case f.asimd:
		return NEON
	}
	return Generic
}

var (
	features    cpuFeatures
	activeISA   ISA
	hasOverride bool
)

// initCapabilities runs from the platform init once features is filled.
func initCapabilities() {
	activeISA = resolveISA(os.Getenv(OverrideEnv))
	bindWideKernel(activeISA == AVX512)
}

// resolveISA honors override when it names a supported ISA and otherwise
// auto-detects.
func resolveISA(override string) ISA {
	hasOverride = false
	if isa, ok := ParseISA(override); ok && features.supports(isa) {
		hasOverride = true
		return isa
	}
	return features.best(runtime.GOOS)
}

// ActiveISA returns the ISA selected at init.
func ActiveISA() ISA { return activeISA }

// IsOverridden reports whether VECOPS_SIMD chose the active ISA.
func IsOverridden() bool { return hasOverride }

func HasASIMD() bool  { return features.asimd }
func HasSVE2() bool   { return features.sve2 }
func HasAVX2() bool   { return features.avx2 }
func HasAVX512() bool { return features.avx512 }

// PreferredWidth returns the widest dot kernel worth requesting on this CPU.
func PreferredWidth() Width {
	if activeISA == AVX512 {
		return Width512
	}
	return Width256
}
