package simd

// dotNarrow multiplies both lanes and sums them horizontally.
// The explicit conversions round each product and forbid FMA fusion.
func dotNarrow(a []float32, aOff int, b []float32, bOff int) float32 {
	va := (*[narrowLanes]float32)(a[aOff : aOff+narrowLanes])
	vb := (*[narrowLanes]float32)(b[bOff : bOff+narrowLanes])
	return float32(va[0]*vb[0]) + float32(va[1]*vb[1])
}

func dotMedium(a []float32, aOff int, b []float32, bOff int, n int) float32 {
	a = a[aOff : aOff+n]
	b = b[bOff : bOff+n]

	var dot float32
	i := 0
	if n >= mediumLanes {
		var acc [mediumLanes]float32
		for ; i+mediumLanes <= n; i += mediumLanes {
			va := (*[mediumLanes]float32)(a[i : i+mediumLanes])
			vb := (*[mediumLanes]float32)(b[i : i+mediumLanes])
			acc[0] += va[0] * vb[0]
			acc[1] += va[1] * vb[1]
			acc[2] += va[2] * vb[2]
			acc[3] += va[3] * vb[3]
			acc[4] += va[4] * vb[4]
			acc[5] += va[5] * vb[5]
			acc[6] += va[6] * vb[6]
			acc[7] += va[7] * vb[7]
		}
		dot = reduceLanes(acc[:])
	}

	for ; i < n; i++ {
		dot += a[i] * b[i]
	}
	return dot
}

func dotWide(a []float32, aOff int, b []float32, bOff int, n int) float32 {
	a = a[aOff : aOff+n]
	b = b[bOff : bOff+n]

	var dot float32
	i := 0
	if n >= wideLanes {
		var acc [wideLanes]float32
		for ; i+wideLanes <= n; i += wideLanes {
			va := (*[wideLanes]float32)(a[i : i+wideLanes])
			vb := (*[wideLanes]float32)(b[i : i+wideLanes])
			for l := range acc {
				acc[l] += va[l] * vb[l]
			}
		}
		dot = reduceLanes(acc[:])
	}

	for ; i < n; i++ {
		dot += a[i] * b[i]
	}
	return dot
}

// reduceLanes sums the lanes of an accumulator in lane order.
func reduceLanes(acc []float32) float32 {
	var sum float32
	for _, v := range acc {
		sum += v
	}
	return sum
}
