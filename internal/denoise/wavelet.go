package denoise

import (
	"math"

	"github.com/ndvi-mining/minedetect/internal/mathutil"
)

// db7LowPass holds the Daubechies-7 scaling (low-pass decomposition)
// filter coefficients. The high-pass decomposition filter and both
// reconstruction filters are derived from it by quadrature-mirror
// relations in newFilterBank.
var db7LowPass = []float64{
	0.0003537138000010399,
	-0.0018016407039998328,
	0.00042957797300470274,
	0.012550998556013784,
	-0.01657454163101562,
	-0.03802993693503463,
	0.0806126091510659,
	0.07130921926705004,
	-0.22403618499416572,
	-0.14390600392910627,
	0.4697822874053586,
	0.7291320908465551,
	0.39653931948230575,
	0.07785205408506236,
}

// filterBank holds the four filters (decomposition low/high,
// reconstruction low/high) for one orthogonal wavelet.
type filterBank struct {
	decLo, decHi []float64
	recLo, recHi []float64
}

// newFilterBank derives the full quadrature-mirror filter bank from a
// wavelet's scaling filter.
func newFilterBank(scaling []float64) filterBank {
	n := len(scaling)
	decLo := make([]float64, n)
	copy(decLo, scaling)

	decHi := make([]float64, n)
	for i := range scaling {
		// g[n] = (-1)^n * h[N-1-n]
		sign := 1.0
		if i%2 != 0 {
			sign = -1.0
		}
		decHi[i] = sign * scaling[n-1-i]
	}

	recLo := make([]float64, n)
	recHi := make([]float64, n)
	for i := 0; i < n; i++ {
		recLo[i] = decLo[n-1-i]
		recHi[i] = decHi[n-1-i]
	}

	return filterBank{decLo: decLo, decHi: decHi, recLo: recLo, recHi: recHi}
}

// db7 returns the Daubechies-7 filter bank.
func db7() filterBank {
	return newFilterBank(db7LowPass)
}

// symExtend mirrors xs by n samples on each side (half-point
// symmetric extension: the edge sample is repeated), matching the
// boundary convention conventional DWT implementations use by default.
func symExtend(xs []float64, n int) []float64 {
	out := make([]float64, 0, len(xs)+2*n)
	for i := n; i >= 1; i-- {
		idx := i - 1
		if idx >= len(xs) {
			idx = len(xs) - 1
		}
		out = append(out, xs[idx])
	}
	out = append(out, xs...)
	for i := 0; i < n; i++ {
		idx := len(xs) - 1 - i
		if idx < 0 {
			idx = 0
		}
		out = append(out, xs[idx])
	}

	return out
}

// dwt1 performs one level of decomposition: symmetric-extend xs, convolve
// with each filter, and downsample by 2. Returns approximation and
// detail coefficients, each of length floor((len(xs)+len(filter))/2).
func dwt1(xs []float64, fb filterBank) (approx, detail []float64) {
	flen := len(fb.decLo)
	ext := symExtend(xs, flen-1)

	convLen := len(ext) - flen + 1
	outLen := (convLen + 1) / 2

	approx = make([]float64, outLen)
	detail = make([]float64, outLen)

	for o := 0; o < outLen; o++ {
		pos := o * 2
		var a, d float64
		for k := 0; k < flen; k++ {
			a += ext[pos+k] * fb.decLo[flen-1-k]
			d += ext[pos+k] * fb.decHi[flen-1-k]
		}
		approx[o] = a
		detail[o] = d
	}

	return approx, detail
}

// idwt1 reconstructs a signal of length outLen from one level's
// approximation and detail coefficients.
func idwt1(approx, detail []float64, fb filterBank, outLen int) []float64 {
	flen := len(fb.recLo)

	up := make([]float64, 2*len(approx))
	for i, v := range approx {
		up[2*i] = v
	}
	upD := make([]float64, 2*len(detail))
	for i, v := range detail {
		upD[2*i] = v
	}

	padded := flen + len(up) - 1
	recA := make([]float64, padded)
	recD := make([]float64, padded)
	for o := 0; o < padded; o++ {
		var a, d float64
		for k := 0; k < flen; k++ {
			idx := o - k
			if idx < 0 || idx >= len(up) {
				continue
			}
			a += up[idx] * fb.recLo[k]
			d += upD[idx] * fb.recHi[k]
		}
		recA[o] = a
		recD[o] = d
	}

	sum := make([]float64, padded)
	for i := range sum {
		sum[i] = recA[i] + recD[i]
	}

	offset := flen - 1
	if offset < 0 {
		offset = 0
	}
	out := make([]float64, outLen)
	for i := 0; i < outLen; i++ {
		idx := offset + i
		if idx < len(sum) {
			out[i] = sum[idx]
		}
	}

	return out
}

// minimaxThreshold implements the minimax universal threshold rule:
// 0 for signals no longer than 32 samples, otherwise
// 0.3936 + 0.1829*log2(n).
func minimaxThreshold(n int) float64 {
	if n <= 32 {
		return 0
	}

	return 0.3936 + 0.1829*math.Log2(float64(n))
}

// softThreshold applies soft thresholding: values within [-t, t]
// collapse to zero, values outside shrink toward zero by t.
func softThreshold(xs []float64, t float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		switch {
		case v > t:
			out[i] = v - t
		case v < -t:
			out[i] = v + t
		default:
			out[i] = 0
		}
	}

	return out
}

// noiseSigma estimates the noise standard deviation of a detail
// coefficient band via the median absolute deviation estimator
// median(|d|)/0.6745.
func noiseSigma(detail []float64) float64 {
	return mathutil.MAD(detail)
}

// Wavelet performs a 2-level db7 decomposition of xs, soft-thresholds
// both detail bands at the minimax universal threshold scaled by each
// band's MAD noise estimate, and reconstructs the denoised signal at
// the original length.
func Wavelet(xs []float64) []float64 {
	fb := db7()

	cA1, cD1 := dwt1(xs, fb)
	cA2, cD2 := dwt1(cA1, fb)

	sigma2 := noiseSigma(cD2)
	sigma1 := noiseSigma(cD1)

	t2 := minimaxThreshold(len(xs)) * sigma2
	t1 := minimaxThreshold(len(xs)) * sigma1

	cD2Thresh := softThreshold(cD2, t2)
	cD1Thresh := softThreshold(cD1, t1)

	cA1Rec := idwt1(cA2, cD2Thresh, fb, len(cA1))
	out := idwt1(cA1Rec, cD1Thresh, fb, len(xs))

	return out
}

// Smooth extends xs by duplicating its last sample (so the wavelet
// transform has one extra boundary sample to work with), denoises via
// Wavelet, and returns the denoised signal at the extended length
// (len(xs)+1), trimming only if reconstruction overshoots it.
func Smooth(xs []float64) []float64 {
	if len(xs) == 0 {
		return xs
	}

	extended := make([]float64, len(xs)+1)
	copy(extended, xs)
	extended[len(xs)] = xs[len(xs)-1]

	denoised := Wavelet(extended)
	if len(denoised) > len(extended) {
		denoised = denoised[:len(extended)]
	}

	return denoised
}
