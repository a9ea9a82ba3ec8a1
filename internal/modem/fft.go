package modem

import (
	"math"
	"math/cmplx"
)

// fft computes the forward Discrete Fourier Transform using iterative
// radix-2 Cooley-Tukey. Input length must be a power of 2; any other
// length panics here. ChannelPlan.Validate does not check the window size,
// so a window size that isn't a power of 2 surfaces on the first transform.
func fft(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, x)
		return out
	}
	if n&(n-1) != 0 {
		panic("modem: fft length must be a power of 2")
	}

	out := make([]complex128, n)
	copy(out, x)
	bitReverse(out)
	fftIterative(out)
	return out
}

func fftIterative(x []complex128) {
	n := len(x)
	for size := 2; size <= n; size <<= 1 {
		halfSize := size >> 1
		wn := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for j := 0; j < halfSize; j++ {
				u := x[start+j]
				v := w * x[start+j+halfSize]
				x[start+j] = u + v
				x[start+j+halfSize] = u - v
				w *= wn
			}
		}
	}
}

func bitReverse(x []complex128) {
	n := len(x)
	bits := 0
	for tmp := n; tmp > 1; tmp >>= 1 {
		bits++
	}
	for i := 0; i < n; i++ {
		j := reverseBits(i, bits)
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
}

func reverseBits(x, bits int) int {
	result := 0
	for i := 0; i < bits; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}
