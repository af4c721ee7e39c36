package hackrf

// The radio streams interleaved unsigned 8-bit I/Q.  A byte b maps to the
// float (b - 127) / 128, so 127 is zero, 255 is just under +1, and 0 is
// just under -1.

// SampleToFloat converts one raw sample byte to a float.
func SampleToFloat(b byte) float32 {
	return (float32(b) - 127) / 128
}

// FloatToSample converts one float in [-1, 1) back to a raw sample byte,
// clamping values outside that interval.
func FloatToSample(f float32) byte {
	v := f*128 + 127
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// BytesToComplex converts interleaved I/Q bytes into dst and returns the
// number of samples written.  Conversion stops at whichever side runs out
// first; a trailing odd byte in raw is ignored.
func BytesToComplex(raw []byte, dst []complex64) int {
	n := len(raw) / 2
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = complex(SampleToFloat(raw[2*i]), SampleToFloat(raw[2*i+1]))
	}
	return n
}

// ComplexToBytes converts samples into interleaved I/Q bytes in dst and
// returns the number of bytes written.  Conversion stops at whichever side
// runs out first.
func ComplexToBytes(src []complex64, dst []byte) int {
	n := len(src)
	if len(dst)/2 < n {
		n = len(dst) / 2
	}
	for i := 0; i < n; i++ {
		dst[2*i] = FloatToSample(real(src[i]))
		dst[2*i+1] = FloatToSample(imag(src[i]))
	}
	return 2 * n
}
