package hackrf

import "testing"

func TestSampleToFloat(t *testing.T) {
	cases := []struct {
		b    byte
		want float32
	}{
		{127, 0},
		{255, 1.0},
		{0, -0.9921875},
		{191, 0.5},
	}
	for _, tc := range cases {
		if got := SampleToFloat(tc.b); got != tc.want {
			t.Errorf("SampleToFloat(%d) = %v, want %v", tc.b, got, tc.want)
		}
	}
}

func TestSampleRoundTrip(t *testing.T) {
	// every byte value maps to an exact binary fraction, so the round
	// trip is lossless
	for i := 0; i < 256; i++ {
		b := byte(i)
		if got := FloatToSample(SampleToFloat(b)); got != b {
			t.Errorf("round trip of %d gave %d", b, got)
		}
	}
}

func TestFloatToSampleClamps(t *testing.T) {
	if got := FloatToSample(2.0); got != 255 {
		t.Errorf("FloatToSample(2.0) = %d, want 255", got)
	}
	if got := FloatToSample(-2.0); got != 0 {
		t.Errorf("FloatToSample(-2.0) = %d, want 0", got)
	}
}

func TestBytesToComplex(t *testing.T) {
	raw := []byte{127, 255, 0, 127}
	dst := make([]complex64, 2)
	n := BytesToComplex(raw, dst)
	if n != 2 {
		t.Fatalf("converted %d samples, want 2", n)
	}
	if dst[0] != complex(0, 1.0) {
		t.Errorf("dst[0] = %v", dst[0])
	}
	if dst[1] != complex(float32(-0.9921875), 0) {
		t.Errorf("dst[1] = %v", dst[1])
	}
}

func TestComplexToBytes(t *testing.T) {
	src := []complex64{complex(0, 1.0), complex(-0.9921875, 0)}
	dst := make([]byte, 4)
	n := ComplexToBytes(src, dst)
	if n != 4 {
		t.Fatalf("wrote %d bytes, want 4", n)
	}
	want := []byte{127, 255, 0, 127}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}
