package hackrf

import (
	"bytes"
	"math"
	"testing"
)

func TestFreqParamsSplitsMHzAndRemainder(t *testing.T) {
	cases := []struct {
		hz   uint64
		want [8]byte
	}{
		{915_000_000, [8]byte{0x93, 0x03, 0, 0, 0, 0, 0, 0}},
		{915_000_001, [8]byte{0x93, 0x03, 0, 0, 1, 0, 0, 0}},
		{123_456_789, [8]byte{0x7B, 0, 0, 0, 0x55, 0xF8, 0x06, 0x00}},
	}
	for _, tc := range cases {
		got := freqParams(tc.hz)
		if got != tc.want {
			t.Errorf("freqParams(%d) = %v, want %v", tc.hz, got, tc.want)
		}
	}
}

func TestFreqParamsSaturates(t *testing.T) {
	if got := freqParams(0); got != [8]byte{} {
		t.Errorf("freqParams(0) = %v, want all zeros", got)
	}
	want := [8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if got := freqParams(math.MaxUint64); got != want {
		t.Errorf("freqParams(max) = %v, want all 0xFF", got)
	}
}

func TestRateParamsLayout(t *testing.T) {
	got := rateParams(8_000_000, 2)
	// 8e6 = 0x7A1200, LE; divisor 2, LE
	want := [8]byte{0x00, 0x12, 0x7A, 0x00, 0x02, 0x00, 0x00, 0x00}
	if !bytes.Equal(got[:], want[:]) {
		t.Errorf("rateParams = %v, want %v", got, want)
	}
}

func TestVersionFromBCD(t *testing.T) {
	v := VersionFromBCD(0x0102)
	if v.Major != 1 || v.Minor != 0 || v.SubMinor != 2 {
		t.Errorf("0x0102 decoded to %+v", v)
	}
	if v.String() != "1.0.2" {
		t.Errorf("String() = %q", v.String())
	}
}

func TestVersionAtLeast(t *testing.T) {
	min := Version{Major: 1, Minor: 2}
	cases := []struct {
		v    Version
		want bool
	}{
		{Version{Major: 1, Minor: 2}, true},
		{Version{Major: 1, Minor: 2, SubMinor: 1}, true},
		{Version{Major: 2}, true},
		{Version{Major: 1, Minor: 1, SubMinor: 9}, false},
		{Version{Major: 0, Minor: 9}, false},
	}
	for _, tc := range cases {
		if got := tc.v.AtLeast(min); got != tc.want {
			t.Errorf("%v.AtLeast(%v) = %v, want %v", tc.v, min, got, tc.want)
		}
	}
}
