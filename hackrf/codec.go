package hackrf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// freqParams packs a center frequency for reqSetFreq.  The firmware wants
// the whole megahertz and the remaining hertz as two independent
// little-endian u32 fields; values that do not fit saturate rather than
// wrap.  This split is a firmware requirement, not an optimization.
func freqParams(hz uint64) [8]byte {
	const mhz = 1_000_000

	var out [8]byte
	whole := saturateU32(hz / mhz)
	rem := saturateU32(hz - uint64(whole)*mhz)
	binary.LittleEndian.PutUint32(out[0:4], whole)
	binary.LittleEndian.PutUint32(out[4:8], rem)
	return out
}

// rateParams packs a sample rate and divisor for reqSampleRateSet as two
// little-endian u32 fields.
func rateParams(hz, div uint32) [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint32(out[0:4], hz)
	binary.LittleEndian.PutUint32(out[4:8], div)
	return out
}

func saturateU32(v uint64) uint32 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// Version is a firmware revision, decoded from the packed bcdDevice field
// of the USB device descriptor: major byte, then minor and sub-minor
// nibbles (0x0102 => 1.0.2).
type Version struct {
	Major    uint8
	Minor    uint8
	SubMinor uint8
}

// VersionFromBCD decodes a 16-bit BCD device version.
func VersionFromBCD(bcd uint16) Version {
	return Version{
		Major:    uint8(bcd >> 8),
		Minor:    uint8((bcd >> 4) & 0xF),
		SubMinor: uint8(bcd & 0xF),
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.SubMinor)
}

// AtLeast returns true if v is the same or a newer revision than min.
func (v Version) AtLeast(min Version) bool {
	return v.ord() >= min.ord()
}

func (v Version) ord() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)<<8 | uint32(v.SubMinor)
}
