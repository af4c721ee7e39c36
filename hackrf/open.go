package hackrf

import (
	"github.com/google/gousb"
)

// DeviceInfo summarizes one attached radio found by Scan.
type DeviceInfo struct {
	// Bus is the USB bus number
	Bus int

	// Address is the device address on the bus
	Address int

	// DeviceVersion is the firmware revision from the descriptor
	DeviceVersion Version
}

// OpenFirst opens the first attached HackRF One, claims nothing yet, and
// captures the device identity.  Returns ErrNotFound if no radio is
// attached or none could be opened.
func OpenFirst() (*HackRf, error) {
	t, err := openUSB(nil)
	if err != nil {
		return nil, err
	}
	return finishOpen(t)
}

// OpenBusAddr opens the radio at a specific bus number and device address,
// for hosts with more than one radio attached.
func OpenBusAddr(bus, addr int) (*HackRf, error) {
	t, err := openUSB(func(desc *gousb.DeviceDesc) bool {
		return desc.Bus == bus && desc.Address == addr
	})
	if err != nil {
		return nil, err
	}
	return finishOpen(t)
}

// Scan lists every attached HackRF One without keeping any of them open.
func Scan() ([]DeviceInfo, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(VendorID) && desc.Product == gousb.ID(ProductID)
	})
	if err != nil {
		for _, d := range devs {
			d.Close()
		}
		return nil, err
	}
	out := make([]DeviceInfo, 0, len(devs))
	for _, d := range devs {
		out = append(out, DeviceInfo{
			Bus:           d.Desc.Bus,
			Address:       d.Desc.Address,
			DeviceVersion: VersionFromBCD(uint16(d.Desc.Device)),
		})
		d.Close()
	}
	return out, nil
}

// finishOpen wraps the transport and reads the identity fields exactly
// once.  A device that cannot answer identity requests is closed again and
// reported as an open failure.
func finishOpen(t Transport) (*HackRf, error) {
	h := New(t)
	board, err := h.BoardID()
	if err != nil {
		t.Close()
		return nil, err
	}
	fw, err := h.Version()
	if err != nil {
		t.Close()
		return nil, err
	}
	h.ident = Identity{
		BoardID:         board,
		FirmwareVersion: fw,
		DeviceVersion:   t.DeviceVersion(),
	}
	return h, nil
}
