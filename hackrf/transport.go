package hackrf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
)

// Transport is the capability the driver needs from a USB stack: timed
// vendor control transfers, timed bulk transfers on the fixed sample
// endpoints, and claim/release of the bulk data interface.  Two historical
// backends existed for this device (a blocking call style and a
// callback-based one wrapped with a blocking adapter); everything above
// this interface is backend-agnostic, and tests substitute a mock.
//
// The driver does not serialize calls on the Transport.  If a backend is
// not safe for concurrent use, callers must arrange their own discipline,
// e.g. one thread owns streaming and configuration only changes while idle.
type Transport interface {
	// ReadControl performs a vendor-class, device-recipient IN control
	// transfer and returns the number of bytes received
	ReadControl(req uint8, value, index uint16, buf []byte, timeout time.Duration) (int, error)

	// WriteControl performs a vendor-class, device-recipient OUT control
	// transfer and returns the number of bytes sent
	WriteControl(req uint8, value, index uint16, buf []byte, timeout time.Duration) (int, error)

	// ReadBulk reads sample bytes from the RX endpoint
	ReadBulk(buf []byte, timeout time.Duration) (int, error)

	// WriteBulk writes sample bytes to the TX endpoint
	WriteBulk(buf []byte, timeout time.Duration) (int, error)

	// ClaimInterface claims the bulk data interface (interface 0)
	ClaimInterface() error

	// ReleaseInterface releases the bulk data interface; releasing an
	// unclaimed interface is a no-op
	ReleaseInterface() error

	// DeviceVersion returns the firmware revision from the USB device
	// descriptor (bcdDevice)
	DeviceVersion() Version

	// Close releases the interface if held and closes the device
	Close() error
}

// usbTransport is the gousb-backed Transport.  It is the only backend in
// this package; the interface exists so the state machine and codec can be
// exercised without hardware.
type usbTransport struct {
	ctx *gousb.Context
	dev *gousb.Device

	// mu guards the claim state below, not the transfers themselves
	mu   sync.Mutex
	cfg  *gousb.Config
	intf *gousb.Interface
	in   *gousb.InEndpoint
	out  *gousb.OutEndpoint
}

// openUSB enumerates devices matching the HackRF One VID/PID and the given
// filter, opens the first match, and wraps it in a Transport.  Extra
// matches are closed again.
func openUSB(filter func(*gousb.DeviceDesc) bool) (*usbTransport, error) {
	ctx := gousb.NewContext()
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if desc.Vendor != gousb.ID(VendorID) || desc.Product != gousb.ID(ProductID) {
			return false
		}
		if filter != nil && !filter(desc) {
			return false
		}
		return true
	})
	if err != nil {
		for _, d := range devs {
			d.Close()
		}
		ctx.Close()
		return nil, err
	}
	if len(devs) == 0 {
		ctx.Close()
		return nil, ErrNotFound
	}
	for _, d := range devs[1:] {
		d.Close()
	}
	dev := devs[0]
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}
	return &usbTransport{ctx: ctx, dev: dev}, nil
}

func (t *usbTransport) ReadControl(req uint8, value, index uint16, buf []byte, timeout time.Duration) (int, error) {
	rtype := uint8(gousb.ControlIn) | uint8(gousb.ControlVendor) | uint8(gousb.ControlDevice)
	t.dev.ControlTimeout = timeout
	return t.dev.Control(rtype, req, value, index, buf)
}

func (t *usbTransport) WriteControl(req uint8, value, index uint16, buf []byte, timeout time.Duration) (int, error) {
	rtype := uint8(gousb.ControlOut) | uint8(gousb.ControlVendor) | uint8(gousb.ControlDevice)
	t.dev.ControlTimeout = timeout
	return t.dev.Control(rtype, req, value, index, buf)
}

func (t *usbTransport) ReadBulk(buf []byte, timeout time.Duration) (int, error) {
	t.mu.Lock()
	ep := t.in
	t.mu.Unlock()
	if ep == nil {
		return 0, fmt.Errorf("bulk interface not claimed")
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return ep.ReadContext(ctx, buf)
}

func (t *usbTransport) WriteBulk(buf []byte, timeout time.Duration) (int, error) {
	t.mu.Lock()
	ep := t.out
	t.mu.Unlock()
	if ep == nil {
		return 0, fmt.Errorf("bulk interface not claimed")
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return ep.WriteContext(ctx, buf)
}

func (t *usbTransport) ClaimInterface() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.intf != nil {
		return nil
	}
	cfg, err := t.dev.Config(1)
	if err != nil {
		return err
	}
	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		return err
	}
	// endpoint numbers are the low nibbles of EndpointRx / EndpointTx
	in, err := intf.InEndpoint(EndpointRx & 0x0F)
	if err != nil {
		intf.Close()
		cfg.Close()
		return err
	}
	out, err := intf.OutEndpoint(EndpointTx & 0x0F)
	if err != nil {
		intf.Close()
		cfg.Close()
		return err
	}
	t.cfg, t.intf, t.in, t.out = cfg, intf, in, out
	return nil
}

func (t *usbTransport) ReleaseInterface() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.intf == nil {
		return nil
	}
	t.intf.Close()
	err := t.cfg.Close()
	t.cfg, t.intf, t.in, t.out = nil, nil, nil, nil
	return err
}

func (t *usbTransport) DeviceVersion() Version {
	return VersionFromBCD(uint16(t.dev.Desc.Device))
}

func (t *usbTransport) Close() error {
	t.ReleaseInterface()
	err := t.dev.Close()
	if t.ctx != nil {
		if err2 := t.ctx.Close(); err == nil {
			err = err2
		}
	}
	return err
}
