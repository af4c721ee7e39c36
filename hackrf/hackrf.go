/*Package hackrf controls a HackRF One software defined radio over USB.

The device is configured with vendor control requests (frequency, sample
rate, gains, amplifier and antenna power) and streams interleaved unsigned
8-bit I/Q samples over two fixed bulk endpoints.  A driver instance moves
through three states, Idle, Receive, and Transmit; StartRx/StartTx win an
atomic compare-and-swap from Idle before touching the hardware, so threads
racing to start streaming produce exactly one winner and no duplicate mode
requests.

Stopping is the mirror image with the swap performed last: racing stops may
each deliver a redundant "off" request, which the hardware tolerates, and
the transceiver always ends up disabled.  A mutex would buy exactly-once
delivery of the off request at the cost of making the type clumsier to
share; the device does not need it.

The blocking call pattern is:

	radio, err := hackrf.OpenFirst()
	if err != nil { ... }
	defer radio.Close()
	err = radio.StartRx(hackrf.DefaultConfig())
	buf := make([]byte, 256*hackrf.PacketSize)
	for {
		n, err := radio.Rx(buf)
		...
	}
	radio.StopRx()

Every control and bulk transfer blocks up to the current Timeout (default
500ms).  There is no internal retry; callers own that policy.
*/
package hackrf

import (
	"encoding/binary"
	"sync/atomic"
	"time"
)

// Config holds the radio parameters applied when streaming starts.  It is
// copied by StartRx/StartTx; later mutation by the caller has no effect.
type Config struct {
	// VgaDB is the baseband (BB) gain, 0-62 dB in 2 dB steps
	VgaDB uint16

	// TxvgaDB is the transmit VGA gain, 0-47 dB in 1 dB steps
	TxvgaDB uint16

	// LnaDB is the low-noise amplifier (IF) gain, 0-40 dB in 8 dB steps
	LnaDB uint16

	// AmpEnable turns the RF amplifier on or off
	AmpEnable bool

	// AntennaEnable controls power to the antenna port
	AntennaEnable bool

	// FrequencyHz is the center frequency
	FrequencyHz uint64

	// SampleRateHz is the sample rate; zero leaves the device rate alone
	SampleRateHz uint32

	// SampleRateDiv divides SampleRateHz; zero is treated as one
	SampleRateDiv uint32
}

// DefaultConfig returns a config with moderate gains, amp and antenna power
// on, and the center frequency inside the global 900MHz ISM band.
func DefaultConfig() Config {
	return Config{
		VgaDB:         16,
		TxvgaDB:       40,
		LnaDB:         0,
		AmpEnable:     true,
		AntennaEnable: true,
		FrequencyHz:   908_000_000,
	}
}

// Identity describes one physical radio.  It is read once at open time and
// used for display and firmware version gating.
type Identity struct {
	// BoardID is the hardware board identifier
	BoardID byte

	// FirmwareVersion is the human-readable firmware version string
	FirmwareVersion string

	// DeviceVersion is the structured firmware revision from the USB
	// descriptor
	DeviceVersion Version
}

// BoardSerial is the factory part and serial numbers of a board.
type BoardSerial struct {
	PartID [2]uint32
	Serial [4]uint32
}

// HackRf is a driver instance exclusively owning one open radio.  It is
// safe to share behind a pointer across goroutines as far as the mode state
// machine is concerned; see Transport for the concurrency contract of the
// transfers themselves.
type HackRf struct {
	t Transport

	// mode holds a Mode discriminant, only ever updated by CAS
	mode int32

	// timeoutNanos governs every control and bulk transfer
	timeoutNanos int64

	ident Identity
}

// New wraps an already-open Transport in a driver instance with the mode
// Idle and the default 500ms timeout.  Most callers want OpenFirst instead.
func New(t Transport) *HackRf {
	return &HackRf{
		t:            t,
		mode:         int32(ModeIdle),
		timeoutNanos: int64(500 * time.Millisecond),
	}
}

// Timeout returns the transfer timeout.
func (h *HackRf) Timeout() time.Duration {
	return time.Duration(atomic.LoadInt64(&h.timeoutNanos))
}

// SetTimeout changes the transfer timeout.  It may be called at any time,
// in any mode.
func (h *HackRf) SetTimeout(d time.Duration) {
	atomic.StoreInt64(&h.timeoutNanos, int64(d))
}

// Mode returns the current streaming state.
func (h *HackRf) Mode() Mode {
	return Mode(atomic.LoadInt32(&h.mode))
}

// Identity returns the identity captured when the device was opened.  It is
// the zero value if the instance was built with New rather than Open*.
func (h *HackRf) Identity() Identity {
	return h.ident
}

// DeviceVersion returns the firmware revision advertised in the USB device
// descriptor.
func (h *HackRf) DeviceVersion() Version {
	return h.t.DeviceVersion()
}

// Close releases the bulk interface if held and closes the device.
func (h *HackRf) Close() error {
	return h.t.Close()
}

// BoardID reads the board identifier byte from the device.
func (h *HackRf) BoardID() (byte, error) {
	buf, err := h.readControl(reqBoardIDRead, 0, 0, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Version reads the firmware version string from the device.  The response
// is up to 64 bytes of UTF-8; short reads are expected here and not an
// error.
func (h *HackRf) Version() (string, error) {
	buf := make([]byte, 64)
	n, err := h.t.ReadControl(uint8(reqVersionStringRead), 0, 0, buf, h.Timeout())
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// BoardSerial reads the factory part id and serial number of the board.
func (h *HackRf) BoardSerial() (BoardSerial, error) {
	var out BoardSerial
	buf, err := h.readControl(reqBoardPartIDSerialNoRead, 0, 0, 24)
	if err != nil {
		return out, err
	}
	out.PartID[0] = binary.LittleEndian.Uint32(buf[0:4])
	out.PartID[1] = binary.LittleEndian.Uint32(buf[4:8])
	for i := 0; i < 4; i++ {
		out.Serial[i] = binary.LittleEndian.Uint32(buf[8+4*i : 12+4*i])
	}
	return out, nil
}

// Reset reboots the device.  Requires firmware API 0x0102 or newer; the
// check happens before any I/O.  The instance is not usable afterwards and
// should be closed.
func (h *HackRf) Reset() error {
	if err := h.checkAPIVersion(VersionFromBCD(0x0102)); err != nil {
		return err
	}
	return h.writeControl(reqReset, 0, 0, nil)
}

// SetFreq sets the center frequency in Hz.
func (h *HackRf) SetFreq(hz uint64) error {
	buf := freqParams(hz)
	return h.writeControl(reqSetFreq, 0, 0, buf[:])
}

// SetAmpEnable turns the RF amplifier on or off.  GNU Radio exposes this as
// the "RF gain": 0dB off, 14dB on.
func (h *HackRf) SetAmpEnable(enable bool) error {
	return h.writeControl(reqAmpEnable, boolToWord(enable), 0, nil)
}

// SetAntennaEnable controls power to the antenna port.
func (h *HackRf) SetAntennaEnable(enable bool) error {
	return h.writeControl(reqAntennaEnable, boolToWord(enable), 0, nil)
}

// SetBasebandFilterBandwidth sets the baseband filter bandwidth in Hz.
//
// SetSampleRate picks a bandwidth automatically on every rate change; call
// this afterwards to override it.
func (h *HackRf) SetBasebandFilterBandwidth(hz uint32) error {
	return h.writeControl(reqBasebandFilterBandwidthSet, uint16(hz&0xFFFF), uint16(hz>>16), nil)
}

// SetSampleRate sets the sample rate to hz/div.  For anti-aliasing the
// baseband filter bandwidth is always re-set to 75% of the resulting rate,
// rounded down to an integer Hz.
//
// Hardware limits are 8-20MHz; 8, 10, 12.5, 16 and 20MHz have the least
// jitter.
func (h *HackRf) SetSampleRate(hz, div uint32) error {
	if div == 0 {
		div = 1
	}
	buf := rateParams(hz, div)
	if err := h.writeControl(reqSampleRateSet, 0, 0, buf[:]); err != nil {
		return err
	}
	return h.SetBasebandFilterBandwidth(uint32(0.75 * float64(hz) / float64(div)))
}

// SetLnaGain sets the low-noise amplifier (IF) gain, 0-40dB in 8dB steps.
// Values are masked down to the 8dB granularity by the wire format.
func (h *HackRf) SetLnaGain(gain uint16) error {
	if gain > 40 {
		return ArgumentError{Reason: "lna gain must be at most 40"}
	}
	buf, err := h.readControl(reqSetLnaGain, 0, gain&^0x07, 1)
	if err != nil {
		return err
	}
	if buf[0] == 0 {
		return ErrZeroAck
	}
	return nil
}

// SetVgaGain sets the baseband (BB) gain, 0-62dB in 2dB steps.
func (h *HackRf) SetVgaGain(gain uint16) error {
	if gain > 62 || gain%2 == 1 {
		return ArgumentError{Reason: "vga gain must be even and at most 62"}
	}
	buf, err := h.readControl(reqSetVgaGain, 0, gain&^0x01, 1)
	if err != nil {
		return err
	}
	if buf[0] == 0 {
		return ErrZeroAck
	}
	return nil
}

// SetTxvgaGain sets the transmit VGA gain, 0-47dB in 1dB steps.
func (h *HackRf) SetTxvgaGain(gain uint16) error {
	if gain > 47 {
		return ArgumentError{Reason: "txvga gain must be at most 47"}
	}
	buf, err := h.readControl(reqSetTxvgaGain, 0, gain, 1)
	if err != nil {
		return err
	}
	if buf[0] == 0 {
		return ErrZeroAck
	}
	return nil
}

// StartRx transitions the radio into receive mode and applies cfg.  It
// fails with WrongModeError, without touching the hardware, if a streaming
// session is already active.  Call Rx afterwards to move samples.
func (h *HackRf) StartRx(cfg Config) error {
	return h.start(ModeReceive, transceiverModeReceive, cfg)
}

// StartTx transitions the radio into transmit mode and applies cfg.  It
// fails with WrongModeError, without touching the hardware, if a streaming
// session is already active.  Call Tx afterwards to move samples.
func (h *HackRf) StartTx(cfg Config) error {
	return h.start(ModeTransmit, transceiverModeTransmit, cfg)
}

func (h *HackRf) start(target Mode, tmode transceiverMode, cfg Config) error {
	// the swap happens before any I/O so that it is the single source of
	// truth for "a session is already active"; losers see WrongMode and
	// the device hears about the mode change exactly once
	if !atomic.CompareAndSwapInt32(&h.mode, int32(ModeIdle), int32(target)) {
		return WrongModeError{Required: ModeIdle, Actual: h.Mode()}
	}

	if err := h.applyConfig(cfg); err != nil {
		return err
	}

	if err := h.writeControl(reqSetTransceiverMode, uint16(tmode), 0, nil); err != nil {
		return err
	}

	return h.t.ClaimInterface()
}

// StopRx takes the radio out of receive mode.  Safe to call redundantly
// from several goroutines; losers get WrongModeError after the off request
// has been delivered (the hardware treats repeats as idempotent).
func (h *HackRf) StopRx() error {
	return h.stop(ModeReceive)
}

// StopTx takes the radio out of transmit mode.  Safe to call redundantly
// from several goroutines; losers get WrongModeError after the off request
// has been delivered (the hardware treats repeats as idempotent).
func (h *HackRf) StopTx() error {
	return h.stop(ModeTransmit)
}

func (h *HackRf) stop(expected Mode) error {
	// the swap happens last so nobody can begin a new session before the
	// off request is on the wire; racing stops each send a redundant off,
	// and the transceiver still ends up disabled
	if err := h.t.ReleaseInterface(); err != nil {
		return err
	}

	if err := h.writeControl(reqSetTransceiverMode, uint16(transceiverModeOff), 0, nil); err != nil {
		return err
	}

	if !atomic.CompareAndSwapInt32(&h.mode, int32(expected), int32(ModeIdle)) {
		return WrongModeError{Required: expected, Actual: h.Mode()}
	}
	return nil
}

// Rx reads sample bytes from the radio into buf, blocking up to Timeout.
// buf must be a multiple of PacketSize bytes.  The return may be short if
// the USB stack delivered a short transfer; loop if you need every byte.
func (h *HackRf) Rx(buf []byte) (int, error) {
	if err := h.ensureMode(ModeReceive); err != nil {
		return 0, err
	}
	if len(buf)%PacketSize != 0 {
		return 0, ArgumentError{Reason: "rx buffer length must be a multiple of 512"}
	}
	return h.t.ReadBulk(buf, h.Timeout())
}

// Tx writes sample bytes to the radio from buf, blocking up to Timeout.
// buf must be a multiple of PacketSize bytes.  The return may be short if
// the USB stack accepted a short transfer; loop if you need every byte
// delivered.
func (h *HackRf) Tx(buf []byte) (int, error) {
	if err := h.ensureMode(ModeTransmit); err != nil {
		return 0, err
	}
	if len(buf)%PacketSize != 0 {
		return 0, ArgumentError{Reason: "tx buffer length must be a multiple of 512"}
	}
	return h.t.WriteBulk(buf, h.Timeout())
}

// applyConfig pushes cfg to the hardware.  The order is fixed: gains first,
// then frequency, then amp and antenna power, then the sample rate.
func (h *HackRf) applyConfig(cfg Config) error {
	if err := h.SetLnaGain(cfg.LnaDB); err != nil {
		return err
	}
	if err := h.SetVgaGain(cfg.VgaDB); err != nil {
		return err
	}
	if err := h.SetTxvgaGain(cfg.TxvgaDB); err != nil {
		return err
	}
	if err := h.SetFreq(cfg.FrequencyHz); err != nil {
		return err
	}
	if err := h.SetAmpEnable(cfg.AmpEnable); err != nil {
		return err
	}
	if err := h.SetAntennaEnable(cfg.AntennaEnable); err != nil {
		return err
	}
	if cfg.SampleRateHz != 0 {
		if err := h.SetSampleRate(cfg.SampleRateHz, cfg.SampleRateDiv); err != nil {
			return err
		}
	}
	return nil
}

func (h *HackRf) ensureMode(expected Mode) error {
	actual := h.Mode()
	if actual != expected {
		return WrongModeError{Required: expected, Actual: actual}
	}
	return nil
}

func (h *HackRf) checkAPIVersion(min Version) error {
	v := h.t.DeviceVersion()
	if !v.AtLeast(min) {
		return NoAPIError{Device: v, Min: min}
	}
	return nil
}

// readControl performs an IN vendor request and insists on exactly n bytes
// back; anything else is a TransferError.
func (h *HackRf) readControl(req request, value, index uint16, n int) ([]byte, error) {
	buf := make([]byte, n)
	m, err := h.t.ReadControl(uint8(req), value, index, buf, h.Timeout())
	if err != nil {
		return nil, err
	}
	if m != n {
		return nil, TransferError{Dir: DirIn, Actual: m, Expected: n}
	}
	return buf, nil
}

// writeControl performs an OUT vendor request and insists that the whole
// payload was accepted; anything else is a TransferError.
func (h *HackRf) writeControl(req request, value, index uint16, buf []byte) error {
	n, err := h.t.WriteControl(uint8(req), value, index, buf, h.Timeout())
	if err != nil {
		return err
	}
	if n != len(buf) {
		return TransferError{Dir: DirOut, Actual: n, Expected: len(buf)}
	}
	return nil
}

func boolToWord(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
