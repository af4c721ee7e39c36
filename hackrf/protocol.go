package hackrf

// USB identity of the HackRF One.  These are the only fixed external
// identifiers; everything else is negotiated by opcode.
const (
	// VendorID is the Great Scott Gadgets USB vendor ID
	VendorID = 0x1D50

	// ProductID is the HackRF One USB product ID
	ProductID = 0x6089
)

// Bulk endpoint addresses and alignment.  The firmware streams samples on
// fixed endpoints; transfer sizes must be a whole number of USB packets.
const (
	// EndpointRx is the bulk IN endpoint carrying received samples
	EndpointRx = 0x81

	// EndpointTx is the bulk OUT endpoint carrying samples to transmit
	EndpointTx = 0x02

	// PacketSize is the USB bulk packet size; rx/tx buffers must be a
	// multiple of this
	PacketSize = 512
)

// request is a vendor-defined USB control request number understood by the
// HackRF firmware.  The table mirrors the firmware's usb_vendor_request enum;
// only a subset is used by this package, but the full numbering is kept so
// the constants double as protocol documentation.
type request uint8

const (
	reqSetTransceiverMode         request = 1
	reqMax2837Write               request = 2
	reqMax2837Read                request = 3
	reqSi5351CWrite               request = 4
	reqSi5351CRead                request = 5
	reqSampleRateSet              request = 6
	reqBasebandFilterBandwidthSet request = 7
	reqRffc5071Write              request = 8
	reqRffc5071Read               request = 9
	reqSpiflashErase              request = 10
	reqSpiflashWrite              request = 11
	reqSpiflashRead               request = 12
	reqBoardIDRead                request = 14
	reqVersionStringRead          request = 15
	reqSetFreq                    request = 16
	reqAmpEnable                  request = 17
	reqBoardPartIDSerialNoRead    request = 18
	reqSetLnaGain                 request = 19
	reqSetVgaGain                 request = 20
	reqSetTxvgaGain               request = 21
	reqAntennaEnable              request = 23
	reqSetFreqExplicit            request = 24
	reqUsbWcidVendorReq           request = 25
	reqInitSweep                  request = 26
	reqOperacakeGetBoards         request = 27
	reqOperacakeSetPorts          request = 28
	reqSetHwSyncMode              request = 29
	reqReset                      request = 30
	reqOperacakeSetRanges         request = 31
	reqClkoutEnable               request = 32
	reqSpiflashStatus             request = 33
	reqSpiflashClearStatus        request = 34
	reqOperacakeGpioTest          request = 35
	reqCpldChecksum               request = 36
	reqUIEnable                   request = 37
)

// transceiverMode is the two-byte value carried by reqSetTransceiverMode.
type transceiverMode uint16

const (
	transceiverModeOff      transceiverMode = 0
	transceiverModeReceive  transceiverMode = 1
	transceiverModeTransmit transceiverMode = 2
	transceiverModeSS       transceiverMode = 3
	transceiverModeCpldUpd  transceiverMode = 4
	transceiverModeRxSweep  transceiverMode = 5
)

// Mode is the streaming state of the driver.  It is stored in an atomic
// int32 field on HackRf; all transitions go through compare-and-swap so
// there is exactly one winner when threads race to start streaming.
type Mode int32

// The three driver states.  At most one of Receive/Transmit is active at
// any time, and the only legal transitions are Idle<->Receive and
// Idle<->Transmit.
const (
	ModeIdle Mode = iota
	ModeReceive
	ModeTransmit
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeReceive:
		return "Receive"
	case ModeTransmit:
		return "Transmit"
	}
	return "Unknown"
}
