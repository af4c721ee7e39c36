package hackrf

import (
	"encoding/json"
	"fmt"
	"go/types"
	"net/http"
	"strconv"
	"time"

	"github.com/openradio/sdrlab/server"
	"goji.io/pat"
)

// configPayload is the JSON shape of a streaming config.
type configPayload struct {
	VgaDB         uint16 `json:"vgaDB"`
	TxvgaDB       uint16 `json:"txvgaDB"`
	LnaDB         uint16 `json:"lnaDB"`
	AmpEnable     bool   `json:"ampEnable"`
	AntennaEnable bool   `json:"antennaEnable"`
	FrequencyHz   uint64 `json:"frequencyHz"`
	SampleRateHz  uint32 `json:"sampleRateHz"`
	SampleRateDiv uint32 `json:"sampleRateDiv"`
}

func (c configPayload) toConfig() Config {
	return Config{
		VgaDB:         c.VgaDB,
		TxvgaDB:       c.TxvgaDB,
		LnaDB:         c.LnaDB,
		AmpEnable:     c.AmpEnable,
		AntennaEnable: c.AntennaEnable,
		FrequencyHz:   c.FrequencyHz,
		SampleRateHz:  c.SampleRateHz,
		SampleRateDiv: c.SampleRateDiv,
	}
}

// ratePayload is the JSON shape of a sample rate command.
type ratePayload struct {
	Hz  uint32 `json:"hz"`
	Div uint32 `json:"div"`
}

// HTTPWrapper exposes a radio over HTTP with a pre-populated route table.
type HTTPWrapper struct {
	radio *HackRf

	// RouteTable maps goji patterns to route handlers
	RouteTable server.RouteTable
}

// NewHTTPWrapper returns an HTTP wrapper around a radio with the full route
// table populated.
func NewHTTPWrapper(radio *HackRf) HTTPWrapper {
	w := HTTPWrapper{radio: radio}
	rt := server.RouteTable{}
	rt[pat.Get("/board-id")] = w.BoardID
	rt[pat.Get("/version")] = w.Version
	rt[pat.Get("/device-version")] = w.DeviceVersion
	rt[pat.Get("/serial")] = w.Serial
	rt[pat.Get("/mode")] = w.Mode
	rt[pat.Post("/frequency")] = w.SetFreq
	rt[pat.Post("/sample-rate")] = w.SetSampleRate
	rt[pat.Post("/lna-gain")] = w.gainSetter(w.radio.SetLnaGain)
	rt[pat.Post("/vga-gain")] = w.gainSetter(w.radio.SetVgaGain)
	rt[pat.Post("/txvga-gain")] = w.gainSetter(w.radio.SetTxvgaGain)
	rt[pat.Post("/amp")] = w.boolSetter(w.radio.SetAmpEnable)
	rt[pat.Post("/antenna")] = w.boolSetter(w.radio.SetAntennaEnable)
	rt[pat.Post("/timeout-ms")] = w.SetTimeout
	rt[pat.Post("/reset")] = w.Reset
	rt[pat.Post("/rx/start")] = w.startSetter(w.radio.StartRx)
	rt[pat.Post("/rx/stop")] = w.stopSetter(w.radio.StopRx)
	rt[pat.Post("/tx/start")] = w.startSetter(w.radio.StartTx)
	rt[pat.Post("/tx/stop")] = w.stopSetter(w.radio.StopTx)
	rt[pat.Get("/rx/capture")] = w.Capture
	w.RouteTable = rt
	return w
}

// RT makes HTTPWrapper conform to server.HTTPer
func (h HTTPWrapper) RT() server.RouteTable {
	return h.RouteTable
}

// BoardID returns the board id byte as JSON
func (h HTTPWrapper) BoardID(w http.ResponseWriter, r *http.Request) {
	id, err := h.radio.BoardID()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	hp := server.HumanPayload{T: types.Int, Int: int(id)}
	hp.EncodeAndRespond(w, r)
}

// Version returns the firmware version string as JSON
func (h HTTPWrapper) Version(w http.ResponseWriter, r *http.Request) {
	v, err := h.radio.Version()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	hp := server.HumanPayload{T: types.String, String: v}
	hp.EncodeAndRespond(w, r)
}

// DeviceVersion returns the structured firmware revision as JSON
func (h HTTPWrapper) DeviceVersion(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.String, String: h.radio.DeviceVersion().String()}
	hp.EncodeAndRespond(w, r)
}

// Serial returns the board part id and serial numbers as JSON
func (h HTTPWrapper) Serial(w http.ResponseWriter, r *http.Request) {
	s, err := h.radio.BoardSerial()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	str := fmt.Sprintf("%08x%08x %08x%08x%08x%08x",
		s.PartID[0], s.PartID[1], s.Serial[0], s.Serial[1], s.Serial[2], s.Serial[3])
	hp := server.HumanPayload{T: types.String, String: str}
	hp.EncodeAndRespond(w, r)
}

// Mode returns the streaming state as JSON
func (h HTTPWrapper) Mode(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.String, String: h.radio.Mode().String()}
	hp.EncodeAndRespond(w, r)
}

// SetFreq sets the center frequency from json:f64 (Hz)
func (h HTTPWrapper) SetFreq(w http.ResponseWriter, r *http.Request) {
	f := server.FloatT{}
	err := json.NewDecoder(r.Body).Decode(&f)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.radio.SetFreq(uint64(f.F64)); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// SetSampleRate sets the sample rate from json:{hz, div}
func (h HTTPWrapper) SetSampleRate(w http.ResponseWriter, r *http.Request) {
	p := ratePayload{}
	err := json.NewDecoder(r.Body).Decode(&p)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.radio.SetSampleRate(p.Hz, p.Div); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// SetTimeout sets the transfer timeout from json:f64 (milliseconds)
func (h HTTPWrapper) SetTimeout(w http.ResponseWriter, r *http.Request) {
	f := server.FloatT{}
	err := json.NewDecoder(r.Body).Decode(&f)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.radio.SetTimeout(time.Duration(f.F64 * float64(time.Millisecond)))
	w.WriteHeader(http.StatusOK)
}

// Reset reboots the device (firmware API 0x0102 or newer)
func (h HTTPWrapper) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.radio.Reset(); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Capture reads sample bytes while in receive mode and returns them as an
// octet stream.  The byte count comes from the "bytes" query parameter and
// is rounded up to a whole number of USB packets.
func (h HTTPWrapper) Capture(w http.ResponseWriter, r *http.Request) {
	nStr := r.URL.Query().Get("bytes")
	n, err := strconv.Atoi(nStr)
	if err != nil || n <= 0 {
		http.Error(w, "bytes query parameter must be a positive integer", http.StatusBadRequest)
		return
	}
	if rem := n % PacketSize; rem != 0 {
		n += PacketSize - rem
	}
	buf := make([]byte, n)
	got := 0
	for got < n {
		m, err := h.radio.Rx(buf[got:])
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		if m == 0 {
			break
		}
		got += m
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(buf[:got])
}

func (h HTTPWrapper) gainSetter(fcn func(uint16) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i := server.IntT{}
		err := json.NewDecoder(r.Body).Decode(&i)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if i.Int < 0 {
			http.Error(w, "gain must not be negative", http.StatusBadRequest)
			return
		}
		if err := fcn(uint16(i.Int)); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (h HTTPWrapper) boolSetter(fcn func(bool) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := server.BoolT{}
		err := json.NewDecoder(r.Body).Decode(&b)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := fcn(b.Bool); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (h HTTPWrapper) startSetter(fcn func(Config) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := configPayload{}
		err := json.NewDecoder(r.Body).Decode(&p)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := fcn(p.toConfig()); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (h HTTPWrapper) stopSetter(fcn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fcn(); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// statusFor maps driver errors onto HTTP status codes; caller mistakes get
// 4xx, everything else is a 500.
func statusFor(err error) int {
	switch err.(type) {
	case ArgumentError:
		return http.StatusBadRequest
	case WrongModeError:
		return http.StatusConflict
	case NoAPIError:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
