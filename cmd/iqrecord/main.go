// iqrecord captures IQ samples from a HackRF One to a file, either as the
// raw unsigned 8-bit wire format or converted to interleaved float32.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/time/rate"

	"github.com/openradio/sdrlab/hackrf"
)

func main() {
	freq := flag.Uint64("freq", 915_000_000, "center frequency, Hz")
	sampleRate := flag.Uint("rate", 10_000_000, "sample rate, Hz")
	lna := flag.Uint("lna", 16, "LNA (IF) gain, dB, multiple of 8")
	vga := flag.Uint("vga", 16, "VGA (baseband) gain, dB, even")
	amp := flag.Bool("amp", false, "enable the RF amplifier")
	antenna := flag.Bool("antenna", false, "enable antenna port power")
	out := flag.String("out", "capture.iq", "output file")
	total := flag.Int64("bytes", 64*1024*1024, "bytes of raw IQ to capture")
	toFloat := flag.Bool("float32", false, "write interleaved float32 instead of raw bytes")
	flag.Parse()

	radio, err := hackrf.OpenFirst()
	if err != nil {
		log.Fatal(err)
	}
	defer radio.Close()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	cfg := hackrf.DefaultConfig()
	cfg.FrequencyHz = *freq
	cfg.SampleRateHz = uint32(*sampleRate)
	cfg.SampleRateDiv = 1
	cfg.LnaDB = uint16(*lna)
	cfg.VgaDB = uint16(*vga)
	cfg.AmpEnable = *amp
	cfg.AntennaEnable = *antenna
	if err := radio.StartRx(cfg); err != nil {
		log.Fatal(err)
	}
	defer radio.StopRx()

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)

	buf := make([]byte, 256*hackrf.PacketSize)
	floats := make([]float32, len(buf))
	progress := rate.NewLimiter(rate.Every(time.Second), 1)
	var written int64
	for written < *total {
		select {
		case <-interrupted:
			log.Printf("interrupted after %d bytes", written)
			return
		default:
		}
		n, err := radio.Rx(buf)
		if err != nil {
			log.Fatal(err)
		}
		if n == 0 {
			continue
		}
		if *toFloat {
			for i := 0; i < n; i++ {
				floats[i] = hackrf.SampleToFloat(buf[i])
			}
			if err := binary.Write(f, binary.LittleEndian, floats[:n]); err != nil {
				log.Fatal(err)
			}
		} else {
			if _, err := f.Write(buf[:n]); err != nil {
				log.Fatal(err)
			}
		}
		written += int64(n)
		if progress.Allow() {
			log.Printf("%d / %d bytes", written, *total)
		}
	}
	log.Printf("capture complete: %d bytes to %s", written, *out)
}
