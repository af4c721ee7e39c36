// hackrfinfo waits for a HackRF One to appear, opens it, and prints its
// identity.  Useful as a smoke test after plugging in a board or flashing
// firmware.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/theckman/yacspin"

	"github.com/openradio/sdrlab/hackrf"
)

func main() {
	bus := flag.Int("bus", 0, "USB bus number; 0 takes the first radio found")
	address := flag.Int("address", 0, "USB device address on the bus")
	wait := flag.Duration("wait", 10*time.Second, "how long to keep retrying the open")
	scan := flag.Bool("scan", false, "list every attached radio and exit")
	flag.Parse()

	if *scan {
		infos, err := hackrf.Scan()
		if err != nil {
			log.Fatal(err)
		}
		if len(infos) == 0 {
			fmt.Println("no radios attached")
			return
		}
		for _, info := range infos {
			fmt.Printf("bus %03d addr %03d  firmware %v\n", info.Bus, info.Address, info.DeviceVersion)
		}
		return
	}

	spinner, err := yacspin.New(yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[59],
		Suffix:          " waiting for radio",
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
		StopFailMessage: "no radio found",
	})
	if err != nil {
		log.Fatal(err)
	}
	spinner.Start()

	var radio *hackrf.HackRf
	op := func() error {
		var err error
		if *bus == 0 && *address == 0 {
			radio, err = hackrf.OpenFirst()
		} else {
			radio, err = hackrf.OpenBusAddr(*bus, *address)
		}
		return err
	}
	// the radio may still be enumerating right after plug-in, so back off
	// instead of hammering the bus
	err = backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0.,
		Multiplier:          2.,
		MaxInterval:         1 * time.Second,
		MaxElapsedTime:      *wait,
		Clock:               backoff.SystemClock})
	if err != nil {
		spinner.StopFail()
		log.Fatal(err)
	}
	spinner.Stop()
	defer radio.Close()

	ident := radio.Identity()
	fmt.Printf("board id:         %d\n", ident.BoardID)
	fmt.Printf("firmware:         %s\n", ident.FirmwareVersion)
	fmt.Printf("device version:   %v\n", ident.DeviceVersion)
	serial, err := radio.BoardSerial()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("part id / serial: %08x%08x / %08x%08x%08x%08x\n",
		serial.PartID[0], serial.PartID[1],
		serial.Serial[0], serial.Serial[1], serial.Serial[2], serial.Serial[3])
}
