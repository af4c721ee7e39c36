// sdrsrv exposes one or more HackRF One radios over HTTP so that clients in
// any language can configure and capture from them.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"

	"github.com/openradio/sdrlab/hackrf"
	"github.com/openradio/sdrlab/server"
	"github.com/openradio/sdrlab/server/middleware/locker"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "sdrsrv.yml"

	k = koanf.New(".")
)

// RadioSetup holds the parameters to open and mount one radio.
type RadioSetup struct {
	// URL is the path the radio's routes are served under, e.g. "/bench/hackrf"
	URL string `koanf:"endpoint" yaml:"endpoint"`

	// Bus and Address select a specific radio when more than one is
	// attached; leave both zero to take the first one found
	Bus     int `koanf:"bus" yaml:"bus"`
	Address int `koanf:"address" yaml:"address"`

	// TimeoutMS overrides the 500ms transfer timeout when nonzero
	TimeoutMS int `koanf:"timeoutMS" yaml:"timeoutMS"`
}

// Config holds the initialization parameters for the server.
type Config struct {
	// Addr is the address to listen at
	Addr string `koanf:"addr" yaml:"addr"`

	// Radios is the list of radios to open and serve
	Radios []RadioSetup `koanf:"radios" yaml:"radios"`
}

func setupconfig() {
	k.Load(structs.Provider(Config{
		Addr:   ":8000",
		Radios: []RadioSetup{{URL: "/hackrf"}}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `sdrsrv opens HackRF One radios and exposes an HTTP interface to them.
This enables a server-client architecture, and the clients can leverage the
excellent HTTP libraries for any programming language.

Usage:
	sdrsrv <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `sdrsrv is configured via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

Each radio gets an endpoint stem; its routes (frequency, gains, rx/tx
control, capture) hang off that stem, and GET /endpoints on the root lists
everything bound.

Radios are selected by USB bus and address when several are attached; with
one radio the defaults suffice.  POST /lock with {"bool": true} freezes
configuration during a streaming session.`
	fmt.Println(str)
}

func mkconf() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := Config{}
	k.Unmarshal("", &c)
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("sdrsrv version %v\n", Version)
}

func run() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	if len(c.Radios) == 0 {
		log.Fatal("no radios configured, nothing to serve")
	}
	httpers := make([]server.HTTPer, 0, len(c.Radios))
	stems := make([]string, 0, len(c.Radios))
	lock := locker.New()
	for _, setup := range c.Radios {
		var radio *hackrf.HackRf
		var err error
		if setup.Bus == 0 && setup.Address == 0 {
			radio, err = hackrf.OpenFirst()
		} else {
			radio, err = hackrf.OpenBusAddr(setup.Bus, setup.Address)
		}
		if err != nil {
			log.Fatalf("open radio for %s: %v", setup.URL, err)
		}
		defer radio.Close()
		if setup.TimeoutMS > 0 {
			radio.SetTimeout(time.Duration(setup.TimeoutMS) * time.Millisecond)
		}
		ident := radio.Identity()
		log.Printf("opened board %d, firmware %s (%v) at %s",
			ident.BoardID, ident.FirmwareVersion, ident.DeviceVersion, setup.URL)
		wrapper := hackrf.NewHTTPWrapper(radio)
		locker.Inject(wrapper, lock)
		httpers = append(httpers, wrapper)
		stems = append(stems, setup.URL)
	}
	mux := server.BuildMux(httpers, stems)
	mux.Use(lock.Check)
	log.Println("now listening for requests at", c.Addr)
	log.Fatal(http.ListenAndServe(c.Addr, mux))
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd := strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "run":
		run()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
