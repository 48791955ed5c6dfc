package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

// DefaultNRZFreq is the SPI clock used to synthesize the 800kHz NRZ stream.
const DefaultNRZFreq = 2500 * physic.KiloHertz

// NRZ drives a WS281x strip through an SPI port. The device emits GRB on the
// wire itself, so it only accepts GRB strips.
type NRZ struct {
	mu   sync.Mutex
	dev  *nrzled.Dev
	port spi.PortCloser
	opts Options
	buf  []byte
}

// OpenNRZ opens the named SPI port ("" for the first one). host.Init must
// have run.
func OpenNRZ(portName string, freq physic.Frequency, o Options) (*NRZ, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Order != GRB {
		return nil, fmt.Errorf("nrzled strips are GRB, got %s", o.Order)
	}
	p, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("spi open %q: %w", portName, err)
	}
	n, err := newNRZ(p, freq, o)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	n.port = p
	return n, nil
}

func newNRZ(p spi.Port, freq physic.Frequency, o Options) (*NRZ, error) {
	if freq == 0 {
		freq = DefaultNRZFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: o.Pixels, Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{dev: d, opts: o, buf: make([]byte, o.Pixels*3)}, nil
}

// Write sends f as RGB; nrzled reorders to GRB while encoding.
func (n *NRZ) Write(f render.Frame) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(f) != n.opts.Pixels {
		return ErrFrameSize
	}
	Pack(n.buf, f, RGB, n.opts.Brightness)
	_, err := n.dev.Write(n.buf)
	return err
}

func (n *NRZ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.dev.Halt()
	if n.port != nil {
		if cerr := n.port.Close(); err == nil {
			err = cerr
		}
		n.port = nil
	}
	return err
}

func (n *NRZ) String() string { return n.dev.String() }
