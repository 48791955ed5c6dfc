package led

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

const DefaultBaud = 115200

// Adalight streams frames to a microcontroller over a serial port using the
// Adalight framing: "Ada", count-1 (hi, lo), checksum hi^lo^0x55, pixels.
type Adalight struct {
	mu   sync.Mutex
	w    io.WriteCloser
	opts Options
	buf  []byte
}

// OpenAdalight opens port (e.g. /dev/ttyUSB0) at baud.
func OpenAdalight(port string, baud int, o Options) (*Adalight, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", port, err)
	}
	return NewAdalight(p, o), nil
}

// NewAdalight writes frames to w.
func NewAdalight(w io.WriteCloser, o Options) *Adalight {
	a := &Adalight{w: w, opts: o, buf: make([]byte, 6+o.Pixels*3)}
	AdalightHeader(a.buf[:6], o.Pixels)
	return a
}

// AdalightHeader fills the 6-byte frame header for n pixels.
func AdalightHeader(dst []byte, n int) {
	hi, lo := byte((n-1)>>8), byte((n-1)&0xff)
	dst[0], dst[1], dst[2] = 'A', 'd', 'a'
	dst[3], dst[4], dst[5] = hi, lo, hi^lo^0x55
}

func (a *Adalight) Write(f render.Frame) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(f) != a.opts.Pixels {
		return ErrFrameSize
	}
	Pack(a.buf[6:], f, a.opts.Order, a.opts.Brightness)
	_, err := a.w.Write(a.buf)
	return err
}

func (a *Adalight) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.w.Close()
}
