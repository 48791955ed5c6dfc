package led

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

// MaxPixels bounds the strip length accepted by any sink.
const MaxPixels = 4096

// Driver is an output sink that owns hardware and must be closed.
type Driver interface {
	render.Sink
	Close() error
}

// Order is the channel order on the wire, e.g. "GRB" for WS2811/WS2812.
type Order [3]byte

var (
	RGB = Order{'R', 'G', 'B'}
	GRB = Order{'G', 'R', 'B'}
)

// ParseOrder accepts any permutation of R, G and B.
func ParseOrder(s string) (Order, error) {
	s = strings.ToUpper(s)
	if len(s) != 3 || !strings.ContainsRune(s, 'R') || !strings.ContainsRune(s, 'G') || !strings.ContainsRune(s, 'B') {
		return Order{}, fmt.Errorf("unsupported color order %q", s)
	}
	return Order{s[0], s[1], s[2]}, nil
}

func (o Order) String() string { return string(o[:]) }

// Options are fixed when a sink is created.
type Options struct {
	Pixels int
	Order  Order
	// Brightness scales every channel, 255 is full output.
	Brightness uint8
}

// MarshalZerologObject lets sinks log their configuration.
func (o Options) MarshalZerologObject(e *zerolog.Event) {
	e.Int("pixels", o.Pixels).Str("order", o.Order.String()).Uint8("brightness", o.Brightness)
}

func (o Options) Validate() error {
	if o.Pixels <= 0 || o.Pixels > MaxPixels {
		return fmt.Errorf("invalid LED count: %d", o.Pixels)
	}
	if _, err := ParseOrder(o.Order.String()); err != nil {
		return err
	}
	return nil
}

// ErrFrameSize is returned when a frame does not match the configured strip.
var ErrFrameSize = errors.New("frame length does not match pixel count")

// Pack writes f into dst as wire bytes in o's channel order with brightness
// applied. dst must hold 3*len(f) bytes.
func Pack(dst []byte, f render.Frame, o Order, brightness uint8) {
	for i, c := range f {
		c = c.Scale(brightness)
		for j := 0; j < 3; j++ {
			var v uint8
			switch o[j] {
			case 'R':
				v = c.R
			case 'G':
				v = c.G
			case 'B':
				v = c.B
			}
			dst[i*3+j] = v
		}
	}
}
