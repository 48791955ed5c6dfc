package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-striplight/internal/led"
	"github.com/coreman2200/funtimes-striplight/internal/render"
	"github.com/coreman2200/funtimes-striplight/internal/selector"
)

type Strip struct {
	Pixels     int    `yaml:"pixels"`
	ColorOrder string `yaml:"color_order"` // e.g. GRB
	Brightness int    `yaml:"brightness"`  // 0..255
}

type SPI struct {
	Port    string `yaml:"port"`     // "" picks the first port
	FreqKHz int    `yaml:"freq_khz"` // e.g. 2500
}

type Serial struct {
	Port string `yaml:"port"` // e.g. /dev/ttyUSB0
	Baud int    `yaml:"baud"`
}

type Button struct {
	Pin string `yaml:"pin"` // e.g. GPIO17; "" disables the hardware button
}

type Display struct {
	Kind   string `yaml:"kind"`    // ssd1306 | log | none
	I2CBus string `yaml:"i2c_bus"` // "" picks the first bus
}

type Effects struct {
	Start          string `yaml:"start"`
	BreathingColor string `yaml:"breathing_color"`
	WaveColor      string `yaml:"wave_color"`
	WaveWidth      int    `yaml:"wave_width"`
}

type Timing struct {
	YieldMs    int `yaml:"yield_ms"`
	PollMs     int `yaml:"poll_ms"`
	DebounceMs int `yaml:"debounce_ms"`
}

type Config struct {
	Driver   string `yaml:"driver"` // nrzled | serial | console | log | sim
	LogLevel string `yaml:"log_level"`
	SlotPath string `yaml:"slot_path"`   // "" picks a default per driver, "none" keeps it in memory
	Preview  string `yaml:"preview_addr"` // "" disables the websocket preview

	Strip   Strip   `yaml:"strip"`
	SPI     SPI     `yaml:"spi,omitempty"`
	Serial  Serial  `yaml:"serial,omitempty"`
	Button  Button  `yaml:"button"`
	Display Display `yaml:"display"`
	Effects Effects `yaml:"effects"`
	Timing  Timing  `yaml:"timing"`
}

var Drivers = []string{"nrzled", "serial", "console", "log", "sim"}

// Default matches the reference hardware: a 60 pixel GRB strip at low
// brightness.
func Default() *Config {
	return &Config{
		Driver:   "sim",
		LogLevel: "info",
		Strip:    Strip{Pixels: 60, ColorOrder: "GRB", Brightness: 10},
		SPI:      SPI{FreqKHz: 2500},
		Serial:   Serial{Baud: led.DefaultBaud},
		Display:  Display{Kind: "log"},
		Effects: Effects{
			Start:          "rainbow",
			BreathingColor: "#FFA500",
			WaveColor:      "#8A2BE2",
			WaveWidth:      10,
		},
		Timing: Timing{YieldMs: 1, PollMs: 50, DebounceMs: 500},
	}
}

// Load reads path over the defaults. A missing file yields the defaults and
// an error wrapping os.ErrNotExist.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports every configuration error at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.LEDOptions(); err != nil {
		errs = append(errs, err)
	}
	if c.Strip.Brightness < 0 || c.Strip.Brightness > 255 {
		errs = append(errs, fmt.Errorf("brightness %d outside 0..255", c.Strip.Brightness))
	}
	known := false
	for _, d := range Drivers {
		known = known || d == c.Driver
	}
	if !known {
		errs = append(errs, fmt.Errorf("unknown driver %q", c.Driver))
	}
	if c.Driver == "nrzled" && c.Strip.ColorOrder != "GRB" {
		errs = append(errs, fmt.Errorf("driver nrzled needs color_order GRB, got %q", c.Strip.ColorOrder))
	}
	if c.Driver == "serial" && c.Serial.Port == "" {
		errs = append(errs, errors.New("driver serial needs serial.port"))
	}
	switch c.Display.Kind {
	case "ssd1306", "log", "none", "":
	default:
		errs = append(errs, fmt.Errorf("unknown display %q", c.Display.Kind))
	}
	if _, err := selector.ParseTag(c.Effects.Start); err != nil {
		errs = append(errs, fmt.Errorf("effects.start: %w", err))
	}
	if _, err := ParseColor(c.Effects.BreathingColor); err != nil {
		errs = append(errs, fmt.Errorf("effects.breathing_color: %w", err))
	}
	if _, err := ParseColor(c.Effects.WaveColor); err != nil {
		errs = append(errs, fmt.Errorf("effects.wave_color: %w", err))
	}
	if c.Effects.WaveWidth < 0 {
		errs = append(errs, fmt.Errorf("effects.wave_width %d is negative", c.Effects.WaveWidth))
	}
	return errors.Join(errs...)
}

// RunSlotPath is where hardware drivers keep the selected effect. /run is
// root-owned tmpfs on most distributions.
const RunSlotPath = "/run/striplight/effect.yaml"

// SlotFile resolves SlotPath. Hardware drivers run as root and use /run;
// desktop drivers use the user's temp dir. "" is returned for "none".
func (c *Config) SlotFile() string {
	switch c.SlotPath {
	case "none":
		return ""
	case "":
		if c.Driver == "nrzled" || c.Driver == "serial" {
			return RunSlotPath
		}
		return filepath.Join(os.TempDir(), "striplight", "effect.yaml")
	}
	return c.SlotPath
}

// LEDOptions converts the strip section into sink options.
func (c *Config) LEDOptions() (led.Options, error) {
	order, err := led.ParseOrder(c.Strip.ColorOrder)
	if err != nil {
		return led.Options{}, err
	}
	o := led.Options{Pixels: c.Strip.Pixels, Order: order, Brightness: uint8(min(max(c.Strip.Brightness, 0), 255))}
	return o, o.Validate()
}

// ParseColor accepts "#RRGGBB" or "#RGB".
func ParseColor(s string) (render.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return render.Color{}, err
	}
	r, g, b := c.RGB255()
	return render.Color{R: r, G: g, B: b}, nil
}
