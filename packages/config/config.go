// Package config loads the engine settings from TOML.
//
//	[Video]
//	LogicalWidth = 1280
//	ClearColor = "#202030"
//
//	[[Filters]]
//	Type = "blur"
//	Amount = 2
//
//	[[Filters]]
//	Type = "tint"
//	Color = "#ff8000"
//	Alpha = 0.4
package config

import (
	"bytes"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/artenus-engine/Artenus-GO/packages/render"
)

// Filter types accepted in [[Filters]].
const (
	FilterBlur     = "blur"
	FilterGhosting = "ghosting"
	FilterTint     = "tint"
)

type Config struct {
	Video   Video
	Filters []Filter
}

type Video struct {
	// LogicalWidth and LogicalHeight fix the layout size. A zero axis
	// follows the screen aspect ratio; both zero use the size in points.
	LogicalWidth  float32
	LogicalHeight float32
	ClearColor    string
	// MaxTextureSize caps the longest side of uploaded images. Zero means
	// no cap.
	MaxTextureSize int
	ScreenshotPath string
}

type Filter struct {
	Type   string
	Amount float32
	Color  string
	// Alpha defaults to 1.
	Alpha *float32
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Video: Video{
			ClearColor:     "#000000",
			MaxTextureSize: 2048,
			ScreenshotPath: "screenshot.png",
		},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// Parse decodes TOML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, errors.Errorf("line %d column %d: %s", row, col, derr.Error())
		}
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every field and names the first bad one.
func (c *Config) Validate() error {
	v := c.Video
	if v.LogicalWidth < 0 || v.LogicalHeight < 0 {
		return errors.Errorf("Video: negative logical size %gx%g", v.LogicalWidth, v.LogicalHeight)
	}
	if v.MaxTextureSize < 0 {
		return errors.Errorf("Video.MaxTextureSize: %d is negative", v.MaxTextureSize)
	}
	if _, err := ParseColor(v.ClearColor, 1); err != nil {
		return errors.Wrap(err, "Video.ClearColor")
	}
	for i, f := range c.Filters {
		if err := f.validate(); err != nil {
			return errors.Wrapf(err, "Filters[%d]", i)
		}
	}
	return nil
}

func (f Filter) validate() error {
	if f.Alpha != nil && (*f.Alpha < 0 || *f.Alpha > 1) {
		return errors.Errorf("Alpha %g out of [0, 1]", *f.Alpha)
	}
	switch f.Type {
	case FilterBlur:
		if f.Amount < 1 {
			return errors.Errorf("blur Amount %g is below 1", f.Amount)
		}
	case FilterGhosting:
		if f.Amount < 0 {
			return errors.Errorf("ghosting Amount %g is negative", f.Amount)
		}
	case FilterTint:
		if f.Color == "" {
			return errors.New("tint needs a Color")
		}
		if _, err := f.RGBA(); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown Type %q", f.Type)
	}
	return nil
}

// RGBA is the filter colour with its alpha applied.
func (f Filter) RGBA() (render.Color, error) {
	a := float32(1)
	if f.Alpha != nil {
		a = *f.Alpha
	}
	return ParseColor(f.Color, a)
}

// ClearRGBA is the parsed clear colour. Validate has checked it already.
func (v Video) ClearRGBA() render.Color {
	c, err := ParseColor(v.ClearColor, 1)
	if err != nil {
		return render.Color{A: 1}
	}
	return c
}

// ParseColor converts a "#rrggbb" or "#rgb" string.
func ParseColor(hex string, alpha float32) (render.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return render.Color{}, errors.Wrapf(err, "colour %q", hex)
	}
	return render.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: alpha}, nil
}
