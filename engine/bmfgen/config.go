package bmfgen

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontatlas/backend/bmfont"
	"github.com/npillmayer/fontatlas/backend/pages"
	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/charset"
	"github.com/npillmayer/fontatlas/core/colour"
	"github.com/npillmayer/fontatlas/core/font"
	"github.com/npillmayer/fontatlas/engine/atlas"
	"github.com/npillmayer/fontatlas/engine/glyphs"
)

// Kerning shapers.
const (
	ShaperFace     = "face"     // kern table lookup of golang.org/x/image
	ShaperHarfBuzz = "harfbuzz" // GPOS kerning by HarfBuzz
)

// Config holds all options of an atlas generation run.
type Config struct {
	Output         string // output path; the extension is ignored
	Sizes          []int  // pixel sizes
	BaseSize       int    // size border and spacings are given for, 0 for every size
	Padding        glyphs.Padding
	Color          string // foreground, RRGGBB or RRGGBBAA
	BorderColor    string
	Background     string
	BorderWidth    int
	MaxTextureSize int
	Square         bool
	Chars          string
	Antialiasing   bool
	Premultiply    bool
	Kerning        bool
	KerningShaper  string
	CharSpacing    int
	LineSpacing    int
	PackMode       int // 0 for row-fill, growing otherwise
	PackAlgorithm  string
	MaxPages       int
	DPI            float64
	Format         string // metrics format, xml or text
	ImageFormat    string // png, bmp or tiff
	PrettyPrint    bool
}

// DefaultConfig returns a configuration with the defaults of the command
// line tool.
func DefaultConfig() Config {
	return Config{
		Sizes:          []int{64},
		Padding:        glyphs.UniformPadding(2),
		Color:          "ffffff",
		BorderColor:    "000000",
		Background:     "00000000",
		MaxTextureSize: 1024,
		Chars:          charset.Default,
		KerningShaper:  ShaperFace,
		PackMode:       1,
		PackAlgorithm:  atlas.MaxRects.String(),
		DPI:            72,
		Format:         bmfont.XML.String(),
		ImageFormat:    "png",
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "bmfgen: invalid config." + e.Field + ": " + e.Reason
}

func invalid(field, format string, v ...interface{}) error {
	cerr := &ConfigError{Field: field, Reason: fmt.Sprintf(format, v...)}
	return core.WrapError(cerr, core.EINVALID, "invalid option %s: %s", field, cerr.Reason)
}

// Validate checks the configuration. Errors have error code EINVALID and
// wrap a *ConfigError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return invalid("Output", "must not be empty")
	}
	if len(c.Sizes) == 0 {
		return invalid("Sizes", "at least one size is required")
	}
	for _, s := range c.Sizes {
		if s < font.MinSize || s > font.MaxSize {
			return invalid("Sizes", "size %d out of range [%d…%d]", s, font.MinSize, font.MaxSize)
		}
	}
	if c.BaseSize < 0 {
		return invalid("BaseSize", "must be non-negative")
	}
	p := c.Padding
	if p.Top < 0 || p.Right < 0 || p.Bottom < 0 || p.Left < 0 {
		return invalid("Padding", "must be non-negative")
	}
	for _, col := range []struct{ field, hex string }{
		{"Color", c.Color}, {"BorderColor", c.BorderColor}, {"Background", c.Background},
	} {
		if _, err := colour.Parse(col.hex); err != nil {
			return invalid(col.field, "%q is not a colour (use RRGGBB or RRGGBBAA)", col.hex)
		}
	}
	if c.BorderWidth < 0 {
		return invalid("BorderWidth", "must be non-negative")
	}
	if c.MaxTextureSize < 1 {
		return invalid("MaxTextureSize", "must be at least 1")
	}
	if c.Chars == "" {
		return invalid("Chars", "must not be empty")
	}
	if c.Kerning && c.KerningShaper != ShaperFace && c.KerningShaper != ShaperHarfBuzz {
		return invalid("KerningShaper", "must be %q or %q", ShaperFace, ShaperHarfBuzz)
	}
	if _, err := atlas.ParseAlgorithm(c.PackAlgorithm); err != nil {
		return invalid("PackAlgorithm", "unknown algorithm %q", c.PackAlgorithm)
	}
	if c.MaxPages < 0 {
		return invalid("MaxPages", "must be non-negative")
	}
	if c.DPI < 0 {
		return invalid("DPI", "must be non-negative")
	}
	if _, err := bmfont.ParseFormat(c.Format); err != nil {
		return invalid("Format", "unknown format %q", c.Format)
	}
	if _, err := pages.CodecFor(c.ImageFormat); err != nil {
		return invalid("ImageFormat", "unknown image format %q", c.ImageFormat)
	}
	return nil
}

// style derives the glyph style. c has to be valid.
func (c *Config) style() glyphs.Style {
	return glyphs.Style{
		Foreground:  colour.MustParse(c.Color),
		Border:      colour.MustParse(c.BorderColor),
		Background:  colour.MustParse(c.Background),
		BorderWidth: c.BorderWidth,
		CharSpacing: c.CharSpacing,
		LineSpacing: c.LineSpacing,
		Padding:     c.Padding,
		BaseSize:    c.BaseSize,
	}
}

// packing derives the packing options. c has to be valid.
func (c *Config) packing() atlas.Options {
	algo, _ := atlas.ParseAlgorithm(c.PackAlgorithm)
	opts := atlas.Options{
		MaxSize:   c.MaxTextureSize,
		Square:    c.Square,
		Algorithm: algo,
		MaxPages:  c.MaxPages,
	}
	if c.PackMode == 0 {
		opts.Strategy = atlas.RowFill
	}
	return opts
}

// RasterizerOptions derives the rasterizer options.
func (c *Config) RasterizerOptions() font.Options {
	return font.Options{
		DPI:         c.DPI,
		Antialiased: c.Antialiasing,
		Kerning:     c.Kerning,
	}
}
