/*
Command bmfg generates bitmap font atlases in the BMFont format.

Usage:

   bmfg [flags] font

where font is a font file, the name of a packaged Go font (e.g. go-bold), or
the name of a font installed on the system. The atlas pages and the metrics
files are written next to the path given by -o, which defaults to the
location of the font file.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/charset"
	"github.com/npillmayer/fontatlas/core/font"
	"github.com/npillmayer/fontatlas/core/locate/resources"
	"github.com/npillmayer/fontatlas/engine/bmfgen"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontatlas.run'
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.run")
}

var traceKeys = []string{
	"fontatlas.fonts", "fontatlas.glyphs", "fontatlas.kerning",
	"fontatlas.atlas", "fontatlas.bmfont", "fontatlas.run",
}

func main() {
	initDisplay()
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err == flag.ErrHelp {
		os.Exit(0)
	} else if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(core.ExitCode(err))
	}
	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range traceKeys {
		conf["trace."+key] = opts.traceLevel
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	//
	if err := generate(opts); err != nil {
		pterm.Error.Println(core.UserMessage(err))
		tracer().Errorf(err.Error())
		os.Exit(core.ExitCode(err))
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func generate(opts *options) error {
	f, err := resources.ResolveFont(opts.font).Font()
	if err != nil {
		return err
	}
	pterm.Info.Printfln("Using font %s (%s)", f.Fontname, f.Filepath)
	r := bmfgen.NewRasterizer(opts.cfg, f)
	defer r.Close()
	res, err := bmfgen.Run(opts.cfg, r)
	if err != nil {
		return err
	}
	if len(res.Dropped) > 0 {
		pterm.Warning.Printfln("Font has no glyphs for %d character(s): %s",
			len(res.Dropped), charset.Describe(res.Dropped))
	}
	for _, p := range res.Pages {
		pterm.Success.Printfln("Page    %s (%d×%d)", p, res.Layout.Width, res.Layout.Height)
	}
	for _, m := range res.Metrics {
		pterm.Success.Printfln("Metrics %s", m)
	}
	return nil
}

// --- Flags -----------------------------------------------------------------

type options struct {
	cfg        bmfgen.Config
	font       string
	traceLevel string
}

// sizeList collects pixel sizes from repeated flags or comma separated lists.
type sizeList []int

func (sl *sizeList) String() string {
	s := make([]string, len(*sl))
	for i, n := range *sl {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ",")
}

func (sl *sizeList) Set(value string) error {
	for _, field := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return fmt.Errorf("not a size: %q", field)
		}
		*sl = append(*sl, n)
	}
	return nil
}

func parseFlags(args []string, out io.Writer) (*options, error) {
	cfg := bmfgen.DefaultConfig()
	fs := flag.NewFlagSet("bmfg", flag.ContinueOnError)
	fs.SetOutput(out)
	var sizes sizeList
	fs.Var(&sizes, "s", "Font size(s) in pixels, repeatable or comma separated (default 64)")
	fs.StringVar(&cfg.Output, "o", "", "Output path; the extension is ignored (default: next to the font file)")
	fs.IntVar(&cfg.BaseSize, "base-size", 0, "Size that border and spacings are given for (0: every size)")
	padding := fs.Int("p", cfg.Padding.Top, "Padding on every side")
	top := fs.Int("padding-top", -1, "Top padding, overrides -p")
	bottom := fs.Int("padding-bottom", -1, "Bottom padding, overrides -p")
	left := fs.Int("padding-left", -1, "Left padding, overrides -p")
	right := fs.Int("padding-right", -1, "Right padding, overrides -p")
	fs.StringVar(&cfg.Color, "c", cfg.Color, "Glyph colour, RRGGBB or RRGGBBAA")
	fs.IntVar(&cfg.BorderWidth, "b", cfg.BorderWidth, "Border width")
	fs.StringVar(&cfg.BorderColor, "border-color", cfg.BorderColor, "Border colour")
	fs.StringVar(&cfg.Background, "background", cfg.Background, "Background colour")
	fs.IntVar(&cfg.MaxTextureSize, "max-texture-size", cfg.MaxTextureSize, "Maximum page size")
	fs.BoolVar(&cfg.Square, "square", false, "Make pages square")
	fs.StringVar(&cfg.Chars, "chars", cfg.Chars, "Characters to include")
	fs.BoolVar(&cfg.Antialiasing, "antialiasing", false, "Render antialiased glyphs")
	fs.BoolVar(&cfg.Premultiply, "premultiply", false, "Premultiply page colours by alpha")
	fs.BoolVar(&cfg.Kerning, "kerning", false, "Write kerning pairs")
	fs.StringVar(&cfg.KerningShaper, "kerning-shaper", cfg.KerningShaper, "Kerning source [face|harfbuzz]")
	fs.IntVar(&cfg.CharSpacing, "char-spacing", 0, "Additional horizontal advance")
	fs.IntVar(&cfg.LineSpacing, "line-spacing", 0, "Additional line height")
	fs.IntVar(&cfg.PackMode, "pack-mode", cfg.PackMode, "0 for row-fill, growing pages otherwise")
	fs.StringVar(&cfg.PackAlgorithm, "pack-algo", cfg.PackAlgorithm, "Bin packing [maxrects|shelf]")
	fs.IntVar(&cfg.MaxPages, "max-pages", 0, "Maximum number of pages (0: unlimited)")
	fs.Float64Var(&cfg.DPI, "dpi", cfg.DPI, "Resolution for font sizes")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Metrics format [xml|text]")
	fs.StringVar(&cfg.ImageFormat, "image", cfg.ImageFormat, "Page format [png|bmp|tiff]")
	fs.BoolVar(&cfg.PrettyPrint, "pretty-print", false, "Indent XML metrics")
	tlevel := fs.String("trace", "Error", "Trace level [Debug|Info|Error]")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, core.WrapError(err, core.EINVALID, "%v", err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, core.Error(core.EINVALID, "exactly one font is required")
	}
	if len(sizes) > 0 {
		cfg.Sizes = sizes
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput(fs.Arg(0))
	}
	cfg.Padding.Top = override(*top, *padding)
	cfg.Padding.Bottom = override(*bottom, *padding)
	cfg.Padding.Left = override(*left, *padding)
	cfg.Padding.Right = override(*right, *padding)
	return &options{cfg: cfg, font: fs.Arg(0), traceLevel: *tlevel}, nil
}

// defaultOutput puts the atlas next to a font file. Packaged and system
// fonts get an atlas named after the font in the working directory.
func defaultOutput(fontarg string) string {
	if fi, err := os.Stat(fontarg); err == nil && !fi.IsDir() {
		return strings.TrimSuffix(fontarg, filepath.Ext(fontarg)) + ".fnt"
	}
	return font.NormalizeFontname(fontarg) + ".fnt"
}

func override(side, all int) int {
	if side >= 0 {
		return side
	}
	return all
}
