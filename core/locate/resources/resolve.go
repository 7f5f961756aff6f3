package resources

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// NotFound returns an application error for a missing font.
func NotFound(name string) error {
	e := fmt.Errorf("resource missing: %v", name)
	return core.WrapError(e, core.EMISSING, "font not found: %s", name)
}

// packaged maps normalized names to fonts compiled into the binary.
var packaged = map[string][]byte{
	"go":             goregular.TTF,
	"go-regular":     goregular.TTF,
	"go-bold":        gobold.TTF,
	"go-italic":      goitalic.TTF,
	"go-bold-italic": gobolditalic.TTF,
	"go-medium":      gomedium.TTF,
	"go-mono":        gomono.TTF,
	"go-mono-bold":   gomonobold.TTF,
	"go-smallcaps":   gosmallcaps.TTF,
}

// PackagedFonts lists the names of the packaged fonts, sorted.
func PackagedFonts() []string {
	names := make([]string, 0, len(packaged))
	for k := range packaged {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// locator for system fonts, replaceable for tests.
var findSystemFont = findfont.Find

type fontPlusErr struct {
	font *font.ScalableFont
	err  error
}

// FontPromise is returned by ResolveFont. Calling Font blocks until the font
// has been loaded.
type FontPromise interface {
	Font() (*font.ScalableFont, error)
	FontWithContext(ctx context.Context) (*font.ScalableFont, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.ScalableFont, error)
}

func (loader fontLoader) Font() (*font.ScalableFont, error) {
	return loader.await(context.Background())
}

func (loader fontLoader) FontWithContext(ctx context.Context) (*font.ScalableFont, error) {
	return loader.await(ctx)
}

// ResolveFont resolves a font argument. Search order is: file path, packaged
// font, system font.
func ResolveFont(name string) FontPromise {
	ch := make(chan fontPlusErr, 1)
	go func(ch chan<- fontPlusErr) {
		defer close(ch)
		f, err := resolve(name)
		ch <- fontPlusErr{font: f, err: err}
	}(ch)
	return fontLoader{
		await: func(ctx context.Context) (*font.ScalableFont, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				return r.font, r.err
			}
		},
	}
}

func resolve(name string) (*font.ScalableFont, error) {
	if name == "" {
		return nil, core.Error(core.EINVALID, "no font given")
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		tracer().Debugf("font %s is a file", name)
		return font.LoadOpenTypeFont(name)
	}
	if bytez, ok := packaged[font.NormalizeFontname(name)]; ok {
		tracer().Debugf("found font %s as packaged font", name)
		f, err := font.ParseOpenTypeFont(bytez)
		if err != nil {
			return nil, err
		}
		f.Filepath = "packaged"
		return f, nil
	}
	fpath, err := findSystemFont(name)
	if err == nil && fpath != "" {
		tracer().Debugf("%s is a system font at %s", name, fpath)
		return font.LoadOpenTypeFont(fpath)
	}
	tracer().Infof("cannot resolve font %s", name)
	return nil, NotFound(name)
}
