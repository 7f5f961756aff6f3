package resources

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func noSystemFonts(t *testing.T) {
	saved := findSystemFont
	findSystemFont = func(string) (string, error) { return "", errors.New("no system fonts") }
	t.Cleanup(func() { findSystemFont = saved })
}

func TestResolvePackagedFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontatlas.fonts")
	defer teardown()
	//
	f, err := ResolveFont("Go-Bold").Font()
	require.NoError(t, err)
	assert.Equal(t, "packaged", f.Filepath)
	assert.Contains(t, PackagedFonts(), "go-mono")
}

func TestResolveFontFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontatlas.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "mono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0644))
	f, err := ResolveFont(path).Font()
	require.NoError(t, err)
	assert.Equal(t, path, f.Filepath)
}

func TestResolveSystemFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0644))
	saved := findSystemFont
	findSystemFont = func(name string) (string, error) {
		if name == "SomeSystemFont" {
			return path, nil
		}
		return "", errors.New("not found")
	}
	defer func() { findSystemFont = saved }()
	f, err := ResolveFont("SomeSystemFont").Font()
	require.NoError(t, err)
	assert.Equal(t, path, f.Filepath)
}

func TestResolveMissingFont(t *testing.T) {
	noSystemFonts(t)
	_, err := ResolveFont("does-not-exist-anywhere").Font()
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, err = ResolveFont("").Font()
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := ResolveFont("go")
	f, err := p.FontWithContext(ctx)
	if err != nil { // the loader may have won the race
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, f)
	}
}
