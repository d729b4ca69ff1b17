package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"graphfield/internal/config"
	"graphfield/internal/paint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHitDefaultField(t *testing.T) {
	out, err := run(t, "hit", "--x", "500", "--y", "520")
	require.NoError(t, err)
	assert.Equal(t, "(500, 520): centre\n", out)

	out, err = run(t, "hit", "--x", "10", "--y", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "no zone")
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.yaml")
	out, err := run(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Zones[0].ID, cfg.Zones[0].ID)

	_, err = run(t, "init", path)
	assert.ErrorContains(t, err, "already exists")
	_, err = run(t, "init", "--force", path)
	assert.NoError(t, err)
}

func TestRenderOps(t *testing.T) {
	out, err := run(t, "render", "--ops", "--activate", "axes.x")
	require.NoError(t, err)

	var ops []paint.Op
	require.NoError(t, yaml.Unmarshal([]byte(out), &ops))
	require.NotEmpty(t, ops)
	assert.Equal(t, paint.OpFillRect, ops[0].Kind)
	assert.Equal(t, "#808080", ops[0].Color)
	assert.Equal(t, "#ffffff", ops[1].Color)

	var labels []string
	for _, op := range ops {
		if op.Kind == paint.OpText {
			labels = append(labels, op.Text)
		}
	}
	assert.ElementsMatch(t, []string{"x", "y", "Ry"}, labels)
}

func TestRenderPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.png")
	_, err := run(t, "render", "--out", path, "--width", "300", "--height", "200", "--zoom-in", "2")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	// keep_ratio fits a square field into 300x200
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestRenderRejectsUnknownTarget(t *testing.T) {
	_, err := run(t, "render", "--ops", "--activate", "nope")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "fieldtool "))
}
