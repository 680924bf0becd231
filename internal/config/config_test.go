package config

import (
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.NotContains(t, c.DataDir, "~")
	assert.Equal(t, c.DataDir, c.ExportDir)
	assert.Equal(t, float32(1024), c.WindowWidth)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir = "`+filepath.ToSlash(dir)+`"
log_level = "debug"
window_width = 800.0
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(dir), c.DataDir)
	assert.Equal(t, float32(800), c.WindowWidth)
	assert.Equal(t, float32(768), c.WindowHeight)
	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"syntax": `log_level = `,
		"level":  `log_level = "loud"`,
		"size":   `window_width = -1.0`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	c := Default()
	c.DataDir = dir
	c.LogLevel = "warn"
	require.NoError(t, c.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", back.LogLevel)
	assert.Equal(t, dir, back.DataDir)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Tool = ToolSmart
	s.Color = "#3b82f6"
	s.DarkMode = true

	data, err := MarshalSettings(s)
	require.NoError(t, err)
	back, err := ParseSettings(data)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestParseSettingsFillsDefaults(t *testing.T) {
	s, err := ParseSettings([]byte(`color = "#ef4444"`))
	require.NoError(t, err)
	assert.Equal(t, "#ef4444", s.Color)
	assert.Equal(t, ToolPen, s.Tool)
	assert.Equal(t, 3.0, s.StrokeWidth)
}

func TestParseSettingsRejectsInvalid(t *testing.T) {
	for _, body := range []string{
		`tool = "lasso"`,
		`color = "red"`,
		`stroke_width = 0.0`,
		`opacity = 2.0`,
		`font_size = 0.0`,
		`font_family = "Comic"`,
		`tool = [`,
	} {
		_, err := ParseSettings([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestToolKinds(t *testing.T) {
	for _, tool := range Tools {
		assert.False(t, tool.Draws() && tool.Places(), tool)
	}
	assert.True(t, ToolSmart.Draws())
	assert.True(t, ToolEraser.Draws())
	assert.True(t, ToolSticky.Places())
	assert.False(t, ToolSelect.Draws())
	assert.False(t, ToolSelect.Places())
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 20.0, Snap(29))
	assert.Equal(t, 40.0, Snap(31))
	assert.Equal(t, -20.0, Snap(-15))
	assert.Equal(t, 0.0, Snap(0))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#10b981")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}, c)

	for _, bad := range []string{"", "10b981", "#10b98", "#zzzzzz"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}

	assert.Equal(t, uint8(128), WithOpacity("#000000", 0.5).A)
	assert.Equal(t, uint8(255), WithOpacity("#000000", 1).A)
	assert.Equal(t, color.NRGBA{A: 0xff}, WithOpacity("bogus", 0))
}

func TestPaletteColorsParse(t *testing.T) {
	for _, c := range Palette {
		_, err := ParseHex(c)
		assert.NoError(t, err, c)
	}
	assert.Equal(t, "#18181b", Background(true))
	assert.Equal(t, "#fafafa", Background(false))
}
