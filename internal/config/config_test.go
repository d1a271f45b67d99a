package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, Default(), cfg)
}

func TestLoadMalformedFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_width: [\n"), 0o644))
	assert.Equal(t, Default(), Load(path))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "default_width: 10\ndefault_height: 0\nmove_after_enter: false\ncollation: de\ntitle_rows: 2\nsplash: true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg := Load(path)
	assert.Equal(t, 10, cfg.DefaultWidth)
	assert.Equal(t, 1, cfg.DefaultHeight)
	assert.False(t, *cfg.MoveAfterEnter)
	assert.True(t, *cfg.EnterStartsEdit)
	assert.Equal(t, "de", cfg.Collation)
	assert.Equal(t, 2, cfg.TitleRows)
	assert.True(t, cfg.Splash)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grider", "config.yaml")
	cfg := Default()
	cfg.TitleRows = 1
	cfg.Collation = "en"
	require.NoError(t, Save(cfg, path))
	assert.Equal(t, cfg, Load(path))
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("grider", "config.yaml"), filepath.Join(filepath.Base(filepath.Dir(Path())), filepath.Base(Path())))
}
