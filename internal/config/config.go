package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user's editor settings from config.yaml.
type Config struct {
	DefaultWidth  int `yaml:"default_width,omitempty"`
	DefaultHeight int `yaml:"default_height,omitempty"`

	EnterStartsEdit     *bool `yaml:"enter_starts_edit,omitempty"`
	PrintableStartsEdit *bool `yaml:"printable_starts_edit,omitempty"`
	MoveAfterEnter      *bool `yaml:"move_after_enter,omitempty"`
	SelectAllOnEdit     *bool `yaml:"select_all_on_edit,omitempty"`

	// Collation is a BCP 47 tag for text comparison; empty compares bytes.
	Collation string `yaml:"collation,omitempty"`
	// TitleRows are skipped by column sorts and filters.
	TitleRows int  `yaml:"title_rows,omitempty"`
	Splash    bool `yaml:"splash,omitempty"`
}

func Default() *Config {
	return &Config{
		DefaultWidth:        16,
		DefaultHeight:       1,
		EnterStartsEdit:     boolPtr(true),
		PrintableStartsEdit: boolPtr(false),
		MoveAfterEnter:      boolPtr(true),
		SelectAllOnEdit:     boolPtr(true),
	}
}

// Load reads path over the defaults. A missing or unreadable file yields
// the defaults.
func Load(path string) *Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg
	}
	cfg.merge(&file)
	return cfg
}

// Save writes cfg as YAML, creating the directory when needed.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		cfg = Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Path is $UserConfigDir/grider/config.yaml.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "grider", "config.yaml")
}

func (c *Config) merge(o *Config) {
	if o.DefaultWidth >= 4 {
		c.DefaultWidth = o.DefaultWidth
	}
	if o.DefaultHeight >= 1 {
		c.DefaultHeight = o.DefaultHeight
	}
	for _, p := range []struct{ dst, src **bool }{
		{&c.EnterStartsEdit, &o.EnterStartsEdit},
		{&c.PrintableStartsEdit, &o.PrintableStartsEdit},
		{&c.MoveAfterEnter, &o.MoveAfterEnter},
		{&c.SelectAllOnEdit, &o.SelectAllOnEdit},
	} {
		if *p.src != nil {
			*p.dst = *p.src
		}
	}
	c.Collation = o.Collation
	c.TitleRows = max(0, o.TitleRows)
	c.Splash = o.Splash
}

func boolPtr(b bool) *bool { return &b }
