// Package config loads the optional YAML settings of the agsport tool.
package config

import (
	"io/ioutil"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"badc0de.net/pkg/go-ags/cha"
	"badc0de.net/pkg/go-ags/textenc"
)

// FileName is the configuration file looked for by default.
const FileName = "agsport.yaml"

type Config struct {
	// TextEncoding is a code page number or an encoding name.
	TextEncoding             string `yaml:"text_encoding"`
	AllowRelativeResolutions bool   `yaml:"allow_relative_resolutions"`
	LegacyCharacterVersion   int    `yaml:"legacy_character_version"`
	SpritePreview            bool   `yaml:"sprite_preview"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func (c *Config) ApplyDefaults() {
	if c.TextEncoding == "" {
		c.TextEncoding = strconv.Itoa(textenc.CodePageUTF8)
	}
	if c.LegacyCharacterVersion == 0 {
		c.LegacyCharacterVersion = cha.LegacyVersion
	}
}

// Validate checks the values that would otherwise only fail deep inside a
// conversion.
func (c *Config) Validate() error {
	if _, err := c.Encoding(); err != nil {
		return err
	}
	if c.LegacyCharacterVersion != 5 && c.LegacyCharacterVersion != 6 {
		return errors.Errorf("legacy_character_version is %d, want 5 or 6", c.LegacyCharacterVersion)
	}
	return nil
}

// Encoding resolves TextEncoding, which may be a code page number or a name.
func (c *Config) Encoding() (*textenc.Encoding, error) {
	if cp, err := strconv.Atoi(c.TextEncoding); err == nil {
		return textenc.ByCodePage(cp)
	}
	return textenc.ByName(c.TextEncoding)
}

// Load reads path and fills in defaults for keys it leaves out. An empty path
// gives the defaults. Values are not checked; call Validate once any
// overrides have been applied.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	c.ApplyDefaults()
	return &c, nil
}
