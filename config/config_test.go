package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/go-ags/ttesting"
)

func writeConfig(t *testing.T, text string) string {
	dir, err := ioutil.TempDir("", "config")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	name := filepath.Join(dir, FileName)
	if err := ioutil.WriteFile(name, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, "text_encoding: windows-1251\nsprite_preview: true\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	enc, err := c.Encoding()
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	ttesting.AssertEqualInt(t, "code page", enc.CodePage, 1251)
	ttesting.AssertEqualBool(t, "preview", c.SpritePreview, true)
	ttesting.AssertEqualBool(t, "relative", c.AllowRelativeResolutions, false)
	ttesting.AssertEqualInt(t, "legacy version", c.LegacyCharacterVersion, 6)
}

func TestLoadCodePageNumber(t *testing.T) {
	c, err := Load(writeConfig(t, "text_encoding: 1252\nlegacy_character_version: 5\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	enc, _ := c.Encoding()
	ttesting.AssertEqualInt(t, "code page", enc.CodePage, 1252)
	ttesting.AssertEqualInt(t, "legacy version", c.LegacyCharacterVersion, 5)
}

func TestDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	enc, err := c.Encoding()
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	ttesting.AssertEqualInt(t, "code page", enc.CodePage, 65001)
}

func TestLoadRejects(t *testing.T) {
	if _, err := Load(writeConfig(t, "text_encoding: [\n")); err == nil {
		t.Errorf("bad yaml: want error")
	}
	if _, err := Load(filepath.Join(os.TempDir(), "no-such-dir", FileName)); err == nil {
		t.Errorf("missing file: want error")
	}
}

func TestValidate(t *testing.T) {
	for name, text := range map[string]string{
		"encoding": "text_encoding: klingon\n",
		"version":  "legacy_character_version: 7\n",
	} {
		c, err := Load(writeConfig(t, text))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if err := c.Validate(); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}

func TestValidateAfterOverride(t *testing.T) {
	c, err := Load(writeConfig(t, "text_encoding: klingon\nlegacy_character_version: 7\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.TextEncoding = "utf-8"
	c.LegacyCharacterVersion = 5
	if err := c.Validate(); err != nil {
		t.Errorf("overridden values should validate: %v", err)
	}
}
