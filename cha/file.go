package cha

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/project"
)

// File name extensions of the two formats.
const (
	LegacyExt = ".cha"
	XMLExt    = ".chr"
)

// IsLegacy reports whether name has the legacy format's extension.
func IsLegacy(name string) bool {
	return strings.EqualFold(filepath.Ext(name), LegacyExt)
}

// ImportFile imports a character file into p, choosing the format by
// extension.
func ImportFile(name string, p *project.Project) (*project.Character, error) {
	var c *project.Character
	err := ags.ReadFile(name, func(r io.Reader) error {
		var err error
		if IsLegacy(name) {
			c, err = DecodeLegacy(r, p)
		} else {
			c, err = DecodeXML(r, p)
		}
		return err
	})
	return c, errors.Wrapf(err, "importing %s", name)
}

// ExportFile writes c to name, choosing the format by extension. Legacy files
// are written with legacyVersion. A file that could not be written completely
// is removed.
func ExportFile(name string, c *project.Character, p *project.Project, legacyVersion int) error {
	err := ags.WriteFile(name, func(w io.Writer) error {
		if IsLegacy(name) {
			return EncodeLegacy(w, c, p, legacyVersion)
		}
		return EncodeXML(w, c, p)
	})
	return errors.Wrapf(err, "exporting %s", name)
}
