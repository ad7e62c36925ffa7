// Package guf imports and exports single GUIs, normal or text window, with
// their controls and the sprites they show.
package guf

import (
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
	"badc0de.net/pkg/go-ags/xmls"
)

// Version is the newest GUI document version. Version 2 added sprite
// resolutions.
const Version = 2

// Ext is the file name extension of GUI documents.
const Ext = ".guf"

const what = "GUI document"

// nameSuffix is appended to GUI and control names until they are unique.
const nameSuffix = "2"

// checkSpriteRef validates a sprite reference against the numbers embedded in
// the document. Zero means no sprite.
func checkSpriteRef(owner string, id int, embedded map[int]bool) error {
	if id == 0 {
		return nil
	}
	if id < 0 {
		return ags.Formatf(what, "%s refers to sprite %d", owner, id)
	}
	if !embedded[id] {
		return ags.Formatf(what, "%s refers to sprite %d, which the document does not contain", owner, id)
	}
	return nil
}

// Decode reads a GUI document and adds the GUI to p.
//
// The GUI's name and its controls' names get "2" appended until no other
// script name in the project matches. Embedded sprites are imported into a
// new folder named after the GUI and every sprite reference is rewritten to
// the new numbers; a reference to a sprite that is not embedded is a
// FormatError, found before anything is imported.
func Decode(r io.Reader, p *project.Project) (*project.GUI, error) {
	var doc guiDocument
	if err := xmls.Decode(r, what, &doc); err != nil {
		return nil, err
	}
	if _, err := xmls.CheckVersion(what, doc.Version, Version); err != nil {
		return nil, err
	}
	pal, err := doc.Palette.Palette(what)
	if err != nil {
		return nil, err
	}
	g := doc.Main.GUI
	if g == nil {
		return nil, ags.Formatf(what, "no GUIMain element")
	}

	embedded := make(map[int]bool, len(doc.UsedSprites))
	for _, d := range doc.UsedSprites {
		embedded[d.Number] = true
	}
	if err := checkSpriteRef("background", g.BackgroundImage, embedded); err != nil {
		return nil, err
	}
	for _, c := range g.Controls {
		for _, id := range c.SpritesUsed() {
			if err := checkSpriteRef("control "+c.Name, id, embedded); err != nil {
				return nil, err
			}
		}
	}

	g.Name = p.UniqueAppending(g.Name, nameSuffix, g)
	for _, c := range g.Controls {
		c.Name = p.UniqueAppending(c.Name, nameSuffix, c)
	}

	folder := spr.NewFolder(g.Name + "Import")
	mapping := make(map[int]int)
	if err := xmls.ImportSprites(what, doc.UsedSprites, pal, folder, mapping, p); err != nil {
		return nil, err
	}
	remap := func(old int) (int, error) {
		n, ok := mapping[old]
		if !ok {
			return 0, ags.Formatf(what, "sprite %d not imported", old)
		}
		return n, nil
	}
	if g.BackgroundImage > 0 {
		g.BackgroundImage = mapping[g.BackgroundImage]
	}
	for _, c := range g.Controls {
		// Every reference was checked above.
		if err := c.RemapSprites(remap); err != nil {
			return nil, err
		}
	}

	p.AttachSpriteFolder(folder)
	p.AddGUI(g)
	glog.V(2).Infof("guf: imported %s GUI %s with %d controls and %d sprites", g.Kind, g.Name, len(g.Controls), len(mapping))
	return g, nil
}

// Encode writes g as a GUI document with every sprite it uses, each once,
// and the project palette.
func Encode(w io.Writer, g *project.GUI, p *project.Project) error {
	sprites, err := xmls.NewSpriteWriter(p).Add(g.SpritesUsed()...)
	if err != nil {
		return errors.Wrapf(err, "GUI %s", g.Name)
	}
	doc := guiDocument{
		Version:     "2",
		Main:        guiMain{GUI: g},
		UsedSprites: sprites,
		Palette:     xmls.NewPalette(&p.Palette),
	}
	return xmls.Encode(w, "Exported GUI. Generated file, do not edit by hand.", &doc)
}

// ImportFile imports the GUI document name into p.
func ImportFile(name string, p *project.Project) (*project.GUI, error) {
	var g *project.GUI
	err := ags.ReadFile(name, func(r io.Reader) error {
		var err error
		g, err = Decode(r, p)
		return err
	})
	return g, errors.Wrapf(err, "importing %s", name)
}

// ExportFile writes g to name. A file that could not be written completely is
// removed.
func ExportFile(name string, g *project.GUI, p *project.Project) error {
	return errors.Wrapf(ags.WriteFile(name, func(w io.Writer) error {
		return Encode(w, g, p)
	}), "exporting %s", name)
}
