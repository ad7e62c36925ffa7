package xmls

import (
	"encoding/xml"
	"image/color"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/spr"
)

// Palette is the <Palette> element embedded in exported documents.
type Palette struct {
	XMLName xml.Name       `xml:"Palette"`
	Entries []PaletteEntry `xml:"PaletteEntry"`
}

type PaletteEntry struct {
	Index int   `xml:"Index,attr"`
	R     uint8 `xml:"Red,attr"`
	G     uint8 `xml:"Green,attr"`
	B     uint8 `xml:"Blue,attr"`
}

// NewPalette converts a project palette for export.
func NewPalette(p *spr.Palette) Palette {
	out := Palette{Entries: make([]PaletteEntry, 0, spr.PaletteSize)}
	for i, c := range p {
		out.Entries = append(out.Entries, PaletteEntry{Index: i, R: c.R, G: c.G, B: c.B})
	}
	return out
}

// Palette converts the element back. Entries that are not listed stay black;
// an index outside the palette is a FormatError.
func (x *Palette) Palette(what string) (*spr.Palette, error) {
	p := &spr.Palette{}
	for i := range p {
		p[i] = color.RGBA{A: 0xFF}
	}
	for _, e := range x.Entries {
		if e.Index < 0 || e.Index >= spr.PaletteSize {
			return nil, ags.Formatf(what, "palette index %d out of range", e.Index)
		}
		p[e.Index] = color.RGBA{R: e.R, G: e.G, B: e.B, A: 0xFF}
	}
	return p, nil
}
