package spr

import (
	"image/color"
	"io"

	"github.com/pkg/errors"
)

// PaletteSize is the number of entries in a palette.
const PaletteSize = 256

// Palette is the project-wide color table used by 8-bit sprites.
type Palette [PaletteSize]color.RGBA

// ColorPalette returns the palette as an image/color palette.
func (p *Palette) ColorPalette() color.Palette {
	out := make(color.Palette, PaletteSize)
	for i, c := range p {
		out[i] = c
	}
	return out
}

// ReadPAL reads a raw .pal file: 256 RGB triples with 6-bit channels.
func ReadPAL(r io.Reader) (*Palette, error) {
	raw := make([]byte, PaletteSize*3)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errors.Wrap(err, "reading pal data")
	}
	p := &Palette{}
	for i := range p {
		p[i] = color.RGBA{R: raw[i*3] * 4, G: raw[i*3+1] * 4, B: raw[i*3+2] * 4, A: 0xFF}
	}
	return p, nil
}

// WritePAL writes the palette in raw .pal form.
func (p *Palette) WritePAL(w io.Writer) error {
	raw := make([]byte, 0, PaletteSize*3)
	for _, c := range p {
		raw = append(raw, c.R/4, c.G/4, c.B/4)
	}
	_, err := w.Write(raw)
	return errors.Wrap(err, "writing pal data")
}
