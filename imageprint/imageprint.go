// Package imageprint prints decoded sprites on a terminal. UNSUPPORTED debug
// package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags/spr"
)

// Mode selects how pixels reach the terminal.
type Mode int

const (
	// ModeTrueColor paints cell backgrounds with 24-bit escapes.
	ModeTrueColor Mode = iota
	// Mode256 goes through the 256 colour palette.
	Mode256
	// ModeNoColor prints shading characters only.
	ModeNoColor
	// ModeITerm sends a PNG with iTerm2's inline image escape.
	ModeITerm
	// ModeGraphics uses whatever graphics protocol the terminal speaks,
	// falling back to ModeTrueColor.
	ModeGraphics
)

var modeNames = map[string]Mode{
	"truecolor": ModeTrueColor,
	"256":       Mode256,
	"none":      ModeNoColor,
	"iterm":     ModeITerm,
	"graphics":  ModeGraphics,
}

// ParseMode parses a mode name as used on the command line.
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[s]
	if !ok {
		return 0, errors.Errorf("unknown print mode %q", s)
	}
	return m, nil
}

// Printer writes images to W.
type Printer struct {
	W    io.Writer
	Mode Mode
	// Blanks paints coloured blanks instead of shading characters.
	Blanks bool
}

func (p *Printer) shade(col ic.Color) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		fmt.Fprint(p.W, "\x1b[0m  ")
		return
	}
	cell := "  "
	if !p.Blanks {
		switch a := ((cR + cG + cB) / 3) >> 8; {
		case a < 32:
			cell = ".."
		case a < 64:
			cell = "--"
		case a < 128:
			cell = "=="
		default:
			cell = "##"
		}
	}
	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	switch p.Mode {
	case ModeNoColor:
		fmt.Fprint(p.W, cell)
	case Mode256:
		fmt.Fprint(p.W, color.RGB(r, g, b, true).Sprintf("%s", cell))
	default:
		fmt.Fprintf(p.W, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, cell)
	}
}

func (p *Printer) cells(i image.Image) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			p.shade(i.At(x, y))
		}
		if p.Mode != ModeNoColor {
			fmt.Fprint(p.W, "\x1b[0m")
		}
		fmt.Fprint(p.W, "\n")
	}
}

// Print draws i.
func (p *Printer) Print(i image.Image) error {
	switch p.Mode {
	case ModeITerm:
		return p.printITerm(i, "sprite.png")
	case ModeGraphics:
		if ok, err := printGraphics(p.W, i); ok || err != nil {
			return err
		}
		fallback := *p
		fallback.Mode = ModeTrueColor
		fallback.cells(i)
		return nil
	}
	p.cells(i)
	return nil
}

// printITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func (p *Printer) printITerm(i image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return errors.Wrap(err, "encoding preview")
	}
	bEnc.Close()
	_, err := fmt.Fprintf(p.W, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return err
}

// Sprite prints a sprite's raster, shrunk to fit within maxW by maxH cells
// when both are nonzero.
func (p *Printer) Sprite(r *spr.Raster, maxW, maxH uint) error {
	return p.Print(Thumbnail(r.Image(), maxW, maxH))
}

// Thumbnail shrinks i to fit within maxW by maxH, keeping its aspect ratio.
// Images that already fit, and a zero bound, leave i as it is.
func Thumbnail(i image.Image, maxW, maxH uint) image.Image {
	size := i.Bounds().Size()
	if maxW == 0 || maxH == 0 || (uint(size.X) <= maxW && uint(size.Y) <= maxH) {
		return i
	}
	// Sprites are pixel art; keep the edges hard.
	return resize.Thumbnail(maxW, maxH, i, resize.NearestNeighbor)
}
