package spr

// This file converts rasters to image.Image so that sprites can be previewed
// or handed to the image/* encoders.

import (
	"image"
	"image/color"
)

func expand5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

func expand6(v uint16) uint8 {
	v &= 0x3f
	return uint8(v<<2 | v>>4)
}

// Image returns the raster as an image. 8-bit rasters become *image.Paletted,
// everything else *image.NRGBA (opaque unless the raster has alpha).
func (r *Raster) Image() image.Image {
	bounds := image.Rect(0, 0, r.Width, r.Height)
	if r.Format == FormatIndexed8 {
		var pal color.Palette
		if r.Palette != nil {
			pal = r.Palette.ColorPalette()
		} else {
			pal = make(color.Palette, PaletteSize)
			for i := range pal {
				pal[i] = color.Gray{Y: uint8(i)}
			}
		}
		img := image.NewPaletted(bounds, pal)
		for y := 0; y < r.Height; y++ {
			copy(img.Pix[y*img.Stride:], r.Row(y))
		}
		return img
	}

	img := image.NewNRGBA(bounds)
	for y := 0; y < r.Height; y++ {
		row := r.Row(y)
		for x := 0; x < r.Width; x++ {
			img.SetNRGBA(x, y, r.pixel(row, x))
		}
	}
	return img
}

func (r *Raster) pixel(row []byte, x int) color.NRGBA {
	switch r.Format {
	case FormatRGB555:
		v := uint16(row[x*2]) | uint16(row[x*2+1])<<8
		return color.NRGBA{R: expand5(v >> 10), G: expand5(v >> 5), B: expand5(v), A: 0xFF}
	case FormatRGB565:
		v := uint16(row[x*2]) | uint16(row[x*2+1])<<8
		return color.NRGBA{R: expand5(v >> 11), G: expand6(v >> 5), B: expand5(v), A: 0xFF}
	case FormatRGB24:
		p := row[x*3:]
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xFF}
	case FormatRGB32:
		p := row[x*4:]
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xFF}
	case FormatARGB32:
		p := row[x*4:]
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	}
	return color.NRGBA{}
}
