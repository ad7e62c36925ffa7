package spr

// This file contains the raster codec: conversion between packed pixel rows
// as stored in files and store-side rasters.

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// PixelFormat is the in-memory layout of a raster.
type PixelFormat int

const (
	FormatUndefined PixelFormat = iota
	FormatIndexed8              // palette index per byte
	FormatRGB555                // 16-bit little-endian, 0RRRRRGGGGGBBBBB
	FormatRGB565                // 16-bit little-endian, RRRRRGGGGGGBBBBB
	FormatRGB24                 // B, G, R
	FormatRGB32                 // B, G, R, unused
	FormatARGB32                // B, G, R, A
)

func (f PixelFormat) String() string {
	switch f {
	case FormatIndexed8:
		return "8bpp indexed"
	case FormatRGB555:
		return "16bpp rgb555"
	case FormatRGB565:
		return "16bpp rgb565"
	case FormatRGB24:
		return "24bpp rgb"
	case FormatRGB32:
		return "32bpp rgb"
	case FormatARGB32:
		return "32bpp argb"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// BytesPerPixel returns the packed size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatIndexed8:
		return 1
	case FormatRGB555, FormatRGB565:
		return 2
	case FormatRGB24:
		return 3
	case FormatRGB32, FormatARGB32:
		return 4
	}
	return 0
}

// FormatForColorDepth maps a legacy color depth to a pixel format.
func FormatForColorDepth(depth int, hasAlpha bool) PixelFormat {
	switch depth {
	case 8:
		return FormatIndexed8
	case 15:
		return FormatRGB555
	case 16:
		return FormatRGB565
	case 24:
		return FormatRGB24
	case 32:
		if hasAlpha {
			return FormatARGB32
		}
		return FormatRGB32
	}
	return FormatUndefined
}

// ColorDepthForFormat is the inverse of FormatForColorDepth.
func ColorDepthForFormat(f PixelFormat) (int, error) {
	switch f {
	case FormatIndexed8:
		return 8, nil
	case FormatRGB555:
		return 15, nil
	case FormatRGB565:
		return 16, nil
	case FormatRGB24:
		return 24, nil
	case FormatRGB32, FormatARGB32:
		return 32, nil
	}
	return 0, errors.Errorf("invalid pixel format: %s", f)
}

// Raster is pixel data as held by a sprite store.
type Raster struct {
	Format        PixelFormat
	Width, Height int
	Stride        int // bytes per row in Pix, at least Width*BytesPerPixel
	Pix           []byte
	Palette       *Palette // only for FormatIndexed8
}

// NewRaster allocates a zeroed raster with a DWORD-aligned stride.
func NewRaster(f PixelFormat, width, height int) *Raster {
	stride := (width*f.BytesPerPixel() + 3) &^ 3
	return &Raster{
		Format: f,
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}
}

// Row returns the packed bytes of row y.
func (r *Raster) Row(y int) []byte {
	off := y * r.Stride
	return r.Pix[off : off+r.Width*r.Format.BytesPerPixel()]
}

// Decode builds a raster from packed rows of the given legacy color depth.
// The palette is attached only to 8-bit rasters and may be nil otherwise.
func Decode(colorDepth, width, height int, hasAlpha bool, raw []byte, pal *Palette) (*Raster, error) {
	f := FormatForColorDepth(colorDepth, hasAlpha)
	if f == FormatUndefined {
		return nil, errors.Errorf("unsupported sprite color depth %d", colorDepth)
	}
	if width < 0 || height < 0 {
		return nil, errors.Errorf("invalid sprite size %dx%d", width, height)
	}
	span := width * f.BytesPerPixel()
	if len(raw) < span*height {
		return nil, errors.Errorf("sprite data too short; got %d bytes, want %d", len(raw), span*height)
	}
	r := NewRaster(f, width, height)
	for y := 0; y < height; y++ {
		copy(r.Pix[y*r.Stride:], raw[y*span:(y+1)*span])
	}
	if f == FormatIndexed8 {
		if pal == nil {
			return nil, errors.New("8-bit sprite requires a palette")
		}
		p := *pal
		r.Palette = &p
	}
	glog.V(3).Infof("spr: decoded %dx%d raster, %s", width, height, f)
	return r, nil
}

// Encoded is a raster in its packed file form.
type Encoded struct {
	ColorDepth int
	Flags      byte
	Width      int
	Height     int
	Data       []byte
}

// Encode packs a raster into rows without stride padding. Rasters whose format
// has no legacy color depth are rejected.
func Encode(r *Raster) (*Encoded, error) {
	depth, err := ColorDepthForFormat(r.Format)
	if err != nil {
		return nil, err
	}
	e := &Encoded{
		ColorDepth: depth,
		Width:      r.Width,
		Height:     r.Height,
	}
	if r.Format == FormatARGB32 {
		e.Flags |= FlagAlphaChannel
	}
	span := r.Width * r.Format.BytesPerPixel()
	e.Data = make([]byte, 0, span*r.Height)
	for y := 0; y < r.Height; y++ {
		e.Data = append(e.Data, r.Row(y)...)
	}
	return e, nil
}

// Import decodes packed rows and hands the raster to the store, which creates
// the managed sprite. The resolution tag must already be fixed up.
func Import(store Store, colorDepth, width, height int, hasAlpha bool, raw []byte, pal *Palette, res Resolution) (*Sprite, error) {
	r, err := Decode(colorDepth, width, height, hasAlpha, raw, pal)
	if err != nil {
		return nil, err
	}
	s, err := store.Allocate(r, TransparencyLeaveAsIs, hasAlpha)
	if err != nil {
		return nil, errors.Wrap(err, "allocating sprite")
	}
	s.Resolution = res
	glog.V(2).Infof("spr: imported %s", s)
	return s, nil
}

// Export fetches a sprite's raster from the store and packs it.
func Export(store Store, id int) (*Encoded, error) {
	r, err := store.Raster(id)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching sprite %d", id)
	}
	e, err := Encode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding sprite %d", id)
	}
	return e, nil
}
