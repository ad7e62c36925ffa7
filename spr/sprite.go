package spr

import (
	"fmt"
)

// Resolution classifies the intended display scale of a sprite.
type Resolution int

const (
	ResolutionReal Resolution = iota
	ResolutionLowRes
	ResolutionHighRes
)

func (r Resolution) String() string {
	switch r {
	case ResolutionReal:
		return "Real"
	case ResolutionLowRes:
		return "LowRes"
	case ResolutionHighRes:
		return "HighRes"
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// ParseResolution parses the names produced by String.
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "Real":
		return ResolutionReal, nil
	case "LowRes":
		return ResolutionLowRes, nil
	case "HighRes":
		return ResolutionHighRes, nil
	}
	return ResolutionReal, fmt.Errorf("unknown sprite resolution %q", s)
}

// FixupResolution is the single normalization rule for resolution tags coming
// from imported data. Unless the project allows sprites relative to a low or
// high resolution, every tag collapses to Real.
func FixupResolution(r Resolution, allowRelative bool) Resolution {
	if !allowRelative {
		return ResolutionReal
	}
	return r
}

// Legacy sprite flag bits.
const (
	FlagHiRes        = 0x01
	FlagAlphaChannel = 0x10
)

// Sprite is a raster image owned by the project. Pixel data lives in the
// sprite store; this is the project-side record of it.
type Sprite struct {
	Number       int
	ColorDepth   int
	Width        int
	Height       int
	AlphaChannel bool
	Resolution   Resolution
}

func (s *Sprite) String() string {
	return fmt.Sprintf("<sprite %d: %dx%d@%d>", s.Number, s.Width, s.Height, s.ColorDepth)
}

// Folder is a node in the project's single-rooted sprite folder tree. A
// sprite belongs to exactly one folder.
type Folder struct {
	Name       string
	Sprites    []*Sprite
	SubFolders []*Folder
}

// NewFolder returns an empty folder.
func NewFolder(name string) *Folder {
	return &Folder{Name: name}
}

// Empty reports whether the folder holds neither sprites nor subfolders.
func (f *Folder) Empty() bool {
	return len(f.Sprites) == 0 && len(f.SubFolders) == 0
}

// FindSpriteByID looks for a sprite in this folder and, if recursive, in all
// folders below it.
func (f *Folder) FindSpriteByID(id int, recursive bool) *Sprite {
	for _, s := range f.Sprites {
		if s.Number == id {
			return s
		}
	}
	if !recursive {
		return nil
	}
	for _, sub := range f.SubFolders {
		if s := sub.FindSpriteByID(id, true); s != nil {
			return s
		}
	}
	return nil
}

// AllSpritesFlat returns every sprite in the subtree, depth first.
func (f *Folder) AllSpritesFlat() []*Sprite {
	out := append([]*Sprite(nil), f.Sprites...)
	for _, sub := range f.SubFolders {
		out = append(out, sub.AllSpritesFlat()...)
	}
	return out
}

// Walk calls fn for this folder and every folder below it with its depth.
func (f *Folder) Walk(fn func(depth int, f *Folder)) {
	f.walk(0, fn)
}

func (f *Folder) walk(depth int, fn func(int, *Folder)) {
	fn(depth, f)
	for _, sub := range f.SubFolders {
		sub.walk(depth+1, fn)
	}
}
