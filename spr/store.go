package spr

import (
	"sync"

	"github.com/pkg/errors"
)

// Transparency selects how a store treats transparent pixels of a new raster.
type Transparency int

const (
	TransparencyLeaveAsIs Transparency = iota
	TransparencyPalIndex0
	TransparencyTopLeft
)

// Store is the native sprite storage the codecs work against. Rasters handed
// in and out are owned by the caller; a store keeps its own copy.
type Store interface {
	// Allocate stores a new raster and returns the sprite describing it.
	Allocate(r *Raster, t Transparency, useAlpha bool) (*Sprite, error)
	// Raster returns a copy of the pixels of sprite id.
	Raster(id int) (*Raster, error)
	// Replace swaps the pixels of an existing sprite.
	Replace(id int, r *Raster) error
	// Delete frees sprite id.
	Delete(id int) error
}

// ErrSpriteNotFound is returned for ids the store does not hold.
var ErrSpriteNotFound = errors.New("sprite not found")

// MemStore keeps rasters in memory. Ids start at 1. Pixels are stored as
// given, whatever the transparency mode.
type MemStore struct {
	mu     sync.Mutex
	next   int
	pixels map[int]*Raster
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{next: 1, pixels: make(map[int]*Raster)}
}

func cloneRaster(r *Raster) *Raster {
	c := *r
	c.Pix = append([]byte(nil), r.Pix...)
	if r.Palette != nil {
		p := *r.Palette
		c.Palette = &p
	}
	return &c
}

func (m *MemStore) Allocate(r *Raster, t Transparency, useAlpha bool) (*Sprite, error) {
	depth, err := ColorDepthForFormat(r.Format)
	if err != nil {
		return nil, err
	}
	c := cloneRaster(r)
	if c.Format == FormatARGB32 && !useAlpha {
		c.Format = FormatRGB32
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.pixels[id] = c
	return &Sprite{
		Number:       id,
		ColorDepth:   depth,
		Width:        c.Width,
		Height:       c.Height,
		AlphaChannel: c.Format == FormatARGB32,
	}, nil
}

func (m *MemStore) Raster(id int) (*Raster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.pixels[id]
	if !ok {
		return nil, errors.Wrapf(ErrSpriteNotFound, "sprite %d", id)
	}
	return cloneRaster(r), nil
}

func (m *MemStore) Replace(id int, r *Raster) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pixels[id]; !ok {
		return errors.Wrapf(ErrSpriteNotFound, "sprite %d", id)
	}
	m.pixels[id] = cloneRaster(r)
	return nil
}

func (m *MemStore) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pixels[id]; !ok {
		return errors.Wrapf(ErrSpriteNotFound, "sprite %d", id)
	}
	delete(m.pixels, id)
	return nil
}

// Len returns the number of sprites held.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pixels)
}
