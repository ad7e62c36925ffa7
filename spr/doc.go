// Package spr implements the sprite side of the project model: sprites and
// the folder tree that owns them, the 256-entry palette, the sprite store
// through which pixel data is allocated and fetched, and the raster codec
// that converts between raw packed pixel rows (as stored in legacy and
// exported asset files) and store-managed rasters.
//
// Raw rows are packed: one row is exactly width*bytesPerPixel bytes. Rasters
// held by a store use a DWORD-aligned stride, so conversion always copies row
// by row.
package spr
