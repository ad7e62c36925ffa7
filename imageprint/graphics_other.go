//go:build windows

package imageprint

import (
	"image"
	"io"
)

func printGraphics(w io.Writer, i image.Image) (bool, error) {
	return false, nil
}
