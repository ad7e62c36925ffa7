//go:build !windows

package imageprint

import (
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

// printGraphics draws an image using the RasTerm library, which speaks the
// Kitty, iTerm and sixel protocols. It reports false when the terminal
// supports none of them.
func printGraphics(w io.Writer, i image.Image) (bool, error) {
	if rasterm.IsTermKitty() {
		return true, rasterm.Settings{}.KittyWriteImage(w, i)
	}
	if rasterm.IsTermItermWez() {
		return true, rasterm.Settings{}.ItermWriteImage(w, i)
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.Point{})
		return true, rasterm.Settings{}.SixelWriteImage(w, palettedImage)
	}
	return false, nil
}
