package main

import (
	"os"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-ags/imageprint"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
)

// previewFolder prints every sprite below f.
func previewFolder(p *project.Project, f *spr.Folder) {
	mode, err := imageprint.ParseMode(*printMode)
	if err != nil {
		glog.Errorf("preview: %v", err)
		return
	}
	printer := &imageprint.Printer{W: os.Stdout, Mode: mode, Blanks: *blanks}

	var maxW, maxH uint
	if *downsize {
		if termSize, err := GetTermSize(); err == nil && termSize.WSRow > 1 {
			if termSize.WSXPixel != 0 && termSize.WSYPixel != 0 && mode == imageprint.ModeGraphics {
				// Graphics protocols draw real pixels.
				maxW, maxH = termSize.WSXPixel/2, termSize.WSYPixel/2
			} else {
				// Two columns per pixel.
				maxW, maxH = termSize.WSCol/2, termSize.WSRow-1
			}
		}
	}

	for _, s := range f.AllSpritesFlat() {
		r, err := p.Sprites.Raster(s.Number)
		if err != nil {
			glog.Warningf("preview: %v", err)
			continue
		}
		os.Stdout.WriteString(s.String() + "\n")
		if err := printer.Sprite(r, maxW, maxH); err != nil {
			glog.Warningf("preview of sprite %d: %v", s.Number, err)
		}
	}
}
