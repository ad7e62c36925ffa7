package cha

import (
	"github.com/bradfitz/iter"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/binio"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
)

// Limits of the legacy view layout.
const (
	MaxLegacyLoops  = 16
	MaxLegacyFrames = 20

	// runNextLoopDepth takes the place of a frame's color depth to mark a
	// loop that continues into the next one.
	runNextLoopDepth = 200
	// runNextLoopImage is the sprite number of the slot written for it.
	runNextLoopImage = -1

	// reserved bytes after the frame count table.
	viewHeaderPadding = MaxLegacyLoops*4 + 2
)

// frameSlot is one of the 16x20 fixed frame records of a legacy view.
type frameSlot struct {
	Image   int32
	_       int32
	Delay   int16
	_       int16
	Flipped int32
	Sound   int32
	_       [8]byte
}

// legacyRaster is a frame's sprite as stored after the slot table.
type legacyRaster struct {
	depth         int
	flags         byte
	width, height int
	raw           []byte
}

type legacyFrame struct {
	frame  project.ViewFrame
	raster *legacyRaster
}

type legacyLoop struct {
	frames      []legacyFrame
	runNextLoop bool
}

// legacyView is a view read from a legacy file and not yet added to a project.
type legacyView struct {
	loops []legacyLoop
}

// readLegacyView reads one view: loop and frame counts, the full slot table,
// then the raster of every frame in use, loop by loop.
func readLegacyView(r *binio.Reader) (*legacyView, error) {
	numLoops := int(r.Int16())
	if err := r.Err(); err != nil {
		return nil, err
	}
	if numLoops < 0 || numLoops > MaxLegacyLoops {
		return nil, ags.Formatf(what, "view has %d loops", numLoops)
	}
	numFrames := make([]int, numLoops)
	for i := range numFrames {
		numFrames[i] = int(r.Int16())
	}
	r.Skip((MaxLegacyLoops - numLoops) * 2)
	r.Skip(viewHeaderPadding)

	v := &legacyView{loops: make([]legacyLoop, numLoops)}
	for i := range iter.N(MaxLegacyLoops) {
		for j := range iter.N(MaxLegacyFrames) {
			var slot frameSlot
			r.Struct(&slot)
			if i < numLoops && j < numFrames[i] {
				v.loops[i].frames = append(v.loops[i].frames, legacyFrame{frame: project.ViewFrame{
					ID:      j,
					Image:   int(slot.Image),
					Delay:   int(slot.Delay),
					Flipped: slot.Flipped == 1,
					Sound:   int(slot.Sound),
				}})
			}
		}
	}

	for i := range v.loops {
		l := &v.loops[i]
		for j := range l.frames {
			depth := int(r.Int32())
			if r.Err() == nil && depth == runNextLoopDepth {
				l.runNextLoop = true
				l.frames = l.frames[:j]
				break
			}
			lr := &legacyRaster{depth: depth}
			lr.flags = r.Byte()
			lr.width = int(r.Int32())
			lr.height = int(r.Int32())
			lr.raw = r.Bytes(lr.width * lr.height * ((depth + 1) / 8))
			if err := r.Err(); err != nil {
				return nil, errors.Wrapf(err, "reading loop %d frame %d", i, j)
			}
			l.frames[j].raster = lr
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// spriteBatch allocates sprites for one import and can take them all back.
type spriteBatch struct {
	p     *project.Project
	added []*spr.Sprite
}

func (b *spriteBatch) add(lr *legacyRaster, pal *spr.Palette) (*spr.Sprite, error) {
	res := spr.ResolutionLowRes
	if lr.flags&spr.FlagHiRes != 0 {
		res = spr.ResolutionHighRes
	}
	s, err := spr.Import(b.p.Sprites, lr.depth, lr.width, lr.height, lr.flags&spr.FlagAlphaChannel != 0, lr.raw, pal, b.p.FixupResolution(res))
	if err != nil {
		return nil, ags.Formatf(what, "%v", err)
	}
	b.added = append(b.added, s)
	return s, nil
}

func (b *spriteBatch) rollback() {
	for _, s := range b.added {
		if err := b.p.Sprites.Delete(s.Number); err != nil {
			glog.Warningf("cha: freeing sprite %d after failed import: %v", s.Number, err)
		}
	}
	b.added = nil
}

// build creates the view's sprites in folder and returns the view with its
// frames pointing at them. The view is not added to the project.
func (lv *legacyView) build(name string, b *spriteBatch, pal *spr.Palette, folder *spr.Folder) (*project.View, error) {
	v := &project.View{Name: name}
	for _, ll := range lv.loops {
		l := v.AddNewLoop()
		l.RunNextLoop = ll.runNextLoop
		for _, lf := range ll.frames {
			f := lf.frame
			s, err := b.add(lf.raster, pal)
			if err != nil {
				return nil, errors.Wrapf(err, "view %s loop %d frame %d", name, l.ID, f.ID)
			}
			folder.Sprites = append(folder.Sprites, s)
			f.Image = s.Number
			l.Frames = append(l.Frames, &f)
		}
	}
	glog.V(2).Infof("cha: built view %s with %d loops", name, len(v.Loops))
	return v, nil
}

// checkLegacyLimits reports a ResourceLimitError if v cannot be stored in the
// legacy layout. A loop that runs into the next one needs a frame slot for
// the marker.
func checkLegacyLimits(v *project.View) error {
	if len(v.Loops) > MaxLegacyLoops {
		return errors.WithStack(&ags.ResourceLimitError{What: "view " + v.Name + " loops", Got: len(v.Loops), Limit: MaxLegacyLoops})
	}
	for _, l := range v.Loops {
		n := len(l.Frames)
		if l.RunNextLoop {
			n++
		}
		if n > MaxLegacyFrames {
			return errors.WithStack(&ags.ResourceLimitError{What: "view " + v.Name + " frames in a loop", Got: n, Limit: MaxLegacyFrames})
		}
	}
	return nil
}

// fetchRasters packs the sprite of every frame of v into rasters.
func fetchRasters(v *project.View, p *project.Project, rasters map[int]*spr.Encoded) error {
	for _, id := range v.SpritesUsed() {
		if _, ok := rasters[id]; ok {
			continue
		}
		e, err := spr.Export(p.Sprites, id)
		if err != nil {
			return errors.Wrapf(err, "view %s", v.Name)
		}
		rasters[id] = e
	}
	return nil
}

// writeLegacyView writes v in the legacy layout. checkLegacyLimits and
// fetchRasters must have succeeded for v.
func writeLegacyView(w *binio.Writer, v *project.View, rasters map[int]*spr.Encoded) {
	w.Int16(int16(len(v.Loops)))
	for _, l := range v.Loops {
		n := len(l.Frames)
		if l.RunNextLoop {
			n++
		}
		w.Int16(int16(n))
	}
	w.Zeros((MaxLegacyLoops - len(v.Loops)) * 2)
	w.Zeros(viewHeaderPadding)

	for i := range iter.N(MaxLegacyLoops) {
		for j := range iter.N(MaxLegacyFrames) {
			var slot frameSlot
			if i < len(v.Loops) {
				l := v.Loops[i]
				switch {
				case j < len(l.Frames):
					f := l.Frames[j]
					slot.Image = int32(f.Image)
					slot.Delay = int16(f.Delay)
					if f.Flipped {
						slot.Flipped = 1
					}
					slot.Sound = int32(f.Sound)
				case j == len(l.Frames) && l.RunNextLoop:
					slot.Image = runNextLoopImage
				}
			}
			w.Struct(&slot)
		}
	}

	for _, l := range v.Loops {
		for _, f := range l.Frames {
			e := rasters[f.Image]
			w.Int32(int32(e.ColorDepth))
			w.Byte(e.Flags)
			w.Int32(int32(e.Width))
			w.Int32(int32(e.Height))
			w.Bytes(e.Data)
		}
		if l.RunNextLoop {
			w.Int32(runNextLoopDepth)
		}
	}
}
