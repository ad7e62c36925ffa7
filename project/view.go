package project

// ViewFrame is a single timed image of a loop.
type ViewFrame struct {
	ID      int // position within the loop
	Image   int // sprite number
	Delay   int
	Flipped bool
	Sound   int
}

// ViewLoop is an ordered sequence of frames, usually one walking direction.
type ViewLoop struct {
	ID          int
	Frames      []*ViewFrame
	RunNextLoop bool
}

// View is a named animation.
type View struct {
	ID    int
	Name  string
	Loops []*ViewLoop
}

// AddNewLoop appends an empty loop and returns it.
func (v *View) AddNewLoop() *ViewLoop {
	l := &ViewLoop{ID: len(v.Loops)}
	v.Loops = append(v.Loops, l)
	return l
}

// SpritesUsed lists the distinct sprite numbers of all frames, in frame order.
func (v *View) SpritesUsed() []int {
	seen := make(map[int]bool)
	var out []int
	for _, l := range v.Loops {
		for _, f := range l.Frames {
			if !seen[f.Image] {
				seen[f.Image] = true
				out = append(out, f.Image)
			}
		}
	}
	return out
}

// RemapSprites rewrites every frame's sprite number found in mapping.
func (v *View) RemapSprites(mapping map[int]int) {
	for _, l := range v.Loops {
		for _, f := range l.Frames {
			if n, ok := mapping[f.Image]; ok {
				f.Image = n
			}
		}
	}
}
