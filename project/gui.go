package project

import (
	"fmt"
)

// GUIKind discriminates the two GUI variants.
type GUIKind int

const (
	GUIKindNormal GUIKind = iota
	GUIKindTextWindow
)

func (k GUIKind) String() string {
	switch k {
	case GUIKindNormal:
		return "normal"
	case GUIKindTextWindow:
		return "text window"
	}
	return fmt.Sprintf("GUIKind(%d)", int(k))
}

// GUI is a normal GUI or a text-window GUI. Fields that only one variant uses
// are left zero by the other.
type GUI struct {
	Kind            GUIKind
	ID              int
	Name            string
	Width, Height   int
	BackgroundColor int
	BackgroundImage int // sprite number, 0 for none
	BorderColor     int
	Controls        []*GUIControl

	// Normal GUIs only.
	Left, Top    int
	Visibility   string
	ZOrder       int
	Clickable    bool
	Transparency int
	OnClick      string

	// Text-window GUIs only.
	TextColor int
	Padding   int
}

// ControlType names the kinds of GUI control.
type ControlType int

const (
	ControlButton ControlType = iota
	ControlLabel
	ControlTextBox
	ControlListBox
	ControlSlider
	ControlInvWindow
	ControlTextWindowEdge
)

func (t ControlType) String() string {
	switch t {
	case ControlButton:
		return "button"
	case ControlLabel:
		return "label"
	case ControlTextBox:
		return "text box"
	case ControlListBox:
		return "list box"
	case ControlSlider:
		return "slider"
	case ControlInvWindow:
		return "inventory window"
	case ControlTextWindowEdge:
		return "text window edge"
	}
	return fmt.Sprintf("ControlType(%d)", int(t))
}

// GUIControl is one control on a GUI. As with GUI, fields irrelevant to a
// control's type stay zero.
type GUIControl struct {
	Type          ControlType
	ID            int
	Name          string
	Left, Top     int
	Width, Height int
	ZOrder        int

	Text      string
	Font      int
	TextColor int
	OnClick   string // button click, slider change, text box activate, list box selection

	// Sprite references, 0 for none.
	Image           int // button normal image, text window edge image
	MouseoverImage  int
	PushedImage     int
	HandleImage     int // slider
	BackgroundImage int // slider

	MinValue, MaxValue, Value int // slider
}

// spriteRefs returns pointers to the sprite fields this control type uses.
func (c *GUIControl) spriteRefs() []*int {
	switch c.Type {
	case ControlButton:
		return []*int{&c.Image, &c.MouseoverImage, &c.PushedImage}
	case ControlSlider:
		return []*int{&c.HandleImage, &c.BackgroundImage}
	case ControlTextWindowEdge:
		return []*int{&c.Image}
	}
	return nil
}

// SpritesUsed returns the nonzero sprite numbers the control refers to.
func (c *GUIControl) SpritesUsed() []int {
	var out []int
	for _, p := range c.spriteRefs() {
		if *p != 0 {
			out = append(out, *p)
		}
	}
	return out
}

// RemapSprites rewrites every sprite reference through fn. A zero reference
// is never passed to fn.
func (c *GUIControl) RemapSprites(fn func(old int) (int, error)) error {
	for _, p := range c.spriteRefs() {
		if *p == 0 {
			continue
		}
		n, err := fn(*p)
		if err != nil {
			return err
		}
		*p = n
	}
	return nil
}

// SpritesUsed lists the distinct sprite numbers of the GUI and its controls,
// background first.
func (g *GUI) SpritesUsed() []int {
	seen := make(map[int]bool)
	var out []int
	add := func(n int) {
		if n > 0 && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	add(g.BackgroundImage)
	for _, c := range g.Controls {
		for _, n := range c.SpritesUsed() {
			add(n)
		}
	}
	return out
}

// Control looks a control up by name.
func (g *GUI) Control(name string) *GUIControl {
	for _, c := range g.Controls {
		if c.Name == name {
			return c
		}
	}
	return nil
}
