package guf

import (
	"encoding/xml"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/xmls"
)

type guiDocument struct {
	XMLName     xml.Name          `xml:"ExportedGUI"`
	Version     string            `xml:"Version,attr"`
	Main        guiMain           `xml:"GUIMain"`
	UsedSprites []xmls.SpriteData `xml:"UsedSprites>SpriteData"`
	Palette     xmls.Palette      `xml:"Palette"`
}

// Element names of the GUI variants.
const (
	normalGUIElement     = "NormalGUI"
	textWindowGUIElement = "TextWindowGUI"
)

// guiMain wraps the one GUI of a document. Its first child element names the
// variant.
type guiMain struct {
	GUI *project.GUI
}

func (m guiMain) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	name := normalGUIElement
	if m.GUI.Kind == project.GUIKindTextWindow {
		name = textWindowGUIElement
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeElement(newGUIXML(m.GUI), xml.StartElement{Name: xml.Name{Local: name}}); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (m *guiMain) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if m.GUI != nil {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var kind project.GUIKind
			switch t.Name.Local {
			case normalGUIElement:
				kind = project.GUIKindNormal
			case textWindowGUIElement:
				kind = project.GUIKindTextWindow
			default:
				return ags.Formatf(what, "unknown GUI type %q", t.Name.Local)
			}
			var gx guiXML
			if err := d.DecodeElement(&gx, &t); err != nil {
				return err
			}
			m.GUI = gx.gui(kind)
		case xml.EndElement:
			if m.GUI == nil {
				return ags.Formatf(what, "no GUI in %s", start.Name.Local)
			}
			return nil
		}
	}
}

// guiXML carries the fields of both variants; each variant writes only its
// own.
type guiXML struct {
	ID              int
	Name            string
	Width           int
	Height          int
	BackgroundColor int
	BackgroundImage int
	BorderColor     int

	Left         int    `xml:",omitempty"`
	Top          int    `xml:",omitempty"`
	Visibility   string `xml:",omitempty"`
	ZOrder       int    `xml:",omitempty"`
	Clickable    bool   `xml:",omitempty"`
	Transparency int    `xml:",omitempty"`
	OnClick      string `xml:",omitempty"`

	TextColor int `xml:",omitempty"`
	Padding   int `xml:",omitempty"`

	Controls controlsXML
}

func newGUIXML(g *project.GUI) *guiXML {
	gx := &guiXML{
		ID:              g.ID,
		Name:            g.Name,
		Width:           g.Width,
		Height:          g.Height,
		BackgroundColor: g.BackgroundColor,
		BackgroundImage: g.BackgroundImage,
		BorderColor:     g.BorderColor,
		Controls:        controlsXML(g.Controls),
	}
	switch g.Kind {
	case project.GUIKindNormal:
		gx.Left, gx.Top = g.Left, g.Top
		gx.Visibility = g.Visibility
		gx.ZOrder = g.ZOrder
		gx.Clickable = g.Clickable
		gx.Transparency = g.Transparency
		gx.OnClick = g.OnClick
	case project.GUIKindTextWindow:
		gx.TextColor = g.TextColor
		gx.Padding = g.Padding
	}
	return gx
}

func (gx *guiXML) gui(kind project.GUIKind) *project.GUI {
	g := &project.GUI{
		Kind:            kind,
		ID:              gx.ID,
		Name:            gx.Name,
		Width:           gx.Width,
		Height:          gx.Height,
		BackgroundColor: gx.BackgroundColor,
		BackgroundImage: gx.BackgroundImage,
		BorderColor:     gx.BorderColor,
		Controls:        []*project.GUIControl(gx.Controls),
	}
	switch kind {
	case project.GUIKindNormal:
		g.Left, g.Top = gx.Left, gx.Top
		g.Visibility = gx.Visibility
		g.ZOrder = gx.ZOrder
		g.Clickable = gx.Clickable
		g.Transparency = gx.Transparency
		g.OnClick = gx.OnClick
	case project.GUIKindTextWindow:
		g.TextColor = gx.TextColor
		g.Padding = gx.Padding
	}
	return g
}

var controlElements = map[project.ControlType]string{
	project.ControlButton:         "GUIButton",
	project.ControlLabel:          "GUILabel",
	project.ControlTextBox:        "GUITextBox",
	project.ControlListBox:        "GUIListBox",
	project.ControlSlider:         "GUISlider",
	project.ControlInvWindow:      "GUIInventory",
	project.ControlTextWindowEdge: "GUITextWindowEdge",
}

func controlType(element string) (project.ControlType, bool) {
	for t, name := range controlElements {
		if name == element {
			return t, true
		}
	}
	return 0, false
}

// controlXML is the union of the fields of all control types. It converts
// to and from project.GUIControl; the type goes into the element name.
type controlXML struct {
	Type   project.ControlType `xml:"-"`
	ID     int
	Name   string
	Left   int
	Top    int
	Width  int
	Height int
	ZOrder int

	Text      string `xml:",omitempty"`
	Font      int    `xml:",omitempty"`
	TextColor int    `xml:",omitempty"`
	OnClick   string `xml:",omitempty"`

	Image           int `xml:",omitempty"`
	MouseoverImage  int `xml:",omitempty"`
	PushedImage     int `xml:",omitempty"`
	HandleImage     int `xml:",omitempty"`
	BackgroundImage int `xml:",omitempty"`

	MinValue int `xml:",omitempty"`
	MaxValue int `xml:",omitempty"`
	Value    int `xml:",omitempty"`
}

// controlsXML writes each control as an element named after its type.
type controlsXML []*project.GUIControl

func (cs controlsXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range cs {
		name, ok := controlElements[c.Type]
		if !ok {
			return ags.Formatf(what, "control %s has unknown type %v", c.Name, c.Type)
		}
		cx := controlXML(*c)
		if err := e.EncodeElement(&cx, xml.StartElement{Name: xml.Name{Local: name}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (cs *controlsXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			typ, ok := controlType(t.Name.Local)
			if !ok {
				return ags.Formatf(what, "unknown control type %q", t.Name.Local)
			}
			var cx controlXML
			if err := d.DecodeElement(&cx, &t); err != nil {
				return err
			}
			cx.Type = typ
			c := project.GUIControl(cx)
			*cs = append(*cs, &c)
		case xml.EndElement:
			return nil
		}
	}
}
