package cha

import (
	"encoding/xml"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
	"badc0de.net/pkg/go-ags/xmls"
)

// XMLVersion is the newest character document version. Version 2 added
// sprite resolutions.
const XMLVersion = 2

const whatXML = "character document"

type characterDocument struct {
	XMLName   xml.Name     `xml:"ExportedCharacter"`
	Version   string       `xml:"Version,attr"`
	Character characterXML `xml:"Character"`
	Views     viewsXML     `xml:"Views"`
	Palette   xmls.Palette `xml:"Palette"`
}

type characterXML struct {
	ID             int        `xml:"ID"`
	ScriptName     string     `xml:"ScriptName"`
	RealName       string     `xml:"RealName"`
	StartingRoom   int        `xml:"StartingRoom"`
	StartX         int        `xml:"StartX"`
	StartY         int        `xml:"StartY"`
	NormalView     int        `xml:"NormalView"`
	SpeechView     int        `xml:"SpeechView"`
	IdleView       int        `xml:"IdleView"`
	ThinkingView   int        `xml:"ThinkingView"`
	BlinkingView   int        `xml:"BlinkingView"`
	SpeechColor    int        `xml:"SpeechColor"`
	MovementSpeed  int        `xml:"MovementSpeed"`
	AnimationDelay int        `xml:"AnimationDelay"`
	Interactions   []eventXML `xml:"Interactions>Event"`
}

type eventXML struct {
	Name     string `xml:"Name,attr"`
	Function string `xml:",chardata"`
}

// viewsXML has one optional section per view slot of a character.
type viewsXML struct {
	Normal   *viewSection `xml:"NormalView"`
	Speech   *viewSection `xml:"SpeechView"`
	Idle     *viewSection `xml:"IdleView"`
	Thinking *viewSection `xml:"ThinkingView"`
	Blinking *viewSection `xml:"BlinkingView"`
}

func (v *viewsXML) slots() [5]**viewSection {
	return [5]**viewSection{&v.Normal, &v.Speech, &v.Idle, &v.Thinking, &v.Blinking}
}

// viewSection holds a view and the sprites it uses that no earlier section
// of the same document already carried.
type viewSection struct {
	View    viewXML           `xml:"View"`
	Sprites []xmls.SpriteData `xml:"SpriteData"`
}

type viewXML struct {
	ID    int       `xml:"ID,attr"`
	Name  string    `xml:"Name,attr"`
	Loops []loopXML `xml:"Loops>Loop"`
}

type loopXML struct {
	ID          int        `xml:"ID,attr"`
	RunNextLoop bool       `xml:"RunNextLoop,attr"`
	Frames      []frameXML `xml:"Frame"`
}

type frameXML struct {
	ID      int  `xml:"ID,attr"`
	Image   int  `xml:"Image,attr"`
	Delay   int  `xml:"Delay,attr"`
	Flipped bool `xml:"Flipped,attr"`
	Sound   int  `xml:"Sound,attr"`
}

func newViewXML(v *project.View) viewXML {
	out := viewXML{ID: v.ID, Name: v.Name}
	for _, l := range v.Loops {
		lx := loopXML{ID: l.ID, RunNextLoop: l.RunNextLoop}
		for _, f := range l.Frames {
			lx.Frames = append(lx.Frames, frameXML{ID: f.ID, Image: f.Image, Delay: f.Delay, Flipped: f.Flipped, Sound: f.Sound})
		}
		out.Loops = append(out.Loops, lx)
	}
	return out
}

func (vx *viewXML) view() *project.View {
	v := &project.View{Name: vx.Name}
	for _, lx := range vx.Loops {
		l := v.AddNewLoop()
		l.RunNextLoop = lx.RunNextLoop
		for _, fx := range lx.Frames {
			l.Frames = append(l.Frames, &project.ViewFrame{ID: fx.ID, Image: fx.Image, Delay: fx.Delay, Flipped: fx.Flipped, Sound: fx.Sound})
		}
	}
	return v
}

func (c *characterXML) character() *project.Character {
	// Handler function names are not carried over; they belong to the
	// scripts of the exporting game.
	out := project.NewCharacter()
	out.ScriptName = c.ScriptName
	out.RealName = c.RealName
	out.StartingRoom = c.StartingRoom
	out.StartX, out.StartY = c.StartX, c.StartY
	out.NormalView = c.NormalView
	out.SpeechView = c.SpeechView
	out.IdleView = c.IdleView
	out.ThinkingView = c.ThinkingView
	out.BlinkingView = c.BlinkingView
	out.SpeechColor = c.SpeechColor
	out.MovementSpeed = c.MovementSpeed
	out.AnimationDelay = c.AnimationDelay
	return out
}

func (c *characterXML) refs() [5]int {
	return [5]int{c.NormalView, c.SpeechView, c.IdleView, c.ThinkingView, c.BlinkingView}
}

// DecodeXML reads a character document and adds the character, its views
// and their sprites to p. Documents newer than XMLVersion are rejected.
//
// Sprites are imported into a new folder named after the character, and
// every frame is rewritten to the new sprite numbers. View names, like the
// character's script name, get a numeric suffix if already taken.
func DecodeXML(r io.Reader, p *project.Project) (*project.Character, error) {
	var doc characterDocument
	if err := xmls.Decode(r, whatXML, &doc); err != nil {
		return nil, err
	}
	if _, err := xmls.CheckVersion(whatXML, doc.Version, XMLVersion); err != nil {
		return nil, err
	}
	pal, err := doc.Palette.Palette(whatXML)
	if err != nil {
		return nil, err
	}

	var sprites []xmls.SpriteData
	var sections [5]*viewSection
	refs := doc.Character.refs()
	for i, slot := range doc.Views.slots() {
		if refs[i] <= 0 {
			continue
		}
		if *slot == nil {
			return nil, ags.Formatf(whatXML, "character uses a %s view but the document has none", viewSuffixes[i])
		}
		sections[i] = *slot
		sprites = append(sprites, (*slot).Sprites...)
	}

	c := doc.Character.character()
	c.ScriptName = p.UniqueNumbered(c.ScriptName, c)
	folder := spr.NewFolder(c.ScriptName + "Import")
	mapping := make(map[int]int)
	if err := xmls.ImportSprites(whatXML, sprites, pal, folder, mapping, p); err != nil {
		return nil, err
	}

	ids := [5]int{}
	for i, s := range sections {
		if s == nil {
			continue
		}
		v := s.View.view()
		v.RemapSprites(mapping)
		v.Name = p.UniqueNumbered(v.Name, v)
		ids[i] = p.AddView(v)
		glog.V(2).Infof("cha: view %q imported as %d", v.Name, v.ID)
	}
	c.NormalView, c.SpeechView, c.IdleView, c.ThinkingView, c.BlinkingView = ids[0], ids[1], ids[2], ids[3], ids[4]
	p.AttachSpriteFolder(folder)
	p.AddCharacter(c)
	return c, nil
}

// EncodeXML writes c, every view it uses with their sprites, and the
// project palette as a character document.
func EncodeXML(w io.Writer, c *project.Character, p *project.Project) error {
	doc := characterDocument{
		Version: "2",
		Character: characterXML{
			ID:             c.ID,
			ScriptName:     c.ScriptName,
			RealName:       c.RealName,
			StartingRoom:   c.StartingRoom,
			StartX:         c.StartX,
			StartY:         c.StartY,
			NormalView:     c.NormalView,
			SpeechView:     c.SpeechView,
			IdleView:       c.IdleView,
			ThinkingView:   c.ThinkingView,
			BlinkingView:   c.BlinkingView,
			SpeechColor:    c.SpeechColor,
			MovementSpeed:  c.MovementSpeed,
			AnimationDelay: c.AnimationDelay,
		},
		Palette: xmls.NewPalette(&p.Palette),
	}
	for i, fn := range c.Interactions.FunctionNames {
		if i < len(project.CharacterEvents) {
			doc.Character.Interactions = append(doc.Character.Interactions, eventXML{Name: project.CharacterEvents[i], Function: fn})
		}
	}

	sw := xmls.NewSpriteWriter(p)
	refs := doc.Character.refs()
	for i, slot := range doc.Views.slots() {
		if refs[i] <= 0 {
			continue
		}
		v := p.FindView(refs[i])
		if v == nil {
			return errors.Errorf("character %s: %s view %d not found", c.ScriptName, viewSuffixes[i], refs[i])
		}
		sprites, err := sw.Add(v.SpritesUsed()...)
		if err != nil {
			return errors.Wrapf(err, "view %s", v.Name)
		}
		*slot = &viewSection{View: newViewXML(v), Sprites: sprites}
	}
	return xmls.Encode(w, "Exported character. Generated file, do not edit by hand.", &doc)
}
