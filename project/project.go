// Package project is the in-memory project tree the codecs read from and
// write into: palette, sprite folders, scripts, rooms, views, characters and
// GUIs, plus the lookups and uniqueness rules an import needs.
//
// A Project is not safe for concurrent use. One import or export at a time.
package project

import (
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-ags/spr"
	"badc0de.net/pkg/go-ags/textenc"
)

// Room is a room known by number whose contents have not been loaded.
type Room struct {
	Number      int
	Description string
}

// InteractionVariable is a pre-scripting era global integer.
type InteractionVariable struct {
	ScriptName string
	Value      int
}

type Project struct {
	Palette spr.Palette
	Sprites spr.Store

	// TextEncoding is used for new-format text and script exports.
	TextEncoding *textenc.Encoding
	// AllowRelativeResolutions keeps low/high resolution sprite tags on
	// import instead of normalizing them to Real.
	AllowRelativeResolutions bool

	RootSpriteFolder *spr.Folder
	RootScriptFolder *ScriptFolder
	Rooms            []*Room
	Views            []*View
	Characters       []*Character
	GUIs             []*GUI

	OldInteractionVariables []InteractionVariable
}

// New returns an empty project backed by the given sprite store.
func New(store spr.Store) *Project {
	return &Project{
		Sprites:          store,
		TextEncoding:     textenc.UTF8,
		RootSpriteFolder: spr.NewFolder("Main"),
		RootScriptFolder: &ScriptFolder{Name: "Main"},
	}
}

// FixupResolution applies the project's resolution normalization rule.
func (p *Project) FixupResolution(r spr.Resolution) spr.Resolution {
	return spr.FixupResolution(r, p.AllowRelativeResolutions)
}

// FindSprite looks a sprite up anywhere in the sprite tree.
func (p *Project) FindSprite(id int) *spr.Sprite {
	return p.RootSpriteFolder.FindSpriteByID(id, true)
}

// AttachSpriteFolder adds f under the root folder unless it is empty. It
// reports whether the folder was attached.
func (p *Project) AttachSpriteFolder(f *spr.Folder) bool {
	if f.Empty() {
		return false
	}
	p.RootSpriteFolder.SubFolders = append(p.RootSpriteFolder.SubFolders, f)
	glog.V(2).Infof("project: attached sprite folder %q with %d sprites", f.Name, len(f.Sprites))
	return true
}

// FindView returns the view with the given id, or nil.
func (p *Project) FindView(id int) *View {
	for _, v := range p.Views {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// AllocateViewID returns the lowest positive id no view uses.
func (p *Project) AllocateViewID() int {
	used := make(map[int]bool, len(p.Views))
	for _, v := range p.Views {
		used[v.ID] = true
	}
	id := 1
	for used[id] {
		id++
	}
	return id
}

// AddView gives v a fresh id and adds it to the project.
func (p *Project) AddView(v *View) int {
	v.ID = p.AllocateViewID()
	p.Views = append(p.Views, v)
	return v.ID
}

// AddCharacter appends c with the next character id.
func (p *Project) AddCharacter(c *Character) {
	c.ID = len(p.Characters)
	p.Characters = append(p.Characters, c)
}

// AddGUI appends g with the next GUI id.
func (p *Project) AddGUI(g *GUI) {
	g.ID = len(p.GUIs)
	p.GUIs = append(p.GUIs, g)
}

// IsScriptNameUsed reports whether name clashes with a script-visible name of
// any entity other than self. View names are exposed to scripts upper-cased,
// so they are compared case-insensitively.
func (p *Project) IsScriptNameUsed(name string, self interface{}) bool {
	if name == "" {
		return false
	}
	for _, c := range p.Characters {
		if c != self && c.ScriptName == name {
			return true
		}
	}
	for _, g := range p.GUIs {
		if g != self && g.Name == name {
			return true
		}
		for _, c := range g.Controls {
			if c != self && c.Name == name {
				return true
			}
		}
	}
	for _, v := range p.Views {
		if v != self && strings.EqualFold(v.Name, name) {
			return true
		}
	}
	return false
}

// SortRooms orders the room list by number.
func (p *Project) SortRooms() {
	sort.Slice(p.Rooms, func(i, j int) bool { return p.Rooms[i].Number < p.Rooms[j].Number })
}

// Room returns the room with the given number, or nil.
func (p *Project) Room(number int) *Room {
	for _, r := range p.Rooms {
		if r.Number == number {
			return r
		}
	}
	return nil
}

// UniqueNumbered returns name if it is free, otherwise name followed by the
// smallest positive number that makes it free.
func (p *Project) UniqueNumbered(name string, self interface{}) string {
	candidate := name
	for suffix := 1; p.IsScriptNameUsed(candidate, self); suffix++ {
		candidate = name + strconv.Itoa(suffix)
	}
	return candidate
}

// UniqueAppending appends suffix to name until the result is free.
func (p *Project) UniqueAppending(name, suffix string, self interface{}) string {
	for p.IsScriptNameUsed(name, self) {
		name += suffix
	}
	return name
}
