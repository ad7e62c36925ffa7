package cha

import (
	"bytes"
	"image/color"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/binio"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
	"badc0de.net/pkg/go-ags/textenc"
)

const (
	// Signature opens every legacy character file.
	Signature = "AGSCharacter"

	// LegacyVersion is the version written by EncodeLegacy by default.
	LegacyVersion = 6

	realNameWidth   = 40
	scriptNameWidth = 20
)

const what = "character file"

// legacyHeader is the fixed part of the record between the palette and the
// names.
type legacyHeader struct {
	_              int32
	SpeechView     int32
	_              int32
	StartingRoom   int32
	_              int32
	StartX         int32
	StartY         int32
	_              [12]byte
	IdleView       int32
	_              [12]byte
	SpeechColor    int32
	ThinkingView   int32 // version 6 only
	BlinkingView   int16 // version 6 only
	_              [42]byte
	MovementSpeed  int16
	AnimationDelay int16
	_              [606]byte
}

// legacyPalette is stored as 256 entries of 6-bit R, G, B and a pad byte.
type legacyPalette [spr.PaletteSize][4]byte

func (lp *legacyPalette) palette() *spr.Palette {
	p := &spr.Palette{}
	for i, e := range lp {
		p[i] = color.RGBA{R: e[0] * 4, G: e[1] * 4, B: e[2] * 4, A: 0xFF}
	}
	return p
}

func newLegacyPalette(p *spr.Palette) *legacyPalette {
	lp := &legacyPalette{}
	for i, c := range p {
		lp[i] = [4]byte{c.R / 4, c.G / 4, c.B / 4, 0}
	}
	return lp
}

// legacyScriptName turns the upper-case name stored in old files into the
// usual character script name: "EGO" becomes "cEgo".
func legacyScriptName(stored string) string {
	if stored == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(stored)
	return "c" + string(unicode.ToUpper(first)) + strings.ToLower(stored[size:])
}

// storedScriptName is the inverse of legacyScriptName.
func storedScriptName(name string) string {
	if strings.HasPrefix(name, "c") {
		return strings.ToUpper(name[1:])
	}
	return name
}

// legacyCharacter is a legacy file read in full but not yet added to a
// project.
type legacyCharacter struct {
	version    int
	palette    *spr.Palette
	header     legacyHeader
	realName   string
	scriptName string
	views      [5]*legacyView // normal, speech, idle, thinking, blinking
}

var viewSuffixes = [5]string{"Walk", "Talk", "Idle", "Think", "Blink"}

func readLegacy(r io.Reader) (*legacyCharacter, error) {
	br := binio.NewReader(r)
	sig := br.Bytes(len(Signature))
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading character signature")
	}
	if !bytes.Equal(sig, []byte(Signature)) {
		return nil, ags.Formatf(what, "bad signature %q", sig)
	}
	lc := &legacyCharacter{version: int(br.Int32())}
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading character version")
	}
	if lc.version < 5 || lc.version > 6 {
		return nil, &ags.UnsupportedVersionError{What: what, Got: lc.version, Want: "5 or 6"}
	}

	var lp legacyPalette
	br.Struct(&lp)
	lc.palette = lp.palette()
	br.Struct(&lc.header)
	realName := br.NullTerminated(realNameWidth)
	scriptName := br.NullTerminated(scriptNameWidth)
	br.Int16()
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading character record")
	}
	var err error
	if lc.realName, err = textenc.Default.Decode(realName); err != nil {
		return nil, err
	}
	if lc.scriptName, err = textenc.Default.Decode(scriptName); err != nil {
		return nil, err
	}
	glog.V(3).Infof("cha: version %d record for %q ends at %d", lc.version, lc.scriptName, br.Offset())

	present := [5]bool{
		true,
		lc.header.SpeechView > 0,
		lc.header.IdleView > 0,
		lc.header.ThinkingView > 0 && lc.version >= 6,
		lc.header.BlinkingView > 0 && lc.version >= 6,
	}
	for i, ok := range present {
		if !ok {
			continue
		}
		v, err := readLegacyView(br)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s view", viewSuffixes[i])
		}
		lc.views[i] = v
	}
	return lc, nil
}

// DecodeLegacy reads a legacy character file and adds the character, its
// views and their sprites to p. The views' sprites go into a new folder
// named after the character, which is attached only if it holds anything.
func DecodeLegacy(r io.Reader, p *project.Project) (*project.Character, error) {
	lc, err := readLegacy(r)
	if err != nil {
		return nil, err
	}

	c := project.NewCharacter()
	c.RealName = lc.realName
	c.StartingRoom = int(lc.header.StartingRoom)
	c.StartX = int(lc.header.StartX)
	c.StartY = int(lc.header.StartY)
	c.SpeechColor = int(lc.header.SpeechColor)
	c.MovementSpeed = int(lc.header.MovementSpeed)
	c.AnimationDelay = int(lc.header.AnimationDelay)
	if lc.scriptName != "" {
		c.ScriptName = p.UniqueNumbered(legacyScriptName(lc.scriptName), c)
	}

	prefix := strings.TrimPrefix(c.ScriptName, "c")
	folder := spr.NewFolder(c.ScriptName + "Sprites")
	batch := &spriteBatch{p: p}
	var views [5]*project.View
	for i, lv := range lc.views {
		if lv == nil {
			continue
		}
		v, err := lv.build(prefix+viewSuffixes[i], batch, lc.palette, folder)
		if err != nil {
			batch.rollback()
			return nil, err
		}
		views[i] = v
	}

	// Nothing below fails.
	var ids [5]int
	for i, v := range views {
		if v != nil {
			ids[i] = p.AddView(v)
		}
	}
	c.NormalView, c.SpeechView, c.IdleView, c.ThinkingView, c.BlinkingView = ids[0], ids[1], ids[2], ids[3], ids[4]
	p.AttachSpriteFolder(folder)
	p.AddCharacter(c)
	glog.V(2).Infof("cha: imported %s (version %d file)", c.ScriptName, lc.version)
	return c, nil
}

// EncodeLegacy writes c and its views as a legacy character file of the
// given version, 5 or 6. Version 5 has no thinking or blinking view.
//
// Views over the legacy loop and frame limits fail with a ResourceLimitError
// before anything is written.
func EncodeLegacy(w io.Writer, c *project.Character, p *project.Project, version int) error {
	if version < 5 || version > 6 {
		return &ags.UnsupportedVersionError{What: what, Got: version, Want: "5 or 6"}
	}
	refs := []int{c.NormalView, c.SpeechView, c.IdleView, c.ThinkingView, c.BlinkingView}
	if version < 6 {
		refs = refs[:3]
	}
	var views []*project.View
	for i, id := range refs {
		if id <= 0 && i > 0 {
			continue
		}
		v := p.FindView(id)
		if v == nil {
			return errors.Errorf("character %s: %s view %d not found", c.ScriptName, viewSuffixes[i], id)
		}
		if err := checkLegacyLimits(v); err != nil {
			return err
		}
		views = append(views, v)
	}
	rasters := make(map[int]*spr.Encoded)
	for _, v := range views {
		if err := fetchRasters(v, p, rasters); err != nil {
			return err
		}
	}
	realName, err := textenc.Default.Encode(c.RealName)
	if err != nil {
		return err
	}
	scriptName, err := textenc.Default.Encode(storedScriptName(c.ScriptName))
	if err != nil {
		return err
	}

	h := legacyHeader{
		SpeechView:     int32(c.SpeechView),
		StartingRoom:   int32(c.StartingRoom),
		StartX:         int32(c.StartX),
		StartY:         int32(c.StartY),
		IdleView:       int32(c.IdleView),
		SpeechColor:    int32(c.SpeechColor),
		MovementSpeed:  int16(c.MovementSpeed),
		AnimationDelay: int16(c.AnimationDelay),
	}
	if version >= 6 {
		h.ThinkingView = int32(c.ThinkingView)
		h.BlinkingView = int16(c.BlinkingView)
	}

	bw := binio.NewWriter(w)
	bw.Bytes([]byte(Signature))
	bw.Int32(int32(version))
	bw.Struct(newLegacyPalette(&p.Palette))
	bw.Struct(&h)
	bw.Fixed(realName, realNameWidth)
	bw.Fixed(scriptName, scriptNameWidth)
	bw.Int16(0)
	for _, v := range views {
		writeLegacyView(bw, v, rasters)
	}
	return errors.Wrap(bw.Err(), "writing character file")
}
