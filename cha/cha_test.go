package cha

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
	"badc0de.net/pkg/go-ags/ttesting"
)

type fixture struct {
	t *testing.T
	p *project.Project
}

func newFixture(t *testing.T) *fixture {
	p := project.New(spr.NewMemStore())
	for i := range p.Palette {
		p.Palette[i] = color.RGBA{R: uint8(i) &^ 3, G: 0x40, B: 0x80, A: 0xFF}
	}
	return &fixture{t: t, p: p}
}

// sprite adds a 2x2 sprite whose pixels start at seed.
func (f *fixture) sprite(depth int, alpha bool, seed byte) int {
	f.t.Helper()
	bpp := spr.FormatForColorDepth(depth, alpha).BytesPerPixel()
	raw := make([]byte, 4*bpp)
	for i := range raw {
		raw[i] = seed + byte(i)
	}
	s, err := spr.Import(f.p.Sprites, depth, 2, 2, alpha, raw, &f.p.Palette, spr.ResolutionReal)
	if err != nil {
		f.t.Fatalf("import sprite: %v", err)
	}
	f.p.RootSpriteFolder.Sprites = append(f.p.RootSpriteFolder.Sprites, s)
	return s.Number
}

// view adds a view with one loop per entry of frames, each listing the
// sprites of its frames.
func (f *fixture) view(name string, runNext bool, frames ...[]int) int {
	v := &project.View{Name: name}
	for _, images := range frames {
		l := v.AddNewLoop()
		l.RunNextLoop = runNext
		for j, img := range images {
			l.Frames = append(l.Frames, &project.ViewFrame{ID: j, Image: img, Delay: j + 1, Flipped: j%2 == 1, Sound: 10 * j})
		}
	}
	return f.p.AddView(v)
}

func (f *fixture) character() *project.Character {
	s8 := f.sprite(8, false, 1)
	s16 := f.sprite(16, false, 20)
	s32 := f.sprite(32, true, 40)
	c := project.NewCharacter()
	c.ScriptName = "cEgo"
	c.RealName = "Roger Wilco"
	c.StartingRoom = 3
	c.StartX, c.StartY = 160, 120
	c.SpeechColor = 15
	c.MovementSpeed = 5
	c.AnimationDelay = 2
	c.NormalView = f.view("EgoWalk", true, []int{s8, s16}, []int{s16})
	c.SpeechView = f.view("EgoTalk", false, []int{s32})
	c.IdleView = f.view("EgoIdle", false, []int{s16, s32, s8})
	c.ThinkingView = f.view("EgoThink", false, []int{s8})
	c.BlinkingView = f.view("EgoBlink", false, []int{s32, s32})
	f.p.AddCharacter(c)
	return c
}

func assertSameView(t *testing.T, name string, src *project.Project, sv *project.View, dst *project.Project, dv *project.View) {
	t.Helper()
	if sv == nil || dv == nil {
		t.Fatalf("%s: missing view (%v, %v)", name, sv, dv)
	}
	ttesting.AssertEqualInt(t, name+" loops", len(dv.Loops), len(sv.Loops))
	for i, sl := range sv.Loops {
		dl := dv.Loops[i]
		ttesting.AssertEqualBool(t, name+" run next loop", dl.RunNextLoop, sl.RunNextLoop)
		ttesting.AssertEqualInt(t, name+" frames", len(dl.Frames), len(sl.Frames))
		for j, sf := range sl.Frames {
			df := dl.Frames[j]
			ttesting.AssertEqualInt(t, name+" delay", df.Delay, sf.Delay)
			ttesting.AssertEqualBool(t, name+" flipped", df.Flipped, sf.Flipped)
			ttesting.AssertEqualInt(t, name+" sound", df.Sound, sf.Sound)
			se, err := spr.Export(src.Sprites, sf.Image)
			if err != nil {
				t.Fatalf("export source sprite: %v", err)
			}
			de, err := spr.Export(dst.Sprites, df.Image)
			if err != nil {
				t.Fatalf("export imported sprite: %v", err)
			}
			ttesting.AssertEqualInt(t, name+" depth", de.ColorDepth, se.ColorDepth)
			ttesting.AssertEqualBytes(t, name+" pixels", de.Data, se.Data)
			if dst.FindSprite(df.Image) == nil {
				t.Errorf("%s: sprite %d not in the sprite tree", name, df.Image)
			}
		}
	}
}

func assertSameCharacter(t *testing.T, src *project.Project, sc *project.Character, dst *project.Project, dc *project.Character) {
	t.Helper()
	ttesting.AssertEqualString(t, "script name", dc.ScriptName, sc.ScriptName)
	ttesting.AssertEqualString(t, "real name", dc.RealName, sc.RealName)
	ttesting.AssertEqualInt(t, "room", dc.StartingRoom, sc.StartingRoom)
	ttesting.AssertEqualInt(t, "x", dc.StartX, sc.StartX)
	ttesting.AssertEqualInt(t, "y", dc.StartY, sc.StartY)
	ttesting.AssertEqualInt(t, "speech color", dc.SpeechColor, sc.SpeechColor)
	ttesting.AssertEqualInt(t, "speed", dc.MovementSpeed, sc.MovementSpeed)
	ttesting.AssertEqualInt(t, "delay", dc.AnimationDelay, sc.AnimationDelay)
	assertSameView(t, "normal", src, src.FindView(sc.NormalView), dst, dst.FindView(dc.NormalView))
	assertSameView(t, "speech", src, src.FindView(sc.SpeechView), dst, dst.FindView(dc.SpeechView))
	assertSameView(t, "idle", src, src.FindView(sc.IdleView), dst, dst.FindView(dc.IdleView))
	assertSameView(t, "thinking", src, src.FindView(sc.ThinkingView), dst, dst.FindView(dc.ThinkingView))
	assertSameView(t, "blinking", src, src.FindView(sc.BlinkingView), dst, dst.FindView(dc.BlinkingView))
}

func TestLegacyRoundTrip(t *testing.T) {
	f := newFixture(t)
	c := f.character()
	buf := &bytes.Buffer{}
	if err := EncodeLegacy(buf, c, f.p, 6); err != nil {
		t.Fatalf("encode: %v", err)
	}
	dst := project.New(spr.NewMemStore())
	dc, err := DecodeLegacy(buf, dst)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualInt(t, "unread bytes", buf.Len(), 0)
	assertSameCharacter(t, f.p, c, dst, dc)

	ttesting.AssertEqualString(t, "view name", dst.FindView(dc.IdleView).Name, "EgoIdle")
	ttesting.AssertEqualInt(t, "folders", len(dst.RootSpriteFolder.SubFolders), 1)
	folder := dst.RootSpriteFolder.SubFolders[0]
	ttesting.AssertEqualString(t, "folder", folder.Name, "cEgoSprites")
	ttesting.AssertEqualInt(t, "sprites", len(folder.Sprites), 10)
	ttesting.AssertEqualInt(t, "characters", len(dst.Characters), 1)
}

func TestLegacyVersion5HasNoThinkingOrBlinking(t *testing.T) {
	f := newFixture(t)
	c := f.character()
	buf := &bytes.Buffer{}
	if err := EncodeLegacy(buf, c, f.p, 6); err != nil {
		t.Fatalf("encode: %v", err)
	}
	b := buf.Bytes()
	binary.LittleEndian.PutUint32(b[len(Signature):], 5)

	dst := project.New(spr.NewMemStore())
	dc, err := DecodeLegacy(bytes.NewReader(b), dst)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualInt(t, "thinking", dc.ThinkingView, 0)
	ttesting.AssertEqualInt(t, "blinking", dc.BlinkingView, 0)
	ttesting.AssertEqualInt(t, "views", len(dst.Views), 3)
}

func TestLegacyExportVersion5(t *testing.T) {
	f := newFixture(t)
	c := f.character()
	buf := &bytes.Buffer{}
	if err := EncodeLegacy(buf, c, f.p, 5); err != nil {
		t.Fatalf("encode: %v", err)
	}
	dst := project.New(spr.NewMemStore())
	dc, err := DecodeLegacy(buf, dst)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualInt(t, "unread bytes", buf.Len(), 0)
	ttesting.AssertEqualInt(t, "thinking", dc.ThinkingView, 0)
	ttesting.AssertEqualInt(t, "speech", len(dst.FindView(dc.SpeechView).Loops), 1)
}

func TestTwentyOneFrames(t *testing.T) {
	f := newFixture(t)
	s := f.sprite(16, false, 0)
	frames := make([]int, 21)
	for i := range frames {
		frames[i] = s
	}
	c := project.NewCharacter()
	c.ScriptName = "cLong"
	c.NormalView = f.view("LongWalk", false, frames)
	f.p.AddCharacter(c)

	buf := &bytes.Buffer{}
	err := EncodeLegacy(buf, c, f.p, LegacyVersion)
	ttesting.AssertError(t, "legacy", err, ags.IsResourceLimit)
	ttesting.AssertEqualInt(t, "bytes written", buf.Len(), 0)

	if err := EncodeXML(buf, c, f.p); err != nil {
		t.Fatalf("xml encode: %v", err)
	}
	dst := project.New(spr.NewMemStore())
	dc, err := DecodeXML(buf, dst)
	if err != nil {
		t.Fatalf("xml decode: %v", err)
	}
	assertSameView(t, "normal", f.p, f.p.FindView(c.NormalView), dst, dst.FindView(dc.NormalView))
	ttesting.AssertEqualInt(t, "deduplicated sprites", len(dst.RootSpriteFolder.SubFolders[0].Sprites), 1)
}

func TestRunNextLoopCountsTowardsFrameLimit(t *testing.T) {
	f := newFixture(t)
	s := f.sprite(16, false, 0)
	frames := make([]int, 20)
	for i := range frames {
		frames[i] = s
	}
	c := project.NewCharacter()
	c.NormalView = f.view("Walk", true, frames)
	err := EncodeLegacy(&bytes.Buffer{}, c, f.p, LegacyVersion)
	ttesting.AssertError(t, "20 frames and a marker", err, ags.IsResourceLimit)
}

func TestTooManyLoops(t *testing.T) {
	f := newFixture(t)
	s := f.sprite(16, false, 0)
	loops := make([][]int, 17)
	for i := range loops {
		loops[i] = []int{s}
	}
	c := project.NewCharacter()
	c.NormalView = f.view("Walk", false, loops...)
	err := EncodeLegacy(&bytes.Buffer{}, c, f.p, LegacyVersion)
	ttesting.AssertError(t, "17 loops", err, ags.IsResourceLimit)
}

func TestXMLRoundTrip(t *testing.T) {
	f := newFixture(t)
	c := f.character()
	c.Interactions.FunctionNames[0] = "cEgo_Look"
	buf := &bytes.Buffer{}
	if err := EncodeXML(buf, c, f.p); err != nil {
		t.Fatalf("encode: %v", err)
	}
	dst := project.New(spr.NewMemStore())
	dc, err := DecodeXML(buf, dst)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertSameCharacter(t, f.p, c, dst, dc)
	ttesting.AssertEqualString(t, "handler cleared", dc.Interactions.FunctionNames[0], "")
	ttesting.AssertEqualString(t, "folder", dst.RootSpriteFolder.SubFolders[0].Name, "cEgoImport")
	ttesting.AssertEqualInt(t, "sprites written once", len(dst.RootSpriteFolder.SubFolders[0].Sprites), 3)
}

func TestNameCollisions(t *testing.T) {
	f := newFixture(t)
	c := f.character()
	legacy := &bytes.Buffer{}
	if err := EncodeLegacy(legacy, c, f.p, 6); err != nil {
		t.Fatalf("encode: %v", err)
	}
	doc := &bytes.Buffer{}
	if err := EncodeXML(doc, c, f.p); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dst := project.New(spr.NewMemStore())
	first, err := DecodeLegacy(bytes.NewReader(legacy.Bytes()), dst)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second, err := DecodeLegacy(bytes.NewReader(legacy.Bytes()), dst)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	third, err := DecodeXML(doc, dst)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualString(t, "first", first.ScriptName, "cEgo")
	ttesting.AssertEqualString(t, "second", second.ScriptName, "cEgo1")
	ttesting.AssertEqualString(t, "second view", dst.FindView(second.NormalView).Name, "Ego1Walk")
	ttesting.AssertEqualString(t, "third", third.ScriptName, "cEgo2")
	ttesting.AssertEqualString(t, "third view", dst.FindView(third.NormalView).Name, "EgoWalk1")
}

func TestRejectedFilesLeaveProjectAlone(t *testing.T) {
	f := newFixture(t)
	c := f.character()
	buf := &bytes.Buffer{}
	if err := EncodeLegacy(buf, c, f.p, 6); err != nil {
		t.Fatalf("encode: %v", err)
	}
	good := buf.Bytes()

	bad := append([]byte(nil), good...)
	bad[0] = 'X'
	store := spr.NewMemStore()
	dst := project.New(store)
	_, err := DecodeLegacy(bytes.NewReader(bad), dst)
	ttesting.AssertError(t, "signature", err, ags.IsFormat)

	bad = append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(bad[len(Signature):], 7)
	_, err = DecodeLegacy(bytes.NewReader(bad), dst)
	ttesting.AssertError(t, "version", err, ags.IsUnsupportedVersion)

	if _, err := DecodeLegacy(bytes.NewReader(good[:len(good)-3]), dst); err == nil {
		t.Errorf("truncated file accepted")
	}

	_, err = DecodeXML(bytes.NewReader([]byte(`<ExportedCharacter Version="3"/>`)), dst)
	ttesting.AssertError(t, "xml version", err, ags.IsUnsupportedVersion)
	_, err = DecodeXML(bytes.NewReader([]byte(`<ExportedGUI Version="2"/>`)), dst)
	ttesting.AssertError(t, "xml root", err, ags.IsFormat)

	ttesting.AssertEqualInt(t, "characters", len(dst.Characters), 0)
	ttesting.AssertEqualInt(t, "views", len(dst.Views), 0)
	ttesting.AssertEqualInt(t, "sprites", store.Len(), 0)
	ttesting.AssertEqualInt(t, "folders", len(dst.RootSpriteFolder.SubFolders), 0)
}

func TestLegacyScriptNames(t *testing.T) {
	ttesting.AssertEqualString(t, "decode", legacyScriptName("EGO"), "cEgo")
	ttesting.AssertEqualString(t, "encode", storedScriptName("cEgo"), "EGO")
	ttesting.AssertEqualString(t, "no prefix", storedScriptName("Ego"), "Ego")
	ttesting.AssertEqualString(t, "empty", legacyScriptName(""), "")
}
