package editordat

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/binio"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
	"badc0de.net/pkg/go-ags/ttesting"
)

type testFolder struct {
	sprites  []int16
	numItems int32 // -1 means len(sprites)
	parent   int16
	name     string
}

type testModule struct {
	name, script, header string
	key                  int32
}

type testFile struct {
	signature string
	version   int32
	header    string
	global    string
	folders   []testFolder
	rooms     []string
	modHeader int32
	modules   []testModule
}

func newTestFile() *testFile {
	return &testFile{
		signature: Signature,
		version:   Version,
		header:    "import int counter;\n",
		global:    "int counter;\nexport counter;\n",
		folders: []testFolder{
			{sprites: []int16{0, 1}, numItems: -1, parent: -1, name: "Main"},
			{sprites: []int16{2}, numItems: -1, parent: 0, name: "Characters"},
			{sprites: []int16{3}, numItems: -1, parent: 1, name: "Ego"},
		},
		rooms:     []string{"Intro", "Street", "Shop"},
		modHeader: 1,
		modules: []testModule{
			{name: "Tween", script: "function tween() {}", header: "import function tween();", key: 42},
		},
	}
}

func (tf *testFile) bytes(t *testing.T) []byte {
	buf := &bytes.Buffer{}
	w := binio.NewWriter(buf)
	w.Bytes([]byte(tf.signature))
	w.Int32(tf.version)
	for _, text := range []string{tf.header, tf.global} {
		w.Int32(int32(len(text) + 1))
		w.StringTerminated([]byte(text))
	}
	w.Int32(int32(len(tf.folders)))
	for _, f := range tf.folders {
		n := f.numItems
		if n < 0 {
			n = int32(len(f.sprites))
		}
		w.Int32(n)
		for i := 0; i < folderSlots; i++ {
			if i < len(f.sprites) {
				w.Int16(f.sprites[i])
			} else {
				w.Int16(-1)
			}
		}
		w.Int16(f.parent)
		w.Fixed([]byte(f.name), folderNameWidth)
	}
	w.Int32(int32(len(tf.rooms)))
	for _, r := range tf.rooms {
		w.StringTerminated([]byte(r))
	}
	w.Int32(tf.modHeader)
	w.Int32(int32(len(tf.modules)))
	for _, m := range tf.modules {
		w.StringTerminated([]byte("Edmundo"))
		w.StringTerminated([]byte("tweening"))
		w.StringTerminated([]byte(m.name))
		w.StringTerminated([]byte("2.3"))
		w.LongTerminated([]byte(m.script))
		w.LongTerminated([]byte(m.header))
		w.Int32(m.key)
		w.Zeros(8)
	}
	w.Int32(5)
	w.Bytes([]byte("vox\x00\x00"))
	w.Bytes([]byte("plugin state"))
	if err := w.Err(); err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	return buf.Bytes()
}

func testSprites(n int) map[int]*spr.Sprite {
	out := make(map[int]*spr.Sprite)
	for i := 0; i < n; i++ {
		out[i] = &spr.Sprite{Number: i, ColorDepth: 8, Width: 1, Height: 1}
	}
	return out
}

func roomDir(t *testing.T, names ...string) string {
	dir, err := ioutil.TempDir("", "editordat")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := ioutil.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func oldProject() *project.Project {
	p := project.New(spr.NewMemStore())
	p.RootScriptFolder.Add(project.ScriptAndHeader{Script: &project.Script{FileName: "stale.asc"}})
	p.OldInteractionVariables = []project.InteractionVariable{{ScriptName: "IntVar_Door", Value: 3}}
	return p
}

func TestDecode(t *testing.T) {
	dir := roomDir(t, "room0.crm", "ROOM2.CRM", "room01.crm", "room5.crm", "intro.crm")
	defer os.RemoveAll(dir)

	p := oldProject()
	warnings, err := Decode(bytes.NewReader(newTestFile().bytes(t)), dir, p, testSprites(4))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	ttesting.AssertEqualInt(t, "warnings", len(warnings), 1)
	if !strings.Contains(warnings.String(), "room01.crm") {
		t.Errorf("want a warning about room01.crm; got %q", warnings)
	}

	scripts := p.RootScriptFolder.AllScriptsFlat()
	ttesting.AssertEqualInt(t, "scripts", len(scripts), 4)
	if p.RootScriptFolder.ScriptByFileName("stale.asc") != nil {
		t.Errorf("old script tree was not cleared")
	}
	for _, s := range scripts {
		ttesting.AssertEqualBool(t, s.FileName+" modified", s.Modified, true)
	}

	mod := p.RootScriptFolder.Items[0]
	ttesting.AssertEqualString(t, "module header", mod.Header.FileName, "Module0.ash")
	ttesting.AssertEqualString(t, "module script", mod.Script.FileName, "Module0.asc")
	ttesting.AssertEqualString(t, "module text", mod.Script.Text, "function tween() {}")
	ttesting.AssertEqualString(t, "module author", mod.Header.Author, "Edmundo")
	ttesting.AssertEqualInt(t, "module key", mod.Script.UniqueKey, 42)

	global := p.RootScriptFolder.Items[1]
	ttesting.AssertEqualString(t, "global header", global.Header.Text,
		"import int counter;\n// Automatically converted interaction variables\nimport int IntVar_Door;\n")
	ttesting.AssertEqualString(t, "global script", global.Script.Text,
		"// Automatically converted interaction variables\nint IntVar_Door = 3;\nexport IntVar_Door;\nint counter;\nexport counter;\n")
	ttesting.AssertEqualString(t, "global script name", global.Script.FileName, project.GlobalScriptFileName)

	ttesting.AssertEqualInt(t, "rooms", len(p.Rooms), 3)
	for i, want := range []struct {
		number int
		desc   string
	}{{0, "Intro"}, {2, "Shop"}, {5, ""}} {
		ttesting.AssertEqualInt(t, "room number", p.Rooms[i].Number, want.number)
		ttesting.AssertEqualString(t, "room description", p.Rooms[i].Description, want.desc)
	}

	root := p.RootSpriteFolder
	ttesting.AssertEqualString(t, "root", root.Name, "Main")
	ttesting.AssertEqualInt(t, "root sprites", len(root.Sprites), 2)
	ttesting.AssertEqualInt(t, "subfolders", len(root.SubFolders), 1)
	ego := root.SubFolders[0].SubFolders[0]
	ttesting.AssertEqualString(t, "nested", ego.Name, "Ego")
	if ego.FindSpriteByID(3, false) == nil {
		t.Errorf("sprite 3 should be in folder Ego")
	}
}

func TestMissingSprite(t *testing.T) {
	dir := roomDir(t)
	defer os.RemoveAll(dir)

	tf := newTestFile()
	tf.folders[1].sprites = []int16{2, 17, 1, -1}
	tf.folders[2].sprites = []int16{3, 99}
	tf.folders[2].numItems = 1 // 99 is past the item count and ignored

	p := oldProject()
	warnings, err := Decode(bytes.NewReader(tf.bytes(t)), dir, p, testSprites(4))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 17 does not exist and 1 was already claimed by the root.
	ttesting.AssertEqualInt(t, "warnings", len(warnings), 2)
	ttesting.AssertEqualInt(t, "missing", warnings[0].SpriteID, 17)
	if !strings.Contains(warnings[0].Message, "Sprite 17 not found") {
		t.Errorf("unexpected warning %q", warnings[0].Message)
	}
	ttesting.AssertEqualInt(t, "duplicate", warnings[1].SpriteID, 1)
	chars := p.RootSpriteFolder.SubFolders[0]
	ttesting.AssertEqualInt(t, "kept", len(chars.Sprites), 1)
	ttesting.AssertEqualInt(t, "all sprites", len(p.RootSpriteFolder.AllSpritesFlat()), 4)
}

func TestParentAfterChild(t *testing.T) {
	dir := roomDir(t)
	defer os.RemoveAll(dir)

	tf := newTestFile()
	tf.folders[1].parent = 2
	tf.folders[2].parent = 0
	p := project.New(spr.NewMemStore())
	if _, err := Decode(bytes.NewReader(tf.bytes(t)), dir, p, testSprites(4)); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualString(t, "child", p.RootSpriteFolder.SubFolders[0].Name, "Ego")
	ttesting.AssertEqualString(t, "grandchild", p.RootSpriteFolder.SubFolders[0].SubFolders[0].Name, "Characters")
}

func TestRejects(t *testing.T) {
	dir := roomDir(t)
	defer os.RemoveAll(dir)

	tests := []struct {
		name  string
		patch func(*testFile)
		match func(error) bool
	}{
		{"signature", func(tf *testFile) { tf.signature = "AGSEditorInfX\x00" }, ags.IsFormat},
		{"version", func(tf *testFile) { tf.version = 6 }, ags.IsUnsupportedVersion},
		{"bad parent", func(tf *testFile) { tf.folders[2].parent = 3 }, ags.IsStructural},
		{"parent loop", func(tf *testFile) { tf.folders[1].parent = 2; tf.folders[2].parent = 1 }, ags.IsStructural},
		{"root with parent", func(tf *testFile) { tf.folders[0].parent = 1 }, ags.IsStructural},
		{"no folders", func(tf *testFile) { tf.folders = nil }, ags.IsStructural},
		{"module header", func(tf *testFile) { tf.modHeader = 2 }, ags.IsFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := newTestFile()
			tt.patch(tf)
			p := oldProject()
			root := p.RootSpriteFolder
			_, err := Decode(bytes.NewReader(tf.bytes(t)), dir, p, testSprites(4))
			ttesting.AssertError(t, tt.name, err, tt.match)
			if p.RootScriptFolder.ScriptByFileName("stale.asc") == nil {
				t.Errorf("script tree changed on failure")
			}
			if p.RootSpriteFolder != root {
				t.Errorf("sprite tree changed on failure")
			}
		})
	}
}

func TestTruncated(t *testing.T) {
	b := newTestFile().bytes(t)
	p := oldProject()
	if _, err := Decode(bytes.NewReader(b[:len(b)-20]), "", p, testSprites(4)); err == nil {
		t.Fatalf("want error for a truncated file")
	}
	ttesting.AssertEqualInt(t, "scripts", len(p.RootScriptFolder.AllScriptsFlat()), 1)
}

func TestImport(t *testing.T) {
	dir := roomDir(t, "room1.crm")
	defer os.RemoveAll(dir)
	if err := ioutil.WriteFile(filepath.Join(dir, "editor.dat"), newTestFile().bytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	p := oldProject()
	warnings, err := Import(filepath.Join(dir, "ac2game.dta"), p, testSprites(4))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	ttesting.AssertEqualInt(t, "warnings", len(warnings), 0)
	ttesting.AssertEqualInt(t, "rooms", len(p.Rooms), 1)
	ttesting.AssertEqualString(t, "description", p.Rooms[0].Description, "Street")

	if _, err := Import(filepath.Join(dir, "missing", "ac2game.dta"), p, nil); err == nil {
		t.Errorf("want error for a missing editor.dat")
	}
}

func TestRoomNumber(t *testing.T) {
	tests := []struct {
		name string
		n    int
		ok   bool
	}{
		{"room1.crm", 1, true},
		{"ROOM12.CRM", 12, true},
		{"room01.crm", 1, false},
		{"room.crm", 0, false},
		{"roomx.crm", 0, false},
		{"room3.crm.bak", 3, false},
		{"room-1.crm", 0, false},
		{"room+1.crm", 0, false},
	}
	for _, tt := range tests {
		n, ok := roomNumber(tt.name)
		ttesting.AssertEqualBool(t, tt.name, ok, tt.ok)
		if ok {
			ttesting.AssertEqualInt(t, tt.name, n, tt.n)
		}
	}
}

func TestNegativeRoomNumberSkipped(t *testing.T) {
	dir := roomDir(t, "room-1.crm", "room1.crm")
	defer os.RemoveAll(dir)

	p := oldProject()
	warnings, err := Decode(bytes.NewReader(newTestFile().bytes(t)), dir, p, testSprites(4))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualInt(t, "warnings", len(warnings), 1)
	if !strings.Contains(warnings[0].Message, "room-1.crm") {
		t.Errorf("unexpected warning %q", warnings[0].Message)
	}
	ttesting.AssertEqualInt(t, "rooms", len(p.Rooms), 1)
	ttesting.AssertEqualInt(t, "room number", p.Rooms[0].Number, 1)
	ttesting.AssertEqualString(t, "description", p.Rooms[0].Description, "Street")
}

func TestFolderNameEncoding(t *testing.T) {
	dir := roomDir(t)
	defer os.RemoveAll(dir)

	tf := newTestFile()
	tf.folders[1].name = "Caf\xe9"
	p := oldProject()
	if _, err := Decode(bytes.NewReader(tf.bytes(t)), dir, p, testSprites(4)); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualString(t, "name", p.RootSpriteFolder.SubFolders[0].Name, "Caf\u00e9")
}
