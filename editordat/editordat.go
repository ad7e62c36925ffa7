// Package editordat upgrades a legacy project by reading the editor.dat file
// kept beside its game file: the global script pair, the sprite folder tree,
// room descriptions and script modules.
//
// Nothing in the destination project changes unless the whole file decodes.
package editordat

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bradfitz/iter"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/binio"
	"badc0de.net/pkg/go-ags/paths"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/scm"
	"badc0de.net/pkg/go-ags/spr"
	"badc0de.net/pkg/go-ags/textenc"
)

const (
	// Signature opens every editor.dat file.
	Signature = "AGSEditorInfo\x00"
	// Version is the only editor.dat version that can be upgraded.
	Version = 7

	folderSlots     = 240
	folderNameWidth = 30
	modulesHeader   = 1

	convertedVariables = "// Automatically converted interaction variables\n"
)

const what = "editor data file"

// upgrade is everything decoded from the file, held until it can be
// committed to the project in one go.
type upgrade struct {
	header, global *project.Script
	rootSprites    *spr.Folder
	rooms          []*project.Room
	modules        []project.ScriptAndHeader
}

// Import upgrades p from the editor.dat beside gameFile. Sprites are taken
// from spriteList, which maps sprite numbers to the sprites loaded from the
// legacy sprite file. Room files are looked for in the game file's directory.
func Import(gameFile string, p *project.Project, spriteList map[int]*spr.Sprite) (ags.Warnings, error) {
	name := paths.EditorDat(gameFile)
	var warnings ags.Warnings
	err := ags.ReadFile(name, func(r io.Reader) error {
		var err error
		warnings, err = Decode(r, filepath.Dir(gameFile), p, spriteList)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "upgrading from %s", name)
	}
	return warnings, nil
}

// Decode reads an editor.dat stream into p. dir is the project directory
// scanned for room files.
func Decode(r io.Reader, dir string, p *project.Project, spriteList map[int]*spr.Sprite) (ags.Warnings, error) {
	br := binio.NewReader(r)
	sig := br.Bytes(len(Signature))
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading editor data signature")
	}
	if !bytes.Equal(sig, []byte(Signature)) {
		return nil, ags.Formatf(what, "bad signature %q", sig)
	}
	if v := br.Int32(); br.Err() == nil && v != Version {
		return nil, &ags.UnsupportedVersionError{What: what, Got: int(v), Want: strconv.Itoa(Version)}
	}

	var warnings ags.Warnings
	u := &upgrade{}
	var err error
	if u.header, u.global, err = readGlobalScripts(br, p.OldInteractionVariables); err != nil {
		return nil, err
	}
	if u.rootSprites, err = readSpriteFolders(br, spriteList, &warnings); err != nil {
		return nil, err
	}
	if u.rooms, err = readRooms(br, dir, &warnings); err != nil {
		return nil, err
	}
	if u.modules, err = readModules(br); err != nil {
		return nil, err
	}

	// Voice file list, no longer used.
	n := br.Int32()
	if br.Err() == nil && n < 0 {
		return nil, ags.Formatf(what, "voice file list length %d", n)
	}
	br.Skip(int(n))
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading editor data")
	}
	// Plugin state follows; it is not imported.

	u.commit(p)
	glog.V(2).Infof("editordat: upgraded project with %d modules, %d rooms, %d warnings", len(u.modules), len(u.rooms), len(warnings))
	return warnings, nil
}

func (u *upgrade) commit(p *project.Project) {
	p.RootScriptFolder.Clear()
	for _, m := range u.modules {
		p.RootScriptFolder.Add(m)
	}
	p.RootScriptFolder.Add(project.ScriptAndHeader{Header: u.header, Script: u.global})
	for _, s := range p.RootScriptFolder.AllScriptsFlat() {
		s.Modified = true
	}
	p.RootSpriteFolder = u.rootSprites
	p.Rooms = u.rooms
}

// readScriptText reads a text stored with its terminator counted in the
// length.
func readScriptText(br *binio.Reader, name string) (string, error) {
	n := br.Int32()
	if err := br.Err(); err != nil {
		return "", errors.Wrapf(err, "reading %s", name)
	}
	if n < 1 {
		return "", ags.Formatf(what, "%s has length %d", name, n)
	}
	b := br.Bytes(int(n) - 1)
	br.Byte()
	if err := br.Err(); err != nil {
		return "", errors.Wrapf(err, "reading %s", name)
	}
	return textenc.Default.Decode(b)
}

func readGlobalScripts(br *binio.Reader, vars []project.InteractionVariable) (header, global *project.Script, err error) {
	headerText, err := readScriptText(br, project.GlobalHeaderFileName)
	if err != nil {
		return nil, nil, err
	}
	globalText, err := readScriptText(br, project.GlobalScriptFileName)
	if err != nil {
		return nil, nil, err
	}
	header = &project.Script{
		FileName: project.GlobalHeaderFileName,
		Text:     headerText + variableImports(vars),
		IsHeader: true,
	}
	global = &project.Script{
		FileName: project.GlobalScriptFileName,
		Text:     variableDefinitions(vars) + globalText,
	}
	return header, global, nil
}

// variableImports declares the interaction variables for every script.
func variableImports(vars []project.InteractionVariable) string {
	var b strings.Builder
	b.WriteString(convertedVariables)
	for _, v := range vars {
		fmt.Fprintf(&b, "import int %s;\n", v.ScriptName)
	}
	return b.String()
}

// variableDefinitions defines and exports the interaction variables. It goes
// ahead of the global script so the script body can use them.
func variableDefinitions(vars []project.InteractionVariable) string {
	var b strings.Builder
	b.WriteString(convertedVariables)
	for _, v := range vars {
		fmt.Fprintf(&b, "int %s = %d;\nexport %s;\n", v.ScriptName, v.Value, v.ScriptName)
	}
	return b.String()
}

// readSpriteFolders reads the folder table and links it into a tree rooted at
// folder 0. A parent may come after its children, so linking waits until
// every folder has been read.
func readSpriteFolders(br *binio.Reader, spriteList map[int]*spr.Sprite, warnings *ags.Warnings) (*spr.Folder, error) {
	count := int(br.Int32())
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading sprite folder count")
	}
	if count < 1 {
		return nil, &ags.StructuralError{Reason: fmt.Sprintf("%d sprite folders, want at least the root", count)}
	}
	var folders []*spr.Folder
	var parents []int
	var err error

	claimed := make(map[int]bool)
	for i := range iter.N(count) {
		f := spr.NewFolder("")
		numItems := int(br.Int32())
		for j := range iter.N(folderSlots) {
			num := int(br.Int16())
			if j >= numItems || num < 0 || br.Err() != nil {
				continue
			}
			s, ok := spriteList[num]
			if !ok || claimed[num] {
				msg := fmt.Sprintf("Sprite %d not found whilst importing the sprite folder list", num)
				glog.Warning(msg)
				warnings.AddMissingSprite(num, "%s", msg)
				continue
			}
			claimed[num] = true
			f.Sprites = append(f.Sprites, s)
		}
		parent := int(br.Int16())
		name := br.NullTerminated(folderNameWidth)
		if err := br.Err(); err != nil {
			return nil, errors.Wrapf(err, "reading sprite folder %d", i)
		}
		if f.Name, err = textenc.Default.Decode(name); err != nil {
			return nil, errors.Wrapf(err, "decoding name of sprite folder %d", i)
		}
		folders = append(folders, f)
		parents = append(parents, parent)
	}

	if parents[0] >= 0 {
		return nil, &ags.StructuralError{Reason: fmt.Sprintf("root folder has parent %d", parents[0])}
	}
	for i, parent := range parents {
		if parent >= count {
			return nil, &ags.StructuralError{Reason: fmt.Sprintf("folder %d has parent %d", i, parent)}
		}
	}
	for i := 1; i < count; i++ {
		if err := checkReachesRoot(parents, i); err != nil {
			return nil, err
		}
		parent := parents[i]
		if parent < 0 {
			glog.Warningf("editordat: sprite folder %d %q has no parent; placing it under the root", i, folders[i].Name)
			parent = 0
		}
		folders[parent].SubFolders = append(folders[parent].SubFolders, folders[i])
	}
	if folders[0].Name == "" {
		folders[0].Name = "Main"
	}
	return folders[0], nil
}

// checkReachesRoot follows the parent chain from folder i and fails if it
// loops instead of ending at the root.
func checkReachesRoot(parents []int, i int) error {
	at := i
	for range iter.N(len(parents)) {
		if at <= 0 || parents[at] < 0 {
			return nil
		}
		at = parents[at]
	}
	return &ags.StructuralError{Reason: fmt.Sprintf("folder %d has parent %d, which loops back to it", i, parents[i])}
}

// roomNumber extracts n from a file named room<n>.crm, ignoring case. Any
// other spelling, such as a leading zero or a sign, is rejected.
func roomNumber(fileName string) (int, bool) {
	if len(fileName) < 4 {
		return 0, false
	}
	rest := fileName[4:]
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:dot])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, strings.EqualFold(fmt.Sprintf("room%d.crm", n), fileName)
}

// readRooms lists the room files of dir and then reads the room descriptions,
// which are stored by room number.
func readRooms(br *binio.Reader, dir string, warnings *ags.Warnings) ([]*project.Room, error) {
	files, err := paths.Glob(dir, "room*.crm")
	if err != nil {
		return nil, errors.Wrap(err, "looking for room files")
	}
	byNumber := make(map[int]*project.Room)
	var rooms []*project.Room
	for _, file := range files {
		n, ok := roomNumber(filepath.Base(file))
		if !ok || byNumber[n] != nil {
			msg := fmt.Sprintf("The room file '%s' does not have a recognised name and will not be part of the game.", file)
			glog.Warning(msg)
			warnings.Addf("%s", msg)
			continue
		}
		byNumber[n] = &project.Room{Number: n}
		rooms = append(rooms, byNumber[n])
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })

	count := int(br.Int32())
	if br.Err() == nil && count < 0 {
		return nil, ags.Formatf(what, "room count %d", count)
	}
	for i := 0; i < count && br.Err() == nil; i++ {
		desc := br.NullTerminated(0)
		if r := byNumber[i]; r != nil && br.Err() == nil {
			if r.Description, err = textenc.Default.Decode(desc); err != nil {
				return nil, err
			}
		}
	}
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading room descriptions")
	}
	return rooms, nil
}

// readModules reads the embedded script modules, whose text is always in
// the legacy system encoding.
func readModules(br *binio.Reader) ([]project.ScriptAndHeader, error) {
	if h := br.Int32(); br.Err() == nil && h != modulesHeader {
		return nil, ags.Formatf(what, "invalid header %d for script modules", h)
	}
	count := int(br.Int32())
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading script module count")
	}
	if count < 0 {
		return nil, ags.Formatf(what, "script module count %d", count)
	}
	var out []project.ScriptAndHeader
	for i := 0; i < count; i++ {
		rec := scm.ReadRecord(br)
		if err := br.Err(); err != nil {
			return nil, errors.Wrapf(err, "reading script module %d", i)
		}
		m, err := rec.Decode(textenc.Default)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding script module %d", i)
		}
		sh := m.Scripts()
		sh.Header.FileName = fmt.Sprintf("Module%d.ash", i)
		sh.Script.FileName = fmt.Sprintf("Module%d.asc", i)
		out = append(out, sh)
	}
	return out, nil
}
