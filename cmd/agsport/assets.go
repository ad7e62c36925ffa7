package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-ags/cha"
	"badc0de.net/pkg/go-ags/config"
	"badc0de.net/pkg/go-ags/editordat"
	"badc0de.net/pkg/go-ags/guf"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
)

// charConvert reads a character in either format and writes it in the
// format named by the output extension.
func charConvert(cfg *config.Config, args []string) error {
	p, err := newProject(cfg)
	if err != nil {
		return err
	}
	c, err := cha.ImportFile(args[0], p)
	if err != nil {
		return err
	}
	fmt.Printf("%s %q: %d views, %d sprites\n", c.ScriptName, c.RealName, len(p.Views), len(p.RootSpriteFolder.AllSpritesFlat()))
	if cfg.SpritePreview {
		previewFolder(p, p.RootSpriteFolder)
	}
	return cha.ExportFile(args[1], c, p, cfg.LegacyCharacterVersion)
}

func guiInfo(cfg *config.Config, args []string) error {
	p, err := newProject(cfg)
	if err != nil {
		return err
	}
	g, err := guf.ImportFile(args[0], p)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s GUI) %dx%d, background sprite %d\n", g.Name, g.Kind, g.Width, g.Height, g.BackgroundImage)
	for _, c := range g.Controls {
		fmt.Printf("\t%-20s %-16s at %d,%d size %dx%d sprites %v\n", c.Name, c.Type, c.Left, c.Top, c.Width, c.Height, c.SpritesUsed())
	}
	if cfg.SpritePreview {
		previewFolder(p, p.RootSpriteFolder)
	}
	return nil
}

// upgrade runs the legacy project importer over dir. The legacy sprite file
// itself is not read; -sprite_count says which sprite numbers exist.
func upgrade(cfg *config.Config, args []string) error {
	p, err := newProject(cfg)
	if err != nil {
		return err
	}
	spriteList := make(map[int]*spr.Sprite, *spriteCount)
	for i := 0; i < *spriteCount; i++ {
		spriteList[i] = &spr.Sprite{Number: i}
	}

	gameFile := filepath.Join(args[0], "ac2game.dta")
	if _, err := os.Stat(gameFile); err != nil {
		glog.Warningf("no game file in %s; looking for editor.dat anyway", args[0])
	}
	warnings, err := editordat.Import(gameFile, p, spriteList)
	if err != nil {
		return err
	}

	fmt.Printf("scripts:\n")
	printScripts(p.RootScriptFolder, 1)
	fmt.Printf("rooms:\n")
	for _, r := range p.Rooms {
		fmt.Printf("\t%d\t%s\n", r.Number, r.Description)
	}
	fmt.Printf("sprite folders:\n")
	p.RootSpriteFolder.Walk(func(depth int, f *spr.Folder) {
		fmt.Printf("%*s%s (%d sprites)\n", depth*2+8, "", f.Name, len(f.Sprites))
	})
	if len(warnings) > 0 {
		fmt.Printf("warnings:\n%s\n", warnings)
	}
	return nil
}

func printScripts(f *project.ScriptFolder, depth int) {
	for _, sh := range f.Items {
		fmt.Printf("%*s%s / %s\n", depth*8, "", sh.Header.FileName, sh.Script.FileName)
	}
	for _, sub := range f.SubFolders {
		fmt.Printf("%*s%s/\n", depth*8, "", sub.Name)
		printScripts(sub, depth+1)
	}
}
