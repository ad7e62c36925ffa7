// Command agsport converts and inspects asset files: script modules,
// characters, GUIs and legacy editor.dat projects.
//
//	agsport [flags] module-info FILE...
//	agsport [flags] module-convert IN.scm OUT.scm
//	agsport [flags] char-convert IN.cha|IN.chr OUT.cha|OUT.chr
//	agsport [flags] gui-info FILE.guf
//	agsport [flags] upgrade DIR
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-ags/config"
	"badc0de.net/pkg/go-ags/paths"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
	"badc0de.net/pkg/go-ags/textenc"
)

var (
	configPath string

	encoding      = flag.String("encoding", "", "text encoding for new-format text, as code page number or name; overrides text_encoding")
	legacyVersion = flag.Int("legacy_version", 0, "legacy character file version to write, 5 or 6; overrides legacy_character_version")
	relative      = flag.Bool("relative_resolutions", false, "keep low/high resolution sprite tags; overrides allow_relative_resolutions")
	preview       = flag.Bool("preview", false, "print decoded sprites on the terminal; overrides sprite_preview")
	printMode     = flag.String("print_mode", "graphics", "sprite preview mode: graphics, truecolor, 256, iterm or none")
	blanks        = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize      = flag.Bool("downsize", true, "shrink previews to fit the terminal")
	jobs          = flag.Int("j", 4, "files decoded at once by module-info")
	spriteCount   = flag.Int("sprite_count", 0, "upgrade: number of sprites in the legacy sprite file")
)

type command struct {
	args int // minimum number of arguments
	run  func(cfg *config.Config, args []string) error
}

var commands = map[string]command{
	"module-info":    {1, moduleInfo},
	"module-convert": {2, moduleConvert},
	"char-convert":   {2, charConvert},
	"gui-info":       {1, guiInfo},
	"upgrade":        {1, upgrade},
}

func setupFilePathFlags() {
	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "agsport"))
	}
	paths.SetupFilePathFlag(config.FileName, "config", &configPath, dirs...)
}

// loadConfig reads the configuration file and applies the flags that were
// given explicitly on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "encoding":
			cfg.TextEncoding = *encoding
		case "legacy_version":
			cfg.LegacyCharacterVersion = *legacyVersion
		case "relative_resolutions":
			cfg.AllowRelativeResolutions = *relative
		case "preview":
			cfg.SpritePreview = *preview
		}
	})
	return cfg, cfg.Validate()
}

// newProject returns an empty project set up from cfg.
func newProject(cfg *config.Config) (*project.Project, error) {
	enc, err := cfg.Encoding()
	if err != nil {
		return nil, err
	}
	p := project.New(spr.NewMemStore())
	p.TextEncoding = enc
	p.AllowRelativeResolutions = cfg.AllowRelativeResolutions
	return p, nil
}

// scriptEncoding is the default for files that do not say.
func scriptEncoding(cfg *config.Config) *textenc.Encoding {
	enc, err := cfg.Encoding()
	if err != nil {
		return textenc.UTF8
	}
	return enc
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] COMMAND ARGS...\ncommands: module-info, module-convert, char-convert, gui-info, upgrade\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	setupFilePathFlags()
	flag.Usage = usage
	flagutil.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok || len(args)-1 < cmd.args {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("configuration: %v", err)
	}
	if err := cmd.run(cfg, args[1:]); err != nil {
		glog.Errorf("%s: %v", args[0], err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}
