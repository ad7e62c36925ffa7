// Package paths locates the files of a project directory. Names are matched
// case-insensitively, since projects usually come from case-insensitive file
// systems.
package paths

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// EditorDatName is the legacy editor state file kept beside the game file.
const EditorDatName = "editor.dat"

// EditorDat returns the path of the legacy editor state file belonging to
// gameFile.
func EditorDat(gameFile string) string {
	return filepath.Join(filepath.Dir(gameFile), EditorDatName)
}

// Find looks for fileName in each of dirs in turn and returns the path of
// the first match, or "" if there is none.
func Find(fileName string, dirs ...string) string {
	for _, dir := range dirs {
		matches, err := Glob(dir, fileName)
		if err != nil || len(matches) == 0 {
			continue
		}
		glog.Infof("paths.Find(%q)=%s", fileName, matches[0])
		return matches[0]
	}
	return ""
}

// Glob returns the regular files in dir whose names match pattern, ignoring
// case, sorted by name. Only the file name is matched; pattern uses
// filepath.Match syntax.
func Glob(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	pattern = strings.ToLower(pattern)
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ok, err := filepath.Match(pattern, strings.ToLower(e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "matching %q", pattern)
		}
		if ok {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
