package project

// Fixed file names of the global script pair.
const (
	GlobalScriptFileName = "GlobalScript.asc"
	GlobalHeaderFileName = "GlobalScript.ash"
)

// Script is one script text: either a header (.ash) or a body (.asc). Module
// metadata is duplicated on both halves of a pair.
type Script struct {
	FileName    string
	Text        string
	Name        string
	Description string
	Author      string
	Version     string
	UniqueKey   int
	IsHeader    bool
	// Modified marks scripts that must be written out on the next save.
	Modified bool
}

// ScriptAndHeader is a header/body pair, the unit the script tree holds.
type ScriptAndHeader struct {
	Header *Script
	Script *Script
}

// ScriptFolder is a node of the project's script tree.
type ScriptFolder struct {
	Name       string
	Items      []ScriptAndHeader
	SubFolders []*ScriptFolder
}

// Clear removes every script and subfolder.
func (f *ScriptFolder) Clear() {
	f.Items = nil
	f.SubFolders = nil
}

// Add appends a pair to this folder.
func (f *ScriptFolder) Add(p ScriptAndHeader) {
	f.Items = append(f.Items, p)
}

// AllScriptsFlat returns every script in the subtree, headers before bodies.
func (f *ScriptFolder) AllScriptsFlat() []*Script {
	var out []*Script
	for _, p := range f.Items {
		if p.Header != nil {
			out = append(out, p.Header)
		}
		if p.Script != nil {
			out = append(out, p.Script)
		}
	}
	for _, sub := range f.SubFolders {
		out = append(out, sub.AllScriptsFlat()...)
	}
	return out
}

// ScriptByFileName finds a script in the subtree.
func (f *ScriptFolder) ScriptByFileName(name string) *Script {
	for _, s := range f.AllScriptsFlat() {
		if s.FileName == name {
			return s
		}
	}
	return nil
}
