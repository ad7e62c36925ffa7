package xmls

import (
	"encoding/base64"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/spr"
)

// SpriteData is an embedded sprite: packed pixel rows, base64 encoded, and
// the attributes needed to decode them.
type SpriteData struct {
	XMLName      xml.Name `xml:"SpriteData"`
	Number       int      `xml:"Number,attr"`
	ColorDepth   int      `xml:"ColorDepth,attr"`
	AlphaChannel string   `xml:"AlphaChannel,attr"`
	Width        int      `xml:"Width,attr"`
	Height       int      `xml:"Height,attr"`
	// Resolution is absent from version 1 documents.
	Resolution string `xml:"Resolution,attr,omitempty"`
	Data       string `xml:",chardata"`
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// SpriteWriter collects sprite payloads for export, writing each sprite
// number at most once no matter how many times it is added.
type SpriteWriter struct {
	p       *project.Project
	written map[int]bool
}

func NewSpriteWriter(p *project.Project) *SpriteWriter {
	return &SpriteWriter{p: p, written: make(map[int]bool)}
}

// Add returns payloads for those of ids not yet written. Non-positive ids
// mean "no sprite" and are skipped.
func (w *SpriteWriter) Add(ids ...int) ([]SpriteData, error) {
	var out []SpriteData
	for _, id := range ids {
		if id <= 0 || w.written[id] {
			continue
		}
		d, err := NewSpriteData(w.p, id)
		if err != nil {
			return nil, err
		}
		w.written[id] = true
		out = append(out, *d)
	}
	return out, nil
}

// NewSpriteData packs sprite id for embedding.
func NewSpriteData(p *project.Project, id int) (*SpriteData, error) {
	s := p.FindSprite(id)
	if s == nil {
		return nil, errors.Errorf("sprite %d not found", id)
	}
	e, err := spr.Export(p.Sprites, id)
	if err != nil {
		return nil, err
	}
	return &SpriteData{
		Number:       id,
		ColorDepth:   e.ColorDepth,
		AlphaChannel: formatBool(e.Flags&spr.FlagAlphaChannel != 0),
		Width:        e.Width,
		Height:       e.Height,
		Resolution:   s.Resolution.String(),
		Data:         base64.StdEncoding.EncodeToString(e.Data),
	}, nil
}

// raw decodes the payload, ignoring any whitespace the document was
// formatted with.
func (d *SpriteData) raw() ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(d.Data), ""))
}

// ImportSprites creates a project sprite for every payload, adds it to folder
// and records old number -> new number in mapping. Resolution tags go
// through the project's fix-up rule; a missing tag counts as Real.
//
// If any payload fails, the sprites this call already allocated are freed and
// removed from folder again.
func ImportSprites(what string, data []SpriteData, pal *spr.Palette, folder *spr.Folder, mapping map[int]int, p *project.Project) (err error) {
	var added []*spr.Sprite
	defer func() {
		if err == nil {
			return
		}
		for _, s := range added {
			if derr := p.Sprites.Delete(s.Number); derr != nil {
				glog.Warningf("xmls: freeing sprite %d after failed import: %v", s.Number, derr)
			}
			delete(mapping, reverse(mapping, s.Number))
		}
		folder.Sprites = folder.Sprites[:len(folder.Sprites)-len(added)]
	}()

	for i := range data {
		d := &data[i]
		s, err := importSprite(what, d, pal, p)
		if err != nil {
			return errors.Wrapf(err, "importing sprite %d", d.Number)
		}
		added = append(added, s)
		folder.Sprites = append(folder.Sprites, s)
		mapping[d.Number] = s.Number
		glog.V(2).Infof("xmls: sprite %d imported as %d", d.Number, s.Number)
	}
	return nil
}

func importSprite(what string, d *SpriteData, pal *spr.Palette, p *project.Project) (*spr.Sprite, error) {
	alpha, err := strconv.ParseBool(d.AlphaChannel)
	if err != nil {
		return nil, ags.Formatf(what, "bad AlphaChannel %q", d.AlphaChannel)
	}
	res := spr.ResolutionReal
	if d.Resolution != "" {
		if res, err = spr.ParseResolution(d.Resolution); err != nil {
			return nil, ags.Formatf(what, "%v", err)
		}
	}
	raw, err := d.raw()
	if err != nil {
		return nil, ags.Formatf(what, "bad sprite payload: %v", err)
	}
	s, err := spr.Import(p.Sprites, d.ColorDepth, d.Width, d.Height, alpha, raw, pal, p.FixupResolution(res))
	if err != nil {
		return nil, ags.Formatf(what, "%v", err)
	}
	return s, nil
}

func reverse(mapping map[int]int, value int) int {
	for k, v := range mapping {
		if v == value {
			return k
		}
	}
	return 0
}
