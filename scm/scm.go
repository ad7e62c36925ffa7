// Package scm reads and writes script module files: a header and a script
// body distributed together with author metadata and a unique key.
//
// Text in a module is stored as raw bytes. Files written by newer editors
// carry a code page hint after the fixed record; older files are read with
// the caller's default encoding.
package scm

import (
	"bytes"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/binio"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/textenc"
)

const (
	// Signature opens every module file.
	Signature = "AGSScriptModule\x00"
	// Version is the only record version there is.
	Version = 1

	sectionEncoding = 0xb4f76a66
	trailer         = 0xb4f76a65
)

const what = "script module"

// Module is a decoded script module.
type Module struct {
	Author      string
	Description string
	Name        string
	Version     string
	Script      string
	Header      string
	UniqueKey   int
}

// Record is the module record with its text still in raw bytes. Legacy
// project files embed the same record without signature or trailing sections.
type Record struct {
	Author, Description, Name, Version []byte
	Script, Header                     []byte
	UniqueKey                          int32
}

// ReadRecord reads the fixed part of a module record. Check r.Err afterwards.
func ReadRecord(r *binio.Reader) *Record {
	rec := &Record{}
	rec.Author = r.NullTerminated(0)
	rec.Description = r.NullTerminated(0)
	rec.Name = r.NullTerminated(0)
	rec.Version = r.NullTerminated(0)
	rec.Script = r.LongTerminated()
	rec.Header = r.LongTerminated()
	rec.UniqueKey = r.Int32()
	r.Int32() // permissions, obsolete
	r.Int32() // owner flag, obsolete
	return rec
}

// Decode converts the record's text with enc.
func (rec *Record) Decode(enc *textenc.Encoding) (*Module, error) {
	m := &Module{UniqueKey: int(rec.UniqueKey)}
	for _, f := range []struct {
		dst *string
		src []byte
	}{
		{&m.Author, rec.Author},
		{&m.Description, rec.Description},
		{&m.Name, rec.Name},
		{&m.Version, rec.Version},
		{&m.Script, rec.Script},
		{&m.Header, rec.Header},
	} {
		s, err := enc.Decode(f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = s
	}
	return m, nil
}

// Decode reads a module file. Text is decoded only once the whole record has
// been read, with the encoding named by the file's code page hint, or with
// defEnc if there is none or it is not a code page textenc knows.
func Decode(r io.Reader, defEnc *textenc.Encoding) (*Module, error) {
	br := binio.NewReader(r)
	sig := br.Bytes(len(Signature))
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading script module signature")
	}
	if !bytes.Equal(sig, []byte(Signature)) {
		return nil, ags.Formatf(what, "bad signature %q", sig)
	}
	if v := br.Int32(); br.Err() == nil && v != Version {
		return nil, &ags.UnsupportedVersionError{What: what, Got: int(v), Want: "1"}
	}

	rec := ReadRecord(br)
	codePage := int32(0)
	if section, ok := br.OptionalUint32(); ok && section == sectionEncoding {
		codePage = br.Int32()
	}
	if err := br.Err(); err != nil {
		return nil, errors.Wrap(err, "reading script module")
	}

	enc := defEnc
	if codePage > 0 {
		if hinted, err := textenc.ByCodePage(int(codePage)); err == nil {
			enc = hinted
		} else {
			glog.Warningf("scm: ignoring encoding hint: %v", err)
		}
	}
	glog.V(2).Infof("scm: decoding module text as %s", enc)
	return rec.Decode(enc)
}

// Encode writes a module file from a header/script pair. Metadata is taken
// from script. All text is encoded with enc, whose code page is recorded as
// the hint.
func Encode(w io.Writer, header, script *project.Script, enc *textenc.Encoding) error {
	var fields [6][]byte
	for i, s := range []string{script.Author, script.Description, script.Name, script.Version, script.Text, header.Text} {
		b, err := enc.Encode(s)
		if err != nil {
			return err
		}
		fields[i] = b
	}

	bw := binio.NewWriter(w)
	bw.Bytes([]byte(Signature))
	bw.Int32(Version)
	for _, b := range fields[:4] {
		bw.StringTerminated(b)
	}
	bw.LongTerminated(fields[4])
	bw.LongTerminated(fields[5])
	bw.Int32(int32(script.UniqueKey))
	bw.Zeros(4)
	bw.Zeros(4)
	bw.Uint32(sectionEncoding)
	bw.Int32(int32(enc.CodePage))
	bw.Uint32(trailer)
	return errors.Wrap(bw.Err(), "writing script module")
}

// Scripts turns a module into a header/script pair carrying the module's
// metadata. File names are left for the caller to assign.
func (m *Module) Scripts() project.ScriptAndHeader {
	newScript := func(text string, isHeader bool) *project.Script {
		return &project.Script{
			Text:        text,
			Name:        m.Name,
			Description: m.Description,
			Author:      m.Author,
			Version:     m.Version,
			UniqueKey:   m.UniqueKey,
			IsHeader:    isHeader,
		}
	}
	return project.ScriptAndHeader{
		Header: newScript(m.Header, true),
		Script: newScript(m.Script, false),
	}
}

// AddImportedScriptModule adds the module's header/script pair to the root
// script folder of p and returns it.
func AddImportedScriptModule(p *project.Project, m *Module) project.ScriptAndHeader {
	sh := m.Scripts()
	p.RootScriptFolder.Add(sh)
	glog.V(2).Infof("scm: added module %q (key %d)", m.Name, m.UniqueKey)
	return sh
}

// ImportFile decodes the module file name and adds it to p.
func ImportFile(name string, p *project.Project, defEnc *textenc.Encoding) (project.ScriptAndHeader, error) {
	var m *Module
	err := ags.ReadFile(name, func(r io.Reader) error {
		var err error
		m, err = Decode(r, defEnc)
		return err
	})
	if err != nil {
		return project.ScriptAndHeader{}, errors.Wrapf(err, "importing %s", name)
	}
	return AddImportedScriptModule(p, m), nil
}

// ExportFile writes a module file. Nothing is left behind on failure.
func ExportFile(name string, header, script *project.Script, enc *textenc.Encoding) error {
	return errors.Wrapf(ags.WriteFile(name, func(w io.Writer) error {
		return Encode(w, header, script, enc)
	}), "exporting %s", name)
}
