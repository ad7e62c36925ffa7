package xmls

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-ags"
	"badc0de.net/pkg/go-ags/textenc"
)

// VersionAttr is the name of the version attribute on every root element.
const VersionAttr = "Version"

// Decode reads a whole document into doc. Documents declaring a non-UTF-8
// charset are transcoded through textenc. Malformed XML, including a root
// element other than the one doc expects, is reported as a FormatError for
// the named format.
func Decode(r io.Reader, what string, doc interface{}) error {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = textenc.CharsetReader
	if err := dec.Decode(doc); err != nil {
		if err == io.EOF {
			return &ags.FormatError{What: what, Reason: "empty document"}
		}
		return errors.WithStack(&ags.FormatError{What: what, Reason: err.Error()})
	}
	return nil
}

// CheckVersion validates the root element's version attribute. Versions up to
// and including max are accepted.
func CheckVersion(what, version string, max int) (int, error) {
	v, err := strconv.Atoi(version)
	if err != nil {
		return 0, ags.Formatf(what, "bad %s attribute %q", VersionAttr, version)
	}
	if v > max {
		return v, &ags.UnsupportedVersionError{What: what, Got: v, Want: "<= " + strconv.Itoa(max)}
	}
	return v, nil
}

// Encode writes doc as an indented UTF-8 document, preceded by the XML
// declaration and a comment.
func Encode(w io.Writer, comment string, doc interface{}) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "writing xml header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if comment != "" {
		if err := enc.EncodeToken(xml.Comment(" " + comment + " ")); err != nil {
			return errors.Wrap(err, "writing xml comment")
		}
		if err := enc.EncodeToken(xml.CharData("\n")); err != nil {
			return errors.Wrap(err, "writing xml comment")
		}
	}
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding xml")
	}
	if err := enc.Flush(); err != nil {
		return errors.Wrap(err, "flushing xml")
	}
	_, err := io.WriteString(w, "\n")
	return errors.Wrap(err, "writing xml")
}
