// Package textenc maps Windows code page numbers, as recorded in asset files,
// to text encodings, and converts between those encodings and Go strings.
package textenc

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Well-known code pages.
const (
	CodePageWindows1252 = 1252
	CodePageUTF8        = 65001
)

// Encoding is a byte-oriented text encoding identified by its code page.
type Encoding struct {
	CodePage int
	Name     string
	enc      encoding.Encoding
}

func (e *Encoding) String() string {
	return fmt.Sprintf("%s (code page %d)", e.Name, e.CodePage)
}

// Decode converts bytes in this encoding to a string.
func (e *Encoding) Decode(b []byte) (string, error) {
	out, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "decoding text as %s", e.Name)
	}
	return string(out), nil
}

// Encode converts a string to bytes in this encoding. Characters the code page
// cannot represent are replaced rather than failing the whole export.
func (e *Encoding) Encode(s string) ([]byte, error) {
	out, err := encoding.ReplaceUnsupported(e.enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "encoding text as %s", e.Name)
	}
	return out, nil
}

// NewReader returns a reader that decodes r from this encoding into UTF-8.
func (e *Encoding) NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, e.enc.NewDecoder())
}

// CharsetReader has the signature of encoding/xml's Decoder.CharsetReader and
// accepts any charset ByName knows.
func CharsetReader(charset string, input io.Reader) (io.Reader, error) {
	e, err := ByName(charset)
	if err != nil {
		return nil, err
	}
	return e.NewReader(input), nil
}

type codePage struct {
	name string
	enc  encoding.Encoding
}

var codePages = map[int]codePage{
	437:   {"IBM437", charmap.CodePage437},
	850:   {"IBM850", charmap.CodePage850},
	852:   {"IBM852", charmap.CodePage852},
	855:   {"IBM855", charmap.CodePage855},
	858:   {"IBM00858", charmap.CodePage858},
	860:   {"IBM860", charmap.CodePage860},
	862:   {"IBM862", charmap.CodePage862},
	863:   {"IBM863", charmap.CodePage863},
	865:   {"IBM865", charmap.CodePage865},
	866:   {"IBM866", charmap.CodePage866},
	874:   {"windows-874", charmap.Windows874},
	932:   {"shift_jis", japanese.ShiftJIS},
	936:   {"gbk", simplifiedchinese.GBK},
	949:   {"euc-kr", korean.EUCKR},
	950:   {"big5", traditionalchinese.Big5},
	1250:  {"windows-1250", charmap.Windows1250},
	1251:  {"windows-1251", charmap.Windows1251},
	1252:  {"windows-1252", charmap.Windows1252},
	1253:  {"windows-1253", charmap.Windows1253},
	1254:  {"windows-1254", charmap.Windows1254},
	1255:  {"windows-1255", charmap.Windows1255},
	1256:  {"windows-1256", charmap.Windows1256},
	1257:  {"windows-1257", charmap.Windows1257},
	1258:  {"windows-1258", charmap.Windows1258},
	20866: {"koi8-r", charmap.KOI8R},
	21866: {"koi8-u", charmap.KOI8U},
	28591: {"iso-8859-1", charmap.ISO8859_1},
	28592: {"iso-8859-2", charmap.ISO8859_2},
	28595: {"iso-8859-5", charmap.ISO8859_5},
	28597: {"iso-8859-7", charmap.ISO8859_7},
	28605: {"iso-8859-15", charmap.ISO8859_15},
	65001: {"utf-8", unicode.UTF8},
}

// ByCodePage returns the encoding for a code page number.
func ByCodePage(cp int) (*Encoding, error) {
	c, ok := codePages[cp]
	if !ok {
		return nil, errors.Errorf("unknown code page %d", cp)
	}
	return &Encoding{CodePage: cp, Name: c.name, enc: c.enc}, nil
}

// ByName looks an encoding up by its IANA name or alias ("windows-1251",
// "latin1", "utf8", ...). Only encodings with a known code page are accepted,
// since that number is what gets written into files.
func ByName(name string) (*Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, errors.Errorf("unknown encoding %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return nil, errors.Wrapf(err, "naming encoding %q", name)
	}
	for cp, c := range codePages {
		if c.enc == enc || strings.EqualFold(c.name, canonical) {
			return &Encoding{CodePage: cp, Name: c.name, enc: c.enc}, nil
		}
	}
	return nil, errors.Errorf("encoding %q has no code page", name)
}

// Default is the fixed "system" encoding of legacy files.
var Default = mustCodePage(CodePageWindows1252)

// UTF8 is the encoding modern projects default to.
var UTF8 = mustCodePage(CodePageUTF8)

func mustCodePage(cp int) *Encoding {
	e, err := ByCodePage(cp)
	if err != nil {
		panic(err)
	}
	return e
}
