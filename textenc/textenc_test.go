package textenc

import (
	"io/ioutil"
	"strings"
	"testing"

	"badc0de.net/pkg/go-ags/ttesting"
)

func TestByCodePage(t *testing.T) {
	e, err := ByCodePage(1251)
	if err != nil {
		t.Fatalf("code page 1251: %v", err)
	}
	b, err := e.Encode("Привет")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ttesting.AssertEqualBytes(t, "cp1251 bytes", b, []byte{0xcf, 0xf0, 0xe8, 0xe2, 0xe5, 0xf2})
	s, err := e.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualString(t, "round trip", s, "Привет")
}

func TestUnknownCodePage(t *testing.T) {
	if _, err := ByCodePage(12345); err == nil {
		t.Errorf("want error for unknown code page")
	}
}

func TestByName(t *testing.T) {
	for name, want := range map[string]int{
		"windows-1250": 1250,
		"UTF-8":        CodePageUTF8,
		"latin1":       28591,
		"Shift_JIS":    932,
	} {
		e, err := ByName(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		ttesting.AssertEqualInt(t, name, e.CodePage, want)
	}
}

func TestDefaultReplacesUnsupported(t *testing.T) {
	b, err := Default.Encode("a中b")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ttesting.AssertEqualInt(t, "length", len(b), 3)
	ttesting.AssertEqualInt(t, "first", int(b[0]), 'a')
	ttesting.AssertEqualInt(t, "last", int(b[2]), 'b')
}

func TestCharsetReader(t *testing.T) {
	r, err := CharsetReader("windows-1252", strings.NewReader("caf\xe9"))
	if err != nil {
		t.Fatalf("charset reader: %v", err)
	}
	b, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	ttesting.AssertEqualString(t, "decoded", string(b), "café")
}
