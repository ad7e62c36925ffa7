package scm

import (
	"bytes"
	"fmt"

	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/textenc"
)

func ExampleDecode() {
	buf := &bytes.Buffer{}
	script := &project.Script{Name: "Tween", Author: "Edmundo", Version: "2.3", Text: "// tweens", UniqueKey: 1}
	header := &project.Script{Text: "// tween api", IsHeader: true}
	if err := Encode(buf, header, script, textenc.UTF8); err != nil {
		fmt.Printf("failed to encode: %s", err)
		return
	}

	m, err := Decode(buf, textenc.Default)
	if err != nil {
		fmt.Printf("failed to decode: %s", err)
		return
	}
	fmt.Printf("%s %s by %s\n", m.Name, m.Version, m.Author)
	// Output: Tween 2.3 by Edmundo
}
