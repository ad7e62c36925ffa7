// Package cha imports and exports single characters together with the views
// they use.
//
// Two formats exist. The legacy binary format (.cha, versions 5 and 6) is a
// fixed-offset record followed by a variable number of embedded views, each
// with its sprites. The current format (.chr) is an XML document that embeds
// the same information plus the palette.
//
// Every import reads and validates the whole file before touching the
// project, so a rejected file leaves the project as it was.
package cha
