// Package binio implements the little-endian byte-stream primitives that the
// legacy asset formats are built from: fixed-width integers, null-terminated
// and fixed-width strings, length-prefixed strings and zero padding.
//
// All string helpers work on raw bytes. Callers decide on a text encoding
// (see package textenc) once they know which one applies, which for some
// formats is only after the whole record was read.
//
// Reader and Writer keep the first error they hit and turn every later call
// into a no-op, so a decoder can read a run of fields and check Err once at
// the end of the run.
package binio
