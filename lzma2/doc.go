// Package lzma2 provides a reader and a writer for the LZMA2 format.
// LZMA2 adds chunk framing, periodic dictionary and state resets, and
// uncompressed segments on top of the raw LZMA algorithm provided by
// the lzma package. It is the filter used inside .xz container
// streams.
package lzma2
