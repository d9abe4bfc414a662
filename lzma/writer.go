// Copyright 2014-2016 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "io"

// Writer writes a raw LZMA stream, the probability-coded sequence of
// literals and matches without any container framing. The properties
// and dictionary capacity must be communicated to the reader through
// some other channel, e.g. a container format's block header.
type Writer struct {
	enc *Encoder
}

// NewWriter creates a writer using the default preset parameters.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterParams(w, Default().EncoderParams())
}

// NewWriterParams creates a writer using the given parameters.
func NewWriterParams(w io.Writer, p EncoderParams) (*Writer, error) {
	enc, err := NewEncoder(w, p)
	if err != nil {
		return nil, err
	}
	return &Writer{enc: enc}, nil
}

// Write compresses p into the underlying stream.
func (w *Writer) Write(p []byte) (n int, err error) { return w.enc.Write(p) }

// Close flushes all data still buffered and terminates the stream.
func (w *Writer) Close() error { return w.enc.Close() }
