// Copyright 2014-2016 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "io"

// Reader decodes a raw LZMA stream produced by Writer.
type Reader struct {
	dec *Decoder
}

// NewReader creates a reader using the default preset parameters.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderParams(r, Default().DecoderParams())
}

// NewReaderParams creates a reader using the given parameters.
func NewReaderParams(r io.Reader, p DecoderParams) (*Reader, error) {
	dec, err := NewDecoder(r, p)
	if err != nil {
		return nil, err
	}
	return &Reader{dec: dec}, nil
}

// Read decompresses data from the underlying stream.
func (r *Reader) Read(p []byte) (n int, err error) { return r.dec.Read(p) }
