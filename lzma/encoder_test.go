// Copyright 2014-2016 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"bytes"
	"io"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	const text = "The quick brown fox jumps over the lazy dog. " +
		"The quick brown fox jumps over the lazy dog. " +
		"Sometimes plain repetition is the best compressor."

	tests := []Preset{
		PresetByLevel(0),
		PresetByLevel(6),
		PresetByLevel(9),
	}
	for i, preset := range tests {
		var buf bytes.Buffer
		w, err := NewWriterParams(&buf, preset.EncoderParams())
		if err != nil {
			t.Fatalf("#%d NewWriterParams error %s", i, err)
		}
		if _, err = w.Write([]byte(text)); err != nil {
			t.Fatalf("#%d Write error %s", i, err)
		}
		if err = w.Close(); err != nil {
			t.Fatalf("#%d Close error %s", i, err)
		}

		r, err := NewReaderParams(&buf, preset.DecoderParams())
		if err != nil {
			t.Fatalf("#%d NewReaderParams error %s", i, err)
		}
		out := make([]byte, len(text)+16)
		n, err := readAll(r, out)
		if err != nil {
			t.Fatalf("#%d readAll error %s", i, err)
		}
		if string(out[:n]) != text {
			t.Fatalf("#%d roundtrip mismatch: got %q; want %q",
				i, out[:n], text)
		}
	}
}

// readAll reads from r until io.EOF, returning the number of bytes
// placed into p. p must be large enough for the whole stream.
func readAll(r *Reader, p []byte) (n int, err error) {
	for {
		k, rerr := r.Read(p[n:])
		n += k
		if rerr != nil {
			if rerr == io.EOF {
				return n, nil
			}
			return n, rerr
		}
		if k == 0 {
			return n, nil
		}
	}
}
