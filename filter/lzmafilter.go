// Copyright 2014-2019 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
	"github.com/ulikunitz/xz/lzma2"
)

// LZMA filter constants.
const (
	LZMAFilterID  = 0x21
	LZMAFilterLen = 3
)

func NewLZMAFilter(cap int64) *LZMAFilter {
	return &LZMAFilter{dictCap: cap}
}

// LZMAFilter declares the LZMA2 filter information stored in an xz
// block header.
type LZMAFilter struct {
	dictCap int64
}

func (f LZMAFilter) GetDictCap() int64 { return f.dictCap }

// String returns a representation of the LZMA filter.
func (f LZMAFilter) String() string {
	return fmt.Sprintf("LZMA dict cap %#x", f.dictCap)
}

// ID returns the ID for the LZMA2 filter.
func (f LZMAFilter) ID() uint64 { return LZMAFilterID }

// MarshalBinary converts the LZMAFilter in its encoded representation.
func (f LZMAFilter) MarshalBinary() (data []byte, err error) {
	c := lzma.EncodeDictCap(f.dictCap)
	return []byte{LZMAFilterID, 1, c}, nil
}

// UnmarshalBinary unmarshals the given data representation of the LZMA2
// filter.
func (f *LZMAFilter) UnmarshalBinary(data []byte) error {
	if len(data) != LZMAFilterLen {
		return errors.New("xz: data for LZMA2 filter has wrong length")
	}
	if data[0] != LZMAFilterID {
		return errors.New("xz: wrong LZMA2 filter id")
	}
	if data[1] != 1 {
		return errors.New("xz: wrong LZMA2 filter size")
	}
	dc, err := lzma.DecodeDictCap(data[2])
	if err != nil {
		return errors.New("xz: wrong LZMA2 dictionary size property")
	}

	f.dictCap = dc
	return nil
}

// Reader creates a new reader for the LZMA2 filter.
func (f LZMAFilter) Reader(r io.Reader, c *ReaderConfig) (fr io.Reader,
	err error) {

	dictCap := int(f.dictCap)
	if dictCap < 1 {
		return nil, errors.New("xz: LZMA2 filter parameter " +
			"dictionary capacity overflow")
	}
	if c != nil && c.DictCap > dictCap {
		dictCap = c.DictCap
	}

	fr, err = lzma2.NewReader(r, dictCap)
	if err != nil {
		return nil, err
	}
	return fr, nil
}

// WriteCloser creates a io.WriteCloser for the LZMA2 filter.
func (f LZMAFilter) WriteCloser(w io.WriteCloser, c *WriterConfig,
) (fw io.WriteCloser, err error) {
	p := lzma2.Default

	dictCap := int(f.dictCap)
	if dictCap < 1 {
		return nil, errors.New("xz: LZMA2 filter parameter " +
			"dictionary capacity overflow")
	}
	p.DictCap = dictCap

	if c != nil {
		if c.Properties != nil {
			p.LC = c.Properties.LC()
			p.LP = c.Properties.LP()
			p.PB = c.Properties.PB()
		}
		if c.BufSize != 0 {
			p.BufSize = c.BufSize
		}
		if c.DictCap > p.DictCap {
			p.DictCap = c.DictCap
		}
	}

	lw, err := lzma2.NewWriterParams(w, p)
	if err != nil {
		return nil, err
	}
	return &lzma2WriteCloser{w: lw, underlying: w}, nil
}

// lzma2WriteCloser adapts an lzma2.Writer, which only frames an LZMA2
// chunk sequence, into an io.WriteCloser that also closes the
// underlying block stream once the chunk sequence has been closed.
type lzma2WriteCloser struct {
	w          *lzma2.Writer
	underlying io.WriteCloser
}

func (wc *lzma2WriteCloser) Write(p []byte) (n int, err error) {
	return wc.w.Write(p)
}

func (wc *lzma2WriteCloser) Close() error {
	if err := wc.w.Close(); err != nil {
		return err
	}
	return wc.underlying.Close()
}

// last returns true, because an LZMA2 filter must be the last filter in
// the filter list.
func (f LZMAFilter) last() bool { return true }
