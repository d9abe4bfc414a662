// Copyright 2014-2016 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"errors"
	"io"
)

// DecoderParams bundles the parameters controlling the LZMA decoder.
type DecoderParams struct {
	Properties Properties
	DictCap    int
	BufCap     int
	// Size is the expected uncompressed size; a negative value
	// means the size is unknown and the decoder relies on the
	// end-of-stream marker instead.
	Size int64
}

func (p *DecoderParams) fill() {
	if p.DictCap == 0 {
		p.DictCap = 1 << 23
	}
	if p.BufCap == 0 {
		p.BufCap = p.DictCap + 4096
	}
}

func (p *DecoderParams) verify() error {
	if p == nil {
		return errors.New("lzma: decoder parameters must not be nil")
	}
	if !(MinDictCap <= p.DictCap && int64(p.DictCap) <= MaxDictCap) {
		return errors.New("lzma: dictionary capacity out of range")
	}
	if p.DictCap > p.BufCap {
		return errors.New("lzma: buffer capacity smaller than dictionary capacity")
	}
	return verifyProperties(p.Properties.LC(), p.Properties.LP(), p.Properties.PB())
}

// Decoder reconstructs the byte stream encoded by Encoder.
type Decoder struct {
	dict  *DecoderDict
	state *state
	rd    *rangeDecoder

	// start is the dictionary position at which the current chunk's
	// data begins; size and written are both relative to it, so that
	// a decoder reused across many chunks sharing one dictionary (see
	// Reopen) tracks each chunk's own size independently of the
	// dictionary's absolute position.
	start   int64
	size    int64
	written int64
	eof     bool
}

// NewDecoder creates a decoder reading the compressed stream from r.
func NewDecoder(r io.Reader, p DecoderParams) (d *Decoder, err error) {
	p.fill()
	if err = p.verify(); err != nil {
		return nil, err
	}
	dict, err := NewDecoderDict(p.DictCap, p.BufCap)
	if err != nil {
		return nil, err
	}
	s := &state{properties: p.Properties}
	s.Reset()
	rd, err := newRangeDecoder(r)
	if err != nil {
		return nil, err
	}
	d = &Decoder{dict: dict, state: s, rd: rd, start: dict.Pos(), size: p.Size}
	return d, nil
}

// NewChunkDecoder creates a decoder that reads a single, independently
// range-coded chunk from r into an existing dictionary, which may
// already hold history from earlier chunks. Container formats that
// frame raw LZMA streams into chunks, such as LZMA2, use it to keep
// one dictionary alive across many chunks while giving each chunk its
// own range coder.
func NewChunkDecoder(r io.Reader, p Properties, dict *DecoderDict, size int64) (d *Decoder, err error) {
	rd, err := newRangeDecoder(r)
	if err != nil {
		return nil, err
	}
	s := &state{properties: p}
	s.Reset()
	return &Decoder{dict: dict, state: s, rd: rd, start: dict.Pos(), size: size}, nil
}

// Reopen redirects the decoder to read a new chunk from r, expected to
// hold exactly size uncompressed bytes. The dictionary and
// probability state are left untouched, so the new chunk can continue
// referencing history built up by earlier chunks.
func (d *Decoder) Reopen(r io.Reader, size int64) error {
	rd, err := newRangeDecoder(r)
	if err != nil {
		return err
	}
	d.rd = rd
	d.start = d.dict.Pos()
	d.size = size
	d.written = 0
	d.eof = false
	return nil
}

// ResetState reinitializes the probability model, optionally adopting
// new properties.
func (d *Decoder) ResetState(p Properties) {
	s := &state{properties: p}
	s.Reset()
	d.state = s
}

// ResetDict clears the dictionary, discarding all history available
// for back-references. Data already buffered for reading is not
// affected.
func (d *Decoder) ResetDict() { d.dict.Reset() }

// Dict exposes the decoder's underlying dictionary, allowing a
// container format such as LZMA2 to inject literal, uncompressed
// chunk data directly into the shared history.
func (d *Decoder) Dict() *DecoderDict { return d.dict }

// Pos returns the position of the dictionary head, the total number
// of bytes decoded so far.
func (d *Decoder) Pos() int64 { return d.dict.Pos() }

// errEOS indicates that the end-of-stream marker has been decoded.
var errEOS = errors.New("lzma: end of stream marker decoded")

// decodeOp decodes a single literal or match operation, writing the
// result into the dictionary. It returns errEOS after consuming the
// end-of-stream marker.
func (d *Decoder) decodeOp() error {
	s := d.state
	_, state2, posState := s.states(d.dict.Pos())

	bit, err := s.isMatch[state2].Decode(d.rd)
	if err != nil {
		return err
	}
	if bit == 0 {
		return d.decodeLiteral(posState)
	}

	bit, err = s.isRep[s.state].Decode(d.rd)
	if err != nil {
		return err
	}
	if bit == 0 {
		return d.decodeMatch(posState)
	}
	return d.decodeRepMatch(posState)
}

func (d *Decoder) decodeLiteral(posState uint32) error {
	s := d.state
	state1 := s.state
	prevByte := d.dict.ByteAt(1)
	litState := s.litState(prevByte, d.dict.Pos())
	var match byte
	if state1 >= 7 {
		match = d.dict.ByteAt(int(s.rep[0]) + 1)
	}
	b, err := s.litCodec.Decode(d.rd, s.state, match, litState)
	if err != nil {
		return err
	}
	if err = d.dict.WriteByte(b); err != nil {
		return err
	}
	s.updateStateLiteral()
	return nil
}

func (d *Decoder) decodeMatch(posState uint32) error {
	s := d.state
	l, err := s.lenCodec.Decode(d.rd, posState)
	if err != nil {
		return err
	}
	dist, err := s.distCodec.Decode(d.rd, lenState(l))
	if err != nil {
		return err
	}
	length := int(l) + minMatchLen
	if dist == eosDist {
		return errEOS
	}
	s.rep[3], s.rep[2], s.rep[1], s.rep[0] = s.rep[2], s.rep[1], s.rep[0], dist
	if err = d.dict.WriteMatch(int(dist)+1, length); err != nil {
		return err
	}
	s.updateStateMatch()
	return nil
}

func (d *Decoder) decodeRepMatch(posState uint32) error {
	s := d.state
	bit, err := s.isRepG0[s.state].Decode(d.rd)
	if err != nil {
		return err
	}
	var rep int
	var length int
	if bit == 0 {
		bit, err = s.isRepG0Long[(s.state<<maxPosBits)|posState].Decode(d.rd)
		if err != nil {
			return err
		}
		if bit == 0 {
			rep, length = 0, 1
			s.updateStateShortRep()
			if werr := d.dict.WriteMatch(int(s.rep[0])+1, length); werr != nil {
				return werr
			}
			return nil
		}
		rep = 0
	} else {
		bit, err = s.isRepG1[s.state].Decode(d.rd)
		if err != nil {
			return err
		}
		if bit == 0 {
			rep = 1
		} else {
			bit, err = s.isRepG2[s.state].Decode(d.rd)
			if err != nil {
				return err
			}
			if bit == 0 {
				rep = 2
			} else {
				rep = 3
			}
		}
	}

	l, err := s.repLenCodec.Decode(d.rd, posState)
	if err != nil {
		return err
	}
	length = int(l) + minMatchLen

	dist := s.rep[rep]
	switch rep {
	case 1:
		s.rep[1], s.rep[0] = s.rep[0], s.rep[1]
	case 2:
		s.rep[2], s.rep[1], s.rep[0] = s.rep[1], s.rep[0], s.rep[2]
	case 3:
		s.rep[3], s.rep[2], s.rep[1], s.rep[0] =
			s.rep[2], s.rep[1], s.rep[0], s.rep[3]
	}
	s.rep[0] = dist
	if err = d.dict.WriteMatch(int(dist)+1, length); err != nil {
		return err
	}
	s.updateStateRep()
	return nil
}

// fill decodes operations until the dictionary has at least n bytes
// buffered for reading, the known size has been reached, or the
// end-of-stream marker is found.
func (d *Decoder) fill(n int) error {
	for d.dict.Buffered() < n {
		if d.eof {
			return nil
		}
		if d.size >= 0 && d.written >= d.size {
			return nil
		}
		if err := d.decodeOp(); err != nil {
			if err == errEOS {
				d.eof = true
				return nil
			}
			return err
		}
		d.written = d.dict.Pos() - d.start
	}
	return nil
}

// Read decompresses data into p, implementing io.Reader.
func (d *Decoder) Read(p []byte) (n int, err error) {
	for n < len(p) {
		if ferr := d.fill(len(p) - n); ferr != nil {
			return n, ferr
		}
		if d.dict.Buffered() == 0 {
			if d.size >= 0 && d.written < d.size {
				return n, io.ErrUnexpectedEOF
			}
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		k, rerr := d.dict.Read(p[n:])
		n += k
		if rerr != nil && rerr != io.EOF {
			return n, rerr
		}
	}
	return n, nil
}
