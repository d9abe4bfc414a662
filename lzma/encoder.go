// Copyright 2014-2016 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"errors"
	"io"
)

// eosDist is the distance value that signals the end of stream marker
// in the match encoding.
const eosDist = 1<<32 - 1

// EncoderParams bundles the parameters controlling the LZMA encoder.
type EncoderParams struct {
	// Properties to encode literals, matches and distances with.
	Properties Properties
	// DictCap is the dictionary capacity in bytes.
	DictCap int
	// BufSize sizes the additional lookahead buffer atop of the
	// dictionary.
	BufSize int
	// Matcher selects the algorithm used to find matches.
	Matcher MatchAlgorithm
	// SizeInHeader states that the uncompressed size is recorded
	// outside the raw stream; the encoder then omits the
	// end-of-stream marker. If false the stream terminates with an
	// explicit end-of-stream marker. The encoder itself writes no
	// header.
	SizeInHeader bool
	// Size is the uncompressed size. The encoder stores it but does
	// not use it.
	Size int64
}

// fill applies defaults for zero-valued fields.
func (p *EncoderParams) fill() {
	if p.DictCap == 0 {
		p.DictCap = 1 << 23
	}
	if p.BufSize == 0 {
		p.BufSize = 4096
	}
}

// verify checks EncoderParams for consistency.
func (p *EncoderParams) verify() error {
	if p == nil {
		return errors.New("lzma: encoder parameters must not be nil")
	}
	if !(MinDictCap <= p.DictCap && int64(p.DictCap) <= MaxDictCap) {
		return errors.New("lzma: dictionary capacity out of range")
	}
	if p.BufSize < 1 {
		return errors.New("lzma: buffer size must be positive")
	}
	if err := verifyProperties(p.Properties.LC(), p.Properties.LP(), p.Properties.PB()); err != nil {
		return err
	}
	return p.Matcher.verify()
}

// Encoder produces a raw LZMA stream, without any container framing,
// from the data written into its dictionary.
type Encoder struct {
	dict  *encoderDict
	state *state
	re    *rangeEncoder

	start int64

	sizeInHeader bool
	size         int64
}

// NewEncoder creates a new encoder instance that writes its stream
// into w. The data to compress must be fed into the returned
// Encoder's dictionary via Write before Compress is called.
func NewEncoder(w io.Writer, p EncoderParams) (e *Encoder, err error) {
	p.fill()
	if err = p.verify(); err != nil {
		return nil, err
	}
	dict, err := newEncoderDict(p.DictCap, p.BufSize, p.Matcher)
	if err != nil {
		return nil, err
	}
	s := &state{properties: p.Properties}
	s.Reset()
	e = &Encoder{
		dict:         dict,
		state:        s,
		re:           newRangeEncoder(w),
		start:        dict.Pos(),
		sizeInHeader: p.SizeInHeader,
		size:         p.Size,
	}
	return e, nil
}

// Write writes data into the encoder's dictionary, compressing as
// much as the dictionary's lookahead buffer allows. It implements
// io.Writer.
func (e *Encoder) Write(p []byte) (n int, err error) {
	for n < len(p) {
		k, werr := e.dict.Write(p[n:])
		n += k
		if werr == nil {
			continue
		}
		if werr != ErrNoSpace {
			return n, werr
		}
		if cerr := e.compress(0); cerr != nil {
			return n, cerr
		}
	}
	return n, nil
}

// compress encodes operations from the dictionary until fewer than
// margin bytes remain buffered.
func (e *Encoder) compress(margin int) error {
	for e.dict.Buffered() > margin {
		op := e.dict.NextOp(e.state.rep[0])
		if err := e.encodeOp(op); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes all remaining buffered data, optionally writes the
// end-of-stream marker, and flushes the range encoder.
func (e *Encoder) Close() error {
	if err := e.compress(0); err != nil {
		return err
	}
	if !e.sizeInHeader {
		if err := e.writeEOS(); err != nil {
			return err
		}
	}
	return e.re.Flush()
}

// Compress encodes pending operations until at most margin bytes
// remain buffered in the dictionary. It neither flushes the range
// encoder nor writes an end-of-stream marker, so it is suitable for
// driving a container format, such as LZMA2, that frames the raw LZMA
// stream into independently flushed chunks.
func (e *Encoder) Compress(margin int) error { return e.compress(margin) }

// Flush byte-aligns the range encoder's output without writing an
// end-of-stream marker. A container format can use it to terminate a
// chunk while keeping the dictionary and probability state alive for
// the next one.
func (e *Encoder) Flush() error { return e.re.Flush() }

// Reopen redirects the encoder's output to w to begin a new chunk. The
// dictionary contents and probability state are left untouched.
func (e *Encoder) Reopen(w io.Writer) { e.re = newRangeEncoder(w) }

// ResetState reinitializes the probability model, optionally adopting
// new properties.
func (e *Encoder) ResetState(p Properties) {
	s := &state{properties: p}
	s.Reset()
	e.state = s
}

// ResetDict clears the dictionary, discarding all history used for
// matches. Data already buffered for compression is not affected.
func (e *Encoder) ResetDict() {
	e.dict.head = 0
	e.dict.m.Reset()
}

// Len reports the number of bytes currently buffered in the
// dictionary and awaiting compression.
func (e *Encoder) Len() int { return e.dict.Buffered() }

// Pos returns the position of the dictionary head, the total number
// of bytes written into the encoder so far.
func (e *Encoder) Pos() int64 { return e.dict.Pos() }

// encodeOp encodes a single operation, literal or match.
func (e *Encoder) encodeOp(op operation) error {
	s := e.state
	state1, state2, posState := s.states(e.dict.Pos())
	_ = state1

	if op.isLiteral() {
		if err := e.encodeLiteral(op.literal(), posState); err != nil {
			return err
		}
		e.dict.DiscardOp(op)
		return nil
	}

	dist := uint32(op.distance())
	length := uint32(op.length())

	if err := s.isMatch[state2].Encode(e.re, 1); err != nil {
		return err
	}

	rep, isRep := repIndex(s.rep, dist)
	if err := s.isRep[s.state].Encode(e.re, b2u(isRep)); err != nil {
		return err
	}
	if !isRep {
		if err := e.encodeMatch(dist, length, posState); err != nil {
			return err
		}
		s.rep[3], s.rep[2], s.rep[1], s.rep[0] = s.rep[2], s.rep[1], s.rep[0], dist
		s.updateStateMatch()
		e.dict.DiscardOp(op)
		return nil
	}

	if err := e.encodeRepMatch(rep, length, posState); err != nil {
		return err
	}
	switch rep {
	case 1:
		s.rep[1], s.rep[0] = s.rep[0], s.rep[1]
	case 2:
		s.rep[2], s.rep[1], s.rep[0] = s.rep[1], s.rep[0], s.rep[2]
	case 3:
		s.rep[3], s.rep[2], s.rep[1], s.rep[0] =
			s.rep[2], s.rep[1], s.rep[0], s.rep[3]
	}
	if length == 1 {
		s.updateStateShortRep()
	} else {
		s.updateStateRep()
	}
	e.dict.DiscardOp(op)
	return nil
}

// repIndex checks whether dist matches one of the four repetition
// distances, returning its index (0-3).
func repIndex(rep [4]uint32, dist uint32) (idx int, isRep bool) {
	for i, r := range rep {
		if r == dist {
			return i, true
		}
	}
	return 0, false
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// encodeLiteral encodes a single literal byte.
func (e *Encoder) encodeLiteral(b byte, posState uint32) error {
	s := e.state
	state1, _, _ := s.states(e.dict.Pos())
	if err := s.isMatch[(s.state<<maxPosBits)|posState].Encode(e.re, 0); err != nil {
		return err
	}
	prevByte := e.dict.ByteAt(1)
	litState := s.litState(prevByte, e.dict.Pos())
	var match byte
	if state1 >= 7 {
		match = e.dict.ByteAt(int(s.rep[0]) + 1)
	}
	if err := s.litCodec.Encode(b, e.re, s.state, match, litState); err != nil {
		return err
	}
	s.updateStateLiteral()
	return nil
}

// encodeMatch encodes a new (non-repeated) match.
func (e *Encoder) encodeMatch(dist, length uint32, posState uint32) error {
	s := e.state
	l := length - minMatchLen
	if err := s.lenCodec.Encode(l, e.re, posState); err != nil {
		return err
	}
	return s.distCodec.Encode(e.re, dist, lenState(l))
}

// encodeRepMatch encodes a repeated match, identified by the
// repetition index rep (0-3).
func (e *Encoder) encodeRepMatch(rep int, length uint32, posState uint32) error {
	s := e.state
	if rep == 0 {
		if err := s.isRepG0[s.state].Encode(e.re, 0); err != nil {
			return err
		}
		isShortRep := b2u(length == 1)
		if err := s.isRepG0Long[(s.state<<maxPosBits)|posState].Encode(
			e.re, 1-isShortRep); err != nil {
			return err
		}
		if length == 1 {
			return nil
		}
	} else {
		if err := s.isRepG0[s.state].Encode(e.re, 1); err != nil {
			return err
		}
		if rep == 1 {
			if err := s.isRepG1[s.state].Encode(e.re, 0); err != nil {
				return err
			}
		} else {
			if err := s.isRepG1[s.state].Encode(e.re, 1); err != nil {
				return err
			}
			if rep == 2 {
				if err := s.isRepG2[s.state].Encode(e.re, 0); err != nil {
					return err
				}
			} else {
				if err := s.isRepG2[s.state].Encode(e.re, 1); err != nil {
					return err
				}
			}
		}
	}
	l := length - minMatchLen
	return s.repLenCodec.Encode(l, e.re, posState)
}

// writeEOS writes the end-of-stream marker, a match with the reserved
// distance eosDist.
func (e *Encoder) writeEOS() error {
	s := e.state
	_, state2, posState := s.states(e.dict.Pos())
	if err := s.isMatch[state2].Encode(e.re, 1); err != nil {
		return err
	}
	if err := s.isRep[s.state].Encode(e.re, 0); err != nil {
		return err
	}
	return e.encodeMatch(eosDist, minMatchLen, posState)
}
