// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"errors"
	"io"
	"math"
)

// Probabilities are modeled with 11 bits of precision, following the
// classic LZMA bit model; probInit is the neutral 0.5 starting value
// and inc/dec move it 1/32 of the way to the bound on each bit coded.
const (
	movebits = 5
	probbits = 11
	probInit = 1 << (probbits - 1)
)

// prob represents probability of 0-bit used by the range coder.
type prob uint16

// dec decreases the probability after a 1-bit has been coded.
func (p *prob) dec() {
	*p -= *p >> movebits
}

// inc increases the probability after a 0-bit has been coded.
func (p *prob) inc() {
	*p += ((1 << probbits) - *p) >> movebits
}

// bound computes the splitting point inside the current range for
// the given probability.
func (p prob) bound(r uint32) uint32 {
	return (r >> probbits) * uint32(p)
}

// Encode and Decode are convenience wrappers so a prob can drive its
// own range-coder call (probability trees call these directly rather
// than threading the coder through every helper).
func (p *prob) Encode(e *rangeEncoder, bit uint32) error {
	return e.EncodeBit(bit, p)
}

func (p *prob) Decode(d *rangeDecoder) (uint32, error) {
	return d.DecodeBit(p)
}

// probPrices tabulates the bit cost, in 1/16th-of-a-bit fixed point,
// of coding a 0-bit under a given probability. Built once at package
// init; the price method reads it.
const priceShiftBits = 4

var probPrices [1<<probbits>>priceShiftBits + 1]uint32

func init() {
	for i := range probPrices {
		p := (float64(i<<priceShiftBits) + (1 << (priceShiftBits - 1))) /
			(1 << probbits)
		if p <= 0 {
			p = 1.0 / (1 << probbits)
		}
		if p > 1 {
			p = 1
		}
		probPrices[i] = uint32(-math.Log2(p) * (1 << priceShiftBits))
	}
}

// price returns the cost, in 1/16th bits, of encoding bit under
// probability p.
func (p prob) price(bit uint32) uint32 {
	var x prob
	if bit == 0 {
		x = p
	} else {
		x = (1 << probbits) - p
	}
	return probPrices[x>>priceShiftBits]
}

// maxInt64 is the maximum value of the int64 type.
const maxInt64 = 1<<63 - 1

// rangeEncoder implements the range encoder used by LZMA. The
// registers nrange/low/cache/cacheLen follow the reference LZMA SDK
// naming: nrange is the current interval width, low the (64-bit,
// carry-capable) lower bound, and cache/cacheLen hold the pending
// 0xff run used to propagate carries.
type rangeEncoder struct {
	w        io.ByteWriter
	nrange   uint32
	low      uint64
	cacheLen int64
	cache    byte
	n        int64
	limit    int64
}

// newRangeEncoder creates a new range encoder with no write limit.
func newRangeEncoder(w io.Writer) *rangeEncoder {
	return newRangeEncoderLimit(w, maxInt64)
}

// newRangeEncoderLimit creates a new range encoder limited to writing
// at most limit bytes.
func newRangeEncoderLimit(w io.Writer, limit int64) *rangeEncoder {
	return &rangeEncoder{
		w:        newByteWriter(w),
		nrange:   0xffffffff,
		cacheLen: 1,
		cache:    0,
		limit:    limit,
	}
}

// Len returns the number of bytes written so far.
func (e *rangeEncoder) Len() int64 { return e.n }

// Available returns the number of bytes that can still be written
// before the limit is hit.
func (e *rangeEncoder) Available() int64 { return e.limit - e.n }

func (e *rangeEncoder) writeByte(c byte) error {
	if e.n >= e.limit {
		return errWriteLimit
	}
	if err := e.w.WriteByte(c); err != nil {
		return err
	}
	e.n++
	return nil
}

// shiftLow propagates a pending carry (or confirms none occurred) and
// flushes the oldest byte of low, following the standard range-coder
// carry-handling algorithm.
func (e *rangeEncoder) shiftLow() error {
	if uint32(e.low>>32) != 0 || e.low < 0xff000000 {
		temp := e.cache
		carry := byte(e.low >> 32)
		for {
			if err := e.writeByte(temp + carry); err != nil {
				return err
			}
			temp = 0xff
			e.cacheLen--
			if e.cacheLen <= 0 {
				break
			}
		}
		e.cache = byte(e.low >> 24)
	}
	e.cacheLen++
	e.low = (e.low << 8) & 0xffffffff
	return nil
}

func (e *rangeEncoder) normalize() error {
	for e.nrange < 1<<24 {
		e.nrange <<= 8
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}

// DirectEncodeBit encodes a single bit without any probability model,
// used by the direct-bits portion of distance coding.
func (e *rangeEncoder) DirectEncodeBit(b uint32) error {
	e.nrange >>= 1
	if b != 0 {
		e.low += uint64(e.nrange)
	}
	return e.normalize()
}

// EncodeBit encodes a bit using and updating the probability p.
func (e *rangeEncoder) EncodeBit(b uint32, p *prob) error {
	bound := p.bound(e.nrange)
	if b == 0 {
		e.nrange = bound
		p.inc()
	} else {
		e.low += uint64(bound)
		e.nrange -= bound
		p.dec()
	}
	return e.normalize()
}

// Flush flushes the remaining carry state; it must be called exactly
// once after the last operation has been encoded.
func (e *rangeEncoder) Flush() error {
	for i := 0; i < 5; i++ {
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}

// Close is an alias for Flush, matching the io.Closer idiom used
// elsewhere in the package when a rangeEncoder is embedded in a
// WriteCloser.
func (e *rangeEncoder) Close() error { return e.Flush() }

// rangeDecoder implements the matching range decoder.
type rangeDecoder struct {
	r      io.ByteReader
	nrange uint32
	code   uint32
}

// newRangeDecoder creates a range decoder and reads the 5-byte
// startup sequence (the first byte must be zero).
func newRangeDecoder(r io.Reader) (d *rangeDecoder, err error) {
	d = &rangeDecoder{r: newByteReader(r), nrange: 0xffffffff}
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if b != 0 {
		return nil, errors.New("lzma: range decoder first byte not zero")
	}
	for i := 0; i < 4; i++ {
		if err = d.updateCode(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *rangeDecoder) updateCode() error {
	b, err := d.r.ReadByte()
	if err != nil {
		return err
	}
	d.code = (d.code << 8) | uint32(b)
	return nil
}

// possiblyAtEnd reports whether the decoder state is consistent with
// having reached the end of an LZMA stream (code is zero).
func (d *rangeDecoder) possiblyAtEnd() bool {
	return d.code == 0
}

func (d *rangeDecoder) normalize() error {
	for d.nrange < 1<<24 {
		if err := d.updateCode(); err != nil {
			return err
		}
		d.nrange <<= 8
	}
	return nil
}

// DirectDecodeBit decodes a single bit without a probability model.
func (d *rangeDecoder) DirectDecodeBit() (b uint32, err error) {
	d.nrange >>= 1
	d.code -= d.nrange
	t := 0 - (d.code >> 31)
	d.code += d.nrange & t
	if err = d.normalize(); err != nil {
		return 0, err
	}
	return (t + 1) & 1, nil
}

// DecodeBit decodes a bit using and updating the probability p.
func (d *rangeDecoder) DecodeBit(p *prob) (b uint32, err error) {
	bound := p.bound(d.nrange)
	if d.code < bound {
		d.nrange = bound
		p.inc()
		b = 0
	} else {
		d.code -= bound
		d.nrange -= bound
		p.dec()
		b = 1
	}
	if err = d.normalize(); err != nil {
		return 0, err
	}
	return b, nil
}
