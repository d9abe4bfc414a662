// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// probTree is the shared storage for a bit-tree of probabilities,
// used by both bit orderings below. probs[1] is the root; child index
// 2*i/2*i+1 follow the usual binary-heap layout.
type probTree struct {
	probs []prob
	bits  byte
}

// makeProbTree creates a probTree for the given number of bits.
func makeProbTree(bits int) probTree {
	if !(0 < bits && bits <= 32) {
		panic("bits out of range")
	}
	t := probTree{
		probs: make([]prob, 1<<uint(bits)),
		bits:  byte(bits),
	}
	for i := range t.probs {
		t.probs[i] = probInit
	}
	return t
}

// Bits returns the number of bits supported by the tree.
func (t *probTree) Bits() int { return int(t.bits) }

// treeCodec encodes and decodes a value as a sequence of bits, most
// significant bit first, using one probability per tree node visited.
type treeCodec struct {
	probTree
}

// makeTreeCodec creates a tree codec for the given number of bits.
func makeTreeCodec(bits int) treeCodec {
	return treeCodec{makeProbTree(bits)}
}

// Encode encodes v, which must fit in Bits() bits, MSB first.
func (tc *treeCodec) Encode(v uint32, e *rangeEncoder) (err error) {
	m := uint32(1)
	for i := int(tc.bits) - 1; i >= 0; i-- {
		b := (v >> uint(i)) & 1
		if err = tc.probs[m].Encode(e, b); err != nil {
			return err
		}
		m = (m << 1) | b
	}
	return nil
}

// Decode decodes a value encoded by Encode.
func (tc *treeCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	m := uint32(1)
	for i := 0; i < int(tc.bits); i++ {
		var b uint32
		if b, err = tc.probs[m].Decode(d); err != nil {
			return 0, err
		}
		m = (m << 1) | b
	}
	v = m - (1 << uint(tc.bits))
	return v, nil
}

// treeReverseCodec is the same bit-tree coder but processes bits
// least-significant-first, as required by the LZMA2 align and
// position-slot submodels.
type treeReverseCodec struct {
	probTree
}

// makeTreeReverseCodec creates a reverse tree codec for the given
// number of bits.
func makeTreeReverseCodec(bits int) treeReverseCodec {
	return treeReverseCodec{makeProbTree(bits)}
}

// Encode encodes v, LSB first.
func (tc *treeReverseCodec) Encode(v uint32, e *rangeEncoder) (err error) {
	m := uint32(1)
	for i := 0; i < int(tc.bits); i++ {
		b := v & 1
		v >>= 1
		if err = tc.probs[m].Encode(e, b); err != nil {
			return err
		}
		m = (m << 1) | b
	}
	return nil
}

// Decode decodes a value encoded by Encode.
func (tc *treeReverseCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	m := uint32(1)
	for i := 0; i < int(tc.bits); i++ {
		var b uint32
		if b, err = tc.probs[m].Decode(d); err != nil {
			return 0, err
		}
		m = (m << 1) | b
		v |= b << uint(i)
	}
	return v, nil
}

// directCodec encodes and decodes a fixed number of bits directly,
// bypassing the probability model entirely, as used for the high
// bits of a distance beyond the position-model range.
type directCodec byte

// makeDirectCodec creates a direct codec for the given number of
// bits.
func makeDirectCodec(bits int) directCodec {
	if !(0 < bits && bits <= 32) {
		panic("bits out of range")
	}
	return directCodec(bits)
}

// Bits returns the number of bits supported by the codec.
func (dc directCodec) Bits() int { return int(dc) }

// Encode encodes v, MSB first, with no probability model.
func (dc directCodec) Encode(v uint32, e *rangeEncoder) (err error) {
	for i := int(dc) - 1; i >= 0; i-- {
		if err = e.DirectEncodeBit((v >> uint(i)) & 1); err != nil {
			return err
		}
	}
	return nil
}

// Decode decodes a value encoded by Encode.
func (dc directCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	for i := 0; i < int(dc); i++ {
		var b uint32
		if b, err = d.DirectDecodeBit(); err != nil {
			return 0, err
		}
		v = (v << 1) | b
	}
	return v, nil
}
