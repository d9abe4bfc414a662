// Copyright 2014-2022 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xz

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// IndexHash is a constant-memory accumulator that lets a streaming
// decoder validate an xz stream's Index field against the blocks it
// has already decoded, without holding the whole Index -- or even
// the whole list of decoded block sizes -- in memory. Call Append
// once per block as it is decoded, in stream order; once the Index
// field indicator byte has been consumed, feed the rest of the field
// to Decode.
//
// Internally it keeps a running count of records, running sums of
// unpadded and uncompressed block sizes, and a rolling CRC32 over the
// uvarint encoding of every (unpadded, uncompressed) pair appended.
// Decode recomputes the same count, sums and digest from the bytes
// it reads off the wire and reports any divergence as an error.
type IndexHash struct {
	records         int64
	unpaddedSum     int64
	uncompressedSum int64
	hash            uint32
	decoded         bool
}

// NewIndexHash returns an empty IndexHash accumulator.
func NewIndexHash() *IndexHash {
	return &IndexHash{}
}

// Append adds the sizes of one decoded block to the accumulator. It
// must be called once per block, in the order the blocks appear in
// the stream, and never after Decode has been called.
func (h *IndexHash) Append(unpaddedSize, uncompressedSize int64) error {
	if h.decoded {
		return errors.New("xz: IndexHash.Append called after Decode")
	}
	if unpaddedSize < 0 || uncompressedSize < 0 {
		return errors.New("xz: negative size appended to index hash")
	}

	h.records++
	h.unpaddedSum += unpaddedSize
	h.uncompressedSum += uncompressedSize

	p := make([]byte, 20)
	n := putUvarint(p, uint64(unpaddedSize))
	n += putUvarint(p[n:], uint64(uncompressedSize))
	h.hash = crc32.Update(h.hash, crc32.IEEETable, p[:n])

	return nil
}

// Records reports the number of blocks appended so far.
func (h *IndexHash) Records() int64 { return h.records }

// UnpaddedSum reports the running sum of unpadded block sizes.
func (h *IndexHash) UnpaddedSum() int64 { return h.unpaddedSum }

// UncompressedSum reports the running sum of uncompressed block
// sizes.
func (h *IndexHash) UncompressedSum() int64 { return h.uncompressedSum }

// Decode reads the number-of-records field and the record list of an
// Index, followed by its padding and CRC32 trailer, from r -- the
// index indicator byte must already have been consumed by the
// caller, matching readIndexBody's convention -- and checks it
// against the blocks previously given to Append. It returns the
// number of bytes read including the indicator byte, and an error
// describing the first mismatch found, or nil if the Index matches
// exactly.
func (h *IndexHash) Decode(r io.Reader) (n int, err error) {
	if h.decoded {
		return 0, errors.New("xz: IndexHash.Decode called twice")
	}
	h.decoded = true

	crc := crc32.NewIEEE()
	// index indicator, already consumed by the caller
	crc.Write([]byte{0})
	n++

	br := byteReader(io.TeeReader(r, crc))

	u, k, err := readUvarint(br)
	n += k
	if err != nil {
		return n, err
	}
	recLen := int64(u)
	if recLen < 0 || uint64(recLen) != u {
		return n, errors.New("xz: record number overflow")
	}
	if recLen != h.records {
		return n, fmt.Errorf(
			"xz: index has %d records; want %d", recLen, h.records)
	}

	var wantHash uint32
	var unpaddedSum, uncompressedSum int64
	for i := int64(0); i < recLen; i++ {
		rec, k, err := readRecord(br)
		n += k
		if err != nil {
			return n, err
		}
		unpaddedSum += rec.unpaddedSize
		uncompressedSum += rec.uncompressedSize

		p := make([]byte, 20)
		m := putUvarint(p, uint64(rec.unpaddedSize))
		m += putUvarint(p[m:], uint64(rec.uncompressedSize))
		wantHash = crc32.Update(wantHash, crc32.IEEETable, p[:m])
	}
	if unpaddedSum != h.unpaddedSum || uncompressedSum != h.uncompressedSum {
		return n, errors.New("xz: index size sums do not match decoded blocks")
	}
	if wantHash != h.hash {
		return n, errors.New("xz: index does not match decoded blocks")
	}

	// index padding
	if k = n % 4; k > 0 {
		k = 4 - k
		for i := 0; i < k; i++ {
			c, err := br.ReadByte()
			if err != nil {
				return n, err
			}
			n++
			if c != 0 {
				return n, errors.New(
					"xz: non-zero byte in index padding")
			}
		}
	}

	g := crc.Sum32()
	p := make([]byte, 4)
	k, err = io.ReadFull(br.(io.Reader), p)
	n += k
	if err != nil {
		return n, err
	}
	if uint32LE(p) != g {
		return n, errors.New("xz: wrong checksum for index")
	}

	return n, nil
}
