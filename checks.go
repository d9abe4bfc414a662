// SPDX-FileCopyrightText: © 2014 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package xz

import (
	"crypto/sha256"
	"fmt"
	"hash"
)

// Exported aliases for the checksum methods supported by xz. These mirror
// the stream-flags values the header/footer carry (fNone/fCRC32/fCRC64/
// fSHA256) so that WriterConfig.Checksum can be set without reaching for
// unexported constants.
const (
	None   = fNone
	CRC32  = fCRC32
	CRC64  = fCRC64
	SHA256 = fSHA256
)

// newHash returns the hash.Hash implementing the integrity check selected
// by flags (one of None, CRC32, CRC64 or SHA256). It is the single
// dispatch point used by both the block writer and the block reader so
// that a stream's check type and the hash actually verifying its blocks
// can never drift apart.
func newHash(flags byte) (hash.Hash, error) {
	switch flags {
	case fNone:
		return newNoneHash(), nil
	case fCRC32:
		return newCRC32(), nil
	case fCRC64:
		return newCRC64(), nil
	case fSHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("xz: unsupported checksum method %#02x", flags)
	}
}
