package lzma2

import "fmt"

// DictSize encodes a dictionary size in the compact single-byte form
// used by the xz container format's LZMA2 filter properties. Values
// 0 through 40 represent a geometric progression of sizes between 4
// KiB and 4 GiB - 1.
type DictSize byte

// Size returns the dictionary size in bytes that s represents.
func (s DictSize) Size() uint32 {
	if s > 40 {
		panic("lzma2: invalid dictionary size code")
	}
	if s == 40 {
		return 0xffffffff
	}
	m := uint32(2 | (s & 1))
	exp := 11 + uint(s>>1)
	return m << exp
}

// DictSizeCeil returns the smallest DictSize whose Size is greater or
// equal to size.
func DictSizeCeil(size uint32) DictSize {
	for s := DictSize(0); s < 40; s++ {
		if s.Size() >= size {
			return s
		}
	}
	return DictSize(40)
}

func convertDictSize(s uint32) string {
	const (
		kib = 1024
		mib = 1024 * 1024
	)
	if s < mib {
		return fmt.Sprintf("%d KiB", s/kib)
	}
	if s < 0xffffffff {
		return fmt.Sprintf("%d MiB", s/mib)
	}
	return "4096 MiB - 1B"
}

// String returns a human-readable representation of the dictionary
// size.
func (s DictSize) String() string {
	return fmt.Sprintf("DictSize(%s)", convertDictSize(s.Size()))
}
