// Copyright 2014-2016 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "fmt"

// MatchAlgorithm identifies the algorithm used to find matches in the
// dictionary during encoding.
type MatchAlgorithm int

// Supported match algorithms.
const (
	// HashTable4 uses a hash table over four-byte words, a fast but
	// less exhaustive method of finding matches.
	HashTable4 MatchAlgorithm = iota
	// BinaryTree uses a binary tree over four-byte words to find
	// matches. It produces slightly better ratios at lower speed.
	BinaryTree
)

// String returns a representation of the match algorithm.
func (a MatchAlgorithm) String() string {
	switch a {
	case HashTable4:
		return "HashTable4"
	case BinaryTree:
		return "BinaryTree"
	default:
		return fmt.Sprintf("MatchAlgorithm(%d)", int(a))
	}
}

// verify checks whether the match algorithm is supported.
func (a MatchAlgorithm) verify() error {
	if !(HashTable4 <= a && a <= BinaryTree) {
		return newError("unsupported match algorithm")
	}
	return nil
}

// new creates the matcher for the given dictionary capacity.
func (a MatchAlgorithm) new(dictCap int) (m matcher, err error) {
	switch a {
	case HashTable4:
		return newHashTable(dictCap, 4)
	case BinaryTree:
		return newBinTree(dictCap)
	default:
		return nil, newError("unsupported match algorithm")
	}
}
