// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// Maximum and minimum values for individual parameters.
const (
	MinLC         = 0
	MaxLC         = 8
	MinLP         = 0
	MaxLP         = 4
	MinPB         = 0
	MaxPB         = 4
	MaxProperties = (MaxPB+1)*(MaxLP+1)*(MaxLC+1) - 1
	MinDictSize   = 1 << 12
	MaxDictSize   = 1<<32 - 1
	// MinDictCap and MaxDictCap bound the dictionary capacity
	// accepted by the encoder and decoder dictionaries.
	MinDictCap = MinDictSize
	MaxDictCap = MaxDictSize
)

// Properties contains the parameters lc, lp and pb.
type Properties byte

// NewProperties returns a new properties value. It verifies the validity of
// the arguments.
func NewProperties(lc, lp, pb int) (p Properties, err error) {
	if err = verifyProperties(lc, lp, pb); err != nil {
		return
	}
	return Properties((pb*5+lp)*9 + lc), nil
}

// LC returns the number of literal context bits.
func (p Properties) LC() int {
	return int(p) % 9
}

// LP returns the number of literal position bits.
func (p Properties) LP() int {
	return (int(p) / 9) % 5
}

// PB returns the number of position bits.
func (p Properties) PB() int {
	return (int(p) / 45) % 5
}

// VerifyProperties checks lc, lp and pb for validity, returning an
// error describing the first parameter out of range. It allows
// packages building on top of lzma, such as lzma2, to validate a
// decoded properties byte without access to the unexported
// verifyProperties.
func VerifyProperties(lc, lp, pb int) error {
	return verifyProperties(lc, lp, pb)
}

// verifyProperties checks the argument for any errors.
func verifyProperties(lc, lp, pb int) error {
	if !(MinLC <= lc && lc <= MaxLC) {
		return rangeError{"lc", lc}
	}
	if !(MinLP <= lp && lp <= MaxLP) {
		return rangeError{"lp", lp}
	}
	if !(MinPB <= pb && pb <= MaxPB) {
		return rangeError{"pb", pb}
	}
	return nil
}
