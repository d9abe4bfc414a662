// Copyright 2014-2016 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// Preset bundles a coherent set of encoder/decoder parameters, modeled
// after the xz command line tool's -0 through -9 compression levels.
type Preset struct {
	DictCap    int
	LC, LP, PB int
	BufSize    int
	Matcher    MatchAlgorithm
}

// presets holds the ten predefined compression levels, numbered 0
// (fastest, least compression) through 9 (slowest, most compression).
var presets = [...]Preset{
	{DictCap: 1 << 18, LC: 3, LP: 0, PB: 2, BufSize: 4096, Matcher: HashTable4},
	{DictCap: 1 << 20, LC: 3, LP: 0, PB: 2, BufSize: 4096, Matcher: HashTable4},
	{DictCap: 1 << 21, LC: 3, LP: 0, PB: 2, BufSize: 4096, Matcher: HashTable4},
	{DictCap: 1 << 22, LC: 3, LP: 0, PB: 2, BufSize: 4096, Matcher: HashTable4},
	{DictCap: 1 << 22, LC: 3, LP: 0, PB: 2, BufSize: 8192, Matcher: BinaryTree},
	{DictCap: 1 << 23, LC: 3, LP: 0, PB: 2, BufSize: 8192, Matcher: BinaryTree},
	{DictCap: 1 << 23, LC: 3, LP: 0, PB: 2, BufSize: 16384, Matcher: BinaryTree},
	{DictCap: 1 << 24, LC: 3, LP: 0, PB: 2, BufSize: 16384, Matcher: BinaryTree},
	{DictCap: 1 << 25, LC: 3, LP: 0, PB: 2, BufSize: 32768, Matcher: BinaryTree},
	{DictCap: 1 << 26, LC: 3, LP: 0, PB: 2, BufSize: 32768, Matcher: BinaryTree},
}

// PresetDefault is the preset level used by Default.
const PresetDefault = 6

// PresetByLevel returns the Preset for the given compression level,
// clamping levels outside the supported 0-9 range.
func PresetByLevel(level int) Preset {
	switch {
	case level < 0:
		level = 0
	case level > 9:
		level = 9
	}
	return presets[level]
}

// Default returns the default preset, equivalent to xz -6.
func Default() Preset { return PresetByLevel(PresetDefault) }

// Properties derives the Properties value for the preset.
func (p Preset) Properties() (Properties, error) {
	return NewProperties(p.LC, p.LP, p.PB)
}

// EncoderParams converts the preset into EncoderParams, panicking only
// if the preset itself carries invalid lc/lp/pb combinations, which
// cannot happen for the predefined presets.
func (p Preset) EncoderParams() EncoderParams {
	props, err := p.Properties()
	if err != nil {
		panic(err)
	}
	return EncoderParams{
		Properties: props,
		DictCap:    p.DictCap,
		BufSize:    p.BufSize,
		Matcher:    p.Matcher,
	}
}

// DecoderParams converts the preset into DecoderParams suitable for
// decoding a stream terminated by an end-of-stream marker.
func (p Preset) DecoderParams() DecoderParams {
	props, err := p.Properties()
	if err != nil {
		panic(err)
	}
	return DecoderParams{
		Properties: props,
		DictCap:    p.DictCap,
		BufCap:     p.DictCap + p.BufSize,
		Size:       -1,
	}
}
