// Copyright 2014-2022 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xz

import (
	"github.com/ulikunitz/lz"
	"github.com/ulikunitz/xz/lzma"
)

// presets holds the WriterConfig for compression levels 1 through 9,
// modeled after the xz command line tool's -1 through -9 flags. Index
// 0 is level 1, index 8 is level 9.
var presets = [9]WriterConfig{}

func init() {
	for level := 1; level <= 9; level++ {
		p := lzma.PresetByLevel(level)
		props, err := p.Properties()
		if err != nil {
			panic(err)
		}
		cfg := WriterConfig{
			WindowSize: p.DictCap,
			ParserConfig: &lz.DHPConfig{
				WindowSize: p.DictCap,
			},
			Workers:         1,
			Properties:      props,
			FixedProperties: true,
		}
		cfg.SetDefaults()
		presets[level-1] = cfg
	}
}

// Preset returns the WriterConfig for the given compression level,
// clamping levels outside the supported 1-9 range. Level 5 matches
// NewWriter's default.
func Preset(level int) WriterConfig {
	switch {
	case level < 1:
		level = 1
	case level > 9:
		level = 9
	}
	return presets[level-1]
}
