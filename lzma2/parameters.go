package lzma2

import "github.com/ulikunitz/xz/lzma"

// Parameters describe the parameters for an LZMA2 writer.
type Parameters struct {
	LC      int
	LP      int
	PB      int
	DictCap int
	BufSize int
}

// Default holds the parameters used by NewWriter and NewReader when no
// explicit Parameters value is given.
var Default = Parameters{
	LC:      3,
	LP:      0,
	PB:      2,
	DictCap: 1 << 23,
	BufSize: 4096,
}

// Properties derives the lzma.Properties value for p.
func (p Parameters) Properties() lzma.Properties {
	props, err := lzma.NewProperties(p.LC, p.LP, p.PB)
	if err != nil {
		panic(err)
	}
	return props
}

func (p *Parameters) fill() {
	if p.DictCap == 0 {
		p.DictCap = Default.DictCap
	}
	if p.BufSize == 0 {
		p.BufSize = Default.BufSize
	}
}

func (p *Parameters) verify() error {
	if err := verifyDictCap(p.DictCap); err != nil {
		return err
	}
	if p.BufSize < 1 {
		return newError("buffer size must be positive")
	}
	return lzma.VerifyProperties(p.LC, p.LP, p.PB)
}

// verifyDictCap checks that dictCap is within the range supported by
// the underlying lzma package.
func verifyDictCap(dictCap int) error {
	if !(lzma.MinDictCap <= dictCap && int64(dictCap) <= lzma.MaxDictCap) {
		return newError("dictionary capacity out of range")
	}
	return nil
}
