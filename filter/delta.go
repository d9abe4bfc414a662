package filter

import (
	"errors"
	"io"
)

// DeltaFilterLen is the encoded length of a Delta filter entry in a
// block header.
const DeltaFilterLen = 3

// NewDeltaFilter returns a Delta filter with the given byte distance
// (1 to 256 inclusive).
func NewDeltaFilter(distance int) *DeltaFilter {
	return &DeltaFilter{distance: distance}
}

// DeltaFilter implements the xz Delta filter: every output byte is the
// difference between the input byte and the byte distance positions
// earlier in the stream. It is reversible and size-preserving, and
// (like the BCJ filters) can never be the last filter in a chain.
type DeltaFilter struct {
	distance int
}

// Distance returns the filter's configured byte distance.
func (f *DeltaFilter) Distance() int { return f.distance }

func (f *DeltaFilter) ID() uint64 { return DeltaFilterID }

// MarshalBinary converts the DeltaFilter into its encoded
// representation. The wire property byte stores distance-1, as the xz
// format does.
func (f *DeltaFilter) MarshalBinary() (data []byte, err error) {
	if !(1 <= f.distance && f.distance <= 256) {
		return nil, errors.New("xz: delta distance out of range")
	}
	return []byte{DeltaFilterID, 1, byte(f.distance - 1)}, nil
}

func (f *DeltaFilter) UnmarshalBinary(data []byte) error {
	if len(data) != DeltaFilterLen {
		return errors.New("xz: data for delta filter has wrong length")
	}
	if data[0] != DeltaFilterID {
		return errors.New("xz: wrong delta filter id")
	}
	if data[1] != 1 {
		return errors.New("xz: wrong delta filter size")
	}
	f.distance = int(data[2]) + 1
	return nil
}

func (f *DeltaFilter) last() bool { return false }

func (f *DeltaFilter) Reader(r io.Reader, c *ReaderConfig) (fr io.Reader, err error) {
	if !(1 <= f.distance && f.distance <= 256) {
		return nil, errors.New("xz: delta distance out of range")
	}
	return &deltaReader{r: r, distance: f.distance}, nil
}

func (f *DeltaFilter) WriteCloser(w io.WriteCloser, c *WriterConfig) (fw io.WriteCloser, err error) {
	if !(1 <= f.distance && f.distance <= 256) {
		return nil, errors.New("xz: delta distance out of range")
	}
	return &deltaWriteCloser{w: w, distance: f.distance}, nil
}

// deltaReader undoes the delta transform while reading: each byte is
// added to the one distance positions before it in the output stream.
type deltaReader struct {
	r        io.Reader
	distance int
	hist     [256]byte
	pos      int
}

func (z *deltaReader) Read(p []byte) (n int, err error) {
	n, err = z.r.Read(p)
	for i := 0; i < n; i++ {
		idx := z.pos % z.distance
		p[i] += z.hist[idx]
		z.hist[idx] = p[i]
		z.pos++
	}
	return n, err
}

// deltaWriteCloser applies the delta transform while writing: each
// byte is replaced by its difference from the byte distance positions
// before it.
type deltaWriteCloser struct {
	w        io.WriteCloser
	distance int
	hist     [256]byte
	pos      int
}

func (z *deltaWriteCloser) Write(p []byte) (n int, err error) {
	out := make([]byte, len(p))
	for i, b := range p {
		idx := z.pos % z.distance
		out[i] = b - z.hist[idx]
		z.hist[idx] = b
		z.pos++
	}
	n, err = z.w.Write(out)
	return n, err
}

func (z *deltaWriteCloser) Close() error {
	return z.w.Close()
}
