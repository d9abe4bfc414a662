package lzma2

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// Writer writes a sequence of LZMA2 chunks. The first chunk always
// resets the dictionary and carries fresh properties, as required by
// the format. The Writer does not terminate the chunk sequence with
// an end-of-stream chunk; use Close, which appends one, once no more
// chunks are needed.
type Writer struct {
	DictCap int

	w    io.Writer
	enc  *lzma.Encoder
	buf  bytes.Buffer
	props lzma.Properties

	chunkStart int64
	firstChunk bool
	closed     bool
}

// NewWriter creates an LZMA2 chunk sequence writer with the default
// parameters and the given dictionary capacity.
func NewWriter(lzma2 io.Writer, dictCap int) (w *Writer, err error) {
	p := Default
	p.DictCap = dictCap
	return NewWriterParams(lzma2, p)
}

// NewWriterParams creates an LZMA2 chunk stream writer with the given
// parameters.
func NewWriterParams(lzma2 io.Writer, p Parameters) (w *Writer, err error) {
	if lzma2 == nil {
		return nil, newError("writer must be non-nil")
	}
	p.fill()
	if err = p.verify(); err != nil {
		return nil, err
	}
	props := p.Properties()

	wr := &Writer{
		DictCap:    p.DictCap,
		w:          lzma2,
		props:      props,
		firstChunk: true,
	}
	wr.enc, err = lzma.NewEncoder(&wr.buf, lzma.EncoderParams{
		Properties: props,
		DictCap:    p.DictCap,
		BufSize:    p.BufSize,
		Matcher:    lzma.HashTable4,
	})
	if err != nil {
		return nil, err
	}
	return wr, nil
}

// writeGranularity bounds how much input Write feeds the encoder
// between shouldFlush checks, so that even maximally incompressible
// data cannot grow a chunk's packed size past its format limit before
// the check gets a chance to close the chunk.
const writeGranularity = 1 << 15

// Write compresses p into the chunk sequence, starting new chunks as
// the per-chunk size limits of the format are approached.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.closed {
		return 0, newError("writer is closed")
	}
	for n < len(p) {
		k, werr := w.enc.Write(p[n : n+min(len(p)-n, writeGranularity)])
		n += k
		if werr != nil {
			return n, werr
		}
		if w.shouldFlush() {
			if err = w.flushChunk(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// shouldFlush reports whether the current chunk has reached either of
// the format's per-chunk size limits.
func (w *Writer) shouldFlush() bool {
	if w.enc.Pos()-w.chunkStart >= maxUnpackedSize {
		return true
	}
	return int64(w.buf.Len()) >= maxPackedSize-256
}

// flushChunk terminates the current chunk, if any data has been
// buffered for it, writing its header followed by its compressed
// payload.
func (w *Writer) flushChunk() error {
	if err := w.enc.Compress(0); err != nil {
		return err
	}
	unpacked := w.enc.Pos() - w.chunkStart
	if unpacked == 0 {
		return nil
	}
	if err := w.enc.Flush(); err != nil {
		return err
	}

	h := chunkHeader{
		unpackedSize: unpacked,
		packedSize:   int64(w.buf.Len()),
	}
	if w.firstChunk {
		h.control = packedResetDictCtrl
		h.props = w.props
	} else {
		h.control = packedCtrl
	}
	if _, err := writeChunkHeader(w.w, h); err != nil {
		return err
	}
	if _, err := io.Copy(w.w, &w.buf); err != nil {
		return err
	}
	w.buf.Reset()
	w.enc.Reopen(&w.buf)
	w.chunkStart = w.enc.Pos()
	w.firstChunk = false
	return nil
}

// Flush terminates the current chunk. If more data is written
// afterwards, a new chunk is started. Calling Flush when no data is
// pending is a no-op.
func (w *Writer) Flush() error {
	if w.closed {
		return newError("writer is closed")
	}
	return w.flushChunk()
}

// Close terminates the chunk sequence, flushing any pending data and
// appending an end-of-stream chunk.
func (w *Writer) Close() error {
	if w.closed {
		return newError("writer is closed")
	}
	if err := w.flushChunk(); err != nil {
		return err
	}
	if err := WriteEOS(w.w); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
