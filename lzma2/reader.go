package lzma2

import (
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// Reader supports the reading of LZMA2 chunk sequences. The first
// chunk of a well-formed stream always resets the dictionary, and the
// first compressed chunk always carries new properties.
type Reader struct {
	DictCap int
	// Properties holds the properties used by the most recently
	// seen compressed chunk.
	Properties lzma.Properties

	r   io.Reader
	err error

	dict        *lzma.DecoderDict
	decoder     *lzma.Decoder
	chunkReader io.Reader
}

// NewReader creates a reader for an LZMA2 chunk sequence with the
// given dictionary capacity.
func NewReader(lzma2 io.Reader, dictCap int) (r *Reader, err error) {
	if lzma2 == nil {
		return nil, newError("reader must be non-nil")
	}
	if dictCap <= 0 {
		dictCap = Default.DictCap
	}
	if err = verifyDictCap(dictCap); err != nil {
		return nil, err
	}
	dict, err := lzma.NewDecoderDict(dictCap, dictCap+4096)
	if err != nil {
		return nil, err
	}
	r = &Reader{DictCap: dictCap, r: lzma2, dict: dict}
	return r, nil
}

// nextChunk parses the next chunk header and prepares chunkReader to
// serve its payload.
func (r *Reader) nextChunk() error {
	h, err := readChunkHeader(r.r)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	if h.control.eos() {
		return io.EOF
	}

	if !h.packed() {
		if h.resetDict() {
			r.dict.Reset()
		}
		r.chunkReader = &uncompressedChunkReader{
			lr:   io.LimitReader(r.r, h.unpackedSize),
			dict: r.dict,
		}
		return nil
	}

	props := r.Properties
	if h.newProps() {
		props = h.props
	}
	if h.resetDict() {
		r.dict.Reset()
	}
	lr := io.LimitReader(r.r, h.packedSize)
	if r.decoder == nil {
		r.decoder, err = lzma.NewChunkDecoder(lr, props, r.dict, h.unpackedSize)
		if err != nil {
			return err
		}
	} else {
		if h.newProps() || h.resetState() {
			r.decoder.ResetState(props)
		}
		if err = r.decoder.Reopen(lr, h.unpackedSize); err != nil {
			return err
		}
	}
	r.Properties = props
	r.chunkReader = r.decoder
	return nil
}

// Read reads data from the LZMA2 chunk sequence.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}
	for n < len(p) {
		if r.chunkReader == nil {
			if err = r.nextChunk(); err != nil {
				break
			}
		}
		var k int
		k, err = r.chunkReader.Read(p[n:])
		n += k
		if err == io.EOF {
			r.chunkReader = nil
			err = nil
			continue
		}
		if err != nil {
			break
		}
	}
	if err != nil {
		r.err = err
		if n > 0 && err == io.EOF {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

// uncompressedChunkReader copies an uncompressed chunk's payload
// through the decoder dictionary, so later compressed chunks can
// still reference it as history, while handing the bytes back to the
// caller.
type uncompressedChunkReader struct {
	lr   io.Reader
	dict *lzma.DecoderDict
	err  error
}

func (u *uncompressedChunkReader) Read(p []byte) (n int, err error) {
	for n < len(p) {
		if u.dict.Buffered() > 0 {
			k, _ := u.dict.Read(p[n:])
			n += k
			continue
		}
		if u.err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, u.err
		}
		var buf [4096]byte
		m := len(buf)
		if a := u.dict.Available(); a < m {
			m = a
		}
		if m == 0 {
			u.err = newError("uncompressed chunk exceeds dictionary buffer")
			continue
		}
		k, rerr := u.lr.Read(buf[:m])
		if k > 0 {
			if _, werr := u.dict.Write(buf[:k]); werr != nil {
				u.err = werr
				continue
			}
		}
		if rerr != nil {
			u.err = rerr
		}
	}
	return n, nil
}
