package xz

import (
	"bytes"
	"testing"
)

func TestHeader(t *testing.T) {
	flags := fCRC32
	var buf bytes.Buffer

	n, err := writeHeader(&buf, flags)
	if err != nil {
		t.Fatalf("writeHeader error %s", err)
	}
	if n != headerLen {
		t.Fatalf("writeHeader returned %d; want %d", n, headerLen)
	}

	hdr, err := readHeader(&buf, false)
	if err != nil {
		t.Fatalf("readHeader error %s", err)
	}
	if hdr.flags != flags {
		t.Fatalf("readHeader returned flags 0x%02x; want 0x%02x",
			hdr.flags, flags)
	}
}

func TestFooter(t *testing.T) {
	flags := fCRC32
	indexSize := int64(1236)
	var buf bytes.Buffer

	f := footer{indexSize: indexSize, flags: flags}
	p, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error %s", err)
	}
	if len(p) != footerLen {
		t.Fatalf("MarshalBinary returned %d bytes; want %d", len(p), footerLen)
	}
	if _, err = buf.Write(p); err != nil {
		t.Fatalf("buf.Write error %s", err)
	}

	g, err := readFooter(&buf)
	if err != nil {
		t.Fatalf("readFooter error %s", err)
	}
	if g.indexSize != indexSize {
		t.Fatalf("readFooter returned index size %d; want %d",
			g.indexSize, indexSize)
	}
	if g.flags != flags {
		t.Fatalf("readFooter returned flags 0x%02x; want 0x%02x",
			g.flags, flags)
	}
}

func TestRecord(t *testing.T) {
	r := record{1234567, 10000}
	p, err := r.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error %s", err)
	}

	g, n, err := readRecord(bytes.NewReader(p))
	if err != nil {
		t.Fatalf("readRecord error %s", err)
	}
	if n != len(p) {
		t.Fatalf("read %d bytes; wrote %d", n, len(p))
	}
	if g.unpaddedSize != r.unpaddedSize {
		t.Fatalf("got unpaddedSize %d; want %d", g.unpaddedSize,
			r.unpaddedSize)
	}
	if g.uncompressedSize != r.uncompressedSize {
		t.Fatalf("got uncompressedSize %d; want %d", g.uncompressedSize,
			r.uncompressedSize)
	}
}

func TestIndex(t *testing.T) {
	records := []record{{1234, 1}, {2345, 2}}

	var buf bytes.Buffer
	n, err := writeIndex(&buf, records)
	if err != nil {
		t.Fatalf("writeIndex error %s", err)
	}
	if n != buf.Len() {
		t.Fatalf("writeIndex returned %d; want %d", n, buf.Len())
	}

	// indicator
	c, err := buf.ReadByte()
	if err != nil {
		t.Fatalf("buf.ReadByte error %s", err)
	}
	if c != 0 {
		t.Fatalf("indicator %d; want %d", c, 0)
	}

	g, m, err := readIndexBody(&buf, len(records))
	if err != nil {
		for i, r := range g {
			t.Logf("records[%d] %v", i, r)
		}
		t.Fatalf("readIndexBody error %s", err)
	}
	if m != n-1 {
		t.Fatalf("readIndexBody returned %d; want %d", m, n-1)
	}
	for i, rec := range records {
		if g[i] != rec {
			t.Errorf("records[%d] is %v; want %v", i, g[i], rec)
		}
	}
}
