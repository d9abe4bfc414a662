package filter

import (
	"bytes"
	"io"
	"testing"
)

// bcjRoundtrip encodes data through a BCJ filter's WriteCloser and
// decodes the result back through a fresh filter's Reader, checking
// that the original bytes come back out.
func bcjRoundtrip(t *testing.T, name string, id uint64, newCoder func() simpleCoder, data []byte) {
	t.Helper()

	enc := newBCJFilter(id, newCoder)
	var buf bytes.Buffer
	wc, err := enc.WriteCloser(nopWriteCloserBuf{&buf}, nil)
	if err != nil {
		t.Fatalf("%s: WriteCloser error %s", name, err)
	}
	if _, err = wc.Write(data); err != nil {
		t.Fatalf("%s: Write error %s", name, err)
	}
	if err = wc.Close(); err != nil {
		t.Fatalf("%s: Close error %s", name, err)
	}

	dec := newBCJFilter(id, newCoder)
	r, err := dec.Reader(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("%s: Reader error %s", name, err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("%s: ReadAll error %s", name, err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("%s: roundtrip mismatch:\ngot  % x\nwant % x", name, got, data)
	}
}

func repeatedCallPattern(opByte byte, n int) []byte {
	p := make([]byte, n)
	for i := 0; i+5 <= n; i += 7 {
		p[i] = opByte
		p[i+1] = byte(i * 13)
		p[i+2] = byte(i * 31)
		p[i+3] = byte(i * 7)
		p[i+4] = 0x00
	}
	return p
}

func TestBCJRoundtrip(t *testing.T) {
	data32 := repeatedCallPattern(0xe8, 256)

	cases := []struct {
		name     string
		id       uint64
		newCoder func() simpleCoder
		data     []byte
	}{
		{"x86", X86FilterID, func() simpleCoder { return new(x86Coder) }, data32},
		{"powerpc", PowerPCFilterID, func() simpleCoder { return new(powerPCCoder) }, data32},
		{"ia64", IA64FilterID, func() simpleCoder { return new(ia64Coder) }, make([]byte, 64)},
		{"arm", ARMFilterID, func() simpleCoder { return new(armCoder) }, data32},
		{"armthumb", ARMThumbFilterID, func() simpleCoder { return new(armThumbCoder) }, data32},
		{"sparc", SPARCFilterID, func() simpleCoder { return new(sparcCoder) }, data32},
		{"arm64", ARM64FilterID, func() simpleCoder { return new(arm64Coder) }, data32},
		{"riscv", RISCVFilterID, func() simpleCoder { return new(riscvCoder) }, data32},
		{"loongarch", LoongArchFilterID, func() simpleCoder { return new(loongArchCoder) }, data32},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			bcjRoundtrip(t, c.name, c.id, c.newCoder, c.data)
		})
	}
}

func TestBCJMarshalUnmarshal(t *testing.T) {
	f := newBCJFilter(ARMFilterID, func() simpleCoder { return new(armCoder) })
	p, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error %s", err)
	}
	if len(p) != 2 {
		t.Fatalf("MarshalBinary returned %d bytes; want 2", len(p))
	}

	g := newBCJFilter(ARMFilterID, func() simpleCoder { return new(armCoder) })
	if err = g.UnmarshalBinary(p); err != nil {
		t.Fatalf("UnmarshalBinary error %s", err)
	}

	f.startOff = 0x1000
	p, err = f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary with start offset error %s", err)
	}
	if len(p) != 6 {
		t.Fatalf("MarshalBinary with start offset returned %d bytes; want 6", len(p))
	}
	g = newBCJFilter(ARMFilterID, func() simpleCoder { return new(armCoder) })
	if err = g.UnmarshalBinary(p); err != nil {
		t.Fatalf("UnmarshalBinary with start offset error %s", err)
	}
	if g.startOff != f.startOff {
		t.Fatalf("got start offset %#x; want %#x", g.startOff, f.startOff)
	}
}

func TestNewDispatchesAllFilterIDs(t *testing.T) {
	ids := []uint64{
		LZMAFilterID, DeltaFilterID, X86FilterID, PowerPCFilterID,
		IA64FilterID, ARMFilterID, ARMThumbFilterID, SPARCFilterID,
		ARM64FilterID, RISCVFilterID, LoongArchFilterID,
	}
	for _, id := range ids {
		f, err := New(id)
		if err != nil {
			t.Fatalf("New(%#x) error %s", id, err)
		}
		if f == nil {
			t.Fatalf("New(%#x) returned nil", id)
		}
	}

	if _, err := New(0xff); err == nil {
		t.Fatal("New(0xff) succeeded; want error")
	}
}
