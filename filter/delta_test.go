package filter

import (
	"bytes"
	"io"
	"testing"
)

type nopWriteCloserBuf struct {
	*bytes.Buffer
}

func (nopWriteCloserBuf) Close() error { return nil }

func TestDeltaRoundtrip(t *testing.T) {
	for _, distance := range []int{1, 2, 4, 16, 256} {
		data := []byte("The quick brown fox jumps over the lazy dog. " +
			"The quick brown fox jumps over the lazy dog.")

		f := NewDeltaFilter(distance)

		var buf bytes.Buffer
		wc, err := f.WriteCloser(nopWriteCloserBuf{&buf}, nil)
		if err != nil {
			t.Fatalf("distance %d: WriteCloser error %s", distance, err)
		}
		if _, err = wc.Write(data); err != nil {
			t.Fatalf("distance %d: Write error %s", distance, err)
		}
		if err = wc.Close(); err != nil {
			t.Fatalf("distance %d: Close error %s", distance, err)
		}

		fr := NewDeltaFilter(distance)
		r, err := fr.Reader(bytes.NewReader(buf.Bytes()), nil)
		if err != nil {
			t.Fatalf("distance %d: Reader error %s", distance, err)
		}
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("distance %d: ReadAll error %s", distance, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("distance %d: roundtrip mismatch: got %q; want %q",
				distance, got, data)
		}
	}
}

func TestDeltaMarshalUnmarshal(t *testing.T) {
	f := NewDeltaFilter(17)
	p, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error %s", err)
	}
	if len(p) != DeltaFilterLen {
		t.Fatalf("MarshalBinary returned %d bytes; want %d", len(p), DeltaFilterLen)
	}

	g := new(DeltaFilter)
	if err = g.UnmarshalBinary(p); err != nil {
		t.Fatalf("UnmarshalBinary error %s", err)
	}
	if g.Distance() != f.Distance() {
		t.Fatalf("got distance %d; want %d", g.Distance(), f.Distance())
	}
}

func TestDeltaDistanceOutOfRange(t *testing.T) {
	f := NewDeltaFilter(0)
	if _, err := f.MarshalBinary(); err == nil {
		t.Fatal("MarshalBinary succeeded for distance 0; want error")
	}
	f = NewDeltaFilter(257)
	if _, err := f.MarshalBinary(); err == nil {
		t.Fatal("MarshalBinary succeeded for distance 257; want error")
	}
}
