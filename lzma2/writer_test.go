package lzma2

import (
	"bytes"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/ulikunitz/xz/randtxt"
)

func TestWriterEmptyClose(t *testing.T) {
	const dictCap = 4096
	var buf bytes.Buffer
	w, err := NewWriter(&buf, dictCap)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0}) {
		t.Fatalf("empty stream bytes %#v; want %#v", buf.Bytes(), []byte{0})
	}
}

func TestWriterDoubleFlush(t *testing.T) {
	const dictCap = 4096
	var buf bytes.Buffer
	w, err := NewWriter(&buf, dictCap)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	if _, err = w.Write([]byte("a")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = w.Flush(); err != nil {
		t.Fatalf("first Flush error %s", err)
	}
	n := buf.Len()
	if err = w.Flush(); err != nil {
		t.Fatalf("second Flush error %s", err)
	}
	if buf.Len() != n {
		t.Fatalf("second Flush wrote %d additional bytes; want 0",
			buf.Len()-n)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
}

func TestCycleSmall(t *testing.T) {
	const dictCap = 4096
	var buf bytes.Buffer
	w, err := NewWriter(&buf, dictCap)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	const text = "abcabcabcabc"
	if _, err = w.Write([]byte(text)); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}

	r, err := NewReader(&buf, dictCap)
	if err != nil {
		t.Fatalf("NewReader error %s", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	if string(out) != text {
		t.Fatalf("got %q; want %q", out, text)
	}
}

func TestCycleLarge(t *testing.T) {
	const dictCap = 1 << 16
	buf := new(bytes.Buffer)
	w, err := NewWriter(buf, dictCap)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}

	const txtlen = 200000
	var txtBuf bytes.Buffer
	io.CopyN(&txtBuf, randtxt.NewReader(rand.NewSource(42)), txtlen)
	txt := txtBuf.String()

	n, err := io.Copy(w, strings.NewReader(txt))
	if err != nil {
		t.Fatalf("compressing copy error %s", err)
	}
	if n != txtlen {
		t.Fatalf("compressed %d bytes; want %d", n, txtlen)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	t.Logf("compressed %d bytes into %d bytes", txtlen, buf.Len())

	r, err := NewReader(buf, dictCap)
	if err != nil {
		t.Fatalf("NewReader error %s", err)
	}
	out := new(bytes.Buffer)
	n, err = io.Copy(out, r)
	if err != nil {
		t.Fatalf("decompressing copy error %s after %d bytes", err, n)
	}
	if n != txtlen {
		t.Fatalf("decompressed %d bytes; want %d", n, txtlen)
	}
	if txt != out.String() {
		t.Fatal("decompressed data differs from original")
	}
}
