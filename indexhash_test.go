// Copyright 2014-2022 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xz

import (
	"bytes"
	"testing"
)

func TestIndexHashMatch(t *testing.T) {
	recs := []record{{1234567, 10000}, {89, 45}, {1 << 20, 1 << 21}}

	h := NewIndexHash()
	for _, rec := range recs {
		if err := h.Append(rec.unpaddedSize, rec.uncompressedSize); err != nil {
			t.Fatalf("Append error %s", err)
		}
	}

	var buf bytes.Buffer
	if _, err := writeIndex(&buf, recs); err != nil {
		t.Fatalf("writeIndex error %s", err)
	}
	// writeIndex writes the index indicator byte too; Decode expects
	// the caller to have already consumed it.
	if b, err := buf.ReadByte(); err != nil || b != 0 {
		t.Fatalf("unexpected index indicator byte %d err %v", b, err)
	}

	if _, err := h.Decode(&buf); err != nil {
		t.Fatalf("Decode error %s", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("buffer still has %d bytes", buf.Len())
	}
}

func TestIndexHashRecordCountMismatch(t *testing.T) {
	recs := []record{{100, 200}, {300, 400}}

	h := NewIndexHash()
	if err := h.Append(recs[0].unpaddedSize, recs[0].uncompressedSize); err != nil {
		t.Fatalf("Append error %s", err)
	}

	var buf bytes.Buffer
	if _, err := writeIndex(&buf, recs); err != nil {
		t.Fatalf("writeIndex error %s", err)
	}
	buf.ReadByte()

	if _, err := h.Decode(&buf); err == nil {
		t.Fatal("Decode succeeded for mismatched record count; want error")
	}
}

func TestIndexHashSizeMismatch(t *testing.T) {
	appended := []record{{100, 200}, {300, 400}}
	onWire := []record{{100, 200}, {300, 9999}}

	h := NewIndexHash()
	for _, rec := range appended {
		if err := h.Append(rec.unpaddedSize, rec.uncompressedSize); err != nil {
			t.Fatalf("Append error %s", err)
		}
	}

	var buf bytes.Buffer
	if _, err := writeIndex(&buf, onWire); err != nil {
		t.Fatalf("writeIndex error %s", err)
	}
	buf.ReadByte()

	if _, err := h.Decode(&buf); err == nil {
		t.Fatal("Decode succeeded for mismatched block sizes; want error")
	}
}

func TestIndexHashAppendAfterDecode(t *testing.T) {
	h := NewIndexHash()
	if err := h.Append(10, 20); err != nil {
		t.Fatalf("Append error %s", err)
	}

	var buf bytes.Buffer
	writeIndex(&buf, []record{{10, 20}})
	buf.ReadByte()
	if _, err := h.Decode(&buf); err != nil {
		t.Fatalf("Decode error %s", err)
	}

	if err := h.Append(1, 1); err == nil {
		t.Fatal("Append after Decode succeeded; want error")
	}
}
