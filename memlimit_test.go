// Copyright 2014-2022 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xz

import "testing"

func TestMemLimiter(t *testing.T) {
	m := NewMemLimiter(6144)

	if err := m.Alloc(4096); err != nil {
		t.Fatalf("first Alloc(4096) error %s", err)
	}
	m.Free(4096)

	if err := m.Alloc(4096); err != nil {
		t.Fatalf("second Alloc(4096) error %s", err)
	}

	err := m.Alloc(4096)
	if err != ErrMemLimit {
		t.Fatalf("third Alloc(4096) error %v; want %v", err, ErrMemLimit)
	}

	if peak := m.Peak(); peak < 12288 {
		t.Errorf("Peak() = %d; want >= 12288", peak)
	}
}
