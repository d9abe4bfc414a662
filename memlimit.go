// Copyright 2014-2022 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xz

import (
	"errors"
	"sync"
)

// ErrMemLimit is returned by MemLimiter.Alloc when granting the
// requested allocation would push the running total past the
// configured limit.
var ErrMemLimit = errors.New("xz: memory limit exceeded")

// MemLimiter enforces an upper bound on the memory a decoder or
// encoder may use. It mirrors liblzma's allocator wrapper: every
// allocation is checked against a running total before it is granted,
// and the cumulative number of bytes ever requested -- granted or
// refused -- stays available afterwards, so a caller that hit the
// limit can report how large a limit would actually have been
// needed. All methods are safe for concurrent use.
type MemLimiter struct {
	mu sync.Mutex

	limit int64
	total int64
	peak  int64
}

// NewMemLimiter returns a MemLimiter that refuses allocations once the
// running total would exceed limit bytes. A non-positive limit means
// no allocation will ever be granted.
func NewMemLimiter(limit int64) *MemLimiter {
	return &MemLimiter{limit: limit}
}

// Limit returns the configured memory limit.
func (m *MemLimiter) Limit() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit
}

// SetLimit changes the memory limit. It does not affect the current
// running total or the recorded peak.
func (m *MemLimiter) SetLimit(limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limit = limit
}

// Total returns the number of bytes currently accounted as live,
// i.e. allocated and not yet freed.
func (m *MemLimiter) Total() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Peak returns the cumulative number of bytes ever requested through
// Alloc, whether or not the request was granted. Unlike Total it
// never decreases, so after a rejection it reports the size the
// limit would have needed to reach to satisfy every request made so
// far.
func (m *MemLimiter) Peak() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

// Alloc requests n additional bytes. It succeeds and adds n to the
// running total if doing so would not exceed the limit; otherwise it
// leaves the running total untouched and returns ErrMemLimit. Either
// way, the request is added to the cumulative peak bookkeeping
// returned by Peak.
func (m *MemLimiter) Alloc(n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.peak += n
	if m.total+n > m.limit {
		return ErrMemLimit
	}
	m.total += n
	return nil
}

// Free releases n bytes previously granted by Alloc, subtracting them
// from the running total. The running total never drops below zero.
func (m *MemLimiter) Free(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total -= n
	if m.total < 0 {
		m.total = 0
	}
}
