/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package kernel

import (
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/lcod-team/lcod-kernel-go/types"
)

// StreamHandle is an opaque, process-local identifier referencing an
// internal chunk source. Handles are not transferable across
// processes or contexts.
type StreamHandle uint64

// ChunkSource yields successive byte chunks, returning done=true once
// exhausted. Close releases any underlying resource.
type ChunkSource interface {
	Next() (chunk []byte, done bool, err error)
	Close() error
}

type streamEntry struct {
	source ChunkSource
	// residue holds bytes withheld from the last utf-8 decode because
	// they were part of an incomplete multi-byte sequence.
	residue []byte
	closed  bool
}

// StreamManager owns the opaque handle → chunk source table for one
// execution context, using a monotonically increasing integer key as
// the design notes prescribe.
type StreamManager struct {
	mu      sync.Mutex
	next    atomic.Uint64
	entries map[StreamHandle]*streamEntry
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{entries: make(map[StreamHandle]*streamEntry)}
}

// CreateFromIterator registers a ChunkSource and returns its handle.
func (m *StreamManager) CreateFromIterator(source ChunkSource) StreamHandle {
	h := StreamHandle(m.next.Add(1))
	m.mu.Lock()
	m.entries[h] = &streamEntry{source: source}
	m.mu.Unlock()
	return h
}

// CreateFromReadable is an alias of CreateFromIterator for byte-stream
// sources, kept distinct to mirror the two construction paths named in
// the stream manager's contract.
func (m *StreamManager) CreateFromReadable(source ChunkSource) StreamHandle {
	return m.CreateFromIterator(source)
}

// ReadOptions control decoding and chunk sizing for Read.
type ReadOptions struct {
	Decode   string // "" or "utf-8"
	MaxBytes int    // 0 means unbounded
}

// ReadResult is the outcome of one Read call.
type ReadResult struct {
	Chunk types.Value
	Done  bool
}

// Read returns the next chunk from handle, honouring decode and
// maxBytes. utf-8 decoding buffers any trailing incomplete rune across
// calls so multi-byte characters are never split across chunk
// boundaries.
func (m *StreamManager) Read(handle StreamHandle, opts ReadOptions) (ReadResult, error) {
	m.mu.Lock()
	entry, ok := m.entries[handle]
	m.mu.Unlock()
	if !ok || entry.closed {
		return ReadResult{}, &types.Error{Code: types.UnknownHandle, Message: "stream handle closed or unknown"}
	}

	raw, done, err := entry.source.Next()
	if err != nil {
		return ReadResult{}, types.Wrap(types.UnexpectedError, err)
	}

	data := append(entry.residue, raw...)
	entry.residue = nil

	if opts.Decode == "utf-8" {
		valid, residue := splitValidUTF8(data)
		data = valid
		entry.residue = residue
	}

	if opts.MaxBytes > 0 && len(data) > opts.MaxBytes {
		cut := opts.MaxBytes
		if opts.Decode == "utf-8" {
			for cut > 0 && !utf8.RuneStart(data[cut]) {
				cut--
			}
			if cut == 0 {
				cut = opts.MaxBytes
			}
		}
		overflow := data[cut:]
		data = data[:cut]
		entry.residue = append(overflow, entry.residue...)
		done = false
	}

	if len(data) == 0 && done {
		return ReadResult{Done: true}, nil
	}

	if opts.Decode == "utf-8" {
		return ReadResult{Chunk: string(data), Done: done && len(entry.residue) == 0}, nil
	}
	return ReadResult{Chunk: append([]byte(nil), data...), Done: done}, nil
}

// Close releases handle; idempotent. Further reads on a closed handle
// fail with unknown_handle.
func (m *StreamManager) Close(handle StreamHandle) (released bool, err error) {
	m.mu.Lock()
	entry, ok := m.entries[handle]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if entry.closed {
		return false, nil
	}
	entry.closed = true
	closeErr := entry.source.Close()

	m.mu.Lock()
	delete(m.entries, handle)
	m.mu.Unlock()

	if closeErr != nil {
		return true, types.Wrap(types.UnexpectedError, closeErr)
	}
	return true, nil
}

// CloseAll closes every still-open handle. Execute does not call it:
// a handle not closed through Close or a cleanup-scope finaliser stays
// open until CloseAll is called.
func (m *StreamManager) CloseAll() {
	m.mu.Lock()
	handles := make([]StreamHandle, 0, len(m.entries))
	for h := range m.entries {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	for _, h := range handles {
		_, _ = m.Close(h)
	}
}

// splitValidUTF8 returns the longest valid-UTF-8 prefix of data and the
// remaining bytes that form an incomplete trailing rune.
func splitValidUTF8(data []byte) (valid []byte, residue []byte) {
	if len(data) == 0 {
		return data, nil
	}
	// Walk back from the end looking for where a rune decode might
	// still be in progress (at most 3 bytes of lookback needed for a
	// 4-byte rune).
	for back := 0; back < 4 && back < len(data); back++ {
		idx := len(data) - 1 - back
		if utf8.RuneStart(data[idx]) {
			r, size := utf8.DecodeRune(data[idx:])
			if r == utf8.RuneError && size <= 1 {
				return data[:idx], data[idx:]
			}
			if idx+size > len(data) {
				return data[:idx], data[idx:]
			}
			break
		}
	}
	return data, nil
}
