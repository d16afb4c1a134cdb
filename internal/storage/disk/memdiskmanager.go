/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
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

package disk

import (
	"sync"

	"pagecache/internal/storage/page"
)

// MemDiskManager is an in-memory Manager for tests and benchmarks. It
// never fails and never touches the filesystem.
type MemDiskManager struct {
	mu    sync.Mutex
	pages map[page.ID][page.Size]byte

	// WriteLog records every WritePage call, in order, for tests that
	// assert on writeback ordering.
	WriteLog []page.ID
	// ReadLog records every ReadPage call, in order.
	ReadLog []page.ID
}

// NewMemDiskManager returns an empty MemDiskManager.
func NewMemDiskManager() *MemDiskManager {
	return &MemDiskManager{pages: make(map[page.ID][page.Size]byte)}
}

// ReadPage fills buf with the stored contents of id, or zeros if id has
// never been written.
func (d *MemDiskManager) ReadPage(id page.ID, buf *[page.Size]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ReadLog = append(d.ReadLog, id)
	if stored, ok := d.pages[id]; ok {
		*buf = stored
		return nil
	}
	for i := range buf {
		buf[i] = 0
	}
	return nil
}

// WritePage stores buf as the contents of page id.
func (d *MemDiskManager) WritePage(id page.ID, buf *[page.Size]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.WriteLog = append(d.WriteLog, id)
	d.pages[id] = *buf
	return nil
}

// Contents returns a copy of the stored bytes for id, and whether id
// has ever been written.
func (d *MemDiskManager) Contents(id page.ID) ([page.Size]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	stored, ok := d.pages[id]
	return stored, ok
}
