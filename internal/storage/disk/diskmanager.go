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

/*
Package disk provides the DiskManager the buffer pool manager reads
pages from and writes pages to, plus a file-backed implementation.

Page Addressing:
================

Pages are addressed by a process-wide page.ID. FileDiskManager maps a
page id directly to a byte offset in the backing file:

	offset = int64(pageID) * page.Size

There is no free list and no header page: allocation of new page ids is
the buffer pool manager's responsibility (see AllocatePage in the
buffer package). The disk manager only ever sees ids it is told to read
or write, and transparently grows the backing file to accommodate
ids it has not seen before.

Thread Safety:
==============

FileDiskManager serializes access with a single mutex. The buffer pool
manager already holds its own latch across every disk call it makes, so
this mutex only protects against direct concurrent use of the same
FileDiskManager from outside a single buffer pool.
*/
package disk

import (
	"os"
	"sync"

	"pagecache/internal/bpcerr"
	"pagecache/internal/storage/page"
)

// Manager reads and writes fixed-size pages by id. Implementations fail
// with a *bpcerr.Error of kind bpcerr.IoError.
type Manager interface {
	ReadPage(id page.ID, buf *[page.Size]byte) error
	WritePage(id page.ID, buf *[page.Size]byte) error
}

// FileDiskManager persists pages to a single backing file, one
// page.Size slot per page id.
type FileDiskManager struct {
	mu   sync.Mutex
	file *os.File
}

// OpenFile opens (creating if necessary) path as the backing store for
// a FileDiskManager.
func OpenFile(path string) (*FileDiskManager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, bpcerr.Wrap("disk.OpenFile", err)
	}
	return &FileDiskManager{file: f}, nil
}

// ReadPage fills buf with the on-disk contents of id. Reading an id
// that has never been written yields a zero-filled buffer.
func (d *FileDiskManager) ReadPage(id page.ID, buf *[page.Size]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(id) * page.Size
	n, err := d.file.ReadAt(buf[:], offset)
	if err != nil && n == 0 {
		// Reading past the current end of file is a cache miss on a
		// page never written; treat it as an all-zero page rather
		// than an I/O fault.
		for i := range buf {
			buf[i] = 0
		}
		return nil
	}
	if err != nil && n < len(buf) {
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
	}
	return nil
}

// WritePage persists buf as the contents of page id, growing the
// backing file if necessary.
func (d *FileDiskManager) WritePage(id page.ID, buf *[page.Size]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(id) * page.Size
	if _, err := d.file.WriteAt(buf[:], offset); err != nil {
		return bpcerr.Wrap("disk.WritePage", err)
	}
	return nil
}

// Sync flushes the backing file to stable storage.
func (d *FileDiskManager) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.file.Sync(); err != nil {
		return bpcerr.Wrap("disk.Sync", err)
	}
	return nil
}

// Close closes the backing file.
func (d *FileDiskManager) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Close()
}
