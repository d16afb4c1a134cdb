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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"pagecache/internal/storage/page"
)

func TestFileDiskManagerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	dm, err := OpenFile(path)
	assert.NoError(t, err, "OpenFile")
	defer dm.Close()

	var buf [page.Size]byte
	copy(buf[:], "hello page")

	assert.NoError(t, dm.WritePage(3, &buf), "WritePage")

	var out [page.Size]byte
	assert.NoError(t, dm.ReadPage(3, &out), "ReadPage")
	assert.Equal(t, buf, out, "ReadPage() should return the bytes written by WritePage()")
}

func TestFileDiskManagerReadUnwrittenPageIsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	dm, err := OpenFile(path)
	assert.NoError(t, err, "OpenFile")
	defer dm.Close()

	var out [page.Size]byte
	out[0] = 0xFF
	assert.NoError(t, dm.ReadPage(7, &out), "ReadPage")

	var zero [page.Size]byte
	assert.Equal(t, zero, out, "ReadPage() on an unwritten page should return zeroed bytes")
}

func TestMemDiskManagerLogsReadsAndWrites(t *testing.T) {
	dm := NewMemDiskManager()

	var buf [page.Size]byte
	copy(buf[:], "x")
	assert.NoError(t, dm.WritePage(1, &buf), "WritePage")

	var out [page.Size]byte
	assert.NoError(t, dm.ReadPage(1, &out), "ReadPage")

	assert.Equal(t, []page.ID{1}, dm.WriteLog, "WriteLog")
	assert.Equal(t, []page.ID{1}, dm.ReadLog, "ReadLog")

	contents, ok := dm.Contents(1)
	assert.True(t, ok, "Contents(1) presence")
	assert.Equal(t, byte('x'), contents[0], "Contents(1)[0]")
}
