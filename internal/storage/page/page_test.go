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

package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFrameStartsEmpty(t *testing.T) {
	f := NewFrame()
	assert.Equal(t, InvalidID, f.PageID, "PageID")
	assert.Equal(t, 0, f.PinCount, "PinCount")
	assert.False(t, f.IsDirty, "IsDirty")
}

func TestResetClearsDataAndMetadata(t *testing.T) {
	f := NewFrame()
	f.Data[0] = 0xFF
	f.PageID = 42
	f.PinCount = 3
	f.IsDirty = true

	f.Reset()

	assert.Equal(t, InvalidID, f.PageID, "PageID after Reset")
	assert.Equal(t, 0, f.PinCount, "PinCount after Reset")
	assert.False(t, f.IsDirty, "IsDirty after Reset")
	assert.Equal(t, byte(0), f.Data[0], "Data[0] after Reset")
}
