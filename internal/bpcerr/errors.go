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
Package bpcerr provides the structured error kinds used across the
page-cache core.

Most BPM and replacer operations represent expected conditions (page not
resident, frame still pinned, no frame available) as plain `bool`/`nil`
return values, per the core's failure semantics. The Kind type and Error
type in this package exist for the smaller set of conditions that do
carry diagnostic detail: caller errors reported without mutating state
(NotEvictable), invalid arguments, and disk I/O failures surfaced from
the DiskManager.
*/
package bpcerr

import "fmt"

// Kind identifies the category of a page-cache core error.
type Kind int

const (
	// NoFrameAvailable: every frame is pinned; NewPage/FetchPage return nil.
	NoFrameAvailable Kind = iota
	// NotResident: the requested page has no page-table entry.
	NotResident
	// Pinned: an operation that requires an unpinned frame found one pinned.
	Pinned
	// InvalidArgument: INVALID_PAGE_ID or an out-of-range frame id.
	InvalidArgument
	// NotEvictable: Replacer.Remove was called on a non-evictable frame.
	NotEvictable
	// IoError: the disk manager failed to read or write a page.
	IoError
)

// String returns the human-readable name of the error kind.
func (k Kind) String() string {
	switch k {
	case NoFrameAvailable:
		return "NoFrameAvailable"
	case NotResident:
		return "NotResident"
	case Pinned:
		return "Pinned"
	case InvalidArgument:
		return "InvalidArgument"
	case NotEvictable:
		return "NotEvictable"
	case IoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is a structured error carrying a Kind, the operation that
// produced it, an optional detail string, and an optional wrapped cause.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with no detail or cause.
func New(op string, kind Kind) *Error {
	return &Error{Op: op, Kind: kind}
}

// Newf creates an Error with a formatted detail string.
func Newf(op string, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an IoError wrapping a cause returned by the disk manager.
func Wrap(op string, cause error) *Error {
	return &Error{Op: op, Kind: IoError, Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
