// Copyright © 2024 Eugene Scherba <escherba@bu.edu>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package qxalign

import "errors"

// Errors returned by session operations. They are reported synchronously
// and never retried; a failed operation leaves the session in its previous
// valid state. Match them with errors.Is.
var (
	// ErrLengthMismatch means the quality track length differs from the
	// query length.
	ErrLengthMismatch = errors.New("qxalign: quality track length differs from query length")

	// ErrEmptyInput means Align was invoked with a zero-length reference
	// or query, so no terminal cell exists.
	ErrEmptyInput = errors.New("qxalign: empty reference or query")

	// ErrUnpreparedState means an operation was invoked before the step
	// it depends on.
	ErrUnpreparedState = errors.New("qxalign: session not in required state")

	// ErrInvalidQualitySymbol means a quality character decodes outside
	// the supported PHRED range.
	ErrInvalidQualitySymbol = errors.New("qxalign: quality symbol outside supported range")
)
