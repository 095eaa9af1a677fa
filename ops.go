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

// the number of low bits of a trace cell that store the edit operation.
// The remaining bits hold the run length, so a whole gap run is retraced
// in a single step.
const opBits uint32 = 4
const opMask uint32 = (1 << opBits) - 1

const (
	// the 4 kinds of moves recorded in trace cells.
	opNone uint32 = iota
	opIns         // vertical move: query base unmatched
	opDel         // horizontal move: reference base unmatched
	opMatch
	opMismatch
)

// opChars maps edit operations to CIGAR codes.
var opChars = []byte{'.', 'I', 'D', '=', 'X'}

// a query base of N matches any reference base.
const ambiguousBase = 'N'
