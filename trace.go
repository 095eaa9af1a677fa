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

// backTrace walks the packed trace cells from the recorded best terminal
// cell back to the query boundary (row 0), emitting run-merged records in
// reverse fill order, then restores alignment order (5'->3' of the query).
// Gap runs are retraced in one step each; runs of the top row are never
// emitted, the reference prefix they span is reported as the offset instead.
func (a *Aligner) backTrace(tr *Trace) {
	i := len(a.query)
	j := a.bestCol

	cell := a.mat.at(i, j)
	run := cell >> opBits
	op := cell & opMask

	for i > 0 {
		switch op {
		case opMatch, opMismatch:
			cur := op
			var n uint32
			for op == cur && i > 0 {
				n += run
				i -= int(run)
				j -= int(run)
				cell = a.mat.at(i, j)
				run = cell >> opBits
				op = cell & opMask
			}
			tr.add(cur, n)
		case opDel:
			tr.add(opDel, run)
			j -= int(run)
			cell = a.mat.at(i, j)
			run = cell >> opBits
			op = cell & opMask
		case opIns:
			tr.add(opIns, run)
			i -= int(run)
			cell = a.mat.at(i, j)
			run = cell >> opBits
			op = cell & opMask
		}
	}

	tr.offset = j
	tr.process()
}
