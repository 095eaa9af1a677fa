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

// traceMatrix is a flat (query+1) x (reference+1) table of packed trace
// cells: run<<opBits | op. Only the move choices are kept for the whole
// table; penalty scores live in two rolling rows.
type traceMatrix struct {
	cols  int
	cells []uint32
}

func (m *traceMatrix) ensureSize(rows, cols int) {
	m.cols = cols
	total := rows * cols
	if total <= cap(m.cells) {
		m.cells = m.cells[:total]
	} else {
		m.cells = make([]uint32, total)
	}
}

func (m *traceMatrix) at(row, col int) uint32 {
	return m.cells[row*m.cols+col]
}

func (m *traceMatrix) rowView(row int) []uint32 {
	offset := row * m.cols
	return m.cells[offset : offset+m.cols]
}

func ensureInts(v []int, n int) []int {
	if n <= cap(v) {
		return v[:n]
	}
	return make([]int, n)
}

func ensureUints(v []uint32, n int) []uint32 {
	if n <= cap(v) {
		return v[:n]
	}
	return make([]uint32, n)
}

// fill builds the trace matrix with affine-gap (Gotoh) recurrences under
// asymmetric quality-weighted scoring, and returns the best terminal score
// with its column: the minimum of the last row, so the query is consumed in
// full while the reference end stays free.
//
// The top row is the boundary before any query base. By default it carries
// an affine deletion ramp, so skipping a reference prefix is paid for; with
// semi=true it is zeroed and the aligned window may begin anywhere along
// the reference.
func (a *Aligner) fill(semi bool) (int, int) {
	ref, query, qual := a.ref, a.query, a.qual
	m, n := len(query), len(ref)

	a.mat.ensureSize(m+1, n+1)
	a.pen = ensureInts(a.pen, n+1)
	a.ins = ensureInts(a.ins, n+1)
	a.penNext = ensureInts(a.penNext, n+1)
	a.insNext = ensureInts(a.insNext, n+1)
	a.insRun = ensureUints(a.insRun, n+1)
	a.insRunNext = ensureUints(a.insRunNext, n+1)

	t := &a.table
	goe, ge := a.penalties.GapOpenExtend, a.penalties.GapExtend
	off := a.opt.PhredOffset

	pen, ins, insRun := a.pen, a.ins, a.insRun
	penNext, insNext, insRunNext := a.penNext, a.insNext, a.insRunNext

	q0 := int(qual[0]) - off
	// penalty of the opening gap base alone, with the extension part
	// stripped, so that open+extend chains add up correctly
	gapOpenTrue := t.gapOpen[q0] - t.gapExt[q0]

	row := a.mat.rowView(0)
	pen[0] = 0
	ins[0] = gapOpenTrue
	insRun[0] = 0
	row[0] = opMatch // run 0: the traceback origin

	if semi {
		for j := 1; j <= n; j++ {
			pen[j] = 0
			ins[j] = gapOpenTrue
			insRun[j] = 0
			// the top row consists of only horizontal moves
			row[j] = uint32(j)<<opBits | opDel
		}
	} else {
		del := goe - ge
		for j := 1; j <= n; j++ {
			del += ge
			pen[j] = del
			ins[j] = del + gapOpenTrue
			insRun[j] = 0
			row[j] = uint32(j)<<opBits | opDel
		}
	}

	for i := 1; i <= m; i++ {
		cq := query[i-1]
		qq := int(qual[i-1]) - off
		matchPen := t.match[qq]
		mismatchPen := t.mismatch[qq]
		gapOpenPen := t.gapOpen[qq]
		gapExtPen := t.gapExt[qq]

		row = a.mat.rowView(i)

		// the leftmost column consists of only vertical moves
		wI := ins[0] + gapExtPen
		cI := insRun[0] + 1
		insNext[0] = wI
		insRunNext[0] = cI
		penNext[0] = wI
		row[0] = cI<<opBits | opIns

		storedDel := penNext[0] + (goe - ge)
		var cD uint32

		for j := 1; j <= n; j++ {
			isMatch := ref[j-1] == cq || cq == ambiguousBase

			// deletion: horizontal move, flat penalties
			wDOpen := penNext[j-1] + goe
			wDExt := storedDel + ge

			// insertion: vertical move, quality-weighted penalties
			wIOpen := pen[j] + gapOpenPen
			wIExt := ins[j] + gapExtPen

			// given equal scores, prefer extending existing gaps
			// to opening new ones
			var wD int
			if wDOpen < wDExt {
				storedDel, wD = wDOpen, wDOpen
				cD = 1
			} else {
				storedDel, wD = wDExt, wDExt
				cD++
			}
			if wIOpen < wIExt {
				wI = wIOpen
				cI = 1
			} else {
				wI = wIExt
				cI = insRun[j] + 1
			}
			insNext[j] = wI
			insRunNext[j] = cI

			var wM int
			mstate := opMatch
			if isMatch {
				wM = pen[j-1] + matchPen
			} else {
				wM = pen[j-1] + mismatchPen
				mstate = opMismatch
			}

			// order of preference: match/mismatch, insertion, deletion
			if wI < wM {
				if wD < wI {
					row[j] = cD<<opBits | opDel
					penNext[j] = wD
				} else {
					row[j] = cI<<opBits | opIns
					penNext[j] = wI
				}
			} else if wD < wM {
				row[j] = cD<<opBits | opDel
				penNext[j] = wD
			} else {
				row[j] = 1<<opBits | mstate
				penNext[j] = wM
			}
		}

		pen, penNext = penNext, pen
		ins, insNext = insNext, ins
		insRun, insRunNext = insRunNext, insRun
	}

	// seek the best terminal cell in the last row
	best := pen[0]
	col := 0
	for j := 1; j <= n; j++ {
		if pen[j] < best {
			best = pen[j]
			col = j
		}
	}
	return best, col
}
