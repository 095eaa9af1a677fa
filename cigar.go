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

import (
	"bytes"
	"strconv"
	"sync"
)

// Trace represents an alignment path as run-length encoded CIGAR records
// in alignment order (5'->3' of the query).
type Trace struct {
	Ops   []CIGARRecord
	Score int

	offset int // reference position where the aligned window begins
}

// CIGARRecord records one run of an edit operation.
// Codes: '=' match, 'X' mismatch, 'I' insertion (query base unmatched),
// 'D' deletion (reference base unmatched), 'S' soft clip, 'M' match-or-
// mismatch (produced by Compact).
type CIGARRecord struct {
	N  uint32
	Op byte
}

// NewTrace returns an empty Trace from the object pool.
func NewTrace() *Trace {
	tr := poolTrace.Get().(*Trace)
	tr.reset()
	return tr
}

// RecycleTrace recycles a Trace object.
func RecycleTrace(tr *Trace) {
	if tr != nil {
		poolTrace.Put(tr)
	}
}

// object pool of traces.
var poolTrace = &sync.Pool{New: func() interface{} {
	tr := Trace{
		Ops: make([]CIGARRecord, 0, 32),
	}
	return &tr
}}

// object pool of rendering buffers.
var poolBytesBuffer = &sync.Pool{New: func() interface{} {
	return &bytes.Buffer{}
}}

// object pool of alignment text lines.
var poolBytes = &sync.Pool{New: func() interface{} {
	buf := make([]byte, 0, 1024)
	return &buf
}}

// reset resets a Trace.
func (tr *Trace) reset() {
	tr.Ops = tr.Ops[:0]
	tr.Score = 0
	tr.offset = 0
}

// add appends one record during backtrace.
func (tr *Trace) add(op uint32, n uint32) {
	tr.Ops = append(tr.Ops, CIGARRecord{N: n, Op: opChars[op]})
}

// process restores alignment order and merges adjacent records of the
// same operation into one token.
func (tr *Trace) process() {
	s := tr.Ops

	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}

	j := 0
	for i := 1; i < len(s); i++ {
		if s[i].Op == s[j].Op {
			s[j].N += s[i].N
			continue
		}
		j++
		s[j] = s[i]
	}
	if len(s) > 0 {
		tr.Ops = s[:j+1]
	}
}

// Offset returns the reference position where the aligned window begins.
func (tr *Trace) Offset() int {
	return tr.offset
}

// Lengths returns the number of reference and query bases the path consumes.
func (tr *Trace) Lengths() (ref, query int) {
	for _, op := range tr.Ops {
		switch op.Op {
		case '=', 'X', 'M':
			ref += int(op.N)
			query += int(op.N)
		case 'I', 'S':
			query += int(op.N)
		case 'D':
			ref += int(op.N)
		}
	}
	return
}

// String renders the path as space-separated "<count><code>" tokens,
// e.g. "3I 1=". Rendering is stable and performs no recomputation.
func (tr *Trace) String() string {
	buf := poolBytesBuffer.Get().(*bytes.Buffer)
	buf.Reset()

	for i, op := range tr.Ops {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(strconv.Itoa(int(op.N)))
		buf.WriteByte(op.Op)
	}

	text := buf.String()
	poolBytesBuffer.Put(buf)
	return text
}

// Softclip replaces edits at both ends of the path that are not exact
// matches with soft clipping and advances the reference offset past any
// leading mismatches or deletions. Deleted reference bases at the ends are
// dropped, they consume no query.
func (tr *Trace) Softclip() {
	s := tr.Ops

	// scan from the tail backwards until the last match
	end := len(s)
	var clip uint32
	for end > 0 {
		op := s[end-1]
		if op.Op == '=' || op.Op == 'S' {
			break
		}
		if op.Op != 'D' {
			clip += op.N
		}
		end--
	}
	s = s[:end]
	if clip > 0 {
		s = append(s, CIGARRecord{N: clip, Op: 'S'})
	}

	// scan forward until the first match
	start := 0
	clip = 0
	adv := 0
	for start < len(s) {
		op := s[start]
		if op.Op == '=' || op.Op == 'S' {
			break
		}
		if op.Op != 'D' {
			clip += op.N
		}
		if op.Op != 'I' {
			adv += int(op.N)
		}
		start++
	}
	if clip > 0 {
		s[start-1] = CIGARRecord{N: clip, Op: 'S'}
		s = s[start-1:]
	} else if start > 0 {
		// a run of pure deletions consumes no query, it is dropped
		// without leaving a clip behind
		s = s[start:]
	}

	tr.offset += adv
	tr.Ops = s
}

// Compact collapses the path by treating matches and mismatches as the
// same 'M' state.
func (tr *Trace) Compact() {
	out := tr.Ops[:0]
	for _, op := range tr.Ops {
		if op.Op == '=' || op.Op == 'X' {
			op.Op = 'M'
		}
		if n := len(out); n > 0 && out[n-1].Op == op.Op {
			out[n-1].N += op.N
		} else {
			out = append(out, op)
		}
	}
	tr.Ops = out
}

// AlignmentText returns the formatted alignment lines for Query, Alignment,
// and Reference, starting at the path's reference offset. Do not forget to
// recycle them with RecycleAlignmentText().
func (tr *Trace) AlignmentText(ref, query []byte) (*[]byte, *[]byte, *[]byte) {
	Q := poolBytes.Get().(*[]byte)
	A := poolBytes.Get().(*[]byte)
	R := poolBytes.Get().(*[]byte)

	h := tr.offset
	v := 0
	var i uint32

	for _, op := range tr.Ops {
		switch op.Op {
		case '=':
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, query[v])
				*A = append(*A, '|')
				*R = append(*R, ref[h])
				v++
				h++
			}
		case 'X':
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, query[v])
				*A = append(*A, ' ')
				*R = append(*R, ref[h])
				v++
				h++
			}
		case 'M':
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, query[v])
				if query[v] == ref[h] {
					*A = append(*A, '|')
				} else {
					*A = append(*A, ' ')
				}
				*R = append(*R, ref[h])
				v++
				h++
			}
		case 'I', 'S':
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, query[v])
				*A = append(*A, ' ')
				*R = append(*R, '-')
				v++
			}
		case 'D':
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, '-')
				*A = append(*A, ' ')
				*R = append(*R, ref[h])
				h++
			}
		}
	}

	return Q, A, R
}

// RecycleAlignmentText recycles alignment text lines.
func RecycleAlignmentText(Q, A, R *[]byte) {
	if Q != nil {
		*Q = (*Q)[:0]
		poolBytes.Put(Q)
	}
	if A != nil {
		*A = (*A)[:0]
		poolBytes.Put(A)
	}
	if R != nil {
		*R = (*R)[:0]
		poolBytes.Put(R)
	}
}
