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

// Package qxalign implements quality-aware gapped alignment of a short
// query against a reference window, with asymmetric scoring: edits that
// consume a query base are weighted by that base's PHRED quality, while
// reference-only edits use flat penalties. Scores are inverse (penalties),
// the best alignment has the minimal total.
package qxalign

import (
	"fmt"
	"sync"
)

// Options wraps quality-track handling parameters.
type Options struct {
	// PhredOffset is the ASCII offset of quality symbols, 33 if zero.
	PhredOffset int

	// AssumePhred is the quality level assigned to every query base when
	// no quality track is given. The value is taken literally, zero means
	// every call is assumed wrong; levels outside 0..PhredRange-1 are
	// rejected when a track is synthesized.
	AssumePhred int
}

// DefaultOptions is the Sanger encoding with omitted qualities treated
// as perfect calls.
var DefaultOptions = Options{
	PhredOffset: DefaultPhredOffset,
	AssumePhred: PhredRange - 1,
}

// session states, advanced by Prepare -> Align -> Trace
type sessionState int

const (
	stateEmpty sessionState = iota
	statePrepared
	stateScored
	stateTraced
)

// Aligner is a reusable alignment session. A session holds one prepared
// reference/query pair at a time and keeps its scratch tables across
// alignments, so repeated calls with same-sized inputs do not allocate.
// An Aligner is not safe for concurrent use, use one per goroutine.
type Aligner struct {
	penalties Penalties
	table     penaltyTable
	opt       Options

	ref   []byte
	query []byte
	qual  []byte

	defaultQual []byte // synthesized track for queries without qualities

	mat traceMatrix

	// rolling penalty rows
	pen, penNext []int
	ins, insNext []int

	// vertical run lengths paired with ins/insNext
	insRun, insRunNext []uint32

	state   sessionState
	score   int
	bestCol int
	semi    bool

	trace *Trace
}

// object pool of aligners.
var poolAligner = &sync.Pool{New: func() interface{} {
	a := Aligner{
		penalties: DefaultPenalties,
		opt:       DefaultOptions,
	}
	a.table.fill(&a.penalties)
	return &a
}}

// New returns an Aligner with default penalties and options from the
// object pool.
func New() *Aligner {
	a := poolAligner.Get().(*Aligner)
	a.reset()
	// a recycled session may carry custom tables
	if a.penalties != DefaultPenalties || a.opt != DefaultOptions {
		a.penalties = DefaultPenalties
		a.opt = DefaultOptions
		a.table.fill(&a.penalties)
	}
	return a
}

// NewWithPenalties returns an Aligner with custom penalties and options.
// A nil argument keeps the corresponding default. A zero PhredOffset falls
// back to the Sanger offset; AssumePhred is taken literally.
func NewWithPenalties(p *Penalties, opt *Options) *Aligner {
	a := poolAligner.Get().(*Aligner)
	a.reset()

	if p == nil {
		p = &DefaultPenalties
	}
	if opt == nil {
		opt = &DefaultOptions
	}
	a.penalties = *p
	a.opt = *opt
	if a.opt.PhredOffset == 0 {
		a.opt.PhredOffset = DefaultPhredOffset
	}
	a.table.fill(&a.penalties)
	return a
}

// RecycleAligner recycles an Aligner, along with any trace it still owns.
func RecycleAligner(a *Aligner) {
	if a != nil {
		if a.trace != nil {
			RecycleTrace(a.trace)
			a.trace = nil
		}
		poolAligner.Put(a)
	}
}

// reset clears session inputs while keeping scratch capacity.
func (a *Aligner) reset() {
	a.ref = nil
	a.query = nil
	a.qual = nil
	a.state = stateEmpty
	a.score = 0
	a.bestCol = 0
	a.semi = false
	if a.trace != nil {
		RecycleTrace(a.trace)
		a.trace = nil
	}
}

// invalidate discards scoring results after inputs change.
func (a *Aligner) invalidate() {
	if a.trace != nil {
		RecycleTrace(a.trace)
		a.trace = nil
	}
	a.state = statePrepared
}

// checkQuality validates a quality track against its query.
func (a *Aligner) checkQuality(query, qual []byte) error {
	if len(qual) != len(query) {
		return fmt.Errorf("qxalign: quality track of %d symbols for %d query bases: %w",
			len(qual), len(query), ErrLengthMismatch)
	}
	off := a.opt.PhredOffset
	for i, q := range qual {
		level := int(q) - off
		if level < 0 || level >= PhredRange {
			return fmt.Errorf("qxalign: symbol %q at position %d: %w",
				q, i, ErrInvalidQualitySymbol)
		}
	}
	return nil
}

// assumedQuality returns a synthesized uniform quality track of n symbols
// at the AssumePhred level. The buffer is owned by the session.
func (a *Aligner) assumedQuality(n int) ([]byte, error) {
	level := a.opt.AssumePhred
	if level < 0 || level >= PhredRange {
		return nil, fmt.Errorf("qxalign: assumed PHRED score %d: %w",
			level, ErrInvalidQualitySymbol)
	}
	q := byte(level + a.opt.PhredOffset)
	if n <= cap(a.defaultQual) {
		a.defaultQual = a.defaultQual[:n]
	} else {
		a.defaultQual = make([]byte, n)
	}
	for i := range a.defaultQual {
		a.defaultQual[i] = q
	}
	return a.defaultQual, nil
}

// Prepare loads a reference, a query and the query's quality track into
// the session, replacing any previous inputs. A nil qual stands for an
// omitted quality track, each base is then assumed called at the
// AssumePhred level. The slices are retained, not copied.
func (a *Aligner) Prepare(ref, query, qual []byte) error {
	var err error
	if qual == nil {
		if qual, err = a.assumedQuality(len(query)); err != nil {
			return err
		}
	} else if err = a.checkQuality(query, qual); err != nil {
		return err
	}
	a.ref = ref
	a.query = query
	a.qual = qual
	a.invalidate()
	return nil
}

// PrepareRef replaces the reference while keeping the query and quality
// track, for scanning one read against many reference windows.
func (a *Aligner) PrepareRef(ref []byte) {
	a.ref = ref
	if a.state != stateEmpty {
		a.invalidate()
	}
}

// PrepareQuery replaces the query and its quality track while keeping the
// reference, for scanning many reads against one window. A nil qual stands
// for an omitted quality track.
func (a *Aligner) PrepareQuery(query, qual []byte) error {
	var err error
	if qual == nil {
		if qual, err = a.assumedQuality(len(query)); err != nil {
			return err
		}
	} else if err = a.checkQuality(query, qual); err != nil {
		return err
	}
	a.query = query
	a.qual = qual
	if a.state != stateEmpty {
		a.invalidate()
	}
	return nil
}

// Align scores the prepared pair and returns the minimal total penalty.
// With semi=true the aligned window may begin anywhere along the
// reference for free; by default skipping a reference prefix is paid for
// as a deletion run. Either way the query must be consumed in full and
// the reference end stays free.
func (a *Aligner) Align(semi bool) (int, error) {
	if a.state == stateEmpty {
		return 0, fmt.Errorf("qxalign: align: %w", ErrUnpreparedState)
	}
	if len(a.ref) == 0 || len(a.query) == 0 {
		return 0, fmt.Errorf("qxalign: align: %w", ErrEmptyInput)
	}

	a.score, a.bestCol = a.fill(semi)
	a.semi = semi
	a.state = stateScored
	return a.score, nil
}

// Score returns the penalty of the last Align call.
func (a *Aligner) Score() (int, error) {
	if a.state < stateScored {
		return 0, fmt.Errorf("qxalign: score: %w", ErrUnpreparedState)
	}
	return a.score, nil
}

// Trace recovers the alignment path of the last Align call. The returned
// Trace is owned by the session until the next Prepare call; recycle the
// session, not the trace.
func (a *Aligner) Trace() (*Trace, error) {
	if a.state < stateScored {
		return nil, fmt.Errorf("qxalign: trace: %w", ErrUnpreparedState)
	}
	if a.state == stateTraced {
		return a.trace, nil
	}

	if a.trace == nil {
		a.trace = NewTrace()
	} else {
		a.trace.reset()
	}
	a.trace.Score = a.score
	a.backTrace(a.trace)
	a.state = stateTraced
	return a.trace, nil
}

// RenderTrace renders the recovered path as a CIGAR string of
// space-separated "<count><code>" tokens.
func (a *Aligner) RenderTrace() (string, error) {
	if a.state < stateTraced {
		return "", fmt.Errorf("qxalign: render trace: %w", ErrUnpreparedState)
	}
	return a.trace.String(), nil
}

// Offset returns the reference position where the aligned window begins.
func (a *Aligner) Offset() (int, error) {
	if a.state < stateTraced {
		return 0, fmt.Errorf("qxalign: offset: %w", ErrUnpreparedState)
	}
	return a.trace.offset, nil
}

// AlignmentStart maps the aligned window onto absolute coordinates given
// the start of the reference window; negative starts clamp to zero.
func (a *Aligner) AlignmentStart(refStart int) (int, error) {
	if a.state < stateTraced {
		return 0, fmt.Errorf("qxalign: alignment start: %w", ErrUnpreparedState)
	}
	if refStart < 0 {
		refStart = 0
	}
	return refStart + a.trace.offset, nil
}
