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

import "math"

// PhredRange bounds the supported quality levels.
// Sanger PHRED scores range from 0 to 93.
const PhredRange = 94

// DefaultPhredOffset is the PHRED offset in the ASCII encoding,
// 33 for the Sanger format.
const DefaultPhredOffset = 33

// Penalties contains the base scores of the four edit interpretations.
// Scores are inverse: the aligner seeks the minimal total penalty, so a
// negative value acts as a bonus. Match, Mismatch and the insertion gap
// penalties are scaled by the quality weight of the consumed query base;
// deletions always use GapOpenExtend/GapExtend unscaled because the
// reference carries no quality track.
type Penalties struct {
	Mismatch      int
	Match         int
	GapOpenExtend int // opening a gap, first gap base included
	GapExtend     int
}

// DefaultPenalties is calibrated against the 454 regression alignments.
var DefaultPenalties = Penalties{
	Match:         -10,
	Mismatch:      30,
	GapOpenExtend: 50,
	GapExtend:     20,
}

// penaltyTable holds one penalty per PHRED level for each edit
// interpretation, so the fill loop does a single table lookup per cell.
type penaltyTable struct {
	match    [PhredRange]int
	mismatch [PhredRange]int
	gapOpen  [PhredRange]int
	gapExt   [PhredRange]int
}

// fill computes the quality-weighted look-up vectors. The weight is the
// probability that the base call is correct, with the floor P(error|N) = 0.75
// folded into every level as a pseudo-count.
func (t *penaltyTable) fill(p *Penalties) {
	qN := -10 * math.Log10(0.75)
	for i := 0; i < PhredRange; i++ {
		w := 1 - math.Pow(10, -(float64(i)+qN)/10)
		t.match[i] = 10 + int(math.Round(w*float64(p.Match)))
		t.mismatch[i] = 10 + int(math.Round(w*float64(p.Mismatch)))
		t.gapOpen[i] = 10 + int(math.Round(w*float64(p.GapOpenExtend)))
		t.gapExt[i] = 10 + int(math.Round(w*float64(p.GapExtend)))
	}
}
