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
	"fmt"
	"io"
)

// Plot writes the trace matrix of the last Align call as a text table, for
// debugging. Rows are labeled with query bases and their quality symbols,
// columns with reference bases; each cell shows the chosen move as
// "<run><code>".
func (a *Aligner) Plot(wtr io.Writer) error {
	if a.state < stateScored {
		return fmt.Errorf("qxalign: plot: %w", ErrUnpreparedState)
	}

	fmt.Fprintf(wtr, "      -")
	for _, c := range a.ref {
		fmt.Fprintf(wtr, " %5c", c)
	}
	fmt.Fprintln(wtr)

	for i := 0; i <= len(a.query); i++ {
		if i == 0 {
			fmt.Fprintf(wtr, "  - ")
		} else {
			fmt.Fprintf(wtr, "%c %c ", a.query[i-1], a.qual[i-1])
		}
		row := a.mat.rowView(i)
		for _, cell := range row {
			fmt.Fprintf(wtr, " %4d%c", cell>>opBits, opChars[cell&opMask])
		}
		fmt.Fprintln(wtr)
	}

	fmt.Fprintf(wtr, "score: %d, column: %d\n", a.score, a.bestCol)
	return nil
}
