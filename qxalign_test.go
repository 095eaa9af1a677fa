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
	"errors"
	"strings"
	"testing"
)

func TestQualityScores(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	// lowest-quality read: every edit is nearly free, so the cheapest path
	// inserts the whole query before the reference
	err := algn.Prepare([]byte("AAAACGT"), []byte("TGCA"), []byte("!!!!"))
	if err != nil {
		t.Fatal(err)
	}
	score, err := algn.Align(false)
	if err != nil {
		t.Fatal(err)
	}
	if score != 60 {
		t.Errorf("score: got %d, want 60", score)
	}
}

func TestQualityScoresTrace(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	err := algn.Prepare([]byte("AAAACGT"), []byte("TGCA"), []byte("!!!!"))
	if err != nil {
		t.Fatal(err)
	}
	score, err := algn.Align(false)
	if err != nil {
		t.Fatal(err)
	}
	if score != 60 {
		t.Errorf("score: got %d, want 60", score)
	}
	tr, err := algn.Trace()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Score != 60 {
		t.Errorf("trace score: got %d, want 60", tr.Score)
	}
	cigar, err := algn.RenderTrace()
	if err != nil {
		t.Fatal(err)
	}
	if cigar != "3I 1=" {
		t.Errorf("cigar: got %q, want %q", cigar, "3I 1=")
	}
	offset, err := algn.Offset()
	if err != nil {
		t.Fatal(err)
	}
	if offset != 0 {
		t.Errorf("offset: got %d, want 0", offset)
	}

	// new query without a quality track, semi-global mode: the window may
	// begin anywhere along the reference for free
	err = algn.PrepareQuery([]byte("CAAC"), nil)
	if err != nil {
		t.Fatal(err)
	}
	score, err = algn.Align(true)
	if err != nil {
		t.Fatal(err)
	}
	if score != 40 {
		t.Errorf("semi score: got %d, want 40", score)
	}
	if _, err = algn.Trace(); err != nil {
		t.Fatal(err)
	}
	cigar, err = algn.RenderTrace()
	if err != nil {
		t.Fatal(err)
	}
	if cigar != "1X 3=" {
		t.Errorf("semi cigar: got %q, want %q", cigar, "1X 3=")
	}
	offset, err = algn.Offset()
	if err != nil {
		t.Fatal(err)
	}
	if offset != 1 {
		t.Errorf("semi offset: got %d, want 1", offset)
	}
	start, err := algn.AlignmentStart(100)
	if err != nil {
		t.Fatal(err)
	}
	if start != 101 {
		t.Errorf("alignment start: got %d, want 101", start)
	}

	// empty inputs are prepared fine but cannot be scored
	if err = algn.Prepare([]byte(""), []byte(""), []byte("")); err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Align(false); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty align: got %v, want ErrEmptyInput", err)
	}
}

func TestAlignDeterminism(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	ref := []byte("GATTACAGATTACAGATTACA")
	query := []byte("GATTTACA")
	qual := []byte("IIII!III")

	err := algn.Prepare(ref, query, qual)
	if err != nil {
		t.Fatal(err)
	}
	first, err := algn.Align(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Trace(); err != nil {
		t.Fatal(err)
	}
	firstCigar, err := algn.RenderTrace()
	if err != nil {
		t.Fatal(err)
	}

	for run := 0; run < 5; run++ {
		if err = algn.Prepare(ref, query, qual); err != nil {
			t.Fatal(err)
		}
		score, err := algn.Align(true)
		if err != nil {
			t.Fatal(err)
		}
		if score != first {
			t.Fatalf("run %d: score %d differs from %d", run, score, first)
		}
		if _, err = algn.Trace(); err != nil {
			t.Fatal(err)
		}
		cigar, err := algn.RenderTrace()
		if err != nil {
			t.Fatal(err)
		}
		if cigar != firstCigar {
			t.Fatalf("run %d: cigar %q differs from %q", run, cigar, firstCigar)
		}
	}
}

func TestStateMachine(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	if _, err := algn.Align(false); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("align before prepare: got %v, want ErrUnpreparedState", err)
	}
	if _, err := algn.Trace(); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("trace before align: got %v, want ErrUnpreparedState", err)
	}
	if _, err := algn.RenderTrace(); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("render before trace: got %v, want ErrUnpreparedState", err)
	}
	if _, err := algn.Score(); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("score before align: got %v, want ErrUnpreparedState", err)
	}
	if _, err := algn.Offset(); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("offset before trace: got %v, want ErrUnpreparedState", err)
	}

	err := algn.Prepare([]byte("ACGT"), []byte("ACGT"), []byte("IIII"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Trace(); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("trace before align: got %v, want ErrUnpreparedState", err)
	}
	if _, err = algn.Align(false); err != nil {
		t.Fatal(err)
	}
	if _, err = algn.RenderTrace(); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("render before trace: got %v, want ErrUnpreparedState", err)
	}
	if _, err = algn.Trace(); err != nil {
		t.Fatal(err)
	}
	cigar, err := algn.RenderTrace()
	if err != nil {
		t.Fatal(err)
	}
	if cigar != "4=" {
		t.Errorf("cigar: got %q, want %q", cigar, "4=")
	}

	// a rejected query leaves the previous session intact
	if err = algn.PrepareQuery([]byte("ACGT"), []byte("II")); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short track: got %v, want ErrLengthMismatch", err)
	}
	if cigar, err = algn.RenderTrace(); err != nil || cigar != "4=" {
		t.Errorf("after rejected prepare: got %q, %v", cigar, err)
	}

	// preparing new inputs drops stale results
	if err = algn.PrepareQuery([]byte("AGGT"), []byte("IIII")); err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Trace(); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("stale trace: got %v, want ErrUnpreparedState", err)
	}
}

func TestLengthMismatch(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	err := algn.Prepare([]byte("ACGT"), []byte("ACGT"), []byte("III"))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short track: got %v, want ErrLengthMismatch", err)
	}
	err = algn.Prepare([]byte("ACGT"), []byte("ACGT"), []byte("IIIII"))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("long track: got %v, want ErrLengthMismatch", err)
	}
	err = algn.PrepareQuery([]byte("ACGT"), []byte("IIIII"))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("long track via PrepareQuery: got %v, want ErrLengthMismatch", err)
	}
}

func TestInvalidQualitySymbol(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	// below '!' (PHRED 0) and above '~' (PHRED 93)
	err := algn.Prepare([]byte("ACGT"), []byte("ACGT"), []byte("II I"))
	if !errors.Is(err, ErrInvalidQualitySymbol) {
		t.Errorf("symbol below range: got %v, want ErrInvalidQualitySymbol", err)
	}
	err = algn.Prepare([]byte("ACGT"), []byte("ACGT"), []byte{'I', 'I', 0x7f, 'I'})
	if !errors.Is(err, ErrInvalidQualitySymbol) {
		t.Errorf("symbol above range: got %v, want ErrInvalidQualitySymbol", err)
	}
}

func TestQueryConsumption(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	cases := []struct {
		ref, query, qual string
		semi             bool
	}{
		{"AAAACGT", "TGCA", "!!!!", false},
		{"AAAACGT", "CAAC", "", true},
		{"GATTACAGATTACA", "TTACAG", "IIIIII", false},
		{"GATTACAGATTACA", "TTACAG", "IIIIII", true},
		{"CCCCCCCC", "GGG", "555", true},
	}
	for _, c := range cases {
		var qual []byte
		if c.qual != "" {
			qual = []byte(c.qual)
		}
		err := algn.Prepare([]byte(c.ref), []byte(c.query), qual)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = algn.Align(c.semi); err != nil {
			t.Fatal(err)
		}
		tr, err := algn.Trace()
		if err != nil {
			t.Fatal(err)
		}
		_, consumed := tr.Lengths()
		if consumed != len(c.query) {
			t.Errorf("%s vs %s: consumed %d of %d query bases (%s)",
				c.ref, c.query, consumed, len(c.query), tr)
		}
	}
}

func TestPrepareRef(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	err := algn.Prepare([]byte("TTTT"), []byte("ACGT"), []byte("IIII"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Align(true); err != nil {
		t.Fatal(err)
	}

	// same read against a window that contains it
	algn.PrepareRef([]byte("GGACGTGG"))
	if _, err = algn.Trace(); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("stale trace after PrepareRef: got %v, want ErrUnpreparedState", err)
	}
	if _, err = algn.Align(true); err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Trace(); err != nil {
		t.Fatal(err)
	}
	cigar, err := algn.RenderTrace()
	if err != nil {
		t.Fatal(err)
	}
	if cigar != "4=" {
		t.Errorf("cigar: got %q, want %q", cigar, "4=")
	}
	offset, _ := algn.Offset()
	if offset != 2 {
		t.Errorf("offset: got %d, want 2", offset)
	}
}

func TestNewWithPenalties(t *testing.T) {
	p := Penalties{Match: 0, Mismatch: 10, GapOpenExtend: 20, GapExtend: 10}
	algn := NewWithPenalties(&p, nil)
	defer RecycleAligner(algn)

	// four perfect matches at the flat baseline of 10 each
	err := algn.Prepare([]byte("ACGT"), []byte("ACGT"), []byte("~~~~"))
	if err != nil {
		t.Fatal(err)
	}
	score, err := algn.Align(false)
	if err != nil {
		t.Fatal(err)
	}
	if score != 40 {
		t.Errorf("score: got %d, want 40", score)
	}
	if s, err := algn.Score(); err != nil || s != 40 {
		t.Errorf("Score(): got %d, %v", s, err)
	}

	// a zero PhredOffset falls back to the Sanger offset
	algn2 := NewWithPenalties(nil, &Options{})
	defer RecycleAligner(algn2)
	if err = algn2.Prepare([]byte("AAAACGT"), []byte("TGCA"), []byte("!!!!")); err != nil {
		t.Fatal(err)
	}
	score, err = algn2.Align(false)
	if err != nil {
		t.Fatal(err)
	}
	if score != 60 {
		t.Errorf("default fallback score: got %d, want 60", score)
	}
}

func TestAssumePhred(t *testing.T) {
	// out-of-range assumed levels are rejected when the track is
	// synthesized, never indexed
	for _, level := range []int{200, PhredRange, -5} {
		algn := NewWithPenalties(nil, &Options{PhredOffset: 33, AssumePhred: level})
		err := algn.Prepare([]byte("AAAACGT"), []byte("TGCA"), nil)
		if !errors.Is(err, ErrInvalidQualitySymbol) {
			t.Errorf("assumed level %d: got %v, want ErrInvalidQualitySymbol", level, err)
		}
		err = algn.PrepareQuery([]byte("TGCA"), nil)
		if !errors.Is(err, ErrInvalidQualitySymbol) {
			t.Errorf("assumed level %d via PrepareQuery: got %v, want ErrInvalidQualitySymbol", level, err)
		}
		RecycleAligner(algn)
	}

	// level 0 is a valid assumption, equivalent to an explicit "!" track
	algn := NewWithPenalties(nil, &Options{PhredOffset: 33, AssumePhred: 0})
	defer RecycleAligner(algn)
	err := algn.Prepare([]byte("AAAACGT"), []byte("TGCA"), nil)
	if err != nil {
		t.Fatal(err)
	}
	score, err := algn.Align(false)
	if err != nil {
		t.Fatal(err)
	}
	if score != 60 {
		t.Errorf("assumed level 0 score: got %d, want 60", score)
	}
}

func TestPlot(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	var buf bytes.Buffer
	if err := algn.Plot(&buf); !errors.Is(err, ErrUnpreparedState) {
		t.Errorf("plot before align: got %v, want ErrUnpreparedState", err)
	}

	err := algn.Prepare([]byte("AAAACGT"), []byte("TGCA"), []byte("!!!!"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Align(false); err != nil {
		t.Fatal(err)
	}
	if err = algn.Plot(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	// header row plus one row per query base and the boundary row
	if got := strings.Count(out, "\n"); got != 7 {
		t.Errorf("line count: got %d, want 7", got)
	}
	if !strings.Contains(out, "score: 60") {
		t.Errorf("missing score line in:\n%s", out)
	}
}

func TestAmbiguousBase(t *testing.T) {
	algn := New()
	defer RecycleAligner(algn)

	// N in the query matches any reference base
	err := algn.Prepare([]byte("ACGT"), []byte("ANGT"), []byte("IIII"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Align(false); err != nil {
		t.Fatal(err)
	}
	if _, err = algn.Trace(); err != nil {
		t.Fatal(err)
	}
	cigar, err := algn.RenderTrace()
	if err != nil {
		t.Fatal(err)
	}
	if cigar != "4=" {
		t.Errorf("cigar: got %q, want %q", cigar, "4=")
	}
}
