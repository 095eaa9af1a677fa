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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/escherba/qxalign"
	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"
)

var version = "0.1.0"

type pair struct {
	ref   string
	query string
	qual  string
}

type result struct {
	score  int
	offset int
	cigar  string
	query  string
	align  string
	ref    string
}

func main() {
	app := filepath.Base(os.Args[0])
	usage := fmt.Sprintf(`
Quality-aware alignment in Golang

 Author: Eugene Scherba <escherba@bu.edu>
   Code: https://github.com/escherba/qxalign
Version: v%s

Input file format:
  Three lines per record: reference, query, quality track ("*" if absent).
  Example:
  AAAACGT
  TGCA
  !!!!
  AAAACGT
  CAAC
  *

Usage:
  1. Align one pair from the positional arguments.

        %s [options] <reference> <query> [<quality>]

  2. Align record triples from the input file (described above).

        %s [options] -i input.txt

Options/Flags:
`, version, app, app)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "print help message")
	infile := flag.String("i", "", "input file. ")
	semi := flag.Bool("s", false, "semi-global alignment (free reference prefix)")
	noOutput := flag.Bool("N", false, "do not output alignment (for benchmark)")
	jobs := flag.Int("j", runtime.NumCPU(), "parallel jobs for file input")

	pprofCPU := flag.Bool("p", false, "cpu pprof. go tool pprof -http=:8080 cpu.pprof")
	pprofMem := flag.Bool("m", false, "mem pprof. go tool pprof -http=:8080 mem.pprof")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	// go tool pprof -http=:8080 cpu.pprof
	if *pprofCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pprofMem {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	outfh := bufio.NewWriter(os.Stdout)
	defer outfh.Flush()

	falignPair := func(algn *qxalign.Aligner, p pair) (result, error) {
		var r result
		var qual []byte
		if p.qual != "" && p.qual != "*" {
			qual = []byte(p.qual)
		}

		ref, query := []byte(p.ref), []byte(p.query)
		err := algn.Prepare(ref, query, qual)
		if err != nil {
			return r, err
		}
		if r.score, err = algn.Align(*semi); err != nil {
			return r, err
		}
		if *noOutput {
			return r, nil
		}

		tr, err := algn.Trace()
		if err != nil {
			return r, err
		}
		r.offset = tr.Offset()
		r.cigar = tr.String()

		Q, A, R := tr.AlignmentText(ref, query)
		r.query, r.align, r.ref = string(*Q), string(*A), string(*R)
		qxalign.RecycleAlignmentText(Q, A, R)

		return r, nil
	}

	fprintResult := func(r result) {
		if *noOutput {
			return
		}
		fmt.Fprintf(outfh, "query      %s\n", r.query)
		fmt.Fprintf(outfh, "           %s\n", r.align)
		fmt.Fprintf(outfh, "reference  %s\n", r.ref)
		fmt.Fprintf(outfh, "cigar      %s\n", r.cigar)
		fmt.Fprintf(outfh, "score: %d, offset: %d\n", r.score, r.offset)
		fmt.Fprintln(outfh)
	}

	// one pair from positional arguments

	if *infile == "" {
		n := flag.NArg()
		if n != 2 && n != 3 {
			checkError(fmt.Errorf("if flag -i not given, please give me a reference and a query"))
		}
		p := pair{ref: flag.Arg(0), query: flag.Arg(1)}
		if n == 3 {
			p.qual = flag.Arg(2)
		}

		algn := qxalign.New()
		r, err := falignPair(algn, p)
		checkError(err)
		qxalign.RecycleAligner(algn)

		fprintResult(r)
		return
	}

	// record triples from a file

	fh, err := os.Open(*infile)
	if err != nil {
		checkError(fmt.Errorf("failed to read file: %s", *infile))
	}
	defer fh.Close()

	var pairs []pair
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		p := pair{ref: scanner.Text()}
		if !scanner.Scan() {
			break
		}
		p.query = scanner.Text()
		if !scanner.Scan() {
			break
		}
		p.qual = scanner.Text()
		pairs = append(pairs, p)
	}
	if err = scanner.Err(); err != nil {
		checkError(fmt.Errorf("something wrong in reading file: %s", *infile))
	}

	// sessions are single-threaded, one per worker; results are collected
	// by index so the output order matches the input order
	results := make([]result, len(pairs))
	var g errgroup.Group
	g.SetLimit(*jobs)
	for i := range pairs {
		i := i
		g.Go(func() error {
			algn := qxalign.New()
			defer qxalign.RecycleAligner(algn)

			r, err := falignPair(algn, pairs[i])
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	checkError(g.Wait())

	for _, r := range results {
		fprintResult(r)
	}
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
