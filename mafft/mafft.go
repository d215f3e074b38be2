// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mafft provides types and functions for invoking the MAFFT
// multiple sequence aligner.
package mafft

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/external"
)

type Mafft struct {
	// Usage: mafft [options] <in.fasta>
	//
	// For details relating to options and parameters, see the MAFFT manual.
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}mafft{{end}}"` // mafft

	// Parameter:
	Auto    bool `buildarg:"{{if .}}--auto{{end}}"`                // --auto
	Quiet   bool `buildarg:"{{if .}}--quiet{{end}}"`               // --quiet
	Threads int  `buildarg:"{{if .}}--thread{{split}}{{.}}{{end}}"` // --thread <n>

	// Input:
	InFile string `buildarg:"{{.}}"` // "in.fasta"

	// ExtraFlags will be passed through to mafft as flags.
	ExtraFlags string
}

func (m Mafft) BuildCommand() (*exec.Cmd, error) {
	if m.InFile == "" {
		return nil, errors.New("mafft: missing in filename")
	}
	var extra []string
	if m.ExtraFlags != "" {
		extra = strings.Split(m.ExtraFlags, " ")
	}
	cl := external.Must(external.Build(m))
	// Input file is positional and must follow any passed-through flags.
	args := append(cl[1:len(cl)-1], append(extra, cl[len(cl)-1])...)
	return exec.Command(cl[0], args...), nil
}

// Aligner runs MAFFT over small record sets, writing per-call input files
// into Dir. The aligned records are read back from the subprocess stdout in
// input order. The input file is removed after the read unless Keep is set;
// with Keep set, the aligned output is also written beside it with an .aln
// suffix.
type Aligner struct {
	Cmd     string // path to mafft if not in $PATH
	Dir     string
	Keep    bool
	Threads int
	Stderr  io.Writer
}

// Align writes seqs to a FASTA input file named from the record ids and
// returns the aligned sequences produced by MAFFT.
func (a *Aligner) Align(seqs []*linear.Seq) ([]*linear.Seq, error) {
	if len(seqs) == 0 {
		return nil, errors.New("mafft: no sequences to align")
	}
	in := filepath.Join(a.Dir, pathSafe(inputName(seqs)))
	f, err := os.Create(in)
	if err != nil {
		return nil, err
	}
	for _, s := range seqs {
		fmt.Fprintf(f, "%60a\n", s)
	}
	err = f.Close()
	if err != nil {
		return nil, err
	}
	if !a.Keep {
		defer os.Remove(in)
	}

	m := Mafft{Cmd: a.Cmd, Auto: true, Quiet: true, Threads: a.Threads, InFile: in}
	cmd, err := m.BuildCommand()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = a.Stderr
	err = cmd.Run()
	if err != nil {
		return nil, fmt.Errorf("mafft: %s: %w", in, err)
	}
	if a.Keep {
		err = ioutil.WriteFile(in+".aln", buf.Bytes(), 0644)
		if err != nil {
			return nil, err
		}
	}

	var aln []*linear.Seq
	sc := seqio.NewScanner(fasta.NewReader(&buf, linear.NewSeq("", nil, alphabet.Protein)))
	for sc.Next() {
		aln = append(aln, sc.Seq().(*linear.Seq))
	}
	err = sc.Error()
	if err != nil {
		return nil, err
	}
	if len(aln) != len(seqs) {
		return nil, fmt.Errorf("mafft: unexpected number of aligned records: %d != %d", len(aln), len(seqs))
	}
	return aln, nil
}

func inputName(seqs []*linear.Seq) string {
	ids := make([]string, len(seqs))
	for i, s := range seqs {
		ids[i] = s.ID
	}
	return strings.Join(ids, "___") + ".fasta"
}

func pathSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}
