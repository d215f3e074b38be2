// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmseqs provides types and functions for invoking the MMseqs2
// easy-search workflow.
package mmseqs

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/biogo/external"
)

// TabularFormat is the easy-search output column list matching BLAST tabular
// format extended with the query and target sequence lengths.
const TabularFormat = "query,target,pident,alnlen,mismatch,gapopen,qstart,qend,tstart,tend,evalue,bits,qlen,tlen"

type EasySearch struct {
	// Usage: mmseqs easy-search <query.fasta> <target.fasta> <out.tsv> <tmpdir> [options]
	//
	// For details relating to options and parameters, see the MMseqs2 manual.
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}mmseqs{{end}}"` // mmseqs
	Sub string `buildarg:"{{if .}}{{.}}{{else}}easy-search{{end}}"` // easy-search

	// Input:
	Query   string `buildarg:"{{.}}"` // "query.fasta"
	Target  string `buildarg:"{{.}}"` // "target.fasta"
	Out     string `buildarg:"{{.}}"` // "out.tsv"
	WorkDir string `buildarg:"{{.}}"` // "tmpdir"

	// Parameter:
	Sensitivity  float64 `buildarg:"{{if .}}-s{{split}}{{.}}{{end}}"`              // -s <f.>
	EValue       float64 `buildarg:"{{if .}}-e{{split}}{{.}}{{end}}"`              // -e <f.>
	MaxSeqs      int     `buildarg:"{{if .}}--max-seqs{{split}}{{.}}{{end}}"`      // --max-seqs <n>
	FormatOutput string  `buildarg:"{{with .}}--format-output{{split}}{{.}}{{end}}"` // --format-output <s>

	// Performance:
	Threads int `buildarg:"{{if .}}--threads{{split}}{{.}}{{end}}"` // --threads <n>

	// ExtraFlags will be passed through to mmseqs as flags.
	ExtraFlags string
}

func (s EasySearch) BuildCommand() (*exec.Cmd, error) {
	if s.Query == "" || s.Target == "" {
		return nil, errors.New("mmseqs: missing query or target filename")
	}
	if s.Out == "" || s.WorkDir == "" {
		return nil, errors.New("mmseqs: missing out filename or work directory")
	}
	cl := external.Must(external.Build(s))
	var extra []string
	if s.ExtraFlags != "" {
		extra = strings.Split(s.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}
