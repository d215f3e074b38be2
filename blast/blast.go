// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blast provides types and functions for invoking the NCBI+ profile
// search tools and interpreting the returned tabular results.
package blast

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/biogo/external"
)

type MakeProfileDB struct {
	// Usage: makeprofiledb -in <file> -out <file>
	//
	// For details relating to options and parameters, see the BLAST manual.
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}makeprofiledb{{end}}"` // makeprofiledb

	In        string  `buildarg:"{{with .}}-in{{split}}{{.}}{{end}}"`      // -in <s>
	Out       string  `buildarg:"{{with .}}-out{{split}}{{.}}{{end}}"`     // -out <s>
	Title     string  `buildarg:"{{with .}}-title{{split}}{{.}}{{end}}"`   // -title <s>
	DBType    string  `buildarg:"{{with .}}-dbtype{{split}}{{.}}{{end}}"`  // -dbtype <s>
	Threshold float64 `buildarg:"{{if .}}-threshold{{split}}{{.}}{{end}}"` // -threshold <f.>
	Scale     float64 `buildarg:"{{if .}}-scale{{split}}{{.}}{{end}}"`     // -scale <f.>
	LogFile   string  `buildarg:"{{with .}}-logfile{{split}}{{.}}{{end}}"` // -logfile <s>

	// ExtraFlags will be passed through to makeprofiledb as flags.
	ExtraFlags string
}

func (m MakeProfileDB) BuildCommand() (*exec.Cmd, error) {
	if m.In == "" {
		return nil, errors.New("makeprofiledb: missing in filename")
	}
	if m.Out == "" {
		return nil, errors.New("makeprofiledb: missing out filename")
	}
	var extra []string
	if m.ExtraFlags != "" {
		extra = strings.Split(m.ExtraFlags, " ")
	}
	cl := external.Must(external.Build(m))
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

type RPS struct {
	// Usage: rpsblast -db <file> -query <file>
	//
	// For details relating to options and parameters, see the BLAST manual.
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}rpsblast{{end}}"` // rpsblast

	// Parameter:
	EValue        float64 `buildarg:"{{if .}}-evalue{{split}}{{.}}{{end}}"`             // -evalue <f.>
	CompBasedStat string  `buildarg:"{{with .}}-comp_based_stats{{split}}{{.}}{{end}}"` // -comp_based_stats <s>
	SegFilter     string  `buildarg:"{{with .}}-seg{{split}}{{.}}{{end}}"`              // -seg <s>
	XdropUngap    float64 `buildarg:"{{if .}}-xdrop_ungap{{split}}{{.}}{{end}}"`        // -xdrop_ungap <f.>
	XdropGap      float64 `buildarg:"{{if .}}-xdrop_gap{{split}}{{.}}{{end}}"`          // -xdrop_gap <f.>
	XdropGapFinal float64 `buildarg:"{{if .}}-xdrop_gap_final{{split}}{{.}}{{end}}"`    // -xdrop_gap_final <f.>

	// Input:
	Query    string `buildarg:"-query{{split}}{{.}}"`             // -query <s>
	Database string `buildarg:"{{if .}}-db{{split}}{{.}}{{end}}"` // -db <s>

	// Output:
	Out       string `buildarg:"{{with .}}-out{{split}}{{.}}{{end}}"`  // -out <s>
	OutFormat int    `buildarg:"{{if .}}-outfmt{{split}}{{.}}{{end}}"` // -outfmt <n>

	// Performance:
	Threads int `buildarg:"{{if .}}-num_threads{{split}}{{.}}{{end}}"` // -num_threads <n>

	// ExtraFlags will be passed through to rpsblast as flags.
	ExtraFlags string
}

func (r RPS) BuildCommand() (*exec.Cmd, error) {
	if r.Database == "" {
		return nil, errors.New("rpsblast: missing database")
	}
	cl := external.Must(external.Build(r))
	var extra []string
	if r.ExtraFlags != "" {
		extra = strings.Split(r.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// Record is a single BLAST tabular format hit. Coordinates are 1-based
// inclusive as reported by the search tools. QueryLen and TargetLen are only
// present for searches that request the extended qlen/tlen columns.
type Record struct {
	QueryAccVer     string
	TargetAccVer    string
	PctIdentity     float64
	AlignmentLength int
	Mismatches      int
	GapOpens        int
	QueryStart      int
	QueryEnd        int
	TargetStart     int
	TargetEnd       int
	EValue          float64
	BitScore        float64

	QueryLen  int `json:",omitempty"`
	TargetLen int `json:",omitempty"`
}

// ParseTabular parses BLAST tabular format hits from r, discarding any hit
// with an e-value above max. The search tools occasionally leak rows above
// their own reporting threshold, so the bound is applied here again.
func ParseTabular(r io.Reader, max float64) ([]Record, error) {
	// Column indices for default blast output tabular format 6 and 7,
	// optionally extended with the qlen and tlen columns.
	const (
		QueryAccVer = iota
		TargetAccVer
		PctIdentity
		AlignmentLength
		Mismatches
		GapOpens
		QueryStart
		QueryEnd
		TargetStart
		TargetEnd
		EValue
		BitScore
		QueryLen
		TargetLen

		numFields = BitScore + 1
		extFields = TargetLen + 1
	)

	var recs []Record
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Bytes()
		if bytes.HasPrefix(line, []byte("#")) {
			// Allow format 7 as well.
			continue
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		f := bytes.Split(line, []byte("\t"))
		if len(f) < numFields {
			return recs, fmt.Errorf("unexpected number of fields: %q", f)
		}

		// For some reason, NCBI think it's reasonable to sometimes
		// contaminate numeric fields with flanking whitespace.
		// So we trim whitespace from all fields just in case.
		rec := Record{
			QueryAccVer:  string(bytes.TrimSpace(f[QueryAccVer])),
			TargetAccVer: string(bytes.TrimSpace(f[TargetAccVer])),
		}
		var err error
		rec.PctIdentity, err = strconv.ParseFloat(string(bytes.TrimSpace(f[PctIdentity])), 64)
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.AlignmentLength, err = strconv.Atoi(string(bytes.TrimSpace(f[AlignmentLength])))
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.Mismatches, err = strconv.Atoi(string(bytes.TrimSpace(f[Mismatches])))
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.GapOpens, err = strconv.Atoi(string(bytes.TrimSpace(f[GapOpens])))
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.QueryStart, err = strconv.Atoi(string(bytes.TrimSpace(f[QueryStart])))
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.QueryEnd, err = strconv.Atoi(string(bytes.TrimSpace(f[QueryEnd])))
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.TargetStart, err = strconv.Atoi(string(bytes.TrimSpace(f[TargetStart])))
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.TargetEnd, err = strconv.Atoi(string(bytes.TrimSpace(f[TargetEnd])))
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.EValue, err = strconv.ParseFloat(string(bytes.TrimSpace(f[EValue])), 64)
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		rec.BitScore, err = strconv.ParseFloat(string(bytes.TrimSpace(f[BitScore])), 64)
		if err != nil {
			return recs, fmt.Errorf("error in line: %s: %w", line, err)
		}
		if len(f) >= extFields {
			rec.QueryLen, err = strconv.Atoi(string(bytes.TrimSpace(f[QueryLen])))
			if err != nil {
				return recs, fmt.Errorf("error in line: %s: %w", line, err)
			}
			rec.TargetLen, err = strconv.Atoi(string(bytes.TrimSpace(f[TargetLen])))
			if err != nil {
				return recs, fmt.Errorf("error in line: %s: %w", line, err)
			}
		}
		if rec.EValue > max {
			continue
		}
		recs = append(recs, rec)
	}
	err := sc.Err()
	return recs, err
}
