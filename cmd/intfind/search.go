// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kortschak/inteinfinder/blast"
	"github.com/kortschak/inteinfinder/mmseqs"
)

const tabFmt = 6

// runProfileSearch builds an RPS profile database from the models listed in
// profiles and searches the renamed queries against it. Hits above the
// e-value bound are discarded. If logger is not nil, output from the
// executables is written to it.
func runProfileSearch(mkdbCmd, rpsCmd, profiles, queries, workdir string, evalue float64, threads int, logger io.Writer) ([]blast.Record, error) {
	dbPath := filepath.Join(workdir, "cdm-db")
	mkdb, err := blast.MakeProfileDB{Cmd: mkdbCmd, In: profiles, Out: dbPath, DBType: "rps"}.BuildCommand()
	if err != nil {
		return nil, err
	}
	log.Print(mkdb)
	mkdb.Stdout = logger
	mkdb.Stderr = logger
	err = mkdb.Run()
	if err != nil {
		return nil, err
	}

	search := blast.RPS{
		Cmd:      rpsCmd,
		Query:    queries,
		Database: dbPath,

		EValue:    evalue,
		OutFormat: tabFmt,
		Threads:   threads,
	}
	rps, err := search.BuildCommand()
	if err != nil {
		return nil, err
	}
	log.Print(rps)
	rps.Stderr = logger
	stdout, err := rps.StdoutPipe()
	if err != nil {
		return nil, err
	}
	err = rps.Start()
	if err != nil {
		return nil, err
	}
	hits, err := blast.ParseTabular(stdout, evalue)
	if err != nil {
		return nil, err
	}
	err = rps.Wait()
	if err != nil {
		return nil, err
	}
	log.Printf("rpsblast found %d hits", len(hits))
	return hits, nil
}

// runSequenceSearch searches the renamed queries against the reference
// intein sequences with mmseqs easy-search, requesting the extended tabular
// format that carries the query and target lengths.
func runSequenceSearch(mmseqsCmd, queries, inteins, workdir string, evalue, sensitivity float64, threads int, logger io.Writer) ([]blast.Record, error) {
	out := filepath.Join(workdir, "mmseqs-hits.tsv")
	search := mmseqs.EasySearch{
		Cmd:     mmseqsCmd,
		Query:   queries,
		Target:  inteins,
		Out:     out,
		WorkDir: filepath.Join(workdir, "mmseqs-work"),

		Sensitivity:  sensitivity,
		EValue:       evalue,
		FormatOutput: mmseqs.TabularFormat,
		Threads:      threads,
	}
	cmd, err := search.BuildCommand()
	if err != nil {
		return nil, err
	}
	log.Print(cmd)
	cmd.Stdout = logger
	cmd.Stderr = logger
	err = cmd.Run()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	hits, err := blast.ParseTabular(f, evalue)
	if err != nil {
		return nil, err
	}
	log.Printf("mmseqs found %d hits", len(hits))
	return hits, nil
}
