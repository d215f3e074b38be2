// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// intfind is an intein identification tool. It finds candidate self-splicing
// intein elements in protein sequences by combining a conserved-domain
// profile search with a search against a reference intein database, checks
// the splice junction residues of each candidate through targeted MAFFT
// alignments, and writes tabular reports of the putative regions and the
// evidence for them.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"modernc.org/kv"

	intein "github.com/kortschak/inteinfinder"
	"github.com/kortschak/inteinfinder/internal/store"
	"github.com/kortschak/inteinfinder/mafft"
)

func main() {
	queries := flag.String("queries", "", "specify query protein sequence file (required)")
	inteins := flag.String("inteins", "", "specify reference intein sequence file (required)")
	profiles := flag.String("profiles", "", "specify conserved-domain profile model list for makeprofiledb (required)")
	outDir := flag.String("out", "intfind_out", "specify the output directory")
	nStrict := flag.Int("n-term-strictness", 1, "specify the intein start residue strictness (1 or 2)")
	cStrict := flag.Int("c-term-strictness", 1, "specify the intein end dipeptide strictness (1 or 2)")
	refineStrict := flag.Int("refinement-strictness", 1, "specify the region refinement strictness (only 1 is supported)")
	useLen := flag.Bool("use-length-in-refinement", false, "specify to discard refined regions with implausible lengths")
	evalueRPS := flag.Float64("evalue-rpsblast", 1e-5, "specify the rpsblast e-value bound")
	evalueMM := flag.Float64("evalue-mmseqs", 1e-5, "specify the mmseqs e-value bound")
	evalueRefine := flag.Float64("evalue-region-refinement", 1e-10, "specify the e-value bound for region refinement")
	sensitivity := flag.Float64("mmseqs-sensitivity", 5.7, "specify the mmseqs search sensitivity")
	cpus := flag.Int("cpus", runtime.NumCPU(), "specify the number of parallel residue checks")
	padding := flag.Int("padding", intein.DefaultPadding, "specify the offset of the alignment clipping before the region start and end")
	makeprofiledbPath := flag.String("makeprofiledb", "", "path to makeprofiledb if not in $PATH")
	rpsblastPath := flag.String("rpsblast", "", "path to rpsblast if not in $PATH")
	mmseqsPath := flag.String("mmseqs", "", "path to mmseqs if not in $PATH")
	mafftPath := flag.String("mafft", "", "path to mafft if not in $PATH")
	verbose := flag.Bool("verbose", false, "specify verbose logging")
	work := flag.Bool("work", false, "specify to keep temporary files and alignments")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s [options] -queries <seqs.faa> -inteins <inteins.faa> -profiles <cdm.pn> 2>out.log

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if *queries == "" || *inteins == "" || *profiles == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *nStrict != 1 && *nStrict != 2 {
		log.Fatalf("invalid n-term-strictness: %d", *nStrict)
	}
	if *cStrict != 1 && *cStrict != 2 {
		log.Fatalf("invalid c-term-strictness: %d", *cStrict)
	}
	if *refineStrict != 1 {
		log.Fatalf("invalid refinement-strictness: %d", *refineStrict)
	}
	for _, e := range []struct {
		name  string
		value float64
	}{
		{"evalue-rpsblast", *evalueRPS},
		{"evalue-mmseqs", *evalueMM},
		{"evalue-region-refinement", *evalueRefine},
	} {
		if e.value > 0.1 {
			log.Fatalf("invalid %s: %v is above 0.1", e.name, e.value)
		}
	}
	if *cpus < 1 {
		log.Fatalf("invalid cpus: %d", *cpus)
	}
	if *padding < 0 {
		log.Fatalf("invalid padding: %d", *padding)
	}

	log.Println(os.Args)
	var logger io.WriteCloser
	if *verbose {
		logger = logCapture()
		defer logger.Close()
	}

	tmpDir, err := ioutil.TempDir("", "intfind-tmp-*")
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("working in %s", tmpDir)
	if *work {
		log.Println("keeping work")
	} else {
		defer func() {
			os.RemoveAll(tmpDir)
		}()
	}
	alnDir := filepath.Join(tmpDir, "aln")
	err = os.Mkdir(alnDir, 0755)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("reading queries")
	qf, err := os.Open(*queries)
	if err != nil {
		log.Fatal(err)
	}
	qstore, err := intein.ReadSeqs(qf, *queries)
	qf.Close()
	if err != nil {
		log.Fatal(err)
	}
	qs := intein.NewQuerySet(qstore)

	log.Println("reading inteins")
	inf, err := os.Open(*inteins)
	if err != nil {
		log.Fatal(err)
	}
	istore, err := intein.ReadSeqs(inf, *inteins)
	inf.Close()
	if err != nil {
		log.Fatal(err)
	}

	renamed := filepath.Join(tmpDir, "queries.fasta")
	rf, err := os.Create(renamed)
	if err != nil {
		log.Fatal(err)
	}
	err = qs.WriteFasta(rf)
	if err != nil {
		log.Fatal(err)
	}
	err = rf.Close()
	if err != nil {
		log.Fatal(err)
	}

	profileHits, err := runProfileSearch(*makeprofiledbPath, *rpsblastPath, *profiles, renamed, tmpDir, *evalueRPS, *cpus, logger)
	if err != nil {
		log.Fatal(err)
	}
	seqHits, err := runSequenceSearch(*mmseqsPath, renamed, *inteins, tmpDir, *evalueMM, *sensitivity, *cpus, logger)
	if err != nil {
		log.Fatal(err)
	}

	grouped, err := intein.GroupByQuery(qs, profileHits, seqHits)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("building putative regions")
	regions, err := intein.BuildRegions(grouped)
	if err != nil {
		log.Fatal(err)
	}

	opts := &kv.Options{Compare: store.GroupByQueryRegionOrderEValue}
	db, err := kv.Create(filepath.Join(tmpDir, "criteria.db"), opts)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	checker := &intein.Checker{
		Queries: qs,
		Inteins: istore,
		Regions: regions,
		Aligner: &mafft.Aligner{Cmd: *mafftPath, Dir: alnDir, Keep: *work, Stderr: logger},
		Padding: *padding,
		Workers: *cpus,
	}
	if !*verbose {
		checker.Progress = intein.NewProgressBar("checking splice junctions", len(seqHits), os.Stderr)
	}
	log.Printf("checking %d sequence hits", len(seqHits))
	err = checker.Run(seqHits, db)
	if err != nil {
		log.Fatal(err)
	}

	rows, err := intein.Condense(db, regions, qs, *nStrict, *cStrict)
	if err != nil {
		log.Fatal(err)
	}
	refined, err := intein.Refine(rows, regions, *evalueRefine, *useLen)
	if err != nil {
		log.Fatal(err)
	}
	sums := intein.Summarize(qs, profileHits, seqHits)

	err = os.MkdirAll(*outDir, 0755)
	if err != nil {
		log.Fatal(err)
	}
	for _, t := range []struct {
		name  string
		write func(io.Writer) error
	}{
		{"putative_regions.tsv", func(w io.Writer) error { return intein.WriteRegions(w, regions, qs) }},
		{"criteria_full.tsv", func(w io.Writer) error { return intein.WriteFullCriteria(w, db) }},
		{"criteria_condensed.tsv", func(w io.Writer) error { return intein.WriteCondensed(w, rows, *nStrict, *cStrict) }},
		{"refined_regions.tsv", func(w io.Writer) error { return intein.WriteRefined(w, refined) }},
		{"query_summary.tsv", func(w io.Writer) error { return intein.WriteSummary(w, sums) }},
	} {
		err = writeTable(filepath.Join(*outDir, t.name), t.write)
		if err != nil {
			log.Fatalf("failed to write %s: %v", t.name, err)
		}
	}
	log.Printf("reports in %s", *outDir)
}

func writeTable(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = write(w)
	if err != nil {
		f.Close()
		return err
	}
	err = w.Flush()
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// logCapture returns an io.WriteCloser that pipes writes to the default log logger.
func logCapture() io.WriteCloser {
	r, w := io.Pipe()
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if len(bytes.TrimSpace(sc.Bytes())) == 0 {
				continue
			}
			log.Printf("\t%s", sc.Bytes())
		}
		err := sc.Err()
		if err != nil && err != io.EOF {
			_ = w.CloseWithError(err)
		}
	}()
	return w
}
