// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"modernc.org/kv"

	"github.com/kortschak/inteinfinder/blast"
	"github.com/kortschak/inteinfinder/internal/store"
)

// DefaultPadding is the clipping offset used when clipping the query for
// alignment. The clipping starts Padding residues before the region start
// and ends Padding residues before the region end, clamped to the sequence
// bounds.
const DefaultPadding = 10

// clippedPrefix marks the padded query clipping record in aligner input.
const clippedPrefix = "clipped___"

// Aligner produces a multiple sequence alignment of the given records,
// returning the aligned sequences in input order.
type Aligner interface {
	Align(seqs []*linear.Seq) ([]*linear.Seq, error)
}

// CheckLine is the residue check result for one (query, intein target) hit.
// AlnStart and AlnEnd are the 1-based query positions of the intein envelope
// in the alignment.
type CheckLine struct {
	Query      string
	Target     string
	EValue     float64
	Region     int
	AlnStart   int
	AlnEnd     int
	RegionGood Level
	StartGood  Level
	EndGood    Level
	ExteinGood Level
}

// key returns the criteria store key ordering lines by (query, region,
// e-value) with the remaining fields for uniqueness.
func (l *CheckLine) key() []byte {
	return store.MarshalCheckKey(store.CheckKey{
		QueryAccVer:  l.Query,
		Region:       int64(l.Region),
		EValue:       l.EValue,
		TargetAccVer: l.Target,
		AlnStart:     int64(l.AlnStart),
		AlnEnd:       int64(l.AlnEnd),
	})
}

// Checker evaluates splice junction residues for sequence-search hits. All
// fields must be populated before Run and are not modified during it.
type Checker struct {
	Queries *QuerySet
	Inteins *SeqStore
	Regions *Regions
	Aligner Aligner
	Padding int

	// Workers is the size of the check worker pool.
	Workers int

	// Progress, if not nil, is advanced once per completed hit.
	Progress *ProgressBar
}

// Run checks all hits and stores the resulting lines in db keyed for
// (query, region, e-value) iteration order. Hits are processed by a worker
// pool; any aligner failure aborts the run.
func (c *Checker) Run(hits []blast.Record, db *kv.DB) error {
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	jobs := make(chan blast.Record)
	results := make(chan *CheckLine)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := range jobs {
				if failed() {
					continue
				}
				line, err := c.check(h)
				if err != nil {
					fail(err)
					continue
				}
				results <- line
			}
		}()
	}
	go func() {
		for _, h := range hits {
			jobs <- h
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	const batch = 100
	n := 0
	inTx := false
	for line := range results {
		if c.Progress != nil {
			c.Progress.Increment()
			c.Progress.Display()
		}
		if line == nil {
			// The pair was skipped with a warning.
			continue
		}
		if !inTx {
			err := db.BeginTransaction()
			if err != nil {
				fail(err)
				break
			}
			inTx = true
		}
		value, err := json.Marshal(line)
		if err != nil {
			fail(err)
			break
		}
		err = db.Set(line.key(), value)
		if err != nil {
			fail(err)
			break
		}
		n++
		if n%batch == 0 {
			err = db.Commit()
			if err != nil {
				fail(err)
				break
			}
			inTx = false
		}
	}
	for range results {
		// Drain in case the collector stopped early.
	}
	if inTx {
		err := db.Commit()
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.Progress != nil {
		c.Progress.Done()
	}
	return firstErr
}

// check runs the per-hit residue check procedure: locate the enclosing
// region, align the intein target against the padded query clipping and the
// full query, and classify the splice junction residues found at the intein
// envelope in the alignment.
func (c *Checker) check(h blast.Record) (*CheckLine, error) {
	middle := float64(h.QueryStart+h.QueryEnd+1) / 2
	idx, reg, ok := c.Regions.Enclosing(h.QueryAccVer, middle)
	if !ok {
		// The regions were built from the same hit set, so an
		// enclosing region must exist.
		panic(fmt.Sprintf("no enclosing region for %s x %s %d-%d",
			h.QueryAccVer, h.TargetAccVer, h.QueryStart, h.QueryEnd))
	}
	query, ok := c.Queries.Get(h.QueryAccVer)
	if !ok {
		panic(fmt.Sprintf("no sequence for query %q", h.QueryAccVer))
	}
	target, ok := c.Inteins.Get(h.TargetAccVer)
	if !ok {
		return nil, fmt.Errorf("hit for unknown intein target id: %q", h.TargetAccVer)
	}

	clipStart := reg.Start - 1 - c.Padding
	if clipStart < 0 {
		clipStart = 0
	}
	clipEnd := reg.End - 1 - c.Padding
	if clipEnd > query.Len()-1 {
		clipEnd = query.Len() - 1
	}
	if clipEnd < clipStart {
		clipEnd = clipStart
	}
	clip := linear.NewSeq(clippedPrefix+h.QueryAccVer, query.Seq[clipStart:clipEnd+1], alphabet.Protein)

	aln, err := c.Aligner.Align([]*linear.Seq{target, clip, query})
	if err != nil {
		return nil, err
	}
	if len(aln) != 3 {
		return nil, fmt.Errorf("unexpected number of aligned records: %d", len(aln))
	}
	if !strings.HasPrefix(aln[1].ID, clippedPrefix) {
		return nil, fmt.Errorf("aligner reordered records: %q", aln[1].ID)
	}
	targetRow := string(alphabet.LettersToBytes(aln[0].Seq))
	queryRow := string(alphabet.LettersToBytes(aln[2].Seq))
	if len(targetRow) != len(queryRow) {
		return nil, fmt.Errorf("ragged alignment for %s x %s: %d != %d",
			h.QueryAccVer, h.TargetAccVer, len(targetRow), len(queryRow))
	}

	origID := c.Queries.OriginalID(h.QueryAccVer)

	// Intein envelope in alignment columns.
	first := strings.IndexFunc(targetRow, notGap)
	last := strings.LastIndexFunc(targetRow, notGap)
	if first < 0 {
		log.Printf("warning: empty aligned intein for %s x %s", origID, h.TargetAccVer)
		return nil, nil
	}
	if queryRow[first] == '-' {
		log.Printf("warning: couldn't determine region start for %s x %s", origID, h.TargetAccVer)
		return nil, nil
	}
	if queryRow[last] == '-' {
		log.Printf("warning: couldn't determine region end for %s x %s", origID, h.TargetAccVer)
		return nil, nil
	}

	// Map alignment columns to ungapped query positions.
	colPos := make([]int, len(queryRow))
	pos := 0
	for i := 0; i < len(queryRow); i++ {
		if queryRow[i] != '-' {
			pos++
			colPos[i] = pos
		}
	}

	var (
		startRes = queryRow[first : first+1]
		endDi    string
		extein   string
	)
	if last >= 1 {
		endDi = queryRow[last-1 : last+1]
	}
	if last+1 < len(queryRow) {
		extein = queryRow[last+1 : last+2]
	}

	line := CheckLine{
		Query:      origID,
		Target:     h.TargetAccVer,
		EValue:     h.EValue,
		Region:     idx,
		AlnStart:   colPos[first],
		AlnEnd:     colPos[last],
		StartGood:  ClassifyStart(startRes),
		EndGood:    ClassifyEnd(endDi),
		ExteinGood: ClassifyExtein(extein),
	}
	if c.Regions.Contains(h.QueryAccVer, line.AlnStart, line.AlnEnd) {
		line.RegionGood = L1
	}
	return &line, nil
}

func notGap(r rune) bool { return r != '-' }
