// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"modernc.org/kv"
)

// The "No" placeholder used by the criterion tables for absent values.
const noValue = "No"

func formatEValue(e float64) string {
	return strconv.FormatFloat(e, 'g', -1, 64)
}

// WriteRegions writes the putative regions table: one row per coarse region,
// ordered by query id and region id.
func WriteRegions(w io.Writer, regions *Regions, queries *QuerySet) error {
	_, err := fmt.Fprintln(w, "seq\tregion.id\tstart\tend\tlen")
	if err != nil {
		return err
	}
	for _, canon := range sortedByOriginal(queries) {
		orig := queries.OriginalID(canon)
		for i, r := range regions.Get(canon) {
			_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", orig, i, r.Start, r.End, r.Len())
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFullCriteria writes every residue check line in store key order:
// (query, region, e-value) ascending.
func WriteFullCriteria(w io.Writer, db *kv.DB) error {
	_, err := fmt.Fprintln(w, "query\ttarget\tevalue\twhich.region\taln.region\tregion.good\thas.start\thas.end\thas.extein.start")
	if err != nil {
		return err
	}
	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	for {
		_, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		var line CheckLine
		err = json.Unmarshal(v, &line)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d-%d\t%s\t%s\t%s\t%s\n",
			line.Query, line.Target, formatEValue(line.EValue),
			line.Region, line.AlnStart, line.AlnEnd,
			line.RegionGood, line.StartGood, line.EndGood, line.ExteinGood)
		if err != nil {
			return err
		}
	}
}

// WriteCondensed writes the condensed criteria table: one row per
// (query, region) pair.
func WriteCondensed(w io.Writer, rows []*RegionCheck, nStrict, cStrict int) error {
	_, err := fmt.Fprintln(w, "seq\tregion.id\tsingle.target\tsingle.target.evalue\tsingle.target.region\tmulti.target\tregion\tstart\tend\textein")
	if err != nil {
		return err
	}
	for _, rc := range rows {
		target, evalue, bounds := noValue, noValue, noValue
		if rc.HasSingleTarget() {
			target = rc.SingleTarget
			evalue = formatEValue(rc.SingleEValue)
			bounds = rc.SingleRegion
		}
		_, err = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rc.Query, rc.Region, target, evalue, bounds,
			rc.MultiGood(nStrict, cStrict),
			rc.RegionGood, rc.StartGood, rc.EndGood, rc.ExteinGood)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteRefined writes the refined regions table.
func WriteRefined(w io.Writer, rows []RefinedRegion) error {
	_, err := fmt.Fprintln(w, "seq\tregion.id\tstart\tend\tlen\trefining.target\trefining.evalue")
	if err != nil {
		return err
	}
	for _, r := range rows {
		target, evalue := noValue, noValue
		if r.Target != "" {
			target = r.Target
			evalue = formatEValue(r.EValue)
		}
		_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.Query, r.Region, r.Start, r.End, r.Len(), target, evalue)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes the per-query search summary in query input order.
func WriteSummary(w io.Writer, sums []QuerySummary) error {
	_, err := fmt.Fprintln(w, "seq\trpsblast.hits\trpsblast.best.evalue\tmmseqs.hits\tmmseqs.best.evalue")
	if err != nil {
		return err
	}
	for _, s := range sums {
		profile, sequence := noValue, noValue
		if s.ProfileHits > 0 {
			profile = formatEValue(s.ProfileBest)
		}
		if s.SequenceHits > 0 {
			sequence = formatEValue(s.SequenceBest)
		}
		_, err = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n",
			s.Query, s.ProfileHits, profile, s.SequenceHits, sequence)
		if err != nil {
			return err
		}
	}
	return nil
}

func sortedByOriginal(queries *QuerySet) []string {
	canon := make([]string, len(queries.IDs()))
	copy(canon, queries.IDs())
	sort.Slice(canon, func(i, j int) bool {
		return queries.OriginalID(canon[i]) < queries.OriginalID(canon[j])
	})
	return canon
}
