// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kortschak/inteinfinder/blast"
)

// QuerySummary reports the hit counts and best e-values from the profile and
// sequence searches for one query.
type QuerySummary struct {
	Query        string
	ProfileHits  int
	ProfileBest  float64
	SequenceHits int
	SequenceBest float64
}

// Summarize collects per-query search statistics over all queries in input
// order, including queries with no hits.
func Summarize(queries *QuerySet, profile, sequence []blast.Record) []QuerySummary {
	evalues := func(hits []blast.Record) map[string][]float64 {
		m := make(map[string][]float64)
		for _, h := range hits {
			m[h.QueryAccVer] = append(m[h.QueryAccVer], h.EValue)
		}
		return m
	}
	p := evalues(profile)
	s := evalues(sequence)

	sums := make([]QuerySummary, 0, queries.Len())
	for _, canon := range queries.IDs() {
		sum := QuerySummary{Query: queries.OriginalID(canon)}
		if e := p[canon]; len(e) != 0 {
			sum.ProfileHits = len(e)
			sum.ProfileBest = floats.Min(e)
		}
		if e := s[canon]; len(e) != 0 {
			sum.SequenceHits = len(e)
			sum.SequenceBest = floats.Min(e)
		}
		sums = append(sums, sum)
	}
	return sums
}
