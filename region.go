// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"

	"github.com/kortschak/inteinfinder/blast"
)

// Region is a maximal query interval covered by merged homology hits.
// Coordinates are 1-based inclusive.
type Region struct {
	Start int
	End   int
}

// Len returns the number of query residues covered by r.
func (r Region) Len() int { return r.End - r.Start + 1 }

// Regions holds the putative intein regions for each query. Region ids are
// the zero-based insertion order within a query.
type Regions struct {
	byQuery map[string][]Region
	trees   map[string]*interval.IntTree
}

// BuildRegions merges the hits for each query into maximal regions. Hits are
// scanned in ascending (qstart, qend) order; a hit overlapping the last
// region extends it, a hit starting at or beyond the last region's end opens
// a new region. Touching intervals do not merge.
func BuildRegions(hits map[string][]blast.Record) (*Regions, error) {
	rs := &Regions{
		byQuery: make(map[string][]Region, len(hits)),
		trees:   make(map[string]*interval.IntTree, len(hits)),
	}
	for query, hs := range hits {
		sorted := make([]blast.Record, len(hs))
		copy(sorted, hs)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].QueryStart != sorted[j].QueryStart {
				return sorted[i].QueryStart < sorted[j].QueryStart
			}
			return sorted[i].QueryEnd < sorted[j].QueryEnd
		})

		var regions []Region
		for _, h := range sorted {
			if h.QueryStart == h.QueryEnd {
				return nil, fmt.Errorf("degenerate hit for query %q: %s %d-%d",
					query, h.TargetAccVer, h.QueryStart, h.QueryEnd)
			}
			s, e := h.QueryStart, h.QueryEnd
			if len(regions) == 0 {
				regions = append(regions, Region{Start: s, End: e})
				continue
			}
			last := &regions[len(regions)-1]
			switch {
			case s >= last.End:
				regions = append(regions, Region{Start: s, End: e})
			case e > last.End:
				last.End = e
			}
		}
		rs.byQuery[query] = regions

		tree := &interval.IntTree{}
		for i, r := range regions {
			err := tree.Insert(regionInterval{uid: uintptr(i), start: r.Start, end: r.End}, true)
			if err != nil {
				return nil, err
			}
		}
		tree.AdjustRanges()
		rs.trees[query] = tree
	}
	return rs, nil
}

// Get returns the regions for query in id order.
func (rs *Regions) Get(query string) []Region { return rs.byQuery[query] }

// Enclosing returns the id and bounds of the region on query that contains
// the given point.
func (rs *Regions) Enclosing(query string, middle float64) (int, Region, bool) {
	for i, r := range rs.byQuery[query] {
		if float64(r.Start) <= middle && middle <= float64(r.End) {
			return i, r, true
		}
	}
	return 0, Region{}, false
}

// Contains returns whether any region on query completely contains the
// interval [start, end].
func (rs *Regions) Contains(query string, start, end int) bool {
	tree, ok := rs.trees[query]
	if !ok {
		return false
	}
	return len(tree.Get(containedQuery{start: start, end: end})) != 0
}

type regionInterval struct {
	uid        uintptr
	start, end int
}

func (i regionInterval) Overlap(b interval.IntRange) bool {
	return i.start <= b.End && b.Start <= i.end
}
func (i regionInterval) ID() uintptr { return i.uid }
func (i regionInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end}
}

// containedQuery matches intervals in a tree that completely contain it.
type containedQuery struct {
	start, end int
}

func (q containedQuery) Overlap(b interval.IntRange) bool {
	return b.Start <= q.start && q.end <= b.End
}
func (q containedQuery) ID() uintptr { return 0 }
func (q containedQuery) Range() interval.IntRange {
	return interval.IntRange{Start: q.start, End: q.end}
}
