// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"fmt"
	"strconv"
	"strings"
)

// Refined region length bounds, used when length gating is requested.
const (
	RegionMinLen = 114 // 134 - 20
	RegionMaxLen = 628 // 608 + 20
)

// RefinedRegion is the final record for one (query, region) pair. Target is
// empty when the coarse region bounds were kept.
type RefinedRegion struct {
	Query  string
	Region int
	Start  int
	End    int
	Target string
	EValue float64
}

// Len returns the number of query residues covered by r.
func (r RefinedRegion) Len() int { return r.End - r.Start + 1 }

// Refine rewrites region bounds from single-target evidence. A region whose
// condensed row carries a single target with e-value at most max takes the
// bounds implied by that target's alignment; all other regions keep their
// coarse bounds. With useLength set, regions whose final length falls
// outside [RegionMinLen, RegionMaxLen] are discarded.
func Refine(checks []*RegionCheck, regions *Regions, max float64, useLength bool) ([]RefinedRegion, error) {
	var refined []RefinedRegion
	for _, rc := range checks {
		reg := regions.Get(rc.canon)[rc.Region]
		r := RefinedRegion{
			Query:  rc.Query,
			Region: rc.Region,
			Start:  reg.Start,
			End:    reg.End,
		}
		if rc.HasSingleTarget() && rc.SingleEValue <= max {
			start, end, err := parseBounds(rc.SingleRegion)
			if err != nil {
				return nil, fmt.Errorf("bad single target region for %s %d: %w", rc.Query, rc.Region, err)
			}
			r.Start = start
			r.End = end
			r.Target = rc.SingleTarget
			r.EValue = rc.SingleEValue
		}
		if useLength && (r.Len() < RegionMinLen || r.Len() > RegionMaxLen) {
			continue
		}
		refined = append(refined, r)
	}
	return refined, nil
}

func parseBounds(s string) (start, end int, err error) {
	i := strings.Index(s, "-")
	if i < 0 {
		return 0, 0, fmt.Errorf("invalid bounds: %q", s)
	}
	start, err = strconv.Atoi(s[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid bounds: %q: %w", s, err)
	}
	end, err = strconv.Atoi(s[i+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid bounds: %q: %w", s, err)
	}
	return start, end, nil
}
