// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"modernc.org/kv"
)

// RegionCheck is the condensed criterion verdict for one (query, region)
// pair. A zero RegionCheck holds no evidence.
type RegionCheck struct {
	Query  string
	Region int

	RegionGood Level
	StartGood  Level
	EndGood    Level
	ExteinGood Level

	// SingleTarget is the best single intein target satisfying all
	// criteria, with its e-value and refined region bounds. SingleTarget
	// is empty when no target passed alone.
	SingleTarget string
	SingleEValue float64
	SingleRegion string

	canon string
}

// HasSingleTarget returns whether a single target satisfied all criteria.
func (rc *RegionCheck) HasSingleTarget() bool { return rc.SingleTarget != "" }

// MultiGood returns L1 when the aggregated fields jointly pass at the given
// strictness, with the evidence possibly assembled across multiple targets.
func (rc *RegionCheck) MultiGood(nStrict, cStrict int) Level {
	if rc.RegionGood == L1 && rc.StartGood.Pass(nStrict) && rc.EndGood.Pass(cStrict) && rc.ExteinGood == L1 {
		return L1
	}
	return No
}

// Condense folds the sorted criteria store into one RegionCheck per
// (query, region) pair. Every region is represented, including regions with
// no check lines. Because lines are e-value sorted within a region, the
// first line with a target passing all criteria is the best such target.
func Condense(db *kv.DB, regions *Regions, queries *QuerySet, nStrict, cStrict int) ([]*RegionCheck, error) {
	var rows []*RegionCheck
	index := make(map[string]map[int]*RegionCheck)
	for _, canon := range queries.IDs() {
		orig := queries.OriginalID(canon)
		for i := range regions.Get(canon) {
			rc := &RegionCheck{Query: orig, Region: i, canon: canon}
			rows = append(rows, rc)
			if index[orig] == nil {
				index[orig] = make(map[int]*RegionCheck)
			}
			index[orig][i] = rc
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Query != rows[j].Query {
			return rows[i].Query < rows[j].Query
		}
		return rows[i].Region < rows[j].Region
	})

	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return rows, nil
		}
		return nil, err
	}
	for {
		_, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		var line CheckLine
		err = json.Unmarshal(v, &line)
		if err != nil {
			return nil, err
		}
		rc := index[line.Query][line.Region]
		if rc == nil {
			return nil, fmt.Errorf("check line for unknown region: %s %d", line.Query, line.Region)
		}

		startPass := line.StartGood.Pass(nStrict)
		endPass := line.EndGood.Pass(cStrict)
		if line.RegionGood == L1 && startPass && endPass && line.ExteinGood == L1 && !rc.HasSingleTarget() {
			rc.SingleTarget = line.Target
			rc.SingleEValue = line.EValue
			rc.SingleRegion = fmt.Sprintf("%d-%d", line.AlnStart, line.AlnEnd)
		}

		// Field upgrades are monotonic over the level ordering.
		if line.RegionGood > rc.RegionGood {
			rc.RegionGood = line.RegionGood
		}
		if startPass && line.StartGood > rc.StartGood {
			rc.StartGood = line.StartGood
		}
		if endPass && line.EndGood > rc.EndGood {
			rc.EndGood = line.EndGood
		}
		if line.ExteinGood > rc.ExteinGood {
			rc.ExteinGood = line.ExteinGood
		}
	}
	return rows, nil
}
