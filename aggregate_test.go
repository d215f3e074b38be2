// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/kv"

	"github.com/kortschak/inteinfinder/blast"
)

func putLines(t *testing.T, db *kv.DB, lines ...CheckLine) {
	t.Helper()
	for i := range lines {
		value, err := json.Marshal(&lines[i])
		require.NoError(t, err)
		err = db.Set(lines[i].key(), value)
		require.NoError(t, err)
	}
}

func allL1(query, target string, evalue float64, region, start, end int) CheckLine {
	return CheckLine{
		Query: query, Target: target, EValue: evalue, Region: region,
		AlnStart: start, AlnEnd: end,
		RegionGood: L1, StartGood: L1, EndGood: L1, ExteinGood: L1,
	}
}

func testRegions(t *testing.T) *Regions {
	t.Helper()
	regions, err := BuildRegions(map[string][]blast.Record{
		"user_query___seq_1": {
			{QueryAccVer: "user_query___seq_1", QueryStart: 10, QueryEnd: 80},
			{QueryAccVer: "user_query___seq_1", QueryStart: 100, QueryEnd: 120},
		},
		"user_query___seq_2": {
			{QueryAccVer: "user_query___seq_2", QueryStart: 5, QueryEnd: 50},
		},
	})
	require.NoError(t, err)
	return regions
}

func TestCondenseBestTarget(t *testing.T) {
	qs := testQuerySet(t, ">qa\nMMMM\n>qb\nMMMM\n")
	regions := testRegions(t)
	db := testDB(t)
	// Collection order is not sorted; the store key order is.
	putLines(t, db,
		allL1("qa", "tB", 1e-15, 0, 12, 78),
		allL1("qa", "tA", 1e-20, 0, 11, 79),
	)

	rows, err := Condense(db, regions, qs, 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	r := rows[0]
	assert.Equal(t, "qa", r.Query)
	assert.Equal(t, 0, r.Region)
	assert.Equal(t, "tA", r.SingleTarget)
	assert.Equal(t, 1e-20, r.SingleEValue)
	assert.Equal(t, "11-79", r.SingleRegion)
	assert.Equal(t, L1, r.RegionGood)
	assert.Equal(t, L1, r.StartGood)
	assert.Equal(t, L1, r.EndGood)
	assert.Equal(t, L1, r.ExteinGood)
	assert.Equal(t, L1, r.MultiGood(1, 1))
}

func TestCondenseStrictness(t *testing.T) {
	qs := testQuerySet(t, ">qa\nMMMM\n>qb\nMMMM\n")
	regions := testRegions(t)
	db := testDB(t)
	line := allL1("qa", "tC", 1e-9, 1, 101, 119)
	line.StartGood = L2
	putLines(t, db, line)

	rows, err := Condense(db, regions, qs, 1, 1)
	require.NoError(t, err)
	r := rows[1]
	assert.False(t, r.HasSingleTarget())
	assert.Equal(t, No, r.StartGood)
	assert.Equal(t, L1, r.EndGood)
	assert.Equal(t, No, r.MultiGood(1, 1))

	rows, err = Condense(db, regions, qs, 2, 1)
	require.NoError(t, err)
	r = rows[1]
	assert.Equal(t, "tC", r.SingleTarget)
	assert.Equal(t, L2, r.StartGood)
	assert.Equal(t, L1, r.MultiGood(2, 1))
}

func TestCondenseEmptyRegionRow(t *testing.T) {
	qs := testQuerySet(t, ">qa\nMMMM\n>qb\nMMMM\n")
	regions := testRegions(t)
	rows, err := Condense(testDB(t), regions, qs, 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.False(t, r.HasSingleTarget())
		assert.Equal(t, No, r.RegionGood)
		assert.Equal(t, No, r.StartGood)
		assert.Equal(t, No, r.EndGood)
		assert.Equal(t, No, r.ExteinGood)
	}
	assert.Equal(t, "qb", rows[2].Query)
	assert.Equal(t, 0, rows[2].Region)
}

func TestCondenseMonotonic(t *testing.T) {
	qs := testQuerySet(t, ">qa\nMMMM\n>qb\nMMMM\n")
	regions := testRegions(t)
	db := testDB(t)
	strong := allL1("qa", "tA", 1e-20, 0, 11, 79)
	weak := allL1("qa", "tB", 1e-10, 0, 12, 78)
	weak.StartGood = L2
	putLines(t, db, strong, weak)

	rows, err := Condense(db, regions, qs, 2, 2)
	require.NoError(t, err)
	// The later weak line must not downgrade the aggregate.
	assert.Equal(t, L1, rows[0].StartGood)
}

func TestCondenseMultiTargetOnly(t *testing.T) {
	qs := testQuerySet(t, ">qa\nMMMM\n>qb\nMMMM\n")
	regions := testRegions(t)
	db := testDB(t)
	startOnly := CheckLine{
		Query: "qa", Target: "tA", EValue: 1e-20, Region: 0, AlnStart: 11, AlnEnd: 79,
		RegionGood: L1, StartGood: L1, EndGood: No, ExteinGood: No,
	}
	endOnly := CheckLine{
		Query: "qa", Target: "tB", EValue: 1e-15, Region: 0, AlnStart: 12, AlnEnd: 78,
		RegionGood: L1, StartGood: No, EndGood: L1, ExteinGood: L1,
	}
	putLines(t, db, startOnly, endOnly)

	rows, err := Condense(db, regions, qs, 1, 1)
	require.NoError(t, err)
	r := rows[0]
	assert.False(t, r.HasSingleTarget())
	assert.Equal(t, L1, r.MultiGood(1, 1))
}

func TestCondenseUnknownRegion(t *testing.T) {
	qs := testQuerySet(t, ">qa\nMMMM\n>qb\nMMMM\n")
	regions := testRegions(t)
	db := testDB(t)
	putLines(t, db, allL1("qa", "tA", 1e-20, 9, 11, 79))
	_, err := Condense(db, regions, qs, 1, 1)
	assert.Error(t, err)
}
