// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kortschak/inteinfinder/blast"
)

func TestWriteRegions(t *testing.T) {
	qs := testQuerySet(t, ">zulu\nMMMM\n>alpha\nMMMM\n")
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

	var buf bytes.Buffer
	err = WriteRegions(&buf, regions, qs)
	require.NoError(t, err)
	assert.Equal(t, "seq\tregion.id\tstart\tend\tlen\n"+
		"alpha\t0\t5\t50\t46\n"+
		"zulu\t0\t10\t80\t71\n"+
		"zulu\t1\t100\t120\t21\n", buf.String())
}

func TestWriteFullCriteriaEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFullCriteria(&buf, testDB(t))
	require.NoError(t, err)
	assert.Equal(t, criteriaHeader, buf.String())
}

func TestWriteCondensed(t *testing.T) {
	rows := []*RegionCheck{
		{
			Query: "qa", Region: 0,
			RegionGood: L1, StartGood: L1, EndGood: L1, ExteinGood: L1,
			SingleTarget: "tA", SingleEValue: 1e-20, SingleRegion: "11-79",
		},
		{
			Query: "qa", Region: 1,
			RegionGood: L1, StartGood: L2, EndGood: L1, ExteinGood: No,
		},
		{Query: "qb", Region: 0},
	}
	var buf bytes.Buffer
	err := WriteCondensed(&buf, rows, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "seq\tregion.id\tsingle.target\tsingle.target.evalue\tsingle.target.region\tmulti.target\tregion\tstart\tend\textein\n"+
		"qa\t0\ttA\t1e-20\t11-79\tL1\tL1\tL1\tL1\tL1\n"+
		"qa\t1\tNo\tNo\tNo\tNo\tL1\tL2\tL1\tNo\n"+
		"qb\t0\tNo\tNo\tNo\tNo\tNo\tNo\tNo\tNo\n", buf.String())
}

func TestWriteRefined(t *testing.T) {
	rows := []RefinedRegion{
		{Query: "qa", Region: 0, Start: 15, End: 145, Target: "tA", EValue: 1e-20},
		{Query: "qb", Region: 0, Start: 10, End: 200},
	}
	var buf bytes.Buffer
	err := WriteRefined(&buf, rows)
	require.NoError(t, err)
	assert.Equal(t, "seq\tregion.id\tstart\tend\tlen\trefining.target\trefining.evalue\n"+
		"qa\t0\t15\t145\t131\ttA\t1e-20\n"+
		"qb\t0\t10\t200\t191\tNo\tNo\n", buf.String())
}

func TestWriteSummary(t *testing.T) {
	sums := []QuerySummary{
		{Query: "zulu", ProfileHits: 2, ProfileBest: 1e-8, SequenceHits: 1, SequenceBest: 1e-30},
		{Query: "alpha"},
	}
	var buf bytes.Buffer
	err := WriteSummary(&buf, sums)
	require.NoError(t, err)
	assert.Equal(t, "seq\trpsblast.hits\trpsblast.best.evalue\tmmseqs.hits\tmmseqs.best.evalue\n"+
		"zulu\t2\t1e-08\t1\t1e-30\n"+
		"alpha\t0\tNo\t0\tNo\n", buf.String())
}
