// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package intein identifies candidate intein regions in protein sequences
// from tabular homology hits and alignment-derived splice junction residues.
package intein

import (
	"fmt"
	"strings"
)

// Level is a three-valued evidence tag for a splice junction residue check.
// The ordering No < L2 < L1 makes aggregation a max over the tag values.
type Level uint8

const (
	No Level = iota
	L2
	L1
)

func (l Level) String() string {
	switch l {
	case No:
		return "No"
	case L2:
		return "L2"
	case L1:
		return "L1"
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "No":
		*l = No
	case "L2":
		*l = L2
	case "L1":
		*l = L1
	default:
		return fmt.Errorf("invalid level: %q", text)
	}
	return nil
}

// Pass returns whether l satisfies a residue test at the given strictness.
// Strictness 1 accepts only L1, strictness 2 accepts L1 and L2.
func (l Level) Pass(strictness int) bool {
	return l == L1 || (l == L2 && strictness >= 2)
}

// Splice junction residue sets. The first residue of an intein, the terminal
// dipeptide of an intein and the first residue of the downstream extein
// follow strong compositional rules that are used as evidence here.
var (
	startL1 = set("C", "S", "A", "Q", "P", "T")
	startL2 = set("V", "F", "N", "G", "M", "L")

	endL1 = set("HN", "SN", "GN", "GQ", "LD", "FN")
	endL2 = set("KN", "AN", "HQ", "PP", "TH", "CN", "KQ", "LH", "NS", "NT", "VH")

	exteinStart = set("S", "T", "C")
)

func set(ss ...string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

func classify(s string, l1, l2 map[string]bool) Level {
	s = strings.ToUpper(s)
	switch {
	case l1[s]:
		return L1
	case l2[s]:
		return L2
	}
	return No
}

// ClassifyStart classifies the first intein residue on the query.
func ClassifyStart(s string) Level { return classify(s, startL1, startL2) }

// ClassifyEnd classifies the terminal intein dipeptide on the query.
func ClassifyEnd(s string) Level { return classify(s, endL1, endL2) }

// ClassifyExtein classifies the residue immediately downstream of the intein
// on the query. There is no weak-evidence set for the extein start.
func ClassifyExtein(s string) Level {
	if exteinStart[strings.ToUpper(s)] {
		return L1
	}
	return No
}
