// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// canonicalFormat is the systematic query naming used through all external
// tool invocations. The original ids are restored in all outputs.
const canonicalFormat = "user_query___seq_%d"

// SeqStore is an id-keyed set of protein sequences retaining input order.
type SeqStore struct {
	ids  []string
	seqs map[string]*linear.Seq
}

// ReadSeqs reads protein FASTA records from r. Duplicate sequence ids within
// a single source are an error; name is used to identify the source in the
// error message.
func ReadSeqs(r io.Reader, name string) (*SeqStore, error) {
	st := &SeqStore{seqs: make(map[string]*linear.Seq)}
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		if _, exists := st.seqs[s.ID]; exists {
			return nil, fmt.Errorf("duplicate sequence id in %s: %q", name, s.ID)
		}
		st.ids = append(st.ids, s.ID)
		st.seqs[s.ID] = s
	}
	err := sc.Error()
	if err != nil {
		return nil, fmt.Errorf("error during sequence read: %w", err)
	}
	return st, nil
}

// Get returns the sequence for id.
func (st *SeqStore) Get(id string) (*linear.Seq, bool) {
	s, ok := st.seqs[id]
	return s, ok
}

// IDs returns the sequence ids in input order.
func (st *SeqStore) IDs() []string { return st.ids }

// Len returns the number of sequences held.
func (st *SeqStore) Len() int { return len(st.ids) }

// QuerySet holds the user queries keyed by canonical id, together with the
// mapping back to the original ids.
type QuerySet struct {
	*SeqStore

	original map[string]string
}

// NewQuerySet renames the sequences in src to canonical ids by stable
// numbering in input order, starting at 1.
func NewQuerySet(src *SeqStore) *QuerySet {
	q := &QuerySet{
		SeqStore: &SeqStore{seqs: make(map[string]*linear.Seq, src.Len())},
		original: make(map[string]string, src.Len()),
	}
	for i, id := range src.ids {
		s := src.seqs[id]
		canon := fmt.Sprintf(canonicalFormat, i+1)
		renamed := linear.NewSeq(canon, s.Seq, alphabet.Protein)
		renamed.Desc = s.Desc
		q.ids = append(q.ids, canon)
		q.seqs[canon] = renamed
		q.original[canon] = id
	}
	return q
}

// OriginalID returns the user-supplied id for a canonical query id. Ids not
// assigned by NewQuerySet are returned unchanged.
func (q *QuerySet) OriginalID(canon string) string {
	if id, ok := q.original[canon]; ok {
		return id
	}
	return canon
}

// WriteFasta writes the canonically named queries as FASTA in input order.
func (q *QuerySet) WriteFasta(w io.Writer) error {
	for _, id := range q.ids {
		_, err := fmt.Fprintf(w, "%60a\n", q.seqs[id])
		if err != nil {
			return err
		}
	}
	return nil
}
