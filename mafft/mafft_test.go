// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mafft

import (
	"io/ioutil"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	cmd, err := Mafft{InFile: "in.fasta"}.BuildCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{"mafft", "in.fasta"}, cmd.Args)

	cmd, err = Mafft{Auto: true, Quiet: true, Threads: 4, InFile: "in.fasta"}.BuildCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{"mafft", "--auto", "--quiet", "--thread", "4", "in.fasta"}, cmd.Args)

	cmd, err = Mafft{Quiet: true, InFile: "in.fasta", ExtraFlags: "--anysymbol"}.BuildCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{"mafft", "--quiet", "--anysymbol", "in.fasta"}, cmd.Args)

	_, err = Mafft{}.BuildCommand()
	assert.Error(t, err)
}

func TestPathSafe(t *testing.T) {
	assert.Equal(t, "a_b_c.fasta", pathSafe("a/b\\c.fasta"))
	assert.Equal(t, "gnl_CDD_238827", pathSafe("gnl_CDD_238827"))
}

func TestInputName(t *testing.T) {
	seqs := []*linear.Seq{
		linear.NewSeq("int_a", nil, alphabet.Protein),
		linear.NewSeq("clipped___user_query___seq_1", nil, alphabet.Protein),
		linear.NewSeq("user_query___seq_1", nil, alphabet.Protein),
	}
	assert.Equal(t, "int_a___clipped___user_query___seq_1___user_query___seq_1.fasta", inputName(seqs))
}

// TestAlign exercises the gateway against a stand-in aligner that echoes its
// input, which is a valid alignment for equal length records.
func TestAlign(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no shell")
	}
	dir := t.TempDir()
	fake := filepath.Join(dir, "fakemafft")
	err := ioutil.WriteFile(fake, []byte("#!/bin/sh\nfor a; do f=$a; done\ncat \"$f\"\n"), 0755)
	require.NoError(t, err)

	seqs := []*linear.Seq{
		linear.NewSeq("int_a", alphabet.BytesToLetters([]byte("MCHN")), alphabet.Protein),
		linear.NewSeq("clipped___q", alphabet.BytesToLetters([]byte("MCHN")), alphabet.Protein),
		linear.NewSeq("q", alphabet.BytesToLetters([]byte("ACHN")), alphabet.Protein),
	}

	workDir := t.TempDir()
	a := &Aligner{Cmd: fake, Dir: workDir}
	aln, err := a.Align(seqs)
	require.NoError(t, err)
	require.Len(t, aln, 3)
	assert.Equal(t, "int_a", aln[0].ID)
	assert.Equal(t, "clipped___q", aln[1].ID)
	assert.Equal(t, "q", aln[2].ID)
	assert.Equal(t, "ACHN", string(alphabet.LettersToBytes(aln[2].Seq)))

	// Inputs are removed unless Keep is set.
	files, err := ioutil.ReadDir(workDir)
	require.NoError(t, err)
	assert.Len(t, files, 0)

	a.Keep = true
	_, err = a.Align(seqs)
	require.NoError(t, err)
	files, err = ioutil.ReadDir(workDir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
