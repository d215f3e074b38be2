// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The audit-intfind-db command allows the criteria data store generated
// during a run of intfind to be queried. The store holds one record per
// residue check, keyed for (query, region, e-value) iteration order, and
// will be found in the working directory noted in the log output of intfind
// if it was run with the -work flag.
//
// Each value is the residue check result in JSON corresponding to the
// following Go struct.
//  struct {
//  	Query      string
//  	Target     string
//  	EValue     float64
//  	Region     int
//  	AlnStart   int
//  	AlnEnd     int
//  	RegionGood string
//  	StartGood  string
//  	EndGood    string
//  	ExteinGood string
//  }
// Output from audit-intfind-db is a JSON stream on stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"modernc.org/kv"

	"github.com/kortschak/inteinfinder/internal/store"
)

func main() {
	path := flag.String("db", "", "specify db file to audit (base must match 'criteria.db')")
	flag.Parse()
	if filepath.Base(*path) != "criteria.db" {
		flag.Usage()
		os.Exit(2)
	}

	opts := &kv.Options{Compare: store.GroupByQueryRegionOrderEValue}
	db, err := kv.Open(*path, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return
		}
		log.Fatal(err)
	}
	for {
		_, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Fatal(err)
		}
		os.Stdout.Write(v)
		fmt.Println()
	}
}
