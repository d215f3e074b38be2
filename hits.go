// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intein

import (
	"fmt"

	"github.com/kortschak/inteinfinder/blast"
)

// GroupByQuery groups hits from both searches by query id, checking that
// every hit names a known query. A hit for an unknown query indicates the
// searches ran over different input than the loaded store.
func GroupByQuery(queries *QuerySet, hits ...[]blast.Record) (map[string][]blast.Record, error) {
	grouped := make(map[string][]blast.Record)
	for _, set := range hits {
		for _, h := range set {
			if _, ok := queries.Get(h.QueryAccVer); !ok {
				return nil, fmt.Errorf("hit for unknown query id: %q", h.QueryAccVer)
			}
			grouped[h.QueryAccVer] = append(grouped[h.QueryAccVer], h)
		}
	}
	return grouped, nil
}
