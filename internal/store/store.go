// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"bytes"
	"encoding/binary"
	"math"
)

// GroupByQueryRegionOrderEValue is a kv compare function, ordering by query
// name, putative region index and hit e-value. Later fields only
// disambiguate equal evidence so that keys are unique.
func GroupByQueryRegionOrderEValue(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}

	kx := UnmarshalCheckKey(x)
	ky := UnmarshalCheckKey(y)

	// Group checks of the same query.
	switch {
	case kx.QueryAccVer < ky.QueryAccVer:
		return -1
	case kx.QueryAccVer > ky.QueryAccVer:
		return 1
	}

	// Group checks of the same region, best e-value first.
	switch {
	case kx.Region < ky.Region:
		return -1
	case kx.Region > ky.Region:
		return 1
	}
	switch {
	case kx.EValue < ky.EValue:
		return -1
	case kx.EValue > ky.EValue:
		return 1
	}

	// Ensure key uniqueness.
	switch {
	case kx.TargetAccVer < ky.TargetAccVer:
		return -1
	case kx.TargetAccVer > ky.TargetAccVer:
		return 1
	}
	switch {
	case kx.AlnStart < ky.AlnStart:
		return -1
	case kx.AlnStart > ky.AlnStart:
		return 1
	}
	switch {
	case kx.AlnEnd < ky.AlnEnd:
		return -1
	case kx.AlnEnd > ky.AlnEnd:
		return 1
	}

	panic("unreachable")
}

// CheckKey identifies a single residue check result, a (query, intein
// target) pair resolved to a putative region.
type CheckKey struct {
	QueryAccVer  string
	Region       int64
	EValue       float64
	TargetAccVer string
	AlnStart     int64
	AlnEnd       int64
}

var order = binary.BigEndian

func MarshalCheckKey(k CheckKey) []byte {
	var (
		buf bytes.Buffer
		b   [8]byte
	)
	order.PutUint64(b[:], uint64(len(k.QueryAccVer)))
	buf.Write(b[:])
	buf.WriteString(k.QueryAccVer)
	order.PutUint64(b[:], uint64(k.Region))
	buf.Write(b[:])
	order.PutUint64(b[:], math.Float64bits(k.EValue))
	buf.Write(b[:])
	order.PutUint64(b[:], uint64(len(k.TargetAccVer)))
	buf.Write(b[:])
	buf.WriteString(k.TargetAccVer)
	order.PutUint64(b[:], uint64(k.AlnStart))
	buf.Write(b[:])
	order.PutUint64(b[:], uint64(k.AlnEnd))
	buf.Write(b[:])
	return buf.Bytes()
}

func UnmarshalCheckKey(data []byte) CheckKey {
	var k CheckKey
	n64 := binary.Size(uint64(0))
	n := order.Uint64(data[:n64])
	data = data[n64:]
	k.QueryAccVer = string(data[:n])
	data = data[n:]
	k.Region = int64(order.Uint64(data[:n64]))
	data = data[n64:]
	k.EValue = math.Float64frombits(order.Uint64(data[:n64]))
	data = data[n64:]
	n = order.Uint64(data[:n64])
	data = data[n64:]
	k.TargetAccVer = string(data[:n])
	data = data[n:]
	k.AlnStart = int64(order.Uint64(data[:n64]))
	data = data[n64:]
	k.AlnEnd = int64(order.Uint64(data[:n64]))
	return k
}
