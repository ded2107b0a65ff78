// Copyright 2026 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fs

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

type freezer struct {
	seen map[*Struct]bool
}

func newFreezer() *freezer {
	return &freezer{seen: map[*Struct]bool{}}
}

const (
	structSeed      = 0x9e3779b97f4a7c15
	disjunctionSeed = 0xc2b2ae3d27d4eb4f
	cycleSeed       = 0x165667b19e3779f9
)

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func writeVariable(d *xxhash.Digest, v *variable) {
	if v.name == "" {
		return
	}
	if v.agree {
		d.WriteString("?")
	} else {
		d.WriteString("!?")
	}
	d.WriteString(v.name)
	d.WriteString("\x00")
}

// A hasher computes structural hashes of graphs.
//
// The hash of a struct combines the hashes of its arcs and disjunctions with
// a commutative sum, so that it does not depend on insertion order. A node
// revisited while it is still being hashed contributes a marker that encodes
// the distance to its first occurrence on the current path. As a result the
// hash of a node only depends on the path by which it was reached through
// such back references. Hashes of nodes without back references above them
// are reused.
type hasher struct {
	stack map[*Struct]int // nodes being hashed, by depth
	memo  map[*Struct]uint64
}

func newHasher() *hasher {
	return &hasher{
		stack: map[*Struct]int{},
		memo:  map[*Struct]uint64{},
	}
}

func (h *hasher) value(v Value) uint64 {
	x, _ := h.hash(v, 0)
	return x
}

// hash returns the hash of v at the given depth, along with the smallest
// depth of any node referred to by a back reference within v.
func (h *hasher) hash(v Value, depth int) (uint64, int) {
	switch x := v.deref().(type) {
	case *Struct:
		return h.structHash(x, depth)
	case SimpleValue:
		return x.hashSet(), math.MaxInt
	}
	panic("unreachable")
}

func (h *hasher) structHash(x *Struct, depth int) (uint64, int) {
	if d, ok := h.stack[x]; ok {
		return mix(cycleSeed + uint64(depth-d)), d
	}
	if sum, ok := h.memo[x]; ok {
		return sum, math.MaxInt
	}
	h.stack[x] = depth
	low := math.MaxInt

	acc := uint64(structSeed)
	for _, a := range x.arcs {
		vh, l := h.hash(a.value, depth+1)
		low = min(low, l)
		acc += mix(xxhash.Sum64String(a.feature.ID()) ^ mix(vh))
	}
	for _, d := range x.disjunctions {
		dh, l := h.alternatives(d, depth+1)
		low = min(low, l)
		acc += mix(disjunctionSeed + dh)
	}
	sum := mix(acc ^ uint64(len(x.arcs))<<32 ^ uint64(len(x.disjunctions)))

	delete(h.stack, x)
	if low >= depth {
		h.memo[x] = sum
		low = math.MaxInt
	}
	return sum, low
}

func (h *hasher) alternatives(d *Disjunction, depth int) (uint64, int) {
	var acc uint64
	low := math.MaxInt
	for _, a := range d.alts {
		ah, l := h.structHash(a.Deref(), depth)
		low = min(low, l)
		acc += mix(ah)
	}
	return acc, low
}

func (h *hasher) disjunction(d *Disjunction) uint64 {
	x, _ := h.alternatives(d, 0)
	return x
}
