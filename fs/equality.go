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

import "maps"

// Equals reports whether a and b are structurally equal.
//
// Two graphs are equal if their nodes can be paired one-to-one such that
// paired structs have the same features with paired values and paired
// simple values denote the same set or variable. In particular, a node
// shared by two paths in a must correspond to a node shared by the same
// paths in b. Disjunctions and their alternatives are compared regardless
// of order.
func Equals(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return newEqualer().values(a, b)
}

// Equals reports whether x and other are structurally equal.
func (x *Struct) Equals(other *Struct) bool {
	return newEqualer().values(x, other)
}

// An equaler tracks the pairing of nodes established so far.
type equaler struct {
	pairs map[Value]Value // self to other
	rev   map[Value]Value // other to self
}

func newEqualer() *equaler {
	return &equaler{
		pairs: map[Value]Value{},
		rev:   map[Value]Value{},
	}
}

func (e *equaler) fork() *equaler {
	return &equaler{
		pairs: maps.Clone(e.pairs),
		rev:   maps.Clone(e.rev),
	}
}

func (e *equaler) adopt(f *equaler) {
	e.pairs, e.rev = f.pairs, f.rev
}

func (e *equaler) values(x, y Value) bool {
	x, y = x.deref(), y.deref()
	if p, ok := e.pairs[x]; ok {
		return p == y
	}
	if _, ok := e.rev[y]; ok {
		return false
	}
	if x.Kind() != y.Kind() {
		return false
	}
	e.pairs[x] = y
	e.rev[y] = x

	switch x := x.(type) {
	case *Struct:
		return e.structs(x, y.(*Struct))
	case SimpleValue:
		return x.equalSet(y.(SimpleValue))
	}
	return false
}

func (e *equaler) structs(x, y *Struct) bool {
	if len(x.arcs) != len(y.arcs) || len(x.disjunctions) != len(y.disjunctions) {
		return false
	}
	for _, a := range x.arcs {
		yv, ok := y.get(a.feature)
		if !ok || !e.values(a.value, yv) {
			return false
		}
	}
	return e.matchAll(len(x.disjunctions), func(f *equaler, i, j int) bool {
		return f.disjunctions(x.disjunctions[i], y.disjunctions[j])
	})
}

func (e *equaler) disjunctions(d, other *Disjunction) bool {
	if len(d.alts) != len(other.alts) {
		return false
	}
	return e.matchAll(len(d.alts), func(f *equaler, i, j int) bool {
		return f.values(d.alts[i], other.alts[j])
	})
}

// matchAll reports whether the elements 0..n-1 of two sequences can be
// paired one-to-one such that eq holds for each pair. Each candidate pair is
// tried on a fork of the current pairing; the pairing of the first complete
// match is adopted.
func (e *equaler) matchAll(n int, eq func(f *equaler, i, j int) bool) bool {
	used := make([]bool, n)
	var match func(i int, cur *equaler) bool
	match = func(i int, cur *equaler) bool {
		if i == n {
			e.adopt(cur)
			return true
		}
		for j := range n {
			if used[j] {
				continue
			}
			f := cur.fork()
			if !eq(f, i, j) {
				continue
			}
			used[j] = true
			if match(i+1, f) {
				return true
			}
			used[j] = false
		}
		return false
	}
	return match(0, e)
}
