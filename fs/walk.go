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

// walk calls fn for each distinct node reachable from x in depth-first
// pre-order, starting with x itself. Alternatives of disjunctions are
// visited if alts is set. The walk stops when fn returns false.
func walk(x *Struct, alts bool, fn func(v Value) bool) {
	w := walker{
		alts:    alts,
		fn:      fn,
		visited: map[Value]bool{},
	}
	w.value(x)
}

type walker struct {
	alts    bool
	fn      func(v Value) bool
	visited map[Value]bool
	done    bool
}

func (w *walker) value(v Value) {
	v = v.deref()
	if w.done || w.visited[v] {
		return
	}
	w.visited[v] = true
	if !w.fn(v) {
		w.done = true
		return
	}
	x, ok := v.(*Struct)
	if !ok {
		return
	}
	for i := range x.arcs {
		w.value(x.arcs[i].value)
	}
	if !w.alts {
		return
	}
	for _, d := range x.disjunctions {
		for _, a := range d.alts {
			w.value(a)
		}
	}
}

// structsWithDisjunctions returns the structs that have disjunctions and are
// reachable from x through definite parts only.
func structsWithDisjunctions(x *Struct) []*Struct {
	var a []*Struct
	walk(x, false, func(v Value) bool {
		if s, ok := v.(*Struct); ok && len(s.disjunctions) > 0 {
			a = append(a, s)
		}
		return true
	})
	return a
}

// hasReentrancy reports whether any node is reachable from x by more than
// one path.
func hasReentrancy(x *Struct) bool {
	refs := map[Value]bool{}
	var visit func(v Value) bool
	visit = func(v Value) bool {
		v = v.deref()
		if refs[v] {
			return true
		}
		refs[v] = true
		s, ok := v.(*Struct)
		if !ok {
			return false
		}
		for _, a := range s.arcs {
			if visit(a.value) {
				return true
			}
		}
		for _, d := range s.disjunctions {
			for _, alt := range d.alts {
				if visit(alt) {
					return true
				}
			}
		}
		return false
	}
	return visit(x)
}
