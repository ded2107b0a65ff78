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
	"slices"
)

// Disjunction resolution
//
// After the definite parts of two structs are unified, the disjunctions of
// the result are resolved against the definite part of the whole graph:
//
//   - Alternatives that are not consistent with the definite part of their
//     struct are dropped. A disjunction without alternatives fails the
//     unification. A disjunction with a single alternative is unified into
//     its struct. This is repeated until nothing collapses, as collapsing
//     may add information to shared nodes.
//
//   - If two or more disjunctions remain anywhere in the graph, each
//     alternative is tried as a hypothesis: it is unified into a copy of the
//     graph, after which the remaining disjunctions are resolved against the
//     copy. Alternatives whose hypothesis fails are dropped. With N
//     disjunctions considered jointly, the hypotheses are nested N-1 levels
//     deep. N increases until an alternative is dropped or all disjunctions
//     have been considered.
//
// Frozen structs with disjunctions are replaced by mutable copies first.

// resolve resolves the disjunctions of all structs reachable from root.
func (u *unifier) resolve(root *Struct) bool {
	u.thawDisjunctive(root.Deref())
	return u.resolveGraph(root, u.nwise)
}

// thawDisjunctive replaces the frozen structs reachable from x that have
// disjunctions with mutable copies. Frozen structs that share nodes with a
// copy are copied as well.
func (u *unifier) thawDisjunctive(x *Struct) {
	for {
		changed := false
		seen := map[*Struct]bool{}
		var visit func(x *Struct)
		visit = func(x *Struct) {
			x = x.Deref()
			if seen[x] || x.frozen {
				return
			}
			seen[x] = true
			for i := range x.arcs {
				s, ok := x.arcValue(i).(*Struct)
				if !ok {
					continue
				}
				if s.frozen {
					if c, ok := u.copies[s]; ok {
						s = c.(*Struct).Deref()
					} else if s.HasDisjunctions() || u.sharesCopies(s) {
						u.logf("thaw %v", s)
						s = u.thaw(s).(*Struct)
					} else {
						continue
					}
					x.arcs[i].value = s
					changed = true
				}
				visit(s)
			}
		}
		visit(x)
		if !changed {
			return
		}
	}
}

// sharesCopies reports whether a node reachable from the frozen struct x
// has been replaced by a mutable copy.
func (u *unifier) sharesCopies(x *Struct) bool {
	found := false
	walk(x, false, func(v Value) bool {
		_, found = u.copies[v]
		return !found
	})
	return found
}

// resolveGraph resolves the disjunctions reachable from root. Up to depth+1
// disjunctions are considered jointly; a negative depth means no bound.
func (u *unifier) resolveGraph(root *Struct, depth int) bool {
	u.nest++
	defer func() { u.nest-- }()

	for {
		if !u.pruneGraph(root) {
			return false
		}
		n := countDisjunctions(root.Deref())
		if depth == 0 || n < 2 {
			return true
		}
		limit := n - 1
		if depth > 0 {
			limit = min(depth, limit)
		}
		changed := false
		for k := 1; k <= limit && !changed; k++ {
			var ok bool
			ok, changed = u.nwiseCheck(root.Deref(), k)
			if !ok {
				return false
			}
		}
		if !changed {
			return true
		}
	}
}

func countDisjunctions(x *Struct) int {
	n := 0
	for _, s := range structsWithDisjunctions(x) {
		n += len(s.disjunctions)
	}
	return n
}

// pruneGraph prunes the disjunctions of all structs reachable from root
// until no disjunction collapses.
func (u *unifier) pruneGraph(root *Struct) bool {
	for {
		before := u.collapsed
		for _, n := range structsWithDisjunctions(root.Deref()) {
			n = n.Deref()
			if len(n.disjunctions) == 0 {
				continue
			}
			for {
				ok, changed := u.prune(n.Deref())
				if !ok {
					return false
				}
				if !changed {
					break
				}
			}
		}
		if u.collapsed == before {
			return true
		}
	}
}

// prune drops the alternatives of the disjunctions of x that are not
// consistent with its definite part and collapses disjunctions with a single
// remaining alternative. It reports whether any disjunction collapsed.
func (u *unifier) prune(x *Struct) (ok, changed bool) {
	u.assertf(!x.frozen, "pruning frozen struct")
	pending := x.disjunctions
	x.disjunctions = nil
	var kept []*Disjunction

	for i, d := range pending {
		var alts []*Struct
		for _, a := range d.alts {
			a = a.Deref()
			if u.definitelyUnifiable(x.Deref(), a) {
				alts = append(alts, a)
			} else {
				u.logf("drop alternative %v", a)
			}
		}

		switch len(alts) {
		case 0:
			u.logf("no alternatives left in disjunction %d", i)
			return false, false

		case 1:
			u.logf("collapse disjunction to %v", alts[0])
			u.collapsed++
			changed = true
			if !u.merge(x.Deref(), alts[0]) {
				return false, false
			}

		case len(d.alts):
			kept = append(kept, d)

		default:
			kept = append(kept, &Disjunction{alts: alts})
		}
	}

	x = x.Deref()
	x.disjunctions = append(kept, x.disjunctions...)
	return true, changed
}

// nwiseCheck tries each alternative of each disjunction reachable from root
// as a hypothesis, considering k+1 disjunctions jointly. It reports whether
// any alternative was dropped.
func (u *unifier) nwiseCheck(root *Struct, k int) (ok, changed bool) {
	for _, x := range structsWithDisjunctions(root) {
		for i := 0; i < len(x.Deref().disjunctions); i++ {
			x = x.Deref()
			d := x.disjunctions[i]

			var alts []*Struct
			for j, a := range d.alts {
				if u.hypothesis(root, x, i, j, k-1) {
					alts = append(alts, a.Deref())
				} else {
					u.logf("drop alternative %v of disjunction %d (%d-wise)", a, i, k+1)
				}
			}

			switch len(alts) {
			case 0:
				return false, false
			case len(d.alts):
				continue
			}
			// A single remaining alternative is collapsed by the next round of
			// pruning.
			x.disjunctions[i] = &Disjunction{alts: alts}
			changed = true
		}
	}
	return true, changed
}

// hypothesis reports whether the graph of root remains consistent if
// alternative j of disjunction i of x is chosen. It operates on a copy of
// the graph.
func (u *unifier) hypothesis(root, x *Struct, i, j, depth int) bool {
	savedBindings := u.bindings
	savedCopies := u.copies
	savedCollapsed := u.collapsed
	defer func() {
		u.bindings = savedBindings
		u.copies = savedCopies
		u.collapsed = savedCollapsed
	}()

	u.bindings = savedBindings.Clone()
	u.copies = map[Value]Value{}

	c := &cloner{copies: u.copies}
	h := c.structValue(root)
	hx := c.copies[x.Deref()].(*Struct)
	alt := hx.disjunctions[i].alts[j].Deref()
	hx.disjunctions = slices.Delete(slices.Clone(hx.disjunctions), i, i+1)

	u.logf("hypothesis %d.%d", i, j)
	return u.merge(hx, alt) && u.resolveGraph(h, depth)
}
