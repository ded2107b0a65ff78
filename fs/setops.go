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

// PriorityUnion adds the features of other to x. Where both have a struct
// for a feature, the structs are combined recursively; otherwise the value
// of other replaces that of x. It panics if x is frozen.
func (x *Struct) PriorityUnion(other *Struct) {
	p := setOp{
		cloner: &cloner{copies: map[Value]Value{}},
		seen:   map[[2]*Struct]bool{},
	}
	p.priorityUnion(x.Deref(), other.Deref())
}

// Union returns the generalization of x and other: the most specific struct
// that is consistent with both. Features present in only one of them are
// dropped, simple values are joined, and disjunctions are retained only if
// they occur in both.
func (x *Struct) Union(other *Struct) *Struct {
	out := x.Clone()
	p := setOp{seen: map[[2]*Struct]bool{}}
	p.union(out, other.Deref())
	return out
}

// Subtract returns a copy of x from which the information in other has been
// removed. Simple values lose the members of the corresponding values of
// other; features whose values become empty are dropped.
func (x *Struct) Subtract(other *Struct) *Struct {
	out := x.Clone()
	p := setOp{seen: map[[2]*Struct]bool{}}
	p.subtract(out, other.Deref())
	return out
}

// ReplaceVariables replaces each variable reachable from x that is bound in
// b by the value it stands for. It panics if a variable to be replaced is
// frozen.
func (x *Struct) ReplaceVariables(b *Bindings) {
	walk(x.Deref(), true, func(v Value) bool {
		s, ok := v.(SimpleValue)
		if !ok || !s.IsVariable() {
			return true
		}
		bound, ok := b.Lookup(s.VariableName())
		if !ok {
			return true
		}
		if s.IsFrozen() {
			panic(frozenError(s))
		}
		bound, ok = rebase(bound, s)
		if !ok {
			return true
		}
		if s.Agree() {
			s.assign(bound)
		} else {
			s.assign(bound.complement())
		}
		return true
	})
}

// RemoveVariables removes all features whose value is a variable from x and
// the structs reachable from it. It panics if such a struct is frozen.
func (x *Struct) RemoveVariables() {
	walk(x.Deref(), true, func(v Value) bool {
		s, ok := v.(*Struct)
		if !ok {
			return true
		}
		var keep []arc
		for _, a := range s.arcs {
			if sv, ok := a.value.deref().(SimpleValue); ok && sv.IsVariable() {
				continue
			}
			keep = append(keep, a)
		}
		if len(keep) != len(s.arcs) {
			s.checkMutable()
			s.arcs = keep
		}
		return true
	})
}

type setOp struct {
	cloner *cloner
	seen   map[[2]*Struct]bool
}

func (p *setOp) visit(x, y *Struct) bool {
	key := [2]*Struct{x, y}
	if p.seen[key] {
		return false
	}
	p.seen[key] = true
	return true
}

func (p *setOp) priorityUnion(x, y *Struct) {
	if !p.visit(x, y) {
		return
	}
	x.checkMutable()
	for _, a := range y.arcs {
		yv := a.value.deref()
		if xv, ok := x.get(a.feature); ok {
			xs, xok := xv.(*Struct)
			ys, yok := yv.(*Struct)
			if xok && yok && !xs.frozen {
				p.priorityUnion(xs, ys)
				continue
			}
		}
		x.set(a.feature, p.cloner.value(yv))
	}
}

func (p *setOp) union(x, y *Struct) {
	if !p.visit(x, y) {
		return
	}
	var keep []arc
	for i, a := range x.arcs {
		xv := x.arcValue(i)
		yv, ok := y.get(a.feature)
		if !ok || xv.Kind() != yv.Kind() {
			continue
		}
		switch xv := xv.(type) {
		case *Struct:
			p.union(xv, yv.(*Struct))
		case SimpleValue:
			ys := yv.(SimpleValue)
			switch {
			case xv.IsVariable() || ys.IsVariable():
				if !xv.equalSet(ys) {
					continue
				}
			case !xv.sameDomain(ys):
				continue
			default:
				xv.join(ys)
			}
		}
		keep = append(keep, arc{a.feature, xv})
	}
	x.arcs = keep

	var ds []*Disjunction
	for _, d := range x.disjunctions {
		for _, e := range y.disjunctions {
			if d.Equals(e) {
				ds = append(ds, d)
				break
			}
		}
	}
	x.disjunctions = ds
}

func (p *setOp) subtract(x, y *Struct) {
	if !p.visit(x, y) {
		return
	}
	var keep []arc
	for i, a := range x.arcs {
		xv := x.arcValue(i)
		yv, ok := y.get(a.feature)
		if ok && xv.Kind() == yv.Kind() {
			switch xv := xv.(type) {
			case *Struct:
				p.subtract(xv, yv.(*Struct))
				if xv.IsEmpty() {
					continue
				}
			case SimpleValue:
				ys := yv.(SimpleValue)
				switch {
				case xv.IsVariable() || ys.IsVariable():
					if xv.equalSet(ys) {
						continue
					}
				case xv.sameDomain(ys):
					if !xv.subtract(ys) {
						continue
					}
				}
			}
		}
		keep = append(keep, arc{a.feature, xv})
	}
	x.arcs = keep
}
