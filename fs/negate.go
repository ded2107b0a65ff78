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

// Negation returns a struct that is consistent with exactly those structs
// that are inconsistent with x.
//
// The negation of [f1:v1, ..., fn:vn, D1, ..., Dm] is the disjunction
// ([f1:¬v1] || ... || [fn:¬vn] || ¬D1 || ... || ¬Dm). If there is only one
// alternative, the result is that alternative. Negation fails if x is empty,
// if x is cyclic, or if any of its simple values is a variable or has an
// empty complement.
func (x *Struct) Negation() (*Struct, bool) {
	n := negator{active: map[*Struct]bool{}}
	return n.structValue(x.Deref())
}

// Negation returns the unification of the negations of the alternatives
// of d.
func (d *Disjunction) Negation() (*Struct, bool) {
	n := negator{active: map[*Struct]bool{}}
	return n.disjunction(d)
}

type negator struct {
	active map[*Struct]bool
}

func (n *negator) structValue(x *Struct) (*Struct, bool) {
	if n.active[x] || x.IsEmpty() {
		return nil, false
	}
	n.active[x] = true
	defer delete(n.active, x)

	var alts []*Struct
	for _, a := range x.arcs {
		var v Value
		switch av := a.value.deref().(type) {
		case *Struct:
			s, ok := n.structValue(av)
			if !ok {
				return nil, false
			}
			v = s
		case SimpleValue:
			s, ok := av.Negation()
			if !ok {
				return nil, false
			}
			v = s
		}
		alts = append(alts, &Struct{arcs: []arc{{a.feature, v}}})
	}
	for _, d := range x.disjunctions {
		s, ok := n.disjunction(d)
		if !ok {
			return nil, false
		}
		alts = append(alts, s)
	}

	if len(alts) == 1 {
		return alts[0], true
	}
	return &Struct{disjunctions: []*Disjunction{{alts: alts}}}, true
}

func (n *negator) disjunction(d *Disjunction) (*Struct, bool) {
	var result *Struct
	for _, a := range d.alts {
		s, ok := n.structValue(a.Deref())
		if !ok {
			return nil, false
		}
		if result == nil {
			result = s
			continue
		}
		if !result.UnifyInPlace(s) {
			return nil, false
		}
	}
	return result.Deref(), true
}
