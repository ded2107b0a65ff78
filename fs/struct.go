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
	"iter"

	"cuelang.org/fstruct/errors"
)

// An arc is a single entry of the definite part of a Struct.
type arc struct {
	feature Feature
	value   Value
}

// A Struct is a complex feature structure node. Its definite part maps
// features to values in insertion order. Its indefinite part is a list of
// disjunctions, each of which must be satisfied by exactly one of its
// alternatives.
type Struct struct {
	// forward is set if this node was merged into another node. Only
	// the node at the end of the chain is meaningful.
	forward *Struct

	arcs         []arc
	disjunctions []*Disjunction

	frozen   bool
	hashed   bool
	hashCode uint64
}

// NewStruct returns an empty Struct.
func NewStruct() *Struct {
	return &Struct{}
}

func (x *Struct) Kind() Kind   { return StructKind }
func (x *Struct) deref() Value { return x.Deref() }

// Deref returns the representative node of x.
func (x *Struct) Deref() *Struct {
	r := x
	for r.forward != nil {
		r = r.forward
	}
	for x != r {
		next := x.forward
		x.forward = r
		x = next
	}
	return r
}

// Clone returns a deep copy of x that is not frozen. Reentrancy within x is
// preserved.
func (x *Struct) Clone() *Struct {
	return newCloner().structValue(x)
}

func (x *Struct) clone(c *cloner) Value {
	y := &Struct{}
	c.copies[x] = y
	if len(x.arcs) > 0 {
		y.arcs = make([]arc, len(x.arcs))
		for i, a := range x.arcs {
			y.arcs[i] = arc{a.feature, c.value(a.value)}
		}
	}
	for _, d := range x.disjunctions {
		y.disjunctions = append(y.disjunctions, c.disjunction(d))
	}
	return y
}

func (x *Struct) index(f Feature) int {
	for i, a := range x.arcs {
		if a.feature == f {
			return i
		}
	}
	return -1
}

// arcValue returns the dereferenced value of arc i, storing it back to
// shorten future lookups.
func (x *Struct) arcValue(i int) Value {
	v := x.arcs[i].value.deref()
	if !x.frozen {
		x.arcs[i].value = v
	}
	return v
}

// get looks up f in x, which must be dereferenced.
func (x *Struct) get(f Feature) (Value, bool) {
	i := x.index(f)
	if i < 0 {
		return nil, false
	}
	return x.arcValue(i), true
}

// Value reports the value for feature f.
func (x *Struct) Value(f Feature) (Value, bool) {
	return x.Deref().get(f)
}

// LookupID reports the value for the feature with the given identifier.
func (x *Struct) LookupID(id string) (Value, bool) {
	x = x.Deref()
	id = normID(id)
	for i, a := range x.arcs {
		if a.feature.ID() == id {
			return x.arcValue(i), true
		}
	}
	return nil, false
}

// LookupPath reports the value at the given path of features, following
// nested structs.
func (x *Struct) LookupPath(path ...Feature) (Value, bool) {
	var v Value = x.Deref()
	for _, f := range path {
		s, ok := v.(*Struct)
		if !ok {
			return nil, false
		}
		if v, ok = s.get(f); !ok {
			return nil, false
		}
	}
	return v, true
}

// LookupIDPath reports the value at the given path of feature identifiers.
func (x *Struct) LookupIDPath(ids ...string) (Value, bool) {
	var v Value = x.Deref()
	for _, id := range ids {
		s, ok := v.(*Struct)
		if !ok {
			return nil, false
		}
		if v, ok = s.LookupID(id); !ok {
			return nil, false
		}
	}
	return v, true
}

// Has reports whether x has a value for f.
func (x *Struct) Has(f Feature) bool {
	return x.Deref().index(f) >= 0
}

// HasID reports whether x has a value for the feature with the given
// identifier.
func (x *Struct) HasID(id string) bool {
	_, ok := x.LookupID(id)
	return ok
}

// Features returns the features of the definite part of x in insertion
// order.
func (x *Struct) Features() []Feature {
	x = x.Deref()
	a := make([]Feature, len(x.arcs))
	for i, arc := range x.arcs {
		a[i] = arc.feature
	}
	return a
}

// All iterates over the definite part of x in insertion order.
func (x *Struct) All() iter.Seq2[Feature, Value] {
	return func(yield func(Feature, Value) bool) {
		x := x.Deref()
		for i := 0; i < len(x.arcs); i++ {
			if !yield(x.arcs[i].feature, x.arcValue(i)) {
				return
			}
		}
	}
}

// Len reports the number of features in the definite part of x.
func (x *Struct) Len() int { return len(x.Deref().arcs) }

// IsEmpty reports whether x has neither features nor disjunctions.
func (x *Struct) IsEmpty() bool {
	x = x.Deref()
	return len(x.arcs) == 0 && len(x.disjunctions) == 0
}

// Disjunctions returns the indefinite part of x.
func (x *Struct) Disjunctions() []*Disjunction {
	return append([]*Disjunction(nil), x.Deref().disjunctions...)
}

// Set sets the value of f to v. It panics if x is frozen or if v is not a
// valid filler of f.
func (x *Struct) Set(f Feature, v Value) {
	x = x.Deref()
	x.checkMutable()
	v = v.deref()
	if !f.accepts(v) {
		panic(errors.Newf(errors.Invalid, []string{f.ID()},
			"%s value is not a valid filler of feature %q", v.Kind(), f.ID()))
	}
	x.set(f, v)
}

func (x *Struct) set(f Feature, v Value) {
	if i := x.index(f); i >= 0 {
		x.arcs[i].value = v
		return
	}
	x.arcs = append(x.arcs, arc{f, v})
}

// SetPath sets the value at the given path, creating empty intermediate
// structs as needed.
func (x *Struct) SetPath(path []Feature, v Value) {
	if len(path) == 0 {
		panic(errors.Newf(errors.Invalid, nil, "empty path"))
	}
	s := x.Deref()
	for i, f := range path[:len(path)-1] {
		child, ok := s.get(f)
		if !ok {
			child = NewStruct()
			s.Set(f, child)
		}
		cs, ok := child.(*Struct)
		if !ok {
			panic(errors.Newf(errors.Invalid, pathIDs(path[:i+1]),
				"%s value is not a struct", child.Kind()))
		}
		s = cs
	}
	s.Set(path[len(path)-1], v)
}

// Delete removes f from x and reports whether it was present.
func (x *Struct) Delete(f Feature) bool {
	x = x.Deref()
	x.checkMutable()
	i := x.index(f)
	if i < 0 {
		return false
	}
	x.arcs = append(x.arcs[:i], x.arcs[i+1:]...)
	return true
}

// AddDisjunction adds d to the indefinite part of x.
func (x *Struct) AddDisjunction(d *Disjunction) {
	x = x.Deref()
	x.checkMutable()
	x.disjunctions = append(x.disjunctions, d)
}

// Clear removes all features and disjunctions from x.
func (x *Struct) Clear() {
	x = x.Deref()
	x.checkMutable()
	x.arcs = nil
	x.disjunctions = nil
}

// HasVariables reports whether any simple value reachable from x is a
// variable.
func (x *Struct) HasVariables() bool {
	found := false
	walk(x, true, func(v Value) bool {
		if s, ok := v.(SimpleValue); ok && s.IsVariable() {
			found = true
		}
		return !found
	})
	return found
}

// HasDisjunctions reports whether x, or any struct reachable from x, has a
// non-empty indefinite part.
func (x *Struct) HasDisjunctions() bool {
	found := false
	walk(x, false, func(v Value) bool {
		if s, ok := v.(*Struct); ok && len(s.disjunctions) > 0 {
			found = true
		}
		return !found
	})
	return found
}

func (x *Struct) checkMutable() {
	if x.frozen {
		panic(frozenError(x))
	}
}

// compact replaces forwarded values in the arcs and disjunctions of x by
// their representatives.
func (x *Struct) compact() {
	for i := range x.arcs {
		x.arcs[i].value = x.arcs[i].value.deref()
	}
	for _, d := range x.disjunctions {
		for i, a := range d.alts {
			d.alts[i] = a.Deref()
		}
	}
}

// compactGraph compacts all nodes reachable from x.
func compactGraph(x *Struct) {
	walk(x, true, func(v Value) bool {
		if s, ok := v.(*Struct); ok {
			s.compact()
		}
		return true
	})
}

// Freeze makes x and all values reachable from it immutable and computes
// its structural hash.
func (x *Struct) Freeze() {
	x = x.Deref()
	if x.frozen {
		return
	}
	x.freeze(newFreezer())
	x.hashCode = newHasher().value(x)
	x.hashed = true
}

func (x *Struct) freeze(f *freezer) {
	if x.frozen || f.seen[x] {
		return
	}
	f.seen[x] = true
	x.compact()
	x.frozen = true
	for _, a := range x.arcs {
		a.value.freeze(f)
	}
	for _, d := range x.disjunctions {
		d.freeze(f)
	}
}

// IsFrozen reports whether x is immutable.
func (x *Struct) IsFrozen() bool { return x.Deref().frozen }

// FrozenHash reports the structural hash of x. It panics if x is not frozen.
func (x *Struct) FrozenHash() uint64 {
	x = x.Deref()
	if !x.frozen {
		panic(notFrozenError(x))
	}
	if !x.hashed {
		x.hashCode = newHasher().value(x)
		x.hashed = true
	}
	return x.hashCode
}

func (x *Struct) String() string {
	return newPrinter().print(x)
}

func pathIDs(path []Feature) []string {
	ids := make([]string, len(path))
	for i, f := range path {
		ids[i] = f.ID()
	}
	return ids
}
