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
	"cuelang.org/fstruct/errors"
)

// A Disjunction is a set of at least two alternative structs, exactly one of
// which must hold. The order of alternatives is preserved.
type Disjunction struct {
	alts   []*Struct
	frozen bool
}

// NewDisjunction returns the disjunction of the given alternatives. It
// panics if fewer than two alternatives are given.
func NewDisjunction(alts ...*Struct) *Disjunction {
	if len(alts) < 2 {
		panic(errors.Newf(errors.Invalid, nil,
			"disjunction needs at least two alternatives, got %d", len(alts)))
	}
	d := &Disjunction{alts: make([]*Struct, len(alts))}
	for i, a := range alts {
		d.alts[i] = a.Deref()
	}
	return d
}

// Alternatives returns the alternatives of d.
func (d *Disjunction) Alternatives() []*Struct {
	a := make([]*Struct, len(d.alts))
	for i, x := range d.alts {
		a[i] = x.Deref()
	}
	return a
}

// Len reports the number of alternatives of d.
func (d *Disjunction) Len() int { return len(d.alts) }

// Clone returns a deep copy of d that is not frozen.
func (d *Disjunction) Clone() *Disjunction {
	return newCloner().disjunction(d)
}

// Freeze makes d and its alternatives immutable.
func (d *Disjunction) Freeze() {
	d.freeze(newFreezer())
}

func (d *Disjunction) freeze(f *freezer) {
	if d.frozen {
		return
	}
	d.frozen = true
	for i, a := range d.alts {
		a = a.Deref()
		d.alts[i] = a
		a.freeze(f)
	}
}

// IsFrozen reports whether d is immutable.
func (d *Disjunction) IsFrozen() bool { return d.frozen }

// FrozenHash reports a structural hash of d that does not depend on the
// order of its alternatives. It panics if d is not frozen.
func (d *Disjunction) FrozenHash() uint64 {
	if !d.frozen {
		panic(errors.Newf(errors.NotFrozen, nil, "hash of unfrozen disjunction"))
	}
	return newHasher().disjunction(d)
}

// Equals reports whether d and other have pairwise equal alternatives, in
// any order.
func (d *Disjunction) Equals(other *Disjunction) bool {
	return newEqualer().disjunctions(d, other)
}

func (d *Disjunction) String() string {
	p := newPrinter()
	for _, a := range d.alts {
		p.count(a)
	}
	p.disjunction(d)
	return p.String()
}
