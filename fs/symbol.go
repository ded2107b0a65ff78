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
	"encoding/binary"
	"math/bits"
	"strings"

	"cuelang.org/fstruct/errors"
	"github.com/cespare/xxhash/v2"
)

// A SymbolValue is a set of symbols of a single SymbolicFeature. As the
// domain is finite, negated sets are stored as their complement.
type SymbolValue struct {
	forward *SymbolValue
	variable
	simpleState

	feature *SymbolicFeature
	set     uint64 // bit i is set if feature.symbols[i] is a member
}

// NewSymbolValue returns the set of the given symbols. It panics if no
// symbols are given or if they belong to different features.
func NewSymbolValue(symbols ...*Symbol) *SymbolValue {
	if len(symbols) == 0 {
		panic(errors.Newf(errors.Invalid, nil, "symbol value without symbols"))
	}
	return NewSymbolSet(symbols[0].feature, symbols...)
}

// NewNotSymbolValue returns the set of all symbols of the feature of the
// given symbols, except those symbols.
func NewNotSymbolValue(symbols ...*Symbol) *SymbolValue {
	x := NewSymbolValue(symbols...)
	x.set = x.feature.mask() &^ x.set
	return x
}

// NewSymbolSet returns the set of the given symbols of f, which may be
// empty. It panics if a symbol does not belong to f.
func NewSymbolSet(f *SymbolicFeature, symbols ...*Symbol) *SymbolValue {
	x := &SymbolValue{feature: f}
	for _, s := range symbols {
		if s.feature != f {
			panic(errors.Newf(errors.Invalid, []string{f.id},
				"symbol %q does not belong to feature %q", s.id, f.id))
		}
		x.set |= s.bit()
	}
	return x
}

// AnySymbol returns the set of all symbols of f.
func AnySymbol(f *SymbolicFeature) *SymbolValue {
	return &SymbolValue{feature: f, set: f.mask()}
}

// NewSymbolVariable returns a variable ranging over the symbols of f.
func NewSymbolVariable(f *SymbolicFeature, name string, agree bool) *SymbolValue {
	checkVariableName(name)
	return &SymbolValue{feature: f, variable: variable{name, agree}}
}

func (x *SymbolValue) Kind() Kind   { return SymbolKind }
func (x *SymbolValue) deref() Value { return x.Deref() }

// Deref returns the representative node of x.
func (x *SymbolValue) Deref() *SymbolValue {
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

func (x *SymbolValue) IsVariable() bool     { return x.Deref().variable.IsVariable() }
func (x *SymbolValue) VariableName() string { return x.Deref().name }
func (x *SymbolValue) Agree() bool          { return x.Deref().variable.Agree() }

// Feature reports the feature whose symbols x ranges over.
func (x *SymbolValue) Feature() *SymbolicFeature { return x.Deref().feature }

// Symbols returns the members of x in declaration order.
func (x *SymbolValue) Symbols() []*Symbol {
	x = x.Deref()
	a := make([]*Symbol, 0, bits.OnesCount64(x.set))
	for set := x.set; set != 0; set &= set - 1 {
		a = append(a, x.feature.symbols[bits.TrailingZeros64(set)])
	}
	return a
}

// Contains reports whether s is a member of x.
func (x *SymbolValue) Contains(s *Symbol) bool {
	x = x.Deref()
	return s.feature == x.feature && x.set&s.bit() != 0
}

// Len reports the number of members of x.
func (x *SymbolValue) Len() int { return bits.OnesCount64(x.Deref().set) }

// IsAny reports whether x contains all symbols of its feature.
func (x *SymbolValue) IsAny() bool {
	x = x.Deref()
	return x.name == "" && x.set == x.feature.mask()
}

func (x *SymbolValue) IsEmpty() bool {
	x = x.Deref()
	return x.name == "" && x.set == 0
}

// Negation returns the complement of x.
func (x *SymbolValue) Negation() (SimpleValue, bool) {
	x = x.Deref()
	if x.IsVariable() {
		return nil, false
	}
	c := x.complement().(*SymbolValue)
	if c.set == 0 {
		return nil, false
	}
	return c, true
}

// effective returns the set of x, complemented if not is set.
func (x *SymbolValue) effective(not bool) uint64 {
	if not {
		return x.feature.mask() &^ x.set
	}
	return x.set
}

func (x *SymbolValue) checkOperand(y *SymbolValue) {
	checkConcrete(x)
	checkConcrete(y)
	if x.feature != y.feature {
		panic(errors.Newf(errors.Invalid, []string{x.feature.id},
			"symbols of features %q and %q cannot be combined",
			x.feature.id, y.feature.id))
	}
}

// Overlaps reports whether x and y have a symbol in common. The notX and
// notY flags negate x and y, respectively, before the test.
func (x *SymbolValue) Overlaps(notX bool, y *SymbolValue, notY bool) bool {
	x, y = x.Deref(), y.Deref()
	x.checkOperand(y)
	return x.effective(notX)&y.effective(notY) != 0
}

// IntersectWith sets x to the intersection of x and y and reports whether
// the result is non-empty. The notX and notY flags negate x and y,
// respectively, before the operation.
func (x *SymbolValue) IntersectWith(notX bool, y *SymbolValue, notY bool) bool {
	x, y = x.Deref(), y.Deref()
	x.checkMutable(x)
	x.checkOperand(y)
	x.set = x.effective(notX) & y.effective(notY)
	return x.set != 0
}

// UnionWith sets x to the union of x and y and reports whether the result
// is non-empty.
func (x *SymbolValue) UnionWith(notX bool, y *SymbolValue, notY bool) bool {
	x, y = x.Deref(), y.Deref()
	x.checkMutable(x)
	x.checkOperand(y)
	x.set = x.effective(notX) | y.effective(notY)
	return x.set != 0
}

// ExceptWith removes the symbols of y from x and reports whether the result
// is non-empty.
func (x *SymbolValue) ExceptWith(notX bool, y *SymbolValue, notY bool) bool {
	x, y = x.Deref(), y.Deref()
	x.checkMutable(x)
	x.checkOperand(y)
	x.set = x.effective(notX) &^ y.effective(notY)
	return x.set != 0
}

func (x *SymbolValue) sameDomain(y SimpleValue) bool {
	z, ok := y.(*SymbolValue)
	return ok && z.Deref().feature == x.feature
}

func (x *SymbolValue) concrete() SimpleValue {
	x = x.Deref()
	return &SymbolValue{feature: x.feature, set: x.set}
}

func (x *SymbolValue) complement() SimpleValue {
	x = x.Deref()
	return &SymbolValue{feature: x.feature, set: x.effective(true)}
}

func (x *SymbolValue) meet(y SimpleValue) bool {
	x.set &= y.(*SymbolValue).Deref().set
	x.variable = variable{}
	return x.set != 0
}

func (x *SymbolValue) join(y SimpleValue) {
	x.set |= y.(*SymbolValue).Deref().set
}

func (x *SymbolValue) subtract(y SimpleValue) bool {
	x.set &^= y.(*SymbolValue).Deref().set
	return x.set != 0
}

func (x *SymbolValue) overlaps(y SimpleValue) bool {
	return x.set&y.(*SymbolValue).Deref().set != 0
}

func (x *SymbolValue) assign(y SimpleValue) {
	x.set = y.(*SymbolValue).Deref().set
	x.variable = variable{}
}

func (x *SymbolValue) forwardTo(y SimpleValue) {
	x.forward = y.(*SymbolValue)
}

func (x *SymbolValue) equalSet(y SimpleValue) bool {
	z, ok := y.(*SymbolValue)
	if !ok {
		return false
	}
	z = z.Deref()
	return x.feature == z.feature && x.set == z.set &&
		x.variable.sameVariable(&z.variable)
}

func (x *SymbolValue) hashSet() uint64 {
	d := xxhash.New()
	d.WriteString("symbol\x00")
	d.WriteString(x.feature.id)
	d.WriteString("\x00")
	writeVariable(d, &x.variable)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x.set)
	d.Write(buf[:])
	return d.Sum64()
}

func (x *SymbolValue) clone(c *cloner) Value {
	y := &SymbolValue{
		variable: x.variable,
		feature:  x.feature,
		set:      x.set,
	}
	c.copies[x] = y
	return y
}

// Freeze makes x immutable.
func (x *SymbolValue) Freeze() { x.Deref().frozen = true }

func (x *SymbolValue) freeze(f *freezer) { x.frozen = true }

func (x *SymbolValue) IsFrozen() bool { return x.Deref().frozen }

func (x *SymbolValue) FrozenHash() uint64 {
	x = x.Deref()
	if !x.frozen {
		panic(notFrozenError(x))
	}
	if !x.hashed {
		x.hashCode = x.hashSet()
		x.hashed = true
	}
	return x.hashCode
}

func (x *SymbolValue) String() string {
	x = x.Deref()
	if s, ok := formatVariable(&x.variable); ok {
		return s
	}
	syms := x.Symbols()
	if len(syms) == 1 {
		return syms[0].id
	}
	var b strings.Builder
	b.WriteString("{")
	for i, s := range syms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.id)
	}
	b.WriteString("}")
	return b.String()
}
