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
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mpvl/unique"
)

// A StringValue is a set of strings. As the domain of strings is unbounded,
// a negated set is represented as the excluded strings together with a not
// marker. AnyString, the negation of the empty set, matches every string.
type StringValue struct {
	forward *StringValue
	variable
	simpleState

	values []string // sorted, no duplicates
	not    bool
}

// NewStringValue returns the set of the given strings.
func NewStringValue(values ...string) *StringValue {
	return &StringValue{values: sortedStrings(values)}
}

// NewNotStringValue returns the set of all strings except the given ones.
func NewNotStringValue(values ...string) *StringValue {
	return &StringValue{values: sortedStrings(values), not: true}
}

// AnyString returns the set of all strings.
func AnyString() *StringValue {
	return &StringValue{not: true}
}

// NewStringVariable returns a string variable with the given name.
func NewStringVariable(name string, agree bool) *StringValue {
	checkVariableName(name)
	return &StringValue{variable: variable{name, agree}}
}

func sortedStrings(a []string) []string {
	if len(a) == 0 {
		return nil
	}
	b := slices.Clone(a)
	unique.Strings(&b)
	return b
}

func (x *StringValue) Kind() Kind   { return StringKind }
func (x *StringValue) deref() Value { return x.Deref() }

// Deref returns the representative node of x.
func (x *StringValue) Deref() *StringValue {
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

func (x *StringValue) IsVariable() bool     { return x.Deref().variable.IsVariable() }
func (x *StringValue) VariableName() string { return x.Deref().name }
func (x *StringValue) Agree() bool          { return x.Deref().variable.Agree() }

// Strings returns the strings of x in sorted order. If x is negated, these
// are the excluded strings.
func (x *StringValue) Strings() []string {
	return slices.Clone(x.Deref().values)
}

// IsNot reports whether x denotes the complement of its strings.
func (x *StringValue) IsNot() bool { return x.Deref().not }

// IsAny reports whether x matches every string.
func (x *StringValue) IsAny() bool {
	x = x.Deref()
	return x.name == "" && x.not && len(x.values) == 0
}

// Contains reports whether s is a member of the concrete set x.
func (x *StringValue) Contains(s string) bool {
	x = x.Deref()
	_, found := slices.BinarySearch(x.values, s)
	return found != x.not
}

func (x *StringValue) IsEmpty() bool {
	x = x.Deref()
	return x.name == "" && x.isEmptySet()
}

func (x *StringValue) isEmptySet() bool {
	return !x.not && len(x.values) == 0
}

// Negation returns the complement of x.
func (x *StringValue) Negation() (SimpleValue, bool) {
	x = x.Deref()
	if x.IsVariable() {
		return nil, false
	}
	c := x.complement().(*StringValue)
	if c.isEmptySet() {
		return nil, false
	}
	return c, true
}

// Overlaps reports whether x and y have a string in common. The notX and
// notY flags negate x and y, respectively, before the test.
func (x *StringValue) Overlaps(notX bool, y *StringValue, notY bool) bool {
	x, y = x.Deref(), y.Deref()
	checkConcrete(x)
	checkConcrete(y)
	return overlapStrings(x.values, x.not != notX, y.values, y.not != notY)
}

// IntersectWith sets x to the intersection of x and y and reports whether
// the result is non-empty. The notX and notY flags negate x and y,
// respectively, before the operation.
func (x *StringValue) IntersectWith(notX bool, y *StringValue, notY bool) bool {
	x, y = x.Deref(), y.Deref()
	x.checkMutable(x)
	checkConcrete(x)
	checkConcrete(y)
	x.values, x.not = intersectStrings(x.values, x.not != notX, y.values, y.not != notY)
	return !x.isEmptySet()
}

// UnionWith sets x to the union of x and y and reports whether the result
// is non-empty.
func (x *StringValue) UnionWith(notX bool, y *StringValue, notY bool) bool {
	x, y = x.Deref(), y.Deref()
	x.checkMutable(x)
	checkConcrete(x)
	checkConcrete(y)
	x.values, x.not = unionStrings(x.values, x.not != notX, y.values, y.not != notY)
	return !x.isEmptySet()
}

// ExceptWith removes the strings of y from x and reports whether the result
// is non-empty.
func (x *StringValue) ExceptWith(notX bool, y *StringValue, notY bool) bool {
	x, y = x.Deref(), y.Deref()
	x.checkMutable(x)
	checkConcrete(x)
	checkConcrete(y)
	x.values, x.not = intersectStrings(x.values, x.not != notX, y.values, y.not == notY)
	return !x.isEmptySet()
}

func (x *StringValue) sameDomain(y SimpleValue) bool {
	_, ok := y.(*StringValue)
	return ok
}

func (x *StringValue) concrete() SimpleValue {
	x = x.Deref()
	return &StringValue{values: x.values, not: x.not}
}

func (x *StringValue) complement() SimpleValue {
	x = x.Deref()
	return &StringValue{values: x.values, not: !x.not}
}

func (x *StringValue) meet(y SimpleValue) bool {
	z := y.(*StringValue).Deref()
	x.values, x.not = intersectStrings(x.values, x.not, z.values, z.not)
	x.variable = variable{}
	return !x.isEmptySet()
}

func (x *StringValue) join(y SimpleValue) {
	z := y.(*StringValue).Deref()
	x.values, x.not = unionStrings(x.values, x.not, z.values, z.not)
}

func (x *StringValue) subtract(y SimpleValue) bool {
	z := y.(*StringValue).Deref()
	x.values, x.not = intersectStrings(x.values, x.not, z.values, !z.not)
	return !x.isEmptySet()
}

func (x *StringValue) overlaps(y SimpleValue) bool {
	z := y.(*StringValue).Deref()
	return overlapStrings(x.values, x.not, z.values, z.not)
}

func (x *StringValue) assign(y SimpleValue) {
	z := y.(*StringValue).Deref()
	x.values, x.not = z.values, z.not
	x.variable = variable{}
}

func (x *StringValue) forwardTo(y SimpleValue) {
	x.forward = y.(*StringValue)
}

func (x *StringValue) equalSet(y SimpleValue) bool {
	z, ok := y.(*StringValue)
	if !ok {
		return false
	}
	z = z.Deref()
	return x.variable.sameVariable(&z.variable) &&
		x.not == z.not && slices.Equal(x.values, z.values)
}

func (x *StringValue) hashSet() uint64 {
	d := xxhash.New()
	d.WriteString("string\x00")
	writeVariable(d, &x.variable)
	if x.not {
		d.WriteString("!")
	}
	for _, s := range x.values {
		d.WriteString(s)
		d.WriteString("\x00")
	}
	return d.Sum64()
}

func (x *StringValue) clone(c *cloner) Value {
	y := &StringValue{
		variable: x.variable,
		values:   x.values,
		not:      x.not,
	}
	c.copies[x] = y
	return y
}

// Freeze makes x immutable.
func (x *StringValue) Freeze() { x.Deref().frozen = true }

func (x *StringValue) freeze(f *freezer) { x.frozen = true }

func (x *StringValue) IsFrozen() bool { return x.Deref().frozen }

func (x *StringValue) FrozenHash() uint64 {
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

func (x *StringValue) String() string {
	x = x.Deref()
	if s, ok := formatVariable(&x.variable); ok {
		return s
	}
	if x.not && len(x.values) == 0 {
		return "*"
	}
	var b strings.Builder
	if x.not {
		b.WriteString("!")
	}
	if len(x.values) == 1 {
		b.WriteString(strconv.Quote(x.values[0]))
		return b.String()
	}
	b.WriteString("{")
	for i, s := range x.values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(s))
	}
	b.WriteString("}")
	return b.String()
}

func formatVariable(v *variable) (string, bool) {
	switch {
	case v.name == "":
		return "", false
	case v.agree:
		return "?" + v.name, true
	default:
		return "!?" + v.name, true
	}
}

// The set operations below take two sorted sets, each of which may be
// negated, and return the resulting set together with its negation.
// Slices are never modified in place.

func intersectStrings(a []string, an bool, b []string, bn bool) ([]string, bool) {
	switch {
	case !an && !bn:
		return interStrings(a, b), false
	case !an && bn:
		return minusStrings(a, b), false
	case an && !bn:
		return minusStrings(b, a), false
	default:
		return joinStrings(a, b), true
	}
}

func unionStrings(a []string, an bool, b []string, bn bool) ([]string, bool) {
	switch {
	case !an && !bn:
		return joinStrings(a, b), false
	case !an && bn:
		return minusStrings(b, a), true
	case an && !bn:
		return minusStrings(a, b), true
	default:
		return interStrings(a, b), true
	}
}

func overlapStrings(a []string, an bool, b []string, bn bool) bool {
	switch {
	case !an && !bn:
		return len(interStrings(a, b)) > 0
	case !an && bn:
		return len(minusStrings(a, b)) > 0
	case an && !bn:
		return len(minusStrings(b, a)) > 0
	default:
		return true
	}
}

func interStrings(a, b []string) []string {
	var c []string
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch strings.Compare(a[i], b[j]) {
		case -1:
			i++
		case 1:
			j++
		default:
			c = append(c, a[i])
			i++
			j++
		}
	}
	return c
}

func minusStrings(a, b []string) []string {
	var c []string
	j := 0
	for _, s := range a {
		for j < len(b) && b[j] < s {
			j++
		}
		if j < len(b) && b[j] == s {
			continue
		}
		c = append(c, s)
	}
	return c
}

func joinStrings(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	c := make([]string, 0, len(a)+len(b))
	c = append(c, a...)
	c = append(c, b...)
	unique.Strings(&c)
	return c
}
