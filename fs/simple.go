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

// A SimpleValue is a leaf of a feature structure: a *StringValue or a
// *SymbolValue.
//
// A simple value is either concrete, denoting a set of fillers, or a
// variable. A variable stands for the value bound to its name during
// unification. A variable that does not agree stands for the complement of
// its binding.
type SimpleValue interface {
	Value

	// IsVariable reports whether the value is a variable.
	IsVariable() bool

	// VariableName reports the name of a variable, or "" for a concrete
	// value.
	VariableName() string

	// Agree reports whether a variable stands for its binding, as opposed
	// to the complement of its binding. It is true for concrete values.
	Agree() bool

	// Negation returns the complement of a concrete value. It fails for
	// variables and if the complement is empty.
	Negation() (SimpleValue, bool)

	// IsEmpty reports whether a concrete value denotes the empty set.
	IsEmpty() bool

	// sameDomain reports whether y, which must have the same kind, draws
	// its fillers from the same domain.
	sameDomain(y SimpleValue) bool

	// concrete returns a mutable concrete copy of the set denoted by the
	// value, ignoring its variable.
	concrete() SimpleValue

	// complement returns a mutable concrete copy of the complement of the
	// set denoted by the value.
	complement() SimpleValue

	// meet intersects the set of the value with that of y and reports
	// whether the result is non-empty. The value becomes concrete.
	meet(y SimpleValue) bool

	// join unions the set of the value with that of y.
	join(y SimpleValue)

	// subtract removes the set of y from the value and reports whether the
	// result is non-empty.
	subtract(y SimpleValue) bool

	// overlaps reports whether the sets of the value and y intersect.
	overlaps(y SimpleValue) bool

	// assign sets the value to the concrete set denoted by y.
	assign(y SimpleValue)

	// forwardTo marks the value as merged into x.
	forwardTo(x SimpleValue)

	// equalSet reports whether the value and y denote the same set and
	// variable.
	equalSet(y SimpleValue) bool

	hashSet() uint64
}

// variable holds the variable state shared by simple values.
type variable struct {
	name  string
	agree bool
}

func (v *variable) IsVariable() bool     { return v.name != "" }
func (v *variable) VariableName() string { return v.name }

func (v *variable) Agree() bool {
	return v.name == "" || v.agree
}

func (v *variable) sameVariable(w *variable) bool {
	return v.name == w.name && (v.name == "" || v.agree == w.agree)
}

func checkVariableName(name string) {
	if name == "" {
		panic(errors.Newf(errors.Invalid, nil, "empty variable name"))
	}
}

// simpleState holds the mutability and hashing state shared by simple
// values.
type simpleState struct {
	frozen   bool
	hashed   bool
	hashCode uint64
}

func (s *simpleState) checkMutable(v Value) {
	if s.frozen {
		panic(frozenError(v))
	}
}

func checkConcrete(v SimpleValue) {
	if v.IsVariable() {
		panic(errors.Newf(errors.Invalid, nil,
			"set operation on variable %s", v))
	}
}

