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
	"maps"
	"slices"
	"strings"

	"cuelang.org/fstruct/errors"
)

// Bindings maps variable names to concrete simple values.
//
// The zero value is not usable; use NewBindings.
type Bindings struct {
	m map[string]SimpleValue
}

// NewBindings returns an empty set of bindings.
func NewBindings() *Bindings {
	return &Bindings{m: map[string]SimpleValue{}}
}

// Lookup reports a copy of the value bound to name.
func (b *Bindings) Lookup(name string) (SimpleValue, bool) {
	v, ok := b.m[name]
	if !ok {
		return nil, false
	}
	return v.concrete(), true
}

// Set binds name to a copy of the concrete value v. It panics if v is a
// variable.
func (b *Bindings) Set(name string, v SimpleValue) {
	if v.IsVariable() {
		panic(errors.Newf(errors.Invalid, nil,
			"cannot bind %q to variable %s", name, v))
	}
	b.m[name] = v.concrete()
}

// Delete removes the binding for name.
func (b *Bindings) Delete(name string) {
	delete(b.m, name)
}

// Len reports the number of bindings.
func (b *Bindings) Len() int { return len(b.m) }

// Names returns the bound variable names in sorted order.
func (b *Bindings) Names() []string {
	return slices.Sorted(maps.Keys(b.m))
}

// Clone returns a deep copy of b.
func (b *Bindings) Clone() *Bindings {
	c := NewBindings()
	for name, v := range b.m {
		c.m[name] = v.concrete()
	}
	return c
}

// Replace replaces the contents of b with those of other.
func (b *Bindings) Replace(other *Bindings) {
	clear(b.m)
	for name, v := range other.m {
		b.m[name] = v
	}
}

func (b *Bindings) String() string {
	var s strings.Builder
	s.WriteString("{")
	for i, name := range b.Names() {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(name)
		s.WriteString(": ")
		s.WriteString(b.m[name].String())
	}
	s.WriteString("}")
	return s.String()
}
