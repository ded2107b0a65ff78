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
	"fmt"

	"cuelang.org/fstruct/errors"
)

// A Kind indicates the type of a Value.
type Kind uint8

const (
	StructKind Kind = iota + 1
	StringKind
	SymbolKind
)

func (k Kind) String() string {
	switch k {
	case StructKind:
		return "struct"
	case StringKind:
		return "string"
	case SymbolKind:
		return "symbol"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Value is a node in a feature structure graph. It is one of *Struct,
// *StringValue or *SymbolValue.
//
// A node that was merged into another node during unification forwards to
// it. Only the representative node, as returned by Deref, is meaningful.
type Value interface {
	// Kind reports the type of the value.
	Kind() Kind

	// Freeze makes the value, and all values reachable from it, immutable.
	Freeze()

	// IsFrozen reports whether the value is immutable.
	IsFrozen() bool

	// FrozenHash reports a structural hash of a frozen value. Values that
	// are Equal have the same hash. It panics if the value is not frozen.
	FrozenHash() uint64

	String() string

	// deref returns the representative node of the value, compressing the
	// forwarding chain.
	deref() Value

	// clone creates a deep copy of the value. It must register the copy in
	// c before copying any children.
	clone(c *cloner) Value

	freeze(c *freezer)
}

// Deref returns the representative node of v.
// Deref is idempotent and returns nil for nil.
func Deref(v Value) Value {
	if v == nil {
		return nil
	}
	return v.deref()
}

// Clone returns a deep copy of v that is not frozen. Nodes that are shared
// within v are shared in the copy.
func Clone(v Value) Value {
	if v == nil {
		return nil
	}
	return newCloner().value(v)
}

// cloner copies graphs of values. It maps original nodes to their copies, so
// that two references to the same original node refer to the same copy.
type cloner struct {
	copies map[Value]Value
}

func newCloner() *cloner {
	return &cloner{copies: map[Value]Value{}}
}

func (c *cloner) value(v Value) Value {
	v = v.deref()
	if x, ok := c.copies[v]; ok {
		return x.deref()
	}
	return v.clone(c)
}

func (c *cloner) structValue(x *Struct) *Struct {
	return c.value(x).(*Struct)
}

func (c *cloner) disjunction(d *Disjunction) *Disjunction {
	alts := make([]*Struct, len(d.alts))
	for i, a := range d.alts {
		alts[i] = c.structValue(a)
	}
	return &Disjunction{alts: alts}
}

// frozenError is raised when a frozen value is mutated.
func frozenError(v Value) errors.Error {
	return errors.Newf(errors.Frozen, nil, "cannot modify frozen %s value", v.Kind())
}

func notFrozenError(v Value) errors.Error {
	return errors.Newf(errors.NotFrozen, nil, "hash of unfrozen %s value", v.Kind())
}
