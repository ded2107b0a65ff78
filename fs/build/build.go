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

// Package build provides a fluent interface for constructing feature
// structures against a feature system.
//
//	s := build.New(sys).
//		Feature("voice").EqualTo("+").
//		Feature("place").Not().EqualTo("velar").
//		Or(
//			func(b *build.Builder) { b.Feature("nasal").EqualTo("+") },
//			func(b *build.Builder) { b.Feature("cont").EqualTo("-") },
//		).
//		Value()
//
// Referring to an unknown feature or symbol is a programming error and
// panics with an errors.Error of code NotFound.
package build

import (
	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
)

// A Builder adds features and disjunctions to a struct.
type Builder struct {
	sys  *fs.System
	root *fs.Struct // outermost struct, against which references resolve
	cur  *fs.Struct
	path []string
}

// New returns a Builder for a new struct whose features are looked up in
// sys.
func New(sys *fs.System) *Builder {
	root := fs.NewStruct()
	return &Builder{sys: sys, root: root, cur: root}
}

func (b *Builder) nested(s *fs.Struct, path []string) *Builder {
	return &Builder{sys: b.sys, root: b.root, cur: s, path: path}
}

// Feature starts the definition of the value of the feature with the given
// identifier.
func (b *Builder) Feature(id string) *FeatureBuilder {
	f, ok := b.sys.LookupFeature(id)
	if !ok {
		path := append(append([]string(nil), b.path...), id)
		panic(errors.Newf(errors.NotFound, path, "unknown feature %q", id))
	}
	return &FeatureBuilder{b: b, f: f}
}

// Or adds a disjunction of the structs built by each of the given functions.
// References made within an alternative resolve against the outermost
// struct.
func (b *Builder) Or(alts ...func(b *Builder)) *Builder {
	structs := make([]*fs.Struct, len(alts))
	for i, fn := range alts {
		structs[i] = fs.NewStruct()
		fn(b.nested(structs[i], b.path))
	}
	b.cur.AddDisjunction(fs.NewDisjunction(structs...))
	return b
}

// Value returns the struct being built.
func (b *Builder) Value() *fs.Struct {
	return b.root
}

// Frozen returns the struct being built after freezing it.
func (b *Builder) Frozen() *fs.Struct {
	b.root.Freeze()
	return b.root
}

// A FeatureBuilder defines the value of a single feature.
type FeatureBuilder struct {
	b   *Builder
	f   fs.Feature
	not bool
}

func (fb *FeatureBuilder) path() []string {
	return append(append([]string(nil), fb.b.path...), fb.f.ID())
}

func (fb *FeatureBuilder) set(v fs.Value) *Builder {
	fb.b.cur.Set(fb.f, v)
	return fb.b
}

// Not negates the value defined next.
func (fb *FeatureBuilder) Not() *FeatureBuilder {
	fb.not = !fb.not
	return fb
}

// EqualTo sets the feature to the given symbols or strings, depending on
// the type of the feature.
func (fb *FeatureBuilder) EqualTo(ids ...string) *Builder {
	switch f := fb.f.(type) {
	case *fs.SymbolicFeature:
		syms := make([]*fs.Symbol, len(ids))
		for i, id := range ids {
			s, ok := f.Symbol(id)
			if !ok {
				panic(errors.Newf(errors.NotFound, fb.path(),
					"unknown symbol %q of feature %q", id, f.ID()))
			}
			syms[i] = s
		}
		v := fs.NewSymbolSet(f, syms...)
		if fb.not && !v.IntersectWith(true, fs.AnySymbol(f), false) {
			panic(errors.Newf(errors.Invalid, fb.path(),
				"negation of all symbols of feature %q", f.ID()))
		}
		return fb.set(v)

	case *fs.StringFeature:
		if fb.not {
			return fb.set(fs.NewNotStringValue(ids...))
		}
		return fb.set(fs.NewStringValue(ids...))
	}
	panic(errors.Newf(errors.Invalid, fb.path(),
		"feature %q does not take symbols or strings", fb.f.ID()))
}

// EqualToAny sets the feature to its least specific value: all symbols, all
// strings, or an empty struct.
func (fb *FeatureBuilder) EqualToAny() *Builder {
	if fb.not {
		panic(errors.Newf(errors.Invalid, fb.path(), "negation of any value"))
	}
	switch f := fb.f.(type) {
	case *fs.SymbolicFeature:
		return fb.set(fs.AnySymbol(f))
	case *fs.StringFeature:
		return fb.set(fs.AnyString())
	}
	return fb.set(fs.NewStruct())
}

// EqualToVariable sets the feature to the variable with the given name. A
// negated variable stands for the complement of its binding.
func (fb *FeatureBuilder) EqualToVariable(name string) *Builder {
	switch f := fb.f.(type) {
	case *fs.SymbolicFeature:
		return fb.set(fs.NewSymbolVariable(f, name, !fb.not))
	case *fs.StringFeature:
		return fb.set(fs.NewStringVariable(name, !fb.not))
	}
	panic(errors.Newf(errors.Invalid, fb.path(),
		"complex feature %q cannot hold a variable", fb.f.ID()))
}

// EqualToStruct sets the feature to the struct built by fn.
func (fb *FeatureBuilder) EqualToStruct(fn func(b *Builder)) *Builder {
	if fb.not {
		panic(errors.Newf(errors.Invalid, fb.path(), "negation of struct"))
	}
	s := fs.NewStruct()
	fb.set(s)
	fn(fb.b.nested(s, fb.path()))
	return fb.b
}

// EqualToValue sets the feature to v. The value is used as is, not copied.
func (fb *FeatureBuilder) EqualToValue(v fs.Value) *Builder {
	if fb.not {
		sv, ok := v.(fs.SimpleValue)
		if !ok {
			panic(errors.Newf(errors.Invalid, fb.path(), "negation of struct"))
		}
		n, ok := sv.Negation()
		if !ok {
			panic(errors.Newf(errors.Invalid, fb.path(), "%v cannot be negated", v))
		}
		v = n
	}
	return fb.set(v)
}

// ReferringTo sets the feature to the value found at the given path of
// feature identifiers from the outermost struct, making the value shared.
func (fb *FeatureBuilder) ReferringTo(path ...string) *Builder {
	v, ok := fb.b.root.LookupIDPath(path...)
	if !ok {
		panic(errors.Newf(errors.NotFound, fb.path(),
			"reference to undefined path %v", path))
	}
	return fb.set(v)
}
