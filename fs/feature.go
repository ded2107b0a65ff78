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
	"golang.org/x/text/unicode/norm"
)

// MaxSymbols is the maximum number of symbols a SymbolicFeature may declare.
const MaxSymbols = 64

// normID returns the canonical form of an identifier. Identifiers of
// phonological symbols often carry diacritics, which may be encoded either
// precomposed or decomposed.
func normID(id string) string {
	return norm.NFC.String(id)
}

// A Feature is an attribute of a feature structure. A Feature is one of
// *SymbolicFeature, *StringFeature or *ComplexFeature.
type Feature interface {
	// ID reports the identifier of the feature.
	ID() string

	// Description reports a human-readable description.
	Description() string

	// Default reports the default filler of the feature, or nil.
	Default() Value

	// SetDefault sets the default filler of the feature. The value is frozen.
	SetDefault(v Value)

	// Freeze makes the feature immutable.
	Freeze()

	// IsFrozen reports whether the feature is immutable.
	IsFrozen() bool

	// accepts reports whether v, which must be dereferenced, is a valid
	// filler of the feature.
	accepts(v Value) bool

	base() *featureBase
}

type featureBase struct {
	id     string
	desc   string
	def    Value
	frozen bool
}

func (f *featureBase) ID() string          { return f.id }
func (f *featureBase) Description() string { return f.desc }
func (f *featureBase) Default() Value      { return f.def }
func (f *featureBase) IsFrozen() bool      { return f.frozen }
func (f *featureBase) String() string      { return f.id }
func (f *featureBase) base() *featureBase  { return f }

// SetDescription sets a human-readable description.
func (f *featureBase) SetDescription(s string) {
	f.checkMutable()
	f.desc = s
}

func (f *featureBase) checkMutable() {
	if f.frozen {
		panic(errors.Newf(errors.Frozen, []string{f.id}, "feature %q is frozen", f.id))
	}
}

func setDefault(f Feature, v Value) {
	b := f.base()
	b.checkMutable()
	if v != nil {
		v = v.deref()
		if !f.accepts(v) {
			panic(errors.Newf(errors.Invalid, []string{b.id},
				"%s is not a valid filler of feature %q", v, b.id))
		}
		v.Freeze()
	}
	b.def = v
}

func freezeFeature(b *featureBase) {
	if b.frozen {
		return
	}
	b.frozen = true
	if b.def != nil {
		b.def.Freeze()
	}
}

// A StringFeature is a feature whose fillers are sets of strings.
type StringFeature struct {
	featureBase
}

// NewStringFeature creates a StringFeature with the given identifier.
func NewStringFeature(id string) *StringFeature {
	return &StringFeature{featureBase{id: normID(id)}}
}

func (f *StringFeature) SetDefault(v Value) { setDefault(f, v) }
func (f *StringFeature) Freeze()            { freezeFeature(&f.featureBase) }

func (f *StringFeature) accepts(v Value) bool {
	_, ok := v.(*StringValue)
	return ok
}

// A ComplexFeature is a feature whose fillers are feature structures.
type ComplexFeature struct {
	featureBase
}

// NewComplexFeature creates a ComplexFeature with the given identifier.
func NewComplexFeature(id string) *ComplexFeature {
	return &ComplexFeature{featureBase{id: normID(id)}}
}

func (f *ComplexFeature) SetDefault(v Value) { setDefault(f, v) }
func (f *ComplexFeature) Freeze()            { freezeFeature(&f.featureBase) }

func (f *ComplexFeature) accepts(v Value) bool {
	_, ok := v.(*Struct)
	return ok
}

// A SymbolicFeature is a feature whose fillers are sets of symbols drawn from
// a finite, ordered set of possible symbols.
type SymbolicFeature struct {
	featureBase
	symbols []*Symbol
	byID    map[string]*Symbol
}

// NewSymbolicFeature creates a SymbolicFeature with the given identifier and
// possible symbols.
func NewSymbolicFeature(id string, symbols ...string) *SymbolicFeature {
	f := &SymbolicFeature{
		featureBase: featureBase{id: normID(id)},
		byID:        map[string]*Symbol{},
	}
	for _, s := range symbols {
		f.AddSymbol(s)
	}
	return f
}

// AddSymbol adds a possible symbol to f. It panics if f is frozen, if f
// already has a symbol with the same identifier, or if f already has
// MaxSymbols symbols.
func (f *SymbolicFeature) AddSymbol(id string) *Symbol {
	f.checkMutable()
	id = normID(id)
	if _, ok := f.byID[id]; ok {
		panic(errors.Newf(errors.Duplicate, []string{f.id},
			"duplicate symbol %q", id))
	}
	if len(f.symbols) == MaxSymbols {
		panic(errors.Newf(errors.Invalid, []string{f.id},
			"feature %q has more than %d symbols", f.id, MaxSymbols))
	}
	s := &Symbol{id: id, index: len(f.symbols), feature: f}
	f.symbols = append(f.symbols, s)
	f.byID[id] = s
	return s
}

// Symbol reports the symbol of f with the given identifier.
func (f *SymbolicFeature) Symbol(id string) (*Symbol, bool) {
	s, ok := f.byID[normID(id)]
	return s, ok
}

// Symbols returns the possible symbols of f in declaration order.
func (f *SymbolicFeature) Symbols() []*Symbol {
	return append([]*Symbol(nil), f.symbols...)
}

// Len reports the number of possible symbols of f.
func (f *SymbolicFeature) Len() int { return len(f.symbols) }

func (f *SymbolicFeature) SetDefault(v Value) { setDefault(f, v) }

// Freeze makes f and its symbols immutable.
func (f *SymbolicFeature) Freeze() {
	freezeFeature(&f.featureBase)
	for _, s := range f.symbols {
		s.frozen = true
	}
}

// mask returns the set of all possible symbols of f.
func (f *SymbolicFeature) mask() uint64 {
	if len(f.symbols) == MaxSymbols {
		return ^uint64(0)
	}
	return 1<<uint(len(f.symbols)) - 1
}

func (f *SymbolicFeature) accepts(v Value) bool {
	x, ok := v.(*SymbolValue)
	return ok && x.feature == f
}

// A Symbol is an atomic value of exactly one SymbolicFeature.
type Symbol struct {
	id      string
	desc    string
	index   int
	feature *SymbolicFeature
	frozen  bool
}

func (s *Symbol) ID() string                { return s.id }
func (s *Symbol) Description() string       { return s.desc }
func (s *Symbol) Feature() *SymbolicFeature { return s.feature }
func (s *Symbol) IsFrozen() bool            { return s.frozen }
func (s *Symbol) String() string            { return s.id }

// Index reports the position of s among the possible symbols of its feature.
func (s *Symbol) Index() int { return s.index }

// SetDescription sets a human-readable description.
func (s *Symbol) SetDescription(desc string) {
	if s.frozen {
		panic(errors.Newf(errors.Frozen, []string{s.feature.id, s.id},
			"symbol %q is frozen", s.id))
	}
	s.desc = desc
}

func (s *Symbol) bit() uint64 { return 1 << uint(s.index) }
