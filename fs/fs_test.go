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

package fs_test

import (
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"

	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
)

// phonology is a small feature system used throughout the tests.
type phonology struct {
	*fs.System

	voice, place, nasal, cont *fs.SymbolicFeature
	num, person               *fs.SymbolicFeature
	head, agr                 *fs.ComplexFeature
	gloss                     *fs.StringFeature
}

func newPhonology(t testing.TB) *phonology {
	p := &phonology{
		System: fs.NewSystem(),
		voice:  fs.NewSymbolicFeature("voice", "+", "-"),
		place:  fs.NewSymbolicFeature("place", "bilabial", "alveolar", "velar"),
		nasal:  fs.NewSymbolicFeature("nasal", "+", "-"),
		cont:   fs.NewSymbolicFeature("cont", "+", "-"),
		num:    fs.NewSymbolicFeature("num", "sg", "pl"),
		person: fs.NewSymbolicFeature("person", "1", "2", "3"),
		head:   fs.NewComplexFeature("head"),
		agr:    fs.NewComplexFeature("agr"),
		gloss:  fs.NewStringFeature("gloss"),
	}
	for _, f := range []fs.Feature{
		p.voice, p.place, p.nasal, p.cont, p.num, p.person,
		p.head, p.agr, p.gloss,
	} {
		qt.Assert(t, qt.IsNil(p.AddFeature(f)))
	}
	return p
}

// sym returns the symbol set of f holding the given symbols.
func sym(f *fs.SymbolicFeature, ids ...string) *fs.SymbolValue {
	syms := make([]*fs.Symbol, len(ids))
	for i, id := range ids {
		s, ok := f.Symbol(id)
		if !ok {
			panic(fmt.Sprintf("unknown symbol %q of %s", id, f.ID()))
		}
		syms[i] = s
	}
	return fs.NewSymbolSet(f, syms...)
}

type field struct {
	f fs.Feature
	v fs.Value
}

// newStruct returns a struct with the given fields.
func newStruct(fields ...field) *fs.Struct {
	s := fs.NewStruct()
	for _, x := range fields {
		s.Set(x.f, x.v)
	}
	return s
}

func or(alts ...*fs.Struct) *fs.Disjunction {
	return fs.NewDisjunction(alts...)
}

func withOr(s *fs.Struct, ds ...*fs.Disjunction) *fs.Struct {
	for _, d := range ds {
		s.AddDisjunction(d)
	}
	return s
}

// mustPanic checks that fn panics with an error of the given code.
func mustPanic(t *testing.T, code errors.Code, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("no panic, want %v", code)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic with %T %v, want error", r, r)
		}
		qt.Check(t, qt.ErrorIs(err, code))
	}()
	fn()
}

func mustUnify(t *testing.T, x, y *fs.Struct, opts ...fs.Option) *fs.Struct {
	t.Helper()
	out, ok := x.Unify(y, opts...)
	if !ok {
		t.Fatalf("%v & %v: unification failed", x, y)
	}
	return out
}
