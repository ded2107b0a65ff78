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
	"testing"

	"github.com/go-quicktest/qt"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cuelang.org/fstruct/fs"
)

func TestCollapse(t *testing.T) {
	p := newPhonology(t)
	x := withOr(fs.NewStruct(), or(
		newStruct(field{p.place, sym(p.place, "bilabial")}, field{p.nasal, sym(p.nasal, "-")}),
		newStruct(field{p.place, sym(p.place, "alveolar")}, field{p.nasal, sym(p.nasal, "-")}),
		newStruct(field{p.place, sym(p.place, "velar")}, field{p.nasal, sym(p.nasal, "+")}),
	))
	y := newStruct(field{p.place, sym(p.place, "velar")})

	out := mustUnify(t, x, y)
	qt.Assert(t, qt.Equals(out.String(), "[place:velar, nasal:+]"))
	qt.Assert(t, qt.IsFalse(out.HasDisjunctions()))
	qt.Assert(t, qt.HasLen(x.Disjunctions()[0].Alternatives(), 3))

	// Two alternatives remain.
	y = newStruct(field{p.nasal, sym(p.nasal, "-")})
	out = mustUnify(t, x, y)
	qt.Assert(t, qt.Equals(out.String(),
		"[nasal:-, ([place:bilabial, nasal:-] || [place:alveolar, nasal:-])]"))

	y = newStruct(field{p.place, sym(p.place, "velar")}, field{p.nasal, sym(p.nasal, "-")})
	_, ok := x.Unify(y)
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.IsFalse(x.IsUnifiable(y)))
}

func TestNestedDisjunctions(t *testing.T) {
	p := newPhonology(t)

	t.Run("in feature value", func(t *testing.T) {
		x := newStruct(field{p.head, withOr(fs.NewStruct(), or(
			newStruct(field{p.num, sym(p.num, "sg")}),
			newStruct(field{p.num, sym(p.num, "pl")}),
		))})
		y := newStruct(field{p.head, newStruct(field{p.num, sym(p.num, "pl")})})
		out := mustUnify(t, x, y)
		qt.Assert(t, qt.Equals(out.String(), "[head:[num:pl]]"))
	})

	t.Run("in alternative", func(t *testing.T) {
		x := withOr(fs.NewStruct(), or(
			withOr(
				newStruct(field{p.voice, sym(p.voice, "+")}),
				or(
					newStruct(field{p.nasal, sym(p.nasal, "+")}),
					newStruct(field{p.nasal, sym(p.nasal, "-")}),
				),
			),
			newStruct(field{p.voice, sym(p.voice, "-")}),
		))
		y := newStruct(field{p.voice, sym(p.voice, "+")}, field{p.nasal, sym(p.nasal, "-")})
		out := mustUnify(t, x, y)
		qt.Assert(t, qt.Equals(out.String(), "[voice:+, nasal:-]"))
	})

	t.Run("on different structs", func(t *testing.T) {
		// Each disjunction is consistent with the definite part, but no
		// alternative of the outer one fits an alternative of head.
		num := func(v string) field { return field{p.num, sym(p.num, v)} }
		person := func(v string) field { return field{p.person, sym(p.person, v)} }
		x := withOr(
			newStruct(field{p.head, withOr(fs.NewStruct(), or(
				newStruct(num("sg"), person("1")),
				newStruct(num("pl"), person("2")),
			))}),
			or(
				newStruct(field{p.head, newStruct(num("sg"), person("2"))}),
				newStruct(field{p.head, newStruct(num("pl"), person("1"))}),
			),
		)
		_, ok := x.Unify(fs.NewStruct())
		qt.Assert(t, qt.IsFalse(ok))
		qt.Assert(t, qt.IsFalse(x.IsUnifiable(fs.NewStruct())))

		// With a consistent combination, the outer disjunction decides head.
		y := withOr(
			newStruct(field{p.head, withOr(fs.NewStruct(), or(
				newStruct(num("sg"), person("1")),
				newStruct(num("pl"), person("2")),
			))}),
			or(
				newStruct(field{p.head, newStruct(num("sg"), person("2"))}),
				newStruct(field{p.head, newStruct(num("pl"))}),
			),
		)
		out := mustUnify(t, y, fs.NewStruct())
		qt.Assert(t, qt.Equals(out.String(), "[head:[num:pl, person:2]]"))
	})

	t.Run("through sharing", func(t *testing.T) {
		// Collapsing the disjunction of head constrains agr.
		h := withOr(fs.NewStruct(), or(
			newStruct(field{p.num, sym(p.num, "sg")}, field{p.person, sym(p.person, "3")}),
			newStruct(field{p.num, sym(p.num, "pl")}, field{p.person, sym(p.person, "1")}),
		))
		x := newStruct(field{p.head, h}, field{p.agr, h})
		y := newStruct(field{p.agr, newStruct(field{p.person, sym(p.person, "1")})})
		out := mustUnify(t, x, y)
		qt.Assert(t, qt.Equals(out.String(), "[head:<1>[person:1, num:pl], agr:<1>]"))
	})
}

func TestFrozenDisjunctions(t *testing.T) {
	p := newPhonology(t)
	num := func(v string) field { return field{p.num, sym(p.num, v)} }

	t.Run("nested", func(t *testing.T) {
		head := withOr(newStruct(num("sg")), or(
			newStruct(num("sg"), field{p.person, sym(p.person, "3")}),
			newStruct(num("pl")),
		))
		head.Freeze()
		before, hash := head.String(), head.FrozenHash()

		x := newStruct(field{p.head, head})
		qt.Assert(t, qt.IsTrue(x.UnifyInPlace(newStruct(field{p.voice, sym(p.voice, "+")}))))
		qt.Assert(t, qt.Equals(x.String(), "[head:[num:sg, person:3], voice:+]"))

		qt.Assert(t, qt.Equals(head.String(), before))
		qt.Assert(t, qt.IsTrue(head.IsFrozen()))
		fresh := head.Clone()
		fresh.Freeze()
		qt.Assert(t, qt.Equals(head.FrozenHash(), hash))
		qt.Assert(t, qt.Equals(fresh.FrozenHash(), hash))
	})

	t.Run("shared with definite part", func(t *testing.T) {
		agr := newStruct(num("sg"))
		head := withOr(newStruct(field{p.agr, agr}), or(
			newStruct(field{p.agr, newStruct(field{p.person, sym(p.person, "3")})}),
			newStruct(field{p.agr, newStruct(num("pl"))}),
		))
		head.Freeze()

		x := newStruct(field{p.head, head}, field{p.agr, agr})
		qt.Assert(t, qt.IsTrue(x.UnifyInPlace(fs.NewStruct())))
		qt.Assert(t, qt.Equals(x.String(), "[head:[agr:<1>[num:sg, person:3]], agr:<1>]"))
		qt.Assert(t, qt.Equals(agr.String(), "[num:sg]"))
		qt.Assert(t, qt.Equals(head.Disjunctions()[0].Len(), 2))
	})
}

func TestNWise(t *testing.T) {
	p := newPhonology(t)
	voice := func(v string) field { return field{p.voice, sym(p.voice, v)} }
	nasal := func(v string) field { return field{p.nasal, sym(p.nasal, v)} }

	t.Run("drops alternative", func(t *testing.T) {
		x := withOr(fs.NewStruct(),
			or(newStruct(voice("+")), newStruct(voice("-"))),
			or(newStruct(voice("+"), nasal("+")), newStruct(voice("+"), nasal("-"))),
		)
		out := mustUnify(t, x, fs.NewStruct())
		qt.Assert(t, qt.Equals(out.String(),
			"[voice:+, ([voice:+, nasal:+] || [voice:+, nasal:-])]"))
	})

	t.Run("joint inconsistency", func(t *testing.T) {
		// Every alternative is consistent with the definite part, but no
		// combination of alternatives is consistent.
		x := withOr(fs.NewStruct(),
			or(newStruct(voice("+"), nasal("+")), newStruct(voice("-"), nasal("-"))),
			or(newStruct(voice("+"), nasal("-")), newStruct(voice("-"), nasal("+"))),
		)
		_, ok := x.Unify(fs.NewStruct())
		qt.Assert(t, qt.IsFalse(ok))
		qt.Assert(t, qt.IsFalse(x.IsUnifiable(fs.NewStruct())))
	})

	t.Run("three disjunctions", func(t *testing.T) {
		cont := func(v string) field { return field{p.cont, sym(p.cont, v)} }
		x := withOr(fs.NewStruct(),
			or(newStruct(voice("+"), nasal("+")), newStruct(voice("-"), cont("-"))),
			or(newStruct(nasal("-"), cont("+")), newStruct(voice("-"), nasal("+"))),
			or(newStruct(cont("-")), newStruct(voice("+"), cont("+"))),
		)
		// Only voice:-, nasal:+, cont:- satisfies all three.
		out := mustUnify(t, x, fs.NewStruct())
		want := newStruct(voice("-"), cont("-"), nasal("+"))
		qt.Assert(t, qt.IsTrue(out.Equals(want)), qt.Commentf("got %v", out))
	})
}

func TestDisjunction(t *testing.T) {
	p := newPhonology(t)
	shared := newStruct(field{p.num, sym(p.num, "sg")})
	d := or(
		newStruct(field{p.head, shared}),
		newStruct(field{p.agr, shared}),
	)
	qt.Assert(t, qt.Equals(d.Len(), 2))
	qt.Assert(t, qt.Equals(d.String(), "([head:<1>[num:sg]] || [agr:<1>])"))

	c := d.Clone()
	qt.Assert(t, qt.IsTrue(c.Equals(d)))
	h, _ := c.Alternatives()[0].LookupID("head")
	a, _ := c.Alternatives()[1].LookupID("agr")
	qt.Assert(t, qt.Equals(h, a))
	qt.Assert(t, qt.Not(qt.Equals(h, fs.Value(shared))))

	// Order of alternatives is irrelevant.
	r := or(
		newStruct(field{p.agr, shared}),
		newStruct(field{p.head, shared}),
	)
	qt.Assert(t, qt.IsTrue(r.Equals(d)))

	d.Freeze()
	r.Freeze()
	qt.Assert(t, qt.IsTrue(d.IsFrozen()))
	qt.Assert(t, qt.Equals(d.FrozenHash(), r.FrozenHash()))
}

func TestTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	fs.SetLogger(zap.New(core))
	defer fs.SetLogger(nil)

	p := newPhonology(t)
	x := withOr(newStruct(field{p.voice, sym(p.voice, "+")}), or(
		newStruct(field{p.voice, sym(p.voice, "-")}, field{p.place, sym(p.place, "bilabial")}),
		newStruct(field{p.place, sym(p.place, "velar")}),
	))
	mustUnify(t, x, fs.NewStruct())

	qt.Assert(t, qt.Not(qt.Equals(logs.Len(), 0)))
	qt.Assert(t, qt.Not(qt.Equals(
		logs.FilterMessageSnippet("collapse disjunction").Len(), 0)))
	qt.Assert(t, qt.Not(qt.Equals(
		logs.FilterMessageSnippet("... drop alternative").Len(), 0)))
}
