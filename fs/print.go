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
)

// printer renders values in bracketed notation. Nodes that are referenced
// more than once are tagged <n> at their first occurrence and printed as
// <n> thereafter.
type printer struct {
	strings.Builder
	refs map[Value]int
	tags map[Value]int
	next int
	sort bool
}

func newPrinter() *printer {
	return &printer{
		refs: map[Value]int{},
		tags: map[Value]int{},
		sort: config().SortFeatures,
	}
}

func (p *printer) print(v Value) string {
	p.count(v)
	p.value(v)
	return p.String()
}

// count records the number of references to each node reachable from v.
func (p *printer) count(v Value) {
	v = v.deref()
	p.refs[v]++
	if p.refs[v] > 1 {
		return
	}
	if x, ok := v.(*Struct); ok {
		for _, a := range x.arcs {
			p.count(a.value)
		}
		for _, d := range x.disjunctions {
			for _, alt := range d.alts {
				p.count(alt)
			}
		}
	}
}

func (p *printer) value(v Value) {
	v = v.deref()
	if p.refs[v] > 1 {
		if t, ok := p.tags[v]; ok {
			p.tag(t)
			return
		}
		p.next++
		p.tags[v] = p.next
		p.tag(p.next)
	}
	switch x := v.(type) {
	case *Struct:
		p.structValue(x)
	case SimpleValue:
		p.WriteString(x.String())
	}
}

func (p *printer) tag(n int) {
	p.WriteString("<")
	p.WriteString(strconv.Itoa(n))
	p.WriteString(">")
}

func (p *printer) structValue(x *Struct) {
	arcs := x.arcs
	if p.sort {
		arcs = slices.Clone(arcs)
		slices.SortStableFunc(arcs, func(a, b arc) int {
			return strings.Compare(a.feature.ID(), b.feature.ID())
		})
	}
	p.WriteString("[")
	for i, a := range arcs {
		if i > 0 {
			p.WriteString(", ")
		}
		p.WriteString(a.feature.ID())
		p.WriteString(":")
		p.value(a.value)
	}
	for i, d := range x.disjunctions {
		if i > 0 || len(arcs) > 0 {
			p.WriteString(", ")
		}
		p.disjunction(d)
	}
	p.WriteString("]")
}

func (p *printer) disjunction(d *Disjunction) {
	p.WriteString("(")
	for i, a := range d.alts {
		if i > 0 {
			p.WriteString(" || ")
		}
		p.value(a)
	}
	p.WriteString(")")
}
