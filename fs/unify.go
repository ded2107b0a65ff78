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
	"go.uber.org/zap"
)

// An Option configures unification.
type Option option

type option func(o *options)

type options struct {
	useDefaults bool
	bindings    *Bindings
}

// UseDefaults causes the default filler of a feature to be unified with a
// value for that feature if the receiver has no value for it.
func UseDefaults() Option {
	return func(o *options) { o.useDefaults = true }
}

// WithBindings sets the variable bindings to start unification with. On
// success, b is replaced with the bindings of the result. On failure b is
// left unchanged.
func WithBindings(b *Bindings) Option {
	return func(o *options) { o.bindings = b }
}

// A unifier holds the state of a single unification.
type unifier struct {
	useDefaults bool

	// preserve is set if nodes of the other operand may not be modified.
	preserve bool

	// copies maps nodes that may not be modified to the nodes of the
	// result that take their place. Any later reference to such a node is
	// unified with its copy rather than with the original.
	copies map[Value]Value

	bindings *Bindings

	// nwise is the nesting depth of hypotheses: up to nwise+1 disjunctions
	// are considered jointly. A negative value means no bound.
	nwise int

	// collapsed counts the disjunctions that were reduced to a single
	// alternative.
	collapsed int

	log  *zap.SugaredLogger
	nest int
}

func newUnifier(opts []Option) (u *unifier, caller *Bindings) {
	var o options
	for _, f := range opts {
		f(&o)
	}
	u = &unifier{
		useDefaults: o.useDefaults,
		copies:      map[Value]Value{},
		nwise:       hypothesisDepth(config().NWise),
		log:         traceLogger(),
	}
	if o.bindings != nil {
		u.bindings = o.bindings.Clone()
	} else {
		u.bindings = NewBindings()
	}
	return u, o.bindings
}

// hypothesisDepth converts a bound on the number of disjunctions checked
// jointly to the nesting depth of hypotheses. Zero means no bound.
func hypothesisDepth(nwise int) int {
	if nwise <= 0 {
		return -1
	}
	return nwise - 1
}

func (u *unifier) commit(caller *Bindings) {
	if caller != nil {
		caller.Replace(u.bindings)
	}
}

// Unify returns the most general struct that is consistent with both x and
// other. It reports false if x and other are inconsistent. The operands are
// not modified; reentrancy within and between them is preserved in the
// result.
func (x *Struct) Unify(other *Struct, opts ...Option) (*Struct, bool) {
	u, caller := newUnifier(opts)
	u.logf("unify %v & %v", x, other)

	out := (&cloner{copies: u.copies}).structValue(x)
	u.preserve = true
	if !u.unifyValues(out, other) {
		u.logf("failed")
		return nil, false
	}
	u.preserve = false

	out = out.Deref()
	if !u.resolve(out) {
		u.logf("disjunctions failed")
		return nil, false
	}
	out = out.Deref()
	compactGraph(out)
	u.commit(caller)
	u.logf("result %v", out)
	return out, true
}

// UnifyInPlace unifies other into x. Nodes of other are merged into x
// rather than copied, so both operands are consumed. It reports whether the
// operands were consistent; if not, the contents of x are unspecified.
//
// Frozen nodes reachable from either operand are never modified. UnifyInPlace
// panics if x itself is frozen.
func (x *Struct) UnifyInPlace(other *Struct, opts ...Option) bool {
	x = x.Deref()
	x.checkMutable()

	u, caller := newUnifier(opts)
	u.logf("unify in place %v & %v", x, other)

	if !u.unifyValues(x, other) {
		u.logf("failed")
		return false
	}
	x = x.Deref()
	if !u.resolve(x) {
		u.logf("disjunctions failed")
		return false
	}
	x = x.Deref()
	compactGraph(x)
	u.commit(caller)
	return true
}

// IsUnifiable reports whether x and other are consistent. Neither operand is
// modified. If bindings are given, they are updated only on success.
func (x *Struct) IsUnifiable(other *Struct, opts ...Option) bool {
	if x.HasDisjunctions() || other.HasDisjunctions() ||
		hasReentrancy(x) || hasReentrancy(other) {
		_, ok := x.Unify(other, opts...)
		return ok
	}
	u, caller := newUnifier(opts)
	c := u.newChecker()
	if !c.values(x, other) {
		return false
	}
	u.bindings = c.bindings
	u.commit(caller)
	return true
}

// Subsumes reports whether x is more general than other: unifying x with
// other yields a struct equal to other.
func (x *Struct) Subsumes(other *Struct, opts ...Option) bool {
	out, ok := x.Unify(other, opts...)
	return ok && out.Equals(other)
}

// consumes reports whether v may be modified and merged into the result.
func (u *unifier) consumes(v Value) bool {
	return !u.preserve && !v.IsFrozen()
}

// link records that y has been merged into x.
func (u *unifier) link(x, y Value) {
	if !u.consumes(y) {
		u.copies[y] = x
		return
	}
	switch y := y.(type) {
	case *Struct:
		y.forward = x.(*Struct)
	case SimpleValue:
		y.forwardTo(x.(SimpleValue))
	}
}

// unifyValues unifies y into x, where x is a mutable node of the result.
func (u *unifier) unifyValues(x, y Value) bool {
	x, y = x.deref(), y.deref()
	if x == y {
		return true
	}
	if c, ok := u.copies[y]; ok {
		c = c.deref()
		if c == x {
			return true
		}
		return u.merge(x, c)
	}
	if x.Kind() != y.Kind() {
		return false
	}
	u.assertf(!x.IsFrozen(), "unifying into frozen %s", x.Kind())

	switch x := x.(type) {
	case *Struct:
		return u.unifyStructs(x, y.(*Struct))
	case SimpleValue:
		return u.unifySimple(x, y.(SimpleValue))
	}
	return false
}

// merge unifies y into x, where both are nodes of the result.
func (u *unifier) merge(x, y Value) bool {
	saved := u.preserve
	u.preserve = false
	ok := u.unifyValues(x, y)
	u.preserve = saved
	return ok
}

func (u *unifier) unifyStructs(x, y *Struct) bool {
	u.link(x, y)

	u.nest++
	defer func() { u.nest-- }()

	for _, a := range y.arcs {
		x = x.Deref()
		if !u.unifyArc(x, a.feature, a.value) {
			u.logf("conflict at %s", a.feature.ID())
			return false
		}
	}
	if len(y.disjunctions) > 0 {
		x = x.Deref()
		for _, d := range y.disjunctions {
			x.disjunctions = append(x.disjunctions, u.adoptDisjunction(d))
		}
	}
	return true
}

func (u *unifier) unifyArc(x *Struct, f Feature, v Value) bool {
	i := x.index(f)
	if i < 0 {
		if u.useDefaults {
			if d := f.Default(); d != nil {
				dv := Clone(d)
				x.arcs = append(x.arcs, arc{f, dv})
				return u.unifyValues(dv, v)
			}
		}
		x.arcs = append(x.arcs, arc{f, u.adopt(v)})
		return true
	}
	xv := x.arcValue(i)
	if xv.IsFrozen() {
		xv = u.thaw(xv)
		x.arcs[i].value = xv
	}
	return u.unifyValues(xv, v)
}

// adopt returns the node of the result that represents v. Nodes of the
// other operand are copied unless they may be consumed.
func (u *unifier) adopt(v Value) Value {
	v = v.deref()
	if c, ok := u.copies[v]; ok {
		return c.deref()
	}
	if u.consumes(v) && !u.refersToCopies(v) {
		return v
	}
	return (&cloner{copies: u.copies}).value(v)
}

// refersToCopies reports whether any node reachable from v was replaced by a
// node of the result.
func (u *unifier) refersToCopies(v Value) bool {
	x, ok := v.(*Struct)
	if !ok || len(u.copies) == 0 {
		return false
	}
	found := false
	walk(x, true, func(v Value) bool {
		_, found = u.copies[v]
		if !found && v.IsFrozen() {
			// Frozen nodes may later be replaced.
			found = true
		}
		return !found
	})
	return found
}

func (u *unifier) adoptDisjunction(d *Disjunction) *Disjunction {
	if !u.preserve && !d.frozen && !u.altsReferToCopies(d) {
		return d
	}
	return (&cloner{copies: u.copies}).disjunction(d)
}

func (u *unifier) altsReferToCopies(d *Disjunction) bool {
	for _, a := range d.alts {
		if u.refersToCopies(a.Deref()) {
			return true
		}
	}
	return false
}

// thaw returns a mutable copy of a frozen node of the result.
func (u *unifier) thaw(v Value) Value {
	return (&cloner{copies: u.copies}).value(v)
}

func (u *unifier) unifySimple(x, y SimpleValue) bool {
	if !x.sameDomain(y) {
		return false
	}
	switch {
	case x.IsVariable() && y.IsVariable():
		if x.VariableName() != y.VariableName() || x.Agree() != y.Agree() {
			u.logf("variables %v and %v conflict", x, y)
			return false
		}

	case x.IsVariable():
		v, ok := u.resolveVariable(x, y)
		if !ok {
			return false
		}
		x.assign(v)

	case y.IsVariable():
		v, ok := u.resolveVariable(y, x)
		if !ok {
			return false
		}
		x.assign(v)

	default:
		if !x.meet(y) {
			u.logf("empty intersection of %v and %v", x, y)
			return false
		}
	}
	u.link(x, y)
	return true
}

// resolveVariable returns the value of variable v when it meets the
// concrete value c, binding v if it is unbound.
func (u *unifier) resolveVariable(v, c SimpleValue) (SimpleValue, bool) {
	return bindVariable(u.bindings, v, c)
}

// bindVariable computes the value of variable v when it meets the concrete
// value c. If v is bound, the result is the intersection of c with the
// binding, or with its complement if v does not agree. Otherwise v is bound
// to c, or to its complement if v does not agree. The binding of an agreeing
// variable is narrowed to the result.
func bindVariable(b *Bindings, v, c SimpleValue) (SimpleValue, bool) {
	name := v.VariableName()
	if bound, ok := b.m[name]; ok {
		bound, ok = rebase(bound, c)
		if !ok {
			return nil, false
		}
		var e SimpleValue
		if v.Agree() {
			e = bound.concrete()
		} else {
			e = bound.complement()
		}
		if !e.meet(c) {
			return nil, false
		}
		if v.Agree() {
			b.m[name] = e.concrete()
		}
		return e, true
	}
	if v.Agree() {
		b.m[name] = c.concrete()
	} else {
		n := c.complement()
		if n.IsEmpty() {
			return nil, false
		}
		b.m[name] = n
	}
	return c.concrete(), true
}

// rebase converts v to the domain of target. Symbols of one feature are
// converted to the symbols with the same identifiers of another; symbols
// without a counterpart are dropped.
func rebase(v, target SimpleValue) (SimpleValue, bool) {
	if v.sameDomain(target) {
		return v, true
	}
	from, ok := v.(*SymbolValue)
	if !ok {
		return nil, false
	}
	to, ok := target.(*SymbolValue)
	if !ok {
		return nil, false
	}
	f := to.Deref().feature
	x := &SymbolValue{feature: f}
	for _, s := range from.Symbols() {
		if t, ok := f.byID[s.id]; ok {
			x.set |= t.bit()
		}
	}
	return x, true
}

// A checker reports whether the definite parts of two structs are
// consistent, without modifying them. Disjunctions are ignored. Bindings
// are narrowed on a copy exactly as during unification.
type checker struct {
	useDefaults bool
	bindings    *Bindings
	seen        map[[2]Value]bool
}

func (u *unifier) newChecker() *checker {
	return &checker{
		useDefaults: u.useDefaults,
		bindings:    u.bindings.Clone(),
		seen:        map[[2]Value]bool{},
	}
}

// definitelyUnifiable reports whether the definite parts of x and y are
// consistent under the current bindings.
func (u *unifier) definitelyUnifiable(x, y *Struct) bool {
	return u.newChecker().values(x, y)
}

func (c *checker) values(x, y Value) bool {
	x, y = x.deref(), y.deref()
	if x == y {
		return true
	}
	key := [2]Value{x, y}
	if c.seen[key] {
		return true
	}
	c.seen[key] = true

	if x.Kind() != y.Kind() {
		return false
	}
	switch x := x.(type) {
	case *Struct:
		return c.structs(x, y.(*Struct))
	case SimpleValue:
		return c.simple(x, y.(SimpleValue))
	}
	return false
}

func (c *checker) structs(x, y *Struct) bool {
	for _, a := range y.arcs {
		xv, ok := x.get(a.feature)
		if !ok {
			if c.useDefaults {
				if d := a.feature.Default(); d != nil && !c.values(d, a.value) {
					return false
				}
			}
			continue
		}
		if !c.values(xv, a.value) {
			return false
		}
	}
	return true
}

func (c *checker) simple(x, y SimpleValue) bool {
	if !x.sameDomain(y) {
		return false
	}
	switch {
	case x.IsVariable() && y.IsVariable():
		return x.VariableName() == y.VariableName() && x.Agree() == y.Agree()
	case x.IsVariable():
		_, ok := bindVariable(c.bindings, x, y)
		return ok
	case y.IsVariable():
		_, ok := bindVariable(c.bindings, y, x)
		return ok
	}
	return x.overlaps(y)
}
