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

// Package fs implements unification-based feature structures.
//
// A feature structure is a directed graph of attribute-value bundles. Its
// inner nodes are of type *Struct and map features to values; its leaves are
// simple values: sets of symbols (*SymbolValue) drawn from the finite domain
// of a SymbolicFeature, or sets of strings (*StringValue) from an unbounded
// domain. A simple value may also be a variable that agrees, or disagrees,
// with its binding. Two paths may lead to the same node, in which case the
// node is shared ("reentrant"), and a Struct may carry disjunctions: sets of
// alternative structs of which exactly one must eventually hold.
//
// Unification computes the most general structure consistent with two
// structures. Unify leaves its operands intact; UnifyInPlace consumes them
// and is cheaper. Both resolve disjunctions after unifying the definite
// parts: alternatives that are inconsistent with the result are dropped, a
// disjunction with a single remaining alternative is merged into its struct,
// and remaining disjunctions are checked for joint consistency.
//
// Nodes merged during unification are not copied: a merged node forwards to
// its representative. All operations dereference nodes before use.
//
// Expected failures, such as a failed unification, are reported as a boolean
// result. Contract violations, such as mutating a frozen value, panic with an
// errors.Error.
//
// Feature structures are not safe for concurrent use unless frozen.
package fs
