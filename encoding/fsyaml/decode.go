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

// Package fsyaml decodes feature systems and feature structures from YAML.
//
// A feature system is a document of the form
//
//	features:
//	- id: voice
//	  type: symbolic
//	  symbols: ["+", "-"]
//	  default: "-"
//	- id: place
//	  type: symbolic
//	  symbols:
//	  - {id: labial, description: lips}
//	  - dorsal
//	- id: head
//	  type: complex
//	- id: gloss
//	  type: string
//
// A feature structure is a mapping from feature identifiers to fillers.
// The filler of a symbolic or string feature is a scalar, a sequence of
// scalars denoting a set, or a mapping with one of the keys
//
//	$value  the scalar or sequence
//	$not    a scalar or sequence whose complement is the filler
//	$var    the name of a variable, with an optional boolean $agree
//	$any    true, for the set of all symbols or strings
//
// The filler of a complex feature is a mapping. A mapping may carry the key
// $or, holding a sequence of alternative mappings or a sequence of such
// sequences, one per disjunction.
//
// Shared values are written with YAML anchors and aliases, or with the keys
// $id, which names the value of the mapping it appears in, and $ref, which
// refers to a value named earlier in the document.
//
// Note that YAML reads a plain "-" as the start of a sequence; write "-"
// symbols in quotes.
package fsyaml

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
)

// Reserved keys.
const (
	keyValue = "$value"
	keyNot   = "$not"
	keyVar   = "$var"
	keyAgree = "$agree"
	keyAny   = "$any"
	keyOr    = "$or"
	keyID    = "$id"
	keyRef   = "$ref"
)

// parse reads a single YAML document from data. An empty input yields a nil
// node.
func parse(filename string, data []byte) (*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, syntaxError(filename, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		if err != nil {
			return nil, syntaxError(filename, err)
		}
		return nil, errors.Newf(errors.Syntax, nil,
			"%s:%d: expected a single YAML document", filename, extra.Line)
	}
	return &doc, nil
}

// syntaxError converts a yaml.v3 error, whose messages are of the form
// "yaml: line 3: some issue", to one of the form "file.yaml:3: some issue".
func syntaxError(filename string, err error) error {
	e := err.Error()
	if s, ok := strings.CutPrefix(e, "yaml: line "); ok {
		e = filename + ":" + s
	} else if s, ok := strings.CutPrefix(e, "yaml:"); ok {
		e = filename + ":" + s
	} else {
		e = filename + ": " + e
	}
	return errors.Newf(errors.Syntax, nil, "%s", e)
}

// DecodeStruct decodes a feature structure against the features of sys.
// The filename is used in error messages only.
func DecodeStruct(sys *fs.System, filename string, data []byte) (*fs.Struct, error) {
	n, err := parse(filename, data)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return fs.NewStruct(), nil
	}
	return Decode(sys, filename, n)
}

// Decode decodes a feature structure from a YAML document or mapping node.
func Decode(sys *fs.System, filename string, n *yaml.Node) (*fs.Struct, error) {
	d := newDecoder(sys, filename)
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return fs.NewStruct(), nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return fs.NewStruct(), nil
	}
	return d.structValue(n, nil)
}

type decoder struct {
	sys      *fs.System
	filename string

	// tags holds the values named with $id.
	tags map[string]fs.Value

	// anchors holds the values of anchored nodes.
	anchors map[*yaml.Node]fs.Value
}

func newDecoder(sys *fs.System, filename string) *decoder {
	return &decoder{
		sys:      sys,
		filename: filename,
		tags:     map[string]fs.Value{},
		anchors:  map[*yaml.Node]fs.Value{},
	}
}

func (d *decoder) errf(c errors.Code, n *yaml.Node, path []string, format string, args ...interface{}) error {
	pos := d.filename + ":" + strconv.Itoa(n.Line) + ": "
	return errors.Newf(c, path, pos+format, args...)
}

func appendPath(path []string, id string) []string {
	return append(path[:len(path):len(path)], id)
}

// fields returns the key-value pairs of a mapping node.
func fields(n *yaml.Node) [][2]*yaml.Node {
	a := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		a = append(a, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
	}
	return a
}

// lookupKey returns the value of the given key of a mapping node.
func lookupKey(n *yaml.Node, key string) (*yaml.Node, bool) {
	if n.Kind != yaml.MappingNode {
		return nil, false
	}
	for _, kv := range fields(n) {
		if kv[0].Value == key {
			return kv[1], true
		}
	}
	return nil, false
}

// shared returns the value previously decoded for an alias or a $ref
// mapping, if n is one of those.
func (d *decoder) shared(n *yaml.Node, path []string) (v fs.Value, ok bool, err error) {
	switch {
	case n.Kind == yaml.AliasNode:
		v, ok := d.anchors[n.Alias]
		if !ok {
			return nil, false, d.errf(errors.NotFound, n, path,
				"alias *%s refers to a value that is still being decoded", n.Value)
		}
		return v, true, nil

	case n.Kind == yaml.MappingNode:
		ref, ok := lookupKey(n, keyRef)
		if !ok {
			return nil, false, nil
		}
		if len(n.Content) != 2 {
			return nil, false, d.errf(errors.Syntax, n, path, "%s must be the only key", keyRef)
		}
		v, ok := d.tags[ref.Value]
		if !ok {
			return nil, false, d.errf(errors.NotFound, ref, path,
				"reference to undefined tag %q", ref.Value)
		}
		return v, true, nil
	}
	return nil, false, nil
}

// register records v as the value of n under its anchor and $id, if any.
func (d *decoder) register(n *yaml.Node, v fs.Value, path []string) error {
	if n.Anchor != "" {
		d.anchors[n] = v
	}
	id, ok := lookupKey(n, keyID)
	if !ok {
		return nil
	}
	if id.Kind != yaml.ScalarNode || id.Value == "" {
		return d.errf(errors.Syntax, id, path, "%s must be a non-empty scalar", keyID)
	}
	if _, ok := d.tags[id.Value]; ok {
		return d.errf(errors.Duplicate, id, path, "duplicate tag %q", id.Value)
	}
	d.tags[id.Value] = v
	return nil
}

// structValue decodes a mapping node.
func (d *decoder) structValue(n *yaml.Node, path []string) (*fs.Struct, error) {
	if v, ok, err := d.shared(n, path); ok || err != nil {
		if err != nil {
			return nil, err
		}
		s, ok := v.(*fs.Struct)
		if !ok {
			return nil, d.errf(errors.Invalid, n, path, "%s value used as struct", v.Kind())
		}
		return s, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, d.errf(errors.Syntax, n, path, "expected mapping, found %s", kindName(n))
	}

	s := fs.NewStruct()
	if err := d.register(n, s, path); err != nil {
		return nil, err
	}
	for _, kv := range fields(n) {
		k, v := kv[0], kv[1]
		switch key := k.Value; {
		case key == keyID:
		case key == keyOr:
			if err := d.disjunctions(s, v, path); err != nil {
				return nil, err
			}
		case strings.HasPrefix(key, "$"):
			return nil, d.errf(errors.Syntax, k, path, "unexpected key %s in struct", key)
		default:
			fp := appendPath(path, key)
			f, ok := d.sys.LookupFeature(key)
			if !ok {
				return nil, d.errf(errors.NotFound, k, fp, "unknown feature %q", key)
			}
			x, err := d.filler(f, v, fp)
			if err != nil {
				return nil, err
			}
			s.Set(f, x)
		}
	}
	return s, nil
}

// disjunctions adds the disjunctions of an $or value to s.
func (d *decoder) disjunctions(s *fs.Struct, n *yaml.Node, path []string) error {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return d.errf(errors.Syntax, n, path, "%s must be a non-empty sequence", keyOr)
	}
	groups := []*yaml.Node{n}
	if n.Content[0].Kind == yaml.SequenceNode {
		groups = n.Content
	}
	for _, g := range groups {
		if g.Kind != yaml.SequenceNode {
			return d.errf(errors.Syntax, g, path,
				"%s must hold either alternatives or sequences of alternatives", keyOr)
		}
		if len(g.Content) < 2 {
			return d.errf(errors.Syntax, g, path,
				"disjunction must have at least two alternatives")
		}
		alts := make([]*fs.Struct, len(g.Content))
		for i, a := range g.Content {
			x, err := d.structValue(a, path)
			if err != nil {
				return err
			}
			alts[i] = x
		}
		s.AddDisjunction(fs.NewDisjunction(alts...))
	}
	return nil
}

// filler decodes the value of feature f.
func (d *decoder) filler(f fs.Feature, n *yaml.Node, path []string) (fs.Value, error) {
	if v, ok, err := d.shared(n, path); ok || err != nil {
		if err != nil {
			return nil, err
		}
		if !fits(f, v) {
			return nil, d.errf(errors.Invalid, n, path,
				"shared %s value is not a valid filler of feature %q", v.Kind(), f.ID())
		}
		return v, nil
	}

	var v fs.Value
	var err error
	switch f := f.(type) {
	case *fs.ComplexFeature:
		return d.structValue(n, path)
	case *fs.SymbolicFeature:
		v, err = d.simple(n, path, symbolDomain{d, f})
	case *fs.StringFeature:
		v, err = d.simple(n, path, stringDomain{})
	default:
		panic(fmt.Sprintf("unknown feature type %T", f))
	}
	if err != nil {
		return nil, err
	}
	if err := d.register(n, v, path); err != nil {
		return nil, err
	}
	return v, nil
}

// fits reports whether v may be used as a filler of f.
func fits(f fs.Feature, v fs.Value) bool {
	switch f := f.(type) {
	case *fs.ComplexFeature:
		_, ok := v.(*fs.Struct)
		return ok
	case *fs.StringFeature:
		_, ok := v.(*fs.StringValue)
		return ok
	case *fs.SymbolicFeature:
		x, ok := v.(*fs.SymbolValue)
		return ok && x.Feature() == f
	}
	return false
}

// A domain creates the simple values of a feature.
type domain interface {
	set(n *yaml.Node, ids []string, not bool, path []string) (fs.SimpleValue, error)
	any() fs.SimpleValue
	variable(name string, agree bool) fs.SimpleValue
}

type symbolDomain struct {
	d *decoder
	f *fs.SymbolicFeature
}

func (s symbolDomain) set(n *yaml.Node, ids []string, not bool, path []string) (fs.SimpleValue, error) {
	syms := make([]*fs.Symbol, len(ids))
	for i, id := range ids {
		x, ok := s.f.Symbol(id)
		if !ok {
			return nil, s.d.errf(errors.NotFound, n, path,
				"unknown symbol %q of feature %q", id, s.f.ID())
		}
		syms[i] = x
	}
	v := fs.NewSymbolSet(s.f, syms...)
	if not && !v.IntersectWith(true, fs.AnySymbol(s.f), false) {
		return nil, s.d.errf(errors.Invalid, n, path,
			"negation of all symbols of feature %q", s.f.ID())
	}
	return v, nil
}

func (s symbolDomain) any() fs.SimpleValue { return fs.AnySymbol(s.f) }

func (s symbolDomain) variable(name string, agree bool) fs.SimpleValue {
	return fs.NewSymbolVariable(s.f, name, agree)
}

type stringDomain struct{}

func (stringDomain) set(n *yaml.Node, ids []string, not bool, path []string) (fs.SimpleValue, error) {
	if not {
		return fs.NewNotStringValue(ids...), nil
	}
	return fs.NewStringValue(ids...), nil
}

func (stringDomain) any() fs.SimpleValue { return fs.AnyString() }

func (stringDomain) variable(name string, agree bool) fs.SimpleValue {
	return fs.NewStringVariable(name, agree)
}

// simple decodes the filler of a symbolic or string feature.
func (d *decoder) simple(n *yaml.Node, path []string, dom domain) (fs.SimpleValue, error) {
	switch n.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		ids, err := d.scalars(n, path)
		if err != nil {
			return nil, err
		}
		return dom.set(n, ids, false, path)

	case yaml.MappingNode:
		return d.simpleMapping(n, path, dom)
	}
	return nil, d.errf(errors.Syntax, n, path, "unexpected %s", kindName(n))
}

func (d *decoder) simpleMapping(n *yaml.Node, path []string, dom domain) (fs.SimpleValue, error) {
	var (
		v     fs.SimpleValue
		agree *yaml.Node
		kind  string
	)
	for _, kv := range fields(n) {
		k, x := kv[0], kv[1]
		key := k.Value
		switch key {
		case keyID:
			continue
		case keyAgree:
			agree = x
			continue
		case keyValue, keyNot, keyVar, keyAny:
		default:
			return nil, d.errf(errors.Syntax, k, path, "unexpected key %q in simple value", key)
		}
		if kind != "" {
			return nil, d.errf(errors.Syntax, k, path, "%s conflicts with %s", key, kind)
		}
		kind = key

		var err error
		switch key {
		case keyValue, keyNot:
			var ids []string
			if ids, err = d.scalars(x, path); err == nil {
				v, err = dom.set(x, ids, key == keyNot, path)
			}
		case keyVar:
			if x.Kind != yaml.ScalarNode || x.Value == "" {
				return nil, d.errf(errors.Syntax, x, path, "%s must be a non-empty name", keyVar)
			}
			v = dom.variable(x.Value, true)
		case keyAny:
			var b bool
			if x.Decode(&b) != nil || !b {
				return nil, d.errf(errors.Syntax, x, path, "%s must be true", keyAny)
			}
			v = dom.any()
		}
		if err != nil {
			return nil, err
		}
	}
	if v == nil {
		return nil, d.errf(errors.Syntax, n, path, "simple value without %s, %s, %s or %s",
			keyValue, keyNot, keyVar, keyAny)
	}
	if agree != nil {
		if kind != keyVar {
			return nil, d.errf(errors.Syntax, agree, path, "%s without %s", keyAgree, keyVar)
		}
		var b bool
		if err := agree.Decode(&b); err != nil {
			return nil, d.errf(errors.Syntax, agree, path, "%s must be a boolean", keyAgree)
		}
		v = dom.variable(v.VariableName(), b)
	}
	return v, nil
}

// scalars returns the scalar values of a scalar or a sequence of scalars.
func (d *decoder) scalars(n *yaml.Node, path []string) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		a := make([]string, len(n.Content))
		for i, x := range n.Content {
			if x.Kind != yaml.ScalarNode {
				return nil, d.errf(errors.Syntax, x, path, "expected scalar, found %s", kindName(x))
			}
			a[i] = x.Value
		}
		return a, nil
	}
	return nil, d.errf(errors.Syntax, n, path, "expected scalar or sequence, found %s", kindName(n))
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return fmt.Sprintf("node kind %d", n.Kind)
}
