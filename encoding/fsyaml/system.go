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

package fsyaml

import (
	"gopkg.in/yaml.v3"

	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
)

type systemSpec struct {
	Features []featureSpec `yaml:"features"`
}

type featureSpec struct {
	ID          string       `yaml:"id"`
	Type        string       `yaml:"type"`
	Description string       `yaml:"description"`
	Symbols     []symbolSpec `yaml:"symbols"`
	Default     yaml.Node    `yaml:"default"`

	line int
}

// A symbolSpec is either a scalar identifier or a mapping with an id and
// a description.
type symbolSpec struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`

	line int
}

func (s *symbolSpec) UnmarshalYAML(n *yaml.Node) error {
	s.line = n.Line
	if n.Kind == yaml.ScalarNode {
		s.ID = n.Value
		return nil
	}
	type plain symbolSpec
	return n.Decode((*plain)(s))
}

func (f *featureSpec) UnmarshalYAML(n *yaml.Node) error {
	f.line = n.Line
	type plain featureSpec
	return n.Decode((*plain)(f))
}

// DecodeSystem decodes a feature system. The returned system is not
// frozen. The filename is used in error messages only.
func DecodeSystem(filename string, data []byte) (*fs.System, error) {
	n, err := parse(filename, data)
	if err != nil {
		return nil, err
	}
	var spec systemSpec
	if n != nil {
		if err := n.Decode(&spec); err != nil {
			return nil, syntaxError(filename, err)
		}
	}

	d := newDecoder(fs.NewSystem(), filename)
	for _, fspec := range spec.Features {
		f, err := d.feature(fspec)
		if err != nil {
			return nil, err
		}
		if err := d.sys.AddFeature(f); err != nil {
			return nil, errors.Wrapf(err, errors.CodeOf(err), []string{fspec.ID},
				"%s:%d", filename, fspec.line)
		}
	}

	// Defaults may refer to features declared later.
	for _, fspec := range spec.Features {
		if fspec.Default.Kind == 0 {
			continue
		}
		f, _ := d.sys.LookupFeature(fspec.ID)
		path := []string{f.ID()}
		v, err := d.filler(f, &fspec.Default, path)
		if err != nil {
			return nil, err
		}
		if !fits(f, v) {
			return nil, d.errf(errors.Invalid, &fspec.Default, path,
				"invalid default for feature %q", f.ID())
		}
		f.SetDefault(v)
	}
	return d.sys, nil
}

func (d *decoder) feature(spec featureSpec) (fs.Feature, error) {
	path := []string{spec.ID}
	if spec.ID == "" {
		return nil, errors.Newf(errors.Syntax, nil,
			"%s:%d: feature without id", d.filename, spec.line)
	}
	if spec.Type != "symbolic" && len(spec.Symbols) > 0 {
		return nil, errors.Newf(errors.Syntax, path,
			"%s:%d: symbols declared for %s feature", d.filename, spec.line, spec.Type)
	}
	switch spec.Type {
	case "symbolic":
		if len(spec.Symbols) > fs.MaxSymbols {
			return nil, errors.Newf(errors.Invalid, path,
				"%s:%d: more than %d symbols", d.filename, spec.line, fs.MaxSymbols)
		}
		f := fs.NewSymbolicFeature(spec.ID)
		f.SetDescription(spec.Description)
		for _, s := range spec.Symbols {
			if _, ok := f.Symbol(s.ID); ok || s.ID == "" {
				return nil, errors.Newf(errors.Duplicate, path,
					"%s:%d: duplicate or empty symbol %q", d.filename, s.line, s.ID)
			}
			f.AddSymbol(s.ID).SetDescription(s.Description)
		}
		return f, nil

	case "string":
		f := fs.NewStringFeature(spec.ID)
		f.SetDescription(spec.Description)
		return f, nil

	case "complex":
		f := fs.NewComplexFeature(spec.ID)
		f.SetDescription(spec.Description)
		return f, nil
	}
	return nil, errors.Newf(errors.Syntax, path,
		"%s:%d: unknown feature type %q", d.filename, spec.line, spec.Type)
}
