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

	"cuelang.org/fstruct/errors"
)

// A System is a registry of features. It is the schema against which
// feature structures are built and looked up.
//
// Identifiers are compared after Unicode NFC normalization.
type System struct {
	features []Feature
	byID     map[string]Feature
	frozen   bool
}

// NewSystem creates an empty feature system.
func NewSystem() *System {
	return &System{byID: map[string]Feature{}}
}

// AddFeature registers f. It reports an error if a feature with the same
// identifier exists and panics if s is frozen.
func (s *System) AddFeature(f Feature) error {
	s.checkMutable()
	id := f.ID()
	if _, ok := s.byID[id]; ok {
		return errors.Newf(errors.Duplicate, nil, "duplicate feature %q", id)
	}
	s.features = append(s.features, f)
	s.byID[id] = f
	return nil
}

// RemoveFeature unregisters the feature with the given identifier.
// It panics if s is frozen.
func (s *System) RemoveFeature(id string) error {
	s.checkMutable()
	id = normID(id)
	f, ok := s.byID[id]
	if !ok {
		return errors.Newf(errors.NotFound, nil, "unknown feature %q", id)
	}
	delete(s.byID, id)
	s.features = slices.DeleteFunc(s.features, func(x Feature) bool { return x == f })
	return nil
}

// LookupFeature reports the feature with the given identifier.
func (s *System) LookupFeature(id string) (Feature, bool) {
	f, ok := s.byID[normID(id)]
	return f, ok
}

// GetFeature returns the feature with the given identifier or a NotFound
// error.
func (s *System) GetFeature(id string) (Feature, error) {
	f, ok := s.LookupFeature(id)
	if !ok {
		return nil, errors.Newf(errors.NotFound, nil, "unknown feature %q", normID(id))
	}
	return f, nil
}

// LookupSymbol reports the symbol with the given identifier. It fails if no
// symbolic feature, or more than one, declares the identifier.
func (s *System) LookupSymbol(id string) (*Symbol, bool) {
	sym, n := s.findSymbol(id)
	return sym, n == 1
}

// GetSymbol returns the symbol with the given identifier or an error with
// code NotFound or Ambiguous.
func (s *System) GetSymbol(id string) (*Symbol, error) {
	sym, n := s.findSymbol(id)
	switch n {
	case 0:
		return nil, errors.Newf(errors.NotFound, nil, "unknown symbol %q", normID(id))
	case 1:
		return sym, nil
	}
	return nil, errors.Newf(errors.Ambiguous, nil,
		"symbol %q is declared by %d features", normID(id), n)
}

func (s *System) findSymbol(id string) (sym *Symbol, n int) {
	id = normID(id)
	for _, f := range s.features {
		sf, ok := f.(*SymbolicFeature)
		if !ok {
			continue
		}
		if x, ok := sf.byID[id]; ok {
			sym = x
			n++
		}
	}
	return sym, n
}

// Features returns the registered features in insertion order.
func (s *System) Features() []Feature {
	return slices.Clone(s.features)
}

// Len reports the number of registered features.
func (s *System) Len() int { return len(s.features) }

// Freeze makes s and all its features read-only.
func (s *System) Freeze() {
	s.frozen = true
	for _, f := range s.features {
		f.Freeze()
	}
}

// IsFrozen reports whether s is read-only.
func (s *System) IsFrozen() bool { return s.frozen }

func (s *System) checkMutable() {
	if s.frozen {
		panic(errors.Newf(errors.Frozen, nil, "feature system is read-only"))
	}
}
