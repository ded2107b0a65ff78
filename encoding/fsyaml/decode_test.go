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

package fsyaml_test

import (
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"cuelang.org/fstruct/encoding/fsyaml"
	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
)

const phonology = `
features:
- id: voice
  type: symbolic
  symbols: ["+", "-"]
  default: "-"
- id: place
  type: symbolic
  description: place of articulation
  symbols:
  - {id: bilabial, description: both lips}
  - alveolar
  - velar
- id: nasal
  type: symbolic
  symbols: ["+", "-"]
- id: cont
  type: symbolic
  symbols: ["+", "-"]
- id: num
  type: symbolic
  symbols: [sg, pl]
- id: head
  type: complex
  default: {num: sg}
- id: agr
  type: complex
- id: gloss
  type: string
`

func newSystem(t *testing.T) *fs.System {
	sys, err := fsyaml.DecodeSystem("schema.yaml", []byte(phonology))
	require.NoError(t, err)
	sys.Freeze()
	return sys
}

func TestDecodeSystem(t *testing.T) {
	sys := newSystem(t)
	require.Equal(t, 8, sys.Len())

	ids := []string{}
	for _, f := range sys.Features() {
		ids = append(ids, f.ID())
	}
	assert.Equal(t, []string{"voice", "place", "nasal", "cont", "num", "head", "agr", "gloss"}, ids)

	f, err := sys.GetFeature("place")
	require.NoError(t, err)
	place := f.(*fs.SymbolicFeature)
	assert.Equal(t, "place of articulation", place.Description())
	assert.Equal(t, 3, place.Len())
	s, ok := place.Symbol("bilabial")
	require.True(t, ok)
	assert.Equal(t, "both lips", s.Description())

	f, _ = sys.GetFeature("voice")
	require.NotNil(t, f.Default())
	assert.Equal(t, "-", f.Default().String())
	assert.True(t, f.Default().IsFrozen())

	// The default of head refers to a feature declared after it.
	f, _ = sys.GetFeature("head")
	assert.Equal(t, "[num:sg]", f.Default().String())

	f, _ = sys.GetFeature("gloss")
	assert.IsType(t, &fs.StringFeature{}, f)
	assert.Nil(t, f.Default())
}

func TestDecodeSystemErrors(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		code errors.Code
		msg  string
	}{{
		name: "unknown type",
		in:   "features: [{id: voice, type: binary}]",
		code: errors.Syntax,
		msg:  `unknown feature type "binary"`,
	}, {
		name: "missing id",
		in:   "features: [{type: string}]",
		code: errors.Syntax,
		msg:  "feature without id",
	}, {
		name: "duplicate feature",
		in:   "features: [{id: gloss, type: string}, {id: gloss, type: complex}]",
		code: errors.Duplicate,
		msg:  `duplicate feature "gloss"`,
	}, {
		name: "duplicate symbol",
		in:   "features: [{id: num, type: symbolic, symbols: [sg, pl, sg]}]",
		code: errors.Duplicate,
		msg:  `duplicate or empty symbol "sg"`,
	}, {
		name: "symbols of string feature",
		in:   "features: [{id: gloss, type: string, symbols: [a]}]",
		code: errors.Syntax,
		msg:  "symbols declared for string feature",
	}, {
		name: "unknown default",
		in:   "features: [{id: num, type: symbolic, symbols: [sg, pl], default: du}]",
		code: errors.NotFound,
		msg:  `unknown symbol "du"`,
	}, {
		name: "malformed",
		in:   "features: [",
		code: errors.Syntax,
		msg:  "schema.yaml:",
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fsyaml.DecodeSystem("schema.yaml", []byte(tc.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.code)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestTooManySymbols(t *testing.T) {
	var b strings.Builder
	b.WriteString("features:\n- id: big\n  type: symbolic\n  symbols:\n")
	for i := 0; i <= fs.MaxSymbols; i++ {
		b.WriteString("  - s")
		b.WriteString(strings.Repeat("x", i))
		b.WriteString("\n")
	}
	_, err := fsyaml.DecodeSystem("schema.yaml", []byte(b.String()))
	assert.ErrorIs(t, err, errors.Invalid)
}

func TestDecodeStruct(t *testing.T) {
	sys := newSystem(t)
	testCases := []struct {
		name string
		in   string
		want string
	}{{
		name: "empty",
		in:   "",
		want: "[]",
	}, {
		name: "null",
		in:   "null",
		want: "[]",
	}, {
		name: "symbols",
		in: `
voice: "+"
place: [velar, bilabial]
`,
		want: "[voice:+, place:{bilabial, velar}]",
	}, {
		name: "explicit value",
		in:   `place: {$value: alveolar}`,
		want: "[place:alveolar]",
	}, {
		name: "negated symbols",
		in:   `place: {$not: velar}`,
		want: "[place:{bilabial, alveolar}]",
	}, {
		name: "strings",
		in: `
gloss: {$not: [cat, dog]}
`,
		want: `[gloss:!{"cat", "dog"}]`,
	}, {
		name: "any",
		in: `
gloss: {$any: true}
nasal: {$any: true}
head: {}
`,
		want: "[gloss:*, nasal:{+, -}, head:[]]",
	}, {
		name: "variables",
		in: `
voice: {$var: a}
nasal: {$var: a, $agree: false}
`,
		want: "[voice:?a, nasal:!?a]",
	}, {
		name: "anchors",
		in: `
head:
  agr: &x {num: pl}
agr: *x
`,
		want: "[head:[agr:<1>[num:pl]], agr:<1>]",
	}, {
		name: "references",
		in: `
head:
  agr: {$id: x, num: pl}
agr: {$ref: x}
`,
		want: "[head:[agr:<1>[num:pl]], agr:<1>]",
	}, {
		name: "shared simple value",
		in: `
head: {gloss: {$id: g, $value: dog}}
gloss: {$ref: g}
`,
		want: `[head:[gloss:<1>"dog"], gloss:<1>]`,
	}, {
		name: "cycle",
		in: `
head: {$id: h, num: sg, agr: {$ref: h}}
`,
		want: "[head:<1>[num:sg, agr:<1>]]",
	}, {
		name: "disjunction",
		in: `
voice: "+"
$or:
- {nasal: "+"}
- {cont: "-"}
`,
		want: "[voice:+, ([nasal:+] || [cont:-])]",
	}, {
		name: "two disjunctions",
		in: `
$or:
- [{voice: "+"}, {voice: "-"}]
- [{nasal: "+"}, {nasal: "-"}]
`,
		want: "[([voice:+] || [voice:-]), ([nasal:+] || [nasal:-])]",
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := fsyaml.DecodeStruct(sys, "x.yaml", []byte(tc.in))
			require.NoError(t, err)
			if got := s.String(); got != tc.want {
				t.Errorf("got %s; want %s\n%s", got, tc.want, pretty.Sprint(s.Features()))
			}
			assert.False(t, s.IsFrozen())
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	sys := newSystem(t)
	testCases := []struct {
		name string
		in   string
		code errors.Code
		path []string
		msg  string
	}{{
		name: "unknown feature",
		in:   "tone: high",
		code: errors.NotFound,
		path: []string{"tone"},
		msg:  `x.yaml:1: unknown feature "tone"`,
	}, {
		name: "unknown symbol",
		in:   "voice: \"+\"\nplace: uvular",
		code: errors.NotFound,
		path: []string{"place"},
		msg:  `x.yaml:2: unknown symbol "uvular" of feature "place"`,
	}, {
		name: "nested path",
		in:   "head:\n  agr:\n    tone: high",
		code: errors.NotFound,
		path: []string{"head", "agr", "tone"},
		msg:  "x.yaml:3:",
	}, {
		name: "undefined reference",
		in:   "agr: {$ref: x}\nhead: {$id: x}",
		code: errors.NotFound,
		path: []string{"agr"},
		msg:  `reference to undefined tag "x"`,
	}, {
		name: "duplicate tag",
		in:   "agr: {$id: x}\nhead: {$id: x}",
		code: errors.Duplicate,
		path: []string{"head"},
		msg:  `duplicate tag "x"`,
	}, {
		name: "shared value of other kind",
		in:   "head: &h {num: sg}\nvoice: *h",
		code: errors.Invalid,
		path: []string{"voice"},
	}, {
		name: "negated symbol domain",
		in:   "voice: \"+\"\nnasal: {$not: [\"+\", \"-\"]}",
		code: errors.Invalid,
		path: []string{"nasal"},
		msg:  `x.yaml:2: negation of all symbols of feature "nasal"`,
	}, {
		name: "struct for simple feature",
		in:   "voice: {nasal: \"+\"}",
		code: errors.Syntax,
		path: []string{"voice"},
	}, {
		name: "scalar for complex feature",
		in:   "head: sg",
		code: errors.Syntax,
		path: []string{"head"},
		msg:  "expected mapping, found scalar",
	}, {
		name: "conflicting keys",
		in:   "voice: {$value: \"+\", $var: a}",
		code: errors.Syntax,
		path: []string{"voice"},
		msg:  "$var conflicts with $value",
	}, {
		name: "agree without variable",
		in:   "voice: {$value: \"+\", $agree: true}",
		code: errors.Syntax,
		path: []string{"voice"},
	}, {
		name: "single alternative",
		in:   "$or: [{voice: \"+\"}]",
		code: errors.Syntax,
		msg:  "at least two alternatives",
	}, {
		name: "unknown reserved key",
		in:   "$all: x",
		code: errors.Syntax,
	}, {
		name: "multiple documents",
		in:   "voice: \"+\"\n---\nvoice: \"-\"",
		code: errors.Syntax,
		msg:  "expected a single YAML document",
	}, {
		name: "malformed",
		in:   "voice: [",
		code: errors.Syntax,
		msg:  "x.yaml:",
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fsyaml.DecodeStruct(sys, "x.yaml", []byte(tc.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.code)
			if tc.path != nil {
				assert.Equal(t, tc.path, errors.Errors(err)[0].Path())
			}
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestDecodeNode(t *testing.T) {
	sys := newSystem(t)
	var doc struct {
		Rules []yaml.Node `yaml:"rules"`
	}
	err := yaml.Unmarshal([]byte(`
rules:
- {voice: "+"}
- {voice: "-", nasal: "+"}
`), &doc)
	require.NoError(t, err)
	require.Len(t, doc.Rules, 2)

	var got []string
	for i := range doc.Rules {
		s, err := fsyaml.Decode(sys, "rules.yaml", &doc.Rules[i])
		require.NoError(t, err)
		got = append(got, s.String())
	}
	assert.Equal(t, []string{"[voice:+]", "[voice:-, nasal:+]"}, got)
}
