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

package envflag

import (
	"reflect"
	"testing"

	"github.com/go-quicktest/qt"
)

type unifierFlags struct {
	Strict    bool
	LogUnify  int
	Sort      bool   `envflag:"default:true"`
	TraceFile string `envflag:"default:stderr"`

	hidden bool
}

var defaultFlags = unifierFlags{Sort: true, TraceFile: "stderr"}

func TestParse(t *testing.T) {
	with := func(f func(x *unifierFlags)) unifierFlags {
		x := defaultFlags
		f(&x)
		return x
	}
	testCases := []struct {
		name    string
		env     string
		want    unifierFlags
		err     string
		invalid bool
	}{{
		name: "empty",
		want: defaultFlags,
	}, {
		name: "commas only",
		env:  ",,",
		want: defaultFlags,
	}, {
		name: "bool shorthand",
		env:  "strict",
		want: with(func(x *unifierFlags) { x.Strict = true }),
	}, {
		name: "stray commas",
		env:  ",strict,,",
		want: with(func(x *unifierFlags) { x.Strict = true }),
	}, {
		name: "repeated",
		env:  "logunify=1,logunify=2",
		want: with(func(x *unifierFlags) { x.LogUnify = 2 }),
	}, {
		name: "case insensitive",
		env:  "LogUnify=1,STRICT=true",
		want: with(func(x *unifierFlags) { x.LogUnify = 1; x.Strict = true }),
	}, {
		name: "override defaults",
		env:  "sort=0,tracefile=",
		want: unifierFlags{},
	}, {
		name: "string value",
		env:  "tracefile=/tmp/trace",
		want: with(func(x *unifierFlags) { x.TraceFile = "/tmp/trace" }),
	}, {
		name: "unknown",
		env:  "strict,nwise=3",
		want: with(func(x *unifierFlags) { x.Strict = true }),
		err:  `unknown flag "nwise=3"`,
	}, {
		name: "several unknown",
		env:  "a,strict,b",
		want: with(func(x *unifierFlags) { x.Strict = true }),
		err:  "unknown flag \"a\"\nunknown flag \"b\"",
	}, {
		name: "unexported",
		env:  "hidden",
		want: defaultFlags,
		err:  `unknown flag "hidden"`,
	}, {
		name: "string without value",
		env:  "tracefile",
		want: defaultFlags,
		err:  `value needed for string flag "tracefile"`,
	}, {
		name:    "int without value",
		env:     "logunify=",
		want:    defaultFlags,
		invalid: true,
	}, {
		name:    "bad bool",
		env:     "strict=2",
		want:    defaultFlags,
		invalid: true,
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var x unifierFlags
			err := Parse(&x, tc.env)
			switch {
			case tc.invalid:
				qt.Assert(t, qt.ErrorIs(err, ErrInvalid))
			case tc.err != "":
				qt.Assert(t, qt.ErrorMatches(err, tc.err))
			default:
				qt.Assert(t, qt.IsNil(err))
			}
			qt.Assert(t, qt.Equals(x, tc.want))
		})
	}
}

type legacyFlags struct {
	NWise bool `envflag:"deprecated"`
	Share bool `envflag:"deprecated,default:true"`
}

func TestDeprecated(t *testing.T) {
	var x legacyFlags
	qt.Assert(t, qt.IsNil(Parse(&x, "nwise=false,share=1")))
	qt.Assert(t, qt.Equals(x, legacyFlags{Share: true}))

	err := Parse(&x, "share=0")
	qt.Assert(t, qt.ErrorMatches(err, `cannot change default value of deprecated flag "share"`))
	qt.Assert(t, qt.IsTrue(x.Share))

	err = Parse(&x, "nwise")
	qt.Assert(t, qt.ErrorMatches(err, `cannot change default value of deprecated flag "nwise"`))
}

func TestBadTags(t *testing.T) {
	var a struct {
		N int `envflag:"default:many"`
	}
	qt.Assert(t, qt.ErrorIs(Parse(&a, ""), ErrInvalid))

	var b struct {
		B bool `envflag:"deprecated:yes"`
	}
	qt.Assert(t, qt.ErrorMatches(Parse(&b, ""), "cannot have a value for deprecated tag"))

	var c struct {
		B bool `envflag:"hidden"`
	}
	qt.Assert(t, qt.ErrorMatches(Parse(&c, ""), `unknown envflag tag "hidden"`))
}

func TestDescribe(t *testing.T) {
	flags, err := Describe[unifierFlags]()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(flags, []Flag{
		{Name: "strict", Kind: reflect.Bool, Default: "false"},
		{Name: "logunify", Kind: reflect.Int, Default: "0"},
		{Name: "sort", Kind: reflect.Bool, Default: "true"},
		{Name: "tracefile", Kind: reflect.String, Default: "stderr"},
	}))

	flags, err = Describe[legacyFlags]()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(flags, []Flag{
		{Name: "nwise", Kind: reflect.Bool, Default: "false", Deprecated: true},
		{Name: "share", Kind: reflect.Bool, Default: "true", Deprecated: true},
	}))
}

func TestInit(t *testing.T) {
	t.Setenv("FSTRUCT_TEST_FLAGS", "logunify=1,bogus")
	var x unifierFlags
	err := Init(&x, "FSTRUCT_TEST_FLAGS")
	qt.Assert(t, qt.ErrorMatches(err, `cannot parse FSTRUCT_TEST_FLAGS: unknown flag "bogus"`))
	qt.Assert(t, qt.Equals(x.LogUnify, 1))
}
