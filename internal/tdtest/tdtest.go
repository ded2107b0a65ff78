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

// Package tdtest provides support for table-driven testing.
//
// Each element of a table is run as a subtest named after its position and,
// if the element has a string field called name, that name. Results are
// compared with go-cmp, so fields need not be comparable.
package tdtest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Set is the set of tests to run.
type Set[TC any] struct {
	t *testing.T

	table []TC
	toRun []int
	match string
}

// New creates a test set from a table.
func New[TC any](t *testing.T, table []TC) *Set[TC] {
	return &Set[TC]{
		t:     t,
		table: table,
	}
}

// Select specifies which tests to run by position. It overrides any
// previous calls to Select. If no entries are given all tests are run.
func (s *Set[TC]) Select(nr ...int) *Set[TC] {
	s.toRun = nr
	return s
}

// Match restricts the tests to run to those whose name contains substr.
// Match filters independently of Select.
func (s *Set[TC]) Match(substr string) *Set[TC] {
	s.match = substr
	return s
}

// Run runs the given function for each selected element in the table.
func (s *Set[TC]) Run(fn func(t *T, tc *TC)) {
	if len(s.toRun) > 0 {
		for _, i := range s.toRun {
			s.runSingle(i, fn)
		}
		return
	}
	for i := range s.table {
		s.runSingle(i, fn)
	}
}

func (s *Set[TC]) runSingle(i int, fn func(t *T, tc *TC)) {
	name := fmt.Sprint(i)
	x := reflect.Indirect(reflect.ValueOf(s.table[i]))
	if x.Kind() == reflect.Struct {
		if f := x.FieldByName("name"); f.Kind() == reflect.String {
			if !strings.Contains(f.String(), s.match) {
				return
			}
			name += "/" + f.String()
		}
	}

	s.t.Run(name, func(t *testing.T) {
		fn(&T{T: t, iter: i}, &s.table[i])
	})
}

// T is a single test case representing an element in a table.
// It embeds *testing.T, so all functions of testing.T are available.
type T struct {
	*testing.T

	iter int // position in the table of the current subtest.
}

// Equal reports an error if actual differs from want. The optional
// msgAndArgs are a format string and its arguments describing the check.
func (t *T) Equal(want, actual any, msgAndArgs ...any) {
	t.Helper()

	diff := cmp.Diff(want, actual)
	switch {
	case diff == "":
	case len(msgAndArgs) == 0:
		t.Errorf("unexpected value (-want +got):\n%s", diff)
	default:
		format := msgAndArgs[0].(string) + " (-want +got):\n%s"
		args := append(msgAndArgs[1:], diff)
		t.Errorf(format, args...)
	}
}

// Index reports the position in the table of the current test case.
func (t *T) Index() int { return t.iter }
