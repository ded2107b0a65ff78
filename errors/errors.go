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

// Package errors defines shared types for handling feature structure errors.
//
// Failures that are a property of the linguistic data, such as a failed
// unification or a lookup miss, are not errors: they are reported as a
// boolean result. The errors in this package describe malformed input
// (schemas, literals) or contract violations by calling code. The latter
// are raised as panics with an Error value, which can be recovered and
// inspected with Is.
package errors // import "cuelang.org/fstruct/errors"

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// New is a convenience wrapper for errors.New in the core library.
// It does not return an Error.
func New(msg string) error {
	return errors.New(msg)
}

// Is reports whether any error in err's chain matches target.
//
// A Code can be used as a target to test for errors of that code:
//
//	if errors.Is(err, errors.Frozen) { ... }
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target, and if so,
// sets target to that error value and returns true.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if err's
// type contains an Unwrap method returning error. Otherwise, Unwrap returns
// nil.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// A Code classifies an error. Only the code of an error may influence
// control flow.
type Code int8

const (
	// Unknown is the code of errors that did not originate in this module.
	Unknown Code = iota

	// NotFound indicates a reference to an unregistered feature or symbol.
	NotFound

	// Duplicate indicates an attempt to register an identifier twice.
	Duplicate

	// Ambiguous indicates an identifier that resolves to more than one
	// entity, such as a symbol id declared by two features.
	Ambiguous

	// Frozen indicates an attempt to mutate a frozen value, feature or
	// feature system.
	Frozen

	// NotFrozen indicates an operation that requires a frozen value.
	NotFrozen

	// Invalid indicates a value that violates a structural invariant, for
	// instance a symbol set mixing symbols of different features.
	Invalid

	// Syntax indicates malformed encoded input.
	Syntax
)

var codeNames = [...]string{
	Unknown:   "unknown error",
	NotFound:  "not found",
	Duplicate: "duplicate",
	Ambiguous: "ambiguous",
	Frozen:    "frozen",
	NotFrozen: "not frozen",
	Invalid:   "invalid",
	Syntax:    "syntax error",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error implements error so that a Code can be used as the target of Is.
func (c Code) Error() string { return c.String() }

// Error is the common error message.
type Error interface {
	error

	// Code reports the class of error.
	Code() Code

	// Path returns the feature path at which the error occurred, if any.
	Path() []string

	// Msg returns the unformatted error message and its arguments for
	// human consumption.
	Msg() (format string, args []interface{})
}

type fsError struct {
	code   Code
	path   []string
	format string
	args   []interface{}

	// The underlying error that triggered this one, if any.
	err error
}

// Newf creates an Error with the given code, feature path and message.
func Newf(c Code, path []string, format string, args ...interface{}) Error {
	return &fsError{
		code:   c,
		path:   slices.Clone(path),
		format: format,
		args:   args,
	}
}

// Wrapf creates an Error with the given code, path and message that wraps
// err.
func Wrapf(err error, c Code, path []string, format string, args ...interface{}) Error {
	return &fsError{
		code:   c,
		path:   slices.Clone(path),
		format: format,
		args:   args,
		err:    err,
	}
}

// Promote converts a regular Go error to an Error if it isn't already one.
func Promote(err error, msg string) Error {
	switch x := err.(type) {
	case nil:
		return nil
	case Error:
		return x
	default:
		if msg == "" {
			return Wrapf(err, Unknown, nil, "")
		}
		return Wrapf(err, Unknown, nil, "%s", msg)
	}
}

// Append combines two errors, flattening Lists as necessary.
func Append(a, b error) error {
	var list List
	list.Add(a)
	list.Add(b)
	return list.Err()
}

// CodeOf reports the code of the first Error in err's chain. It returns
// Unknown if there is none.
func CodeOf(err error) Code {
	var e Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return Unknown
}

func (e *fsError) Code() Code     { return e.code }
func (e *fsError) Path() []string { return e.path }
func (e *fsError) Unwrap() error  { return e.err }

func (e *fsError) Msg() (string, []interface{}) {
	return e.format, e.args
}

func (e *fsError) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.code
}

func (e *fsError) Error() string {
	var b strings.Builder
	if len(e.path) > 0 {
		b.WriteString(strings.Join(e.path, "."))
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, e.format, e.args...)
	if e.err != nil {
		if e.format != "" && !strings.HasSuffix(b.String(), ": ") {
			b.WriteString(": ")
		}
		b.WriteString(e.err.Error())
	}
	return b.String()
}

// List is a list of Errors.
// The zero value for a List is an empty List ready to use.
type List []Error

// Add adds err to the list. Errors that are not of type Error are
// promoted. Nested lists are flattened.
func (p *List) Add(err error) {
	switch x := err.(type) {
	case nil:
	case List:
		*p = append(*p, x...)
	case Error:
		*p = append(*p, x)
	default:
		*p = append(*p, Promote(err, ""))
	}
}

// Reset resets a List to no errors.
func (p *List) Reset() { *p = (*p)[0:0] }

// List implements the sort Interface.
func (p List) Len() int      { return len(p) }
func (p List) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p List) Less(i, j int) bool {
	if c := comparePath(p[i].Path(), p[j].Path()); c != 0 {
		return c < 0
	}
	return p[i].Error() < p[j].Error()
}

func comparePath(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Sort sorts a List by path and then by message.
func (p List) Sort() {
	slices.SortStableFunc(p, func(a, b Error) int {
		if c := comparePath(a.Path(), b.Path()); c != 0 {
			return c
		}
		return strings.Compare(a.Error(), b.Error())
	})
}

// A List implements the error interface.
func (p List) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", p[0], len(p)-1)
}

// Is reports whether any of the errors in the list matches target.
func (p List) Is(target error) bool {
	for _, e := range p {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}

// Err returns an error equivalent to this error list.
// If the list is empty, Err returns nil.
func (p List) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// Errors reports the individual errors associated with err.
func Errors(err error) []Error {
	if err == nil {
		return nil
	}
	var list List
	if errors.As(err, &list) {
		return list
	}
	var e Error
	if errors.As(err, &e) {
		return []Error{e}
	}
	return []Error{Promote(err, "")}
}

// Print is a utility function that prints a list of errors to w,
// one error per line, if the err parameter is a List. Otherwise
// it prints the err string.
func Print(w io.Writer, err error) {
	for _, e := range Errors(err) {
		fmt.Fprintln(w, e)
	}
}
