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

// Package envflag populates flag structs from comma-separated
// name=value lists, typically held in an environment variable.
package envflag

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Init uses Parse with the contents of the given environment variable as input.
func Init[T any](flags *T, envVar string) error {
	err := Parse(flags, os.Getenv(envVar))
	if err != nil {
		return fmt.Errorf("cannot parse %s: %w", envVar, err)
	}
	return nil
}

// Parse initializes the fields in flags from the attached struct field tags as
// well as the contents of the given string.
//
// The struct field tag may contain a default value other than the zero value,
// such as `envflag:"default:true"` to set a boolean field to true by default.
// The tag may be marked as deprecated with `envflag:"deprecated"`, in which
// case Parse reports an error if the flag is set to anything but its default.
//
// The string is a comma-separated list of name=value pairs. For boolean
// fields the value may be omitted, meaning name=true. Names are matched case
// insensitively against the lower-cased field names. Empty elements are
// ignored, so that lists can be joined without care for separators.
func Parse[T any](flags *T, env string) error {
	fs, err := newFieldSet(flags)
	if err != nil {
		return err
	}
	var errs []error
	for _, elem := range strings.Split(env, ",") {
		if elem == "" {
			continue
		}
		if err := fs.set(elem); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// A Flag describes a single field of a flag struct.
type Flag struct {
	Name       string
	Kind       reflect.Kind
	Default    string
	Deprecated bool
}

// Describe reports the flags accepted for T, in field order.
func Describe[T any]() ([]Flag, error) {
	var x T
	fs, err := newFieldSet(&x)
	if err != nil {
		return nil, err
	}
	return fs.flags, nil
}

type fieldSet struct {
	v       reflect.Value
	index   map[string]int
	flags   []Flag
	byIndex map[int]*Flag
}

func newFieldSet(ptr any) (*fieldSet, error) {
	fv := reflect.ValueOf(ptr).Elem()
	ft := fv.Type()
	fs := &fieldSet{
		v:       fv,
		index:   make(map[string]int),
		byIndex: make(map[int]*Flag),
	}
	for i := 0; i < ft.NumField(); i++ {
		field := ft.Field(i)
		if !field.IsExported() {
			continue
		}
		f := Flag{
			Name: strings.ToLower(field.Name),
			Kind: field.Type.Kind(),
		}
		if tag, ok := field.Tag.Lookup("envflag"); ok {
			if err := fs.applyTag(&f, i, tag); err != nil {
				return nil, err
			}
		}
		if f.Default == "" {
			f.Default = fmt.Sprint(fv.Field(i).Interface())
		}
		fs.index[f.Name] = i
		fs.flags = append(fs.flags, f)
	}
	for i, f := range fs.flags {
		fs.byIndex[fs.index[f.Name]] = &fs.flags[i]
	}
	return fs, nil
}

func (fs *fieldSet) applyTag(f *Flag, i int, tag string) error {
	for _, item := range strings.Split(tag, ",") {
		key, rest, hasRest := strings.Cut(item, ":")
		switch key {
		case "default":
			val, err := parseValue(f.Name, f.Kind, rest)
			if err != nil {
				return err
			}
			fs.v.Field(i).Set(reflect.ValueOf(val))
			f.Default = rest
		case "deprecated":
			if hasRest {
				return fmt.Errorf("cannot have a value for deprecated tag")
			}
			f.Deprecated = true
		default:
			return fmt.Errorf("unknown envflag tag %q", item)
		}
	}
	return nil
}

func (fs *fieldSet) set(elem string) error {
	name, valueStr, hasValue := strings.Cut(elem, "=")
	name = strings.ToLower(name)

	i, ok := fs.index[name]
	if !ok {
		return fmt.Errorf("unknown flag %q", elem)
	}
	field := fs.v.Field(i)

	var val any
	switch {
	case hasValue:
		var err error
		if val, err = parseValue(name, field.Kind(), valueStr); err != nil {
			return err
		}
	case field.Kind() == reflect.Bool:
		// As with Go flags, -knob is short for -knob=true.
		val = true
	default:
		return fmt.Errorf("value needed for %s flag %q", field.Kind(), name)
	}

	if fs.byIndex[i].Deprecated {
		// Setting a deprecated flag to its default is allowed.
		if field.Interface() != val {
			return fmt.Errorf("cannot change default value of deprecated flag %q", name)
		}
		return nil
	}
	field.Set(reflect.ValueOf(val))
	return nil
}

func parseValue(name string, kind reflect.Kind, str string) (val any, err error) {
	switch kind {
	case reflect.Bool:
		val, err = strconv.ParseBool(str)
	case reflect.Int:
		val, err = strconv.Atoi(str)
	case reflect.String:
		val = str
	default:
		return nil, errInvalid{fmt.Errorf("unsupported kind %s", kind)}
	}
	if err != nil {
		return nil, errInvalid{fmt.Errorf("invalid %s value for %s: %v", kind, name, err)}
	}
	return val, nil
}

// An ErrInvalid indicates a malformed input string.
var ErrInvalid = errors.New("invalid value")

type errInvalid struct{ error }

func (errInvalid) Is(err error) bool {
	return err == ErrInvalid
}
