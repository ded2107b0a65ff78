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

package cmd

import (
	"os"

	"cuelang.org/fstruct/encoding/fsyaml"
	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
)

// loadSystem reads the feature system named by the --schema flag.
// The returned system is frozen.
func loadSystem(cmd *Command) (*fs.System, error) {
	file := flagSchema.String(cmd)
	if file == "" {
		return nil, errors.New("no feature system given; use --schema")
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	sys, err := fsyaml.DecodeSystem(file, b)
	if err != nil {
		return nil, err
	}
	sys.Freeze()
	return sys, nil
}

// loadStructs reads the structures in the given files.
func loadStructs(sys *fs.System, files []string) ([]*fs.Struct, error) {
	var a []*fs.Struct
	var errs errors.List
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			errs.Add(err)
			continue
		}
		s, err := fsyaml.DecodeStruct(sys, file, b)
		if err != nil {
			errs.Add(err)
			continue
		}
		a = append(a, s)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return a, nil
}

// load reads the feature system and the structures in files.
func load(cmd *Command, files []string) ([]*fs.Struct, error) {
	sys, err := loadSystem(cmd)
	if err != nil {
		return nil, err
	}
	return loadStructs(sys, files)
}

// unifyOptions returns the options for unification selected by flags.
func unifyOptions(cmd *Command, b *fs.Bindings) []fs.Option {
	opts := []fs.Option{fs.WithBindings(b)}
	if flagDefaults.Bool(cmd) {
		opts = append(opts, fs.UseDefaults())
	}
	return opts
}
