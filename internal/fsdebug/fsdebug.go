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

// Package fsdebug holds the FSTRUCT_DEBUG configuration.
package fsdebug

import (
	"sync"

	"cuelang.org/fstruct/internal/envflag"
)

// EnvVar is the environment variable from which Flags is initialized.
const EnvVar = "FSTRUCT_DEBUG"

// Flags holds the set of global FSTRUCT_DEBUG flags. It is initialized by Init.
var Flags Config

// Config holds the set of known FSTRUCT_DEBUG flags.
//
// Entries are listed by fstool help; keep the descriptions in
// cmd/fstool/cmd/root.go in sync.
type Config struct {
	// Strict sets whether internal assertion failures panic.
	Strict bool

	// LogUnify sets the log level for the unifier.
	// There are currently only two levels:
	//
	//	0: no logging
	//	1: logging
	LogUnify int

	// SortFeatures forces features in printed structures to be sorted
	// lexicographically by identifier instead of by insertion order.
	SortFeatures bool

	// NWise bounds the number of disjunctions that are checked jointly
	// for consistency once no disjunction collapses by itself. One
	// disables joint checking; zero means no bound.
	NWise int
}

// Init parses FSTRUCT_DEBUG into Flags once and reports any parse error on
// every call.
func Init() error {
	return initOnce()
}

var initOnce = sync.OnceValue(func() error {
	return envflag.Init(&Flags, EnvVar)
})
