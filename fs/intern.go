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

// An Interner holds a set of unique frozen structs. Interning two structs
// that are Equal returns the same instance.
//
// An Interner is not safe for concurrent use.
type Interner struct {
	entries map[uint64][]*Struct
	n       int
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{entries: map[uint64][]*Struct{}}
}

// Intern freezes x and returns the canonical struct equal to x.
func (in *Interner) Intern(x *Struct) *Struct {
	x = x.Deref()
	x.Freeze()
	h := x.FrozenHash()
	entries := in.entries[h]
	for _, e := range entries {
		if e == x || e.Equals(x) {
			return e
		}
	}
	in.entries[h] = append(entries, x)
	in.n++
	return x
}

// Len reports the number of unique structs held by in.
func (in *Interner) Len() int { return in.n }
