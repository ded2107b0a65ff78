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

package fs_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"cuelang.org/fstruct/encoding/fsyaml"
	"cuelang.org/fstruct/fs"
)

var update = flag.Bool("update", false, "update the test output")

// TestUnifyFiles reads the testdata/unify/*.txtar files, unifies the
// structures in a.yaml and b.yaml and compares the result against
// out/unify. The features are read from schema.yaml if the archive has one
// and from testdata/phonology.yaml otherwise.
func TestUnifyFiles(t *testing.T) {
	defaultSchema, err := os.ReadFile(filepath.Join("testdata", "phonology.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	files, err := filepath.Glob(filepath.Join("testdata", "unify", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			a, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			schema := defaultSchema
			var in [2][]byte
			outIndex := -1
			for i, f := range a.Files {
				switch f.Name {
				case "schema.yaml":
					schema = f.Data
				case "a.yaml":
					in[0] = f.Data
				case "b.yaml":
					in[1] = f.Data
				case "out/unify":
					outIndex = i
				}
			}

			sys, err := fsyaml.DecodeSystem("schema.yaml", schema)
			if err != nil {
				t.Fatal(err)
			}
			sys.Freeze()
			x, err := fsyaml.DecodeStruct(sys, "a.yaml", in[0])
			if err != nil {
				t.Fatal(err)
			}
			y, err := fsyaml.DecodeStruct(sys, "b.yaml", in[1])
			if err != nil {
				t.Fatal(err)
			}

			var got strings.Builder
			b := fs.NewBindings()
			if out, ok := x.Unify(y, fs.WithBindings(b)); ok {
				got.WriteString(out.String())
				got.WriteString("\n")
				if b.Len() > 0 {
					got.WriteString("bindings: ")
					got.WriteString(b.String())
					got.WriteString("\n")
				}
			} else {
				got.WriteString("fail\n")
			}

			if outIndex < 0 {
				a.Files = append(a.Files, txtar.File{Name: "out/unify"})
				outIndex = len(a.Files) - 1
			}
			want := string(a.Files[outIndex].Data)
			if got.String() == want {
				return
			}
			if *update {
				a.Files[outIndex].Data = []byte(got.String())
				if err := os.WriteFile(file, txtar.Format(a), 0o666); err != nil {
					t.Fatal(err)
				}
				return
			}
			t.Errorf("unexpected result (-want +got):\n%s", cmp.Diff(want, got.String()))
		})
	}
}
