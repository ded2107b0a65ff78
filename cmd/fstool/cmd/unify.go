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
	"fmt"

	"github.com/spf13/cobra"

	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
)

func newUnifyCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unify <file> [files]",
		Short: "unify feature structures",
		Long: `unify reads the feature structures in the given files and unifies
them from left to right. It prints the result, or fails if the
structures are inconsistent.

Variables bound while unifying are shared across all files. With
--bindings, the bindings are printed after the result.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, runUnify),
	}
	cmd.Flags().Bool(string(flagBindings), false, "print variable bindings")
	return cmd
}

var errUnificationFailed = errors.New("unification failed")

func runUnify(cmd *Command, args []string) error {
	a, err := load(cmd, args)
	if err != nil {
		return err
	}
	b := fs.NewBindings()
	opts := unifyOptions(cmd, b)
	out := a[0]
	for _, x := range a[1:] {
		var ok bool
		if out, ok = out.Unify(x, opts...); !ok {
			return errUnificationFailed
		}
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, out)
	if flagBindings.Bool(cmd) {
		fmt.Fprintln(w, b)
	}
	return nil
}

func newCheckCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file> <file>",
		Short: "report whether two feature structures are unifiable",
		Long: `check reports whether the feature structures in the two given files
are unifiable, printing "unifiable" or "not unifiable". It exits with a
non-zero code in the latter case.
`,
		Args: cobra.ExactArgs(2),
		RunE: mkRunE(c, runCheck),
	}
	return cmd
}

func runCheck(cmd *Command, args []string) error {
	a, err := load(cmd, args)
	if err != nil {
		return err
	}
	if !a[0].IsUnifiable(a[1], unifyOptions(cmd, fs.NewBindings())...) {
		fmt.Fprintln(cmd.Stderr(), "not unifiable")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "unifiable")
	return nil
}

func newSubsumesCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subsumes <file> <file>",
		Short: "report whether a feature structure subsumes another",
		Long: `subsumes prints true if the feature structure in the first file
subsumes the one in the second, that is, if unifying the two yields the
second one. It prints false otherwise.
`,
		Args: cobra.ExactArgs(2),
		RunE: mkRunE(c, runSubsumes),
	}
	return cmd
}

func runSubsumes(cmd *Command, args []string) error {
	a, err := load(cmd, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), a[0].Subsumes(a[1], unifyOptions(cmd, fs.NewBindings())...))
	return nil
}
